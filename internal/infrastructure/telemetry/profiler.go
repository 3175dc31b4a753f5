package telemetry

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/grafana/pyroscope-go"
	"go.uber.org/zap"
)

// ProfilerConfig configures continuous profiling through Pyroscope
type ProfilerConfig struct {
	Enabled           bool
	ServerAddress     string
	ApplicationName   string
	BasicAuthUser     string
	BasicAuthPassword string

	// Contention adds mutex and block profiles, which raise runtime sampling rates
	Contention bool
}

// DefaultProfileTypes are collected whenever profiling is on
var DefaultProfileTypes = []pyroscope.ProfileType{
	pyroscope.ProfileCPU,
	pyroscope.ProfileAllocSpace,
	pyroscope.ProfileInuseSpace,
	pyroscope.ProfileGoroutines,
}

var contentionProfileTypes = []pyroscope.ProfileType{
	pyroscope.ProfileMutexCount,
	pyroscope.ProfileMutexDuration,
	pyroscope.ProfileBlockCount,
	pyroscope.ProfileBlockDuration,
}

const contentionSampleRate = 5

// Profiler is a stoppable Pyroscope session. A disabled profiler is a no-op.
type Profiler struct {
	session *pyroscope.Profiler
	logger  *zap.Logger
	once    sync.Once
	err     error
}

// NewProfiler starts profiling when cfg.Enabled
func NewProfiler(cfg ProfilerConfig, logger *zap.Logger) (*Profiler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Profiler{logger: logger}
	if !cfg.Enabled {
		return p, nil
	}
	if cfg.ServerAddress == "" || cfg.ApplicationName == "" {
		return nil, errors.New("profiler: server address and application name are required")
	}

	types := append([]pyroscope.ProfileType(nil), DefaultProfileTypes...)
	if cfg.Contention {
		runtime.SetMutexProfileFraction(contentionSampleRate)
		runtime.SetBlockProfileRate(contentionSampleRate)
		types = append(types, contentionProfileTypes...)
	}

	tags := map[string]string{}
	if host, err := os.Hostname(); err == nil {
		tags["hostname"] = host
	}

	session, err := pyroscope.Start(pyroscope.Config{
		ApplicationName:   cfg.ApplicationName,
		ServerAddress:     cfg.ServerAddress,
		BasicAuthUser:     cfg.BasicAuthUser,
		BasicAuthPassword: cfg.BasicAuthPassword,
		Logger:            pyroscopeLogger{logger.Named("pyroscope").Sugar()},
		Tags:              tags,
		ProfileTypes:      types,
	})
	if err != nil {
		return nil, fmt.Errorf("start profiler: %w", err)
	}
	p.session = session
	logger.Info("Profiler started",
		zap.String("server", cfg.ServerAddress),
		zap.Int("profile_types", len(types)),
	)
	return p, nil
}

// Enabled reports whether a session is running
func (p *Profiler) Enabled() bool { return p.session != nil }

// Stop flushes and ends the session. Later calls return the first result.
func (p *Profiler) Stop() error {
	p.once.Do(func() {
		if p.session != nil {
			p.err = p.session.Stop()
		}
	})
	return p.err
}

type pyroscopeLogger struct {
	*zap.SugaredLogger
}
