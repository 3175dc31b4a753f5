// Package storage keeps expense receipts in S3-compatible object storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	financeapp "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/finance"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/infrastructure/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"
)

var _ financeapp.ReceiptStorage = (*ReceiptStore)(nil)

// ErrEmptyKey is returned when an object key is blank
var ErrEmptyKey = errors.New("storage key is required")

// ReceiptStore presigns receipt uploads and downloads against one bucket.
// Receipts never pass through the API process.
type ReceiptStore struct {
	client     *s3.Client
	presigner  *s3.PresignClient
	bucket     string
	defaultTTL time.Duration
	now        func() time.Time
	logger     *zap.Logger
}

// Option configures a ReceiptStore
type Option func(*ReceiptStore)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *ReceiptStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDefaultTTL sets the presign lifetime used when callers pass zero
func WithDefaultTTL(d time.Duration) Option {
	return func(s *ReceiptStore) {
		if d > 0 {
			s.defaultTTL = d
		}
	}
}

// NewReceiptStore builds a store from config. Endpoints without a scheme get
// https when UseSSL is set and http otherwise.
func NewReceiptStore(cfg *config.StorageConfig, opts ...Option) (*ReceiptStore, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	switch {
	case cfg.Bucket == "":
		return nil, errors.New("storage bucket is required")
	case cfg.AccessKey == "" || cfg.SecretKey == "":
		return nil, errors.New("storage credentials are required")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	endpoint := normalizeEndpoint(cfg.Endpoint, cfg.UseSSL)
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	store := &ReceiptStore{
		client:     client,
		presigner:  s3.NewPresignClient(client),
		bucket:     cfg.Bucket,
		defaultTTL: 15 * time.Minute,
		now:        time.Now,
		logger:     zap.NewNop(),
	}
	if cfg.PresignExpiration > 0 {
		store.defaultTTL = cfg.PresignExpiration
	}
	for _, opt := range opts {
		opt(store)
	}
	return store, nil
}

// normalizeEndpoint returns "" for the AWS default endpoint
func normalizeEndpoint(endpoint string, useSSL bool) string {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if endpoint == "" || strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	if useSSL {
		return "https://" + endpoint
	}
	return "http://" + endpoint
}

// Bucket returns the receipts bucket name
func (s *ReceiptStore) Bucket() string {
	return s.bucket
}

// EnsureBucket creates the bucket on first start
func (s *ReceiptStore) EnsureBucket(ctx context.Context) error {
	err := s.Ping(ctx)
	if err == nil {
		return nil
	}
	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return err
	}

	s.logger.Info("Creating receipts bucket", zap.String("bucket", s.bucket))
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)})
	var owned *types.BucketAlreadyOwnedByYou
	if err != nil && !errors.As(err, &owned) {
		return fmt.Errorf("create bucket %s: %w", s.bucket, err)
	}
	return nil
}

// Ping checks that the bucket is reachable; it backs the storage health check
func (s *ReceiptStore) Ping(ctx context.Context) error {
	if _, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)}); err != nil {
		return fmt.Errorf("head bucket %s: %w", s.bucket, err)
	}
	return nil
}

// GenerateUploadURL presigns a PUT for storageKey
func (s *ReceiptStore) GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	if strings.TrimSpace(storageKey) == "" {
		return "", time.Time{}, ErrEmptyKey
	}
	ttl := s.ttl(expiresIn)
	input := &s3.PutObjectInput{Bucket: aws.String(s.bucket), Key: aws.String(storageKey)}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	req, err := s.presigner.PresignPutObject(ctx, input, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("presign upload: %w", err)
	}
	return req.URL, s.now().Add(ttl), nil
}

// GenerateDownloadURL presigns a GET for storageKey
func (s *ReceiptStore) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	if strings.TrimSpace(storageKey) == "" {
		return "", time.Time{}, ErrEmptyKey
	}
	ttl := s.ttl(expiresIn)
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(storageKey),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("presign download: %w", err)
	}
	return req.URL, s.now().Add(ttl), nil
}

// Exists reports whether a receipt was uploaded under storageKey
func (s *ReceiptStore) Exists(ctx context.Context, storageKey string) (bool, error) {
	if strings.TrimSpace(storageKey) == "" {
		return false, ErrEmptyKey
	}
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(storageKey),
	})
	if err == nil {
		return true, nil
	}
	var notFound *types.NotFound
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &notFound) || errors.As(err, &noSuchKey) {
		return false, nil
	}
	return false, fmt.Errorf("head object: %w", err)
}

func (s *ReceiptStore) ttl(requested time.Duration) time.Duration {
	if requested > 0 {
		return requested
	}
	return s.defaultTTL
}
