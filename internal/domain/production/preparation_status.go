package production

// PreparationStatus tracks the kitchen workflow of a production log.
// It is independent of the approval status.
type PreparationStatus string

const (
	PreparationPlanning   PreparationStatus = "Planning"
	PreparationReady      PreparationStatus = "Ready"
	PreparationInProgress PreparationStatus = "InProgress"
	PreparationComplete   PreparationStatus = "Complete"
)

var preparationTransitions = map[PreparationStatus][]PreparationStatus{
	PreparationPlanning:   {PreparationReady, PreparationInProgress},
	PreparationReady:      {PreparationInProgress},
	PreparationInProgress: {PreparationComplete},
	PreparationComplete:   {},
}

// IsValid checks if the status is a known PreparationStatus
func (s PreparationStatus) IsValid() bool {
	_, ok := preparationTransitions[s]
	return ok
}

// String returns the string representation of PreparationStatus
func (s PreparationStatus) String() string {
	return string(s)
}

// CanTransitionTo reports whether next is reachable from s in one step
func (s PreparationStatus) CanTransitionTo(next PreparationStatus) bool {
	for _, allowed := range preparationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
