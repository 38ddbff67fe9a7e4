// Package tesseraerr provides the typed error values surfaced at the core's
// boundary operations (compute_schedule, analyze_stackup, analyze_mate,
// generate_bom). Errors are values, never unwound control flow: the solver
// failure paths return one of these types directly, unwrapped.
package tesseraerr

import "fmt"

// UnresolvedDependencyError is returned when a task or milestone dependency
// names a predecessor id the entity store does not know about.
type UnresolvedDependencyError struct {
	NodeID        string
	PredecessorID string
}

func (e *UnresolvedDependencyError) Error() string {
	return fmt.Sprintf("node %s depends on unresolved predecessor %s", e.NodeID, e.PredecessorID)
}

// DependencyCycleError is returned when the dependency graph (tasks,
// milestones) contains a cycle; containment cycles use AssemblyCycleError.
// Edge names at least one edge participating in the cycle.
type DependencyCycleError struct {
	Edge []string // [from, to] of one edge on the cycle
}

func (e *DependencyCycleError) Error() string {
	if len(e.Edge) == 2 {
		return fmt.Sprintf("dependency cycle detected, involving edge %s -> %s", e.Edge[0], e.Edge[1])
	}
	return "dependency cycle detected"
}

// InvalidTaskTypeError is returned when a task's type/field combination
// violates the type's invariants (e.g. a Milestone with nonzero duration).
type InvalidTaskTypeError struct {
	TaskID  string
	Message string
}

func (e *InvalidTaskTypeError) Error() string {
	return fmt.Sprintf("task %s has invalid task type configuration: %s", e.TaskID, e.Message)
}

// InvalidCalendarError is returned when a calendar's working-hour window or
// working-day set is malformed.
type InvalidCalendarError struct {
	CalendarID string
	Message    string
}

func (e *InvalidCalendarError) Error() string {
	return fmt.Sprintf("calendar %s is invalid: %s", e.CalendarID, e.Message)
}

// EmptyStackupError is returned when a stackup has no feature contributions.
type EmptyStackupError struct {
	StackupID string
}

func (e *EmptyStackupError) Error() string {
	return fmt.Sprintf("stackup %s has no feature contributions", e.StackupID)
}

// InvalidDistributionError is returned when a feature's sampling
// distribution cannot be parameterized (e.g. Normal with sigma <= 0,
// Triangular with min > max).
type InvalidDistributionError struct {
	FeatureID string
	Reason    string
}

func (e *InvalidDistributionError) Error() string {
	return fmt.Sprintf("feature %s has invalid distribution parameters: %s", e.FeatureID, e.Reason)
}

// TooFewSamplesError is returned when Monte Carlo is requested with fewer
// than the minimum sample count.
type TooFewSamplesError struct {
	Requested int
	Minimum   int
}

func (e *TooFewSamplesError) Error() string {
	return fmt.Sprintf("monte carlo requires at least %d samples, got %d", e.Minimum, e.Requested)
}

// InvalidMateError is returned when a mate's two features do not form a
// valid shaft/hole pair.
type InvalidMateError struct {
	ShaftFeatureID string
	HoleFeatureID  string
	Reason         string
}

func (e *InvalidMateError) Error() string {
	return fmt.Sprintf("mate(shaft=%s, hole=%s) is invalid: %s", e.ShaftFeatureID, e.HoleFeatureID, e.Reason)
}

// InvalidVolumeError is returned when a BOM is requested at volume 0.
type InvalidVolumeError struct {
	Volume uint32
}

func (e *InvalidVolumeError) Error() string {
	return fmt.Sprintf("invalid production volume %d: must be greater than zero", e.Volume)
}

// AssemblyCycleError is returned when the assembly containment graph
// contains a cycle.
type AssemblyCycleError struct {
	AssemblyID string
}

func (e *AssemblyCycleError) Error() string {
	return fmt.Sprintf("assembly containment cycle detected at assembly %s", e.AssemblyID)
}

// MissingEntityError is returned when an operation references an entity id
// the store does not have.
type MissingEntityError struct {
	Kind string
	ID   string
}

func (e *MissingEntityError) Error() string {
	return fmt.Sprintf("missing %s entity: %s", e.Kind, e.ID)
}

// ValidationError is a catch-all caller-fault error rejected at operation
// entry, before any work is done.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Reason)
}

// MultiError aggregates independent validation failures discovered while
// checking a batch of entities (e.g. every stackup contribution).
type MultiError struct {
	Errors []error
}

func (e *MultiError) Error() string {
	switch len(e.Errors) {
	case 0:
		return "no errors"
	case 1:
		return e.Errors[0].Error()
	default:
		msg := fmt.Sprintf("%d errors: ", len(e.Errors))
		for i, err := range e.Errors {
			if i > 0 {
				msg += "; "
			}
			msg += err.Error()
		}
		return msg
	}
}

func (e *MultiError) Add(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

func (e *MultiError) HasErrors() bool {
	return len(e.Errors) > 0
}

func NewMultiError() *MultiError {
	return &MultiError{Errors: make([]error, 0)}
}
