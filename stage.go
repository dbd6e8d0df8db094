package fakeinv

// Stage represents the phase of a tick in which a task runs.
// Tasks due on the same tick are executed in stage order: Before → Default → After.
// Within a stage, tasks run in the order they were scheduled.
type Stage int

const (
	// Before stage runs first. Illusion reverts are scheduled here so that a
	// revert and an open deferred to the same tick never reorder.
	Before Stage = iota

	// Default stage runs second. Opens, closes and flavor callbacks run here.
	Default

	// After stage runs last. Flag resets and slot synchronisation run here,
	// once every lifecycle change of the tick has been applied.
	After

	// stageCount is the total number of stages.
	stageCount
)

// String returns the string representation of the stage.
func (s Stage) String() string {
	switch s {
	case Before:
		return "Before"
	case Default:
		return "Default"
	case After:
		return "After"
	default:
		return "Unknown"
	}
}
