package workflow

// StateMachine tracks a current state and validates transitions against
// the configured transition table.
type StateMachine interface {
	// State returns the current state.
	State() State

	// CanFire returns true if the trigger is permitted in the current state.
	CanFire(trigger Trigger) bool

	// Peek returns the state the machine would move to if the trigger fired,
	// without mutating the machine. The second return is false when the
	// trigger is not permitted.
	Peek(trigger Trigger) (State, bool)

	// Fire executes the trigger, moving to the target state if allowed.
	Fire(trigger Trigger) error

	// PermittedTriggers returns all triggers that can fire in the current state.
	PermittedTriggers() []Trigger
}
