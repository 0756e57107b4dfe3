package workflow

// State represents a request status in the fulfillment lifecycle.
type State string

const (
	StatePending      State = "PENDING"
	StateApproved     State = "APPROVED"
	StateRejected     State = "REJECTED"
	StateIssued       State = "ISSUED"
	StateAcknowledged State = "ACKNOWLEDGED"
	StateCompleted    State = "COMPLETED"
	StateCancelled    State = "CANCELLED"
)

var validStates = map[State]bool{
	StatePending:      true,
	StateApproved:     true,
	StateRejected:     true,
	StateIssued:       true,
	StateAcknowledged: true,
	StateCompleted:    true,
	StateCancelled:    true,
}

var terminalStates = map[State]bool{
	StateRejected:  true,
	StateCompleted: true,
	StateCancelled: true,
}

// IsTerminal returns true if no further transitions are allowed from the state.
func (s State) IsTerminal() bool {
	return terminalStates[s]
}

// IsValid returns true if the state is a known lifecycle state.
func (s State) IsValid() bool {
	return validStates[s]
}

// String returns the string representation of the state.
func (s State) String() string {
	return string(s)
}
