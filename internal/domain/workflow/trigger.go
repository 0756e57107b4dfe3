package workflow

// Trigger represents an action that drives a state transition.
type Trigger string

const (
	TriggerApprove     Trigger = "APPROVE"
	TriggerReject      Trigger = "REJECT"
	TriggerIssue       Trigger = "ISSUE"
	TriggerAcknowledge Trigger = "ACKNOWLEDGE"
	TriggerComplete    Trigger = "COMPLETE"
	TriggerCancel      Trigger = "CANCEL"
)

// String returns the string representation of the trigger.
func (t Trigger) String() string {
	return string(t)
}
