package workflow

import (
	domainwf "github.com/siteflow/siteflow/internal/domain/workflow"
)

// transitionSources records which statuses each transition may fire from,
// used for invalid-state messages that name current vs. expected state.
var transitionSources = map[domainwf.Trigger][]domainwf.State{
	domainwf.TriggerApprove:     {domainwf.StatePending},
	domainwf.TriggerReject:      {domainwf.StatePending},
	domainwf.TriggerIssue:       {domainwf.StateApproved},
	domainwf.TriggerAcknowledge: {domainwf.StateIssued},
	domainwf.TriggerComplete:    {domainwf.StateAcknowledged},
	domainwf.TriggerCancel:      {domainwf.StatePending, domainwf.StateApproved},
}

// BuildRequestStateMachine configures the fulfillment lifecycle shared by
// fuel and material requests. Completion requires a prior acknowledgment;
// cancellation is possible until issuance.
func BuildRequestStateMachine(initialState domainwf.State) domainwf.StateMachine {
	builder := domainwf.NewBuilder()

	builder.Configure(domainwf.StatePending).
		Permit(domainwf.TriggerApprove, domainwf.StateApproved).
		Permit(domainwf.TriggerReject, domainwf.StateRejected).
		Permit(domainwf.TriggerCancel, domainwf.StateCancelled)

	builder.Configure(domainwf.StateApproved).
		Permit(domainwf.TriggerIssue, domainwf.StateIssued).
		Permit(domainwf.TriggerCancel, domainwf.StateCancelled)

	builder.Configure(domainwf.StateIssued).
		Permit(domainwf.TriggerAcknowledge, domainwf.StateAcknowledged)

	builder.Configure(domainwf.StateAcknowledged).
		Permit(domainwf.TriggerComplete, domainwf.StateCompleted)

	// REJECTED, COMPLETED and CANCELLED are terminal.

	return builder.Build(initialState)
}
