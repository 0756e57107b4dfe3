package workflow

import (
	"errors"
	"testing"
)

func TestState_IsTerminal(t *testing.T) {
	tests := []struct {
		state    State
		expected bool
	}{
		{StatePending, false},
		{StateApproved, false},
		{StateIssued, false},
		{StateAcknowledged, false},
		{StateRejected, true},
		{StateCompleted, true},
		{StateCancelled, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := tt.state.IsTerminal(); got != tt.expected {
				t.Errorf("State.IsTerminal() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		expected bool
	}{
		{"pending", StatePending, true},
		{"cancelled", StateCancelled, true},
		{"unknown state", State("SHIPPED"), false},
		{"empty state", State(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.expected {
				t.Errorf("State.IsValid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestBuilder_Configure(t *testing.T) {
	builder := NewBuilder()

	config := builder.Configure(StatePending)
	if config == nil {
		t.Fatal("Configure() returned nil")
	}

	config2 := builder.Configure(StatePending)
	if config != config2 {
		t.Error("Configure() should return the same config for the same state")
	}
}

func TestBuilder_ConfigurePanicsOnInvalidState(t *testing.T) {
	builder := NewBuilder()

	defer func() {
		if r := recover(); r == nil {
			t.Error("Configure() should panic on invalid state")
		}
	}()

	builder.Configure(State("BOGUS"))
}

func TestBuilder_BuildPanicsOnInvalidInitialState(t *testing.T) {
	builder := NewBuilder()

	defer func() {
		if r := recover(); r == nil {
			t.Error("Build() should panic on invalid initial state")
		}
	}()

	builder.Build(State("BOGUS"))
}

func TestStateMachine_Fire(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StatePending).
		Permit(TriggerApprove, StateApproved).
		Permit(TriggerReject, StateRejected)
	builder.Configure(StateApproved).
		Permit(TriggerIssue, StateIssued)

	machine := builder.Build(StatePending)

	if !machine.CanFire(TriggerApprove) {
		t.Error("CanFire(APPROVE) should be true from PENDING")
	}
	if machine.CanFire(TriggerIssue) {
		t.Error("CanFire(ISSUE) should be false from PENDING")
	}

	if err := machine.Fire(TriggerApprove); err != nil {
		t.Fatalf("Fire(APPROVE) returned error: %v", err)
	}
	if machine.State() != StateApproved {
		t.Errorf("State() = %s, want %s", machine.State(), StateApproved)
	}

	// Reject is no longer permitted once approved.
	err := machine.Fire(TriggerReject)
	if err == nil {
		t.Fatal("Fire(REJECT) from APPROVED should fail")
	}
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Fire() error = %v, want ErrInvalidTransition", err)
	}
	if machine.State() != StateApproved {
		t.Errorf("failed Fire() must not change state, got %s", machine.State())
	}
}

func TestStateMachine_Peek(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StateIssued).
		Permit(TriggerAcknowledge, StateAcknowledged)

	machine := builder.Build(StateIssued)

	target, ok := machine.Peek(TriggerAcknowledge)
	if !ok {
		t.Fatal("Peek(ACKNOWLEDGE) should be permitted from ISSUED")
	}
	if target != StateAcknowledged {
		t.Errorf("Peek() target = %s, want %s", target, StateAcknowledged)
	}
	if machine.State() != StateIssued {
		t.Errorf("Peek() must not mutate state, got %s", machine.State())
	}

	if _, ok := machine.Peek(TriggerCancel); ok {
		t.Error("Peek(CANCEL) should not be permitted from ISSUED")
	}
}

func TestStateMachine_TerminalStateHasNoTriggers(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StatePending).
		Permit(TriggerReject, StateRejected)

	machine := builder.Build(StatePending)
	if err := machine.Fire(TriggerReject); err != nil {
		t.Fatalf("Fire(REJECT) returned error: %v", err)
	}

	if got := machine.PermittedTriggers(); len(got) != 0 {
		t.Errorf("PermittedTriggers() in terminal state = %v, want none", got)
	}
}

func TestStateMachine_IndependentInstances(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StatePending).
		Permit(TriggerApprove, StateApproved)

	first := builder.Build(StatePending)
	second := builder.Build(StatePending)

	if err := first.Fire(TriggerApprove); err != nil {
		t.Fatalf("Fire(APPROVE) returned error: %v", err)
	}

	if second.State() != StatePending {
		t.Errorf("machines built from one builder must not share state, got %s", second.State())
	}
}
