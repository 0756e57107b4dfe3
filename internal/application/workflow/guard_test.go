package workflow

import (
	"testing"

	"github.com/siteflow/siteflow/internal/domain/entity"
	domainwf "github.com/siteflow/siteflow/internal/domain/workflow"
)

func TestAuthorized(t *testing.T) {
	record := &entity.Request{RequestedByID: "user-req"}

	tests := []struct {
		name    string
		trigger domainwf.Trigger
		caller  entity.Caller
		want    bool
	}{
		{"admin approves", domainwf.TriggerApprove, entity.Caller{ID: "a", Role: entity.RoleAdmin}, true},
		{"project manager approves", domainwf.TriggerApprove, entity.Caller{ID: "b", Role: entity.RoleProjectManager}, true},
		{"store manager cannot approve", domainwf.TriggerApprove, entity.Caller{ID: "c", Role: entity.RoleStoreManager}, false},
		{"store manager issues", domainwf.TriggerIssue, entity.Caller{ID: "c", Role: entity.RoleStoreManager}, true},
		{"project manager cannot issue", domainwf.TriggerIssue, entity.Caller{ID: "b", Role: entity.RoleProjectManager}, false},
		{"requester acknowledges", domainwf.TriggerAcknowledge, entity.Caller{ID: "user-req", Role: entity.RoleEmployee}, true},
		{"admin cannot acknowledge for requester", domainwf.TriggerAcknowledge, entity.Caller{ID: "a", Role: entity.RoleAdmin}, false},
		{"requester cancels", domainwf.TriggerCancel, entity.Caller{ID: "user-req", Role: entity.RoleEmployee}, true},
		{"admin cancels", domainwf.TriggerCancel, entity.Caller{ID: "a", Role: entity.RoleAdmin}, true},
		{"stranger cannot cancel", domainwf.TriggerCancel, entity.Caller{ID: "z", Role: entity.RoleEmployee}, false},
		{"requester completes", domainwf.TriggerComplete, entity.Caller{ID: "user-req", Role: entity.RoleEmployee}, true},
		{"admin completes", domainwf.TriggerComplete, entity.Caller{ID: "a", Role: entity.RoleAdmin}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Authorized(tt.trigger, tt.caller, record); got != tt.want {
				t.Errorf("Authorized(%s, %s) = %v, want %v", tt.trigger, tt.caller.Role, got, tt.want)
			}
		})
	}
}
