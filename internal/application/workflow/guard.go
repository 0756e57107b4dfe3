package workflow

import (
	"github.com/siteflow/siteflow/internal/domain/entity"
	domainwf "github.com/siteflow/siteflow/internal/domain/workflow"
)

// Predicate decides whether a caller may fire a transition on a record.
type Predicate func(caller entity.Caller, req *entity.Request) bool

// RoleIn accepts callers holding any of the given roles.
func RoleIn(roles ...entity.Role) Predicate {
	set := make(map[entity.Role]bool, len(roles))
	for _, r := range roles {
		set[r] = true
	}
	return func(caller entity.Caller, _ *entity.Request) bool {
		return set[caller.Role]
	}
}

// IsRequester accepts only the record's original requester, regardless of role.
func IsRequester(caller entity.Caller, req *entity.Request) bool {
	return caller.ID == req.RequestedByID
}

// transitionActors maps each transition to its acceptable actor predicates.
// At least one predicate must hold for the caller to proceed. Acknowledgment
// is requester-only; an admin acting for another user is refused.
var transitionActors = map[domainwf.Trigger][]Predicate{
	domainwf.TriggerApprove:     {RoleIn(entity.RoleAdmin, entity.RoleProjectManager)},
	domainwf.TriggerReject:      {RoleIn(entity.RoleAdmin, entity.RoleProjectManager)},
	domainwf.TriggerIssue:       {RoleIn(entity.RoleAdmin, entity.RoleStoreManager)},
	domainwf.TriggerAcknowledge: {IsRequester},
	domainwf.TriggerComplete:    {RoleIn(entity.RoleAdmin), IsRequester},
	domainwf.TriggerCancel:      {RoleIn(entity.RoleAdmin), IsRequester},
}

// Authorized evaluates the predicate set for the transition against the
// caller and record.
func Authorized(trigger domainwf.Trigger, caller entity.Caller, req *entity.Request) bool {
	for _, predicate := range transitionActors[trigger] {
		if predicate(caller, req) {
			return true
		}
	}
	return false
}
