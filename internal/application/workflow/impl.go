package workflow

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/siteflow/siteflow/internal/application/port"
	"github.com/siteflow/siteflow/internal/domain/entity"
	"github.com/siteflow/siteflow/internal/domain/quantity"
	domainwf "github.com/siteflow/siteflow/internal/domain/workflow"
)

// Logger is the minimal logging dependency the engine needs.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// engineImpl is the concrete implementation of Engine.
type engineImpl struct {
	requests port.RequestRepository
	logger   Logger
}

// NewEngine creates a workflow engine over the given request repository.
func NewEngine(requests port.RequestRepository, logger Logger) Engine {
	return &engineImpl{
		requests: requests,
		logger:   logger,
	}
}

// load fetches the current record and checks the transition is legal from its
// status. It returns the record and the status the transition moves to.
func (e *engineImpl) load(ctx context.Context, id string, trigger domainwf.Trigger) (*entity.Request, domainwf.State, error) {
	req, err := e.requests.GetByID(ctx, id)
	if err != nil {
		e.logger.Error("failed to load request", "request_id", id, "error", err)
		return nil, "", Internal(err)
	}
	if req == nil {
		return nil, "", NotFound(id)
	}

	machine := BuildRequestStateMachine(req.Status)
	target, ok := machine.Peek(trigger)
	if !ok {
		return nil, "", InvalidState(trigger, req.Status, transitionSources[trigger]...)
	}

	return req, target, nil
}

// apply issues the single conditional update for a transition and returns the
// updated record. A guard miss on the stored status maps to an invalid-state
// failure so a losing concurrent writer gets a definitive answer.
func (e *engineImpl) apply(ctx context.Context, req *entity.Request, trigger domainwf.Trigger, target domainwf.State, patch entity.StagePatch) (*entity.Request, error) {
	patch.Status = target

	if err := e.requests.UpdateStage(ctx, req.ID, req.Status, patch); err != nil {
		if errors.Is(err, port.ErrStatusConflict) {
			return nil, Conflict(trigger, req.Status)
		}
		e.logger.Error("request stage update failed",
			"request_id", req.ID, "trigger", trigger.String(), "error", err)
		return nil, Internal(err)
	}

	updated, err := e.requests.GetByID(ctx, req.ID)
	if err != nil || updated == nil {
		e.logger.Error("failed to reload request after transition",
			"request_id", req.ID, "error", err)
		return nil, Internal(err)
	}

	e.logger.Info("request transitioned",
		"request_id", req.ID,
		"request_number", req.RequestNumber,
		"trigger", trigger.String(),
		"from", req.Status.String(),
		"to", target.String())

	return updated, nil
}

func (e *engineImpl) Approve(ctx context.Context, id string, in ApproveInput, caller entity.Caller) (*entity.Request, error) {
	req, target, err := e.load(ctx, id, domainwf.TriggerApprove)
	if err != nil {
		return nil, err
	}
	if !Authorized(domainwf.TriggerApprove, caller, req) {
		return nil, Forbidden(domainwf.TriggerApprove, caller.ID)
	}

	if err := quantity.Validate(in.ApprovedQuantity, nil); err != nil {
		return nil, Validation("approvedQuantity", err.Error())
	}

	now := time.Now().UTC()
	return e.apply(ctx, req, domainwf.TriggerApprove, target, entity.StagePatch{
		ApprovedByID:     &caller.ID,
		ApprovalDate:     &now,
		ApprovedQuantity: &in.ApprovedQuantity,
		ApprovalComments: optional(in.Comments),
	})
}

func (e *engineImpl) Reject(ctx context.Context, id string, in RejectInput, caller entity.Caller) (*entity.Request, error) {
	req, target, err := e.load(ctx, id, domainwf.TriggerReject)
	if err != nil {
		return nil, err
	}
	if !Authorized(domainwf.TriggerReject, caller, req) {
		return nil, Forbidden(domainwf.TriggerReject, caller.ID)
	}

	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, Validation("rejectionReason", "is required")
	}

	now := time.Now().UTC()
	return e.apply(ctx, req, domainwf.TriggerReject, target, entity.StagePatch{
		ApprovedByID:    &caller.ID,
		ApprovalDate:    &now,
		RejectionReason: &reason,
	})
}

func (e *engineImpl) Issue(ctx context.Context, id string, in IssueInput, caller entity.Caller) (*entity.Request, error) {
	req, target, err := e.load(ctx, id, domainwf.TriggerIssue)
	if err != nil {
		return nil, err
	}
	if !Authorized(domainwf.TriggerIssue, caller, req) {
		return nil, Forbidden(domainwf.TriggerIssue, caller.ID)
	}

	var ceiling *quantity.Ceiling
	if req.ApprovedQuantity != nil {
		ceiling = quantity.CeilingOf("approved", *req.ApprovedQuantity)
	}
	if err := quantity.Validate(in.IssuedQuantity, ceiling); err != nil {
		return nil, Validation("issuedQuantity", err.Error())
	}

	now := time.Now().UTC()
	return e.apply(ctx, req, domainwf.TriggerIssue, target, entity.StagePatch{
		IssuedByID:       &caller.ID,
		IssuanceDate:     &now,
		IssuedQuantity:   &in.IssuedQuantity,
		IssuanceComments: optional(in.Comments),
	})
}

func (e *engineImpl) Acknowledge(ctx context.Context, id string, in AcknowledgeInput, caller entity.Caller) (*entity.Request, error) {
	req, target, err := e.load(ctx, id, domainwf.TriggerAcknowledge)
	if err != nil {
		return nil, err
	}
	if !Authorized(domainwf.TriggerAcknowledge, caller, req) {
		return nil, Forbidden(domainwf.TriggerAcknowledge, caller.ID)
	}

	var ceiling *quantity.Ceiling
	if req.IssuedQuantity != nil {
		ceiling = quantity.CeilingOf("issued", *req.IssuedQuantity)
	}
	if err := quantity.Validate(in.AcknowledgedQuantity, ceiling); err != nil {
		return nil, Validation("acknowledgedQuantity", err.Error())
	}

	now := time.Now().UTC()
	return e.apply(ctx, req, domainwf.TriggerAcknowledge, target, entity.StagePatch{
		AcknowledgedByID:       &caller.ID,
		AcknowledgmentDate:     &now,
		AcknowledgedQuantity:   &in.AcknowledgedQuantity,
		AcknowledgmentComments: optional(in.Comments),
	})
}

func (e *engineImpl) Complete(ctx context.Context, id string, in CompleteInput, caller entity.Caller) (*entity.Request, error) {
	req, target, err := e.load(ctx, id, domainwf.TriggerComplete)
	if err != nil {
		return nil, err
	}
	if !Authorized(domainwf.TriggerComplete, caller, req) {
		return nil, Forbidden(domainwf.TriggerComplete, caller.ID)
	}

	now := time.Now().UTC()
	return e.apply(ctx, req, domainwf.TriggerComplete, target, entity.StagePatch{
		CompletedByID:      &caller.ID,
		CompletionDate:     &now,
		CompletionComments: optional(in.Comments),
	})
}

func (e *engineImpl) Cancel(ctx context.Context, id string, in CancelInput, caller entity.Caller) (*entity.Request, error) {
	req, target, err := e.load(ctx, id, domainwf.TriggerCancel)
	if err != nil {
		return nil, err
	}
	if !Authorized(domainwf.TriggerCancel, caller, req) {
		return nil, Forbidden(domainwf.TriggerCancel, caller.ID)
	}

	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		reason = "Cancelled by user"
	}

	now := time.Now().UTC()
	return e.apply(ctx, req, domainwf.TriggerCancel, target, entity.StagePatch{
		CancellationReason: &reason,
		CancelledAt:        &now,
	})
}

// optional returns nil for blank strings so empty comments stay NULL.
func optional(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
