package workflow

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/siteflow/siteflow/internal/domain/entity"
)

// ApproveInput carries the fields recorded by the APPROVE transition.
type ApproveInput struct {
	ApprovedQuantity decimal.Decimal
	Comments         string
}

// RejectInput carries the fields recorded by the REJECT transition.
type RejectInput struct {
	Reason string
}

// IssueInput carries the fields recorded by the ISSUE transition.
type IssueInput struct {
	IssuedQuantity decimal.Decimal
	Comments       string
}

// AcknowledgeInput carries the fields recorded by the ACKNOWLEDGE transition.
type AcknowledgeInput struct {
	AcknowledgedQuantity decimal.Decimal
	Comments             string
}

// CompleteInput carries the fields recorded by the COMPLETE transition.
type CompleteInput struct {
	Comments string
}

// CancelInput carries the fields recorded by the CANCEL transition.
type CancelInput struct {
	Reason string
}

// Engine drives the request fulfillment lifecycle. Every call re-reads the
// stored record, validates status, actor and input in that order, then issues
// exactly one conditional update. Failures come back as *Error with a Code.
type Engine interface {
	Approve(ctx context.Context, id string, in ApproveInput, caller entity.Caller) (*entity.Request, error)
	Reject(ctx context.Context, id string, in RejectInput, caller entity.Caller) (*entity.Request, error)
	Issue(ctx context.Context, id string, in IssueInput, caller entity.Caller) (*entity.Request, error)
	Acknowledge(ctx context.Context, id string, in AcknowledgeInput, caller entity.Caller) (*entity.Request, error)
	Complete(ctx context.Context, id string, in CompleteInput, caller entity.Caller) (*entity.Request, error)
	Cancel(ctx context.Context, id string, in CancelInput, caller entity.Caller) (*entity.Request, error)
}
