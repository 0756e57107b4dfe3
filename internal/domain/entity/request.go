package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/siteflow/siteflow/internal/domain/workflow"
)

// Kind distinguishes the two request resource types sharing one lifecycle.
type Kind string

const (
	KindFuel     Kind = "FUEL"
	KindMaterial Kind = "MATERIAL"
)

// IsValid returns true for a known request kind.
func (k Kind) IsValid() bool {
	return k == KindFuel || k == KindMaterial
}

// NumberPrefix is the request-number prefix for the kind (FR-/MR-).
func (k Kind) NumberPrefix() string {
	if k == KindMaterial {
		return "MR"
	}
	return "FR"
}

// ResourceLabel names what the request draws against, for messages and exports.
func (k Kind) ResourceLabel() string {
	if k == KindMaterial {
		return "material"
	}
	return "equipment"
}

// Request is a fuel or material request moving through the fulfillment
// lifecycle. Creation fields are immutable; each stage-field group stays nil
// until its transition runs and is written exactly once.
type Request struct {
	ID            string         `json:"id"`
	RequestNumber string         `json:"request_number"`
	Kind          Kind           `json:"kind"`
	Status        workflow.State `json:"status"`

	ProjectID         string          `json:"project_id"`
	ResourceID        string          `json:"resource_id"`
	Purpose           string          `json:"purpose,omitempty"`
	Unit              string          `json:"unit,omitempty"`
	RequestedQuantity decimal.Decimal `json:"requested_quantity"`
	RequestedByID     string          `json:"requested_by_id"`

	ApprovedByID     *string          `json:"approved_by_id,omitempty"`
	ApprovalDate     *time.Time       `json:"approval_date,omitempty"`
	ApprovedQuantity *decimal.Decimal `json:"approved_quantity,omitempty"`
	ApprovalComments *string          `json:"approval_comments,omitempty"`
	RejectionReason  *string          `json:"rejection_reason,omitempty"`

	IssuedByID       *string          `json:"issued_by_id,omitempty"`
	IssuanceDate     *time.Time       `json:"issuance_date,omitempty"`
	IssuedQuantity   *decimal.Decimal `json:"issued_quantity,omitempty"`
	IssuanceComments *string          `json:"issuance_comments,omitempty"`

	AcknowledgedByID       *string          `json:"acknowledged_by_id,omitempty"`
	AcknowledgmentDate     *time.Time       `json:"acknowledgment_date,omitempty"`
	AcknowledgedQuantity   *decimal.Decimal `json:"acknowledged_quantity,omitempty"`
	AcknowledgmentComments *string          `json:"acknowledgment_comments,omitempty"`

	CompletedByID      *string    `json:"completed_by_id,omitempty"`
	CompletionDate     *time.Time `json:"completion_date,omitempty"`
	CompletionComments *string    `json:"completion_comments,omitempty"`

	CancellationReason *string    `json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StagePatch carries the fields written by a single transition. The status is
// always set; only the stage-field group for the transition is populated, so
// the persistence layer writes all of them together or none.
type StagePatch struct {
	Status workflow.State

	ApprovedByID     *string
	ApprovalDate     *time.Time
	ApprovedQuantity *decimal.Decimal
	ApprovalComments *string
	RejectionReason  *string

	IssuedByID       *string
	IssuanceDate     *time.Time
	IssuedQuantity   *decimal.Decimal
	IssuanceComments *string

	AcknowledgedByID       *string
	AcknowledgmentDate     *time.Time
	AcknowledgedQuantity   *decimal.Decimal
	AcknowledgmentComments *string

	CompletedByID      *string
	CompletionDate     *time.Time
	CompletionComments *string

	CancellationReason *string
	CancelledAt        *time.Time
}

// Caller is the authenticated identity invoking a transition. It is passed
// explicitly into every engine call; the core holds no ambient session state.
type Caller struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}
