package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/siteflow/siteflow/internal/application/port"
	"github.com/siteflow/siteflow/internal/domain/entity"
	domainwf "github.com/siteflow/siteflow/internal/domain/workflow"
)

// Mock implementations

type mockRequestRepo struct {
	requests    map[string]*entity.Request
	getErr      error
	updateErr   error
	updateCalls int
}

func newMockRequestRepo() *mockRequestRepo {
	return &mockRequestRepo{requests: make(map[string]*entity.Request)}
}

func (m *mockRequestRepo) Create(ctx context.Context, req *entity.Request) error {
	m.requests[req.ID] = req
	return nil
}

func (m *mockRequestRepo) GetByID(ctx context.Context, id string) (*entity.Request, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	req, exists := m.requests[id]
	if !exists {
		return nil, nil
	}
	copied := *req
	return &copied, nil
}

func (m *mockRequestRepo) GetByRequestNumber(ctx context.Context, number string) (*entity.Request, error) {
	for _, req := range m.requests {
		if req.RequestNumber == number {
			copied := *req
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *mockRequestRepo) List(ctx context.Context, filter port.RequestFilter) ([]*entity.Request, error) {
	return nil, nil
}

func (m *mockRequestRepo) UpdateStage(ctx context.Context, id string, expected domainwf.State, patch entity.StagePatch) error {
	m.updateCalls++
	if m.updateErr != nil {
		return m.updateErr
	}
	req, exists := m.requests[id]
	if !exists {
		return port.ErrStatusConflict
	}
	if req.Status != expected {
		return port.ErrStatusConflict
	}

	req.Status = patch.Status
	if patch.ApprovedByID != nil {
		req.ApprovedByID = patch.ApprovedByID
		req.ApprovalDate = patch.ApprovalDate
		req.ApprovedQuantity = patch.ApprovedQuantity
		req.ApprovalComments = patch.ApprovalComments
		req.RejectionReason = patch.RejectionReason
	}
	if patch.IssuedByID != nil {
		req.IssuedByID = patch.IssuedByID
		req.IssuanceDate = patch.IssuanceDate
		req.IssuedQuantity = patch.IssuedQuantity
		req.IssuanceComments = patch.IssuanceComments
	}
	if patch.AcknowledgedByID != nil {
		req.AcknowledgedByID = patch.AcknowledgedByID
		req.AcknowledgmentDate = patch.AcknowledgmentDate
		req.AcknowledgedQuantity = patch.AcknowledgedQuantity
		req.AcknowledgmentComments = patch.AcknowledgmentComments
	}
	if patch.CompletedByID != nil {
		req.CompletedByID = patch.CompletedByID
		req.CompletionDate = patch.CompletionDate
		req.CompletionComments = patch.CompletionComments
	}
	if patch.CancellationReason != nil {
		req.CancellationReason = patch.CancellationReason
		req.CancelledAt = patch.CancelledAt
	}
	req.UpdatedAt = time.Now().UTC()
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Error(msg string, keysAndValues ...interface{}) {}

// Test fixtures

var (
	requester    = entity.Caller{ID: "user-req", Role: entity.RoleEmployee}
	projectMgr   = entity.Caller{ID: "user-pm", Role: entity.RoleProjectManager}
	storeMgr     = entity.Caller{ID: "user-sm", Role: entity.RoleStoreManager}
	admin        = entity.Caller{ID: "user-admin", Role: entity.RoleAdmin}
	otherUser    = entity.Caller{ID: "user-other", Role: entity.RoleEmployee}
)

func newPendingRequest(requested string) *entity.Request {
	now := time.Now().UTC()
	return &entity.Request{
		ID:                uuid.New().String(),
		RequestNumber:     "FR-TEST01",
		Kind:              entity.KindFuel,
		Status:            domainwf.StatePending,
		ProjectID:         "project-1",
		ResourceID:        "equipment-1",
		RequestedQuantity: decimal.RequireFromString(requested),
		RequestedByID:     requester.ID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func newEngine(repo *mockRequestRepo) Engine {
	return NewEngine(repo, nopLogger{})
}

func wantCode(t *testing.T, err error, code Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	if got := CodeOf(err); got != code {
		t.Fatalf("error code = %s, want %s (err: %v)", got, code, err)
	}
}

// Tests

func TestEngine_FullLifecycle(t *testing.T) {
	repo := newMockRequestRepo()
	req := newPendingRequest("100")
	repo.requests[req.ID] = req
	engine := newEngine(repo)
	ctx := context.Background()

	approved, err := engine.Approve(ctx, req.ID, ApproveInput{
		ApprovedQuantity: decimal.RequireFromString("80"),
		Comments:         "approved within budget",
	}, projectMgr)
	if err != nil {
		t.Fatalf("Approve() error: %v", err)
	}
	if approved.Status != domainwf.StateApproved {
		t.Fatalf("status after approve = %s, want APPROVED", approved.Status)
	}
	if approved.ApprovedByID == nil || *approved.ApprovedByID != projectMgr.ID {
		t.Error("approver id not recorded")
	}

	issued, err := engine.Issue(ctx, req.ID, IssueInput{
		IssuedQuantity: decimal.RequireFromString("75"),
	}, storeMgr)
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}
	if issued.Status != domainwf.StateIssued {
		t.Fatalf("status after issue = %s, want ISSUED", issued.Status)
	}

	acked, err := engine.Acknowledge(ctx, req.ID, AcknowledgeInput{
		AcknowledgedQuantity: decimal.RequireFromString("75"),
	}, requester)
	if err != nil {
		t.Fatalf("Acknowledge() error: %v", err)
	}
	if acked.Status != domainwf.StateAcknowledged {
		t.Fatalf("status after acknowledge = %s, want ACKNOWLEDGED", acked.Status)
	}

	completed, err := engine.Complete(ctx, req.ID, CompleteInput{Comments: "delivered"}, requester)
	if err != nil {
		t.Fatalf("Complete() error: %v", err)
	}
	if completed.Status != domainwf.StateCompleted {
		t.Fatalf("status after complete = %s, want COMPLETED", completed.Status)
	}

	// All stage quantities populated and monotonically non-increasing.
	if completed.ApprovedQuantity == nil || completed.IssuedQuantity == nil || completed.AcknowledgedQuantity == nil {
		t.Fatal("stage quantities missing on completed request")
	}
	if completed.ApprovedQuantity.LessThan(*completed.IssuedQuantity) {
		t.Error("approvedQuantity < issuedQuantity")
	}
	if completed.IssuedQuantity.LessThan(*completed.AcknowledgedQuantity) {
		t.Error("issuedQuantity < acknowledgedQuantity")
	}

	if repo.updateCalls != 4 {
		t.Errorf("updateCalls = %d, want exactly one per transition (4)", repo.updateCalls)
	}
}

func TestEngine_ApproveTwiceFailsInvalidState(t *testing.T) {
	repo := newMockRequestRepo()
	req := newPendingRequest("100")
	repo.requests[req.ID] = req
	engine := newEngine(repo)
	ctx := context.Background()

	in := ApproveInput{ApprovedQuantity: decimal.RequireFromString("50")}
	if _, err := engine.Approve(ctx, req.ID, in, projectMgr); err != nil {
		t.Fatalf("first Approve() error: %v", err)
	}

	// Replaying the same call observes the new status; nothing is double-applied.
	_, err := engine.Approve(ctx, req.ID, in, projectMgr)
	wantCode(t, err, CodeInvalidState)

	if repo.updateCalls != 1 {
		t.Errorf("updateCalls = %d, replay must not write", repo.updateCalls)
	}
}

func TestEngine_IssueQuantityCeiling(t *testing.T) {
	repo := newMockRequestRepo()
	req := newPendingRequest("100")
	repo.requests[req.ID] = req
	engine := newEngine(repo)
	ctx := context.Background()

	if _, err := engine.Approve(ctx, req.ID, ApproveInput{ApprovedQuantity: decimal.RequireFromString("80")}, projectMgr); err != nil {
		t.Fatalf("Approve() error: %v", err)
	}

	_, err := engine.Issue(ctx, req.ID, IssueInput{IssuedQuantity: decimal.RequireFromString("80.5")}, storeMgr)
	wantCode(t, err, CodeValidation)

	// Issuing exactly the approved amount is valid.
	issued, err := engine.Issue(ctx, req.ID, IssueInput{IssuedQuantity: decimal.RequireFromString("80")}, storeMgr)
	if err != nil {
		t.Fatalf("Issue() at ceiling error: %v", err)
	}
	if !issued.IssuedQuantity.Equal(decimal.RequireFromString("80")) {
		t.Errorf("issuedQuantity = %s, want 80", issued.IssuedQuantity)
	}
}

func TestEngine_QuantityZeroAlwaysInvalid(t *testing.T) {
	repo := newMockRequestRepo()
	req := newPendingRequest("100")
	repo.requests[req.ID] = req
	engine := newEngine(repo)

	_, err := engine.Approve(context.Background(), req.ID, ApproveInput{ApprovedQuantity: decimal.Zero}, projectMgr)
	wantCode(t, err, CodeValidation)
}

func TestEngine_AcknowledgeRequesterOnly(t *testing.T) {
	repo := newMockRequestRepo()
	req := newPendingRequest("100")
	repo.requests[req.ID] = req
	engine := newEngine(repo)
	ctx := context.Background()

	if _, err := engine.Approve(ctx, req.ID, ApproveInput{ApprovedQuantity: decimal.RequireFromString("80")}, projectMgr); err != nil {
		t.Fatalf("Approve() error: %v", err)
	}
	if _, err := engine.Issue(ctx, req.ID, IssueInput{IssuedQuantity: decimal.RequireFromString("80")}, storeMgr); err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	in := AcknowledgeInput{AcknowledgedQuantity: decimal.RequireFromString("80")}

	// Another employee is refused.
	_, err := engine.Acknowledge(ctx, req.ID, in, otherUser)
	wantCode(t, err, CodeUnauthorized)

	// Admin is refused too: acknowledgment is tied to the requester identity.
	_, err = engine.Acknowledge(ctx, req.ID, in, admin)
	wantCode(t, err, CodeUnauthorized)

	if _, err := engine.Acknowledge(ctx, req.ID, in, requester); err != nil {
		t.Fatalf("Acknowledge() by requester error: %v", err)
	}
}

func TestEngine_QuantityScenario(t *testing.T) {
	// requested 100 → approved 80 → issued 80 → acknowledge 85 fails → 80 succeeds.
	repo := newMockRequestRepo()
	req := newPendingRequest("100")
	repo.requests[req.ID] = req
	engine := newEngine(repo)
	ctx := context.Background()

	approved, err := engine.Approve(ctx, req.ID, ApproveInput{ApprovedQuantity: decimal.RequireFromString("80")}, projectMgr)
	if err != nil {
		t.Fatalf("Approve() error: %v", err)
	}
	if !approved.ApprovedQuantity.Equal(decimal.RequireFromString("80")) {
		t.Fatalf("approvedQuantity = %s, want 80", approved.ApprovedQuantity)
	}

	if _, err := engine.Issue(ctx, req.ID, IssueInput{IssuedQuantity: decimal.RequireFromString("80")}, storeMgr); err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	_, err = engine.Acknowledge(ctx, req.ID, AcknowledgeInput{AcknowledgedQuantity: decimal.RequireFromString("85")}, requester)
	wantCode(t, err, CodeValidation)
	var wfErr *Error
	if !errors.As(err, &wfErr) || wfErr.Message != "cannot exceed issued quantity" {
		t.Errorf("validation message = %v, want 'cannot exceed issued quantity'", err)
	}

	acked, err := engine.Acknowledge(ctx, req.ID, AcknowledgeInput{AcknowledgedQuantity: decimal.RequireFromString("80")}, requester)
	if err != nil {
		t.Fatalf("Acknowledge() error: %v", err)
	}
	if acked.Status != domainwf.StateAcknowledged {
		t.Errorf("status = %s, want ACKNOWLEDGED", acked.Status)
	}
}

func TestEngine_RejectRequiresReason(t *testing.T) {
	repo := newMockRequestRepo()
	req := newPendingRequest("100")
	repo.requests[req.ID] = req
	engine := newEngine(repo)
	ctx := context.Background()

	_, err := engine.Reject(ctx, req.ID, RejectInput{Reason: "   "}, projectMgr)
	wantCode(t, err, CodeValidation)

	rejected, err := engine.Reject(ctx, req.ID, RejectInput{Reason: "budget exhausted"}, projectMgr)
	if err != nil {
		t.Fatalf("Reject() error: %v", err)
	}
	if rejected.Status != domainwf.StateRejected {
		t.Fatalf("status = %s, want REJECTED", rejected.Status)
	}
	if rejected.RejectionReason == nil || *rejected.RejectionReason != "budget exhausted" {
		t.Error("rejection reason not recorded")
	}

	// REJECTED is terminal: nothing else may fire.
	_, err = engine.Issue(ctx, req.ID, IssueInput{IssuedQuantity: decimal.RequireFromString("10")}, storeMgr)
	wantCode(t, err, CodeInvalidState)

	_, err = engine.Complete(ctx, req.ID, CompleteInput{}, admin)
	wantCode(t, err, CodeInvalidState)
}

func TestEngine_CancelWindow(t *testing.T) {
	repo := newMockRequestRepo()
	req := newPendingRequest("100")
	repo.requests[req.ID] = req
	engine := newEngine(repo)
	ctx := context.Background()

	if _, err := engine.Approve(ctx, req.ID, ApproveInput{ApprovedQuantity: decimal.RequireFromString("80")}, projectMgr); err != nil {
		t.Fatalf("Approve() error: %v", err)
	}
	if _, err := engine.Issue(ctx, req.ID, IssueInput{IssuedQuantity: decimal.RequireFromString("80")}, storeMgr); err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	// Once issued, cancellation is no longer legal.
	_, err := engine.Cancel(ctx, req.ID, CancelInput{Reason: "changed plans"}, requester)
	wantCode(t, err, CodeInvalidState)
}

func TestEngine_CancelDefaultsReason(t *testing.T) {
	repo := newMockRequestRepo()
	req := newPendingRequest("100")
	repo.requests[req.ID] = req
	engine := newEngine(repo)

	cancelled, err := engine.Cancel(context.Background(), req.ID, CancelInput{}, requester)
	if err != nil {
		t.Fatalf("Cancel() error: %v", err)
	}
	if cancelled.Status != domainwf.StateCancelled {
		t.Fatalf("status = %s, want CANCELLED", cancelled.Status)
	}
	if cancelled.CancellationReason == nil || *cancelled.CancellationReason != "Cancelled by user" {
		t.Errorf("cancellation reason = %v, want default", cancelled.CancellationReason)
	}
}

func TestEngine_CompleteOnlyAfterAcknowledgment(t *testing.T) {
	repo := newMockRequestRepo()
	req := newPendingRequest("100")
	repo.requests[req.ID] = req
	engine := newEngine(repo)
	ctx := context.Background()

	if _, err := engine.Approve(ctx, req.ID, ApproveInput{ApprovedQuantity: decimal.RequireFromString("80")}, projectMgr); err != nil {
		t.Fatalf("Approve() error: %v", err)
	}
	if _, err := engine.Issue(ctx, req.ID, IssueInput{IssuedQuantity: decimal.RequireFromString("80")}, storeMgr); err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	_, err := engine.Complete(ctx, req.ID, CompleteInput{}, admin)
	wantCode(t, err, CodeInvalidState)
}

func TestEngine_ApproveRoleGate(t *testing.T) {
	repo := newMockRequestRepo()
	req := newPendingRequest("100")
	repo.requests[req.ID] = req
	engine := newEngine(repo)

	in := ApproveInput{ApprovedQuantity: decimal.RequireFromString("10")}

	_, err := engine.Approve(context.Background(), req.ID, in, storeMgr)
	wantCode(t, err, CodeUnauthorized)

	_, err = engine.Approve(context.Background(), req.ID, in, requester)
	wantCode(t, err, CodeUnauthorized)
}

func TestEngine_NotFound(t *testing.T) {
	engine := newEngine(newMockRequestRepo())

	_, err := engine.Approve(context.Background(), "missing-id", ApproveInput{ApprovedQuantity: decimal.New(1, 0)}, admin)
	wantCode(t, err, CodeNotFound)
}

func TestEngine_ConcurrentWriterGetsConflict(t *testing.T) {
	repo := newMockRequestRepo()
	req := newPendingRequest("100")
	repo.requests[req.ID] = req
	engine := newEngine(repo)

	// Simulate a concurrent transition winning between read and write.
	repo.updateErr = port.ErrStatusConflict

	_, err := engine.Approve(context.Background(), req.ID, ApproveInput{ApprovedQuantity: decimal.RequireFromString("80")}, projectMgr)
	wantCode(t, err, CodeInvalidState)
}

func TestEngine_StorageFailureIsInternal(t *testing.T) {
	repo := newMockRequestRepo()
	req := newPendingRequest("100")
	repo.requests[req.ID] = req
	repo.updateErr = errors.New("connection lost")
	engine := newEngine(repo)

	_, err := engine.Approve(context.Background(), req.ID, ApproveInput{ApprovedQuantity: decimal.RequireFromString("80")}, projectMgr)
	wantCode(t, err, CodeInternal)
}
