package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/siteflow/siteflow/internal/application/port"
	"github.com/siteflow/siteflow/internal/application/service"
	"github.com/siteflow/siteflow/internal/application/workflow"
	"github.com/siteflow/siteflow/internal/domain/entity"
	domainwf "github.com/siteflow/siteflow/internal/domain/workflow"
)

// CreateRequestRequest carries the fields a requester submits.
type CreateRequestRequest struct {
	ProjectID         string          `json:"project_id" binding:"required"`
	ResourceID        string          `json:"resource_id" binding:"required"`
	Purpose           string          `json:"purpose"`
	Unit              string          `json:"unit"`
	RequestedQuantity decimal.Decimal `json:"requested_quantity"`
}

// ApprovalDecisionRequest carries the approve/reject decision. The approved
// flag selects the transition; reject requires a reason.
type ApprovalDecisionRequest struct {
	Approved         bool            `json:"approved"`
	ApprovedQuantity decimal.Decimal `json:"approved_quantity"`
	Comments         string          `json:"comments"`
	Reason           string          `json:"reason"`
}

// QuantityStageRequest carries the quantity and comments recorded by the
// issue and acknowledge transitions.
type QuantityStageRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
	Comments string          `json:"comments"`
}

// CommentStageRequest carries the optional comments for completion.
type CommentStageRequest struct {
	Comments string `json:"comments"`
}

// CancelStageRequest carries the optional cancellation reason.
type CancelStageRequest struct {
	Reason string `json:"reason"`
}

// CreateRequest handles POST /api/{fuel-requests|material-requests}
func (h *Handlers) CreateRequest(kind entity.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := callerFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{Success: false, Error: "authentication required"})
			return
		}

		var req CreateRequestRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, "project_id and resource_id are required")
			return
		}

		created, err := h.services.Requests.Create(c.Request.Context(), service.CreateRequestInput{
			Kind:              kind,
			ProjectID:         req.ProjectID,
			ResourceID:        req.ResourceID,
			Purpose:           req.Purpose,
			Unit:              req.Unit,
			RequestedQuantity: req.RequestedQuantity,
		}, caller)
		if err != nil {
			respondError(c, err)
			return
		}
		respondCreated(c, created)
	}
}

// ListRequests handles GET /api/{fuel-requests|material-requests}
func (h *Handlers) ListRequests(kind entity.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := pagination(c)
		filter := port.RequestFilter{
			Kind:          kind,
			Status:        domainwf.State(c.Query("status")),
			ProjectID:     c.Query("project_id"),
			RequestedByID: c.Query("requested_by"),
			Limit:         limit,
			Offset:        offset,
		}

		requests, err := h.services.Requests.List(c.Request.Context(), filter)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, requests)
	}
}

// GetRequest handles GET /api/{fuel-requests|material-requests}/:id
func (h *Handlers) GetRequest(kind entity.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, err := h.getRequestOfKind(c, kind)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, req)
	}
}

// getRequestOfKind loads a request and hides ids of the other kind, so a
// material request cannot be addressed through the fuel routes.
func (h *Handlers) getRequestOfKind(c *gin.Context, kind entity.Kind) (*entity.Request, error) {
	id := c.Param("id")
	req, err := h.services.Requests.Get(c.Request.Context(), id)
	if err != nil {
		return nil, err
	}
	if req.Kind != kind {
		return nil, workflow.NotFound(id)
	}
	return req, nil
}

// transition runs one engine call for a request of the route's kind.
func (h *Handlers) transition(c *gin.Context, kind entity.Kind, fire func(caller entity.Caller, id string) (*entity.Request, error)) {
	caller, ok := callerFrom(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, Response{Success: false, Error: "authentication required"})
		return
	}

	req, err := h.getRequestOfKind(c, kind)
	if err != nil {
		respondError(c, err)
		return
	}

	updated, err := fire(caller, req.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, updated)
}

// ApproveRequest handles POST .../:id/approve. The body's approved flag
// dispatches to the approve or reject transition.
func (h *Handlers) ApproveRequest(kind entity.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body ApprovalDecisionRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			respondBadRequest(c, "invalid request body")
			return
		}

		h.transition(c, kind, func(caller entity.Caller, id string) (*entity.Request, error) {
			ctx := c.Request.Context()
			if body.Approved {
				return h.services.Engine.Approve(ctx, id, workflow.ApproveInput{
					ApprovedQuantity: body.ApprovedQuantity,
					Comments:         body.Comments,
				}, caller)
			}
			return h.services.Engine.Reject(ctx, id, workflow.RejectInput{
				Reason: body.Reason,
			}, caller)
		})
	}
}

// IssueRequest handles POST .../:id/issue
func (h *Handlers) IssueRequest(kind entity.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body QuantityStageRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			respondBadRequest(c, "invalid request body")
			return
		}

		h.transition(c, kind, func(caller entity.Caller, id string) (*entity.Request, error) {
			return h.services.Engine.Issue(c.Request.Context(), id, workflow.IssueInput{
				IssuedQuantity: body.Quantity,
				Comments:       body.Comments,
			}, caller)
		})
	}
}

// AcknowledgeRequest handles POST .../:id/acknowledge
func (h *Handlers) AcknowledgeRequest(kind entity.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body QuantityStageRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			respondBadRequest(c, "invalid request body")
			return
		}

		h.transition(c, kind, func(caller entity.Caller, id string) (*entity.Request, error) {
			return h.services.Engine.Acknowledge(c.Request.Context(), id, workflow.AcknowledgeInput{
				AcknowledgedQuantity: body.Quantity,
				Comments:             body.Comments,
			}, caller)
		})
	}
}

// CompleteRequest handles POST .../:id/complete
func (h *Handlers) CompleteRequest(kind entity.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body CommentStageRequest
		_ = c.ShouldBindJSON(&body)

		h.transition(c, kind, func(caller entity.Caller, id string) (*entity.Request, error) {
			return h.services.Engine.Complete(c.Request.Context(), id, workflow.CompleteInput{
				Comments: body.Comments,
			}, caller)
		})
	}
}

// CancelRequest handles POST .../:id/cancel
func (h *Handlers) CancelRequest(kind entity.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body CancelStageRequest
		_ = c.ShouldBindJSON(&body)

		h.transition(c, kind, func(caller entity.Caller, id string) (*entity.Request, error) {
			return h.services.Engine.Cancel(c.Request.Context(), id, workflow.CancelInput{
				Reason: body.Reason,
			}, caller)
		})
	}
}
