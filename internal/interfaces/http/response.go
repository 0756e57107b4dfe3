package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/siteflow/siteflow/internal/application/service"
	"github.com/siteflow/siteflow/internal/application/workflow"
)

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{
		Success: false,
		Error:   message,
		Code:    string(workflow.CodeValidation),
	})
}

// respondError maps tagged failures onto HTTP statuses. Untagged errors are
// reported as internal without leaking the cause.
func respondError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, Response{Success: false, Error: err.Error()})
		return
	}

	var wfErr *workflow.Error
	if errors.As(err, &wfErr) {
		status := http.StatusInternalServerError
		message := wfErr.Error()

		switch wfErr.Code {
		case workflow.CodeNotFound:
			status = http.StatusNotFound
		case workflow.CodeUnauthorized:
			status = http.StatusForbidden
		case workflow.CodeInvalidState, workflow.CodeValidation:
			status = http.StatusBadRequest
		case workflow.CodeInternal:
			message = "internal error"
		}

		c.JSON(status, Response{Success: false, Error: message, Code: string(wfErr.Code)})
		return
	}

	c.JSON(http.StatusInternalServerError, Response{
		Success: false,
		Error:   "internal error",
		Code:    string(workflow.CodeInternal),
	})
}
