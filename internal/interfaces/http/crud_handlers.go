package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/siteflow/siteflow/internal/application/service"
)

// CreateProjectRequest carries the fields for a new project.
type CreateProjectRequest struct {
	Name      string          `json:"name" binding:"required"`
	ClientID  string          `json:"client_id" binding:"required"`
	Location  string          `json:"location"`
	Budget    decimal.Decimal `json:"budget"`
	StartDate time.Time       `json:"start_date" binding:"required"`
	EndDate   *time.Time      `json:"end_date"`
}

// UpdateProjectRequest carries the mutable project fields.
type UpdateProjectRequest struct {
	Name     string           `json:"name"`
	Location string           `json:"location"`
	Status   string           `json:"status"`
	Budget   *decimal.Decimal `json:"budget"`
	EndDate  *time.Time       `json:"end_date"`
}

// CreateProject handles POST /api/projects
func (h *Handlers) CreateProject(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name, client_id and start_date are required")
		return
	}

	project, err := h.services.Projects.Create(c.Request.Context(), service.CreateProjectInput{
		Name:      req.Name,
		ClientID:  req.ClientID,
		Location:  req.Location,
		Budget:    req.Budget,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, project)
}

// GetProject handles GET /api/projects/:id
func (h *Handlers) GetProject(c *gin.Context) {
	project, err := h.services.Projects.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, project)
}

// ListProjects handles GET /api/projects
func (h *Handlers) ListProjects(c *gin.Context) {
	limit, offset := pagination(c)
	projects, err := h.services.Projects.List(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, projects)
}

// UpdateProject handles PUT /api/projects/:id
func (h *Handlers) UpdateProject(c *gin.Context) {
	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	project, err := h.services.Projects.Update(c.Request.Context(), c.Param("id"), service.UpdateProjectInput{
		Name:     req.Name,
		Location: req.Location,
		Status:   req.Status,
		Budget:   req.Budget,
		EndDate:  req.EndDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, project)
}

// DeleteProject handles DELETE /api/projects/:id
func (h *Handlers) DeleteProject(c *gin.Context) {
	if err := h.services.Projects.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// ListProjectInvoices handles GET /api/projects/:id/invoices
func (h *Handlers) ListProjectInvoices(c *gin.Context) {
	invoices, err := h.services.Invoices.ListByProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, invoices)
}

// ClientRequest carries the client fields for create and update.
type ClientRequest struct {
	Name        string `json:"name"`
	ContactName string `json:"contact_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
}

func (r ClientRequest) input() service.ClientInput {
	return service.ClientInput{
		Name:        r.Name,
		ContactName: r.ContactName,
		Email:       r.Email,
		Phone:       r.Phone,
		Address:     r.Address,
	}
}

// CreateClient handles POST /api/clients
func (h *Handlers) CreateClient(c *gin.Context) {
	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	client, err := h.services.Clients.Create(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, client)
}

// GetClient handles GET /api/clients/:id
func (h *Handlers) GetClient(c *gin.Context) {
	client, err := h.services.Clients.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, client)
}

// ListClients handles GET /api/clients
func (h *Handlers) ListClients(c *gin.Context) {
	limit, offset := pagination(c)
	clients, err := h.services.Clients.List(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, clients)
}

// UpdateClient handles PUT /api/clients/:id
func (h *Handlers) UpdateClient(c *gin.Context) {
	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	client, err := h.services.Clients.Update(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, client)
}

// DeleteClient handles DELETE /api/clients/:id
func (h *Handlers) DeleteClient(c *gin.Context) {
	if err := h.services.Clients.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// EmployeeRequest carries the employee fields for create and update.
type EmployeeRequest struct {
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	Position  string  `json:"position"`
	ProjectID *string `json:"project_id"`
}

func (r EmployeeRequest) input() service.EmployeeInput {
	return service.EmployeeInput{
		Name:      r.Name,
		Email:     r.Email,
		Phone:     r.Phone,
		Position:  r.Position,
		ProjectID: r.ProjectID,
	}
}

// CreateEmployee handles POST /api/employees
func (h *Handlers) CreateEmployee(c *gin.Context) {
	var req EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	employee, err := h.services.Employees.Create(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, employee)
}

// GetEmployee handles GET /api/employees/:id
func (h *Handlers) GetEmployee(c *gin.Context) {
	employee, err := h.services.Employees.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, employee)
}

// ListEmployees handles GET /api/employees
func (h *Handlers) ListEmployees(c *gin.Context) {
	limit, offset := pagination(c)
	employees, err := h.services.Employees.List(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, employees)
}

// UpdateEmployee handles PUT /api/employees/:id
func (h *Handlers) UpdateEmployee(c *gin.Context) {
	var req EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	employee, err := h.services.Employees.Update(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, employee)
}

// DeleteEmployee handles DELETE /api/employees/:id
func (h *Handlers) DeleteEmployee(c *gin.Context) {
	if err := h.services.Employees.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// EquipmentRequest carries the equipment fields for create and update.
type EquipmentRequest struct {
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	FuelType  string  `json:"fuel_type"`
	Status    string  `json:"status"`
	ProjectID *string `json:"project_id"`
}

func (r EquipmentRequest) input() service.EquipmentInput {
	return service.EquipmentInput{
		Code:      r.Code,
		Name:      r.Name,
		Type:      r.Type,
		FuelType:  r.FuelType,
		Status:    r.Status,
		ProjectID: r.ProjectID,
	}
}

// CreateEquipment handles POST /api/equipment
func (h *Handlers) CreateEquipment(c *gin.Context) {
	var req EquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	equipment, err := h.services.Equipment.Create(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, equipment)
}

// GetEquipment handles GET /api/equipment/:id
func (h *Handlers) GetEquipment(c *gin.Context) {
	equipment, err := h.services.Equipment.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, equipment)
}

// ListEquipment handles GET /api/equipment
func (h *Handlers) ListEquipment(c *gin.Context) {
	limit, offset := pagination(c)
	items, err := h.services.Equipment.List(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, items)
}

// UpdateEquipment handles PUT /api/equipment/:id
func (h *Handlers) UpdateEquipment(c *gin.Context) {
	var req EquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	equipment, err := h.services.Equipment.Update(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, equipment)
}

// DeleteEquipment handles DELETE /api/equipment/:id
func (h *Handlers) DeleteEquipment(c *gin.Context) {
	if err := h.services.Equipment.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// MaterialRequest carries the material fields for create and update.
type MaterialRequest struct {
	Code          string           `json:"code"`
	Name          string           `json:"name"`
	Unit          string           `json:"unit"`
	UnitCost      *decimal.Decimal `json:"unit_cost"`
	StockQuantity *decimal.Decimal `json:"stock_quantity"`
}

func (r MaterialRequest) input() service.MaterialInput {
	return service.MaterialInput{
		Code:          r.Code,
		Name:          r.Name,
		Unit:          r.Unit,
		UnitCost:      r.UnitCost,
		StockQuantity: r.StockQuantity,
	}
}

// CreateMaterial handles POST /api/materials
func (h *Handlers) CreateMaterial(c *gin.Context) {
	var req MaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	material, err := h.services.Materials.Create(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, material)
}

// GetMaterial handles GET /api/materials/:id
func (h *Handlers) GetMaterial(c *gin.Context) {
	material, err := h.services.Materials.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, material)
}

// ListMaterials handles GET /api/materials
func (h *Handlers) ListMaterials(c *gin.Context) {
	limit, offset := pagination(c)
	materials, err := h.services.Materials.List(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, materials)
}

// UpdateMaterial handles PUT /api/materials/:id
func (h *Handlers) UpdateMaterial(c *gin.Context) {
	var req MaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	material, err := h.services.Materials.Update(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, material)
}

// DeleteMaterial handles DELETE /api/materials/:id
func (h *Handlers) DeleteMaterial(c *gin.Context) {
	if err := h.services.Materials.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// CreateInvoiceRequest carries the fields for a new invoice.
type CreateInvoiceRequest struct {
	ProjectID string          `json:"project_id" binding:"required"`
	Amount    decimal.Decimal `json:"amount"`
	IssueDate time.Time       `json:"issue_date" binding:"required"`
	DueDate   time.Time       `json:"due_date" binding:"required"`
	Notes     string          `json:"notes"`
}

// UpdateInvoiceRequest carries the mutable invoice fields.
type UpdateInvoiceRequest struct {
	Amount  *decimal.Decimal `json:"amount"`
	Status  string           `json:"status"`
	DueDate *time.Time       `json:"due_date"`
	Notes   string           `json:"notes"`
}

// CreateInvoice handles POST /api/invoices
func (h *Handlers) CreateInvoice(c *gin.Context) {
	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "project_id, issue_date and due_date are required")
		return
	}

	invoice, err := h.services.Invoices.Create(c.Request.Context(), service.CreateInvoiceInput{
		ProjectID: req.ProjectID,
		Amount:    req.Amount,
		IssueDate: req.IssueDate,
		DueDate:   req.DueDate,
		Notes:     req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, invoice)
}

// GetInvoice handles GET /api/invoices/:id
func (h *Handlers) GetInvoice(c *gin.Context) {
	invoice, err := h.services.Invoices.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, invoice)
}

// ListInvoices handles GET /api/invoices
func (h *Handlers) ListInvoices(c *gin.Context) {
	limit, offset := pagination(c)
	invoices, err := h.services.Invoices.List(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, invoices)
}

// UpdateInvoice handles PUT /api/invoices/:id
func (h *Handlers) UpdateInvoice(c *gin.Context) {
	var req UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	invoice, err := h.services.Invoices.Update(c.Request.Context(), c.Param("id"), service.UpdateInvoiceInput{
		Amount:  req.Amount,
		Status:  req.Status,
		DueDate: req.DueDate,
		Notes:   req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, invoice)
}

// DeleteInvoice handles DELETE /api/invoices/:id
func (h *Handlers) DeleteInvoice(c *gin.Context) {
	if err := h.services.Invoices.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}
