package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siteflow/siteflow/internal/application/port"
	"github.com/siteflow/siteflow/internal/application/workflow"
	"github.com/siteflow/siteflow/internal/domain/entity"
	domainwf "github.com/siteflow/siteflow/internal/domain/workflow"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type mockRequestRepo struct {
	created []*entity.Request
}

func (m *mockRequestRepo) Create(_ context.Context, req *entity.Request) error {
	m.created = append(m.created, req)
	return nil
}

func (m *mockRequestRepo) GetByID(_ context.Context, id string) (*entity.Request, error) {
	for _, req := range m.created {
		if req.ID == id {
			return req, nil
		}
	}
	return nil, nil
}

func (m *mockRequestRepo) GetByRequestNumber(_ context.Context, number string) (*entity.Request, error) {
	for _, req := range m.created {
		if req.RequestNumber == number {
			return req, nil
		}
	}
	return nil, nil
}

func (m *mockRequestRepo) List(_ context.Context, _ port.RequestFilter) ([]*entity.Request, error) {
	return m.created, nil
}

func (m *mockRequestRepo) UpdateStage(context.Context, string, domainwf.State, entity.StagePatch) error {
	return nil
}

type mockProjectRepo struct {
	projects map[string]*entity.Project
}

func (m *mockProjectRepo) Create(context.Context, *entity.Project) error { return nil }
func (m *mockProjectRepo) GetByID(_ context.Context, id string) (*entity.Project, error) {
	return m.projects[id], nil
}
func (m *mockProjectRepo) List(context.Context, int, int) ([]*entity.Project, error) {
	return nil, nil
}
func (m *mockProjectRepo) Update(context.Context, *entity.Project) error { return nil }
func (m *mockProjectRepo) Delete(context.Context, string) error          { return nil }

type mockEquipmentRepo struct {
	equipment map[string]*entity.Equipment
}

func (m *mockEquipmentRepo) Create(context.Context, *entity.Equipment) error { return nil }
func (m *mockEquipmentRepo) GetByID(_ context.Context, id string) (*entity.Equipment, error) {
	return m.equipment[id], nil
}
func (m *mockEquipmentRepo) List(context.Context, int, int) ([]*entity.Equipment, error) {
	return nil, nil
}
func (m *mockEquipmentRepo) Update(context.Context, *entity.Equipment) error { return nil }
func (m *mockEquipmentRepo) Delete(context.Context, string) error            { return nil }

type mockMaterialRepo struct {
	materials map[string]*entity.Material
}

func (m *mockMaterialRepo) Create(context.Context, *entity.Material) error { return nil }
func (m *mockMaterialRepo) GetByID(_ context.Context, id string) (*entity.Material, error) {
	return m.materials[id], nil
}
func (m *mockMaterialRepo) List(context.Context, int, int) ([]*entity.Material, error) {
	return nil, nil
}
func (m *mockMaterialRepo) Update(context.Context, *entity.Material) error { return nil }
func (m *mockMaterialRepo) Delete(context.Context, string) error           { return nil }

func newTestRequestService(requests *mockRequestRepo) RequestService {
	projects := &mockProjectRepo{projects: map[string]*entity.Project{
		"project-1": {ID: "project-1", Status: entity.ProjectActive},
		"project-2": {ID: "project-2", Status: entity.ProjectOnHold},
	}}
	equipment := &mockEquipmentRepo{equipment: map[string]*entity.Equipment{
		"excavator-1": {ID: "excavator-1", Code: "EXC-01"},
	}}
	materials := &mockMaterialRepo{materials: map[string]*entity.Material{
		"cement-1": {ID: "cement-1", Code: "CEM-01"},
	}}
	return NewRequestService(requests, projects, equipment, materials, nopLogger{})
}

var requester = entity.Caller{ID: "user-1", Role: entity.RoleEmployee}

func TestRequestServiceCreateFuel(t *testing.T) {
	repo := &mockRequestRepo{}
	svc := newTestRequestService(repo)

	req, err := svc.Create(context.Background(), CreateRequestInput{
		Kind:              entity.KindFuel,
		ProjectID:         "project-1",
		ResourceID:        "excavator-1",
		Purpose:           "refuel excavator",
		RequestedQuantity: decimal.NewFromInt(100),
	}, requester)
	require.NoError(t, err)

	assert.Equal(t, domainwf.StatePending, req.Status)
	assert.Equal(t, "user-1", req.RequestedByID)
	assert.True(t, strings.HasPrefix(req.RequestNumber, "FR-"), "got %s", req.RequestNumber)
	assert.Len(t, req.RequestNumber, 11)
	assert.NotEmpty(t, req.ID)
	assert.Len(t, repo.created, 1)
	assert.WithinDuration(t, time.Now().UTC(), req.CreatedAt, time.Minute)
}

func TestRequestServiceCreateMaterialNumberPrefix(t *testing.T) {
	svc := newTestRequestService(&mockRequestRepo{})

	req, err := svc.Create(context.Background(), CreateRequestInput{
		Kind:              entity.KindMaterial,
		ProjectID:         "project-1",
		ResourceID:        "cement-1",
		Unit:              "bags",
		RequestedQuantity: decimal.NewFromInt(50),
	}, requester)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(req.RequestNumber, "MR-"), "got %s", req.RequestNumber)
}

func TestRequestServiceCreateValidation(t *testing.T) {
	svc := newTestRequestService(&mockRequestRepo{})
	ctx := context.Background()

	valid := CreateRequestInput{
		Kind:              entity.KindFuel,
		ProjectID:         "project-1",
		ResourceID:        "excavator-1",
		RequestedQuantity: decimal.NewFromInt(100),
	}

	tests := []struct {
		name   string
		mutate func(in *CreateRequestInput)
		field  string
	}{
		{"unknown kind", func(in *CreateRequestInput) { in.Kind = "GRAVEL" }, "kind"},
		{"missing project", func(in *CreateRequestInput) { in.ProjectID = "" }, "project_id"},
		{"unknown project", func(in *CreateRequestInput) { in.ProjectID = "nope" }, "project_id"},
		{"inactive project", func(in *CreateRequestInput) { in.ProjectID = "project-2" }, "project_id"},
		{"missing resource", func(in *CreateRequestInput) { in.ResourceID = "" }, "resource_id"},
		{"unknown equipment", func(in *CreateRequestInput) { in.ResourceID = "nope" }, "resource_id"},
		{"zero quantity", func(in *CreateRequestInput) { in.RequestedQuantity = decimal.Zero }, "requested_quantity"},
		{"negative quantity", func(in *CreateRequestInput) { in.RequestedQuantity = decimal.NewFromInt(-5) }, "requested_quantity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)

			_, err := svc.Create(ctx, in, requester)
			require.Error(t, err)
			assert.Equal(t, workflow.CodeValidation, workflow.CodeOf(err))

			var wfErr *workflow.Error
			require.ErrorAs(t, err, &wfErr)
			assert.Equal(t, tt.field, wfErr.Field)
		})
	}
}

func TestRequestServiceMaterialKindChecksMaterials(t *testing.T) {
	svc := newTestRequestService(&mockRequestRepo{})

	// equipment id is not a material id
	_, err := svc.Create(context.Background(), CreateRequestInput{
		Kind:              entity.KindMaterial,
		ProjectID:         "project-1",
		ResourceID:        "excavator-1",
		RequestedQuantity: decimal.NewFromInt(10),
	}, requester)
	require.Error(t, err)
	assert.Equal(t, workflow.CodeValidation, workflow.CodeOf(err))
}

func TestRequestServiceGet(t *testing.T) {
	repo := &mockRequestRepo{}
	svc := newTestRequestService(repo)

	created, err := svc.Create(context.Background(), CreateRequestInput{
		Kind:              entity.KindFuel,
		ProjectID:         "project-1",
		ResourceID:        "excavator-1",
		RequestedQuantity: decimal.NewFromInt(100),
	}, requester)
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.RequestNumber, got.RequestNumber)

	_, err = svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, workflow.CodeNotFound, workflow.CodeOf(err))
}
