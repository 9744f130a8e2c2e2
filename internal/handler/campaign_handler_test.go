package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/voicereach/voicereach-backend/internal/engine"
	"github.com/voicereach/voicereach-backend/internal/models"
	"github.com/voicereach/voicereach-backend/internal/service"
)

// mockCampaignService for testing handlers
type mockCampaignService struct {
	campaign   *models.Campaign
	startErr   error
	lastFilter models.CampaignCallFilter
}

func (m *mockCampaignService) Create(ctx context.Context, req *service.CreateCampaignRequest) (*models.Campaign, error) {
	if req.Name == "" {
		return nil, models.ErrInvalidInput("name is required")
	}
	return &models.Campaign{ID: "camp-new", Name: req.Name}, nil
}

func (m *mockCampaignService) GetByID(ctx context.Context, id string) (*models.Campaign, error) {
	if m.campaign == nil || m.campaign.ID != id {
		return nil, models.ErrNotFoundWithMsg("campaign not found")
	}
	return m.campaign, nil
}

func (m *mockCampaignService) List(ctx context.Context, filter models.CampaignFilter) (*service.CampaignListResult, error) {
	return &service.CampaignListResult{Data: []*models.Campaign{}}, nil
}

func (m *mockCampaignService) Start(ctx context.Context, id string) (*service.LifecycleResult, error) {
	if m.startErr != nil {
		return nil, m.startErr
	}
	return &service.LifecycleResult{CampaignID: id, ExecutionStatus: models.CampaignStatusRunning}, nil
}

func (m *mockCampaignService) Pause(ctx context.Context, id string) (*service.LifecycleResult, error) {
	return &service.LifecycleResult{CampaignID: id, ExecutionStatus: models.CampaignStatusPaused}, nil
}

func (m *mockCampaignService) Resume(ctx context.Context, id string) (*service.LifecycleResult, error) {
	return &service.LifecycleResult{CampaignID: id, ExecutionStatus: models.CampaignStatusRunning}, nil
}

func (m *mockCampaignService) Stop(ctx context.Context, id string) (*service.StopResult, error) {
	return &service.StopResult{
		LifecycleResult: service.LifecycleResult{CampaignID: id, ExecutionStatus: models.CampaignStatusCompleted},
	}, nil
}

func (m *mockCampaignService) ResetDaily(ctx context.Context, id string) (*service.LifecycleResult, error) {
	return &service.LifecycleResult{CampaignID: id}, nil
}

func (m *mockCampaignService) Status(ctx context.Context, id string) (*models.CampaignWithStats, error) {
	if m.campaign == nil || m.campaign.ID != id {
		return nil, models.ErrNotFoundWithMsg("campaign not found")
	}
	return &models.CampaignWithStats{Campaign: *m.campaign}, nil
}

func (m *mockCampaignService) ListCalls(ctx context.Context, filter models.CampaignCallFilter) (*service.CallListResult, error) {
	m.lastFilter = filter
	return &service.CallListResult{Data: []*models.CampaignCall{}}, nil
}

func (m *mockCampaignService) IngestContactFile(ctx context.Context, filename string, data io.Reader) (*service.ContactFileResult, error) {
	return &service.ContactFileResult{FileID: "file-1", Filename: filename, RowsAccepted: 1, RowsTotal: 1}, nil
}

func testRouter(svc service.CampaignService) http.Handler {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError + 1}))
	scheduler := engine.NewScheduler(nil, nil, nil, engine.SchedulerConfig{}, logger)
	h := NewCampaignHandler(svc, scheduler, logger)

	r := chi.NewRouter()
	r.Route("/campaigns", func(r chi.Router) {
		r.Post("/", h.CreateCampaign)
		r.Get("/", h.ListCampaigns)
		r.Get("/engine/status", h.EngineStatus)
		r.Get("/{id}", h.GetCampaign)
		r.Post("/{id}/start", h.StartCampaign)
		r.Post("/{id}/stop", h.StopCampaign)
		r.Get("/{id}/status", h.CampaignStatus)
		r.Get("/{id}/calls", h.ListCalls)
	})
	return r
}

func TestStartCampaignEndpoint(t *testing.T) {
	svc := &mockCampaignService{}
	router := testRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/campaigns/camp-1/start", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result service.LifecycleResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.ExecutionStatus != models.CampaignStatusRunning {
		t.Errorf("expected running, got %s", result.ExecutionStatus)
	}
}

func TestStartCampaignConflict(t *testing.T) {
	svc := &mockCampaignService{startErr: models.ErrConflictWithMsg("campaign with status 'running' cannot be started")}
	router := testRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/campaigns/camp-1/start", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if resp.Error.Code != "CONFLICT" {
		t.Errorf("expected CONFLICT code, got %s", resp.Error.Code)
	}
}

func TestGetCampaignNotFound(t *testing.T) {
	router := testRouter(&mockCampaignService{})

	req := httptest.NewRequest(http.MethodGet, "/campaigns/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCreateCampaignInvalidJSON(t *testing.T) {
	router := testRouter(&mockCampaignService{})

	req := httptest.NewRequest(http.MethodPost, "/campaigns", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreateCampaignValidationError(t *testing.T) {
	router := testRouter(&mockCampaignService{})

	req := httptest.NewRequest(http.MethodPost, "/campaigns", strings.NewReader(`{"name":""}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestListCallsParsesQuery(t *testing.T) {
	svc := &mockCampaignService{}
	router := testRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/campaigns/camp-1/calls?status=failed&limit=10&offset=20&sortBy=started_at&sortOrder=asc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	f := svc.lastFilter
	if f.CampaignID != "camp-1" || f.Status != "failed" || f.Limit != 10 || f.Offset != 20 {
		t.Errorf("filter not parsed from query: %+v", f)
	}
	if f.SortBy != "started_at" || f.SortOrder != "asc" {
		t.Errorf("sort params not parsed: %+v", f)
	}
}

func TestEngineStatusEndpoint(t *testing.T) {
	router := testRouter(&mockCampaignService{})

	req := httptest.NewRequest(http.MethodGet, "/campaigns/engine/status", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var status engine.Status
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("failed to decode status: %v", err)
	}
	if status.Active {
		t.Error("engine should be inactive before Start")
	}
	if status.PollInterval == "" {
		t.Error("expected poll interval to be reported")
	}
}
