package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/voicereach/voicereach-backend/internal/engine"
	"github.com/voicereach/voicereach-backend/internal/models"
	"github.com/voicereach/voicereach-backend/internal/service"
)

// maxUploadBytes caps contact file uploads.
const maxUploadBytes = 10 << 20

// CampaignHandler handles campaign HTTP requests
type CampaignHandler struct {
	campaignService service.CampaignService
	scheduler       *engine.Scheduler
	logger          *slog.Logger
}

// NewCampaignHandler creates a new campaign handler
func NewCampaignHandler(campaignService service.CampaignService, scheduler *engine.Scheduler, logger *slog.Logger) *CampaignHandler {
	return &CampaignHandler{
		campaignService: campaignService,
		scheduler:       scheduler,
		logger:          logger,
	}
}

// CreateCampaign handles POST /campaigns
func (h *CampaignHandler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var req service.CreateCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	campaign, err := h.campaignService.Create(r.Context(), &req)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondCreated(w, campaign)
}

// ListCampaigns handles GET /campaigns
func (h *CampaignHandler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, _ := strconv.Atoi(query.Get("page"))
	pageSize, _ := strconv.Atoi(query.Get("page_size"))

	filter := models.CampaignFilter{
		ExecutionStatus: query.Get("execution_status"),
		Page:            page,
		PageSize:        pageSize,
	}

	result, err := h.campaignService.List(r.Context(), filter)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, result)
}

// GetCampaign handles GET /campaigns/{id}
func (h *CampaignHandler) GetCampaign(w http.ResponseWriter, r *http.Request) {
	campaign, err := h.campaignService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, campaign)
}

// StartCampaign handles POST /campaigns/{id}/start
func (h *CampaignHandler) StartCampaign(w http.ResponseWriter, r *http.Request) {
	result, err := h.campaignService.Start(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, result)
}

// PauseCampaign handles POST /campaigns/{id}/pause
func (h *CampaignHandler) PauseCampaign(w http.ResponseWriter, r *http.Request) {
	result, err := h.campaignService.Pause(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, result)
}

// ResumeCampaign handles POST /campaigns/{id}/resume
func (h *CampaignHandler) ResumeCampaign(w http.ResponseWriter, r *http.Request) {
	result, err := h.campaignService.Resume(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, result)
}

// StopCampaign handles POST /campaigns/{id}/stop
func (h *CampaignHandler) StopCampaign(w http.ResponseWriter, r *http.Request) {
	result, err := h.campaignService.Stop(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, result)
}

// ResetDaily handles POST /campaigns/{id}/reset-daily
func (h *CampaignHandler) ResetDaily(w http.ResponseWriter, r *http.Request) {
	result, err := h.campaignService.ResetDaily(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, result)
}

// CampaignStatus handles GET /campaigns/{id}/status
func (h *CampaignHandler) CampaignStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.campaignService.Status(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, status)
}

// ListCalls handles GET /campaigns/{id}/calls
func (h *CampaignHandler) ListCalls(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit, _ := strconv.Atoi(query.Get("limit"))
	offset, _ := strconv.Atoi(query.Get("offset"))

	filter := models.CampaignCallFilter{
		CampaignID: chi.URLParam(r, "id"),
		Status:     query.Get("status"),
		Outcome:    query.Get("outcome"),
		Limit:      limit,
		Offset:     offset,
		SortBy:     query.Get("sortBy"),
		SortOrder:  query.Get("sortOrder"),
	}

	result, err := h.campaignService.ListCalls(r.Context(), filter)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, result)
}

// EngineStatus handles GET /campaigns/engine/status
func (h *CampaignHandler) EngineStatus(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, h.scheduler.Status())
}

// UploadContactFile handles POST /contact-files
func (h *CampaignHandler) UploadContactFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "Expected multipart form with a 'file' field")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "Missing 'file' field")
		return
	}
	defer file.Close()

	result, err := h.campaignService.IngestContactFile(r.Context(), header.Filename, file)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondCreated(w, result)
}
