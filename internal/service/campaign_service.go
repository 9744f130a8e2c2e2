package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/voicereach/voicereach-backend/internal/models"
	"github.com/voicereach/voicereach-backend/internal/repository"
)

// CampaignService handles campaign business logic
type CampaignService interface {
	Create(ctx context.Context, req *CreateCampaignRequest) (*models.Campaign, error)
	GetByID(ctx context.Context, id string) (*models.Campaign, error)
	List(ctx context.Context, filter models.CampaignFilter) (*CampaignListResult, error)

	Start(ctx context.Context, id string) (*LifecycleResult, error)
	Pause(ctx context.Context, id string) (*LifecycleResult, error)
	Resume(ctx context.Context, id string) (*LifecycleResult, error)
	Stop(ctx context.Context, id string) (*StopResult, error)
	ResetDaily(ctx context.Context, id string) (*LifecycleResult, error)

	Status(ctx context.Context, id string) (*models.CampaignWithStats, error)
	ListCalls(ctx context.Context, filter models.CampaignCallFilter) (*CallListResult, error)

	IngestContactFile(ctx context.Context, filename string, data io.Reader) (*ContactFileResult, error)
}

type campaignService struct {
	campaignRepo repository.CampaignRepository
	callRepo     repository.CallRepository
	queueRepo    repository.QueueRepository
	contactRepo  repository.ContactRepository
	logger       *slog.Logger
}

// NewCampaignService creates a new campaign service
func NewCampaignService(
	campaignRepo repository.CampaignRepository,
	callRepo repository.CallRepository,
	queueRepo repository.QueueRepository,
	contactRepo repository.ContactRepository,
	logger *slog.Logger,
) CampaignService {
	return &campaignService{
		campaignRepo: campaignRepo,
		callRepo:     callRepo,
		queueRepo:    queueRepo,
		contactRepo:  contactRepo,
		logger:       logger,
	}
}

// Create creates a new campaign in draft
func (s *campaignService) Create(ctx context.Context, req *CreateCampaignRequest) (*models.Campaign, error) {
	campaign := &models.Campaign{
		Name:            req.Name,
		ExecutionStatus: models.CampaignStatusDraft,
		DailyCap:        req.DailyCap,
		CallingDays:     req.CallingDays,
		StartHour:       req.StartHour,
		EndHour:         req.EndHour,
		ContactSource:   req.ContactSource,
		ContactListID:   req.ContactListID,
		ContactFileID:   req.ContactFileID,
		AssistantID:     req.AssistantID,
		Prompt:          req.Prompt,
		DialingRegion:   req.DialingRegion,
	}

	if err := campaign.Validate(); err != nil {
		return nil, err
	}

	if err := s.campaignRepo.Create(ctx, campaign); err != nil {
		s.logger.Error("failed to create campaign",
			slog.String("error", err.Error()),
			slog.String("name", req.Name),
		)
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}

	s.logger.Info("campaign created",
		slog.String("campaign_id", campaign.ID),
		slog.String("name", campaign.Name),
	)

	return campaign, nil
}

// GetByID retrieves a campaign
func (s *campaignService) GetByID(ctx context.Context, id string) (*models.Campaign, error) {
	return s.campaignRepo.GetByID(ctx, id)
}

// List retrieves campaigns with pagination
func (s *campaignService) List(ctx context.Context, filter models.CampaignFilter) (*CampaignListResult, error) {
	campaigns, totalCount, err := s.campaignRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}

	models.ValidateAndSetDefaults(&filter.Page, &filter.PageSize)
	pagination := models.NewPaginationResult(filter.Page, filter.PageSize, totalCount)

	return &CampaignListResult{
		Data:       campaigns,
		Pagination: pagination,
	}, nil
}

// Start transitions a draft or paused campaign to running. The daily counter
// is reset and next_call_at set to now so the next poll picks it up.
func (s *campaignService) Start(ctx context.Context, id string) (*LifecycleResult, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !campaign.CanStart() {
		return nil, models.ErrConflictWithMsg(
			fmt.Sprintf("campaign with status '%s' cannot be started", campaign.ExecutionStatus),
		)
	}

	if err := s.campaignRepo.MarkStarted(ctx, id, time.Now()); err != nil {
		return nil, err
	}

	s.logger.Info("campaign started", slog.String("campaign_id", id))
	return &LifecycleResult{CampaignID: id, ExecutionStatus: models.CampaignStatusRunning}, nil
}

// Pause transitions a running campaign to paused
func (s *campaignService) Pause(ctx context.Context, id string) (*LifecycleResult, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !campaign.CanPause() {
		return nil, models.ErrConflictWithMsg(
			fmt.Sprintf("campaign with status '%s' cannot be paused", campaign.ExecutionStatus),
		)
	}

	if err := s.campaignRepo.MarkPaused(ctx, id, "Paused by operator"); err != nil {
		return nil, err
	}

	s.logger.Info("campaign paused", slog.String("campaign_id", id))
	return &LifecycleResult{CampaignID: id, ExecutionStatus: models.CampaignStatusPaused}, nil
}

// Resume transitions a paused campaign back to running
func (s *campaignService) Resume(ctx context.Context, id string) (*LifecycleResult, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !campaign.CanResume() {
		return nil, models.ErrConflictWithMsg(
			fmt.Sprintf("campaign with status '%s' cannot be resumed", campaign.ExecutionStatus),
		)
	}

	if err := s.campaignRepo.MarkResumed(ctx, id); err != nil {
		return nil, err
	}

	s.logger.Info("campaign resumed", slog.String("campaign_id", id))
	return &LifecycleResult{CampaignID: id, ExecutionStatus: models.CampaignStatusRunning}, nil
}

// Stop completes a running or paused campaign and cancels any leftover
// legacy queue items.
func (s *campaignService) Stop(ctx context.Context, id string) (*StopResult, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !campaign.CanStop() {
		return nil, models.ErrConflictWithMsg(
			fmt.Sprintf("campaign with status '%s' cannot be stopped", campaign.ExecutionStatus),
		)
	}

	if err := s.campaignRepo.MarkCompleted(ctx, id); err != nil {
		return nil, err
	}

	cancelled, err := s.queueRepo.CancelQueued(ctx, id)
	if err != nil {
		// The campaign is already stopped; stale queue rows only affect
		// status reporting.
		s.logger.Error("failed to cancel queued items",
			slog.String("campaign_id", id),
			slog.String("error", err.Error()),
		)
		cancelled = 0
	}

	s.logger.Info("campaign stopped",
		slog.String("campaign_id", id),
		slog.Int64("cancelled_queue_items", cancelled),
	)

	return &StopResult{
		LifecycleResult:     LifecycleResult{CampaignID: id, ExecutionStatus: models.CampaignStatusCompleted},
		CancelledQueueItems: cancelled,
	}, nil
}

// ResetDaily zeroes the campaign's daily call counter
func (s *campaignService) ResetDaily(ctx context.Context, id string) (*LifecycleResult, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.campaignRepo.ResetDaily(ctx, id); err != nil {
		return nil, err
	}

	s.logger.Info("daily counter reset", slog.String("campaign_id", id))
	return &LifecycleResult{CampaignID: id, ExecutionStatus: campaign.ExecutionStatus}, nil
}

// Status returns campaign fields plus aggregated call and queue statistics
func (s *campaignService) Status(ctx context.Context, id string) (*models.CampaignWithStats, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	callsByStatus, err := s.callRepo.CountByStatus(ctx, id)
	if err != nil {
		return nil, err
	}
	callsByOutcome, err := s.callRepo.CountByOutcome(ctx, id)
	if err != nil {
		return nil, err
	}
	queueByStatus, err := s.queueRepo.CountByStatus(ctx, id)
	if err != nil {
		return nil, err
	}

	return &models.CampaignWithStats{
		Campaign: *campaign,
		Stats: models.CampaignStats{
			CallsByStatus:  callsByStatus,
			CallsByOutcome: callsByOutcome,
			QueueByStatus:  queueByStatus,
		},
	}, nil
}

// ListCalls returns a filtered, paged list of a campaign's calls
func (s *campaignService) ListCalls(ctx context.Context, filter models.CampaignCallFilter) (*CallListResult, error) {
	if _, err := s.campaignRepo.GetByID(ctx, filter.CampaignID); err != nil {
		return nil, err
	}

	if filter.Status != "" && !models.IsValidCallStatus(filter.Status) {
		return nil, models.ErrInvalidInput(fmt.Sprintf("invalid status filter: %s", filter.Status))
	}

	filter.Normalize()
	calls, totalCount, err := s.callRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &CallListResult{
		Data:       calls,
		TotalCount: totalCount,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}, nil
}
