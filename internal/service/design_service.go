package service

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"
	"time"
	"unicode/utf8"

	"bakebot/internal/domain"
	"bakebot/internal/repository"
	"bakebot/pkg/errors"
	"bakebot/pkg/imagegen"
	"bakebot/pkg/logger"
	"bakebot/pkg/pricing"
)

const (
	maxPromptRunes      = 2000
	maxDesignTitleRunes = 200
)

// ImageGenerator renders a prompt into an image data URL
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type designService struct {
	designs repository.DesignRepository
	orders  repository.OrderRepository
	images  ImageGenerator
	logger  *logger.Logger
}

// NewDesignService creates the mockup, quote and saved design service
func NewDesignService(designs repository.DesignRepository, orders repository.OrderRepository, images ImageGenerator, log *logger.Logger) DesignService {
	return &designService{
		designs: designs,
		orders:  orders,
		images:  images,
		logger:  log,
	}
}

func (s *designService) GenerateMockup(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.NewValidationError("Prompt is required", nil)
	}
	if utf8.RuneCountInString(prompt) > maxPromptRunes {
		return "", errors.NewValidationError("Prompt is too long", map[string]interface{}{"max_length": maxPromptRunes})
	}
	if s.images == nil {
		return "", errors.NewInternalError("AI service not configured", imagegen.ErrNotConfigured)
	}

	start := time.Now()
	imageURL, err := s.images.Generate(ctx, prompt)
	if err != nil {
		if stderrors.Is(err, imagegen.ErrNotConfigured) {
			s.logger.Error("AI_IMAGE_API_KEY is missing")
			return "", errors.NewInternalError("AI service not configured", err)
		}

		var providerErr *imagegen.ProviderError
		if stderrors.As(err, &providerErr) {
			s.logger.WithFields(map[string]interface{}{
				"status":   providerErr.StatusCode,
				"response": providerErr.Message,
			}).Error("Image provider rejected request")
			return "", errors.NewExternalError("Failed to generate image", providerErr.StatusCode, err)
		}

		s.logger.WithError(err).Error("Image generation failed")
		return "", errors.NewExternalError("Failed to generate image", 0, err)
	}

	s.logger.WithField("duration_ms", time.Since(start).Milliseconds()).Info("Mockup generated")
	return imageURL, nil
}

func (s *designService) Quote(cfg pricing.Configuration) *domain.Quote {
	return &domain.Quote{
		Configuration: cfg,
		Breakdown:     pricing.Calculate(cfg),
	}
}

func (s *designService) ListDesigns(ctx context.Context, bakerID string) ([]*domain.CakeDesign, error) {
	designs, err := s.designs.ListByBaker(ctx, bakerID)
	if err != nil {
		return nil, errors.NewInternalError("Failed to load designs", err)
	}
	return designs, nil
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func (s *designService) CreateDesign(ctx context.Context, bakerID string, req domain.DesignRequest) (*domain.CakeDesign, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, errors.NewValidationError("Title is required", nil)
	}
	if utf8.RuneCountInString(title) > maxDesignTitleRunes {
		return nil, errors.NewValidationError("Title is too long", map[string]interface{}{"max_length": maxDesignTitleRunes})
	}

	design := &domain.CakeDesign{
		BakerID:        bakerID,
		Title:          title,
		Description:    optionalString(req.Description),
		ImageURL:       optionalString(req.ImageURL),
		Configuration:  req.Configuration,
		EstimatedPrice: pricing.Calculate(req.Configuration).Total,
	}
	if err := s.designs.Create(ctx, design); err != nil {
		return nil, errors.NewInternalError("Failed to save design", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"baker_id":  bakerID,
		"design_id": design.ID,
		"estimate":  design.EstimatedPrice,
	}).Info("Design saved")
	return design, nil
}

func (s *designService) DeleteDesign(ctx context.Context, bakerID, id string) error {
	err := s.designs.Delete(ctx, bakerID, id)
	if stderrors.Is(err, repository.ErrNotFound) {
		return errors.NewNotFoundError("Design not found")
	}
	if err != nil {
		return errors.NewInternalError("Failed to delete design", err)
	}
	return nil
}

// designDetails is stored as the cake_details of an order created from a design
type designDetails struct {
	DesignID      string                `json:"design_id"`
	Title         string                `json:"title"`
	Description   *string               `json:"description,omitempty"`
	Configuration pricing.Configuration `json:"configuration"`
	ImageURL      *string               `json:"image_url,omitempty"`
}

func (s *designService) CreateOrderFromDesign(ctx context.Context, bakerID, designID string) (*domain.Order, error) {
	design, err := s.designs.GetByID(ctx, bakerID, designID)
	if err != nil {
		return nil, errors.NewInternalError("Failed to load design", err)
	}
	if design == nil {
		return nil, errors.NewNotFoundError("Design not found")
	}

	details, err := json.Marshal(designDetails{
		DesignID:      design.ID,
		Title:         design.Title,
		Description:   design.Description,
		Configuration: design.Configuration,
		ImageURL:      design.ImageURL,
	})
	if err != nil {
		return nil, errors.NewInternalError("Failed to encode design", err)
	}

	order := &domain.Order{
		BakerID:     bakerID,
		TotalPrice:  design.EstimatedPrice,
		Status:      domain.OrderStatusDraft,
		CakeDetails: details,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, errors.NewInternalError("Failed to create order", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"baker_id":  bakerID,
		"design_id": design.ID,
		"order_id":  order.ID,
	}).Info("Draft order created from design")
	return order, nil
}
