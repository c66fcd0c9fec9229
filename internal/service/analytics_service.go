package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"bakebot/internal/domain"
	"bakebot/internal/repository"
	"bakebot/pkg/errors"
	"bakebot/pkg/logger"
	"golang.org/x/sync/errgroup"
)

const (
	// HeatmapScale is the resolution click coordinates are normalised to
	HeatmapScale = 1000

	// MaxClickTextRunes caps the element text stored with a click
	MaxClickTextRunes = 50

	// DefaultBrokenClicksLimit bounds the admin broken-clicks list
	DefaultBrokenClicksLimit = 100

	adminLatestFeedback = 5
)

var interactiveTags = map[string]bool{
	"button":   true,
	"a":        true,
	"input":    true,
	"select":   true,
	"textarea": true,
}

// IsDeadClick reports whether a click landed on nothing interactive. The
// target counts as interactive when it or one of its ancestors is a control
// or link, or when the browser showed a pointer cursor.
func IsDeadClick(target *domain.ClickTarget) bool {
	if target == nil {
		return true
	}
	if strings.EqualFold(strings.TrimSpace(target.Cursor), "pointer") {
		return false
	}
	if interactiveTags[strings.ToLower(target.Tag)] {
		return false
	}
	for _, tag := range target.Ancestors {
		if interactiveTags[strings.ToLower(tag)] {
			return false
		}
	}
	return true
}

// NormalizeCoordinate maps a client coordinate onto 0..HeatmapScale of the
// viewport dimension. A non-positive dimension yields nil.
func NormalizeCoordinate(client, viewport float64) *int {
	if viewport <= 0 {
		return nil
	}
	v := int(math.Round(client / viewport * HeatmapScale))
	return &v
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

type analyticsService struct {
	events   repository.AnalyticsRepository
	feedback repository.FeedbackRepository
	logger   *logger.Logger
	now      func() time.Time
}

// NewAnalyticsService creates the event tracking and admin dashboard service
func NewAnalyticsService(events repository.AnalyticsRepository, feedback repository.FeedbackRepository, log *logger.Logger) AnalyticsService {
	return &analyticsService{
		events:   events,
		feedback: feedback,
		logger:   log,
		now:      time.Now,
	}
}

func (s *analyticsService) RecordEvent(ctx context.Context, user *domain.AuthUser, req domain.EventRequest) (*domain.AnalyticsEvent, error) {
	if req.EventType != domain.EventPageView && req.EventType != domain.EventClick {
		return nil, errors.NewValidationError("Invalid event type", map[string]interface{}{"event_type": req.EventType})
	}
	pagePath := strings.TrimSpace(req.PagePath)
	if pagePath == "" {
		return nil, errors.NewValidationError("Page path is required", nil)
	}

	metadata := map[string]interface{}{}
	if len(req.Metadata) > 0 {
		if err := json.Unmarshal(req.Metadata, &metadata); err != nil {
			return nil, errors.NewValidationError("Metadata must be a JSON object", nil)
		}
	}
	metadata["timestamp"] = s.now().UTC().Format(time.RFC3339)
	if req.ViewportWidth > 0 && req.ViewportHeight > 0 {
		metadata["viewport"] = fmt.Sprintf("%.0fx%.0f", req.ViewportWidth, req.ViewportHeight)
	}

	event := &domain.AnalyticsEvent{
		EventType: req.EventType,
		PagePath:  pagePath,
	}
	if user != nil && user.ID != "" {
		id := user.ID
		event.UserID = &id
	}

	if req.EventType == domain.EventClick {
		event.XPos = NormalizeCoordinate(req.ClientX, req.ViewportWidth)
		event.YPos = NormalizeCoordinate(req.ClientY, req.ViewportHeight)
		event.IsDeadClick = IsDeadClick(req.Target)

		if t := req.Target; t != nil {
			metadata["element"] = strings.ToLower(t.Tag)
			if t.ID != "" {
				metadata["id"] = t.ID
			}
			if t.ClassName != "" {
				metadata["className"] = t.ClassName
			}
			metadata["text"] = truncateRunes(strings.TrimSpace(t.Text), MaxClickTextRunes)
		}
	}

	raw, err := json.Marshal(metadata)
	if err != nil {
		return nil, errors.NewInternalError("Failed to encode event metadata", err)
	}
	event.Metadata = raw

	if err := s.events.Create(ctx, event); err != nil {
		return nil, errors.NewInternalError("Failed to record event", err)
	}

	if event.IsDeadClick {
		s.logger.WithFields(map[string]interface{}{
			"page_path": event.PagePath,
			"element":   metadata["element"],
		}).Debug("Dead click recorded")
	}
	return event, nil
}

func (s *analyticsService) BrokenClicks(ctx context.Context, limit int) ([]*domain.AnalyticsEvent, error) {
	if limit <= 0 || limit > DefaultBrokenClicksLimit {
		limit = DefaultBrokenClicksLimit
	}
	events, err := s.events.ListDeadClicks(ctx, limit)
	if err != nil {
		return nil, errors.NewInternalError("Failed to load broken clicks", err)
	}
	return events, nil
}

func (s *analyticsService) AdminSummary(ctx context.Context) (*domain.AdminSummary, error) {
	summary := &domain.AdminSummary{LatestFeedback: []domain.Feedback{}}
	var latest []*domain.Feedback

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		summary.TotalFeedback, err = s.feedback.Count(gctx)
		return err
	})
	g.Go(func() error {
		avg, err := s.feedback.AverageRating(gctx)
		if err != nil {
			return err
		}
		summary.AverageRating = math.Round(avg*10) / 10
		return nil
	})
	g.Go(func() (err error) {
		summary.TotalEvents, err = s.events.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		summary.DeadClicks, err = s.events.CountDeadClicks(gctx)
		return err
	})
	g.Go(func() (err error) {
		latest, err = s.feedback.List(gctx, adminLatestFeedback)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, errors.NewInternalError("Failed to load admin summary", err)
	}

	for _, fb := range latest {
		summary.LatestFeedback = append(summary.LatestFeedback, *fb)
	}
	return summary, nil
}
