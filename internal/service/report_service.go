package service

import (
	"context"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"bakebot/internal/domain"
	"bakebot/internal/repository"
	"bakebot/pkg/errors"
	"bakebot/pkg/logger"
	"bakebot/pkg/redis"
	"golang.org/x/sync/errgroup"
)

const (
	// DailyReportHour is the UTC hour after which the scheduled reports go out
	DailyReportHour = 8

	recentSignupsInReport = 10
	scheduleCheckInterval = 15 * time.Minute
)

type reportService struct {
	events   repository.AnalyticsRepository
	surveys  repository.SurveyRepository
	waitlist repository.WaitlistRepository
	notifier *Notifier
	cache    *CacheService
	logger   *logger.Logger
	now      func() time.Time

	scheduleEnabled bool
	checkInterval   time.Duration

	mu        sync.Mutex
	isRunning bool
	stop      chan struct{}
	done      chan struct{}
	lastDaily string
	lastMonth string
}

// NewReportService creates the owner report service. When scheduleEnabled is
// set, Start runs the daily and monthly reports in the background.
func NewReportService(
	events repository.AnalyticsRepository,
	surveys repository.SurveyRepository,
	waitlist repository.WaitlistRepository,
	notifier *Notifier,
	cache *CacheService,
	scheduleEnabled bool,
	log *logger.Logger,
) ReportService {
	return &reportService{
		events:          events,
		surveys:         surveys,
		waitlist:        waitlist,
		notifier:        notifier,
		cache:           cache,
		logger:          log,
		now:             time.Now,
		scheduleEnabled: scheduleEnabled,
		checkInterval:   scheduleCheckInterval,
	}
}

// ParseSurveyRating reads N from a stored "Rating: N/5" answer
func ParseSurveyRating(question string) (int, bool) {
	_, value, found := strings.Cut(question, ": ")
	if !found {
		return 0, false
	}
	end := 0
	for end < len(value) && value[end] >= '0' && value[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(value[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// AverageSurveyRating averages parseable ratings to one decimal, or nil when none parse
func AverageSurveyRating(surveys []domain.SurveyResponse) *float64 {
	sum, n := 0, 0
	for _, s := range surveys {
		if r, ok := ParseSurveyRating(s.Question1); ok {
			sum += r
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := math.Round(float64(sum)/float64(n)*10) / 10
	return &avg
}

func (s *reportService) DailyReport(ctx context.Context) (*domain.DailyReport, error) {
	report, err := s.buildDailyReport(ctx)
	if err != nil {
		return nil, errors.NewInternalError("Failed to generate report", err)
	}
	s.notifier.DailyReport(report, s.now())

	s.logger.WithFields(map[string]interface{}{
		"unique_users": report.UniqueUsers,
		"interactions": report.TotalInteractions,
		"surveys":      len(report.Surveys),
	}).Info("Daily report generated")
	return report, nil
}

func (s *reportService) buildDailyReport(ctx context.Context) (*domain.DailyReport, error) {
	report := &domain.DailyReport{Since: s.now().UTC().Add(-24 * time.Hour)}
	var surveys []*domain.SurveyResponse

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		report.TotalInteractions, report.UniqueUsers, err = s.events.ActivitySince(gctx, report.Since)
		return err
	})
	g.Go(func() (err error) {
		surveys, err = s.surveys.ListSince(gctx, report.Since)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.Surveys = make([]domain.SurveyResponse, 0, len(surveys))
	for _, sr := range surveys {
		report.Surveys = append(report.Surveys, *sr)
	}
	report.AverageRating = AverageSurveyRating(report.Surveys)
	return report, nil
}

// BuildTractionReport tallies signups by role and source. signups must be newest first.
func BuildTractionReport(signups []*domain.WaitlistSignup) *domain.TractionReport {
	report := &domain.TractionReport{
		TotalSignups:    len(signups),
		SignupsByRole:   map[string]int{},
		SignupsBySource: map[string]int{},
		RecentSignups:   []domain.WaitlistSignup{},
	}
	for i, signup := range signups {
		report.SignupsByRole[signup.Role]++
		report.SignupsBySource[signup.Source]++
		if i < recentSignupsInReport {
			report.RecentSignups = append(report.RecentSignups, *signup)
		}
	}
	return report
}

func (s *reportService) TractionReport(ctx context.Context) (*domain.TractionReport, error) {
	signups, err := s.waitlist.ListAll(ctx)
	if err != nil {
		return nil, errors.NewInternalError("Failed to generate traction report", err)
	}

	report := BuildTractionReport(signups)
	s.notifier.TractionReport(report)

	s.logger.WithField("total_signups", report.TotalSignups).Info("Traction report generated")
	return report, nil
}

// Start begins the report schedule. It is a no-op when scheduling is disabled.
func (s *reportService) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.scheduleEnabled || s.isRunning {
		return nil
	}

	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	s.isRunning = true
	go s.scheduleRoutine(ctx, s.stop, s.done)

	s.logger.WithField("check_interval", s.checkInterval.String()).Info("Report scheduler started")
	return nil
}

// Stop halts the schedule and waits for an in-flight run to finish
func (s *reportService) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	close(s.stop)
	done := s.done
	s.isRunning = false
	s.mu.Unlock()

	select {
	case <-done:
		s.logger.Info("Report scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *reportService) scheduleRoutine(ctx context.Context, stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	s.runDue(ctx)
	for {
		select {
		case <-ticker.C:
			s.runDue(ctx)
		case <-stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

// runDue sends the reports whose period has started and not been sent yet.
// The Redis lock keeps several instances from sending the same period twice.
func (s *reportService) runDue(ctx context.Context) {
	now := s.now().UTC()
	if now.Hour() < DailyReportHour {
		return
	}

	day := now.Format("2006-01-02")
	if s.lastDaily != day && s.claim(ctx, "daily:"+day) {
		if _, err := s.DailyReport(ctx); err != nil {
			s.logger.WithError(err).Error("Scheduled daily report failed")
		}
	}
	s.lastDaily = day

	month := now.Format("2006-01")
	if now.Day() == 1 && s.lastMonth != month && s.claim(ctx, "traction:"+month) {
		if _, err := s.TractionReport(ctx); err != nil {
			s.logger.WithError(err).Error("Scheduled traction report failed")
		}
	}
	if now.Day() == 1 {
		s.lastMonth = month
	}
}

func (s *reportService) claim(ctx context.Context, period string) bool {
	ok, err := s.cache.AcquireReportLock(ctx, period, redis.TTLReportLock)
	if err != nil {
		// Fail open.
		s.logger.WithError(err).Warn("Report lock unavailable, sending anyway")
		return true
	}
	if !ok {
		s.logger.WithField("period", period).Debug("Report already sent by another instance")
	}
	return ok
}
