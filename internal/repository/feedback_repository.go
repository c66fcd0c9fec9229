package repository

import (
	"context"
	"fmt"
	"time"

	"bakebot/internal/domain"
	"bakebot/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// feedbackRepository handles beta feedback and survey responses
type feedbackRepository struct {
	db *database.PostgresDB
}

// NewFeedbackRepository creates a new feedback repository
func NewFeedbackRepository(db *database.PostgresDB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

// Create inserts a feedback submission
func (r *feedbackRepository) Create(ctx context.Context, f *domain.Feedback) error {
	query := `
		INSERT INTO feedback (id, user_id, user_email, category, rating, message, page_url, browser_info)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`

	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	var browser []byte
	if len(f.BrowserInfo) > 0 {
		browser = f.BrowserInfo
	}

	err := r.db.Pool.QueryRow(ctx, query,
		f.ID, f.UserID, f.UserEmail, f.Category, f.Rating, f.Message, f.PageURL, browser,
	).Scan(&f.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create feedback: %w", err)
	}
	return nil
}

// List returns feedback newest first
func (r *feedbackRepository) List(ctx context.Context, limit int) ([]*domain.Feedback, error) {
	query := `
		SELECT id, user_id, user_email, category, rating, message, page_url, browser_info, created_at
		FROM feedback
		ORDER BY created_at DESC
	`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.db.GetReadPool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer rows.Close()

	items := make([]*domain.Feedback, 0)
	for rows.Next() {
		f := &domain.Feedback{}
		var browser []byte
		if err := rows.Scan(
			&f.ID, &f.UserID, &f.UserEmail, &f.Category, &f.Rating,
			&f.Message, &f.PageURL, &browser, &f.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan feedback row: %w", err)
		}
		f.BrowserInfo = browser
		items = append(items, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feedback rows: %w", err)
	}
	return items, nil
}

// Count returns the number of feedback submissions
func (r *feedbackRepository) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, `SELECT COUNT(*) FROM feedback`)
}

// AverageRating returns the mean rating, or 0 with no feedback
func (r *feedbackRepository) AverageRating(ctx context.Context) (float64, error) {
	var avg float64
	err := r.db.GetReadPool().QueryRow(ctx,
		`SELECT COALESCE(AVG(rating), 0)::float8 FROM feedback WHERE rating IS NOT NULL`,
	).Scan(&avg)
	if err != nil {
		return 0, fmt.Errorf("failed to average feedback rating: %w", err)
	}
	return avg, nil
}

// surveyRepository handles daily survey responses
type surveyRepository struct {
	db *database.PostgresDB
}

// NewSurveyRepository creates a new survey repository
func NewSurveyRepository(db *database.PostgresDB) SurveyRepository {
	return &surveyRepository{db: db}
}

// Create inserts a survey response
func (r *surveyRepository) Create(ctx context.Context, s *domain.SurveyResponse) error {
	query := `
		INSERT INTO survey_responses (id, user_id, user_email, question_1, question_2, question_3, value_rating)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	err := r.db.Pool.QueryRow(ctx, query,
		s.ID, s.UserID, s.UserEmail, s.Question1, s.Question2, s.Question3, s.ValueRating,
	).Scan(&s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create survey response: %w", err)
	}
	return nil
}

// CountByUserSince counts a user's responses since the given time
func (r *surveyRepository) CountByUserSince(ctx context.Context, userID string, since time.Time) (int, error) {
	return countRows(ctx, r.db,
		`SELECT COUNT(*) FROM survey_responses WHERE user_id = $1 AND created_at >= $2`, userID, since)
}

// ListSince returns responses since the given time, oldest first
func (r *surveyRepository) ListSince(ctx context.Context, since time.Time) ([]*domain.SurveyResponse, error) {
	query := `
		SELECT id, user_id, user_email, question_1, question_2, question_3, value_rating, created_at
		FROM survey_responses
		WHERE created_at >= $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.GetReadPool().Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list survey responses: %w", err)
	}
	defer rows.Close()

	items := make([]*domain.SurveyResponse, 0)
	for rows.Next() {
		s := &domain.SurveyResponse{}
		if err := rows.Scan(
			&s.ID, &s.UserID, &s.UserEmail, &s.Question1, &s.Question2, &s.Question3, &s.ValueRating, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan survey row: %w", err)
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating survey rows: %w", err)
	}
	return items, nil
}

// analyticsRepository handles analytics events
type analyticsRepository struct {
	db *database.PostgresDB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *database.PostgresDB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

// Create inserts an analytics event
func (r *analyticsRepository) Create(ctx context.Context, e *domain.AnalyticsEvent) error {
	query := `
		INSERT INTO analytics_events (id, user_id, event_type, page_path, x_pos, y_pos, is_dead_click, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	var metadata []byte
	if len(e.Metadata) > 0 {
		metadata = e.Metadata
	}

	err := r.db.Pool.QueryRow(ctx, query,
		e.ID, e.UserID, e.EventType, e.PagePath, e.XPos, e.YPos, e.IsDeadClick, metadata,
	).Scan(&e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create analytics event: %w", err)
	}
	return nil
}

// Count returns the number of recorded events
func (r *analyticsRepository) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, `SELECT COUNT(*) FROM analytics_events`)
}

// CountDeadClicks returns the number of dead clicks
func (r *analyticsRepository) CountDeadClicks(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, `SELECT COUNT(*) FROM analytics_events WHERE is_dead_click`)
}

// ListDeadClicks returns dead clicks newest first
func (r *analyticsRepository) ListDeadClicks(ctx context.Context, limit int) ([]*domain.AnalyticsEvent, error) {
	query := `
		SELECT id, user_id, event_type, page_path, x_pos, y_pos, is_dead_click, metadata, created_at
		FROM analytics_events
		WHERE is_dead_click
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.GetReadPool().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list dead clicks: %w", err)
	}
	defer rows.Close()

	events := make([]*domain.AnalyticsEvent, 0)
	for rows.Next() {
		e := &domain.AnalyticsEvent{}
		var metadata []byte
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.EventType, &e.PagePath, &e.XPos, &e.YPos, &e.IsDeadClick, &metadata, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan analytics row: %w", err)
		}
		e.Metadata = metadata
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating analytics rows: %w", err)
	}
	return events, nil
}

// ActivitySince counts events and distinct signed-in users since the given time
func (r *analyticsRepository) ActivitySince(ctx context.Context, since time.Time) (int, int, error) {
	var events, users int
	err := r.db.GetReadPool().QueryRow(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT user_id) FROM analytics_events WHERE created_at >= $1`, since,
	).Scan(&events, &users)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count activity: %w", err)
	}
	return events, users, nil
}

func countRows(ctx context.Context, db *database.PostgresDB, query string, args ...interface{}) (int, error) {
	var count int
	if err := db.GetReadPool().QueryRow(ctx, query, args...).Scan(&count); err != nil {
		if err == pgx.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to count rows: %w", err)
	}
	return count, nil
}
