package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

const usage = "Usage: go run ./cmd/migrate [up|drop|seed]"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}
	command := os.Args[1]

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close(ctx)

	switch command {
	case "up":
		if err := execAll(ctx, conn, createStatements); err != nil {
			log.Fatalf("Failed to create tables: %v", err)
		}
		fmt.Println("✅ All tables created successfully")

	case "drop":
		if err := execAll(ctx, conn, dropStatements); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		fmt.Println("✅ All tables dropped successfully")

	case "seed":
		if err := execAll(ctx, conn, seedStatements); err != nil {
			log.Fatalf("Failed to seed data: %v", err)
		}
		fmt.Println("✅ Data seeded successfully")

	default:
		fmt.Printf("Unknown command: %s\n", command)
		fmt.Println(usage)
		os.Exit(1)
	}
}

var createStatements = []string{
	`CREATE TABLE IF NOT EXISTS bakers (
		id UUID PRIMARY KEY,
		email TEXT NOT NULL,
		business_name TEXT NOT NULL DEFAULT '',
		is_premium BOOLEAN NOT NULL DEFAULT false,
		plan_type TEXT CHECK (plan_type IN ('monthly', 'lifetime')),
		trial_ends_at TIMESTAMPTZ,
		referral_code VARCHAR(6) UNIQUE,
		email_leads BOOLEAN NOT NULL DEFAULT true,
		order_updates BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS referrals (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		referrer_id UUID NOT NULL REFERENCES bakers(id) ON DELETE CASCADE,
		referred_email TEXT NOT NULL DEFAULT '',
		referred_user_id UUID NOT NULL UNIQUE,
		referral_code VARCHAR(6) NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'converted')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS referral_clicks (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		referral_code VARCHAR(6) NOT NULL,
		referrer_id UUID NOT NULL REFERENCES bakers(id) ON DELETE CASCADE,
		ip_address TEXT NOT NULL,
		user_agent TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS orders (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		baker_id UUID NOT NULL REFERENCES bakers(id) ON DELETE CASCADE,
		customer_name TEXT NOT NULL,
		customer_email TEXT NOT NULL DEFAULT '',
		customer_phone TEXT,
		total_price NUMERIC(10, 2) NOT NULL DEFAULT 0 CHECK (total_price >= 0),
		delivery_date TIMESTAMPTZ,
		notes TEXT,
		status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN
			('draft', 'pending', 'confirmed', 'paid', 'preparing', 'ready', 'delivered', 'cancelled')),
		cake_details JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS cake_designs (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		baker_id UUID NOT NULL REFERENCES bakers(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		description TEXT,
		image_url TEXT,
		configuration JSONB NOT NULL DEFAULT '{}',
		estimated_price NUMERIC(10, 2) NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS feedback (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id UUID NOT NULL,
		user_email TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL CHECK (category IN ('bug', 'feature_request', 'ui_ux', 'other')),
		rating SMALLINT CHECK (rating BETWEEN 1 AND 5),
		message TEXT NOT NULL,
		page_url TEXT NOT NULL DEFAULT '',
		browser_info JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS survey_responses (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id UUID NOT NULL,
		user_email TEXT NOT NULL DEFAULT '',
		question_1 TEXT NOT NULL,
		question_2 TEXT NOT NULL DEFAULT '',
		question_3 TEXT NOT NULL DEFAULT '',
		value_rating TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS analytics_events (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id UUID,
		event_type TEXT NOT NULL CHECK (event_type IN ('page_view', 'click')),
		page_path TEXT NOT NULL,
		x_pos INTEGER,
		y_pos INTEGER,
		is_dead_click BOOLEAN NOT NULL DEFAULT false,
		metadata JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS waitlist_signups (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		email TEXT NOT NULL UNIQUE,
		role TEXT NOT NULL DEFAULT 'curious' CHECK (role IN ('baker', 'customer', 'curious')),
		source TEXT NOT NULL DEFAULT 'landing-page',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_referrals_referrer_id ON referrals(referrer_id)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_baker_delivery ON orders(baker_id, delivery_date)`,
	`CREATE INDEX IF NOT EXISTS idx_cake_designs_baker_id ON cake_designs(baker_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_feedback_created_at ON feedback(created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_survey_responses_user_created ON survey_responses(user_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_analytics_events_created_at ON analytics_events(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_analytics_events_dead_clicks ON analytics_events(created_at DESC) WHERE is_dead_click`,
	`CREATE INDEX IF NOT EXISTS idx_waitlist_signups_created_at ON waitlist_signups(created_at DESC)`,
}

var dropStatements = []string{
	`DROP TABLE IF EXISTS referral_clicks CASCADE`,
	`DROP TABLE IF EXISTS referrals CASCADE`,
	`DROP TABLE IF EXISTS orders CASCADE`,
	`DROP TABLE IF EXISTS cake_designs CASCADE`,
	`DROP TABLE IF EXISTS feedback CASCADE`,
	`DROP TABLE IF EXISTS survey_responses CASCADE`,
	`DROP TABLE IF EXISTS analytics_events CASCADE`,
	`DROP TABLE IF EXISTS waitlist_signups CASCADE`,
	`DROP TABLE IF EXISTS bakers CASCADE`,
}

// seedStatements fill the landing page tables for local development
var seedStatements = []string{
	`INSERT INTO waitlist_signups (email, role, source, created_at) VALUES
		('maria@sweetlayers.test', 'baker', 'landing-page', NOW() - INTERVAL '3 days'),
		('josh@crumbs.test', 'baker', 'instagram', NOW() - INTERVAL '30 hours'),
		('lena@example.test', 'customer', 'landing-page', NOW() - INTERVAL '2 hours'),
		('sam@example.test', 'curious', 'referral', NOW() - INTERVAL '10 minutes')
	ON CONFLICT (email) DO NOTHING`,
}

func execAll(ctx context.Context, conn *pgx.Conn, statements []string) error {
	for _, query := range statements {
		if _, err := conn.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w\nQuery: %s", err, query)
		}
		fmt.Printf("  Done: %s\n", summarize(query))
	}
	return nil
}

func summarize(query string) string {
	line := strings.TrimSpace(strings.SplitN(query, "\n", 2)[0])
	if len(line) > 60 {
		return line[:60] + "..."
	}
	return line
}
