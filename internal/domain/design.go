package domain

import (
	"time"

	"bakebot/pkg/pricing"
)

// CakeDesign is a saved mockup with its configuration and quote.
type CakeDesign struct {
	ID             string                `json:"id"`
	BakerID        string                `json:"baker_id"`
	Title          string                `json:"title"`
	Description    *string               `json:"description,omitempty"`
	ImageURL       *string               `json:"image_url,omitempty"`
	Configuration  pricing.Configuration `json:"configuration"`
	EstimatedPrice float64               `json:"estimated_price"`
	CreatedAt      time.Time             `json:"created_at"`
}

// DesignRequest is the body of POST /api/designs.
type DesignRequest struct {
	Title         string                `json:"title"`
	Description   string                `json:"description"`
	ImageURL      string                `json:"image_url"`
	Configuration pricing.Configuration `json:"configuration"`
}

// GenerateRequest is the body of POST /api/generate.
type GenerateRequest struct {
	Prompt string `json:"prompt"`
}

// GenerateResponse carries the generated mockup as a data URL.
type GenerateResponse struct {
	ImageURL string `json:"imageUrl"`
}

// Quote is the response of POST /api/quotes.
type Quote struct {
	Configuration pricing.Configuration `json:"configuration"`
	Breakdown     pricing.Breakdown     `json:"breakdown"`
}
