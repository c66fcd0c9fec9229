package service

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"bakebot/internal/domain"
	"bakebot/pkg/imagegen"
	"bakebot/pkg/logger"
	"bakebot/pkg/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockImageGenerator for testing
type MockImageGenerator struct {
	mock.Mock
}

func (m *MockImageGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func newTestDesignService(images ImageGenerator) (DesignService, *fakeDesignRepo, *fakeOrderRepo) {
	designs := newFakeDesignRepo()
	orders := newFakeOrderRepo()
	return NewDesignService(designs, orders, images, logger.NewNop()), designs, orders
}

func TestDesignService_GenerateMockup(t *testing.T) {
	images := new(MockImageGenerator)
	images.On("Generate", mock.Anything, "three tier lemon cake").Return("data:image/png;base64,AAAA", nil).Once()
	svc, _, _ := newTestDesignService(images)

	url, err := svc.GenerateMockup(context.Background(), "  three tier lemon cake ")
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,AAAA", url)
	images.AssertExpectations(t)
}

func TestDesignService_GenerateMockupErrors(t *testing.T) {
	tests := []struct {
		name    string
		prompt  string
		err     error
		status  int
		message string
	}{
		{name: "empty prompt", prompt: " ", status: http.StatusBadRequest, message: "Prompt is required"},
		{name: "not configured", prompt: "cake", err: imagegen.ErrNotConfigured, status: http.StatusInternalServerError, message: "AI service not configured"},
		{name: "provider rejects", prompt: "cake", err: &imagegen.ProviderError{StatusCode: 429, Message: "slow down"}, status: http.StatusTooManyRequests, message: "Failed to generate image"},
		{name: "provider error wrapped", prompt: "cake", err: fmt.Errorf("call: %w", &imagegen.ProviderError{StatusCode: 400}), status: http.StatusBadRequest, message: "Failed to generate image"},
		{name: "network failure", prompt: "cake", err: stderrors.New("dial tcp: timeout"), status: http.StatusBadGateway, message: "Failed to generate image"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			images := new(MockImageGenerator)
			if tt.err != nil {
				images.On("Generate", mock.Anything, tt.prompt).Return("", tt.err).Once()
			}
			svc, _, _ := newTestDesignService(images)

			_, err := svc.GenerateMockup(context.Background(), tt.prompt)
			assertAppError(t, err, tt.status, tt.message)
			images.AssertExpectations(t)
		})
	}
}

func TestDesignService_NilGenerator(t *testing.T) {
	svc, _, _ := newTestDesignService(nil)

	_, err := svc.GenerateMockup(context.Background(), "cake")
	assertAppError(t, err, http.StatusInternalServerError, "AI service not configured")
}

func TestDesignService_Quote(t *testing.T) {
	svc, _, _ := newTestDesignService(nil)
	cfg := pricing.Configuration{ProductType: pricing.ProductCake, Tiers: 2, Filling: "Raspberry", Theme: "Boho flora"}

	quote := svc.Quote(cfg)
	assert.Equal(t, cfg, quote.Configuration)
	assert.Equal(t, 211.0, quote.Breakdown.Total)
}

func TestDesignService_CreateListDelete(t *testing.T) {
	svc, _, _ := newTestDesignService(nil)
	ctx := context.Background()

	design, err := svc.CreateDesign(ctx, "baker-1", domain.DesignRequest{
		Title:         " Spring wedding ",
		ImageURL:      "data:image/png;base64,AAAA",
		Configuration: pricing.Configuration{ProductType: pricing.ProductCake, Tiers: 2, Filling: "Raspberry", Theme: "Boho flora"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Spring wedding", design.Title)
	assert.Equal(t, 211.0, design.EstimatedPrice)
	assert.Nil(t, design.Description)
	require.NotNil(t, design.ImageURL)

	_, err = svc.CreateDesign(ctx, "baker-1", domain.DesignRequest{})
	assertAppError(t, err, http.StatusBadRequest, "Title is required")

	list, err := svc.ListDesigns(ctx, "baker-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	other, err := svc.ListDesigns(ctx, "baker-2")
	require.NoError(t, err)
	assert.Empty(t, other)

	assertAppError(t, svc.DeleteDesign(ctx, "baker-2", design.ID), http.StatusNotFound, "Design not found")
	require.NoError(t, svc.DeleteDesign(ctx, "baker-1", design.ID))
	assertAppError(t, svc.DeleteDesign(ctx, "baker-1", design.ID), http.StatusNotFound, "Design not found")
}

func TestDesignService_CreateOrderFromDesign(t *testing.T) {
	svc, _, orders := newTestDesignService(nil)
	ctx := context.Background()

	design, err := svc.CreateDesign(ctx, "baker-1", domain.DesignRequest{
		Title:         "Birthday",
		Description:   "Chocolate drip",
		Configuration: pricing.Configuration{ProductType: pricing.ProductCupcakes, Quantity: 24},
	})
	require.NoError(t, err)

	order, err := svc.CreateOrderFromDesign(ctx, "baker-1", design.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusDraft, order.Status)
	assert.Equal(t, design.EstimatedPrice, order.TotalPrice)
	assert.Equal(t, "baker-1", order.BakerID)
	assert.Len(t, orders.orders, 1)

	var details map[string]interface{}
	require.NoError(t, json.Unmarshal(order.CakeDetails, &details))
	assert.Equal(t, design.ID, details["design_id"])
	assert.Equal(t, "Birthday", details["title"])
	assert.Equal(t, "Chocolate drip", details["description"])
	assert.Contains(t, details, "configuration")

	_, err = svc.CreateOrderFromDesign(ctx, "baker-2", design.ID)
	assertAppError(t, err, http.StatusNotFound, "Design not found")
}
