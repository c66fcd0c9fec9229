package service

import (
	"context"
	stderrors "errors"
	"net/http"
	"testing"
	"time"

	"bakebot/internal/domain"
	"bakebot/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMarketingService(cache *CacheService) (*marketingService, *fakeWaitlistRepo, *fakeBakerRepo, *fakeReferralRepo) {
	waitlist := &fakeWaitlistRepo{}
	bakers := newFakeBakerRepo()
	referrals := &fakeReferralRepo{}
	svc := NewMarketingService(waitlist, bakers, referrals, cache, logger.NewNop()).(*marketingService)
	svc.now = func() time.Time { return testNow }
	return svc, waitlist, bakers, referrals
}

func TestMarketingService_JoinWaitlist(t *testing.T) {
	svc, waitlist, _, _ := newTestMarketingService(nil)

	signup, err := svc.JoinWaitlist(context.Background(), domain.WaitlistRequest{Email: "  Baker@Example.COM "})
	require.NoError(t, err)
	assert.Equal(t, "baker@example.com", signup.Email)
	assert.Equal(t, domain.RoleCurious, signup.Role)
	assert.Equal(t, domain.DefaultWaitlistSource, signup.Source)
	assert.Len(t, waitlist.signups, 1)

	_, err = svc.JoinWaitlist(context.Background(), domain.WaitlistRequest{Email: "baker@example.com", Role: domain.RoleBaker})
	assertAppError(t, err, http.StatusConflict, "This email is already on the waitlist")
}

func TestMarketingService_JoinWaitlistValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     domain.WaitlistRequest
		message string
	}{
		{name: "missing email", req: domain.WaitlistRequest{Email: "   "}, message: "Email is required"},
		{name: "no at sign", req: domain.WaitlistRequest{Email: "baker.example.com"}, message: "Invalid email format"},
		{name: "no dot in domain", req: domain.WaitlistRequest{Email: "baker@example"}, message: "Invalid email format"},
		{name: "inner space", req: domain.WaitlistRequest{Email: "ba ker@example.com"}, message: "Invalid email format"},
		{name: "bad role", req: domain.WaitlistRequest{Email: "a@b.co", Role: "investor"}, message: "Invalid role"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, waitlist, _, _ := newTestMarketingService(nil)
			_, err := svc.JoinWaitlist(context.Background(), tt.req)
			assertAppError(t, err, http.StatusBadRequest, tt.message)
			assert.Empty(t, waitlist.signups)
		})
	}
}

func TestMarketingService_JoinWaitlistStoreError(t *testing.T) {
	svc, waitlist, _, _ := newTestMarketingService(nil)
	waitlist.err = stderrors.New("connection reset")

	_, err := svc.JoinWaitlist(context.Background(), domain.WaitlistRequest{Email: "a@b.co"})
	assertAppError(t, err, http.StatusInternalServerError, "Internal server error")
}

func seedWaitlist(w *fakeWaitlistRepo) {
	add := func(role string, age time.Duration) {
		w.signups = append(w.signups, &domain.WaitlistSignup{
			Email:     role + age.String() + "@example.com",
			Role:      role,
			Source:    domain.DefaultWaitlistSource,
			CreatedAt: testNow.Add(-age),
		})
	}
	add(domain.RoleBaker, time.Hour)
	add(domain.RoleBaker, 2*24*time.Hour)
	add(domain.RoleCustomer, 10*24*time.Hour)
}

func TestMarketingService_WaitlistStats(t *testing.T) {
	svc, waitlist, _, _ := newTestMarketingService(nil)
	seedWaitlist(waitlist)

	stats, err := svc.WaitlistStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalSignups)
	assert.Equal(t, 2, stats.BakerCount)
	assert.Equal(t, 1, stats.CustomerCount)
	assert.Equal(t, 0, stats.CuriousCount)
	assert.Equal(t, 1, stats.Last24hSignups)
	assert.Equal(t, 2, stats.Last7dSignups)
	require.NotNil(t, stats.MostRecentSignup)
	assert.Equal(t, testNow.Add(-time.Hour), *stats.MostRecentSignup)
	assert.Equal(t, domain.WaitlistBreakdown{Bakers: 67, Customers: 33, Curious: 0}, stats.BreakdownPercentage)
	assert.Equal(t, testNow, stats.Timestamp)
}

func TestMarketingService_WaitlistStatsEmpty(t *testing.T) {
	svc, _, _, _ := newTestMarketingService(nil)

	stats, err := svc.WaitlistStats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalSignups)
	assert.Nil(t, stats.MostRecentSignup)
	assert.Equal(t, domain.WaitlistBreakdown{}, stats.BreakdownPercentage)
}

func TestMarketingService_WaitlistStatsCachedAndInvalidated(t *testing.T) {
	_, cache := newRedisCache(t)
	svc, waitlist, _, _ := newTestMarketingService(cache)
	seedWaitlist(waitlist)
	ctx := context.Background()

	_, err := svc.WaitlistStats(ctx)
	require.NoError(t, err)
	stats, err := svc.WaitlistStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalSignups)
	assert.Equal(t, 1, waitlist.calls)

	_, err = svc.JoinWaitlist(ctx, domain.WaitlistRequest{Email: "new@example.com"})
	require.NoError(t, err)

	stats, err = svc.WaitlistStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalSignups)
	assert.Equal(t, 2, waitlist.calls)
}

func TestPercentOf(t *testing.T) {
	assert.Equal(t, 0, percentOf(0, 0))
	assert.Equal(t, 50, percentOf(1, 2))
	assert.Equal(t, 17, percentOf(1, 6))
	assert.Equal(t, 100, percentOf(3, 3))
}

func TestMarketingService_TrackReferral(t *testing.T) {
	svc, _, bakers, referrals := newTestMarketingService(nil)
	code := "ABC123"
	bakers.put(&domain.Baker{ID: "referrer", ReferralCode: &code})
	ctx := context.Background()

	require.NoError(t, svc.TrackReferral(ctx, "ABC123", "203.0.113.7", "Mozilla/5.0"))
	require.Len(t, referrals.clicks, 1)
	click := referrals.clicks[0]
	assert.Equal(t, "referrer", click.ReferrerID)
	assert.Equal(t, "203.0.113.7", click.IPAddress)
	assert.Equal(t, "Mozilla/5.0", click.UserAgent)

	require.NoError(t, svc.TrackReferral(ctx, "ABC123", "", ""))
	assert.Equal(t, "unknown", referrals.clicks[1].IPAddress)
	assert.Equal(t, "unknown", referrals.clicks[1].UserAgent)

	assertAppError(t, svc.TrackReferral(ctx, "", "1.1.1.1", ""), http.StatusBadRequest, "Referral code is required")
	assertAppError(t, svc.TrackReferral(ctx, "NOPE00", "1.1.1.1", ""), http.StatusNotFound, "Invalid referral code")
	assert.Len(t, referrals.clicks, 2)
}
