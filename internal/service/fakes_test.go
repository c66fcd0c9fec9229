package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"bakebot/internal/domain"
	"bakebot/internal/repository"
	"bakebot/pkg/email"
)

// In-memory repositories shared by the service tests. Each fake returns err
// from every call when set.

type fakeBakerRepo struct {
	mu      sync.Mutex
	bakers  map[string]*domain.Baker
	err     error
	codeErr []error
}

func newFakeBakerRepo() *fakeBakerRepo {
	return &fakeBakerRepo{bakers: map[string]*domain.Baker{}}
}

func (f *fakeBakerRepo) GetByID(ctx context.Context, id string) (*domain.Baker, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if b, ok := f.bakers[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeBakerRepo) GetByReferralCode(ctx context.Context, code string) (*domain.Baker, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, b := range f.bakers {
		if b.ReferralCode != nil && *b.ReferralCode == code {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeBakerRepo) Create(ctx context.Context, baker *domain.Baker) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.bakers[baker.ID]; !ok {
		cp := *baker
		f.bakers[baker.ID] = &cp
	}
	return nil
}

func (f *fakeBakerRepo) UpdateSettings(ctx context.Context, id string, settings domain.AccountSettings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bakers[id]
	if !ok {
		return repository.ErrNotFound
	}
	b.BusinessName = settings.BusinessName
	b.EmailLeads = settings.EmailLeads
	b.OrderUpdates = settings.OrderUpdates
	return nil
}

func (f *fakeBakerRepo) ActivatePlan(ctx context.Context, id, plan string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	b, ok := f.bakers[id]
	if !ok {
		return repository.ErrNotFound
	}
	b.IsPremium = true
	b.PlanType = &plan
	return nil
}

func (f *fakeBakerRepo) SetReferralCode(ctx context.Context, id, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.codeErr) > 0 {
		err := f.codeErr[0]
		f.codeErr = f.codeErr[1:]
		if err != nil {
			return err
		}
	}
	for _, b := range f.bakers {
		if b.ReferralCode != nil && *b.ReferralCode == code {
			return repository.ErrDuplicate
		}
	}
	b, ok := f.bakers[id]
	if !ok || b.ReferralCode != nil {
		return repository.ErrNotFound
	}
	b.ReferralCode = &code
	return nil
}

func (f *fakeBakerRepo) put(b *domain.Baker) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bakers[b.ID] = b
}

type fakeReferralRepo struct {
	mu        sync.Mutex
	referrals []*domain.Referral
	clicks    []*domain.ReferralClick
	err       error
}

func (f *fakeReferralRepo) Create(ctx context.Context, referral *domain.Referral) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, r := range f.referrals {
		if r.ReferredUserID == referral.ReferredUserID {
			return repository.ErrDuplicate
		}
	}
	referral.ID = fmt.Sprintf("ref-%d", len(f.referrals)+1)
	f.referrals = append(f.referrals, referral)
	return nil
}

func (f *fakeReferralRepo) CountByReferrer(ctx context.Context, referrerID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	n := 0
	for _, r := range f.referrals {
		if r.ReferrerID == referrerID {
			n++
		}
	}
	return n, nil
}

func (f *fakeReferralRepo) ExistsForUser(ctx context.Context, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	for _, r := range f.referrals {
		if r.ReferredUserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReferralRepo) CreateClick(ctx context.Context, click *domain.ReferralClick) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.clicks = append(f.clicks, click)
	return nil
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*domain.Order
	seq    int
	err    error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[string]*domain.Order{}}
}

func (f *fakeOrderRepo) ListByBaker(ctx context.Context, bakerID string) ([]*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.Order
	for _, o := range f.orders {
		if o.BakerID == bakerID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeOrderRepo) GetByID(ctx context.Context, bakerID, id string) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if o, ok := f.orders[id]; ok && o.BakerID == bakerID {
		cp := *o
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeOrderRepo) Create(ctx context.Context, order *domain.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.seq++
	order.ID = fmt.Sprintf("order-%02d", f.seq)
	cp := *order
	f.orders[order.ID] = &cp
	return nil
}

func (f *fakeOrderRepo) Update(ctx context.Context, order *domain.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	existing, ok := f.orders[order.ID]
	if !ok || existing.BakerID != order.BakerID {
		return repository.ErrNotFound
	}
	cp := *order
	f.orders[order.ID] = &cp
	return nil
}

func (f *fakeOrderRepo) Delete(ctx context.Context, bakerID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if o, ok := f.orders[id]; !ok || o.BakerID != bakerID {
		return repository.ErrNotFound
	}
	delete(f.orders, id)
	return nil
}

func (f *fakeOrderRepo) ListDeliveringBetween(ctx context.Context, bakerID string, from, to time.Time) ([]*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.Order
	for _, o := range f.orders {
		if o.BakerID != bakerID || o.DeliveryDate == nil {
			continue
		}
		if !o.DeliveryDate.Before(from) && o.DeliveryDate.Before(to) {
			out = append(out, o)
		}
	}
	return out, nil
}

type fakeDesignRepo struct {
	mu      sync.Mutex
	designs map[string]*domain.CakeDesign
	seq     int
	err     error
}

func newFakeDesignRepo() *fakeDesignRepo {
	return &fakeDesignRepo{designs: map[string]*domain.CakeDesign{}}
}

func (f *fakeDesignRepo) ListByBaker(ctx context.Context, bakerID string) ([]*domain.CakeDesign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.CakeDesign
	for _, d := range f.designs {
		if d.BakerID == bakerID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDesignRepo) GetByID(ctx context.Context, bakerID, id string) (*domain.CakeDesign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if d, ok := f.designs[id]; ok && d.BakerID == bakerID {
		cp := *d
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeDesignRepo) Create(ctx context.Context, design *domain.CakeDesign) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.seq++
	design.ID = fmt.Sprintf("design-%d", f.seq)
	cp := *design
	f.designs[design.ID] = &cp
	return nil
}

func (f *fakeDesignRepo) Delete(ctx context.Context, bakerID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d, ok := f.designs[id]; !ok || d.BakerID != bakerID {
		return repository.ErrNotFound
	}
	delete(f.designs, id)
	return nil
}

type fakeFeedbackRepo struct {
	mu    sync.Mutex
	items []*domain.Feedback
	err   error
}

func (f *fakeFeedbackRepo) Create(ctx context.Context, fb *domain.Feedback) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	fb.ID = fmt.Sprintf("fb-%d", len(f.items)+1)
	f.items = append(f.items, fb)
	return nil
}

func (f *fakeFeedbackRepo) List(ctx context.Context, limit int) ([]*domain.Feedback, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*domain.Feedback, 0, len(f.items))
	for i := len(f.items) - 1; i >= 0; i-- {
		out = append(out, f.items[i])
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeFeedbackRepo) Count(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	return len(f.items), nil
}

func (f *fakeFeedbackRepo) AverageRating(ctx context.Context) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	if len(f.items) == 0 {
		return 0, nil
	}
	sum := 0
	for _, fb := range f.items {
		sum += fb.Rating
	}
	return float64(sum) / float64(len(f.items)), nil
}

type fakeSurveyRepo struct {
	mu        sync.Mutex
	responses []*domain.SurveyResponse
	err       error
}

func (f *fakeSurveyRepo) Create(ctx context.Context, resp *domain.SurveyResponse) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	resp.ID = fmt.Sprintf("survey-%d", len(f.responses)+1)
	if resp.CreatedAt.IsZero() {
		resp.CreatedAt = time.Now().UTC()
	}
	f.responses = append(f.responses, resp)
	return nil
}

func (f *fakeSurveyRepo) CountByUserSince(ctx context.Context, userID string, since time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	n := 0
	for _, r := range f.responses {
		if r.UserID == userID && !r.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (f *fakeSurveyRepo) ListSince(ctx context.Context, since time.Time) ([]*domain.SurveyResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.SurveyResponse
	for _, r := range f.responses {
		if !r.CreatedAt.Before(since) {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeAnalyticsRepo struct {
	mu     sync.Mutex
	events []*domain.AnalyticsEvent
	err    error
}

func (f *fakeAnalyticsRepo) Create(ctx context.Context, e *domain.AnalyticsEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	e.ID = fmt.Sprintf("event-%d", len(f.events)+1)
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	f.events = append(f.events, e)
	return nil
}

func (f *fakeAnalyticsRepo) Count(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	return len(f.events), nil
}

func (f *fakeAnalyticsRepo) CountDeadClicks(ctx context.Context) (int, error) {
	dead, err := f.ListDeadClicks(ctx, 0)
	return len(dead), err
}

func (f *fakeAnalyticsRepo) ListDeadClicks(ctx context.Context, limit int) ([]*domain.AnalyticsEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.AnalyticsEvent
	for i := len(f.events) - 1; i >= 0; i-- {
		if f.events[i].IsDeadClick {
			out = append(out, f.events[i])
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeAnalyticsRepo) ActivitySince(ctx context.Context, since time.Time) (int, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, 0, f.err
	}
	users := map[string]bool{}
	n := 0
	for _, e := range f.events {
		if e.CreatedAt.Before(since) {
			continue
		}
		n++
		if e.UserID != nil {
			users[*e.UserID] = true
		}
	}
	return n, len(users), nil
}

type fakeWaitlistRepo struct {
	mu      sync.Mutex
	signups []*domain.WaitlistSignup
	err     error
	calls   int
}

func (f *fakeWaitlistRepo) Create(ctx context.Context, s *domain.WaitlistSignup) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, existing := range f.signups {
		if existing.Email == s.Email {
			return repository.ErrDuplicate
		}
	}
	s.ID = fmt.Sprintf("signup-%d", len(f.signups)+1)
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	f.signups = append(f.signups, s)
	return nil
}

func (f *fakeWaitlistRepo) Count(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return len(f.signups), nil
}

func (f *fakeWaitlistRepo) CountByRole(ctx context.Context, role string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	n := 0
	for _, s := range f.signups {
		if s.Role == role {
			n++
		}
	}
	return n, nil
}

func (f *fakeWaitlistRepo) CountSince(ctx context.Context, since time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	n := 0
	for _, s := range f.signups {
		if !s.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (f *fakeWaitlistRepo) MostRecent(ctx context.Context) (*time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var latest *time.Time
	for _, s := range f.signups {
		if latest == nil || s.CreatedAt.After(*latest) {
			t := s.CreatedAt
			latest = &t
		}
	}
	return latest, nil
}

func (f *fakeWaitlistRepo) ListAll(ctx context.Context) ([]*domain.WaitlistSignup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := append([]*domain.WaitlistSignup(nil), f.signups...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// fakeQueue records queued mail
type fakeQueue struct {
	mu       sync.Mutex
	messages []email.Message
	full     bool
}

func (q *fakeQueue) Enqueue(msg email.Message) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.full {
		return false
	}
	q.messages = append(q.messages, msg)
	return true
}

func (q *fakeQueue) sent() []email.Message {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]email.Message(nil), q.messages...)
}
