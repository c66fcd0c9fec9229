package service

import (
	"context"
	stderrors "errors"
	"sort"
	"strings"
	"time"

	"bakebot/internal/domain"
	"bakebot/internal/repository"
	"bakebot/pkg/errors"
	"bakebot/pkg/logger"
	"bakebot/pkg/phone"
)

// ProductionStep is one task derived from every open order
type ProductionStep struct {
	Title    string
	Category string
	// DaysBefore counts back from the delivery date
	DaysBefore int
	Hour       int
	Minute     int
}

// ProductionSteps is the production plan applied to each order
var ProductionSteps = []ProductionStep{
	{Title: "Bake layers", Category: "Baking", DaysBefore: 2, Hour: 9},
	{Title: "Prepare filling", Category: "Filling", DaysBefore: 1, Hour: 10, Minute: 30},
	{Title: "Crumb coat", Category: "Coating", DaysBefore: 1, Hour: 11},
	{Title: "Decorate", Category: "Decorating", DaysBefore: 0, Hour: 13},
}

// maxLeadDays is the largest DaysBefore in ProductionSteps
const maxLeadDays = 2

type orderService struct {
	orders repository.OrderRepository
	logger *logger.Logger
	now    func() time.Time
}

// NewOrderService creates the order and production planning service
func NewOrderService(orders repository.OrderRepository, log *logger.Logger) OrderService {
	return &orderService{orders: orders, logger: log, now: time.Now}
}

func (s *orderService) ListOrders(ctx context.Context, bakerID string) ([]*domain.Order, error) {
	orders, err := s.orders.ListByBaker(ctx, bakerID)
	if err != nil {
		return nil, errors.NewInternalError("Failed to load orders", err)
	}
	return orders, nil
}

// applyOrderRequest validates req and copies it onto order
func applyOrderRequest(order *domain.Order, req domain.OrderRequest) error {
	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return errors.NewValidationError("Customer name is required", nil)
	}
	email := strings.ToLower(strings.TrimSpace(req.CustomerEmail))
	if email != "" && !emailPattern.MatchString(email) {
		return errors.NewValidationError("Invalid email format", nil)
	}
	if req.TotalPrice < 0 {
		return errors.NewValidationError("Total price cannot be negative", nil)
	}

	status := strings.TrimSpace(req.Status)
	if status == "" {
		status = domain.OrderStatusPending
	}
	if !domain.IsValidOrderStatus(status) {
		return errors.NewValidationError("Invalid status", map[string]interface{}{"status": req.Status})
	}

	order.CustomerName = name
	order.CustomerEmail = email
	order.CustomerPhone = nil
	if strings.TrimSpace(req.CustomerPhone) != "" {
		normalized, err := phone.Normalize(req.CustomerPhone)
		if err != nil {
			return errors.NewValidationError("Invalid phone number", map[string]interface{}{"customer_phone": req.CustomerPhone})
		}
		order.CustomerPhone = &normalized
	}
	order.TotalPrice = req.TotalPrice
	order.DeliveryDate = req.DeliveryDate
	order.Notes = optionalString(req.Notes)
	order.Status = status
	return nil
}

func (s *orderService) CreateOrder(ctx context.Context, bakerID string, req domain.OrderRequest) (*domain.Order, error) {
	order := &domain.Order{BakerID: bakerID}
	if err := applyOrderRequest(order, req); err != nil {
		return nil, err
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, errors.NewInternalError("Failed to create order", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"baker_id": bakerID,
		"order_id": order.ID,
		"status":   order.Status,
	}).Info("Order created")
	return order, nil
}

func (s *orderService) UpdateOrder(ctx context.Context, bakerID, id string, req domain.OrderRequest) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, bakerID, id)
	if err != nil {
		return nil, errors.NewInternalError("Failed to load order", err)
	}
	if order == nil {
		return nil, errors.NewNotFoundError("Order not found")
	}

	previous := order.Status
	if err := applyOrderRequest(order, req); err != nil {
		return nil, err
	}

	err = s.orders.Update(ctx, order)
	if stderrors.Is(err, repository.ErrNotFound) {
		return nil, errors.NewNotFoundError("Order not found")
	}
	if err != nil {
		return nil, errors.NewInternalError("Failed to update order", err)
	}

	if previous != order.Status {
		s.logger.WithFields(map[string]interface{}{
			"order_id": order.ID,
			"from":     previous,
			"to":       order.Status,
		}).Info("Order status changed")
	}
	return order, nil
}

func (s *orderService) DeleteOrder(ctx context.Context, bakerID, id string) error {
	err := s.orders.Delete(ctx, bakerID, id)
	if stderrors.Is(err, repository.ErrNotFound) {
		return errors.NewNotFoundError("Order not found")
	}
	if err != nil {
		return errors.NewInternalError("Failed to delete order", err)
	}
	return nil
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// weekStart returns the Monday of the week containing day
func weekStart(day time.Time) time.Time {
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// ProductionTasks expands open orders into their scheduled tasks, ordered by time
func ProductionTasks(orders []*domain.Order) []domain.ProductionTask {
	tasks := make([]domain.ProductionTask, 0, len(orders)*len(ProductionSteps))
	for _, o := range orders {
		if o.DeliveryDate == nil || domain.IsClosedOrderStatus(o.Status) {
			continue
		}
		delivery := truncateDay(*o.DeliveryDate)
		for _, step := range ProductionSteps {
			day := delivery.AddDate(0, 0, -step.DaysBefore)
			tasks = append(tasks, domain.ProductionTask{
				OrderID:      o.ID,
				Title:        step.Title,
				Category:     step.Category,
				ScheduledAt:  day.Add(time.Duration(step.Hour)*time.Hour + time.Duration(step.Minute)*time.Minute),
				CustomerName: o.CustomerName,
				OrderStatus:  o.Status,
			})
		}
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].ScheduledAt.Before(tasks[j].ScheduledAt)
	})
	return tasks
}

func (s *orderService) Production(ctx context.Context, bakerID string, day time.Time) (*domain.ProductionSchedule, error) {
	day = truncateDay(day)
	today := truncateDay(s.now())
	monday := weekStart(day)

	// Tasks land up to maxLeadDays before delivery, so look past Sunday.
	orders, err := s.orders.ListDeliveringBetween(ctx, bakerID, monday, monday.AddDate(0, 0, 7+maxLeadDays))
	if err != nil {
		return nil, errors.NewInternalError("Failed to load production schedule", err)
	}

	schedule := &domain.ProductionSchedule{
		Date:  day.Format(domain.DateLayout),
		Week:  make([]domain.ProductionDay, 7),
		Tasks: []domain.ProductionTask{},
	}
	for i := range schedule.Week {
		d := monday.AddDate(0, 0, i)
		schedule.Week[i] = domain.ProductionDay{
			Date:    d.Format(domain.DateLayout),
			Weekday: d.Weekday().String()[:3],
			IsToday: d.Equal(today),
		}
	}

	for _, task := range ProductionTasks(orders) {
		taskDay := truncateDay(task.ScheduledAt)
		idx := int(taskDay.Sub(monday) / (24 * time.Hour))
		if idx >= 0 && idx < 7 {
			schedule.Week[idx].Tasks++
		}
		if taskDay.Equal(day) {
			schedule.Tasks = append(schedule.Tasks, task)
		}
	}
	return schedule, nil
}
