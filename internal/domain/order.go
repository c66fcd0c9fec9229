package domain

import (
	"encoding/json"
	"time"
)

// DateLayout is the calendar date format used by the production API.
const DateLayout = "2006-01-02"

// Order statuses.
const (
	OrderStatusDraft     = "draft"
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusPaid      = "paid"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

var orderStatuses = map[string]bool{
	OrderStatusDraft:     true,
	OrderStatusPending:   true,
	OrderStatusConfirmed: true,
	OrderStatusPaid:      true,
	OrderStatusPreparing: true,
	OrderStatusReady:     true,
	OrderStatusDelivered: true,
	OrderStatusCancelled: true,
}

// IsValidOrderStatus reports whether status is a known order status.
func IsValidOrderStatus(status string) bool {
	return orderStatuses[status]
}

// IsClosedOrderStatus reports whether no more production work is due.
func IsClosedOrderStatus(status string) bool {
	return status == OrderStatusDelivered || status == OrderStatusCancelled || status == OrderStatusDraft
}

// Order is a customer order owned by a baker.
type Order struct {
	ID            string          `json:"id"`
	BakerID       string          `json:"baker_id"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
	CustomerPhone *string         `json:"customer_phone,omitempty"`
	TotalPrice    float64         `json:"total_price"`
	DeliveryDate  *time.Time      `json:"delivery_date,omitempty"`
	Notes         *string         `json:"notes,omitempty"`
	Status        string          `json:"status"`
	CakeDetails   json.RawMessage `json:"cake_details,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// OrderRequest is the body for creating or updating an order.
type OrderRequest struct {
	CustomerName  string     `json:"customer_name"`
	CustomerEmail string     `json:"customer_email"`
	CustomerPhone string     `json:"customer_phone"`
	TotalPrice    float64    `json:"total_price"`
	DeliveryDate  *time.Time `json:"delivery_date"`
	Notes         string     `json:"notes"`
	Status        string     `json:"status"`
}

// ProductionTask is one scheduled step of producing an order.
type ProductionTask struct {
	OrderID      string    `json:"order_id"`
	Title        string    `json:"title"`
	Category     string    `json:"category"`
	ScheduledAt  time.Time `json:"scheduled_at"`
	CustomerName string    `json:"customer_name"`
	OrderStatus  string    `json:"order_status"`
}

// ProductionDay is the task count for one day of the week view.
type ProductionDay struct {
	Date    string `json:"date"`
	Weekday string `json:"weekday"`
	Tasks   int    `json:"tasks"`
	IsToday bool   `json:"is_today"`
}

// ProductionSchedule is the response of GET /api/production.
type ProductionSchedule struct {
	Date  string           `json:"date"`
	Week  []ProductionDay  `json:"week"`
	Tasks []ProductionTask `json:"tasks"`
}
