package models

import "time"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusRejected  OrderStatus = "rejected"
)

// OrderStatusAll is the list filter value that disables status filtering.
const OrderStatusAll = "all"

// Valid reports whether s is one of the three lifecycle states.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusRejected:
		return true
	}
	return false
}

// Order is a purchase submitted from the public order form.
type Order struct {
	ID          string      `db:"id" json:"id"`
	Name        string      `db:"name" json:"name"`
	Mobile      string      `db:"mobile" json:"mobile"`
	SenderBkash string      `db:"sender_bkash" json:"sender_bkash"`
	Status      OrderStatus `db:"status" json:"status"`
	Notes       *string     `db:"notes" json:"notes"`
	EbookFileID *string     `db:"ebook_file_id" json:"ebook_file_id"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	ConfirmedAt *time.Time  `db:"confirmed_at" json:"confirmed_at"`
}

// OrderFilter narrows the admin order list. Zero values disable a predicate.
type OrderFilter struct {
	Search      string
	Status      OrderStatus
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
}

// OrderStatusCounts summarises orders per status.
type OrderStatusCounts struct {
	Total     int `db:"total" json:"total"`
	Pending   int `db:"pending" json:"pending"`
	Confirmed int `db:"confirmed" json:"confirmed"`
	Rejected  int `db:"rejected" json:"rejected"`
}

// OrderFilterPreset is a named set of list filters saved by an admin.
type OrderFilterPreset struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"-"`
	Name      string    `db:"name" json:"name"`
	Search    string    `db:"search" json:"search"`
	Status    string    `db:"status" json:"status"`
	FromDate  string    `db:"from_date" json:"fromDate"`
	ToDate    string    `db:"to_date" json:"toDate"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// DailyOrderStat is one day of the analytics series.
type DailyOrderStat struct {
	Date      string `json:"date"`
	Total     int    `json:"total"`
	Pending   int    `json:"pending"`
	Confirmed int    `json:"confirmed"`
	Rejected  int    `json:"rejected"`
}

// OrderAnalytics is the dashboard analytics payload.
type OrderAnalytics struct {
	Days   int               `json:"days"`
	Series []DailyOrderStat  `json:"series"`
	Totals OrderStatusCounts `json:"totals"`
}

// OrderStatusPoint is the minimal projection used to build daily series.
type OrderStatusPoint struct {
	Status    OrderStatus `db:"status"`
	CreatedAt time.Time   `db:"created_at"`
}
