package dto

import "github.com/fahimunoffice-stack/her-well-being/internal/models"

// SubmitOrderRequest is the public order form payload.
type SubmitOrderRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Mobile      string `json:"mobile" validate:"required,min=11,max=20"`
	SenderBkash string `json:"sender_bkash" validate:"required,min=11,max=20"`
}

// SubmitOrderResponse is returned to the order form after a successful insert.
type SubmitOrderResponse struct {
	ID     string             `json:"id"`
	Status models.OrderStatus `json:"status"`
}

// OrderListQuery captures the admin list filters from the query string.
type OrderListQuery struct {
	Search string `form:"search" json:"search"`
	Status string `form:"status" json:"status"`
	From   string `form:"from" json:"fromDate"`
	To     string `form:"to" json:"toDate"`
}

// OrderListResult bundles the filtered rows with the per-status KPIs.
type OrderListResult struct {
	Orders []models.Order           `json:"orders"`
	KPIs   models.OrderStatusCounts `json:"kpis"`
}

// UpdateOrderStatusRequest changes the status of a single order.
type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required"`
}

// BulkUpdateOrdersRequest applies one status to many orders.
type BulkUpdateOrdersRequest struct {
	IDs         []string           `json:"ids"`
	Status      models.OrderStatus `json:"status" validate:"required"`
	EbookFileID *string            `json:"ebook_file_id"`
}

// BulkUpdateOrdersResult reports how many rows changed.
type BulkUpdateOrdersResult struct {
	Updated int64 `json:"updated"`
}

// AssignEbookRequest links an e-book version to an order. Null clears it.
type AssignEbookRequest struct {
	EbookFileID *string `json:"ebook_file_id"`
}

// UpdateOrderNotesRequest replaces the internal notes of an order.
type UpdateOrderNotesRequest struct {
	Notes string `json:"notes" validate:"max=2000"`
}

// DeleteAllOrdersConfirmation is the phrase required to wipe every order.
const DeleteAllOrdersConfirmation = "DELETE ALL"

// DeleteAllOrdersRequest must carry the confirmation phrase.
type DeleteAllOrdersRequest struct {
	Confirm string `json:"confirm"`
}

// DeleteAllOrdersResult reports how many orders were removed.
type DeleteAllOrdersResult struct {
	Deleted int64 `json:"deleted"`
}

// OrderExport is a rendered export ready to be streamed.
type OrderExport struct {
	Filename    string
	ContentType string
	Body        []byte
	Rows        int
}

// CreateOrderPresetRequest saves the current filters under a name.
type CreateOrderPresetRequest struct {
	Name     string `json:"name" validate:"required,max=80"`
	Search   string `json:"search" validate:"max=200"`
	Status   string `json:"status"`
	FromDate string `json:"fromDate"`
	ToDate   string `json:"toDate"`
}

// ActivityLog is the admin logs page payload.
type ActivityLog struct {
	RecentOrders []models.Order           `json:"recent_orders"`
	Stats        models.OrderStatusCounts `json:"stats"`
	AuditTrail   []models.AuditLog        `json:"audit_trail"`
}
