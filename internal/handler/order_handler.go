package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fahimunoffice-stack/her-well-being/internal/dto"
	"github.com/fahimunoffice-stack/her-well-being/internal/middleware"
	"github.com/fahimunoffice-stack/her-well-being/internal/models"
	appErrors "github.com/fahimunoffice-stack/her-well-being/pkg/errors"
	"github.com/fahimunoffice-stack/her-well-being/pkg/response"
	"github.com/fahimunoffice-stack/her-well-being/pkg/storage"
)

type orderService interface {
	Submit(ctx context.Context, req dto.SubmitOrderRequest) (*dto.SubmitOrderResponse, error)
	List(ctx context.Context, query dto.OrderListQuery) (*dto.OrderListResult, error)
	ListPending(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id string, req dto.UpdateOrderStatusRequest, actor models.Actor) (*models.Order, error)
	BulkUpdateStatus(ctx context.Context, req dto.BulkUpdateOrdersRequest, actor models.Actor) (*dto.BulkUpdateOrdersResult, error)
	AssignEbook(ctx context.Context, id string, req dto.AssignEbookRequest, actor models.Actor) (*models.Order, error)
	UpdateNotes(ctx context.Context, id string, req dto.UpdateOrderNotesRequest, actor models.Actor) (*models.Order, error)
	DeleteAll(ctx context.Context, req dto.DeleteAllOrdersRequest, actor models.Actor) (*dto.DeleteAllOrdersResult, error)
	Export(ctx context.Context, query dto.OrderListQuery, format string) (*dto.OrderExport, error)
	DownloadLink(ctx context.Context, id string, actor models.Actor) (*storage.SignedURL, error)
}

// OrderHandler serves the public order form and the admin order screens.
type OrderHandler struct {
	service orderService
}

// NewOrderHandler constructs the handler.
func NewOrderHandler(svc orderService) *OrderHandler {
	return &OrderHandler{service: svc}
}

// Submit godoc
// @Summary Submit an order
// @Description Public order form. The order is stored as pending.
// @Tags Orders
// @Accept json
// @Produce json
// @Param payload body dto.SubmitOrderRequest true "Order"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /orders [post]
func (h *OrderHandler) Submit(c *gin.Context) {
	var req dto.SubmitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid order payload"))
		return
	}
	res, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, res)
}

// List godoc
// @Summary List orders
// @Tags Orders
// @Produce json
// @Param search query string false "Name, mobile or sender number"
// @Param status query string false "all|pending|confirmed|rejected"
// @Param from query string false "YYYY-MM-DD"
// @Param to query string false "YYYY-MM-DD"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	query, ok := bindOrderQuery(c)
	if !ok {
		return
	}
	res, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetMeta(c, "kpis", res.KPIs)
	middleware.SetMeta(c, "count", len(res.Orders))
	response.JSON(c, http.StatusOK, res.Orders, middleware.ExtractMeta(c))
}

// Pending godoc
// @Summary List pending orders
// @Tags Orders
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/orders/pending [get]
func (h *OrderHandler) Pending(c *gin.Context) {
	orders, err := h.service.ListPending(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetMeta(c, "count", len(orders))
	response.JSON(c, http.StatusOK, orders, middleware.ExtractMeta(c))
}

// UpdateStatus godoc
// @Summary Change an order status
// @Tags Orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param payload body dto.UpdateOrderStatusRequest true "Status"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}
	order, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, order)
}

// BulkUpdateStatus godoc
// @Summary Change the status of several orders
// @Tags Orders
// @Accept json
// @Produce json
// @Param payload body dto.BulkUpdateOrdersRequest true "Orders"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/orders/bulk-status [post]
func (h *OrderHandler) BulkUpdateStatus(c *gin.Context) {
	var req dto.BulkUpdateOrdersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid bulk payload"))
		return
	}
	res, err := h.service.BulkUpdateStatus(c.Request.Context(), req, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res)
}

// AssignEbook godoc
// @Summary Link an e-book version to a confirmed order
// @Tags Orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param payload body dto.AssignEbookRequest true "E-book"
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /admin/orders/{id}/ebook [patch]
func (h *OrderHandler) AssignEbook(c *gin.Context) {
	var req dto.AssignEbookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid ebook payload"))
		return
	}
	order, err := h.service.AssignEbook(c.Request.Context(), c.Param("id"), req, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, order)
}

// UpdateNotes godoc
// @Summary Replace order notes
// @Tags Orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param payload body dto.UpdateOrderNotesRequest true "Notes"
// @Success 200 {object} response.Envelope
// @Router /admin/orders/{id}/notes [patch]
func (h *OrderHandler) UpdateNotes(c *gin.Context) {
	var req dto.UpdateOrderNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid notes payload"))
		return
	}
	order, err := h.service.UpdateNotes(c.Request.Context(), c.Param("id"), req, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, order)
}

// DeleteAll godoc
// @Summary Delete every order
// @Description Irreversible. The body must carry {"confirm":"DELETE ALL"}.
// @Tags Orders
// @Accept json
// @Produce json
// @Param payload body dto.DeleteAllOrdersRequest true "Confirmation"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/orders [delete]
func (h *OrderHandler) DeleteAll(c *gin.Context) {
	var req dto.DeleteAllOrdersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "confirmation required"))
		return
	}
	res, err := h.service.DeleteAll(c.Request.Context(), req, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res)
}

// Export godoc
// @Summary Export the filtered order list
// @Tags Orders
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv|pdf"
// @Param search query string false "Search"
// @Param status query string false "Status"
// @Param from query string false "YYYY-MM-DD"
// @Param to query string false "YYYY-MM-DD"
// @Success 200 {file} file
// @Success 204 "No orders match"
// @Router /admin/orders/export [get]
func (h *OrderHandler) Export(c *gin.Context) {
	query, ok := bindOrderQuery(c)
	if !ok {
		return
	}
	res, err := h.service.Export(c.Request.Context(), query, c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if res.Rows == 0 {
		response.NoContent(c)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", res.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, res.ContentType, res.Body)
}

// DownloadLink godoc
// @Summary Create a signed download link for the order's e-book
// @Tags Orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /admin/orders/{id}/download [post]
func (h *OrderHandler) DownloadLink(c *gin.Context) {
	link, err := h.service.DownloadLink(c.Request.Context(), c.Param("id"), actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, link)
}

func bindOrderQuery(c *gin.Context) (dto.OrderListQuery, bool) {
	var query dto.OrderListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid filters"))
		return query, false
	}
	return query, true
}
