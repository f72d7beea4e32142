package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fahimunoffice-stack/her-well-being/internal/dto"
	"github.com/fahimunoffice-stack/her-well-being/internal/models"
	appErrors "github.com/fahimunoffice-stack/her-well-being/pkg/errors"
	"github.com/fahimunoffice-stack/her-well-being/pkg/storage"
)

type fakeOrderSrv struct {
	submitReq   dto.SubmitOrderRequest
	submitErr   error
	listQuery   dto.OrderListQuery
	listResult  *dto.OrderListResult
	export      *dto.OrderExport
	exportFmt   string
	statusActor models.Actor
	deleteReq   dto.DeleteAllOrdersRequest
	linkErr     error
}

func (f *fakeOrderSrv) Submit(_ context.Context, req dto.SubmitOrderRequest) (*dto.SubmitOrderResponse, error) {
	f.submitReq = req
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return &dto.SubmitOrderResponse{ID: "order-1", Status: models.OrderStatusPending}, nil
}

func (f *fakeOrderSrv) List(_ context.Context, query dto.OrderListQuery) (*dto.OrderListResult, error) {
	f.listQuery = query
	return f.listResult, nil
}

func (f *fakeOrderSrv) ListPending(context.Context) ([]models.Order, error) {
	return []models.Order{{ID: "p-1", Status: models.OrderStatusPending}}, nil
}

func (f *fakeOrderSrv) UpdateStatus(_ context.Context, id string, req dto.UpdateOrderStatusRequest, actor models.Actor) (*models.Order, error) {
	f.statusActor = actor
	return &models.Order{ID: id, Status: req.Status}, nil
}

func (f *fakeOrderSrv) BulkUpdateStatus(_ context.Context, req dto.BulkUpdateOrdersRequest, _ models.Actor) (*dto.BulkUpdateOrdersResult, error) {
	if len(req.IDs) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "select at least one order")
	}
	return &dto.BulkUpdateOrdersResult{Updated: int64(len(req.IDs))}, nil
}

func (f *fakeOrderSrv) AssignEbook(_ context.Context, id string, _ dto.AssignEbookRequest, _ models.Actor) (*models.Order, error) {
	return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "order must be confirmed")
}

func (f *fakeOrderSrv) UpdateNotes(_ context.Context, id string, req dto.UpdateOrderNotesRequest, _ models.Actor) (*models.Order, error) {
	notes := req.Notes
	return &models.Order{ID: id, Notes: &notes}, nil
}

func (f *fakeOrderSrv) DeleteAll(_ context.Context, req dto.DeleteAllOrdersRequest, _ models.Actor) (*dto.DeleteAllOrdersResult, error) {
	f.deleteReq = req
	return &dto.DeleteAllOrdersResult{Deleted: 3}, nil
}

func (f *fakeOrderSrv) Export(_ context.Context, query dto.OrderListQuery, format string) (*dto.OrderExport, error) {
	f.listQuery = query
	f.exportFmt = format
	return f.export, nil
}

func (f *fakeOrderSrv) DownloadLink(context.Context, string, models.Actor) (*storage.SignedURL, error) {
	if f.linkErr != nil {
		return nil, f.linkErr
	}
	return &storage.SignedURL{URL: "https://files.test/sign/ebooks/a.pdf", ExpiresAt: time.Unix(1700000060, 0).UTC()}, nil
}

func TestOrderHandlerSubmitCreated(t *testing.T) {
	srv := &fakeOrderSrv{}
	r := testRouter(http.MethodPost, "/orders", NewOrderHandler(srv).Submit)

	rec := doJSON(r, http.MethodPost, "/orders", map[string]string{
		"name": "Rina", "mobile": "01700000000", "sender_bkash": "01800000000",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Rina", srv.submitReq.Name)
	var res dto.SubmitOrderResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &res))
	assert.Equal(t, "order-1", res.ID)
}

func TestOrderHandlerSubmitRejectsMalformedJSON(t *testing.T) {
	r := testRouter(http.MethodPost, "/orders", NewOrderHandler(&fakeOrderSrv{}).Submit)

	rec := doJSON(r, http.MethodPost, "/orders", "{not json")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrderHandlerSubmitPropagatesBackendFailure(t *testing.T) {
	srv := &fakeOrderSrv{submitErr: appErrors.Clone(appErrors.ErrSubmission, "")}
	r := testRouter(http.MethodPost, "/orders", NewOrderHandler(srv).Submit)

	rec := doJSON(r, http.MethodPost, "/orders", map[string]string{"name": "x"})

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestOrderHandlerListCarriesKPIs(t *testing.T) {
	srv := &fakeOrderSrv{listResult: &dto.OrderListResult{
		Orders: []models.Order{{ID: "a"}, {ID: "b"}},
		KPIs:   models.OrderStatusCounts{Total: 5, Pending: 2, Confirmed: 2, Rejected: 1},
	}}
	r := testRouter(http.MethodGet, "/admin/orders", NewOrderHandler(srv).List)

	rec := doJSON(r, http.MethodGet, "/admin/orders?search=rina&status=pending&from=2024-03-01&to=2024-03-10", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, dto.OrderListQuery{Search: "rina", Status: "pending", From: "2024-03-01", To: "2024-03-10"}, srv.listQuery)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, float64(2), env.Meta["count"])
	kpis, ok := env.Meta["kpis"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(5), kpis["total"])
}

func TestOrderHandlerExportWritesAttachment(t *testing.T) {
	srv := &fakeOrderSrv{export: &dto.OrderExport{
		Filename:    "orders-2024-03-10.csv",
		ContentType: "text/csv; charset=utf-8",
		Body:        []byte("created_at,name\n2024-03-10,Rina"),
		Rows:        1,
	}}
	r := testRouter(http.MethodGet, "/admin/orders/export", NewOrderHandler(srv).Export)

	rec := doJSON(r, http.MethodGet, "/admin/orders/export?status=confirmed", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "csv", srv.exportFmt)
	assert.Equal(t, "confirmed", srv.listQuery.Status)
	assert.Equal(t, `attachment; filename="orders-2024-03-10.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "created_at,name\n2024-03-10,Rina", rec.Body.String())
}

func TestOrderHandlerExportWithoutRowsIsNoContent(t *testing.T) {
	srv := &fakeOrderSrv{export: &dto.OrderExport{Rows: 0}}
	r := testRouter(http.MethodGet, "/admin/orders/export", NewOrderHandler(srv).Export)

	rec := doJSON(r, http.MethodGet, "/admin/orders/export?format=pdf", nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "pdf", srv.exportFmt)
	assert.Empty(t, rec.Body.String())
}

func TestOrderHandlerUpdateStatusPassesActor(t *testing.T) {
	srv := &fakeOrderSrv{}
	r := testRouter(http.MethodPatch, "/admin/orders/:id/status", NewOrderHandler(srv).UpdateStatus)

	rec := doJSON(r, http.MethodPatch, "/admin/orders/o-1/status", map[string]string{"status": "confirmed"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin-1", srv.statusActor.UserID)
	assert.Equal(t, "handler-test", srv.statusActor.UserAgent)
}

func TestOrderHandlerBulkWithoutSelection(t *testing.T) {
	r := testRouter(http.MethodPost, "/admin/orders/bulk-status", NewOrderHandler(&fakeOrderSrv{}).BulkUpdateStatus)

	rec := doJSON(r, http.MethodPost, "/admin/orders/bulk-status", map[string]interface{}{"ids": []string{}, "status": "confirmed"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "select at least one order", decodeEnvelope(t, rec).Error["message"])
}

func TestOrderHandlerAssignEbookPrecondition(t *testing.T) {
	r := testRouter(http.MethodPatch, "/admin/orders/:id/ebook", NewOrderHandler(&fakeOrderSrv{}).AssignEbook)

	rec := doJSON(r, http.MethodPatch, "/admin/orders/o-1/ebook", map[string]string{"ebook_file_id": "e-1"})

	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)
}

func TestOrderHandlerDeleteAllForwardsConfirmation(t *testing.T) {
	srv := &fakeOrderSrv{}
	r := testRouter(http.MethodDelete, "/admin/orders", NewOrderHandler(srv).DeleteAll)

	rec := doJSON(r, http.MethodDelete, "/admin/orders", map[string]string{"confirm": "DELETE ALL"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, dto.DeleteAllOrdersConfirmation, srv.deleteReq.Confirm)
}

func TestOrderHandlerDownloadLink(t *testing.T) {
	r := testRouter(http.MethodPost, "/admin/orders/:id/download", NewOrderHandler(&fakeOrderSrv{}).DownloadLink)

	rec := doJSON(r, http.MethodPost, "/admin/orders/o-1/download", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var link storage.SignedURL
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &link))
	assert.Equal(t, "https://files.test/sign/ebooks/a.pdf", link.URL)

	r = testRouter(http.MethodPost, "/admin/orders/:id/download", NewOrderHandler(&fakeOrderSrv{
		linkErr: appErrors.Clone(appErrors.ErrPreconditionFailed, "no ebook assigned"),
	}).DownloadLink)
	rec = doJSON(r, http.MethodPost, "/admin/orders/o-1/download", nil)
	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)
}
