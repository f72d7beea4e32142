package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/fahimunoffice-stack/her-well-being/internal/dto"
	"github.com/fahimunoffice-stack/her-well-being/internal/models"
	appErrors "github.com/fahimunoffice-stack/her-well-being/pkg/errors"
	"github.com/fahimunoffice-stack/her-well-being/pkg/export"
	"github.com/fahimunoffice-stack/her-well-being/pkg/storage"
)

const (
	dateLayout        = "2006-01-02"
	exportFormatCSV   = "csv"
	exportFormatPDF   = "pdf"
	pendingListLimit  = 500
	defaultSignedTTL  = 60 * time.Second
	orderNotesMaxRune = 2000
)

var orderExportHeaders = []string{"created_at", "name", "mobile", "sender_bkash", "status", "notes"}

type orderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	List(ctx context.Context, filter models.OrderFilter) ([]models.Order, error)
	CountByStatus(ctx context.Context) (models.OrderStatusCounts, error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus, confirmedAt *time.Time) error
	BulkUpdateStatus(ctx context.Context, ids []string, status models.OrderStatus, confirmedAt *time.Time, ebookFileID *string) (int64, error)
	AssignEbook(ctx context.Context, id string, ebookFileID *string) error
	UpdateNotes(ctx context.Context, id string, notes *string) error
	DeleteAll(ctx context.Context) (int64, error)
}

type ebookLookup interface {
	GetByID(ctx context.Context, id string) (*models.EbookFile, error)
}

type urlSigner interface {
	SignURL(ctx context.Context, bucket, key string, ttl time.Duration) (storage.SignedURL, error)
}

// OrderServiceConfig carries the knobs the order service needs from config.
type OrderServiceConfig struct {
	Location     *time.Location
	EbooksBucket string
	SignedURLTTL time.Duration
}

// OrderService implements the order form and the admin order back office.
type OrderService struct {
	repo      orderRepository
	ebooks    ebookLookup
	signer    urlSigner
	audit     auditLogger
	metrics   *MetricsService
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	validator *validator.Validate
	logger    *zap.Logger
	cfg       OrderServiceConfig
	now       func() time.Time
}

// NewOrderService constructs the service.
func NewOrderService(repo orderRepository, ebooks ebookLookup, signer urlSigner, audit auditLogger, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg OrderServiceConfig) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.SignedURLTTL <= 0 {
		cfg.SignedURLTTL = defaultSignedTTL
	}
	return &OrderService{
		repo:      repo,
		ebooks:    ebooks,
		signer:    signer,
		audit:     audit,
		metrics:   metrics,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Submit stores a public order as pending.
func (s *OrderService) Submit(ctx context.Context, req dto.SubmitOrderRequest) (*dto.SubmitOrderResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Mobile = strings.TrimSpace(req.Mobile)
	req.SenderBkash = strings.TrimSpace(req.SenderBkash)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, submitValidationMessage(req))
	}

	order := &models.Order{
		Name:        req.Name,
		Mobile:      req.Mobile,
		SenderBkash: req.SenderBkash,
		Status:      models.OrderStatusPending,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.Create(ctx, order); err != nil {
		s.metrics.RecordOrderSubmission(false)
		s.logger.Error("failed to submit order", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrSubmission.Code, appErrors.ErrSubmission.Status, appErrors.ErrSubmission.Message)
	}
	s.metrics.RecordOrderSubmission(true)
	return &dto.SubmitOrderResponse{ID: order.ID, Status: order.Status}, nil
}

func submitValidationMessage(req dto.SubmitOrderRequest) string {
	switch {
	case req.Name == "":
		return "name is required"
	case len([]rune(req.Name)) > 100:
		return "name must be at most 100 characters"
	case len(req.Mobile) < 11 || len(req.Mobile) > 20:
		return "mobile number must be 11 to 20 characters"
	default:
		return "bKash sender number must be 11 to 20 characters"
	}
}

// List returns the filtered orders plus per-status KPIs over the whole table.
func (s *OrderService) List(ctx context.Context, query dto.OrderListQuery) (*dto.OrderListResult, error) {
	filter, err := s.buildFilter(query)
	if err != nil {
		return nil, err
	}
	orders, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list orders")
	}
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count orders")
	}
	return &dto.OrderListResult{Orders: orders, KPIs: counts}, nil
}

// ListPending returns pending orders, newest first.
func (s *OrderService) ListPending(ctx context.Context) ([]models.Order, error) {
	orders, err := s.repo.List(ctx, models.OrderFilter{Status: models.OrderStatusPending, Limit: pendingListLimit})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pending orders")
	}
	return orders, nil
}

// UpdateStatus moves one order to status. Confirming stamps confirmed_at.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, req dto.UpdateOrderStatusRequest, actor models.Actor) (*models.Order, error) {
	if !req.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "status must be pending, confirmed or rejected")
	}
	if err := s.repo.UpdateStatus(ctx, id, req.Status, s.confirmationTime(req.Status)); err != nil {
		if isNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "order not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update order status")
	}
	recordAudit(ctx, s.audit, s.logger, actor, models.AuditActionOrderStatus, "order", id, map[string]interface{}{"status": req.Status})
	return s.load(ctx, id)
}

// BulkUpdateStatus applies one status, and optionally an e-book, to many orders.
func (s *OrderService) BulkUpdateStatus(ctx context.Context, req dto.BulkUpdateOrdersRequest, actor models.Actor) (*dto.BulkUpdateOrdersResult, error) {
	ids := uniqueNonEmpty(req.IDs)
	if len(ids) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "select at least one order")
	}
	if !req.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "status must be pending, confirmed or rejected")
	}
	ebookID := normalizeOptionalID(req.EbookFileID)
	if ebookID != nil {
		if req.Status != models.OrderStatusConfirmed {
			return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "an ebook can only be assigned to confirmed orders")
		}
		if err := s.ensureEbook(ctx, *ebookID); err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.BulkUpdateStatus(ctx, ids, req.Status, s.confirmationTime(req.Status), ebookID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update orders")
	}
	recordAudit(ctx, s.audit, s.logger, actor, models.AuditActionOrderBulkStatus, "order", "", map[string]interface{}{
		"ids":           ids,
		"status":        req.Status,
		"ebook_file_id": ebookID,
		"updated":       updated,
	})
	return &dto.BulkUpdateOrdersResult{Updated: updated}, nil
}

// AssignEbook links an e-book version to a confirmed order, or clears it.
func (s *OrderService) AssignEbook(ctx context.Context, id string, req dto.AssignEbookRequest, actor models.Actor) (*models.Order, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	ebookID := normalizeOptionalID(req.EbookFileID)
	if ebookID != nil {
		if order.Status != models.OrderStatusConfirmed {
			return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "confirm the order before assigning an ebook")
		}
		if err := s.ensureEbook(ctx, *ebookID); err != nil {
			return nil, err
		}
	}
	if err := s.repo.AssignEbook(ctx, id, ebookID); err != nil {
		if isNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "order not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to assign ebook")
	}
	recordAudit(ctx, s.audit, s.logger, actor, models.AuditActionOrderEbook, "order", id, map[string]interface{}{"ebook_file_id": ebookID})
	order.EbookFileID = ebookID
	return order, nil
}

// UpdateNotes replaces an order's internal notes. Blank notes clear the field.
func (s *OrderService) UpdateNotes(ctx context.Context, id string, req dto.UpdateOrderNotesRequest, actor models.Actor) (*models.Order, error) {
	if len([]rune(req.Notes)) > orderNotesMaxRune {
		return nil, appErrors.Clone(appErrors.ErrValidation, "notes must be at most 2000 characters")
	}
	var notes *string
	if trimmed := strings.TrimSpace(req.Notes); trimmed != "" {
		notes = &req.Notes
	}
	if err := s.repo.UpdateNotes(ctx, id, notes); err != nil {
		if isNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "order not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update notes")
	}
	recordAudit(ctx, s.audit, s.logger, actor, models.AuditActionOrderNotes, "order", id, nil)
	return s.load(ctx, id)
}

// DeleteAll removes every order once the confirmation phrase matches.
func (s *OrderService) DeleteAll(ctx context.Context, req dto.DeleteAllOrdersRequest, actor models.Actor) (*dto.DeleteAllOrdersResult, error) {
	if req.Confirm != dto.DeleteAllOrdersConfirmation {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("type %q to confirm", dto.DeleteAllOrdersConfirmation))
	}
	deleted, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete orders")
	}
	s.logger.Warn("all orders deleted", zap.String("user_id", actor.UserID), zap.Int64("deleted", deleted))
	recordAudit(ctx, s.audit, s.logger, actor, models.AuditActionOrdersDeleteAll, "order", "", map[string]interface{}{"deleted": deleted})
	return &dto.DeleteAllOrdersResult{Deleted: deleted}, nil
}

// Export renders the filtered order list. An empty list yields Rows == 0 and
// no body.
func (s *OrderService) Export(ctx context.Context, query dto.OrderListQuery, format string) (*dto.OrderExport, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = exportFormatCSV
	}
	if format != exportFormatCSV && format != exportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	result, err := s.List(ctx, query)
	if err != nil {
		return nil, err
	}
	dataset := orderDataset(result.Orders)
	stamp := s.now().UTC().Format(dateLayout)
	out := &dto.OrderExport{Rows: len(dataset.Rows)}
	if out.Rows == 0 {
		return out, nil
	}

	switch format {
	case exportFormatPDF:
		out.Body, err = s.pdf.Render(dataset, "Orders "+stamp)
		out.Filename = "orders-" + stamp + ".pdf"
		out.ContentType = "application/pdf"
	default:
		out.Body, err = s.csv.Render(dataset)
		out.Filename = "orders-" + stamp + ".csv"
		out.ContentType = "text/csv; charset=utf-8"
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return out, nil
}

func orderDataset(orders []models.Order) export.Dataset {
	rows := make([]map[string]string, 0, len(orders))
	for _, o := range orders {
		notes := ""
		if o.Notes != nil {
			notes = *o.Notes
		}
		rows = append(rows, map[string]string{
			"created_at":   o.CreatedAt.UTC().Format(time.RFC3339),
			"name":         o.Name,
			"mobile":       o.Mobile,
			"sender_bkash": o.SenderBkash,
			"status":       string(o.Status),
			"notes":        notes,
		})
	}
	return export.Dataset{Headers: orderExportHeaders, Rows: rows}
}

// DownloadLink signs a short lived link to the e-book assigned to an order.
func (s *OrderService) DownloadLink(ctx context.Context, id string, actor models.Actor) (*storage.SignedURL, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.EbookFileID == nil {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "no ebook assigned, assign an ebook version first")
	}
	ebook, err := s.ebooks.GetByID(ctx, *order.EbookFileID)
	if err != nil {
		if isNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "ebook not found, please re-assign the ebook")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load ebook")
	}
	link, err := s.signer.SignURL(ctx, s.cfg.EbooksBucket, ebook.FilePath, s.cfg.SignedURLTTL)
	if err != nil {
		s.logger.Error("failed to sign ebook link", zap.String("order_id", id), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrDownload.Code, appErrors.ErrDownload.Status, appErrors.ErrDownload.Message)
	}
	recordAudit(ctx, s.audit, s.logger, actor, models.AuditActionEbookDownloadLink, "order", id, map[string]interface{}{"ebook_file_id": ebook.ID})
	return &link, nil
}

func (s *OrderService) buildFilter(query dto.OrderListQuery) (models.OrderFilter, error) {
	filter := models.OrderFilter{Search: strings.TrimSpace(query.Search)}

	switch status := strings.ToLower(strings.TrimSpace(query.Status)); status {
	case "", models.OrderStatusAll:
	default:
		if !models.OrderStatus(status).Valid() {
			return filter, appErrors.Clone(appErrors.ErrValidation, "status must be all, pending, confirmed or rejected")
		}
		filter.Status = models.OrderStatus(status)
	}

	if from := strings.TrimSpace(query.From); from != "" {
		day, err := time.ParseInLocation(dateLayout, from, s.cfg.Location)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, "from must be a YYYY-MM-DD date")
		}
		filter.CreatedFrom = &day
	}
	if to := strings.TrimSpace(query.To); to != "" {
		day, err := time.ParseInLocation(dateLayout, to, s.cfg.Location)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, "to must be a YYYY-MM-DD date")
		}
		end := day.AddDate(0, 0, 1).Add(-time.Millisecond)
		filter.CreatedTo = &end
	}
	return filter, nil
}

func (s *OrderService) confirmationTime(status models.OrderStatus) *time.Time {
	if status != models.OrderStatusConfirmed {
		return nil
	}
	now := s.now().UTC()
	return &now
}

func (s *OrderService) ensureEbook(ctx context.Context, id string) error {
	if _, err := s.ebooks.GetByID(ctx, id); err != nil {
		if isNotFound(err) {
			return appErrors.Clone(appErrors.ErrNotFound, "ebook not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load ebook")
	}
	return nil
}

func (s *OrderService) load(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "order not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load order")
	}
	return order, nil
}

func normalizeOptionalID(id *string) *string {
	if id == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*id)
	if trimmed == "" || trimmed == "none" {
		return nil
	}
	return &trimmed
}

func uniqueNonEmpty(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}
