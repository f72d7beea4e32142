package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fahimunoffice-stack/her-well-being/internal/dto"
	"github.com/fahimunoffice-stack/her-well-being/internal/models"
	appErrors "github.com/fahimunoffice-stack/her-well-being/pkg/errors"
)

const (
	defaultAnalyticsDays = 7
	maxAnalyticsDays     = 90
	activityLimit        = 50
)

type analyticsOrderReader interface {
	List(ctx context.Context, filter models.OrderFilter) ([]models.Order, error)
	CountByStatus(ctx context.Context) (models.OrderStatusCounts, error)
	StatusPointsSince(ctx context.Context, since time.Time) ([]models.OrderStatusPoint, error)
}

type auditReader interface {
	ListAuditLogs(ctx context.Context, limit int) ([]models.AuditLog, error)
}

// AnalyticsService builds the dashboard series and the activity log.
type AnalyticsService struct {
	orders analyticsOrderReader
	audit  auditReader
	logger *zap.Logger
	loc    *time.Location
	now    func() time.Time
}

// NewAnalyticsService constructs the service. Days are bucketed in loc.
func NewAnalyticsService(orders analyticsOrderReader, audit auditReader, logger *zap.Logger, loc *time.Location) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &AnalyticsService{orders: orders, audit: audit, logger: logger, loc: loc, now: time.Now}
}

// Orders returns one point per day for the last days days, oldest first,
// including today. Zero selects the default window.
func (s *AnalyticsService) Orders(ctx context.Context, days int) (*models.OrderAnalytics, error) {
	if days == 0 {
		days = defaultAnalyticsDays
	}
	if days < 1 || days > maxAnalyticsDays {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("days must be between 1 and %d", maxAnalyticsDays))
	}

	today := s.now().In(s.loc)
	start := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, s.loc).AddDate(0, 0, -(days - 1))

	points, err := s.orders.StatusPointsSince(ctx, start)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load order analytics")
	}

	series := make([]models.DailyOrderStat, days)
	index := make(map[string]int, days)
	for i := range series {
		date := start.AddDate(0, 0, i).Format(dateLayout)
		series[i].Date = date
		index[date] = i
	}

	var totals models.OrderStatusCounts
	for _, p := range points {
		i, ok := index[p.CreatedAt.In(s.loc).Format(dateLayout)]
		if !ok {
			continue
		}
		bucket := &series[i]
		bucket.Total++
		totals.Total++
		switch p.Status {
		case models.OrderStatusPending:
			bucket.Pending++
			totals.Pending++
		case models.OrderStatusConfirmed:
			bucket.Confirmed++
			totals.Confirmed++
		case models.OrderStatusRejected:
			bucket.Rejected++
			totals.Rejected++
		}
	}

	return &models.OrderAnalytics{Days: days, Series: series, Totals: totals}, nil
}

// Activity returns the latest orders, status counts and audit entries.
func (s *AnalyticsService) Activity(ctx context.Context) (*dto.ActivityLog, error) {
	orders, err := s.orders.List(ctx, models.OrderFilter{Limit: activityLimit})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load recent orders")
	}
	counts, err := s.orders.CountByStatus(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count orders")
	}
	trail := []models.AuditLog{}
	if s.audit != nil {
		trail, err = s.audit.ListAuditLogs(ctx, activityLimit)
		if err != nil {
			s.logger.Warn("failed to load audit trail", zap.Error(err))
			trail = []models.AuditLog{}
		}
	}
	return &dto.ActivityLog{RecentOrders: orders, Stats: counts, AuditTrail: trail}, nil
}
