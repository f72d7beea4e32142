package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fahimunoffice-stack/her-well-being/internal/models"
)

type analyticsRepoStub struct {
	points []models.OrderStatusPoint
	since  time.Time
	orders []models.Order
	filter models.OrderFilter
	counts models.OrderStatusCounts
}

func (r *analyticsRepoStub) List(ctx context.Context, filter models.OrderFilter) ([]models.Order, error) {
	r.filter = filter
	return r.orders, nil
}

func (r *analyticsRepoStub) CountByStatus(ctx context.Context) (models.OrderStatusCounts, error) {
	return r.counts, nil
}

func (r *analyticsRepoStub) StatusPointsSince(ctx context.Context, since time.Time) ([]models.OrderStatusPoint, error) {
	r.since = since
	return r.points, nil
}

type auditReaderStub struct {
	logs []models.AuditLog
	err  error
}

func (a auditReaderStub) ListAuditLogs(ctx context.Context, limit int) ([]models.AuditLog, error) {
	return a.logs, a.err
}

func TestAnalyticsServiceOrdersBucketsByLocalDay(t *testing.T) {
	dhaka := time.FixedZone("BDT", 6*3600)
	repo := &analyticsRepoStub{points: []models.OrderStatusPoint{
		{Status: models.OrderStatusPending, CreatedAt: time.Date(2024, 3, 9, 19, 0, 0, 0, time.UTC)},
		{Status: models.OrderStatusConfirmed, CreatedAt: time.Date(2024, 3, 10, 2, 0, 0, 0, time.UTC)},
		{Status: models.OrderStatusRejected, CreatedAt: time.Date(2024, 3, 8, 10, 0, 0, 0, time.UTC)},
	}}
	svc := NewAnalyticsService(repo, nil, nil, dhaka)
	svc.now = func() time.Time { return fixedNow }

	stats, err := svc.Orders(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, stats.Series, 3)
	assert.Equal(t, "2024-03-08", stats.Series[0].Date)
	assert.Equal(t, "2024-03-10", stats.Series[2].Date)
	assert.Equal(t, 1, stats.Series[0].Rejected)
	assert.Equal(t, 2, stats.Series[2].Total)
	assert.Equal(t, 1, stats.Series[2].Pending)
	assert.Equal(t, 1, stats.Series[2].Confirmed)
	assert.Equal(t, models.OrderStatusCounts{Total: 3, Pending: 1, Confirmed: 1, Rejected: 1}, stats.Totals)
	assert.True(t, repo.since.Equal(time.Date(2024, 3, 8, 0, 0, 0, 0, dhaka)))
}

func TestAnalyticsServiceOrdersWindow(t *testing.T) {
	svc := NewAnalyticsService(&analyticsRepoStub{}, nil, nil, nil)

	stats, err := svc.Orders(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, defaultAnalyticsDays, stats.Days)
	assert.Len(t, stats.Series, defaultAnalyticsDays)

	_, err = svc.Orders(context.Background(), 91)
	requireAppError(t, err, http.StatusBadRequest)
}

func TestAnalyticsServiceActivityToleratesAuditFailure(t *testing.T) {
	repo := &analyticsRepoStub{orders: []models.Order{{ID: "o1"}}, counts: models.OrderStatusCounts{Total: 1, Pending: 1}}
	svc := NewAnalyticsService(repo, auditReaderStub{err: errors.New("timeout")}, nil, nil)

	activity, err := svc.Activity(context.Background())
	require.NoError(t, err)
	assert.Len(t, activity.RecentOrders, 1)
	assert.Equal(t, activityLimit, repo.filter.Limit)
	assert.Equal(t, 1, activity.Stats.Pending)
	assert.NotNil(t, activity.AuditTrail)
	assert.Empty(t, activity.AuditTrail)
}
