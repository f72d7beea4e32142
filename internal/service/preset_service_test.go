package service

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fahimunoffice-stack/her-well-being/internal/dto"
	"github.com/fahimunoffice-stack/her-well-being/internal/models"
)

type presetRepoStub struct {
	presets  []models.OrderFilterPreset
	keep     int
	listedBy string
}

func (r *presetRepoStub) ListByUser(ctx context.Context, userID string, limit int) ([]models.OrderFilterPreset, error) {
	r.listedBy = userID
	return r.presets, nil
}

func (r *presetRepoStub) Create(ctx context.Context, preset *models.OrderFilterPreset, keep int) error {
	preset.ID = "preset-1"
	r.keep = keep
	r.presets = append(r.presets, *preset)
	return nil
}

func (r *presetRepoStub) Delete(ctx context.Context, userID, id string) error {
	for i, p := range r.presets {
		if p.ID == id && p.UserID == userID {
			r.presets = append(r.presets[:i], r.presets[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func TestPresetServiceCreateDefaultsStatus(t *testing.T) {
	repo := &presetRepoStub{}
	svc := NewPresetService(repo, nil, nil, 0)

	preset, err := svc.Create(context.Background(), "admin-1", dto.CreateOrderPresetRequest{Name: " Today ", FromDate: "2024-03-10"})
	require.NoError(t, err)
	assert.Equal(t, "Today", preset.Name)
	assert.Equal(t, models.OrderStatusAll, preset.Status)
	assert.Equal(t, "admin-1", preset.UserID)
	assert.Equal(t, defaultPresetLimit, repo.keep)
}

func TestPresetServiceCreateValidation(t *testing.T) {
	svc := NewPresetService(&presetRepoStub{}, nil, nil, 5)
	ctx := context.Background()

	_, err := svc.Create(ctx, "admin-1", dto.CreateOrderPresetRequest{Name: "  "})
	requireAppError(t, err, http.StatusBadRequest)

	_, err = svc.Create(ctx, "admin-1", dto.CreateOrderPresetRequest{Name: "x", Status: "shipped"})
	requireAppError(t, err, http.StatusBadRequest)

	_, err = svc.Create(ctx, "admin-1", dto.CreateOrderPresetRequest{Name: "x", ToDate: "10/03/2024"})
	requireAppError(t, err, http.StatusBadRequest)
}

func TestPresetServiceListAndDelete(t *testing.T) {
	repo := &presetRepoStub{presets: []models.OrderFilterPreset{{ID: "p1", UserID: "admin-1", Name: "Pending"}}}
	svc := NewPresetService(repo, nil, nil, 5)
	ctx := context.Background()

	presets, err := svc.List(ctx, "admin-1")
	require.NoError(t, err)
	assert.Len(t, presets, 1)
	assert.Equal(t, "admin-1", repo.listedBy)

	requireAppError(t, svc.Delete(ctx, "admin-2", "p1"), http.StatusNotFound)
	require.NoError(t, svc.Delete(ctx, "admin-1", "p1"))
	assert.Empty(t, repo.presets)
}
