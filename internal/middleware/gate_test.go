package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fahimunoffice-stack/her-well-being/internal/models"
)

type gateStub struct {
	result models.GateResult
	token  string
}

func (g *gateStub) Check(_ context.Context, token string) models.GateResult {
	g.token = token
	return g.result
}

type envelope struct {
	Data  map[string]interface{} `json:"data"`
	Error map[string]interface{} `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

func serveGate(t *testing.T, gate *gateStub, target, authHeader string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin/*any", AdminGate(gate), func(c *gin.Context) {
		claims := Claims(c)
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"user_id": claims.UserID}})
	})

	req := httptest.NewRequest(http.MethodGet, target, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var body envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestAdminGateAdmitsAdmin(t *testing.T) {
	gate := &gateStub{result: models.GateResult{
		State:  models.GateAuthenticatedAdmin,
		Claims: &models.JWTClaims{UserID: "admin-1"},
	}}

	rec, body := serveGate(t, gate, "/admin/orders", "Bearer tok")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tok", gate.token)
	assert.Equal(t, "admin-1", body.Data["user_id"])
}

func TestAdminGateUnauthenticatedRedirectsToLogin(t *testing.T) {
	gate := &gateStub{result: models.GateResult{State: models.GateUnauthenticated, Redirect: "/hd-admin"}}

	rec, body := serveGate(t, gate, "/admin/orders", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "", gate.token)
	assert.Equal(t, "/hd-admin", body.Meta["redirect"])
	assert.Equal(t, string(models.GateUnauthenticated), body.Meta["state"])
}

func TestAdminGateNonAdminIsDenied(t *testing.T) {
	gate := &gateStub{result: models.GateResult{
		State:    models.GateAuthenticatedNonAdmin,
		Redirect: "/",
		Message:  "Access denied",
		Claims:   &models.JWTClaims{UserID: "user-1"},
	}}

	rec, body := serveGate(t, gate, "/admin/orders", "Bearer tok")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Access denied", body.Error["message"])
	assert.Equal(t, "/", body.Meta["redirect"])
}

func TestAdminGateErrorAsksForRetry(t *testing.T) {
	gate := &gateStub{result: models.GateResult{State: models.GateError, Retry: true, Message: "could not verify access"}}

	rec, body := serveGate(t, gate, "/admin/orders", "Bearer tok")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, true, body.Meta["retry"])
}

func TestAdminGateReadsQueryTokenOnGet(t *testing.T) {
	gate := &gateStub{result: models.GateResult{State: models.GateUnauthenticated}}

	serveGate(t, gate, "/admin/session/events?access_token=from-query", "")

	assert.Equal(t, "from-query", gate.token)
}
