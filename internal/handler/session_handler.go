package handler

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fahimunoffice-stack/her-well-being/internal/middleware"
	"github.com/fahimunoffice-stack/her-well-being/internal/models"
	"github.com/fahimunoffice-stack/her-well-being/internal/service"
	appErrors "github.com/fahimunoffice-stack/her-well-being/pkg/errors"
	"github.com/fahimunoffice-stack/her-well-being/pkg/response"
)

const defaultSessionHeartbeat = 25 * time.Second

type sessionSubscriber interface {
	Subscribe(userID, sessionID string) *service.SessionSubscription
}

// SessionHandler reports the admin gate and streams session events.
type SessionHandler struct {
	gate      middleware.GateChecker
	broker    sessionSubscriber
	heartbeat time.Duration
}

// NewSessionHandler constructs the handler.
func NewSessionHandler(gate middleware.GateChecker, broker sessionSubscriber) *SessionHandler {
	return &SessionHandler{gate: gate, broker: broker, heartbeat: defaultSessionHeartbeat}
}

// Status godoc
// @Summary Admin gate state
// @Description Reports whether the caller may enter the back office and where to go otherwise.
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /admin/session [get]
func (h *SessionHandler) Status(c *gin.Context) {
	token, _ := middleware.BearerToken(c)
	result := h.gate.Check(c.Request.Context(), token)
	if result.State == models.GateError {
		response.Error(c, middleware.GateError(result), middleware.GateMeta(result))
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Events godoc
// @Summary Session event stream
// @Description Server-sent events. The stream ends after a signed_out or revoked event.
// @Tags Authentication
// @Produce text/event-stream
// @Param access_token query string false "Access token for clients that cannot set headers"
// @Success 200 {string} string "event stream"
// @Router /admin/session/events [get]
func (h *SessionHandler) Events(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	sub := h.broker.Subscribe(claims.UserID, claims.SessionID)
	defer sub.Close()

	c.Header("Cache-Control", "no-store")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent("ready", gin.H{"session_id": claims.SessionID})
	c.Writer.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	ctx := c.Request.Context()
	c.Stream(func(io.Writer) bool {
		return h.next(ctx, c, sub, ticker.C)
	})
}

// next writes one stream item and reports whether the stream continues.
func (h *SessionHandler) next(ctx context.Context, c *gin.Context, sub *service.SessionSubscription, tick <-chan time.Time) bool {
	select {
	case <-ctx.Done():
		return false
	case <-tick:
		c.SSEvent("ping", gin.H{"at": time.Now().UTC()})
		return true
	case evt, ok := <-sub.C:
		if !ok {
			return false
		}
		c.SSEvent(string(evt.Kind), evt)
		return false
	}
}
