package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/fahimunoffice-stack/her-well-being/internal/models"
	appErrors "github.com/fahimunoffice-stack/her-well-being/pkg/errors"
	"github.com/fahimunoffice-stack/her-well-being/pkg/response"
)

// ContextGateKey stores the admin gate result on the request.
const ContextGateKey = "adminGate"

// GateChecker resolves the admin gate for a token.
type GateChecker interface {
	Check(ctx context.Context, token string) models.GateResult
}

// AdminGate admits only authenticated admins. Every other outcome aborts with
// the state and redirect in the response meta.
func AdminGate(gate GateChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := BearerToken(c)
		result := gate.Check(c.Request.Context(), token)
		c.Set(ContextGateKey, result)

		if result.State == models.GateAuthenticatedAdmin {
			c.Set(ContextUserKey, result.Claims)
			c.Next()
			return
		}
		response.Abort(c, GateError(result), GateMeta(result))
	}
}

// GateError maps a refused gate result to its HTTP error.
func GateError(result models.GateResult) error {
	switch result.State {
	case models.GateAuthenticatedNonAdmin:
		return appErrors.Clone(appErrors.ErrForbidden, result.Message)
	case models.GateError:
		return appErrors.Clone(appErrors.ErrAuthCheck, result.Message)
	default:
		return appErrors.Clone(appErrors.ErrUnauthorized, result.Message)
	}
}

// GateMeta describes a gate result for the response envelope.
func GateMeta(result models.GateResult) map[string]interface{} {
	meta := map[string]interface{}{"state": result.State}
	if result.Redirect != "" {
		meta["redirect"] = result.Redirect
	}
	if result.Retry {
		meta["retry"] = true
	}
	return meta
}
