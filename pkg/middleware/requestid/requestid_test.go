package requestid

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func serve(header string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Middleware())
	router.GET("/", func(c *gin.Context) { c.String(http.StatusOK, Value(c)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(headerKey, header)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestMiddlewareReusesInboundID(t *testing.T) {
	rec := serve("edge-123")
	assert.Equal(t, "edge-123", rec.Body.String())
	assert.Equal(t, "edge-123", rec.Header().Get(headerKey))
}

func TestMiddlewareReplacesMalformedID(t *testing.T) {
	rec := serve(strings.Repeat("x", maxLength+1))
	_, err := uuid.Parse(rec.Body.String())
	assert.NoError(t, err)

	rec = serve("has space")
	_, err = uuid.Parse(rec.Body.String())
	assert.NoError(t, err)
}
