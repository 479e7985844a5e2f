package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campusiq-api/internal/middleware"
	"github.com/noah-isme/campusiq-api/internal/models"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type responseEnvelope struct {
	Success bool                   `json:"success"`
	Data    json.RawMessage        `json:"data"`
	Error   *errorBody             `json:"error"`
	Meta    map[string]interface{} `json:"meta"`
}

func newBinder() *FilterBinder {
	return NewFilterBinder(validator.New())
}

// serve runs one request through a router that authenticates as caller.
func serve(t *testing.T, caller *models.JWTClaims, register func(r *gin.Engine), target string) (*httptest.ResponseRecorder, responseEnvelope) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.WithResponseMeta(), func(c *gin.Context) {
		if caller != nil {
			c.Set(middleware.ContextUserKey, caller)
		}
		c.Next()
	})
	register(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	var env responseEnvelope
	if rec.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}
