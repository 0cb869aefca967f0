package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/invoice-service/internal/observability"
	apperrors "github.com/spec-kit/invoice-service/pkg/util"
)

func newObservedApp(t *testing.T, handler fiber.Handler) (*fiber.App, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.InfoLevel)
	app := fiber.New()
	RegisterMiddlewares(app, zap.New(core), observability.NewMetrics(), 5*time.Second)
	app.Get("/resource", handler)
	return app, logs
}

func TestErrorMiddlewareWritesDomainErrorEnvelope(t *testing.T) {
	app, _ := newObservedApp(t, func(c *fiber.Ctx) error {
		return apperrors.NewNotFound("invoice", map[string]any{"id": 7})
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/resource", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "NOT_FOUND", payload.Error.Code)
}

func TestRequestLoggerRecordsFinalStatus(t *testing.T) {
	app, logs := newObservedApp(t, func(c *fiber.Ctx) error {
		return apperrors.NewNotFound("invoice", nil)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/resource", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(http.StatusNotFound), fields["status"])
}

func TestRequestLoggerRecordsSuccessStatus(t *testing.T) {
	app, logs := newObservedApp(t, func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/resource", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(http.StatusOK), entries[0].ContextMap()["status"])
}
