package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/Almacen-api/internal/interfaces/http"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

func TestAccessLog_NivelSegunStatus(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "debug", Output: &buf})

	app := fiber.New()
	app.Use(apphttp.AccessLog(log))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })
	app.Get("/falla", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusServiceUnavailable, "sin base") })

	cases := []struct {
		path   string
		status int
		level  string
	}{
		{"/ok", http.StatusNoContent, "debug"},
		{"/falla", http.StatusServiceUnavailable, "error"},
	}
	for _, tc := range cases {
		buf.Reset()
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, tc.path, nil), -1)
		require.NoError(t, err)
		resp.Body.Close()

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line), tc.path)
		assert.Equal(t, tc.level, line["level"])
		assert.Equal(t, tc.path, line["path"])
		assert.EqualValues(t, tc.status, line["status"])
	}
}
