package httpapi

import (
	"encoding/base64"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsthreads/internal/auth"
)

func newTestAppWithDebugAuth(t *testing.T, hashedPass string) *fiber.App {
	t.Helper()
	app, readiness, _, _ := newTestApp(t)
	readiness.MarkReadyForTest()

	app.Get("/debug/stats", debugAuth(Deps{DebugStatsUser: "ops", DebugStatsPass: hashedPass}), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func basicAuthHeader(user, pass string) map[string]string {
	creds := base64.StdEncoding.EncodeToString([]byte(user + ":" + pass))
	return map[string]string{"Authorization": "Basic " + creds}
}

func TestDebugAuthRejectsMissingCredentials(t *testing.T) {
	pm := auth.NewPasswordManager()
	hash, err := pm.HashPassword("correct-horse")
	require.NoError(t, err)

	app := newTestAppWithDebugAuth(t, hash)
	rec := do(t, app, "GET", "/debug/stats", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, rec.Code)
}

func TestDebugAuthRejectsWrongPassword(t *testing.T) {
	pm := auth.NewPasswordManager()
	hash, err := pm.HashPassword("correct-horse")
	require.NoError(t, err)

	app := newTestAppWithDebugAuth(t, hash)
	rec := do(t, app, "GET", "/debug/stats", "", basicAuthHeader("ops", "wrong"))
	assert.Equal(t, fiber.StatusUnauthorized, rec.Code)
}

func TestDebugAuthAcceptsCorrectCredentials(t *testing.T) {
	pm := auth.NewPasswordManager()
	hash, err := pm.HashPassword("correct-horse")
	require.NoError(t, err)

	app := newTestAppWithDebugAuth(t, hash)
	rec := do(t, app, "GET", "/debug/stats", "", basicAuthHeader("ops", "correct-horse"))
	assert.Equal(t, fiber.StatusOK, rec.Code)
}
