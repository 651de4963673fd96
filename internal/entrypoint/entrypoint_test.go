package entrypoint

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mrlokans/petadoption/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig(t *testing.T, csrf bool) *config.Config {
	dir := t.TempDir()
	return &config.Config{
		Database: config.Database{Path: filepath.Join(dir, "app.db")},
		Images:   config.Images{Dir: filepath.Join(dir, "images")},
		Auth: config.Auth{
			SessionLifetime:  time.Hour,
			BcryptCost:       bcrypt.MinCost,
			CSRFEnabled:      csrf,
			MaxLoginAttempts: 5,
			RateLimitWindow:  time.Minute,
			LockoutDuration:  time.Minute,
		},
		Seed: config.Seed{
			AdminUsername: "admin",
			AdminPassword: "admin123",
			AdminEmail:    "admin@petadoption.com",
			SamplePets:    true,
		},
	}
}

func newTestApp(t *testing.T, csrf bool) *App {
	t.Helper()
	app, err := NewApp(testConfig(t, csrf), zerolog.Nop(), "test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func TestNewApp_ServesSeededCatalogue(t *testing.T) {
	app := newTestApp(t, false)

	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"version": "test"`)

	w = httptest.NewRecorder()
	app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/pets", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Max"`)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"username":"admin","password":"admin123"}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestNewApp_CSRFRejectsUnsignedWrites(t *testing.T) {
	app := newTestApp(t, true)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"username":"admin","password":"admin123"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestNewApp_ReopensExistingStore(t *testing.T) {
	cfg := testConfig(t, false)

	app, err := NewApp(cfg, zerolog.Nop(), "test")
	require.NoError(t, err)
	require.NoError(t, app.Close())

	app, err = NewApp(cfg, zerolog.Nop(), "test")
	require.NoError(t, err)
	defer app.Close()

	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/pets", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 6, strings.Count(w.Body.String(), `"status":"AVAILABLE"`), "samples are seeded once")
}

func TestNewApp_BackgroundTasks(t *testing.T) {
	cfg := testConfig(t, false)
	cfg.Tasks = config.Tasks{Enabled: true, Workers: 1}
	cfg.Audit = config.Audit{RetentionDays: 30, PruneSchedule: "0 3 * * *"}

	app, err := NewApp(cfg, zerolog.Nop(), "test")
	require.NoError(t, err)

	require.NotNil(t, app.auditPruner)
	assert.True(t, app.auditPruner.IsRunning())
	require.NoError(t, app.auditPruner.RunNow())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	app.Shutdown(ctx)
	assert.False(t, app.auditPruner.IsRunning())

	require.NoError(t, app.Close())
}

func TestNewApp_RejectsInvalidPruneSchedule(t *testing.T) {
	cfg := testConfig(t, false)
	cfg.Tasks = config.Tasks{Enabled: true}
	cfg.Audit = config.Audit{RetentionDays: 30, PruneSchedule: "daily please"}

	_, err := NewApp(cfg, zerolog.Nop(), "test")
	assert.ErrorContains(t, err, "invalid cron schedule")
}

func TestLoadCSRFSecret(t *testing.T) {
	t.Run("hex encoded", func(t *testing.T) {
		secret, err := loadCSRFSecret("00ff10", zerolog.Nop())
		require.NoError(t, err)
		assert.Equal(t, []byte{0x00, 0xff, 0x10}, secret)
	})

	t.Run("raw", func(t *testing.T) {
		secret, err := loadCSRFSecret("not-hex-at-all", zerolog.Nop())
		require.NoError(t, err)
		assert.Equal(t, []byte("not-hex-at-all"), secret)
	})

	t.Run("generated", func(t *testing.T) {
		first, err := loadCSRFSecret("", zerolog.Nop())
		require.NoError(t, err)
		second, err := loadCSRFSecret("", zerolog.Nop())
		require.NoError(t, err)

		assert.Len(t, first, 32)
		assert.NotEqual(t, first, second)
	})
}
