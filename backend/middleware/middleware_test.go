package middleware

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"cursifynova/backend/cache"
	"cursifynova/backend/config"
	"cursifynova/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func do(t *testing.T, app *fiber.App, method, target string) (int, string, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, target, nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, resp.Header.Get(HeaderCache), string(body)
}

func TestCacheResponseServesSecondGetFromCache(t *testing.T) {
	store := cache.NewMemoryStore()
	c := cache.New(store, utils.NopLogger())

	calls := 0
	app := fiber.New()
	app.Get("/api/courses", CacheResponse(c, time.Minute), func(ctx *fiber.Ctx) error {
		calls++
		time.Sleep(20 * time.Millisecond)
		return utils.Success(ctx, fiber.StatusOK, fiber.Map{"calls": calls})
	})

	status, hdr, first := do(t, app, "GET", "/api/courses?page=1")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "MISS", hdr)

	status, hdr, second := do(t, app, "GET", "/api/courses?page=1")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "HIT", hdr)
	assert.Equal(t, first, second, "cached body must be byte-identical")
	assert.Equal(t, 1, calls, "a hit must bypass the slow handler")

	// A different query string is a different key.
	_, hdr, _ = do(t, app, "GET", "/api/courses?page=2")
	assert.Equal(t, "MISS", hdr)
	assert.Equal(t, 2, calls)

	_, err := store.Get(context.Background(), "api:/api/courses?page=1")
	assert.NoError(t, err)
}

func TestCacheResponseSkipsErrors(t *testing.T) {
	store := cache.NewMemoryStore()
	c := cache.New(store, utils.NopLogger())

	app := fiber.New()
	app.Get("/api/courses/:id", CacheResponse(c, time.Minute), func(ctx *fiber.Ctx) error {
		return utils.NotFound(ctx, "Course not found")
	})

	status, _, _ := do(t, app, "GET", "/api/courses/404")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, 0, store.Len())
}

func TestCacheResponseStoresOnlyOK(t *testing.T) {
	store := cache.NewMemoryStore()
	c := cache.New(store, utils.NopLogger())

	app := fiber.New()
	app.Get("/api/courses/:id", CacheResponse(c, time.Minute), func(ctx *fiber.Ctx) error {
		return utils.Success(ctx, fiber.StatusAccepted, fiber.Map{"queued": true})
	})

	for i := 0; i < 2; i++ {
		status, hdr, _ := do(t, app, "GET", "/api/courses/7")
		assert.Equal(t, fiber.StatusAccepted, status)
		assert.Equal(t, "MISS", hdr)
	}
	assert.Equal(t, 0, store.Len())
}

func TestInvalidateRunsAfterSuccessfulWrite(t *testing.T) {
	store := cache.NewMemoryStore()
	c := cache.New(store, utils.NopLogger())
	ctx := context.Background()

	var seenDuringWrite bool
	fail := false

	app := fiber.New()
	app.Post("/api/courses", Invalidate(c, "api:/api/courses*"), func(fc *fiber.Ctx) error {
		_, err := store.Get(ctx, "api:/api/courses")
		seenDuringWrite = err == nil
		if fail {
			return utils.BadRequest(fc, "nope")
		}
		return utils.Created(fc, fiber.Map{"id": 1})
	})

	require.NoError(t, store.Set(ctx, "api:/api/courses", []byte(`{}`), time.Minute))
	require.NoError(t, store.Set(ctx, "api:/api/courses/1", []byte(`{}`), time.Minute))
	require.NoError(t, store.Set(ctx, "api:/api/other", []byte(`{}`), time.Minute))

	fail = true
	status, _, _ := do(t, app, "POST", "/api/courses")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, 3, store.Len(), "failed writes keep the cache")

	fail = false
	status, _, _ = do(t, app, "POST", "/api/courses")
	assert.Equal(t, fiber.StatusCreated, status)
	assert.True(t, seenDuringWrite, "invalidation must not run before the write")
	assert.Equal(t, 1, store.Len())
}

type brokenStore struct{ *cache.MemoryStore }

func (brokenStore) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("redis down")
}
func (brokenStore) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("redis down")
}

func TestCacheResponseToleratesStoreFailure(t *testing.T) {
	c := cache.New(brokenStore{cache.NewMemoryStore()}, utils.NopLogger())

	app := fiber.New()
	app.Get("/api/courses", CacheResponse(c, time.Minute), func(ctx *fiber.Ctx) error {
		return utils.Success(ctx, fiber.StatusOK, []string{"go"})
	})

	status, hdr, body := do(t, app, "GET", "/api/courses")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "MISS", hdr)
	assert.JSONEq(t, `{"success":true,"data":["go"]}`, body)
}

func TestAuthedPassesIdentity(t *testing.T) {
	cfg := &config.Config{JWTSecret: "s", JWTTTL: time.Hour}
	token, err := utils.GenerateJWTToken(5, "student", cfg)
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/me", Authed(cfg, func(c *fiber.Ctx, who utils.Identity) error {
		return c.JSON(fiber.Map{"id": who.UserID})
	}))
	app.Get("/admin", Authed(cfg, AdminOnly(func(c *fiber.Ctx, who utils.Identity) error {
		return c.SendStatus(fiber.StatusNoContent)
	})))

	resp, err := app.Test(httptest.NewRequest("GET", "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"id":5}`, string(body))

	req = httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestLoggingMiddlewareLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := &utils.Logger{SugaredLogger: zap.New(core).Sugar()}

	app := fiber.New()
	app.Use(LoggingMiddleware(logger))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Get("/missing", func(c *fiber.Ctx) error { return utils.NotFound(c, "nope") })
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("boom") })

	for _, path := range []string{"/ok?x=1", "/missing", "/boom"} {
		_, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
	}

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "/ok?x=1", entries[0].ContextMap()["path"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.Equal(t, int64(500), entries[2].ContextMap()["status"])
}
