// Package httpapi wires the Fiber HTTP surface (spec.md §6) over the
// ingest pipeline, query layer, and lifecycle readiness flags: GET /,
// PUT/DELETE /<file_name>, GET /threads, and an optional debug/stats
// endpoint.
package httpapi

import (
	"encoding/base64"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"newsthreads/internal/auth"
	"newsthreads/internal/cluster"
	"newsthreads/internal/ingest"
	"newsthreads/internal/lifecycle"
	"newsthreads/internal/models"
	"newsthreads/internal/query"
	"newsthreads/pkg/apperr"
	"newsthreads/pkg/logger"
)

var maxAgeRegexp = regexp.MustCompile(`(?i)max-age=\d+`)

// ttlSource is the subset of store.Store the query layer needs.
type ttlSource interface {
	TTL() (uint64, error)
}

// Deps collects everything the routes need. Clock defaults to wall-clock
// Unix seconds and is overridable in tests.
type Deps struct {
	Pipeline  *ingest.Pipeline
	Readiness *lifecycle.Readiness
	Scheduler *lifecycle.Scheduler
	EngineEn  *cluster.Engine
	EngineRu  *cluster.Engine
	Store     ttlSource

	MaxUploadBytes int64

	DebugStatsUser string
	DebugStatsPass string // bcrypt hash, not plaintext

	Log   *logger.Logger
	Clock func() uint64
}

func (d Deps) now() uint64 {
	if d.Clock != nil {
		return d.Clock()
	}
	return uint64(time.Now().Unix())
}

func (d Deps) engineFor(lang models.Language) *cluster.Engine {
	if lang == models.LanguageRu {
		return d.EngineRu
	}
	return d.EngineEn
}

// Register mounts every route on app.
func Register(app *fiber.App, d Deps) {
	app.Get("/", func(c *fiber.Ctx) error { return handleHealth(c, d) })
	app.Put("/:file_name", func(c *fiber.Ctx) error { return handleUpload(c, d) })
	app.Delete("/:file_name", func(c *fiber.Ctx) error { return handleDelete(c, d) })
	app.Get("/threads", func(c *fiber.Ctx) error { return handleThreads(c, d) })

	if d.DebugStatsUser != "" {
		app.Get("/debug/stats", debugAuth(d), func(c *fiber.Ctx) error { return handleDebugStats(c, d) })
	}
}

// debugAuth is a bcrypt-backed HTTP Basic-Auth gate for /debug/stats:
// DebugStatsPass is a bcrypt hash, checked via internal/auth's
// PasswordManager rather than a plaintext equality check.
func debugAuth(d Deps) fiber.Handler {
	pm := auth.NewPasswordManager()
	return func(c *fiber.Ctx) error {
		user, pass, ok := basicAuthCreds(c)
		if !ok || user != d.DebugStatsUser {
			c.Set(fiber.HeaderWWWAuthenticate, `Basic realm="debug"`)
			return apperr.NewUnauthorizedError("authentication required")
		}
		if err := pm.ComparePassword(d.DebugStatsPass, pass); err != nil {
			c.Set(fiber.HeaderWWWAuthenticate, `Basic realm="debug"`)
			return apperr.NewUnauthorizedError("invalid credentials")
		}
		return c.Next()
	}
}

func basicAuthCreds(c *fiber.Ctx) (user, pass string, ok bool) {
	header := c.Get(fiber.HeaderAuthorization)
	const prefix = "Basic "
	if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
		return "", "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(header[len(prefix):])
	if err != nil {
		return "", "", false
	}
	parts := strings.SplitN(string(decoded), ":", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// handleHealth implements `GET /` (spec.md §6): 200 once the first Rebuild
// pass has finished, 501 otherwise.
func handleHealth(c *fiber.Ctx, d Deps) error {
	if !d.Readiness.RebuildDone() {
		return c.SendStatus(fiber.StatusNotImplemented)
	}
	return c.SendStatus(fiber.StatusOK)
}

// handleUpload implements `PUT /<file_name>` (spec.md §6): requires a
// Cache-Control: max-age=<seconds> header and a body within MaxUploadBytes,
// then defers to Pipeline.Upload for the dedup/parse/filter/enqueue chain.
func handleUpload(c *fiber.Ctx, d Deps) error {
	if !hasMaxAge(c.Get(fiber.HeaderCacheControl)) {
		return apperr.NewUnprocessableEntityError("missing or malformed Cache-Control: max-age header", nil)
	}

	body := c.Body()
	if d.MaxUploadBytes > 0 && int64(len(body)) > d.MaxUploadBytes {
		return apperr.NewUnprocessableEntityError("payload exceeds maximum upload size", nil)
	}

	fileName := c.Params("file_name")
	if err := d.Pipeline.Upload(fileName, body); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusCreated)
}

// handleDelete implements `DELETE /<file_name>` (spec.md §6).
func handleDelete(c *fiber.Ctx, d Deps) error {
	fileName := c.Params("file_name")
	if err := d.Pipeline.Delete(fileName); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// handleThreads implements `GET /threads` (spec.md §6): category=any routes
// to TopAll, any other value to TopByCategory; unknown lang_code/category
// values are 400s.
func handleThreads(c *fiber.Ctx, d Deps) error {
	if !d.Readiness.Ready() {
		return apperr.NewServiceUnavailableError("not ready: rebuild or initial clustering incomplete")
	}

	period, err := strconv.ParseUint(c.Query("period"), 10, 64)
	if err != nil {
		return apperr.NewBadRequestError("period must be a non-negative integer")
	}

	lang, ok := models.ParseLanguage(c.Query("lang_code"))
	if !ok {
		return apperr.NewBadRequestError("unknown lang_code")
	}
	engine := d.engineFor(lang)

	categoryArg := c.Query("category")
	if categoryArg == "any" {
		all, err := query.TopAll(engine, d.Store, period, d.now())
		if err != nil {
			return apperr.NewInternalError("could not read threads", err)
		}
		return prettyJSON(c, fiber.StatusOK, threadsEnvelope{Threads: newAllThreadViews(all)})
	}

	cat, ok := models.ParseCategory(categoryArg)
	if !ok {
		return apperr.NewBadRequestError("unknown category")
	}
	byCat, err := query.TopByCategory(c.Context(), engine, d.Store, cat, period, d.now())
	if err != nil {
		return apperr.NewInternalError("could not read threads", err)
	}
	return prettyJSON(c, fiber.StatusOK, threadsEnvelope{Threads: newThreadViews(byCat)})
}

// handleDebugStats exposes the lifecycle Scheduler's per-language snapshot,
// gated behind HTTP Basic-Auth (spec.md §6 expansion).
func handleDebugStats(c *fiber.Ctx, d Deps) error {
	return prettyJSON(c, fiber.StatusOK, d.Scheduler.Stats())
}

// hasMaxAge reports whether a Cache-Control header carries a max-age
// directive, without validating the directive's value — the server only
// needs the header's presence as an upload gate (spec.md §6).
func hasMaxAge(cacheControl string) bool {
	return cacheControl != "" && maxAgeRegexp.MatchString(cacheControl)
}
