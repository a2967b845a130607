package http

import (
	nethttp "net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"meetnotes/backend/internal/logger"
)

// registerStatic serves the prebuilt UI bundle. Unknown paths get index.html so
// client-side routes survive a reload.
func registerStatic(e *echo.Echo, dir string) {
	if dir == "" {
		return
	}
	indexPath := filepath.Join(dir, "index.html")
	if info, err := os.Stat(indexPath); err != nil || info.IsDir() {
		logger.Warn("ui bundle not found, serving api only", "module", "http", "action", "start", "resource", "ui", "result", "failed", "index", indexPath)
		return
	}

	logger.Info("ui bundle mounted", "module", "http", "action", "start", "resource", "ui", "result", "ok", "dir", dir)

	assets := nethttp.FileServer(nethttp.Dir(dir))

	e.GET("/*", func(c echo.Context) error {
		requestPath := c.Request().URL.Path
		if isReservedPath(requestPath) {
			return echo.ErrNotFound
		}

		rel := strings.TrimPrefix(path.Clean(requestPath), "/")
		if rel == "." || rel == "" {
			return c.File(indexPath)
		}

		if info, err := os.Stat(filepath.Join(dir, rel)); err == nil && !info.IsDir() {
			assets.ServeHTTP(c.Response(), c.Request())
			return nil
		}

		logger.Debug("ui route fallback", "module", "http", "action", "fetch", "resource", "ui", "result", "ok", "path", requestPath)
		return c.File(indexPath)
	})
}

// isReservedPath reports paths owned by the API and server routes, which never fall back to the UI.
func isReservedPath(p string) bool {
	for _, prefix := range []string{"/api", "/share", "/swagger", "/metrics"} {
		if p == prefix || strings.HasPrefix(p, prefix+"/") {
			return true
		}
	}
	return false
}
