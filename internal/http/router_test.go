package http_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"meetnotes/backend/internal/handler"
	transport "meetnotes/backend/internal/http"
	"meetnotes/backend/internal/metrics"
	"meetnotes/backend/internal/repository"
	"meetnotes/backend/internal/service"
	"meetnotes/backend/internal/service/mail"
)

func newTestRouter(t *testing.T, opts transport.Options) (*echo.Echo, *metrics.Metrics) {
	t.Helper()
	m := metrics.New(prometheus.NewRegistry())
	shares := service.NewShareService(repository.NewMemoryShareRepository(), "http://localhost:3001", m)
	router := transport.NewRouter(
		handler.NewHealthHandler(),
		handler.NewSummarizeHandler(service.NewSummarizeService(nil, m)),
		handler.NewShareHandler(shares),
		handler.NewMailHandler(service.NewMailService(mail.NewSMTPSender(mail.Config{}), m)),
		m,
		opts,
	)
	return router, m
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	e, _ := newTestRouter(t, transport.Options{CORSOrigins: []string{"*"}})

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"ok":true`)

	rec = serve(e, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `http_requests_total{method="GET",path="/api/health",status="200"} 1`)
	require.Contains(t, string(body), "meetnotes_shares_created_total 0")
}

func TestRouter_ErrorStatusIsRecorded(t *testing.T) {
	e, _ := newTestRouter(t, transport.Options{})

	req := httptest.NewRequest(http.MethodPost, "/api/summarize", strings.NewReader(`{"transcript":"hi"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := serve(e, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(e, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Contains(t, rec.Body.String(), `http_requests_total{method="POST",path="/api/summarize",status="400"} 1`)
	require.Contains(t, rec.Body.String(), `meetnotes_summarize_duration_seconds_count{provider="none",result="invalid"} 1`)
}

func TestRouter_CORS(t *testing.T) {
	e, _ := newTestRouter(t, transport.Options{CORSOrigins: []string{"https://app.example"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/summarize", nil)
	req.Header.Set(echo.HeaderOrigin, "https://app.example")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
	rec := serve(e, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "https://app.example", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(echo.HeaderOrigin, "https://evil.example")
	rec = serve(e, req)
	require.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}

func TestRouter_BodyLimit(t *testing.T) {
	e, _ := newTestRouter(t, transport.Options{BodyLimit: "4M"})

	payload := `{"content":"` + strings.Repeat("a", 5*1024*1024) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/create-share", strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := serve(e, req)
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestRouter_ShareRoundTrip(t *testing.T) {
	e, _ := newTestRouter(t, transport.Options{BodyLimit: "4M"})

	req := httptest.NewRequest(http.MethodPost, "/api/create-share", strings.NewReader(`{"content":"<b>hi</b>"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := serve(e, req)
	require.Equal(t, http.StatusOK, rec.Code)

	url := rec.Body.String()
	start := strings.Index(url, "/share/")
	require.Positive(t, start)
	path := url[start : strings.Index(url[start:], `"`)+start]

	rec = serve(e, httptest.NewRequest(http.MethodGet, path, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "<pre>&lt;b&gt;hi&lt;/b&gt;</pre>")
}

func TestRouter_MailNotConfigured(t *testing.T) {
	e, _ := newTestRouter(t, transport.Options{})

	req := httptest.NewRequest(http.MethodPost, "/api/email", strings.NewReader(`{"to":"alice@example.com","content":"summary"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := serve(e, req)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "email delivery is not configured")
}

func TestRouter_Static(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>ui</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o644))

	e, _ := newTestRouter(t, transport.Options{StaticDir: dir})

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "<html>ui</html>", rec.Body.String())

	rec = serve(e, httptest.NewRequest(http.MethodGet, "/app.js", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "console.log(1)", rec.Body.String())

	rec = serve(e, httptest.NewRequest(http.MethodGet, "/history/42", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "<html>ui</html>", rec.Body.String())

	rec = serve(e, httptest.NewRequest(http.MethodGet, "/api/unknown", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(e, httptest.NewRequest(http.MethodGet, "/share", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_StaticMissingIndex(t *testing.T) {
	e, _ := newTestRouter(t, transport.Options{StaticDir: t.TempDir()})

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
