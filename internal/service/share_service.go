package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/google/uuid"

	"meetnotes/backend/internal/logger"
	"meetnotes/backend/internal/metrics"
	"meetnotes/backend/internal/model"
	"meetnotes/backend/internal/repository"
)

const maxShareIDAttempts = 3

// ShareService creates share links and renders them as standalone pages.
type ShareService interface {
	// Create stores content under a fresh id and returns the public link.
	Create(ctx context.Context, content string) (*model.ShareLink, error)
	// Render returns the HTML page for id, or ErrNotFound.
	Render(ctx context.Context, id string) (string, error)
}

type shareService struct {
	repo    repository.ShareRepository
	baseURL string
	metrics *metrics.Metrics
	newID   func() (uuid.UUID, error)
	now     func() time.Time
}

// NewShareService creates a share service building links under publicBaseURL.
func NewShareService(repo repository.ShareRepository, publicBaseURL string, m *metrics.Metrics) ShareService {
	return &shareService{
		repo:    repo,
		baseURL: strings.TrimRight(publicBaseURL, "/"),
		metrics: m,
		newID:   uuid.NewRandom,
		now:     time.Now,
	}
}

func (s *shareService) Create(ctx context.Context, content string) (*model.ShareLink, error) {
	if content == "" {
		return nil, newValidationError("content (string) is required")
	}

	for attempt := 1; attempt <= maxShareIDAttempts; attempt++ {
		id, err := s.newID()
		if err != nil {
			return nil, fmt.Errorf("generate share id: %w", err)
		}

		share := model.Share{ID: id.String(), Content: content, CreatedAt: s.now()}
		err = s.repo.Create(ctx, share)
		if errors.Is(err, repository.ErrDuplicateID) {
			logger.Warn("share id collision", "module", "service", "action", "create", "resource", "share", "result", "retry", "attempt", attempt)
			continue
		}
		if err != nil {
			logger.Error("share create failed", "module", "service", "action", "create", "resource", "share", "result", "failed", "error", err)
			return nil, fmt.Errorf("store share: %w", err)
		}

		s.metrics.IncSharesCreated()
		logger.Info("share created", "module", "service", "action", "create", "resource", "share", "result", "ok", "share_id", share.ID, "content_bytes", len(content))
		return &model.ShareLink{ID: share.ID, URL: s.shareURL(share.ID)}, nil
	}

	return nil, fmt.Errorf("store share: %w after %d attempts", repository.ErrDuplicateID, maxShareIDAttempts)
}

func (s *shareService) Render(ctx context.Context, id string) (string, error) {
	share, err := s.repo.Get(ctx, id)
	if err != nil {
		return "", fmt.Errorf("get share: %w", err)
	}
	if share == nil {
		logger.Debug("share not found", "module", "service", "action", "fetch", "resource", "share", "result", "failed", "share_id", id)
		return "", ErrNotFound
	}
	return renderSharePage(share)
}

func (s *shareService) shareURL(id string) string {
	return s.baseURL + "/share/" + id
}

// contentEscaper escapes exactly the characters that could open markup inside <pre>.
var contentEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// EscapeShareContent escapes &, < and > and leaves everything else untouched.
func EscapeShareContent(content string) string {
	return contentEscaper.Replace(content)
}

const shareTimeLayout = "January 2, 2006 at 3:04 PM MST"

var sharePage = template.Must(template.New("share").Parse(`<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Shared Summary</title>
  <style>
    body { font-family: system-ui, -apple-system, Segoe UI, Roboto, Arial, sans-serif; margin: 40px; }
    pre { white-space: pre-wrap; word-wrap: break-word; }
    .wrap { max-width: 900px; margin: 0 auto; }
    .card { border: 1px solid #ddd; border-radius: 10px; padding: 16px; }
    .muted { color: #666; font-size: 12px; }
  </style>
</head>
<body>
  <div class="wrap">
    <h1>Shared Summary</h1>
    <div class="card">
      <pre>{{.Content}}</pre>
    </div>
    <p class="muted">Created: {{.Created}}</p>
  </div>
</body>
</html>
`))

type sharePageData struct {
	Content template.HTML
	Created string
}

func renderSharePage(share *model.Share) (string, error) {
	var buf bytes.Buffer
	err := sharePage.Execute(&buf, sharePageData{
		// already escaped; html/template would also encode quotes
		Content: template.HTML(EscapeShareContent(share.Content)),
		Created: share.CreatedAt.Local().Format(shareTimeLayout),
	})
	if err != nil {
		return "", fmt.Errorf("render share: %w", err)
	}
	return buf.String(), nil
}
