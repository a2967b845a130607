package service_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"meetnotes/backend/internal/metrics"
	"meetnotes/backend/internal/repository"
	repomock "meetnotes/backend/internal/repository/mock"
	"meetnotes/backend/internal/service"
)

const testBaseURL = "https://notes.example.com"

func newShareService() service.ShareService {
	return service.NewShareService(repository.NewMemoryShareRepository(), testBaseURL+"/", nil)
}

func TestShareService_CreateRejectsEmpty(t *testing.T) {
	svc := newShareService()

	_, err := svc.Create(context.Background(), "")
	require.ErrorIs(t, err, service.ErrInvalid)
}

func TestShareService_CreateAndRender(t *testing.T) {
	svc := newShareService()
	ctx := context.Background()

	link, err := svc.Create(ctx, "Hello **world**")
	require.NoError(t, err)
	require.NotEmpty(t, link.ID)
	require.Equal(t, testBaseURL+"/share/"+link.ID, link.URL)
	require.True(t, strings.HasSuffix(link.URL, "/share/"+link.ID))

	page, err := svc.Render(ctx, link.ID)
	require.NoError(t, err)
	require.Contains(t, page, "<pre>Hello **world**</pre>")
	require.Contains(t, page, "<title>Shared Summary</title>")
	require.Contains(t, page, "Created: ")
}

func TestShareService_RenderEscapesMarkup(t *testing.T) {
	svc := newShareService()
	ctx := context.Background()

	link, err := svc.Create(ctx, "<script>alert(1)</script>")
	require.NoError(t, err)

	page, err := svc.Render(ctx, link.ID)
	require.NoError(t, err)
	require.Contains(t, page, "&lt;script&gt;alert(1)&lt;/script&gt;")
	require.NotContains(t, page, "<script>alert")
}

func TestShareService_RenderRoundTripsQuotesAndAmpersands(t *testing.T) {
	svc := newShareService()
	ctx := context.Background()

	content := "Q&A: \"ship it\" said Bob's team\n- a < b > c"
	link, err := svc.Create(ctx, content)
	require.NoError(t, err)

	page, err := svc.Render(ctx, link.ID)
	require.NoError(t, err)
	require.Contains(t, page, "<pre>"+service.EscapeShareContent(content)+"</pre>")
	require.Contains(t, page, "Q&amp;A: \"ship it\" said Bob's team\n- a &lt; b &gt; c")
}

func TestShareService_RenderUnknown(t *testing.T) {
	svc := newShareService()

	_, err := svc.Render(context.Background(), "00000000-0000-0000-0000-000000000000")
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestShareService_RenderIsIdempotent(t *testing.T) {
	svc := newShareService()
	ctx := context.Background()

	link, err := svc.Create(ctx, "stable content")
	require.NoError(t, err)

	first, err := svc.Render(ctx, link.ID)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		again, err := svc.Render(ctx, link.ID)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestShareService_FreshIDs(t *testing.T) {
	svc := newShareService()
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		link, err := svc.Create(ctx, "same content")
		require.NoError(t, err)
		require.False(t, seen[link.ID], "id reused")
		seen[link.ID] = true
	}
}

func TestShareService_ConcurrentCreate(t *testing.T) {
	svc := newShareService()
	ctx := context.Background()

	contents := []string{"first summary", "second summary"}
	links := make([]string, len(contents))
	var wg sync.WaitGroup
	for i, content := range contents {
		wg.Add(1)
		go func(i int, content string) {
			defer wg.Done()
			link, err := svc.Create(ctx, content)
			if err == nil {
				links[i] = link.ID
			}
		}(i, content)
	}
	wg.Wait()

	require.NotEmpty(t, links[0])
	require.NotEmpty(t, links[1])
	require.NotEqual(t, links[0], links[1])
	for i, id := range links {
		page, err := svc.Render(ctx, id)
		require.NoError(t, err)
		require.Contains(t, page, contents[i])
	}
}

func TestShareService_RetriesOnDuplicateID(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := repomock.NewMockShareRepository(ctrl)
	gomock.InOrder(
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(repository.ErrDuplicateID),
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil),
	)

	reg := prometheus.NewRegistry()
	svc := service.NewShareService(repo, testBaseURL, metrics.New(reg))

	link, err := svc.Create(context.Background(), "content")
	require.NoError(t, err)
	require.NotEmpty(t, link.ID)

	expected := `
# HELP meetnotes_shares_created_total Total number of share links created.
# TYPE meetnotes_shares_created_total counter
meetnotes_shares_created_total 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "meetnotes_shares_created_total"))
}

func TestShareService_GivesUpAfterRepeatedCollisions(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := repomock.NewMockShareRepository(ctrl)
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(repository.ErrDuplicateID).Times(3)

	svc := service.NewShareService(repo, testBaseURL, nil)

	_, err := svc.Create(context.Background(), "content")
	require.ErrorIs(t, err, repository.ErrDuplicateID)
}

func TestShareService_RepositoryErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := repomock.NewMockShareRepository(ctrl)
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("store down"))
	repo.EXPECT().Get(gomock.Any(), "abc").Return(nil, errors.New("store down"))

	svc := service.NewShareService(repo, testBaseURL, nil)

	_, err := svc.Create(context.Background(), "content")
	require.Error(t, err)
	require.NotErrorIs(t, err, service.ErrInvalid)

	_, err = svc.Render(context.Background(), "abc")
	require.Error(t, err)
	require.NotErrorIs(t, err, service.ErrNotFound)
}

func TestEscapeShareContent(t *testing.T) {
	require.Equal(t, "&amp;lt; &lt;b&gt; 'x' \"y\"", service.EscapeShareContent("&lt; <b> 'x' \"y\""))
}
