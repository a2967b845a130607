package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"meetnotes/backend/internal/model"
	"meetnotes/backend/internal/service"
	"meetnotes/backend/internal/service/ai"
	"meetnotes/backend/internal/service/ai/mock"
)

func newMockProvider(t *testing.T) *mock.MockProvider {
	t.Helper()
	ctrl := gomock.NewController(t)
	provider := mock.NewMockProvider(ctrl)
	provider.EXPECT().Name().Return(ai.ProviderCompatible).AnyTimes()
	return provider
}

func TestSummarizeService_ShortTranscriptMakesNoCall(t *testing.T) {
	provider := newMockProvider(t)
	provider.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	svc := service.NewSummarizeService(provider, nil)

	for _, transcript := range []string{"", "   ", "too short", "  123456789  ", "\n\t短い文字列です\n"} {
		_, err := svc.Summarize(context.Background(), model.SummarizeRequest{Transcript: transcript})
		require.Error(t, err, transcript)
		require.ErrorIs(t, err, service.ErrInvalid)

		var vErr *service.ValidationError
		require.True(t, errors.As(err, &vErr))
		require.Contains(t, vErr.Message, "transcript too short")
	}
}

func TestSummarizeService_CountsCharactersNotBytes(t *testing.T) {
	provider := newMockProvider(t)
	provider.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).Return("- ok", nil)
	svc := service.NewSummarizeService(provider, nil)

	_, err := svc.Summarize(context.Background(), model.SummarizeRequest{Transcript: "会議の議事録を要約する"})
	require.NoError(t, err)
}

func TestSummarizeService_DefaultInstruction(t *testing.T) {
	provider := newMockProvider(t)
	provider.EXPECT().
		Complete(gomock.Any(), ai.GetSummarizePrompt(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _, content string) (string, error) {
			require.True(t, strings.HasPrefix(content, "Instruction: "+ai.DefaultInstruction))
			require.Contains(t, content, "Alice: the budget is approved")
			return "  - Budget approved\n\nAction Items\n- Alice: send numbers  ", nil
		})
	svc := service.NewSummarizeService(provider, nil)

	result, err := svc.Summarize(context.Background(), model.SummarizeRequest{
		Transcript:  "Alice: the budget is approved",
		Instruction: "   ",
	})
	require.NoError(t, err)
	require.Equal(t, "- Budget approved\n\nAction Items\n- Alice: send numbers", result.Summary)
}

func TestSummarizeService_CustomInstruction(t *testing.T) {
	provider := newMockProvider(t)
	provider.EXPECT().
		Complete(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _, content string) (string, error) {
			require.True(t, strings.HasPrefix(content, "Instruction: Write a haiku.\n"))
			require.NotContains(t, content, ai.DefaultInstruction)
			return "haiku", nil
		})
	svc := service.NewSummarizeService(provider, nil)

	result, err := svc.Summarize(context.Background(), model.SummarizeRequest{
		Transcript:  "Alice: the budget is approved",
		Instruction: "  Write a haiku.  ",
	})
	require.NoError(t, err)
	require.Equal(t, "haiku", result.Summary)
}

func TestSummarizeService_SendsTranscriptVerbatim(t *testing.T) {
	transcript := "Dev: wrap the title in a <div> and add a <br> after it.\n" +
		"PM: we agreed <script> tags are banned. Ship Friday.\n" +
		"QA: test on <iframe> pages too. Release owner is Dana.\n" +
		"NOTE budget is approved\n" +
		"Bob: owner is Carol\n" +
		"Alice: ok ok\n" +
		"Alice: ok ok"

	provider := newMockProvider(t)
	provider.EXPECT().
		Complete(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _, content string) (string, error) {
			require.Contains(t, content, "\n-----------------\n"+transcript+"\n-----------------")
			return "summary", nil
		})
	svc := service.NewSummarizeService(provider, nil)

	_, err := svc.Summarize(context.Background(), model.SummarizeRequest{Transcript: "\n  " + transcript + "  \n"})
	require.NoError(t, err)
}

func TestSummarizeService_KeepsSubtitleTimings(t *testing.T) {
	transcript := "1\n00:00:01,000 --> 00:00:04,000\nAlice: Welcome everyone.\n"

	provider := newMockProvider(t)
	provider.EXPECT().
		Complete(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _, content string) (string, error) {
			require.Contains(t, content, "00:00:01,000 --> 00:00:04,000\nAlice: Welcome everyone.")
			return "summary", nil
		})
	svc := service.NewSummarizeService(provider, nil)

	_, err := svc.Summarize(context.Background(), model.SummarizeRequest{Transcript: transcript})
	require.NoError(t, err)
}

func TestSummarizeService_ProviderError(t *testing.T) {
	provider := newMockProvider(t)
	provider.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New(`Post "https://openrouter.ai/api/v1/chat/completions": dial tcp: i/o timeout`)).Times(1)
	svc := service.NewSummarizeService(provider, nil)

	_, err := svc.Summarize(context.Background(), model.SummarizeRequest{Transcript: "Alice: the budget is approved"})
	require.ErrorIs(t, err, service.ErrProvider)

	var pErr *service.ProviderError
	require.True(t, errors.As(err, &pErr))
	require.Equal(t, ai.ProviderCompatible, pErr.Provider)
	require.Equal(t, "summarization request failed", pErr.Message)
	require.NotContains(t, pErr.Message, "openrouter.ai")
}

func TestSummarizeService_EmptySummaryIsProviderError(t *testing.T) {
	provider := newMockProvider(t)
	provider.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).Return(" \n ", nil)
	svc := service.NewSummarizeService(provider, nil)

	_, err := svc.Summarize(context.Background(), model.SummarizeRequest{Transcript: "Alice: the budget is approved"})
	require.ErrorIs(t, err, service.ErrProvider)

	var pErr *service.ProviderError
	require.True(t, errors.As(err, &pErr))
	require.Equal(t, "no summary generated", pErr.Message)
}

func TestSummarizeService_NoProvider(t *testing.T) {
	svc := service.NewSummarizeService(nil, nil)

	_, err := svc.Summarize(context.Background(), model.SummarizeRequest{Transcript: "short"})
	require.ErrorIs(t, err, service.ErrInvalid, "validation runs before the provider check")

	_, err = svc.Summarize(context.Background(), model.SummarizeRequest{Transcript: "Alice: the budget is approved"})
	require.ErrorIs(t, err, service.ErrProvider)
	require.Contains(t, err.Error(), "not configured")
}
