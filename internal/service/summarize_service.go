package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"meetnotes/backend/internal/logger"
	"meetnotes/backend/internal/metrics"
	"meetnotes/backend/internal/model"
	"meetnotes/backend/internal/service/ai"
)

// MinTranscriptLength is the minimum number of characters in a trimmed transcript.
const MinTranscriptLength = 10

const providerNone = "none"

// SummarizeService turns transcripts into summaries through the configured provider.
type SummarizeService interface {
	// Summarize validates the request and makes exactly one provider call.
	Summarize(ctx context.Context, req model.SummarizeRequest) (*model.SummarizeResult, error)
}

type summarizeService struct {
	provider ai.Provider
	metrics  *metrics.Metrics
}

// NewSummarizeService creates a summarize service. A nil provider makes every
// valid request fail with a ProviderError.
func NewSummarizeService(provider ai.Provider, m *metrics.Metrics) SummarizeService {
	return &summarizeService{provider: provider, metrics: m}
}

func (s *summarizeService) Summarize(ctx context.Context, req model.SummarizeRequest) (*model.SummarizeResult, error) {
	transcript := strings.TrimSpace(req.Transcript)
	if utf8.RuneCountInString(transcript) < MinTranscriptLength {
		s.metrics.ObserveSummarize(s.providerName(), metrics.ResultInvalid, 0)
		return nil, newValidationError("transcript too short: provide a transcript with at least %d characters", MinTranscriptLength)
	}

	if s.provider == nil {
		logger.Warn("ai provider missing", "module", "service", "action", "summarize", "resource", "ai", "result", "failed")
		s.metrics.ObserveSummarize(providerNone, metrics.ResultFailed, 0)
		return nil, &ProviderError{Provider: providerNone, Message: "summarization provider is not configured"}
	}
	name := s.provider.Name()

	userPrompt := ai.BuildUserPrompt(req.Instruction, transcript)

	start := time.Now()
	output, err := s.provider.Complete(ctx, ai.GetSummarizePrompt(), userPrompt)
	elapsed := time.Since(start)
	if err != nil {
		logger.Warn("ai summarize failed", "module", "service", "action", "summarize", "resource", "ai", "result", "failed", "provider", name, "duration_ms", elapsed.Milliseconds(), "error", err)
		s.metrics.ObserveSummarize(name, metrics.ResultFailed, elapsed)
		return nil, &ProviderError{Provider: name, Message: ai.ErrorMessage(err), Err: err}
	}

	summary := strings.TrimSpace(output)
	if summary == "" {
		logger.Warn("ai summarize empty", "module", "service", "action", "summarize", "resource", "ai", "result", "failed", "provider", name, "duration_ms", elapsed.Milliseconds())
		s.metrics.ObserveSummarize(name, metrics.ResultFailed, elapsed)
		return nil, &ProviderError{Provider: name, Message: "no summary generated"}
	}

	logger.Info("ai summarize completed", "module", "service", "action", "summarize", "resource", "ai", "result", "ok", "provider", name, "transcript_chars", utf8.RuneCountInString(transcript), "summary_chars", utf8.RuneCountInString(summary), "duration_ms", elapsed.Milliseconds())
	s.metrics.ObserveSummarize(name, metrics.ResultOK, elapsed)
	return &model.SummarizeResult{Summary: summary}, nil
}

func (s *summarizeService) providerName() string {
	if s.provider == nil {
		return providerNone
	}
	return s.provider.Name()
}
