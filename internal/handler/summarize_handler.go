package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"meetnotes/backend/internal/model"
	"meetnotes/backend/internal/service"
)

type SummarizeHandler struct {
	service service.SummarizeService
}

type summarizeRequest struct {
	Transcript  string `json:"transcript"`
	Instruction string `json:"instruction"`
}

type summarizeResponse struct {
	Summary string `json:"summary"`
}

func NewSummarizeHandler(service service.SummarizeService) *SummarizeHandler {
	return &SummarizeHandler{service: service}
}

func (h *SummarizeHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/summarize", h.Summarize)
}

// Summarize generates a summary of a meeting transcript.
// @Summary Summarize transcript
// @Description Summarize a meeting transcript with an optional steering instruction. Transcripts shorter than 10 characters are rejected without calling the provider.
// @Tags summarize
// @Accept json
// @Produce json
// @Param request body summarizeRequest true "Summarize request"
// @Success 200 {object} summarizeResponse
// @Failure 400 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /summarize [post]
func (h *SummarizeHandler) Summarize(c echo.Context) error {
	var req summarizeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
	}

	result, err := h.service.Summarize(c.Request().Context(), model.SummarizeRequest{
		Transcript:  req.Transcript,
		Instruction: req.Instruction,
	})
	if err != nil {
		return writeServiceError(c, err)
	}

	return c.JSON(http.StatusOK, summarizeResponse{Summary: result.Summary})
}
