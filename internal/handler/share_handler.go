package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"meetnotes/backend/internal/logger"
	"meetnotes/backend/internal/service"
)

const shareNotFoundPage = "<h1>Not Found</h1><p>This share link is invalid or expired.</p>"

type ShareHandler struct {
	service service.ShareService
}

type createShareRequest struct {
	Content string `json:"content"`
}

type createShareResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

func NewShareHandler(service service.ShareService) *ShareHandler {
	return &ShareHandler{service: service}
}

// RegisterRoutes registers the JSON API under the /api group.
func (h *ShareHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/create-share", h.Create)
}

// RegisterPageRoutes registers the public share page at the root.
func (h *ShareHandler) RegisterPageRoutes(e *echo.Echo) {
	e.GET("/share/:id", h.Page)
}

// Create stores content and returns its share link.
// @Summary Create share link
// @Description Store a summary and return a public read-only link to it.
// @Tags share
// @Accept json
// @Produce json
// @Param request body createShareRequest true "Share request"
// @Success 200 {object} createShareResponse
// @Failure 400 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /create-share [post]
func (h *ShareHandler) Create(c echo.Context) error {
	var req createShareRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "content (string) is required"})
	}

	link, err := h.service.Create(c.Request().Context(), req.Content)
	if err != nil {
		return writeServiceError(c, err)
	}

	return c.JSON(http.StatusOK, createShareResponse{ID: link.ID, URL: link.URL})
}

// Page renders a shared summary as HTML.
func (h *ShareHandler) Page(c echo.Context) error {
	page, err := h.service.Render(c.Request().Context(), c.Param("id"))
	if errors.Is(err, service.ErrNotFound) {
		return c.HTML(http.StatusNotFound, shareNotFoundPage)
	}
	if err != nil {
		logger.Error("share render failed", "module", "handler", "action", "fetch", "resource", "share", "result", "failed", "share_id", c.Param("id"), "error", err)
		return c.HTML(http.StatusInternalServerError, "<h1>Internal Error</h1>")
	}
	return c.HTML(http.StatusOK, page)
}
