package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type HealthHandler struct {
	now func() time.Time
}

type healthResponse struct {
	OK   bool   `json:"ok"`
	Time string `json:"time"`
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{now: time.Now}
}

func (h *HealthHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/health", h.Health)
}

// Health reports liveness.
// @Summary Health check
// @Description Report that the server is up, with the current server time.
// @Tags system
// @Produce json
// @Success 200 {object} healthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{
		OK:   true,
		Time: h.now().UTC().Format(time.RFC3339),
	})
}
