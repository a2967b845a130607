package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"meetnotes/backend/internal/service"
)

type MailHandler struct {
	service service.MailService
}

type sendMailRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Content string `json:"content"`
}

type sendMailResponse struct {
	OK        bool   `json:"ok"`
	MessageID string `json:"messageId"`
}

func NewMailHandler(service service.MailService) *MailHandler {
	return &MailHandler{service: service}
}

func (h *MailHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/send-email", h.Send)
	g.POST("/email", h.Send)
}

// Send emails a summary.
// @Summary Send summary by email
// @Description Email content to a comma-separated list of recipients. The subject defaults to "Meeting Summary". Also served on /email.
// @Tags mail
// @Accept json
// @Produce json
// @Param request body sendMailRequest true "Mail request"
// @Success 200 {object} sendMailResponse
// @Failure 400 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /send-email [post]
func (h *MailHandler) Send(c echo.Context) error {
	var req sendMailRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "fields 'to' and 'content' are required"})
	}

	result, err := h.service.Send(c.Request().Context(), req.To, req.Subject, req.Content)
	if err != nil {
		return writeServiceError(c, err)
	}

	return c.JSON(http.StatusOK, sendMailResponse{OK: true, MessageID: result.MessageID})
}
