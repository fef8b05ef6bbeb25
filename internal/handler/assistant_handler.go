package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "labreserve/internal/errors"
	"labreserve/internal/service"
)

// AssistantHandler handles the natural-language assistant endpoints.
type AssistantHandler struct {
	assistantService service.AssistantService
}

// NewAssistantHandler creates a new assistant handler.
func NewAssistantHandler(assistantService service.AssistantService) *AssistantHandler {
	return &AssistantHandler{assistantService: assistantService}
}

// ChatRequest represents an assistant question.
type ChatRequest struct {
	Question string `json:"question" validate:"required"`
}

// ChatResponse represents an assistant answer.
type ChatResponse struct {
	Answer string `json:"answer"`
}

// Chat godoc
// @Summary Ask a question about recent reservations
// @Tags ai
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChatRequest true "Question"
// @Success 200 {object} ChatResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /ai/chat [post]
func (h *AssistantHandler) Chat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}

	answer, err := h.assistantService.Chat(c.Request().Context(), req.Question)
	if err != nil {
		if errors.Is(err, service.ErrAssistantUnavailable) {
			return echo.NewHTTPError(http.StatusBadGateway, apperrors.ErrorResponse{
				Error: "assistant temporarily unavailable",
				Code:  "ASSISTANT_UNAVAILABLE",
			})
		}
		return mapDomainError(err)
	}

	return c.JSON(http.StatusOK, ChatResponse{Answer: answer})
}

// Suggest godoc
// @Summary Get a locally computed booking suggestion
// @Tags ai
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Suggestion
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /ai/suggest [get]
func (h *AssistantHandler) Suggest(c echo.Context) error {
	suggestion, err := h.assistantService.Suggest(c.Request().Context())
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(http.StatusOK, suggestion)
}
