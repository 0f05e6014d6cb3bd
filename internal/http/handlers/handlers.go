package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/freshdesk_bridge/backend/internal/freshdesk"
	"github.com/freshdesk_bridge/backend/internal/tool"
)

type Handler struct {
	Tool      *tool.Tool
	Validator *validator.Validate
	Logger    zerolog.Logger
}

// InvokeRequest is the host's invocation envelope: the action input is
// nested under "input".
type InvokeRequest struct {
	Input tool.Request `json:"input"`
}

func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary Invoke the Freshdesk tool
// @Description Dispatches one of the five ticket actions
// @Tags tool
// @Accept json
// @Produce json
// @Success 200 {object} tool.Response
// @Failure 400 {object} map[string]any
// @Failure 403 {object} map[string]any
// @Router /api/tool/invoke [post]
func (h *Handler) ToolInvoke(c *gin.Context) {
	var req InvokeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req.Input); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	resp, err := h.Tool.Invoke(c.Request.Context(), req.Input)
	if err != nil {
		h.Logger.Error().Err(err).Str("action", req.Input.Action).Msg("tool invocation failed")
		switch {
		case errors.Is(err, tool.ErrValidation):
			writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		case errors.Is(err, tool.ErrAuthorization):
			writeError(c, http.StatusForbidden, "AUTHORIZATION_ERROR", err.Error(), nil)
		default:
			var apiErr *freshdesk.APIError
			if errors.As(err, &apiErr) {
				writeError(c, http.StatusBadGateway, "UPSTREAM_ERROR", "Freshdesk API error", gin.H{
					"status": apiErr.StatusCode,
					"method": apiErr.Method,
				})
				return
			}
			writeError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Tool invocation failed", nil)
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Tool descriptor
// @Tags tool
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/tool/descriptor [get]
func (h *Handler) ToolDescriptor(c *gin.Context) {
	c.JSON(http.StatusOK, tool.Descriptor(h.Tool.TicketTypes))
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}
