package dish

import (
	"errors"
	"io"
	"log"
	"net/http"

	"menushot/internal/auth"
	"menushot/internal/llm"

	"github.com/gin-gonic/gin"
)

const (
	parseFailedMessage = "Could not read the menu. Please check the text and try again."
	queueFullMessage   = "Image generation is busy. Please try again shortly."
)

type Handler struct {
	service *Service
	tokens  *auth.TokenManager
}

// NewHandler builds the HTTP handlers. tokens may be nil or disabled, in
// which case sessions are created without a bearer token.
func NewHandler(service *Service, tokens *auth.TokenManager) *Handler {
	return &Handler{service: service, tokens: tokens}
}

type parseMenuRequest struct {
	Text string `json:"text"`
}

type styleRequest struct {
	Style string `json:"style"`
}

// --------------------------------------------------
// GET /styles
// --------------------------------------------------
func (h *Handler) ListStyles(c *gin.Context) {
	styles := make([]gin.H, 0, len(llm.Styles()))
	for _, s := range llm.Styles() {
		styles = append(styles, gin.H{"id": s, "label": s.Label()})
	}

	c.JSON(http.StatusOK, gin.H{
		"styles":  styles,
		"default": llm.DefaultStyle,
	})
}

// --------------------------------------------------
// POST /sessions
// --------------------------------------------------
func (h *Handler) CreateSession(c *gin.Context) {
	sessionID, err := h.service.CreateSession(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}

	resp := gin.H{"session_id": sessionID}

	if h.tokens.Enabled() {
		token, err := h.tokens.GenerateToken(sessionID)
		if err != nil {
			_ = h.service.DeleteSession(c.Request.Context(), sessionID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue session token"})
			return
		}
		resp["token"] = token
	}

	c.JSON(http.StatusCreated, resp)
}

// --------------------------------------------------
// DELETE /sessions/:session_id
// --------------------------------------------------
func (h *Handler) DeleteSession(c *gin.Context) {
	if err := h.service.DeleteSession(c.Request.Context(), c.Param("session_id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --------------------------------------------------
// GET /sessions/:session_id/dishes
// --------------------------------------------------
func (h *Handler) ListDishes(c *gin.Context) {
	h.respondDishes(c, http.StatusOK)
}

// --------------------------------------------------
// POST /sessions/:session_id/menu
// --------------------------------------------------
func (h *Handler) ParseMenu(c *gin.Context) {
	var req parseMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	_, err := h.service.ParseMenu(c.Request.Context(), c.Param("session_id"), req.Text)
	if err != nil {
		if llm.IsParseError(err) {
			c.JSON(http.StatusBadGateway, gin.H{"error": parseFailedMessage})
			return
		}
		h.writeError(c, err)
		return
	}

	h.respondDishes(c, http.StatusOK)
}

// --------------------------------------------------
// POST /sessions/:session_id/generate
// --------------------------------------------------
func (h *Handler) GenerateAll(c *gin.Context) {
	style, ok := bindStyle(c)
	if !ok {
		return
	}

	batch, err := h.service.GenerateAll(c.Request.Context(), c.Param("session_id"), style)
	h.respondBatch(c, batch, style, err)
}

// --------------------------------------------------
// POST /sessions/:session_id/dishes/:dish_id/regenerate
// --------------------------------------------------
func (h *Handler) RegenerateOne(c *gin.Context) {
	style, ok := bindStyle(c)
	if !ok {
		return
	}

	batch, err := h.service.RegenerateOne(
		c.Request.Context(),
		c.Param("session_id"),
		c.Param("dish_id"),
		style,
	)
	h.respondBatch(c, batch, style, err)
}

// respondBatch answers 202 for a queued batch. A full queue gets 503: the
// dishes that did not fit are already in error and can be retried.
func (h *Handler) respondBatch(c *gin.Context, batch *Batch, style llm.Style, err error) {
	if errors.Is(err, ErrQueueFull) {
		c.Header("Retry-After", "30")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":    queueFullMessage,
			"dish_ids": batch.DishIDs,
		})
		return
	}
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"dish_ids": batch.DishIDs,
		"style":    style,
	})
}

// bindStyle reads an optional {"style": ...} body. Unknown styles are
// accepted and rendered with the generic photography prompt.
func bindStyle(c *gin.Context) (llm.Style, bool) {
	var req styleRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return "", false
	}

	style, known := llm.ParseStyle(req.Style)
	if !known {
		log.Printf("STYLE_UNKNOWN value=%q using default prompt", req.Style)
	}
	return style, true
}

func (h *Handler) respondDishes(c *gin.Context, status int) {
	ctx := c.Request.Context()
	sessionID := c.Param("session_id")

	dishes, err := h.service.Dishes(ctx, sessionID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	parsing, err := h.service.Parsing(ctx, sessionID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(status, gin.H{
		"dishes":  dishes,
		"parsing": parsing,
	})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
	case errors.Is(err, ErrDishNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "dish not found"})
	default:
		log.Printf("REQUEST_FAILED path=%s err=%v", c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
