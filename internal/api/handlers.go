package api

// #region imports
import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/intent-responder/internal/logging"
	"github.com/danielpatrickdp/intent-responder/internal/session"
)

// #endregion imports

// #region handler
// Handler serves the HTTP surface over a session.Manager.
type Handler struct {
	sessions *session.Manager
	history  *sql.DB
	log      *zap.Logger
}

// NewHandler creates a handler. history may be nil, which disables /v1/history.
func NewHandler(m *session.Manager, history *sql.DB, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{sessions: m, history: history, log: log}
}

type messageRequest struct {
	Input string `json:"input"`
}

type teachRequest struct {
	Answer string `json:"answer" binding:"required"`
}

// #endregion handler

// #region router
// NewRouter builds the gin engine with recovery, request logging and CORS.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(h.requestLogger())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	corsCfg.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsCfg))

	h.RegisterRoutes(router)
	return router
}

// RegisterRoutes mounts the API on r.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/healthz", h.handleHealth)

	v1 := r.Group("/v1")
	v1.POST("/sessions", h.handleOpenSession)
	v1.DELETE("/sessions/:id", h.handleCloseSession)
	v1.POST("/sessions/:id/messages", h.handleMessage)
	v1.POST("/sessions/:id/teach", h.handleTeach)
	v1.POST("/sessions/:id/reset", h.handleReset)
	v1.GET("/history", h.handleHistory)
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.log.Debug("http",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}

// #endregion router

// #region handlers
func (h *Handler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (h *Handler) handleOpenSession(c *gin.Context) {
	c.JSON(http.StatusCreated, gin.H{"session_id": h.sessions.Open()})
}

func (h *Handler) handleCloseSession(c *gin.Context) {
	if err := h.sessions.Close(c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) handleMessage(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	res, err := h.sessions.Submit(c.Param("id"), req.Input)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"text":               res.Text,
		"learning_requested": res.LearningRequested,
		"learning_key":       res.LearningKey,
		"source":             res.Source,
		"tag":                res.Tag,
		"confidence":         res.Confidence,
	})
}

func (h *Handler) handleTeach(c *gin.Context) {
	var req teachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	text, err := h.sessions.Teach(c.Param("id"), req.Answer)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}

func (h *Handler) handleReset(c *gin.Context) {
	if err := h.sessions.Reset(c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) handleHistory(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "history is not recorded"})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
		return
	}

	exchanges, err := logging.History(h.history, limit)
	if err != nil {
		h.writeError(c, err)
		return
	}
	out := make([]gin.H, 0, len(exchanges))
	for _, ex := range exchanges {
		out = append(out, gin.H{
			"session_id": ex.SessionID,
			"input":      ex.Input,
			"response":   ex.Response,
			"source":     ex.Source,
			"tag":        ex.Tag,
			"confidence": ex.Confidence,
			"created_at": ex.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"exchanges": out})
}

// #endregion handlers

// #region errors
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrNoPendingLearning):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrEmptyAnswer):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// #endregion errors
