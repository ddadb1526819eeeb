package api

import (
	"net/http"

	"invite_contest_bot/internal/service"
	"invite_contest_bot/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type broadcastRoutes struct {
	bs service.BroadcastServiceI
}

func NewBroadcastRoutes(handler *gin.RouterGroup, bs service.BroadcastServiceI, adminToken gin.HandlerFunc) {
	r := &broadcastRoutes{bs: bs}
	h := handler.Group("/broadcast")
	h.Use(adminToken)
	{
		h.POST("/", r.Broadcast)
	}
}

type BroadcastRequest struct {
	Text string `json:"text" binding:"required"`
}

type BroadcastResponse struct {
	BroadcastID  string `json:"broadcast_id"`
	SuccessCount int    `json:"success_count"`
	FailedCount  int    `json:"failed_count"`
}

func (r *broadcastRoutes) Broadcast(c *gin.Context) {
	log := logger.Logger()

	var req BroadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	result, err := r.bs.Broadcast(c.Request.Context(), req.Text)
	if err != nil {
		log.Error("broadcast failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "broadcast failed"})
		return
	}

	c.JSON(http.StatusOK, BroadcastResponse{
		BroadcastID:  result.BroadcastID.String(),
		SuccessCount: result.SuccessCount,
		FailedCount:  result.FailedCount,
	})
}
