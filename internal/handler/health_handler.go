package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/namostri/catalog_api/internal/service"
	"github.com/namostri/catalog_api/internal/utils"
)

var startTime = time.Now()

// HealthHandler provides the health endpoint.
type HealthHandler struct {
	avail service.StoreAvailability
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(avail service.StoreAvailability) *HealthHandler {
	return &HealthHandler{avail: avail}
}

// GetHealth responds with service and database status.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	dbStatus := "disconnected"
	if h.avail.Available() {
		dbStatus = "connected"
	}

	utils.Success(c, 200, "Server is running", gin.H{
		"status":   "OK",
		"database": dbStatus,
		"uptime":   int(time.Since(startTime).Seconds()),
	})
}
