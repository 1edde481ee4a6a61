package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/homeward-labs/homegate-server/internal/logger"
	"github.com/homeward-labs/homegate-server/internal/model"
)

// DeviceService is the slice of the device service the handlers need.
type DeviceService interface {
	Register(ctx context.Context, userID int64, name, serial string) (bool, error)
	List(ctx context.Context, userID int64) ([]model.Device, error)
}

// Devices handles the device endpoints. All of them require an
// authenticated user in the request context.
type Devices struct {
	devices        DeviceService
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewDevices(devices DeviceService, contextManager model.ContextManager, logger *logger.Logger) *Devices {
	return &Devices{devices: devices, contextManager: contextManager, logger: logger}
}

type registerDeviceRequest struct {
	Name   string `json:"name" binding:"required"`
	Serial string `json:"serial" binding:"required"`
}

// deviceResponse exposes the caller-visible fields only; owner id and
// timestamps stay internal.
type deviceResponse struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Serial string `json:"serial"`
}

// Register adds a device owned by the authenticated user.
func (h *Devices) Register(c *gin.Context) {
	user, ok := h.contextManager.GetUserFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req registerDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ok, err := h.devices.Register(c.Request.Context(), user.ID, req.Name, req.Serial)
	if err != nil {
		serviceUnavailable(c, h.logger, err)
		return
	}
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"error": "serial already registered"})
		return
	}

	c.Status(http.StatusCreated)
}

// List returns the authenticated user's devices.
func (h *Devices) List(c *gin.Context) {
	user, ok := h.contextManager.GetUserFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	devices, err := h.devices.List(c.Request.Context(), user.ID)
	if err != nil {
		serviceUnavailable(c, h.logger, err)
		return
	}

	resp := make([]deviceResponse, 0, len(devices))
	for _, d := range devices {
		resp = append(resp, deviceResponse{ID: d.ID, Name: d.Name, Serial: d.Serial})
	}

	c.JSON(http.StatusOK, resp)
}
