package controllers

import (
	"net/http"

	"github.com/RamaAlqdri/sehatin/repository"
	"github.com/RamaAlqdri/sehatin/services"

	"github.com/gin-gonic/gin"
)

type DeviceController struct {
	Push    *services.PushService // nil when SNS is not configured
	Devices *repository.DeviceRepository
}

func NewDeviceController(ps *services.PushService, devices *repository.DeviceRepository) *DeviceController {
	return &DeviceController{Push: ps, Devices: devices}
}

func (dc *DeviceController) Register(c *gin.Context) {
	if dc.Push == nil {
		respond(c, http.StatusServiceUnavailable, "push notifications are not configured", nil)
		return
	}
	uid, ok := currentUser(c)
	if !ok {
		respond(c, http.StatusUnauthorized, "missing identity", nil)
		return
	}

	var req services.RegisterDeviceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	dev, err := dc.Push.RegisterDevice(c.Request.Context(), uid, req.Platform, req.Token)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Device Registered", gin.H{"endpoint_arn": dev.EndpointARN})
}

// PUT /device/notifications  {"enabled": false}
func (dc *DeviceController) ToggleNotifications(c *gin.Context) {
	var req struct {
		Enabled *bool `json:"enabled" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	uid, err := targetUserID(c, targetQueryKey)
	if err != nil {
		respondError(c, err)
		return
	}
	n, err := dc.Devices.SetEnabled(c.Request.Context(), uid, *req.Enabled)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Notifications Updated", gin.H{"enabled": *req.Enabled, "devices": n})
}

// POST /device/push/test?userId=  sends a push to check the device setup.
func (dc *DeviceController) PushTest(c *gin.Context) {
	if dc.Push == nil {
		respond(c, http.StatusServiceUnavailable, "push notifications are not configured", nil)
		return
	}
	var req struct {
		Title string            `json:"title"`
		Body  string            `json:"body"`
		Data  map[string]string `json:"data"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	uid, err := targetUserID(c, targetQueryKey)
	if err != nil {
		respondError(c, err)
		return
	}

	if req.Title == "" {
		req.Title = "Sehatin"
	}
	if req.Body == "" {
		req.Body = "This is only a test."
	}
	if req.Data == nil {
		req.Data = map[string]string{"kind": "test"}
	}
	dc.Push.PushToUser(c.Request.Context(), uid, req.Title, req.Body, req.Data)
	respond(c, http.StatusOK, "Push Sent", nil)
}
