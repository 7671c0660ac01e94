package handler

import (
	"net/http"

	"api-share-bite/coordinator"
	"api-share-bite/middleware"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	Coordinator *coordinator.Coordinator
}

// ListNotificationsHandler คืนแจ้งเตือนทั้งหมดของผู้ใช้ที่ login อยู่
func (h *NotificationHandler) ListNotificationsHandler(c *gin.Context) {
	actor, _ := middleware.CurrentUser(c)
	notifications, err := h.Coordinator.NotificationsByUser(c.Request.Context(), actor.ID)
	if err != nil {
		respondError(c, err, "Failed to fetch notifications")
		return
	}
	c.JSON(http.StatusOK, notifications)
}

// MarkReadHandler บันทึกว่าอ่านแจ้งเตือนแล้ว กดซ้ำได้ไม่มี error
func (h *NotificationHandler) MarkReadHandler(c *gin.Context) {
	actor, _ := middleware.CurrentUser(c)
	notification, err := h.Coordinator.MarkRead(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		respondError(c, err, "Failed to update notification")
		return
	}
	c.JSON(http.StatusOK, notification)
}
