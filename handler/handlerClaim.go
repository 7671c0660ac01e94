package handler

import (
	"errors"
	"io"
	"net/http"

	"api-share-bite/coordinator"
	"api-share-bite/middleware"
	"api-share-bite/model"

	"github.com/gin-gonic/gin"
)

type ClaimHandler struct {
	Coordinator *coordinator.Coordinator
}

// CreateClaimHandler ให้ NGO จองประกาศ งานหนักทั้งหมด (เช็คสถานะ, กันจองซ้ำ,
// เปลี่ยนสถานะประกาศ, แจ้งเตือน provider) อยู่ใน coordinator
func (h *ClaimHandler) CreateClaimHandler(c *gin.Context) {
	// 1. รับข้อมูล JSON payload
	var payload model.CreateClaimPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 2. ส่งให้ coordinator ทำงานใน transaction
	actor, _ := middleware.CurrentUser(c)
	claim, err := h.Coordinator.CreateClaim(c.Request.Context(), payload.ListingID, actor)
	if err != nil {
		respondError(c, err, "Failed to create claim")
		return
	}

	c.JSON(http.StatusCreated, claim)
}

// MyClaimsHandler คืน claim ทั้งหมดของ NGO ที่ login อยู่ พร้อมข้อมูลประกาศ
func (h *ClaimHandler) MyClaimsHandler(c *gin.Context) {
	actor, _ := middleware.CurrentUser(c)
	claims, err := h.Coordinator.ClaimsByNGO(c.Request.Context(), actor.ID)
	if err != nil {
		respondError(c, err, "Failed to fetch claims")
		return
	}
	c.JSON(http.StatusOK, claims)
}

// ClaimsByListingHandler ให้ provider ดู claim ของประกาศตัวเอง
func (h *ClaimHandler) ClaimsByListingHandler(c *gin.Context) {
	actor, _ := middleware.CurrentUser(c)
	claims, err := h.Coordinator.ClaimsByListing(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		respondError(c, err, "Failed to fetch claims")
		return
	}
	c.JSON(http.StatusOK, claims)
}

// QualityCheckHandler รับหลักฐานการรับของจาก NGO แล้วปิดงาน
// (claim -> verified, listing -> completed)
func (h *ClaimHandler) QualityCheckHandler(c *gin.Context) {
	// 1. รับลิงก์หลักฐาน (ไม่ส่ง body มาเลยก็ได้ ถือว่าไม่มีหลักฐานแนบ)
	var payload model.QualityCheckPayload
	if err := c.ShouldBindJSON(&payload); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 2. ส่งให้ coordinator ตรวจความเป็นเจ้าของและปิดงานใน transaction
	actor, _ := middleware.CurrentUser(c)
	claim, err := h.Coordinator.SubmitQualityCheck(c.Request.Context(), c.Param("id"), payload.MediaURLs, actor)
	if err != nil {
		respondError(c, err, "Failed to update quality check")
		return
	}

	c.JSON(http.StatusOK, claim)
}
