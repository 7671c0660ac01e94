package handler

import (
	"net/http"

	"api-share-bite/coordinator"
	"api-share-bite/middleware"
	"api-share-bite/model"

	"github.com/gin-gonic/gin"
)

type ListingHandler struct {
	Coordinator *coordinator.Coordinator
}

// CreateListingHandler ให้ provider ลงประกาศอาหารส่วนเกินใหม่
func (h *ListingHandler) CreateListingHandler(c *gin.Context) {
	// 1. รับข้อมูล JSON payload
	var payload model.CreateListingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 2. ดึงโปรไฟล์จาก Context แล้วส่งให้ coordinator สร้างประกาศ
	actor, _ := middleware.CurrentUser(c)
	listing, err := h.Coordinator.CreateListing(c.Request.Context(), payload, actor)
	if err != nil {
		respondError(c, err, "Failed to create listing")
		return
	}

	c.JSON(http.StatusCreated, listing)
}

// BrowseListingsHandler หน้ารวมประกาศ (ไม่ต้อง login)
// กรองตามสถานะได้ด้วย ?status= ค่า default คือ available
func (h *ListingHandler) BrowseListingsHandler(c *gin.Context) {
	status := c.DefaultQuery("status", model.ListingStatusAvailable)
	listings, err := h.Coordinator.BrowseListings(c.Request.Context(), status)
	if err != nil {
		respondError(c, err, "Failed to fetch listings")
		return
	}
	c.JSON(http.StatusOK, listings)
}

// MyListingsHandler ประกาศทั้งหมดของ provider ที่ login อยู่
func (h *ListingHandler) MyListingsHandler(c *gin.Context) {
	actor, _ := middleware.CurrentUser(c)
	listings, err := h.Coordinator.ListingsByProvider(c.Request.Context(), actor.ID)
	if err != nil {
		respondError(c, err, "Failed to fetch provider listings")
		return
	}
	c.JSON(http.StatusOK, listings)
}

// GetListingHandler ดูประกาศใบเดียวตาม id
func (h *ListingHandler) GetListingHandler(c *gin.Context) {
	listing, err := h.Coordinator.GetListing(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to fetch listing")
		return
	}
	c.JSON(http.StatusOK, listing)
}
