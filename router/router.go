package router

import (
	"api-share-bite/handler"
	"api-share-bite/middleware"
	"api-share-bite/model"

	"github.com/gin-gonic/gin"
)

// SetupRouter ทำหน้าที่ตั้งค่า Routes ทั้งหมด
// authMW คือด่านตรวจ Token ที่สร้างไว้แล้วจาก main (จะได้สลับเป็นตัวปลอมตอนเทสต์ได้)
func SetupRouter(
	authHandler *handler.AuthHandler,
	listingHandler *handler.ListingHandler,
	claimHandler *handler.ClaimHandler,
	notificationHandler *handler.NotificationHandler,
	authMW gin.HandlerFunc,
) *gin.Engine {
	// 1. สร้าง Router ด้วย Gin
	router := gin.Default()
	api := router.Group("/api")

	// 2. กลุ่ม Auth (register/login ไม่ต้องมี Token)
	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.RegisterHandler)
		authRoutes.POST("/login", authHandler.LoginHandler)
		authRoutes.GET("/me", authMW, authHandler.MeHandler)
	}

	// 3. กลุ่ม Listings (หน้ารวมกับหน้ารายละเอียดเปิด public ไว้ให้คนทั่วไปดูได้)
	// หมายเหตุ: gin ไม่ยอมให้ "/listings/my" อยู่ร่วมกับ "/listings/:id"
	// เลยย้ายประกาศของตัวเองไปไว้ใต้ /provider แทน
	listingRoutes := api.Group("/listings")
	{
		listingRoutes.GET("", listingHandler.BrowseListingsHandler)
		listingRoutes.POST("", authMW, middleware.RequireRole(model.RoleProvider), listingHandler.CreateListingHandler)
		listingRoutes.GET("/:id", listingHandler.GetListingHandler)
	}
	api.GET("/provider/listings", authMW, middleware.RequireRole(model.RoleProvider), listingHandler.MyListingsHandler)

	// 4. กลุ่ม Claims
	claimRoutes := api.Group("/claims", authMW)
	{
		claimRoutes.POST("", middleware.RequireRole(model.RoleNGO), claimHandler.CreateClaimHandler)
		claimRoutes.GET("/my", middleware.RequireRole(model.RoleNGO), claimHandler.MyClaimsHandler)
		claimRoutes.GET("/listing/:id", middleware.RequireRole(model.RoleProvider), claimHandler.ClaimsByListingHandler)
		claimRoutes.POST("/:id/quality-check", middleware.RequireRole(model.RoleNGO), claimHandler.QualityCheckHandler)
	}

	// 5. กลุ่ม Notifications
	notificationRoutes := api.Group("/notifications", authMW)
	{
		notificationRoutes.GET("", notificationHandler.ListNotificationsHandler)
		notificationRoutes.POST("/:id/read", notificationHandler.MarkReadHandler)
	}

	return router
}
