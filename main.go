package main

import (
	"log"
	"os"

	"api-share-bite/coordinator"
	"api-share-bite/database"
	"api-share-bite/handler"
	"api-share-bite/middleware"
	"api-share-bite/router"
	"api-share-bite/store"
)

func main() {
	// 1. เชื่อมต่อ Firebase (Firestore + Auth)
	firestoreClient, authClient, err := database.InitFirebase()
	if err != nil {
		log.Fatalf("Could not initialize database: %v", err)
	}
	defer firestoreClient.Close()
	log.Println("Successfully connected to Firebase services!")

	// 2. สร้าง Store แล้ว inject เข้า Coordinator (ไม่ใช้ global client)
	st := store.NewFirestoreStore(firestoreClient)
	co := coordinator.New(st)
	defer co.FlushNotifications()

	// 3. สร้าง Handler ทั้งหมด
	authHandler := &handler.AuthHandler{AuthClient: authClient, Store: st}
	listingHandler := &handler.ListingHandler{Coordinator: co}
	claimHandler := &handler.ClaimHandler{Coordinator: co}
	notificationHandler := &handler.NotificationHandler{Coordinator: co}

	// 4. ตั้งค่า Routes แล้วรันเซิร์ฟเวอร์
	authMW := middleware.AuthMiddleware(authClient, st)
	r := router.SetupRouter(authHandler, listingHandler, claimHandler, notificationHandler, authMW)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("Server is running on port " + port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
