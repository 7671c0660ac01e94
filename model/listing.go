package model

import "time"

// สถานะของ Listing เปลี่ยนได้ทางเดียวเท่านั้น:
// available -> claimed -> completed (ห้ามย้อนกลับ ห้ามข้ามขั้น)
const (
	ListingStatusAvailable = "available"
	ListingStatusClaimed   = "claimed"
	ListingStatusCompleted = "completed"
)

// Listing คือประกาศอาหารส่วนเกิน 1 รายการใน Collection "listings"
// provider_name / provider_phone ถูก snapshot มาจากโปรไฟล์ตอนสร้างประกาศ
type Listing struct {
	ID                string    `json:"id" firestore:"id"`
	ProviderID        string    `json:"provider_id" firestore:"provider_id"`
	ProviderName      string    `json:"provider_name" firestore:"provider_name"`
	ProviderPhone     string    `json:"provider_phone" firestore:"provider_phone"`
	FoodType          string    `json:"food_type" firestore:"food_type"`
	Quantity          string    `json:"quantity" firestore:"quantity"`
	Quality           string    `json:"quality" firestore:"quality"`
	PickupWindowStart time.Time `json:"pickup_window_start" firestore:"pickup_window_start"`
	PickupWindowEnd   time.Time `json:"pickup_window_end" firestore:"pickup_window_end"`
	Location          string    `json:"location" firestore:"location"`
	Description       string    `json:"description" firestore:"description"`
	Status            string    `json:"status" firestore:"status"`
	CreatedAt         time.Time `json:"created_at" firestore:"created_at"`
}

// CreateListingPayload คือข้อมูลที่ provider ส่งมาตอนสร้างประกาศใหม่
// ช่วงเวลารับของต้องมี start < end (ตรวจใน coordinator)
type CreateListingPayload struct {
	FoodType          string    `json:"food_type" binding:"required"`
	Quantity          string    `json:"quantity" binding:"required"`
	Quality           string    `json:"quality"`
	PickupWindowStart time.Time `json:"pickup_window_start" binding:"required"`
	PickupWindowEnd   time.Time `json:"pickup_window_end" binding:"required"`
	Location          string    `json:"location" binding:"required"`
	Description       string    `json:"description"`
}
