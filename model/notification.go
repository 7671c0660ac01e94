package model

import "time"

// ประเภทของ Notification
const (
	NotificationTypeClaim        = "claim"
	NotificationTypeQualityCheck = "quality_check"
	NotificationTypeInfo         = "info"
)

// Notification คือข้อความแจ้งเตือนของผู้ใช้ใน Collection "notifications"
// ฟิลด์ read เปลี่ยนได้ทางเดียวคือ false -> true
type Notification struct {
	ID        string    `json:"id" firestore:"id"`
	UserID    string    `json:"user_id" firestore:"user_id"`
	Message   string    `json:"message" firestore:"message"`
	Type      string    `json:"type" firestore:"type"`
	Read      bool      `json:"read" firestore:"read"`
	CreatedAt time.Time `json:"created_at" firestore:"created_at"`
}
