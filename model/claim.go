package model

import "time"

// สถานะของ Claim: claimed -> verified แล้วจบ (verified เป็นสถานะสุดท้าย)
const (
	ClaimStatusClaimed  = "claimed"
	ClaimStatusVerified = "verified"
)

// Claim คือการจองประกาศโดย NGO ใน Collection "claims"
// provider_id / ngo_name / ngo_phone ถูก snapshot มาตอนสร้าง จะได้อ่านทีหลัง
// ได้เลยโดยไม่ต้อง join กับเอกสารอื่น
type Claim struct {
	ID                string     `json:"id" firestore:"id"`
	ListingID         string     `json:"listing_id" firestore:"listing_id"`
	ProviderID        string     `json:"provider_id" firestore:"provider_id"`
	NGOID             string     `json:"ngo_id" firestore:"ngo_id"`
	NGOName           string     `json:"ngo_name" firestore:"ngo_name"`
	NGOPhone          string     `json:"ngo_phone" firestore:"ngo_phone"`
	Status            string     `json:"status" firestore:"status"`
	ClaimedAt         time.Time  `json:"claimed_at" firestore:"claimed_at"`
	QualityCheckMedia []string   `json:"quality_check_media" firestore:"quality_check_media"`
	QualityCheckedAt  *time.Time `json:"quality_checked_at,omitempty" firestore:"quality_checked_at,omitempty"`

	// Listing จะถูกเติมให้ตอน query ฝั่ง NGO เท่านั้น ไม่ได้เก็บลงเอกสาร
	Listing *Listing `json:"listing,omitempty" firestore:"-"`
}

// CreateClaimPayload คือข้อมูลที่ NGO ส่งมาตอนจองประกาศ
type CreateClaimPayload struct {
	ListingID string `json:"listing_id" binding:"required"`
}

// QualityCheckPayload คือหลักฐานการรับของ (ลิงก์รูป/วิดีโอ) จะเป็น array ว่างก็ได้
type QualityCheckPayload struct {
	MediaURLs []string `json:"media_urls"`
}
