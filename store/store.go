// Package store คือชั้นติดต่อ Document Store ของระบบ
// ตัวจริงใช้ Firestore (firestore.go) ส่วนเทสต์ใช้ตัวจำลองใน memory (memory.go)
package store

import (
	"context"
	"errors"
)

var (
	// ErrNotFound คือเอกสารที่ขอไม่มีอยู่
	ErrNotFound = errors.New("store: document not found")
	// ErrConflict คือ transaction ชนกับการเขียนของคนอื่น (ลองใหม่ได้)
	ErrConflict = errors.New("store: transaction conflict")
	// ErrAlreadyExists คือพยายามสร้างเอกสารทับ id เดิม
	ErrAlreadyExists = errors.New("store: document already exists")
)

// Filter คือเงื่อนไขการค้นหา รูปแบบเดียวกับ Where ของ Firestore
type Filter struct {
	Path  string
	Op    string
	Value interface{}
}

// Query คือคำสั่งค้นหาใน collection เดียว
type Query struct {
	Filters    []Filter
	OrderBy    string
	Descending bool
}

// Update คือการแก้ค่าฟิลด์เดียวในเอกสาร
type Update struct {
	Path  string
	Value interface{}
}

// Tx คือชุดคำสั่งที่ทำงานใน transaction เดียวกัน
// ข้อบังคับเหมือน Firestore คือต้องอ่านให้ครบก่อนแล้วค่อยเขียน
// ถ้าเอกสารที่อ่านไปถูกคนอื่นแก้ก่อน commit ทั้ง transaction จะล้มด้วย ErrConflict
type Tx interface {
	Get(collection, id string, out interface{}) error
	Create(collection, id string, data interface{}) error
	Update(collection, id string, updates []Update) error
}

// Store คือความสามารถทั้งหมดที่ระบบต้องการจาก Document Store
type Store interface {
	Get(ctx context.Context, collection, id string, out interface{}) error
	Create(ctx context.Context, collection, id string, data interface{}) error
	Update(ctx context.Context, collection, id string, updates []Update) error
	// Query เติมผลลัพธ์ลงใน out ซึ่งต้องเป็น pointer ไปยัง slice ของ struct
	Query(ctx context.Context, collection string, q Query, out interface{}) error
	RunTransaction(ctx context.Context, fn func(tx Tx) error) error
	// NewID สร้าง document id ใหม่สำหรับ collection ที่ระบุ
	NewID(collection string) string
}
