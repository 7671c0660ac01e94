package model

import "time"

// บทบาทของผู้ใช้ในระบบ ShareBite
// provider = ร้านอาหาร/ผู้บริจาค, ngo = องค์กรที่มารับอาหาร
const (
	RoleProvider = "provider"
	RoleNGO      = "ngo"
)

// UserProfile คือข้อมูลผู้ใช้ที่เก็บใน Collection "users"
// หมายเหตุ: name กับ phone จะถูก snapshot ไปใส่ใน listing/claim ตอนสร้างเอกสาร
// ถ้าผู้ใช้แก้โปรไฟล์ทีหลัง เอกสารเก่าจะยังเก็บค่าเดิมไว้ (ตั้งใจออกแบบแบบนี้)
type UserProfile struct {
	ID        string    `json:"id" firestore:"id"`
	Email     string    `json:"email" firestore:"email"`
	Name      string    `json:"name" firestore:"name"`
	Phone     string    `json:"phone" firestore:"phone"`
	Address   string    `json:"address" firestore:"address"`
	Roles     []string  `json:"roles" firestore:"roles"`
	CreatedAt time.Time `json:"created_at" firestore:"created_at"`
}

// HasRole เช็คว่าผู้ใช้คนนี้มี role ที่ต้องการหรือไม่
func (u UserProfile) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// RegisterPayload คือข้อมูลที่ส่งมาตอนสมัครสมาชิก
type RegisterPayload struct {
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password" binding:"required,min=6"`
	Name     string   `json:"name" binding:"required"`
	Phone    string   `json:"phone"`
	Address  string   `json:"address"`
	Roles    []string `json:"roles" binding:"required"`
}

// LoginPayload คือข้อมูลที่ส่งมาตอนเข้าสู่ระบบ
type LoginPayload struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}
