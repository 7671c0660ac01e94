package middleware

import (
	"net/http"
	"strings"

	"api-share-bite/coordinator"
	"api-share-bite/model"
	"api-share-bite/store"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
)

// key ที่ใช้เก็บโปรไฟล์ผู้ใช้ใน gin context
const ContextUserKey = "user"

// AuthMiddleware คือ 'ด่านตรวจ' ยืนยันตัวตนด้วย Firebase ID Token
// ผ่านด่านแล้วจะโหลดโปรไฟล์จาก Collection "users" มาแปะไว้ใน context
// ให้ Handler ถัดไปหยิบไปใช้ได้เลย (มี id + role ครบ)
func AuthMiddleware(authClient *auth.Client, st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. ดึง ID Token จาก Header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		// 2. ตรวจสอบรูปแบบ "Bearer <token>"
		idToken := strings.TrimSpace(strings.Replace(authHeader, "Bearer ", "", 1))
		if idToken == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token not provided"})
			return
		}

		// 3. ตรวจสอบความถูกต้องของ Token กับ Firebase
		token, err := authClient.VerifyIDToken(c.Request.Context(), idToken)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization token"})
			return
		}

		// 4. โหลดโปรไฟล์ผู้ใช้จาก Firestore (ถ้าไม่มีถือว่ายังสมัครไม่เสร็จ)
		var profile model.UserProfile
		if err := st.Get(c.Request.Context(), coordinator.CollectionUsers, token.UID, &profile); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User profile not found"})
			return
		}
		profile.ID = token.UID

		// 5. เก็บโปรไฟล์ไว้ใน Context แล้วปล่อยผ่าน
		c.Set(ContextUserKey, profile)
		c.Next()
	}
}

// RequireRole เป็นด่านที่สองต่อจาก AuthMiddleware เช็คว่าผู้ใช้มี role ที่กำหนด
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if !profile.HasRole(role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient role"})
			return
		}
		c.Next()
	}
}

// CurrentUser ดึงโปรไฟล์ที่ AuthMiddleware เก็บไว้ออกจาก context
func CurrentUser(c *gin.Context) (model.UserProfile, bool) {
	v, exists := c.Get(ContextUserKey)
	if !exists {
		return model.UserProfile{}, false
	}
	profile, ok := v.(model.UserProfile)
	return profile, ok
}
