package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/ioutil"
	"log"
	"net/http"
	"os"
	"time"

	"api-share-bite/coordinator"
	"api-share-bite/middleware"
	"api-share-bite/model"
	"api-share-bite/store"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	AuthClient *auth.Client
	Store      store.Store
}

var errInvalidCredentials = errors.New("invalid credentials")

// กรอง role ที่ส่งมาให้เหลือเฉพาะที่ระบบรู้จัก (provider / ngo)
func normalizeRoles(roles []string) []string {
	allowed := []string{model.RoleProvider, model.RoleNGO}
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		for _, a := range allowed {
			if r == a {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// signInWithPassword ยิงไปที่ Firebase Auth REST API เพื่อแลก email/password
// เป็น ID Token (SDK ฝั่ง server ไม่มีทาง sign-in ตรงๆ เลยต้องใช้ REST)
// !!! สำคัญ: ต้องตั้ง FIREBASE_WEB_API_KEY ไว้ใน Environment Variable !!!
func signInWithPassword(email, password string) (idToken string, uid string, err error) {
	apiKey := os.Getenv("FIREBASE_WEB_API_KEY")
	restApiURL := "https://identitytoolkit.googleapis.com/v1/accounts:signInWithPassword?key=" + apiKey

	requestBody, _ := json.Marshal(map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})

	resp, err := http.Post(restApiURL, "application/json", bytes.NewBuffer(requestBody))
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	body, _ := ioutil.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		log.Printf("Firebase auth failed with status: %d, body: %s", resp.StatusCode, string(body))
		return "", "", errInvalidCredentials
	}

	var firebaseResp struct {
		IDToken string `json:"idToken"`
		LocalID string `json:"localId"`
	}
	if err := json.Unmarshal(body, &firebaseResp); err != nil {
		return "", "", err
	}
	return firebaseResp.IDToken, firebaseResp.LocalID, nil
}

// RegisterHandler สมัครสมาชิกใหม่ สร้างผู้ใช้ใน Firebase Auth
// แล้วบันทึกโปรไฟล์ (พร้อม role) ลง Collection "users"
func (h *AuthHandler) RegisterHandler(c *gin.Context) {
	var payload model.RegisterPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	roles := normalizeRoles(payload.Roles)
	if len(roles) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one role (provider or ngo) is required"})
		return
	}

	// 1. สร้างผู้ใช้ใน Firebase Authentication
	params := (&auth.UserToCreate{}).
		Email(payload.Email).
		Password(payload.Password).
		DisplayName(payload.Name)

	userRecord, err := h.AuthClient.CreateUser(c.Request.Context(), params)
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "This email is already registered."})
			return
		}
		log.Printf("Error creating user: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	// 2. บันทึกโปรไฟล์ลงใน Collection "users"
	profile := model.UserProfile{
		ID:        userRecord.UID,
		Email:     payload.Email,
		Name:      payload.Name,
		Phone:     payload.Phone,
		Address:   payload.Address,
		Roles:     roles,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.Store.Create(c.Request.Context(), coordinator.CollectionUsers, userRecord.UID, profile); err != nil {
		log.Printf("Error saving user profile: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save user profile"})
		return
	}

	// 3. Sign-in ให้เลย จะได้ไม่ต้องให้แอป login ซ้ำอีกรอบ
	idToken, _, err := signInWithPassword(payload.Email, payload.Password)
	if err != nil {
		log.Printf("Error signing in after register: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration succeeded but sign-in failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"access_token": idToken,
		"token_type":   "Bearer",
		"user":         profile,
	})
}

// LoginHandler เข้าสู่ระบบด้วย email/password แล้วคืนโปรไฟล์พร้อม Token
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var payload model.LoginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 1. แลก email/password เป็น Token
	idToken, uid, err := signInWithPassword(payload.Email, payload.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	// 2. ดึงโปรไฟล์จาก Collection "users"
	var profile model.UserProfile
	if err := h.Store.Get(c.Request.Context(), coordinator.CollectionUsers, uid, &profile); err != nil {
		log.Printf("Error getting user from Firestore: %v\n", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "User profile not found"})
		return
	}
	profile.ID = uid

	c.JSON(http.StatusOK, gin.H{
		"access_token": idToken,
		"token_type":   "Bearer",
		"user":         profile,
	})
}

// MeHandler คืนโปรไฟล์ของผู้ใช้ที่ login อยู่ (AuthMiddleware โหลดไว้ให้แล้ว)
func (h *AuthHandler) MeHandler(c *gin.Context) {
	profile, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": profile})
}
