package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"api-share-bite/coordinator"
	"api-share-bite/handler"
	"api-share-bite/middleware"
	"api-share-bite/model"
	"api-share-bite/router"
	"api-share-bite/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// สภาพแวดล้อมเทสต์ระดับ HTTP: router จริง + MemoryStore
// แต่สลับด่านตรวจ Token เป็นตัวปลอมที่อ่าน user id จาก Header แทน
type apiEnv struct {
	router *gin.Engine
	co     *coordinator.Coordinator
	users  map[string]model.UserProfile
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.NewMemoryStore()
	co := coordinator.New(st)

	env := &apiEnv{
		co: co,
		users: map[string]model.UserProfile{
			"p1": {ID: "p1", Name: "Bangkok Bakery", Phone: "02-000-0001", Roles: []string{model.RoleProvider}},
			"n1": {ID: "n1", Name: "Food Rescue TH", Phone: "02-000-0002", Roles: []string{model.RoleNGO}},
			"n2": {ID: "n2", Name: "Second Harvest", Phone: "02-000-0003", Roles: []string{model.RoleNGO}},
		},
	}

	fakeAuthMW := func(c *gin.Context) {
		profile, ok := env.users[c.GetHeader("X-Test-User")]
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set(middleware.ContextUserKey, profile)
		c.Next()
	}

	env.router = router.SetupRouter(
		&handler.AuthHandler{Store: st},
		&handler.ListingHandler{Coordinator: co},
		&handler.ClaimHandler{Coordinator: co},
		&handler.NotificationHandler{Coordinator: co},
		fakeAuthMW,
	)
	return env
}

func (e *apiEnv) do(t *testing.T, method, path, userID string, body interface{}) (*httptest.ResponseRecorder, string) {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	} else {
		reader = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-Test-User", userID)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec, rec.Body.String()
}

func (e *apiEnv) seedListing(t *testing.T) *model.Listing {
	t.Helper()
	start := time.Now().UTC().Add(time.Hour)
	listing, err := e.co.CreateListing(context.Background(), model.CreateListingPayload{
		FoodType:          "rice boxes",
		Quantity:          "30 boxes",
		PickupWindowStart: start,
		PickupWindowEnd:   start.Add(2 * time.Hour),
		Location:          "Ari",
	}, e.users["p1"])
	require.NoError(t, err)
	return listing
}

func TestClaimEndpoints(t *testing.T) {
	e := newAPIEnv(t)
	listing := e.seedListing(t)

	// NGO จองประกาศ -> 201
	rec, body := e.do(t, http.MethodPost, "/api/claims", "n1", gin.H{"listing_id": listing.ID})
	require.Equal(t, http.StatusCreated, rec.Code, body)
	var claim model.Claim
	require.NoError(t, json.Unmarshal([]byte(body), &claim))
	assert.Equal(t, model.ClaimStatusClaimed, claim.Status)

	// NGO อีกเจ้าจองซ้ำ -> 400 พร้อม kind ให้ client แยกได้ว่าไม่ควร retry
	rec, body = e.do(t, http.MethodPost, "/api/claims", "n2", gin.H{"listing_id": listing.ID})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body, "invalid_state")

	// provider ไม่มี role ngo -> โดนด่าน RequireRole ดักไว้ก่อน
	rec, _ = e.do(t, http.MethodPost, "/api/claims", "p1", gin.H{"listing_id": listing.ID})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// ไม่ส่ง Header -> 401
	rec, _ = e.do(t, http.MethodPost, "/api/claims", "", gin.H{"listing_id": listing.ID})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// NGO คนอื่นมาส่งหลักฐานแทน -> 403
	rec, _ = e.do(t, http.MethodPost, "/api/claims/"+claim.ID+"/quality-check", "n2", gin.H{"media_urls": []string{"https://x/1.jpg"}})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// เจ้าของส่งหลักฐาน -> 200 และ claim เป็น verified
	rec, body = e.do(t, http.MethodPost, "/api/claims/"+claim.ID+"/quality-check", "n1", gin.H{"media_urls": []string{"https://x/1.jpg"}})
	require.Equal(t, http.StatusOK, rec.Code, body)
	var verified model.Claim
	require.NoError(t, json.Unmarshal([]byte(body), &verified))
	assert.Equal(t, model.ClaimStatusVerified, verified.Status)

	// ส่งซ้ำ -> 400
	rec, _ = e.do(t, http.MethodPost, "/api/claims/"+claim.ID+"/quality-check", "n1", gin.H{"media_urls": []string{"https://x/2.jpg"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// หน้ารวมประกาศ (public) ต้องไม่เหลือประกาศ available แล้ว
	rec, body = e.do(t, http.MethodGet, "/api/listings", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listings []model.Listing
	require.NoError(t, json.Unmarshal([]byte(body), &listings))
	assert.Empty(t, listings)
}

func TestNotificationEndpoints(t *testing.T) {
	e := newAPIEnv(t)
	listing := e.seedListing(t)

	rec, _ := e.do(t, http.MethodPost, "/api/claims", "n1", gin.H{"listing_id": listing.ID})
	require.Equal(t, http.StatusCreated, rec.Code)
	e.co.FlushNotifications()

	// provider เห็นแจ้งเตือนของตัวเอง
	rec, body := e.do(t, http.MethodGet, "/api/notifications", "p1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var notifications []model.Notification
	require.NoError(t, json.Unmarshal([]byte(body), &notifications))
	require.Len(t, notifications, 1)
	assert.False(t, notifications[0].Read)

	// คนอื่นมากดอ่านแทน -> 403
	rec, _ = e.do(t, http.MethodPost, "/api/notifications/"+notifications[0].ID+"/read", "n1", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// เจ้าของกดอ่าน -> 200 กดซ้ำก็ยัง 200
	for i := 0; i < 2; i++ {
		rec, body = e.do(t, http.MethodPost, "/api/notifications/"+notifications[0].ID+"/read", "p1", nil)
		require.Equal(t, http.StatusOK, rec.Code, body)
		var n model.Notification
		require.NoError(t, json.Unmarshal([]byte(body), &n))
		assert.True(t, n.Read)
	}

	// กดอ่านอันที่ไม่มี -> 404
	rec, _ = e.do(t, http.MethodPost, "/api/notifications/missing/read", "p1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListingEndpoints(t *testing.T) {
	e := newAPIEnv(t)

	start := time.Now().UTC().Add(time.Hour)
	payload := gin.H{
		"food_type":           "curry",
		"quantity":            "10 portions",
		"pickup_window_start": start.Format(time.RFC3339),
		"pickup_window_end":   start.Add(time.Hour).Format(time.RFC3339),
		"location":            "Thonglor",
	}

	// NGO สร้างประกาศไม่ได้
	rec, _ := e.do(t, http.MethodPost, "/api/listings", "n1", payload)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// provider สร้างได้
	rec, body := e.do(t, http.MethodPost, "/api/listings", "p1", payload)
	require.Equal(t, http.StatusCreated, rec.Code, body)
	var listing model.Listing
	require.NoError(t, json.Unmarshal([]byte(body), &listing))
	assert.Equal(t, model.ListingStatusAvailable, listing.Status)
	assert.Equal(t, "Bangkok Bakery", listing.ProviderName)

	// ดูใบเดียวแบบ public ได้
	rec, _ = e.do(t, http.MethodGet, "/api/listings/"+listing.ID, "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = e.do(t, http.MethodGet, "/api/listings/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
