// Package coordinator คือหัวใจของระบบ: ดูแล state machine ของ Listing กับ Claim
// และทำให้การเปลี่ยนสถานะข้ามสองเอกสารเกิดขึ้นแบบ atomic ภายใต้การแย่งกันจองจริง
//
// กติกาหลักที่ห้ามพังคือ "ประกาศหนึ่งใบมี claim สำเร็จได้ใบเดียว" —
// ถ้า NGO หลายเจ้ายิง CreateClaim พร้อมกัน ต้องมีคนชนะแค่คนเดียว
// ที่เหลือได้ invalid_state หรือ conflict กลับไป
package coordinator

import (
	"context"
	"errors"
	"time"

	"api-share-bite/apperr"
	"api-share-bite/model"
	"api-share-bite/store"
)

// ชื่อ Collection ใน Document Store
const (
	CollectionUsers         = "users"
	CollectionListings      = "listings"
	CollectionClaims        = "claims"
	CollectionNotifications = "notifications"
)

// จำนวนครั้งที่ยอมลอง transaction ซ้ำเมื่อชนกับคนอื่น ก่อนตอบ conflict กลับไป
const (
	maxTxAttempts  = 4
	initialBackoff = 25 * time.Millisecond
)

// Coordinator ถือ Store ที่ inject เข้ามาตอนสร้าง (ห้ามเป็น global
// จะได้เทสต์ด้วย MemoryStore ได้)
type Coordinator struct {
	store    store.Store
	notifier *Notifier
}

// New สร้าง Coordinator พร้อม Notifier ที่ใช้ store ตัวเดียวกัน
func New(st store.Store) *Coordinator {
	return &Coordinator{store: st, notifier: NewNotifier(st)}
}

// FlushNotifications รอให้การแจ้งเตือนที่ค้างอยู่เขียนเสร็จ
// ใช้ตอน shutdown และในเทสต์ ไม่เกี่ยวกับ request ปกติ
func (c *Coordinator) FlushNotifications() {
	c.notifier.Flush()
}

// runInTx รัน transaction พร้อม retry แบบ exponential backoff เมื่อชนกัน
// error ฝั่ง business (not_found, invalid_state, ...) จะไม่ถูก retry เพราะ
// ลองใหม่กี่ครั้งผลก็เหมือนเดิม
func (c *Coordinator) runInTx(ctx context.Context, fn func(tx store.Tx) error) error {
	backoff := initialBackoff
	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = c.store.RunTransaction(ctx, fn)
		if !errors.Is(err, store.ErrConflict) {
			return err
		}
		if attempt == maxTxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return apperr.Wrap(apperr.KindConflict, "Too much contention, please retry", err)
}

// CreateClaim ทำการจองประกาศ (available -> claimed) ใน transaction เดียว:
// อ่านประกาศ เช็คสถานะ สร้าง Claim แล้วเปลี่ยนสถานะประกาศพร้อมกัน
// ถ้าขั้นไหนล้ม ทั้งก้อนถูกยกเลิก ไม่มี Claim ครึ่งๆ กลางๆ หลงเหลือ
func (c *Coordinator) CreateClaim(ctx context.Context, listingID string, actor model.UserProfile) (*model.Claim, error) {
	// ชั้น middleware เช็ค role มาแล้ว แต่เช็คซ้ำกันพลาด
	if !actor.HasRole(model.RoleNGO) {
		return nil, apperr.New(apperr.KindUnauthorized, "NGO role is required")
	}

	claimID := c.store.NewID(CollectionClaims)
	var claim model.Claim
	err := c.runInTx(ctx, func(tx store.Tx) error {
		var listing model.Listing
		if err := tx.Get(CollectionListings, listingID, &listing); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return apperr.New(apperr.KindNotFound, "Listing not found")
			}
			return err
		}
		if listing.Status != model.ListingStatusAvailable {
			return apperr.New(apperr.KindInvalidState, "Listing is not available")
		}

		claim = model.Claim{
			ID:                claimID,
			ListingID:         listingID,
			ProviderID:        listing.ProviderID,
			NGOID:             actor.ID,
			NGOName:           actor.Name,
			NGOPhone:          actor.Phone,
			Status:            model.ClaimStatusClaimed,
			ClaimedAt:         time.Now().UTC(),
			QualityCheckMedia: []string{},
		}
		if err := tx.Create(CollectionClaims, claimID, claim); err != nil {
			return err
		}
		return tx.Update(CollectionListings, listingID, []store.Update{
			{Path: "status", Value: model.ListingStatusClaimed},
		})
	})
	if err != nil {
		return nil, err
	}

	// แจ้ง provider หลัง commit เท่านั้น — ส่งไม่สำเร็จก็แค่ log
	// ห้ามย้อน transaction ที่สำเร็จไปแล้วเด็ดขาด
	c.notifier.Dispatch(claim.ProviderID, "Your listing has been claimed by an NGO.", model.NotificationTypeClaim)
	return &claim, nil
}

// SubmitQualityCheck ปิดงาน (claimed -> verified, listing -> completed)
// NGO เจ้าของ claim เท่านั้นที่ส่งหลักฐานได้ และส่งซ้ำไม่ได้ —
// claim ที่ verified แล้วจะตอบ invalid_state ไม่ใช่เขียนหลักฐานทับของเดิม
func (c *Coordinator) SubmitQualityCheck(ctx context.Context, claimID string, mediaURLs []string, actor model.UserProfile) (*model.Claim, error) {
	// ไม่ต้องเช็ค role ซ้ำ เพราะเงื่อนไข ngo_id == actor ข้างล่างแรงกว่าอยู่แล้ว
	if mediaURLs == nil {
		mediaURLs = []string{}
	}

	var claim model.Claim
	err := c.runInTx(ctx, func(tx store.Tx) error {
		claim = model.Claim{}
		if err := tx.Get(CollectionClaims, claimID, &claim); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return apperr.New(apperr.KindNotFound, "Claim not found")
			}
			return err
		}
		if claim.NGOID != actor.ID {
			return apperr.New(apperr.KindForbidden, "Not authorized for this claim")
		}
		if claim.Status != model.ClaimStatusClaimed {
			return apperr.New(apperr.KindInvalidState, "Claim has already been verified")
		}

		var listing model.Listing
		if err := tx.Get(CollectionListings, claim.ListingID, &listing); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return apperr.New(apperr.KindNotFound, "Listing not found")
			}
			return err
		}

		now := time.Now().UTC()
		if err := tx.Update(CollectionClaims, claimID, []store.Update{
			{Path: "status", Value: model.ClaimStatusVerified},
			{Path: "quality_check_media", Value: mediaURLs},
			{Path: "quality_checked_at", Value: now},
		}); err != nil {
			return err
		}
		claim.Status = model.ClaimStatusVerified
		claim.QualityCheckMedia = mediaURLs
		claim.QualityCheckedAt = &now

		return tx.Update(CollectionListings, claim.ListingID, []store.Update{
			{Path: "status", Value: model.ListingStatusCompleted},
		})
	})
	if err != nil {
		return nil, err
	}

	c.notifier.Dispatch(claim.ProviderID, "Claim verified and listing completed.", model.NotificationTypeQualityCheck)
	return &claim, nil
}

// CreateListing สร้างประกาศใหม่ (provider เท่านั้น) สถานะเริ่มต้นคือ available
// อันนี้เขียนเอกสารเดียว เลยไม่ต้องใช้ transaction
func (c *Coordinator) CreateListing(ctx context.Context, payload model.CreateListingPayload, actor model.UserProfile) (*model.Listing, error) {
	if !actor.HasRole(model.RoleProvider) {
		return nil, apperr.New(apperr.KindUnauthorized, "Provider role is required")
	}
	if !payload.PickupWindowStart.Before(payload.PickupWindowEnd) {
		return nil, apperr.New(apperr.KindInvalidState, "Pickup window start must be before end")
	}

	listing := model.Listing{
		ID:                c.store.NewID(CollectionListings),
		ProviderID:        actor.ID,
		ProviderName:      actor.Name,
		ProviderPhone:     actor.Phone,
		FoodType:          payload.FoodType,
		Quantity:          payload.Quantity,
		Quality:           payload.Quality,
		PickupWindowStart: payload.PickupWindowStart,
		PickupWindowEnd:   payload.PickupWindowEnd,
		Location:          payload.Location,
		Description:       payload.Description,
		Status:            model.ListingStatusAvailable,
		CreatedAt:         time.Now().UTC(),
	}
	if err := c.store.Create(ctx, CollectionListings, listing.ID, listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

// MarkRead บันทึกว่าผู้ใช้อ่านแจ้งเตือนแล้ว (read: false -> true)
// เรียกซ้ำกับอันที่อ่านแล้วก็สำเร็จเหมือนเดิม ไม่มี error
func (c *Coordinator) MarkRead(ctx context.Context, notificationID string, actor model.UserProfile) (*model.Notification, error) {
	var notification model.Notification
	if err := c.store.Get(ctx, CollectionNotifications, notificationID, &notification); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "Notification not found")
		}
		return nil, err
	}
	if notification.UserID != actor.ID {
		return nil, apperr.New(apperr.KindForbidden, "Not authorized for this notification")
	}
	if !notification.Read {
		err := c.store.Update(ctx, CollectionNotifications, notificationID, []store.Update{
			{Path: "read", Value: true},
		})
		if err != nil {
			return nil, err
		}
		notification.Read = true
	}
	return &notification, nil
}
