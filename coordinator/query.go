package coordinator

import (
	"context"
	"errors"

	"api-share-bite/apperr"
	"api-share-bite/model"
	"api-share-bite/store"
)

// ส่วนนี้คือ read projection ล้วนๆ ไม่มีการแก้สถานะใดๆ
// อ่านตรงจาก store แล้วเรียงใหม่สุดขึ้นก่อนเหมือนกันทุกตัว

// BrowseListings คืนประกาศตามสถานะที่ขอ (ค่าว่าง = เอาทุกสถานะ)
func (c *Coordinator) BrowseListings(ctx context.Context, status string) ([]model.Listing, error) {
	q := store.Query{OrderBy: "created_at", Descending: true}
	if status != "" {
		q.Filters = []store.Filter{{Path: "status", Op: "==", Value: status}}
	}
	var listings []model.Listing
	if err := c.store.Query(ctx, CollectionListings, q, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

// GetListing อ่านประกาศใบเดียวตาม id
func (c *Coordinator) GetListing(ctx context.Context, listingID string) (*model.Listing, error) {
	var listing model.Listing
	if err := c.store.Get(ctx, CollectionListings, listingID, &listing); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "Listing not found")
		}
		return nil, err
	}
	return &listing, nil
}

// ListingsByProvider คืนประกาศทั้งหมดของ provider คนหนึ่ง
func (c *Coordinator) ListingsByProvider(ctx context.Context, providerID string) ([]model.Listing, error) {
	var listings []model.Listing
	err := c.store.Query(ctx, CollectionListings, store.Query{
		Filters:    []store.Filter{{Path: "provider_id", Op: "==", Value: providerID}},
		OrderBy:    "created_at",
		Descending: true,
	}, &listings)
	if err != nil {
		return nil, err
	}
	return listings, nil
}

// ClaimsByNGO คืน claim ทั้งหมดของ NGO พร้อมแนบข้อมูลประกาศให้ด้วย
// (ฝั่ง dashboard ใช้แสดงรายละเอียดโดยไม่ต้องยิงขออีกรอบ)
func (c *Coordinator) ClaimsByNGO(ctx context.Context, ngoID string) ([]model.Claim, error) {
	var claims []model.Claim
	err := c.store.Query(ctx, CollectionClaims, store.Query{
		Filters:    []store.Filter{{Path: "ngo_id", Op: "==", Value: ngoID}},
		OrderBy:    "claimed_at",
		Descending: true,
	}, &claims)
	if err != nil {
		return nil, err
	}
	for i := range claims {
		var listing model.Listing
		err := c.store.Get(ctx, CollectionListings, claims[i].ListingID, &listing)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return nil, err
		}
		claims[i].Listing = &listing
	}
	return claims, nil
}

// ClaimsByListing คืน claim ของประกาศใบหนึ่ง ดูได้เฉพาะ provider เจ้าของประกาศ
func (c *Coordinator) ClaimsByListing(ctx context.Context, listingID string, actor model.UserProfile) ([]model.Claim, error) {
	listing, err := c.GetListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.ProviderID != actor.ID {
		return nil, apperr.New(apperr.KindForbidden, "Not authorized for this listing")
	}

	var claims []model.Claim
	err = c.store.Query(ctx, CollectionClaims, store.Query{
		Filters:    []store.Filter{{Path: "listing_id", Op: "==", Value: listingID}},
		OrderBy:    "claimed_at",
		Descending: true,
	}, &claims)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// NotificationsByUser คืนแจ้งเตือนทั้งหมดของผู้ใช้
func (c *Coordinator) NotificationsByUser(ctx context.Context, userID string) ([]model.Notification, error) {
	var notifications []model.Notification
	err := c.store.Query(ctx, CollectionNotifications, store.Query{
		Filters:    []store.Filter{{Path: "user_id", Op: "==", Value: userID}},
		OrderBy:    "created_at",
		Descending: true,
	}, &notifications)
	if err != nil {
		return nil, err
	}
	return notifications, nil
}
