package coordinator

import (
	"context"
	"log"
	"sync"
	"time"

	"api-share-bite/model"
	"api-share-bite/store"
)

// Notifier เขียนแจ้งเตือนลง Collection "notifications"
// เป็นช่องทาง best-effort: แยกขาดจาก transaction หลัก ส่งไม่ถึงก็แค่ log
// เพราะการแจ้งเตือนหายไม่ควรทำให้ธุรกรรมที่สำเร็จแล้วพังหรือย้อนกลับ
type Notifier struct {
	store store.Store
	wg    sync.WaitGroup
}

// NewNotifier สร้าง Notifier บน store ที่ให้มา
func NewNotifier(st store.Store) *Notifier {
	return &Notifier{store: st}
}

// Dispatch ยิงแจ้งเตือนแบบไม่รอผล ฝั่งที่เรียกได้คำตอบกลับไปก่อนเสมอ
// ใช้ context แยกของตัวเอง เพราะ request ต้นทางจบไปแล้วตอนที่งานนี้รัน
func (n *Notifier) Dispatch(userID, message, notificationType string) {
	if userID == "" {
		return
	}
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if _, err := n.Append(ctx, userID, message, notificationType); err != nil {
			log.Printf("notifier: failed to notify user %s: %v", userID, err)
		}
	}()
}

// Append เขียนแจ้งเตือน 1 รายการลง store ตรงๆ
func (n *Notifier) Append(ctx context.Context, userID, message, notificationType string) (*model.Notification, error) {
	if notificationType == "" {
		notificationType = model.NotificationTypeInfo
	}
	notification := model.Notification{
		ID:        n.store.NewID(CollectionNotifications),
		UserID:    userID,
		Message:   message,
		Type:      notificationType,
		Read:      false,
		CreatedAt: time.Now().UTC(),
	}
	if err := n.store.Create(ctx, CollectionNotifications, notification.ID, notification); err != nil {
		return nil, err
	}
	return &notification, nil
}

// Flush รอให้งานแจ้งเตือนที่ค้างอยู่ทำงานจบ
func (n *Notifier) Flush() {
	n.wg.Wait()
}
