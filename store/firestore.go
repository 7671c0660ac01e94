package store

import (
	"context"
	"reflect"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore คือ Store ตัวจริงที่คุยกับ Cloud Firestore
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore รับ client ที่เชื่อมต่อแล้วจาก database.InitFirebase
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

// แปลง error ของ Firestore (grpc status) ให้เป็น error กลางของ store
func mapFirestoreError(err error) error {
	if err == nil {
		return nil
	}
	switch status.Code(err) {
	case codes.NotFound:
		return ErrNotFound
	case codes.AlreadyExists:
		return ErrAlreadyExists
	case codes.Aborted, codes.FailedPrecondition:
		// Firestore retry ให้ระดับหนึ่งแล้ว ถ้ายังหลุดมาถึงตรงนี้ถือว่าชนจริง
		return ErrConflict
	}
	return err
}

func (s *FirestoreStore) Get(ctx context.Context, collection, id string, out interface{}) error {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		return mapFirestoreError(err)
	}
	return snap.DataTo(out)
}

func (s *FirestoreStore) Create(ctx context.Context, collection, id string, data interface{}) error {
	_, err := s.client.Collection(collection).Doc(id).Create(ctx, data)
	return mapFirestoreError(err)
}

func (s *FirestoreStore) Update(ctx context.Context, collection, id string, updates []Update) error {
	_, err := s.client.Collection(collection).Doc(id).Update(ctx, toFirestoreUpdates(updates))
	return mapFirestoreError(err)
}

func (s *FirestoreStore) Query(ctx context.Context, collection string, q Query, out interface{}) error {
	fq := s.client.Collection(collection).Query
	for _, f := range q.Filters {
		fq = fq.Where(f.Path, f.Op, f.Value)
	}
	if q.OrderBy != "" {
		dir := firestore.Asc
		if q.Descending {
			dir = firestore.Desc
		}
		fq = fq.OrderBy(q.OrderBy, dir)
	}

	// out ต้องเป็น *[]T — ใช้ reflect เติมทีละเอกสาร
	slicePtr := reflect.ValueOf(out).Elem()
	elemType := slicePtr.Type().Elem()
	result := reflect.MakeSlice(slicePtr.Type(), 0, 0)

	it := fq.Documents(ctx)
	defer it.Stop()
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return mapFirestoreError(err)
		}
		item := reflect.New(elemType)
		if err := snap.DataTo(item.Interface()); err != nil {
			return err
		}
		result = reflect.Append(result, item.Elem())
	}
	slicePtr.Set(result)
	return nil
}

func (s *FirestoreStore) RunTransaction(ctx context.Context, fn func(tx Tx) error) error {
	err := s.client.RunTransaction(ctx, func(txCtx context.Context, t *firestore.Transaction) error {
		return fn(&firestoreTx{client: s.client, t: t})
	})
	return mapFirestoreError(err)
}

func (s *FirestoreStore) NewID(collection string) string {
	return s.client.Collection(collection).NewDoc().ID
}

// firestoreTx ห่อ *firestore.Transaction ให้เข้ากับ interface Tx ของเรา
type firestoreTx struct {
	client *firestore.Client
	t      *firestore.Transaction
}

func (tx *firestoreTx) Get(collection, id string, out interface{}) error {
	snap, err := tx.t.Get(tx.client.Collection(collection).Doc(id))
	if err != nil {
		return mapFirestoreError(err)
	}
	return snap.DataTo(out)
}

func (tx *firestoreTx) Create(collection, id string, data interface{}) error {
	return mapFirestoreError(tx.t.Create(tx.client.Collection(collection).Doc(id), data))
}

func (tx *firestoreTx) Update(collection, id string, updates []Update) error {
	return mapFirestoreError(tx.t.Update(tx.client.Collection(collection).Doc(id), toFirestoreUpdates(updates)))
}

func toFirestoreUpdates(updates []Update) []firestore.Update {
	fu := make([]firestore.Update, 0, len(updates))
	for _, u := range updates {
		fu = append(fu, firestore.Update{Path: u.Path, Value: u.Value})
	}
	return fu
}
