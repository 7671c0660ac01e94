package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testDoc struct {
	ID        string    `json:"id"`
	Owner     string    `json:"owner"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func TestMemoryStore_CreateGetUpdate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := NewMemoryStore()

	doc := testDoc{ID: "d1", Owner: "u1", Status: "available", CreatedAt: time.Now().UTC()}
	require.NoError(t, st.Create(ctx, "docs", "d1", doc))

	// สร้างทับ id เดิมต้องไม่ได้
	assert.ErrorIs(t, st.Create(ctx, "docs", "d1", doc), ErrAlreadyExists)

	var got testDoc
	require.NoError(t, st.Get(ctx, "docs", "d1", &got))
	assert.Equal(t, "available", got.Status)

	require.NoError(t, st.Update(ctx, "docs", "d1", []Update{{Path: "status", Value: "claimed"}}))
	require.NoError(t, st.Get(ctx, "docs", "d1", &got))
	assert.Equal(t, "claimed", got.Status)

	assert.ErrorIs(t, st.Get(ctx, "docs", "missing", &got), ErrNotFound)
	assert.ErrorIs(t, st.Update(ctx, "docs", "missing", []Update{{Path: "status", Value: "x"}}), ErrNotFound)
}

func TestMemoryStore_QueryFilterAndOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := NewMemoryStore()

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	for i, d := range []testDoc{
		{ID: "a", Owner: "u1", Status: "available"},
		{ID: "b", Owner: "u2", Status: "available"},
		{ID: "c", Owner: "u1", Status: "claimed"},
	} {
		d.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, st.Create(ctx, "docs", d.ID, d))
	}

	var docs []testDoc
	err := st.Query(ctx, "docs", Query{
		Filters:    []Filter{{Path: "owner", Op: "==", Value: "u1"}},
		OrderBy:    "created_at",
		Descending: true,
	}, &docs)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	// ใหม่สุดต้องมาก่อน
	assert.Equal(t, "c", docs[0].ID)
	assert.Equal(t, "a", docs[1].ID)

	// ค้น collection ที่ไม่มีอยู่ได้ slice ว่าง ไม่ใช่ error
	var empty []testDoc
	require.NoError(t, st.Query(ctx, "nothing", Query{}, &empty))
	assert.Empty(t, empty)
}

func TestMemoryStore_TransactionConflict(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := NewMemoryStore()
	require.NoError(t, st.Create(ctx, "docs", "d1", testDoc{ID: "d1", Status: "available"}))

	// สอง transaction อ่านเอกสารเดียวกัน อันที่ commit ทีหลังต้องชน
	started := make(chan struct{})
	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	var slowErr error
	go func() {
		defer wg.Done()
		slowErr = st.RunTransaction(ctx, func(tx Tx) error {
			var d testDoc
			if err := tx.Get("docs", "d1", &d); err != nil {
				return err
			}
			close(started)
			<-release
			return tx.Update("docs", "d1", []Update{{Path: "status", Value: "slow"}})
		})
	}()

	<-started
	fastErr := st.RunTransaction(ctx, func(tx Tx) error {
		var d testDoc
		if err := tx.Get("docs", "d1", &d); err != nil {
			return err
		}
		return tx.Update("docs", "d1", []Update{{Path: "status", Value: "fast"}})
	})
	require.NoError(t, fastErr)
	close(release)
	wg.Wait()

	assert.ErrorIs(t, slowErr, ErrConflict)

	// ผลของตัวที่ชนต้องไม่ถูกเขียนลงไปเลย
	var got testDoc
	require.NoError(t, st.Get(ctx, "docs", "d1", &got))
	assert.Equal(t, "fast", got.Status)
}

func TestMemoryStore_TransactionAbortWritesNothing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := NewMemoryStore()
	require.NoError(t, st.Create(ctx, "docs", "d1", testDoc{ID: "d1", Status: "available"}))

	wantErr := errors.New("business rule says no")
	err := st.RunTransaction(ctx, func(tx Tx) error {
		if err := tx.Update("docs", "d1", []Update{{Path: "status", Value: "claimed"}}); err != nil {
			return err
		}
		if err := tx.Create("docs", "d2", testDoc{ID: "d2"}); err != nil {
			return err
		}
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)

	var got testDoc
	require.NoError(t, st.Get(ctx, "docs", "d1", &got))
	assert.Equal(t, "available", got.Status)
	assert.ErrorIs(t, st.Get(ctx, "docs", "d2", &got), ErrNotFound)
}

func TestMemoryStore_TransactionCreateRace(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := NewMemoryStore()

	// อ่านว่าไม่มี -> มีคนสร้างแทรก -> commit ต้องชน
	err := st.RunTransaction(ctx, func(tx Tx) error {
		var d testDoc
		if err := tx.Get("docs", "d1", &d); !errors.Is(err, ErrNotFound) {
			return err
		}
		require.NoError(t, st.Create(ctx, "docs", "d1", testDoc{ID: "d1"}))
		return tx.Create("docs", "d1", testDoc{ID: "d1"})
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestMemoryStore_ReadAfterWriteRejected(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := NewMemoryStore()
	require.NoError(t, st.Create(ctx, "docs", "d1", testDoc{ID: "d1"}))

	err := st.RunTransaction(ctx, func(tx Tx) error {
		if err := tx.Update("docs", "d1", []Update{{Path: "status", Value: "x"}}); err != nil {
			return err
		}
		var d testDoc
		return tx.Get("docs", "d1", &d)
	})
	assert.Error(t, err)
}
