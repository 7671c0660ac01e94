package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore คือ Document Store จำลองใน memory สำหรับเทสต์และรันทดลองในเครื่อง
// เลียนแบบ semantics สำคัญของ Firestore คือ transaction แบบ optimistic:
// จดเวอร์ชันของทุกเอกสารที่อ่าน แล้วตอน commit ถ้าเวอร์ชันเปลี่ยนไป (มีคนอื่น
// เขียนแทรก) จะล้มทั้งก้อนด้วย ErrConflict โดยไม่เขียนอะไรลงไปเลย
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]map[string]*memoryDoc
}

type memoryDoc struct {
	fields  map[string]interface{}
	version int64
}

// NewMemoryStore สร้าง store เปล่า
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]map[string]*memoryDoc)}
}

// เก็บเอกสารเป็น map กลางผ่าน json round-trip เพื่อให้ field name
// ตรงกับ json tag ของ model (ซึ่งตั้งให้ตรงกับ firestore tag อยู่แล้ว)
func encodeDoc(data interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func decodeDoc(fields map[string]interface{}, out interface{}) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func normalizeValue(v interface{}) interface{} {
	raw, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return v
	}
	return out
}

func cloneFields(fields map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}

func (s *MemoryStore) lookup(collection, id string) (*memoryDoc, bool) {
	col, ok := s.data[collection]
	if !ok {
		return nil, false
	}
	doc, ok := col[id]
	return doc, ok
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string, out interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.lookup(collection, id)
	if !ok {
		return ErrNotFound
	}
	return decodeDoc(doc.fields, out)
}

func (s *MemoryStore) Create(ctx context.Context, collection, id string, data interface{}) error {
	fields, err := encodeDoc(data)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createLocked(collection, id, fields)
}

func (s *MemoryStore) createLocked(collection, id string, fields map[string]interface{}) error {
	if _, ok := s.lookup(collection, id); ok {
		return ErrAlreadyExists
	}
	if s.data[collection] == nil {
		s.data[collection] = make(map[string]*memoryDoc)
	}
	s.data[collection][id] = &memoryDoc{fields: fields, version: 1}
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, collection, id string, updates []Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateLocked(collection, id, updates)
}

func (s *MemoryStore) updateLocked(collection, id string, updates []Update) error {
	doc, ok := s.lookup(collection, id)
	if !ok {
		return ErrNotFound
	}
	fields := cloneFields(doc.fields)
	for _, u := range updates {
		fields[u.Path] = normalizeValue(u.Value)
	}
	doc.fields = fields
	doc.version++
	return nil
}

func (s *MemoryStore) Query(ctx context.Context, collection string, q Query, out interface{}) error {
	s.mu.Lock()
	matched := make([]map[string]interface{}, 0)
	for _, doc := range s.data[collection] {
		ok, err := matchFilters(doc.fields, q.Filters)
		if err != nil {
			s.mu.Unlock()
			return err
		}
		if ok {
			matched = append(matched, doc.fields)
		}
	}
	s.mu.Unlock()

	if q.OrderBy != "" {
		sort.SliceStable(matched, func(i, j int) bool {
			less := compareValues(matched[i][q.OrderBy], matched[j][q.OrderBy]) < 0
			if q.Descending {
				return !less
			}
			return less
		})
	}

	raw, err := json.Marshal(matched)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func matchFilters(fields map[string]interface{}, filters []Filter) (bool, error) {
	for _, f := range filters {
		if f.Op != "==" {
			return false, fmt.Errorf("store: unsupported filter op %q", f.Op)
		}
		want, err := json.Marshal(normalizeValue(f.Value))
		if err != nil {
			return false, err
		}
		got, err := json.Marshal(fields[f.Path])
		if err != nil {
			return false, err
		}
		if string(want) != string(got) {
			return false, nil
		}
	}
	return true, nil
}

// เทียบค่าที่ผ่าน json round-trip มาแล้ว (string/float64/bool)
// เวลาในรูป RFC3339 (UTC) เทียบเป็น string ได้ตรงตามลำดับเวลาอยู่แล้ว
func compareValues(a, b interface{}) int {
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		}
	case float64:
		if bv, ok := b.(float64); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		}
	}
	sa, sb := fmt.Sprint(a), fmt.Sprint(b)
	switch {
	case sa < sb:
		return -1
	case sa > sb:
		return 1
	}
	return 0
}

func (s *MemoryStore) NewID(collection string) string {
	return uuid.NewString()
}

// memoryTx จดเวอร์ชันของเอกสารที่อ่าน และ buffer การเขียนไว้จนกว่าจะ commit
type memoryTx struct {
	store  *MemoryStore
	reads  map[string]int64
	writes []memoryWrite
	wrote  bool
}

type memoryWrite struct {
	create     bool
	collection string
	id         string
	fields     map[string]interface{}
	updates    []Update
}

func txKey(collection, id string) string {
	return collection + "/" + id
}

func (tx *memoryTx) Get(collection, id string, out interface{}) error {
	// กติกาเดียวกับ Firestore: ใน transaction ต้องอ่านให้จบก่อนค่อยเขียน
	if tx.wrote {
		return errors.New("store: transaction read after write")
	}
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	doc, ok := tx.store.lookup(collection, id)
	if !ok {
		// อ่านไม่เจอก็ต้องจดไว้ด้วย เผื่อมีคนสร้างเอกสารนี้ก่อนเรา commit
		tx.reads[txKey(collection, id)] = 0
		return ErrNotFound
	}
	tx.reads[txKey(collection, id)] = doc.version
	return decodeDoc(doc.fields, out)
}

func (tx *memoryTx) Create(collection, id string, data interface{}) error {
	fields, err := encodeDoc(data)
	if err != nil {
		return err
	}
	tx.wrote = true
	tx.writes = append(tx.writes, memoryWrite{create: true, collection: collection, id: id, fields: fields})
	return nil
}

func (tx *memoryTx) Update(collection, id string, updates []Update) error {
	tx.wrote = true
	tx.writes = append(tx.writes, memoryWrite{collection: collection, id: id, updates: updates})
	return nil
}

func (s *MemoryStore) RunTransaction(ctx context.Context, fn func(tx Tx) error) error {
	tx := &memoryTx{store: s, reads: make(map[string]int64)}
	if err := fn(tx); err != nil {
		// ล้มกลางทาง = ทิ้งทั้งก้อน ไม่มีการเขียนใดๆ เกิดขึ้น
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// ตรวจว่าเอกสารทุกตัวที่อ่านไปยังเป็นเวอร์ชันเดิมอยู่หรือไม่
	for key, version := range tx.reads {
		collection, id := splitTxKey(key)
		current := int64(0)
		if doc, ok := s.lookup(collection, id); ok {
			current = doc.version
		}
		if current != version {
			return ErrConflict
		}
	}

	for _, w := range tx.writes {
		if w.create {
			if err := s.createLocked(w.collection, w.id, w.fields); err != nil {
				if errors.Is(err, ErrAlreadyExists) {
					return ErrConflict
				}
				return err
			}
			continue
		}
		if err := s.updateLocked(w.collection, w.id, w.updates); err != nil {
			return err
		}
	}
	return nil
}

func splitTxKey(key string) (string, string) {
	for i := 0; i < len(key); i++ {
		if key[i] == '/' {
			return key[:i], key[i+1:]
		}
	}
	return key, ""
}
