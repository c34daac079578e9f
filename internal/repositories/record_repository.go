package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"gorm.io/gorm"

	"aaruto/internal/models"
)

// RecordRepository is the persistent store adapter: JSON blobs under
// namespaced keys. Its operations never fail from the caller's point of view —
// a read or decode problem is logged and reported as "absent", a write problem
// is logged and dropped. Each key is written independently; a crash between
// two writes may leave them inconsistent, which is accepted.
type RecordRepository interface {
	Get(ctx context.Context, key string) (json.RawMessage, bool)
	Set(ctx context.Context, key string, value any)
	Remove(ctx context.Context, key string)
}

type recordRepository struct {
	db *gorm.DB
}

func NewRecordRepository(db *gorm.DB) RecordRepository {
	return &recordRepository{db: db}
}

func (r *recordRepository) Get(ctx context.Context, key string) (json.RawMessage, bool) {
	var rec models.StoreRecord
	if err := r.db.WithContext(ctx).Take(&rec, "key = ?", key).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("store: read %q: %v", key, err)
		}
		return nil, false
	}
	if !json.Valid([]byte(rec.Value)) {
		log.Printf("store: record %q is not valid JSON, treating as absent", key)
		return nil, false
	}
	return json.RawMessage(rec.Value), true
}

func (r *recordRepository) Set(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Printf("store: marshal %q: %v", key, err)
		return
	}
	rec := models.StoreRecord{Key: key, Value: string(data)}
	if err := r.db.WithContext(ctx).Save(&rec).Error; err != nil {
		log.Printf("store: write %q: %v", key, err)
	}
}

func (r *recordRepository) Remove(ctx context.Context, key string) {
	if err := r.db.WithContext(ctx).Delete(&models.StoreRecord{}, "key = ?", key).Error; err != nil {
		log.Printf("store: remove %q: %v", key, err)
	}
}
