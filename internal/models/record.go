package models

import "time"

// StoreRecord is one namespaced key-value row of the local store. Each logical
// record (identity, history, archive, settings, draft) is serialized as one
// independent JSON blob; there is no transactionality across keys.
type StoreRecord struct {
	Key       string `gorm:"primaryKey;size:64"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}
