package models

import "time"

// StoreRecord is one durable keyed JSON document. The chat state lives in
// three records per user: sessions, active session pointer, and AI config.
// Writes always replace the whole value.
type StoreRecord struct {
	Key       string    `json:"key" gorm:"type:varchar(255);primaryKey"`
	Value     []byte    `json:"value" gorm:"type:jsonb;not null"`
	UpdatedAt time.Time `json:"updated_at"`
}
