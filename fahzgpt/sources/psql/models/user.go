package models

import "time"

type User struct {
	ID        string    `json:"id" gorm:"type:varchar(64);primaryKey"`
	Username  string    `json:"username" gorm:"type:varchar(255);uniqueIndex;not null"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	Email     string    `json:"email" gorm:"type:varchar(255);not null"`
	Avatar    string    `json:"avatar,omitempty" gorm:"type:varchar(512)"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}
