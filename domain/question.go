package domain

import "time"

type Question struct {
	ID         uint   `gorm:"primaryKey"`
	UserID     uint   `gorm:"not null;index"`
	Topic      string `gorm:"size:100;not null"`
	Question   string `gorm:"type:text;not null"`
	Answer     string `gorm:"type:text;not null"` // reference answer, evaluation context only
	IsAnswered bool   `gorm:"default:false"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
