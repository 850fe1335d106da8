package domain

import "time"

// Answer holds the single evaluated answer per (user, question).
// Resubmission overwrites it in place, no history is kept.
type Answer struct {
	ID                     uint   `gorm:"primaryKey"`
	UserID                 uint   `gorm:"not null;uniqueIndex:idx_user_question"`
	QuestionID             uint   `gorm:"not null;uniqueIndex:idx_user_question"`
	UserText               string `gorm:"type:text"`
	Accuracy               float64
	Feedback               string `gorm:"type:text"`
	Strengths              string `gorm:"type:text"`
	Improvements           string `gorm:"type:text"`
	MissingPoints          string `gorm:"type:text"`
	ClarityScore           float64
	CompletenessScore      float64
	TechnicalAccuracyScore float64
	CreatedAt              time.Time
}
