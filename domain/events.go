package domain

// AnswerEvaluatedEvent is published after an answer record is persisted.
// Purely a notification: the evaluation pipeline itself stays synchronous.
type AnswerEvaluatedEvent struct {
	AnswerID   uint    `json:"answer_id"`
	UserID     uint    `json:"user_id"`
	QuestionID uint    `json:"question_id"`
	Accuracy   float64 `json:"accuracy"`
	Degraded   bool    `json:"degraded"`
}
