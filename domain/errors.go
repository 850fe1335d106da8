package domain

import "fmt"

// ServiceError is an upstream AI transport/HTTP failure. Requests are not
// retried; the raw response body is kept for diagnostics.
type ServiceError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("AI service request failed: %v", e.Err)
	}
	return fmt.Sprintf("AI service request failed with status %d: %s", e.StatusCode, e.Body)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// QuestionNotFoundError covers both a missing question id and a question
// owned by a different user, so ownership is never leaked.
type QuestionNotFoundError struct {
	QuestionID uint
}

func (e *QuestionNotFoundError) Error() string {
	return fmt.Sprintf("question %d not found", e.QuestionID)
}

// AnswerNotFoundError means the question exists but has no recorded
// answer for the user yet.
type AnswerNotFoundError struct {
	QuestionID uint
}

func (e *AnswerNotFoundError) Error() string {
	return fmt.Sprintf("no answer recorded for question %d", e.QuestionID)
}

// AudioProcessingError never escapes the transcription adapter; it is
// converted to a fallback transcript there.
type AudioProcessingError struct {
	Err error
}

func (e *AudioProcessingError) Error() string {
	return fmt.Sprintf("audio processing failed: %v", e.Err)
}

func (e *AudioProcessingError) Unwrap() error { return e.Err }

// ConfigurationError is a hard startup failure for a missing required
// environment value.
type ConfigurationError struct {
	Key string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s environment variable is required", e.Key)
}
