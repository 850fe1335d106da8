package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"interview-prep/domain"
)

// Transcriber converts an audio payload into candidate text. The degraded
// flag marks placeholder text produced because speech recognition was
// unavailable or failed.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (text string, degraded bool)
}

// EventPublisher is best-effort; implementations must never fail the
// pipeline.
type EventPublisher interface {
	PublishAnswerEvaluated(event domain.AnswerEvaluatedEvent)
}

// ResumeTextExtractor pulls plain text out of an uploaded resume file.
type ResumeTextExtractor func(data []byte, filename string) (string, error)

// InterviewService ties question generation and the answer-processing
// pipeline (transcription, evaluation, persistence) together.
type InterviewService struct {
	db          *gorm.DB
	generator   *QuestionGenerator
	evaluator   *AnswerEvaluator
	parser      *ResumeParser
	transcriber Transcriber
	extractText ResumeTextExtractor
	events      EventPublisher
}

func NewInterviewService(db *gorm.DB, ai Completer, transcriber Transcriber, extractText ResumeTextExtractor, events EventPublisher) *InterviewService {
	return &InterviewService{
		db:          db,
		generator:   NewQuestionGenerator(ai),
		evaluator:   NewAnswerEvaluator(ai),
		parser:      NewResumeParser(ai),
		transcriber: transcriber,
		extractText: extractText,
		events:      events,
	}
}

// CreateQuestions generates question/answer pairs for a topic and persists
// them for the user.
func (s *InterviewService) CreateQuestions(ctx context.Context, userID uint, topic string, count int, difficulty string) ([]domain.Question, error) {
	items, err := s.generator.Generate(ctx, topic, count, difficulty)
	if err != nil {
		return nil, err
	}

	questions := make([]domain.Question, 0, len(items))
	for _, item := range items {
		questions = append(questions, domain.Question{
			UserID:   userID,
			Topic:    topic,
			Question: item.Question,
			Answer:   item.Answer,
		})
	}

	if len(questions) > 0 {
		if err := s.db.Create(&questions).Error; err != nil {
			return nil, fmt.Errorf("failed to save questions: %w", err)
		}
	}

	return questions, nil
}

// ProcessAnswer runs the full pipeline for one submitted answer:
// resolve question, transcribe, evaluate, mark answered, upsert the
// answer record. Resubmission is a correction: the single record per
// (user, question) is overwritten, no history is kept.
func (s *InterviewService) ProcessAnswer(ctx context.Context, userID, questionID uint, audio []byte, filename string) (*domain.Answer, error) {
	var question domain.Question
	err := s.db.Where("id = ? AND user_id = ?", questionID, userID).First(&question).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &domain.QuestionNotFoundError{QuestionID: questionID}
		}
		return nil, fmt.Errorf("failed to load question %d: %w", questionID, err)
	}

	userText, transcriptDegraded := s.transcriber.Transcribe(ctx, audio, filename)
	if transcriptDegraded {
		log.Printf("transcription degraded for question %d, evaluating placeholder text", questionID)
	}

	feedback := s.evaluator.Evaluate(ctx, question.Answer, userText, question.Question)

	// The question counts as answered once the pipeline ran, even when the
	// evaluator degraded to a zero-score record.
	question.IsAnswered = true
	if err := s.db.Save(&question).Error; err != nil {
		return nil, fmt.Errorf("failed to mark question %d answered: %w", questionID, err)
	}

	answer := domain.Answer{UserID: userID, QuestionID: question.ID}
	err = s.db.Where(domain.Answer{UserID: userID, QuestionID: question.ID}).FirstOrCreate(&answer).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert answer: %w", err)
	}

	answer.UserText = userText
	answer.Accuracy = feedback.Accuracy
	answer.Feedback = feedback.Feedback
	answer.Strengths = feedback.Strengths
	answer.Improvements = feedback.Improvements
	answer.MissingPoints = feedback.MissingPoints
	answer.ClarityScore = feedback.ClarityScore
	answer.CompletenessScore = feedback.CompletenessScore
	answer.TechnicalAccuracyScore = feedback.TechnicalAccuracyScore

	if err := s.db.Save(&answer).Error; err != nil {
		return nil, fmt.Errorf("failed to save answer: %w", err)
	}

	if s.events != nil {
		s.events.PublishAnswerEvaluated(domain.AnswerEvaluatedEvent{
			AnswerID:   answer.ID,
			UserID:     userID,
			QuestionID: question.ID,
			Accuracy:   answer.Accuracy,
			Degraded:   transcriptDegraded || feedback.Degraded,
		})
	}

	return &answer, nil
}

// GetAnswer returns the stored answer for a (user, question) pair. A
// missing question and a question that is simply unanswered are reported
// as distinct conditions.
func (s *InterviewService) GetAnswer(userID, questionID uint) (*domain.Answer, error) {
	var question domain.Question
	err := s.db.Where("id = ? AND user_id = ?", questionID, userID).First(&question).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &domain.QuestionNotFoundError{QuestionID: questionID}
		}
		return nil, fmt.Errorf("failed to load question %d: %w", questionID, err)
	}

	var answer domain.Answer
	err = s.db.Where("user_id = ? AND question_id = ?", userID, questionID).First(&answer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &domain.AnswerNotFoundError{QuestionID: questionID}
		}
		return nil, fmt.Errorf("failed to load answer: %w", err)
	}
	return &answer, nil
}

// QuestionsFromResume extracts resume text, derives topics from the parsed
// skills/experience/projects, and generates personalized questions. The
// resume itself is transient and never persisted.
func (s *InterviewService) QuestionsFromResume(ctx context.Context, userID uint, resumeData []byte, filename string, count int, difficulty string) ([]domain.Question, error) {
	text, err := s.extractText(resumeData, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to extract resume text: %w", err)
	}

	resume := s.parser.Parse(ctx, text)
	topics := Topics(resume)
	if len(topics) == 0 {
		return s.fallbackResumeQuestion(userID)
	}

	perTopic := count / len(topics)
	if perTopic < 1 {
		perTopic = 1
	}

	var all []domain.Question
	for _, topic := range topics {
		questions, err := s.CreateQuestions(ctx, userID, topic, perTopic, difficulty)
		if err != nil {
			log.Printf("resume question generation failed for %q: %v", topic, err)
			fallback, fbErr := s.createResumeFallback(userID, topic)
			if fbErr != nil {
				return nil, fbErr
			}
			all = append(all, *fallback)
			continue
		}
		all = append(all, questions...)
	}

	// Top up from the first topic if the per-topic split underdelivered.
	if len(all) < count && len(topics) > 0 {
		extra, err := s.CreateQuestions(ctx, userID, topics[0], count-len(all), difficulty)
		if err != nil {
			log.Printf("resume question top-up failed: %v", err)
		} else {
			all = append(all, extra...)
		}
	}

	if len(all) == 0 {
		return s.fallbackResumeQuestion(userID)
	}

	return all, nil
}

func (s *InterviewService) createResumeFallback(userID uint, topic string) (*domain.Question, error) {
	label := strings.ToLower(topic)
	if idx := strings.Index(label, ":"); idx > 0 {
		label = label[:idx]
	}

	question := domain.Question{
		UserID:   userID,
		Topic:    "Resume-Based",
		Question: fmt.Sprintf("Tell me about your experience with %s.", label),
		Answer:   fmt.Sprintf("Describe your background and expertise in %s.", label),
	}
	if err := s.db.Create(&question).Error; err != nil {
		return nil, fmt.Errorf("failed to save fallback question: %w", err)
	}
	return &question, nil
}

func (s *InterviewService) fallbackResumeQuestion(userID uint) ([]domain.Question, error) {
	question := domain.Question{
		UserID:   userID,
		Topic:    "Resume-Based",
		Question: "Tell me about your most significant project and the technologies you used.",
		Answer:   "Describe the project scope, your role, technical challenges, and key achievements.",
	}
	if err := s.db.Create(&question).Error; err != nil {
		return nil, fmt.Errorf("failed to save fallback question: %w", err)
	}
	return []domain.Question{question}, nil
}
