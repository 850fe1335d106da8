package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"interview-prep/domain"
)

type stubTranscriber struct {
	text     string
	degraded bool
}

func (s *stubTranscriber) Transcribe(_ context.Context, _ []byte, _ string) (string, bool) {
	return s.text, s.degraded
}

type recordingPublisher struct {
	events []domain.AnswerEvaluatedEvent
}

func (r *recordingPublisher) PublishAnswerEvaluated(event domain.AnswerEvaluatedEvent) {
	r.events = append(r.events, event)
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Question{}, &domain.Answer{}))
	return db
}

func textExtractorStub(data []byte, _ string) (string, error) {
	return string(data), nil
}

const feedbackJSON = `{
	"accuracy": 80,
	"feedback": "Good coverage of replication basics.",
	"strengths": "Mentioned leader election.",
	"improvements": "Discuss failover timing.",
	"missing_points": "Split brain.",
	"clarity_score": 85,
	"completeness_score": 70,
	"technical_accuracy_score": 82
}`

func seedQuestion(t *testing.T, db *gorm.DB, userID uint) domain.Question {
	t.Helper()
	q := domain.Question{
		UserID:   userID,
		Topic:    "Databases",
		Question: "How does replication work?",
		Answer:   "Leader-follower with log shipping.",
	}
	require.NoError(t, db.Create(&q).Error)
	return q
}

func TestProcessAnswer_HappyPath(t *testing.T) {
	db := testDB(t)
	q := seedQuestion(t, db, 1)

	ai := &stubCompleter{responses: []string{feedbackJSON}}
	events := &recordingPublisher{}
	svc := NewInterviewService(db, ai, &stubTranscriber{text: "we use leader-follower replication"}, textExtractorStub, events)

	answer, err := svc.ProcessAnswer(context.Background(), 1, q.ID, []byte("audio"), "answer.wav")

	require.NoError(t, err)
	assert.Equal(t, "we use leader-follower replication", answer.UserText)
	assert.Equal(t, 80.0, answer.Accuracy)
	assert.Equal(t, "Good coverage of replication basics.", answer.Feedback)
	assert.Equal(t, 85.0, answer.ClarityScore)

	var reloaded domain.Question
	require.NoError(t, db.First(&reloaded, q.ID).Error)
	assert.True(t, reloaded.IsAnswered)

	require.Len(t, events.events, 1)
	assert.Equal(t, answer.ID, events.events[0].AnswerID)
	assert.False(t, events.events[0].Degraded)
}

func TestProcessAnswer_UpsertOverwritesOnResubmission(t *testing.T) {
	db := testDB(t)
	q := seedQuestion(t, db, 1)

	ai := &stubCompleter{responses: []string{
		feedbackJSON,
		`{"accuracy": 95, "feedback": "Much improved answer."}`,
	}}
	svc := NewInterviewService(db, ai, &stubTranscriber{text: "second attempt"}, textExtractorStub, nil)

	first, err := svc.ProcessAnswer(context.Background(), 1, q.ID, []byte("audio"), "a.wav")
	require.NoError(t, err)

	second, err := svc.ProcessAnswer(context.Background(), 1, q.ID, []byte("audio"), "a.wav")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 95.0, second.Accuracy)
	assert.Equal(t, "Much improved answer.", second.Feedback)

	var count int64
	require.NoError(t, db.Model(&domain.Answer{}).Where("user_id = ? AND question_id = ?", 1, q.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestProcessAnswer_ForeignQuestionIsNotFound(t *testing.T) {
	db := testDB(t)
	q := seedQuestion(t, db, 1)

	svc := NewInterviewService(db, &stubCompleter{}, &stubTranscriber{text: "x"}, textExtractorStub, nil)

	_, err := svc.ProcessAnswer(context.Background(), 2, q.ID, []byte("audio"), "a.wav")

	var notFound *domain.QuestionNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, q.ID, notFound.QuestionID)
}

func TestProcessAnswer_MissingQuestionIsNotFound(t *testing.T) {
	db := testDB(t)
	svc := NewInterviewService(db, &stubCompleter{}, &stubTranscriber{text: "x"}, textExtractorStub, nil)

	_, err := svc.ProcessAnswer(context.Background(), 1, 999, []byte("audio"), "a.wav")

	var notFound *domain.QuestionNotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestProcessAnswer_TranscriptionUnavailablePlaceholder(t *testing.T) {
	db := testDB(t)
	q := seedQuestion(t, db, 1)

	placeholder := "Audio transcription unavailable. Please type your answer."
	ai := &stubCompleter{responses: []string{feedbackJSON}}
	events := &recordingPublisher{}
	svc := NewInterviewService(db, ai, &stubTranscriber{text: placeholder, degraded: true}, textExtractorStub, events)

	answer, err := svc.ProcessAnswer(context.Background(), 1, q.ID, []byte("audio"), "a.wav")

	require.NoError(t, err)
	assert.Equal(t, placeholder, answer.UserText)
	// The evaluator still ran against the placeholder text.
	assert.Equal(t, 80.0, answer.Accuracy)
	assert.Contains(t, ai.prompts[0], placeholder)

	require.Len(t, events.events, 1)
	assert.True(t, events.events[0].Degraded)
}

func TestProcessAnswer_EvaluationFailureYieldsZeroScoreRecord(t *testing.T) {
	db := testDB(t)
	q := seedQuestion(t, db, 1)

	ai := &stubCompleter{errs: []error{&domain.ServiceError{StatusCode: 500, Body: "upstream exploded"}}}
	svc := NewInterviewService(db, ai, &stubTranscriber{text: "my answer"}, textExtractorStub, nil)

	answer, err := svc.ProcessAnswer(context.Background(), 1, q.ID, []byte("audio"), "a.wav")

	require.NoError(t, err)
	assert.Equal(t, 0.0, answer.Accuracy)
	assert.Equal(t, 0.0, answer.ClarityScore)
	assert.Equal(t, 0.0, answer.CompletenessScore)
	assert.Equal(t, 0.0, answer.TechnicalAccuracyScore)
	assert.Contains(t, answer.Feedback, "Analysis failed")

	// Still marked answered: the pipeline completed, only degraded.
	var reloaded domain.Question
	require.NoError(t, db.First(&reloaded, q.ID).Error)
	assert.True(t, reloaded.IsAnswered)
}

func TestCreateQuestions_PersistsGeneratedRows(t *testing.T) {
	db := testDB(t)

	ai := &stubCompleter{responses: []string{questionJSON(3)}}
	svc := NewInterviewService(db, ai, &stubTranscriber{}, textExtractorStub, nil)

	questions, err := svc.CreateQuestions(context.Background(), 7, "Databases", 3, "hard")

	require.NoError(t, err)
	require.Len(t, questions, 3)
	for _, q := range questions {
		assert.NotZero(t, q.ID)
		assert.Equal(t, uint(7), q.UserID)
		assert.Equal(t, "Databases", q.Topic)
		assert.False(t, q.IsAnswered)
	}

	var count int64
	require.NoError(t, db.Model(&domain.Question{}).Where("user_id = ?", 7).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}

func TestGetAnswer_MissingQuestionIsQuestionNotFound(t *testing.T) {
	db := testDB(t)
	svc := NewInterviewService(db, &stubCompleter{}, &stubTranscriber{}, textExtractorStub, nil)

	_, err := svc.GetAnswer(1, 42)

	var notFound *domain.QuestionNotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestGetAnswer_UnansweredQuestionIsAnswerNotFound(t *testing.T) {
	db := testDB(t)
	q := seedQuestion(t, db, 1)

	svc := NewInterviewService(db, &stubCompleter{}, &stubTranscriber{}, textExtractorStub, nil)

	_, err := svc.GetAnswer(1, q.ID)

	var noAnswer *domain.AnswerNotFoundError
	require.ErrorAs(t, err, &noAnswer)
	assert.Equal(t, q.ID, noAnswer.QuestionID)
}

func TestGetAnswer_ReturnsStoredAnswer(t *testing.T) {
	db := testDB(t)
	q := seedQuestion(t, db, 1)

	ai := &stubCompleter{responses: []string{feedbackJSON}}
	svc := NewInterviewService(db, ai, &stubTranscriber{text: "my answer"}, textExtractorStub, nil)

	processed, err := svc.ProcessAnswer(context.Background(), 1, q.ID, []byte("audio"), "a.wav")
	require.NoError(t, err)

	answer, err := svc.GetAnswer(1, q.ID)
	require.NoError(t, err)
	assert.Equal(t, processed.ID, answer.ID)
	assert.Equal(t, 80.0, answer.Accuracy)
}

func TestQuestionsFromResume_GeneratesPerTopic(t *testing.T) {
	db := testDB(t)

	resumeJSON := `{"skills":["Go","MySQL"],"experience":["Backend engineer"],"projects":["Billing system"]}`
	ai := &stubCompleter{responses: []string{
		resumeJSON,       // resume parsing
		questionJSON(2),  // Skills topic
		questionJSON(2),  // Experience topic
		questionJSON(2),  // Projects topic
	}}
	svc := NewInterviewService(db, ai, &stubTranscriber{}, textExtractorStub, nil)

	questions, err := svc.QuestionsFromResume(context.Background(), 1, []byte("resume text"), "resume.txt", 6, "medium")

	require.NoError(t, err)
	assert.Len(t, questions, 6)
	assert.Contains(t, ai.prompts[1], "Skills: Go, MySQL")
	assert.Contains(t, ai.prompts[2], "Experience: Backend engineer")
	assert.Contains(t, ai.prompts[3], "Projects: Billing system")
}

func TestQuestionsFromResume_FallbackQuestionsWhenGenerationFails(t *testing.T) {
	db := testDB(t)

	// Every model call fails: resume parsing falls back to generic lists,
	// and each topic gets a stored fallback question.
	failure := &domain.ServiceError{StatusCode: 503, Body: "unavailable"}
	ai := &stubCompleter{errs: []error{failure, failure, failure, failure, failure, failure}}
	svc := NewInterviewService(db, ai, &stubTranscriber{}, textExtractorStub, nil)

	questions, err := svc.QuestionsFromResume(context.Background(), 1, []byte("resume text"), "resume.txt", 3, "medium")

	require.NoError(t, err)
	require.NotEmpty(t, questions)
	for _, q := range questions {
		assert.Equal(t, "Resume-Based", q.Topic)
		assert.NotZero(t, q.ID)
	}
}

func TestQuestionsFromResume_UnsupportedFileIsAnError(t *testing.T) {
	db := testDB(t)
	extractor := func([]byte, string) (string, error) {
		return "", fmt.Errorf("unsupported file format")
	}
	svc := NewInterviewService(db, &stubCompleter{}, &stubTranscriber{}, extractor, nil)

	_, err := svc.QuestionsFromResume(context.Background(), 1, []byte("x"), "resume.exe", 3, "medium")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file format")
}
