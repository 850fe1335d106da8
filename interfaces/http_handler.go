package interfaces

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"interview-prep/domain"
	"interview-prep/services"
)

type HTTPHandler struct {
	Interview *services.InterviewService
}

func NewHTTPHandler(router *gin.Engine, interview *services.InterviewService) {
	h := &HTTPHandler{Interview: interview}

	router.POST("/questions/generate", h.GenerateQuestions)
	router.POST("/questions/resume", h.QuestionsFromResume)
	router.POST("/questions/:id/answer", h.SubmitAnswer)
	router.GET("/questions/:id/answer", h.GetAnswer)
}

// GenerateQuestions creates question/answer pairs for a topic.
func (h *HTTPHandler) GenerateQuestions(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		return
	}

	var req struct {
		Topic      string `json:"topic" binding:"required"`
		Count      int    `json:"count"`
		Difficulty string `json:"difficulty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Count <= 0 {
		req.Count = 4
	}
	if req.Difficulty == "" {
		req.Difficulty = "medium"
	}

	questions, err := h.Interview.CreateQuestions(c.Request.Context(), userID, req.Topic, req.Count, req.Difficulty)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"questions": questionViews(questions)})
}

// QuestionsFromResume accepts a resume upload and generates questions from
// its content. The file is processed in memory and never stored.
func (h *HTTPHandler) QuestionsFromResume(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("resume")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "resume file is required"})
		return
	}

	count := 4
	if v, err := strconv.Atoi(c.PostForm("count")); err == nil && v > 0 {
		count = v
	}
	difficulty := c.PostForm("difficulty")
	if difficulty == "" {
		difficulty = "medium"
	}

	data, err := readUpload(fileHeader)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read resume file"})
		return
	}

	questions, err := h.Interview.QuestionsFromResume(c.Request.Context(), userID, data, fileHeader.Filename, count, difficulty)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"questions": questionViews(questions)})
}

// SubmitAnswer runs the answer-processing pipeline on an uploaded audio
// recording.
func (h *HTTPHandler) SubmitAnswer(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		return
	}

	questionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid question id"})
		return
	}

	fileHeader, err := c.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "audio file is required"})
		return
	}

	audio, err := readUpload(fileHeader)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read audio file"})
		return
	}

	answer, err := h.Interview.ProcessAnswer(c.Request.Context(), userID, uint(questionID), audio, fileHeader.Filename)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, answerView(answer))
}

// GetAnswer returns the stored evaluation for a question.
func (h *HTTPHandler) GetAnswer(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		return
	}

	questionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid question id"})
		return
	}

	answer, err := h.Interview.GetAnswer(userID, uint(questionID))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, answerView(answer))
}

// userIDFrom reads the caller identity. Authentication itself is handled
// upstream; this service only scopes data by the forwarded user id.
func userIDFrom(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.GetHeader("X-User-ID"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "X-User-ID header is required"})
		return 0, false
	}
	return uint(id), true
}

func readUpload(fileHeader *multipart.FileHeader) ([]byte, error) {
	f, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func respondError(c *gin.Context, err error) {
	var notFound *domain.QuestionNotFoundError
	if errors.As(err, &notFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
		return
	}

	var noAnswer *domain.AnswerNotFoundError
	if errors.As(err, &noAnswer) {
		c.JSON(http.StatusNotFound, gin.H{"error": noAnswer.Error()})
		return
	}

	var svcErr *domain.ServiceError
	if errors.As(err, &svcErr) {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func questionViews(questions []domain.Question) []gin.H {
	views := make([]gin.H, 0, len(questions))
	for _, q := range questions {
		// The reference answer stays server-side.
		views = append(views, gin.H{
			"id":          q.ID,
			"topic":       q.Topic,
			"question":    q.Question,
			"is_answered": q.IsAnswered,
			"created_at":  q.CreatedAt,
		})
	}
	return views
}

func answerView(a *domain.Answer) gin.H {
	return gin.H{
		"id":                       a.ID,
		"question_id":              a.QuestionID,
		"user_text":                a.UserText,
		"accuracy":                 a.Accuracy,
		"feedback":                 a.Feedback,
		"strengths":                a.Strengths,
		"improvements":             a.Improvements,
		"missing_points":           a.MissingPoints,
		"clarity_score":            a.ClarityScore,
		"completeness_score":       a.CompletenessScore,
		"technical_accuracy_score": a.TechnicalAccuracyScore,
		"created_at":               a.CreatedAt,
	}
}
