package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
)

// Feedback is the fixed-schema evaluation of one answer. Every field is
// always populated: scores default to 0 and text fields to placeholders, so
// a record is never persisted half-empty.
type Feedback struct {
	Accuracy               float64 `json:"accuracy"`
	Feedback               string  `json:"feedback"`
	Strengths              string  `json:"strengths"`
	Improvements           string  `json:"improvements"`
	MissingPoints          string  `json:"missing_points"`
	ClarityScore           float64 `json:"clarity_score"`
	CompletenessScore      float64 `json:"completeness_score"`
	TechnicalAccuracyScore float64 `json:"technical_accuracy_score"`

	// Degraded marks a zero-score record produced because the model call
	// or its parsing failed, as opposed to genuine model output.
	Degraded bool `json:"-"`
}

// feedbackPayload distinguishes absent fields from zero values.
type feedbackPayload struct {
	Accuracy               *float64 `json:"accuracy"`
	Feedback               *string  `json:"feedback"`
	Strengths              *string  `json:"strengths"`
	Improvements           *string  `json:"improvements"`
	MissingPoints          *string  `json:"missing_points"`
	ClarityScore           *float64 `json:"clarity_score"`
	CompletenessScore      *float64 `json:"completeness_score"`
	TechnicalAccuracyScore *float64 `json:"technical_accuracy_score"`
}

// AnswerEvaluator compares a transcribed answer against the reference
// answer and produces structured feedback.
type AnswerEvaluator struct {
	ai Completer
}

func NewAnswerEvaluator(ai Completer) *AnswerEvaluator {
	return &AnswerEvaluator{ai: ai}
}

// Evaluate never fails past this boundary: any transport or parse failure
// degrades to a diagnosable zero-score record instead.
func (e *AnswerEvaluator) Evaluate(ctx context.Context, referenceAnswer, candidateText, questionText string) Feedback {
	raw, err := e.ai.Complete(ctx, evaluationPrompt(referenceAnswer, candidateText, questionText))
	if err != nil {
		log.Printf("answer evaluation request failed: %v", err)
		return failureFeedback(err)
	}

	// Direct parse only. The evaluation prompt demands bare JSON; unlike
	// the question path there is no substring recovery here.
	var payload feedbackPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		log.Printf("answer evaluation returned unparseable JSON: %v", err)
		return failureFeedback(err)
	}

	return feedbackFromPayload(payload)
}

// feedbackFromPayload is the single place defaults are applied for fields
// the model left out.
func feedbackFromPayload(p feedbackPayload) Feedback {
	return Feedback{
		Accuracy:               clampScore(p.Accuracy),
		Feedback:               textOr(p.Feedback, "No feedback available"),
		Strengths:              textOr(p.Strengths, "None identified"),
		Improvements:           textOr(p.Improvements, "None suggested"),
		MissingPoints:          textOr(p.MissingPoints, "None identified"),
		ClarityScore:           clampScore(p.ClarityScore),
		CompletenessScore:      clampScore(p.CompletenessScore),
		TechnicalAccuracyScore: clampScore(p.TechnicalAccuracyScore),
	}
}

func failureFeedback(err error) Feedback {
	return Feedback{
		Accuracy:               0,
		Feedback:               fmt.Sprintf("Analysis failed: %v", err),
		Strengths:              "Analysis unavailable",
		Improvements:           "Analysis unavailable",
		MissingPoints:          "Analysis unavailable",
		ClarityScore:           0,
		CompletenessScore:      0,
		TechnicalAccuracyScore: 0,
		Degraded:               true,
	}
}

func textOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}

func clampScore(f *float64) float64 {
	if f == nil || *f < 0 {
		return 0
	}
	if *f > 100 {
		return 100
	}
	return *f
}

func evaluationPrompt(referenceAnswer, candidateText, questionText string) string {
	return fmt.Sprintf(`You are an expert technical interviewer. Analyze this interview answer and provide specific, detailed feedback.

Question: %s
Expected Answer: %s
Candidate's Answer: %s

Analyze the candidate's response and provide feedback in JSON format. Be specific and avoid generic responses.

Return ONLY valid JSON in this format:
{
  "accuracy": [score 0-100],
  "feedback": "[specific overall assessment of the answer]",
  "strengths": "[specific strengths found in this answer]",
  "improvements": "[specific areas this answer could improve]",
  "missing_points": "[specific important points not covered]",
  "clarity_score": [score 0-100],
  "completeness_score": [score 0-100],
  "technical_accuracy_score": [score 0-100]
}

IMPORTANT:
- Be specific to the actual content of the candidate's answer
- Avoid generic phrases like "good examples" unless there actually are examples
- Focus on the technical accuracy and completeness relative to the expected answer
- Provide actionable, specific feedback`, questionText, referenceAnswer, candidateText)
}
