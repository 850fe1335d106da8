package services

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// Completer sends one prompt and returns the raw model text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

var difficultyDescriptions = map[string]string{
	"easy":   "basic concepts, simple definitions, and fundamental knowledge",
	"medium": "practical applications, problem-solving, and intermediate concepts",
	"hard":   "advanced concepts, complex scenarios, system design, and expert-level knowledge",
}

// QuestionGenerator produces interview question/answer pairs for a topic.
type QuestionGenerator struct {
	ai Completer
}

func NewQuestionGenerator(ai Completer) *QuestionGenerator {
	return &QuestionGenerator{ai: ai}
}

// Generate returns at most count items. Overproduction is truncated; a
// shortfall triggers exactly one follow-up request for the remainder, and
// whatever is on hand is returned if the model still underdelivers.
// Only a failed request is an error, underproduction is not.
func (g *QuestionGenerator) Generate(ctx context.Context, topic string, count int, difficulty string) ([]QuestionItem, error) {
	raw, err := g.ai.Complete(ctx, questionPrompt(topic, count, difficulty))
	if err != nil {
		return nil, fmt.Errorf("failed to generate questions: %w", err)
	}

	items, degraded := ExtractQuestionJSON(raw)
	if degraded {
		log.Printf("question generation degraded to placeholder for topic %q", topic)
	}

	if len(items) > count {
		items = items[:count]
	}

	if len(items) < count && !degraded {
		remaining := count - len(items)
		log.Printf("model returned %d/%d questions for %q, requesting %d more", len(items), count, topic, remaining)

		raw, err := g.ai.Complete(ctx, questionPrompt(topic, remaining, difficulty))
		if err != nil {
			log.Printf("follow-up question request failed: %v", err)
			return items, nil
		}

		extra, extraDegraded := ExtractQuestionJSON(raw)
		if !extraDegraded {
			items = append(items, extra...)
			if len(items) > count {
				items = items[:count]
			}
		}
	}

	return items, nil
}

func questionPrompt(topic string, count int, difficulty string) string {
	desc, ok := difficultyDescriptions[difficulty]
	if !ok {
		difficulty = "medium"
		desc = difficultyDescriptions["medium"]
	}

	return fmt.Sprintf(`You are an expert technical interviewer who generates precise, structured interview questions.

CRITICAL REQUIREMENT: Generate EXACTLY %d questions - NO MORE, NO LESS!

Your task:
- Generate exactly %d interview questions about %s.
- The difficulty level is %s, described as: %s.
- Do not add any explanations, introductions, or markdown formatting.
- Each question must be conceptually aligned with the difficulty level.
- Each answer must be concise, technically correct, and appropriate to the difficulty.
- Output MUST be valid JSON only, no text outside the JSON.

Required output format:
[
  {
    "question": "string",
    "answer": "string"
  },
  ...
]

Validation rules:
- Generate EXACTLY %d objects in the JSON array - THIS IS MANDATORY!
- Each object must have both "question" and "answer" fields.
- Questions should be unique and non-repetitive.
- The topic '%s' must clearly appear in all questions.
- The response MUST parse as valid JSON with no extra text, markdown, or commentary.`,
		count, count, topic, strings.ToUpper(difficulty), desc, count, topic)
}
