package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"interview-prep/domain"
)

type resumePayload struct {
	Skills     []string `json:"skills"`
	Experience []string `json:"experience"`
	Projects   []string `json:"projects"`
}

// ResumeParser turns extracted resume text into the three semantic lists
// used for topic-aware question generation. The result is transient and
// never stored as user data.
type ResumeParser struct {
	ai Completer
}

func NewResumeParser(ai Completer) *ResumeParser {
	return &ResumeParser{ai: ai}
}

// Parse never fails: any model or parsing failure falls back to generic
// lists so resume-driven generation still produces something.
func (p *ResumeParser) Parse(ctx context.Context, extractedText string) domain.Resume {
	resume := domain.Resume{ExtractedText: extractedText}

	raw, err := p.ai.Complete(ctx, resumePrompt(extractedText))
	if err != nil {
		log.Printf("resume parsing request failed, using fallback lists: %v", err)
		return fallbackResume(extractedText)
	}

	cleaned := stripWrapperTokens(raw)
	var payload resumePayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		log.Printf("resume parsing returned unparseable JSON, using fallback lists: %v", err)
		return fallbackResume(extractedText)
	}
	if len(payload.Skills) == 0 && len(payload.Experience) == 0 && len(payload.Projects) == 0 {
		log.Printf("resume parsing returned no structured data, using fallback lists")
		return fallbackResume(extractedText)
	}

	resume.Skills = payload.Skills
	resume.Experience = payload.Experience
	resume.Projects = payload.Projects
	return resume
}

func fallbackResume(extractedText string) domain.Resume {
	return domain.Resume{
		ExtractedText: extractedText,
		Skills:        []string{"General Programming", "Problem Solving"},
		Experience:    []string{"Software Development"},
		Projects:      []string{"Various Projects"},
	}
}

// Topics derives generation topics from the parsed resume: top skills
// first, then experience and projects, each as a labelled context string.
func Topics(resume domain.Resume) []string {
	var topics []string

	if items := capList(resume.Skills, 3); len(items) > 0 {
		topics = append(topics, "Skills: "+strings.Join(items, ", "))
	}
	if items := capList(resume.Experience, 2); len(items) > 0 {
		topics = append(topics, "Experience: "+strings.Join(items, ", "))
	}
	if items := capList(resume.Projects, 2); len(items) > 0 {
		topics = append(topics, "Projects: "+strings.Join(items, ", "))
	}

	return topics
}

func capList(items []string, max int) []string {
	if len(items) > max {
		return items[:max]
	}
	return items
}

func resumePrompt(resumeText string) string {
	return fmt.Sprintf(`Analyze this resume and extract structured information. Return ONLY valid JSON in this exact format:

{
    "skills": ["skill1", "skill2", "skill3"],
    "experience": ["experience1", "experience2"],
    "projects": ["project1", "project2"]
}

Guidelines:
- skills: Technical skills, programming languages, frameworks, tools
- experience: Job roles, companies, domains, years of experience
- projects: Key projects, achievements, technologies used

Resume text:
%s

Return only the JSON object, no other text.`, resumeText)
}
