package domain

// Resume is transient: it only drives topic-aware question generation
// and is never persisted as user data.
type Resume struct {
	ExtractedText string
	Skills        []string
	Experience    []string
	Projects      []string
}
