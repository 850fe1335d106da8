package infrastructure

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"interview-prep/config"
	"interview-prep/domain"
)

const (
	// TranscriptionUnavailable is the candidate text used when no speech
	// model is configured at all.
	TranscriptionUnavailable = "Audio transcription unavailable. Please type your answer."
	// TranscriptionFailed is the candidate text used when transcription was
	// attempted but failed mid-way.
	TranscriptionFailed = "Transcription failed: Please type your answer."
)

// WhisperTranscriber turns raw audio into text via the Whisper API.
// Failures never propagate past this adapter: the pipeline always gets
// some candidate text to evaluate, at the cost of signal loss.
type WhisperTranscriber struct {
	client *openai.Client
}

func NewWhisperTranscriber(cfg *config.Config) *WhisperTranscriber {
	t := &WhisperTranscriber{}
	if cfg.OpenAIAPIKey == "" {
		log.Println("OPENAI_API_KEY not set, audio transcription is unavailable")
		return t
	}
	t.client = openai.NewClient(cfg.OpenAIAPIKey)
	return t
}

// Transcribe returns the transcript and whether the result is degraded
// (placeholder text instead of genuine speech recognition output).
func (t *WhisperTranscriber) Transcribe(ctx context.Context, audio []byte, filename string) (string, bool) {
	if t.client == nil {
		return TranscriptionUnavailable, true
	}

	path, cleanup, err := t.prepareAudioFile(audio, filename)
	if err != nil {
		log.Printf("audio preparation failed: %v", err)
		return TranscriptionFailed, true
	}
	defer cleanup()

	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: path,
	})
	if err != nil {
		log.Printf("transcription failed: %v", err)
		return TranscriptionFailed, true
	}

	return resp.Text, false
}

// prepareAudioFile materializes the payload to a temp file, resampling WAV
// input to 16 kHz mono first. The cleanup func removes the file on every
// exit path.
func (t *WhisperTranscriber) prepareAudioFile(audio []byte, filename string) (string, func(), error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".wav"
	}

	if ext == ".wav" {
		resampled, err := resampleWAV(audio)
		if err != nil {
			// Let the speech model try the original payload.
			log.Printf("WAV resampling failed, sending original audio: %v", err)
		} else {
			audio = resampled
		}
	}

	f, err := os.CreateTemp("", "answer-*"+ext)
	if err != nil {
		return "", nil, &domain.AudioProcessingError{Err: err}
	}

	cleanup := func() { os.Remove(f.Name()) }

	if _, err := f.Write(audio); err != nil {
		f.Close()
		cleanup()
		return "", nil, &domain.AudioProcessingError{Err: err}
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, &domain.AudioProcessingError{Err: err}
	}

	return f.Name(), cleanup, nil
}
