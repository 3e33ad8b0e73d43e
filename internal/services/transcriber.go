package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

// SpeechRecognizer submits a WAV buffer to the external speech-to-text
// service. An empty transcript with a nil error means no speech was
// recognized.
type SpeechRecognizer interface {
	Recognize(ctx context.Context, wav []byte) (string, error)
}

type httpSpeechRecognizer struct {
	url    string
	apiKey string
	client *http.Client
}

func NewHTTPSpeechRecognizer(url, apiKey string) SpeechRecognizer {
	return &httpSpeechRecognizer{
		url:    url,
		apiKey: apiKey,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

type speechResponse struct {
	Transcript string `json:"transcript"`
}

// Recognize implements SpeechRecognizer.
func (r *httpSpeechRecognizer) Recognize(ctx context.Context, wav []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(wav))
	if err != nil {
		return "", fmt.Errorf("failed to build speech request: %w", err)
	}
	req.Header.Set("Content-Type", "audio/wav")
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("speech service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("speech service returned %d: %s", resp.StatusCode, body)
	}

	var parsed speechResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode speech response: %w", err)
	}

	return parsed.Transcript, nil
}

const (
	// silenceThresholdDBFS guards the speech service from silent
	// recordings. Anything quieter short-circuits to an empty transcript.
	silenceThresholdDBFS = -60.0

	// recognitionWindowSeconds caps how much audio is submitted.
	recognitionWindowSeconds = 30
)

// Transcriber extracts the audio track from a recorded answer and runs it
// through speech recognition. It never returns an error: silence, service
// failure, and decode failure all degrade to "".
type Transcriber interface {
	Transcribe(ctx context.Context, encodedVideo string) string
}

type transcriber struct {
	staging    StagingService
	media      MediaService
	recognizer SpeechRecognizer
}

func NewTranscriber(staging StagingService, media MediaService, recognizer SpeechRecognizer) Transcriber {
	return &transcriber{
		staging:    staging,
		media:      media,
		recognizer: recognizer,
	}
}

// Transcribe implements Transcriber.
func (t *transcriber) Transcribe(ctx context.Context, encodedVideo string) string {
	videoBytes, err := base64.StdEncoding.DecodeString(encodedVideo)
	if err != nil {
		log.Printf("⚠️  Failed to decode video data for transcription: %v\n", err)
		return ""
	}

	session, err := t.staging.NewSession()
	if err != nil {
		log.Printf("⚠️  Failed to create staging session: %v\n", err)
		return ""
	}
	defer session.Cleanup()

	videoPath, err := session.WriteFile("answer.webm", videoBytes)
	if err != nil {
		log.Printf("⚠️  Failed to stage video: %v\n", err)
		return ""
	}

	wavPath := session.Path("extracted_audio.wav")
	if err := t.media.ExtractAudio(ctx, videoPath, wavPath); err != nil {
		log.Printf("⚠️  Failed to extract audio track: %v\n", err)
		return ""
	}

	wavBytes, err := os.ReadFile(wavPath)
	if err != nil {
		log.Printf("⚠️  Failed to read extracted audio: %v\n", err)
		return ""
	}

	audio, err := parseWAV(wavBytes)
	if err != nil {
		log.Printf("⚠️  Failed to parse extracted audio: %v\n", err)
		return ""
	}

	loudness := audio.dBFS()
	log.Printf("🔈 Audio loudness (dBFS): %.2f\n", loudness)

	if loudness < silenceThresholdDBFS {
		log.Println("🔇 No valid speech detected (too quiet or silent).")
		return ""
	}

	capped := audio.truncate(recognitionWindowSeconds)

	transcript, err := t.recognizer.Recognize(ctx, encodeWAV(capped))
	if err != nil {
		log.Printf("⚠️  Speech recognition failed: %v\n", err)
		return ""
	}

	if transcript == "" {
		log.Println("🔇 No speech recognized.")
	}

	return transcript
}
