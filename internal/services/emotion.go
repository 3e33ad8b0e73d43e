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

// EmotionClassifier labels a single video frame with its dominant emotion.
// The actual face/emotion model runs behind an external inference service;
// this side only ships JPEG bytes and reads a label back.
type EmotionClassifier interface {
	DominantEmotion(ctx context.Context, frameJPEG []byte) (string, error)
}

type httpEmotionClassifier struct {
	url    string
	client *http.Client
}

func NewHTTPEmotionClassifier(url string) EmotionClassifier {
	return &httpEmotionClassifier{
		url:    url,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

type emotionResponse struct {
	DominantEmotion string `json:"dominant_emotion"`
}

// DominantEmotion implements EmotionClassifier.
func (c *httpEmotionClassifier) DominantEmotion(ctx context.Context, frameJPEG []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(frameJPEG))
	if err != nil {
		return "", fmt.Errorf("failed to build emotion request: %w", err)
	}
	req.Header.Set("Content-Type", "image/jpeg")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("emotion service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("emotion service returned %d: %s", resp.StatusCode, body)
	}

	var parsed emotionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode emotion response: %w", err)
	}

	if parsed.DominantEmotion == "" {
		// No detectable face still yields a label downstream.
		return "neutral", nil
	}

	return parsed.DominantEmotion, nil
}

// EmotionScorer turns a recorded answer into a confidence score in [0,1]
// from the per-frame emotion histogram.
type EmotionScorer interface {
	Score(ctx context.Context, encodedVideo string) (float64, error)
}

type emotionScorer struct {
	staging    StagingService
	media      MediaService
	classifier EmotionClassifier
}

func NewEmotionScorer(staging StagingService, media MediaService, classifier EmotionClassifier) EmotionScorer {
	return &emotionScorer{
		staging:    staging,
		media:      media,
		classifier: classifier,
	}
}

const (
	happyWeight   = 0.6
	neutralWeight = 0.4
)

// Score implements EmotionScorer. Errors are returned to the caller, which
// degrades them to a 0.0 score; a per-frame failure keeps the frame in the
// total without a bucket.
func (e *emotionScorer) Score(ctx context.Context, encodedVideo string) (float64, error) {
	videoBytes, err := base64.StdEncoding.DecodeString(encodedVideo)
	if err != nil {
		return 0, fmt.Errorf("failed to decode video data: %w", err)
	}

	session, err := e.staging.NewSession()
	if err != nil {
		return 0, err
	}
	defer session.Cleanup()

	videoPath, err := session.WriteFile("answer.webm", videoBytes)
	if err != nil {
		return 0, err
	}

	frames, err := e.media.ExtractFrames(ctx, videoPath, session.Dir())
	if err != nil {
		return 0, err
	}

	// Dominant emotions outside these four buckets are dropped from the
	// histogram but still count toward the frame total.
	counts := map[string]int{"happy": 0, "neutral": 0, "angry": 0, "surprise": 0}
	frameCount := 0

	// Either per-frame failure, unreadable file or failed classification,
	// counts toward the frame total without landing in a bucket.
	for _, framePath := range frames {
		frameJPEG, err := os.ReadFile(framePath)
		if err != nil {
			log.Printf("⚠️  Failed to read frame %s: %v\n", framePath, err)
			frameCount++
			continue
		}

		emotion, err := e.classifier.DominantEmotion(ctx, frameJPEG)
		if err != nil {
			log.Printf("⚠️  Error analyzing frame: %v\n", err)
			frameCount++
			continue
		}

		if _, tracked := counts[emotion]; tracked {
			counts[emotion]++
		}
		frameCount++
	}

	if frameCount == 0 {
		return 0, fmt.Errorf("no valid frames found in the video")
	}

	happyRate := float64(counts["happy"]) / float64(frameCount)
	neutralRate := float64(counts["neutral"]) / float64(frameCount)

	return happyWeight*happyRate + neutralWeight*neutralRate, nil
}
