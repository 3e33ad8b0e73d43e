package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStaging struct {
	root string
}

func (s *stubStaging) EnsureWorkDir() error {
	return os.MkdirAll(s.root, 0755)
}

func (s *stubStaging) NewSession() (*StagingSession, error) {
	dir, err := os.MkdirTemp(s.root, "session-")
	if err != nil {
		return nil, err
	}
	return &StagingSession{dir: dir}, nil
}

type stubMedia struct {
	audio         *wavAudio
	audioErr      error
	frameCount    int
	missingFrames int
	framesErr     error
}

func (m *stubMedia) ExtractFrames(_ context.Context, _ string, outDir string) ([]string, error) {
	if m.framesErr != nil {
		return nil, m.framesErr
	}
	var frames []string
	for i := 0; i < m.frameCount; i++ {
		path := filepath.Join(outDir, fmt.Sprintf("frame_%05d.jpg", i))
		if err := os.WriteFile(path, []byte{0xff, 0xd8, byte(i)}, 0644); err != nil {
			return nil, err
		}
		frames = append(frames, path)
	}
	// Paths listed but never written, to exercise unreadable-frame handling.
	for i := 0; i < m.missingFrames; i++ {
		frames = append(frames, filepath.Join(outDir, fmt.Sprintf("missing_%05d.jpg", i)))
	}
	return frames, nil
}

func (m *stubMedia) ExtractAudio(_ context.Context, _ string, wavPath string) error {
	if m.audioErr != nil {
		return m.audioErr
	}
	return os.WriteFile(wavPath, encodeWAV(m.audio), 0644)
}

type stubRecognizer struct {
	transcript  string
	err         error
	called      bool
	receivedWAV []byte
}

func (r *stubRecognizer) Recognize(_ context.Context, wav []byte) (string, error) {
	r.called = true
	r.receivedWAV = wav
	if r.err != nil {
		return "", r.err
	}
	return r.transcript, nil
}

func loudAudio(sampleRate, seconds int) *wavAudio {
	samples := make([]int16, sampleRate*seconds)
	for i := range samples {
		if i%2 == 0 {
			samples[i] = 16384
		} else {
			samples[i] = -16384
		}
	}
	return &wavAudio{SampleRate: sampleRate, Samples: samples}
}

func encodedVideo() string {
	return base64.StdEncoding.EncodeToString([]byte("fake webm bytes"))
}

func TestTranscribeReturnsRecognizedSpeech(t *testing.T) {
	recognizer := &stubRecognizer{transcript: "tell me about your experience"}
	tr := NewTranscriber(
		&stubStaging{root: t.TempDir()},
		&stubMedia{audio: loudAudio(8000, 5)},
		recognizer,
	)

	got := tr.Transcribe(context.Background(), encodedVideo())

	assert.Equal(t, "tell me about your experience", got)
	assert.True(t, recognizer.called)
}

func TestTranscribeCapsRecognitionWindow(t *testing.T) {
	recognizer := &stubRecognizer{transcript: "ok"}
	tr := NewTranscriber(
		&stubStaging{root: t.TempDir()},
		&stubMedia{audio: loudAudio(8000, 45)},
		recognizer,
	)

	tr.Transcribe(context.Background(), encodedVideo())

	require.True(t, recognizer.called)
	capped, err := parseWAV(recognizer.receivedWAV)
	require.NoError(t, err)
	assert.Len(t, capped.Samples, 8000*30)
}

func TestTranscribeSilentAudioShortCircuits(t *testing.T) {
	recognizer := &stubRecognizer{transcript: "should never be seen"}
	tr := NewTranscriber(
		&stubStaging{root: t.TempDir()},
		&stubMedia{audio: &wavAudio{SampleRate: 8000, Samples: make([]int16, 8000)}},
		recognizer,
	)

	got := tr.Transcribe(context.Background(), encodedVideo())

	assert.Equal(t, "", got)
	assert.False(t, recognizer.called, "silent audio must not hit the speech service")
}

func TestTranscribeDegradesOnRecognizerError(t *testing.T) {
	tr := NewTranscriber(
		&stubStaging{root: t.TempDir()},
		&stubMedia{audio: loudAudio(8000, 5)},
		&stubRecognizer{err: fmt.Errorf("service unreachable")},
	)

	assert.Equal(t, "", tr.Transcribe(context.Background(), encodedVideo()))
}

func TestTranscribeDegradesOnExtractionError(t *testing.T) {
	tr := NewTranscriber(
		&stubStaging{root: t.TempDir()},
		&stubMedia{audioErr: fmt.Errorf("no audio stream")},
		&stubRecognizer{},
	)

	assert.Equal(t, "", tr.Transcribe(context.Background(), encodedVideo()))
}

func TestTranscribeDegradesOnBadBase64(t *testing.T) {
	tr := NewTranscriber(
		&stubStaging{root: t.TempDir()},
		&stubMedia{audio: loudAudio(8000, 5)},
		&stubRecognizer{},
	)

	assert.Equal(t, "", tr.Transcribe(context.Background(), "not-base64!!!"))
}
