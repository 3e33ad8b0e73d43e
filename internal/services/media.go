package services

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
)

// MediaService decodes submitted videos by shelling out to ffmpeg, the same
// way the recording container formats (webm) are handled everywhere else.
// Frames come out as sequential JPEGs scaled to the fixed analysis
// resolution; audio comes out as 16-bit mono PCM WAV.
type MediaService interface {
	ExtractFrames(ctx context.Context, videoPath, outDir string) ([]string, error)
	ExtractAudio(ctx context.Context, videoPath, wavPath string) error
}

const (
	frameWidth  = 640
	frameHeight = 480

	// audioSampleRate keeps the extracted track small and is what the
	// speech service expects.
	audioSampleRate = 16000
)

type mediaService struct {
	ffmpegPath string
	frameRate  int
}

func NewMediaService(ffmpegPath string, frameRate int) MediaService {
	if frameRate <= 0 {
		frameRate = 2
	}

	return &mediaService{
		ffmpegPath: ffmpegPath,
		frameRate:  frameRate,
	}
}

// ExtractFrames implements MediaService. Returns the frame paths in
// playback order; an error if the video yields no decodable frames.
func (m *mediaService) ExtractFrames(ctx context.Context, videoPath, outDir string) ([]string, error) {
	pattern := filepath.Join(outDir, "frame_%05d.jpg")

	cmd := exec.CommandContext(ctx, m.ffmpegPath,
		"-hide_banner", "-loglevel", "error",
		"-i", videoPath,
		"-vf", fmt.Sprintf("fps=%d,scale=%d:%d", m.frameRate, frameWidth, frameHeight),
		"-q:v", "2",
		pattern,
	)

	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("ffmpeg frame extraction failed: %w: %s", err, out)
	}

	frames, err := filepath.Glob(filepath.Join(outDir, "frame_*.jpg"))
	if err != nil {
		return nil, fmt.Errorf("failed to list extracted frames: %w", err)
	}
	sort.Strings(frames)

	// Zero-byte frames are decoder artifacts, drop them.
	valid := frames[:0]
	for _, frame := range frames {
		info, err := os.Stat(frame)
		if err != nil || info.Size() == 0 {
			continue
		}
		valid = append(valid, frame)
	}

	if len(valid) == 0 {
		return nil, fmt.Errorf("no valid frames found in the video")
	}

	return valid, nil
}

// ExtractAudio implements MediaService.
func (m *mediaService) ExtractAudio(ctx context.Context, videoPath, wavPath string) error {
	cmd := exec.CommandContext(ctx, m.ffmpegPath,
		"-hide_banner", "-loglevel", "error",
		"-i", videoPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", fmt.Sprintf("%d", audioSampleRate),
		"-ac", "1",
		wavPath,
	)

	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg audio extraction failed: %w: %s", err, out)
	}

	return nil
}
