package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClassifier struct {
	labels []string
	errOn  map[int]bool
	calls  int
}

func (c *stubClassifier) DominantEmotion(_ context.Context, _ []byte) (string, error) {
	idx := c.calls
	c.calls++
	if c.errOn[idx] {
		return "", fmt.Errorf("inference failed")
	}
	return c.labels[idx%len(c.labels)], nil
}

func TestEmotionScoreWeightsHappyAndNeutral(t *testing.T) {
	// 2 happy + 1 neutral + 1 sad over 4 frames: sad falls outside the
	// tracked buckets but still inflates the denominator.
	classifier := &stubClassifier{labels: []string{"happy", "happy", "neutral", "sad"}}
	scorer := NewEmotionScorer(
		&stubStaging{root: t.TempDir()},
		&stubMedia{frameCount: 4},
		classifier,
	)

	score, err := scorer.Score(context.Background(), encodedVideo())
	require.NoError(t, err)

	expected := 0.6*(2.0/4.0) + 0.4*(1.0/4.0)
	assert.InDelta(t, expected, score, 1e-9)
}

func TestEmotionScoreSkipsFailedFrames(t *testing.T) {
	// Frame 1 fails classification: it stays in the frame count with no
	// bucket, exactly like an untracked emotion.
	classifier := &stubClassifier{
		labels: []string{"happy", "happy", "happy", "happy"},
		errOn:  map[int]bool{1: true},
	}
	scorer := NewEmotionScorer(
		&stubStaging{root: t.TempDir()},
		&stubMedia{frameCount: 4},
		classifier,
	)

	score, err := scorer.Score(context.Background(), encodedVideo())
	require.NoError(t, err)

	assert.InDelta(t, 0.6*(3.0/4.0), score, 1e-9)
}

func TestEmotionScoreCountsUnreadableFrames(t *testing.T) {
	// 3 happy frames plus 1 that cannot be read back: the unreadable one
	// stays in the denominator, same as a failed classification.
	classifier := &stubClassifier{labels: []string{"happy"}}
	scorer := NewEmotionScorer(
		&stubStaging{root: t.TempDir()},
		&stubMedia{frameCount: 3, missingFrames: 1},
		classifier,
	)

	score, err := scorer.Score(context.Background(), encodedVideo())
	require.NoError(t, err)

	assert.InDelta(t, 0.6*(3.0/4.0), score, 1e-9)
	assert.Equal(t, 3, classifier.calls)
}

func TestEmotionScoreAllFramesFailClassification(t *testing.T) {
	classifier := &stubClassifier{
		labels: []string{"happy"},
		errOn:  map[int]bool{0: true, 1: true, 2: true},
	}
	scorer := NewEmotionScorer(
		&stubStaging{root: t.TempDir()},
		&stubMedia{frameCount: 3},
		classifier,
	)

	score, err := scorer.Score(context.Background(), encodedVideo())
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)
}

func TestEmotionScoreWithinBounds(t *testing.T) {
	classifier := &stubClassifier{labels: []string{"happy"}}
	scorer := NewEmotionScorer(
		&stubStaging{root: t.TempDir()},
		&stubMedia{frameCount: 10},
		classifier,
	)

	score, err := scorer.Score(context.Background(), encodedVideo())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 1.0)
}

func TestEmotionScoreErrorsWhenNoFramesDecode(t *testing.T) {
	scorer := NewEmotionScorer(
		&stubStaging{root: t.TempDir()},
		&stubMedia{framesErr: fmt.Errorf("no valid frames found in the video")},
		&stubClassifier{labels: []string{"happy"}},
	)

	_, err := scorer.Score(context.Background(), encodedVideo())
	require.Error(t, err)
}

func TestEmotionScoreErrorsOnBadBase64(t *testing.T) {
	scorer := NewEmotionScorer(
		&stubStaging{root: t.TempDir()},
		&stubMedia{frameCount: 2},
		&stubClassifier{labels: []string{"happy"}},
	)

	_, err := scorer.Score(context.Background(), "%%% not base64 %%%")
	require.Error(t, err)
}
