package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWAVRoundTrip(t *testing.T) {
	original := &wavAudio{
		SampleRate: 16000,
		Samples:    []int16{0, 100, -100, 32767, -32768, 5},
	}

	parsed, err := parseWAV(encodeWAV(original))
	require.NoError(t, err)

	assert.Equal(t, original.SampleRate, parsed.SampleRate)
	assert.Equal(t, original.Samples, parsed.Samples)
}

func TestParseWAVRejectsGarbage(t *testing.T) {
	_, err := parseWAV([]byte("definitely not audio"))
	require.Error(t, err)

	_, err = parseWAV(nil)
	require.Error(t, err)
}

func TestDBFSFullScaleSquareWave(t *testing.T) {
	samples := make([]int16, 16000)
	for i := range samples {
		if i%2 == 0 {
			samples[i] = 32767
		} else {
			samples[i] = -32767
		}
	}
	audio := &wavAudio{SampleRate: 16000, Samples: samples}

	// RMS of a full-scale square wave sits at full scale.
	assert.InDelta(t, 0.0, audio.dBFS(), 0.01)
}

func TestDBFSHalfScale(t *testing.T) {
	samples := make([]int16, 16000)
	for i := range samples {
		if i%2 == 0 {
			samples[i] = 16384
		} else {
			samples[i] = -16384
		}
	}
	audio := &wavAudio{SampleRate: 16000, Samples: samples}

	// Half amplitude is ~-6.02 dBFS.
	assert.InDelta(t, -6.02, audio.dBFS(), 0.05)
}

func TestDBFSSilence(t *testing.T) {
	audio := &wavAudio{SampleRate: 16000, Samples: make([]int16, 1000)}
	assert.True(t, math.IsInf(audio.dBFS(), -1))

	empty := &wavAudio{SampleRate: 16000}
	assert.True(t, math.IsInf(empty.dBFS(), -1))
}

func TestTruncateCapsDuration(t *testing.T) {
	audio := &wavAudio{SampleRate: 100, Samples: make([]int16, 450)}

	capped := audio.truncate(3)
	assert.Len(t, capped.Samples, 300)
	assert.Equal(t, 100, capped.SampleRate)

	// Shorter tracks pass through untouched.
	short := &wavAudio{SampleRate: 100, Samples: make([]int16, 50)}
	assert.Len(t, short.truncate(3).Samples, 50)
}
