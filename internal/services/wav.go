package services

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// wavAudio is a decoded 16-bit mono PCM track, the only format the media
// service produces.
type wavAudio struct {
	SampleRate int
	Samples    []int16
}

// parseWAV reads the RIFF layout ffmpeg writes. Anything other than 16-bit
// PCM is rejected.
func parseWAV(data []byte) (*wavAudio, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, fmt.Errorf("not a RIFF/WAVE file")
	}

	var sampleRate int
	var bitsPerSample int
	var pcm []byte

	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8

		if body+chunkSize > len(data) {
			chunkSize = len(data) - body
		}

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return nil, fmt.Errorf("malformed fmt chunk")
			}
			format := binary.LittleEndian.Uint16(data[body : body+2])
			if format != 1 {
				return nil, fmt.Errorf("unsupported WAV format code %d", format)
			}
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bitsPerSample = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
		case "data":
			pcm = data[body : body+chunkSize]
		}

		// Chunks are word-aligned.
		if chunkSize%2 == 1 {
			chunkSize++
		}
		offset = body + chunkSize
	}

	if sampleRate == 0 || pcm == nil {
		return nil, fmt.Errorf("missing fmt or data chunk")
	}
	if bitsPerSample != 16 {
		return nil, fmt.Errorf("unsupported bit depth %d", bitsPerSample)
	}

	samples := make([]int16, len(pcm)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(pcm[2*i : 2*i+2]))
	}

	return &wavAudio{SampleRate: sampleRate, Samples: samples}, nil
}

// encodeWAV writes the track back out as a canonical PCM WAV buffer.
func encodeWAV(audio *wavAudio) []byte {
	dataSize := len(audio.Samples) * 2
	buf := &bytes.Buffer{}

	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(buf, binary.LittleEndian, uint16(1)) // mono
	binary.Write(buf, binary.LittleEndian, uint32(audio.SampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(audio.SampleRate*2)) // byte rate
	binary.Write(buf, binary.LittleEndian, uint16(2))                  // block align
	binary.Write(buf, binary.LittleEndian, uint16(16))                 // bits per sample

	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(dataSize))
	for _, s := range audio.Samples {
		binary.Write(buf, binary.LittleEndian, uint16(s))
	}

	return buf.Bytes()
}

// dBFS is the track loudness in decibels relative to full scale: RMS of the
// samples against the maximum 16-bit amplitude. Pure silence is -Inf.
func (a *wavAudio) dBFS() float64 {
	if len(a.Samples) == 0 {
		return math.Inf(-1)
	}

	var sum float64
	for _, s := range a.Samples {
		v := float64(s)
		sum += v * v
	}

	rms := math.Sqrt(sum / float64(len(a.Samples)))
	if rms == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(rms/32768.0)
}

// truncate caps the track at the given duration in seconds.
func (a *wavAudio) truncate(seconds int) *wavAudio {
	limit := a.SampleRate * seconds
	if len(a.Samples) <= limit {
		return a
	}

	return &wavAudio{SampleRate: a.SampleRate, Samples: a.Samples[:limit]}
}
