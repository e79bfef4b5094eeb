package voice

import (
	"encoding/base64"
	"fmt"
	"time"
)

const (
	CaptureSampleRate  = 16000
	PlaybackSampleRate = 24000

	CaptureMimeType = "audio/pcm;rate=16000"
)

// EncodeChunk packs float32 samples into base64 little-endian 16-bit PCM,
// the transport form for realtime input.
func EncodeChunk(samples []float32) string {
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		v := int32(s * 32768)
		if v > 32767 {
			v = 32767
		}
		if v < -32768 {
			v = -32768
		}
		buf[i*2] = byte(uint16(v))
		buf[i*2+1] = byte(uint16(v) >> 8)
	}
	return base64.StdEncoding.EncodeToString(buf)
}

// DecodeChunk reverses EncodeChunk back into float32 samples.
func DecodeChunk(data string) ([]float32, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("invalid audio chunk: %w", err)
	}
	if len(raw)%2 != 0 {
		return nil, fmt.Errorf("invalid audio chunk: odd byte count %d", len(raw))
	}
	samples := make([]float32, len(raw)/2)
	for i := range samples {
		v := int16(uint16(raw[i*2]) | uint16(raw[i*2+1])<<8)
		samples[i] = float32(v) / 32768.0
	}
	return samples, nil
}

// ChunkDuration is the playback length of a decoded chunk.
func ChunkDuration(sampleCount, sampleRate int) time.Duration {
	return time.Duration(float64(sampleCount) / float64(sampleRate) * float64(time.Second))
}
