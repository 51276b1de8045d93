package audioconv

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeWAV(t *testing.T, sampleRate, channels int, data []int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "cue.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, channels, 1)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())

	return path
}

func TestConvertFileWAVStereoUpsampled(t *testing.T) {
	// 4 stereo frames at 8 kHz, left and right average to 0.5 full scale
	path := writeWAV(t, 8000, 2, []int{16384, 16384, 16384, 16384, 16384, 16384, 16384, 16384})

	pcm, err := ConvertFile(context.Background(), path, Options{SampleRate: 16000})
	require.NoError(t, err)

	assert.Len(t, pcm, 8)
	for _, v := range pcm {
		assert.InDelta(t, 0.5, v, 0.001)
	}
}

func TestConvertFileMaxSamples(t *testing.T) {
	path := writeWAV(t, 16000, 1, []int{1, 2, 3, 4, 5, 6})

	pcm, err := ConvertFile(context.Background(), path, Options{MaxSamples: 3})
	require.NoError(t, err)
	assert.Len(t, pcm, 3)
}

func TestDecodeSniffsWAV(t *testing.T) {
	path := writeWAV(t, 16000, 1, []int{0, 32767})
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	pcm, err := Decode(bytes.NewReader(data), FormatUnknown, Options{})
	require.NoError(t, err)
	require.Len(t, pcm, 2)
	assert.InDelta(t, 1.0, pcm[1], 0.001)
}

func TestDecodeRejectsUnknown(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("plain text")), FormatUnknown, Options{})
	assert.Error(t, err)
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatWAV, FormatFromPath("a/b/cue.WAV"))
	assert.Equal(t, FormatMP3, FormatFromPath("cue.mp3"))
	assert.Equal(t, FormatOgg, FormatFromPath("cue.oga"))
	assert.Equal(t, FormatOpus, FormatFromPath("cue.opus"))
	assert.Equal(t, FormatUnknown, FormatFromPath("cue"))
}

func TestSniff(t *testing.T) {
	assert.Equal(t, FormatWAV, sniff([]byte("RIFF....WAVE")))
	assert.Equal(t, FormatOgg, sniff([]byte("OggS")))
	assert.Equal(t, FormatMP3, sniff([]byte("ID3\x04")))
	assert.Equal(t, FormatMP3, sniff([]byte{0xFF, 0xFB, 0x90, 0x00}))
	assert.Equal(t, FormatUnknown, sniff([]byte("ab")))
}

func TestResampleLinear(t *testing.T) {
	in := []float32{0, 1}
	assert.Equal(t, []float32{0, 0.5, 1, 1}, resampleLinear(in, 8000, 16000))
	assert.Equal(t, in, resampleLinear(in, 16000, 16000))
	assert.Empty(t, resampleLinear(nil, 8000, 16000))
}

func TestDownmixInterleaved(t *testing.T) {
	assert.Equal(t, []float32{0.5, -0.5}, downmixInterleaved([]float32{1, 0, -1, 0}, 2))
	assert.Equal(t, []float32{1, 2}, downmixInterleaved([]float32{1, 2}, 1))
}
