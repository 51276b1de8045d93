package notify

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/faiface/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlayer struct {
	mu     sync.Mutex
	played [][][2]float64
	err    error
}

func (f *fakePlayer) Rate() int { return 16000 }

func (f *fakePlayer) Play(s beep.Streamer) (<-chan struct{}, error) {
	if f.err != nil {
		return nil, f.err
	}

	var all [][2]float64
	buf := make([][2]float64, 256)
	for {
		n, ok := s.Stream(buf)
		all = append(all, buf[:n]...)
		if !ok {
			break
		}
	}

	f.mu.Lock()
	f.played = append(f.played, all)
	f.mu.Unlock()

	done := make(chan struct{})
	close(done)
	return done, nil
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("medium")
	require.NoError(t, err)
	assert.Equal(t, Medium, l)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestBeeperLevelsDifferInLength(t *testing.T) {
	p := &fakePlayer{}
	b := NewBeeper(p)

	b.Impact(Light)
	b.Impact(Medium)
	b.Impact(Heavy)

	require.Len(t, p.played, 3)
	assert.Len(t, p.played[0], 400)  // 25ms @ 16kHz
	assert.Len(t, p.played[1], 720)  // 45ms
	assert.Len(t, p.played[2], 1280) // 80ms
	assert.Less(t, maxAbs(p.played[0]), maxAbs(p.played[2]))
}

func TestBeeperUsesCue(t *testing.T) {
	p := &fakePlayer{}
	b := NewBeeper(p)
	b.SetCue([]float32{0.5, 0.5, 0.5})

	b.Impact(Heavy)

	require.Len(t, p.played, 1)
	assert.Equal(t, [][2]float64{{0.5, 0.5}, {0.5, 0.5}, {0.5, 0.5}}, p.played[0])
}

func TestBeeperIgnoresUnknownLevelAndPlayerErrors(t *testing.T) {
	p := &fakePlayer{}
	b := NewBeeper(p)
	b.Impact(Level("rumble"))
	assert.Empty(t, p.played)

	p.err = errors.New("no device")
	assert.NotPanics(t, func() { b.Impact(Light) })
}

func TestToneFadesInAndOut(t *testing.T) {
	s := Tone(16000, 440, 10*time.Millisecond)

	buf := make([][2]float64, 1000)
	n, ok := s.Stream(buf)
	require.True(t, ok)
	require.Equal(t, 160, n)

	assert.Equal(t, 0.0, buf[0][0])
	assert.LessOrEqual(t, maxAbs(buf[:n]), 1.0)

	n, ok = s.Stream(buf)
	assert.False(t, ok)
	assert.Zero(t, n)
}

func maxAbs(samples [][2]float64) float64 {
	m := 0.0
	for _, s := range samples {
		v := s[0]
		if v < 0 {
			v = -v
		}
		if v > m {
			m = v
		}
	}
	return m
}
