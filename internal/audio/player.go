package audio

import (
	"errors"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

const DefaultSampleRate = 16000

// Player owns the process-wide beep speaker. All PCM it plays is mono
// float32 in [-1, 1] at Rate().
type Player struct {
	mu    sync.Mutex
	rate  beep.SampleRate
	ready bool
}

func NewPlayer(sampleRate int) *Player {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return &Player{rate: beep.SampleRate(sampleRate)}
}

func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ready {
		return nil
	}
	if err := speaker.Init(p.rate, p.rate.N(time.Second/10)); err != nil {
		return err
	}
	p.ready = true
	return nil
}

func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ready {
		speaker.Close()
		p.ready = false
	}
}

func (p *Player) Rate() int {
	return int(p.rate)
}

// Play queues s on the speaker and returns a channel closed once s drains.
func (p *Player) Play(s beep.Streamer) (<-chan struct{}, error) {
	p.mu.Lock()
	ready := p.ready
	p.mu.Unlock()

	if !ready {
		return nil, errors.New("audio player not initialized")
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(s, beep.Callback(func() {
		close(done)
	})))
	return done, nil
}

// PlayPCM plays mono samples and blocks until they drain.
func (p *Player) PlayPCM(pcm []float32) error {
	if len(pcm) == 0 {
		return nil
	}

	done, err := p.Play(PCMStreamer(pcm))
	if err != nil {
		return err
	}
	<-done
	return nil
}

// PCMStreamer duplicates mono samples onto both speaker channels.
func PCMStreamer(pcm []float32) beep.Streamer {
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		if pos >= len(pcm) {
			return 0, false
		}
		for n < len(samples) && pos < len(pcm) {
			v := float64(pcm[pos])
			samples[n][0], samples[n][1] = v, v
			n++
			pos++
		}
		return n, true
	})
}
