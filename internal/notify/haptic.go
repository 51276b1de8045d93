package notify

import (
	"fmt"
	log "log/slog"
	"math"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"

	"vox/internal/audio"
)

type Level string

const (
	Light  Level = "light"
	Medium Level = "medium"
	Heavy  Level = "heavy"
)

func ParseLevel(s string) (Level, error) {
	switch l := Level(s); l {
	case Light, Medium, Heavy:
		return l, nil
	default:
		return "", fmt.Errorf("unknown haptic level %q", s)
	}
}

// pulse describes the audible stand-in for a vibration of a given level.
type pulse struct {
	freq   float64
	length time.Duration
	volume float64 // beep effects.Volume exponent, base 2
}

var pulses = map[Level]pulse{
	Light:  {freq: 880, length: 25 * time.Millisecond, volume: -2},
	Medium: {freq: 660, length: 45 * time.Millisecond, volume: -1},
	Heavy:  {freq: 440, length: 80 * time.Millisecond, volume: 0},
}

type Player interface {
	Play(s beep.Streamer) (<-chan struct{}, error)
	Rate() int
}

// Beeper renders haptic impacts as short audio cues. A configured cue
// overrides the synthesized tone for every level.
type Beeper struct {
	player Player

	mu  sync.Mutex
	cue []float32
}

func NewBeeper(player Player) *Beeper {
	return &Beeper{player: player}
}

// SetCue replaces synthesized tones with mono PCM at the player rate.
func (b *Beeper) SetCue(pcm []float32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cue = pcm
}

// Impact queues the pulse and returns without waiting for it.
func (b *Beeper) Impact(level Level) {
	p, ok := pulses[level]
	if !ok {
		log.Warn("Unknown haptic level", "level", level)
		return
	}

	b.mu.Lock()
	cue := b.cue
	b.mu.Unlock()

	var s beep.Streamer
	if len(cue) > 0 {
		s = audio.PCMStreamer(cue)
	} else {
		s = Tone(b.player.Rate(), p.freq, p.length)
	}

	if _, err := b.player.Play(&effects.Volume{Streamer: s, Base: 2, Volume: p.volume}); err != nil {
		log.Debug("Haptic pulse dropped", "level", level, "err", err)
	}
}

// Tone is a sine burst with a short linear fade at both ends.
func Tone(sampleRate int, freq float64, length time.Duration) beep.Streamer {
	sr := beep.SampleRate(sampleRate)
	total := sr.N(length)
	fade := sr.N(5 * time.Millisecond)
	if fade*2 > total {
		fade = total / 2
	}

	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		if pos >= total {
			return 0, false
		}
		for n < len(samples) && pos < total {
			env := 1.0
			if fade > 0 {
				switch {
				case pos < fade:
					env = float64(pos) / float64(fade)
				case pos >= total-fade:
					env = float64(total-pos) / float64(fade)
				}
			}
			v := env * math.Sin(2*math.Pi*freq*float64(pos)/float64(sampleRate))
			samples[n][0], samples[n][1] = v, v
			n++
			pos++
		}
		return n, true
	})
}

// Nop drops every impact. Used when no audio device is available.
type Nop struct{}

func (Nop) Impact(level Level) {
	log.Debug("Haptic pulse skipped", "level", level)
}
