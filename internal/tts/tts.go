package tts

import (
	"context"
	log "log/slog"
	"sync"
	"time"
)

// Engine synthesizes and plays text, returning when playback ends.
type Engine interface {
	Speak(ctx context.Context, text, lang string) error
}

// Ducker lowers other audio while an utterance plays.
type Ducker interface {
	Duck(ctx context.Context) error
	Unduck(ctx context.Context) error
}

// Async turns a blocking Engine into a fire-and-forget speaker. Utterances
// play one at a time in call order; failures are logged and dropped.
type Async struct {
	engine  Engine
	ducker  Ducker
	timeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	queue  chan utterance
	wg     sync.WaitGroup
}

type utterance struct {
	text string
	lang string
}

func NewAsync(engine Engine, ducker Ducker, timeout time.Duration) *Async {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	a := &Async{
		engine:  engine,
		ducker:  ducker,
		timeout: timeout,
		ctx:     ctx,
		cancel:  cancel,
		queue:   make(chan utterance, 16),
	}

	a.wg.Add(1)
	go a.run()

	return a
}

// Say queues text. When the queue is full the utterance is dropped.
func (a *Async) Say(text, lang string) {
	if text == "" {
		return
	}

	select {
	case <-a.ctx.Done():
		return
	default:
	}

	select {
	case a.queue <- utterance{text: text, lang: lang}:
	default:
		log.Debug("Speech queue full, dropping", "text", text)
	}
}

func (a *Async) run() {
	defer a.wg.Done()

	for {
		select {
		case <-a.ctx.Done():
			return
		case u := <-a.queue:
			a.speak(u)
		}
	}
}

func (a *Async) speak(u utterance) {
	ctx, cancel := context.WithTimeout(a.ctx, a.timeout)
	defer cancel()

	if a.ducker != nil {
		if err := a.ducker.Duck(ctx); err != nil {
			log.Debug("Failed to duck", "err", err)
		}
		defer func() {
			if err := a.ducker.Unduck(context.Background()); err != nil {
				log.Debug("Failed to unduck", "err", err)
			}
		}()
	}

	log.Debug("Speaking", "text", u.text, "lang", u.lang)

	if err := a.engine.Speak(ctx, u.text, u.lang); err != nil {
		log.Debug("Failed to voice out", "text", u.text, "err", err)
	}
}

// Close stops the worker. Queued utterances that have not started are dropped.
func (a *Async) Close() {
	a.cancel()
	a.wg.Wait()
}

// Nop logs instead of speaking.
type Nop struct{}

func (Nop) Speak(_ context.Context, text, lang string) error {
	log.Debug("Speech disabled, would say", "text", text, "lang", lang)
	return nil
}
