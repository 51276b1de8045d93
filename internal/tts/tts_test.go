package tts

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingEngine struct {
	mu    sync.Mutex
	texts []string
	langs []string
	err   error
	block chan struct{}
}

func (e *recordingEngine) Speak(ctx context.Context, text, lang string) error {
	if e.block != nil {
		select {
		case <-e.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.texts = append(e.texts, text)
	e.langs = append(e.langs, lang)
	return e.err
}

func (e *recordingEngine) spoken() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.texts...)
}

type countingDucker struct {
	mu           sync.Mutex
	duck, unduck int
}

func (d *countingDucker) Duck(context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.duck++
	return nil
}

func (d *countingDucker) Unduck(context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.unduck++
	return errors.New("pactl missing")
}

func TestAsyncSpeaksInOrder(t *testing.T) {
	e := &recordingEngine{}
	a := NewAsync(e, nil, time.Second)
	defer a.Close()

	a.Say("Listening...", "en")
	a.Say("", "en")
	a.Say("Calling john", "en")

	assert.Eventually(t, func() bool { return len(e.spoken()) == 2 }, time.Second, time.Millisecond)
	assert.Equal(t, []string{"Listening...", "Calling john"}, e.spoken())
	assert.Equal(t, []string{"en", "en"}, e.langs)
}

func TestAsyncSayDoesNotBlock(t *testing.T) {
	e := &recordingEngine{block: make(chan struct{})}
	a := NewAsync(e, nil, time.Second)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			a.Say("hello", "en")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Say blocked on a busy engine")
	}

	a.Close()
	a.Say("after close", "en")
}

func TestAsyncSwallowsErrorsAndDucks(t *testing.T) {
	e := &recordingEngine{err: errors.New("engine unavailable")}
	d := &countingDucker{}
	a := NewAsync(e, d, time.Second)
	defer a.Close()

	a.Say("one", "en")
	a.Say("two", "en")

	assert.Eventually(t, func() bool {
		d.mu.Lock()
		defer d.mu.Unlock()
		return d.unduck == 2
	}, time.Second, time.Millisecond)
	assert.Equal(t, 2, d.duck)
	assert.Equal(t, []string{"one", "two"}, e.spoken())
}

func TestNop(t *testing.T) {
	assert.NoError(t, Nop{}.Speak(context.Background(), "hi", "en"))
}
