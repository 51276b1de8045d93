package vox

import (
	log "log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"vox/internal/nlu"
	"vox/internal/notify"
)

const (
	DefaultListenDelay = 3000 * time.Millisecond
	DefaultReplyDelay  = 1000 * time.Millisecond

	ListeningUtterance = "Listening..."
	ListeningDraft     = "Try: 'Set alarm for 7 AM' or 'Call John' or 'Open camera'"
)

// Speaker says text without blocking the caller.
type Speaker interface {
	Say(text, lang string)
}

// Haptic emits a pulse without blocking the caller.
type Haptic interface {
	Impact(level notify.Level)
}

type Options struct {
	Language    string
	ListenDelay time.Duration
	ReplyDelay  time.Duration
	TimeLayout  string
	Now         func() time.Time
	Scheduler   Scheduler
}

type pendingReply struct {
	op    string
	reply nlu.Reply
}

// Vox is the in-memory conversation session: the turn log, the listening and
// processing flags and the draft input.
type Vox struct {
	mu      sync.Mutex
	turns   []Turn
	flags   Flags
	draft   string
	rev     uint64
	pending *pendingReply
	listen  string

	speaker Speaker
	haptic  Haptic
	sched   Scheduler
	opts    Options

	updates chan struct{}
}

func NewVox(speaker Speaker, haptic Haptic, opts Options) *Vox {
	if opts.ListenDelay <= 0 {
		opts.ListenDelay = DefaultListenDelay
	}
	if opts.ReplyDelay <= 0 {
		opts.ReplyDelay = DefaultReplyDelay
	}
	if opts.Language == "" {
		opts.Language = "en"
	}
	if opts.TimeLayout == "" {
		opts.TimeLayout = nlu.DefaultTimeLayout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Scheduler == nil {
		opts.Scheduler = NewTimerScheduler()
	}

	return &Vox{
		speaker: speaker,
		haptic:  haptic,
		sched:   opts.Scheduler,
		opts:    opts,
		updates: make(chan struct{}, 1),
	}
}

// Updates signals after every state change. Signals coalesce; read Snapshot
// to get the current state.
func (v *Vox) Updates() <-chan struct{} {
	return v.updates
}

func (v *Vox) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	return Snapshot{
		Turns: append([]Turn(nil), v.turns...),
		Flags: v.flags,
		Draft:    v.draft,
		DraftRev: v.rev,
	}
}

func (v *Vox) ChangeDraft(text string) {
	v.mu.Lock()
	changed := v.draft != text
	v.draft = text
	v.mu.Unlock()

	if changed {
		v.notify()
	}
}

// StartListening simulates audio capture: after the listen delay the draft is
// replaced by a fixed hint. A call while a capture is pending restarts it, so
// overlapping calls extend the listening window and finish once.
func (v *Vox) StartListening() {
	v.haptic.Impact(notify.Medium)

	op := uuid.NewString()

	v.mu.Lock()
	v.flags.Listening = true
	v.listen = op
	v.mu.Unlock()

	v.speaker.Say(ListeningUtterance, v.opts.Language)
	v.notify()

	log.Debug("Listening started", "op", op)

	v.sched.Schedule(SlotListening, v.opts.ListenDelay, func() {
		v.finishListening(op)
	})
}

func (v *Vox) finishListening(op string) {
	v.mu.Lock()
	if v.listen != op {
		v.mu.Unlock()
		return
	}
	v.listen = ""
	v.flags.Listening = false
	v.draft = ListeningDraft
	v.rev++
	v.mu.Unlock()

	log.Debug("Listening finished", "op", op)
	v.notify()
}

// Submit accepts a command. Blank commands are ignored and report false.
// A reply still pending from an earlier command is appended before the new
// user turn.
func (v *Vox) Submit(command string) bool {
	if strings.TrimSpace(command) == "" {
		return false
	}

	v.haptic.Impact(notify.Light)

	op := uuid.NewString()

	v.mu.Lock()
	if v.pending != nil {
		log.Debug("Settling pending reply", "op", v.pending.op)
		v.appendReply(v.pending.reply)
		v.pending = nil
	}

	v.turns = append(v.turns, Turn{
		ID:      op,
		Role:    RoleUser,
		Content: command,
		Time:    v.opts.Now(),
	})
	v.draft = ""
	v.rev++
	v.flags.Processing = true

	res := nlu.Analyze(command)
	reply := nlu.Dispatch(res, v.opts.Now(), v.opts.TimeLayout)
	v.pending = &pendingReply{op: op, reply: reply}
	v.mu.Unlock()

	log.Info("Command accepted", "op", op, "intent", res.Intent, "entities", res.Entities)

	v.speaker.Say(reply.Utterance, v.opts.Language)
	v.notify()

	v.sched.Schedule(SlotProcessing, v.opts.ReplyDelay, func() {
		v.finishReply(op)
	})

	return true
}

func (v *Vox) finishReply(op string) {
	v.mu.Lock()
	if v.pending == nil || v.pending.op != op {
		v.mu.Unlock()
		return
	}
	v.appendReply(v.pending.reply)
	v.pending = nil
	v.mu.Unlock()

	log.Debug("Reply appended", "op", op)
	v.notify()
}

// appendReply must be called with mu held.
func (v *Vox) appendReply(r nlu.Reply) {
	v.turns = append(v.turns, Turn{
		ID:      uuid.NewString(),
		Role:    RoleAssistant,
		Content: r.Text,
		Time:    v.opts.Now(),
	})
	v.flags.Processing = false
}

func (v *Vox) Close() {
	v.sched.Stop()
}

func (v *Vox) notify() {
	select {
	case v.updates <- struct{}{}:
	default:
	}
}
