package vox

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Turn struct {
	ID      string
	Role    Role
	Content string
	Time    time.Time
}

type Flags struct {
	Listening  bool
	Processing bool
}

// Snapshot is a copy of the session state; callers may keep it.
type Snapshot struct {
	Turns []Turn
	Flags
	Draft string
	// DraftRev counts draft rewrites made by the session itself. ChangeDraft
	// does not advance it.
	DraftRev uint64
}

func (s Snapshot) Empty() bool {
	return len(s.Turns) == 0
}
