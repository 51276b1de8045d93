package ipc

import (
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestSendCommandReachesHandler(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vox.sock")

	got := make(chan ControlMessage, 2)
	srv, err := StartServer(path, func(msg ControlMessage) { got <- msg })
	require.NoError(t, err)
	defer srv.Close()

	require.NoError(t, SendCommand(path, ControlMessage{Cmd: CmdListen}))
	require.NoError(t, SendCommand(path, ControlMessage{Cmd: CmdSay, Text: "Call John"}))

	var msgs []ControlMessage
	for i := 0; i < 2; i++ {
		select {
		case m := <-got:
			msgs = append(msgs, m)
		case <-time.After(time.Second):
			t.Fatal("control message not delivered")
		}
	}

	assert.ElementsMatch(t, []ControlMessage{
		{Cmd: CmdListen},
		{Cmd: CmdSay, Text: "Call John"},
	}, msgs)
}

func TestBadPayloadIsDropped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vox.sock")

	got := make(chan ControlMessage, 1)
	srv, err := StartServer(path, func(msg ControlMessage) { got <- msg })
	require.NoError(t, err)
	defer srv.Close()

	conn, err := net.Dial("unix", path)
	require.NoError(t, err)
	_, err = conn.Write([]byte("not json\n"))
	require.NoError(t, err)
	conn.Close()

	select {
	case m := <-got:
		t.Fatalf("unexpected message %+v", m)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSendCommandWithoutServer(t *testing.T) {
	err := SendCommand(filepath.Join(t.TempDir(), "missing.sock"), ControlMessage{Cmd: CmdListen})
	assert.Error(t, err)
}
