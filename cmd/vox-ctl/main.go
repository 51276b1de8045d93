package main

import (
	"fmt"
	"os"
	"strings"

	cli "github.com/spf13/pflag"

	"vox/internal/ipc"
)

func main() {
	socket := cli.StringP("socket", "s", ipc.DefaultSocketPath, "Control socket path")
	cli.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: vox-ctl [-s socket] listen | say <text...> | draft <text...>")
		cli.PrintDefaults()
	}
	cli.Parse()

	msg, err := parseArgs(cli.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		cli.Usage()
		os.Exit(2)
	}

	if err := ipc.SendCommand(*socket, msg); err != nil {
		fmt.Println("vox not running:", err)
		os.Exit(1)
	}
}

func parseArgs(args []string) (ipc.ControlMessage, error) {
	if len(args) == 0 {
		return ipc.ControlMessage{Cmd: ipc.CmdListen}, nil
	}

	msg := ipc.ControlMessage{
		Cmd:  args[0],
		Text: strings.Join(args[1:], " "),
	}

	switch msg.Cmd {
	case ipc.CmdListen:
		if msg.Text != "" {
			return msg, fmt.Errorf("listen takes no text")
		}
	case ipc.CmdSay:
		if strings.TrimSpace(msg.Text) == "" {
			return msg, fmt.Errorf("say needs a command")
		}
	case ipc.CmdDraft:
	default:
		return msg, fmt.Errorf("unknown command %q", msg.Cmd)
	}

	return msg, nil
}
