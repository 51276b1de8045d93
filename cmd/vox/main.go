package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"github.com/lmittmann/tint"
	log "log/slog"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"vox/internal/audio"
	"vox/internal/config"
	"vox/internal/ipc"
	"vox/internal/notify"
	"vox/internal/proxy"
	"vox/internal/tts"
	"vox/internal/tts/espeak"
	ttsopenai "vox/internal/tts/openai"
	"vox/internal/ui"
	"vox/internal/vox"
	"vox/pkg/audioconv"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

type flags struct {
	env     string
	config  string
	proxy   string
	level   string
	logFile string
	socket  string
}

func main() {
	var f flags
	cli.StringVarP(&f.env, "env", "e", ".env", "Env file path")
	cli.StringVarP(&f.config, "config", "c", "vox.yaml", "Config file path")
	cli.StringVarP(&f.proxy, "proxy", "p", "", "Socks proxy address for the OpenAI speech engine")
	cli.StringVarP(&f.level, "log", "l", "info", "Log level")
	cli.StringVar(&f.logFile, "log-file", "vox.log", "Log file, the terminal belongs to the UI")
	cli.StringVarP(&f.socket, "socket", "s", ipc.DefaultSocketPath, "Control socket path")
	cli.Parse()

	if err := run(f); err != nil {
		fmt.Fprintln(os.Stderr, "vox:", err)
		os.Exit(1)
	}
}

func run(f flags) error {
	logOut, err := os.OpenFile(f.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logOut.Close()

	level, ok := logLevelMap[f.level]
	if !ok {
		level = log.LevelInfo
	}
	log.SetDefault(log.New(tint.NewHandler(logOut, &tint.Options{
		Level:   level,
		NoColor: true,
	})))

	log.Info("Booting up")

	_ = godotenv.Load(f.env)

	cfg, err := config.Load(f.config)
	if err != nil {
		log.Error("Failed to load config", "path", f.config, "err", err)
		return err
	}
	if f.proxy != "" {
		cfg.Speech.OpenAI.Proxy = f.proxy
	}

	player := audio.NewPlayer(cfg.Audio.SampleRate)
	audioOK := true
	if err := player.Init(); err != nil {
		log.Warn("No audio output, haptics and synthesized speech disabled", "err", err)
		audioOK = false
	}
	defer player.Close()

	haptic := newHaptic(cfg, player, audioOK)

	engine, err := newEngine(cfg, player, audioOK)
	if err != nil {
		log.Error("Failed to init speech engine", "engine", cfg.Speech.Engine, "err", err)
		return err
	}

	var ducker tts.Ducker
	if cfg.Speech.Duck {
		ducker = audio.NewDucker([]string{"vox", "espeak-ng"}, cfg.Speech.DuckFactor, 5, 150*time.Millisecond)
	}

	speaker := tts.NewAsync(engine, ducker, cfg.Speech.Timeout)
	defer speaker.Close()

	session := vox.NewVox(speaker, haptic, vox.Options{
		Language:    cfg.Session.Language,
		ListenDelay: cfg.Session.ListenDelay,
		ReplyDelay:  cfg.Session.ReplyDelay,
		TimeLayout:  cfg.Session.TimeLayout,
	})
	defer session.Close()

	srv, err := ipc.StartServer(f.socket, func(msg ipc.ControlMessage) {
		handleControl(session, msg)
	})
	if err != nil {
		log.Error("Failed ipc server", "err", err)
		return err
	}
	defer srv.Close()

	log.Info("Boot up - successful")

	if _, err := tea.NewProgram(ui.New(session), tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("ui: %w", err)
	}

	log.Info("Shutting down")
	return nil
}

type controller interface {
	StartListening()
	Submit(command string) bool
	ChangeDraft(text string)
}

func handleControl(c controller, msg ipc.ControlMessage) {
	switch msg.Cmd {
	case ipc.CmdListen:
		c.StartListening()
	case ipc.CmdSay:
		if !c.Submit(msg.Text) {
			log.Debug("Ignored blank command from control socket")
		}
	case ipc.CmdDraft:
		c.ChangeDraft(msg.Text)
	default:
		log.Warn("Unknown command", "cmd", msg.Cmd)
	}
}

func newHaptic(cfg *config.Config, player *audio.Player, audioOK bool) vox.Haptic {
	if !cfg.Haptics.Enabled || !audioOK {
		return notify.Nop{}
	}

	b := notify.NewBeeper(player)
	if cfg.Haptics.Cue == "" {
		return b
	}

	pcm, err := audioconv.ConvertFile(context.Background(), cfg.Haptics.Cue, audioconv.Options{
		SampleRate: player.Rate(),
		MaxSamples: player.Rate(),
	})
	if err != nil {
		log.Warn("Failed to load haptic cue, using tones", "cue", cfg.Haptics.Cue, "err", err)
		return b
	}
	b.SetCue(pcm)

	log.Debug("Loaded haptic cue", "cue", cfg.Haptics.Cue, "samples", len(pcm))
	return b
}

func newEngine(cfg *config.Config, player *audio.Player, audioOK bool) (tts.Engine, error) {
	switch cfg.Speech.Engine {
	case "none":
		return tts.Nop{}, nil

	case "espeak":
		return espeak.New(), nil

	case "openai":
		if !audioOK {
			log.Warn("OpenAI speech needs audio output, speech disabled")
			return tts.Nop{}, nil
		}

		httpClient := http.DefaultClient
		if addr := cfg.Speech.OpenAI.Proxy; addr != "" {
			c, err := proxy.NewSocksClient(addr)
			if err != nil {
				return nil, fmt.Errorf("dial socks proxy %s: %w", addr, err)
			}
			log.Debug("Loaded proxy", "proxy", addr)
			httpClient = c
		}
		return newOpenAI(cfg, player, httpClient), nil

	default:
		return nil, fmt.Errorf("unknown speech engine %q", cfg.Speech.Engine)
	}
}

func newOpenAI(cfg *config.Config, player *audio.Player, httpClient *http.Client) tts.Engine {
	client := openai.NewClient(
		option.WithAPIKey(cfg.Speech.OpenAI.Token),
		option.WithHTTPClient(httpClient),
	)

	return ttsopenai.New(client, player, ttsopenai.Config{
		Model:  cfg.Speech.OpenAI.Model,
		Voice:  cfg.Speech.OpenAI.Voice,
		Format: cfg.Speech.OpenAI.Format,
	})
}
