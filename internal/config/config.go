package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Session Session `yaml:"session"`
	Speech  Speech  `yaml:"speech"`
	Haptics Haptics `yaml:"haptics"`
	Audio   Audio   `yaml:"audio"`
}

type Session struct {
	// Language passed to the speech engine
	Language string `yaml:"language" example:"en" validate:"required"`
	// Simulated listening time
	ListenDelay time.Duration `yaml:"listen_delay" example:"3s" validate:"gt=0"`
	// Artificial reply latency
	ReplyDelay time.Duration `yaml:"reply_delay" example:"1s" validate:"gt=0"`
	// Go time layout for the time intent
	TimeLayout string `yaml:"time_layout" example:"3:04:05 PM" validate:"required"`
}

type Speech struct {
	// Speech backend
	Engine string `yaml:"engine" example:"espeak" validate:"oneof=espeak openai none"`
	// Upper bound for one utterance
	Timeout time.Duration `yaml:"timeout" example:"30s" validate:"gt=0"`
	// Lower other applications' volume while speaking
	Duck bool `yaml:"duck" example:"false"`
	// Volume factor applied to other streams while ducked
	DuckFactor float64 `yaml:"duck_factor" example:"0.3" validate:"gt=0,lte=1"`
	OpenAI     OpenAI  `yaml:"openai"`
}

type OpenAI struct {
	// OpenAI token, usually taken from OPENAI_API_KEY
	Token string `yaml:"token" validate:"required_if=Enabled true"`
	// Speech model
	Model string `yaml:"model" example:"gpt-4o-mini-tts"`
	// Voice name
	Voice string `yaml:"voice" example:"alloy"`
	// Audio format of the synthesized speech
	Format string `yaml:"format" example:"mp3" validate:"oneof=mp3 wav opus"`
	// SOCKS5 proxy for API calls, empty for direct
	Proxy string `yaml:"proxy" example:"127.0.0.1:8888"`

	Enabled bool `yaml:"-"`
}

type Haptics struct {
	Enabled bool `yaml:"enabled" example:"true"`
	// Optional wav/mp3/ogg file played instead of the synthesized pulse
	Cue string `yaml:"cue" example:"beep.mp3"`
}

type Audio struct {
	SampleRate int `yaml:"sample_rate" example:"16000" validate:"min=8000,max=48000"`
}

func Default() Config {
	return Config{
		Session: Session{
			Language:    "en",
			ListenDelay: 3 * time.Second,
			ReplyDelay:  time.Second,
			TimeLayout:  "3:04:05 PM",
		},
		Speech: Speech{
			Engine:     "espeak",
			Timeout:    30 * time.Second,
			DuckFactor: 0.3,
			OpenAI: OpenAI{
				Model:  "gpt-4o-mini-tts",
				Voice:  "alloy",
				Format: "mp3",
			},
		},
		Haptics: Haptics{Enabled: true},
		Audio:   Audio{SampleRate: 16000},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. A missing file is not an error.
func Load(path string) (*Config, error) {
	result := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, oops.Errorf("failed to read config file: %w", err)
		default:
			if err = yaml.Unmarshal(data, &result); err != nil {
				return nil, oops.Errorf("failed to parse YAML config: %w", err)
			}
		}
	}

	applyEnv(&result)

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		return nil, oops.Errorf("failed to validate config: %w", err)
	}

	return &result, nil
}

func applyEnv(c *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" && c.Speech.OpenAI.Token == "" {
		c.Speech.OpenAI.Token = v
	}
	if v := os.Getenv("VOX_SPEECH"); v != "" {
		c.Speech.Engine = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("VOX_LANGUAGE"); v != "" {
		c.Session.Language = v
	}
	c.Speech.OpenAI.Enabled = c.Speech.Engine == "openai"
}
