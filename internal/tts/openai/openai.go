package openai

import (
	"context"
	"fmt"
	"io"
	"net/http"

	openai "github.com/openai/openai-go/v3"

	"vox/pkg/audioconv"
)

type Player interface {
	PlayPCM(pcm []float32) error
	Rate() int
}

type Config struct {
	Model  string
	Voice  string
	Format string // mp3, wav or opus
}

// Engine synthesizes speech with the OpenAI audio API and plays it locally.
type Engine struct {
	client openai.Client
	player Player
	cfg    Config
}

func New(client openai.Client, player Player, cfg Config) *Engine {
	if cfg.Model == "" {
		cfg.Model = openai.SpeechModelGPT4oMiniTTS
	}
	if cfg.Voice == "" {
		cfg.Voice = string(openai.AudioSpeechNewParamsVoiceAlloy)
	}
	if cfg.Format == "" {
		cfg.Format = string(openai.AudioSpeechNewParamsResponseFormatMP3)
	}

	return &Engine{client: client, player: player, cfg: cfg}
}

func (e *Engine) params(text string) openai.AudioSpeechNewParams {
	return openai.AudioSpeechNewParams{
		Input:          text,
		Model:          e.cfg.Model,
		Voice:          openai.AudioSpeechNewParamsVoice(e.cfg.Voice),
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormat(e.cfg.Format),
	}
}

// Speak ignores lang: the model picks the language from the text.
func (e *Engine) Speak(ctx context.Context, text, _ string) error {
	if text == "" {
		return nil
	}

	resp, err := e.client.Audio.Speech.New(ctx, e.params(text))
	if err != nil {
		return fmt.Errorf("speech request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("speech request: %s: %s", resp.Status, body)
	}

	pcm, err := audioconv.Decode(resp.Body, audioconv.Format(e.cfg.Format), audioconv.Options{
		SampleRate: e.player.Rate(),
	})
	if err != nil {
		return fmt.Errorf("decode speech: %w", err)
	}

	return e.player.PlayPCM(pcm)
}
