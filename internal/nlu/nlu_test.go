package nlu

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleOrder(t *testing.T) {
	var got []Intent
	for _, r := range Rules {
		got = append(got, r.Intent)
	}

	assert.Equal(t, []Intent{
		IntentAlarm,
		IntentCall,
		IntentMessage,
		IntentOpenApp,
		IntentWeather,
		IntentJoke,
		IntentTime,
		IntentGreeting,
	}, got)
}

func TestAnalyze(t *testing.T) {
	tests := []struct {
		in       string
		intent   Intent
		entities map[string]string
	}{
		{"Set alarm for 7 AM", IntentAlarm, map[string]string{}},
		{"WAKE me up", IntentAlarm, map[string]string{}},
		{"wakeboarding lessons", IntentAlarm, map[string]string{}},
		{"Call John", IntentCall, map[string]string{"contact": "john"}},
		{"call and open camera", IntentCall, map[string]string{"contact": "and open camera"}},
		{"please call mom", IntentCall, map[string]string{"contact": "please  mom"}},
		{"recall call", IntentCall, map[string]string{"contact": "re call"}},
		{"Send an SMS", IntentMessage, map[string]string{}},
		{"new message", IntentMessage, map[string]string{}},
		{"Open camera", IntentOpenApp, map[string]string{"app": "camera"}},
		{"reopen settings", IntentOpenApp, map[string]string{"app": "re settings"}},
		{"weather today?", IntentWeather, map[string]string{}},
		{"Tell me a joke", IntentJoke, map[string]string{}},
		{"What time is it", IntentTime, map[string]string{}},
		{"hello there", IntentGreeting, map[string]string{}},
		{"this", IntentGreeting, map[string]string{}},
		{"Sesame", IntentUnknown, map[string]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			res := Analyze(tt.in)
			assert.Equal(t, tt.intent, res.Intent)
			assert.Equal(t, tt.entities, res.Entities)
			assert.Equal(t, tt.in, res.Query)
		})
	}
}

func TestDispatchCall(t *testing.T) {
	r := Dispatch(Analyze("Call John"), time.Now(), "")
	assert.Equal(t, "📞 Calling john... Opening dialer now.", r.Text)
	assert.Equal(t, "Calling john", r.Utterance)
}

func TestDispatchJokeSpokenVerbatim(t *testing.T) {
	r := Dispatch(Analyze("Tell me a joke"), time.Now(), "")
	assert.Equal(t, JokeText, r.Text)
	assert.Equal(t, r.Text, r.Utterance)
}

func TestDispatchTimeUsesSingleRead(t *testing.T) {
	now := time.Date(2026, 10, 17, 14, 5, 9, 0, time.UTC)

	r := Dispatch(Analyze("What time is it"), now, "")
	assert.Equal(t, "🕐 Current time is 2:05:09 PM", r.Text)
	assert.Equal(t, "The time is 2:05:09 PM", r.Utterance)

	r = Dispatch(Analyze("time"), now, "15:04")
	assert.Equal(t, "🕐 Current time is 14:05", r.Text)
}

func TestDispatchFallbackEchoesOriginal(t *testing.T) {
	r := Dispatch(Analyze("Play Some Music"), time.Now(), "")
	require.Equal(t, IntentUnknown, r.Intent)
	assert.Equal(t, `I understand you said: "Play Some Music". Try: "Set alarm", "Call Mom", "Weather", "Tell me a joke"`, r.Text)
	assert.Equal(t, "I'm learning to handle more commands", r.Utterance)
}

func TestDispatchFixedReplies(t *testing.T) {
	tests := map[string]Reply{
		"set an alarm": {
			Intent:    IntentAlarm,
			Text:      "✅ Alarm set successfully! I'll wake you up at the specified time.",
			Utterance: "Alarm set successfully",
		},
		"send message": {
			Intent:    IntentMessage,
			Text:      "💬 Opening messages app to send your text.",
			Utterance: "Opening messages",
		},
		"Open Camera": {
			Intent:    IntentOpenApp,
			Text:      "📱 Opening camera app...",
			Utterance: "Opening camera",
		},
		"weather": {
			Intent:    IntentWeather,
			Text:      "🌤️ Current weather: 25°C, Partly Cloudy. (Connect weather API for live data)",
			Utterance: "The weather is 25 degrees and partly cloudy",
		},
		"Hi": {
			Intent:    IntentGreeting,
			Text:      "👋 Hello! I'm your AI assistant. How can I help you?",
			Utterance: "Hello! How can I help you?",
		},
	}

	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, Dispatch(Analyze(in), time.Now(), ""))
		})
	}
}
