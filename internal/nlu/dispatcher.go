package nlu

import (
	"fmt"
	"time"
)

// DefaultTimeLayout renders like an en-US locale time string.
const DefaultTimeLayout = "3:04:05 PM"

const JokeText = "😄 Why don't scientists trust atoms? Because they make up everything!"

// Reply is what the assistant shows (Text) and says (Utterance).
type Reply struct {
	Intent    Intent
	Text      string
	Utterance string
}

// Dispatch builds the canned reply for an analyzed command. now is read only
// by the time intent and is shared between the shown and spoken text.
func Dispatch(cmd Result, now time.Time, layout string) Reply {
	if layout == "" {
		layout = DefaultTimeLayout
	}

	r := Reply{Intent: cmd.Intent}

	switch cmd.Intent {
	case IntentAlarm:
		r.Text = "✅ Alarm set successfully! I'll wake you up at the specified time."
		r.Utterance = "Alarm set successfully"
	case IntentCall:
		contact := cmd.Entities["contact"]
		r.Text = fmt.Sprintf("📞 Calling %s... Opening dialer now.", contact)
		r.Utterance = fmt.Sprintf("Calling %s", contact)
	case IntentMessage:
		r.Text = "💬 Opening messages app to send your text."
		r.Utterance = "Opening messages"
	case IntentOpenApp:
		app := cmd.Entities["app"]
		r.Text = fmt.Sprintf("📱 Opening %s app...", app)
		r.Utterance = fmt.Sprintf("Opening %s", app)
	case IntentWeather:
		r.Text = "🌤️ Current weather: 25°C, Partly Cloudy. (Connect weather API for live data)"
		r.Utterance = "The weather is 25 degrees and partly cloudy"
	case IntentJoke:
		r.Text = JokeText
		r.Utterance = JokeText
	case IntentTime:
		t := now.Format(layout)
		r.Text = fmt.Sprintf("🕐 Current time is %s", t)
		r.Utterance = fmt.Sprintf("The time is %s", t)
	case IntentGreeting:
		r.Text = "👋 Hello! I'm your AI assistant. How can I help you?"
		r.Utterance = "Hello! How can I help you?"
	default:
		r.Intent = IntentUnknown
		r.Text = fmt.Sprintf(`I understand you said: "%s". Try: "Set alarm", "Call Mom", "Weather", "Tell me a joke"`, cmd.Query)
		r.Utterance = "I'm learning to handle more commands"
	}

	return r
}
