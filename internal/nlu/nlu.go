package nlu

import "strings"

type Intent string

const (
	IntentAlarm    Intent = "alarm"
	IntentCall     Intent = "call"
	IntentMessage  Intent = "message"
	IntentOpenApp  Intent = "open_app"
	IntentWeather  Intent = "weather"
	IntentJoke     Intent = "joke"
	IntentTime     Intent = "time"
	IntentGreeting Intent = "greeting"
	IntentUnknown  Intent = "unknown"
)

type Result struct {
	Intent   Intent            `json:"intent"`
	Entities map[string]string `json:"entities"`
	Query    string            `json:"query"`
}

// Rule matches when the lower-cased query contains any of its keywords.
// Extract, when set, names the entity filled from the query with the first
// occurrence of Strip removed.
type Rule struct {
	Intent   Intent
	Keywords []string
	Extract  string
	Strip    string
}

func (r Rule) Match(lower string) bool {
	for _, kw := range r.Keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Rules is evaluated in order, first match wins.
var Rules = []Rule{
	{Intent: IntentAlarm, Keywords: []string{"alarm", "wake"}},
	{Intent: IntentCall, Keywords: []string{"call"}, Extract: "contact", Strip: "call"},
	{Intent: IntentMessage, Keywords: []string{"message", "sms"}},
	{Intent: IntentOpenApp, Keywords: []string{"open"}, Extract: "app", Strip: "open"},
	{Intent: IntentWeather, Keywords: []string{"weather"}},
	{Intent: IntentJoke, Keywords: []string{"joke"}},
	{Intent: IntentTime, Keywords: []string{"time"}},
	{Intent: IntentGreeting, Keywords: []string{"hello", "hi"}},
}

// Analyze classifies a transcript against Rules. Query keeps the original case.
func Analyze(transcript string) Result {
	lower := strings.ToLower(transcript)

	out := Result{
		Intent:   IntentUnknown,
		Entities: map[string]string{},
		Query:    transcript,
	}

	for _, r := range Rules {
		if !r.Match(lower) {
			continue
		}

		out.Intent = r.Intent
		if r.Extract != "" {
			out.Entities[r.Extract] = strings.TrimSpace(strings.Replace(lower, r.Strip, "", 1))
		}
		break
	}

	return out
}
