// Package commands turns raw player input into intents and dispatches them
// against the world engine. Nothing here touches sockets; callers deliver
// parsed intents and route the resulting messages.
package commands

import "strings"

// Intent is a parsed player command: an action name, positional string
// arguments, and for emotes the free-form verb.
type Intent struct {
	Action string
	Args   []string
	Verb   string
}

var directionAliases = map[string]string{
	"n": "north",
	"s": "south",
	"e": "east",
	"w": "west",
}

var bareDirections = map[string]struct{}{
	"north": {},
	"south": {},
	"east":  {},
	"west":  {},
}

// Parse turns one line of input into an Intent. Blank input is a noop.
// Slash commands are messaging (/tell, /yell, /reply) or fall through to
// emote verbs; bare single-letter and full directions become go intents;
// everything else is action-plus-args verbatim.
func Parse(text string) Intent {
	cleaned := strings.TrimSpace(text)
	if cleaned == "" {
		return Intent{Action: "noop"}
	}

	if strings.HasPrefix(cleaned, "/") {
		return parseSlash(strings.TrimSpace(cleaned[1:]))
	}

	parts := strings.Fields(cleaned)
	verb := strings.ToLower(parts[0])
	args := parts[1:]

	if full, ok := directionAliases[verb]; ok && len(args) == 0 {
		return Intent{Action: "go", Args: []string{full}}
	}
	if _, ok := bareDirections[verb]; ok && len(args) == 0 {
		return Intent{Action: "go", Args: []string{verb}}
	}

	return Intent{Action: verb, Args: args}
}

func parseSlash(body string) Intent {
	if body == "" {
		return Intent{Action: "emote"}
	}

	verb, remaining := splitFirst(body)
	verb = strings.ToLower(verb)

	switch verb {
	case "tell", "yell":
		if remaining == "" {
			return Intent{Action: verb}
		}
		// First word is the target, the rest is the message.
		target, message := splitFirst(remaining)
		if message == "" {
			return Intent{Action: verb, Args: []string{target}}
		}
		return Intent{Action: verb, Args: []string{target, message}}
	case "reply":
		if remaining == "" {
			return Intent{Action: verb}
		}
		return Intent{Action: verb, Args: []string{remaining}}
	default:
		return Intent{Action: "emote", Verb: verb}
	}
}

// splitFirst splits off the first whitespace-delimited word, returning it and
// the trimmed remainder.
func splitFirst(s string) (string, string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ""
	}
	idx := strings.IndexFunc(s, func(r rune) bool {
		return r == ' ' || r == '\t'
	})
	if idx < 0 {
		return s, ""
	}
	return s[:idx], strings.TrimSpace(s[idx:])
}
