package commands

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestParse(t *testing.T) {
	tests := map[string]struct {
		input string
		exp   Intent
	}{
		"empty input is a noop": {
			input: "",
			exp:   Intent{Action: "noop"},
		},
		"whitespace only is a noop": {
			input: "   ",
			exp:   Intent{Action: "noop"},
		},
		"single letter direction alias": {
			input: "n",
			exp:   Intent{Action: "go", Args: []string{"north"}},
		},
		"full direction": {
			input: "west",
			exp:   Intent{Action: "go", Args: []string{"west"}},
		},
		"direction alias is case insensitive": {
			input: "S",
			exp:   Intent{Action: "go", Args: []string{"south"}},
		},
		"go with explicit direction": {
			input: "go east",
			exp:   Intent{Action: "go", Args: []string{"east"}},
		},
		"take with multi word query": {
			input: "take strange key",
			exp:   Intent{Action: "take", Args: []string{"strange", "key"}},
		},
		"tell splits target and message": {
			input: "/tell bob hello there",
			exp:   Intent{Action: "tell", Args: []string{"bob", "hello there"}},
		},
		"tell all": {
			input: "/tell all hi",
			exp:   Intent{Action: "tell", Args: []string{"all", "hi"}},
		},
		"tell without message keeps the target": {
			input: "/tell bob",
			exp:   Intent{Action: "tell", Args: []string{"bob"}},
		},
		"tell without arguments": {
			input: "/tell",
			exp:   Intent{Action: "tell"},
		},
		"tell preserves apostrophes": {
			input: "/tell bob let's go",
			exp:   Intent{Action: "tell", Args: []string{"bob", "let's go"}},
		},
		"yell splits target and message": {
			input: "/yell lina watch out",
			exp:   Intent{Action: "yell", Args: []string{"lina", "watch out"}},
		},
		"reply keeps the whole message": {
			input: "/reply got it",
			exp:   Intent{Action: "reply", Args: []string{"got it"}},
		},
		"unknown slash command is an emote": {
			input: "/sneeze",
			exp:   Intent{Action: "emote", Verb: "sneeze"},
		},
		"bare slash is an empty emote": {
			input: "/",
			exp:   Intent{Action: "emote"},
		},
		"plain word is its own action": {
			input: "collect",
			exp:   Intent{Action: "collect"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := Parse(tt.input)

			testutil.AssertEqual(t, "action", got.Action, tt.exp.Action)
			testutil.AssertEqual(t, "verb", got.Verb, tt.exp.Verb)
			testutil.AssertEqual(t, "args length", len(got.Args), len(tt.exp.Args))
			for i := range tt.exp.Args {
				if i < len(got.Args) {
					testutil.AssertEqual(t, "arg", got.Args[i], tt.exp.Args[i])
				}
			}
		})
	}
}
