package commands

import (
	"fmt"
	"strings"

	"github.com/hollowroot/jungeon/internal/game"
)

func handleSay(r *Router, playerID string, in Intent) (*Result, error) {
	if len(in.Args) == 0 {
		return nil, game.NewUserError("Say what?")
	}
	text := strings.Join(in.Args, " ")

	speaker := "Someone"
	if player := r.engine.Player(playerID); player != nil {
		speaker = player.Name
	}
	return &Result{
		Replies: []Message{EventMessage(fmt.Sprintf("You say: %q", text))},
		RoomEvents: []RoomEvent{{
			ActorID: playerID,
			Text:    fmt.Sprintf("%s says: %q", speaker, text),
		}},
	}, nil
}

func handleEmote(r *Router, playerID string, in Intent) (*Result, error) {
	if in.Verb == "" {
		return nil, game.NewUserError("Specify an emote, e.g. /sneeze.")
	}
	text := r.engine.EmoteMessage(playerID, in.Verb)
	if text == "" {
		return nil, game.NewUserError("Unknown emote.")
	}

	// text is "<name> <does something>"; the actor sees "You <does something>".
	_, action, _ := strings.Cut(text, " ")
	return &Result{
		Replies:    []Message{EventMessage(fmt.Sprintf("You %s", action))},
		RoomEvents: []RoomEvent{{ActorID: playerID, Text: text}},
	}, nil
}

func handleTell(r *Router, playerID string, in Intent) (*Result, error) {
	if len(in.Args) < 2 || strings.TrimSpace(in.Args[1]) == "" {
		return nil, game.NewUserError("Usage: /tell <character> <message> or /tell all <message>")
	}
	target, message := in.Args[0], in.Args[1]

	sender := r.engine.Player(playerID)
	if sender == nil {
		return nil, game.NewUserError("Your session is no longer valid.")
	}

	if strings.EqualFold(target, "all") {
		return r.tellAll(sender, message), nil
	}

	targetID := r.engine.ResolveCharacterName(target, r.roster.OnlinePlayerIDs())
	if targetID == "" {
		return nil, game.NewUserError(fmt.Sprintf("%q is not online or the name is ambiguous.", target))
	}
	if targetID == playerID {
		return nil, game.NewUserError("You cannot tell yourself.")
	}
	return r.tellDirect(sender, targetID, message)
}

func (r *Router) tellAll(sender *game.PlayerState, message string) *Result {
	result := &Result{}
	for _, pid := range r.roster.OnlinePlayerIDs() {
		if pid == sender.PlayerID {
			continue
		}
		r.engine.SetLastTellFrom(pid, sender.PlayerID)
		result.Directs = append(result.Directs, Direct{
			PlayerID: pid,
			Message:  EventMessage(fmt.Sprintf("%s tells everyone: %s", sender.Name, message)),
		})
	}
	return result
}

func (r *Router) tellDirect(sender *game.PlayerState, targetID, message string) (*Result, error) {
	target := r.engine.Player(targetID)
	if target == nil {
		return nil, game.NewUserError("That player is no longer online.")
	}
	r.engine.SetLastTellFrom(targetID, sender.PlayerID)
	return &Result{
		Replies: []Message{EventMessage(fmt.Sprintf("You tell %s: %s", target.Name, message))},
		Directs: []Direct{{
			PlayerID: targetID,
			Message:  EventMessage(fmt.Sprintf("%s tells you: %s", sender.Name, message)),
		}},
	}, nil
}

func handleYell(r *Router, playerID string, in Intent) (*Result, error) {
	if len(in.Args) < 2 || strings.TrimSpace(in.Args[1]) == "" {
		return nil, game.NewUserError("Usage: /yell <character> <message> or /yell all <message>")
	}
	target, message := in.Args[0], strings.ToUpper(in.Args[1])

	sender := r.engine.Player(playerID)
	if sender == nil {
		return nil, game.NewUserError("Your session is no longer valid.")
	}

	if strings.EqualFold(target, "all") {
		result := &Result{}
		for _, pid := range r.roster.OnlinePlayerIDs() {
			if pid == playerID {
				continue
			}
			r.engine.SetLastTellFrom(pid, playerID)
			result.Directs = append(result.Directs, Direct{
				PlayerID: pid,
				Message:  EventMessage(fmt.Sprintf("%s yells: %s", sender.Name, message)),
			})
		}
		return result, nil
	}

	targetID := r.engine.ResolveCharacterName(target, r.roster.OnlinePlayerIDs())
	if targetID == "" {
		return nil, game.NewUserError(fmt.Sprintf("%q is not online or the name is ambiguous.", target))
	}
	if targetID == playerID {
		return nil, game.NewUserError("You cannot yell at yourself.")
	}
	targetPlayer := r.engine.Player(targetID)
	if targetPlayer == nil {
		return nil, game.NewUserError("That player is no longer online.")
	}

	r.engine.SetLastTellFrom(targetID, playerID)
	return &Result{
		Replies: []Message{EventMessage(fmt.Sprintf("You yell at %s: %s", targetPlayer.Name, message))},
		Directs: []Direct{{
			PlayerID: targetID,
			Message:  EventMessage(fmt.Sprintf("%s yells at you: %s", sender.Name, message)),
		}},
	}, nil
}

func handleReply(r *Router, playerID string, in Intent) (*Result, error) {
	if len(in.Args) == 0 || strings.TrimSpace(in.Args[0]) == "" {
		return nil, game.NewUserError("Usage: /reply <message>")
	}
	message := in.Args[0]

	sender := r.engine.Player(playerID)
	if sender == nil {
		return nil, game.NewUserError("Your session is no longer valid.")
	}
	if sender.LastTellFrom == "" {
		return nil, game.NewUserError("You have no one to reply to.")
	}
	if r.engine.Player(sender.LastTellFrom) == nil {
		return nil, game.NewUserError("That player is no longer online.")
	}
	return r.tellDirect(sender, sender.LastTellFrom, message)
}

func handleWho(r *Router, playerID string, in Intent) (*Result, error) {
	players := r.engine.OnlineNames(r.roster.OnlinePlayerIDs())
	others := players[:0:0]
	for _, p := range players {
		if p.PlayerID != playerID {
			others = append(others, p)
		}
	}
	return &Result{
		Replies: []Message{{
			Type: "onlinePlayers",
			Data: map[string]any{"players": others},
		}},
	}, nil
}
