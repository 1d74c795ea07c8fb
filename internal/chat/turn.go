// Package chat keeps the studio conversation and talks to the Captain
// Syntax persona.
package chat

import "strings"

// Role identifies who spoke a turn.
type Role string

const (
	RoleUser   Role = "user"
	RoleHero   Role = "assistant-hero"
	RoleMentor Role = "assistant-mentor"
)

// Turn is one message in the conversation.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Fixed hero lines.
const (
	Greeting = "KAPOW! Welcome to the Comic Grammar Studio! Pick a mission to start your training!"
	Fallback = "BLAM! Something went wrong. Try again, hero!"
)

// MentorName is the persona whose name marks a mentor reply in legacy
// classification.
const MentorName = "Professor Punctuation"

// Speaker is the structured speaker tag a responder may attach.
type Speaker string

const (
	SpeakerHero   Speaker = "hero"
	SpeakerMentor Speaker = "mentor"
)

// Reply is a responder answer. Speaker is empty when the responder did
// not tag it.
type Reply struct {
	Speaker Speaker `json:"speaker"`
	Text    string  `json:"text"`
}

// Classify picks the assistant role for reply text by looking for the
// mentor's name, ignoring case.
func Classify(text string) Role {
	if strings.Contains(strings.ToLower(text), strings.ToLower(MentorName)) {
		return RoleMentor
	}
	return RoleHero
}

// roleFor resolves the role of a reply, preferring its speaker tag.
func roleFor(r Reply) Role {
	switch r.Speaker {
	case SpeakerHero:
		return RoleHero
	case SpeakerMentor:
		return RoleMentor
	default:
		return Classify(r.Text)
	}
}
