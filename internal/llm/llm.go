// Package llm talks to external text-generation providers on behalf of the
// tutor chat. Providers receive a system instruction plus an ordered list of
// role-tagged turns and return a single answer string.
package llm

import "context"

// Role tags a conversation turn
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Turn is one message in the conversation sent to a provider
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Conversation is the full request: system framing plus turns, oldest first.
// The last turn is the new user question.
type Conversation struct {
	SystemInstruction string `json:"system_instruction"`
	Turns             []Turn `json:"turns"`
}

// Exchange is a stored question/answer pair
type Exchange struct {
	Question string
	Answer   string
}

// Completer returns the provider's answer to a conversation
type Completer interface {
	Complete(ctx context.Context, conv *Conversation) (string, error)
}

// ExpandHistory maps stored pairs onto alternating user/model turns, order preserved
func ExpandHistory(history []Exchange) []Turn {
	turns := make([]Turn, 0, len(history)*2)
	for _, h := range history {
		turns = append(turns,
			Turn{Role: RoleUser, Text: h.Question},
			Turn{Role: RoleModel, Text: h.Answer},
		)
	}
	return turns
}
