package domain

// ChatRole is the author of one conversation turn.
type ChatRole string

const (
	ChatRoleLearner ChatRole = "learner"
	ChatRoleTutor   ChatRole = "tutor"
)

func (r ChatRole) IsValid() bool {
	return r == ChatRoleLearner || r == ChatRoleTutor
}

// ChatTurn is one message of a practice conversation.
type ChatTurn struct {
	Role ChatRole `json:"role"`
	Text string   `json:"text"`
}

// Scenario names a practice conversation, e.g. "greeting".
type Scenario string

// ReplySource tells where a tutor reply came from.
type ReplySource string

const (
	ReplySourceScript ReplySource = "script"
	ReplySourceLLM    ReplySource = "llm"
)
