package types

// Role identifies who produced a transcript entry.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// TranscriptEntry is a single message in the conversation. Entries are
// immutable once appended to the transcript.
type TranscriptEntry struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// TurnInput carries the raw user input for one turn. A turn may arrive as an
// uploaded audio clip, typed text, or both; recognized audio text wins when
// both are present.
type TurnInput struct {
	AudioClip []byte
	AudioName string
	TypedText string
}

// TurnResult is what one accepted turn produces: the transcript entries it
// appended, the synthesized reply audio (nil when TTS is off or failed) and
// any advisory warnings collected along the way.
type TurnResult struct {
	Delta    []TranscriptEntry `json:"delta"`
	Audio    []byte            `json:"audio,omitempty"`
	Warnings []string          `json:"warnings,omitempty"`
}
