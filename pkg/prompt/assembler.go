package prompt

const (
	RoleSystem = "system"
	RoleUser   = "user"

	// MaxContextChars caps how much page text is forwarded to the model,
	// counted in runes.
	MaxContextChars = 4000

	contextPrefix = "Here is some context from the relevant website: "
	hintPrefix    = "The user's message is similar to: "
)

type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Input carries everything one request contributes to the prompt. It is built
// fresh for every request.
type Input struct {
	Message         string
	BodyText        string
	ElementsSummary string
	WeakKeywordHint string
}

// Assemble returns the turns in a fixed order: page context, interactive
// elements, weak hint, then the user message. Empty sections are omitted.
func Assemble(in Input) []Turn {
	turns := make([]Turn, 0, 4)

	if in.BodyText != "" {
		turns = append(turns, Turn{Role: RoleSystem, Content: contextPrefix + Truncate(in.BodyText, MaxContextChars)})
	}
	if in.ElementsSummary != "" {
		turns = append(turns, Turn{Role: RoleSystem, Content: in.ElementsSummary})
	}
	if in.WeakKeywordHint != "" {
		turns = append(turns, Turn{Role: RoleSystem, Content: hintPrefix + in.WeakKeywordHint})
	}

	return append(turns, Turn{Role: RoleUser, Content: in.Message})
}

// Truncate returns at most max runes of s.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}

	count := 0
	for i := range s {
		if count == max {
			return s[:i]
		}
		count++
	}
	return s
}
