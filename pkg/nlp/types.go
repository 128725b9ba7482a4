package nlp

// PageRecord is one known page of a tenant's site as seen by the matcher.
type PageRecord struct {
	Intent   string   `json:"intent"`
	URL      string   `json:"url"`
	Keywords []string `json:"keywords,omitempty"`
}

// Strategy names the matching tier that produced a result.
type Strategy string

const (
	StrategyNone      Strategy = ""
	StrategyForced    Strategy = "forced"
	StrategyFuzzy     Strategy = "fuzzy"
	StrategyWeak      Strategy = "weak"
	StrategySubstring Strategy = "substring"
)

// MatchResult is the outcome of matching one message against a page list.
// MatchedURL is only ever set together with MatchedIntent.
type MatchResult struct {
	MatchedIntent   string   `json:"matched_intent"`
	MatchedURL      string   `json:"matched_url"`
	WeakKeywordHint string   `json:"weak_keyword_hint,omitempty"`
	Strategy        Strategy `json:"strategy,omitempty"`
	Score           float64  `json:"score,omitempty"`
}

func (r MatchResult) Matched() bool {
	return r.MatchedIntent != ""
}

type IMatcher interface {
	Match(message string, pages []PageRecord) MatchResult
}
