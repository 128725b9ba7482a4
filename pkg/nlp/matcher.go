package nlp

import "strings"

const (
	DefaultStrongThreshold = 0.6
	DefaultWeakThreshold   = 0.3
	ForcedIntentMarker     = "pricing"
)

// DefaultTriggerWords route billing questions straight to the pricing page.
var DefaultTriggerWords = []string{"plan", "price", "charge", "cost", "subscription", "fee"}

type Option func(*Matcher)

// WithStrongThreshold sets the score at which a fuzzy match is accepted
// without a hint.
func WithStrongThreshold(threshold float64) Option {
	return func(m *Matcher) {
		m.strongThreshold = threshold
	}
}

// WithWeakThreshold sets the score a fuzzy match must exceed to be accepted
// as a weak match.
func WithWeakThreshold(threshold float64) Option {
	return func(m *Matcher) {
		m.weakThreshold = threshold
	}
}

func WithSimilarity(fn SimilarityFunc) Option {
	return func(m *Matcher) {
		if fn != nil {
			m.similarity = fn
		}
	}
}

func WithTriggerWords(words ...string) Option {
	return func(m *Matcher) {
		m.triggerWords = lowerAll(words)
	}
}

// Matcher decides which of a tenant's pages should ground a reply. It holds
// no per-request state and is safe for concurrent use.
type Matcher struct {
	strongThreshold float64
	weakThreshold   float64
	similarity      SimilarityFunc
	triggerWords    []string
	forcedMarker    string
}

func NewMatcher(opts ...Option) *Matcher {
	m := &Matcher{
		strongThreshold: DefaultStrongThreshold,
		weakThreshold:   DefaultWeakThreshold,
		similarity:      DiceCoefficient,
		triggerWords:    lowerAll(DefaultTriggerWords),
		forcedMarker:    ForcedIntentMarker,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Match runs the forced, fuzzy and substring tiers in that order and returns
// the first usable result. An empty MatchResult means no page applies.
func (m *Matcher) Match(message string, pages []PageRecord) MatchResult {
	text := strings.ToLower(message)

	if result, ok := m.matchForced(text, pages); ok {
		return result
	}
	if result, ok := m.matchFuzzy(text, pages); ok {
		return result
	}
	if result, ok := m.matchSubstring(text, pages); ok {
		return result
	}

	return MatchResult{}
}

func (m *Matcher) matchForced(text string, pages []PageRecord) (MatchResult, bool) {
	triggered := false
	for _, word := range m.triggerWords {
		if word != "" && strings.Contains(text, word) {
			triggered = true
			break
		}
	}
	if !triggered {
		return MatchResult{}, false
	}

	for _, page := range pages {
		if page.Intent == "" {
			continue
		}
		if strings.Contains(strings.ToLower(page.Intent), m.forcedMarker) {
			return MatchResult{
				MatchedIntent: page.Intent,
				MatchedURL:    page.URL,
				Strategy:      StrategyForced,
				Score:         1,
			}, true
		}
	}

	return MatchResult{}, false
}

func (m *Matcher) matchFuzzy(text string, pages []PageRecord) (MatchResult, bool) {
	var (
		bestScore   float64
		bestKeyword string
		bestPage    *PageRecord
	)

	for i := range pages {
		page := &pages[i]
		if page.Intent == "" {
			continue
		}
		for _, keyword := range candidateKeywords(*page) {
			score := m.similarity(text, strings.ToLower(keyword))
			// strictly greater keeps the first-seen candidate on ties
			if score > bestScore {
				bestScore = score
				bestKeyword = keyword
				bestPage = page
			}
		}
	}

	if bestPage == nil {
		return MatchResult{}, false
	}

	switch {
	case bestScore >= m.strongThreshold:
		return MatchResult{
			MatchedIntent: bestPage.Intent,
			MatchedURL:    bestPage.URL,
			Strategy:      StrategyFuzzy,
			Score:         bestScore,
		}, true
	case bestScore > m.weakThreshold:
		return MatchResult{
			MatchedIntent:   bestPage.Intent,
			MatchedURL:      bestPage.URL,
			WeakKeywordHint: bestKeyword,
			Strategy:        StrategyWeak,
			Score:           bestScore,
		}, true
	}

	return MatchResult{}, false
}

func (m *Matcher) matchSubstring(text string, pages []PageRecord) (MatchResult, bool) {
	for _, page := range pages {
		if page.Intent == "" {
			continue
		}
		for _, keyword := range candidateKeywords(page) {
			if strings.Contains(text, strings.ToLower(keyword)) {
				return MatchResult{
					MatchedIntent: page.Intent,
					MatchedURL:    page.URL,
					Strategy:      StrategySubstring,
				}, true
			}
		}
	}

	return MatchResult{}, false
}

// candidateKeywords returns the intent followed by the page's keywords.
// Blank keywords are dropped since they would match every message.
func candidateKeywords(page PageRecord) []string {
	candidates := make([]string, 0, len(page.Keywords)+1)
	candidates = append(candidates, page.Intent)
	for _, keyword := range page.Keywords {
		if strings.TrimSpace(keyword) == "" {
			continue
		}
		candidates = append(candidates, keyword)
	}
	return candidates
}

func lowerAll(words []string) []string {
	lowered := make([]string, 0, len(words))
	for _, word := range words {
		lowered = append(lowered, strings.ToLower(word))
	}
	return lowered
}
