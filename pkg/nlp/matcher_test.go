package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func constantSimilarity(score float64) SimilarityFunc {
	return func(string, string) float64 { return score }
}

func TestMatcher_Forced(t *testing.T) {
	m := NewMatcher()

	t.Run("Should route pricing questions to the pricing page", func(t *testing.T) {
		pages := []PageRecord{
			{Intent: "home_page", URL: "https://x.com"},
			{Intent: "pricing_info", URL: "https://x.com/pricing"},
		}

		result := m.Match("what is your pricing plan?", pages)

		assert.Equal(t, "pricing_info", result.MatchedIntent)
		assert.Equal(t, "https://x.com/pricing", result.MatchedURL)
		assert.Empty(t, result.WeakKeywordHint)
		assert.Equal(t, StrategyForced, result.Strategy)
	})

	t.Run("Should beat a perfect fuzzy match", func(t *testing.T) {
		pages := []PageRecord{
			{Intent: "how much does it cost", URL: "https://x.com/faq"},
			{Intent: "Pricing", URL: "https://x.com/pricing"},
		}

		result := m.Match("how much does it cost", pages)

		assert.Equal(t, "Pricing", result.MatchedIntent)
		assert.Equal(t, StrategyForced, result.Strategy)
	})

	t.Run("Should pick the first pricing page", func(t *testing.T) {
		pages := []PageRecord{
			{Intent: "pricing_team", URL: "https://x.com/team"},
			{Intent: "pricing_solo", URL: "https://x.com/solo"},
		}

		result := m.Match("Any extra FEE?", pages)

		assert.Equal(t, "pricing_team", result.MatchedIntent)
	})

	t.Run("Should fall through when no pricing page exists", func(t *testing.T) {
		pages := []PageRecord{
			{Intent: "plans", URL: "https://x.com/plans"},
		}

		result := m.Match("plans", pages)

		assert.Equal(t, "plans", result.MatchedIntent)
		assert.Equal(t, StrategyFuzzy, result.Strategy)
	})

	t.Run("Should return empty for an empty page list", func(t *testing.T) {
		assert.Equal(t, MatchResult{}, m.Match("what does it cost", nil))
		assert.Equal(t, MatchResult{}, m.Match("hello", []PageRecord{}))
	})
}

func TestMatcher_Fuzzy(t *testing.T) {
	t.Run("Should accept a keyword near match", func(t *testing.T) {
		m := NewMatcher()
		pages := []PageRecord{
			{Intent: "returns_policy", URL: "https://x.com/returns", Keywords: []string{"refund", "return window"}},
		}

		result := m.Match("tell me about your refund window", pages)

		assert.Equal(t, "returns_policy", result.MatchedIntent)
		assert.Equal(t, "https://x.com/returns", result.MatchedURL)
		assert.Greater(t, result.Score, DefaultWeakThreshold)
		if result.Score > DefaultStrongThreshold {
			assert.Empty(t, result.WeakKeywordHint)
		} else {
			assert.Contains(t, []string{"refund", "return window"}, result.WeakKeywordHint)
		}
	})

	t.Run("Should treat a score of exactly the strong threshold as confident", func(t *testing.T) {
		m := NewMatcher(WithSimilarity(constantSimilarity(0.6)))
		pages := []PageRecord{{Intent: "contact_us", URL: "https://x.com/contact"}}

		result := m.Match("anything", pages)

		assert.Equal(t, "contact_us", result.MatchedIntent)
		assert.Empty(t, result.WeakKeywordHint)
		assert.Equal(t, StrategyFuzzy, result.Strategy)
	})

	t.Run("Should set the hint inside the weak band", func(t *testing.T) {
		m := NewMatcher(WithSimilarity(constantSimilarity(0.45)))
		pages := []PageRecord{{Intent: "contact_us", URL: "https://x.com/contact", Keywords: []string{"email"}}}

		result := m.Match("anything", pages)

		assert.Equal(t, "contact_us", result.MatchedIntent)
		assert.Equal(t, "contact_us", result.WeakKeywordHint)
		assert.Equal(t, StrategyWeak, result.Strategy)
	})

	t.Run("Should fall through at exactly the weak threshold", func(t *testing.T) {
		m := NewMatcher(WithSimilarity(constantSimilarity(0.3)))
		pages := []PageRecord{{Intent: "contact_us", URL: "https://x.com/contact"}}

		assert.Equal(t, MatchResult{}, m.Match("anything", pages))

		result := m.Match("where is contact_us", pages)
		assert.Equal(t, "contact_us", result.MatchedIntent)
		assert.Equal(t, StrategySubstring, result.Strategy)
		assert.Empty(t, result.WeakKeywordHint)
	})

	t.Run("Should keep the first candidate on ties", func(t *testing.T) {
		m := NewMatcher(WithSimilarity(constantSimilarity(0.9)))
		pages := []PageRecord{
			{Intent: "", URL: "https://x.com/blank"},
			{Intent: "first", URL: "https://x.com/1"},
			{Intent: "second", URL: "https://x.com/2"},
		}

		result := m.Match("anything", pages)

		assert.Equal(t, "first", result.MatchedIntent)
		assert.Equal(t, "https://x.com/1", result.MatchedURL)
	})

	t.Run("Should report the best keyword as the hint", func(t *testing.T) {
		scores := map[string]float64{"faq": 0.1, "questions": 0.5, "help": 0.4}
		m := NewMatcher(WithSimilarity(func(_, keyword string) float64 { return scores[keyword] }))
		pages := []PageRecord{{Intent: "faq", URL: "https://x.com/faq", Keywords: []string{"Questions", "help"}}}

		result := m.Match("anything", pages)

		assert.Equal(t, "Questions", result.WeakKeywordHint)
	})
}

func TestMatcher_Substring(t *testing.T) {
	m := NewMatcher()

	t.Run("Should match a keyword contained in the message", func(t *testing.T) {
		pages := []PageRecord{
			{Intent: "jobs", URL: "https://x.com/jobs", Keywords: []string{"Careers"}},
		}

		result := m.Match("hi there, I was wondering whether your company lists any careers anywhere on the site", pages)

		assert.Equal(t, "jobs", result.MatchedIntent)
		assert.Equal(t, StrategySubstring, result.Strategy)
	})

	t.Run("Should ignore blank keywords", func(t *testing.T) {
		pages := []PageRecord{
			{Intent: "zzqx", URL: "https://x.com/z", Keywords: []string{"", "  "}},
		}

		assert.Equal(t, MatchResult{}, m.Match("hello", pages))
	})
}

func TestMatcher_NoMatch(t *testing.T) {
	m := NewMatcher()

	t.Run("Should return empty when nothing overlaps", func(t *testing.T) {
		pages := []PageRecord{{Intent: "contact_us", URL: "https://x.com/contact"}}

		result := m.Match("hello", pages)

		assert.Equal(t, MatchResult{}, result)
		assert.False(t, result.Matched())
	})

	t.Run("Should skip records without an intent", func(t *testing.T) {
		pages := []PageRecord{{Intent: "", URL: "https://x.com/hello", Keywords: []string{"hello"}}}

		assert.Equal(t, MatchResult{}, m.Match("hello", pages))
	})
}
