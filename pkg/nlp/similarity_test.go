package nlp

import (
	"testing"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"github.com/stretchr/testify/assert"
)

func TestDiceCoefficient(t *testing.T) {
	t.Run("Should score identical non-empty strings as 1", func(t *testing.T) {
		for _, s := range []string{"a", "pricing", "return window", "ü"} {
			assert.Equal(t, 1.0, DiceCoefficient(s, s), s)
		}
	})

	t.Run("Should be symmetric", func(t *testing.T) {
		pairs := [][2]string{
			{"night", "nacht"},
			{"tellmeaboutyourrefundwindow", "return window"},
			{"hello", "contact_us"},
			{"aaaa", "aa"},
			{"a", "ab"},
			{"", "abc"},
		}
		for _, p := range pairs {
			assert.Equal(t, DiceCoefficient(p[0], p[1]), DiceCoefficient(p[1], p[0]), "%q vs %q", p[0], p[1])
		}
	})

	t.Run("Should stay within bounds", func(t *testing.T) {
		pairs := [][2]string{
			{"aaaa", "aa"},
			{"abab", "baba"},
			{"pricing plan", "pricing"},
		}
		for _, p := range pairs {
			score := DiceCoefficient(p[0], p[1])
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 1.0)
		}
	})

	t.Run("Should compute bigram overlap", func(t *testing.T) {
		assert.InDelta(t, 0.25, DiceCoefficient("night", "nacht"), 1e-9)
		assert.InDelta(t, 14.0/37.0, DiceCoefficient("tell me about your refund window", "return window"), 1e-9)
	})

	t.Run("Should ignore whitespace", func(t *testing.T) {
		assert.Equal(t, 1.0, DiceCoefficient("return window", "returnwindow"))
	})

	t.Run("Should score short or empty distinct strings as 0", func(t *testing.T) {
		assert.Equal(t, 0.0, DiceCoefficient("a", "b"))
		assert.Equal(t, 0.0, DiceCoefficient("a", "abc"))
		assert.Equal(t, 0.0, DiceCoefficient("", ""))
	})

	t.Run("Should agree with the Sorensen-Dice bigram metric", func(t *testing.T) {
		dice := &metrics.SorensenDice{CaseSensitive: true, NgramSize: 2}
		pairs := [][2]string{
			{"night", "nacht"},
			{"refund", "tellmeaboutyourrefundwindow"},
			{"pricing", "pricingplan"},
		}
		for _, p := range pairs {
			assert.Equal(t, strutil.Similarity(p[0], p[1], dice), DiceCoefficient(p[0], p[1]), "%q vs %q", p[0], p[1])
		}
	})
}
