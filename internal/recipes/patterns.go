package recipes

import (
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// modifierSuffixes are words that turn an ingredient into a different product,
// so "tomato" must not match "tomato sauce".
var modifierSuffixes = []string{
	"vinegar", "sauce", "paste", "powder", "juice", "oil", "syrup", "dressing",
	"cream", "butter", "flavor", "liqueur", "mix", "spread", "filling", "puree",
	"jam", "marmalade", "seed", "seeds", "starch", "stock", "broth",
}

const (
	soyMilkPattern    = `\bsoy\s*milk(s|es)?\b(?![a-zA-Z-])`
	soyBeanPattern    = `\bsoy\s*bean(s|es)?\b(?![a-zA-Z-])`
	soyPattern        = `\b(soymilk|soy|soybean|bean\s*sprouts)(s|es)?\b(?![a-zA-Z-])`
	corianderPattern  = `\b(cilantro|coriander)(s|es)?\b(?![a-zA-Z-])`
	pastaPattern      = `\b(spaghetti|spaghettini|linguine|pasta|pappardelle|rigatoni|rigaton|penne|fusilli|fettuccine|tagliatelle)(s|es)?\b(?![a-zA-Z-])`
	cannelloniPattern = `\b(spaghetti|spaghettini|linguine|pasta|pappardelle|rigatoni|rigaton|penne|fusilli|fettuccine|tagliatelle|cannelloni)(s|es)?\b(?![a-zA-Z-])`
)

// synonymPatterns override the generated pattern for ingredients that are
// commonly written under another name. Keys are lowercase.
var synonymPatterns = map[string]string{
	"soy milk":    soyMilkPattern,
	"soymilk":     soyMilkPattern,
	"soybean":     soyBeanPattern,
	"soy bean":    soyBeanPattern,
	"soy":         soyPattern,
	"cilantro":    corianderPattern,
	"coriander":   corianderPattern,
	"pasta":       pastaPattern,
	"linguine":    pastaPattern,
	"linguini":    pastaPattern,
	"spaghetti":   pastaPattern,
	"spaghettini": pastaPattern,
	"pappardelle": pastaPattern,
	"rigatoni":    pastaPattern,
	"rigaton":     pastaPattern,
	"penne":       pastaPattern,
	"fusilli":     pastaPattern,
	"fettuccine":  pastaPattern,
	"tagliatelle": pastaPattern,
	"cannelloni":  cannelloniPattern,
}

var modifierLookahead = buildModifierLookahead()

func buildModifierLookahead() string {
	escaped := make([]string, 0, len(modifierSuffixes))
	for _, s := range modifierSuffixes {
		escaped = append(escaped, regexp2.Escape(s))
	}
	return `(?!\s*(?:` + strings.Join(escaped, "|") + `)\b)`
}

// IngredientPattern returns the free-text pattern for one query ingredient.
// The pattern uses \b word boundaries and negative lookahead.
func IngredientPattern(ingredient string) string {
	key := strings.ToLower(strings.TrimSpace(ingredient))
	if p, ok := synonymPatterns[key]; ok {
		return p
	}
	return `\b` + regexp2.Escape(key) + modifierLookahead
}

// IngredientPatterns maps each distinct query ingredient to its pattern.
func IngredientPatterns(ingredients []string) map[string]string {
	out := make(map[string]string, len(ingredients))
	for _, ing := range normalizeTerms(ingredients) {
		out[ing] = IngredientPattern(ing)
	}
	return out
}

// PostgresPattern rewrites a pattern for the Postgres ARE engine, which spells
// word boundaries \y.
func PostgresPattern(pattern string) string {
	var b strings.Builder
	b.Grow(len(pattern))
	for i := 0; i < len(pattern); i++ {
		if pattern[i] == '\\' && i+1 < len(pattern) {
			next := pattern[i+1]
			if next == 'b' {
				b.WriteString(`\y`)
			} else {
				b.WriteByte('\\')
				b.WriteByte(next)
			}
			i++
			continue
		}
		b.WriteByte(pattern[i])
	}
	return b.String()
}

// AnyOf joins patterns into a single alternation.
func AnyOf(patterns []string) string {
	parts := make([]string, 0, len(patterns))
	for _, p := range patterns {
		parts = append(parts, "(?:"+p+")")
	}
	return strings.Join(parts, "|")
}

const patternTimeout = 250 * time.Millisecond

// compiledPattern matches free-text ingredient lines case-insensitively.
type compiledPattern struct {
	re *regexp2.Regexp
}

func compilePattern(pattern string) (compiledPattern, error) {
	re, err := regexp2.Compile(pattern, regexp2.IgnoreCase)
	if err != nil {
		return compiledPattern{}, fmt.Errorf("compile ingredient pattern %q: %w", pattern, err)
	}
	re.MatchTimeout = patternTimeout
	return compiledPattern{re: re}, nil
}

func (p compiledPattern) matchesAny(lines []string) bool {
	for _, line := range lines {
		ok, err := p.re.MatchString(line)
		if err == nil && ok {
			return true
		}
	}
	return false
}

func compilePatterns(patterns map[string]string) (map[string]compiledPattern, error) {
	out := make(map[string]compiledPattern, len(patterns))
	for ing, p := range patterns {
		c, err := compilePattern(p)
		if err != nil {
			return nil, err
		}
		out[ing] = c
	}
	return out, nil
}
