package recipes

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"
)

// MatchMode selects how ingredient coverage is measured.
type MatchMode string

const (
	// MatchFast intersects structured ingredient parts with the query.
	MatchFast MatchMode = "fast"
	// MatchFuzzy matches query patterns against free-text ingredient lines.
	MatchFuzzy MatchMode = "fuzzy"
)

// DefaultMatchPercent is the coverage threshold when a query sets none.
const DefaultMatchPercent = 55

// ParseMatchMode maps a config value to a MatchMode, defaulting to MatchFast.
func ParseMatchMode(raw string) MatchMode {
	if strings.EqualFold(strings.TrimSpace(raw), string(MatchFuzzy)) {
		return MatchFuzzy
	}
	return MatchFast
}

// normalizeTerms lowercases, trims and dedupes terms, keeping first-seen order.
func normalizeTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	seen := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		key := strings.ToLower(strings.TrimSpace(t))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}

func termSet(terms []string) map[string]struct{} {
	set := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		if key := strings.ToLower(strings.TrimSpace(t)); key != "" {
			set[key] = struct{}{}
		}
	}
	return set
}

func countIn(set map[string]struct{}, query []string) int {
	n := 0
	for _, q := range query {
		if _, ok := set[q]; ok {
			n++
		}
	}
	return n
}

// FilterByKeywords keeps recipes whose keywords contain every query keyword.
// An empty query keeps everything.
func FilterByKeywords(recipes []Recipe, keywords []string) []Recipe {
	query := normalizeTerms(keywords)
	if len(query) == 0 {
		return recipes
	}
	out := make([]Recipe, 0, len(recipes))
	for _, r := range recipes {
		if countIn(termSet(r.Keywords), query) == len(query) {
			out = append(out, r)
		}
	}
	return out
}

// FilterByMustInclude keeps recipes whose ingredient parts contain every query ingredient.
func FilterByMustInclude(recipes []Recipe, ingredients []string) []Recipe {
	query := normalizeTerms(ingredients)
	if len(query) == 0 {
		return recipes
	}
	out := make([]Recipe, 0, len(recipes))
	for _, r := range recipes {
		if countIn(termSet(r.IngredientParts), query) == len(query) {
			out = append(out, r)
		}
	}
	return out
}

// FilterByMustExclude drops recipes whose ingredient parts contain any query ingredient.
func FilterByMustExclude(recipes []Recipe, ingredients []string) []Recipe {
	query := normalizeTerms(ingredients)
	if len(query) == 0 {
		return recipes
	}
	out := make([]Recipe, 0, len(recipes))
	for _, r := range recipes {
		if countIn(termSet(r.IngredientParts), query) == 0 {
			out = append(out, r)
		}
	}
	return out
}

// ExcludeIDs drops recipes whose id is in ids.
func ExcludeIDs(recipes []Recipe, ids []int) []Recipe {
	if len(ids) == 0 {
		return recipes
	}
	skip := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		skip[id] = struct{}{}
	}
	out := make([]Recipe, 0, len(recipes))
	for _, r := range recipes {
		if _, ok := skip[r.ID]; !ok {
			out = append(out, r)
		}
	}
	return out
}

// MatchPercentage returns how many query ingredients appear in the recipe's
// ingredient parts, as a percentage of its free-text ingredient line count.
// Recipes without ingredient lines score 0.
func MatchPercentage(r Recipe, query []string) float64 {
	return coverage(countIn(termSet(r.IngredientParts), normalizeTerms(query)), len(r.IngredientsRaw))
}

func coverage(matched, lines int) float64 {
	if lines == 0 {
		return 0
	}
	return float64(matched) / float64(lines) * 100
}

// IngredientMatcher keeps recipes whose ingredient coverage of a query reaches a
// threshold. Work is split into chunks evaluated in parallel.
type IngredientMatcher struct {
	Mode    MatchMode
	Workers int
}

// Filter returns the recipes whose coverage of query is at least percent,
// preserving input order.
func (m IngredientMatcher) Filter(ctx context.Context, recipes []Recipe, query []string, percent float64) ([]Recipe, error) {
	terms := normalizeTerms(query)
	if len(terms) == 0 || len(recipes) == 0 {
		return recipes, nil
	}

	score, err := m.scorer(terms)
	if err != nil {
		return nil, err
	}

	workers := m.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	chunkSize := (len(recipes) + workers - 1) / workers
	chunks := (len(recipes) + chunkSize - 1) / chunkSize
	kept := make([][]Recipe, chunks)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < chunks; i++ {
		start := i * chunkSize
		end := min(start+chunkSize, len(recipes))
		g.Go(func() error {
			out := make([]Recipe, 0, end-start)
			for _, r := range recipes[start:end] {
				if err := gctx.Err(); err != nil {
					return err
				}
				if score(r) >= percent {
					out = append(out, r)
				}
			}
			kept[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("filter by ingredient match: %w", err)
	}

	out := make([]Recipe, 0, len(recipes))
	for _, chunk := range kept {
		out = append(out, chunk...)
	}
	return out, nil
}

func (m IngredientMatcher) scorer(terms []string) (func(Recipe) float64, error) {
	if m.Mode != MatchFuzzy {
		return func(r Recipe) float64 {
			return coverage(countIn(termSet(r.IngredientParts), terms), len(r.IngredientsRaw))
		}, nil
	}
	compiled, err := compilePatterns(IngredientPatterns(terms))
	if err != nil {
		return nil, err
	}
	return func(r Recipe) float64 {
		matched := 0
		for _, term := range terms {
			if compiled[term].matchesAny(r.IngredientsRaw) {
				matched++
			}
		}
		return coverage(matched, len(r.IngredientsRaw))
	}, nil
}
