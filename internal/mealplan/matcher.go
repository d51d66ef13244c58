package mealplan

import (
	"math"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"mealplanner/internal/nutrition"
	"mealplanner/internal/recipes"
)

// DefaultTopK is how many of the closest recipes a pick is drawn from.
const DefaultTopK = 5

var targeted = nutrition.Targeted()

// Matcher picks a recipe close to a normalized goal, drawing uniformly from
// the K nearest for variety. Safe for concurrent use.
type Matcher struct {
	K int

	mu  sync.Mutex
	rng *rand.Rand
}

// NewMatcher builds a Matcher. A zero seed seeds from the clock.
func NewMatcher(k int, seed uint64) *Matcher {
	if k <= 0 {
		k = DefaultTopK
	}
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Matcher{K: k, rng: rand.New(rand.NewPCG(seed, seed>>1|1))}
}

// Distance is the Euclidean distance between the recipe's normalized values
// and the normalized goal over every targeted nutrient.
func Distance(r *recipes.Recipe, goal nutrition.Goal) float64 {
	var sum float64
	for _, n := range targeted {
		target, _ := goal.Target(n)
		d := r.Normalized(n) - target
		sum += d * d
	}
	return math.Sqrt(sum)
}

type ranked struct {
	index    int
	distance float64
}

// Nearest returns up to K candidates ordered by ascending distance. Ties keep
// catalog order.
func (m *Matcher) Nearest(candidates []recipes.Recipe, goal nutrition.Goal) []recipes.Recipe {
	scored := make([]ranked, len(candidates))
	for i := range candidates {
		scored[i] = ranked{index: i, distance: Distance(&candidates[i], goal)}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].distance < scored[j].distance
	})
	if len(scored) > m.K {
		scored = scored[:m.K]
	}
	out := make([]recipes.Recipe, 0, len(scored))
	for _, s := range scored {
		out = append(out, candidates[s.index])
	}
	return out
}

// FindOptimal picks one of the nearest candidates. ok is false when there are none.
func (m *Matcher) FindOptimal(candidates []recipes.Recipe, goal nutrition.Goal) (recipes.Recipe, bool) {
	nearest := m.Nearest(candidates, goal)
	if len(nearest) == 0 {
		return recipes.Recipe{}, false
	}
	m.mu.Lock()
	pick := m.rng.IntN(len(nearest))
	m.mu.Unlock()
	return nearest[pick], true
}
