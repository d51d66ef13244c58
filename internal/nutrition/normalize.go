package nutrition

import "math"

// Normalize maps a raw nutrient total into [0,1] using catalog bounds.
// The value is divided by servings first; max == min yields 0.
func Normalize(raw, max, min float64, servings int) float64 {
	if max == min {
		return 0
	}
	return (PerServing(raw, servings) - min) / (max - min)
}

// PerServing divides a total by its serving count. Non-positive counts are treated as one serving.
func PerServing(raw float64, servings int) float64 {
	if servings <= 0 {
		return raw
	}
	return raw / float64(servings)
}

// Bounds holds per-serving min and max values for every nutrient across a catalog.
// The zero value is empty; Min and Max report 0 until a value is observed.
type Bounds struct {
	min  [Count]float64
	max  [Count]float64
	seen bool
}

// Observe widens the bounds for n to include the per-serving value.
func (b *Bounds) Observe(n Nutrient, perServing float64) {
	if math.IsNaN(perServing) {
		return
	}
	if !b.seen {
		for i := 0; i < Count; i++ {
			b.min[i] = math.Inf(1)
			b.max[i] = math.Inf(-1)
		}
		b.seen = true
	}
	if perServing < b.min[n] {
		b.min[n] = perServing
	}
	if perServing > b.max[n] {
		b.max[n] = perServing
	}
}

// Empty reports whether no value was observed.
func (b Bounds) Empty() bool {
	return !b.seen
}

// Min returns the smallest per-serving value observed for n.
func (b Bounds) Min(n Nutrient) float64 {
	if !b.seen || math.IsInf(b.min[n], 0) {
		return 0
	}
	return b.min[n]
}

// Max returns the largest per-serving value observed for n.
func (b Bounds) Max(n Nutrient) float64 {
	if !b.seen || math.IsInf(b.max[n], 0) {
		return 0
	}
	return b.max[n]
}

// Scale normalizes a raw total for n against these bounds.
func (b Bounds) Scale(n Nutrient, raw float64, servings int) float64 {
	return Normalize(raw, b.Max(n), b.Min(n), servings)
}

// Merge returns bounds covering both b and other.
func (b Bounds) Merge(other Bounds) Bounds {
	if !other.seen {
		return b
	}
	if !b.seen {
		return other
	}
	out := b
	for i := 0; i < Count; i++ {
		out.min[i] = math.Min(b.min[i], other.min[i])
		out.max[i] = math.Max(b.max[i], other.max[i])
	}
	return out
}
