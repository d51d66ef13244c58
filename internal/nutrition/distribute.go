package nutrition

// exhausted is the remaining share below which a meal gets nothing.
const exhausted = 1e-9

// Redistribute rewrites each meal's shares in place so every share is relative
// to what the earlier meals leave over, not to the whole day. Meals are
// processed in slice order; the last meal always takes everything remaining.
//
// A share that would exceed the remainder is capped at 1, and a meal reached
// after earlier meals already claimed the whole day gets 0.
func Redistribute(meals []*Percentages) {
	if len(meals) == 0 {
		return
	}
	last := len(meals) - 1
	for _, f := range targetFields {
		consumed := 0.0
		for i, meal := range meals {
			share := f.percent(meal)
			original := *share
			if i == last {
				*share = 1
				break
			}
			*share = relativeShare(original, 1-consumed)
			consumed += original
		}
	}
}

func relativeShare(original, remaining float64) float64 {
	if remaining <= exhausted {
		return 0
	}
	share := original / remaining
	switch {
	case share < 0:
		return 0
	case share > 1:
		return 1
	default:
		return share
	}
}
