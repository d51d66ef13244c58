package nutrition

// Nutrient identifies one of the nutrient totals tracked per recipe.
type Nutrient int

const (
	Calories Nutrient = iota
	Fat
	SaturatedFat
	Cholesterol
	Sodium
	Carbohydrate
	Fiber
	Sugar
	Protein

	// Count is the number of tracked nutrients.
	Count int = iota
)

// All lists every tracked nutrient in a stable order.
var All = []Nutrient{Calories, Fat, SaturatedFat, Cholesterol, Sodium, Carbohydrate, Fiber, Sugar, Protein}

var nutrientNames = [...]string{
	Calories:     "calories",
	Fat:          "fat",
	SaturatedFat: "saturatedFat",
	Cholesterol:  "cholesterol",
	Sodium:       "sodium",
	Carbohydrate: "carbohydrate",
	Fiber:        "fiber",
	Sugar:        "sugar",
	Protein:      "protein",
}

func (n Nutrient) String() string {
	if n < 0 || int(n) >= Count {
		return "unknown"
	}
	return nutrientNames[n]
}
