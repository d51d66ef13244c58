package mealplan

import (
	"fmt"
	"strings"

	"mealplanner/internal/nutrition"
)

// Validate checks the request shape before planning.
func (r Request) Validate() error {
	if len(r.Meals) == 0 {
		return fmt.Errorf("%w: meals must not be empty", ErrInvalidInput)
	}
	if r.Goals != nil {
		for _, n := range nutrition.Targeted() {
			if v, _ := r.Goals.Target(n); v < 0 {
				return fmt.Errorf("%w: goal for %s must not be negative", ErrInvalidInput, n)
			}
		}
	}
	for _, meal := range r.Meals {
		if strings.TrimSpace(meal.Name) == "" {
			return fmt.Errorf("%w: meal name is required", ErrInvalidInput)
		}
		for _, n := range nutrition.Targeted() {
			if v, _ := meal.Percent(n); v < 0 || v > 1 {
				return fmt.Errorf("%w: meal %q %s share must be between 0 and 1", ErrInvalidInput, meal.Name, n)
			}
		}
	}
	return nil
}
