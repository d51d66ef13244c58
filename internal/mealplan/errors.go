package mealplan

import "errors"

var ErrInvalidInput = errors.New("invalid meal plan request")
