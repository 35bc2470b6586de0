// README: Category panel model: the fixed set of configurable trip-parameter panels.
package panel

import "errors"

type Category string

const (
	CategoryNone            Category = ""
	CategoryDates           Category = "Dates"
	CategoryLocation        Category = "Location"
	CategoryBudget          Category = "Budget"
	CategoryTravelers       Category = "Travelers"
	CategoryActivities      Category = "Activities"
	CategoryMealPreferences Category = "Meal Preferences"
)

// Categories lists the panels in the order the category bar shows them.
var Categories = []Category{
	CategoryDates,
	CategoryLocation,
	CategoryBudget,
	CategoryTravelers,
	CategoryActivities,
	CategoryMealPreferences,
}

var ErrUnknownCategory = errors.New("unknown category")

func Parse(name string) (Category, error) {
	for _, c := range Categories {
		if string(c) == name {
			return c, nil
		}
	}
	return CategoryNone, ErrUnknownCategory
}
