package models

// Category is the closed set of expense categories. The extraction prompt and
// the budget table both use these labels verbatim.
type Category string

const (
	CategoryFood          Category = "Food"
	CategoryTransport     Category = "Transport"
	CategoryShopping      Category = "Shopping"
	CategoryHealth        Category = "Health"
	CategoryEntertainment Category = "Entertainment"
	CategoryBills         Category = "Bills"
	CategoryGroceries     Category = "Groceries"
	CategoryOthers        Category = "Others"
)

// AllCategories lists every valid category, in display order.
var AllCategories = []Category{
	CategoryFood,
	CategoryTransport,
	CategoryShopping,
	CategoryHealth,
	CategoryEntertainment,
	CategoryBills,
	CategoryGroceries,
	CategoryOthers,
}

// NormalizeCategory maps free text onto the closed set, falling back to Others.
func NormalizeCategory(s string) Category {
	for _, c := range AllCategories {
		if string(c) == s {
			return c
		}
	}
	return CategoryOthers
}
