package domain

// Category is a top-level campaign grouping.
type Category struct {
	ID   string
	Name string
}

// SubCategory is always scoped to exactly one category.
type SubCategory struct {
	ID         string
	CategoryID string
	Name       string
}
