package core

import "fmt"

// Category classifies a transaction as a source of income or expense.
type Category string

const (
	CategoryTrading     Category = "trading"
	CategoryCombat      Category = "combat"
	CategoryExploration Category = "exploration"
	CategoryMissions    Category = "missions"
	CategoryMaintenance Category = "maintenance"
	CategoryUnknown     Category = "unknown"
)

// ScanOrder is the order in which categories are consulted when an event
// is classified.
var ScanOrder = []Category{
	CategoryTrading,
	CategoryCombat,
	CategoryExploration,
	CategoryMissions,
	CategoryMaintenance,
}

// TrackedCategories are the categories a user can switch on and off.
// Maintenance is not among them: maintenance costs always count.
var TrackedCategories = []Category{
	CategoryTrading,
	CategoryCombat,
	CategoryExploration,
	CategoryMissions,
}

func (c Category) String() string {
	return string(c)
}

// IsValid reports whether c is one of the rule table categories.
func (c Category) IsValid() bool {
	switch c {
	case CategoryTrading, CategoryCombat, CategoryExploration, CategoryMissions, CategoryMaintenance:
		return true
	default:
		return false
	}
}

// AlwaysTracked reports whether the category ignores the preference flags.
func (c Category) AlwaysTracked() bool {
	return c == CategoryMaintenance
}

// ParseCategory validates a category name from the rule table.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}

// CategoryFromStored maps a persisted category name back to a Category,
// keeping unrecognised names as CategoryUnknown so restored sums stay intact.
func CategoryFromStored(s string) Category {
	c := Category(s)
	if c.IsValid() {
		return c
	}
	return CategoryUnknown
}

// EnabledSet says which categories the classifier may evaluate.
type EnabledSet map[Category]bool

// Enabled reports whether transactions of c should be recorded.
func (e EnabledSet) Enabled(c Category) bool {
	if c.AlwaysTracked() {
		return true
	}
	return e[c]
}

// Any reports whether at least one user-switchable category is on.
func (e EnabledSet) Any() bool {
	for _, c := range TrackedCategories {
		if e[c] {
			return true
		}
	}
	return false
}
