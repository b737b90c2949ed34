package domain

// Tier is the quality grade assigned to a non-book move.
type Tier string

const (
	TierNone      Tier = ""
	TierGood      Tier = "good"
	TierExcellent Tier = "excellent"
	TierBrilliant Tier = "brilliant"
)

// Category is what a summary stat or navigation request refers to: one of the
// three tiers, or book moves.
type Category string

const (
	CategoryBrilliant Category = "brilliant"
	CategoryExcellent Category = "excellent"
	CategoryGood      Category = "good"
	CategoryBook      Category = "book"
)

// Categories lists the summary order.
var Categories = []Category{CategoryBrilliant, CategoryExcellent, CategoryGood, CategoryBook}

type style struct {
	class  string
	symbol string
	title  string
	color  string
}

// The user-facing names are shifted one step down from the internal ones:
// excellent is shown as "Good move" and good as "Interesting move".
var styles = map[Category]style{
	CategoryBrilliant: {class: "brilliant", symbol: "!!", title: "Brilliant move", color: "#1baca6"},
	CategoryExcellent: {class: "good", symbol: "!", title: "Good move", color: "#96bc4b"},
	CategoryGood:      {class: "interesting", symbol: "!?", title: "Interesting move", color: "#b2f196"},
	CategoryBook:      {class: "book", symbol: "Book", color: "#a88865"},
}

func (t Tier) Category() (Category, bool) {
	switch t {
	case TierBrilliant:
		return CategoryBrilliant, true
	case TierExcellent:
		return CategoryExcellent, true
	case TierGood:
		return CategoryGood, true
	default:
		return "", false
	}
}

func (c Category) Class() string  { return styles[c].class }
func (c Category) Symbol() string { return styles[c].symbol }
func (c Category) Title() string  { return styles[c].title }
func (c Category) Color() string  { return styles[c].color }

func (c Category) Valid() bool {
	_, ok := styles[c]
	return ok
}

func ParseCategory(s string) (Category, bool) {
	c := Category(s)
	if c.Valid() {
		return c, true
	}
	return "", false
}

// TierClasses are the move classes written for tiered moves.
func TierClasses() []string {
	return []string{
		CategoryBrilliant.Class(),
		CategoryExcellent.Class(),
		CategoryGood.Class(),
	}
}

// GlyphTitles are the tooltips of glyphs this program inserts.
func GlyphTitles() []string {
	return []string{
		CategoryBrilliant.Title(),
		CategoryExcellent.Title(),
		CategoryGood.Title(),
	}
}
