package domain

type Counts struct {
	Book      int
	Good      int
	Excellent int
	Brilliant int
}

// Tally holds per-color counts for one pass.
type Tally struct {
	White Counts
	Black Counts
}

func (t *Tally) side(c Color) *Counts {
	if c == Black {
		return &t.Black
	}
	return &t.White
}

func (t *Tally) Add(c Color, cat Category) {
	s := t.side(c)
	switch cat {
	case CategoryBook:
		s.Book++
	case CategoryGood:
		s.Good++
	case CategoryExcellent:
		s.Excellent++
	case CategoryBrilliant:
		s.Brilliant++
	}
}

func (t Tally) Count(c Color, cat Category) int {
	s := t.side(c)
	switch cat {
	case CategoryBook:
		return s.Book
	case CategoryGood:
		return s.Good
	case CategoryExcellent:
		return s.Excellent
	case CategoryBrilliant:
		return s.Brilliant
	default:
		return 0
	}
}

func (c Counts) Total() int {
	return c.Book + c.Good + c.Excellent + c.Brilliant
}
