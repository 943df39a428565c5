// Package participation classifies every (year, sport) pair of the medal
// dataset by which genders won medals in it.
package participation

// Category says who won medals in a sport in a given year.
type Category int

// Categories. None means no medal record exists for the pair.
const (
	None Category = iota
	Women
	Men
	Both
)

// Heatmap codes. The values sit on a 0..1 scale so a stepped colour scale
// can map them directly.
const (
	codeWomen = 0.25
	codeMen   = 0.5
	codeBoth  = 1.0
)

// String returns the hover label used by the heatmap.
func (c Category) String() string {
	switch c {
	case Women:
		return "Women"
	case Men:
		return "Men"
	case Both:
		return "Both"
	default:
		return "None"
	}
}

// Code returns the heatmap value of c, or nil for None.
func (c Category) Code() *float64 {
	var v float64
	switch c {
	case Women:
		v = codeWomen
	case Men:
		v = codeMen
	case Both:
		v = codeBoth
	default:
		return nil
	}
	return &v
}

// categoryFromCode maps the encoded product back to a category.
func categoryFromCode(v float64) Category {
	switch v {
	case productBoth:
		return Both
	case productMen:
		return Men
	case productWomen:
		return Women
	default:
		return None
	}
}
