// Package model contains the medal dataset and the filter state passed between layers.
package model

import (
	"fmt"
	"strings"
)

// Gender is the competition category of a medal record.
type Gender string

// Genders present in the dataset.
const (
	Men   Gender = "Men"
	Women Gender = "Women"
)

// Genders lists the categories in display order.
var Genders = []Gender{Men, Women}

// ParseGender maps a dataset value onto a Gender, ignoring case and surrounding space.
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "men":
		return Men, nil
	case "women":
		return Women, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownGender, s)
}

// MedalRecord is one athlete's medal in one event of one Games.
type MedalRecord struct {
	Year    int
	Country string
	Athlete string
	Sport   string
	Gender  Gender
	Medal   string // presence marker; any non-empty value counts
}

// HasMedal reports whether the record carries a medal marker.
func (r MedalRecord) HasMedal() bool {
	return strings.TrimSpace(r.Medal) != ""
}
