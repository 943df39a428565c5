package model

import "strings"

// CountryOption is one entry of the country dropdown.
type CountryOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// CountryLabel turns a dataset identifier into its display form ("United_States" -> "United States").
func CountryLabel(value string) string {
	return strings.ReplaceAll(value, "_", " ")
}

// CountryOptions builds dropdown options for the dataset's countries, sorted by value.
func CountryOptions(ds *Dataset) []CountryOption {
	countries := ds.Countries()
	out := make([]CountryOption, len(countries))
	for i, c := range countries {
		out[i] = CountryOption{Label: CountryLabel(c), Value: c}
	}
	return out
}
