package dataprocessing

import (
	"regexp"
	"strings"
)

var (
	camelBoundary = regexp.MustCompile(`(.)([A-Z][a-z]+)`)
	lowerUpper    = regexp.MustCompile(`([a-z0-9])([A-Z])`)
)

// toSnakeCase converts a CamelCase name to snake_case. Acronym runs split at
// the upper/lower boundary, so "AnimalID" becomes "animal_id" and "DateTime"
// becomes "date_time". Already-snake_case input passes through unchanged.
func toSnakeCase(name string) string {
	name = camelBoundary.ReplaceAllString(name, "${1}_${2}")
	name = lowerUpper.ReplaceAllString(name, "${1}_${2}")
	return strings.ToLower(name)
}

// NormalizeColumnName converts a source header into the canonical
// snake_case form. The shelter data provider writes "upon" in lowercase
// inside otherwise-CamelCase headers ("AgeuponOutcome"), so that fragment is
// promoted before the case split.
func NormalizeColumnName(name string) string {
	return toSnakeCase(strings.ReplaceAll(name, "upon", "Upon"))
}
