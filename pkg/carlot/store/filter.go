package store

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nekruzvatanshoev/carlot/pkg/carlot/apperr"
	"github.com/nekruzvatanshoev/carlot/pkg/carlot/dal"
)

// Filter restricts FindAll to records whose fields equal every non-empty
// value. Only these fields can be filtered on.
type Filter struct {
	Make             string
	Model            string
	Size             string
	Style            string
	TransmissionType string
	ReleaseDate      string
}

var filterFields = map[string]func(*Filter) *string{
	"make":              func(f *Filter) *string { return &f.Make },
	"model":             func(f *Filter) *string { return &f.Model },
	"size":              func(f *Filter) *string { return &f.Size },
	"style":             func(f *Filter) *string { return &f.Style },
	"transmission_type": func(f *Filter) *string { return &f.TransmissionType },
	"release_date":      func(f *Filter) *string { return &f.ReleaseDate },
}

// ParseFilter builds a Filter from key/value pairs named after the JSON
// fields of a car. Unknown keys are rejected.
func ParseFilter(values map[string]string) (Filter, error) {
	var f Filter
	for key, value := range values {
		field, ok := filterFields[key]
		if !ok {
			return Filter{}, apperr.InvalidFilter(fmt.Sprintf("filter key %q is not supported, use one of: %s",
				key, strings.Join(FilterKeys(), ", ")))
		}
		*field(&f) = value
	}
	return f, nil
}

// FilterKeys lists the supported filter keys.
func FilterKeys() []string {
	keys := make([]string, 0, len(filterFields))
	for k := range filterFields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsEmpty reports whether the filter matches everything.
func (f Filter) IsEmpty() bool {
	return f == Filter{}
}

// Matches reports whether car satisfies f.
func (f Filter) Matches(car dal.Car) bool {
	return match(f.Make, car.Make) &&
		match(f.Model, car.Model) &&
		match(f.Size, car.Size) &&
		match(f.Style, car.Style) &&
		match(f.TransmissionType, car.TransmissionType) &&
		match(f.ReleaseDate, string(car.ReleaseDate))
}

// pairs returns the non-empty conditions keyed by stored field name.
func (f Filter) pairs() map[string]string {
	out := make(map[string]string)
	for key, field := range filterFields {
		if v := *field(&f); v != "" {
			out[key] = v
		}
	}
	return out
}

func match(want, got string) bool {
	return want == "" || want == got
}
