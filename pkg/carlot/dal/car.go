package dal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Car defines a car listing record
type Car struct {
	ID               string      `json:"id,omitempty"`
	Make             string      `json:"make" validate:"required"`
	Model            string      `json:"model" validate:"required"`
	Price            float64     `json:"price" validate:"required"`
	ReleaseDate      ReleaseDate `json:"release_date" validate:"required"`
	Size             string      `json:"size" validate:"required"`
	Style            string      `json:"style" validate:"required"`
	TransmissionType string      `json:"transmission_type" validate:"required"`
	IsDeleted        bool        `json:"isDeleted"`
}

// Listing returns a copy of c holding only the listing fields, without the
// identifier and the soft-delete flag.
func (c Car) Listing() Car {
	c.ID = ""
	c.IsDeleted = false
	return c
}

// ReleaseDate is the model year of a car. Clients send it either as a JSON
// number or a JSON string, so it is kept as text.
type ReleaseDate string

// UnmarshalJSON accepts a JSON string, a JSON number, null or false. A
// numeric zero, null and false decode to an empty date, which validation
// reports as missing.
func (d *ReleaseDate) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) || bytes.Equal(data, []byte("false")) {
		*d = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = ReleaseDate(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("release_date must be a string or a number: %w", err)
	}
	if f, err := n.Float64(); err == nil && f == 0 {
		*d = ""
		return nil
	}
	*d = ReleaseDate(n.String())
	return nil
}

// MarshalJSON writes integer years as numbers and everything else as strings.
func (d ReleaseDate) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(d), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(d) {
		return []byte(d), nil
	}
	return json.Marshal(string(d))
}

// CarResponse defines the HTTP response body of the list endpoint
type CarResponse struct {
	Message string `json:"message"`
	Cars    []Car  `json:"cars"`
	Page    int    `json:"page"`
	Total   int    `json:"total"`
}
