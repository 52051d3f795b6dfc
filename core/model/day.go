package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Day identifies a service day. Sunday is not a service day.
type Day int

const (
	Monday Day = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// ServiceDays lists all service days in planning order.
var ServiceDays = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// String returns the canonical upper-case name of the day.
func (d Day) String() string {
	switch d {
	case Monday:
		return "MONDAY"
	case Tuesday:
		return "TUESDAY"
	case Wednesday:
		return "WEDNESDAY"
	case Thursday:
		return "THURSDAY"
	case Friday:
		return "FRIDAY"
	case Saturday:
		return "SATURDAY"
	default:
		return "unknown"
	}
}

// ParseDay converts a day name to a Day. Matching is case-insensitive.
func ParseDay(s string) (Day, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "MONDAY":
		return Monday, nil
	case "TUESDAY":
		return Tuesday, nil
	case "WEDNESDAY":
		return Wednesday, nil
	case "THURSDAY":
		return Thursday, nil
	case "FRIDAY":
		return Friday, nil
	case "SATURDAY":
		return Saturday, nil
	default:
		return 0, fmt.Errorf("invalid service day: %q", s)
	}
}

// MarshalJSON encodes the day as its canonical name.
func (d Day) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a day from its canonical name.
func (d *Day) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	day, err := ParseDay(s)
	if err != nil {
		return err
	}
	*d = day
	return nil
}
