package handlers

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type queryError struct {
	param string
	msg   string
}

func (e *queryError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.param, e.msg)
}

func queryInt(q url.Values, name string) (*int, error) {
	s := q.Get(name)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, &queryError{name, "must be an integer"}
	}
	return &v, nil
}

func queryFloat(q url.Values, name string) (*float64, error) {
	s := q.Get(name)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, &queryError{name, "must be a number"}
	}
	return &v, nil
}

func queryBool(q url.Values, name string) (*bool, error) {
	s := q.Get(name)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return nil, &queryError{name, "must be true or false"}
	}
	return &v, nil
}

// queryTime accepts RFC3339 timestamps or plain dates. Dates are read in the
// dashboard's location.
func queryTime(q url.Values, name string) (*time.Time, error) {
	s := q.Get(name)
	if s == "" {
		return nil, nil
	}

	// Reverse the substitution from + for space in the date parameters, otherwise
	// time.Parse will fail with an error.
	// Example: 2025-07-03T17:44:03+02:00 becomes 2025-07-03T17:44:03 02:00 on r.URL.Query().Get()
	if n := len(s); n > len(time.DateOnly)+6 && s[n-6] == ' ' && s[n-3] == ':' {
		s = s[:len(s)-6] + "+" + s[len(s)-5:]
	}

	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return &ts, nil
	}
	if ts, err := time.ParseInLocation(time.DateOnly, s, location); err == nil {
		return &ts, nil
	}
	return nil, &queryError{name, "must be RFC3339 or YYYY-MM-DD"}
}

// pagination reads offset and limit, rejecting non-positive limits and
// negative offsets.
func pagination(q url.Values) (offset, limit *int, err error) {
	if limit, err = queryInt(q, "limit"); err != nil {
		return nil, nil, err
	}
	if limit != nil && *limit <= 0 {
		return nil, nil, &queryError{"limit", "must be greater than zero"}
	}
	if offset, err = queryInt(q, "offset"); err != nil {
		return nil, nil, err
	}
	if offset != nil && *offset < 0 {
		return nil, nil, &queryError{"offset", "must be zero or positive"}
	}
	return offset, limit, nil
}

// boundedInt reads an optional positive integer, applying def when absent and
// capping at max.
func boundedInt(q url.Values, name string, def, max int) (int, error) {
	v, err := queryInt(q, name)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return def, nil
	}
	if *v <= 0 {
		return 0, &queryError{name, "must be greater than zero"}
	}
	return min(*v, max), nil
}

func normalise(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
