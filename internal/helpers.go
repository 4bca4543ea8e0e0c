package internal

import "strconv"

// ContextValue returns the value stored under key with Set, or the zero T
// when it is missing or of another type.
func ContextValue[T any](c Context, key any) T {
	v, _ := c.Get(key).(T)
	return v
}

// QueryValue is the set of types Query can parse.
type QueryValue interface {
	~string | ~int | ~int64 | ~float64 | ~bool
}

// Query parses the query parameter name as T. A missing or malformed value
// yields the zero T.
func Query[T QueryValue](c Context, name string) T {
	v, _ := parseQuery[T](c.Query(name))
	return v
}

func parseQuery[T QueryValue](raw string) (T, bool) {
	var out T
	if raw == "" {
		return out, false
	}

	var (
		parsed any
		err    error
	)
	switch any(out).(type) {
	case string:
		parsed = raw
	case int:
		parsed, err = strconv.Atoi(raw)
	case int64:
		parsed, err = strconv.ParseInt(raw, 10, 64)
	case float64:
		parsed, err = strconv.ParseFloat(raw, 64)
	case bool:
		parsed, err = strconv.ParseBool(raw)
	default:
		return out, false
	}
	if err != nil {
		return out, false
	}
	return parsed.(T), true
}
