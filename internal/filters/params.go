// Package filters extracts typed filter values from URL query parameters.
package filters

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Kind is the type a parameter is parsed as.
type Kind int

const (
	String Kind = iota
	Number
	Float
	StringList
)

// Definition describes one query parameter. Default is used when the
// parameter is absent or unparsable and must match Kind. Max, when set,
// rejects larger Number and Float values.
type Definition struct {
	Kind    Kind
	Default any
	Max     *float64
}

// MaxOf returns a pointer for Definition.Max.
func MaxOf(v float64) *float64 {
	return &v
}

// Values holds extracted parameters keyed by name.
type Values map[string]any

// Extract parses query according to defs. Parameters that are missing,
// invalid or above their maximum fall back to their default and are left
// out when there is none. StringList parameters accept repeated keys as well
// as comma separated values.
func Extract(query url.Values, defs map[string]Definition) Values {
	values := make(Values, len(defs))

	for key, def := range defs {
		var v any
		raw := strings.TrimSpace(query.Get(key))

		switch def.Kind {
		case String:
			if raw != "" {
				v = raw
			}
		case Number:
			if n, err := strconv.Atoi(raw); err == nil && withinMax(float64(n), def.Max) {
				v = n
			}
		case Float:
			if f, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) && withinMax(f, def.Max) {
				v = f
			}
		case StringList:
			if list := splitList(query[key]); len(list) > 0 {
				v = list
			}
		}

		if v == nil {
			v = def.Default
		}
		if v != nil {
			values[key] = v
		}
	}

	return values
}

func withinMax(v float64, max *float64) bool {
	return max == nil || v <= *max
}

func splitList(raw []string) []string {
	var list []string
	for _, r := range raw {
		for _, part := range strings.Split(r, ",") {
			if part = strings.TrimSpace(part); part != "" {
				list = append(list, part)
			}
		}
	}
	return list
}

// String returns a String parameter.
func (v Values) String(key string) (string, bool) {
	s, ok := v[key].(string)
	return s, ok
}

// Int returns a Number parameter.
func (v Values) Int(key string) (int, bool) {
	n, ok := v[key].(int)
	return n, ok
}

// Float returns a Float parameter.
func (v Values) Float(key string) (float64, bool) {
	f, ok := v[key].(float64)
	return f, ok
}

// Strings returns a StringList parameter.
func (v Values) Strings(key string) ([]string, bool) {
	s, ok := v[key].([]string)
	return s, ok
}

// Encode turns values back into query parameters. Empty strings and empty
// lists are skipped.
func Encode(values Values) url.Values {
	query := url.Values{}
	for key, value := range values {
		switch v := value.(type) {
		case string:
			if v != "" {
				query.Set(key, v)
			}
		case int:
			query.Set(key, strconv.Itoa(v))
		case float64:
			query.Set(key, strconv.FormatFloat(v, 'f', -1, 64))
		case []string:
			if len(v) > 0 {
				query.Set(key, strings.Join(v, ","))
			}
		}
	}
	return query
}
