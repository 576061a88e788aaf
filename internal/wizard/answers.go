package wizard

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Answers holds the values written by blocks, keyed by block id. A value is
// either a string or a []string. Empty values are never stored.
type Answers map[string]any

// String returns the answer as a string. Lists are joined with ", ".
func (a Answers) String(id string) string {
	switch v := a[id].(type) {
	case string:
		return v
	case []string:
		return strings.Join(v, ", ")
	}
	return ""
}

// Strings returns the answer as a list. A scalar becomes a one-element list.
func (a Answers) Strings(id string) []string {
	switch v := a[id].(type) {
	case string:
		return []string{v}
	case []string:
		return slices.Clone(v)
	}
	return nil
}

// Has reports whether id has a non-empty answer.
func (a Answers) Has(id string) bool {
	_, ok := a[id]
	return ok
}

// Set stores v under id, normalising JSON-decoded lists. Blank strings and
// empty lists delete the answer.
func (a Answers) Set(id string, v any) {
	switch val := v.(type) {
	case nil:
		delete(a, id)
	case string:
		if strings.TrimSpace(val) == "" {
			delete(a, id)
			return
		}
		a[id] = val
	case []string:
		if len(val) == 0 {
			delete(a, id)
			return
		}
		a[id] = slices.Clone(val)
	case []any:
		list := make([]string, 0, len(val))
		for _, item := range val {
			list = append(list, fmt.Sprint(item))
		}
		a.Set(id, list)
	default:
		a.Set(id, fmt.Sprint(val))
	}
}

// Delete removes the answer for id.
func (a Answers) Delete(id string) {
	delete(a, id)
}

// Clone returns a deep copy.
func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		if list, ok := v.([]string); ok {
			v = slices.Clone(list)
		}
		out[k] = v
	}
	return out
}

// Keys returns the answered ids in sorted order.
func (a Answers) Keys() []string {
	return slices.Sorted(maps.Keys(a))
}
