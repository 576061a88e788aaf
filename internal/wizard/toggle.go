package wizard

import "slices"

// ToggleOption applies a click on v. Multi-select toggles membership,
// single-select replaces the whole value.
func ToggleOption(values []string, v string, multiple bool) []string {
	if !multiple {
		return []string{v}
	}
	if i := slices.Index(values, v); i >= 0 {
		return slices.Delete(slices.Clone(values), i, i+1)
	}
	return append(slices.Clone(values), v)
}

// ToggleRank applies a click on item. A ranked item is removed and the ranks
// below it move up. An unranked item is appended while there is room.
func ToggleRank(ranked []string, item string, slots int) []string {
	if i := slices.Index(ranked, item); i >= 0 {
		return slices.Delete(slices.Clone(ranked), i, i+1)
	}
	if len(ranked) >= slots {
		return slices.Clone(ranked)
	}
	return append(slices.Clone(ranked), item)
}

// Rank returns the 1-based rank of item, or 0 if unranked.
func Rank(ranked []string, item string) int {
	return slices.Index(ranked, item) + 1
}

// ToggleChecklist toggles item. With maxAllowed > 0, checking a new item
// once the cap is reached does nothing.
func ToggleChecklist(checked []string, item string, maxAllowed int) []string {
	if i := slices.Index(checked, item); i >= 0 {
		return slices.Delete(slices.Clone(checked), i, i+1)
	}
	if maxAllowed > 0 && len(checked) >= maxAllowed {
		return slices.Clone(checked)
	}
	return append(slices.Clone(checked), item)
}
