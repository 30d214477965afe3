// file: internal/fuzzy/filter.go
// version: 1.1.0
// guid: c5d09e27-3b68-41fa-9d14-7e2a8f6c0b53

// Package fuzzy implements the sequential-match filter used to narrow
// entity lists as the user types. Filter characters must appear in a
// candidate in order, with skips allowed; surviving items are ranked by
// match quality and can carry marker-decorated fragments for highlighting.
package fuzzy

import "sort"

// Item is one scorable entry in a filterable list. The engine owns only
// Score and DecoratedStrings; Strings and Payload belong to the caller.
// After a filter pass, Score is non-nil if and only if at least one alias
// matched.
type Item struct {
	// Strings are the aliases the item can be matched by, in display order.
	Strings []string
	// Score is the best score across aliases, nil when nothing matched.
	Score *int
	// DecoratedStrings holds one fragment group per alias when a Decorator
	// was supplied, in the same order as Strings.
	DecoratedStrings [][]string
	// Payload is an opaque caller value carried through filtering.
	Payload any
}

// MatchItem scores filter against every alias of item and stores the best
// result on the item. It reports false, leaving Score nil, when no alias
// matches.
//
// A best score of exactly zero is remapped to one before being stored:
// downstream consumers treat a zero score as "no match", and a legitimately
// weak match must not be dropped by that convention. Do not remove the
// remap without auditing every caller that tests Score for zero.
//
// When dec is non-nil, every alias gets a decorated fragment group,
// non-matching aliases included (those render unhighlighted).
func MatchItem(filter string, item *Item, dec Decorator) bool {
	item.Score = nil
	item.DecoratedStrings = nil

	best := 0
	found := false
	var groups [][]string
	if dec != nil {
		groups = make([][]string, 0, len(item.Strings))
	}

	for _, alias := range item.Strings {
		res, ok := Score(filter, alias)
		if ok && (!found || res.Score > best) {
			best = res.Score
			found = true
		}
		if dec != nil {
			if ok {
				groups = append(groups, dec(alias, res.Ranges))
			} else {
				groups = append(groups, dec(alias, nil))
			}
		}
	}

	if !found {
		return false
	}
	if best == 0 {
		best = 1
	}
	item.Score = &best
	if dec != nil {
		item.DecoratedStrings = groups
	}
	return true
}

// FilterAndRank scores every item in place, drops the ones with no match,
// and returns the survivors ordered by descending score. The sort is
// stable, so equal scores keep their input order, but no secondary key is
// applied. The returned slice shares item pointers with the input.
//
// Each call recomputes everything from scratch; the expected usage is one
// pass per keystroke over lists whose aliases are tens of characters long.
func FilterAndRank(filter string, items []*Item, dec Decorator) []*Item {
	matched := make([]*Item, 0, len(items))
	for _, item := range items {
		if MatchItem(filter, item, dec) {
			matched = append(matched, item)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return *matched[i].Score > *matched[j].Score
	})
	return matched
}
