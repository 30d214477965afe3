// file: internal/fuzzy/score.go
// version: 1.0.0
// guid: 3e7a1c9b-4d2f-48a6-b1e5-9c0d7f2a6b38

package fuzzy

import "unicode"

// Range is a half-open byte range [Start, End) into the original candidate
// string. Ranges returned by Score are sorted, disjoint, and cover exactly
// the characters consumed by the match.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Result is the outcome of matching a filter against one candidate string.
// A boundary-anchored match scores strictly positive, a match that can only
// start mid-word scores strictly negative, and an empty filter scores zero.
type Result struct {
	Score  int     `json:"score"`
	Ranges []Range `json:"ranges,omitempty"`
}

// matchBonus applies to characters matched at a word beginning or inside a
// consecutive run; weakMatchBonus to mid-word characters reached over a
// gap. gapPenalty must not exceed weakMatchBonus (keeps boundary-anchored
// scores strictly positive) and matchBonus-gapPenalty must stay below
// matchBonus (keeps an exact match above any gapped one).
const (
	matchBonus     = 4
	weakMatchBonus = 1
	firstCharBonus = 2
	fullMatchBonus = 2
	gapPenalty     = 1
)

// Score determines whether every character of filter appears in candidate in
// the same relative order, case-insensitively, with arbitrary skips between
// matched characters. It returns the match quality and the matched ranges,
// or ok=false when the filter is not a subsequence of the candidate.
//
// Matching prefers runs anchored at word beginnings (start of string, after
// a separator, a camelCase hump, or a letter-to-digit transition). When such
// an anchored match exists, or the leftmost possible match starts on a word
// beginning, the score is strictly positive; otherwise it is strictly
// negative. Tighter matches score higher either way. An empty filter matches
// everything with a score of exactly zero and no ranges.
func Score(filter, candidate string) (Result, bool) {
	if filter == "" {
		return Result{}, true
	}

	cand := []rune(candidate)
	if len(filter) > 0 && len(cand) == 0 {
		return Result{}, false
	}

	candLower := make([]rune, len(cand))
	offs := make([]int, len(cand)+1)
	pos := 0
	for i, r := range cand {
		candLower[i] = unicode.ToLower(r)
		offs[i] = pos
		pos += len(string(r))
	}
	offs[len(cand)] = pos

	filt := []rune(filter)
	for i, r := range filt {
		filt[i] = unicode.ToLower(r)
	}
	if len(filt) > len(cand) {
		return Result{}, false
	}

	simple := simpleMatch(filt, candLower)
	if simple == nil {
		return Result{}, false
	}

	begin := wordBeginnings(cand)
	next := nextBeginnings(begin)

	matched := strictMatch(filt, candLower, next, simple[0])
	if matched == nil {
		matched = simple
	}

	return Result{
		Score:  scoreMatch(matched, begin),
		Ranges: toRanges(matched, offs),
	}, true
}

// simpleMatch is the greedy leftmost subsequence scan. It establishes
// whether a match exists at all and provides the fallback positions.
func simpleMatch(filt, cand []rune) []int {
	matched := make([]int, 0, len(filt))
	ti := 0
	for _, fc := range filt {
		for ti < len(cand) && cand[ti] != fc {
			ti++
		}
		if ti == len(cand) {
			return nil
		}
		matched = append(matched, ti)
		ti++
	}
	return matched
}

// strictMatch anchors runs at word beginnings: each filter character either
// continues the current run or restarts at a later beginning. On a dead end
// the last match is popped and the search resumes past it.
func strictMatch(filt, cand []rune, next []int, earliest int) []int {
	ti := earliest
	if !atBeginning(ti, next) {
		ti = next[ti]
	}
	matched := make([]int, 0, len(filt))
	fi := 0
	for {
		if ti >= len(cand) {
			if fi == 0 {
				return nil
			}
			fi--
			last := matched[len(matched)-1]
			matched = matched[:len(matched)-1]
			ti = next[last]
			continue
		}
		if cand[ti] == filt[fi] {
			matched = append(matched, ti)
			fi++
			if fi == len(filt) {
				return matched
			}
			ti++
		} else {
			ti = next[ti]
		}
	}
}

func atBeginning(i int, next []int) bool {
	return i == 0 || (i-1 < len(next) && next[i-1] == i)
}

func scoreMatch(matched []int, begin []bool) int {
	if !begin[matched[0]] {
		gaps := 0
		for k := 1; k < len(matched); k++ {
			if matched[k-1] != matched[k]-1 {
				gaps++
			}
		}
		return -(matched[0] + gaps + gapPenalty)
	}

	score := 0
	for k, idx := range matched {
		if begin[idx] || (k > 0 && matched[k-1] == idx-1) {
			score += matchBonus
		} else {
			score += weakMatchBonus
		}
		if k > 0 && matched[k-1] != idx-1 {
			score -= gapPenalty
		}
	}
	if matched[0] == 0 {
		score += firstCharBonus
	}
	if len(matched) == len(begin) {
		score += fullMatchBonus
	}
	return score
}

// wordBeginnings marks rune indexes that start a word: index zero, anything
// following a separator, a lower-to-upper camel transition, or a
// letter-to-digit transition. Computed on the original runes so camel case
// survives the lowercase comparison.
func wordBeginnings(cand []rune) []bool {
	begin := make([]bool, len(cand))
	for i, r := range cand {
		if i == 0 {
			begin[i] = true
			continue
		}
		prev := cand[i-1]
		switch {
		case isSeparator(prev):
			begin[i] = true
		case unicode.IsLower(prev) && unicode.IsUpper(r):
			begin[i] = true
		case unicode.IsLetter(prev) && unicode.IsDigit(r):
			begin[i] = true
		}
	}
	return begin
}

// nextBeginnings[i] is the smallest beginning index strictly greater than i,
// or len(cand) when none remains.
func nextBeginnings(begin []bool) []int {
	next := make([]int, len(begin))
	nb := len(begin)
	for i := len(begin) - 1; i >= 0; i-- {
		next[i] = nb
		if begin[i] {
			nb = i
		}
	}
	return next
}

func isSeparator(r rune) bool {
	switch r {
	case ' ', '_', '-', '.', '/', ':':
		return true
	}
	return false
}

// toRanges compresses matched rune indexes into runs and converts them to
// byte ranges in the original candidate.
func toRanges(matched []int, offs []int) []Range {
	if len(matched) == 0 {
		return nil
	}
	ranges := make([]Range, 0, len(matched))
	start := matched[0]
	prev := matched[0]
	for _, idx := range matched[1:] {
		if idx != prev+1 {
			ranges = append(ranges, Range{Start: offs[start], End: offs[prev+1]})
			start = idx
		}
		prev = idx
	}
	ranges = append(ranges, Range{Start: offs[start], End: offs[prev+1]})
	return ranges
}
