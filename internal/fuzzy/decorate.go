// file: internal/fuzzy/decorate.go
// version: 1.0.0
// guid: 8b4f2d61-7a9c-4e35-a2d8-5f1b3c6e9a74

package fuzzy

import "strings"

// NamespaceSeparator splits a decorated alias into display fragments. It is
// matched against the original text, never against inserted markers.
const NamespaceSeparator = "::"

// Decorator renders an alias as display fragments, wrapping the matched
// ranges with markers and splitting on the namespace separator. A nil or
// empty range list renders the alias unhighlighted, still split.
type Decorator func(alias string, ranges []Range) []string

// MakeDecorator returns a Decorator wrapping matched spans with the given
// marker pair. Ranges must be sorted and non-overlapping, which Score
// guarantees.
func MakeDecorator(left, right string) Decorator {
	return func(alias string, ranges []Range) []string {
		return decorate(alias, ranges, left, right)
	}
}

// DefaultDecorator highlights matches with square brackets.
func DefaultDecorator() Decorator {
	return MakeDecorator("[", "]")
}

// decorate walks the alias byte by byte, inserting markers at range
// boundaries, and starts a new fragment at every namespace separator found
// in the original text. Separator bytes are consumed by the split, so a
// span that covers or abuts a separator ends up distributed over the
// adjacent fragments without overlap.
func decorate(alias string, ranges []Range, left, right string) []string {
	frags := make([]string, 0, strings.Count(alias, NamespaceSeparator)+1)
	var b strings.Builder
	inRange := false
	ri := 0

	for i := 0; i <= len(alias); {
		if inRange && ri < len(ranges) && i >= ranges[ri].End {
			b.WriteString(right)
			inRange = false
			ri++
		}
		// Skip ranges fully consumed by separator bytes.
		for ri < len(ranges) && ranges[ri].End <= i {
			ri++
		}
		if !inRange && ri < len(ranges) && i >= ranges[ri].Start && i < ranges[ri].End {
			b.WriteString(left)
			inRange = true
		}
		if i == len(alias) {
			break
		}
		if alias[i] == ':' && i+1 < len(alias) && alias[i+1] == ':' {
			frags = append(frags, b.String())
			b.Reset()
			i += 2
			continue
		}
		b.WriteByte(alias[i])
		i++
	}

	return append(frags, b.String())
}
