// Package moderation masks blocked words in outgoing message content.
// The space is private, but shared songs and companion prompts can pull
// arbitrary text in; the censor runs on every append.
package moderation

import (
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

// Censor matches blocked words with an Aho-Corasick automaton over a
// normalized view of the text (lowercased, separators stripped) and
// masks the matched spans in the original.
type Censor struct {
	matcher  *goahocorasick.Machine
	maskRune rune
}

func NewCensor(blockedWords []string, maskRune rune) (*Censor, error) {
	patterns := make([][]rune, len(blockedWords))
	for i, word := range blockedWords {
		patterns[i], _ = normalize([]rune(word))
	}
	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &Censor{matcher: m, maskRune: maskRune}, nil
}

// Apply returns content with every blocked span masked. Spacing and
// unmatched text are preserved byte for byte.
func (c *Censor) Apply(content string) string {
	original := []rune(content)
	normalized, positions := normalize(original)
	if len(normalized) == 0 {
		return content
	}

	spans := c.matcher.MultiPatternSearch(normalized, false)
	if len(spans) == 0 {
		return content
	}

	for _, span := range spans {
		start := span.Pos
		end := start + len(span.Word)
		if start < 0 || end > len(positions) {
			continue
		}
		for i := positions[start]; i <= positions[end-1]; i++ {
			original[i] = c.maskRune
		}
	}
	return string(original)
}

// normalize lowercases the input and drops separators, keeping a map
// from normalized index back to the original rune position so matched
// spans can be masked in place.
func normalize(input []rune) ([]rune, []int) {
	normalized := make([]rune, 0, len(input))
	positions := make([]int, 0, len(input))
	for i, r := range input {
		if unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r) {
			continue
		}
		normalized = append(normalized, unicode.ToLower(r))
		positions = append(positions, i)
	}
	return normalized, positions
}
