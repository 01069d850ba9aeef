package ai

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	markerLiteral     = "[LITERAL]"
	markerDescriptive = "[DESCRIPTIVE]"
	markerTags        = "[TAGS]"
)

// ParseCaption extracts the three caption sections from a raw model reply.
// The sections must appear in order: [LITERAL], [DESCRIPTIVE], [TAGS].
// Replies without all three markers are rejected rather than guessed at.
func ParseCaption(content string) (*Caption, error) {
	litIdx := strings.Index(content, markerLiteral)
	descIdx := strings.Index(content, markerDescriptive)
	tagsIdx := strings.Index(content, markerTags)

	if litIdx < 0 || descIdx < 0 || tagsIdx < 0 {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidModelResponse, truncate(content, 120))
	}
	if litIdx > descIdx || descIdx > tagsIdx {
		return nil, fmt.Errorf("%w: sections out of order", ErrInvalidModelResponse)
	}

	literal := strings.TrimSpace(content[litIdx+len(markerLiteral) : descIdx])
	descriptive := strings.TrimSpace(content[descIdx+len(markerDescriptive) : tagsIdx])
	rawTags := content[tagsIdx+len(markerTags):]

	if literal == "" || descriptive == "" {
		return nil, ErrEmptyCaption
	}

	return &Caption{
		Literal:     literal,
		Descriptive: descriptive,
		Tags:        NormalizeTags(rawTags),
	}, nil
}

// NormalizeTags splits a comma-separated tag list into clean keywords:
// lowercased, diacritics stripped, inner whitespace collapsed to hyphens,
// duplicates removed while preserving first-seen order.
func NormalizeTags(raw string) []string {
	seen := make(map[string]bool)
	var tags []string

	for _, part := range strings.Split(raw, ",") {
		tag := normalizeTag(part)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}

	return tags
}

func normalizeTag(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = stripDiacritics(s)
	return strings.Join(strings.Fields(s), "-")
}

var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// stripDiacritics removes combining marks so "café" and "cafe" index the
// same way. Falls back to the input when transformation fails.
func stripDiacritics(s string) string {
	out, _, err := transform.String(diacriticStripper, s)
	if err != nil {
		return s
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
