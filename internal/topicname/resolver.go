// Package topicname resolves the canonical display name for a quiz
// topic from competing candidates: the stored database name, the name
// extracted from the quiz document, and an externally provided name.
//
// A historical import bug persisted uppercased slugs as display names
// (e.g. "ADOBE-ACROBAT" for slug "adobe-acrobat"). The validity
// predicate here exists to reject exactly that class of degenerate
// names without rejecting legitimately short or acronym-like ones.
package topicname

import (
	"regexp"
	"strings"

	"quizdeck/internal/domain"
)

var (
	separatorRe = regexp.MustCompile(`[-_]`)
	allSepRe    = regexp.MustCompile(`[-_\s]`)
	headingRe   = regexp.MustCompile(`(?m)^##\s+(.+)$`)
)

// Candidates holds the possible name sources for a topic, in no
// particular order; the resolver functions decide priority.
type Candidates struct {
	// Stored is the name currently persisted for the topic, if any.
	Stored string
	// Extracted is the name pulled from the quiz document heading.
	Extracted string
	// Provided is an operator-supplied override.
	Provided string
}

// SlugToName is the fallback transformation from a slug to a display
// name: separators become spaces and each word is capitalized, so
// "adobe-acrobat" becomes "Adobe Acrobat".
func SlugToName(slug string) string {
	if slug == "" {
		return slug
	}
	words := strings.Fields(separatorRe.ReplaceAllString(slug, " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// ExtractTopicName returns the first level-2 heading of a quiz
// document, or "" when the document has none.
func ExtractTopicName(markdown string) string {
	if markdown == "" {
		return ""
	}
	m := headingRe.FindStringSubmatch(markdown)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// IsValidTopicName reports whether name is a legitimate display name
// for slug. It rejects the uppercased-slug corruption pattern:
//   - name is byte-equal to the uppercased slug
//   - name equals the slug case-insensitively (slugs longer than 3
//     chars; short slugs like "css" may validly name themselves)
//   - name is fully uppercased and, with separators stripped,
//     normalizes to the same string as the slug
func IsValidTopicName(name, slug string) bool {
	if name == "" || slug == "" {
		return false
	}
	if name == strings.ToUpper(slug) {
		return false
	}
	if strings.EqualFold(name, slug) && len(slug) > 3 {
		return false
	}
	nameNorm := allSepRe.ReplaceAllString(strings.ToLower(name), "")
	slugNorm := allSepRe.ReplaceAllString(strings.ToLower(slug), "")
	if nameNorm == slugNorm && name == strings.ToUpper(name) {
		return false
	}
	return true
}

// Resolve picks a display name for serving/display call sites. The
// stored name wins when valid, since it may carry manual curation;
// then the extracted name, then the provided one, then the slug
// transform. It never returns an empty string.
func Resolve(slug string, c Candidates) (string, error) {
	if slug == "" {
		return "", domain.NewInvalidInputError("topic slug is required")
	}
	if ok := usable(c.Stored, slug); ok {
		return c.Stored, nil
	}
	if ok := usable(c.Extracted, slug); ok {
		return c.Extracted, nil
	}
	if ok := usable(c.Provided, slug); ok {
		return c.Provided, nil
	}
	return SlugToName(slug), nil
}

// ResolveForImport picks a display name for import runs. The document
// heading is the most trustworthy source at import time, so it is
// preferred; the stored name comes second to preserve curation across
// re-imports that lack a heading.
func ResolveForImport(slug string, c Candidates) (string, error) {
	if slug == "" {
		return "", domain.NewInvalidInputError("topic slug is required")
	}
	if ok := usable(c.Extracted, slug); ok {
		return c.Extracted, nil
	}
	if ok := usable(c.Stored, slug); ok {
		return c.Stored, nil
	}
	if ok := usable(c.Provided, slug); ok {
		return c.Provided, nil
	}
	return SlugToName(slug), nil
}

// usable filters out empty names and the literal "null" left behind
// by earlier tooling before applying the validity predicate.
func usable(name, slug string) bool {
	if name == "" || name == "null" {
		return false
	}
	return IsValidTopicName(name, slug)
}
