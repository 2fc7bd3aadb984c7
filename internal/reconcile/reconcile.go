// Package reconcile merges the outputs of both translation providers and the
// back-translation into deduplicated, delimiter-joined phrase variants.
package reconcile

import "strings"

// Delimiter separates synonymous phrasings within one translation string
const Delimiter = " / "

// Reconcile returns the target text built from provider A's variants followed
// by provider B's, and the verification text built from the back-translation.
// Variants are deduplicated case-insensitively; the first-seen casing wins.
func Reconcile(a, b, back string) (target, verification string) {
	set := newVariantSet()
	set.addAll(a)
	set.addAll(b)

	return set.String(), Variants(back)
}

// Variants deduplicates the variants of a single string
func Variants(s string) string {
	set := newVariantSet()
	set.addAll(s)
	return set.String()
}

// variantSet is an insertion-ordered set keyed by the lowercased variant
type variantSet struct {
	seen  map[string]struct{}
	order []string
}

func newVariantSet() *variantSet {
	return &variantSet{seen: make(map[string]struct{})}
}

func (s *variantSet) addAll(text string) {
	for _, part := range strings.Split(text, Delimiter) {
		s.add(part)
	}
}

func (s *variantSet) add(variant string) {
	key := strings.ToLower(variant)
	if _, ok := s.seen[key]; ok {
		return
	}
	s.seen[key] = struct{}{}
	s.order = append(s.order, variant)
}

func (s *variantSet) String() string {
	return strings.Join(s.order, Delimiter)
}
