// Package language holds the language catalogs of both translation providers
// and validates a source/target/verification triple against them before any
// translation call is made.
package language

import (
	"fmt"
	"sort"
	"strings"
)

// Catalog lists the language codes each provider accepts, mapped to display names
type Catalog struct {
	PrimarySource  map[string]string // OpenAI source languages
	PrimaryTarget  map[string]string // OpenAI target languages
	SecondaryLangs map[string]string // Gemini languages (base codes)
}

// Triple is a validated, lowercased language configuration
type Triple struct {
	Source       string
	Target       string
	Verification string
}

// UnsupportedError reports a language code missing from a provider catalog
type UnsupportedError struct {
	Role      string // "source", "target" or "verification"
	Code      string
	Provider  string
	Available []string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s language '%s' is not supported by %s! Available options: %s",
		e.Role, e.Code, e.Provider, strings.Join(e.Available, ", "))
}

// DefaultCatalog returns the built-in catalogs
func DefaultCatalog() *Catalog {
	common := map[string]string{
		"bg": "Bulgarian",
		"cs": "Czech",
		"da": "Danish",
		"de": "German",
		"el": "Greek",
		"en": "English",
		"es": "Spanish",
		"et": "Estonian",
		"fi": "Finnish",
		"fr": "French",
		"hu": "Hungarian",
		"id": "Indonesian",
		"it": "Italian",
		"ja": "Japanese",
		"ko": "Korean",
		"lt": "Lithuanian",
		"lv": "Latvian",
		"nb": "Norwegian",
		"nl": "Dutch",
		"pl": "Polish",
		"pt": "Portuguese",
		"ro": "Romanian",
		"ru": "Russian",
		"sk": "Slovak",
		"sl": "Slovenian",
		"sv": "Swedish",
		"tr": "Turkish",
		"uk": "Ukrainian",
		"zh": "Chinese",
	}

	target := copyNames(common)
	target["en-gb"] = "English (British)"
	target["en-us"] = "English (American)"
	target["pt-br"] = "Portuguese (Brazilian)"
	target["pt-pt"] = "Portuguese (European)"

	secondary := copyNames(common)
	secondary["ar"] = "Arabic"
	secondary["hi"] = "Hindi"
	secondary["he"] = "Hebrew"
	secondary["vi"] = "Vietnamese"

	return &Catalog{
		PrimarySource:  copyNames(common),
		PrimaryTarget:  target,
		SecondaryLangs: secondary,
	}
}

// Merge overrides or extends catalog entries, keys are lowercased
func (c *Catalog) Merge(source, target, secondary map[string]string) {
	mergeInto(c.PrimarySource, source)
	mergeInto(c.PrimaryTarget, target)
	mergeInto(c.SecondaryLangs, secondary)
}

// Validate lowercases the triple and checks it against both providers.
// An empty verification language defaults to the source language.
func (c *Catalog) Validate(source, target, verification string) (Triple, error) {
	t := Triple{
		Source:       strings.ToLower(strings.TrimSpace(source)),
		Target:       strings.ToLower(strings.TrimSpace(target)),
		Verification: strings.ToLower(strings.TrimSpace(verification)),
	}
	if t.Verification == "" {
		t.Verification = t.Source
	}

	checks := []struct {
		role     string
		code     string
		provider string
		names    map[string]string
	}{
		{"source", t.Source, "primary provider", c.PrimarySource},
		{"target", t.Target, "primary provider", c.PrimaryTarget},
		{"verification", t.Verification, "primary provider", c.PrimaryTarget},
		{"source", BaseCode(t.Source), "secondary provider", c.SecondaryLangs},
		{"target", BaseCode(t.Target), "secondary provider", c.SecondaryLangs},
		{"verification", BaseCode(t.Verification), "secondary provider", c.SecondaryLangs},
	}

	for _, check := range checks {
		if _, ok := check.names[check.code]; !ok {
			return Triple{}, &UnsupportedError{
				Role:      check.role,
				Code:      check.code,
				Provider:  check.provider,
				Available: sortedCodes(check.names),
			}
		}
	}

	if BaseCode(t.Target) == BaseCode(t.Source) {
		return Triple{}, fmt.Errorf("target language '%s' must differ from source language '%s'", t.Target, t.Source)
	}
	if t.Verification == t.Target {
		return Triple{}, fmt.Errorf("verification language '%s' must differ from target language", t.Verification)
	}

	return t, nil
}

// Name returns the display name of a code, falling back to the code itself
func (c *Catalog) Name(code string) string {
	code = strings.ToLower(code)
	for _, names := range []map[string]string{c.PrimaryTarget, c.PrimarySource, c.SecondaryLangs} {
		if name, ok := names[code]; ok {
			return name
		}
	}
	if name, ok := c.SecondaryLangs[BaseCode(code)]; ok {
		return name
	}
	return strings.ToUpper(code)
}

// BaseCode strips a regional variant: "pt-br" becomes "pt"
func BaseCode(code string) string {
	if idx := strings.IndexAny(code, "-_"); idx >= 0 {
		return code[:idx]
	}
	return code
}

// FieldNames returns the deck field names for a triple. The verification
// language defaults to the source language, so a colliding verification name
// gets a suffix.
func (c *Catalog) FieldNames(t Triple) (source, target, verification string) {
	source = c.Name(t.Source)
	target = c.Name(t.Target)
	verification = c.Name(t.Verification)
	if verification == source {
		verification += " (verification)"
	}
	return source, target, verification
}

func copyNames(names map[string]string) map[string]string {
	result := make(map[string]string, len(names))
	for k, v := range names {
		result[k] = v
	}
	return result
}

func mergeInto(dst, src map[string]string) {
	for code, name := range src {
		dst[strings.ToLower(code)] = name
	}
}

func sortedCodes(names map[string]string) []string {
	codes := make([]string, 0, len(names))
	for code := range names {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
