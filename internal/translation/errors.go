package translation

import "fmt"

// ProviderError reports a failed provider call with enough context to rerun
type ProviderError struct {
	Provider string
	ID       int    // entry id, zero for batch calls
	Phrase   string // phrase being translated, empty for batch calls
	Batch    string // id range of a failed batch call
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Batch != "" {
		return fmt.Sprintf("%s: batch %s failed: %v", e.Provider, e.Batch, e.Err)
	}
	return fmt.Sprintf("%s: translating id %d (%q) failed: %v", e.Provider, e.ID, e.Phrase, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ProviderMismatchError indicates a provider dropped or merged items. It is
// raised before any entry is reconciled.
type ProviderMismatchError struct {
	Provider string
	Expected int
	Got      int
	Missing  []int // input ids without a result
}

func (e *ProviderMismatchError) Error() string {
	msg := fmt.Sprintf("%s returned %d results for %d inputs", e.Provider, e.Got, e.Expected)
	if len(e.Missing) > 0 {
		msg += fmt.Sprintf(" (missing ids %v)", e.Missing)
	}
	return msg
}
