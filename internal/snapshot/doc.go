// Package snapshot persists the state of a generated deck (identity, per-entry
// translations, audio references) and compares it against a new vocabulary
// so an update only translates what changed.
package snapshot
