// Package processor implements the create and update flows: it loads the
// vocabulary, translates the entries that need it, synthesizes their
// pronunciations, writes the Anki deck and persists the snapshot archive.
package processor
