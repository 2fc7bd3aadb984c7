package internal

import (
	"fmt"
	"time"
	"unicode"
)

// Version is the vocabdeck release version
const Version = "0.3.0"

// RunTimestampLayout formats the timestamp part of a run name (yy_mm_dd_hh_mm_ss)
const RunTimestampLayout = "06_01_02_15_04_05"

// RunName creates the name shared by a run's working directory, deck and archive
// Format: source_target_yy_mm_dd_hh_mm_ss
func RunName(sourceLanguage, targetLanguage string, now time.Time) string {
	return fmt.Sprintf("%s_%s_%s",
		SanitizeFilename(sourceLanguage),
		SanitizeFilename(targetLanguage),
		now.Format(RunTimestampLayout))
}

// SanitizeFilename creates a safe filename from a string
func SanitizeFilename(s string) string {
	result := make([]rune, 0, len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			result = append(result, r)
		} else {
			result = append(result, '_')
		}
	}
	return string(result)
}
