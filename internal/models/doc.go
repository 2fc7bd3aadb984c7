// Package models lists the OpenAI and Gemini models available to the
// configured API keys, grouped by what vocabdeck uses them for.
package models
