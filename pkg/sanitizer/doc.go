// Package sanitizer normalizes free-text fields before validation and
// persistence. Strategies compose into pipelines so each field type declares
// its cleaning steps once.
package sanitizer
