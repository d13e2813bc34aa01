// Package occurrence indexes the term occurrence table consumed by the burst
// pipeline.
//
// An occurrence is a (term, sentence, token) tuple produced upstream by the
// tagging system. The Index derives everything the later stages need from
// that table:
//   - per-term offsets: distinct sentence indexes, strictly increasing
//   - per-range frequency: occurrence records of a term inside a sentence range
//   - first occurrence and minimum token position per sentence
//
// The package also canonicalizes synonyms, loads the concept vocabulary from
// YAML, decodes tab-separated occurrence and timing tables, and offers a
// plain-text fallback that locates terms by case-insensitive substring search.
package occurrence
