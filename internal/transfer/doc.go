// Package transfer moves syllable boundaries from a hyphenated word onto an
// unmarked rendering of the same word in another alphabet, typically its IPA
// transcription.
//
// The pipeline has four stages. Every way of placing the source's boundary
// markers into the target is enumerated (candidates.go). Candidates are
// ranked by how many characters the left and right sides of each boundary
// share with the source (score.go). The best-scoring ones are filtered by
// edit distance to the marked source (distance.go). Any remaining tie is
// resolved by a TieBreaker (tiebreak.go).
//
// For words whose candidate space is too large to enumerate, the Engine
// falls back to a global sequence alignment (align.go), which can also be
// selected as the only strategy.
//
// Positions always count runes, never bytes.
package transfer
