// Package normalize folds phonetic and orthographic characters onto a small
// canonical alphabet so that IPA transcriptions and Latin-script spellings
// can be compared character by character. The boundary marker '-' is never
// altered.
package normalize
