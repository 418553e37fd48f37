// Package batch reads hyphenated word lists and writes transformed words
// back out, one per line.
package batch
