// Package processor runs batches of words through the phonemizer and the
// boundary transfer engine. Words are split into chunks that a pool of
// workers handles in parallel while a single writer keeps the output in
// input order.
package processor
