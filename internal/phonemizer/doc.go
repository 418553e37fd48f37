// Package phonemizer turns plain words into phonetic transcriptions.
//
// The default provider drives the espeak-ng command line tool, feeding a
// whole batch of words through one process. OpenAI and Gemini providers ask
// a language model for the same output. Providers can be chained with a
// fallback and guarded by a circuit breaker so that a failing backend stops
// being called for a while instead of slowing down every batch.
//
// All providers return exactly one transcription per input word. Words that
// produced no output get the Placeholder.
package phonemizer
