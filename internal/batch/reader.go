package batch

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Reasons a line is skipped.
const (
	SkipBlank       = "blank line"
	SkipWhitespace  = "interior whitespace"
	SkipInvalidUTF8 = "invalid UTF-8"
	SkipNoLetters   = "only boundary markers"
	SkipTooLong     = "line too long"
)

// MaxLineLength is the longest line, in bytes, that can hold a word.
const MaxLineLength = 1024 * 1024

// SkippedLine records an input line that was not turned into a word.
type SkippedLine struct {
	Line   int // 1-based
	Reason string
}

// WordList is the parsed content of a word list file.
type WordList struct {
	Words   []string
	Skipped []SkippedLine
}

// ReadWordList reads a word list file, one hyphenated word per line.
func ReadWordList(filename string) (*WordList, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read word list: %w", err)
	}
	defer f.Close()

	list, err := ParseWordList(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read word list %s: %w", filename, err)
	}
	return list, nil
}

// ParseWordList parses a word list from r. Lines that cannot hold a word
// are recorded in Skipped instead of failing the whole list.
func ParseWordList(r io.Reader) (*WordList, error) {
	list := &WordList{}
	br := bufio.NewReaderSize(r, 64*1024)

	lineNo := 0
	for {
		line, tooLong, err := readLine(br)
		if err == io.EOF && line == nil && !tooLong {
			return list, nil
		}
		if err != nil && err != io.EOF {
			return nil, err
		}
		lineNo++

		reason := SkipTooLong
		word := ""
		if !tooLong {
			word, reason = ParseLine(string(line))
		}
		if reason != "" {
			list.Skipped = append(list.Skipped, SkippedLine{Line: lineNo, Reason: reason})
		} else {
			list.Words = append(list.Words, word)
		}
		if err == io.EOF {
			return list, nil
		}
	}
}

// readLine returns the next line without its terminator. Lines longer than
// MaxLineLength are consumed but not kept, and tooLong is set. A nil line
// with io.EOF means the input is exhausted.
func readLine(br *bufio.Reader) (line []byte, tooLong bool, err error) {
	for {
		chunk, rerr := br.ReadSlice('\n')
		if !tooLong {
			if len(line)+len(chunk) > MaxLineLength+2 {
				tooLong, line = true, nil
			} else {
				line = append(line, chunk...)
			}
		}
		switch {
		case rerr == bufio.ErrBufferFull:
			continue
		case rerr == io.EOF:
			if line == nil && !tooLong {
				return nil, false, io.EOF
			}
			if line == nil {
				line = []byte{}
			}
			return trimEOL(line), tooLong, io.EOF
		case rerr != nil:
			return nil, false, rerr
		}
		if line == nil {
			line = []byte{}
		}
		return trimEOL(line), tooLong, nil
	}
}

func trimEOL(line []byte) []byte {
	line = bytes.TrimSuffix(line, []byte("\n"))
	return bytes.TrimSuffix(line, []byte("\r"))
}

// ParseLine validates a single line and returns the word it holds, or the
// reason it has to be skipped.
func ParseLine(line string) (string, string) {
	if !utf8.ValidString(line) {
		return "", SkipInvalidUTF8
	}
	word := strings.TrimSpace(line)
	if word == "" {
		return "", SkipBlank
	}
	if strings.IndexFunc(word, unicode.IsSpace) >= 0 {
		return "", SkipWhitespace
	}
	if strings.Trim(word, "-") == "" {
		return "", SkipNoLetters
	}
	return word, ""
}
