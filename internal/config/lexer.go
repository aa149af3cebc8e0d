// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bufio"
	"io"
	"strings"
)

// Keyword identifies the kind of a logical configuration line.
type Keyword int

const (
	KeywordUnknown Keyword = iota - 1
	KeywordDevice
	KeywordArray
	KeywordSysfs
)

var keywords = []string{"device", "array", "sysfs"}

func (k Keyword) String() string {
	if k < 0 || int(k) >= len(keywords) {
		return "unknown"
	}
	return strings.ToUpper(keywords[k])
}

// MatchKeyword matches word case-insensitively against the known keywords. Any
// prefix of at least three characters is accepted.
func MatchKeyword(word string) Keyword {
	if len(word) < 3 {
		return KeywordUnknown
	}
	for i, kw := range keywords {
		if len(word) <= len(kw) && strings.EqualFold(kw[:len(word)], word) {
			return Keyword(i)
		}
	}
	return KeywordUnknown
}

// ReadLines splits a configuration file into logical lines of words. A logical
// line starts with a word in the first column and continues over following lines
// that start with blanks. '#' starts a comment outside of a word, and quotes
// protect blanks within a single physical line.
func ReadLines(r io.Reader) ([][]string, error) {
	var (
		lines   [][]string
		current []string
	)
	flush := func() {
		if len(current) > 0 {
			lines = append(lines, current)
		}
		current = nil
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		text := scanner.Text()
		words := splitWords(text)
		if len(words) == 0 {
			continue
		}
		if text[0] != ' ' && text[0] != '\t' {
			flush()
		}
		current = append(current, words...)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()
	return lines, nil
}

func splitWords(line string) []string {
	var (
		words []string
		word  strings.Builder
		found bool
		quote rune
	)
	for _, c := range line {
		switch {
		case quote != 0 && c == quote:
			quote = 0
		case quote != 0:
			word.WriteRune(c)
		case c == '\'' || c == '"':
			quote = c
			found = true
		case c == ' ' || c == '\t':
			if found {
				words = append(words, word.String())
				word.Reset()
				found = false
			}
		case c == '#' && !found:
			return words
		default:
			word.WriteRune(c)
			found = true
		}
	}
	if found {
		words = append(words, word.String())
	}
	return words
}
