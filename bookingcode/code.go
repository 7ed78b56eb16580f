// Package bookingcode mints the human-readable booking identifiers: a rolling
// uppercase letter prefix plus a four digit sequence, e.g. "AA-1234". Prefixes
// advance in base-26 and are never reused; the code space of one prefix is the
// 9000 sequences 1000-9999.
package bookingcode

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	SequenceMin = 1000
	SequenceMax = 9999

	// PrefixCapacity is how many codes one prefix can hold.
	PrefixCapacity = SequenceMax - SequenceMin + 1
)

func Format(prefix string, sequence int) string {
	return fmt.Sprintf("%s-%04d", prefix, sequence)
}

// Parse splits an allocator-issued code into prefix and sequence. The prefix
// must be at least two uppercase letters and the sequence exactly four
// digits, so synthetic fallback codes do not parse.
func Parse(code string) (prefix string, sequence int, err error) {
	prefix, seq, ok := strings.Cut(code, "-")
	if !ok {
		return "", 0, fmt.Errorf("malformed booking code %q", code)
	}
	if len(prefix) < 2 {
		return "", 0, fmt.Errorf("malformed booking code %q: prefix too short", code)
	}
	for i := 0; i < len(prefix); i++ {
		if prefix[i] < 'A' || prefix[i] > 'Z' {
			return "", 0, fmt.Errorf("malformed booking code %q: prefix must be uppercase letters", code)
		}
	}
	if len(seq) != 4 {
		return "", 0, fmt.Errorf("malformed booking code %q: bad sequence", code)
	}
	for i := 0; i < len(seq); i++ {
		if seq[i] < '0' || seq[i] > '9' {
			return "", 0, fmt.Errorf("malformed booking code %q: bad sequence", code)
		}
	}
	sequence, convErr := strconv.Atoi(seq)
	if convErr != nil {
		return "", 0, fmt.Errorf("malformed booking code %q: bad sequence", code)
	}
	return prefix, sequence, nil
}

// NextPrefix returns the prefix after p: the last letter is incremented and
// overflow carries left, so "AA" -> "AB", "AZ" -> "BA". When every position
// is 'Z' the prefix widens by one letter: "ZZ" -> "AAA", "ZZZ" -> "AAAA".
func NextPrefix(p string) string {
	next := []byte(p)
	for i := len(next) - 1; i >= 0; i-- {
		if next[i] < 'Z' {
			next[i]++
			return string(next)
		}
		next[i] = 'A'
	}
	return strings.Repeat("A", len(p)+1)
}
