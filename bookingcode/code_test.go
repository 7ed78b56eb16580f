package bookingcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextPrefix(t *testing.T) {
	cases := []struct {
		from string
		want string
	}{
		{"AA", "AB"},
		{"AY", "AZ"},
		{"AZ", "BA"},
		{"BZ", "CA"},
		{"ZY", "ZZ"},
		{"ZZ", "AAA"},
		{"AAA", "AAB"},
		{"AZZ", "BAA"},
		{"ZZZ", "AAAA"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, NextPrefix(tc.from), "next prefix after %s", tc.from)
	}
}

func TestFormatParse(t *testing.T) {
	code := Format("AB", 1234)
	assert.Equal(t, "AB-1234", code)

	prefix, sequence, err := Parse(code)
	require.NoError(t, err)
	assert.Equal(t, "AB", prefix)
	assert.Equal(t, 1234, sequence)

	prefix, sequence, err = Parse(Format("AAA", 1000))
	require.NoError(t, err)
	assert.Equal(t, "AAA", prefix)
	assert.Equal(t, 1000, sequence)
}

func TestParseRejectsMalformedCodes(t *testing.T) {
	for _, code := range []string{
		"", "AB1234", "A-1234", "AB-12", "AB-12345", "AB-12a4",
		"99-1234", "ab-1234", "A9-1234", "ZZZ9-3942", "AB-+123",
	} {
		_, _, err := Parse(code)
		assert.Error(t, err, "code %q", code)
	}
}
