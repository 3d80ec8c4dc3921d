package rut

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanStripsFormattingAndUppercases(t *testing.T) {
	cases := map[string]string{
		" 76.086.428-k ": "76086428K",
		"12.345.678-0":   "123456780",
		"760864285":      "760864285",
	}
	for in, want := range cases {
		got, err := Clean(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, want, got)
	}
}

func TestCleanIsIdempotent(t *testing.T) {
	inputs := []string{"76.086.428-5", "12345678-k", "  9.999.999-9 ", "760864285"}
	for _, in := range inputs {
		once, err := Clean(in)
		require.NoError(t, err)
		twice, err := Clean(once)
		require.NoError(t, err)
		assert.Equal(t, once, twice, "Clean must be idempotent for %q", in)
	}
}

func TestCleanRejectsMalformedInput(t *testing.T) {
	var ferr *FormatError
	for _, in := range []string{"", "5", "7608A428-5", "--"} {
		_, err := Clean(in)
		require.Error(t, err, "input %q", in)
		assert.True(t, errors.As(err, &ferr), "input %q", in)
	}
}

func TestComputeDV(t *testing.T) {
	cases := []struct {
		body string
		dv   byte
	}{
		{"76086428", '5'},
		{"12345678", '5'},
		{"1", '9'},         // short body, zero-padded to 8
		{"6", 'K'},         // weighted sum 12 → dv 10 → K
		{"59", '0'},        // weighted sum 33 → dv 11 → 0
		{"100000000", '7'}, // 9-digit body, no padding
	}
	for _, tc := range cases {
		assert.Equal(t, string(tc.dv), string(ComputeDV(tc.body)), "body %s", tc.body)
	}
}

func TestValidateAcceptsAllCommonWritings(t *testing.T) {
	for _, raw := range []string{"76.086.428-5", "76086428-5", "760864285", " 76086428-5 "} {
		got, err := Validate(raw)
		require.NoError(t, err, "input %q", raw)
		assert.Equal(t, raw, got, "Validate must return the original representation")
	}
}

func TestValidateDVEdgeCases(t *testing.T) {
	_, err := Validate("59-0")
	assert.NoError(t, err)

	_, err = Validate("6-K")
	assert.NoError(t, err)

	// lowercase k is accepted and the original form is preserved
	got, err := Validate("6-k")
	require.NoError(t, err)
	assert.Equal(t, "6-k", got)
}

func TestValidateWrongCheckDigitReportsComputed(t *testing.T) {
	_, err := Validate("76086428-4")
	require.Error(t, err)

	var cerr *ChecksumError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, byte('5'), cerr.Computed)
	assert.Equal(t, "76086428-4", cerr.RUT)
	assert.Contains(t, cerr.Error(), `"5"`)
}

func TestValidateFormatErrors(t *testing.T) {
	var ferr *FormatError

	_, err := Validate("5")
	require.Error(t, err)
	assert.True(t, errors.As(err, &ferr), "too short input")

	_, err = Validate("7608A428-5")
	require.Error(t, err)
	assert.True(t, errors.As(err, &ferr), "non-numeric body")

	_, err = Validate("")
	require.Error(t, err)
	assert.True(t, errors.As(err, &ferr), "empty input")
}
