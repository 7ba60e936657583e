package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandArgs(t *testing.T) {
	tests := []struct {
		text     string
		wantCmd  string
		wantArgs string
	}{
		{"/timezone Europe/Berlin", "timezone", "Europe/Berlin"},
		{"/Book@availability_bot  42 ", "book", "42"},
		{"/events", "events", ""},
		{"hello", "", "hello"},
	}
	for _, tt := range tests {
		cmd, args := commandArgs(tt.text)
		assert.Equal(t, tt.wantCmd, cmd, tt.text)
		assert.Equal(t, tt.wantArgs, args, tt.text)
	}
}

func TestParseDuration(t *testing.T) {
	valid := map[string]int{
		"30":     30,
		"90":     90,
		"1h":     60,
		"1h30m":  90,
		"2h 15m": 135,
		"45min":  45,
	}
	for in, want := range valid {
		got, err := parseDuration(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "abc", "0", "3", "9h", "1h-5"} {
		_, err := parseDuration(in)
		assert.Error(t, err, in)
	}
}

func TestParseOwnerID(t *testing.T) {
	id, ok := parseOwnerID("book_42")
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)

	id, ok = parseOwnerID(" 7 ")
	assert.True(t, ok)
	assert.Equal(t, int64(7), id)

	for _, in := range []string{"", "book_", "-1", "abc"} {
		_, ok := parseOwnerID(in)
		assert.False(t, ok, in)
	}
}

func TestParseOwnerEventArg(t *testing.T) {
	ownerID, eventID, ok := parseOwnerEventArg("42:6f1c2a2e-4b8f-4d7a-9d1e-0a4a4b3b2c1d")
	require.True(t, ok)
	assert.Equal(t, int64(42), ownerID)
	assert.Equal(t, "6f1c2a2e-4b8f-4d7a-9d1e-0a4a4b3b2c1d", eventID.String())

	for _, in := range []string{"42", "x:6f1c2a2e-4b8f-4d7a-9d1e-0a4a4b3b2c1d", "42:not-a-uuid"} {
		_, _, ok := parseOwnerEventArg(in)
		assert.False(t, ok, in)
	}
}
