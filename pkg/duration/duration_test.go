package duration_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"blogcore/pkg/duration"
)

func TestParseSeconds(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int64
	}{
		{name: "seconds", input: "30s", want: 30},
		{name: "minutes", input: "15m", want: 900},
		{name: "hours", input: "2h", want: 7200},
		{name: "days", input: "7d", want: 604800},
		{name: "zero", input: "0s", want: 0},
		{name: "garbage", input: "garbage", want: 3600},
		{name: "empty", input: "", want: 3600},
		{name: "unknown unit", input: "5w", want: 3600},
		{name: "compound not supported", input: "1h30m", want: 3600},
		{name: "negative not supported", input: "-5m", want: 3600},
		{name: "whitespace not trimmed", input: " 5m", want: 3600},
		{name: "overflowing number", input: "99999999999999999999s", want: 3600},
		{name: "overflowing product", input: "200000000000000d", want: 3600},
		{name: "beyond time.Duration range", input: "9223372037s", want: 3600},
		{name: "largest representable", input: "9223372036s", want: 9223372036},
		{name: "days beyond time.Duration range", input: "106752d", want: 3600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, duration.ParseSeconds(tt.input))
		})
	}
}

func TestParse(t *testing.T) {
	assert.Equal(t, 15*time.Minute, duration.Parse("15m"))
	assert.Equal(t, 7*24*time.Hour, duration.Parse("7d"))
	assert.Equal(t, time.Hour, duration.Parse("nope"))
	assert.Equal(t, time.Hour, duration.Parse("200000000000000d"))
	assert.Positive(t, duration.Parse("106751d"))
}
