package slug

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBase(t *testing.T) {
	tests := map[string]string{
		"Go Meetup Dhaka 2026":  "go-meetup-dhaka-2026",
		"  Café   Night -- Live": "cafe-night-live",
		"Tech!!! @ Home":        "tech-home",
		"বাংলা":                 "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Base(in), in)
	}
}

func TestBase_Truncates(t *testing.T) {
	got := Base(strings.Repeat("abc ", 30))
	assert.LessOrEqual(t, len(got), maxBaseLen)
	assert.False(t, strings.HasSuffix(got, "-"))
}

func TestMake(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	suffix := strconv.FormatInt(now.UnixMilli(), 36)

	assert.Equal(t, "go-meetup-"+suffix, Make("Go Meetup", now))
	assert.Equal(t, "event-"+suffix, Make("!!!", now))
}
