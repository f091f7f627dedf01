package logging

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestNew_ParsesLevel(t *testing.T) {
	cases := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"", zerolog.InfoLevel},
		{"bogus", zerolog.InfoLevel},
	}
	for _, c := range cases {
		log := New(c.in)
		if got := log.GetLevel(); got != c.want {
			t.Errorf("New(%q) level = %v, want %v", c.in, got, c.want)
		}
	}
}

// Fatal and friends have pointer receivers, so the returned logger must be
// bound to a variable before chaining them.
func TestNew_ReturnsAddressableLogger(t *testing.T) {
	log := New("disabled")
	log.Info().Msg("bound logger chains cleanly")
}
