package telegram

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestShortError_MultibyteSafe(t *testing.T) {
	long := strings.Repeat("خطای شبکه ", 60)
	got := shortError(errors.New(long))

	if !utf8.ValidString(got) {
		t.Error("truncated error text must stay valid UTF-8")
	}
	if n := len([]rune(strings.TrimSuffix(got, "..."))); n > shortErrorLimit {
		t.Errorf("truncated to %d runes, want at most %d", n, shortErrorLimit)
	}
}

func TestShortError_ShortPassesThrough(t *testing.T) {
	if got := shortError(errors.New("boom")); got != "boom" {
		t.Errorf("shortError = %q, want %q", got, "boom")
	}
}
