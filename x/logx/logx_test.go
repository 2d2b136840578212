//go:build !tinygo

package logx

import (
	"errors"
	"testing"
)

func TestFormat(t *testing.T) {
	cases := []struct {
		name string
		msg  string
		kv   []any
		want string
	}{
		{"bare", "flc: locked", nil, "flc: locked"},
		{"address", "flc: erased", []any{"addr", uint32(0x1006_0000)}, "flc: erased addr=0x10060000"},
		{"mixed", "gcr: sysclk", []any{"src", "ipo", "div", 4}, "gcr: sysclk src=ipo div=4"},
		{"error", "flc: write", []any{"err", errors.New("needs_erase")}, "flc: write err=needs_erase"},
		{"dangling", "x", []any{"k"}, "x k=?"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Format(tc.msg, tc.kv); got != tc.want {
				t.Fatalf("Format = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestLevelString(t *testing.T) {
	for l, want := range map[Level]string{LevelDebug: "D", LevelInfo: "I", LevelWarning: "W", LevelError: "E", Level(9): "?"} {
		if l.String() != want {
			t.Fatalf("Level(%d).String() = %q, want %q", l, l.String(), want)
		}
	}
}
