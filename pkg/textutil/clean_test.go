package textutil

import (
	"strings"
	"testing"
)

func TestCleanExtractedText(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOk bool
	}{
		{
			name:   "empty input",
			input:  "",
			want:   "",
			wantOk: true,
		},
		{
			name:   "plain text untouched",
			input:  "Mortgage rates fell last quarter.",
			want:   "Mortgage rates fell last quarter.",
			wantOk: true,
		},
		{
			name:   "collapses runs of spaces",
			input:  "too   many    spaces",
			want:   "too many spaces",
			wantOk: true,
		},
		{
			name:   "caps blank lines at one",
			input:  "first paragraph\n\n\n\n\nsecond paragraph",
			want:   "first paragraph\n\nsecond paragraph",
			wantOk: true,
		},
		{
			name:   "strips stray control characters",
			input:  "clean start\x00\x01 and plenty of readable text following here",
			want:   "clean start and plenty of readable text following here",
			wantOk: true,
		},
		{
			name:   "normalizes CRLF",
			input:  "line one\r\nline two",
			want:   "line one\nline two",
			wantOk: true,
		},
		{
			name:   "rejects mostly-binary garbage",
			input:  "ab" + strings.Repeat("\x00", 40),
			want:   "",
			wantOk: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CleanExtractedText(tt.input)
			if ok != tt.wantOk {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOk)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWordCount(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"   ", 0},
		{"one", 1},
		{"counting words  across   spacing\nand lines", 6},
	}

	for _, tt := range tests {
		if got := WordCount(tt.input); got != tt.want {
			t.Errorf("WordCount(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("short input should pass through, got %q", got)
	}
	if got := Truncate("abcdefghij", 5); got != "abcde..." {
		t.Errorf("got %q, want %q", got, "abcde...")
	}

	// Never cut in the middle of a multibyte rune
	got := Truncate("héllo wörld", 7)
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("truncated text missing ellipsis: %q", got)
	}
	for _, r := range got {
		if r == '�' {
			t.Errorf("rune split mid-sequence: %q", got)
		}
	}
}
