package domain

import (
	"errors"
	"testing"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"watch url", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"watch url with extra params", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ"},
		{"param not first", "https://www.youtube.com/watch?feature=share&v=a-b_c1234XY", "a-b_c1234XY"},
		{"short url", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"short url with query", "https://youtu.be/dQw4w9WgXcQ?si=abc", "dQw4w9WgXcQ"},
		{"embed url", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"shorts url", "https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"bare param", "v=AAAAAAAAAAA", "AAAAAAAAAAA"},
		{"longer token keeps first 11", "https://youtu.be/ABCDEFGHIJKLMN", "ABCDEFGHIJK"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractVideoID(tc.url)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("ExtractVideoID(%q) = %q, want %q", tc.url, got, tc.want)
			}
		})
	}
}

func TestExtractVideoID_Invalid(t *testing.T) {
	urls := []string{
		"",
		"not a url",
		"https://www.youtube.com/watch?v=short",
		"https://youtu.be/abc",
		"https://www.youtube.com/watch?x=dQw4w9WgXcQ",
		"dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9!gXcQ",
	}

	for _, u := range urls {
		t.Run(u, func(t *testing.T) {
			_, err := ExtractVideoID(u)
			if err == nil {
				t.Fatalf("expected error for %q", u)
			}
			if !errors.Is(err, ErrInvalidURL) {
				t.Errorf("expected ErrInvalidURL, got %v", err)
			}
		})
	}
}

func TestWatchURL(t *testing.T) {
	if got := WatchURL("dQw4w9WgXcQ"); got != "https://www.youtube.com/watch?v=dQw4w9WgXcQ" {
		t.Errorf("WatchURL = %q", got)
	}
}
