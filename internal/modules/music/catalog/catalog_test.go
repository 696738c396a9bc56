package catalog

import "testing"

func TestEntityIDFromURL(t *testing.T) {
	tests := []struct {
		name   string
		rawURL string
		want   string
	}{
		{"plain track", "https://open.spotify.com/track/3n3Ppam7vgaVa1iaRUc9Lp", "3n3Ppam7vgaVa1iaRUc9Lp"},
		{"with query", "https://open.spotify.com/track/3n3Ppam7vgaVa1iaRUc9Lp?si=abc123", "3n3Ppam7vgaVa1iaRUc9Lp"},
		{"tidal browse", "https://tidal.com/browse/track/12345678", "12345678"},
		{"no path", "https://tidal.com", ""},
		{"root path", "https://tidal.com/", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := entityIDFromURL(tt.rawURL); got != tt.want {
				t.Errorf("entityIDFromURL(%q) = %q, want %q", tt.rawURL, got, tt.want)
			}
		})
	}
}

func TestPathKind(t *testing.T) {
	tests := []struct {
		rawURL string
		want   string
	}{
		{"https://open.spotify.com/track/abc", "track"},
		{"https://open.spotify.com/album/abc", "album"},
		{"https://open.spotify.com/playlist/abc", "playlist"},
		{"https://tidal.com/browse/artist/123", "artist"},
		{"https://tidal.com/browse/mix/123", "mix"},
		{"https://tidal.com/browse/video/123", "video"},
		{"https://open.spotify.com/show/abc", ""},
		{"https://open.spotify.com", ""},
	}

	for _, tt := range tests {
		if got := pathKind(tt.rawURL); got != tt.want {
			t.Errorf("pathKind(%q) = %q, want %q", tt.rawURL, got, tt.want)
		}
	}
}

func TestQualifiedName(t *testing.T) {
	if got := qualifiedName("Daft Punk", "One More Time"); got != "Daft Punk - One More Time" {
		t.Errorf("unexpected qualified name: %q", got)
	}
	if got := qualifiedName("", "One More Time"); got != "One More Time" {
		t.Errorf("expected bare title for unknown artist, got %q", got)
	}
}
