package pagekey

import (
	"testing"
)

func TestKey(t *testing.T) {
	k1 := Key("en", "food/apple")
	k2 := Key("en", "food/apple")
	if k1 != k2 {
		t.Errorf("same locale and path should give same key: %q vs %q", k1, k2)
	}
	if len(k1) != 40 {
		t.Errorf("key should be a 40 char hex SHA-1, got %q", k1)
	}
}

func TestKey_Known(t *testing.T) {
	const want = "b29b5d2ce62e55412776ab98f05631e0aa96597b" // sha1("en|home|")
	if got := Key("en", "home"); got != want {
		t.Errorf("Key(en, home) = %q, want %q", got, want)
	}
}

func TestKey_DifferentInputs(t *testing.T) {
	tests := []struct {
		name           string
		locale1, path1 string
		locale2, path2 string
	}{
		{"different paths", "en", "a", "en", "b"},
		{"different locales", "en", "a", "fr", "a"},
		{"nested path", "en", "docs", "en", "docs/x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if Key(tt.locale1, tt.path1) == Key(tt.locale2, tt.path2) {
				t.Errorf("expected different keys for %s/%s and %s/%s", tt.locale1, tt.path1, tt.locale2, tt.path2)
			}
		})
	}
}

func TestKey_NormalizesSlashes(t *testing.T) {
	if Key("en", "/docs/x/") != Key("en", "docs/x") {
		t.Error("leading and trailing slashes should not change the key")
	}
}
