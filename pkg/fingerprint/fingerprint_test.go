package fingerprint

import "testing"

func TestDigest(t *testing.T) {
	// md5("") is a fixed vector.
	if got := Digest(""); got != "d41d8cd98f00b204e9800998ecf8427e" {
		t.Errorf("Digest(\"\") = %s", got)
	}
	// Separators are part of the fingerprinted string.
	if Digest("A/B/C") == Digest("ABC") {
		t.Error("separators must affect the digest")
	}
}
