package fingerprint

import (
	"crypto/md5"
	"encoding/hex"
)

// Digest computes the 128-bit fingerprint the FOTA service publishes
// for undisclosed version strings: md5 over the UTF-8 bytes, rendered
// as lowercase hex. It is an opaque equality token in this protocol,
// not a security measure.
func Digest(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
