package domain

// FingerprintLength is the length of a hex encoded SHA-256 fingerprint.
const FingerprintLength = 64

// Fingerprint identifies a generation request: the hex SHA-256 of its asset kind and
// normalized configuration.
type Fingerprint string

// String returns the fingerprint as a plain string.
func (f Fingerprint) String() string { return string(f) }

// Valid reports whether f is a 64 character lowercase hex string.
func (f Fingerprint) Valid() bool {
	if len(f) != FingerprintLength {
		return false
	}
	for i := 0; i < len(f); i++ {
		c := f[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// Short returns the first twelve characters, for log lines.
func (f Fingerprint) Short() string {
	if len(f) <= 12 {
		return string(f)
	}
	return string(f[:12])
}
