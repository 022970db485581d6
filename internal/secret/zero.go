// Package secret holds the handful of primitives used everywhere key
// material passes through memory: zeroing and a byte type that refuses to
// print itself.
package secret

// Zero securely overwrites a byte slice with zeros to clear sensitive data from memory.
func Zero(b []byte) {
	if b == nil {
		return
	}
	for i := range b {
		b[i] = 0
	}
}

// Bytes wraps key material so that accidental logging (fmt.Printf("%v", ...),
// %+v on a containing struct, a debugger's String() probe) never prints the
// plaintext. Callers still reach the raw bytes explicitly by converting
// to []byte.
type Bytes []byte

// String implements fmt.Stringer without revealing the content.
func (Bytes) String() string { return "[REDACTED]" }

// GoString implements fmt.GoStringer for the same reason %#v is sometimes used.
func (Bytes) GoString() string { return "secret.Bytes[REDACTED]" }

// Zero overwrites the underlying bytes.
func (b Bytes) Zero() { Zero(b) }
