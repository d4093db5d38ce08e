package http11

import "bytes"

// ParseMethodID maps an HTTP method token to its numeric ID.
// Returns MethodUnknown for unrecognized tokens. Matching is exact and
// case-sensitive per RFC 7231 (methods are uppercase by definition).
//
// Allocation behavior: 0 allocs/op
func ParseMethodID(token []byte) uint8 {
	for id := MethodGET; id <= MethodTRACE; id++ {
		if bytes.Equal(token, methodTokens[id]) {
			return id
		}
	}
	return MethodUnknown
}

// MethodString returns the string form of a method ID, or "" for
// MethodUnknown.
//
// Allocation behavior: 0 allocs/op
func MethodString(id uint8) string {
	if !IsValidMethodID(id) {
		return ""
	}
	return methodNames[id]
}

// MethodBytes returns the byte-slice form of a method ID, or nil for
// MethodUnknown.
//
// Allocation behavior: 0 allocs/op
func MethodBytes(id uint8) []byte {
	if !IsValidMethodID(id) {
		return nil
	}
	return methodTokens[id]
}

// IsValidMethodID reports whether id names a recognized method.
func IsValidMethodID(id uint8) bool {
	return id >= MethodGET && id <= MethodTRACE
}
