package http11

// Header stores HTTP headers in arrival order with case-insensitive
// lookup. Up to MaxHeaders entries with values up to MaxHeaderValue
// bytes live in inline fixed-size arrays (no heap allocation); anything
// beyond that spills to an ordered overflow slice.
//
// Duplicate policy: adding a name that already exists joins the values
// with ", " per RFC 9110 field-line combination. This is the documented
// choice over last-wins; Get then observes the joined value.
//
// Design notes carried from the engine this grew out of:
// - Linear scan beats a map for N<=32 (cache-friendly, no hashing)
// - Names are stored as received; comparison lowercases on the fly
type Header struct {
	names  [MaxHeaders][MaxHeaderName]byte
	values [MaxHeaders][MaxHeaderValue]byte

	nameLens  [MaxHeaders]uint8
	valueLens [MaxHeaders]uint8

	count uint8

	// Ordered spill storage for >MaxHeaders entries or values that
	// outgrow inline slots. Entries keep arrival order; a nil slice is
	// the common case.
	overflow []headerPair
}

type headerPair struct {
	name  string
	value string
}

// Add appends a header, joining with ", " if the name already exists.
// Returns ErrHeaderTooLarge when the name exceeds MaxHeaderName or the
// (possibly joined) value exceeds MaxHeaderValueSize, and
// ErrMalformedHeader when name or value embeds CR or LF (response
// splitting protection, RFC 7230 3.2).
//
// Allocation behavior: 0 allocs/op while inline storage suffices
func (h *Header) Add(name, value []byte) error {
	if len(name) == 0 || len(name) > MaxHeaderName {
		return ErrHeaderTooLarge
	}
	if len(value) > MaxHeaderValueSize {
		return ErrHeaderTooLarge
	}
	if containsCRLF(name) || containsCRLF(value) {
		return ErrMalformedHeader
	}

	// Duplicate name: comma-join onto the existing entry.
	if idx, inline := h.find(name); idx >= 0 {
		if inline {
			return h.joinInline(uint8(idx), value)
		}
		joined := h.overflow[idx].value + ", " + string(value)
		if len(joined) > MaxHeaderValueSize {
			return ErrHeaderTooLarge
		}
		h.overflow[idx].value = joined
		return nil
	}

	if h.count < MaxHeaders && len(value) <= MaxHeaderValue {
		i := h.count
		copy(h.names[i][:], name)
		copy(h.values[i][:], value)
		h.nameLens[i] = uint8(len(name))
		h.valueLens[i] = uint8(len(value))
		h.count++
		return nil
	}

	h.overflow = append(h.overflow, headerPair{string(name), string(value)})
	return nil
}

// joinInline appends ", "+value to inline slot i, moving the entry to
// overflow when the joined value no longer fits inline.
func (h *Header) joinInline(i uint8, value []byte) error {
	cur := int(h.valueLens[i])
	joined := cur + len(commaSpace) + len(value)
	if joined > MaxHeaderValueSize {
		return ErrHeaderTooLarge
	}
	if joined <= MaxHeaderValue {
		copy(h.values[i][cur:], commaSpace)
		copy(h.values[i][cur+len(commaSpace):], value)
		h.valueLens[i] = uint8(joined)
		return nil
	}

	// Outgrew the inline slot. Arrival order is preserved within each
	// tier; a joined duplicate moving tiers is rare enough not to matter
	// for serialization determinism.
	name := string(h.names[i][:h.nameLens[i]])
	v := string(h.values[i][:cur]) + ", " + string(value)
	h.removeInline(i)
	h.overflow = append(h.overflow, headerPair{name, v})
	return nil
}

func (h *Header) removeInline(i uint8) {
	if i < h.count-1 {
		copy(h.names[i:], h.names[i+1:h.count])
		copy(h.values[i:], h.values[i+1:h.count])
		copy(h.nameLens[i:], h.nameLens[i+1:h.count])
		copy(h.valueLens[i:], h.valueLens[i+1:h.count])
	}
	h.count--
}

// find returns the index of name and whether it lives inline, or
// (-1, false) when absent.
func (h *Header) find(name []byte) (int, bool) {
	for i := uint8(0); i < h.count; i++ {
		if h.nameLens[i] == uint8(len(name)) &&
			equalFold(h.names[i][:h.nameLens[i]], name) {
			return int(i), true
		}
	}
	for i := range h.overflow {
		if equalFoldString(h.overflow[i].name, name) {
			return i, false
		}
	}
	return -1, false
}

// Get returns the value for name (case-insensitive), or nil when the
// header is absent. The returned slice references internal storage and
// is valid only until the next mutation.
//
// Allocation behavior: 0 allocs/op for inline entries
func (h *Header) Get(name []byte) []byte {
	idx, inline := h.find(name)
	if idx < 0 {
		return nil
	}
	if inline {
		return h.values[idx][:h.valueLens[idx]]
	}
	return []byte(h.overflow[idx].value)
}

// GetString returns the value for name as a string, or "" when absent.
func (h *Header) GetString(name []byte) string {
	idx, inline := h.find(name)
	if idx < 0 {
		return ""
	}
	if inline {
		return string(h.values[idx][:h.valueLens[idx]])
	}
	return h.overflow[idx].value
}

// Has reports whether name is present (case-insensitive).
func (h *Header) Has(name []byte) bool {
	idx, _ := h.find(name)
	return idx >= 0
}

// Set replaces the value for name, adding the header if absent.
// Unlike Add it never joins.
func (h *Header) Set(name, value []byte) error {
	if len(name) == 0 || len(name) > MaxHeaderName {
		return ErrHeaderTooLarge
	}
	if len(value) > MaxHeaderValueSize {
		return ErrHeaderTooLarge
	}
	if containsCRLF(name) || containsCRLF(value) {
		return ErrMalformedHeader
	}

	idx, inline := h.find(name)
	switch {
	case idx < 0:
		// Absent: plain append, bypassing Add's join path.
		if h.count < MaxHeaders && len(value) <= MaxHeaderValue {
			i := h.count
			copy(h.names[i][:], name)
			copy(h.values[i][:], value)
			h.nameLens[i] = uint8(len(name))
			h.valueLens[i] = uint8(len(value))
			h.count++
			return nil
		}
		h.overflow = append(h.overflow, headerPair{string(name), string(value)})
		return nil
	case inline:
		if len(value) <= MaxHeaderValue {
			copy(h.values[idx][:], value)
			h.valueLens[idx] = uint8(len(value))
			return nil
		}
		n := string(h.names[idx][:h.nameLens[idx]])
		h.removeInline(uint8(idx))
		h.overflow = append(h.overflow, headerPair{n, string(value)})
		return nil
	default:
		h.overflow[idx].value = string(value)
		return nil
	}
}

// Del removes name (case-insensitive). No-op when absent.
func (h *Header) Del(name []byte) {
	idx, inline := h.find(name)
	if idx < 0 {
		return
	}
	if inline {
		h.removeInline(uint8(idx))
		return
	}
	h.overflow = append(h.overflow[:idx], h.overflow[idx+1:]...)
}

// Len returns the number of distinct header names stored.
func (h *Header) Len() int {
	return int(h.count) + len(h.overflow)
}

// Reset clears all headers for pooled reuse.
//
// Allocation behavior: 0 allocs/op
func (h *Header) Reset() {
	h.count = 0
	h.overflow = nil
}

// VisitAll calls visitor for each header in arrival order (inline tier
// first, then overflow). Iteration stops when visitor returns false.
// The serializer relies on this order being deterministic.
func (h *Header) VisitAll(visitor func(name, value []byte) bool) {
	for i := uint8(0); i < h.count; i++ {
		if !visitor(h.names[i][:h.nameLens[i]], h.values[i][:h.valueLens[i]]) {
			return
		}
	}
	for i := range h.overflow {
		if !visitor([]byte(h.overflow[i].name), []byte(h.overflow[i].value)) {
			return
		}
	}
}

func containsCRLF(b []byte) bool {
	for _, c := range b {
		if c == '\r' || c == '\n' {
			return true
		}
	}
	return false
}

// equalFold compares two ASCII byte slices case-insensitively.
// Header field names are ASCII per RFC 7230, so no Unicode folding.
//
// Allocation behavior: 0 allocs/op
func equalFold(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		if lower(a[i]) != lower(b[i]) {
			return false
		}
	}
	return true
}

func equalFoldString(a string, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		if lower(a[i]) != lower(b[i]) {
			return false
		}
	}
	return true
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 32
	}
	return c
}
