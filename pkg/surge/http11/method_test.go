package http11

import "testing"

func TestParseMethodID(t *testing.T) {
	tests := []struct {
		token string
		want  uint8
	}{
		{"GET", MethodGET},
		{"POST", MethodPOST},
		{"PUT", MethodPUT},
		{"DELETE", MethodDELETE},
		{"PATCH", MethodPATCH},
		{"HEAD", MethodHEAD},
		{"OPTIONS", MethodOPTIONS},
		{"CONNECT", MethodCONNECT},
		{"TRACE", MethodTRACE},
		{"get", MethodUnknown},  // methods are case-sensitive
		{"GETS", MethodUnknown}, // no prefix matching
		{"G", MethodUnknown},
		{"", MethodUnknown},
		{"BREW", MethodUnknown},
	}

	for _, tt := range tests {
		if got := ParseMethodID([]byte(tt.token)); got != tt.want {
			t.Errorf("ParseMethodID(%q) = %d, want %d", tt.token, got, tt.want)
		}
	}
}

func TestMethodStringRoundTrip(t *testing.T) {
	for id := MethodGET; id <= MethodTRACE; id++ {
		s := MethodString(id)
		if s == "" {
			t.Fatalf("MethodString(%d) is empty", id)
		}
		if got := ParseMethodID([]byte(s)); got != id {
			t.Errorf("ParseMethodID(MethodString(%d)) = %d", id, got)
		}
		if string(MethodBytes(id)) != s {
			t.Errorf("MethodBytes(%d) = %q, want %q", id, MethodBytes(id), s)
		}
	}
}

func TestMethodUnknownHasNoName(t *testing.T) {
	if MethodString(MethodUnknown) != "" {
		t.Error("MethodString(MethodUnknown) should be empty")
	}
	if MethodBytes(MethodUnknown) != nil {
		t.Error("MethodBytes(MethodUnknown) should be nil")
	}
	if IsValidMethodID(MethodUnknown) {
		t.Error("MethodUnknown should not be valid")
	}
	if IsValidMethodID(200) {
		t.Error("out-of-range ID should not be valid")
	}
}
