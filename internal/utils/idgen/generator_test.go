package idgen

import (
	"strings"
	"testing"
)

func TestNewID(t *testing.T) {
	tests := []struct {
		name       string
		prefix     string
		length     int
		wantPrefix string
	}{
		{
			name:       "conversation ID",
			prefix:     "conv",
			length:     16,
			wantPrefix: "conv_",
		},
		{
			name:       "message ID",
			prefix:     "msg",
			length:     16,
			wantPrefix: "msg_",
		},
		{
			name:       "approval ID",
			prefix:     "appr",
			length:     24,
			wantPrefix: "appr_",
		},
		{
			name:       "short ID",
			prefix:     "t",
			length:     8,
			wantPrefix: "t_",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewID(tt.prefix, tt.length)
			if err != nil {
				t.Fatalf("NewID() error = %v", err)
			}
			if !strings.HasPrefix(got, tt.wantPrefix) {
				t.Errorf("NewID() = %v, want prefix %v", got, tt.wantPrefix)
			}
			if len(got) != len(tt.prefix)+1+tt.length {
				t.Errorf("NewID() length = %d, want %d", len(got), len(tt.prefix)+1+tt.length)
			}
			for _, c := range got[len(tt.prefix)+1:] {
				if !((c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')) {
					t.Errorf("NewID() contains invalid character: %c", c)
				}
			}
		})
	}
}

func TestNewIDUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := MustNewID("msg", 16)
		if seen[id] {
			t.Fatalf("duplicate ID generated: %s", id)
		}
		seen[id] = true
	}
}
