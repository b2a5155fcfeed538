package configure

import "testing"

func TestAtLeast(t *testing.T) {
	tests := []struct {
		have, min string
		want      bool
		wantErr   bool
	}{
		{"3.45.1", "3.45", true, false},
		{"3.45.1", "3.46", false, false},
		{"7.50", "7.9", true, false},
		{"v1.2.3", "1.2.3", true, false},
		{"2.9.14-rc1", "2.9.14", false, false},
		{"1.2.3.4", "1.2.3", true, false},
		{"", "1.0", false, true},
		{"1.0", "latest", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.have+">="+tt.min, func(t *testing.T) {
			got, err := AtLeast(tt.have, tt.min)
			if (err != nil) != tt.wantErr {
				t.Fatalf("AtLeast(%q, %q) error = %v, wantErr %v", tt.have, tt.min, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("AtLeast(%q, %q) = %v, want %v", tt.have, tt.min, got, tt.want)
			}
		})
	}
}
