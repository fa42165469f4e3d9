package logger

import "testing"

func TestInit(t *testing.T) {
	prev := Log
	defer func() { Log = prev }()

	tests := []struct {
		level       string
		development bool
		wantErr     bool
	}{
		{"info", false, false},
		{"debug", true, false},
		{"warn", false, false},
		{"loud", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			err := Init(tt.level, tt.development)
			if (err != nil) != tt.wantErr {
				t.Errorf("Init(%q) error = %v, wantErr %t", tt.level, err, tt.wantErr)
			}
			if Log == nil {
				t.Error("Expected Log to be set")
			}
		})
	}
}
