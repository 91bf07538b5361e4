package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "separate value form",
			args:         []string{"-dsn", "postgres://localhost/auth", "-x", "1"},
			allowedFlags: []string{"-dsn"},
			want:         []string{"-dsn", "postgres://localhost/auth"},
		},
		{
			name:         "equals form",
			args:         []string{"-email=alice@example.com", "-other=zzz"},
			allowedFlags: []string{"-email"},
			want:         []string{"-email=alice@example.com"},
		},
		{
			name:         "flag followed by another flag keeps no value",
			args:         []string{"-verified", "-email", "alice@example.com"},
			allowedFlags: []string{"-verified", "-email"},
			want:         []string{"-verified", "-email", "alice@example.com"},
		},
		{
			name:         "nothing allowed",
			args:         []string{"-a", "1", "-b=2"},
			allowedFlags: nil,
			want:         []string{},
		},
		{
			name:         "empty args",
			args:         nil,
			allowedFlags: []string{"-dsn"},
			want:         []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowedFlags))
		})
	}
}
