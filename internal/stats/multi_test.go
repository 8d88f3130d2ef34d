package stats

import (
	"testing"

	"github.com/scrim-network/pubstats/internal/roster"
)

func TestIsMulti(t *testing.T) {
	rec := func(inst string) *roster.Record { return &roster.Record{Institution: inst} }

	tests := []struct {
		name string
		in   []*roster.Record
		want bool
	}{
		{"empty", nil, false},
		{"single", []*roster.Record{rec("X")}, false},
		{"same", []*roster.Record{rec("X"), rec("X")}, false},
		{"case and space", []*roster.Record{rec("Penn State"), rec(" penn state ")}, false},
		{"different", []*roster.Record{rec("X"), rec("Y")}, true},
		{"differs late", []*roster.Record{rec("X"), rec("X"), rec("Y")}, true},
		{"missing vs present", []*roster.Record{rec(""), rec("X")}, true},
		{"both missing", []*roster.Record{rec(""), rec("")}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isMulti(tt.in, institution); got != tt.want {
				t.Errorf("isMulti() = %v, want %v", got, tt.want)
			}
		})
	}
}
