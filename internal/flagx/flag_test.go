package flagx

import (
	"reflect"
	"testing"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value",
			args:    []string{"-a", ":3000", "-x", "ignored"},
			allowed: []string{"-a"},
			want:    []string{"-a", ":3000"},
		},
		{
			name:    "equals form",
			args:    []string{"-d=postgres://db", "--other=1"},
			allowed: []string{"-d"},
			want:    []string{"-d=postgres://db"},
		},
		{
			name:    "flag followed by another flag keeps no value",
			args:    []string{"-a", "-d", "dsn"},
			allowed: []string{"-a", "-d"},
			want:    []string{"-a", "-d", "dsn"},
		},
		{
			name:    "nothing allowed",
			args:    []string{"-a", "1"},
			allowed: []string{"-b"},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterArgs(tt.args, tt.allowed)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("FilterArgs() = %v, want %v", got, tt.want)
			}
		})
	}
}
