package domain

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestParsePrompts(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []string
		wantErr bool
	}{
		{name: "strings", raw: `["too formal?","wear again?"]`, want: []string{"too formal?", "wear again?"}},
		{name: "empty array", raw: `[]`, want: []string{}},
		{name: "mixed types", raw: `["ok", 3]`, wantErr: true},
		{name: "not an array", raw: `"just a string"`, wantErr: true},
		{name: "object", raw: `{"a":1}`, wantErr: true},
		{name: "null element", raw: `[null]`, wantErr: true},
		{name: "null among strings", raw: `["ok", null]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePrompts(json.RawMessage(tt.raw))
			if tt.wantErr {
				if !errors.Is(err, ErrBadPrompts) {
					t.Fatalf("err = %v, want ErrBadPrompts", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePrompts: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ParsePrompts = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseDiscovery(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{name: "true", raw: `true`, want: true},
		{name: "false", raw: `false`, want: false},
		{name: "absent", raw: ``, want: true},
		{name: "string defaults true", raw: `"nope"`, want: true},
		{name: "number defaults true", raw: `0`, want: true},
		{name: "null defaults true", raw: `null`, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseDiscovery(json.RawMessage(tt.raw)); got != tt.want {
				t.Fatalf("ParseDiscovery(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "string", raw: `"hello"`, want: "hello"},
		{name: "number", raw: `42`, want: "42"},
		{name: "object", raw: `{"a":1}`, want: `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeText(json.RawMessage(tt.raw)); got != tt.want {
				t.Fatalf("SanitizeText(%s) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
