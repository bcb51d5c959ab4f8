package identity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	handle := "octo-cat"

	tests := []struct {
		name   string
		raw    any
		want   Identity
		wantOK bool
	}{
		{name: "plain", raw: "octocat", want: "octocat", wantOK: true},
		{name: "strips at sign", raw: "@Foo-Bar", want: "Foo-Bar", wantOK: true},
		{name: "trims whitespace", raw: "  @bob \n", want: "bob", wantOK: true},
		{name: "single char", raw: "a", want: "a", wantOK: true},
		{name: "consecutive hyphens kept", raw: "a--b", want: "a--b", wantOK: true},
		{name: "max length", raw: strings.Repeat("a", 39), want: Identity(strings.Repeat("a", 39)), wantOK: true},
		{name: "pointer", raw: &handle, want: "octo-cat", wantOK: true},
		{name: "empty", raw: "", wantOK: false},
		{name: "only at sign", raw: "@", wantOK: false},
		{name: "double at sign", raw: "@@bob", wantOK: false},
		{name: "too long", raw: strings.Repeat("a", 40), wantOK: false},
		{name: "leading hyphen", raw: "-bob", wantOK: false},
		{name: "trailing hyphen", raw: "bob-", wantOK: false},
		{name: "underscore", raw: "bob_smith", wantOK: false},
		{name: "inner space", raw: "bob smith", wantOK: false},
		{name: "non ascii", raw: "bøb", wantOK: false},
		{name: "nil", raw: nil, wantOK: false},
		{name: "nil pointer", raw: (*string)(nil), wantOK: false},
		{name: "number", raw: 42, wantOK: false},
		{name: "bool", raw: true, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
