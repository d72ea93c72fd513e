package token

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validMetadata() *Metadata {
	return &Metadata{
		Name:         "Test Token",
		Symbol:       "TEST",
		Description:  "A test token",
		ImageURL:     "https://example.com/image.png",
		TelegramLink: "https://t.me/testtoken",
		TwitterLink:  "https://twitter.com/testtoken",
	}
}

func TestValidate_OK(t *testing.T) {
	result := Validate(validMetadata())
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestValidate_AccumulatesAllErrors(t *testing.T) {
	// Every field broken at once: validation must not fail fast.
	md := &Metadata{
		Name:         "",
		Symbol:       "TOOLONG99", // 9 chars, one past the 8-char symbol limit
		Description:  "",
		ImageURL:     "invalid_url",
		TelegramLink: "",
		TwitterLink:  "",
	}

	result := Validate(md)
	assert.False(t, result.Valid)
	assert.Len(t, result.Errors, 6)
}

func TestValidate_FieldLimits(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Metadata)
		wantErr string
	}{
		{"name too long", func(m *Metadata) { m.Name = strings.Repeat("x", 33) }, "name"},
		{"symbol too long", func(m *Metadata) { m.Symbol = "NINECHARS" }, "symbol"},
		{"description too long", func(m *Metadata) { m.Description = strings.Repeat("d", 201) }, "description"},
		{"empty name", func(m *Metadata) { m.Name = "" }, "name"},
		{"bad image url", func(m *Metadata) { m.ImageURL = "not a url" }, "image URL"},
		{"missing telegram", func(m *Metadata) { m.TelegramLink = "" }, "telegram"},
		{"missing twitter", func(m *Metadata) { m.TwitterLink = "" }, "twitter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := validMetadata()
			tt.mutate(md)
			result := Validate(md)
			assert.False(t, result.Valid)
			assert.Len(t, result.Errors, 1)
			assert.Contains(t, result.Errors[0], tt.wantErr)
		})
	}
}

func TestValidate_BoundaryLengths(t *testing.T) {
	md := validMetadata()
	md.Name = strings.Repeat("n", 32)
	md.Symbol = strings.Repeat("s", 8)
	md.Description = strings.Repeat("d", 200)

	result := Validate(md)
	assert.True(t, result.Valid, "limits are inclusive")
}

func TestValidationResult_ValidTracksErrors(t *testing.T) {
	r := NewValidationResult()
	assert.True(t, r.Valid)

	r.AddWarning("just a warning")
	assert.True(t, r.Valid)

	r.AddError("a violation")
	assert.False(t, r.Valid)
	assert.Equal(t, len(r.Errors) == 0, r.Valid)
}
