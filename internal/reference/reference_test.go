// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidReference(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"abs url", "https://arxiv.org/abs/2506.14767", true},
		{"four digit suffix", "https://arxiv.org/abs/0704.0001", true},
		{"no scheme", "arxiv.org/abs/2301.07041", true},
		{"versioned", "https://arxiv.org/abs/2301.07041v3", true},
		{"embedded in text", "see arxiv.org/abs/2301.07041 for details", true},
		{"pdf url", "https://arxiv.org/pdf/2301.07041", false},
		{"three digit suffix", "https://arxiv.org/abs/2301.070", false},
		{"old style id", "https://arxiv.org/abs/hep-th/9901001", false},
		{"bare id", "2301.07041", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidReference(tt.input))
		})
	}
}

func TestExtractIdentifier(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		wantID string
		wantOK bool
	}{
		{"abs url", "https://arxiv.org/abs/2506.14767", "2506.14767", true},
		{"version dropped", "https://arxiv.org/abs/2301.07041v2", "2301.07041", true},
		{"six digits truncated to five", "https://arxiv.org/abs/2301.123456", "2301.12345", true},
		{"first match wins", "arxiv.org/abs/1111.2222 arxiv.org/abs/3333.4444", "1111.2222", true},
		{"no match", "https://example.com/abs/2301.07041", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := ExtractIdentifier(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestAbsURLRoundTrip(t *testing.T) {
	for _, id := range []string{"2506.14767", "0704.0001", "1912.00001"} {
		got, ok := ExtractIdentifier(AbsURL(id))
		require.True(t, ok, id)
		assert.Equal(t, id, got)
		assert.True(t, IsIdentifier(got))
	}
}

func TestDerivedURLs(t *testing.T) {
	id, ok := ExtractIdentifier("https://arxiv.org/abs/2506.14767")
	require.True(t, ok)
	assert.Equal(t, "2506.14767", id)
	assert.Equal(t, "https://arxiv.org/pdf/2506.14767.pdf", PDFURL(id))
	assert.Equal(t, "https://arxiv.org/abs/2506.14767", AbsURL(id))
}

func TestIsIdentifier(t *testing.T) {
	assert.True(t, IsIdentifier("2301.07041"))
	assert.True(t, IsIdentifier("2301.0704"))
	assert.False(t, IsIdentifier("2301.07041v1"))
	assert.False(t, IsIdentifier("arXiv:2301.07041"))
	assert.False(t, IsIdentifier(" 2301.07041"))
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantID  string
		wantURL string
	}{
		{"abs url keeps caller url", "https://arxiv.org/abs/2506.14767v2", "2506.14767", "https://arxiv.org/abs/2506.14767v2"},
		{"url inside text", "see https://arxiv.org/abs/2506.14767.", "2506.14767", "https://arxiv.org/abs/2506.14767"},
		{"url with trailing query", "https://arxiv.org/abs/2506.14767?context=cs", "2506.14767", "https://arxiv.org/abs/2506.14767"},
		{"schemeless url", "arxiv.org/abs/2506.14767", "2506.14767", "https://arxiv.org/abs/2506.14767"},
		{"bare", "2301.07041", "2301.07041", "https://arxiv.org/abs/2301.07041"},
		{"prefixed", "arXiv:2301.07041", "2301.07041", "https://arxiv.org/abs/2301.07041"},
		{"versioned bare", "2301.07041v3", "2301.07041", "https://arxiv.org/abs/2301.07041"},
		{"whitespace trimmed", "  2301.07041\n", "2301.07041", "https://arxiv.org/abs/2301.07041"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := Resolve(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, ref.Identifier)
			assert.Equal(t, tt.wantURL, ref.URL)
		})
	}
}

func TestResolve_Invalid(t *testing.T) {
	for _, input := range []string{"", "not-an-id", "10.1145/1234567", "https://example.com/paper.pdf"} {
		_, err := Resolve(input)
		assert.ErrorIs(t, err, ErrInvalidReference, input)
	}
}
