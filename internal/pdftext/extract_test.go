package pdftext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTruncateHardCut(t *testing.T) {
	text := strings.Repeat("abcde ", 100)

	got := Truncate(text, 50)
	require.Len(t, []rune(got), 50)
	require.Equal(t, text[:50], got)
}

func TestTruncateShortTextUnchanged(t *testing.T) {
	require.Equal(t, "short", Truncate("short", 50))
	require.Equal(t, "exact", Truncate("exact", 5))
}

func TestTruncateDisabled(t *testing.T) {
	text := strings.Repeat("x", 1000)
	require.Equal(t, text, Truncate(text, 0))
	require.Equal(t, text, Truncate(text, -1))
}

func TestTruncateMultibyte(t *testing.T) {
	got := Truncate("héllo wörld", 4)
	require.Equal(t, "héll", got)
}

func TestExtractMalformedBytes(t *testing.T) {
	var ex Extractor
	for _, data := range [][]byte{nil, {}, []byte("not a pdf at all")} {
		_, err := ex.Extract(data, 0)
		require.ErrorIs(t, err, ErrMalformedPDF)
	}
}

func TestPageCountMalformedBytes(t *testing.T) {
	var ex Extractor
	for _, data := range [][]byte{nil, {}, []byte("%PDF-1.4 truncated garbage")} {
		_, err := ex.PageCount(data)
		require.ErrorIs(t, err, ErrMalformedPDF)
	}
}
