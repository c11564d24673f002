package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNormalizeDate(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"22/08/2025", "2025-08-22 00:00:00"},
		{"2025-08-22", "2025-08-22 00:00:00"},
		{"22-08-2025", "2025-08-22 00:00:00"},
		{"22/08/25", "2025-08-22 00:00:00"},
		{"  22/08/2025  ", "2025-08-22 00:00:00"},
		{"01/02/2024", "2024-02-01 00:00:00"}, // day first, not month
	}
	for _, c := range cases {
		got := NormalizeDate(c.raw)
		require.NotNil(t, got, "raw=%q", c.raw)
		require.Equal(t, c.want, *got, "raw=%q", c.raw)
	}
}

func TestNormalizeDateUnparseable(t *testing.T) {
	for _, raw := range []string{"", "   ", "not a date", "2025/08/22", "32/13/2025"} {
		require.Nil(t, NormalizeDate(raw), "raw=%q", raw)
	}
}

func TestNewJudgmentRecord(t *testing.T) {
	row := Row{
		Title:          "State v Doe",
		CaseNumber:     "2025 SCJ 123",
		DeliveredOnRaw: "22/08/2025",
		PDFURL:         "https://example.org/files/123",
		PDFPreviewURL:  "https://example.org/preview/123",
		PageIndex:      4,
	}
	at := time.Date(2025, 8, 25, 10, 30, 0, 0, time.UTC)

	rec := NewJudgmentRecord(row, "123.pdf", "judgment text", 7, at)

	require.Equal(t, "2025 SCJ 123", *rec.CaseNumber)
	require.Equal(t, "State v Doe", *rec.CaseTitle)
	require.Equal(t, "2025-08-22 00:00:00", *rec.JudgmentDate)
	require.Equal(t, "123.pdf", rec.FileName)
	require.Equal(t, "judgment text", rec.Content)
	require.Equal(t, 7, rec.PageCount)
	require.Equal(t, 5, rec.PageNumber)
	require.Equal(t, "2025-08-25 10:30:00", rec.ExtractedAt)
	require.Equal(t, row.PDFURL, rec.DownloadURL)
	require.Equal(t, row.PDFPreviewURL, *rec.PDFPreviewURL)
}

func TestNewJudgmentRecordNullableFields(t *testing.T) {
	row := Row{PDFURL: "https://example.org/files/9"}
	rec := NewJudgmentRecord(row, "9.pdf", "", 0, time.Now())

	require.Nil(t, rec.CaseNumber)
	require.Nil(t, rec.CaseTitle)
	require.Nil(t, rec.JudgmentDate)
	require.Nil(t, rec.PDFPreviewURL)
	require.Equal(t, 1, rec.PageNumber)
}
