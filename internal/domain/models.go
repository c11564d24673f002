package domain

import (
	"strings"
	"time"
)

// timestampLayout is the shape the store expects for all timestamp columns.
const timestampLayout = "2006-01-02 15:04:05"

// dateLayouts are the accepted shapes of the portal's "delivered on" column,
// tried in order. First match wins.
var dateLayouts = []string{
	"02/01/2006",
	"2006-01-02",
	"02-01-2006",
	"02/01/06",
}

// Row is one extracted listing-table row before download and ingestion.
// Rows are transient: produced per page scan, consumed immediately.
type Row struct {
	Title          string
	CaseNumber     string
	DeliveredOnRaw string
	PDFURL         string
	PDFPreviewURL  string
	PageIndex      int // zero-based, stamped by the scheduler
}

// JudgmentRecord is the persisted shape of one judgment. JSON tags match the
// destination table's column names.
type JudgmentRecord struct {
	CaseNumber    *string `json:"case_number"`
	CaseTitle     *string `json:"case_title"`
	JudgmentDate  *string `json:"judgment_date"`
	FileName      string  `json:"file_name"`
	Content       string  `json:"content"`
	PageCount     int     `json:"page_count"`
	PageNumber    int     `json:"page_number"`
	ExtractedAt   string  `json:"extracted_at"`
	DownloadURL   string  `json:"download_url"`
	PDFPreviewURL *string `json:"pdf_preview_url"`
}

// NormalizeDate parses the free-form delivered-on text against the accepted
// layouts and renders it as a timestamp at midnight. Unparseable or empty
// input yields nil, never an error.
func NormalizeDate(raw string) *string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			s := t.Format(timestampLayout)
			return &s
		}
	}
	return nil
}

// NewJudgmentRecord assembles the persistence record for one processed row.
func NewJudgmentRecord(row Row, fileName, content string, pageCount int, extractedAt time.Time) *JudgmentRecord {
	return &JudgmentRecord{
		CaseNumber:    nullable(row.CaseNumber),
		CaseTitle:     nullable(row.Title),
		JudgmentDate:  NormalizeDate(row.DeliveredOnRaw),
		FileName:      fileName,
		Content:       content,
		PageCount:     pageCount,
		PageNumber:    row.PageIndex + 1,
		ExtractedAt:   extractedAt.UTC().Format(timestampLayout),
		DownloadURL:   row.PDFURL,
		PDFPreviewURL: nullable(row.PDFPreviewURL),
	}
}

func nullable(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
