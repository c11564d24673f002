package scraper

import (
	"context"
	"fmt"
	"mime"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"courtscraper/internal/domain"
	"courtscraper/internal/monitoring"
	"courtscraper/internal/pdftext"
	"courtscraper/internal/storage"
)

// TextExtractor is the pure bytes-to-text/page-count collaborator.
type TextExtractor interface {
	Extract(data []byte, maxChars int) (string, error)
	PageCount(data []byte) (int, error)
}

// Ingestor turns one row descriptor into one persisted judgment record:
// download, extract, normalize, insert. Failures are absorbed per row.
type Ingestor struct {
	http      *resty.Client
	extractor TextExtractor
	sink      storage.RecordSink
	dedup     *storage.RedisStore // nil disables the already-ingested check
	metrics   *monitoring.Metrics
	logger    *zap.Logger
	maxChars  int
}

func NewIngestor(client *resty.Client, sink storage.RecordSink, dedup *storage.RedisStore, m *monitoring.Metrics, logger *zap.Logger, maxChars int) *Ingestor {
	return &Ingestor{
		http:      client,
		extractor: pdftext.Extractor{},
		sink:      sink,
		dedup:     dedup,
		metrics:   m,
		logger:    logger,
		maxChars:  maxChars,
	}
}

// ProcessRow runs the pipeline for one row. Any failure is logged with the
// offending URL and dropped; it never propagates to sibling rows or the
// batch loop.
func (in *Ingestor) ProcessRow(ctx context.Context, row domain.Row) {
	if err := in.processRow(ctx, row); err != nil {
		in.logger.Error("failed processing judgment",
			zap.String("pdf_url", row.PDFURL),
			zap.Error(err),
		)
	}
}

func (in *Ingestor) processRow(ctx context.Context, row domain.Row) error {
	if in.dedup != nil {
		seen, err := in.dedup.IsIngested(ctx, row.PDFURL)
		if err != nil {
			in.metrics.IncErrorsTotal("dedup_check_failed")
			in.logger.Warn("dedup check failed, processing anyway",
				zap.String("pdf_url", row.PDFURL), zap.Error(err))
		} else if seen {
			in.metrics.IncRowsSkipped()
			in.logger.Debug("skipping already ingested judgment", zap.String("pdf_url", row.PDFURL))
			return nil
		}
	}

	resp, err := in.http.R().SetContext(ctx).Get(row.PDFURL)
	if err != nil {
		in.metrics.IncErrorsTotal("download_failed")
		return fmt.Errorf("download: %w", err)
	}
	if resp.IsError() {
		in.metrics.IncErrorsTotal("bad_status")
		return fmt.Errorf("download: unexpected status %d", resp.StatusCode())
	}
	body := resp.Body()
	fileName := fileNameFrom(resp.Header().Get("Content-Disposition"), row.PDFURL)

	content, err := in.extractor.Extract(body, in.maxChars)
	if err != nil {
		in.metrics.IncErrorsTotal("pdf_parse_failed")
		return fmt.Errorf("extract text: %w", err)
	}
	pageCount, err := in.extractor.PageCount(body)
	if err != nil {
		in.metrics.IncErrorsTotal("pdf_parse_failed")
		return fmt.Errorf("count pages: %w", err)
	}

	rec := domain.NewJudgmentRecord(row, fileName, content, pageCount, time.Now())
	if err := in.sink.Insert(ctx, rec); err != nil {
		in.metrics.IncErrorsTotal("sink_insert_failed")
		return fmt.Errorf("insert record: %w", err)
	}

	if in.dedup != nil {
		if err := in.dedup.MarkIngested(ctx, row.PDFURL); err != nil {
			in.logger.Warn("could not mark judgment as ingested",
				zap.String("pdf_url", row.PDFURL), zap.Error(err))
		}
	}

	in.metrics.IncJudgmentsIngested()
	in.logger.Info("judgment ingested",
		zap.String("file_name", fileName),
		zap.Int("page_count", pageCount),
		zap.Int("page_number", rec.PageNumber),
	)
	return nil
}

// fileNameFrom takes the filename parameter of a Content-Disposition header
// when present, else the URL's last path segment with a .pdf suffix ensured.
func fileNameFrom(contentDisposition, rawURL string) string {
	if contentDisposition != "" {
		if _, params, err := mime.ParseMediaType(contentDisposition); err == nil {
			if name := strings.Trim(params["filename"], `"' `); name != "" {
				return name
			}
		} else if i := strings.Index(contentDisposition, "filename="); i >= 0 {
			// Header too mangled for the mime parser; salvage the parameter.
			name := contentDisposition[i+len("filename="):]
			if j := strings.IndexByte(name, ';'); j >= 0 {
				name = name[:j]
			}
			if name = strings.Trim(name, `"' `); name != "" {
				return name
			}
		}
	}

	seg := strings.TrimRight(rawURL, "/")
	if i := strings.LastIndexByte(seg, '/'); i >= 0 {
		seg = seg[i+1:]
	}
	if i := strings.IndexAny(seg, "?#"); i >= 0 {
		seg = seg[:i]
	}
	if !strings.HasSuffix(strings.ToLower(seg), ".pdf") {
		seg += ".pdf"
	}
	return seg
}
