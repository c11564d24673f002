package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"courtscraper/internal/domain"
)

// PostgresSink inserts judgment records directly into a Postgres table, for
// self-hosted deployments that bypass the REST layer.
type PostgresSink struct {
	db    *pgxpool.Pool
	query string
}

func NewPostgresSink(ctx context.Context, connStr, table string) (*PostgresSink, error) {
	db, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	query := fmt.Sprintf(
		`INSERT INTO %s
		   (case_number, case_title, judgment_date, file_name, content,
		    page_count, page_number, extracted_at, download_url, pdf_preview_url)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		pgx.Identifier{table}.Sanitize(),
	)
	return &PostgresSink{db: db, query: query}, nil
}

func (s *PostgresSink) Insert(ctx context.Context, rec *domain.JudgmentRecord) error {
	_, err := s.db.Exec(ctx, s.query,
		rec.CaseNumber, rec.CaseTitle, rec.JudgmentDate, rec.FileName, rec.Content,
		rec.PageCount, rec.PageNumber, rec.ExtractedAt, rec.DownloadURL, rec.PDFPreviewURL,
	)
	return err
}

func (s *PostgresSink) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *PostgresSink) Close() {
	s.db.Close()
}
