package storage

import (
	"context"

	"courtscraper/internal/domain"
)

// RecordSink is the destination store for judgment records. Implementations
// must tolerate concurrent inserts; each record is written exactly once and
// never read back by the scraper.
type RecordSink interface {
	Insert(ctx context.Context, rec *domain.JudgmentRecord) error
	Ping(ctx context.Context) error
}
