package scraper

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"courtscraper/internal/config"
	"courtscraper/internal/domain"
	"courtscraper/internal/monitoring"
	"courtscraper/internal/retry"
)

// Authenticator produces the authenticated session the crawl runs on.
type Authenticator interface {
	Login(ctx context.Context) error
}

// RowLister walks listing pages and yields their rows.
type RowLister interface {
	GoToPage(ctx context.Context, pageIndex int) error
	Rows(ctx context.Context) ([]domain.Row, error)
	HasNextPage(ctx context.Context) bool
}

// RowProcessor ingests one row; it must absorb its own failures.
type RowProcessor interface {
	ProcessRow(ctx context.Context, row domain.Row)
}

// Scheduler drives the full crawl: login, page traversal, and per-page
// batched concurrent ingestion with uniform inter-batch pacing. The pacing
// is deliberate: the portal rate-limits, and batch-level delays balance
// throughput against detection.
type Scheduler struct {
	auth    Authenticator
	lister  RowLister
	proc    RowProcessor
	metrics *monitoring.Metrics
	logger  *zap.Logger

	startPage  int
	endPage    int // 0 means unbounded, follow the pager
	batchSize  int
	delay      time.Duration
	navRetries int

	// sleep is swapped out by tests to observe inter-batch pauses.
	sleep func(time.Duration)
}

func NewScheduler(cfg *config.Config, auth Authenticator, lister RowLister, proc RowProcessor, m *monitoring.Metrics, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		auth:       auth,
		lister:     lister,
		proc:       proc,
		metrics:    m,
		logger:     logger,
		startPage:  cfg.StartPage,
		endPage:    cfg.EndPage,
		batchSize:  cfg.BatchSize,
		delay:      time.Duration(cfg.PageDelayMS) * time.Millisecond,
		navRetries: cfg.NavRetries,
		sleep:      time.Sleep,
	}
}

// Run processes every page in the configured range, or follows the pager
// until it ends when no end page is set. Only login exhaustion and repeated
// navigation failure are terminal; row-level failures never surface here.
func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.auth.Login(ctx); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	pageIndex := s.startPage - 1
	if pageIndex < 0 {
		pageIndex = 0
	}
	bounded := s.endPage > 0
	endIndex := s.endPage - 1

	for {
		if bounded && pageIndex > endIndex {
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		s.logger.Info("scraping page", zap.Int("page", pageIndex+1))
		if err := s.navigate(ctx, pageIndex); err != nil {
			s.metrics.IncErrorsTotal("nav_failed")
			return fmt.Errorf("navigate to page %d: %w", pageIndex+1, err)
		}
		s.metrics.IncPagesVisited()

		rows, err := s.lister.Rows(ctx)
		if err != nil {
			return fmt.Errorf("list rows on page %d: %w", pageIndex+1, err)
		}
		s.processPage(ctx, pageIndex, rows)

		if !bounded && !s.lister.HasNextPage(ctx) {
			break
		}
		pageIndex++
	}
	return nil
}

func (s *Scheduler) navigate(ctx context.Context, pageIndex int) error {
	backoff := retry.Backoff{Base: time.Second, Cap: 10 * time.Second}
	return retry.Do(ctx, s.navRetries, backoff, func(ctx context.Context) error {
		return s.lister.GoToPage(ctx, pageIndex)
	})
}

// processPage dispatches rows in document order, awaiting each full batch
// before pausing and moving on. The trailing partial batch is awaited
// without a delay.
func (s *Scheduler) processPage(ctx context.Context, pageIndex int, rows []domain.Row) {
	var wg sync.WaitGroup
	inflight := 0
	for _, row := range rows {
		row.PageIndex = pageIndex
		wg.Add(1)
		go func(r domain.Row) {
			defer wg.Done()
			s.proc.ProcessRow(ctx, r)
		}(row)
		inflight++
		if inflight >= s.batchSize {
			wg.Wait()
			inflight = 0
			s.sleep(s.delay)
		}
	}
	wg.Wait()
}
