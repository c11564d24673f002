package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"courtscraper/internal/domain"
)

// SupabaseSink inserts judgment records through Supabase's PostgREST
// endpoint, one row per record.
type SupabaseSink struct {
	client *resty.Client
	table  string
}

func NewSupabaseSink(baseURL, serviceKey, table string) *SupabaseSink {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("apikey", serviceKey).
		SetHeader("Authorization", "Bearer "+serviceKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(30 * time.Second)
	return &SupabaseSink{client: client, table: table}
}

func (s *SupabaseSink) Insert(ctx context.Context, rec *domain.JudgmentRecord) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=minimal").
		SetBody(rec).
		Post("/rest/v1/" + s.table)
	if err != nil {
		return fmt.Errorf("insert into %s: %w", s.table, err)
	}
	if resp.IsError() {
		return fmt.Errorf("insert into %s: status %d: %s", s.table, resp.StatusCode(), resp.String())
	}
	return nil
}

func (s *SupabaseSink) Ping(ctx context.Context) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("select", "file_name").
		SetQueryParam("limit", "1").
		Get("/rest/v1/" + s.table)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("ping %s: status %d", s.table, resp.StatusCode())
	}
	return nil
}
