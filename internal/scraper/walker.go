package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"courtscraper/internal/browser"
	"courtscraper/internal/domain"
)

// Listing-table selectors. Structural classes, not column positions: the
// portal reorders columns between themes but keeps the views field classes.
const (
	rowSel        = "table tbody tr"
	titleCellSel  = "td.views-field-title"
	caseNoCellSel = "td.views-field-field-document-number-hidden"
	dateCellSel   = "td.views-field-field-delivered-on"
	downloadSel   = "a.faDownload"
	nextPagerSel  = "nav.pager li.pager__item--next a"
)

// Walker navigates successive listing pages and extracts one batch of row
// descriptors per page.
type Walker struct {
	b       browser.Browser
	baseURL string
	origin  *url.URL
	logger  *zap.Logger
}

func NewWalker(b browser.Browser, targetURL string, logger *zap.Logger) (*Walker, error) {
	u, err := url.Parse(targetURL)
	if err != nil {
		return nil, fmt.Errorf("parse target url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("target url %q has no origin", targetURL)
	}
	return &Walker{
		b:       b,
		baseURL: targetURL,
		origin:  &url.URL{Scheme: u.Scheme, Host: u.Host},
		logger:  logger,
	}, nil
}

// GoToPage navigates to the zero-based listing page.
func (w *Walker) GoToPage(ctx context.Context, pageIndex int) error {
	return w.b.Navigate(ctx, fmt.Sprintf("%s?page=%d", w.baseURL, pageIndex))
}

// Rows extracts the current page's rows. Rows without a resolvable download
// link are dropped silently; every returned row has a non-empty PDFURL.
func (w *Walker) Rows(ctx context.Context) ([]domain.Row, error) {
	html, err := w.b.HTML(ctx)
	if err != nil {
		return nil, fmt.Errorf("read page html: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse page html: %w", err)
	}

	var rows []domain.Row
	doc.Find(rowSel).Each(func(_ int, tr *goquery.Selection) {
		href, ok := tr.Find(downloadSel).First().Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}
		pdfURL, err := w.absolute(href)
		if err != nil {
			w.logger.Debug("dropping row with unresolvable download href", zap.String("href", href))
			return
		}

		row := domain.Row{
			Title:          cellText(tr, titleCellSel),
			CaseNumber:     cellText(tr, caseNoCellSel),
			DeliveredOnRaw: cellText(tr, dateCellSel),
			PDFURL:         pdfURL,
		}
		if pHref, ok := tr.Find(caseNoCellSel + " a").First().Attr("href"); ok {
			if previewURL, err := w.absolute(pHref); err == nil {
				row.PDFPreviewURL = previewURL
			}
		}
		rows = append(rows, row)
	})
	return rows, nil
}

// HasNextPage probes the pager for a "next" control. Failures to read the
// page count as no next page; unbounded runs then terminate.
func (w *Walker) HasNextPage(ctx context.Context) bool {
	html, err := w.b.HTML(ctx)
	if err != nil {
		w.logger.Warn("could not probe pager", zap.Error(err))
		return false
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		w.logger.Warn("could not parse pager html", zap.Error(err))
		return false
	}
	return doc.Find(nextPagerSel).Length() > 0
}

func (w *Walker) absolute(href string) (string, error) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", err
	}
	return w.origin.ResolveReference(ref).String(), nil
}

func cellText(tr *goquery.Selection, sel string) string {
	return strings.TrimSpace(tr.Find(sel).First().Text())
}
