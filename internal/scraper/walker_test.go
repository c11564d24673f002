package scraper

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeBrowser serves canned HTML and records navigations.
type fakeBrowser struct {
	html      string
	htmlErr   error
	navigated []string
	navErr    error
	location  string
}

func (f *fakeBrowser) Navigate(_ context.Context, url string) error {
	f.navigated = append(f.navigated, url)
	return f.navErr
}
func (f *fakeBrowser) Location(context.Context) (string, error)      { return f.location, nil }
func (f *fakeBrowser) HTML(context.Context) (string, error)          { return f.html, f.htmlErr }
func (f *fakeBrowser) Fill(_ context.Context, _, _ string) error     { return nil }
func (f *fakeBrowser) Press(_ context.Context, _, _ string) error    { return nil }
func (f *fakeBrowser) Click(_ context.Context, _ string) error       { return nil }
func (f *fakeBrowser) Settle(_ context.Context, _ time.Duration) error { return nil }
func (f *fakeBrowser) Cookies(context.Context) ([]*http.Cookie, error) {
	return nil, nil
}

const listingHTML = `<html><body>
<table><tbody>
<tr>
  <td class="views-field-title"> State v Doe </td>
  <td class="views-field-field-document-number-hidden"><a href="/preview/123">2025 SCJ 123</a></td>
  <td class="views-field-field-delivered-on">22/08/2025</td>
  <td class="views-field-nothing-1"><a class="faDownload" href="/files/123">Download</a></td>
</tr>
<tr>
  <td class="views-field-title">No Download Here</td>
  <td class="views-field-field-document-number-hidden">2025 SCJ 124</td>
  <td class="views-field-field-delivered-on">23/08/2025</td>
  <td class="views-field-nothing-1"></td>
</tr>
<tr>
  <td class="views-field-title">Absolute Link</td>
  <td class="views-field-field-document-number-hidden">2025 SCJ 125</td>
  <td class="views-field-field-delivered-on"></td>
  <td class="views-field-nothing-1"><a class="faDownload" href="https://cdn.example.net/files/125.pdf">Download</a></td>
</tr>
</tbody></table>
<nav class="pager"><ul><li class="pager__item--next"><a href="?page=1">Next</a></li></ul></nav>
</body></html>`

func newTestWalker(t *testing.T, b *fakeBrowser) *Walker {
	t.Helper()
	w, err := NewWalker(b, "https://court.example.org/judgments", zap.NewNop())
	require.NoError(t, err)
	return w
}

func TestWalkerGoToPage(t *testing.T) {
	b := &fakeBrowser{}
	w := newTestWalker(t, b)

	require.NoError(t, w.GoToPage(context.Background(), 3))
	require.Equal(t, []string{"https://court.example.org/judgments?page=3"}, b.navigated)
}

func TestWalkerRows(t *testing.T) {
	b := &fakeBrowser{html: listingHTML}
	w := newTestWalker(t, b)

	rows, err := w.Rows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2, "row without a download link must be dropped")

	require.Equal(t, "State v Doe", rows[0].Title)
	require.Equal(t, "2025 SCJ 123", rows[0].CaseNumber)
	require.Equal(t, "22/08/2025", rows[0].DeliveredOnRaw)
	require.Equal(t, "https://court.example.org/files/123", rows[0].PDFURL)
	require.Equal(t, "https://court.example.org/preview/123", rows[0].PDFPreviewURL)

	require.Equal(t, "Absolute Link", rows[1].Title)
	require.Equal(t, "https://cdn.example.net/files/125.pdf", rows[1].PDFURL)
	require.Empty(t, rows[1].PDFPreviewURL, "missing preview anchor is not an error")

	for _, row := range rows {
		require.NotEmpty(t, row.PDFURL)
	}
}

func TestWalkerRowsEmptyPage(t *testing.T) {
	b := &fakeBrowser{html: "<html><body><p>no table</p></body></html>"}
	w := newTestWalker(t, b)

	rows, err := w.Rows(context.Background())
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestWalkerHasNextPage(t *testing.T) {
	b := &fakeBrowser{html: listingHTML}
	w := newTestWalker(t, b)
	require.True(t, w.HasNextPage(context.Background()))

	b.html = `<html><body><nav class="pager"><ul><li class="pager__item--previous"><a href="?page=0">Prev</a></li></ul></nav></body></html>`
	require.False(t, w.HasNextPage(context.Background()))
}

func TestNewWalkerRejectsRelativeTarget(t *testing.T) {
	_, err := NewWalker(&fakeBrowser{}, "/judgments", zap.NewNop())
	require.Error(t, err)
}
