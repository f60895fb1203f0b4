//go:build e2e

package server

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/chromedp/chromedp"
)

func TestDashboardBrowser(t *testing.T) {
	f := newFixture(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	t.Run("page loads with the report rendered", func(t *testing.T) {
		var title, tool string
		err := chromedp.Run(browserCtx,
			chromedp.Navigate(f.ts.URL+"/"),
			chromedp.WaitReady("#header-tool", chromedp.ByID),
			chromedp.Title(&title),
			chromedp.Text("#header-tool", &tool, chromedp.ByID),
		)
		if err != nil {
			t.Fatalf("chromedp: %v", err)
		}
		if title != "Test Dashboard" {
			t.Errorf("title = %q", title)
		}
		if !strings.Contains(tool, "EvoMaster") {
			t.Errorf("header tool = %q", tool)
		}
	})

	t.Run("filter toggles narrow the endpoint list", func(t *testing.T) {
		var before, after string
		err := chromedp.Run(browserCtx,
			chromedp.Navigate(f.ts.URL+"/"),
			chromedp.Click(`.tab[data-tab="endpoints"]`, chromedp.ByQuery),
			chromedp.WaitVisible("#endpoint-counter", chromedp.ByID),
			chromedp.Text("#endpoint-counter", &before, chromedp.ByID),
			// The first toggle is H200; one click makes it active.
			chromedp.Click("#filters button:first-child", chromedp.ByQuery),
			chromedp.Poll(`document.getElementById("endpoint-counter").textContent === "2 / 3"`, nil),
			chromedp.Text("#endpoint-counter", &after, chromedp.ByID),
		)
		if err != nil {
			t.Fatalf("chromedp: %v", err)
		}
		if before != "3 / 3" || after != "2 / 3" {
			t.Errorf("counter went from %q to %q", before, after)
		}
		if _, body := f.get(t, "/metrics"); strings.Contains(body, "wfc_report_filter_requests_total 0") {
			t.Error("the page should filter through the API")
		}
	})

	t.Run("test case link opens a code tab", func(t *testing.T) {
		var code string
		err := chromedp.Run(browserCtx,
			chromedp.Navigate(f.ts.URL+"/"),
			chromedp.Click(`.tab[data-tab="endpoints"]`, chromedp.ByQuery),
			chromedp.WaitVisible("#endpoints details", chromedp.ByQuery),
			chromedp.Evaluate(`document.querySelector(".test-link").click()`, nil),
			chromedp.WaitVisible("#panel-test-t1 pre code", chromedp.ByQuery),
			chromedp.Text("#panel-test-t1 pre code", &code, chromedp.ByQuery),
		)
		if err != nil {
			t.Fatalf("chromedp: %v", err)
		}
		if !strings.HasPrefix(code, "line1") {
			t.Errorf("code excerpt = %q", code)
		}
	})
}
