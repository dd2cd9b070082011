package storepage

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"steamcli/pkg/api"
	"steamcli/pkg/httpclient"
)

const renderTimeout = 45 * time.Second

// render loads the page in headless Chrome and reads the review lines out of
// the resulting DOM.
func (s *Scraper) render(ctx context.Context, p *page) ([]string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(httpclient.UserAgent),
		chromedp.WindowSize(1920, 1080),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	renderCtx, cancelRender := context.WithTimeout(browserCtx, renderTimeout)
	defer cancelRender()

	// First document response is the page itself; later ones are frames.
	var status atomic.Int64
	chromedp.ListenTarget(renderCtx, func(ev any) {
		if resp, ok := ev.(*network.EventResponseReceived); ok && resp.Type == network.ResourceTypeDocument {
			status.CompareAndSwap(0, resp.Response.Status)
		}
	})

	var html string
	s.log.Debug("Rendering app page", "url", p.url)
	err := chromedp.Run(renderCtx,
		network.Enable(),
		chromedp.ActionFunc(func(ctx context.Context) error {
			return network.SetCookie(p.cookie.Name, p.cookie.Value).WithURL(p.url).Do(ctx)
		}),
		chromedp.Navigate(p.url),
		chromedp.WaitReady(`body`, chromedp.ByQuery),
		chromedp.OuterHTML(`html`, &html, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("chromedp execution failed: %w", err)
	}

	if code := int(status.Load()); code != 0 && !api.IsSuccess(code) {
		return nil, api.NewStatusError(code, "app page not found", p.url)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse rendered app page: %w", err)
	}
	return Lines(doc, p.selector), nil
}
