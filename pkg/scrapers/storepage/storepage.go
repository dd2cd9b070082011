// Package storepage scrapes review summaries off an app's store page.
package storepage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"steamcli/pkg/api"
	"steamcli/pkg/config"
	"steamcli/pkg/httpclient"
	"steamcli/pkg/logger"
	"steamcli/pkg/models"
)

// Scraper reads the review summaries shown on an app's store page, either
// from the raw HTML or from a headless Chrome render.
type Scraper struct {
	settings config.Getter
	browser  bool
	log      *slog.Logger
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithBrowser renders the page in headless Chrome instead of fetching the
// raw HTML.
func WithBrowser() Option {
	return func(s *Scraper) { s.browser = true }
}

// WithLogger sets the logger used for debug output. A nil logger is ignored.
func WithLogger(log *slog.Logger) Option {
	return func(s *Scraper) {
		if log != nil {
			s.log = log
		}
	}
}

// NewScraper returns a Scraper reading the [SteamWebsite] settings. By
// default it fetches the page over plain HTTP and logs nothing.
func NewScraper(settings config.Getter, opts ...Option) *Scraper {
	s := &Scraper{settings: settings, log: logger.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// page holds what is needed to download and pick apart one store page.
type page struct {
	url      string
	cookie   *http.Cookie
	selector string
}

// Scrape fills the overall and recent review fields of app. Apps without an
// id are left alone, as are apps whose page shows no reviews.
func (s *Scraper) Scrape(ctx context.Context, app *models.AppRecord) error {
	if app == nil || app.ID == nil {
		return nil
	}

	p, err := s.page(*app.ID)
	if err != nil {
		return err
	}

	var lines []string
	if s.browser {
		lines, err = s.render(ctx, p)
	} else {
		lines, err = s.collect(ctx, p)
	}
	if err != nil {
		return err
	}
	s.log.Debug("Found review lines", "appid", *app.ID, "count", len(lines))

	// The page lists recent above overall.
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}

	scores := ParseScores(lines)
	if len(scores) > 0 {
		app.OverallCount, app.OverallPercent = scores[0].Count, scores[0].Percent
	}
	if len(scores) > 1 {
		app.RecentCount, app.RecentPercent = scores[1].Count, scores[1].Percent
	}
	return nil
}

// PageURL fills the [SteamWebsite] app_page template.
func (s *Scraper) PageURL(id int) (string, error) {
	template, err := s.settings.Get(config.SectionWebsite, config.KeyAppPage)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(template, config.PlaceholderID, strconv.Itoa(id)), nil
}

func (s *Scraper) page(id int) (*page, error) {
	pageURL, err := s.PageURL(id)
	if err != nil {
		return nil, err
	}

	values := make(map[string]string, 4)
	for _, key := range []string{config.KeyAgeKey, config.KeyAgeValue, config.KeyReviewsElement, config.KeyReviewsClass} {
		v, err := s.settings.Get(config.SectionWebsite, key)
		if err != nil {
			return nil, err
		}
		values[key] = v
	}

	return &page{
		url:      pageURL,
		cookie:   &http.Cookie{Name: values[config.KeyAgeKey], Value: values[config.KeyAgeValue]},
		selector: Selector(values[config.KeyReviewsElement], values[config.KeyReviewsClass]),
	}, nil
}

// Selector builds a CSS selector matching element carrying every class in
// the space separated classes.
func Selector(element, classes string) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(element))
	for _, class := range strings.Fields(classes) {
		b.WriteByte('.')
		b.WriteString(class)
	}
	return b.String()
}

func (s *Scraper) collect(ctx context.Context, p *page) ([]string, error) {
	c := colly.NewCollector(
		colly.UserAgent(httpclient.UserAgent),
		colly.StdlibContext(ctx),
		colly.ParseHTTPErrorResponse(),
	)
	if err := c.SetCookies(p.url, []*http.Cookie{p.cookie}); err != nil {
		return nil, fmt.Errorf("failed to set age cookie: %w", err)
	}

	var status int
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
	})

	var lines []string
	c.OnHTML(p.selector, func(e *colly.HTMLElement) {
		lines = append(lines, ReviewLine(e.DOM))
	})

	s.log.Debug("Navigating to app page", "url", p.url)
	if err := c.Visit(p.url); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to download app page: %w", err)
	}
	if !api.IsSuccess(status) {
		return nil, api.NewStatusError(status, "app page not found", p.url)
	}
	return lines, nil
}

// Lines returns the review line of every element in doc matching selector,
// in document order.
func Lines(doc *goquery.Document, selector string) []string {
	var lines []string
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		lines = append(lines, ReviewLine(sel))
	})
	return lines
}

// ReviewLine joins the whitespace-stripped text of each child of sel.
func ReviewLine(sel *goquery.Selection) string {
	var b strings.Builder
	sel.Contents().Each(func(_ int, child *goquery.Selection) {
		b.WriteString(strings.TrimSpace(child.Text()))
	})
	return b.String()
}

// ParseScores pulls a (count, percent) pair out of each line. The count is
// the first token made of digits and thousands separators, the percent the
// first token ending in '%'. A line missing either keeps its position with
// that half nil.
func ParseScores(lines []string) []models.Review {
	scores := make([]models.Review, 0, len(lines))
	for _, line := range lines {
		var r models.Review
		for _, tok := range strings.Fields(line) {
			if r.Count == nil && isCount(tok) {
				count := tok
				r.Count = &count
			}
			if r.Percent == nil && strings.HasSuffix(tok, "%") {
				percent := tok
				r.Percent = &percent
			}
		}
		scores = append(scores, r)
	}
	return scores
}

func isCount(tok string) bool {
	digits := 0
	for _, r := range tok {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == ',':
		default:
			return false
		}
	}
	return digits > 0
}
