// Package results renders an AppRecord as centered terminal text.
package results

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"steamcli/pkg/models"
)

// DefaultWidth is the terminal width lines are centered to.
const DefaultWidth = 79

const notAvailable = "N/A"

// Results accumulates report blocks in the order they are formatted.
type Results struct {
	Width  int
	blocks [][]string
}

func New(width int) *Results {
	if width <= 0 {
		width = DefaultWidth
	}
	return &Results{Width: width}
}

func (r *Results) add(lines ...string) {
	r.blocks = append(r.blocks, lines)
}

// FormatSteamInfo adds the title, price and metascore lines.
func (r *Results) FormatSteamInfo(app *models.AppRecord) {
	title := orNA(app.Title)
	released := "no release date"
	if app.ReleaseDate != nil && *app.ReleaseDate != "" {
		released = *app.ReleaseDate
	}

	currency := ""
	if app.Currency != nil && *app.Currency != "" {
		currency = " " + *app.Currency
	}

	metascore := notAvailable
	if app.Metascore != nil {
		metascore = fmt.Sprint(*app.Metascore)
	}

	r.add(
		fmt.Sprintf("*** %s (%s) ***", title, released),
		fmt.Sprintf("%s%s (%d%% from %s%s)", cents(app.FinalPrice), currency, app.Discount, cents(app.InitialPrice), currency),
		fmt.Sprintf("Metacritic score: %s", metascore),
	)
}

// FormatDescription adds the short description, unescaped and word wrapped.
func (r *Results) FormatDescription(app *models.AppRecord) {
	if app.Description == nil || strings.TrimSpace(*app.Description) == "" {
		r.add("Short description unavailable")
		return
	}
	r.add(Wrap(html.UnescapeString(*app.Description), r.width())...)
}

// FormatReviews adds the overall and recent review lines. With neither
// known only the overall placeholder is shown.
func (r *Results) FormatReviews(app *models.AppRecord) {
	overall := reviewLine("overall", app.OverallCount, app.OverallPercent)
	recent := reviewLine("recent", app.RecentCount, app.RecentPercent)

	if overall == "" && recent == "" {
		r.add("No overall reviews available")
		return
	}
	if overall == "" {
		overall = "No overall reviews available"
	}
	if recent == "" {
		recent = "No recent reviews available"
	}
	r.add(overall, recent)
}

func reviewLine(kind string, count, percent *string) string {
	if count == nil || percent == nil {
		return ""
	}
	return fmt.Sprintf("%s %s reviews (%s positive)", *count, kind, *percent)
}

// FormatHistoricalLow adds the historical low price and the shop it was
// seen at.
func (r *Results) FormatHistoricalLow(app *models.AppRecord) {
	price := notAvailable
	if app.HistoricalLow != nil {
		price = fmt.Sprintf("%.2f", *app.HistoricalLow)
		if app.Currency != nil && *app.Currency != "" {
			price += " " + *app.Currency
		}
	}

	cut := notAvailable
	if app.HistoricalCut != nil {
		cut = fmt.Sprint(*app.HistoricalCut)
	}

	r.add(
		fmt.Sprintf("Historical low: %s (-%s%%)", price, cut),
		fmt.Sprintf("Shop: %s", orNA(app.HistoricalShop)),
	)
}

// Blocks returns the formatted blocks without centering.
func (r *Results) Blocks() [][]string {
	return r.blocks
}

// Lines returns every line centered to Width, with an empty line between
// blocks.
func (r *Results) Lines() []string {
	var out []string
	for i, block := range r.blocks {
		if i > 0 {
			out = append(out, "")
		}
		for _, line := range block {
			out = append(out, Center(line, r.width()))
		}
	}
	return out
}

// Print writes the report to w.
func (r *Results) Print(w io.Writer) error {
	for _, line := range r.Lines() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func (r *Results) width() int {
	if r.Width <= 0 {
		return DefaultWidth
	}
	return r.Width
}

// Center pads s with spaces to width display columns. When the padding
// cannot be split evenly the extra space goes right, unless both the padding
// and width are odd. Lines already at or over width come back unchanged.
func Center(s string, width int) string {
	margin := width - runewidth.StringWidth(s)
	if margin <= 0 {
		return s
	}
	left := margin/2 + (margin & width & 1)
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", margin-left)
}

// Wrap breaks text into lines of at most width display columns, splitting on
// whitespace. Words wider than width are broken across lines.
func Wrap(text string, width int) []string {
	var lines []string
	var cur strings.Builder
	curWidth := 0

	flush := func() {
		if cur.Len() > 0 {
			lines = append(lines, cur.String())
			cur.Reset()
			curWidth = 0
		}
	}

	for _, word := range strings.Fields(text) {
		w := runewidth.StringWidth(word)
		if w > width {
			flush()
			pieces := strings.Split(runewidth.Wrap(word, width), "\n")
			lines = append(lines, pieces[:len(pieces)-1]...)
			cur.WriteString(pieces[len(pieces)-1])
			curWidth = runewidth.StringWidth(pieces[len(pieces)-1])
			continue
		}
		if curWidth > 0 && curWidth+1+w > width {
			flush()
		}
		if curWidth > 0 {
			cur.WriteByte(' ')
			curWidth++
		}
		cur.WriteString(word)
		curWidth += w
	}
	flush()
	return lines
}

func cents(v *int) string {
	if v == nil {
		return notAvailable
	}
	return fmt.Sprintf("%.2f", float64(*v)/100)
}

func orNA(s *string) string {
	if s == nil {
		return notAvailable
	}
	return *s
}
