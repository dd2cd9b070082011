package itad

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"steamcli/pkg/config"
	"steamcli/pkg/logger"
	"steamcli/pkg/lookup"
	"steamcli/pkg/models"
)

// Fetcher performs a blocking GET and returns the body.
type Fetcher interface {
	Get(ctx context.Context, url, detail string) ([]byte, error)
}

// Extractor looks up historical-low prices on IsThereAnyDeal.
type Extractor struct {
	settings config.Getter
	client   Fetcher
	log      *slog.Logger
}

func NewExtractor(settings config.Getter, client Fetcher, log *slog.Logger) *Extractor {
	if log == nil {
		log = logger.Discard()
	}
	return &Extractor{settings: settings, client: client, log: log}
}

// Extract fills the historical-low fields of app. The API is keyed by title,
// so an app without one is left alone. Fields missing from the response stay
// nil.
func (e *Extractor) Extract(ctx context.Context, app *models.AppRecord, region string) error {
	if app == nil || app.Title == nil {
		return nil
	}

	plain := Sanitize(*app.Title)
	lowestURL, err := e.URL(plain, region)
	if err != nil {
		return err
	}

	body, err := e.client.Get(ctx, lowestURL, "historical low")
	if err != nil {
		return err
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		e.log.Warn("Historical low response is not JSON", "plain", plain, "error", err)
		return nil
	}

	entry := lookup.Object(payload, "data", plain)
	if entry == nil {
		e.log.Debug("No historical low for plain", "plain", plain)
		return nil
	}

	app.HistoricalCut = lookup.Int(entry, "cut")
	app.HistoricalLow = lookup.Float(entry, "price")
	app.HistoricalShop = lookup.String(entry, "shop", "name")
	return nil
}

// URL fills the [IsThereAnyDealAPI] app_url template. An empty region falls
// back to the configured default.
func (e *Extractor) URL(plain, region string) (string, error) {
	if region == "" {
		def, err := config.DefaultRegion(e.settings)
		if err != nil {
			return "", err
		}
		region = def
	}

	key, err := config.APIKey(e.settings)
	if err != nil {
		return "", err
	}

	template, err := e.settings.Get(config.SectionITAD, config.KeyAppURL)
	if err != nil {
		return "", err
	}

	filled := strings.NewReplacer(
		config.PlaceholderRegion, url.QueryEscape(region),
		config.PlaceholderKey, url.QueryEscape(key),
		config.PlaceholderTitle, url.QueryEscape(plain),
	).Replace(template)

	if _, err := url.Parse(filled); err != nil {
		return "", fmt.Errorf("invalid historical low url: %w", err)
	}
	return filled, nil
}
