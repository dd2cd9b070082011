package steam

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/dustin/go-humanize"

	"steamcli/pkg/config"
	"steamcli/pkg/logger"
	"steamcli/pkg/lookup"
	"steamcli/pkg/models"
	"steamcli/pkg/pricing"
)

// Fetcher performs a blocking GET and returns the body.
type Fetcher interface {
	Get(ctx context.Context, url, detail string) ([]byte, error)
}

// Resolver turns a title or id into a populated AppRecord.
type Resolver struct {
	settings config.Getter
	client   Fetcher
	log      *slog.Logger
	probes   *logger.Deduplicator
}

func NewResolver(settings config.Getter, client Fetcher, log *slog.Logger) *Resolver {
	if log == nil {
		log = logger.Discard()
	}
	return &Resolver{
		settings: settings,
		client:   client,
		log:      log,
		probes:   logger.NewDeduplicator(log, slog.LevelDebug),
	}
}

// Resolve fetches the catalog, picks the first candidate the details
// endpoint knows about and fills an AppRecord from it. When nothing matches
// the record comes back with ID and Title nil and no error.
func (r *Resolver) Resolve(ctx context.Context, q Query, region string) (*models.AppRecord, error) {
	catalogURL, err := r.settings.Get(config.SectionSteamAPIs, config.KeyAppList)
	if err != nil {
		return nil, err
	}

	raw, err := r.client.Get(ctx, catalogURL, "app list")
	if err != nil {
		return nil, err
	}
	r.log.Debug("Fetched app list", "size", humanize.Bytes(uint64(len(raw))))

	candidates, err := MatchCatalog(raw, q)
	if err != nil {
		return nil, err
	}
	r.log.Debug("Matched app list", "query", q.String(), "candidates", len(candidates))

	data, err := r.PickResolvable(ctx, candidates, region)
	if err != nil {
		return nil, err
	}

	app := &models.AppRecord{}
	if data != nil {
		Assign(app, data)
	}
	return app, nil
}

// PickResolvable probes the details endpoint for each candidate in order and
// returns the data of the first one reporting success. Duplicate names in the
// catalog usually mean only one id is live, and there is no telling which
// without asking, so later candidates are only probed when earlier ones fail.
func (r *Resolver) PickResolvable(ctx context.Context, candidates []models.AppListEntry, region string) (map[string]any, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	base, err := r.settings.Get(config.SectionSteamAPIs, config.KeyAppInfo)
	if err != nil {
		return nil, err
	}
	if region == "" {
		if region, err = config.DefaultRegion(r.settings); err != nil {
			return nil, err
		}
	}

	defer r.probes.Flush()

	for _, c := range candidates {
		detailURL := fmt.Sprintf("%s%d&cc=%s", base, c.ID, url.QueryEscape(region))

		body, err := r.client.Get(ctx, detailURL, "app details")
		if err != nil {
			return nil, err
		}

		if data, ok := detailData(body, c.ID); ok {
			r.log.Debug("Resolved app", "appid", c.ID, "name", c.Name)
			return data, nil
		}
		r.probes.Logf("No details for %q, trying next candidate", c.Name)
	}

	return nil, nil
}

// detailData unpacks {"<id>": {"success": bool, "data": {...}}}. Anything
// else counts as unsuccessful.
func detailData(body []byte, id int64) (map[string]any, bool) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return nil, false
	}

	entry := lookup.Object(payload, strconv.FormatInt(id, 10))
	if success, ok := lookup.Bool(entry, "success"); !ok || !success {
		return nil, false
	}

	data := lookup.Object(entry, "data")
	if data == nil {
		data = map[string]any{}
	}
	return data, true
}

// Assign copies the fields the report uses from an app details document.
// Missing keys leave fields nil; a missing price_overview is how free and
// unpriced apps look.
func Assign(app *models.AppRecord, data map[string]any) {
	app.ID = lookup.Int(data, "steam_appid")
	app.Title = lookup.String(data, "name")
	if app.ID == nil || app.Title == nil {
		app.ID, app.Title = nil, nil
	}

	app.ReleaseDate = lookup.String(data, "release_date", "date")
	app.Description = lookup.String(data, "short_description")
	app.Metascore = lookup.Int(data, "metacritic", "score")

	app.Currency = lookup.String(data, "price_overview", "currency")
	app.InitialPrice = lookup.Int(data, "price_overview", "initial")
	app.FinalPrice = lookup.Int(data, "price_overview", "final")
	app.Discount = pricing.DiscountCents(app.InitialPrice, app.FinalPrice)
}
