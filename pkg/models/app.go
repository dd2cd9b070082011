package models

// AppRecord is everything known about one storefront app. Pointer fields are
// nil when the upstream data did not say, which is different from a zero
// value (a free game has FinalPrice 0, not nil).
type AppRecord struct {
	ID    *int    `json:"id,omitempty"`
	Title *string `json:"title,omitempty"`

	ReleaseDate *string `json:"release_date,omitempty"`
	Description *string `json:"description,omitempty"`
	Metascore   *int    `json:"metascore,omitempty"`

	// Prices are in minor units (cents). Discount is derived from them.
	Currency     *string `json:"currency,omitempty"`
	InitialPrice *int    `json:"initial_price,omitempty"`
	FinalPrice   *int    `json:"final_price,omitempty"`
	Discount     int     `json:"discount_percent"`

	OverallCount   *string `json:"overall_review_count,omitempty"`
	OverallPercent *string `json:"overall_review_percent,omitempty"`
	RecentCount    *string `json:"recent_review_count,omitempty"`
	RecentPercent  *string `json:"recent_review_percent,omitempty"`

	HistoricalLow  *float64 `json:"historical_low_price,omitempty"`
	HistoricalCut  *int     `json:"historical_discount_percent,omitempty"`
	HistoricalShop *string  `json:"historical_shop_name,omitempty"`
}

// Found reports whether resolution matched an app.
func (a *AppRecord) Found() bool {
	return a != nil && a.ID != nil && a.Title != nil
}

// AppListEntry is one (id, name) pair from the catalog feed.
type AppListEntry struct {
	ID   int64
	Name string
}

// Review is one parsed review summary line. Either half may be missing.
type Review struct {
	Count   *string
	Percent *string
}
