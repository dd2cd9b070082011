package config

// Settings file sections
const (
	SectionSteamAPIs = "SteamAPIs"
	SectionRegions   = "SteamRegions"
	SectionWebsite   = "SteamWebsite"
	SectionITAD      = "IsThereAnyDealAPI"
	SectionHelpText  = "HelpText"
)

// [SteamAPIs]
const (
	KeyAppList = "applist"
	KeyAppInfo = "appinfo"
)

// [SteamRegions]
const (
	KeyDefaultRegion = "default"
	KeyRegions       = "regions"
)

// [SteamWebsite]
const (
	KeyAppPage        = "app_page"
	KeyAgeKey         = "age_key"
	KeyAgeValue       = "age_value"
	KeyReviewsElement = "reviews_element"
	KeyReviewsClass   = "reviews_class"
)

// [IsThereAnyDealAPI]
const (
	KeyEnvVar = "env_var"
	KeyAppURL = "app_url"
)

// [HelpText]
const (
	KeyAppHelp        = "app_help"
	KeyTitleHelp      = "title_help"
	KeyIDHelp         = "id_help"
	KeyDescHelp       = "desc_help"
	KeyReviewsHelp    = "reviews_help"
	KeyRegionHelp     = "region_help"
	KeyHistoricalHelp = "historical_help"
)

// URL template placeholders
const (
	PlaceholderID     = "[id]"
	PlaceholderRegion = "[region]"
	PlaceholderKey    = "[key]"
	PlaceholderTitle  = "[title]"
)
