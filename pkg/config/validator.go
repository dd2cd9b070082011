package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type requirement struct {
	section string
	key     string
	rule    string
}

// Keys the tool cannot run without. Help text is checked too so that a
// broken settings file fails before the command is built.
var requirements = []requirement{
	{SectionSteamAPIs, KeyAppList, "required,url"},
	{SectionSteamAPIs, KeyAppInfo, "required,url"},
	{SectionRegions, KeyDefaultRegion, "required"},
	{SectionRegions, KeyRegions, "required"},
	{SectionWebsite, KeyAppPage, "required,url"},
	{SectionWebsite, KeyAgeKey, "required"},
	{SectionWebsite, KeyAgeValue, "required"},
	{SectionWebsite, KeyReviewsElement, "required"},
	{SectionWebsite, KeyReviewsClass, "required"},
	{SectionITAD, KeyEnvVar, "required"},
	{SectionITAD, KeyAppURL, "required,url"},
	{SectionHelpText, KeyAppHelp, ""},
	{SectionHelpText, KeyTitleHelp, ""},
	{SectionHelpText, KeyIDHelp, ""},
	{SectionHelpText, KeyDescHelp, ""},
	{SectionHelpText, KeyReviewsHelp, ""},
	{SectionHelpText, KeyRegionHelp, ""},
	{SectionHelpText, KeyHistoricalHelp, ""},
}

// Validate checks every required setting once at startup.
func Validate(g Getter) error {
	for _, r := range requirements {
		value, err := g.Get(r.section, r.key)
		if err != nil {
			return err
		}
		if r.rule == "" {
			continue
		}
		if err := validate.Var(fillSample(value), r.rule); err != nil {
			return &ConfigurationError{
				Section: r.section,
				Key:     r.key,
				Reason:  fmt.Sprintf("invalid value %q", value),
			}
		}
	}

	def, err := DefaultRegion(g)
	if err != nil {
		return err
	}
	if _, err := ValidateRegion(g, def); err != nil {
		return &ConfigurationError{
			Section: SectionRegions,
			Key:     KeyDefaultRegion,
			Reason:  err.Error(),
		}
	}
	return nil
}

// fillSample substitutes template placeholders so URL templates can be
// checked as URLs.
func fillSample(template string) string {
	return strings.NewReplacer(
		PlaceholderID, "1",
		PlaceholderRegion, "us",
		PlaceholderKey, "key",
		PlaceholderTitle, "title",
	).Replace(template)
}

// Regions returns the lower-cased region allow-list.
func Regions(g Getter) ([]string, error) {
	raw, err := g.Get(SectionRegions, KeyRegions)
	if err != nil {
		return nil, err
	}

	var regions []string
	for _, r := range strings.Split(raw, ",") {
		r = strings.ToLower(strings.TrimSpace(r))
		if r != "" {
			regions = append(regions, r)
		}
	}
	return regions, nil
}

// DefaultRegion returns the configured default region, lower-cased.
func DefaultRegion(g Getter) (string, error) {
	def, err := g.Get(SectionRegions, KeyDefaultRegion)
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(def)), nil
}

// ValidateRegion lower-cases region and checks it against the allow-list.
func ValidateRegion(g Getter, region string) (string, error) {
	regions, err := Regions(g)
	if err != nil {
		return "", err
	}
	if len(regions) == 0 {
		return "", &ConfigurationError{Section: SectionRegions, Key: KeyRegions, Reason: "no regions configured"}
	}

	region = strings.ToLower(strings.TrimSpace(region))
	if err := validate.Var(region, "required,oneof="+strings.Join(regions, " ")); err != nil {
		return "", fmt.Errorf("invalid region %q (available: %s)", region, strings.Join(regions, ", "))
	}
	return region, nil
}
