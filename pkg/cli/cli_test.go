package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"steamcli/pkg/api"
	"steamcli/pkg/config"
)

const keyEnv = "STEAMCLI_TEST_CLI_ITAD_KEY"

const portalDetails = `{"400":{"success":true,"data":{
	"name":"Portal",
	"steam_appid":400,
	"short_description":"Portal is a new single player game from Valve.",
	"release_date":{"coming_soon":false,"date":"10 Oct, 2007"},
	"metacritic":{"score":90},
	"price_overview":{"currency":"USD","initial":999,"final":199}
}}}`

const portalPage = `<html><body>
<span class="nonresponsive_hidden responsive_reviewdesc">
	- 97% of the 1,337 user reviews in the last 30 days are positive.
</span>
<span class="nonresponsive_hidden responsive_reviewdesc">
	- 98% of the 150,000 user reviews for this game are positive.
</span>
</body></html>`

type fakeUpstream struct {
	server   *httptest.Server
	regions  []string
	requests []string
}

func newFakeUpstream(t *testing.T) *fakeUpstream {
	t.Helper()

	fu := &fakeUpstream{}
	fu.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fu.requests = append(fu.requests, r.URL.Path)
		switch {
		case r.URL.Path == "/applist":
			fmt.Fprint(w, `{"applist":{"apps":[{"appid":400,"name":"Portal"},{"appid":570,"name":"Dota 2"}]}}`)
		case r.URL.Path == "/appdetails":
			fu.regions = append(fu.regions, r.URL.Query().Get("cc"))
			id := r.URL.Query().Get("appids")
			if id == "400" {
				fmt.Fprint(w, portalDetails)
				return
			}
			fmt.Fprintf(w, `{"%s":{"success":false}}`, id)
		case r.URL.Path == "/app/400/":
			fmt.Fprint(w, portalPage)
		case r.URL.Path == "/lowest/":
			fmt.Fprint(w, `{"data":{"portal":{"shop":{"name":"Steam"},"price":0.99,"cut":90}}}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(fu.server.Close)
	return fu
}

func (fu *fakeUpstream) settings() config.Map {
	base := fu.server.URL
	return config.Map{
		config.SectionSteamAPIs: {
			config.KeyAppList: base + "/applist",
			config.KeyAppInfo: base + "/appdetails?appids=",
		},
		config.SectionRegions: {
			config.KeyDefaultRegion: "uk",
			config.KeyRegions:       "uk,us,eu1",
		},
		config.SectionWebsite: {
			config.KeyAppPage:        base + "/app/[id]/",
			config.KeyAgeKey:         "birthtime",
			config.KeyAgeValue:       "283993201",
			config.KeyReviewsElement: "span",
			config.KeyReviewsClass:   "responsive_reviewdesc",
		},
		config.SectionITAD: {
			config.KeyEnvVar: keyEnv,
			config.KeyAppURL: base + "/lowest/?key=[key]&plains=[title]&region=[region]",
		},
		config.SectionHelpText: {
			config.KeyAppHelp:        "app help",
			config.KeyTitleHelp:      "title help",
			config.KeyIDHelp:         "id help",
			config.KeyDescHelp:       "desc help",
			config.KeyReviewsHelp:    "reviews help",
			config.KeyRegionHelp:     "region help",
			config.KeyHistoricalHelp: "historical help",
		},
	}
}

func execute(t *testing.T, settings config.Getter, stdin string, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd, err := NewRootCommand(settings, Env{In: strings.NewReader(stdin), Out: &out, Err: &errOut})
	require.NoError(t, err)

	cmd.SetArgs(args)
	err = cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRoot_FlagValidation(t *testing.T) {
	fu := newFakeUpstream(t)

	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{"neither title nor id", []string{"-d"}, "at least one of the flags"},
		{"title and id", []string{"-t", "-i", "400"}, "none of the others can be"},
		{"unknown region", []string{"-i", "400", "-r", "mars"}, "invalid region"},
		{"positional args", []string{"-i", "400", "portal"}, "unknown command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, fu.settings(), "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
	assert.Empty(t, fu.requests, "invalid invocations must not reach upstream")
}

func TestRoot_HelpUsesSettings(t *testing.T) {
	fu := newFakeUpstream(t)

	out, err := execute(t, fu.settings(), "", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "app help")
	assert.Contains(t, out, "title help")
	assert.Contains(t, out, "region help Available values: uk, us, eu1")
}

func TestRoot_NotFound(t *testing.T) {
	fu := newFakeUpstream(t)

	out, err := execute(t, fu.settings(), "", "-i", "12345", "-s", "-l")
	require.NoError(t, err)

	assert.Equal(t, msgGathering+"\n"+msgNotFound+"\n", out)
	assert.NotContains(t, fu.requests, "/lowest/")
}

func TestRoot_RegionIsCaseInsensitive(t *testing.T) {
	fu := newFakeUpstream(t)

	_, err := execute(t, fu.settings(), "", "-i", "400", "-r", "US")
	require.NoError(t, err)
	assert.Equal(t, []string{"us"}, fu.regions)
}

func TestRoot_DefaultRegion(t *testing.T) {
	fu := newFakeUpstream(t)

	_, err := execute(t, fu.settings(), "", "-i", "400")
	require.NoError(t, err)
	assert.Equal(t, []string{"uk"}, fu.regions)
}

func TestRoot_FullReport(t *testing.T) {
	t.Setenv(keyEnv, "secret")
	fu := newFakeUpstream(t)

	out, err := execute(t, fu.settings(), "\n   \nportal\n", "-t", "-d", "-s", "-l", "--width", "60")
	require.NoError(t, err)

	assert.Equal(t, 3, strings.Count(out, titlePrompt), "blank input is asked again")
	for _, want := range []string{
		msgGathering,
		msgScraping,
		msgHistorical,
		"*** Portal (10 Oct, 2007) ***",
		"1.99 USD (-80% from 9.99 USD)",
		"Metacritic score: 90",
		"Portal is a new single player game from Valve.",
		"150,000 overall reviews (98% positive)",
		"1,337 recent reviews (97% positive)",
		"Historical low: 0.99 USD (-90%)",
		"Shop: Steam",
	} {
		assert.Contains(t, out, want)
	}

	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "***") {
			assert.Len(t, line, 60, "report lines are centered to --width")
		}
	}
}

func TestRoot_OnlyRequestedBlocks(t *testing.T) {
	fu := newFakeUpstream(t)

	out, err := execute(t, fu.settings(), "", "-i", "400")
	require.NoError(t, err)

	assert.Contains(t, out, "Metacritic score: 90")
	assert.NotContains(t, out, msgScraping)
	assert.NotContains(t, out, "Portal is a new")
	assert.Equal(t, []string{"/applist", "/appdetails"}, fu.requests)
}

func TestRoot_MissingAPIKey(t *testing.T) {
	t.Setenv(keyEnv, "")
	fu := newFakeUpstream(t)

	_, err := execute(t, fu.settings(), "", "-i", "400", "-l")
	assert.ErrorIs(t, err, config.ErrConfiguration)
}

func TestRoot_UpstreamFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	fu := newFakeUpstream(t)
	settings := fu.settings()
	settings.Set(config.SectionSteamAPIs, config.KeyAppList, ts.URL)

	_, err := execute(t, settings, "", "-i", "400")
	assert.True(t, errors.Is(err, api.ErrResourceUnavailable), "got %v", err)
}

func TestRoot_TitleInputEnds(t *testing.T) {
	fu := newFakeUpstream(t)

	_, err := execute(t, fu.settings(), "  \n", "-t")
	assert.ErrorIs(t, err, ErrNoTitle)
	assert.Empty(t, fu.requests)
}

func TestExecute_MissingSettings(t *testing.T) {
	err := Execute(context.Background(), []string{"--config", filepath.Join(t.TempDir(), "missing.ini"), "-i", "1"}, Env{})
	assert.ErrorIs(t, err, config.ErrConfiguration)
}

func TestExecute_InvalidSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resources.ini")
	require.NoError(t, os.WriteFile(path, []byte("[SteamAPIs]\napplist = not a url\n"), 0o644))

	err := Execute(context.Background(), []string{"--config=" + path, "-i", "1"}, Env{})
	assert.ErrorIs(t, err, config.ErrConfiguration)
}

func TestConfigFlag(t *testing.T) {
	tests := []struct {
		args     []string
		expected string
	}{
		{[]string{"-i", "400", "--config", "a.ini"}, "a.ini"},
		{[]string{"--config=b.ini", "-t", "-r", "us"}, "b.ini"},
		{[]string{"-t", "--unknown", "-s"}, ""},
		{nil, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, ConfigFlag(tt.args), "args %q", tt.args)
	}
}

func TestPromptTitle(t *testing.T) {
	var out bytes.Buffer
	title, err := PromptTitle(strings.NewReader("\n\t\n  Half-Life 2 \n"), &out)
	require.NoError(t, err)

	assert.Equal(t, "Half-Life 2", title)
	assert.Equal(t, strings.Repeat(titlePrompt, 3), out.String())
}
