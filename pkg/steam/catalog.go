package steam

import (
	"bytes"
	"encoding/json"
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"steamcli/pkg/models"
)

// Query selects apps by title or by id.
type Query struct {
	Title string
	ID    int64
	ByID  bool
}

// ByTitle matches catalog names case-insensitively.
func ByTitle(title string) Query {
	return Query{Title: title}
}

// ByAppID matches catalog ids exactly.
func ByAppID(id int64) Query {
	return Query{ID: id, ByID: true}
}

func (q Query) String() string {
	if q.ByID {
		return fmt.Sprintf("id %d", q.ID)
	}
	return fmt.Sprintf("title %q", q.Title)
}

// MatchCatalog decodes the catalog feed and returns every {appid, name}
// entry matching q, in feed order. The nesting around the entries is not
// assumed: the whole document is walked token by token, so sibling keys are
// visited in the order they appear.
func MatchCatalog(raw []byte, q Query) ([]models.AppListEntry, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	m := matcher{query: q, lower: cases.Lower(language.Und)}
	if !q.ByID {
		m.title = m.fold(q.Title)
	}
	if _, err := m.walk(dec); err != nil {
		return nil, fmt.Errorf("failed to decode app list: %w", err)
	}
	return m.matches, nil
}

type matcher struct {
	query   Query
	lower   cases.Caser
	title   string
	matches []models.AppListEntry
}

// walk consumes one JSON value from dec. Scalars are returned so the
// enclosing object can inspect them; objects are matched once all of their
// members have been read, after any objects nested inside them.
func (m *matcher) walk(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch tok {
	case json.Delim('['):
		for dec.More() {
			if _, err := m.walk(dec); err != nil {
				return nil, err
			}
		}
		_, err := dec.Token()
		return nil, err
	case json.Delim('{'):
		fields := make(map[string]any)
		for dec.More() {
			key, err := dec.Token()
			if err != nil {
				return nil, err
			}
			v, err := m.walk(dec)
			if err != nil {
				return nil, err
			}
			fields[key.(string)] = v
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		if entry, ok := m.match(fields); ok {
			m.matches = append(m.matches, entry)
		}
		return nil, nil
	default:
		return tok, nil
	}
}

func (m *matcher) match(obj map[string]any) (models.AppListEntry, bool) {
	name, ok := obj["name"].(string)
	if !ok {
		return models.AppListEntry{}, false
	}
	id, ok := appID(obj["appid"])
	if !ok {
		return models.AppListEntry{}, false
	}

	if m.query.ByID {
		if id != m.query.ID {
			return models.AppListEntry{}, false
		}
	} else if m.fold(name) != m.title {
		return models.AppListEntry{}, false
	}

	return models.AppListEntry{ID: id, Name: name}, true
}

func appID(v any) (int64, bool) {
	n, ok := v.(json.Number)
	if !ok {
		return 0, false
	}
	id, err := n.Int64()
	if err != nil {
		return 0, false
	}
	return id, true
}

// fold lower-cases s for comparison. No whitespace or punctuation folding.
func (m *matcher) fold(s string) string {
	return m.lower.String(s)
}
