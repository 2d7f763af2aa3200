package ingest

import (
	"net/url"
	"strings"
)

// trackingParams are query parameters stripped during URL normalization.
// Two URLs that normalize identically are treated as the same source
// location.
var trackingParams = map[string]struct{}{
	"utm_source":   {},
	"utm_medium":   {},
	"utm_campaign": {},
	"utm_term":     {},
	"utm_content":  {},
	"fbclid":       {},
	"gclid":        {},
	"igshid":       {},
	"ref":          {},
	"ref_src":      {},
}

// NormalizeURL strips tracking query parameters, drops the fragment and
// removes a single trailing slash. An unparseable URL is returned trimmed
// but otherwise untouched.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	if u.RawQuery != "" {
		q := u.Query()
		for param := range q {
			if _, tracked := trackingParams[strings.ToLower(param)]; tracked {
				q.Del(param)
			}
		}
		u.RawQuery = q.Encode()
	}
	u.Fragment = ""
	u.RawFragment = ""
	u.Path = strings.TrimSuffix(u.Path, "/")

	return u.String()
}
