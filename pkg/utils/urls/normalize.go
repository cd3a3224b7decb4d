// ABOUTME: URL canonicalization helpers used for duplicate detection
// ABOUTME: Strips tracking parameters, fragments and trailing slashes; extracts hostnames

package urls

import (
	"net/url"
	"strings"
)

// trackingParams are query parameters that carry analytics noise only
var trackingParams = map[string]struct{}{
	"utm_source":   {},
	"utm_medium":   {},
	"utm_campaign": {},
	"utm_term":     {},
	"utm_content":  {},
	"utm_id":       {},
	"fbclid":       {},
	"gclid":        {},
	"msclkid":      {},
	"ref":          {},
	"referrer":     {},
	"source":       {},
	"_ga":          {},
	"mc_cid":       {},
	"mc_eid":       {},
}

// IsTrackingParam reports whether a query parameter is stripped by Normalize
func IsTrackingParam(name string) bool {
	_, ok := trackingParams[name]
	return ok
}

// Normalize returns the canonical form of rawURL for duplicate comparison.
// The host is lower-cased, the trailing slash is removed from the path (an
// empty path becomes "/"), tracking and blank-valued parameters are dropped,
// the remaining parameters keep their original order and the fragment is
// discarded. A URL without scheme or host gets the same path and query
// cleanup but keeps its case; one that does not parse is returned unchanged.
func Normalize(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return normalizeRelative(rawURL)
	}

	path := strings.TrimRight(parsed.EscapedPath(), "/")
	if path == "" {
		path = "/"
	}

	var b strings.Builder
	b.WriteString(parsed.Scheme)
	b.WriteString("://")
	if parsed.User != nil {
		b.WriteString(parsed.User.String())
		b.WriteString("@")
	}
	b.WriteString(strings.ToLower(parsed.Host))
	b.WriteString(path)

	if query := cleanQuery(parsed.RawQuery); query != "" {
		b.WriteString("?")
		b.WriteString(query)
	}

	return b.String()
}

// normalizeRelative cleans a scheme-less reference textually so characters
// the parser would escape are left alone
func normalizeRelative(rawURL string) string {
	rest, _, _ := strings.Cut(rawURL, "#")
	path, query, _ := strings.Cut(rest, "?")
	if trimmed := strings.TrimRight(path, "/"); trimmed != "" {
		path = trimmed
	}
	if query = cleanQuery(query); query != "" {
		return path + "?" + query
	}
	return path
}

// cleanQuery filters a raw query string while preserving parameter order
func cleanQuery(rawQuery string) string {
	if rawQuery == "" {
		return ""
	}

	kept := make([]string, 0, 4)
	for _, part := range strings.FieldsFunc(rawQuery, func(r rune) bool { return r == '&' || r == ';' }) {
		rawKey, rawValue, _ := strings.Cut(part, "=")

		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			kept = append(kept, part)
			continue
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			kept = append(kept, part)
			continue
		}

		if value == "" || IsTrackingParam(key) {
			continue
		}
		kept = append(kept, url.QueryEscape(key)+"="+url.QueryEscape(value))
	}

	return strings.Join(kept, "&")
}

// ExtractDomain returns the lower-cased hostname of rawURL without port.
// It returns an empty string when no host can be determined.
func ExtractDomain(rawURL string) string {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Hostname())
}
