package store

import (
	"fmt"
	"net/url"
	"strings"
)

// Asset name layout under the store root. Cached page artifacts are flattened
// into the static/ namespace as sibling entries per artifact key.
const (
	staticPrefix   = "static/"
	htmlSuffix     = ".html"
	headSuffix     = ".head.html"
	stateSuffix    = ".json"
	scheduleSuffix = ".revld.txt"
)

// RenderConfigName is the well-known store name of the render configuration,
// a JSON object mapping page paths to template route keys.
const RenderConfigName = "render_conf.json"

// ArtifactKey names one cached output: a (locale, route, sub-path) tuple.
// SubPath is empty for the template root page; for incremental templates it
// identifies the on-demand page beneath the route.
type ArtifactKey struct {
	Locale  string
	Route   string
	SubPath string
}

// NewKey builds an ArtifactKey for a page under a template route.
func NewKey(locale, route, subPath string) ArtifactKey {
	return ArtifactKey{Locale: locale, Route: route, SubPath: subPath}
}

// FullPath returns the complete page path the key refers to.
func (k ArtifactKey) FullPath() string {
	if k.SubPath == "" {
		return k.Route
	}
	return k.Route + "/" + k.SubPath
}

// Encode flattens the key into a URL-safe name component. Sub-paths may
// contain arbitrary characters (including slashes), so the path portion is
// percent-encoded.
func (k ArtifactKey) Encode() string {
	return k.Locale + "-" + url.PathEscape(k.FullPath())
}

// HTMLName is the store name of the cached page content.
func (k ArtifactKey) HTMLName() string { return staticPrefix + k.Encode() + htmlSuffix }

// HeadName is the store name of the cached document head.
func (k ArtifactKey) HeadName() string { return staticPrefix + k.Encode() + headSuffix }

// StateName is the store name of the cached serialized state.
func (k ArtifactKey) StateName() string { return staticPrefix + k.Encode() + stateSuffix }

// ScheduleName is the store name of the RFC 3339 revalidation schedule.
func (k ArtifactKey) ScheduleName() string { return staticPrefix + k.Encode() + scheduleSuffix }

// SchedulePrefix is the namespace the sweeper enumerates for schedules.
func SchedulePrefix() string { return staticPrefix }

// IsScheduleName reports whether a store name holds a revalidation schedule.
func IsScheduleName(name string) bool {
	return strings.HasPrefix(name, staticPrefix) && strings.HasSuffix(name, scheduleSuffix)
}

// DecodeScheduleName recovers the locale and full page path from a schedule
// store name. Locales may themselves contain hyphens, so the known locale set
// is required to split unambiguously; the longest matching locale wins.
func DecodeScheduleName(name string, locales []string) (locale, fullPath string, err error) {
	if !IsScheduleName(name) {
		return "", "", fmt.Errorf("not a schedule name: %q", name)
	}
	encoded := strings.TrimSuffix(strings.TrimPrefix(name, staticPrefix), scheduleSuffix)

	best := ""
	for _, l := range locales {
		if strings.HasPrefix(encoded, l+"-") && len(l) > len(best) {
			best = l
		}
	}
	if best == "" {
		return "", "", fmt.Errorf("no known locale prefixes schedule name %q", name)
	}

	path, err := url.PathUnescape(strings.TrimPrefix(encoded, best+"-"))
	if err != nil {
		return "", "", fmt.Errorf("malformed path encoding in %q: %w", name, err)
	}
	return best, path, nil
}
