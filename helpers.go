package pagecraft

import (
	"net/url"
	"path"
	"regexp"
	"sort"
	"strings"
)

var (
	reSlugInvalid = regexp.MustCompile(`[^a-z0-9\s-]`)
	reSlugSpace   = regexp.MustCompile(`\s+`)
	reSlugDashes  = regexp.MustCompile(`-+`)
)

// Slugify converts a title to a URL-safe slug. It is lossy and idempotent;
// different titles may produce the same slug, and resolving that is up to
// the store (see Store.UniqueSlug).
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = reSlugInvalid.ReplaceAllString(s, "")
	s = reSlugSpace.ReplaceAllString(s, "-")
	s = reSlugDashes.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// NormalizeTags trims and lower-cases tags, drops empties and duplicates,
// and sorts the result.
func NormalizeTags(tags []string) []string {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		if n := normalizeTag(t); n != "" {
			set[n] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func normalizeTag(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}

// joinTags encodes tags in the delimited form stored in the database
// (",go,web,") so a single tag can be matched with instr().
func joinTags(tags []string) string {
	return "," + strings.Join(NormalizeTags(tags), ",") + ","
}

// ParseTags splits a comma-delimited tag string (e.g. ",go,web,") into a slice.
func ParseTags(tagString string) []string {
	tagString = strings.Trim(tagString, ",")
	if tagString == "" {
		return []string{}
	}
	parts := strings.Split(tagString, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}
