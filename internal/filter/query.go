package filter

import (
	"net/url"
	"strconv"
	"strings"
)

// EncodeQuery serializes state into a query string, omitting every parameter
// that equals its default: source=all, empty tag set, page 1, and mode —
// which is written only when it is "and" AND more than one tag is selected
// (with fewer tags the mode has no observable effect). Tags are serialized
// sorted so equal states produce equal strings.
func EncodeQuery(s State) string {
	values := url.Values{}

	if s.SourceActive() {
		values.Set("source", s.Source)
	}

	tags := s.SelectedTags()
	if len(tags) > 0 {
		values.Set("tags", strings.Join(tags, ","))
	}

	if s.Mode == ModeAnd && len(tags) > 1 {
		values.Set("mode", string(ModeAnd))
	}

	if s.Page > 1 {
		values.Set("page", strconv.Itoa(s.Page))
	}

	return values.Encode()
}

// DecodeQuery hydrates state from a raw query string. Every invalid or
// unknown value is silently dropped in favor of its default, so a malformed
// permalink degrades to the unfiltered first page instead of failing.
func DecodeQuery(raw string, c *Catalog) State {
	s := NewState()

	values, err := url.ParseQuery(raw)
	if err != nil {
		return s
	}

	if src := NormalizeKey(values.Get("source")); src != "" && src != AllSources {
		if c.KnownSource(src) {
			s.Source = src
		}
	}

	for _, tok := range strings.Split(values.Get("tags"), ",") {
		if key := NormalizeKey(tok); key != "" && c.KnownTag(key) {
			s.Tags[key] = true
		}
	}

	switch Mode(values.Get("mode")) {
	case ModeAnd:
		s.Mode = ModeAnd
	case ModeOr:
		s.Mode = ModeOr
	}

	if page, err := strconv.Atoi(values.Get("page")); err == nil && page > 0 {
		s.Page = page
	}

	return s
}
