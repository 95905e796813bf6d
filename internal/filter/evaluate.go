package filter

// MatchesSource applies only the source dimension of the state.
func MatchesSource(s State, a *Article) bool {
	return s.Source == AllSources || a.SourceKey == s.Source
}

// MatchesTagSelection applies only the tag dimension. An empty selection
// matches everything; AND requires the selection to be a subset of the
// article's tags, OR requires a non-empty intersection.
func MatchesTagSelection(s State, a *Article) bool {
	tags := s.SelectedTags()
	if len(tags) == 0 {
		return true
	}

	if s.Mode == ModeAnd {
		for _, key := range tags {
			if !a.hasTag(key) {
				return false
			}
		}
		return true
	}

	for _, key := range tags {
		if a.hasTag(key) {
			return true
		}
	}
	return false
}

// MatchesAllFilters is the full predicate used to compute the filtered list.
func MatchesAllFilters(s State, a *Article) bool {
	return MatchesSource(s, a) && MatchesTagSelection(s, a)
}
