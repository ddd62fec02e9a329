package nba

// DedupeRestRankings keeps a single record per team: the one with the most days of rest.
// A later record replaces an earlier one only when strictly greater, so ties keep the
// first record seen. Teams keep the order of their first appearance.
func DedupeRestRankings(records []RestRanking) []RestRanking {
	if len(records) == 0 {
		return []RestRanking{}
	}
	index := make(map[string]int, len(records))
	out := make([]RestRanking, 0, len(records))
	for _, rec := range records {
		pos, seen := index[rec.TeamName]
		if !seen {
			index[rec.TeamName] = len(out)
			out = append(out, rec)
			continue
		}
		if rec.DaysOfRest > out[pos].DaysOfRest {
			out[pos] = rec
		}
	}
	return out
}
