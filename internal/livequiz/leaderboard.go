package livequiz

import "sort"

// LeaderboardEntry is one row of the derived ranking.
type LeaderboardEntry struct {
	PlayerID string
	Name     string
	Score    int
	Rank     int
}

// Leaderboard derives the ranked standings from the given players,
// ordered by score descending. The sort is stable, so players with
// equal scores keep their relative order — callers pass players in
// join order. Equal scores share a rank. The input slice is not
// modified; the result is recomputed on every call and never stored.
func Leaderboard(players []Player) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, len(players))
	for i, p := range players {
		entries[i] = LeaderboardEntry{
			PlayerID: p.ID,
			Name:     p.Name,
			Score:    p.Score,
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})

	for i := range entries {
		if i > 0 && entries[i].Score == entries[i-1].Score {
			entries[i].Rank = entries[i-1].Rank
			continue
		}
		entries[i].Rank = i + 1
	}
	return entries
}
