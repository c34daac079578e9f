package models

import "strings"

const (
	RoleUser   = "user"
	RoleSensei = "sensei"
)

// ChatMessage is one turn of the sensei advisor transcript. Transcripts live
// in memory only and reset with the app session.
type ChatMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// LoreEntry is one exchange of the per-character lore oracle. The question is
// kept separate from the answer so either side can be searched.
type LoreEntry struct {
	Question string `json:"q"`
	Answer   string `json:"a"`
}

// FilterLore returns the entries whose question or answer contains query,
// case-insensitively. An empty query returns everything.
func FilterLore(entries []LoreEntry, query string) []LoreEntry {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return entries
	}
	var out []LoreEntry
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Question), query) ||
			strings.Contains(strings.ToLower(e.Answer), query) {
			out = append(out, e)
		}
	}
	return out
}
