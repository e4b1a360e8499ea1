package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"clublogos/internal"
	"clublogos/internal/util"
)

// ReadTeamsJSON loads the document written by WriteTeamsJSON.
func ReadTeamsJSON(path string) ([]internal.TeamRecord, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var doc internal.TeamsDocument
	if err := json.Unmarshal(blob, &doc); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return doc.Teams, nil
}

// FindTeam resolves a display name against the teams document. An exact pass
// (case-insensitive name, or the id the name would normalize to) runs over all
// records before a substring pass in either direction. The first record wins
// within each pass.
func FindTeam(records []internal.TeamRecord, query string) (internal.TeamRecord, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return internal.TeamRecord{}, false
	}
	id := util.NormalizeID(query)
	for _, r := range records {
		if strings.EqualFold(r.Name, query) || r.ID == id {
			return r, true
		}
	}

	q := strings.ToLower(query)
	for _, r := range records {
		name := strings.ToLower(r.Name)
		if name == "" {
			continue
		}
		if strings.Contains(name, q) || strings.Contains(q, name) {
			return r, true
		}
	}
	return internal.TeamRecord{}, false
}

type TeamLookup struct {
	Query       string
	Found       bool
	Record      internal.TeamRecord
	DisplayName string
	Logo        string
}

// LookupTeam is FindTeam plus display fallbacks: unknown teams keep the query
// as their name (cut to maxLength runes with "..." when maxLength > 0) and get
// the placeholder logo.
func LookupTeam(records []internal.TeamRecord, query, placeholderLogo string, maxLength int) TeamLookup {
	out := TeamLookup{Query: query}
	if r, ok := FindTeam(records, query); ok {
		out.Found = true
		out.Record = r
		out.DisplayName = r.Name
		out.Logo = r.Logo
		return out
	}
	out.DisplayName = query
	if runes := []rune(query); maxLength > 0 && len(runes) > maxLength {
		out.DisplayName = string(runes[:maxLength]) + "..."
	}
	out.Logo = placeholderLogo
	return out
}
