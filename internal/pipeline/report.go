package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"clublogos/internal"
)

const titleRuleWidth = 50

type ConfederationGroup struct {
	Name  string
	Teams []internal.TeamEntry
}

// GroupByConfederation keeps confederations in first-seen order and teams in
// document order within each confederation.
func GroupByConfederation(entries []internal.TeamEntry) []ConfederationGroup {
	index := map[string]int{}
	groups := []ConfederationGroup{}
	for _, e := range entries {
		i, ok := index[e.Confederation]
		if !ok {
			i = len(groups)
			index[e.Confederation] = i
			groups = append(groups, ConfederationGroup{Name: e.Confederation})
		}
		groups[i].Teams = append(groups[i].Teams, e)
	}
	return groups
}

func RenderReport(title string, entries []internal.TeamEntry) string {
	var b strings.Builder
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", titleRuleWidth) + "\n\n")

	for _, group := range GroupByConfederation(entries) {
		b.WriteString(group.Name + "\n")
		b.WriteString(strings.Repeat("-", utf8.RuneCountInString(group.Name)) + "\n")
		for _, team := range group.Teams {
			fmt.Fprintf(&b, "Team: %s\n", team.Team)
			fmt.Fprintf(&b, "League: %s\n", team.League)
			fmt.Fprintf(&b, "Image URL: %s\n", team.ImageURL)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func SaveReport(path, title string, entries []internal.TeamEntry) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(RenderReport(title, entries)), 0o644)
}

// Summary returns the number of teams and of distinct confederations.
func Summary(entries []internal.TeamEntry) (int, int) {
	return len(entries), len(GroupByConfederation(entries))
}
