package pipeline

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"clublogos/internal"
)

var teamLeaguePattern = regexp.MustCompile(`(.+?)\s*\((.+?)\)`)

// ExtractTeams parses markup and returns one entry per team cell, in
// document order. Cells that don't look like team cells are skipped.
func ExtractTeams(markup string) ([]internal.TeamEntry, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parsing markup: %w", err)
	}
	return ExtractTeamsFromDocument(doc), nil
}

func ExtractTeamsFromDocument(doc *goquery.Document) []internal.TeamEntry {
	out := []internal.TeamEntry{}
	doc.Find("td[style]").Each(func(_ int, cell *goquery.Selection) {
		if !isCentered(cell) {
			return
		}
		if entry, ok := extractCell(cell); ok {
			out = append(out, entry)
		}
	})
	return out
}

func isCentered(cell *goquery.Selection) bool {
	style, _ := cell.Attr("style")
	compact := strings.ToLower(strings.Join(strings.Fields(style), ""))
	return strings.Contains(compact, "text-align:center")
}

func extractCell(cell *goquery.Selection) (internal.TeamEntry, bool) {
	img := cell.Find("img").First()
	if img.Length() == 0 {
		return internal.TeamEntry{}, false
	}
	src := strings.TrimSpace(img.AttrOr("src", ""))
	if src == "" {
		return internal.TeamEntry{}, false
	}

	strong := cell.Find("strong").First()
	if strong.Length() == 0 {
		return internal.TeamEntry{}, false
	}
	team, league, ok := parseTeamLeague(strong.Text())
	if !ok {
		return internal.TeamEntry{}, false
	}

	return internal.TeamEntry{
		Team:          team,
		League:        league,
		Confederation: confederationOf(cell),
		ImageURL:      src,
	}, true
}

// parseTeamLeague splits "<team> (<league>)".
func parseTeamLeague(text string) (string, string, bool) {
	m := teamLeaguePattern.FindStringSubmatch(normalizeSpaces(text))
	if len(m) < 3 {
		return "", "", false
	}
	team := strings.TrimSpace(m[1])
	league := strings.TrimSpace(m[2])
	if team == "" || league == "" {
		return "", "", false
	}
	return team, league, true
}

func confederationOf(cell *goquery.Selection) string {
	row := cell.Closest("tr")
	if row.Length() == 0 {
		return internal.UnknownConfederation
	}
	header := row.Find("th").First()
	if header.Length() == 0 {
		return internal.UnknownConfederation
	}
	name := normalizeSpaces(header.Text())
	if name == "" {
		return internal.UnknownConfederation
	}
	return name
}

func normalizeSpaces(input string) string {
	return strings.Join(strings.Fields(input), " ")
}
