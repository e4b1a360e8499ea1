package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"clublogos/internal"
)

func TestExtractTeamsSingleCell(t *testing.T) {
	html := `<table><tr><th>UEFA</th><td style="text-align:center"><img src="https://x/chelsea.png"><strong>Chelsea (Premier League)</strong></td></tr></table>`
	entries, err := ExtractTeams(html)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("len=%d", len(entries))
	}
	want := internal.TeamEntry{Team: "Chelsea", League: "Premier League", Confederation: "UEFA", ImageURL: "https://x/chelsea.png"}
	if entries[0] != want {
		t.Fatalf("got %+v want %+v", entries[0], want)
	}
}

func TestExtractTeamsSkipsNonMatchingCells(t *testing.T) {
	cases := map[string]string{
		"no strong":    `<table><tr><th>UEFA</th><td style="text-align:center"><img src="https://x/a.png">Chelsea (Premier League)</td></tr></table>`,
		"no pattern":   `<table><tr><th>UEFA</th><td style="text-align:center"><img src="https://x/a.png"><strong>Chelsea</strong></td></tr></table>`,
		"no image":     `<table><tr><th>UEFA</th><td style="text-align:center"><strong>Chelsea (Premier League)</strong></td></tr></table>`,
		"empty src":    `<table><tr><th>UEFA</th><td style="text-align:center"><img src=""><strong>Chelsea (Premier League)</strong></td></tr></table>`,
		"not centered": `<table><tr><th>UEFA</th><td style="text-align:right"><img src="https://x/a.png"><strong>Chelsea (Premier League)</strong></td></tr></table>`,
		"no style":     `<table><tr><th>UEFA</th><td><img src="https://x/a.png"><strong>Chelsea (Premier League)</strong></td></tr></table>`,
	}
	for name, html := range cases {
		t.Run(name, func(t *testing.T) {
			entries, err := ExtractTeams(html)
			if err != nil {
				t.Fatal(err)
			}
			if len(entries) != 0 {
				t.Fatalf("expected no entries, got %+v", entries)
			}
		})
	}
}

func TestExtractTeamsNestedStrongMarkup(t *testing.T) {
	cases := []struct {
		strong string
		team   string
		league string
	}{
		{strong: `Real <em>Madrid</em> (LaLiga)`, team: "Real Madrid", league: "LaLiga"},
		{strong: "<span>Inter</span>\n  <span>Miami</span> (<abbr>MLS</abbr>)", team: "Inter Miami", league: "MLS"},
		{strong: `Real<em>Madrid</em> (LaLiga)`, team: "RealMadrid", league: "LaLiga"},
	}
	for _, tc := range cases {
		html := `<table><tr><th>UEFA</th><td style="text-align: center;"><img src="https://x/a.png"><strong>` + tc.strong + `</strong></td></tr></table>`
		entries, err := ExtractTeams(html)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 1 {
			t.Fatalf("%s: len=%d", tc.strong, len(entries))
		}
		if entries[0].Team != tc.team || entries[0].League != tc.league {
			t.Fatalf("%s: got %+v", tc.strong, entries[0])
		}
	}
}

func TestExtractTeamsFixture(t *testing.T) {
	blob, err := os.ReadFile(filepath.Join("testdata", "teams.html"))
	if err != nil {
		t.Fatal(err)
	}
	entries, err := ExtractTeams(string(blob))
	if err != nil {
		t.Fatal(err)
	}

	want := []internal.TeamEntry{
		{Team: "Al Ain", League: "UAE Pro League", Confederation: "AFC", ImageURL: "https://img.example.com/al-ain-logo.png"},
		{Team: "Al Hilal", League: "Saudi Pro League", Confederation: "AFC", ImageURL: "https://img.example.com/al-hilal-logo.png"},
		{Team: "Chelsea", League: "Premier League", Confederation: "UEFA", ImageURL: "https://img.example.com/chelsea-logo.png"},
		{Team: "Auckland City", League: "National League/Northern League", Confederation: "Unknown", ImageURL: "https://img.example.com/auckland.png"},
		{Team: "Ulsan HD", League: "K League 1", Confederation: "AFC", ImageURL: "https://img.example.com/ulsan.png"},
		{Team: "Espérance de Tunis", League: "Tunisian Ligue Professionnelle 1", Confederation: "CAF", ImageURL: "https://img.example.com/esperance.png"},
	}
	if len(entries) != len(want) {
		t.Fatalf("len=%d want %d: %+v", len(entries), len(want), entries)
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Fatalf("entry %d: got %+v want %+v", i, entries[i], want[i])
		}
	}
}

func TestParseTeamLeague(t *testing.T) {
	cases := []struct {
		input  string
		team   string
		league string
		ok     bool
	}{
		{input: "Chelsea (Premier League)", team: "Chelsea", league: "Premier League", ok: true},
		{input: "Inter Miami(MLS)", team: "Inter Miami", league: "MLS", ok: true},
		{input: "  Leon \n (Liga MX) ", team: "Leon", league: "Liga MX", ok: true},
		{input: "Prefix Chelsea (Premier League) trailing", team: "Prefix Chelsea", league: "Premier League", ok: true},
		{input: "Chelsea", ok: false},
		{input: "(Premier League)", ok: false},
		{input: "Chelsea ()", ok: false},
		{input: "Chelsea ( )", ok: false},
	}
	for _, tc := range cases {
		team, league, ok := parseTeamLeague(tc.input)
		if ok != tc.ok || team != tc.team || league != tc.league {
			t.Fatalf("parseTeamLeague(%q)=(%q,%q,%v)", tc.input, team, league, ok)
		}
	}
}
