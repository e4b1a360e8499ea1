package internal

const UnknownConfederation = "Unknown"

// TeamEntry is one team cell recovered from markup.
type TeamEntry struct {
	Team          string
	League        string
	Confederation string
	ImageURL      string
}

// SeedTeam is one (image URL, team name, league) triple from the seed list.
type SeedTeam struct {
	LineNo   int
	ImageURL string
	Name     string
	League   string
}

// TeamRecord is the front-end facing record written to teams.json.
type TeamRecord struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	League string `json:"league"`
	Logo   string `json:"logo"`
}

type TeamsDocument struct {
	Teams []TeamRecord `json:"teams"`
}

type DownloadStatus string

const (
	DownloadOK       DownloadStatus = "ok"
	DownloadFailed   DownloadStatus = "failed"
	DownloadRejected DownloadStatus = "rejected"
)

type DownloadRow struct {
	TraceID   string
	TeamID    string
	Name      string
	League    string
	ImageURL  string
	LocalPath string
	SHA256    string
	Bytes     int
	Status    DownloadStatus
	Error     string
}

type RunRow struct {
	ID         int
	TraceID    string
	Pipeline   string
	StartedAt  string
	FinishedAt string
	Counts     map[string]int
	Timings    map[string]float64
}
