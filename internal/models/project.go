package models

// Stats holds the headline counters GitHub reports for a repository.
type Stats struct {
	Stars    int `json:"stars"`
	Forks    int `json:"forks"`
	Watchers int `json:"watchers"`
	Issues   int `json:"issues"`
}

// LanguageStat is one entry of a repository's language breakdown.
// Percentage is rounded to the nearest integer; entries are kept sorted
// descending, so the sum across a project never exceeds 100 by more than
// rounding error.
type LanguageStat struct {
	Name       string `json:"name"`
	Percentage int    `json:"percentage"`
}

// Release describes the latest published release of a repository.
type Release struct {
	Name        string `json:"name"`
	PublishedAt string `json:"published_at"`
	URL         string `json:"url"`
}

// Project is a bookmarked GitHub repository together with the user's
// annotations. ID is the GitHub numeric repository id (as a string) for
// projects added via discovery, or a generated ULID for manual adds.
type Project struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	Category     string         `json:"category"`
	URL          string         `json:"url"`
	Logo         string         `json:"logo,omitempty"`
	Owner        string         `json:"owner"`
	Stats        Stats          `json:"stats"`
	LastActivity string         `json:"lastActivity"`
	Contributors int            `json:"contributors"`
	Branches     int            `json:"branches"`
	Commits      int            `json:"commits"`
	PullRequests int            `json:"pullRequests"`
	Categories   []Category     `json:"categories"`
	Languages    []LanguageStat `json:"languages"`
	Topics       []string       `json:"topics"`
	License      string         `json:"license,omitempty"`
	Size         int            `json:"size,omitempty"`
	LastRelease  *Release       `json:"lastRelease,omitempty"`
	Homepage     string         `json:"homepage,omitempty"`
}

// Normalize ensures slice fields are non-nil so callers can range and
// serialize them without nil checks.
func (p *Project) Normalize() {
	if p.Categories == nil {
		p.Categories = []Category{}
	}
	if p.Languages == nil {
		p.Languages = []LanguageStat{}
	}
	if p.Topics == nil {
		p.Topics = []string{}
	}
}

// HasCategory reports whether the project carries the category with the
// given id.
func (p *Project) HasCategory(id string) bool {
	for _, c := range p.Categories {
		if c.ID == id {
			return true
		}
	}
	return false
}
