package models

// RepoOwner identifies the account a repository belongs to.
type RepoOwner struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
}

// Repo is a repository record as emitted by discovery search.
type Repo struct {
	ID              int64     `json:"id"`
	FullName        string    `json:"full_name"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	HTMLURL         string    `json:"html_url"`
	Owner           RepoOwner `json:"owner"`
	StargazersCount int       `json:"stargazers_count"`
	ForksCount      int       `json:"forks_count"`
	WatchersCount   int       `json:"watchers_count"`
	OpenIssuesCount int       `json:"open_issues_count"`
	UpdatedAt       string    `json:"updated_at"`
	License         string    `json:"license,omitempty"`
	Size            int       `json:"size"`
	Homepage        string    `json:"homepage,omitempty"`
}

// RepoDetails is the extended metadata fetched when a repository is
// attached to the dashboard. Languages maps language name to byte count.
type RepoDetails struct {
	Languages    map[string]int `json:"languages"`
	Contributors int            `json:"contributors"`
	Branches     int            `json:"branches"`
	Commits      int            `json:"commits"`
	PullRequests int            `json:"pullRequests"`
	Topics       []string       `json:"topics"`
	LastRelease  *Release       `json:"lastRelease,omitempty"`
}
