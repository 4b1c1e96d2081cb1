package model

import "time"

// Repository is the subset of a GitHub repository summary folio uses.
type Repository struct {
	FullName      string    `json:"full_name"`
	Name          string    `json:"name"`
	DefaultBranch string    `json:"default_branch"`
	Language      string    `json:"language"`
	HTMLURL       string    `json:"html_url"`
	Fork          bool      `json:"fork"`
	UpdatedAt     time.Time `json:"updated_at"`
}
