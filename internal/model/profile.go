// Package model defines the documents folio reads: the authored profile and
// blog JSON files and the repository summaries returned by GitHub.
package model

// Profile corresponds to data/profile.json.
type Profile struct {
	Name                string       `json:"name"`
	Headline            string       `json:"headline"`
	About               string       `json:"about"`
	Email               string       `json:"email,omitempty"`
	Phone               string       `json:"phone,omitempty"`
	Location            string       `json:"location,omitempty"`
	ExperienceStartYear int          `json:"experienceStartYear,omitempty"`
	Experience          []Experience `json:"experience"`
	Education           []Education  `json:"education"`
	Skills              []string     `json:"skills,omitempty"`
	Certifications      []string     `json:"certifications,omitempty"`
}

// Experience is one position, most recent first.
type Experience struct {
	Date        string `json:"date"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Description string `json:"description"`
}

// Education is one degree or programme, most recent first.
type Education struct {
	Date        string `json:"date"`
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Description string `json:"description"`
}
