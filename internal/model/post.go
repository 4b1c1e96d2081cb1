package model

// Post is one entry of data/blog.json. IDs are expected to be unique; a
// duplicate resolves to the first match.
type Post struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Date     string   `json:"date"`
	Category string   `json:"category"`
	Excerpt  string   `json:"excerpt"`
	Image    string   `json:"image,omitempty"`
	Content  []string `json:"content"`
	Bullets  []string `json:"bullets,omitempty"`
	Closing  string   `json:"closing,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// FindPost returns the first post with the given id.
func FindPost(posts []Post, id string) (Post, bool) {
	for _, p := range posts {
		if p.ID == id {
			return p, true
		}
	}
	return Post{}, false
}
