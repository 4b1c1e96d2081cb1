package showcase

import (
	"fmt"
	"strings"

	"github.com/ziadkadry99/folio/internal/model"
	"github.com/ziadkadry99/folio/internal/render"
)

// ErrorMessage replaces the project list when collection fails.
const ErrorMessage = `<p class="text-center">Could not load projects. Please try again later.</p>`

// CoverID returns the element id of the n-th card's cover container.
func CoverID(n int) string {
	return fmt.Sprintf("project-cover-%d", n)
}

// Card is the display form of one repository.
type Card struct {
	Title    string
	Category string
	URL      string
	FullName string
	Branch   string
}

// Cards converts repositories to cards, preserving order.
func Cards(repos []model.Repository) []Card {
	cards := make([]Card, 0, len(repos))
	for _, r := range repos {
		branch := r.DefaultBranch
		if branch == "" {
			branch = "main"
		}
		cards = append(cards, Card{
			Title:    Title(r.Name),
			Category: Category(r.Language),
			URL:      r.HTMLURL,
			FullName: r.FullName,
			Branch:   branch,
		})
	}
	return cards
}

// Probe asks whether a repository has a cover image for the container with
// the given element id.
type Probe struct {
	ContainerID string
	FullName    string
	Branch      string
}

// Render lays the cards out two per row and returns the markup together
// with one cover probe per card. Cover containers start hidden.
func Render(cards []Card) (string, []Probe) {
	var b strings.Builder
	probes := make([]Probe, 0, len(cards))

	for i := 0; i < len(cards); i += 2 {
		b.WriteString(`<div class="d-flex align-items-start gap-24">`)
		for j := i; j < i+2 && j < len(cards); j++ {
			id := CoverID(j)
			writeCard(&b, cards[j], id)
			probes = append(probes, Probe{ContainerID: id, FullName: cards[j].FullName, Branch: cards[j].Branch})
		}
		b.WriteString(`</div>`)
	}
	return b.String(), probes
}

func writeCard(b *strings.Builder, c Card, coverID string) {
	href := render.Attribute(c.URL)
	b.WriteString(`<div class="flex-1"><div class="project-item shadow-box">`)
	fmt.Fprintf(b, `<a class="overlay-link" href="%s" target="_blank"></a>`, href)
	b.WriteString(`<img src="assets/images/bg1.png" alt="BG" class="bg-img">`)
	fmt.Fprintf(b, `<div class="project-img" id="%s" style="display:none"><img alt="Project"></div>`, coverID)
	b.WriteString(`<div class="d-flex align-items-center justify-content-between">`)
	fmt.Fprintf(b, `<div class="project-info"><p>%s</p><h1>%s</h1></div>`,
		render.Content(c.Category), render.Content(c.Title))
	fmt.Fprintf(b, `<a href="%s" target="_blank" class="project-btn"><img src="assets/images/icon.svg" alt="Button"></a>`, href)
	b.WriteString(`</div></div></div>`)
}
