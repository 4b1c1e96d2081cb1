package populate

import (
	"fmt"
	"strings"
	"time"

	"github.com/ziadkadry99/folio/internal/model"
	"github.com/ziadkadry99/folio/internal/render"
)

// BioWords is how many words of the biography the landing page shows.
const BioWords = 10

// Landing populates index.html.
func Landing(p model.Profile, now time.Time) View {
	var v View
	v.text("index-tagline", p.Headline)
	if p.Name != "" {
		v.text("index-name", p.Name+".")
	}
	v.text("index-bio", TruncateWords(p.About, BioWords))
	if p.ExperienceStartYear != 0 {
		v.text("years-exp", YearsOfExperience(p.ExperienceStartYear, now))
	}
	return v
}

// TruncateWords keeps the first n whitespace-delimited words of s and
// appends "..." when anything was dropped.
func TruncateWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) > n {
		return strings.Join(words[:n], " ") + "..."
	}
	return strings.Join(words, " ")
}

// YearsOfExperience returns max(1, year(now)-startYear), zero-padded to two
// digits below ten.
func YearsOfExperience(startYear int, now time.Time) string {
	years := now.Year() - startYear
	if years < 1 {
		years = 1
	}
	return fmt.Sprintf("%02d", years)
}

// About populates about.html. Only the two most recent positions are listed.
func About(p model.Profile) View {
	var v View
	v.text("about-name", p.Name)
	v.text("about-bio", p.About)

	if len(p.Experience) > 0 {
		items := p.Experience
		if len(items) > 2 {
			items = items[:2]
		}
		var b strings.Builder
		for _, exp := range items {
			writeListItem(&b, exp.Date, exp.Title, exp.Company)
		}
		v.html("about-experience-list", b.String())
	}

	if len(p.Education) > 0 {
		var b strings.Builder
		for _, edu := range p.Education {
			writeListItem(&b, edu.Date, edu.Degree, edu.Institution)
		}
		v.html("about-education-list", b.String())
	}
	return v
}

func writeListItem(b *strings.Builder, date, heading, org string) {
	fmt.Fprintf(b, `<li><p class="date">%s</p><h2>%s</h2><p class="type">%s</p></li>`,
		render.Content(date), render.Content(heading), render.Content(org))
}

// Credentials populates credentials.html with every position and degree.
func Credentials(p model.Profile) View {
	var v View
	v.text("cred-name", p.Name)
	if p.Name != "" {
		v.text("cred-handle", Handle(p.Name))
	}
	v.text("cred-about-1", p.About)

	if len(p.Experience) > 0 {
		var b strings.Builder
		for _, exp := range p.Experience {
			writeCredentialItem(&b, exp.Date, exp.Title, exp.Company, exp.Description)
		}
		v.html("cred-experience-list", b.String())
	}

	if len(p.Education) > 0 {
		var b strings.Builder
		for _, edu := range p.Education {
			writeCredentialItem(&b, edu.Date, edu.Degree, edu.Institution, edu.Description)
		}
		v.html("cred-education-list", b.String())
	}
	return v
}

// Handle derives "@name" by lowercasing name and dropping all whitespace.
func Handle(name string) string {
	return "@" + strings.Join(strings.Fields(strings.ToLower(name)), "")
}

func writeCredentialItem(b *strings.Builder, date, heading, org, desc string) {
	fmt.Fprintf(b, `<div class="credential-edc-exp-item" data-aos="zoom-in"><h4>%s</h4><h3>%s</h3><h5>%s</h5><p>%s</p></div>`,
		render.Content(date), render.Content(heading), render.Content(org), render.Content(desc))
}

// Contact populates contact.html. The values are written as text.
func Contact(p model.Profile) View {
	var v View
	v.text("contact-email", p.Email)
	v.text("contact-phone", p.Phone)
	v.text("contact-location", p.Location)
	return v
}
