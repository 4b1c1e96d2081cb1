// Package linkedin converts the text of a LinkedIn profile export into the
// profile document the site reads.
package linkedin

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ziadkadry99/folio/internal/model"
)

type section int

const (
	sectionNone section = iota
	sectionSummary
	sectionExperience
	sectionEducation
	sectionSkills
	sectionCertifications
)

var headings = map[string]section{
	"summary":                   sectionSummary,
	"about":                     sectionSummary,
	"experience":                sectionExperience,
	"education":                 sectionEducation,
	"skills":                    sectionSkills,
	"top skills":                sectionSkills,
	"licenses & certifications": sectionCertifications,
	"certifications":            sectionCertifications,
	"licenses":                  sectionCertifications,
}

const month = `(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*`

var (
	positionRange = regexp.MustCompile(month + `\s+\d{4}\s*[-–]\s*(?:Present|` + month + `\s+\d{4})`)
	yearRange     = regexp.MustCompile(`\d{4}\s*[-–]\s*\d{4}`)
	yearPattern   = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	pageMarker    = regexp.MustCompile(`^Page \d+`)
	locationHints = []string{"area", "region", "city", "state", "country", "province"}
)

// maxListItem is the longest line accepted as a skill or certification.
const maxListItem = 100

// headingGuard is the line length below which a line directly in front of a
// date range is read as the next entry's title rather than description.
const headingGuard = 60

// Read parses a profile export from r.
func Read(r io.Reader, now time.Time) (model.Profile, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return model.Profile{}, err
	}
	return Parse(strings.Join(lines, "\n"), now), nil
}

// Parse builds a profile from export text. The first line is the name, the
// second the headline; the remaining lines are grouped by section heading.
// experienceStartYear is the earliest year found in the experience dates,
// or the current year when there is none.
func Parse(text string, now time.Time) model.Profile {
	p := model.Profile{
		Experience: []model.Experience{},
		Education:  []model.Education{},
	}

	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" && !pageMarker.MatchString(l) {
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 {
		return p
	}

	p.Name = lines[0]
	if len(lines) > 1 {
		p.Headline = lines[1]
	}

	sections := make(map[section][]string)
	current := sectionNone
	for i, l := range lines {
		if s, ok := headings[strings.ToLower(l)]; ok {
			current = s
			continue
		}
		if current == sectionNone && i >= 2 && p.Location == "" && looksLikeLocation(l) {
			p.Location = l
		}
		if current != sectionNone {
			sections[current] = append(sections[current], l)
		}
	}

	p.About = strings.Join(sections[sectionSummary], " ")

	for _, e := range entries(sections[sectionExperience], positionRange) {
		p.Experience = append(p.Experience, model.Experience{
			Date:        e.date,
			Title:       e.before,
			Company:     e.after,
			Description: e.description,
		})
	}
	for _, e := range entries(sections[sectionEducation], yearRange) {
		p.Education = append(p.Education, model.Education{
			Date:        e.date,
			Institution: e.before,
			Degree:      e.after,
			Description: e.description,
		})
	}

	p.Skills = listItems(sections[sectionSkills])
	p.Certifications = listItems(sections[sectionCertifications])
	p.ExperienceStartYear = startYear(p.Experience, now)
	return p
}

// entry is one dated block: the line before the date, the date line, the
// line after it and any description that follows.
type entry struct {
	before, date, after, description string
}

func entries(lines []string, date *regexp.Regexp) []entry {
	var out []entry
	for i, l := range lines {
		if !date.MatchString(l) {
			continue
		}
		e := entry{date: l}
		if i > 0 && !date.MatchString(lines[i-1]) {
			e.before = lines[i-1]
		}

		j := i + 1
		if j < len(lines) && !date.MatchString(lines[j]) && !startsEntry(lines, j, date) {
			e.after = lines[j]
			j++
		}

		var desc []string
		for ; j < len(lines); j++ {
			if date.MatchString(lines[j]) || startsEntry(lines, j, date) {
				break
			}
			desc = append(desc, lines[j])
		}
		e.description = strings.Join(desc, " ")
		out = append(out, e)
	}
	return out
}

// startsEntry reports whether lines[j] is the title of the next dated entry.
func startsEntry(lines []string, j int, date *regexp.Regexp) bool {
	return j+1 < len(lines) && date.MatchString(lines[j+1]) && len(lines[j]) < headingGuard
}

func listItems(lines []string) []string {
	var out []string
	for _, l := range lines {
		if len(l) < maxListItem {
			out = append(out, l)
		}
	}
	return out
}

func looksLikeLocation(line string) bool {
	lower := strings.ToLower(line)
	for _, hint := range locationHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return strings.Count(line, ",") >= 1 && len(line) < headingGuard && !strings.ContainsAny(line, "@|")
}

func startYear(exp []model.Experience, now time.Time) int {
	earliest := 0
	for _, e := range exp {
		for _, y := range yearPattern.FindAllString(e.Date, -1) {
			n, err := strconv.Atoi(y)
			if err != nil {
				continue
			}
			if earliest == 0 || n < earliest {
				earliest = n
			}
		}
	}
	if earliest == 0 {
		return now.Year()
	}
	return earliest
}
