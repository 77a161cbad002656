package scraper

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"careertrack/jobworker/helpers"
	"careertrack/jobworker/internal/record"
	scraperrors "careertrack/jobworker/pkg/errors"
)

// jobIDPattern picks the numeric posting id out of a detail URL.
var jobIDPattern = regexp.MustCompile(`\d{5,}`)

// DetailExtractor turns the HTML of an expanded detail pane into a job
// record. It is a pure function of the HTML and the page URL, which keeps
// it testable without a browser.
type DetailExtractor struct {
	selectors     Selectors
	sectionLabels []string
	employer      string
	source        string
}

func NewDetailExtractor(cfg SiteConfig) *DetailExtractor {
	return &DetailExtractor{
		selectors:     cfg.Selectors,
		sectionLabels: cfg.SectionLabels,
		employer:      cfg.Employer,
		source:        cfg.Source,
	}
}

// Extract parses the detail pane out of the given page HTML. It returns
// nil when no job title is present, which means the pane never opened.
func (e *DetailExtractor) Extract(html, pageURL string) (*record.JobRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, scraperrors.NewExtraction(e.source, "parsing detail view", err)
	}

	title := helpers.CleanText(doc.Find(e.selectors.Title).First().Text())
	if title == "" {
		return nil, nil
	}

	var locations []string
	doc.Find(e.selectors.Location).Each(func(_ int, s *goquery.Selection) {
		if loc := helpers.CleanText(s.Text()); loc != "" {
			locations = append(locations, loc)
		}
	})

	level := helpers.CleanText(doc.Find(e.selectors.Level).First().Text())

	rec := &record.JobRecord{
		JobID:       jobIDPattern.FindString(pageURL),
		Title:       title,
		Employer:    e.employer,
		Location:    strings.Join(locations, "; "),
		Level:       level,
		Description: e.description(doc),
		URL:         pageURL,
		Source:      e.source,
	}
	return rec, nil
}

// description assembles the labeled sections of the detail pane. Each
// configured label is matched against h3 headings by case-insensitive
// substring; the section body is the heading's following list or the
// paragraphs up to the next heading.
func (e *DetailExtractor) description(doc *goquery.Document) string {
	var sections []string

	for _, label := range e.sectionLabels {
		heading := findHeading(doc, label)
		if heading == nil {
			continue
		}

		body := sectionBody(heading)
		if body == "" {
			continue
		}
		sections = append(sections, label+":\n"+body)
	}

	return strings.Join(sections, "\n\n")
}

func findHeading(doc *goquery.Document, label string) *goquery.Selection {
	lowered := strings.ToLower(label)
	var found *goquery.Selection

	doc.Find("h3").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.Contains(strings.ToLower(s.Text()), lowered) {
			found = s
			return false
		}
		return true
	})
	return found
}

func sectionBody(heading *goquery.Selection) string {
	// A list right after the heading wins over loose paragraphs
	if next := heading.Next(); next.Is("ul") {
		var items []string
		next.Find("li").Each(func(_ int, li *goquery.Selection) {
			if txt := helpers.CleanText(li.Text()); txt != "" {
				items = append(items, "- "+txt)
			}
		})
		return strings.Join(items, "\n")
	}

	var paras []string
	heading.NextUntil("h3").Filter("p").Each(func(_ int, p *goquery.Selection) {
		if txt := helpers.CleanText(p.Text()); txt != "" {
			paras = append(paras, txt)
		}
	})
	return strings.Join(paras, "\n")
}
