package web

import (
	"regexp"
	"strings"

	"toplist/models"

	"github.com/PuerkitoBio/goquery"
)

// Wikipedia infobox layouts differ per category. Each entry lists the CSS
// classes of the infobox tables we expect plus the row labels that map to
// catalog fields. Matching is substring-based and best-effort.
type infoboxProfile struct {
	targetClasses []string
	groupLabels   []string
	yearLabels    []string
}

var infoboxProfiles = map[models.Category]infoboxProfile{
	models.CategoryGames: {
		targetClasses: []string{"ib-video-game", "infobox-video-game", "infobox videogame", "hproduct"},
		groupLabels:   []string{"genre", "type"},
		yearLabels:    []string{"release", "published", "date"},
	},
	models.CategorySports: {
		targetClasses: []string{"biography vcard", "football biography", "basketball biography"},
		groupLabels:   []string{"current team", "club", "team"},
		yearLabels:    []string{"career", "active years", "years active"},
	},
	models.CategoryMusic: {
		targetClasses: []string{"musical artist", "infobox album", "infobox single"},
		groupLabels:   []string{"genre", "genres", "style"},
		yearLabels:    []string{"formed", "active", "career", "released"},
	},
}

var yearRe = regexp.MustCompile(`\b(1[89]\d{2}|20\d{2})\b`)

// ParsedInfobox is the best-effort outcome of one page parse
type ParsedInfobox struct {
	Metadata models.CandidateMetadata
	Method   string
}

// ParseWikipediaHTML extracts a partial metadata mapping from a Wikipedia
// article's HTML. Never fails hard: an unrecognized layout yields an
// empty mapping with method "none".
func ParseWikipediaHTML(html string, category models.Category) ParsedInfobox {
	out := ParsedInfobox{Method: "none"}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return out
	}

	profile, hasProfile := infoboxProfiles[category]

	infobox := findInfobox(doc, profile, hasProfile)
	if infobox != nil {
		out.Method = "infobox"
		parseInfoboxRows(infobox, profile, hasProfile, &out.Metadata)

		if img, ok := infobox.Find("img").First().Attr("src"); ok && img != "" {
			if strings.HasPrefix(img, "//") {
				img = "https:" + img
			}
			out.Metadata.ImageURL = &img
		}
	}

	// Lead paragraph doubles as a description when the infobox has none
	if out.Metadata.Description == nil {
		if lead := leadParagraph(doc); lead != "" {
			if runes := []rune(lead); len(runes) > 500 {
				lead = string(runes[:500])
			}
			out.Metadata.Description = &lead
			if out.Method == "none" {
				out.Method = "lead_paragraph"
			}
		}
	}

	return out
}

func findInfobox(doc *goquery.Document, profile infoboxProfile, hasProfile bool) *goquery.Selection {
	var match *goquery.Selection
	doc.Find("table.infobox").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		class, _ := s.Attr("class")
		if hasProfile {
			for _, target := range profile.targetClasses {
				if strings.Contains(class, target) {
					match = s
					return false
				}
			}
			return true
		}
		match = s
		return false
	})
	if match == nil {
		// Any infobox beats none
		first := doc.Find("table.infobox").First()
		if first.Length() > 0 {
			match = first
		}
	}
	return match
}

func parseInfoboxRows(infobox *goquery.Selection, profile infoboxProfile, hasProfile bool, meta *models.CandidateMetadata) {
	if !hasProfile {
		return
	}
	infobox.Find("tr").Each(func(_ int, row *goquery.Selection) {
		label := strings.ToLower(strings.TrimSpace(row.Find("th").First().Text()))
		value := strings.TrimSpace(row.Find("td").First().Text())
		if label == "" || value == "" {
			return
		}

		if meta.Group == nil && labelMatches(label, profile.groupLabels) {
			group := firstListEntry(value)
			meta.Group = &group
		}

		if meta.ItemYear == nil && labelMatches(label, profile.yearLabels) {
			years := yearRe.FindAllString(value, 2)
			if len(years) >= 1 {
				if y := parseYear(years[0]); y != nil {
					meta.ItemYear = y
				}
			}
			if len(years) >= 2 && !strings.Contains(strings.ToLower(value), "present") {
				if y := parseYear(years[1]); y != nil {
					meta.ItemYearTo = y
				}
			}
		}
	})
}

func labelMatches(label string, candidates []string) bool {
	for _, c := range candidates {
		if strings.Contains(label, c) {
			return true
		}
	}
	return false
}

// firstListEntry trims an infobox cell that enumerates values down to its
// first entry ("Action-adventure, RPG" -> "Action-adventure")
func firstListEntry(value string) string {
	for _, sep := range []string{"\n", ",", "·", "•"} {
		if idx := strings.Index(value, sep); idx > 0 {
			value = value[:idx]
		}
	}
	return strings.TrimSpace(value)
}

func parseYear(s string) *int {
	year := 0
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return nil
		}
		year = year*10 + int(ch-'0')
	}
	return &year
}

func leadParagraph(doc *goquery.Document) string {
	lead := ""
	doc.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		text := strings.TrimSpace(p.Text())
		// Skip coordinate stubs and empty layout paragraphs
		if len(text) < 60 {
			return true
		}
		lead = text
		return false
	})
	return lead
}
