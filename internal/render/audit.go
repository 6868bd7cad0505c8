package render

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// placeholderPrefix is the opening of an image placeholder tag.
const placeholderPrefix = "[IMAGE:"

// Report summarizes a finished document.
type Report struct {
	Title  string
	Images int
	// Unresolved lists img src values that still carry a placeholder tag.
	Unresolved []string
}

// Audit parses doc and reports its title, image count, and any image whose
// src still holds an unresolved placeholder. Markup that is not HTML still
// parses; it simply yields an empty report.
func Audit(doc string) (Report, error) {
	d, err := goquery.NewDocumentFromReader(strings.NewReader(doc))
	if err != nil {
		return Report{}, err
	}
	var rep Report
	rep.Title = strings.TrimSpace(d.Find("title").First().Text())
	d.Find("img").Each(func(_ int, s *goquery.Selection) {
		rep.Images++
		if src, ok := s.Attr("src"); ok && strings.Contains(src, placeholderPrefix) {
			rep.Unresolved = append(rep.Unresolved, src)
		}
	})
	return rep, nil
}
