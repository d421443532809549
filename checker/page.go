package checker

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

// decodeBody converts a body prefix to UTF-8 using the declared content type,
// a BOM or a <meta charset>, falling back to windows-1252 as browsers do.
func decodeBody(prefix []byte, contentType string) string {
	if len(prefix) == 0 {
		return ""
	}
	enc, _, _ := charset.DetermineEncoding(prefix, contentType)
	decoded, err := enc.NewDecoder().Bytes(prefix)
	if err != nil {
		return strings.ToValidUTF8(string(prefix), "")
	}
	return strings.ToValidUTF8(string(decoded), "")
}

// pageTitle returns the whitespace-collapsed text of the first <title>
// element, or "" when there is none.
func pageTitle(body string) string {
	if !strings.Contains(strings.ToLower(body), "<title") {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return ""
	}
	return strings.Join(strings.Fields(doc.Find("title").First().Text()), " ")
}
