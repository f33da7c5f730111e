package parser

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"

	"github.com/dtnitsch/intermediate-db/models"
	"github.com/dtnitsch/intermediate-db/pkg/db"
)

// ErrNoContent is returned for pages without a readable main content.
var ErrNoContent = errors.New("no readable content")

// blockSelector lists the content-bearing tags kept from the main content.
const blockSelector = "h1,h2,h3,h4,p,li,blockquote,table,pre"

type Parser struct{}

// Parse extracts the main content of a page with go-readability and reads
// the page metadata (author, keywords, dates, canonical URL) from the raw
// document with goquery. rawURL resolves relative links.
func (p *Parser) Parse(rawURL string, html []byte) (*models.Page, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page URL %q: %w", rawURL, err)
	}

	raw, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	rp := readability.NewParser()
	rp.KeepClasses = true // code blocks carry their language as a class
	article, err := rp.Parse(bytes.NewReader(html), parsedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to extract content: %w", err)
	}
	if strings.TrimSpace(article.Content) == "" {
		return nil, ErrNoContent
	}

	// Now, use goquery on the *clean* HTML content provided by readability
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(article.Content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse content: %w", err)
	}

	page := &models.Page{
		URL:      rawURL,
		Title:    normalizeText(article.Title),
		Author:   metaContent(raw, `meta[name="author"]`),
		Excerpt:  normalizeText(article.Excerpt),
		SiteName: article.SiteName,
		Keywords: keywords(raw),
	}
	if page.Title == "" {
		page.Title = normalizeText(raw.Find("title").First().Text())
	}
	if page.Author == "" {
		page.Author = normalizeText(article.Byline)
	}
	if canonical := canonicalURL(raw, parsedURL); canonical != "" {
		page.URL = canonical
	}
	page.PublishedAt = publishedAt(raw, article.PublishedTime)

	page.Content, page.Images = contentBlocks(doc, parsedURL)
	if len(page.Content) == 0 {
		return nil, ErrNoContent
	}

	return page, nil
}

func contentBlocks(doc *goquery.Document, base *url.URL) ([]models.ContentBlock, []models.Image) {
	var content []models.ContentBlock
	var images []models.Image
	seen := map[string]bool{}

	doc.Find(blockSelector + ",img").Each(func(i int, s *goquery.Selection) {
		tag := goquery.NodeName(s)

		if tag == "img" {
			img := extractImage(s, base)
			if img == nil {
				return
			}
			content = append(content, models.ContentBlock{Type: "img", Image: img})
			if !seen[img.Src] {
				seen[img.Src] = true
				images = append(images, *img)
			}
			return
		}

		// Text nested in another block is rendered by that block.
		if s.ParentsFiltered(blockSelector).Length() > 0 {
			return
		}

		switch tag {

		case "table":
			table := extractTable(s)
			if table != nil {
				content = append(content, models.ContentBlock{
					Type:  "table",
					Table: table,
				})
			}

		case "pre":
			code := extractCodeBlock(s)
			if code != nil {
				content = append(content, models.ContentBlock{
					Type: "code",
					Code: code,
				})
			}

		default:
			text := normalizeText(s.Text())
			if text != "" {
				content = append(content, models.ContentBlock{
					Type: tag,
					Text: text,
				})
			}
		}
	})

	return content, images
}

func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return normalizeText(content)
}

// keywords merges meta keywords and article:tag values, lowercased and
// without duplicates.
func keywords(doc *goquery.Document) []string {
	var raw []string
	raw = append(raw, strings.Split(metaContent(doc, `meta[name="keywords"]`), ",")...)
	doc.Find(`meta[property="article:tag"]`).Each(func(i int, s *goquery.Selection) {
		if v, ok := s.Attr("content"); ok {
			raw = append(raw, v)
		}
	})

	var out []string
	seen := map[string]bool{}
	for _, k := range raw {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

func canonicalURL(doc *goquery.Document, base *url.URL) string {
	href, ok := doc.Find(`link[rel="canonical"]`).First().Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return ""
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

// publishedAt prefers explicit metadata over readability's guess.
func publishedAt(doc *goquery.Document, fallback *time.Time) time.Time {
	candidates := []string{metaContent(doc, `meta[property="article:published_time"]`)}
	if v, ok := doc.Find("time[datetime]").First().Attr("datetime"); ok {
		candidates = append(candidates, v)
	}
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if t, err := db.ParseTime(c); err == nil {
			return t
		}
	}
	if fallback != nil {
		return fallback.UTC()
	}
	return time.Time{}
}

// normalizeText cleans up a string by trimming space and removing excess newlines.
func normalizeText(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	scanner := bufio.NewScanner(strings.NewReader(input))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			// Write the line and a single space for separation
			b.WriteString(line)
			b.WriteString(" ")
		}
	}
	// Return the result, trimming the final space
	return strings.TrimSpace(b.String())
}

func extractImage(s *goquery.Selection, base *url.URL) *models.Image {
	src, _ := s.Attr("src")
	src = strings.TrimSpace(src)
	if src == "" || strings.HasPrefix(src, "data:") {
		return nil
	}
	ref, err := url.Parse(src)
	if err != nil {
		return nil
	}
	alt, _ := s.Attr("alt")
	return &models.Image{
		Src: base.ResolveReference(ref).String(),
		Alt: normalizeText(alt),
	}
}

func extractTable(s *goquery.Selection) *models.Table {
	var headers []string
	var rows [][]string

	// Try explicit headers
	s.Find("thead tr th").Each(func(i int, th *goquery.Selection) {
		headers = append(headers, normalizeText(th.Text()))
	})

	// Fallback: first row
	if len(headers) == 0 {
		s.Find("tr").First().Find("th,td").Each(func(i int, cell *goquery.Selection) {
			headers = append(headers, normalizeText(cell.Text()))
		})
	}

	// Body rows
	s.Find("tbody tr").Each(func(i int, tr *goquery.Selection) {
		var row []string
		tr.Find("td").Each(func(j int, td *goquery.Selection) {
			row = append(row, normalizeText(td.Text()))
		})
		if len(row) > 0 {
			rows = append(rows, row)
		}
	})

	if len(headers) == 0 && len(rows) == 0 {
		return nil
	}

	return &models.Table{
		Headers: headers,
		Rows:    rows,
	}
}

func extractCodeBlock(s *goquery.Selection) *models.Code {
	codeSel := s.Find("code")
	if codeSel.Length() == 0 {
		code := strings.TrimSpace(s.Text())
		if code == "" {
			return nil
		}
		return &models.Code{Content: code}
	}

	code := strings.TrimSpace(codeSel.Text())
	if code == "" {
		return nil
	}

	return &models.Code{
		Language: codeLanguage(codeSel.First()),
		Content:  code,
	}
}

// codeLanguage reads the highlighter class of a code element, e.g.
// "language-sql" or "lang-go".
func codeLanguage(s *goquery.Selection) string {
	class, _ := s.Attr("class")
	for _, c := range strings.Fields(class) {
		for _, prefix := range []string{"language-", "lang-"} {
			if lang, ok := strings.CutPrefix(c, prefix); ok && lang != "" {
				return lang
			}
		}
	}
	return ""
}
