package models

import (
	"strings"
	"time"
)

// Page is a crawled forum page reduced to what the importer needs.
type Page struct {
	URL         string         `json:"url"`
	Title       string         `json:"title"`
	Author      string         `json:"author,omitempty"`
	Excerpt     string         `json:"excerpt,omitempty"`
	SiteName    string         `json:"site_name,omitempty"`
	PublishedAt time.Time      `json:"published_at,omitempty"`
	Keywords    []string       `json:"keywords,omitempty"`
	Images      []Image        `json:"images,omitempty"`
	Content     []ContentBlock `json:"content"`
}

type Table struct {
	Headers []string   `json:"headers,omitempty"`
	Rows    [][]string `json:"rows"`
}

type Code struct {
	Language string `json:"language,omitempty"`
	Content  string `json:"content"`
}

// Image is an absolute image reference found in the page content.
type Image struct {
	Src string `json:"src"`
	Alt string `json:"alt,omitempty"`
}

// ContentBlock represents a semantic block of the main content.
type ContentBlock struct {
	Type  string `json:"type"` // h1-h4, p, li, blockquote, table, code, img
	Text  string `json:"text,omitempty"`
	Table *Table `json:"table,omitempty"`
	Code  *Code  `json:"code,omitempty"`
	Image *Image `json:"image,omitempty"`
}

// ToPlainText concatenates readable text from all content blocks.
func (p *Page) ToPlainText() string {
	var sb strings.Builder

	for _, block := range p.Content {
		switch block.Type {

		case "table":
			for _, row := range block.Table.Rows {
				sb.WriteString(strings.Join(row, " "))
				sb.WriteString("\n")
			}

		case "code":
			sb.WriteString(block.Code.Content)
			sb.WriteString("\n")

		case "img":

		default:
			sb.WriteString(block.Text)
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// ToMarkdown renders the content as post markdown. Images are rendered by
// image; an empty result drops the image.
func (p *Page) ToMarkdown(image func(Image) string) string {
	blocks := make([]string, 0, len(p.Content))

	for _, block := range p.Content {
		var md string
		switch block.Type {
		case "h1", "h2", "h3", "h4":
			level := int(block.Type[1] - '0')
			md = strings.Repeat("#", level) + " " + block.Text
		case "li":
			md = "- " + block.Text
		case "blockquote":
			md = "> " + block.Text
		case "code":
			md = "```" + block.Code.Language + "\n" + block.Code.Content + "\n```"
		case "table":
			md = tableMarkdown(block.Table)
		case "img":
			if image != nil {
				md = image(*block.Image)
			}
		default:
			md = block.Text
		}
		if md != "" {
			blocks = append(blocks, md)
		}
	}

	return strings.Join(blocks, "\n\n")
}

func tableMarkdown(t *Table) string {
	headers := t.Headers
	if len(headers) == 0 && len(t.Rows) > 0 {
		headers = make([]string, len(t.Rows[0]))
	}
	if len(headers) == 0 {
		return ""
	}

	cell := func(s string) string { return strings.ReplaceAll(s, "|", `\|`) }
	row := func(cells []string) string {
		out := make([]string, len(headers))
		for i := range headers {
			if i < len(cells) {
				out[i] = cell(cells[i])
			}
		}
		return "| " + strings.Join(out, " | ") + " |"
	}

	lines := []string{row(headers), "|" + strings.Repeat(" --- |", len(headers))}
	for _, r := range t.Rows {
		lines = append(lines, row(r))
	}
	return strings.Join(lines, "\n")
}
