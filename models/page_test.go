package models

import (
	"testing"
)

func TestPage_ToMarkdown(t *testing.T) {
	page := &Page{Content: []ContentBlock{
		{Type: "h2", Text: "Welcome"},
		{Type: "p", Text: "First paragraph."},
		{Type: "li", Text: "one"},
		{Type: "blockquote", Text: "quoted"},
		{Type: "img", Image: &Image{Src: "https://example.com/a.png", Alt: "a"}},
		{Type: "img", Image: &Image{Src: "https://example.com/skip.png"}},
		{Type: "code", Code: &Code{Language: "go", Content: "fmt.Println(1)"}},
		{Type: "table", Table: &Table{Headers: []string{"k", "v"}, Rows: [][]string{{"a|b", "1"}}}},
	}}

	got := page.ToMarkdown(func(img Image) string {
		if img.Alt == "" {
			return ""
		}
		return "[upload|" + img.Alt + "]"
	})

	want := "## Welcome\n\n" +
		"First paragraph.\n\n" +
		"- one\n\n" +
		"> quoted\n\n" +
		"[upload|a]\n\n" +
		"```go\nfmt.Println(1)\n```\n\n" +
		"| k | v |\n| --- | --- |\n| a\\|b | 1 |"
	if got != want {
		t.Errorf("ToMarkdown() =\n%s\nwant\n%s", got, want)
	}
}

func TestPage_ToPlainText(t *testing.T) {
	page := &Page{Content: []ContentBlock{
		{Type: "h1", Text: "Title"},
		{Type: "img", Image: &Image{Src: "x.png"}},
		{Type: "table", Table: &Table{Rows: [][]string{{"a", "b"}}}},
	}}

	if got, want := page.ToPlainText(), "Title\na b\n"; got != want {
		t.Errorf("ToPlainText() = %q, want %q", got, want)
	}
}

func TestTableMarkdown_NoHeaders(t *testing.T) {
	got := tableMarkdown(&Table{Rows: [][]string{{"1", "2"}}})
	want := "|  |  |\n| --- | --- |\n| 1 | 2 |"
	if got != want {
		t.Errorf("tableMarkdown() = %q, want %q", got, want)
	}
}
