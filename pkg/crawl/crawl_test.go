package crawl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dtnitsch/intermediate-db/models"
	"github.com/dtnitsch/intermediate-db/pkg/db"
	"github.com/dtnitsch/intermediate-db/pkg/fetcher"
	"github.com/dtnitsch/intermediate-db/pkg/id"
	"github.com/dtnitsch/intermediate-db/pkg/importer"
	"github.com/dtnitsch/intermediate-db/pkg/intermediatedb"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
  <title>%[1]s</title>
  %[2]s
</head>
<body>
  <nav><a href="/">Home</a></nav>
  <article>
    <p>%[1]s is a question that comes up again and again whenever an old community moves to a new
    forum. The answers below collect what worked for the people who went through it first.</p>
    <p>Most of the work is in mapping the old data onto the new shape. Users, topics and posts are
    the easy part; attachments and old links need a little more care to keep them working.</p>
    %[3]s
    <p>Run the import twice on a copy before the real migration, so there are no surprises on the
    day the old forum goes read-only and everyone starts using the new one for good.</p>
  </article>
</body>
</html>`

func page(title, head, extra string) string {
	return fmt.Sprintf(pageTemplate, title, head, extra)
}

type fixedLocale string

func (l fixedLocale) Locale(string) string { return string(l) }

func setupTestWriter(t *testing.T) (*db.DB, *db.Connection, *intermediatedb.Writer) {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "intermediate.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := intermediatedb.Setup(database); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	conn, err := db.NewConnection(database, 10)
	if err != nil {
		t.Fatalf("NewConnection() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return database, conn, intermediatedb.New(conn)
}

func countRows(t *testing.T, database *db.DB, table string) int64 {
	t.Helper()
	n, err := database.CountRows(table)
	if err != nil {
		t.Fatalf("CountRows(%s) error = %v", table, err)
	}
	return n
}

func TestCrawl_Import(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/t/first-steps/1", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page("Moving a forum",
			`<meta name="author" content="Jane Doe">
  <meta name="keywords" content="Migration, data import">
  <meta property="article:published_time" content="2021-06-15T09:30:00+02:00">`,
			`<p><img src="/uploads/plan.png" alt="Plan"> The plan shows every table that has to be moved
    across, in the order the importer writes them to the staging database.</p>`))
	})
	mux.HandleFunc("/t/old-links/2", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page("Keeping old links alive",
			`<meta name="author" content="Jane Doe">
  <meta name="keywords" content="migration">`, ""))
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusInternalServerError)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	dir := t.TempDir()
	saved := filepath.Join(dir, "archive", "42.html")
	if err := os.MkdirAll(filepath.Dir(saved), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(saved, []byte(page("Exporting the archive", "", "")), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := models.DefaultConfig().Crawl
	cfg.URLs = []string{server.URL + "/t/first-steps/1", server.URL + "/t/old-links/2", server.URL + "/broken"}
	cfg.Dirs = []string{dir}
	cfg.BaseURL = "https://old.example.com/"

	database, conn, w := setupTestWriter(t)
	crawler := New(cfg, fetcher.NewFetcher(fetcher.Options{}), fixedLocale("en"))
	crawler.now = func() time.Time { return fixedNow }

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	stats, err := importer.New(w, logger, importer.Options{Workers: 2}).Run(context.Background(), crawler)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if err := conn.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	if stats.Inputs != 4 || stats.Parsed != 3 || stats.Failed != 1 {
		t.Errorf("stats = %+v, want 4 inputs, 3 parsed, 1 failed", stats)
	}

	counts := map[string]int64{
		"categories":         1,
		"users":              1,
		"topics":             3,
		"posts":              3,
		"post_custom_fields": 3,
		"tags":               2,
		"topic_tags":         3,
		"uploads":            1,
		"permalinks":         3,
	}
	for table, want := range counts {
		if got := countRows(t, database, table); got != want {
			t.Errorf("%s rows = %d, want %d", table, got, want)
		}
	}

	firstURL := server.URL + "/t/first-steps/1"
	var raw, userID, locale string
	var postNumber int64
	err = database.QueryRow(
		`SELECT raw, user_id, locale, post_number FROM posts WHERE original_id = ?`, firstURL+"#1",
	).Scan(&raw, &userID, &locale, &postNumber)
	if err != nil {
		t.Fatalf("failed to read post: %v", err)
	}
	if want := "[upload|" + id.Hash(server.URL+"/uploads/plan.png") + "]"; !strings.Contains(raw, want) {
		t.Errorf("raw = %q, want upload markup %q", raw, want)
	}
	if userID != UserID("Jane Doe") || locale != "en" || postNumber != 1 {
		t.Errorf("post user_id = %q, locale = %q, post_number = %d", userID, locale, postNumber)
	}

	var createdAt, category string
	err = database.QueryRow(
		`SELECT CAST(created_at AS TEXT), category_id FROM topics WHERE original_id = ?`, firstURL,
	).Scan(&createdAt, &category)
	if err != nil {
		t.Fatalf("failed to read topic: %v", err)
	}
	if createdAt != "2021-06-15T07:30:00Z" || category != "crawl" {
		t.Errorf("topic created_at = %q, category_id = %q", createdAt, category)
	}

	savedURL := "https://old.example.com/archive/42.html"
	err = database.QueryRow(
		`SELECT CAST(created_at AS TEXT) FROM topics WHERE original_id = ?`, savedURL,
	).Scan(&createdAt)
	if err != nil {
		t.Fatalf("failed to read saved topic: %v", err)
	}
	if createdAt != "2024-03-01T12:00:00Z" {
		t.Errorf("saved topic created_at = %q, want crawl time", createdAt)
	}

	var permalinkTopic string
	err = database.QueryRow(`SELECT topic_id FROM permalinks WHERE url = ?`, "archive/42.html").Scan(&permalinkTopic)
	if err != nil {
		t.Fatalf("failed to read permalink: %v", err)
	}
	if permalinkTopic != savedURL {
		t.Errorf("permalink topic_id = %q, want %q", permalinkTopic, savedURL)
	}

	var tag string
	err = database.QueryRow(`SELECT name FROM tags WHERE original_id = ?`, TagID("data-import")).Scan(&tag)
	if err != nil || tag != "data-import" {
		t.Errorf("tag = %q, err = %v", tag, err)
	}

	errors, err := database.ListLogEntries(intermediatedb.LogTypeError, 0)
	if err != nil {
		t.Fatalf("ListLogEntries() error = %v", err)
	}
	if len(errors) != 1 || !strings.Contains(errors[0].Details.String, "/broken") {
		t.Errorf("error log entries = %+v, want one for /broken", errors)
	}
}

func TestCrawler_Inputs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.html", "a.htm", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("<html></html>"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	crawler := New(models.CrawlConfig{
		URLs: []string{"https://example.com/1", " https://example.com/1 ", "", "https://example.com/2"},
		Dirs: []string{dir},
	}, nil, nil)

	inputs, err := crawler.Inputs(context.Background())
	if err != nil {
		t.Fatalf("Inputs() error = %v", err)
	}
	want := []string{
		"https://example.com/1",
		"https://example.com/2",
		filepath.Join(dir, "a.htm"),
		filepath.Join(dir, "b.html"),
	}
	if strings.Join(inputs, "\n") != strings.Join(want, "\n") {
		t.Errorf("Inputs() = %v, want %v", inputs, want)
	}
}

func TestCrawler_ParseErrors(t *testing.T) {
	crawler := New(models.CrawlConfig{}, fetcher.NewFetcher(fetcher.Options{}), nil)

	if _, err := crawler.Parse(context.Background(), filepath.Join(t.TempDir(), "missing.html")); err == nil {
		t.Error("Parse() of a missing file: want error")
	}

	empty := filepath.Join(t.TempDir(), "empty.html")
	if err := os.WriteFile(empty, []byte("<html><body></body></html>"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := crawler.Parse(context.Background(), empty); err == nil {
		t.Error("Parse() of a page without content: want error")
	}
}

func TestCrawler_FileURL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "t", "7.html")

	withBase := New(models.CrawlConfig{Dirs: []string{dir}, BaseURL: "https://old.example.com"}, nil, nil)
	if got := withBase.fileURL(path); got != "https://old.example.com/t/7.html" {
		t.Errorf("fileURL() = %q", got)
	}

	withoutBase := New(models.CrawlConfig{Dirs: []string{dir}}, nil, nil)
	got := withoutBase.fileURL(path)
	if !strings.HasPrefix(got, "file://") || !strings.HasSuffix(got, "/t/7.html") {
		t.Errorf("fileURL() = %q, want file URL", got)
	}
	if permalinkPath(got) != "" {
		t.Errorf("permalinkPath(%q) = %q, want none", got, permalinkPath(got))
	}
}

func TestUsername(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Jane Doe", "jane_doe"},
		{"  o'Brien!  ", "o_brien"},
		{"jane.doe-92", "jane.doe-92"},
		{"An Extremely Long Display Name", "an_extremely_long_di"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := username(tt.name); got != tt.want {
				t.Errorf("username(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}

	if got := username("日本"); !strings.HasPrefix(got, "user_") {
		t.Errorf("username of non-latin name = %q, want user_ prefix", got)
	}
}

func TestPermalinkPath(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://old.example.com/t/42", "t/42"},
		{"https://old.example.com/viewtopic.php?t=42&p=7", "viewtopic.php?t=42&p=7"},
		{"https://old.example.com/", ""},
		{"file:///tmp/page.html", ""},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := permalinkPath(tt.url); got != tt.want {
				t.Errorf("permalinkPath(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func servePages(t *testing.T, pages map[string]string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	for path, html := range pages {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, html)
		})
	}
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func runCrawl(t *testing.T, cfg models.CrawlConfig) (*db.DB, *importer.Stats) {
	t.Helper()

	database, conn, w := setupTestWriter(t)
	crawler := New(cfg, fetcher.NewFetcher(fetcher.Options{}), nil)
	crawler.now = func() time.Time { return fixedNow }

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	stats, err := importer.New(w, logger, importer.Options{Workers: 2}).Run(context.Background(), crawler)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if err := conn.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	return database, stats
}

func TestCrawl_SharedCanonicalURL(t *testing.T) {
	canonical := `<link rel="canonical" href="/t/moving/1">`
	server := servePages(t, map[string]string{
		"/t/moving/1":        page("Moving a forum", canonical, ""),
		"/t/moving/1/page/2": page("Moving a forum, page two", canonical, ""),
	})

	cfg := models.DefaultConfig().Crawl
	cfg.URLs = []string{server.URL + "/t/moving/1", server.URL + "/t/moving/1/page/2"}
	database, stats := runCrawl(t, cfg)

	if stats.Parsed != 2 || stats.Failed != 0 {
		t.Errorf("stats = %+v, want 2 parsed, 0 failed", stats)
	}
	for _, table := range []string{"topics", "posts", "post_custom_fields", "permalinks"} {
		if got := countRows(t, database, table); got != 1 {
			t.Errorf("%s rows = %d, want 1", table, got)
		}
	}

	warnings, err := database.ListLogEntries(intermediatedb.LogTypeWarning, 0)
	if err != nil {
		t.Fatalf("ListLogEntries() error = %v", err)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0].Details.String, "/t/moving/1") {
		t.Errorf("warning log entries = %+v, want one for the repeated topic", warnings)
	}
}

func TestCrawl_KeywordsNormalizingToOneTag(t *testing.T) {
	server := servePages(t, map[string]string{
		"/t/tags/1": page("Tag spellings", `<meta name="keywords" content="foo bar, foo-bar, Foo  Bar">`, ""),
	})

	cfg := models.DefaultConfig().Crawl
	cfg.URLs = []string{server.URL + "/t/tags/1"}
	database, stats := runCrawl(t, cfg)

	if stats.Parsed != 1 {
		t.Errorf("stats = %+v, want 1 parsed", stats)
	}
	if got := countRows(t, database, "tags"); got != 1 {
		t.Errorf("tags rows = %d, want 1", got)
	}
	if got := countRows(t, database, "topic_tags"); got != 1 {
		t.Errorf("topic_tags rows = %d, want 1", got)
	}
}

func TestCrawl_UsernamesStayUnique(t *testing.T) {
	server := servePages(t, map[string]string{
		"/t/a/1": page("First author", `<meta name="author" content="Jane Doe">`, ""),
		"/t/b/2": page("Second author", `<meta name="author" content="jane doe">`, ""),
	})

	cfg := models.DefaultConfig().Crawl
	cfg.URLs = []string{server.URL + "/t/a/1", server.URL + "/t/b/2"}
	database, _ := runCrawl(t, cfg)

	rows, err := database.Query(`SELECT username FROM users ORDER BY username`)
	if err != nil {
		t.Fatalf("failed to read users: %v", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("failed to scan username: %v", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("failed to iterate users: %v", err)
	}

	if len(names) != 2 || names[0] == names[1] {
		t.Fatalf("usernames = %v, want two distinct names", names)
	}
	if names[0] != "jane_doe" || !strings.HasPrefix(names[1], "jane_doe_") {
		t.Errorf("usernames = %v, want jane_doe and a suffixed jane_doe", names)
	}
}

func TestSuffixed(t *testing.T) {
	userID := UserID("An Extremely Long Display Name")
	got := suffixed("an_extremely_long_di", userID)
	if len(got) > maxUsernameLength {
		t.Errorf("suffixed() = %q, longer than %d", got, maxUsernameLength)
	}
	if want := "_" + strings.ToLower(userID[:6]); !strings.HasSuffix(got, want) {
		t.Errorf("suffixed() = %q, want suffix %q", got, want)
	}
}
