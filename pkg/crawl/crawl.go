// Package crawl imports crawled or saved forum pages. Every page becomes a
// topic with a single post in the configured category; its author, tags,
// images and legacy URL become users, tags, uploads and a permalink.
package crawl

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/dtnitsch/intermediate-db/models"
	"github.com/dtnitsch/intermediate-db/pkg/id"
	"github.com/dtnitsch/intermediate-db/pkg/importer"
	"github.com/dtnitsch/intermediate-db/pkg/intermediatedb"
	"github.com/dtnitsch/intermediate-db/pkg/parser"
	"github.com/dtnitsch/intermediate-db/pkg/storage"
)

// SourceURLField is the post custom field holding the page a post came from.
const SourceURLField = "import_source_url"

// maxUsernameLength is the forum's username limit.
const maxUsernameLength = 20

type PageFetcher interface {
	GetHtmlBytes(ctx context.Context, url string) ([]byte, error)
}

type LocaleDetector interface {
	Locale(text string) string
}

// Crawler is an importer.Source. The steps it returns share state to
// avoid duplicate users, tags and permalinks, so they must run serially,
// as importer.Run does.
type Crawler struct {
	cfg      models.CrawlConfig
	fetcher  PageFetcher
	detector LocaleDetector
	parser   *parser.Parser
	storage  *storage.Storage
	now      func() time.Time

	categoryCreated bool
	topics          map[string]bool
	users           map[string]bool
	usernames       map[string]bool
	tags            map[string]bool
	permalinks      map[string]bool
}

var _ importer.Source = (*Crawler)(nil)

// New returns a Crawler. detector may be nil to skip language detection.
func New(cfg models.CrawlConfig, fetcher PageFetcher, detector LocaleDetector) *Crawler {
	return &Crawler{
		cfg:        cfg,
		fetcher:    fetcher,
		detector:   detector,
		parser:     &parser.Parser{},
		storage:    &storage.Storage{},
		now:        time.Now,
		topics:     map[string]bool{},
		users:      map[string]bool{},
		usernames:  map[string]bool{},
		tags:       map[string]bool{},
		permalinks: map[string]bool{},
	}
}

// UserID is the original id of the user created for an author name.
func UserID(author string) string {
	return id.Hash("user-" + author)
}

// TagID is the original id of the tag created for a tag name.
func TagID(name string) string {
	return id.Hash("tag-" + name)
}

// Inputs lists the configured URLs followed by the saved pages below the
// configured directories.
func (c *Crawler) Inputs(ctx context.Context) ([]string, error) {
	files, err := c.storage.DiscoverHTML(c.cfg.Dirs)
	if err != nil {
		return nil, err
	}

	var inputs []string
	seen := map[string]bool{}
	for _, input := range append(append([]string{}, c.cfg.URLs...), files...) {
		input = strings.TrimSpace(input)
		if input == "" || seen[input] {
			continue
		}
		seen[input] = true
		inputs = append(inputs, input)
	}
	return inputs, nil
}

// Parse reads one page and returns the steps that write it.
func (c *Crawler) Parse(ctx context.Context, input string) ([]importer.Step, error) {
	html, pageURL, err := c.load(ctx, input)
	if err != nil {
		return nil, err
	}

	page, err := c.parser.Parse(pageURL, html)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", input, err)
	}

	var locale string
	if c.detector != nil {
		locale = c.detector.Locale(page.ToPlainText())
	}
	return c.steps(input, page, locale), nil
}

func (c *Crawler) load(ctx context.Context, input string) ([]byte, string, error) {
	if isRemote(input) {
		html, err := c.fetcher.GetHtmlBytes(ctx, input)
		if err != nil {
			return nil, "", fmt.Errorf("failed to fetch %s: %w", input, err)
		}
		return html, input, nil
	}

	html, err := c.storage.ReadFile(input)
	if err != nil {
		return nil, "", err
	}
	return html, c.fileURL(input), nil
}

func isRemote(input string) bool {
	return strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://")
}

// fileURL is the URL a saved page was served at: base_url plus the path
// below its directory, or a file URL when that is unknown.
func (c *Crawler) fileURL(path string) string {
	if c.cfg.BaseURL != "" {
		if rel := c.storage.RelativeTo(c.cfg.Dirs, path); rel != "" {
			return strings.TrimSuffix(c.cfg.BaseURL, "/") + "/" + rel
		}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
}

// steps writes one page. Inputs that resolve to an already imported URL,
// such as the pages of a thread sharing one canonical link, are skipped
// with a warning.
func (c *Crawler) steps(input string, page *models.Page, locale string) []importer.Step {
	topicID := page.URL
	postID := page.URL + "#1"
	createdAt := page.PublishedAt
	if createdAt.IsZero() {
		createdAt = c.now().UTC()
	}
	title := page.Title
	if title == "" {
		title = page.URL
	}

	var duplicate bool
	claim := func(w *intermediatedb.Writer) error {
		if c.topics[topicID] {
			duplicate = true
			return w.LogWarning("Skipping page of an already imported topic", nil, map[string]any{
				"input": input,
				"url":   page.URL,
			})
		}
		c.topics[topicID] = true
		return nil
	}

	var userID intermediatedb.ID
	var steps []importer.Step
	if page.Author != "" {
		userID = UserID(page.Author)
		steps = append(steps, c.createUser(page.Author, createdAt))
	}

	steps = append(steps,
		func(w *intermediatedb.Writer) error {
			return w.CreateTopic(intermediatedb.Topic{
				OriginalID: topicID,
				Title:      title,
				CreatedAt:  createdAt,
				Archetype:  "regular",
				CategoryID: c.cfg.Category.ID,
				Locale:     locale,
				UserID:     userID,
				Visible:    intermediatedb.Bool(true),
			})
		},
		func(w *intermediatedb.Writer) error {
			uploads := make(map[string]string, len(page.Images))
			for _, img := range page.Images {
				hash, err := w.CreateUploadForURL(img.Src, intermediatedb.Upload{
					Description: img.Alt,
					Origin:      page.URL,
					UserID:      userID,
				})
				if err != nil {
					return err
				}
				uploads[img.Src] = hash
			}

			raw := page.ToMarkdown(func(img models.Image) string {
				if hash, ok := uploads[img.Src]; ok {
					return "[upload|" + hash + "]"
				}
				return ""
			})
			return w.CreatePost(intermediatedb.Post{
				OriginalID: postID,
				TopicID:    topicID,
				CreatedAt:  createdAt,
				Raw:        raw,
				UserID:     userID,
				Locale:     locale,
				PostNumber: intermediatedb.Int(1),
			})
		},
		func(w *intermediatedb.Writer) error {
			return w.CreatePostCustomField(intermediatedb.PostCustomField{
				PostID: postID,
				Name:   SourceURLField,
				Value:  page.URL,
			})
		},
	)

	pageTags := map[string]bool{}
	for _, keyword := range page.Keywords {
		name := tagName(keyword)
		if name == "" || pageTags[name] {
			continue
		}
		pageTags[name] = true
		steps = append(steps, c.tagTopic(name, topicID, createdAt))
	}

	if path := permalinkPath(page.URL); path != "" {
		steps = append(steps, func(w *intermediatedb.Writer) error {
			if c.permalinks[path] {
				return nil
			}
			err := w.CreatePermalink(intermediatedb.Permalink{URL: path, TopicID: topicID, CreatedAt: createdAt})
			if err != nil {
				return err
			}
			c.permalinks[path] = true
			return nil
		})
	}

	guarded := make([]importer.Step, 0, len(steps)+2)
	guarded = append(guarded, claim, c.createCategory)
	for _, step := range steps {
		guarded = append(guarded, func(w *intermediatedb.Writer) error {
			if duplicate {
				return nil
			}
			return step(w)
		})
	}
	return guarded
}

func (c *Crawler) createCategory(w *intermediatedb.Writer) error {
	if c.categoryCreated {
		return nil
	}
	err := w.CreateCategory(intermediatedb.Category{
		OriginalID: c.cfg.Category.ID,
		Name:       c.cfg.Category.Name,
		CreatedAt:  c.now().UTC(),
	})
	if err != nil {
		return err
	}
	c.categoryCreated = true
	return nil
}

// createUser creates a staged user for an author the first time the
// author is seen.
func (c *Crawler) createUser(author string, createdAt time.Time) importer.Step {
	userID := UserID(author)
	return func(w *intermediatedb.Writer) error {
		if c.users[userID] {
			return nil
		}
		name := username(author)
		if c.usernames[name] {
			name = suffixed(name, userID)
		}
		err := w.CreateUser(intermediatedb.User{
			OriginalID: userID,
			Username:   name,
			Name:       author,
			CreatedAt:  createdAt,
			Staged:     intermediatedb.Bool(true),
		})
		if err != nil {
			return err
		}
		c.users[userID] = true
		c.usernames[name] = true
		return nil
	}
}

func (c *Crawler) tagTopic(name, topicID string, createdAt time.Time) importer.Step {
	tagID := TagID(name)
	return func(w *intermediatedb.Writer) error {
		if !c.tags[name] {
			if err := w.CreateTag(intermediatedb.Tag{OriginalID: tagID, Name: name, CreatedAt: createdAt}); err != nil {
				return err
			}
			c.tags[name] = true
		}
		return w.CreateTopicTag(intermediatedb.TopicTag{TopicID: topicID, TagID: tagID, CreatedAt: createdAt})
	}
}

var (
	usernameInvalid = regexp.MustCompile(`[^a-z0-9_.-]+`)
	tagInvalid      = regexp.MustCompile(`\s+`)
)

// username derives a forum username from a display name.
func username(name string) string {
	u := usernameInvalid.ReplaceAllString(strings.ToLower(name), "_")
	u = strings.Trim(u, "_.-")
	if len(u) > maxUsernameLength {
		u = strings.TrimRight(u[:maxUsernameLength], "_.-")
	}
	if u == "" {
		u = "user_" + strings.ToLower(UserID(name)[:8])
	}
	return u
}

// suffixed makes a taken username unique with a short hash of the user id.
func suffixed(name, userID string) string {
	suffix := "_" + strings.ToLower(userID[:6])
	if len(name) > maxUsernameLength-len(suffix) {
		name = name[:maxUsernameLength-len(suffix)]
	}
	return name + suffix
}

func tagName(keyword string) string {
	return tagInvalid.ReplaceAllString(strings.TrimSpace(keyword), "-")
}

// permalinkPath is the legacy path a permalink matches: the URL path and
// query without the leading slash. Pages read from disk without a base URL
// have none.
func permalinkPath(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil || u.Scheme == "file" {
		return ""
	}
	path := strings.TrimPrefix(u.EscapedPath(), "/")
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return path
}
