package intermediatedb

import (
	"time"

	"github.com/dtnitsch/intermediate-db/pkg/id"
)

// Permalink redirects a legacy URL to at most one target. ExternalURL may
// contain placeholder tokens whose values are listed in
// ExternalURLPlaceholders (stored as JSON) and resolved at load time.
type Permalink struct {
	URL                     string // required
	CategoryID              ID
	CreatedAt               time.Time
	ExternalURL             string
	ExternalURLPlaceholders any
	PostID                  ID
	TagID                   ID
	TopicID                 ID
	UserID                  ID
}

var permalinksTable = define("permalinks", []string{"url"},
	required("url", text),
	optional("category_id", numeric),
	optional("created_at", datetime),
	optional("external_url", text),
	optional("external_url_placeholders", jsonText),
	optional("post_id", numeric),
	optional("tag_id", numeric),
	optional("topic_id", numeric),
	optional("user_id", numeric),
)

// CreatePermalink inserts a permalink.
func (w *Writer) CreatePermalink(p Permalink) error {
	placeholders, err := toJSON(permalinksTable, "external_url_placeholders", p.ExternalURLPlaceholders)
	if err != nil {
		return err
	}

	return w.insert(permalinksTable,
		str(p.URL),
		idValue(p.CategoryID),
		ts(p.CreatedAt),
		str(p.ExternalURL),
		placeholders,
		idValue(p.PostID),
		idValue(p.TagID),
		idValue(p.TopicID),
		idValue(p.UserID),
	)
}

// PermalinkNormalization is a regex rewrite applied to incoming URLs
// before permalink lookup, e.g. "/(topic)\?id=(\d+)/\1/\2".
type PermalinkNormalization struct {
	Normalization string // required
}

var permalinkNormalizationsTable = define("permalink_normalizations", []string{"normalization"},
	required("normalization", text),
)

// CreatePermalinkNormalization inserts a permalink normalization.
func (w *Writer) CreatePermalinkNormalization(n PermalinkNormalization) error {
	return w.insert(permalinkNormalizationsTable, str(n.Normalization))
}

// PermalinkPlaceholder stands in for a target whose final URL is not known
// while importing.
type PermalinkPlaceholder struct {
	TargetType string // required, e.g. "Topic", "Post", "Category"
	TargetID   ID     // required
}

var permalinkPlaceholdersTable = define("permalink_placeholders", []string{"placeholder"},
	required("placeholder", text),
	required("target_type", text),
	required("target_id", numeric),
).ignoringDuplicates()

// PermalinkPlaceholderKey returns the key CreatePermalinkPlaceholder
// stores for a target, without writing anything.
func PermalinkPlaceholderKey(targetType string, targetID ID) string {
	return id.Hash(id.Build(targetType, idValue(targetID)))
}

// CreatePermalinkPlaceholder records a placeholder and returns its key.
// The key is a hash of "{target_type}-{target_id}", so it can be embedded
// in rows written before the target exists. Repeated calls return the
// same key and store one row.
func (w *Writer) CreatePermalinkPlaceholder(p PermalinkPlaceholder) (string, error) {
	t := permalinkPlaceholdersTable
	targetID := idValue(p.TargetID)
	if p.TargetType == "" {
		return "", &MissingFieldError{Table: t.name, Column: "target_type"}
	}
	if targetID == nil {
		return "", &MissingFieldError{Table: t.name, Column: "target_id"}
	}

	key := PermalinkPlaceholderKey(p.TargetType, targetID)
	if err := w.insert(t, key, p.TargetType, targetID); err != nil {
		return "", err
	}
	return key, nil
}
