package intermediatedb

import (
	"time"
)

// Post belongs to a topic. Raw is the markdown source; it may embed
// upload placeholders returned by the CreateUploadFor* functions.
type Post struct {
	OriginalID     ID        // required
	TopicID        ID        // required
	CreatedAt      time.Time // required
	Raw            string    // required
	UserID         ID
	DeletedAt      time.Time
	DeletedByID    ID
	Hidden         *bool
	HiddenAt       time.Time
	HiddenReasonID *int
	ImageUploadID  string
	LastEditorID   ID
	LastVersionAt  time.Time
	LikeCount      *int
	Locale         string
	LockedByID     ID
	OriginalRaw    string
	PostNumber     *int
	PostType       *int
	ReplyCount     *int
	ReplyToPostID  ID
	ReplyToUserID  ID
	UpdatedAt      time.Time
	Wiki           *bool
}

var postsTable = define("posts", []string{"original_id"},
	required("original_id", numeric),
	required("topic_id", numeric),
	required("created_at", datetime),
	required("raw", text),
	optional("user_id", numeric),
	optional("deleted_at", datetime),
	optional("deleted_by_id", numeric),
	optional("hidden", boolean),
	optional("hidden_at", datetime),
	optional("hidden_reason_id", integer),
	optional("image_upload_id", text),
	optional("last_editor_id", numeric),
	optional("last_version_at", datetime),
	optional("like_count", integer),
	optional("locale", text),
	optional("locked_by_id", numeric),
	optional("original_raw", text),
	optional("post_number", integer),
	optional("post_type", integer),
	optional("reply_count", integer),
	optional("reply_to_post_id", numeric),
	optional("reply_to_user_id", numeric),
	optional("updated_at", datetime),
	optional("wiki", boolean),
)

// CreatePost inserts a post.
func (w *Writer) CreatePost(p Post) error {
	return w.insert(postsTable,
		idValue(p.OriginalID),
		idValue(p.TopicID),
		ts(p.CreatedAt),
		str(p.Raw),
		idValue(p.UserID),
		ts(p.DeletedAt),
		idValue(p.DeletedByID),
		boolPtr(p.Hidden),
		ts(p.HiddenAt),
		intPtr(p.HiddenReasonID),
		str(p.ImageUploadID),
		idValue(p.LastEditorID),
		ts(p.LastVersionAt),
		intPtr(p.LikeCount),
		str(p.Locale),
		idValue(p.LockedByID),
		str(p.OriginalRaw),
		intPtr(p.PostNumber),
		intPtr(p.PostType),
		intPtr(p.ReplyCount),
		idValue(p.ReplyToPostID),
		idValue(p.ReplyToUserID),
		ts(p.UpdatedAt),
		boolPtr(p.Wiki),
	)
}

type PostCustomField struct {
	PostID    ID     // required
	Name      string // required
	Value     string
	CreatedAt time.Time
}

var postCustomFieldsTable = define("post_custom_fields", nil,
	required("post_id", numeric),
	required("name", text),
	optional("value", text),
	optional("created_at", datetime),
)

// CreatePostCustomField inserts a post custom field.
func (w *Writer) CreatePostCustomField(f PostCustomField) error {
	return w.insert(postCustomFieldsTable,
		idValue(f.PostID),
		str(f.Name),
		str(f.Value),
		ts(f.CreatedAt),
	)
}
