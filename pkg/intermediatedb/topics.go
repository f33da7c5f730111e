package intermediatedb

import (
	"time"
)

// Topic is a discussion in a category, or a private message when
// Archetype is "private_message".
type Topic struct {
	OriginalID     ID        // required
	Title          string    // required
	CreatedAt      time.Time // required
	Archetype      string
	Archived       *bool
	BanneredUntil  time.Time
	CategoryID     ID
	Closed         *bool
	DeletedAt      time.Time
	DeletedByID    ID
	ExternalID     string
	FeaturedLink   string
	Locale         string
	PinnedAt       time.Time
	PinnedGlobally *bool
	PinnedUntil    time.Time
	Slug           string
	Subtype        string
	UserID         ID
	Views          *int
	Visible        *bool
}

var topicsTable = define("topics", []string{"original_id"},
	required("original_id", numeric),
	required("title", text),
	required("created_at", datetime),
	optional("archetype", text),
	optional("archived", boolean),
	optional("bannered_until", datetime),
	optional("category_id", numeric),
	optional("closed", boolean),
	optional("deleted_at", datetime),
	optional("deleted_by_id", numeric),
	optional("external_id", text),
	optional("featured_link", text),
	optional("locale", text),
	optional("pinned_at", datetime),
	optional("pinned_globally", boolean),
	optional("pinned_until", datetime),
	optional("slug", text),
	optional("subtype", text),
	optional("user_id", numeric),
	optional("views", integer),
	optional("visible", boolean),
)

// CreateTopic inserts a topic.
func (w *Writer) CreateTopic(t Topic) error {
	return w.insert(topicsTable,
		idValue(t.OriginalID),
		str(t.Title),
		ts(t.CreatedAt),
		str(t.Archetype),
		boolPtr(t.Archived),
		ts(t.BanneredUntil),
		idValue(t.CategoryID),
		boolPtr(t.Closed),
		ts(t.DeletedAt),
		idValue(t.DeletedByID),
		str(t.ExternalID),
		str(t.FeaturedLink),
		str(t.Locale),
		ts(t.PinnedAt),
		boolPtr(t.PinnedGlobally),
		ts(t.PinnedUntil),
		str(t.Slug),
		str(t.Subtype),
		idValue(t.UserID),
		intPtr(t.Views),
		boolPtr(t.Visible),
	)
}

// TopicUser is a user's read and notification state in a topic.
type TopicUser struct {
	TopicID                ID // required
	UserID                 ID // required
	ClearedPinnedAt        time.Time
	FirstVisitedAt         time.Time
	LastEmailedPostNumber  *int
	LastPostedAt           time.Time
	LastReadPostNumber     *int
	LastVisitedAt          time.Time
	Liked                  *bool
	NotificationLevel      *int
	NotificationsChangedAt time.Time
	NotificationsReasonID  *int
	Posted                 *bool
	TotalMsecsViewed       *int
}

var topicUsersTable = define("topic_users", []string{"topic_id", "user_id"},
	required("topic_id", numeric),
	required("user_id", numeric),
	optional("cleared_pinned_at", datetime),
	optional("first_visited_at", datetime),
	optional("last_emailed_post_number", integer),
	optional("last_posted_at", datetime),
	optional("last_read_post_number", integer),
	optional("last_visited_at", datetime),
	optional("liked", boolean),
	optional("notification_level", integer),
	optional("notifications_changed_at", datetime),
	optional("notifications_reason_id", integer),
	optional("posted", boolean),
	optional("total_msecs_viewed", integer),
)

// CreateTopicUser inserts a topic user.
func (w *Writer) CreateTopicUser(u TopicUser) error {
	return w.insert(topicUsersTable,
		idValue(u.TopicID),
		idValue(u.UserID),
		ts(u.ClearedPinnedAt),
		ts(u.FirstVisitedAt),
		intPtr(u.LastEmailedPostNumber),
		ts(u.LastPostedAt),
		intPtr(u.LastReadPostNumber),
		ts(u.LastVisitedAt),
		boolPtr(u.Liked),
		intPtr(u.NotificationLevel),
		ts(u.NotificationsChangedAt),
		intPtr(u.NotificationsReasonID),
		boolPtr(u.Posted),
		intPtr(u.TotalMsecsViewed),
	)
}

type TopicTag struct {
	TopicID   ID // required
	TagID     ID // required
	CreatedAt time.Time
}

var topicTagsTable = define("topic_tags", []string{"topic_id", "tag_id"},
	required("topic_id", numeric),
	required("tag_id", numeric),
	optional("created_at", datetime),
)

// CreateTopicTag inserts a topic tag.
func (w *Writer) CreateTopicTag(t TopicTag) error {
	return w.insert(topicTagsTable,
		idValue(t.TopicID),
		idValue(t.TagID),
		ts(t.CreatedAt),
	)
}

// TopicAllowedUser grants a user access to a private topic.
type TopicAllowedUser struct {
	TopicID   ID // required
	UserID    ID // required
	CreatedAt time.Time
}

var topicAllowedUsersTable = define("topic_allowed_users", []string{"topic_id", "user_id"},
	required("topic_id", numeric),
	required("user_id", numeric),
	optional("created_at", datetime),
)

// CreateTopicAllowedUser grants a user access to a private message topic.
func (w *Writer) CreateTopicAllowedUser(u TopicAllowedUser) error {
	return w.insert(topicAllowedUsersTable,
		idValue(u.TopicID),
		idValue(u.UserID),
		ts(u.CreatedAt),
	)
}

// TopicAllowedGroup grants a group access to a private topic.
type TopicAllowedGroup struct {
	TopicID   ID // required
	GroupID   ID // required
	CreatedAt time.Time
}

var topicAllowedGroupsTable = define("topic_allowed_groups", []string{"topic_id", "group_id"},
	required("topic_id", numeric),
	required("group_id", numeric),
	optional("created_at", datetime),
)

// CreateTopicAllowedGroup inserts a topic allowed group.
func (w *Writer) CreateTopicAllowedGroup(g TopicAllowedGroup) error {
	return w.insert(topicAllowedGroupsTable,
		idValue(g.TopicID),
		idValue(g.GroupID),
		ts(g.CreatedAt),
	)
}

type TopicCustomField struct {
	TopicID   ID     // required
	Name      string // required
	Value     string
	CreatedAt time.Time
}

var topicCustomFieldsTable = define("topic_custom_fields", nil,
	required("topic_id", numeric),
	required("name", text),
	optional("value", text),
	optional("created_at", datetime),
)

// CreateTopicCustomField inserts a topic custom field.
func (w *Writer) CreateTopicCustomField(f TopicCustomField) error {
	return w.insert(topicCustomFieldsTable,
		idValue(f.TopicID),
		str(f.Name),
		str(f.Value),
		ts(f.CreatedAt),
	)
}
