package intermediatedb

import (
	"time"
)

// Tag is a topic tag. Tags are referenced by OriginalID.
type Tag struct {
	OriginalID  ID     // required
	Name        string // required
	CreatedAt   time.Time
	Description string
}

var tagsTable = define("tags", []string{"original_id"},
	required("original_id", numeric),
	required("name", text),
	optional("created_at", datetime),
	optional("description", text),
)

// CreateTag inserts a tag.
func (w *Writer) CreateTag(t Tag) error {
	return w.insert(tagsTable,
		idValue(t.OriginalID),
		str(t.Name),
		ts(t.CreatedAt),
		str(t.Description),
	)
}

// TagSynonym makes SynonymTagID an alias of TargetTagID.
type TagSynonym struct {
	SynonymTagID ID // required
	TargetTagID  ID // required
}

var tagSynonymsTable = define("tag_synonyms", []string{"synonym_tag_id"},
	required("synonym_tag_id", numeric),
	required("target_tag_id", numeric),
)

// CreateTagSynonym inserts a tag synonym.
func (w *Writer) CreateTagSynonym(s TagSynonym) error {
	return w.insert(tagSynonymsTable,
		idValue(s.SynonymTagID),
		idValue(s.TargetTagID),
	)
}

type TagGroup struct {
	OriginalID  ID     // required
	Name        string // required
	CreatedAt   time.Time
	OnePerTopic *bool
	ParentTagID ID
}

var tagGroupsTable = define("tag_groups", []string{"original_id"},
	required("original_id", numeric),
	required("name", text),
	optional("created_at", datetime),
	optional("one_per_topic", boolean),
	optional("parent_tag_id", numeric),
)

// CreateTagGroup inserts a tag group.
func (w *Writer) CreateTagGroup(g TagGroup) error {
	return w.insert(tagGroupsTable,
		idValue(g.OriginalID),
		str(g.Name),
		ts(g.CreatedAt),
		boolPtr(g.OnePerTopic),
		idValue(g.ParentTagID),
	)
}

type TagGroupMembership struct {
	TagGroupID ID // required
	TagID      ID // required
	CreatedAt  time.Time
}

var tagGroupMembershipsTable = define("tag_group_memberships", []string{"tag_group_id", "tag_id"},
	required("tag_group_id", numeric),
	required("tag_id", numeric),
	optional("created_at", datetime),
)

// CreateTagGroupMembership inserts a tag group membership.
func (w *Writer) CreateTagGroupMembership(m TagGroupMembership) error {
	return w.insert(tagGroupMembershipsTable,
		idValue(m.TagGroupID),
		idValue(m.TagID),
		ts(m.CreatedAt),
	)
}

// TagGroupPermission grants a group access to a tag group.
// PermissionType is 1 (full) or 3 (readonly).
type TagGroupPermission struct {
	TagGroupID     ID  // required
	GroupID        ID  // required
	PermissionType int // required
	CreatedAt      time.Time
}

var tagGroupPermissionsTable = define("tag_group_permissions", []string{"tag_group_id", "group_id", "permission_type"},
	required("tag_group_id", numeric),
	required("group_id", numeric),
	required("permission_type", integer),
	optional("created_at", datetime),
)

// CreateTagGroupPermission inserts a tag group permission.
func (w *Writer) CreateTagGroupPermission(p TagGroupPermission) error {
	return w.insert(tagGroupPermissionsTable,
		idValue(p.TagGroupID),
		idValue(p.GroupID),
		num(p.PermissionType),
		ts(p.CreatedAt),
	)
}

// TagUser is a user's notification level for a tag.
type TagUser struct {
	TagID             ID  // required
	UserID            ID  // required
	NotificationLevel int // required
	CreatedAt         time.Time
}

var tagUsersTable = define("tag_users", []string{"tag_id", "user_id"},
	required("tag_id", numeric),
	required("user_id", numeric),
	required("notification_level", integer),
	optional("created_at", datetime),
)

// CreateTagUser inserts a tag user.
func (w *Writer) CreateTagUser(u TagUser) error {
	return w.insert(tagUsersTable,
		idValue(u.TagID),
		idValue(u.UserID),
		num(u.NotificationLevel),
		ts(u.CreatedAt),
	)
}
