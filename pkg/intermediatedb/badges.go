package intermediatedb

import (
	"time"
)

type BadgeGrouping struct {
	OriginalID  ID     // required
	Name        string // required
	Description string
	Position    *int
	CreatedAt   time.Time
}

var badgeGroupingsTable = define("badge_groupings", []string{"original_id"},
	required("original_id", numeric),
	required("name", text),
	optional("description", text),
	optional("position", integer),
	optional("created_at", datetime),
)

// CreateBadgeGrouping inserts a badge grouping.
func (w *Writer) CreateBadgeGrouping(g BadgeGrouping) error {
	return w.insert(badgeGroupingsTable,
		idValue(g.OriginalID),
		str(g.Name),
		str(g.Description),
		intPtr(g.Position),
		ts(g.CreatedAt),
	)
}

// Badge may belong to a BadgeGrouping. BadgeTypeID is 1 (gold),
// 2 (silver) or 3 (bronze).
type Badge struct {
	OriginalID       ID     // required
	Name             string // required
	BadgeTypeID      int    // required
	BadgeGroupingID  ID
	AllowTitle       *bool
	AutoRevoke       *bool
	CreatedAt        time.Time
	Description      string
	Enabled          *bool
	Icon             string
	ImageUploadID    string
	Listable         *bool
	LongDescription  string
	MultipleGrant    *bool
	Query            string
	ShowInPostHeader *bool
	ShowPosts        *bool
	TargetPosts      *bool
	Trigger          *int
}

var badgesTable = define("badges", []string{"original_id"},
	required("original_id", numeric),
	required("name", text),
	required("badge_type_id", integer),
	optional("badge_grouping_id", numeric),
	optional("allow_title", boolean),
	optional("auto_revoke", boolean),
	optional("created_at", datetime),
	optional("description", text),
	optional("enabled", boolean),
	optional("icon", text),
	optional("image_upload_id", text),
	optional("listable", boolean),
	optional("long_description", text),
	optional("multiple_grant", boolean),
	optional("query", text),
	optional("show_in_post_header", boolean),
	optional("show_posts", boolean),
	optional("target_posts", boolean),
	optional("trigger", integer),
)

// CreateBadge inserts a badge.
func (w *Writer) CreateBadge(b Badge) error {
	return w.insert(badgesTable,
		idValue(b.OriginalID),
		str(b.Name),
		num(b.BadgeTypeID),
		idValue(b.BadgeGroupingID),
		boolPtr(b.AllowTitle),
		boolPtr(b.AutoRevoke),
		ts(b.CreatedAt),
		str(b.Description),
		boolPtr(b.Enabled),
		str(b.Icon),
		str(b.ImageUploadID),
		boolPtr(b.Listable),
		str(b.LongDescription),
		boolPtr(b.MultipleGrant),
		str(b.Query),
		boolPtr(b.ShowInPostHeader),
		boolPtr(b.ShowPosts),
		boolPtr(b.TargetPosts),
		intPtr(b.Trigger),
	)
}

// UserBadge grants a badge to a user. Multiple-grant badges may repeat
// per user with increasing Seq.
type UserBadge struct {
	BadgeID      ID        // required
	UserID       ID        // required
	GrantedAt    time.Time // required
	GrantedByID  ID
	FeaturedRank *int
	IsFavorite   *bool
	PostID       ID
	Seq          *int
}

var userBadgesTable = define("user_badges", nil,
	required("badge_id", numeric),
	required("user_id", numeric),
	required("granted_at", datetime),
	optional("granted_by_id", numeric),
	optional("featured_rank", integer),
	optional("is_favorite", boolean),
	optional("post_id", numeric),
	optional("seq", integer),
)

// CreateUserBadge inserts a user badge.
func (w *Writer) CreateUserBadge(b UserBadge) error {
	return w.insert(userBadgesTable,
		idValue(b.BadgeID),
		idValue(b.UserID),
		ts(b.GrantedAt),
		idValue(b.GrantedByID),
		intPtr(b.FeaturedRank),
		boolPtr(b.IsFavorite),
		idValue(b.PostID),
		intPtr(b.Seq),
	)
}
