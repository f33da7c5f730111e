package intermediatedb

import (
	"time"
)

// Group is a user group. Visibility and mention levels use the forum's
// numeric enums (0 = everyone ... 4 = nobody).
type Group struct {
	OriginalID                      ID     // required
	Name                            string // required
	AllowMembershipRequests         *bool
	AutomaticMembershipEmailDomains string
	BioRaw                          string
	CreatedAt                       time.Time
	DefaultNotificationLevel        *int
	FlairBgColor                    string
	FlairColor                      string
	FlairIcon                       string
	FlairUploadID                   string
	FullName                        string
	GrantTrustLevel                 *int
	MembersVisibilityLevel          *int
	MembershipRequestTemplate       string
	MentionableLevel                *int
	MessageableLevel                *int
	PrimaryGroup                    *bool
	PublicAdmission                 *bool
	PublicExit                      *bool
	PublishReadState                *bool
	Title                           string
	VisibilityLevel                 *int
}

var groupsTable = define("groups", []string{"original_id"},
	required("original_id", numeric),
	required("name", text),
	optional("allow_membership_requests", boolean),
	optional("automatic_membership_email_domains", text),
	optional("bio_raw", text),
	optional("created_at", datetime),
	optional("default_notification_level", integer),
	optional("flair_bg_color", text),
	optional("flair_color", text),
	optional("flair_icon", text),
	optional("flair_upload_id", text),
	optional("full_name", text),
	optional("grant_trust_level", integer),
	optional("members_visibility_level", integer),
	optional("membership_request_template", text),
	optional("mentionable_level", integer),
	optional("messageable_level", integer),
	optional("primary_group", boolean),
	optional("public_admission", boolean),
	optional("public_exit", boolean),
	optional("publish_read_state", boolean),
	optional("title", text),
	optional("visibility_level", integer),
)

// CreateGroup inserts a group.
func (w *Writer) CreateGroup(g Group) error {
	return w.insert(groupsTable,
		idValue(g.OriginalID),
		str(g.Name),
		boolPtr(g.AllowMembershipRequests),
		str(g.AutomaticMembershipEmailDomains),
		str(g.BioRaw),
		ts(g.CreatedAt),
		intPtr(g.DefaultNotificationLevel),
		str(g.FlairBgColor),
		str(g.FlairColor),
		str(g.FlairIcon),
		str(g.FlairUploadID),
		str(g.FullName),
		intPtr(g.GrantTrustLevel),
		intPtr(g.MembersVisibilityLevel),
		str(g.MembershipRequestTemplate),
		intPtr(g.MentionableLevel),
		intPtr(g.MessageableLevel),
		boolPtr(g.PrimaryGroup),
		boolPtr(g.PublicAdmission),
		boolPtr(g.PublicExit),
		boolPtr(g.PublishReadState),
		str(g.Title),
		intPtr(g.VisibilityLevel),
	)
}

// GroupUser is a membership of a user in a group.
type GroupUser struct {
	GroupID           ID // required
	UserID            ID // required
	CreatedAt         time.Time
	FirstUnreadPmAt   time.Time
	NotificationLevel *int
	Owner             *bool
}

var groupUsersTable = define("group_users", []string{"group_id", "user_id"},
	required("group_id", numeric),
	required("user_id", numeric),
	optional("created_at", datetime),
	optional("first_unread_pm_at", datetime),
	optional("notification_level", integer),
	optional("owner", boolean),
)

// CreateGroupUser adds a user to a group.
func (w *Writer) CreateGroupUser(g GroupUser) error {
	return w.insert(groupUsersTable,
		idValue(g.GroupID),
		idValue(g.UserID),
		ts(g.CreatedAt),
		ts(g.FirstUnreadPmAt),
		intPtr(g.NotificationLevel),
		boolPtr(g.Owner),
	)
}
