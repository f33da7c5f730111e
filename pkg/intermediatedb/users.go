package intermediatedb

import (
	"time"

	"github.com/dtnitsch/intermediate-db/pkg/db"
)

// User is a forum account.
type User struct {
	OriginalID             ID // required
	Active                 *bool
	Admin                  *bool
	Approved               *bool
	ApprovedAt             time.Time
	ApprovedByID           ID
	AvatarType             *int
	CreatedAt              time.Time // required
	DateOfBirth            time.Time // date only
	FirstSeenAt            time.Time
	FlairGroupID           ID
	GroupLockedTrustLevel  *int
	IPAddress              string // invalid addresses are stored as NULL
	LastSeenAt             time.Time
	Locale                 string
	ManualLockedTrustLevel *int
	Moderator              *bool
	Name                   string
	OriginalUsername       string
	PrimaryGroupID         ID
	RegistrationIPAddress  string
	SilencedTill           time.Time
	Staged                 *bool
	Title                  string
	TrustLevel             int
	UploadedAvatarID       string // upload placeholder hash
	Username               string // required
	Views                  *int
}

var usersTable = define("users", []string{"original_id"},
	required("original_id", numeric),
	optional("active", boolean),
	optional("admin", boolean),
	optional("approved", boolean),
	optional("approved_at", datetime),
	optional("approved_by_id", numeric),
	optional("avatar_type", integer),
	required("created_at", datetime),
	optional("date_of_birth", date),
	optional("first_seen_at", datetime),
	optional("flair_group_id", numeric),
	optional("group_locked_trust_level", integer),
	optional("ip_address", inet),
	optional("last_seen_at", datetime),
	optional("locale", text),
	optional("manual_locked_trust_level", integer),
	optional("moderator", boolean),
	optional("name", text),
	optional("original_username", text),
	optional("primary_group_id", numeric),
	optional("registration_ip_address", inet),
	optional("silenced_till", datetime),
	optional("staged", boolean),
	optional("title", text),
	required("trust_level", integer),
	optional("uploaded_avatar_id", text),
	required("username", text),
	optional("views", integer),
)

// CreateUser inserts a user.
func (w *Writer) CreateUser(u User) error {
	return w.insert(usersTable,
		idValue(u.OriginalID),
		boolPtr(u.Active),
		boolPtr(u.Admin),
		boolPtr(u.Approved),
		ts(u.ApprovedAt),
		idValue(u.ApprovedByID),
		intPtr(u.AvatarType),
		ts(u.CreatedAt),
		db.FormatDate(u.DateOfBirth),
		ts(u.FirstSeenAt),
		idValue(u.FlairGroupID),
		intPtr(u.GroupLockedTrustLevel),
		db.FormatIP(u.IPAddress),
		ts(u.LastSeenAt),
		str(u.Locale),
		intPtr(u.ManualLockedTrustLevel),
		boolPtr(u.Moderator),
		str(u.Name),
		str(u.OriginalUsername),
		idValue(u.PrimaryGroupID),
		db.FormatIP(u.RegistrationIPAddress),
		ts(u.SilencedTill),
		boolPtr(u.Staged),
		str(u.Title),
		num(u.TrustLevel),
		str(u.UploadedAvatarID),
		str(u.Username),
		intPtr(u.Views),
	)
}

// UserEmail is one address of a user. Exactly one per user should be Primary.
type UserEmail struct {
	Email     string // required
	CreatedAt time.Time
	Primary   *bool
	UserID    ID // required
}

var userEmailsTable = define("user_emails", []string{"email"},
	required("email", text),
	optional("created_at", datetime),
	optional("primary", boolean),
	required("user_id", numeric),
)

// CreateUserEmail inserts a user email.
func (w *Writer) CreateUserEmail(e UserEmail) error {
	return w.insert(userEmailsTable,
		str(e.Email),
		ts(e.CreatedAt),
		boolPtr(e.Primary),
		idValue(e.UserID),
	)
}

type UserProfile struct {
	UserID                    ID // required
	BioRaw                    string
	CardBackgroundUploadID    string
	FeaturedTopicID           ID
	Location                  string
	ProfileBackgroundUploadID string
	Views                     *int
	Website                   string
}

var userProfilesTable = define("user_profiles", []string{"user_id"},
	required("user_id", numeric),
	optional("bio_raw", text),
	optional("card_background_upload_id", text),
	optional("featured_topic_id", numeric),
	optional("location", text),
	optional("profile_background_upload_id", text),
	optional("views", integer),
	optional("website", text),
)

// CreateUserProfile inserts a user profile.
func (w *Writer) CreateUserProfile(p UserProfile) error {
	return w.insert(userProfilesTable,
		idValue(p.UserID),
		str(p.BioRaw),
		str(p.CardBackgroundUploadID),
		idValue(p.FeaturedTopicID),
		str(p.Location),
		str(p.ProfileBackgroundUploadID),
		intPtr(p.Views),
		str(p.Website),
	)
}

// UserSuspension is the active suspension of a user, if any.
type UserSuspension struct {
	UserID        ID        // required
	SuspendedAt   time.Time // required
	SuspendedTill time.Time // zero means forever
	SuspendedByID ID
	Reason        string
}

var userSuspensionsTable = define("user_suspensions", []string{"user_id", "suspended_at"},
	required("user_id", numeric),
	required("suspended_at", datetime),
	optional("suspended_till", datetime),
	optional("suspended_by_id", numeric),
	optional("reason", text),
)

// CreateUserSuspension inserts a user suspension.
func (w *Writer) CreateUserSuspension(s UserSuspension) error {
	return w.insert(userSuspensionsTable,
		idValue(s.UserID),
		ts(s.SuspendedAt),
		ts(s.SuspendedTill),
		idValue(s.SuspendedByID),
		str(s.Reason),
	)
}

// UserAssociatedAccount links a user to an external authentication provider.
// Info, Credentials and Extra are stored as JSON.
type UserAssociatedAccount struct {
	ProviderName string // required
	ProviderUID  string // required
	UserID       ID
	CreatedAt    time.Time
	LastUsed     time.Time
	Info         any
	Credentials  any
	Extra        any
}

var userAssociatedAccountsTable = define("user_associated_accounts", []string{"provider_name", "provider_uid"},
	required("provider_name", text),
	required("provider_uid", text),
	optional("user_id", numeric),
	optional("created_at", datetime),
	optional("last_used", datetime),
	optional("info", jsonText),
	optional("credentials", jsonText),
	optional("extra", jsonText),
)

// CreateUserAssociatedAccount inserts a user associated account.
func (w *Writer) CreateUserAssociatedAccount(a UserAssociatedAccount) error {
	t := userAssociatedAccountsTable
	info, err := toJSON(t, "info", a.Info)
	if err != nil {
		return err
	}
	credentials, err := toJSON(t, "credentials", a.Credentials)
	if err != nil {
		return err
	}
	extra, err := toJSON(t, "extra", a.Extra)
	if err != nil {
		return err
	}

	return w.insert(t,
		str(a.ProviderName),
		str(a.ProviderUID),
		idValue(a.UserID),
		ts(a.CreatedAt),
		ts(a.LastUsed),
		info,
		credentials,
		extra,
	)
}

// MutedUser records that UserID muted MutedUserID.
type MutedUser struct {
	UserID      ID // required
	MutedUserID ID // required
	CreatedAt   time.Time
}

var mutedUsersTable = define("muted_users", []string{"user_id", "muted_user_id"},
	required("user_id", numeric),
	required("muted_user_id", numeric),
	optional("created_at", datetime),
)

// CreateMutedUser records one user muting another.
func (w *Writer) CreateMutedUser(m MutedUser) error {
	return w.insert(mutedUsersTable,
		idValue(m.UserID),
		idValue(m.MutedUserID),
		ts(m.CreatedAt),
	)
}
