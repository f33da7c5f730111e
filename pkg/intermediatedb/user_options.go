package intermediatedb

import (
	"time"
)

// UserOption holds a user's preferences. Every field except UserID is
// optional; NULL columns take the forum's site defaults at load time.
type UserOption struct {
	UserID                            ID // required
	AllowPrivateMessages              *bool
	AutoTrackTopicsAfterMsecs         *int
	AutomaticallyUnpinTopics          *bool
	BookmarkAutoDeletePreference      *int
	ChatEmailFrequency                *int
	ChatEnabled                       *bool
	ChatHeaderIndicatorPreference     *int
	ChatQuickReactionType             *int
	ChatQuickReactionsCustom          string
	ChatSendShortcut                  *int
	ChatSeparateSidebarMode           *int
	ChatSound                         string
	ColorSchemeID                     ID
	CompositionMode                   *int
	DarkSchemeID                      ID
	DefaultCalendar                   *int
	DigestAfterMinutes                *int
	DismissedChannelRetentionReminder *bool
	DismissedDmRetentionReminder      *bool
	DynamicFavicon                    *bool
	EmailDigests                      *bool
	EmailInReplyTo                    *bool
	EmailLevel                        *int
	EmailMessagesLevel                *int
	EmailPreviousReplies              *int
	EnableAllowedPmUsers              *bool
	EnableDefer                       *bool
	EnableMarkdownMonospaceFont       *bool
	EnableQuoting                     *bool
	EnableSmartLists                  *bool
	ExternalLinksInNewTab             *bool
	HidePresence                      *bool
	HideProfile                       *bool
	HomepageID                        *int
	IgnoreChannelWideMention          *bool
	IncludeTl0InDigests               *bool
	InterfaceColorMode                *int
	LastRedirectedToTopAt             time.Time
	LikeNotificationFrequency         *int
	MailingListMode                   *bool
	MailingListModeFrequency          *int
	NewTopicDurationMinutes           *int
	NotificationLevelWhenReplying     *int
	NotifyOnLinkedPosts               *bool
	OldestSearchLogDate               time.Time
	OnlyChatPushNotifications         *bool
	SeenPopups                        []string
	ShowThreadTitlePrompts            *bool
	SidebarLinkToFilteredList         *bool
	SidebarShowCountOfNewItems        *bool
	SkipNewUserTips                   *bool
	TextSizeKey                       *int
	TextSizeSeq                       *int
	ThemeIDs                          []int
	ThemeKeySeq                       *int
	Timezone                          string
	TitleCountModeKey                 *int
	TopicsUnreadWhenClosed            *bool
	WatchedPrecedenceOverMuted        *bool
}

var userOptionsTable = define("user_options", []string{"user_id"},
	required("user_id", numeric),
	optional("allow_private_messages", boolean),
	optional("auto_track_topics_after_msecs", integer),
	optional("automatically_unpin_topics", boolean),
	optional("bookmark_auto_delete_preference", integer),
	optional("chat_email_frequency", integer),
	optional("chat_enabled", boolean),
	optional("chat_header_indicator_preference", integer),
	optional("chat_quick_reaction_type", integer),
	optional("chat_quick_reactions_custom", text),
	optional("chat_send_shortcut", integer),
	optional("chat_separate_sidebar_mode", integer),
	optional("chat_sound", text),
	optional("color_scheme_id", numeric),
	optional("composition_mode", integer),
	optional("dark_scheme_id", numeric),
	optional("default_calendar", integer),
	optional("digest_after_minutes", integer),
	optional("dismissed_channel_retention_reminder", boolean),
	optional("dismissed_dm_retention_reminder", boolean),
	optional("dynamic_favicon", boolean),
	optional("email_digests", boolean),
	optional("email_in_reply_to", boolean),
	optional("email_level", integer),
	optional("email_messages_level", integer),
	optional("email_previous_replies", integer),
	optional("enable_allowed_pm_users", boolean),
	optional("enable_defer", boolean),
	optional("enable_markdown_monospace_font", boolean),
	optional("enable_quoting", boolean),
	optional("enable_smart_lists", boolean),
	optional("external_links_in_new_tab", boolean),
	optional("hide_presence", boolean),
	optional("hide_profile", boolean),
	optional("homepage_id", integer),
	optional("ignore_channel_wide_mention", boolean),
	optional("include_tl0_in_digests", boolean),
	optional("interface_color_mode", integer),
	optional("last_redirected_to_top_at", datetime),
	optional("like_notification_frequency", integer),
	optional("mailing_list_mode", boolean),
	optional("mailing_list_mode_frequency", integer),
	optional("new_topic_duration_minutes", integer),
	optional("notification_level_when_replying", integer),
	optional("notify_on_linked_posts", boolean),
	optional("oldest_search_log_date", datetime),
	optional("only_chat_push_notifications", boolean),
	optional("seen_popups", jsonText),
	optional("show_thread_title_prompts", boolean),
	optional("sidebar_link_to_filtered_list", boolean),
	optional("sidebar_show_count_of_new_items", boolean),
	optional("skip_new_user_tips", boolean),
	optional("text_size_key", integer),
	optional("text_size_seq", integer),
	optional("theme_ids", jsonText),
	optional("theme_key_seq", integer),
	optional("timezone", text),
	optional("title_count_mode_key", integer),
	optional("topics_unread_when_closed", boolean),
	optional("watched_precedence_over_muted", boolean),
)

// CreateUserOption inserts the preferences of one user.
func (w *Writer) CreateUserOption(o UserOption) error {
	t := userOptionsTable
	seenPopups, err := toJSON(t, "seen_popups", o.SeenPopups)
	if err != nil {
		return err
	}
	themeIDs, err := toJSON(t, "theme_ids", o.ThemeIDs)
	if err != nil {
		return err
	}

	return w.insert(t,
		idValue(o.UserID),
		boolPtr(o.AllowPrivateMessages),
		intPtr(o.AutoTrackTopicsAfterMsecs),
		boolPtr(o.AutomaticallyUnpinTopics),
		intPtr(o.BookmarkAutoDeletePreference),
		intPtr(o.ChatEmailFrequency),
		boolPtr(o.ChatEnabled),
		intPtr(o.ChatHeaderIndicatorPreference),
		intPtr(o.ChatQuickReactionType),
		str(o.ChatQuickReactionsCustom),
		intPtr(o.ChatSendShortcut),
		intPtr(o.ChatSeparateSidebarMode),
		str(o.ChatSound),
		idValue(o.ColorSchemeID),
		intPtr(o.CompositionMode),
		idValue(o.DarkSchemeID),
		intPtr(o.DefaultCalendar),
		intPtr(o.DigestAfterMinutes),
		boolPtr(o.DismissedChannelRetentionReminder),
		boolPtr(o.DismissedDmRetentionReminder),
		boolPtr(o.DynamicFavicon),
		boolPtr(o.EmailDigests),
		boolPtr(o.EmailInReplyTo),
		intPtr(o.EmailLevel),
		intPtr(o.EmailMessagesLevel),
		intPtr(o.EmailPreviousReplies),
		boolPtr(o.EnableAllowedPmUsers),
		boolPtr(o.EnableDefer),
		boolPtr(o.EnableMarkdownMonospaceFont),
		boolPtr(o.EnableQuoting),
		boolPtr(o.EnableSmartLists),
		boolPtr(o.ExternalLinksInNewTab),
		boolPtr(o.HidePresence),
		boolPtr(o.HideProfile),
		intPtr(o.HomepageID),
		boolPtr(o.IgnoreChannelWideMention),
		boolPtr(o.IncludeTl0InDigests),
		intPtr(o.InterfaceColorMode),
		ts(o.LastRedirectedToTopAt),
		intPtr(o.LikeNotificationFrequency),
		boolPtr(o.MailingListMode),
		intPtr(o.MailingListModeFrequency),
		intPtr(o.NewTopicDurationMinutes),
		intPtr(o.NotificationLevelWhenReplying),
		boolPtr(o.NotifyOnLinkedPosts),
		ts(o.OldestSearchLogDate),
		boolPtr(o.OnlyChatPushNotifications),
		seenPopups,
		boolPtr(o.ShowThreadTitlePrompts),
		boolPtr(o.SidebarLinkToFilteredList),
		boolPtr(o.SidebarShowCountOfNewItems),
		boolPtr(o.SkipNewUserTips),
		intPtr(o.TextSizeKey),
		intPtr(o.TextSizeSeq),
		themeIDs,
		intPtr(o.ThemeKeySeq),
		str(o.Timezone),
		intPtr(o.TitleCountModeKey),
		boolPtr(o.TopicsUnreadWhenClosed),
		boolPtr(o.WatchedPrecedenceOverMuted),
	)
}
