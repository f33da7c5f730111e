package intermediatedb

import (
	"time"
)

// Chatable types of a chat channel.
const (
	ChatableCategory      = "Category"
	ChatableGroup         = "Group"
	ChatableDirectMessage = "DirectMessage"
)

// ChatChannel is a category, group or direct-message channel. The
// chatable pair points at the owning row.
type ChatChannel struct {
	OriginalID               ID     // required
	ChatableID               ID     // required
	ChatableType             string // required: one of the Chatable constants
	AllowChannelWideMentions *bool
	AutoJoinUsers            *bool
	CreatedAt                time.Time
	Description              string
	Emoji                    string
	FeaturedInCategoryID     ID
	IconUploadID             string
	Name                     string
	Slug                     string
	Status                   *int
	ThreadingEnabled         *bool
	Type                     string
}

var chatChannelsTable = define("chat_channels", []string{"original_id"},
	required("original_id", numeric),
	required("chatable_id", numeric),
	required("chatable_type", text),
	optional("allow_channel_wide_mentions", boolean),
	optional("auto_join_users", boolean),
	optional("created_at", datetime),
	optional("description", text),
	optional("emoji", text),
	optional("featured_in_category_id", numeric),
	optional("icon_upload_id", text),
	optional("name", text),
	optional("slug", text),
	optional("status", integer),
	optional("threading_enabled", boolean),
	optional("type", text),
)

// CreateChatChannel inserts a chat channel.
func (w *Writer) CreateChatChannel(c ChatChannel) error {
	return w.insert(chatChannelsTable,
		idValue(c.OriginalID),
		idValue(c.ChatableID),
		str(c.ChatableType),
		boolPtr(c.AllowChannelWideMentions),
		boolPtr(c.AutoJoinUsers),
		ts(c.CreatedAt),
		str(c.Description),
		str(c.Emoji),
		idValue(c.FeaturedInCategoryID),
		str(c.IconUploadID),
		str(c.Name),
		str(c.Slug),
		intPtr(c.Status),
		boolPtr(c.ThreadingEnabled),
		str(c.Type),
	)
}

// ChatThread groups replies to OriginalMessageID inside a channel.
type ChatThread struct {
	OriginalID            ID // required
	ChannelID             ID // required
	OriginalMessageID     ID // required
	OriginalMessageUserID ID // required
	CreatedAt             time.Time
	Status                *int
	Title                 string
}

var chatThreadsTable = define("chat_threads", []string{"original_id"},
	required("original_id", numeric),
	required("channel_id", numeric),
	required("original_message_id", numeric),
	required("original_message_user_id", numeric),
	optional("created_at", datetime),
	optional("status", integer),
	optional("title", text),
)

// CreateChatThread inserts a chat thread.
func (w *Writer) CreateChatThread(t ChatThread) error {
	return w.insert(chatThreadsTable,
		idValue(t.OriginalID),
		idValue(t.ChannelID),
		idValue(t.OriginalMessageID),
		idValue(t.OriginalMessageUserID),
		ts(t.CreatedAt),
		intPtr(t.Status),
		str(t.Title),
	)
}

// ChatMessage belongs to a channel and optionally to a thread.
// InReplyToID references another message; Blocks is stored as JSON.
type ChatMessage struct {
	OriginalID   ID        // required
	ChannelID    ID        // required
	UserID       ID        // required
	Message      string    // required
	CreatedAt    time.Time // required
	Blocks       any
	DeletedAt    time.Time
	DeletedByID  ID
	Excerpt      string
	InReplyToID  ID
	LastEditorID ID
	Streaming    *bool
	ThreadID     ID
	UpdatedAt    time.Time
}

var chatMessagesTable = define("chat_messages", []string{"original_id"},
	required("original_id", numeric),
	required("channel_id", numeric),
	required("user_id", numeric),
	required("message", text),
	required("created_at", datetime),
	optional("blocks", jsonText),
	optional("deleted_at", datetime),
	optional("deleted_by_id", numeric),
	optional("excerpt", text),
	optional("in_reply_to_id", numeric),
	optional("last_editor_id", numeric),
	optional("streaming", boolean),
	optional("thread_id", numeric),
	optional("updated_at", datetime),
)

// CreateChatMessage inserts a chat message.
func (w *Writer) CreateChatMessage(m ChatMessage) error {
	blocks, err := toJSON(chatMessagesTable, "blocks", m.Blocks)
	if err != nil {
		return err
	}

	return w.insert(chatMessagesTable,
		idValue(m.OriginalID),
		idValue(m.ChannelID),
		idValue(m.UserID),
		str(m.Message),
		ts(m.CreatedAt),
		blocks,
		ts(m.DeletedAt),
		idValue(m.DeletedByID),
		str(m.Excerpt),
		idValue(m.InReplyToID),
		idValue(m.LastEditorID),
		boolPtr(m.Streaming),
		idValue(m.ThreadID),
		ts(m.UpdatedAt),
	)
}

// ChatMention types.
const (
	ChatMentionUser  = "Chat::UserMention"
	ChatMentionGroup = "Chat::GroupMention"
	ChatMentionHere  = "Chat::HereMention"
	ChatMentionAll   = "Chat::AllMention"
)

// ChatMention records a mention inside a message. TargetID is the user or
// group mentioned and is empty for @here and @all.
type ChatMention struct {
	MessageID ID     // required
	Type      string // required: one of the ChatMention constants
	TargetID  ID
	CreatedAt time.Time
}

var chatMentionsTable = define("chat_mentions", nil,
	required("message_id", numeric),
	required("type", text),
	optional("target_id", numeric),
	optional("created_at", datetime),
)

// CreateChatMention inserts a chat mention.
func (w *Writer) CreateChatMention(m ChatMention) error {
	return w.insert(chatMentionsTable,
		idValue(m.MessageID),
		str(m.Type),
		idValue(m.TargetID),
		ts(m.CreatedAt),
	)
}

type ChatMessageReaction struct {
	MessageID ID     // required
	UserID    ID     // required
	Emoji     string // required
	CreatedAt time.Time
}

var chatMessageReactionsTable = define("chat_message_reactions", []string{"message_id", "user_id", "emoji"},
	required("message_id", numeric),
	required("user_id", numeric),
	required("emoji", text),
	optional("created_at", datetime),
)

// CreateChatMessageReaction inserts a chat message reaction.
func (w *Writer) CreateChatMessageReaction(r ChatMessageReaction) error {
	return w.insert(chatMessageReactionsTable,
		idValue(r.MessageID),
		idValue(r.UserID),
		str(r.Emoji),
		ts(r.CreatedAt),
	)
}

// UserChatChannelMembership is a user's membership and read state in a channel.
type UserChatChannelMembership struct {
	UserID            ID // required
	ChatChannelID     ID // required
	CreatedAt         time.Time
	Following         *bool
	JoinMode          *int
	LastReadMessageID ID
	LastViewedAt      time.Time
	Muted             *bool
	NotificationLevel *int
}

var userChatChannelMembershipsTable = define("user_chat_channel_memberships", []string{"user_id", "chat_channel_id"},
	required("user_id", numeric),
	required("chat_channel_id", numeric),
	optional("created_at", datetime),
	optional("following", boolean),
	optional("join_mode", integer),
	optional("last_read_message_id", numeric),
	optional("last_viewed_at", datetime),
	optional("muted", boolean),
	optional("notification_level", integer),
)

// CreateUserChatChannelMembership inserts a user chat channel membership.
func (w *Writer) CreateUserChatChannelMembership(m UserChatChannelMembership) error {
	return w.insert(userChatChannelMembershipsTable,
		idValue(m.UserID),
		idValue(m.ChatChannelID),
		ts(m.CreatedAt),
		boolPtr(m.Following),
		intPtr(m.JoinMode),
		idValue(m.LastReadMessageID),
		ts(m.LastViewedAt),
		boolPtr(m.Muted),
		intPtr(m.NotificationLevel),
	)
}

type UserChatThreadMembership struct {
	UserID                ID // required
	ThreadID              ID // required
	CreatedAt             time.Time
	LastReadMessageID     ID
	NotificationLevel     *int
	ThreadTitlePromptSeen *bool
}

var userChatThreadMembershipsTable = define("user_chat_thread_memberships", []string{"user_id", "thread_id"},
	required("user_id", numeric),
	required("thread_id", numeric),
	optional("created_at", datetime),
	optional("last_read_message_id", numeric),
	optional("notification_level", integer),
	optional("thread_title_prompt_seen", boolean),
)

// CreateUserChatThreadMembership inserts a user chat thread membership.
func (w *Writer) CreateUserChatThreadMembership(m UserChatThreadMembership) error {
	return w.insert(userChatThreadMembershipsTable,
		idValue(m.UserID),
		idValue(m.ThreadID),
		ts(m.CreatedAt),
		idValue(m.LastReadMessageID),
		intPtr(m.NotificationLevel),
		boolPtr(m.ThreadTitlePromptSeen),
	)
}
