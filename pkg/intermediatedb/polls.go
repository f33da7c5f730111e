package intermediatedb

import (
	"time"
)

// Poll is attached to a post. Name is unique per post ("poll" by default).
type Poll struct {
	OriginalID      ID     // required
	PostID          ID     // required
	Name            string // required
	AnonymousVoters *int
	ChartType       *int
	CloseAt         time.Time
	CreatedAt       time.Time
	Groups          string
	Max             *int
	Min             *int
	Results         *int
	Status          *int
	Step            *int
	Title           string
	Type            *int
	Visibility      *int
}

var pollsTable = define("polls", []string{"original_id"},
	required("original_id", numeric),
	required("post_id", numeric),
	required("name", text),
	optional("anonymous_voters", integer),
	optional("chart_type", integer),
	optional("close_at", datetime),
	optional("created_at", datetime),
	optional("groups", text),
	optional("max", integer),
	optional("min", integer),
	optional("results", integer),
	optional("status", integer),
	optional("step", integer),
	optional("title", text),
	optional("type", integer),
	optional("visibility", integer),
)

// CreatePoll inserts a poll.
func (w *Writer) CreatePoll(p Poll) error {
	return w.insert(pollsTable,
		idValue(p.OriginalID),
		idValue(p.PostID),
		str(p.Name),
		intPtr(p.AnonymousVoters),
		intPtr(p.ChartType),
		ts(p.CloseAt),
		ts(p.CreatedAt),
		str(p.Groups),
		intPtr(p.Max),
		intPtr(p.Min),
		intPtr(p.Results),
		intPtr(p.Status),
		intPtr(p.Step),
		str(p.Title),
		intPtr(p.Type),
		intPtr(p.Visibility),
	)
}

// PollOption is one choice of a poll. Position orders the options.
type PollOption struct {
	OriginalID     ID     // required
	PollID         ID     // required
	HTML           string // required
	AnonymousVotes *int
	CreatedAt      time.Time
	Position       *int
}

var pollOptionsTable = define("poll_options", []string{"original_id"},
	required("original_id", numeric),
	required("poll_id", numeric),
	required("html", text),
	optional("anonymous_votes", integer),
	optional("created_at", datetime),
	optional("position", integer),
)

// CreatePollOption inserts a poll option.
func (w *Writer) CreatePollOption(o PollOption) error {
	return w.insert(pollOptionsTable,
		idValue(o.OriginalID),
		idValue(o.PollID),
		str(o.HTML),
		intPtr(o.AnonymousVotes),
		ts(o.CreatedAt),
		intPtr(o.Position),
	)
}

// PollVote is a user's choice. Rank orders choices of ranked-choice polls.
type PollVote struct {
	PollID       ID // required
	PollOptionID ID // required
	UserID       ID // required
	CreatedAt    time.Time
	Rank         *int
}

var pollVotesTable = define("poll_votes", []string{"poll_option_id", "user_id"},
	required("poll_id", numeric),
	required("poll_option_id", numeric),
	required("user_id", numeric),
	optional("created_at", datetime),
	optional("rank", integer),
)

// CreatePollVote inserts a poll vote.
func (w *Writer) CreatePollVote(v PollVote) error {
	return w.insert(pollVotesTable,
		idValue(v.PollID),
		idValue(v.PollOptionID),
		idValue(v.UserID),
		ts(v.CreatedAt),
		intPtr(v.Rank),
	)
}
