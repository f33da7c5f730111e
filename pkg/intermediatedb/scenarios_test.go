package intermediatedb

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/dtnitsch/intermediate-db/pkg/id"
)

func TestCreateUploadForFile_Deduplicates(t *testing.T) {
	database, conn, w := setupTestWriter(t)

	tests := []struct {
		name     string
		path     string
		filename string
	}{
		{name: "explicit filename", path: "/srv/uploads/a.png", filename: "a.png"},
		{name: "derived filename", path: "/srv/uploads/b.jpg"},
		{name: "different filename same path", path: "/srv/uploads/a.png", filename: "renamed.png"},
	}

	hashes := map[string]string{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, err := w.CreateUploadForFile(tt.path, Upload{Filename: tt.filename, Type: "attachment"})
			if err != nil {
				t.Fatalf("first CreateUploadForFile() error = %v", err)
			}
			second, err := w.CreateUploadForFile(tt.path, Upload{Filename: tt.filename, Type: "attachment"})
			if err != nil {
				t.Fatalf("second CreateUploadForFile() error = %v", err)
			}
			if first != second {
				t.Errorf("hashes differ: %q vs %q", first, second)
			}
			if len(first) != id.Len {
				t.Errorf("hash length = %d, want %d", len(first), id.Len)
			}
			if prev, ok := hashes[tt.path]; ok && prev != first {
				t.Errorf("same path hashed to %q and %q", prev, first)
			}
			hashes[tt.path] = first
		})
	}
	flush(t, conn)

	count, err := database.CountRows("uploads")
	if err != nil {
		t.Fatalf("CountRows() error = %v", err)
	}
	if count != 2 {
		t.Errorf("uploads rows = %d, want 2", count)
	}

	var filename string
	if err := database.QueryRow("SELECT filename FROM uploads WHERE path = ?", "/srv/uploads/b.jpg").Scan(&filename); err != nil {
		t.Fatalf("query filename: %v", err)
	}
	if filename != "b.jpg" {
		t.Errorf("filename = %q, want b.jpg", filename)
	}
}

func TestCreateUpload_URLAndData(t *testing.T) {
	database, conn, w := setupTestWriter(t)

	urlHash, err := w.CreateUploadForURL("https://example.com/img/logo.svg", Upload{})
	if err != nil {
		t.Fatalf("CreateUploadForURL() error = %v", err)
	}
	if urlHash != id.Hash("https://example.com/img/logo.svg") {
		t.Errorf("URL hash = %q, want hash of the URL", urlHash)
	}

	data := []byte("\x89PNG fake image")
	dataHash, err := w.CreateUploadForData(data, Upload{Filename: "inline.png"})
	if err != nil {
		t.Fatalf("CreateUploadForData() error = %v", err)
	}
	again, err := w.CreateUploadForData(append([]byte(nil), data...), Upload{Filename: "copy.png"})
	if err != nil {
		t.Fatalf("second CreateUploadForData() error = %v", err)
	}
	if again != dataHash {
		t.Errorf("identical data hashed to %q and %q", dataHash, again)
	}

	if _, err := w.CreateUploadForData([]byte("x"), Upload{}); !errors.Is(err, ErrMissingField) {
		t.Errorf("data upload without filename error = %v, want ErrMissingField", err)
	}
	flush(t, conn)

	var filename string
	var stored []byte
	err = database.QueryRow("SELECT filename, data FROM uploads WHERE placeholder_hash = ?", dataHash).Scan(&filename, &stored)
	if err != nil {
		t.Fatalf("query data upload: %v", err)
	}
	if filename != "inline.png" || string(stored) != string(data) {
		t.Errorf("stored (%q, %q), want first upload kept", filename, stored)
	}

	err = database.QueryRow("SELECT filename FROM uploads WHERE placeholder_hash = ?", urlHash).Scan(&filename)
	if err != nil {
		t.Fatalf("query URL upload: %v", err)
	}
	if filename != "logo.svg" {
		t.Errorf("URL upload filename = %q, want logo.svg", filename)
	}
}

func TestCreatePermalinkPlaceholder_ForwardReference(t *testing.T) {
	database, conn, w := setupTestWriter(t)

	// No topic exists yet.
	first, err := w.CreatePermalinkPlaceholder(PermalinkPlaceholder{TargetType: "Topic", TargetID: 42})
	if err != nil {
		t.Fatalf("CreatePermalinkPlaceholder() error = %v", err)
	}
	second, err := w.CreatePermalinkPlaceholder(PermalinkPlaceholder{TargetType: "Topic", TargetID: int64(42)})
	if err != nil {
		t.Fatalf("second CreatePermalinkPlaceholder() error = %v", err)
	}
	if first != second {
		t.Errorf("keys differ: %q vs %q", first, second)
	}
	if want := id.Hash("Topic-42"); first != want {
		t.Errorf("key = %q, want %q", first, want)
	}
	if got := PermalinkPlaceholderKey("Topic", 42); got != first {
		t.Errorf("PermalinkPlaceholderKey() = %q, want %q", got, first)
	}
	if other := PermalinkPlaceholderKey("Post", 42); other == first {
		t.Error("different target types share a key")
	}

	// The key can be embedded in a permalink before the topic exists.
	err = w.CreatePermalink(Permalink{
		URL:                     "old/thread-42.html",
		ExternalURL:             "/t/" + first,
		ExternalURLPlaceholders: []string{first},
	})
	if err != nil {
		t.Fatalf("CreatePermalink() error = %v", err)
	}
	flush(t, conn)

	count, _ := database.CountRows("permalink_placeholders")
	if count != 1 {
		t.Errorf("placeholder rows = %d, want 1", count)
	}

	var raw string
	if err := database.QueryRow("SELECT external_url_placeholders FROM permalinks").Scan(&raw); err != nil {
		t.Fatalf("query placeholders: %v", err)
	}
	var keys []string
	if err := json.Unmarshal([]byte(raw), &keys); err != nil || len(keys) != 1 || keys[0] != first {
		t.Errorf("external_url_placeholders = %s (%v), want [%q]", raw, err, first)
	}
}

func TestTagGroupMembership_JoinsTag(t *testing.T) {
	database, conn, w := setupTestWriter(t)

	if err := w.CreateTag(Tag{OriginalID: "t1", CreatedAt: testTime, Name: "ruby"}); err != nil {
		t.Fatalf("CreateTag() error = %v", err)
	}
	if err := w.CreateTagGroupMembership(TagGroupMembership{TagGroupID: 5, TagID: "t1", CreatedAt: testTime}); err != nil {
		t.Fatalf("CreateTagGroupMembership() error = %v", err)
	}
	flush(t, conn)

	var name, createdAt string
	err := database.QueryRow(`
		SELECT t.name, CAST(m.created_at AS TEXT)
		FROM tag_group_memberships m
		JOIN tags t ON t.original_id = m.tag_id
		WHERE m.tag_group_id = 5
	`).Scan(&name, &createdAt)
	if err != nil {
		t.Fatalf("join query: %v", err)
	}
	if name != "ruby" {
		t.Errorf("joined tag = %q, want ruby", name)
	}
	if createdAt != "2024-01-02T03:04:05Z" {
		t.Errorf("created_at = %q, want canonical UTC text", createdAt)
	}
}

func TestUserOption_StoresCanonicalBoolean(t *testing.T) {
	database, conn, w := setupTestWriter(t)

	user := User{OriginalID: "u-1", Username: "alice", CreatedAt: testTime, TrustLevel: 1}
	if err := w.CreateUser(user); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	err := w.CreateUserOption(UserOption{
		UserID:          user.OriginalID,
		MailingListMode: Bool(true),
		EmailDigests:    Bool(false),
		SeenPopups:      []string{"welcome"},
	})
	if err != nil {
		t.Fatalf("CreateUserOption() error = %v", err)
	}
	flush(t, conn)

	// quote() renders the stored value as an SQL literal, independent of
	// how the driver maps declared column types.
	tests := []struct {
		column   string
		want     string
		wantType string
	}{
		{column: "mailing_list_mode", want: "1", wantType: "integer"},
		{column: "email_digests", want: "0", wantType: "integer"},
		{column: "allow_private_messages", want: "NULL", wantType: "null"},
		{column: "seen_popups", want: `'["welcome"]'`, wantType: "text"},
	}

	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			var got, typ string
			query := fmt.Sprintf(`SELECT quote(%[1]s), typeof(%[1]s) FROM user_options WHERE user_id = ?`, quote(tt.column))
			if err := database.QueryRow(query, "u-1").Scan(&got, &typ); err != nil {
				t.Fatalf("query %s: %v", tt.column, err)
			}
			if typ != tt.wantType {
				t.Errorf("typeof(%s) = %s, want %s", tt.column, typ, tt.wantType)
			}
			if got != tt.want {
				t.Errorf("%s = %s, want %s", tt.column, got, tt.want)
			}
		})
	}
}

func TestUser_NormalizesValues(t *testing.T) {
	database, conn, w := setupTestWriter(t)

	err := w.CreateUser(User{
		OriginalID:            7,
		Username:              "bob",
		CreatedAt:             testTime,
		DateOfBirth:           testTime,
		IPAddress:             "::ffff:10.0.0.1",
		RegistrationIPAddress: "not-an-ip",
		Admin:                 Bool(true),
	})
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	flush(t, conn)

	var dob, ip string
	var regIP any
	var admin int64
	err = database.QueryRow(`SELECT CAST(date_of_birth AS TEXT), ip_address, registration_ip_address, CAST(admin AS INTEGER) FROM users WHERE original_id = 7`).
		Scan(&dob, &ip, &regIP, &admin)
	if err != nil {
		t.Fatalf("query user: %v", err)
	}
	if dob != "2024-01-02" {
		t.Errorf("date_of_birth = %q", dob)
	}
	if ip != "10.0.0.1" {
		t.Errorf("ip_address = %q", ip)
	}
	if regIP != nil {
		t.Errorf("registration_ip_address = %v, want NULL", regIP)
	}
	if admin != 1 {
		t.Errorf("admin = %d, want 1", admin)
	}
}

func TestCreateLogEntry_StoresErrorAndDetails(t *testing.T) {
	database, conn, w := setupTestWriter(t)

	cause := fmt.Errorf("import post 7: %w", io.ErrUnexpectedEOF)
	err := w.CreateLogEntry(LogEntry{
		Type:      LogTypeError,
		Message:   "Failed to import post",
		Exception: cause,
		Details:   map[string]string{"foo": "bar"},
	})
	if err != nil {
		t.Fatalf("CreateLogEntry() error = %v", err)
	}
	flush(t, conn)

	records, err := database.ListLogEntries(LogTypeError, 0)
	if err != nil {
		t.Fatalf("ListLogEntries() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d entries, want 1", len(records))
	}
	r := records[0]

	if !r.Exception.Valid || r.Exception.String == "" {
		t.Fatal("exception not stored")
	}
	for _, want := range []string{"*fmt.wrapError", "import post 7: unexpected EOF", "caused by *errors.errorString: unexpected EOF"} {
		if !strings.Contains(r.Exception.String, want) {
			t.Errorf("exception %q missing %q", r.Exception.String, want)
		}
	}

	var details map[string]string
	if err := json.Unmarshal([]byte(r.Details.String), &details); err != nil {
		t.Fatalf("details %q not JSON: %v", r.Details.String, err)
	}
	if len(details) != 1 || details["foo"] != "bar" {
		t.Errorf("details = %v, want {foo: bar}", details)
	}
	if r.CreatedAt == "" {
		t.Error("created_at not defaulted")
	}
}

func TestCreateLogEntry_Validation(t *testing.T) {
	tests := []struct {
		name    string
		entry   LogEntry
		wantErr error
	}{
		{name: "unknown type", entry: LogEntry{Type: "debug", Message: "x"}, wantErr: ErrInvalidLogType},
		{name: "missing type", entry: LogEntry{Message: "x"}, wantErr: ErrMissingField},
		{name: "missing message", entry: LogEntry{Type: LogTypeWarning}, wantErr: ErrMissingField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spy := &spyInserter{}
			err := New(spy).CreateLogEntry(tt.entry)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateLogEntry() error = %v, want %v", err, tt.wantErr)
			}
			if len(spy.calls) != 0 {
				t.Errorf("Insert called %d times, want 0", len(spy.calls))
			}
		})
	}
}

func TestLogHelpers(t *testing.T) {
	spy := &spyInserter{}
	w := New(spy)

	if err := w.LogInfo("started", map[string]int{"inputs": 3}); err != nil {
		t.Fatalf("LogInfo() error = %v", err)
	}
	if err := w.LogWarning("skipped", errors.New("empty page"), nil); err != nil {
		t.Fatalf("LogWarning() error = %v", err)
	}
	if err := w.LogError("failed", nil, nil); err != nil {
		t.Fatalf("LogError() error = %v", err)
	}

	wantTypes := []string{LogTypeInfo, LogTypeWarning, LogTypeError}
	if len(spy.calls) != len(wantTypes) {
		t.Fatalf("Insert called %d times, want %d", len(spy.calls), len(wantTypes))
	}
	for i, call := range spy.calls {
		if call.args[1] != wantTypes[i] {
			t.Errorf("call %d type = %v, want %s", i, call.args[1], wantTypes[i])
		}
	}
	if spy.calls[1].args[3] != "*errors.errorString: empty page" {
		t.Errorf("exception = %v", spy.calls[1].args[3])
	}
	if spy.calls[2].args[3] != nil {
		t.Errorf("nil exception stored as %v", spy.calls[2].args[3])
	}
}

func TestChatMessage_BlocksJSON(t *testing.T) {
	database, conn, w := setupTestWriter(t)

	err := w.CreateChatMessage(ChatMessage{
		OriginalID:  2,
		ChannelID:   1,
		UserID:      1,
		Message:     "reply",
		CreatedAt:   testTime,
		InReplyToID: 1,
		Blocks:      []map[string]any{{"type": "actions", "elements": []string{"button"}}},
	})
	if err != nil {
		t.Fatalf("CreateChatMessage() error = %v", err)
	}
	flush(t, conn)

	var blocks string
	var reply int64
	if err := database.QueryRow("SELECT blocks, in_reply_to_id FROM chat_messages").Scan(&blocks, &reply); err != nil {
		t.Fatalf("query message: %v", err)
	}
	var decoded []map[string]any
	if err := json.Unmarshal([]byte(blocks), &decoded); err != nil || len(decoded) != 1 || decoded[0]["type"] != "actions" {
		t.Errorf("blocks = %s (%v)", blocks, err)
	}
	if reply != 1 {
		t.Errorf("in_reply_to_id = %d, want 1", reply)
	}
}
