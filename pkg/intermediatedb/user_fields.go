package intermediatedb

import (
	"time"
)

// UserCustomField is a free-form key/value attached to a user.
type UserCustomField struct {
	UserID    ID     // required
	Name      string // required
	Value     string
	CreatedAt time.Time
}

var userCustomFieldsTable = define("user_custom_fields", nil,
	required("user_id", numeric),
	required("name", text),
	optional("value", text),
	optional("created_at", datetime),
)

// CreateUserCustomField inserts a user custom field.
func (w *Writer) CreateUserCustomField(f UserCustomField) error {
	return w.insert(userCustomFieldsTable,
		idValue(f.UserID),
		str(f.Name),
		str(f.Value),
		ts(f.CreatedAt),
	)
}

// UserField is the definition of a profile field shown to users.
// Options lists the choices of dropdown and multiselect fields.
type UserField struct {
	OriginalID     ID // required
	CreatedAt      time.Time
	Description    string // required
	Editable       *bool
	ExternalName   string
	ExternalType   string
	FieldType      string // required: text, confirm, dropdown, multiselect
	Name           string // required
	Options        []string
	Position       *int
	Requirement    *int
	Searchable     *bool
	ShowOnProfile  *bool
	ShowOnUserCard *bool
}

var userFieldsTable = define("user_fields", []string{"original_id"},
	required("original_id", numeric),
	optional("created_at", datetime),
	required("description", text),
	optional("editable", boolean),
	optional("external_name", text),
	optional("external_type", text),
	required("field_type", text),
	required("name", text),
	optional("options", jsonText),
	optional("position", integer),
	optional("requirement", integer),
	optional("searchable", boolean),
	optional("show_on_profile", boolean),
	optional("show_on_user_card", boolean),
)

// CreateUserField inserts a user field.
func (w *Writer) CreateUserField(f UserField) error {
	options, err := toJSON(userFieldsTable, "options", f.Options)
	if err != nil {
		return err
	}

	return w.insert(userFieldsTable,
		idValue(f.OriginalID),
		ts(f.CreatedAt),
		str(f.Description),
		boolPtr(f.Editable),
		str(f.ExternalName),
		str(f.ExternalType),
		str(f.FieldType),
		str(f.Name),
		options,
		intPtr(f.Position),
		intPtr(f.Requirement),
		boolPtr(f.Searchable),
		boolPtr(f.ShowOnProfile),
		boolPtr(f.ShowOnUserCard),
	)
}

// UserFieldValue is one user's answer to a UserField. Multiselect answers
// are one row per selected option.
type UserFieldValue struct {
	UserID             ID // required
	FieldID            ID // required
	IsMultiselectField *bool
	Value              string
	CreatedAt          time.Time
}

var userFieldValuesTable = define("user_field_values", nil,
	required("user_id", numeric),
	required("field_id", numeric),
	optional("is_multiselect_field", boolean),
	optional("value", text),
	optional("created_at", datetime),
)

// CreateUserFieldValue inserts a user field value.
func (w *Writer) CreateUserFieldValue(v UserFieldValue) error {
	return w.insert(userFieldValuesTable,
		idValue(v.UserID),
		idValue(v.FieldID),
		boolPtr(v.IsMultiselectField),
		str(v.Value),
		ts(v.CreatedAt),
	)
}
