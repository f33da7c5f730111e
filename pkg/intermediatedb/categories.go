package intermediatedb

import (
	"time"
)

// Category groups topics. ParentCategoryID makes it a subcategory.
type Category struct {
	OriginalID       ID     // required
	Name             string // required
	AboutTopicTitle  string
	Color            string
	CreatedAt        time.Time
	Description      string
	ParentCategoryID ID
	Position         *int
	ReadRestricted   *bool
	Slug             string
	TextColor        string
	UserID           ID
}

var categoriesTable = define("categories", []string{"original_id"},
	required("original_id", numeric),
	required("name", text),
	optional("about_topic_title", text),
	optional("color", text),
	optional("created_at", datetime),
	optional("description", text),
	optional("parent_category_id", numeric),
	optional("position", integer),
	optional("read_restricted", boolean),
	optional("slug", text),
	optional("text_color", text),
	optional("user_id", numeric),
)

// CreateCategory inserts a category.
func (w *Writer) CreateCategory(c Category) error {
	return w.insert(categoriesTable,
		idValue(c.OriginalID),
		str(c.Name),
		str(c.AboutTopicTitle),
		str(c.Color),
		ts(c.CreatedAt),
		str(c.Description),
		idValue(c.ParentCategoryID),
		intPtr(c.Position),
		boolPtr(c.ReadRestricted),
		str(c.Slug),
		str(c.TextColor),
		idValue(c.UserID),
	)
}

type CategoryCustomField struct {
	CategoryID ID     // required
	Name       string // required
	Value      string
	CreatedAt  time.Time
}

var categoryCustomFieldsTable = define("category_custom_fields", nil,
	required("category_id", numeric),
	required("name", text),
	optional("value", text),
	optional("created_at", datetime),
)

// CreateCategoryCustomField inserts a category custom field.
func (w *Writer) CreateCategoryCustomField(f CategoryCustomField) error {
	return w.insert(categoryCustomFieldsTable,
		idValue(f.CategoryID),
		str(f.Name),
		str(f.Value),
		ts(f.CreatedAt),
	)
}
