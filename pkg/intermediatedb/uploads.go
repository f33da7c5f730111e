package intermediatedb

import (
	"path"
	"path/filepath"

	"github.com/dtnitsch/intermediate-db/pkg/db"
	"github.com/dtnitsch/intermediate-db/pkg/id"
)

// Upload metadata shared by the three ways of creating an upload.
type Upload struct {
	Filename    string // defaults to the base name of the path or URL
	Type        string // e.g. "avatar", "attachment", "card_background"
	Description string
	Origin      string
	UserID      ID
}

var uploadsTable = define("uploads", []string{"placeholder_hash"},
	required("placeholder_hash", text),
	required("filename", text),
	optional("path", text),
	optional("data", blob),
	optional("url", text),
	optional("type", text),
	optional("description", text),
	optional("origin", text),
	optional("user_id", numeric),
).ignoringDuplicates()

// CreateUploadForFile records a file on disk and returns its placeholder
// hash, which is derived from the path alone. Recording the same path
// twice keeps the first row and returns the same hash.
func (w *Writer) CreateUploadForFile(filePath string, u Upload) (string, error) {
	if filePath == "" {
		return "", &MissingFieldError{Table: uploadsTable.name, Column: "path"}
	}
	if u.Filename == "" {
		u.Filename = filepath.Base(filePath)
	}
	return w.createUpload(id.Hash(filePath), u, filePath, nil, "")
}

// CreateUploadForURL records a remote file; the hash is derived from the URL.
func (w *Writer) CreateUploadForURL(url string, u Upload) (string, error) {
	if url == "" {
		return "", &MissingFieldError{Table: uploadsTable.name, Column: "url"}
	}
	if u.Filename == "" {
		u.Filename = path.Base(url)
	}
	return w.createUpload(id.Hash(url), u, "", nil, url)
}

// CreateUploadForData stores the bytes themselves; the hash is derived from
// the content, so identical data is stored once. Filename is required.
func (w *Writer) CreateUploadForData(data []byte, u Upload) (string, error) {
	if data == nil {
		return "", &MissingFieldError{Table: uploadsTable.name, Column: "data"}
	}
	return w.createUpload(id.Hash(string(data)), u, "", data, "")
}

func (w *Writer) createUpload(hash string, u Upload, filePath string, data []byte, url string) (string, error) {
	err := w.insert(uploadsTable,
		hash,
		str(u.Filename),
		str(filePath),
		db.ToBlob(data),
		str(url),
		str(u.Type),
		str(u.Description),
		str(u.Origin),
		idValue(u.UserID),
	)
	if err != nil {
		return "", err
	}
	return hash, nil
}
