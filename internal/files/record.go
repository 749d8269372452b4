package files

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Kind is the record type.
type Kind string

const (
	KindFolder Kind = "folder"
	KindFile   Kind = "file"
	KindImage  Kind = "image"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindFolder, KindFile, KindImage:
		return true
	}
	return false
}

// HasBlob reports whether records of this kind carry content.
func (k Kind) HasBlob() bool {
	return k == KindFile || k == KindImage
}

// ParentRef is either the root or a reference to a folder record.
// The zero value is the root.
type ParentRef struct {
	id string
}

// Root returns the root parent.
func Root() ParentRef { return ParentRef{} }

// FolderRef references the folder with the given id.
func FolderRef(id string) ParentRef { return ParentRef{id: id} }

// ParseParentRef reads the wire form used by query strings and JSON strings:
// "", "0" and "null" are the root, anything else is a folder id.
func ParseParentRef(s string) ParentRef {
	switch s {
	case "", "0", "null":
		return Root()
	}
	return FolderRef(s)
}

// IsRoot reports whether p is the root.
func (p ParentRef) IsRoot() bool { return p.id == "" }

// ID returns the folder id, or "" for the root.
func (p ParentRef) ID() string { return p.id }

func (p ParentRef) String() string {
	if p.IsRoot() {
		return "0"
	}
	return p.id
}

// MarshalJSON writes the root as 0 and references as strings.
func (p ParentRef) MarshalJSON() ([]byte, error) {
	if p.IsRoot() {
		return []byte("0"), nil
	}
	return json.Marshal(p.id)
}

// UnmarshalJSON accepts 0, "0", "", null and folder ids given as strings or numbers.
func (p *ParentRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		*p = Root()
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = ParseParentRef(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("files: parentId must be a string or a number: %w", err)
	}
	if v, err := strconv.ParseFloat(n.String(), 64); err == nil && v == 0 {
		*p = Root()
		return nil
	}
	*p = FolderRef(n.String())
	return nil
}

// Record is the metadata of a stored file or folder.
type Record struct {
	CreatedAt time.Time
	ID        string
	OwnerID   string
	Name      string
	Kind      Kind
	BlobPath  string
	Parent    ParentRef
	IsPublic  bool
}

// View is the public projection of a Record.
type View struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Type      Kind      `json:"type"`
	IsPublic  bool      `json:"isPublic"`
	ParentID  ParentRef `json:"parentId"`
	LocalPath string    `json:"localPath,omitempty"`
}

// View projects r for clients. The blob key is only exposed when
// withBlob is set, matching what each operation has always returned.
func (r Record) View(withBlob bool) View {
	v := View{
		ID:       r.ID,
		UserID:   r.OwnerID,
		Name:     r.Name,
		Type:     r.Kind,
		IsPublic: r.IsPublic,
		ParentID: r.Parent,
	}
	if withBlob {
		v.LocalPath = r.BlobPath
	}
	return v
}

// VariantPath returns the storage key of the thumbnail of the given width.
func VariantPath(blobPath string, width int) string {
	return fmt.Sprintf("%s_%d", blobPath, width)
}
