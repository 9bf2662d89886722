package files

// FolderFacet marks an item as a folder.
type FolderFacet struct {
	// ChildCount is the number of children in the folder
	ChildCount int64 `json:"childCount"`
}

// FileFacet marks an item as a file.
type FileFacet struct {
	// MimeType is the MIME type of the file
	MimeType string `json:"mimeType"`
}

// ParentReference locates an item within its drive.
type ParentReference struct {
	// ID is the ID of the parent item
	ID string `json:"id,omitempty"`

	// Path is the drive-relative path of the parent
	Path string `json:"path,omitempty"`
}

// Item represents a file or folder in a drive.
type Item struct {
	// ID is the unique identifier for the item
	ID string `json:"id"`

	// Name is the item name
	Name string `json:"name"`

	// Size is the item size in bytes
	Size int64 `json:"size"`

	// WebURL opens the item in the browser
	WebURL string `json:"webUrl,omitempty"`

	// CreatedDateTime is when the item was created, RFC 3339
	CreatedDateTime string `json:"createdDateTime,omitempty"`

	// LastModifiedDateTime is when the item was last modified, RFC 3339
	LastModifiedDateTime string `json:"lastModifiedDateTime,omitempty"`

	// Folder is set when the item is a folder
	Folder *FolderFacet `json:"folder,omitempty"`

	// File is set when the item is a file
	File *FileFacet `json:"file,omitempty"`

	// ParentReference locates the item within the drive
	ParentReference *ParentReference `json:"parentReference,omitempty"`
}

// IsFolder reports whether the item is a folder.
func (i *Item) IsFolder() bool {
	return i.Folder != nil
}
