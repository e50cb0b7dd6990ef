package model

import "time"

// FileType classifies a node in an account's storage tree.
type FileType string

const (
	TypeFolder   FileType = "FOLDER"
	TypeImage    FileType = "IMAGE"
	TypeVideo    FileType = "VIDEO"
	TypeDocument FileType = "DOCUMENT"
	TypeOther    FileType = "OTHER"
)

// Valid reports whether t is one of the known file types.
func (t FileType) Valid() bool {
	switch t {
	case TypeFolder, TypeImage, TypeVideo, TypeDocument, TypeOther:
		return true
	}
	return false
}

// RootFolder is the parent sentinel for items at the top of the tree.
//
// WHY "" AND NOT A NULLABLE POINTER?
// The tree is a forest: every non-root item has exactly one parent folder.
// Using the empty string as the root sentinel keeps FileItem comparable and
// avoids *string plumbing everywhere — there is no meaningful distinction
// between "no parent" and "empty parent".
const RootFolder = ""

// FileItem is one node (file or folder) in an account's hierarchical tree.
//
// Invariants maintained by the file service:
//   - ID is unique within the owner's set (xid, generated on create)
//   - ParentID is RootFolder or references an existing TypeFolder item
//     belonging to the same owner
//   - the parent chain never cycles
//   - Size is 0 for folders
//
// The entire set for one owner is exclusively that owner's; there is no
// cross-account sharing of records (share links are cosmetic URLs only).
type FileItem struct {
	ID           string    `json:"id"           db:"id"`
	OwnerEmail   string    `json:"-"            db:"owner_email"`
	Name         string    `json:"name"         db:"name"`
	Type         FileType  `json:"type"         db:"type"`
	Size         int64     `json:"size"         db:"size"` // bytes; 0 for folders
	LastModified time.Time `json:"lastModified" db:"last_modified"`
	ParentID     string    `json:"parentId"     db:"parent_id"` // RootFolder for top-level items
}
