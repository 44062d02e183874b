package models

import "time"

// Node is a file or folder metadata record.
//
// ID is a server-generated 24-char hex identifier, immutable and never
// reused. For a file node it doubles as the blob key in object storage.
// Folder references the parent node id, or common.RootFolder for the top
// level; the referenced folder is not required to exist.
type Node struct {
	ID          string    `bson:"_id" json:"id"`
	Filename    string    `bson:"filename" json:"filename"`
	IsFolder    bool      `bson:"is_folder,omitempty" json:"is_folder"`
	ContentType string    `bson:"content_type,omitempty" json:"content_type"`
	Size        int64     `bson:"size,omitempty" json:"size"`
	UploadDate  time.Time `bson:"upload_date" json:"upload_date"`
	Folder      string    `bson:"folder" json:"folder"`
}
