package upload

import "time"

// Blob is a stored image file. Records reference it through URLPath.
type Blob struct {
	Name        string
	URLPath     string
	ContentType string
	Size        int64
}

// ObjectInfo describes a blob when it is read back for serving.
type ObjectInfo struct {
	Name        string
	Size        int64
	ContentType string
	ModTime     time.Time
}
