package domain

import "mime/multipart"

type FileCommonMetadata struct {
	Filename    string
	SizeBytes   int64
	MimeType    string
	ImageWidth  *int
	ImageHeight *int
}

// PendingFile is a validated upload that has not been persisted yet.
type PendingFile struct {
	FileCommonMetadata
	Data multipart.File
}
