package domain

import (
	"database/sql"
	"time"
)

// to iterate thru layers: handler -> service -> storage
type ThreadCreationData struct {
	Title        ThreadTitle
	Category     CategorySlug
	NewsletterId *NewsletterId // set when the thread discusses a newsletter issue
	Author       User
	Body         Body
	Attachments  *Attachments
}

type ThreadMetadata struct {
	Id           ThreadId
	Title        ThreadTitle
	Category     CategorySlug
	NewsletterId sql.NullInt64
	Author       User
	NumReplies   int
	LikeCount    int
	IsLocked     bool
	IsPinned     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastActivity time.Time // >= CreatedAt; bumped on every reply
}

type Thread struct {
	ThreadMetadata
	Body        Body
	BodyHTML    string // rendered + sanitized, never persisted
	Attachments *Attachments
	Replies     []*Reply
}
