package domain

import "time"

type ReplyCreationData struct {
	Thread ThreadId
	Author User
	Body   Body
}

type Reply struct {
	Id        ReplyId
	ThreadId  ThreadId
	Author    User
	Body      Body
	BodyHTML  string // rendered + sanitized, never persisted
	CreatedAt time.Time
}
