package domain

import "github.com/lib/pq"

type (
	UserId = int64

	CategoryId   = int64
	CategorySlug = string
	CategoryName = string

	NewsletterId = int64

	ThreadId    = int64
	ThreadTitle = string

	ReplyId = int64

	Body = string

	Attachments = pq.StringArray // object-storage paths, saved into postgres
)
