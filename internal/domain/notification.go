package domain

import (
	"database/sql"
	"time"
)

type Notification struct {
	Id        int64
	UserId    UserId
	ThreadId  ThreadId
	ReplyId   sql.NullInt64
	IsRead    bool
	CreatedAt time.Time
}
