package domain

import (
	"database/sql"
	"time"
)

type ReportCreationData struct {
	Reporter User
	ThreadId ThreadId
	ReplyId  *ReplyId // nil when the thread itself is reported
	Reason   string
}

type Report struct {
	Id         int64
	ReporterId UserId
	ThreadId   ThreadId
	ReplyId    sql.NullInt64
	Reason     string
	CreatedAt  time.Time
}
