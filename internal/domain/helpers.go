package domain

import (
	"fmt"
	"time"
)

// for debug
func (r *Reply) String() string {
	return fmt.Sprintf("[id:%d, thread:%d, author:%d, body:%s, created:%s]",
		r.Id, r.ThreadId, r.Author.Id, r.Body, r.CreatedAt.Format(time.StampMilli))
}

func (t *Thread) String() string {
	s := fmt.Sprintf("[title:%s, category:%s, replies:%d, last_activity:%v, locked:%t, pinned:%t, replies:[",
		t.Title, t.Category, t.NumReplies, t.LastActivity, t.IsLocked, t.IsPinned)
	for i, r := range t.Replies {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%v", r)
	}
	return s + "]]"
}
