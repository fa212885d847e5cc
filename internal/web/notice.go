package web

import "time"

// Notice codes carried on redirects as ?notice=<code>.
const (
	NoticeCreated      = "created"
	NoticeUpdated      = "updated"
	NoticeDeleted      = "deleted"
	NoticeDeleteFailed = "delete_failed"
)

const timestampLayout = "2006-01-02 15:04:05 MST"

// Notice is a one-shot message shown above page content.
type Notice struct {
	Kind    string // "success" or "error"
	Message string
}

// NoticeFor maps a notice code onto the message to display. Save notices
// carry the given time rendered in loc. Unknown codes yield nil.
func NoticeFor(code string, at time.Time, loc *time.Location) *Notice {
	switch code {
	case NoticeCreated:
		return &Notice{Kind: "success", Message: "Saved (" + FormatTime(at, loc) + ")"}
	case NoticeUpdated:
		return &Notice{Kind: "success", Message: "Updated (" + FormatTime(at, loc) + ")"}
	case NoticeDeleted:
		return &Notice{Kind: "success", Message: "Deleted"}
	case NoticeDeleteFailed:
		return &Notice{Kind: "error", Message: "Delete failed"}
	default:
		return nil
	}
}

func FormatTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(timestampLayout)
}
