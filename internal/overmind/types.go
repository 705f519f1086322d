package overmind

import "time"

// RawLine is one log line as the daemon delivers it. Searchable may be
// empty, in which case the processing worker derives it from Content.
type RawLine struct {
	ID         int64  `json:"id"`
	SourceName string `json:"sourceName"`
	Content    string `json:"content"`
	Searchable string `json:"searchableText"`
	Timestamp  int64  `json:"timestamp"` // unix milliseconds, 0 = unset
}

// Stats carries the daemon's running counters.
type Stats struct {
	TotalLines   int64 `json:"totalLines"`
	DroppedLines int64 `json:"droppedLines"`
	Processes    int   `json:"processes"`
}

// BatchPayload is one poll/push cycle's worth of updates.
type BatchPayload struct {
	Lines         []RawLine         `json:"lines"`
	StatusUpdates map[string]string `json:"statusUpdates"`
	Stats         Stats             `json:"stats"`
	Next          int64             `json:"next"` // poll cursor
}

// Time converts the line's millisecond timestamp, zero time when unset.
func (l RawLine) Time() time.Time {
	if l.Timestamp == 0 {
		return time.Time{}
	}
	return time.UnixMilli(l.Timestamp)
}
