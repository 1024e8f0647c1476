package syncer

import (
	"fmt"
	"sync"
	"time"
)

type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Notice is a transient user-facing status line.
type Notice struct {
	Seq     int64     `json:"seq"`
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// NoticeFeed keeps the most recent notices in a bounded ring.
type NoticeFeed struct {
	mu    sync.Mutex
	items []Notice
	next  int64
	limit int
}

func NewNoticeFeed(limit int) *NoticeFeed {
	if limit < 1 {
		limit = 100
	}
	return &NoticeFeed{limit: limit, items: make([]Notice, 0, limit)}
}

func (f *NoticeFeed) Post(level Level, message string) Notice {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	n := Notice{Seq: f.next, Level: level, Message: message, At: time.Now().UTC()}
	if len(f.items) == f.limit {
		copy(f.items, f.items[1:])
		f.items = f.items[:len(f.items)-1]
	}
	f.items = append(f.items, n)
	return n
}

func (f *NoticeFeed) Infof(format string, args ...any) Notice {
	return f.Post(LevelInfo, fmt.Sprintf(format, args...))
}

func (f *NoticeFeed) Errorf(format string, args ...any) Notice {
	return f.Post(LevelError, fmt.Sprintf(format, args...))
}

// Since returns notices with a sequence number greater than seq, oldest first.
func (f *NoticeFeed) Since(seq int64) []Notice {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Notice, 0, len(f.items))
	for _, n := range f.items {
		if n.Seq > seq {
			out = append(out, n)
		}
	}
	return out
}
