package page

import (
	"sync"
	"time"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is a transient, dismissible user message.
type Notification struct {
	Message   string
	Level     Level
	CreatedAt time.Time
}

// DefaultNotificationTTL matches the extension's 5 second auto-dismiss.
const DefaultNotificationTTL = 5 * time.Second

// Center manages the single visible notification. Showing a new one
// replaces whatever is on screen; every notification auto-dismisses
// after the TTL unless manually closed first.
type Center struct {
	mu      sync.Mutex
	ttl     time.Duration
	current *Notification
	timer   *time.Timer
	seq     uint64
}

func NewCenter(ttl time.Duration) *Center {
	if ttl <= 0 {
		ttl = DefaultNotificationTTL
	}
	return &Center{ttl: ttl}
}

// Show displays a notification, replacing any existing one and
// restarting the auto-dismiss timer.
func (c *Center) Show(message string, level Level) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
	}

	c.seq++
	seq := c.seq
	c.current = &Notification{
		Message:   message,
		Level:     level,
		CreatedAt: time.Now(),
	}

	c.timer = time.AfterFunc(c.ttl, func() {
		c.dismissSeq(seq)
	})
}

// Dismiss removes the visible notification immediately.
func (c *Center) Dismiss() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.current = nil
}

// dismissSeq removes the notification only if it is still the one the
// expired timer was armed for; a replacement keeps its own timer.
func (c *Center) dismissSeq(seq uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.seq != seq {
		return
	}
	c.current = nil
	c.timer = nil
}

// Current returns the visible notification, or nil.
func (c *Center) Current() *Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return nil
	}
	copied := *c.current
	return &copied
}
