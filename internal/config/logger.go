package config

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const defaultEventLogSize = 1000

// Event is a log entry kept by the EventLog. Server is taken from the
// "server" field that the session observers set.
type Event struct {
	Time    time.Time     `json:"time"`
	Level   logrus.Level  `json:"level"`
	Server  string        `json:"server,omitempty"`
	Message string        `json:"message,omitempty"`
	Data    logrus.Fields `json:"data,omitempty"`
}

// EventLog is a logrus hook keeping the last entries at or above a level,
// so that they can be reported once a command is over. The oldest entries
// are dropped past the limit.
type EventLog struct {
	mu      sync.Mutex
	runID   uuid.UUID
	level   logrus.Level
	limit   int
	events  []*Event
	dropped int
}

func NewEventLog(limit int, level logrus.Level) *EventLog {
	if limit <= 0 {
		limit = defaultEventLogSize
	}
	return &EventLog{
		runID: uuid.New(),
		level: level,
		limit: limit,
	}
}

// RunID identifies the process run the events belong to.
func (l *EventLog) RunID() uuid.UUID {
	return l.runID
}

// SetLevel changes the least severe level kept from now on.
func (l *EventLog) SetLevel(level logrus.Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// Levels subscribes to every level, Fire filters on the current one.
func (l *EventLog) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (l *EventLog) Fire(entry *logrus.Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if entry.Level > l.level {
		return nil
	}

	event := &Event{
		Time:    entry.Time,
		Level:   entry.Level,
		Message: entry.Message,
		Data:    make(logrus.Fields, len(entry.Data)),
	}
	for key, value := range entry.Data {
		if err, ok := value.(error); ok {
			value = err.Error()
		}
		event.Data[key] = value
	}
	if server, ok := entry.Data["server"].(string); ok {
		event.Server = server
	}

	l.events = append(l.events, event)
	if overflow := len(l.events) - l.limit; overflow > 0 {
		l.events = slices.Delete(l.events, 0, overflow)
		l.dropped += overflow
	}

	return nil
}

// Events returns the kept events, oldest first.
func (l *EventLog) Events() []*Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.events)
}

func (l *EventLog) Recent(count int) []*Event {
	events := l.Events()
	if len(events) <= count {
		return events
	}
	return events[len(events)-count:]
}

// ByServer groups the kept events per server; events not tied to a
// server are under the empty name.
func (l *EventLog) ByServer() map[string][]*Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	grouped := make(map[string][]*Event)
	for _, event := range l.events {
		grouped[event.Server] = append(grouped[event.Server], event)
	}
	return grouped
}

// Dropped counts the events pushed out by newer ones.
func (l *EventLog) Dropped() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dropped
}

func (l *EventLog) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = nil
	l.dropped = 0
}

var (
	processEvents     *EventLog
	processEventsOnce sync.Once
)

// eventLog returns the EventLog of the process, hooked into the standard
// logger on first use.
func eventLog(level logrus.Level) *EventLog {
	processEventsOnce.Do(func() {
		processEvents = NewEventLog(defaultEventLogSize, level)
		logrus.AddHook(processEvents)
	})
	processEvents.SetLevel(level)
	return processEvents
}
