package models

import "time"

const (
	EventWordMarked   = "word_marked"
	EventDayCompleted = "day_completed"
)

// ProgressEvent is pushed to a user's websocket clients after a mark-as-read
type ProgressEvent struct {
	Type      string    `json:"type"` // "word_marked", "day_completed"
	UserID    string    `json:"userId"`
	Day       int       `json:"day"`
	Word      string    `json:"word,omitempty"`
	WordsRead int       `json:"wordsRead"`
	Completed bool      `json:"completed"`
	Timestamp time.Time `json:"timestamp"`
}
