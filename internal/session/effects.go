package session

import (
	"time"

	"github.com/inkechoes/leaf/internal/api"
)

// Effect is an I/O or timer request the session asks its driver to run.
// The session itself never performs I/O; results come back as events.
type Effect interface {
	isEffect()
}

// FetchChapters requests the Work's ordered chapter list.
type FetchChapters struct{}

// FetchBody requests a chapter body. Token identifies the fetch; a response
// whose token no longer matches the session's is discarded on arrival.
type FetchBody struct {
	ChapterID int
	Token     int
}

// FetchBookmark requests the caller's bookmark for the Work.
type FetchBookmark struct{}

// FetchProgress requests the caller's reading progress for the Work.
type FetchProgress struct{}

// BeginTurn asks the driver to report back via FinishTurn after the
// page-turn transition delay.
type BeginTurn struct {
	Delay time.Duration
}

// ScheduleCommit asks the driver to report back via CommitDue(Seq) after
// the debounce delay. Only the newest sequence number fires.
type ScheduleCommit struct {
	Seq   int
	Delay time.Duration
}

// PutProgress pushes a reading-progress patch to the backend.
type PutProgress struct {
	Update api.ProgressUpdate
}

// CreateBookmark creates a bookmark on the backend.
type CreateBookmark struct {
	Create api.BookmarkCreate
}

// DeleteBookmark deletes the bookmark with the given id.
type DeleteBookmark struct {
	ID int
}

func (FetchChapters) isEffect()  {}
func (FetchBody) isEffect()      {}
func (FetchBookmark) isEffect()  {}
func (FetchProgress) isEffect()  {}
func (BeginTurn) isEffect()      {}
func (ScheduleCommit) isEffect() {}
func (PutProgress) isEffect()    {}
func (CreateBookmark) isEffect() {}
func (DeleteBookmark) isEffect() {}
