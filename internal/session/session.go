// Package session holds the reader session state machine: current chapter,
// current page, turn transitions, bookmark and progress state.
//
// The machine is synchronous and single-threaded. Events mutate state and
// return Effects; the driver (the TUI) executes those effects and feeds the
// results back as further events. No network failure propagates past an
// event: errors are logged and leave navigation state untouched.
package session

import (
	"sort"
	"time"

	"github.com/inkechoes/leaf/internal/api"
	"github.com/inkechoes/leaf/internal/logger"
	"github.com/inkechoes/leaf/internal/paginate"
)

const (
	// TurnDelay is the visual page-turn transition time.
	TurnDelay = 300 * time.Millisecond

	// CommitDelay debounces page-change progress commits.
	CommitDelay = time.Second

	// AccrualInterval is how often reading time is pushed to the backend.
	AccrualInterval = time.Minute
)

// TurnPhase is the page-turn transition state.
type TurnPhase int

const (
	TurnIdle TurnPhase = iota
	Turning
)

// Session is the state of one open reader.
type Session struct {
	work      api.Work
	fontSize  int
	startedAt time.Time

	chapters       []api.Chapter
	chaptersLoaded bool
	chapterIndex   int // -1 means flat-body mode
	body           string
	bodyLoaded     bool
	bodyToken      int
	wordCounts     map[int]int // chapter id -> word count of fetched bodies

	pages []string
	page  int

	turn    TurnPhase
	turnDir int

	bookmark        *api.Bookmark
	bookmarkChecked bool
	progress        *api.ReadingProgress
	progressChecked bool

	noteOpen bool
	note     string

	// restorePage is a pending 0-indexed position from a bookmark or
	// progress record, applied once pagination completes. -1 when unset.
	restorePage      int
	pageFromProgress bool
	userNavigated    bool

	commitSeq int
	loadErr   string
}

// New creates a session for the given Work. now anchors reading-time
// accrual. The font size is clamped into the supported range.
func New(work api.Work, fontSizePx int, now time.Time) *Session {
	if fontSizePx < paginate.MinFontSizePx {
		fontSizePx = paginate.MinFontSizePx
	}
	if fontSizePx > paginate.MaxFontSizePx {
		fontSizePx = paginate.MaxFontSizePx
	}
	return &Session{
		work:         work,
		fontSize:     fontSizePx,
		startedAt:    now,
		chapterIndex: -1,
		wordCounts:   make(map[int]int),
		restorePage:  -1,
	}
}

// Start begins the session.
func (s *Session) Start() []Effect {
	return []Effect{FetchChapters{}}
}

// ChaptersLoaded applies the chapter-list response. A failure falls back to
// the Work's flat body with a visible error; bookmark and progress are
// fetched either way, once the chapter situation is known.
func (s *Session) ChaptersLoaded(chapters []api.Chapter, err error) []Effect {
	s.chaptersLoaded = true

	var effs []Effect
	if err != nil {
		logger.Warn("session: chapter list load failed: %v", err)
		s.loadErr = "failed to load chapters"
		effs = s.enterFlatBody()
	} else if len(chapters) == 0 {
		effs = s.enterFlatBody()
	} else {
		sort.SliceStable(chapters, func(i, j int) bool {
			return chapters[i].Order < chapters[j].Order
		})
		s.chapters = chapters
		s.chapterIndex = 0
		s.bodyToken++
		effs = append(effs, FetchBody{ChapterID: chapters[0].ID, Token: s.bodyToken})
	}

	return append(effs, FetchBookmark{}, FetchProgress{})
}

// enterFlatBody paginates the Work's flat body (no-chapters mode).
func (s *Session) enterFlatBody() []Effect {
	s.chapterIndex = -1
	s.body = paginate.Flatten(s.work.Body())
	s.bodyLoaded = true
	return s.paginateBody()
}

// BodyLoaded applies a chapter-body response. Responses carrying a stale
// token belong to a chapter the user already left and are discarded.
func (s *Session) BodyLoaded(token, chapterID int, body string, err error) []Effect {
	if token != s.bodyToken {
		logger.Debug("session: discarding stale body for chapter %d", chapterID)
		return nil
	}
	if err != nil {
		logger.Warn("session: chapter %d body load failed: %v", chapterID, err)
		s.loadErr = "failed to load chapter"
		return nil
	}

	s.loadErr = ""
	s.body = paginate.Flatten(body)
	s.bodyLoaded = true
	s.wordCounts[chapterID] = paginate.CountWords(s.body)
	return s.paginateBody()
}

// paginateBody recomputes pages for the current body and lands on the
// pending restore target, or page 0.
func (s *Session) paginateBody() []Effect {
	s.pages = paginate.Paginate(s.body, s.fontSize)
	target := 0
	if s.restorePage >= 0 {
		target = s.restorePage
		s.restorePage = -1
	}
	s.page = s.clampPage(s.page) // keep the invariant even when target == page
	return s.setPage(target)
}

// BookmarkLoaded applies the bookmark response. The bookmark selects the
// chapter; its page applies unless a progress position took precedence or
// the user already navigated.
func (s *Session) BookmarkLoaded(bm *api.Bookmark, err error) []Effect {
	s.bookmarkChecked = true
	if err != nil {
		logger.Warn("session: bookmark load failed: %v", err)
		return nil
	}
	if bm == nil {
		return nil
	}
	s.bookmark = bm
	if s.userNavigated {
		return nil
	}

	target := bm.PageNumber - 1
	if target < 0 {
		target = 0
	}

	var effs []Effect
	switched := false
	if bm.ChapterID != nil {
		if idx := s.indexOfChapter(*bm.ChapterID); idx >= 0 && idx != s.chapterIndex {
			effs = append(effs, s.fetchChapterBody(idx)...)
			switched = true
		}
	}

	if !s.pageFromProgress {
		if switched || !s.bodyLoaded {
			s.restorePage = target
		} else {
			effs = append(effs, s.setPage(target)...)
		}
	} else if switched {
		// keep the progress-derived position across the refetch
		s.restorePage = s.clampRestore()
	}
	return effs
}

// ProgressLoaded applies the reading-progress response. A stored position
// is authoritative over the bookmark-derived page, regardless of which
// response arrived first.
func (s *Session) ProgressLoaded(p *api.ReadingProgress, err error) []Effect {
	s.progressChecked = true
	if err != nil {
		logger.Warn("session: progress load failed: %v", err)
		return nil
	}
	if p == nil {
		return nil
	}
	s.progress = p
	if p.CurrentPage <= 0 || s.userNavigated {
		return nil
	}

	s.pageFromProgress = true
	target := p.CurrentPage - 1
	if !s.bodyLoaded {
		s.restorePage = target
		return nil
	}
	return s.setPage(target)
}

// clampRestore carries the current progress position into a pending
// restore when a bookmark switches chapters underneath it.
func (s *Session) clampRestore() int {
	if s.progress != nil && s.progress.CurrentPage > 0 {
		return s.progress.CurrentPage - 1
	}
	if s.restorePage >= 0 {
		return s.restorePage
	}
	return 0
}

// NextPage advances within the chapter, or to the next chapter when on its
// last page. The two moves are mutually exclusive per event; the intent is
// a no-op at the very end of the Work or while a turn is in flight.
func (s *Session) NextPage() []Effect {
	if s.turn != TurnIdle {
		return nil
	}
	s.userNavigated = true
	if s.page < len(s.pages)-1 {
		s.turn = Turning
		s.turnDir = 1
		return []Effect{BeginTurn{Delay: TurnDelay}}
	}
	if s.chapterIndex >= 0 && s.chapterIndex < len(s.chapters)-1 {
		return s.fetchChapterBody(s.chapterIndex + 1)
	}
	return nil
}

// PrevPage is the symmetric move. A backward chapter move lands on the new
// chapter's first page.
func (s *Session) PrevPage() []Effect {
	if s.turn != TurnIdle {
		return nil
	}
	s.userNavigated = true
	if s.page > 0 {
		s.turn = Turning
		s.turnDir = -1
		return []Effect{BeginTurn{Delay: TurnDelay}}
	}
	if s.chapterIndex > 0 {
		return s.fetchChapterBody(s.chapterIndex - 1)
	}
	return nil
}

// FinishTurn commits the in-flight page turn.
func (s *Session) FinishTurn() []Effect {
	if s.turn != Turning {
		return nil
	}
	s.turn = TurnIdle
	dir := s.turnDir
	s.turnDir = 0
	return s.setPage(s.page + dir)
}

// SelectChapter jumps directly to a chapter from the table of contents.
func (s *Session) SelectChapter(index int) []Effect {
	if index < 0 || index >= len(s.chapters) || index == s.chapterIndex {
		return nil
	}
	s.userNavigated = true
	return s.fetchChapterBody(index)
}

// fetchChapterBody activates chapter index and requests its body. The page
// resets to 0 when the body arrives, unless a restore target is pending.
func (s *Session) fetchChapterBody(index int) []Effect {
	s.chapterIndex = index
	s.bodyLoaded = false
	s.loadErr = ""
	s.bodyToken++
	return []Effect{FetchBody{ChapterID: s.chapters[index].ID, Token: s.bodyToken}}
}

// SetFontSize changes the pagination budget and repaginates the active
// body. The current page index is clamped into the new bounds.
func (s *Session) SetFontSize(px int) []Effect {
	if px < paginate.MinFontSizePx {
		px = paginate.MinFontSizePx
	}
	if px > paginate.MaxFontSizePx {
		px = paginate.MaxFontSizePx
	}
	if px == s.fontSize {
		return nil
	}
	s.fontSize = px
	if s.pages == nil {
		return nil
	}
	s.pages = paginate.Paginate(s.body, s.fontSize)
	return s.setPage(s.page)
}

// ToggleBookmark removes an existing bookmark, opens note entry when none
// exists, or saves from open note entry. Note entry and a persisted
// bookmark never coexist.
func (s *Session) ToggleBookmark() []Effect {
	if s.bookmark != nil {
		return []Effect{DeleteBookmark{ID: s.bookmark.ID}}
	}
	if !s.noteOpen {
		s.noteOpen = true
		return nil
	}
	return s.SaveBookmark()
}

// SetNote updates the note-entry buffer.
func (s *Session) SetNote(note string) {
	s.note = note
}

// CancelNote closes note entry without creating a bookmark.
func (s *Session) CancelNote() {
	s.noteOpen = false
	s.note = ""
}

// SaveBookmark creates a bookmark at the current position with the entered
// note. No-op when a bookmark already exists.
func (s *Session) SaveBookmark() []Effect {
	if s.bookmark != nil {
		return nil
	}
	create := api.BookmarkCreate{
		PostID:     s.work.ID,
		PageNumber: s.page + 1,
		Note:       s.note,
	}
	if s.chapterIndex >= 0 && s.chapterIndex < len(s.chapters) {
		id := s.chapters[s.chapterIndex].ID
		create.ChapterID = &id
	}
	return []Effect{CreateBookmark{Create: create}}
}

// BookmarkSaved applies the create-bookmark result.
func (s *Session) BookmarkSaved(bm *api.Bookmark, err error) {
	if err != nil {
		logger.Warn("session: bookmark save failed: %v", err)
		return
	}
	s.bookmark = bm
	s.noteOpen = false
	s.note = ""
}

// BookmarkDeleted applies the delete-bookmark result.
func (s *Session) BookmarkDeleted(err error) {
	if err != nil {
		logger.Warn("session: bookmark delete failed: %v", err)
		return
	}
	s.bookmark = nil
}

// TickMinute pushes accumulated reading time. It runs on a fixed interval
// independent of page-change commits, and only once a progress record
// exists for the session.
func (s *Session) TickMinute(now time.Time) []Effect {
	if s.progress == nil {
		return nil
	}
	minutes := int(now.Sub(s.startedAt) / time.Minute)
	if minutes < 1 {
		return nil
	}
	cp := s.page + 1
	tp := s.TotalPages()
	return []Effect{PutProgress{Update: api.ProgressUpdate{
		CurrentPage:        &cp,
		TotalPages:         &tp,
		ReadingTimeMinutes: &minutes,
	}}}
}

// CommitDue fires the debounced page-change progress commit. Only the
// newest scheduled sequence number is honored. total_pages is derived from
// chapter word counts at the current font size, never cached.
func (s *Session) CommitDue(seq int) []Effect {
	if seq != s.commitSeq || s.progress == nil || len(s.pages) == 0 {
		return nil
	}
	cp := s.page + 1
	tp := s.TotalPages()
	pct := float64(cp) / float64(tp) * 100
	return []Effect{PutProgress{Update: api.ProgressUpdate{
		CurrentPage:        &cp,
		TotalPages:         &tp,
		ProgressPercentage: &pct,
	}}}
}

// ProgressSaved applies the server's updated progress record. The record is
// server-authoritative, so the local copy tracks the response.
func (s *Session) ProgressSaved(p *api.ReadingProgress, err error) {
	if err != nil {
		logger.Warn("session: progress update failed: %v", err)
		return
	}
	if p != nil {
		s.progress = p
	}
}

// TotalPages derives the Work's page count at the current font size: the
// sum of per-chapter page counts, counting unfetched chapters as one page,
// or the flat-body page count when there are no chapters.
func (s *Session) TotalPages() int {
	if len(s.chapters) == 0 {
		if len(s.pages) > 0 {
			return len(s.pages)
		}
		return 1
	}
	sum := 0
	for _, ch := range s.chapters {
		if wc, ok := s.wordCounts[ch.ID]; ok {
			sum += paginate.PageCount(wc, s.fontSize)
		} else {
			sum++
		}
	}
	return sum
}

// setPage moves to page p (clamped) and schedules the debounced progress
// commit when the position actually changed.
func (s *Session) setPage(p int) []Effect {
	p = s.clampPage(p)
	if p == s.page {
		return nil
	}
	s.page = p
	s.commitSeq++
	return []Effect{ScheduleCommit{Seq: s.commitSeq, Delay: CommitDelay}}
}

func (s *Session) clampPage(p int) int {
	if n := len(s.pages); n > 0 && p > n-1 {
		p = n - 1
	}
	if p < 0 {
		p = 0
	}
	return p
}

func (s *Session) indexOfChapter(id int) int {
	for i, ch := range s.chapters {
		if ch.ID == id {
			return i
		}
	}
	return -1
}

// Accessors for the view.

// Work returns the Work being read.
func (s *Session) Work() api.Work { return s.work }

// Chapters returns the loaded chapter list, nil before it loads.
func (s *Session) Chapters() []api.Chapter { return s.chapters }

// ChapterIndex returns the active chapter index, -1 in flat-body mode.
func (s *Session) ChapterIndex() int { return s.chapterIndex }

// ChapterTitle returns the active chapter's title, or the Work title in
// flat-body mode.
func (s *Session) ChapterTitle() string {
	if s.chapterIndex >= 0 && s.chapterIndex < len(s.chapters) {
		return s.chapters[s.chapterIndex].Title
	}
	return s.work.Title
}

// Pages returns the current page sequence.
func (s *Session) Pages() []string { return s.pages }

// Page returns the current 0-indexed page.
func (s *Session) Page() int { return s.page }

// PageText returns the current page's text.
func (s *Session) PageText() string {
	if s.page >= 0 && s.page < len(s.pages) {
		return s.pages[s.page]
	}
	return ""
}

// FontSize returns the effective font size in pixels.
func (s *Session) FontSize() int { return s.fontSize }

// Turn returns the page-turn phase.
func (s *Session) Turn() TurnPhase { return s.turn }

// Bookmark returns the persisted bookmark, nil when none exists.
func (s *Session) Bookmark() *api.Bookmark { return s.bookmark }

// Progress returns the reading-progress record, nil when none exists.
func (s *Session) Progress() *api.ReadingProgress { return s.progress }

// NoteOpen reports whether bookmark note entry is open.
func (s *Session) NoteOpen() bool { return s.noteOpen }

// Note returns the note-entry buffer.
func (s *Session) Note() string { return s.note }

// Loading reports whether the reader is still waiting for content.
func (s *Session) Loading() bool {
	return !s.chaptersLoaded || (!s.bodyLoaded && s.loadErr == "")
}

// LoadError returns the visible load-failure message, if any.
func (s *Session) LoadError() string { return s.loadErr }
