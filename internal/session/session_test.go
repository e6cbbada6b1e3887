package session

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkechoes/leaf/internal/api"
)

var t0 = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func body(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(words, " ")
}

func testWork() api.Work {
	return api.Work{
		ID:             7,
		Title:          "The Lighthouse Letters",
		AuthorUsername: "mwright",
		ContentType:    "book",
		Content:        &api.WorkContent{Body: body(1200)},
	}
}

func testChapters() []api.Chapter {
	return []api.Chapter{
		{ID: 31, PostID: 7, Title: "Arrival", Order: 1},
		{ID: 32, PostID: 7, Title: "The Keeper", Order: 2},
		{ID: 33, PostID: 7, Title: "Departure", Order: 3},
	}
}

// newChaptered returns a session with three chapters and the first
// chapter's body (of n words) loaded.
func newChaptered(t *testing.T, n int) *Session {
	t.Helper()
	s := New(testWork(), 18, t0)

	effs := s.Start()
	require.Equal(t, []Effect{FetchChapters{}}, effs)

	effs = s.ChaptersLoaded(testChapters(), nil)
	require.Len(t, effs, 3)
	fetch := requireEffect[FetchBody](t, effs)
	require.Equal(t, 31, fetch.ChapterID)

	effs = s.BodyLoaded(fetch.Token, fetch.ChapterID, body(n), nil)
	require.False(t, s.Loading())
	_ = effs
	return s
}

// requireEffect finds the single effect of type E in effs.
func requireEffect[E Effect](t *testing.T, effs []Effect) E {
	t.Helper()
	var found []E
	for _, eff := range effs {
		if e, ok := eff.(E); ok {
			found = append(found, e)
		}
	}
	require.Len(t, found, 1, "effects: %#v", effs)
	return found[0]
}

func hasEffect[E Effect](effs []Effect) bool {
	for _, eff := range effs {
		if _, ok := eff.(E); ok {
			return true
		}
	}
	return false
}

// turnTo pages forward within the current chapter.
func turnTo(t *testing.T, s *Session, page int) {
	t.Helper()
	for s.Page() < page {
		effs := s.NextPage()
		requireEffect[BeginTurn](t, effs)
		s.FinishTurn()
	}
	require.Equal(t, page, s.Page())
}

func TestChaptersLoaded(t *testing.T) {
	t.Run("sorts by order and opens the first chapter", func(t *testing.T) {
		s := New(testWork(), 18, t0)
		s.Start()

		shuffled := []api.Chapter{
			{ID: 33, Title: "Departure", Order: 3},
			{ID: 31, Title: "Arrival", Order: 1},
			{ID: 32, Title: "The Keeper", Order: 2},
		}
		effs := s.ChaptersLoaded(shuffled, nil)

		fetch := requireEffect[FetchBody](t, effs)
		assert.Equal(t, 31, fetch.ChapterID)
		assert.True(t, hasEffect[FetchBookmark](effs))
		assert.True(t, hasEffect[FetchProgress](effs))
		assert.Equal(t, "Arrival", s.Chapters()[0].Title)
	})

	t.Run("no chapters falls back to the flat body", func(t *testing.T) {
		s := New(testWork(), 18, t0)
		s.Start()

		effs := s.ChaptersLoaded(nil, nil)
		assert.True(t, hasEffect[FetchBookmark](effs))
		assert.True(t, hasEffect[FetchProgress](effs))

		assert.False(t, s.Loading())
		assert.Equal(t, -1, s.ChapterIndex())
		assert.Len(t, s.Pages(), 2) // 1200 words at 18px
	})

	t.Run("list failure still shows the flat body", func(t *testing.T) {
		s := New(testWork(), 18, t0)
		s.Start()

		s.ChaptersLoaded(nil, errors.New("boom"))
		assert.False(t, s.Loading())
		assert.NotEmpty(t, s.LoadError())
		assert.NotEmpty(t, s.PageText())
	})
}

func TestBodyLoaded(t *testing.T) {
	t.Run("stale token is discarded", func(t *testing.T) {
		s := newChaptered(t, 1600)
		turnTo(t, s, 1)

		// Move to chapter 2, then to chapter 3 before its body lands.
		fetch2 := requireEffect[FetchBody](t, s.NextPage())
		require.Equal(t, 32, fetch2.ChapterID)
		fetch3 := requireEffect[FetchBody](t, s.SelectChapter(2))
		require.Equal(t, 33, fetch3.ChapterID)

		effs := s.BodyLoaded(fetch2.Token, fetch2.ChapterID, body(5000), nil)
		assert.Empty(t, effs)
		assert.True(t, s.Loading())

		s.BodyLoaded(fetch3.Token, fetch3.ChapterID, body(900), nil)
		assert.False(t, s.Loading())
		assert.Equal(t, 2, s.ChapterIndex())
		assert.Len(t, s.Pages(), 2)
		assert.Equal(t, 0, s.Page())
	})

	t.Run("fetch failure keeps navigation alive", func(t *testing.T) {
		s := newChaptered(t, 1600)
		fetch := requireEffect[FetchBody](t, s.SelectChapter(1))

		s.BodyLoaded(fetch.Token, fetch.ChapterID, "", errors.New("boom"))
		assert.NotEmpty(t, s.LoadError())

		// Retreating to the previous chapter recovers.
		back := requireEffect[FetchBody](t, s.PrevPage())
		assert.Equal(t, 31, back.ChapterID)
		s.BodyLoaded(back.Token, back.ChapterID, body(1600), nil)
		assert.Empty(t, s.LoadError())
	})
}

func TestRestoreRace(t *testing.T) {
	bm := &api.Bookmark{ID: 9, PostID: 7, PageNumber: 5, Note: "the storm scene"}
	prog := &api.ReadingProgress{ID: 4, PostID: 7, CurrentPage: 11, TotalPages: 12}

	t.Run("bookmark then progress lands on the progress page", func(t *testing.T) {
		s := newChaptered(t, 9600) // 12 pages
		s.BookmarkLoaded(bm, nil)
		require.Equal(t, 4, s.Page())
		s.ProgressLoaded(prog, nil)
		assert.Equal(t, 10, s.Page())
	})

	t.Run("progress then bookmark lands on the progress page", func(t *testing.T) {
		s := newChaptered(t, 9600)
		s.ProgressLoaded(prog, nil)
		require.Equal(t, 10, s.Page())
		s.BookmarkLoaded(bm, nil)
		assert.Equal(t, 10, s.Page())
	})

	t.Run("user navigation beats late restores", func(t *testing.T) {
		s := newChaptered(t, 9600)
		turnTo(t, s, 2)
		s.ProgressLoaded(prog, nil)
		s.BookmarkLoaded(bm, nil)
		assert.Equal(t, 2, s.Page())
	})

	t.Run("restore waits for the body", func(t *testing.T) {
		s := New(testWork(), 18, t0)
		s.Start()
		effs := s.ChaptersLoaded(testChapters(), nil)
		fetch := requireEffect[FetchBody](t, effs)

		s.ProgressLoaded(prog, nil)
		require.True(t, s.Loading())

		s.BodyLoaded(fetch.Token, fetch.ChapterID, body(9600), nil)
		assert.Equal(t, 10, s.Page())
	})

	t.Run("bookmark selects its chapter", func(t *testing.T) {
		s := newChaptered(t, 9600)
		chID := 32
		effs := s.BookmarkLoaded(&api.Bookmark{ID: 9, PostID: 7, ChapterID: &chID, PageNumber: 3}, nil)

		fetch := requireEffect[FetchBody](t, effs)
		require.Equal(t, 32, fetch.ChapterID)

		s.BodyLoaded(fetch.Token, fetch.ChapterID, body(4000), nil)
		assert.Equal(t, 1, s.ChapterIndex())
		assert.Equal(t, 2, s.Page())
	})

	t.Run("progress position survives a bookmark chapter switch", func(t *testing.T) {
		s := newChaptered(t, 9600)
		s.ProgressLoaded(&api.ReadingProgress{ID: 4, PostID: 7, CurrentPage: 3}, nil)
		require.Equal(t, 2, s.Page())

		chID := 32
		effs := s.BookmarkLoaded(&api.Bookmark{ID: 9, PostID: 7, ChapterID: &chID, PageNumber: 8}, nil)
		fetch := requireEffect[FetchBody](t, effs)

		s.BodyLoaded(fetch.Token, fetch.ChapterID, body(9600), nil)
		assert.Equal(t, 2, s.Page())
	})

	t.Run("stored position clamps to the page count", func(t *testing.T) {
		s := newChaptered(t, 1600) // 2 pages
		s.ProgressLoaded(&api.ReadingProgress{ID: 4, PostID: 7, CurrentPage: 40}, nil)
		assert.Equal(t, 1, s.Page())
	})
}

func TestPageTurns(t *testing.T) {
	t.Run("turn transition commits after the delay", func(t *testing.T) {
		s := newChaptered(t, 1600)

		effs := s.NextPage()
		turn := requireEffect[BeginTurn](t, effs)
		assert.Equal(t, TurnDelay, turn.Delay)
		assert.Equal(t, Turning, s.Turn())
		assert.Equal(t, 0, s.Page())

		effs = s.FinishTurn()
		requireEffect[ScheduleCommit](t, effs)
		assert.Equal(t, TurnIdle, s.Turn())
		assert.Equal(t, 1, s.Page())
	})

	t.Run("input during a turn is dropped", func(t *testing.T) {
		s := newChaptered(t, 4000)
		s.NextPage()
		assert.Empty(t, s.NextPage())
		assert.Empty(t, s.PrevPage())
		s.FinishTurn()
		assert.Equal(t, 1, s.Page())
	})

	t.Run("forward from the last page crosses chapters", func(t *testing.T) {
		s := newChaptered(t, 1600)
		turnTo(t, s, 1)

		fetch := requireEffect[FetchBody](t, s.NextPage())
		assert.Equal(t, 32, fetch.ChapterID)

		s.BodyLoaded(fetch.Token, fetch.ChapterID, body(2400), nil)
		assert.Equal(t, 1, s.ChapterIndex())
		assert.Equal(t, 0, s.Page())
	})

	t.Run("backward from page zero enters the previous chapter", func(t *testing.T) {
		s := newChaptered(t, 1600)
		turnTo(t, s, 1)
		fetch := requireEffect[FetchBody](t, s.NextPage())
		s.BodyLoaded(fetch.Token, fetch.ChapterID, body(2400), nil)

		back := requireEffect[FetchBody](t, s.PrevPage())
		assert.Equal(t, 31, back.ChapterID)
	})

	t.Run("no-op at the end of the last chapter", func(t *testing.T) {
		s := newChaptered(t, 1600)
		fetch := requireEffect[FetchBody](t, s.SelectChapter(2))
		s.BodyLoaded(fetch.Token, fetch.ChapterID, body(800), nil)

		assert.Empty(t, s.NextPage())
		assert.Equal(t, 2, s.ChapterIndex())
		assert.Equal(t, 0, s.Page())
	})

	t.Run("no-op before the first page", func(t *testing.T) {
		s := newChaptered(t, 1600)
		assert.Empty(t, s.PrevPage())
		assert.Equal(t, 0, s.Page())
	})
}

func TestProgressCommits(t *testing.T) {
	t.Run("only the newest debounced commit fires", func(t *testing.T) {
		s := newChaptered(t, 4000)
		s.ProgressLoaded(&api.ReadingProgress{ID: 4, PostID: 7}, nil)

		s.NextPage()
		first := requireEffect[ScheduleCommit](t, s.FinishTurn())
		s.NextPage()
		second := requireEffect[ScheduleCommit](t, s.FinishTurn())
		require.NotEqual(t, first.Seq, second.Seq)

		assert.Empty(t, s.CommitDue(first.Seq))

		put := requireEffect[PutProgress](t, s.CommitDue(second.Seq))
		require.NotNil(t, put.Update.CurrentPage)
		assert.Equal(t, 3, *put.Update.CurrentPage)
		require.NotNil(t, put.Update.TotalPages)
		assert.Equal(t, 7, *put.Update.TotalPages) // 5 pages + 2 unfetched chapters
		require.NotNil(t, put.Update.ProgressPercentage)
		assert.InDelta(t, 100*3.0/7.0, *put.Update.ProgressPercentage, 0.001)
	})

	t.Run("no commit before a progress record exists", func(t *testing.T) {
		s := newChaptered(t, 4000)
		s.NextPage()
		commit := requireEffect[ScheduleCommit](t, s.FinishTurn())
		assert.Empty(t, s.CommitDue(commit.Seq))
	})

	t.Run("server response replaces the local record", func(t *testing.T) {
		s := newChaptered(t, 4000)
		s.ProgressLoaded(&api.ReadingProgress{ID: 4, PostID: 7, ReadingTimeMinutes: 30}, nil)

		s.ProgressSaved(&api.ReadingProgress{ID: 4, PostID: 7, ReadingTimeMinutes: 31, CurrentPage: 2}, nil)
		assert.Equal(t, 31, s.Progress().ReadingTimeMinutes)

		s.ProgressSaved(nil, errors.New("boom"))
		assert.Equal(t, 31, s.Progress().ReadingTimeMinutes)
	})
}

func TestTickMinute(t *testing.T) {
	t.Run("accrues elapsed whole minutes", func(t *testing.T) {
		s := newChaptered(t, 1600)
		s.ProgressLoaded(&api.ReadingProgress{ID: 4, PostID: 7}, nil)

		put := requireEffect[PutProgress](t, s.TickMinute(t0.Add(150*time.Second)))
		require.NotNil(t, put.Update.ReadingTimeMinutes)
		assert.Equal(t, 2, *put.Update.ReadingTimeMinutes)
	})

	t.Run("silent before the first minute", func(t *testing.T) {
		s := newChaptered(t, 1600)
		s.ProgressLoaded(&api.ReadingProgress{ID: 4, PostID: 7}, nil)
		assert.Empty(t, s.TickMinute(t0.Add(30*time.Second)))
	})

	t.Run("silent without a progress record", func(t *testing.T) {
		s := newChaptered(t, 1600)
		assert.Empty(t, s.TickMinute(t0.Add(5*time.Minute)))
	})
}

func TestBookmarkLifecycle(t *testing.T) {
	t.Run("toggle opens note entry, then saves", func(t *testing.T) {
		s := newChaptered(t, 9600)
		turnTo(t, s, 3)

		assert.Empty(t, s.ToggleBookmark())
		require.True(t, s.NoteOpen())
		s.SetNote("the storm scene")

		create := requireEffect[CreateBookmark](t, s.ToggleBookmark())
		assert.Equal(t, 7, create.Create.PostID)
		require.NotNil(t, create.Create.ChapterID)
		assert.Equal(t, 31, *create.Create.ChapterID)
		assert.Equal(t, 4, create.Create.PageNumber)
		assert.Equal(t, "the storm scene", create.Create.Note)

		s.BookmarkSaved(&api.Bookmark{ID: 9, PostID: 7, PageNumber: 4}, nil)
		assert.False(t, s.NoteOpen())
		require.NotNil(t, s.Bookmark())
	})

	t.Run("toggle removes an existing bookmark", func(t *testing.T) {
		s := newChaptered(t, 1600)
		s.BookmarkLoaded(&api.Bookmark{ID: 9, PostID: 7, PageNumber: 1}, nil)

		del := requireEffect[DeleteBookmark](t, s.ToggleBookmark())
		assert.Equal(t, 9, del.ID)

		s.BookmarkDeleted(nil)
		assert.Nil(t, s.Bookmark())
	})

	t.Run("cancel discards the note", func(t *testing.T) {
		s := newChaptered(t, 1600)
		s.ToggleBookmark()
		s.SetNote("half a thought")
		s.CancelNote()

		assert.False(t, s.NoteOpen())
		assert.Nil(t, s.Bookmark())

		s.ToggleBookmark()
		create := requireEffect[CreateBookmark](t, s.SaveBookmark())
		assert.Empty(t, create.Create.Note)
	})

	t.Run("save is refused while a bookmark exists", func(t *testing.T) {
		s := newChaptered(t, 1600)
		s.BookmarkLoaded(&api.Bookmark{ID: 9, PostID: 7, PageNumber: 1}, nil)
		assert.Empty(t, s.SaveBookmark())
	})

	t.Run("failed delete keeps the bookmark", func(t *testing.T) {
		s := newChaptered(t, 1600)
		s.BookmarkLoaded(&api.Bookmark{ID: 9, PostID: 7, PageNumber: 1}, nil)
		s.ToggleBookmark()
		s.BookmarkDeleted(errors.New("boom"))
		assert.NotNil(t, s.Bookmark())
	})
}

func TestSetFontSize(t *testing.T) {
	t.Run("repaginates and clamps the page", func(t *testing.T) {
		s := newChaptered(t, 9600) // 12 pages at 18px
		turnTo(t, s, 11)

		s.SetFontSize(24) // 1066 words per page, 10 pages
		assert.Len(t, s.Pages(), 10)
		assert.Equal(t, 9, s.Page())
	})

	t.Run("clamps to the supported range", func(t *testing.T) {
		s := newChaptered(t, 1600)
		s.SetFontSize(99)
		assert.Equal(t, 24, s.FontSize())
		s.SetFontSize(2)
		assert.Equal(t, 12, s.FontSize())
	})

	t.Run("same size is a no-op", func(t *testing.T) {
		s := newChaptered(t, 1600)
		assert.Empty(t, s.SetFontSize(18))
	})
}

func TestTotalPages(t *testing.T) {
	t.Run("counts unfetched chapters as one page", func(t *testing.T) {
		s := newChaptered(t, 1600)
		assert.Equal(t, 4, s.TotalPages()) // 2 + 1 + 1
	})

	t.Run("refines as chapters are fetched", func(t *testing.T) {
		s := newChaptered(t, 1600)
		fetch := requireEffect[FetchBody](t, s.SelectChapter(1))
		s.BodyLoaded(fetch.Token, fetch.ChapterID, body(2400), nil)
		assert.Equal(t, 6, s.TotalPages()) // 2 + 3 + 1
	})

	t.Run("flat body", func(t *testing.T) {
		s := New(testWork(), 18, t0)
		s.Start()
		s.ChaptersLoaded(nil, nil)
		assert.Equal(t, 2, s.TotalPages())
	})
}
