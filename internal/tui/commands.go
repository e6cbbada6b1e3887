package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/inkechoes/leaf/internal/api"
	"github.com/inkechoes/leaf/internal/session"
)

// Messages produced by effect commands and timers.

type chaptersMsg struct {
	chapters []api.Chapter
	err      error
}

type bodyMsg struct {
	token     int
	chapterID int
	body      string
	err       error
}

type bookmarkMsg struct {
	bookmark *api.Bookmark
	err      error
}

type progressMsg struct {
	progress *api.ReadingProgress
	err      error
}

type bookmarkSavedMsg struct {
	bookmark *api.Bookmark
	err      error
}

type bookmarkDeletedMsg struct {
	err error
}

type progressSavedMsg struct {
	progress *api.ReadingProgress
	err      error
}

type turnMsg struct{}

type commitMsg struct {
	seq int
}

type accrualMsg time.Time

// runEffects translates session effects into bubbletea commands.
func (m *Model) runEffects(effs []session.Effect) tea.Cmd {
	if len(effs) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(effs))
	for _, eff := range effs {
		switch e := eff.(type) {
		case session.FetchChapters:
			cmds = append(cmds, m.fetchChapters())
		case session.FetchBody:
			cmds = append(cmds, m.fetchBody(e))
		case session.FetchBookmark:
			cmds = append(cmds, m.fetchBookmark())
		case session.FetchProgress:
			cmds = append(cmds, m.fetchProgress())
		case session.BeginTurn:
			cmds = append(cmds, tea.Tick(e.Delay, func(time.Time) tea.Msg {
				return turnMsg{}
			}))
		case session.ScheduleCommit:
			seq := e.Seq
			cmds = append(cmds, tea.Tick(e.Delay, func(time.Time) tea.Msg {
				return commitMsg{seq: seq}
			}))
		case session.PutProgress:
			cmds = append(cmds, m.putProgress(e))
		case session.CreateBookmark:
			cmds = append(cmds, m.createBookmark(e))
		case session.DeleteBookmark:
			cmds = append(cmds, m.deleteBookmark(e))
		}
	}
	return tea.Batch(cmds...)
}

func (m *Model) fetchChapters() tea.Cmd {
	client, workID := m.client, m.sess.Work().ID
	return func() tea.Msg {
		chs, err := client.ListChapters(context.Background(), workID)
		return chaptersMsg{chapters: chs, err: err}
	}
}

func (m *Model) fetchBody(e session.FetchBody) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ch, err := client.GetChapter(context.Background(), e.ChapterID)
		body := ""
		if err == nil && ch.Content != nil {
			body = ch.Content.Body
		}
		return bodyMsg{token: e.Token, chapterID: e.ChapterID, body: body, err: err}
	}
}

func (m *Model) fetchBookmark() tea.Cmd {
	client, workID := m.client, m.sess.Work().ID
	return func() tea.Msg {
		bm, err := client.GetBookmark(context.Background(), workID)
		return bookmarkMsg{bookmark: bm, err: err}
	}
}

func (m *Model) fetchProgress() tea.Cmd {
	client, workID := m.client, m.sess.Work().ID
	return func() tea.Msg {
		p, err := client.GetProgress(context.Background(), workID)
		return progressMsg{progress: p, err: err}
	}
}

func (m *Model) putProgress(e session.PutProgress) tea.Cmd {
	client, workID := m.client, m.sess.Work().ID
	return func() tea.Msg {
		p, err := client.UpdateProgress(context.Background(), workID, e.Update)
		return progressSavedMsg{progress: p, err: err}
	}
}

func (m *Model) createBookmark(e session.CreateBookmark) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		bm, err := client.CreateBookmark(context.Background(), e.Create)
		return bookmarkSavedMsg{bookmark: bm, err: err}
	}
}

func (m *Model) deleteBookmark(e session.DeleteBookmark) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		err := client.DeleteBookmark(context.Background(), e.ID)
		return bookmarkDeletedMsg{err: err}
	}
}

// accrualTick schedules the next reading-time accrual.
func accrualTick() tea.Cmd {
	return tea.Tick(session.AccrualInterval, func(t time.Time) tea.Msg {
		return accrualMsg(t)
	})
}
