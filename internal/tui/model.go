// Package tui renders the reader session state and forwards user intents
// into it as events.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/inkechoes/leaf/internal/api"
	"github.com/inkechoes/leaf/internal/session"
)

// ContentSource is the slice of the platform API the reader consumes.
// *api.Client satisfies it; tests substitute a fake.
type ContentSource interface {
	ListChapters(ctx context.Context, workID int) ([]api.Chapter, error)
	GetChapter(ctx context.Context, chapterID int) (api.Chapter, error)
	GetBookmark(ctx context.Context, workID int) (*api.Bookmark, error)
	CreateBookmark(ctx context.Context, create api.BookmarkCreate) (*api.Bookmark, error)
	DeleteBookmark(ctx context.Context, id int) error
	GetProgress(ctx context.Context, workID int) (*api.ReadingProgress, error)
	UpdateProgress(ctx context.Context, workID int, patch api.ProgressUpdate) (*api.ReadingProgress, error)
}

var _ ContentSource = (*api.Client)(nil)

// Model is the bubbletea model for the book reader.
type Model struct {
	client ContentSource
	sess   *session.Session
	keys   *KeyMap
	styles *Styles

	spin      spinner.Model
	bar       progress.Model
	noteInput textinput.Model

	width  int
	height int
	ready  bool

	// Pure view state, not part of the reading-progress model.
	fullscreen   bool
	showTOC      bool
	showSettings bool
	tocCursor    int

	quitting bool
}

// New creates a reader for the given Work.
func New(client ContentSource, work api.Work, fontSizePx int) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	bar := progress.New(progress.WithDefaultGradient())

	note := textinput.New()
	note.Placeholder = "Add a note for this bookmark..."
	note.CharLimit = 280

	return &Model{
		client:    client,
		sess:      session.New(work, fontSizePx, time.Now()),
		keys:      DefaultKeyMap(),
		styles:    DefaultStyles(),
		spin:      s,
		bar:       bar,
		noteInput: note,
		width:     80,
		height:    24,
	}
}

// Session exposes the underlying session, for tests.
func (m *Model) Session() *session.Session { return m.sess }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("leaf - "+m.sess.Work().Title),
		m.spin.Tick,
		m.runEffects(m.sess.Start()),
		accrualTick(),
	)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		w := msg.Width - 10
		if w > 60 {
			w = 60
		}
		if w > 0 {
			m.bar.Width = w
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.sess.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case chaptersMsg:
		return m, m.runEffects(m.sess.ChaptersLoaded(msg.chapters, msg.err))

	case bodyMsg:
		return m, m.runEffects(m.sess.BodyLoaded(msg.token, msg.chapterID, msg.body, msg.err))

	case bookmarkMsg:
		return m, m.runEffects(m.sess.BookmarkLoaded(msg.bookmark, msg.err))

	case progressMsg:
		return m, m.runEffects(m.sess.ProgressLoaded(msg.progress, msg.err))

	case bookmarkSavedMsg:
		m.sess.BookmarkSaved(msg.bookmark, msg.err)
		if msg.err == nil {
			m.noteInput.Blur()
			m.noteInput.Reset()
		}
		return m, nil

	case bookmarkDeletedMsg:
		m.sess.BookmarkDeleted(msg.err)
		return m, nil

	case progressSavedMsg:
		m.sess.ProgressSaved(msg.progress, msg.err)
		return m, nil

	case turnMsg:
		return m, m.runEffects(m.sess.FinishTurn())

	case commitMsg:
		return m, m.runEffects(m.sess.CommitDue(msg.seq))

	case accrualMsg:
		return m, tea.Batch(
			m.runEffects(m.sess.TickMinute(time.Time(msg))),
			accrualTick(),
		)
	}

	return m, nil
}

// handleKey routes key presses by active overlay.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Note entry captures all typing.
	if m.sess.NoteOpen() {
		switch {
		case key.Matches(msg, m.keys.Back):
			m.sess.CancelNote()
			m.noteInput.Blur()
			m.noteInput.Reset()
			return m, nil
		case msg.Type == tea.KeyEnter:
			return m, m.runEffects(m.sess.SaveBookmark())
		default:
			var cmd tea.Cmd
			m.noteInput, cmd = m.noteInput.Update(msg)
			m.sess.SetNote(m.noteInput.Value())
			return m, cmd
		}
	}

	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}

	if m.showTOC {
		return m.handleTOCKey(msg)
	}
	if m.showSettings {
		return m.handleSettingsKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.NextPage):
		return m, m.runEffects(m.sess.NextPage())

	case key.Matches(msg, m.keys.PrevPage):
		return m, m.runEffects(m.sess.PrevPage())

	case key.Matches(msg, m.keys.Contents):
		if len(m.sess.Chapters()) > 0 {
			m.showTOC = true
			if idx := m.sess.ChapterIndex(); idx >= 0 {
				m.tocCursor = idx
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Settings):
		m.showSettings = true
		return m, nil

	case key.Matches(msg, m.keys.Bookmark):
		effs := m.sess.ToggleBookmark()
		var focus tea.Cmd
		if m.sess.NoteOpen() {
			focus = m.noteInput.Focus()
		}
		return m, tea.Batch(m.runEffects(effs), focus)

	case key.Matches(msg, m.keys.Fullscreen):
		m.fullscreen = !m.fullscreen
		return m, nil

	case key.Matches(msg, m.keys.Back):
		m.fullscreen = false
		return m, nil
	}

	return m, nil
}

func (m *Model) handleTOCKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.tocCursor > 0 {
			m.tocCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.tocCursor < len(m.sess.Chapters())-1 {
			m.tocCursor++
		}
	case key.Matches(msg, m.keys.Select):
		m.showTOC = false
		return m, m.runEffects(m.sess.SelectChapter(m.tocCursor))
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Contents):
		m.showTOC = false
	}
	return m, nil
}

func (m *Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.FontUp):
		return m, m.runEffects(m.sess.SetFontSize(m.sess.FontSize() + 1))
	case key.Matches(msg, m.keys.FontDown):
		return m, m.runEffects(m.sess.SetFontSize(m.sess.FontSize() - 1))
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Settings):
		m.showSettings = false
	}
	return m, nil
}
