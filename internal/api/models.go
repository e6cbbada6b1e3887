package api

// WorkContent is the flat body of a Work, used when it has no chapters.
type WorkContent struct {
	Body          string `json:"body"`
	Description   string `json:"description,omitempty"`
	CoverImageURL string `json:"cover_image_url,omitempty"`
}

// Work is a published piece of writing (article, poem, or book).
// Immutable from the reader's perspective.
type Work struct {
	ID             int          `json:"id"`
	Title          string       `json:"title"`
	Slug           string       `json:"slug"`
	AuthorID       int          `json:"author_id"`
	AuthorUsername string       `json:"author_username,omitempty"`
	ContentType    string       `json:"content_type"`
	CoverImageURL  string       `json:"cover_image_url,omitempty"`
	CreatedAt      string       `json:"created_at"`
	UpdatedAt      string       `json:"updated_at,omitempty"`
	Content        *WorkContent `json:"content,omitempty"`
}

// Body returns the Work's flat body text, or "" when none is present.
func (w Work) Body() string {
	if w.Content == nil {
		return ""
	}
	return w.Content.Body
}

// Description returns the Work's description, or "".
func (w Work) Description() string {
	if w.Content == nil {
		return ""
	}
	return w.Content.Description
}

// ChapterContent is the lazily-fetched body of a chapter.
type ChapterContent struct {
	Body string `json:"body"`
}

// Chapter is an ordered sub-unit of a book-type Work. The list endpoint
// returns chapters without content; GetChapter fills Content in.
type Chapter struct {
	ID        int             `json:"id"`
	PostID    int             `json:"post_id"`
	Title     string          `json:"title"`
	Order     int             `json:"order"`
	CreatedAt string          `json:"created_at"`
	UpdatedAt string          `json:"updated_at,omitempty"`
	Content   *ChapterContent `json:"content,omitempty"`
}

// Bookmark is a single saved reading position with an optional note.
// The backend enforces at most one per (user, Work).
type Bookmark struct {
	ID         int    `json:"id"`
	UserID     int    `json:"user_id"`
	PostID     int    `json:"post_id"`
	ChapterID  *int   `json:"chapter_id,omitempty"`
	PageNumber int    `json:"page_number"`
	Note       string `json:"note,omitempty"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at,omitempty"`
}

// BookmarkCreate is the request body for creating a bookmark.
type BookmarkCreate struct {
	PostID     int    `json:"post_id"`
	ChapterID  *int   `json:"chapter_id,omitempty"`
	PageNumber int    `json:"page_number"`
	Note       string `json:"note,omitempty"`
}

// BookmarkUpdate is the request body for patching a bookmark.
type BookmarkUpdate struct {
	ChapterID  *int    `json:"chapter_id,omitempty"`
	PageNumber *int    `json:"page_number,omitempty"`
	Note       *string `json:"note,omitempty"`
}

// ReadingProgress is the continuously-updated record of how far a user has
// read into a Work. At most one exists per (user, Work).
type ReadingProgress struct {
	ID                 int     `json:"id"`
	UserID             int     `json:"user_id"`
	PostID             int     `json:"post_id"`
	CurrentPage        int     `json:"current_page"`
	TotalPages         int     `json:"total_pages"`
	ProgressPercentage float64 `json:"progress_percentage"`
	ReadingTimeMinutes int     `json:"reading_time_minutes"`
	LastReadAt         string  `json:"last_read_at"`
	CreatedAt          string  `json:"created_at"`
	UpdatedAt          string  `json:"updated_at,omitempty"`
}

// ProgressUpdate is the request body for updating reading progress.
// Nil fields are left untouched by the server.
type ProgressUpdate struct {
	CurrentPage        *int     `json:"current_page,omitempty"`
	TotalPages         *int     `json:"total_pages,omitempty"`
	ProgressPercentage *float64 `json:"progress_percentage,omitempty"`
	ReadingTimeMinutes *int     `json:"reading_time_minutes,omitempty"`
}

// ReadingStats aggregates a user's reading activity across all Works.
type ReadingStats struct {
	TotalBooksRead          int     `json:"total_books_read"`
	TotalReadingTimeMinutes int     `json:"total_reading_time_minutes"`
	TotalPagesRead          int     `json:"total_pages_read"`
	AverageCompletion       float64 `json:"average_completion"`
}
