package store

// SearchResult is one full-text search hit over chapter text.
type SearchResult struct {
	ChapterID string `json:"chapter_id"`
	BookID    string `json:"book_id"`
	Slug      string `json:"slug"`
	Title     string `json:"title"`
	Snippet   string `json:"snippet"`
}
