package store

// Book is one catalog record. The JSON keys match the 100-best-books
// dataset so a downloaded catalog loads without translation. ImageLink is
// a filename relative to the images directory, not a URL.
type Book struct {
	Author    string `json:"author"`
	Country   string `json:"country"`
	ImageLink string `json:"imageLink"`
	Language  string `json:"language"`
	Link      string `json:"link"`
	Pages     int    `json:"pages"`
	Title     string `json:"title"`
	Year      int    `json:"year"`
}

// BookPatch is a partial update. Nil fields keep the record's current
// value; set fields replace it, including explicit zero values.
type BookPatch struct {
	Author    *string `json:"author,omitempty"`
	Country   *string `json:"country,omitempty"`
	ImageLink *string `json:"imageLink,omitempty"`
	Language  *string `json:"language,omitempty"`
	Link      *string `json:"link,omitempty"`
	Pages     *int    `json:"pages,omitempty"`
	Title     *string `json:"title,omitempty"`
	Year      *int    `json:"year,omitempty"`
}

// Apply overlays the patch on b and returns the merged record.
func (p BookPatch) Apply(b Book) Book {
	if p.Author != nil {
		b.Author = *p.Author
	}
	if p.Country != nil {
		b.Country = *p.Country
	}
	if p.ImageLink != nil {
		b.ImageLink = *p.ImageLink
	}
	if p.Language != nil {
		b.Language = *p.Language
	}
	if p.Link != nil {
		b.Link = *p.Link
	}
	if p.Pages != nil {
		b.Pages = *p.Pages
	}
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Year != nil {
		b.Year = *p.Year
	}
	return b
}

// IsZero reports whether the patch sets no fields.
func (p BookPatch) IsZero() bool {
	return p == BookPatch{}
}
