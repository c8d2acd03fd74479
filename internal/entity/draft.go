package entity

import "time"

const (
	// MaxDraftImages caps the number of photos attached to one draft.
	// A batch that would push the total above the cap is rejected whole.
	MaxDraftImages = 5

	// TitleRuneCount is the exact trimmed length a listing title must have.
	TitleRuneCount = 30

	DraftKeyBase    = "new_add_draft"
	CompleteKeyBase = "new_add_complete"
	UserRecordKey   = "user"

	DefaultCategoryName = "إعلان"
)

// PreviewHandle points at an uploaded preview object. It has to be
// released exactly once, either when its image is removed or when the
// whole session is torn down.
type PreviewHandle struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type DraftImage struct {
	FileName    string
	ContentType string
	Data        []byte
	Preview     PreviewHandle
}

// Draft is the in-progress listing-creation state for one session.
type Draft struct {
	Title        string
	TitleError   string
	Description  string
	Price        string
	Whatsapp     string
	Images       []DraftImage
	CategoryID   string
	CategoryName string
}

// DraftSnapshot is the persisted subset of a Draft. Image payloads are
// never persisted, only their count.
type DraftSnapshot struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Price        string `json:"price"`
	Whatsapp     string `json:"whatsapp"`
	ImagesCount  int    `json:"images_count"`
	CategoryID   string `json:"categoryId"`
	CategoryName string `json:"categoryName"`
}

// CompletedListing is written once at successful submit, under its own
// key, and is consumed by a downstream step rather than read back here.
type CompletedListing struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Price        string    `json:"price"`
	Whatsapp     string    `json:"whatsapp"`
	ImagesCount  int       `json:"images_count"`
	CategoryID   string    `json:"categoryId"`
	CategoryName string    `json:"categoryName"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserRecord is the pre-existing "user" record in the key-value store.
// Only the id matters here; it scopes draft keys per user.
type UserRecord struct {
	ID any `json:"id"`
}
