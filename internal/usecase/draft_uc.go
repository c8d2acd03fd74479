package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shazamohamed705/layatofk-master88-sub001/internal/entity"
	"github.com/shazamohamed705/layatofk-master88-sub001/internal/port/cache"
	"github.com/shazamohamed705/layatofk-master88-sub001/internal/port/storage"
)

var (
	ErrSessionNotFound = errors.New("draft session not found")
	ErrSessionClosed   = errors.New("draft session already closed")
	ErrUnknownField    = errors.New("unknown draft field")
	ErrTooManyImages   = fmt.Errorf("cannot attach more than %d images", entity.MaxDraftImages)
	ErrImageIndex      = errors.New("image index out of range")
	ErrNotSubmittable  = errors.New("fill all fields and add at least one image")
)

// ValidationError carries the inline message for a single field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

type SubmitPublisherInterface interface {
	PublishListingSubmitted(ctx context.Context, rec *entity.CompletedListing, previews []entity.PreviewHandle) error
}

type ModerationNotifierInterface interface {
	NotifyListingSubmitted(rec *entity.CompletedListing) error
}

// IncomingImage is one file from the picker or a drag-drop batch.
type IncomingImage struct {
	FileName    string
	ContentType string
	Data        []byte
}

// DraftManager owns the live draft sessions. The key-value store, the
// preview storage, the publisher and the notifier are injected; the
// manager itself keeps no durable state beyond what it writes through
// the store.
type DraftManager struct {
	store     cache.CacheRepository
	storage   storage.PreviewStorage
	publisher SubmitPublisherInterface
	notifier  ModerationNotifierInterface
	logger    *zap.Logger

	mu       sync.Mutex
	sessions map[string]*DraftSession
}

func NewDraftManager(
	store cache.CacheRepository,
	previewStorage storage.PreviewStorage,
	publisher SubmitPublisherInterface,
	notifier ModerationNotifierInterface,
	logger *zap.Logger,
) *DraftManager {
	return &DraftManager{
		store:     store,
		storage:   previewStorage,
		publisher: publisher,
		notifier:  notifier,
		logger:    logger,
		sessions:  make(map[string]*DraftSession),
	}
}

// ScopedKey derives the storage key for base, suffixed with the id of
// the stored "user" record when one is present and parseable. Without
// a usable record the bare base key is shared by anonymous sessions.
func (m *DraftManager) ScopedKey(ctx context.Context, base string) string {
	raw, err := m.store.Get(ctx, entity.UserRecordKey)
	if err != nil {
		return base
	}
	var rec entity.UserRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return base
	}
	id := formatUserID(rec.ID)
	if id == "" {
		return base
	}
	return base + "_user_" + id
}

func formatUserID(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case json.Number:
		return id.String()
	default:
		return ""
	}
}

// StartSession creates a draft session for the given navigation
// context and pre-populates it from a previously stored snapshot when
// one exists. A missing or corrupt snapshot is not an error; the
// session just starts empty.
func (m *DraftManager) StartSession(ctx context.Context, categoryID, categoryName string) *DraftSession {
	if categoryName == "" {
		categoryName = entity.DefaultCategoryName
	}

	s := &DraftSession{
		ID:      uuid.New().String(),
		manager: m,
		draft: entity.Draft{
			CategoryID:   categoryID,
			CategoryName: categoryName,
		},
		draftKey:    m.ScopedKey(ctx, entity.DraftKeyBase),
		completeKey: m.ScopedKey(ctx, entity.CompleteKeyBase),
		released:    make(map[string]bool),
	}
	s.restore(ctx)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.logger.Info("draft session started",
		zap.String("session_id", s.ID),
		zap.String("category_id", categoryID),
		zap.String("draft_key", s.draftKey),
	)
	return s
}

func (m *DraftManager) Session(id string) (*DraftSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// CloseSession tears a session down and releases every preview handle
// it still owns. Closing an unknown session is an error; closing one
// twice is not reachable because the first close deregisters it.
func (m *DraftManager) CloseSession(ctx context.Context, id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	s.close(ctx)
	return nil
}

// DraftSession serializes all mutations of one Draft. Handlers run
// concurrently, so every entry point takes the session lock.
type DraftSession struct {
	ID      string
	manager *DraftManager

	mu          sync.Mutex
	draft       entity.Draft
	draftKey    string
	completeKey string
	released    map[string]bool
	transferred bool
	closed      bool
}

// Draft returns a copy of the current draft state. The images slice is
// copied so callers cannot mutate session state through it.
func (s *DraftSession) Draft() entity.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.draft
	d.Images = append([]entity.DraftImage(nil), s.draft.Images...)
	return d
}

// UpdateField merges one field edit into the draft. Only the title is
// revalidated inline; everything else is checked at submit.
func (s *DraftSession) UpdateField(ctx context.Context, name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}

	switch name {
	case "title":
		s.draft.Title = value
		s.draft.TitleError = ValidateTitle(value)
	case "description":
		s.draft.Description = value
	case "price":
		s.draft.Price = value
	case "whatsapp":
		s.draft.Whatsapp = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}

	s.persist(ctx)
	return nil
}

// AddImagesFromPicker appends a file-picker batch unfiltered.
func (s *DraftSession) AddImagesFromPicker(ctx context.Context, incoming []IncomingImage) error {
	return s.addImages(ctx, incoming)
}

// AddImagesFromDrop appends a drag-drop batch. Non-image payloads are
// silently dropped from the batch before the capacity check.
func (s *DraftSession) AddImagesFromDrop(ctx context.Context, incoming []IncomingImage) error {
	images := make([]IncomingImage, 0, len(incoming))
	for _, f := range incoming {
		if strings.HasPrefix(f.ContentType, "image/") {
			images = append(images, f)
		}
	}
	return s.addImages(ctx, images)
}

func (s *DraftSession) addImages(ctx context.Context, incoming []IncomingImage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if len(incoming) == 0 {
		return nil
	}
	if len(s.draft.Images)+len(incoming) > entity.MaxDraftImages {
		return ErrTooManyImages
	}

	uploaded := make([]entity.DraftImage, 0, len(incoming))
	for _, f := range incoming {
		handle, err := s.manager.storage.Upload(ctx, f.FileName, f.ContentType, f.Data)
		if err != nil {
			// No partial admission: undo what this batch already uploaded.
			for _, img := range uploaded {
				s.releaseHandle(ctx, img.Preview)
			}
			return fmt.Errorf("DraftSession.addImages: upload failed: %w", err)
		}
		uploaded = append(uploaded, entity.DraftImage{
			FileName:    f.FileName,
			ContentType: f.ContentType,
			Data:        f.Data,
			Preview:     handle,
		})
	}

	s.draft.Images = append(s.draft.Images, uploaded...)
	s.persist(ctx)
	return nil
}

// RemoveImage releases the preview handle at index and drops the image
// payload with it, keeping the rest in order.
func (s *DraftSession) RemoveImage(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if index < 0 || index >= len(s.draft.Images) {
		return ErrImageIndex
	}

	s.releaseHandle(ctx, s.draft.Images[index].Preview)
	s.draft.Images = append(s.draft.Images[:index], s.draft.Images[index+1:]...)
	s.persist(ctx)
	return nil
}

// IsSubmittable reports whether the draft satisfies every submit
// requirement: a valid 30-character title, non-empty description,
// price and contact, and at least one image.
func (s *DraftSession) IsSubmittable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return isSubmittable(&s.draft)
}

func isSubmittable(d *entity.Draft) bool {
	if ValidateTitle(d.Title) != "" {
		return false
	}
	return strings.TrimSpace(d.Description) != "" &&
		strings.TrimSpace(d.Price) != "" &&
		strings.TrimSpace(d.Whatsapp) != "" &&
		len(d.Images) >= 1
}

// Submit re-runs the title validation and the submittability check as
// the authoritative guard, then writes the completed record under its
// own key and hands the listing off to the next step. The stored draft
// snapshot is deleted once the record is written.
func (s *DraftSession) Submit(ctx context.Context) (*entity.CompletedListing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrSessionClosed
	}

	if msg := ValidateTitle(s.draft.Title); msg != "" {
		s.draft.TitleError = msg
		return nil, &ValidationError{Field: "title", Message: msg}
	}
	if !isSubmittable(&s.draft) {
		return nil, ErrNotSubmittable
	}

	rec := &entity.CompletedListing{
		Title:        s.draft.Title,
		Description:  s.draft.Description,
		Price:        s.draft.Price,
		Whatsapp:     s.draft.Whatsapp,
		ImagesCount:  len(s.draft.Images),
		CategoryID:   s.draft.CategoryID,
		CategoryName: s.draft.CategoryName,
		CreatedAt:    time.Now(),
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("DraftSession.Submit: marshal completed record: %w", err)
	}
	if err := s.manager.store.Set(ctx, s.completeKey, data, 0); err != nil {
		s.manager.logger.Warn("failed to store completed listing record",
			zap.String("key", s.completeKey), zap.Error(err))
	}
	if err := s.manager.store.Delete(ctx, s.draftKey); err != nil {
		s.manager.logger.Warn("failed to delete draft snapshot after submit",
			zap.String("key", s.draftKey), zap.Error(err))
	}

	previews := make([]entity.PreviewHandle, len(s.draft.Images))
	for i, img := range s.draft.Images {
		previews[i] = img.Preview
	}

	if s.manager.publisher != nil {
		if err := s.manager.publisher.PublishListingSubmitted(ctx, rec, previews); err != nil {
			s.manager.logger.Warn("failed to publish listing submitted event",
				zap.String("session_id", s.ID), zap.Error(err))
		}
	}
	if s.manager.notifier != nil {
		if err := s.manager.notifier.NotifyListingSubmitted(rec); err != nil {
			s.manager.logger.Warn("failed to notify moderation about submitted listing",
				zap.String("session_id", s.ID), zap.Error(err))
		}
	}

	// Ownership of the preview objects moves to the next step with the
	// hand-off; teardown must not release them anymore.
	s.transferred = true

	s.manager.logger.Info("listing submitted",
		zap.String("session_id", s.ID),
		zap.String("complete_key", s.completeKey),
		zap.Int("images_count", rec.ImagesCount),
	)
	return rec, nil
}

// persist overwrites the stored snapshot after a mutation. Nothing is
// written while title, description and images are all still empty.
// Write failures are logged and otherwise ignored. Caller holds s.mu.
func (s *DraftSession) persist(ctx context.Context) {
	d := &s.draft
	if strings.TrimSpace(d.Title) == "" &&
		strings.TrimSpace(d.Description) == "" &&
		len(d.Images) == 0 {
		return
	}

	snap := entity.DraftSnapshot{
		Title:        d.Title,
		Description:  d.Description,
		Price:        d.Price,
		Whatsapp:     d.Whatsapp,
		ImagesCount:  len(d.Images),
		CategoryID:   d.CategoryID,
		CategoryName: d.CategoryName,
	}
	data, err := json.Marshal(snap)
	if err != nil {
		s.manager.logger.Warn("failed to marshal draft snapshot", zap.Error(err))
		return
	}
	if err := s.manager.store.Set(ctx, s.draftKey, data, 0); err != nil {
		s.manager.logger.Warn("failed to persist draft snapshot",
			zap.String("key", s.draftKey), zap.Error(err))
	}
}

// restore populates the text fields from a stored snapshot. Images are
// never restored. Any read or parse failure is silently ignored.
func (s *DraftSession) restore(ctx context.Context) {
	raw, err := s.manager.store.Get(ctx, s.draftKey)
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			s.manager.logger.Debug("draft snapshot read failed",
				zap.String("key", s.draftKey), zap.Error(err))
		}
		return
	}
	var snap entity.DraftSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		s.manager.logger.Debug("draft snapshot unparsable, starting empty",
			zap.String("key", s.draftKey), zap.Error(err))
		return
	}
	s.draft.Title = snap.Title
	s.draft.Description = snap.Description
	s.draft.Price = snap.Price
	s.draft.Whatsapp = snap.Whatsapp
}

// releaseHandle removes the preview object behind a handle once.
// Repeated calls for the same handle are no-ops. Caller holds s.mu.
func (s *DraftSession) releaseHandle(ctx context.Context, h entity.PreviewHandle) {
	if h.Key == "" || s.released[h.Key] {
		return
	}
	s.released[h.Key] = true
	if err := s.manager.storage.Remove(ctx, h.Key); err != nil {
		s.manager.logger.Warn("failed to release preview handle",
			zap.String("key", h.Key), zap.Error(err))
	}
}

func (s *DraftSession) close(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if !s.transferred {
		for _, img := range s.draft.Images {
			s.releaseHandle(ctx, img.Preview)
		}
	}
	s.draft.Images = nil
}
