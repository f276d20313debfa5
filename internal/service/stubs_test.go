package service

import (
	"context"
	"mime/multipart"
	"path"

	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/storage"

	"gorm.io/gorm"
)

func uploadHeaderNamed(name string) *multipart.FileHeader {
	return &multipart.FileHeader{Filename: name}
}

// fakeFiles records storage calls in order so tests can assert the ordering
// between database commits and file operations.
type fakeFiles struct {
	nextURL  string
	nextSize int64
	saveErr  error
	events   []string
}

func (f *fakeFiles) Save(_ context.Context, _ *multipart.FileHeader, _ storage.Kind, _ string) (*storage.SavedFile, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	f.events = append(f.events, "save:"+f.nextURL)
	return &storage.SavedFile{
		URL:  f.nextURL,
		Name: path.Base(f.nextURL),
		Size: f.nextSize,
	}, nil
}

func (f *fakeFiles) DeleteByURL(_ context.Context, url string) {
	f.events = append(f.events, "delete:"+url)
}

type stubPostRepo struct {
	listFn        func(ctx context.Context, params repository.ListPostsParams) ([]models.PostWithDetails, int64, error)
	getFn         func(ctx context.Context, id uint, includeDeleted bool) (*models.PostWithDetails, error)
	createFn      func(ctx context.Context, post *models.Post) error
	updateFn      func(ctx context.Context, post *models.Post) error
	updateCoverFn func(ctx context.Context, id uint, coverURL *string) (*string, error)
	softDeleteFn  func(ctx context.Context, id uint) error
}

func (s *stubPostRepo) List(ctx context.Context, params repository.ListPostsParams) ([]models.PostWithDetails, int64, error) {
	return s.listFn(ctx, params)
}

func (s *stubPostRepo) GetByID(ctx context.Context, id uint, includeDeleted bool) (*models.PostWithDetails, error) {
	return s.getFn(ctx, id, includeDeleted)
}

func (s *stubPostRepo) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}

func (s *stubPostRepo) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}

func (s *stubPostRepo) UpdateCover(ctx context.Context, id uint, coverURL *string) (*string, error) {
	return s.updateCoverFn(ctx, id, coverURL)
}

func (s *stubPostRepo) SoftDelete(ctx context.Context, id uint) error {
	return s.softDeleteFn(ctx, id)
}

type stubCategoryRepo struct {
	categories map[uint]*models.Category
	deleteErr  error
	createErr  error
}

func (s *stubCategoryRepo) List(context.Context) ([]models.Category, error) {
	out := make([]models.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (s *stubCategoryRepo) GetByID(_ context.Context, id uint) (*models.Category, error) {
	if c, ok := s.categories[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCategoryRepo) Create(_ context.Context, category *models.Category) error {
	if s.createErr != nil {
		return s.createErr
	}
	category.ID = uint(len(s.categories) + 1)
	if s.categories == nil {
		s.categories = map[uint]*models.Category{}
	}
	s.categories[category.ID] = category
	return nil
}

func (s *stubCategoryRepo) Update(_ context.Context, category *models.Category) error {
	s.categories[category.ID] = category
	return nil
}

func (s *stubCategoryRepo) Delete(_ context.Context, id uint) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	if _, ok := s.categories[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.categories, id)
	return nil
}

type stubTagRepo struct {
	tags       map[uint]*models.Tag
	assigned   map[uint][]uint // postID -> tagIDs
	replaceErr error
}

func (s *stubTagRepo) List(context.Context) ([]models.Tag, error) {
	out := make([]models.Tag, 0, len(s.tags))
	for _, t := range s.tags {
		out = append(out, *t)
	}
	return out, nil
}

func (s *stubTagRepo) GetByID(_ context.Context, id uint) (*models.Tag, error) {
	if t, ok := s.tags[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubTagRepo) Create(_ context.Context, tag *models.Tag) error {
	tag.ID = uint(len(s.tags) + 1)
	if s.tags == nil {
		s.tags = map[uint]*models.Tag{}
	}
	s.tags[tag.ID] = tag
	return nil
}

func (s *stubTagRepo) Update(_ context.Context, tag *models.Tag) error {
	s.tags[tag.ID] = tag
	return nil
}

func (s *stubTagRepo) Delete(_ context.Context, id uint) error {
	if _, ok := s.tags[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.tags, id)
	return nil
}

func (s *stubTagRepo) ListByPost(_ context.Context, postID uint) ([]models.Tag, error) {
	var out []models.Tag
	for _, id := range s.assigned[postID] {
		if t, ok := s.tags[id]; ok {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (s *stubTagRepo) ReplacePostTags(_ context.Context, postID uint, tagIDs []uint) error {
	if s.replaceErr != nil {
		return s.replaceErr
	}
	for _, id := range tagIDs {
		if _, ok := s.tags[id]; !ok {
			return repository.ErrUnknownTags
		}
	}
	if s.assigned == nil {
		s.assigned = map[uint][]uint{}
	}
	s.assigned[postID] = tagIDs
	return nil
}

type stubMusicRepo struct {
	tracks        map[uint]*models.Music
	createErr     error
	updateCoverFn func(ctx context.Context, id uint, coverURL *string) (*string, error)
}

func (s *stubMusicRepo) List(context.Context) ([]models.Music, error) {
	out := make([]models.Music, 0, len(s.tracks))
	for _, m := range s.tracks {
		out = append(out, *m)
	}
	return out, nil
}

func (s *stubMusicRepo) GetByID(_ context.Context, id uint) (*models.Music, error) {
	if m, ok := s.tracks[id]; ok && m.Status != models.MusicStatusDeleted {
		return m, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubMusicRepo) Create(_ context.Context, track *models.Music) error {
	if s.createErr != nil {
		return s.createErr
	}
	track.ID = uint(len(s.tracks) + 1)
	if s.tracks == nil {
		s.tracks = map[uint]*models.Music{}
	}
	s.tracks[track.ID] = track
	return nil
}

func (s *stubMusicRepo) Update(_ context.Context, track *models.Music) error {
	s.tracks[track.ID] = track
	return nil
}

func (s *stubMusicRepo) UpdateCover(ctx context.Context, id uint, coverURL *string) (*string, error) {
	return s.updateCoverFn(ctx, id, coverURL)
}

func (s *stubMusicRepo) SoftDelete(_ context.Context, id uint) error {
	track, ok := s.tracks[id]
	if !ok || track.Status == models.MusicStatusDeleted {
		return gorm.ErrRecordNotFound
	}
	track.Status = models.MusicStatusDeleted
	return nil
}

type stubDownloadRepo struct {
	downloads map[uint]*models.Download
	createErr error
	deleted   []uint
}

func (s *stubDownloadRepo) List(context.Context) ([]models.Download, error) {
	out := make([]models.Download, 0, len(s.downloads))
	for _, d := range s.downloads {
		out = append(out, *d)
	}
	return out, nil
}

func (s *stubDownloadRepo) GetByID(_ context.Context, id uint) (*models.Download, error) {
	if d, ok := s.downloads[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubDownloadRepo) Create(_ context.Context, download *models.Download) error {
	if s.createErr != nil {
		return s.createErr
	}
	download.ID = uint(len(s.downloads) + 1)
	if s.downloads == nil {
		s.downloads = map[uint]*models.Download{}
	}
	s.downloads[download.ID] = download
	return nil
}

func (s *stubDownloadRepo) Delete(_ context.Context, id uint) error {
	if _, ok := s.downloads[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.downloads, id)
	s.deleted = append(s.deleted, id)
	return nil
}

type stubUserRepo struct {
	users map[string]*models.User
}

func (s *stubUserRepo) Create(_ context.Context, user *models.User) error {
	if s.users == nil {
		s.users = map[string]*models.User{}
	}
	if _, ok := s.users[user.Username]; ok {
		return gorm.ErrDuplicatedKey
	}
	user.ID = uint(len(s.users) + 1)
	s.users[user.Username] = user
	return nil
}

func (s *stubUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	if u, ok := s.users[username]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubChatRepo struct {
	sessions map[string][]models.ChatMessage
}

func (s *stubChatRepo) EnsureSession(_ context.Context, sessionID string) error {
	if s.sessions == nil {
		s.sessions = map[string][]models.ChatMessage{}
	}
	if _, ok := s.sessions[sessionID]; !ok {
		s.sessions[sessionID] = nil
	}
	return nil
}

func (s *stubChatRepo) ListSessions(context.Context) ([]models.ChatSession, error) {
	out := make([]models.ChatSession, 0, len(s.sessions))
	for id := range s.sessions {
		out = append(out, models.ChatSession{ID: id})
	}
	return out, nil
}

func (s *stubChatRepo) DeleteSession(_ context.Context, sessionID string) error {
	if _, ok := s.sessions[sessionID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.sessions, sessionID)
	return nil
}

func (s *stubChatRepo) ListMessages(_ context.Context, sessionID string, _ int) ([]models.ChatMessage, error) {
	return s.sessions[sessionID], nil
}

func (s *stubChatRepo) AddMessage(ctx context.Context, message *models.ChatMessage) error {
	if err := s.EnsureSession(ctx, message.SessionID); err != nil {
		return err
	}
	message.ID = uint(len(s.sessions[message.SessionID]) + 1)
	s.sessions[message.SessionID] = append(s.sessions[message.SessionID], *message)
	return nil
}
