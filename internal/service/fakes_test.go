package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/apollineguerineau/OnTheFloor/internal/domain"
	"github.com/apollineguerineau/OnTheFloor/internal/repository"
)

// In-memory repository fakes. They mirror the Mongo implementations'
// contracts: list methods sort by the relevant position field, lookups on a
// missing ID return repository.ErrNotFound, and Create assigns an ID plus
// timestamps.

type fakeSessionRepo struct {
	sessions map[primitive.ObjectID]domain.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[primitive.ObjectID]domain.Session)}
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *domain.Session) (primitive.ObjectID, error) {
	session.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now
	r.sessions[session.ID] = *session
	return session.ID, nil
}

func (r *fakeSessionRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Session, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (r *fakeSessionRepo) GetByDateAndUser(ctx context.Context, date time.Time, userID primitive.ObjectID) (*domain.Session, error) {
	for _, s := range r.sessions {
		if s.UserID == userID && s.Date.Format("2006-01-02") == date.Format("2006-01-02") {
			s := s
			return &s, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeSessionRepo) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Session, error) {
	var out []domain.Session
	for _, s := range r.sessions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *fakeSessionRepo) Update(ctx context.Context, session *domain.Session) error {
	if _, ok := r.sessions[session.ID]; !ok {
		return repository.ErrNotFound
	}
	session.UpdatedAt = time.Now().UTC()
	r.sessions[session.ID] = *session
	return nil
}

func (r *fakeSessionRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.sessions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.sessions, id)
	return nil
}

type fakeBlockRepo struct {
	blocks map[primitive.ObjectID]domain.Block
}

func newFakeBlockRepo() *fakeBlockRepo {
	return &fakeBlockRepo{blocks: make(map[primitive.ObjectID]domain.Block)}
}

func (r *fakeBlockRepo) Create(ctx context.Context, block *domain.Block) (primitive.ObjectID, error) {
	block.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	block.CreatedAt = now
	block.UpdatedAt = now
	r.blocks[block.ID] = *block
	return block.ID, nil
}

func (r *fakeBlockRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Block, error) {
	b, ok := r.blocks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &b, nil
}

func (r *fakeBlockRepo) ListBySession(ctx context.Context, sessionID primitive.ObjectID) ([]domain.Block, error) {
	var out []domain.Block
	for _, b := range r.blocks {
		if b.SessionID == sessionID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *fakeBlockRepo) CountBySession(ctx context.Context, sessionID primitive.ObjectID) (int64, error) {
	blocks, _ := r.ListBySession(ctx, sessionID)
	return int64(len(blocks)), nil
}

func (r *fakeBlockRepo) Update(ctx context.Context, block *domain.Block) error {
	if _, ok := r.blocks[block.ID]; !ok {
		return repository.ErrNotFound
	}
	block.UpdatedAt = time.Now().UTC()
	r.blocks[block.ID] = *block
	return nil
}

func (r *fakeBlockRepo) UpdatePosition(ctx context.Context, id primitive.ObjectID, position int) error {
	b, ok := r.blocks[id]
	if !ok {
		return repository.ErrNotFound
	}
	b.Position = position
	r.blocks[id] = b
	return nil
}

func (r *fakeBlockRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.blocks[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.blocks, id)
	return nil
}

func (r *fakeBlockRepo) DeleteBySession(ctx context.Context, sessionID primitive.ObjectID) error {
	for id, b := range r.blocks {
		if b.SessionID == sessionID {
			delete(r.blocks, id)
		}
	}
	return nil
}

type fakeExerciseRepo struct {
	exercises map[primitive.ObjectID]domain.Exercise
}

func newFakeExerciseRepo() *fakeExerciseRepo {
	return &fakeExerciseRepo{exercises: make(map[primitive.ObjectID]domain.Exercise)}
}

func (r *fakeExerciseRepo) Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	if _, err := exercise.Placement(); err != nil {
		return primitive.NilObjectID, err
	}
	exercise.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	exercise.CreatedAt = now
	exercise.UpdatedAt = now
	r.exercises[exercise.ID] = *exercise
	return exercise.ID, nil
}

func (r *fakeExerciseRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	e, ok := r.exercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (r *fakeExerciseRepo) ListBySession(ctx context.Context, sessionID primitive.ObjectID) ([]domain.Exercise, error) {
	free, _ := r.ListFreeBySession(ctx, sessionID)
	var inBlock []domain.Exercise
	for _, e := range r.exercises {
		if e.SessionID == sessionID && e.BlockID != nil {
			inBlock = append(inBlock, e)
		}
	}
	sort.Slice(inBlock, func(i, j int) bool { return *inBlock[i].PositionInBlock < *inBlock[j].PositionInBlock })
	return append(free, inBlock...), nil
}

func (r *fakeExerciseRepo) ListFreeBySession(ctx context.Context, sessionID primitive.ObjectID) ([]domain.Exercise, error) {
	var out []domain.Exercise
	for _, e := range r.exercises {
		if e.SessionID == sessionID && e.BlockID == nil {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return *out[i].Position < *out[j].Position })
	return out, nil
}

func (r *fakeExerciseRepo) ListByBlock(ctx context.Context, blockID primitive.ObjectID) ([]domain.Exercise, error) {
	var out []domain.Exercise
	for _, e := range r.exercises {
		if e.BlockID != nil && *e.BlockID == blockID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return *out[i].PositionInBlock < *out[j].PositionInBlock })
	return out, nil
}

func (r *fakeExerciseRepo) CountFreeBySession(ctx context.Context, sessionID primitive.ObjectID) (int64, error) {
	free, _ := r.ListFreeBySession(ctx, sessionID)
	return int64(len(free)), nil
}

func (r *fakeExerciseRepo) CountByBlock(ctx context.Context, blockID primitive.ObjectID) (int64, error) {
	inBlock, _ := r.ListByBlock(ctx, blockID)
	return int64(len(inBlock)), nil
}

func (r *fakeExerciseRepo) Update(ctx context.Context, exercise *domain.Exercise) error {
	if _, err := exercise.Placement(); err != nil {
		return err
	}
	if _, ok := r.exercises[exercise.ID]; !ok {
		return repository.ErrNotFound
	}
	exercise.UpdatedAt = time.Now().UTC()
	r.exercises[exercise.ID] = *exercise
	return nil
}

func (r *fakeExerciseRepo) UpdatePosition(ctx context.Context, id primitive.ObjectID, position int) error {
	e, ok := r.exercises[id]
	if !ok || e.BlockID != nil {
		return repository.ErrNotFound
	}
	e.Position = &position
	r.exercises[id] = e
	return nil
}

func (r *fakeExerciseRepo) UpdatePositionInBlock(ctx context.Context, id primitive.ObjectID, position int) error {
	e, ok := r.exercises[id]
	if !ok || e.BlockID == nil {
		return repository.ErrNotFound
	}
	e.PositionInBlock = &position
	r.exercises[id] = e
	return nil
}

func (r *fakeExerciseRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.exercises[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.exercises, id)
	return nil
}

func (r *fakeExerciseRepo) DeleteByBlock(ctx context.Context, blockID primitive.ObjectID) error {
	for id, e := range r.exercises {
		if e.BlockID != nil && *e.BlockID == blockID {
			delete(r.exercises, id)
		}
	}
	return nil
}

func (r *fakeExerciseRepo) DeleteBySession(ctx context.Context, sessionID primitive.ObjectID) error {
	for id, e := range r.exercises {
		if e.SessionID == sessionID {
			delete(r.exercises, id)
		}
	}
	return nil
}

type fakeLocationRepo struct {
	locations map[primitive.ObjectID]domain.Location
}

func newFakeLocationRepo() *fakeLocationRepo {
	return &fakeLocationRepo{locations: make(map[primitive.ObjectID]domain.Location)}
}

func (r *fakeLocationRepo) Create(ctx context.Context, location *domain.Location) (primitive.ObjectID, error) {
	location.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	location.CreatedAt = now
	location.UpdatedAt = now
	r.locations[location.ID] = *location
	return location.ID, nil
}

func (r *fakeLocationRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Location, error) {
	l, ok := r.locations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &l, nil
}

func (r *fakeLocationRepo) List(ctx context.Context) ([]domain.Location, error) {
	var out []domain.Location
	for _, l := range r.locations {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeLocationRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.locations[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.locations, id)
	return nil
}

type fakePhotoRepo struct {
	photos map[primitive.ObjectID]domain.Photo
}

func newFakePhotoRepo() *fakePhotoRepo {
	return &fakePhotoRepo{photos: make(map[primitive.ObjectID]domain.Photo)}
}

func (r *fakePhotoRepo) Create(ctx context.Context, photo *domain.Photo) (primitive.ObjectID, error) {
	photo.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	photo.CreatedAt = now
	photo.UpdatedAt = now
	r.photos[photo.ID] = *photo
	return photo.ID, nil
}

func (r *fakePhotoRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Photo, error) {
	p, ok := r.photos[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *fakePhotoRepo) ListBySession(ctx context.Context, sessionID primitive.ObjectID) ([]domain.Photo, error) {
	var out []domain.Photo
	for _, p := range r.photos {
		if p.SessionID == sessionID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakePhotoRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.photos[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.photos, id)
	return nil
}

func (r *fakePhotoRepo) DeleteBySession(ctx context.Context, sessionID primitive.ObjectID) error {
	for id, p := range r.photos {
		if p.SessionID == sessionID {
			delete(r.photos, id)
		}
	}
	return nil
}

type fakeUserRepo struct {
	users map[primitive.ObjectID]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]domain.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	for _, u := range r.users {
		if u.Username == user.Username {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user
	return user.ID, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

// fakeFileStorage records deleted keys and fabricates deterministic URLs.
type fakeFileStorage struct {
	deleted []string
}

func (f *fakeFileStorage) GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error) {
	return fmt.Sprintf("https://storage.test/upload/%s", objectKey), nil
}

func (f *fakeFileStorage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	return fmt.Sprintf("https://storage.test/download/%s", objectKey), nil
}

func (f *fakeFileStorage) DeleteObject(ctx context.Context, objectKey string) error {
	f.deleted = append(f.deleted, objectKey)
	return nil
}

// fixture bundles the fakes with every service wired the way main does it.
type fixture struct {
	sessionRepo  *fakeSessionRepo
	blockRepo    *fakeBlockRepo
	exerciseRepo *fakeExerciseRepo
	locationRepo *fakeLocationRepo
	photoRepo    *fakePhotoRepo
	userRepo     *fakeUserRepo
	storage      *fakeFileStorage

	sessions  SessionService
	blocks    BlockService
	exercises ExerciseService
	photos    PhotoService
	ownership OwnershipService
}

func newFixture() *fixture {
	f := &fixture{
		sessionRepo:  newFakeSessionRepo(),
		blockRepo:    newFakeBlockRepo(),
		exerciseRepo: newFakeExerciseRepo(),
		locationRepo: newFakeLocationRepo(),
		photoRepo:    newFakePhotoRepo(),
		userRepo:     newFakeUserRepo(),
		storage:      &fakeFileStorage{},
	}
	locks := NewSessionLocks()
	f.ownership = NewOwnershipService(f.sessionRepo, f.blockRepo, f.exerciseRepo, f.photoRepo)
	f.sessions = NewSessionService(f.sessionRepo, f.blockRepo, f.exerciseRepo, f.photoRepo, f.locationRepo, f.ownership, locks)
	f.blocks = NewBlockService(f.blockRepo, f.exerciseRepo, f.ownership, locks)
	f.exercises = NewExerciseService(f.exerciseRepo, f.blockRepo, f.ownership, locks)
	f.photos = NewPhotoService(f.photoRepo, f.ownership, f.storage)
	return f
}

// seedSession stores a session owned by userID and returns it.
func (f *fixture) seedSession(userID primitive.ObjectID) *domain.Session {
	session := &domain.Session{
		UserID: userID,
		Name:   "morning workout",
		Date:   time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Type:   domain.SessionWOD,
	}
	f.sessionRepo.Create(context.Background(), session)
	return session
}
