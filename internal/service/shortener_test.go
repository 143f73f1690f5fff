package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/notshort/notshort/internal/events"
	"github.com/notshort/notshort/internal/model"
	"github.com/notshort/notshort/internal/repositories"
	"github.com/notshort/notshort/internal/repositories/mocks"
	"github.com/notshort/notshort/internal/service"
)

const (
	testAlphabet  = "abcdefghijklmnopqrstuvwxyz0123456789"
	testMinLength = 6
)

type stubVisitRepo struct {
	visits []*model.Visit
}

func (s *stubVisitRepo) SaveVisit(_ context.Context, v *model.Visit) error {
	s.visits = append(s.visits, v)
	return nil
}

func (s *stubVisitRepo) ListByUser(_ context.Context, _ string) ([]*model.Visit, error) {
	return s.visits, nil
}

func (s *stubVisitRepo) ListByShortURL(_ context.Context, _ string) ([]*model.Visit, error) {
	return s.visits, nil
}

type stubPublisher struct {
	mu     sync.Mutex
	events []model.VisitEvent
	done   chan struct{}
}

func newStubPublisher() *stubPublisher {
	return &stubPublisher{done: make(chan struct{}, 1)}
}

func (s *stubPublisher) PublishVisit(_ context.Context, event model.VisitEvent) error {
	s.mu.Lock()
	s.events = append(s.events, event)
	s.mu.Unlock()
	s.done <- struct{}{}
	return nil
}

func (s *stubPublisher) Close() error { return nil }

func newShortener(urls repositories.URLRepositoryInterface, visits repositories.VisitRepositoryInterface, pub events.Publisher) *service.ShortenerService {
	return service.NewShortenerService(urls, visits, pub, zap.NewNop(), testAlphabet, testMinLength)
}

func TestCreate_ReturnsExistingRecord(t *testing.T) {
	ctrl := gomock.NewController(t)
	urls := mocks.NewMockURLRepositoryInterface(ctrl)

	existing := &model.ShortURL{ID: "id-1", Slug: "abc123", URL: "https://example.com", UserID: "u-1"}
	urls.EXPECT().GetByURL(gomock.Any(), "https://example.com").Return(existing, nil)

	svc := newShortener(urls, &stubVisitRepo{}, nil)

	rec, created, err := svc.Create(context.Background(), "u-2", "https://example.com")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, existing, rec)
}

func TestCreate_GeneratesSlug(t *testing.T) {
	ctrl := gomock.NewController(t)
	urls := mocks.NewMockURLRepositoryInterface(ctrl)

	urls.EXPECT().GetByURL(gomock.Any(), "https://example.com").Return(nil, nil)
	urls.EXPECT().GetBySlug(gomock.Any(), gomock.Any()).Return(nil, nil)
	urls.EXPECT().SaveShortURL(gomock.Any(), gomock.Any()).Return(nil)

	svc := newShortener(urls, &stubVisitRepo{}, nil)

	rec, created, err := svc.Create(context.Background(), "u-1", "https://example.com")
	require.NoError(t, err)
	assert.True(t, created)
	require.NotNil(t, rec)
	assert.Len(t, rec.Slug, testMinLength)
	assert.Equal(t, "https://example.com", rec.URL)
	assert.Equal(t, "u-1", rec.UserID)
	assert.NotEmpty(t, rec.ID)
}

func TestCreate_LengthProgressionOnCollisions(t *testing.T) {
	ctrl := gomock.NewController(t)
	urls := mocks.NewMockURLRepositoryInterface(ctrl)

	urls.EXPECT().GetByURL(gomock.Any(), gomock.Any()).Return(nil, nil)

	var lengths []int
	urls.EXPECT().GetBySlug(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, slug string) (*model.ShortURL, error) {
			lengths = append(lengths, len(slug))
			return &model.ShortURL{Slug: slug}, nil // every candidate taken
		}).Times(5)

	svc := newShortener(urls, &stubVisitRepo{}, nil)

	_, _, err := svc.Create(context.Background(), "u-1", "https://example.com")
	assert.ErrorIs(t, err, service.ErrSlugExhausted)
	assert.Equal(t, []int{6, 6, 7, 7, 8}, lengths)
}

func TestCreate_RetriesOnInsertRace(t *testing.T) {
	ctrl := gomock.NewController(t)
	urls := mocks.NewMockURLRepositoryInterface(ctrl)

	urls.EXPECT().GetByURL(gomock.Any(), gomock.Any()).Return(nil, nil)
	urls.EXPECT().GetBySlug(gomock.Any(), gomock.Any()).Return(nil, nil).Times(2)
	// First insert loses to a concurrent request, second succeeds.
	urls.EXPECT().SaveShortURL(gomock.Any(), gomock.Any()).Return(repositories.ErrSlugTaken)
	urls.EXPECT().SaveShortURL(gomock.Any(), gomock.Any()).Return(nil)

	svc := newShortener(urls, &stubVisitRepo{}, nil)

	rec, created, err := svc.Create(context.Background(), "u-1", "https://example.com")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotNil(t, rec)
}

func TestUpdate_SlugConflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	urls := mocks.NewMockURLRepositoryInterface(ctrl)

	rec := &model.ShortURL{ID: "id-1", Slug: "mine01", URL: "https://old.example.com", UserID: "u-1"}
	other := &model.ShortURL{ID: "id-2", Slug: "theirs", URL: "https://other.example.com", UserID: "u-2"}

	urls.EXPECT().GetBySlug(gomock.Any(), "mine01").Return(rec, nil)
	urls.EXPECT().GetBySlug(gomock.Any(), "theirs").Return(other, nil)

	svc := newShortener(urls, &stubVisitRepo{}, nil)

	_, _, err := svc.Update(context.Background(), "u-1", model.UpdateRequest{
		Slug:        "mine01",
		UpdatedURL:  "https://new.example.com",
		UpdatedSlug: "theirs",
	})
	assert.ErrorIs(t, err, service.ErrSlugInUse)
}

func TestUpdate_ForeignSlugLooksAbsent(t *testing.T) {
	ctrl := gomock.NewController(t)
	urls := mocks.NewMockURLRepositoryInterface(ctrl)

	rec := &model.ShortURL{ID: "id-1", Slug: "mine01", URL: "https://example.com", UserID: "u-1"}
	urls.EXPECT().GetBySlug(gomock.Any(), "mine01").Return(rec, nil)

	svc := newShortener(urls, &stubVisitRepo{}, nil)

	_, _, err := svc.Update(context.Background(), "u-2", model.UpdateRequest{
		Slug:       "mine01",
		UpdatedURL: "https://new.example.com",
	})
	assert.ErrorIs(t, err, service.ErrSlugNotFound)
}

func TestUpdate_NoChangeIsNoOp(t *testing.T) {
	ctrl := gomock.NewController(t)
	urls := mocks.NewMockURLRepositoryInterface(ctrl)

	rec := &model.ShortURL{ID: "id-1", Slug: "mine01", URL: "https://example.com", UserID: "u-1"}
	urls.EXPECT().GetBySlug(gomock.Any(), "mine01").Return(rec, nil)

	svc := newShortener(urls, &stubVisitRepo{}, nil)

	got, changed, err := svc.Update(context.Background(), "u-1", model.UpdateRequest{
		Slug:       "mine01",
		UpdatedURL: "https://example.com",
	})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, rec, got)
}

func TestDelete_ForeignSlugIgnored(t *testing.T) {
	ctrl := gomock.NewController(t)
	urls := mocks.NewMockURLRepositoryInterface(ctrl)

	rec := &model.ShortURL{ID: "id-1", Slug: "mine01", URL: "https://example.com", UserID: "u-1"}
	urls.EXPECT().GetBySlug(gomock.Any(), "mine01").Return(rec, nil)
	// No DeleteBySlug call expected.

	svc := newShortener(urls, &stubVisitRepo{}, nil)

	err := svc.Delete(context.Background(), "u-2", "mine01")
	assert.NoError(t, err)
}

func TestVisitsBySlug_NotOwned(t *testing.T) {
	ctrl := gomock.NewController(t)
	urls := mocks.NewMockURLRepositoryInterface(ctrl)

	rec := &model.ShortURL{ID: "id-1", Slug: "mine01", UserID: "u-1"}
	urls.EXPECT().GetBySlug(gomock.Any(), "mine01").Return(rec, nil)

	svc := newShortener(urls, &stubVisitRepo{}, nil)

	_, err := svc.VisitsBySlug(context.Background(), "u-2", "mine01")
	assert.ErrorIs(t, err, service.ErrSlugNotFound)
}

func TestResolve_Unknown(t *testing.T) {
	ctrl := gomock.NewController(t)
	urls := mocks.NewMockURLRepositoryInterface(ctrl)

	urls.EXPECT().GetBySlug(gomock.Any(), "nosuch").Return(nil, nil)

	svc := newShortener(urls, &stubVisitRepo{}, nil)

	_, err := svc.Resolve(context.Background(), "nosuch")
	assert.ErrorIs(t, err, service.ErrSlugNotFound)
}

func TestEmitVisit_PublishesEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	urls := mocks.NewMockURLRepositoryInterface(ctrl)

	pub := newStubPublisher()
	svc := newShortener(urls, &stubVisitRepo{}, pub)

	rec := &model.ShortURL{ID: "id-1", Slug: "abc123", URL: "https://example.com", UserID: "u-1"}
	svc.EmitVisit(rec, "203.0.113.7", "curl/8.0")

	select {
	case <-pub.done:
	case <-time.After(time.Second):
		t.Fatal("visit event was not published")
	}

	pub.mu.Lock()
	defer pub.mu.Unlock()
	require.Len(t, pub.events, 1)
	event := pub.events[0]
	assert.Equal(t, model.EventSource, event.Source)
	assert.Equal(t, model.EventDetailType, event.DetailType)
	assert.Equal(t, "abc123", event.Slug)
	assert.Equal(t, "https://example.com", event.LongURL)
	assert.Equal(t, "203.0.113.7", event.SourceIP)
	assert.Equal(t, "curl/8.0", event.UserAgent)
	assert.NotZero(t, event.Timestamp)
}

func TestEmitVisit_NilPublisher(t *testing.T) {
	ctrl := gomock.NewController(t)
	urls := mocks.NewMockURLRepositoryInterface(ctrl)

	svc := newShortener(urls, &stubVisitRepo{}, nil)

	// Must not panic without a broker configured.
	svc.EmitVisit(&model.ShortURL{Slug: "abc123", URL: "https://example.com"}, "", "")
}
