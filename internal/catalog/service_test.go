package catalog

import (
	"context"
	"testing"
	"time"

	"shelfapi/internal/apperr"
	"shelfapi/internal/entity"
	"shelfapi/internal/platform/openlibrary"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) GetAuthorByID(ctx context.Context, id string) (entity.Author, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(entity.Author), args.Error(1)
}

func (m *mockRepo) GetAuthorBySourceID(ctx context.Context, sourceID string) (entity.Author, error) {
	args := m.Called(ctx, sourceID)
	return args.Get(0).(entity.Author), args.Error(1)
}

func (m *mockRepo) UpsertAuthors(ctx context.Context, authors []entity.Author) ([]entity.Author, error) {
	args := m.Called(ctx, authors)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Author), args.Error(1)
}

func (m *mockRepo) GetWorkByID(ctx context.Context, id string) (entity.Work, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(entity.Work), args.Error(1)
}

func (m *mockRepo) GetWorkBySourceID(ctx context.Context, sourceID string) (entity.Work, error) {
	args := m.Called(ctx, sourceID)
	return args.Get(0).(entity.Work), args.Error(1)
}

func (m *mockRepo) UpsertWork(ctx context.Context, work entity.Work) (entity.Work, error) {
	args := m.Called(ctx, work)
	return args.Get(0).(entity.Work), args.Error(1)
}

func (m *mockRepo) GetEditionBySourceID(ctx context.Context, sourceID string) (entity.Edition, error) {
	args := m.Called(ctx, sourceID)
	return args.Get(0).(entity.Edition), args.Error(1)
}

func (m *mockRepo) UpsertEdition(ctx context.Context, edition entity.Edition) (entity.Edition, error) {
	args := m.Called(ctx, edition)
	return args.Get(0).(entity.Edition), args.Error(1)
}

func (m *mockRepo) SetPrimaryEdition(ctx context.Context, workID, editionID string) error {
	args := m.Called(ctx, workID, editionID)
	return args.Error(0)
}

func (m *mockRepo) EnsureAuthorWorkLink(ctx context.Context, authorID, workID string) error {
	args := m.Called(ctx, authorID, workID)
	return args.Error(0)
}

func (m *mockRepo) CreateManualAuthor(ctx context.Context, author entity.Author) (entity.Author, error) {
	args := m.Called(ctx, author)
	return args.Get(0).(entity.Author), args.Error(1)
}

func (m *mockRepo) CreateManualWork(ctx context.Context, work entity.Work) (entity.Work, error) {
	args := m.Called(ctx, work)
	return args.Get(0).(entity.Work), args.Error(1)
}

func (m *mockRepo) DeleteManualAuthor(ctx context.Context, authorID string) error {
	args := m.Called(ctx, authorID)
	return args.Error(0)
}

func (m *mockRepo) DeleteManualWork(ctx context.Context, workID string) error {
	args := m.Called(ctx, workID)
	return args.Error(0)
}

type mockAuthorSource struct {
	mock.Mock
}

func (m *mockAuthorSource) GetAuthor(ctx context.Context, sourceID string) (*openlibrary.AuthorDetails, error) {
	args := m.Called(ctx, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*openlibrary.AuthorDetails), args.Error(1)
}

func newServiceAt(repo Repository, source AuthorSource, now time.Time) *Service {
	s := NewService(repo, source)
	s.now = func() time.Time { return now }
	return s
}

func TestResolveAuthor_FreshHitSkipsNetwork(t *testing.T) {
	repo := new(mockRepo)
	source := new(mockAuthorSource)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newServiceAt(repo, source, now)

	cached := entity.Author{
		ID:         "a1",
		Name:       "Ursula K. Le Guin",
		Provenance: entity.CatalogProvenance("OL31818A", now.Add(-time.Hour)),
	}
	repo.On("GetAuthorBySourceID", mock.Anything, "OL31818A").Return(cached, nil)

	got, err := svc.ResolveAuthor(context.Background(), "OL31818A")
	require.NoError(t, err)
	assert.Equal(t, cached, got)

	source.AssertNotCalled(t, "GetAuthor", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "UpsertAuthors", mock.Anything, mock.Anything)
}

func TestResolveAuthor_ExpiredRowRefetches(t *testing.T) {
	repo := new(mockRepo)
	source := new(mockAuthorSource)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newServiceAt(repo, source, now)

	stale := entity.Author{
		ID:         "a1",
		Name:       "Old Name",
		Provenance: entity.CatalogProvenance("OL31818A", now.Add(-8*24*time.Hour)),
	}
	repo.On("GetAuthorBySourceID", mock.Anything, "OL31818A").Return(stale, nil)
	source.On("GetAuthor", mock.Anything, "OL31818A").
		Return(&openlibrary.AuthorDetails{SourceID: "OL31818A", Name: "Ursula K. Le Guin"}, nil).
		Once()

	repo.On("UpsertAuthors", mock.Anything, mock.MatchedBy(func(authors []entity.Author) bool {
		if len(authors) != 1 {
			return false
		}
		src := authors[0].Provenance.Catalog
		return src != nil &&
			src.FetchedAt.Equal(now) &&
			src.ExpiresAt.Equal(now.Add(entity.FreshnessTTL))
	})).Return([]entity.Author{{ID: "a1", Name: "Ursula K. Le Guin"}}, nil)

	got, err := svc.ResolveAuthor(context.Background(), "OL31818A")
	require.NoError(t, err)
	assert.Equal(t, "Ursula K. Le Guin", got.Name)

	source.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestResolveAuthor_MissingRowFetchesOnce(t *testing.T) {
	repo := new(mockRepo)
	source := new(mockAuthorSource)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newServiceAt(repo, source, now)

	repo.On("GetAuthorBySourceID", mock.Anything, "OL31818A").
		Return(entity.Author{}, apperr.ErrNotFound)
	source.On("GetAuthor", mock.Anything, "OL31818A").
		Return(&openlibrary.AuthorDetails{SourceID: "OL31818A", Name: "Ursula K. Le Guin"}, nil).
		Once()
	repo.On("UpsertAuthors", mock.Anything, mock.Anything).
		Return([]entity.Author{{ID: "a1", Name: "Ursula K. Le Guin"}}, nil)

	got, err := svc.ResolveAuthor(context.Background(), "/authors/OL31818A")
	require.NoError(t, err)
	assert.Equal(t, "a1", got.ID)

	source.AssertExpectations(t)
}

func TestResolveAuthor_SourceFailurePropagates(t *testing.T) {
	repo := new(mockRepo)
	source := new(mockAuthorSource)
	svc := NewService(repo, source)

	repo.On("GetAuthorBySourceID", mock.Anything, "OL1A").
		Return(entity.Author{}, apperr.ErrNotFound)
	source.On("GetAuthor", mock.Anything, "OL1A").
		Return(nil, apperr.ErrSourceUnavailable)

	_, err := svc.ResolveAuthor(context.Background(), "OL1A")
	assert.ErrorIs(t, err, apperr.ErrSourceUnavailable)
}

func TestCreateManualAuthor_RequiresName(t *testing.T) {
	svc := NewService(new(mockRepo), new(mockAuthorSource))

	_, err := svc.CreateManualAuthor(context.Background(), "u1", "   ")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestDeleteManualAuthor_OwnershipChecks(t *testing.T) {
	tests := []struct {
		name    string
		author  entity.Author
		wantErr error
	}{
		{
			name:    "shared entry rejected",
			author:  entity.Author{ID: "a1", Provenance: entity.CatalogProvenance("OL1A", time.Now())},
			wantErr: apperr.ErrValidation,
		},
		{
			name:    "other owner rejected",
			author:  entity.Author{ID: "a1", Provenance: entity.ManualProvenance("someone-else")},
			wantErr: apperr.ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockRepo)
			svc := NewService(repo, new(mockAuthorSource))
			repo.On("GetAuthorByID", mock.Anything, "a1").Return(tt.author, nil)

			err := svc.DeleteManualAuthor(context.Background(), "u1", "a1")
			assert.ErrorIs(t, err, tt.wantErr)
			repo.AssertNotCalled(t, "DeleteManualAuthor", mock.Anything, mock.Anything)
		})
	}
}

func TestDeleteManualAuthor_OwnerSucceeds(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo, new(mockAuthorSource))

	repo.On("GetAuthorByID", mock.Anything, "a1").
		Return(entity.Author{ID: "a1", Provenance: entity.ManualProvenance("u1")}, nil)
	repo.On("DeleteManualAuthor", mock.Anything, "a1").Return(nil)

	err := svc.DeleteManualAuthor(context.Background(), "u1", "a1")
	require.NoError(t, err)
	repo.AssertExpectations(t)
}
