// Package evaluation provides unit tests for application layer handlers.
package evaluation_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mutugading/marketplace-backend/internal/application/evaluation"
	"github.com/mutugading/marketplace-backend/internal/application/validation"
	"github.com/mutugading/marketplace-backend/internal/domain/actor"
	evaldomain "github.com/mutugading/marketplace-backend/internal/domain/evaluation"
	"github.com/mutugading/marketplace-backend/internal/domain/event"
	"github.com/mutugading/marketplace-backend/internal/domain/provider"
	"github.com/mutugading/marketplace-backend/internal/domain/shared"
)

// MockEvaluationRepository is a mock implementation of evaluation.Repository.
type MockEvaluationRepository struct {
	mock.Mock
}

func (m *MockEvaluationRepository) Create(ctx context.Context, e *evaldomain.Evaluation) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEvaluationRepository) ExistsByUserAndProvider(ctx context.Context, userID, providerID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, providerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEvaluationRepository) ListByProviderID(ctx context.Context, providerID uuid.UUID) ([]*evaldomain.Evaluation, error) {
	args := m.Called(ctx, providerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*evaldomain.Evaluation), args.Error(1)
}

// MockProviderRepository is a mock implementation of provider.Repository.
type MockProviderRepository struct {
	mock.Mock
}

func (m *MockProviderRepository) Create(ctx context.Context, p *provider.Provider) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProviderRepository) GetByID(ctx context.Context, id uuid.UUID) (*provider.Provider, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.Provider), args.Error(1)
}

func (m *MockProviderRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*provider.Provider, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.Provider), args.Error(1)
}

func (m *MockProviderRepository) ExistsByUserID(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProviderRepository) Update(ctx context.Context, p *provider.Provider) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProviderRepository) MarkVerified(ctx context.Context, p *provider.Provider, g *provider.RoleGrant) error {
	return m.Called(ctx, p, g).Error(0)
}

func (m *MockProviderRepository) ListPending(ctx context.Context, filter provider.ListFilter) ([]*provider.Provider, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*provider.Provider), args.Get(1).(int64), args.Error(2)
}

// MockPublisher is a mock implementation of event.Publisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, e event.Event) error {
	return m.Called(ctx, e).Error(0)
}

func newValidator() *validation.Validator {
	return validation.MustNew(validation.CPFCheckerFunc(func(string) bool { return true }), validation.LocaleEN)
}

func newProvider(t *testing.T, ownerID uuid.UUID) *provider.Provider {
	t.Helper()
	p, err := provider.NewProvider(ownerID, provider.Profile{
		CPF:         "52998224725",
		ServiceName: "Jardinagem",
		Categories:  []string{"jardim"},
	})
	require.NoError(t, err)
	return p
}

func newActor() *actor.Actor {
	return &actor.Actor{ID: uuid.New(), Username: "maria", Name: "Maria"}
}

func TestCreateHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("success - notes 1 through 5 are accepted", func(t *testing.T) {
		for note := 1; note <= 5; note++ {
			repo := new(MockEvaluationRepository)
			providers := new(MockProviderRepository)
			publisher := new(MockPublisher)
			handler := evaluation.NewCreateHandler(repo, providers, newValidator(), publisher)

			act := newActor()
			p := newProvider(t, uuid.New())

			providers.On("GetByID", ctx, p.ID()).Return(p, nil)
			repo.On("ExistsByUserAndProvider", ctx, act.ID, p.ID()).Return(false, nil)
			repo.On("Create", ctx, mock.AnythingOfType("*evaluation.Evaluation")).Return(nil)
			publisher.On("Publish", ctx, mock.AnythingOfType("event.Event")).Return(nil)

			result, err := handler.Handle(ctx, act, evaluation.CreateCommand{
				ProviderID: p.ID().String(),
				Note:       note,
				Comment:    "pontual",
			})

			require.NoError(t, err, "note %d", note)
			assert.Equal(t, note, result.Note())
			assert.Equal(t, act.ID, result.UserID())
			assert.Equal(t, p.ID(), result.ProviderID())
			repo.AssertExpectations(t)
			publisher.AssertExpectations(t)
		}
	})

	t.Run("error - notes 0 and 6 fail validation before any read", func(t *testing.T) {
		for _, note := range []int{0, 6} {
			repo := new(MockEvaluationRepository)
			providers := new(MockProviderRepository)
			handler := evaluation.NewCreateHandler(repo, providers, newValidator(), nil)

			result, err := handler.Handle(ctx, newActor(), evaluation.CreateCommand{
				ProviderID: uuid.NewString(),
				Note:       note,
			})

			assert.Nil(t, result)
			assert.ErrorIs(t, err, shared.ErrValidationFailed, "note %d", note)
			providers.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
		}
	})

	t.Run("error - missing actor", func(t *testing.T) {
		handler := evaluation.NewCreateHandler(new(MockEvaluationRepository), new(MockProviderRepository), newValidator(), nil)

		_, err := handler.Handle(ctx, nil, evaluation.CreateCommand{ProviderID: uuid.NewString(), Note: 3})

		assert.ErrorIs(t, err, shared.ErrUnauthenticated)
	})

	t.Run("error - provider not found", func(t *testing.T) {
		providers := new(MockProviderRepository)
		handler := evaluation.NewCreateHandler(new(MockEvaluationRepository), providers, newValidator(), nil)
		id := uuid.New()

		providers.On("GetByID", ctx, id).Return(nil, provider.ErrNotFound)

		_, err := handler.Handle(ctx, newActor(), evaluation.CreateCommand{ProviderID: id.String(), Note: 3})

		assert.ErrorIs(t, err, provider.ErrNotFound)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("error - self evaluation", func(t *testing.T) {
		repo := new(MockEvaluationRepository)
		providers := new(MockProviderRepository)
		handler := evaluation.NewCreateHandler(repo, providers, newValidator(), nil)
		act := newActor()
		p := newProvider(t, act.ID)

		providers.On("GetByID", ctx, p.ID()).Return(p, nil)

		_, err := handler.Handle(ctx, act, evaluation.CreateCommand{ProviderID: p.ID().String(), Note: 5})

		assert.ErrorIs(t, err, evaldomain.ErrSelfReference)
		assert.ErrorIs(t, err, shared.ErrConflict)
		repo.AssertNotCalled(t, "ExistsByUserAndProvider", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("error - second evaluation of the same pair", func(t *testing.T) {
		repo := new(MockEvaluationRepository)
		providers := new(MockProviderRepository)
		handler := evaluation.NewCreateHandler(repo, providers, newValidator(), nil)
		act := newActor()
		p := newProvider(t, uuid.New())

		providers.On("GetByID", ctx, p.ID()).Return(p, nil)
		repo.On("ExistsByUserAndProvider", ctx, act.ID, p.ID()).Return(true, nil)

		_, err := handler.Handle(ctx, act, evaluation.CreateCommand{ProviderID: p.ID().String(), Note: 4})

		assert.ErrorIs(t, err, evaldomain.ErrAlreadyExists)
		assert.ErrorIs(t, err, shared.ErrConflict)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("error - concurrent writer rejected by the store", func(t *testing.T) {
		repo := new(MockEvaluationRepository)
		providers := new(MockProviderRepository)
		handler := evaluation.NewCreateHandler(repo, providers, newValidator(), nil)
		act := newActor()
		p := newProvider(t, uuid.New())

		providers.On("GetByID", ctx, p.ID()).Return(p, nil)
		repo.On("ExistsByUserAndProvider", ctx, act.ID, p.ID()).Return(false, nil)
		repo.On("Create", ctx, mock.Anything).Return(evaldomain.ErrAlreadyExists)

		_, err := handler.Handle(ctx, act, evaluation.CreateCommand{ProviderID: p.ID().String(), Note: 4})

		assert.ErrorIs(t, err, shared.ErrConflict)
	})

	t.Run("success - publish failure does not fail the command", func(t *testing.T) {
		repo := new(MockEvaluationRepository)
		providers := new(MockProviderRepository)
		publisher := new(MockPublisher)
		handler := evaluation.NewCreateHandler(repo, providers, newValidator(), publisher)
		act := newActor()
		p := newProvider(t, uuid.New())

		providers.On("GetByID", ctx, p.ID()).Return(p, nil)
		repo.On("ExistsByUserAndProvider", ctx, act.ID, p.ID()).Return(false, nil)
		repo.On("Create", ctx, mock.Anything).Return(nil)
		publisher.On("Publish", ctx, mock.Anything).Return(assert.AnError)

		result, err := handler.Handle(ctx, act, evaluation.CreateCommand{ProviderID: p.ID().String(), Note: 2})

		require.NoError(t, err)
		assert.NotNil(t, result)
	})
}

func TestListHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("success - returns evaluations with average", func(t *testing.T) {
		repo := new(MockEvaluationRepository)
		providers := new(MockProviderRepository)
		handler := evaluation.NewListHandler(repo, providers)
		p := newProvider(t, uuid.New())

		e1, _ := evaldomain.NewEvaluation(uuid.New(), p.ID(), 4, "")
		e2, _ := evaldomain.NewEvaluation(uuid.New(), p.ID(), 5, "")
		providers.On("GetByID", ctx, p.ID()).Return(p, nil)
		repo.On("ListByProviderID", ctx, p.ID()).Return([]*evaldomain.Evaluation{e1, e2}, nil)

		result, err := handler.Handle(ctx, evaluation.ListQuery{ProviderID: p.ID().String()})

		require.NoError(t, err)
		assert.Equal(t, 2, result.Count)
		assert.InDelta(t, 4.5, result.Average, 0.0001)
	})

	t.Run("error - invalid provider id", func(t *testing.T) {
		handler := evaluation.NewListHandler(new(MockEvaluationRepository), new(MockProviderRepository))

		_, err := handler.Handle(ctx, evaluation.ListQuery{ProviderID: "nope"})

		assert.ErrorIs(t, err, provider.ErrNotFound)
	})
}

func TestExportHandler_Handle(t *testing.T) {
	ctx := context.Background()
	repo := new(MockEvaluationRepository)
	providers := new(MockProviderRepository)
	handler := evaluation.NewExportHandler(repo, providers)
	p := newProvider(t, uuid.New())

	e1, _ := evaldomain.NewEvaluation(uuid.New(), p.ID(), 3, "ok")
	providers.On("GetByID", ctx, p.ID()).Return(p, nil)
	repo.On("ListByProviderID", ctx, p.ID()).Return([]*evaldomain.Evaluation{e1}, nil)

	result, err := handler.Handle(ctx, evaluation.ExportQuery{ProviderID: p.ID().String()})

	require.NoError(t, err)
	assert.Contains(t, result.FileName, p.ID().String())

	f, err := excelize.OpenReader(bytes.NewReader(result.FileContent))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	header, err := f.GetCellValue("Evaluations", "D1")
	require.NoError(t, err)
	assert.Equal(t, "Note", header)

	note, err := f.GetCellValue("Evaluations", "D2")
	require.NoError(t, err)
	assert.Equal(t, "3", note)

	comment, err := f.GetCellValue("Evaluations", "E2")
	require.NoError(t, err)
	assert.Equal(t, "ok", comment)
}
