package registry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/backoffice/internal/fault"
	"github.com/MrJamesThe3rd/backoffice/internal/registry"
)

func TestLookupOrCreateCategory(t *testing.T) {
	existing := uuid.New()

	type testCase struct {
		name      string
		input     string
		setupMock func(m *registry.MockRepository)
		wantID    uuid.UUID
		wantErr   error
	}

	tests := []testCase{
		{
			name:  "Existing",
			input: " Hosting ",
			setupMock: func(m *registry.MockRepository) {
				m.EXPECT().FindCategoryByName(gomock.Any(), "Hosting").
					Return(&registry.Category{ID: existing, Name: "Hosting"}, nil)
			},
			wantID: existing,
		},
		{
			name:  "Created",
			input: "Travel",
			setupMock: func(m *registry.MockRepository) {
				m.EXPECT().FindCategoryByName(gomock.Any(), "Travel").Return(nil, registry.ErrNotFound)
				m.EXPECT().CreateCategory(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, c *registry.Category) error {
						assert.Equal(t, "expense", c.Type)
						c.ID = existing
						return nil
					})
			},
			wantID: existing,
		},
		{
			name:    "EmptyName",
			input:   "   ",
			wantErr: fault.ErrValidation,
		},
		{
			name:  "StoreError",
			input: "Travel",
			setupMock: func(m *registry.MockRepository) {
				m.EXPECT().FindCategoryByName(gomock.Any(), "Travel").Return(nil, errors.New("db down"))
			},
			wantErr: errors.New("db down"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := registry.NewMockRepository(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			id, err := registry.LookupOrCreateCategory(context.Background(), repo, tt.input, "expense")
			if tt.wantErr != nil {
				require.Error(t, err)

				if errors.Is(tt.wantErr, fault.ErrValidation) {
					assert.ErrorIs(t, err, fault.ErrValidation)
				}

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestResolver_MemoizesPerImport(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := registry.NewMockRepository(ctrl)

	catID := uuid.New()
	pmID := uuid.New()

	repo.EXPECT().FindCategoryByName(gomock.Any(), "Rent").
		Return(&registry.Category{ID: catID}, nil).Times(1)
	repo.EXPECT().FindPaymentMethodByName(gomock.Any(), "Bank Transfer").
		Return(nil, registry.ErrNotFound).Times(1)
	repo.EXPECT().CreatePaymentMethod(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, pm *registry.PaymentMethod) error {
			pm.ID = pmID
			return nil
		}).Times(1)

	r := registry.NewResolver(repo)
	ctx := context.Background()

	for range 3 {
		id, err := r.Category(ctx, "Rent", "expense")
		require.NoError(t, err)
		assert.Equal(t, catID, id)

		id, err = r.PaymentMethod(ctx, "Bank Transfer")
		require.NoError(t, err)
		assert.Equal(t, pmID, id)
	}

	// A fresh resolver does not share state with the previous one.
	repo.EXPECT().FindCategoryByName(gomock.Any(), "rent").
		Return(&registry.Category{ID: catID}, nil).Times(1)

	_, err := registry.NewResolver(repo).Category(ctx, "rent", "expense")
	require.NoError(t, err)
}

func TestService_LearnRule(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := registry.NewMockRepository(ctrl)
	svc := registry.NewService(repo)

	catID := uuid.New()

	repo.EXPECT().FindCategoryByName(gomock.Any(), "Software").Return(&registry.Category{ID: catID}, nil)
	repo.EXPECT().CreateRule(gomock.Any(), "GITHUB", catID).Return(nil)

	id, err := svc.LearnRule(context.Background(), "GITHUB", "Software")
	require.NoError(t, err)
	assert.Equal(t, catID, id)

	_, err = svc.LearnRule(context.Background(), " ", "Software")
	assert.ErrorIs(t, err, fault.ErrValidation)
}
