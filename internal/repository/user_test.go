package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"devconnect/internal/models"
)

func TestUserRepository_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	query := regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1 ORDER BY "users"."id" LIMIT $2`)

	tests := []struct {
		name         string
		userID       uint
		mockBehavior func()
		expectedCode string
		expectedName string
	}{
		{
			name:   "Success",
			userID: 1,
			mockBehavior: func() {
				rows := sqlmock.NewRows([]string{"id", "name", "email"}).
					AddRow(1, "Ada", "ada@example.com")
				mock.ExpectQuery(query).WithArgs(1, 1).WillReturnRows(rows)
			},
			expectedName: "Ada",
		},
		{
			name:   "Not Found",
			userID: 99,
			mockBehavior: func() {
				mock.ExpectQuery(query).WithArgs(99, 1).WillReturnError(gorm.ErrRecordNotFound)
			},
			expectedCode: models.CodeNotFound,
		},
		{
			name:   "Driver Failure",
			userID: 2,
			mockBehavior: func() {
				mock.ExpectQuery(query).WithArgs(2, 1).WillReturnError(errors.New("connection reset"))
			},
			expectedCode: models.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockBehavior()
			user, err := repo.GetByID(ctx, tt.userID)

			if tt.expectedCode != "" {
				assert.True(t, models.IsCode(err, tt.expectedCode), "got %v", err)
				assert.Nil(t, user)
			} else if assert.NoError(t, err) {
				assert.Equal(t, tt.expectedName, user.Name)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_CreateDuplicateIsConflict(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "users"`)).
		WillReturnError(errors.New(`ERROR: duplicate key value violates unique constraint "idx_users_email" (SQLSTATE 23505)`))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.User{Name: "Ada", Email: "ada@example.com", Password: "x"})
	assert.True(t, models.IsCode(err, models.CodeConflict), "got %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_SQLite(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{Name: "Ada", Email: "ada@example.com", Password: "hash"}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotZero(t, user.ID)

	t.Run("duplicate email conflicts", func(t *testing.T) {
		err := repo.Create(ctx, &models.User{Name: "Other", Email: "ada@example.com", Password: "hash"})
		assert.True(t, models.IsCode(err, models.CodeConflict), "got %v", err)
	})

	t.Run("lookup by email", func(t *testing.T) {
		found, err := repo.GetByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, user.ID, found.ID)

		missing, err := repo.GetByEmail(ctx, "nobody@example.com")
		assert.NoError(t, err)
		assert.Nil(t, missing)
	})
}

func TestUserRepository_DeleteAccount(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	owner := createUser(t, db, "owner", "owner@example.com")
	other := createUser(t, db, "other", "other@example.com")

	require.NoError(t, db.Create(&models.Profile{UserID: owner.ID, Status: "Developer"}).Error)
	ownPost := &models.Post{UserID: owner.ID, Text: "mine"}
	otherPost := &models.Post{UserID: other.ID, Text: "theirs"}
	require.NoError(t, db.Create(ownPost).Error)
	require.NoError(t, db.Create(otherPost).Error)
	require.NoError(t, db.Create(&models.Like{PostID: ownPost.ID, UserID: other.ID}).Error)
	require.NoError(t, db.Create(&models.Like{PostID: otherPost.ID, UserID: owner.ID}).Error)
	require.NoError(t, db.Create(&models.Like{PostID: otherPost.ID, UserID: other.ID}).Error)

	require.NoError(t, repo.DeleteAccount(ctx, owner.ID))

	count := func(model any, where string, args ...any) int64 {
		var n int64
		require.NoError(t, db.Model(model).Where(where, args...).Count(&n).Error)
		return n
	}
	assert.Zero(t, count(&models.User{}, "id = ?", owner.ID))
	assert.Zero(t, count(&models.Profile{}, "user_id = ?", owner.ID))
	assert.Zero(t, count(&models.Post{}, "user_id = ?", owner.ID))
	assert.Zero(t, count(&models.Like{}, "user_id = ?", owner.ID))
	assert.Zero(t, count(&models.Like{}, "post_id = ?", ownPost.ID))

	// The other user's data is untouched.
	assert.Equal(t, int64(1), count(&models.Post{}, "id = ?", otherPost.ID))
	assert.Equal(t, int64(1), count(&models.Like{}, "post_id = ?", otherPost.ID))

	err := repo.DeleteAccount(ctx, owner.ID)
	assert.True(t, models.IsCode(err, models.CodeNotFound), "got %v", err)
}
