package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"evalku_backend/internals/constants"
	database "evalku_backend/internals/databases"
	"evalku_backend/internals/features/users/auth/blacklist"
	"evalku_backend/internals/features/users/user/dto"
	apperror "evalku_backend/internals/helpers/errors"
)

func newTestService(t *testing.T) (*UserService, *blacklist.InMemoryStore) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))

	store := blacklist.NewInMemoryStore()
	return NewUserService(db, store), store
}

func createReq(email string) *dto.CreateUserRequest {
	return &dto.CreateUserRequest{
		Name:     "Alex",
		Email:    email,
		Password: "supersecret1",
	}
}

func TestCreateUser(t *testing.T) {
	svc, _ := newTestService(t)

	user, err := svc.CreateUser(context.Background(), createReq("alex@school.com"), constants.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, constants.RoleStudent, user.Role)
	assert.Equal(t, constants.UserActive, user.Status)
	assert.NotEqual(t, "supersecret1", user.Password)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateUser(context.Background(), createReq("alex@school.com"), constants.RoleStudent)
	require.NoError(t, err)

	_, err = svc.CreateUser(context.Background(), createReq("alex@school.com"), constants.RoleTeacher)
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
	assert.EqualError(t, err, "Email already registered")
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.CreateUser(context.Background(), createReq("alex@school.com"), constants.RoleStudent)
	require.NoError(t, err)

	user, err := svc.Authenticate(context.Background(), &dto.LoginRequest{Email: "alex@school.com", Password: "supersecret1"})
	require.NoError(t, err)
	assert.Equal(t, "alex@school.com", user.Email)

	_, err = svc.Authenticate(context.Background(), &dto.LoginRequest{Email: "alex@school.com", Password: "wrong"})
	require.Error(t, err)
	assert.True(t, apperror.IsUnauthorized(err))
	assert.EqualError(t, err, "Invalid credentials")

	_, err = svc.Authenticate(context.Background(), &dto.LoginRequest{Email: "nobody@school.com", Password: "x"})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
	assert.EqualError(t, err, "User not found")
}

func TestAuthenticateInactiveAccount(t *testing.T) {
	svc, _ := newTestService(t)
	user, err := svc.CreateUser(context.Background(), createReq("alex@school.com"), constants.RoleStudent)
	require.NoError(t, err)
	require.NoError(t, svc.DeactivateUser(context.Background(), user.ID))

	_, err = svc.Authenticate(context.Background(), &dto.LoginRequest{Email: "alex@school.com", Password: "supersecret1"})
	require.Error(t, err)
	assert.True(t, apperror.IsUnauthorized(err))
	assert.EqualError(t, err, "Account is inactive")
}

func TestUpdateUserEmailConflict(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.CreateUser(context.Background(), createReq("a@school.com"), constants.RoleStudent)
	require.NoError(t, err)
	second, err := svc.CreateUser(context.Background(), createReq("b@school.com"), constants.RoleStudent)
	require.NoError(t, err)

	taken := "a@school.com"
	_, err = svc.UpdateUser(context.Background(), second.ID, &dto.UpdateUserRequest{Email: &taken})
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
}

func TestUpdateUserRoleChangeRevokesSessions(t *testing.T) {
	svc, store := newTestService(t)
	user, err := svc.CreateUser(context.Background(), createReq("alex@school.com"), constants.RoleStudent)
	require.NoError(t, err)
	store.Track(user.ID, "token-1")

	role := "teacher"
	updated, err := svc.UpdateUser(context.Background(), user.ID, &dto.UpdateUserRequest{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, constants.RoleTeacher, updated.Role)
	assert.True(t, store.IsRevoked("token-1"))
}

func TestUpdateUserPasswordRehash(t *testing.T) {
	svc, _ := newTestService(t)
	user, err := svc.CreateUser(context.Background(), createReq("alex@school.com"), constants.RoleStudent)
	require.NoError(t, err)

	newPass := "evenmoresecret2"
	_, err = svc.UpdateUser(context.Background(), user.ID, &dto.UpdateUserRequest{Password: &newPass})
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), &dto.LoginRequest{Email: "alex@school.com", Password: newPass})
	require.NoError(t, err)
	_, err = svc.Authenticate(context.Background(), &dto.LoginRequest{Email: "alex@school.com", Password: "supersecret1"})
	require.Error(t, err)
}

func TestDeactivateUser(t *testing.T) {
	svc, store := newTestService(t)
	user, err := svc.CreateUser(context.Background(), createReq("alex@school.com"), constants.RoleStudent)
	require.NoError(t, err)
	store.Track(user.ID, "token-1")
	store.Track(user.ID, "token-2")

	require.NoError(t, svc.DeactivateUser(context.Background(), user.ID))

	reloaded, err := svc.GetUserByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.UserInactive, reloaded.Status)
	assert.True(t, store.IsRevoked("token-1"))
	assert.True(t, store.IsRevoked("token-2"))

	err = svc.DeactivateUser(context.Background(), user.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
}

func TestGetUsersRoleFilter(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.CreateUser(context.Background(), createReq("s@school.com"), constants.RoleStudent)
	require.NoError(t, err)
	_, err = svc.CreateUser(context.Background(), createReq("t@school.com"), constants.RoleTeacher)
	require.NoError(t, err)

	students := constants.RoleStudent
	users, total, err := svc.GetUsers(context.Background(), &students, 0, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, users, 1)
	assert.Equal(t, constants.RoleStudent, users[0].Role)
}
