package user

import (
	"testing"

	"skybook/models"
	"skybook/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateSetDocument(id string, updateDoc bson.M) error {
	args := m.Called(id, updateDoc)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockUserRepository) List(filter bson.M, opts *options.FindOptions) ([]models.User, error) {
	args := m.Called(filter, opts)
	return args.Get(0).([]models.User), args.Error(1)
}

func newUserService(repo *MockUserRepository) *DefaultUserService {
	return &DefaultUserService{Repo: repo, Logger: zap.NewNop()}
}

func activeUser(password string) *models.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return &models.User{
		ID:           "user-1",
		Name:         "Ada Obi",
		Email:        "ada@example.com",
		PasswordHash: string(hash),
		Role:         models.RoleUser,
		Active:       true,
	}
}

func TestSignup_Success(t *testing.T) {
	repo := &MockUserRepository{}
	service := newUserService(repo)

	repo.On("GetByEmail", "ada@example.com").Return(nil, nil).Once()
	repo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	resp, err := service.Signup(models.SignupRequest{
		Name:     "Ada Obi",
		Email:    "Ada@Example.com",
		Password: "correct-horse",
	})

	assert.NoError(t, err)
	assert.NotNil(t, resp)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "ada@example.com", resp.Email)
	assert.Equal(t, models.RoleUser, resp.Role)

	created := repo.Calls[1].Arguments.Get(0).(*models.User)
	assert.True(t, created.Active)
	assert.NotEqual(t, "correct-horse", created.PasswordHash)
}

func TestSignup_DuplicateEmailRejected(t *testing.T) {
	repo := &MockUserRepository{}
	service := newUserService(repo)

	repo.On("GetByEmail", "ada@example.com").Return(activeUser("pw"), nil).Once()

	resp, err := service.Signup(models.SignupRequest{
		Name:     "Ada Obi",
		Email:    "ada@example.com",
		Password: "correct-horse",
	})

	assert.Nil(t, resp)
	assert.EqualError(t, err, "An account with this email already exists")
	repo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := &MockUserRepository{}
	service := newUserService(repo)

	repo.On("GetByEmail", "ada@example.com").Return(activeUser("right-password"), nil).Once()

	resp, err := service.Login(models.LoginRequest{Email: "ada@example.com", Password: "wrong-password"})

	assert.Nil(t, resp)
	var appErr *utils.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, 401, appErr.Status)
	assert.EqualError(t, err, "Incorrect email or password")
}

func TestLogin_DeactivatedAccountRejected(t *testing.T) {
	repo := &MockUserRepository{}
	service := newUserService(repo)

	usr := activeUser("right-password")
	usr.Active = false
	repo.On("GetByEmail", "ada@example.com").Return(usr, nil).Once()

	resp, err := service.Login(models.LoginRequest{Email: "ada@example.com", Password: "right-password"})

	assert.Nil(t, resp)
	assert.EqualError(t, err, "Incorrect email or password")
}

func TestLogin_Success(t *testing.T) {
	repo := &MockUserRepository{}
	service := newUserService(repo)

	repo.On("GetByEmail", "ada@example.com").Return(activeUser("right-password"), nil).Once()

	resp, err := service.Login(models.LoginRequest{Email: "Ada@example.com", Password: "right-password"})

	assert.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "user-1", resp.ID)
}

func TestUpdateMe_PasswordChangeRejected(t *testing.T) {
	repo := &MockUserRepository{}
	service := newUserService(repo)

	pw := "new-password"
	resp, err := service.UpdateMe(models.Principal{ID: "user-1"}, models.UpdateMeRequest{Password: &pw})

	assert.Nil(t, resp)
	var appErr *utils.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Status)
	repo.AssertNotCalled(t, "Update", mock.Anything)
}

func TestDeleteMe_DeactivatesInsteadOfDeleting(t *testing.T) {
	repo := &MockUserRepository{}
	service := newUserService(repo)

	repo.On("GetByID", "user-1").Return(activeUser("pw"), nil).Once()
	repo.On("UpdateSetDocument", "user-1", mock.MatchedBy(func(doc bson.M) bool {
		return doc["active"] == false
	})).Return(nil).Once()

	err := service.DeleteMe(models.Principal{ID: "user-1"})

	assert.NoError(t, err)
	repo.AssertNotCalled(t, "Delete", mock.Anything)
	repo.AssertExpectations(t)
}

func TestUpdateUser_InvalidRoleRejected(t *testing.T) {
	repo := &MockUserRepository{}
	service := newUserService(repo)

	repo.On("GetByID", "user-1").Return(activeUser("pw"), nil).Once()

	role := "superuser"
	resp, err := service.UpdateUser("user-1", models.UpdateUserRequest{Role: &role})

	assert.Nil(t, resp)
	assert.EqualError(t, err, "Invalid role: superuser")
	repo.AssertNotCalled(t, "Update", mock.Anything)
}
