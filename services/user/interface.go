package user

import (
	"net/url"

	userRepo "skybook/database/repository/user"
	"skybook/models"

	"go.uber.org/zap"
)

// UserService covers account registration, authentication and profile
// management, plus the admin account operations.
type UserService interface {
	Signup(req models.SignupRequest) (*models.AuthResponse, error)
	Login(req models.LoginRequest) (*models.AuthResponse, error)

	GetMe(p models.Principal) (*models.User, error)
	UpdateMe(p models.Principal, req models.UpdateMeRequest) (*models.User, error)
	DeleteMe(p models.Principal) error

	GetUser(id string) (*models.User, error)
	ListUsers(query url.Values) ([]models.User, error)
	UpdateUser(id string, req models.UpdateUserRequest) (*models.User, error)
	DeleteUser(id string) error
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo   userRepo.UserRepository
	Logger *zap.Logger
}
