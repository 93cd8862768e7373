package user

import (
	"context"
	"net/url"
	"strings"
	"time"

	"skybook/models"
	"skybook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// TokenDuration is the lifetime of an issued JWT.
const TokenDuration = 72 * time.Hour

func (s *DefaultUserService) Signup(req models.SignupRequest) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.Repo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, utils.NewConflictError("An account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.Create(user); err != nil {
		return nil, err
	}

	token, err := utils.GenerateToken(user.ID, user.Email, user.Role, TokenDuration)
	if err != nil {
		return nil, err
	}

	s.Logger.Info("user registered", zap.String("userID", user.ID))
	return &models.AuthResponse{
		ID:    user.ID,
		Token: token,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}, nil
}

func (s *DefaultUserService) Login(req models.LoginRequest) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.Repo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active {
		return nil, utils.NewUnauthorizedError("Incorrect email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, utils.NewUnauthorizedError("Incorrect email or password")
	}

	token, err := utils.GenerateToken(user.ID, user.Email, user.Role, TokenDuration)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		ID:    user.ID,
		Token: token,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}, nil
}

func (s *DefaultUserService) GetMe(p models.Principal) (*models.User, error) {
	return s.GetUser(p.ID)
}

func (s *DefaultUserService) UpdateMe(p models.Principal, req models.UpdateMeRequest) (*models.User, error) {
	if req.Password != nil {
		return nil, utils.NewValidationError("This route is not for password updates")
	}

	user, err := s.Repo.GetByID(p.ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, utils.NewNotFoundError("User not found")
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != user.Email {
			other, err := s.Repo.GetByEmail(email)
			if err != nil {
				return nil, err
			}
			if other != nil {
				return nil, utils.NewConflictError("An account with this email already exists")
			}
			user.Email = email
		}
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.Repo.Update(user); err != nil {
		return nil, err
	}
	s.invalidateAuthCache(user.ID)
	return user, nil
}

// DeleteMe deactivates the account rather than removing the document, so
// bookings and payments keep their owner reference.
func (s *DefaultUserService) DeleteMe(p models.Principal) error {
	user, err := s.Repo.GetByID(p.ID)
	if err != nil {
		return err
	}
	if user == nil {
		return utils.NewNotFoundError("User not found")
	}

	if err := s.Repo.UpdateSetDocument(p.ID, map[string]interface{}{"active": false}); err != nil {
		return err
	}
	s.invalidateAuthCache(p.ID)
	s.Logger.Info("user deactivated", zap.String("userID", p.ID))
	return nil
}

func (s *DefaultUserService) GetUser(id string) (*models.User, error) {
	user, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, utils.NewNotFoundError("User not found")
	}
	return user, nil
}

func (s *DefaultUserService) ListUsers(query url.Values) ([]models.User, error) {
	features := utils.ParseQueryFeatures(query)
	return s.Repo.List(features.Filter, features.Opts)
}

func (s *DefaultUserService) UpdateUser(id string, req models.UpdateUserRequest) (*models.User, error) {
	user, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, utils.NewNotFoundError("User not found")
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != user.Email {
			other, err := s.Repo.GetByEmail(email)
			if err != nil {
				return nil, err
			}
			if other != nil {
				return nil, utils.NewConflictError("An account with this email already exists")
			}
			user.Email = email
		}
	}
	if req.Role != nil {
		switch *req.Role {
		case models.RoleUser, models.RoleAdmin:
			user.Role = *req.Role
		default:
			return nil, utils.NewValidationError("Invalid role: " + *req.Role)
		}
	}
	if req.Active != nil {
		user.Active = *req.Active
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.Repo.Update(user); err != nil {
		return nil, err
	}
	s.invalidateAuthCache(user.ID)
	return user, nil
}

func (s *DefaultUserService) DeleteUser(id string) error {
	user, err := s.Repo.GetByID(id)
	if err != nil {
		return err
	}
	if user == nil {
		return utils.NewNotFoundError("User not found")
	}
	if err := s.Repo.Delete(id); err != nil {
		return err
	}
	s.invalidateAuthCache(id)
	return nil
}

// invalidateAuthCache drops the cached auth record so role and active
// changes take effect before the TTL expires.
func (s *DefaultUserService) invalidateAuthCache(userID string) {
	client := utils.AuthCacheClient
	if client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Del(ctx, utils.AuthCachePrefix+userID).Err(); err != nil {
		s.Logger.Warn("auth cache invalidation failed",
			zap.String("userID", userID), zap.Error(err))
	}
}
