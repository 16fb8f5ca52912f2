package service

import (
	"context"
	"errors"
	"fmt"

	"message_board/internal/common"
	"message_board/internal/common/security"
	"message_board/internal/domain/model"
	"message_board/internal/domain/repository"
)

const maxUsernameLen = 100

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *UserService) Exists(ctx context.Context, username string) (bool, error) {
	return s.userRepo.Exists(ctx, username)
}

func (s *UserService) Get(ctx context.Context, username string) (*model.User, error) {
	return s.userRepo.FindByUsername(ctx, username)
}

// Create stores a new user with a fresh salt and derived digest. Returns
// common.ErrConflict if the username is taken.
func (s *UserService) Create(ctx context.Context, username, password string) (*model.User, error) {
	salt := security.NewSalt()
	user := &model.User{
		Username:     username,
		PasswordHash: security.HashPassword(password, salt),
		PasswordSalt: salt,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// VerifyLogin reports whether the credentials match a stored user. An
// unknown username is false, not an error.
func (s *UserService) VerifyLogin(ctx context.Context, username, password string) (bool, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to find user: %w", err)
	}
	return security.VerifyPassword(password, user.PasswordSalt, user.PasswordHash), nil
}

// Register implements the registration semantics of POST /user: creating a
// user that already exists with the matching password is an idempotent
// success, while a wrong password is a conflict.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	if req.Username == "" || req.Password == "" {
		return nil, common.Errorf("missing username or password: %w", common.ErrValidation)
	}
	if len(req.Username) > maxUsernameLen {
		return nil, common.Errorf("username longer than %d characters: %w", maxUsernameLen, common.ErrValidation)
	}

	exists, err := s.userRepo.Exists(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check user existence: %w", err)
	}
	if exists {
		return s.confirmExisting(ctx, req)
	}

	user, err := s.Create(ctx, req.Username, req.Password)
	if err != nil {
		// A concurrent registration may win the insert between the existence
		// check and here; the unique constraint decides, not the check.
		if errors.Is(err, common.ErrConflict) {
			return s.confirmExisting(ctx, req)
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) confirmExisting(ctx context.Context, req RegisterRequest) (*model.User, error) {
	ok, err := s.VerifyLogin(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.Errorf("username has already been taken: %w", common.ErrConflict)
	}
	return s.userRepo.FindByUsername(ctx, req.Username)
}
