package service

import (
	"context"
	"errors"

	"github.com/lshigami/examhub/internal/apperror"
	"github.com/lshigami/examhub/internal/dto"
	"github.com/lshigami/examhub/internal/lock"
	"github.com/lshigami/examhub/internal/metrics"
	"github.com/lshigami/examhub/internal/model"
	"github.com/lshigami/examhub/internal/repository"
	"github.com/lshigami/examhub/internal/security"
	"github.com/rs/zerolog/log"
)

type UserService interface {
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error)
	GetUser(ctx context.Context, id uint) (*dto.UserResponse, error)
	GetUserByUsername(ctx context.Context, username string) (*dto.UserResponse, error)
	GetUserByEmail(ctx context.Context, email string) (*dto.UserResponse, error)
	GetAllUsers(ctx context.Context) ([]dto.UserResponse, error)
	SearchUsers(ctx context.Context, term string) ([]dto.UserResponse, error)
	UpdateUser(ctx context.Context, id uint, req dto.UpdateUserRequest) (*dto.UserResponse, error)
	DeleteUser(ctx context.Context, id uint) error
}

type userService struct {
	userRepo         repository.UserRepository
	examRepo         repository.ExamRepository
	registrationRepo repository.RegistrationRepository
	hasher           security.PasswordHasher
	locker           lock.Locker
	metrics          *metrics.Metrics
}

func NewUserService(
	userRepo repository.UserRepository,
	examRepo repository.ExamRepository,
	registrationRepo repository.RegistrationRepository,
	hasher security.PasswordHasher,
	locker lock.Locker,
	m *metrics.Metrics,
) UserService {
	return &userService{
		userRepo:         userRepo,
		examRepo:         examRepo,
		registrationRepo: registrationRepo,
		hasher:           hasher,
		locker:           locker,
		metrics:          m,
	}
}

func usernameKey(username string) string { return "user:username:" + username }
func emailKey(email string) string       { return "user:email:" + email }

func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	role := req.Role
	if role == "" {
		role = model.RoleStudent
	}
	if err := validateEnum("role", role); err != nil {
		return nil, err
	}
	if err := requireText("username", req.Username); err != nil {
		return nil, err
	}
	if err := requireText("email", req.Email); err != nil {
		return nil, err
	}

	release, err := acquire(ctx, s.locker, usernameKey(req.Username), emailKey(req.Email))
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.ensureUsernameFree(ctx, req.Username, 0); err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, req.Email, 0); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperror.Internal(err, "hash password")
	}

	user := model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.userRepo.Create(ctx, &user); err != nil {
		return nil, writeErr(err, "create user", "username or email already registered")
	}

	s.metrics.IncrementCreated("user")
	log.Info().Uint("userID", user.ID).Str("role", string(user.Role)).Msg("User created")
	return toResponse[dto.UserResponse](&user), nil
}

// ensureUsernameFree fails when another user than exceptID owns username.
func (s *userService) ensureUsernameFree(ctx context.Context, username string, exceptID uint) error {
	existing, err := s.userRepo.FindByUsername(ctx, username)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil
	case err != nil:
		return storageErr(err, "find user by username")
	case existing.ID != exceptID:
		return apperror.Conflict("username already registered")
	}
	return nil
}

func (s *userService) ensureEmailFree(ctx context.Context, email string, exceptID uint) error {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil
	case err != nil:
		return storageErr(err, "find user by email")
	case existing.ID != exceptID:
		return apperror.Conflict("email already registered")
	}
	return nil
}

func (s *userService) GetUser(ctx context.Context, id uint) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "get user", "user %d not found", id)
	}
	return toResponse[dto.UserResponse](user), nil
}

func (s *userService) GetUserByUsername(ctx context.Context, username string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, lookupErr(err, "get user by username", "user %q not found", username)
	}
	return toResponse[dto.UserResponse](user), nil
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, lookupErr(err, "get user by email", "user with email %q not found", email)
	}
	return toResponse[dto.UserResponse](user), nil
}

func (s *userService) GetAllUsers(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, storageErr(err, "list users")
	}
	return toResponses[dto.UserResponse](users), nil
}

func (s *userService) SearchUsers(ctx context.Context, term string) ([]dto.UserResponse, error) {
	users, err := s.userRepo.Search(ctx, term)
	if err != nil {
		return nil, storageErr(err, "search users")
	}
	return toResponses[dto.UserResponse](users), nil
}

func (s *userService) UpdateUser(ctx context.Context, id uint, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "get user", "user %d not found", id)
	}

	var keys []string
	if req.Username != nil && *req.Username != user.Username {
		if err := requireText("username", *req.Username); err != nil {
			return nil, err
		}
		keys = append(keys, usernameKey(*req.Username))
	}
	if req.Email != nil && *req.Email != user.Email {
		if err := requireText("email", *req.Email); err != nil {
			return nil, err
		}
		keys = append(keys, emailKey(*req.Email))
	}
	if req.Role != nil {
		if err := validateEnum("role", *req.Role); err != nil {
			return nil, err
		}
		user.Role = *req.Role
	}

	release, err := acquire(ctx, s.locker, keys...)
	if err != nil {
		return nil, err
	}
	defer release()

	if req.Username != nil && *req.Username != user.Username {
		if err := s.ensureUsernameFree(ctx, *req.Username, user.ID); err != nil {
			return nil, err
		}
		user.Username = *req.Username
	}
	if req.Email != nil && *req.Email != user.Email {
		if err := s.ensureEmailFree(ctx, *req.Email, user.ID); err != nil {
			return nil, err
		}
		user.Email = *req.Email
	}
	if req.Password != nil {
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, apperror.Internal(err, "hash password")
		}
		user.PasswordHash = hash
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, writeErr(err, "update user", "username or email already registered")
	}
	log.Info().Uint("userID", user.ID).Msg("User updated")
	return toResponse[dto.UserResponse](user), nil
}

// DeleteUser refuses to remove organizers of existing exams and users with
// active registrations. Payments, results and notifications cascade.
func (s *userService) DeleteUser(ctx context.Context, id uint) error {
	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		return lookupErr(err, "get user", "user %d not found", id)
	}

	organized, err := s.examRepo.CountByOrganizer(ctx, id)
	if err != nil {
		return storageErr(err, "count organized exams")
	}
	if organized > 0 {
		return apperror.Conflict("user organizes %d exam(s) and cannot be deleted", organized)
	}

	registered, err := s.registrationRepo.CountActiveByUser(ctx, id)
	if err != nil {
		return storageErr(err, "count active registrations")
	}
	if registered > 0 {
		return apperror.Conflict("user has %d active registration(s) and cannot be deleted", registered)
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return lookupErr(err, "delete user", "user %d not found", id)
	}
	log.Info().Uint("userID", id).Msg("User deleted")
	return nil
}
