package user

import (
	"FreshTrack/domain"
	"FreshTrack/entities"
	"FreshTrack/pkg/jwt"
	"context"
	"strings"

	"github.com/google/uuid"
)

type (
	UserService interface {
		SignUp(ctx context.Context, req domain.SignUpRequest) (domain.AuthResponse, error)
		SignIn(ctx context.Context, req domain.SignInRequest) (domain.AuthResponse, error)
		Me(ctx context.Context, userID string) (domain.UserResponse, error)
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
	}
)

var authTypes = map[string]bool{"email": true, "google": true, "github": true}

func NewUserService(userRepository UserRepository, jwtService jwt.JWTService) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
	}
}

// SignUp records a user whose identity was already verified by the identity
// provider and issues a session token. Signing up twice refreshes the profile.
func (s *userService) SignUp(ctx context.Context, req domain.SignUpRequest) (domain.AuthResponse, error) {
	authType := strings.ToLower(strings.TrimSpace(req.AuthType))
	if !authTypes[authType] {
		return domain.AuthResponse{}, domain.ErrInvalidAuthType
	}

	user, err := s.userRepository.UpsertUser(ctx, &entities.User{
		ID:       uuid.New(),
		Name:     strings.TrimSpace(req.Name),
		Email:    normalizeEmail(req.Email),
		PhotoURL: req.PhotoURL,
		AuthType: authType,
	})
	if err != nil {
		return domain.AuthResponse{}, err
	}

	return s.issue(user)
}

func (s *userService) SignIn(ctx context.Context, req domain.SignInRequest) (domain.AuthResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return domain.AuthResponse{}, err
	}
	return s.issue(user)
}

func (s *userService) Me(ctx context.Context, userID string) (domain.UserResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return domain.UserResponse{}, err
	}
	return toUserResponse(user), nil
}

func (s *userService) issue(user *entities.User) (domain.AuthResponse, error) {
	token, err := s.jwtService.GenerateTokenUser(user.ID.String(), user.Email)
	if err != nil {
		return domain.AuthResponse{}, err
	}
	return domain.AuthResponse{User: toUserResponse(user), Token: token}, nil
}

func toUserResponse(user *entities.User) domain.UserResponse {
	return domain.UserResponse{
		ID:        user.ID.String(),
		Name:      user.Name,
		Email:     user.Email,
		PhotoURL:  user.PhotoURL,
		AuthType:  user.AuthType,
		CreatedAt: user.CreatedAt,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
