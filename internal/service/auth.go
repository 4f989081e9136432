package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/haim/bookstore-api/internal/dto"
	"github.com/haim/bookstore-api/internal/model"
	"github.com/haim/bookstore-api/internal/repository"
	"github.com/haim/bookstore-api/internal/token"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrNotResourceOwner   = errors.New("not authorized")
	ErrUserNotFound       = errors.New("user not found")
)

// AuthService orchestrates registration and login over the credential store
// and the token service, and owns identity extraction for protected routes.
type AuthService struct {
	userRepo repository.UserRepository
	tokens   *token.Service
}

func NewAuthService(userRepo repository.UserRepository, tokens *token.Service) *AuthService {
	return &AuthService{userRepo: userRepo, tokens: tokens}
}

func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{Email: req.Email, Name: req.Name, PasswordHash: string(hashed)}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// Concurrent registration can slip past the existence check; the
		// unique constraint is the authority.
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.authResponse(user)
}

func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.authResponse(user)
}

// Authenticate extracts the identity carried by a bearer token. Protected
// routes call this before touching any resource.
func (s *AuthService) Authenticate(raw string) (model.Identity, error) {
	identity, err := s.tokens.Verify(raw)
	if err != nil {
		return model.Identity{}, ErrInvalidToken
	}
	return identity, nil
}

// GetUser returns the public view of a user. A caller may only look up their
// own record; the ownership check runs before the existence check.
func (s *AuthService) GetUser(ctx context.Context, requestedID uuid.UUID, identity model.Identity) (*dto.UserResponse, error) {
	if identity.UserID != requestedID {
		return nil, ErrNotResourceOwner
	}

	user, err := s.userRepo.GetByID(ctx, requestedID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return &dto.UserResponse{ID: user.ID, Email: user.Email}, nil
}

func (s *AuthService) authResponse(user *model.User) (*dto.AuthResponse, error) {
	accessToken, err := s.tokens.Issue(user.Email, user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &dto.AuthResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
		User:        dto.UserResponse{ID: user.ID, Email: user.Email},
	}, nil
}
