package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/haim/bookstore-api/internal/dto"
	"github.com/haim/bookstore-api/internal/model"
	"github.com/haim/bookstore-api/internal/token"
)

type mockUserRepo struct {
	users map[string]*model.User
	byID  map[uuid.UUID]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User), byID: make(map[uuid.UUID]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	m.users[user.Email] = user
	m.byID[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	return m.byID[id], nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	return m.users[email], nil
}

func testTokens(t *testing.T) *token.Service {
	t.Helper()
	tokens, err := token.New("test-secret", "HS256", time.Hour)
	require.NoError(t, err)
	return tokens
}

func TestAuthService_Register(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, testTokens(t))

	resp, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name: "John Doe", Email: "test@example.com", Password: "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, "test@example.com", resp.User.Email)

	// The issued token must carry the stored user's identity.
	identity, err := svc.Authenticate(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, identity.UserID)
	assert.Equal(t, "test@example.com", identity.Email)
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, testTokens(t))

	repo.users["test@example.com"] = &model.User{Email: "test@example.com"}

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name: "John Doe", Email: "test@example.com", Password: "password123",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthService_Login(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, testTokens(t))

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	userID := uuid.New()
	repo.users["test@example.com"] = &model.User{
		ID: userID, Email: "test@example.com", Name: "John Doe", PasswordHash: string(hashed),
	}

	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "test@example.com", Password: "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	identity, err := svc.Authenticate(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, identity.UserID)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, testTokens(t))

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	repo.users["test@example.com"] = &model.User{
		ID: uuid.New(), Email: "test@example.com", PasswordHash: string(hashed),
	}

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "test@example.com", Password: "wrong",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc := NewAuthService(newMockUserRepo(), testTokens(t))

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "nobody@example.com", Password: "password123",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Authenticate_Tampered(t *testing.T) {
	svc := NewAuthService(newMockUserRepo(), testTokens(t))

	other, err := token.New("other-secret", "HS256", time.Hour)
	require.NoError(t, err)
	raw, err := other.Issue("test@example.com", uuid.New())
	require.NoError(t, err)

	_, err = svc.Authenticate(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_GetUser_OwnershipMismatch(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, testTokens(t))

	requested := uuid.New()
	repo.byID[requested] = &model.User{ID: requested, Email: "other@example.com"}

	// Valid identity, wrong user: the ownership check wins over existence.
	_, err := svc.GetUser(context.Background(), requested, model.Identity{
		Email: "me@example.com", UserID: uuid.New(),
	})
	assert.ErrorIs(t, err, ErrNotResourceOwner)
}

func TestAuthService_GetUser(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, testTokens(t))

	userID := uuid.New()
	repo.byID[userID] = &model.User{ID: userID, Email: "me@example.com"}
	identity := model.Identity{Email: "me@example.com", UserID: userID}

	resp, err := svc.GetUser(context.Background(), userID, identity)
	require.NoError(t, err)
	assert.Equal(t, userID, resp.ID)
	assert.Equal(t, "me@example.com", resp.Email)
}

func TestAuthService_GetUser_NotFound(t *testing.T) {
	svc := NewAuthService(newMockUserRepo(), testTokens(t))

	userID := uuid.New()
	_, err := svc.GetUser(context.Background(), userID, model.Identity{UserID: userID})
	assert.ErrorIs(t, err, ErrUserNotFound)
}
