package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/nexaboard/nexaboard-go/internal/crypto"
	"github.com/nexaboard/nexaboard-go/internal/model"
	"github.com/nexaboard/nexaboard-go/internal/repository"
)

func newTestTokens() *crypto.TokenService {
	return crypto.NewTokenService(crypto.TokenConfig{
		Secret: []byte("service-test-secret-0123456789abcdef"),
		TTL:    time.Hour,
	})
}

func newTestAuthService(t *testing.T, users repository.UserRepository) *AuthService {
	t.Helper()
	svc, err := NewAuthService(users, newTestTokens())
	require.NoError(t, err)
	return svc
}

func TestRegisterThenLogin(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := newTestAuthService(t, store.Users)
	tokens := newTestTokens()
	ctx := context.Background()

	reg, err := svc.Register(ctx, model.RegisterRequest{
		Name:     "Ann",
		Email:    "ann@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	require.NotEmpty(t, reg.Token)
	assert.NotEmpty(t, reg.User.ID)
	assert.NotEqual(t, "correct horse", reg.User.PasswordHash)
	assert.True(t, strings.HasPrefix(reg.User.PasswordHash, "$argon2id$"))

	login, err := svc.Login(ctx, model.LoginRequest{Email: "ann@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)

	subject, err := tokens.Validate(login.Token)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", subject)
}

func TestRegister_Validation(t *testing.T) {
	svc := newTestAuthService(t, repository.NewMemoryStore().Users)

	tests := []struct {
		name string
		req  model.RegisterRequest
		want error
	}{
		{name: "empty email", req: model.RegisterRequest{Name: "Ann", Password: "pw"}, want: ErrEmailRequired},
		{name: "blank email", req: model.RegisterRequest{Name: "Ann", Email: "   ", Password: "pw"}, want: ErrEmailRequired},
		{name: "empty password", req: model.RegisterRequest{Name: "Ann", Email: "ann@example.com"}, want: ErrPasswordRequired},
		{name: "empty name", req: model.RegisterRequest{Email: "ann@example.com", Password: "pw"}, want: ErrNameRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRegister_RoleNormalization(t *testing.T) {
	svc := newTestAuthService(t, repository.NewMemoryStore().Users)

	tests := []struct {
		role string
		want model.Role
	}{
		{role: "", want: model.RoleMember},
		{role: "member", want: model.RoleMember},
		{role: "manager", want: model.RoleManager},
		{role: "ADMIN", want: model.RoleAdmin},
		{role: "superuser", want: model.RoleMember},
	}

	for i, tt := range tests {
		t.Run("role "+tt.role, func(t *testing.T) {
			res, err := svc.Register(context.Background(), model.RegisterRequest{
				Name:     "User",
				Email:    "user" + string(rune('a'+i)) + "@example.com",
				Password: "pw",
				Role:     tt.role,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.User.Role)
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := newTestAuthService(t, store.Users)
	ctx := context.Background()

	_, err := svc.Register(ctx, model.RegisterRequest{Name: "Ann", Email: "ann@example.com", Password: "pw"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, model.RegisterRequest{Name: "Other Ann", Email: " ANN@example.com ", Password: "pw2"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	n, err := store.Users.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

// racingUsers reports every email as free, as if a concurrent registration
// has not committed yet, and then fails on insert as the unique index would.
type racingUsers struct {
	repository.UserRepository
}

func (racingUsers) ExistsByEmail(context.Context, string) (bool, error) { return false, nil }

func (racingUsers) Create(context.Context, *model.User) error { return repository.ErrDuplicateEmail }

func TestRegister_DuplicateCaughtByStore(t *testing.T) {
	svc := newTestAuthService(t, racingUsers{})

	_, err := svc.Register(context.Background(), model.RegisterRequest{Name: "Ann", Email: "ann@example.com", Password: "pw"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := newTestAuthService(t, store.Users)
	ctx := context.Background()

	_, err := svc.Register(ctx, model.RegisterRequest{Name: "Ann", Email: "ann@example.com", Password: "right"})
	require.NoError(t, err)

	_, wrongPassword := svc.Login(ctx, model.LoginRequest{Email: "ann@example.com", Password: "wrong"})
	_, unknownEmail := svc.Login(ctx, model.LoginRequest{Email: "nobody@example.com", Password: "right"})

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestLogin_NormalizesEmail(t *testing.T) {
	svc := newTestAuthService(t, repository.NewMemoryStore().Users)
	ctx := context.Background()

	_, err := svc.Register(ctx, model.RegisterRequest{Name: "Ann", Email: "Ann@Example.com", Password: "pw"})
	require.NoError(t, err)

	res, err := svc.Login(ctx, model.LoginRequest{Email: "  ANN@EXAMPLE.COM", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", res.User.Email)
}

type failingUsers struct {
	repository.UserRepository
	err error
}

func (f failingUsers) GetByEmail(context.Context, string) (*model.User, error) { return nil, f.err }

func TestLogin_StoreFailureIsNotInvalidCredentials(t *testing.T) {
	storeDown := errors.New("connection refused")
	svc := newTestAuthService(t, failingUsers{err: storeDown})

	_, err := svc.Login(context.Background(), model.LoginRequest{Email: "ann@example.com", Password: "pw"})
	require.Error(t, err)
	assert.ErrorIs(t, err, storeDown)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_AcceptsLegacyBcryptHash(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := newTestAuthService(t, store.Users)
	ctx := context.Background()

	legacy, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, store.Users.Create(ctx, &model.User{
		Email:        "legacy@example.com",
		Name:         "Legacy",
		PasswordHash: string(legacy),
		Role:         model.RoleMember,
	}))

	_, err = svc.Login(ctx, model.LoginRequest{Email: "legacy@example.com", Password: "password"})
	assert.NoError(t, err)
}

func TestUserByEmail(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := newTestAuthService(t, store.Users)
	ctx := context.Background()

	reg, err := svc.Register(ctx, model.RegisterRequest{Name: "Ann", Email: "ann@example.com", Password: "pw", Role: "Manager"})
	require.NoError(t, err)

	user, err := svc.UserByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, user.ID)
	assert.Equal(t, model.RoleManager, user.Role)

	_, err = svc.UserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
