package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hasanq/muhasaba/internal/application/auth"
	"github.com/hasanq/muhasaba/internal/application/dto"
	"github.com/hasanq/muhasaba/internal/domain"
	"github.com/hasanq/muhasaba/internal/domain/entity"
	pkgjwt "github.com/hasanq/muhasaba/pkg/jwt"
)

type fakeUserRepo struct {
	users map[string]*entity.User // by ID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entity.User)}
}

func (r *fakeUserRepo) Create(u *entity.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return u, nil
}

func (r *fakeUserRepo) GetByUsername(username string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

const (
	authSecret = "unit-test-secret"
	authIssuer = "muhasaba-test"
)

func newUC(repo *fakeUserRepo) *auth.UseCase {
	return auth.NewUseCase(repo, authSecret, authIssuer, 60)
}

func validRegister() dto.RegisterRequest {
	return dto.RegisterRequest{
		Username: "hasan",
		Email:    "hasan@example.com",
		Password: "s3cret-pass",
		FullName: "Hasan Qadir",
		Role:     entity.RoleSales,
	}
}

func TestRegister_HashesPasswordAndActivates(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newUC(repo)

	resp, err := uc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "hasan", resp.Username)
	assert.Equal(t, entity.RoleSales, resp.Role)
	assert.True(t, resp.Active)

	stored := repo.users[resp.ID]
	require.NotNil(t, stored)
	assert.NotEqual(t, "s3cret-pass", stored.PasswordHash, "the plaintext password must never be stored")
	assert.NotEmpty(t, stored.PasswordHash)
}

func TestRegister_Validation(t *testing.T) {
	uc := newUC(newFakeUserRepo())
	ctx := context.Background()

	in := validRegister()
	in.Username = ""
	_, err := uc.Register(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "empty username")

	in = validRegister()
	in.Password = "short"
	_, err = uc.Register(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "password under 8 chars")

	in = validRegister()
	in.Role = "superuser"
	_, err = uc.Register(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "unknown role")
}

func TestRegister_DuplicateUsername(t *testing.T) {
	uc := newUC(newFakeUserRepo())
	ctx := context.Background()

	_, err := uc.Register(ctx, validRegister())
	require.NoError(t, err)

	_, err = uc.Register(ctx, validRegister())
	assert.ErrorIs(t, err, domain.ErrUsernameAlreadyExists)
}

func TestLogin_IssuesTokenWithRole(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newUC(repo)
	ctx := context.Background()

	reg, err := uc.Register(ctx, validRegister())
	require.NoError(t, err)

	resp, err := uc.Login(ctx, dto.LoginRequest{Username: "hasan", Password: "s3cret-pass"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, reg.ID, resp.User.ID)

	userID, role, err := pkgjwt.Parse(authSecret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.ID, userID)
	assert.Equal(t, entity.RoleSales, role)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newUC(repo)
	ctx := context.Background()

	reg, err := uc.Register(ctx, validRegister())
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Username: "nobody", Password: "whatever1"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "unknown username")

	_, err = uc.Login(ctx, dto.LoginRequest{Username: "hasan", Password: "wrong-pass"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "wrong password")

	repo.users[reg.ID].Active = false
	_, err = uc.Login(ctx, dto.LoginRequest{Username: "hasan", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "deactivated account")
}

func TestMe(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newUC(repo)
	ctx := context.Background()

	reg, err := uc.Register(ctx, validRegister())
	require.NoError(t, err)

	me, err := uc.Me(ctx, reg.ID)
	require.NoError(t, err)
	assert.Equal(t, "hasan", me.Username)

	_, err = uc.Me(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
