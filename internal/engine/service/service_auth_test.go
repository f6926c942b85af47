package service

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/go-pancake/pancake/internal/engine/model"
	"github.com/go-pancake/pancake/pkg/http"
	"github.com/go-pancake/pancake/pkg/http/auth/jwt"
	"github.com/go-pancake/pancake/pkg/id"
	"github.com/go-pancake/pancake/pkg/log"
	goJwt "github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	log.MustInit(log.SetDefaults())
	os.Exit(m.Run())
}

// fakeUserRepo 内存实现，覆盖认证路径用到的方法
type fakeUserRepo struct {
	users  map[int64]*model.User
	byName map[string]*model.User
	tokens map[string]*model.TokenInfo
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	f := &fakeUserRepo{
		users:  make(map[int64]*model.User),
		byName: make(map[string]*model.User),
		tokens: make(map[string]*model.TokenInfo),
	}
	for _, u := range users {
		f.users[u.ID] = u
		f.byName[u.Username] = u
	}
	return f
}

func (f *fakeUserRepo) LoadUserWithRolesAndMenus(_ context.Context, userId int64) (*model.User, error) {
	return f.users[userId], nil
}

func (f *fakeUserRepo) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	return f.byName[username], nil
}

func (f *fakeUserRepo) GetUserById(_ context.Context, userId int64) (*model.User, error) {
	return f.users[userId], nil
}

func (f *fakeUserRepo) GetUserList(_ context.Context, _ *model.UserListReq) ([]*model.User, int64, error) {
	return nil, 0, nil
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *model.User) error {
	f.users[user.ID] = user
	f.byName[user.Username] = user
	return nil
}

func (f *fakeUserRepo) UpdateUser(_ context.Context, _ int64, _ map[string]any) error { return nil }

func (f *fakeUserRepo) ReplaceUserRoles(_ context.Context, _ *model.User, _ []*model.Role) error {
	return nil
}

func (f *fakeUserRepo) DeleteUsers(_ context.Context, userIds []int64) error {
	for _, userId := range userIds {
		if u, ok := f.users[userId]; ok {
			delete(f.byName, u.Username)
			delete(f.users, userId)
		}
	}
	return nil
}

func (f *fakeUserRepo) SetToken(_ context.Context, userId string, info *model.TokenInfo, _ *http.Auth) error {
	f.tokens[userId] = info
	return nil
}

func (f *fakeUserRepo) GetToken(_ context.Context, userId string) (*model.TokenInfo, error) {
	info, ok := f.tokens[userId]
	if !ok {
		return nil, errors.New("token not found")
	}
	return info, nil
}

func (f *fakeUserRepo) DelToken(_ context.Context, userId string) error {
	delete(f.tokens, userId)
	return nil
}

var testAuth = &http.Auth{
	SecretKey:     "unit-test-secret",
	AccessExpire:  60,
	RefreshExpire: 7 * 24 * 60,
}

func newTestAuthService(users ...*model.User) (*AuthService, *fakeUserRepo) {
	repo := newFakeUserRepo(users...)
	sf, _ := id.NewSnowflake(1)
	return NewAuthService(repo, NewPermissionService(), testAuth, sf), repo
}

func hashPassword(t *testing.T, plain string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return string(hash)
}

func TestLoginPassword(t *testing.T) {
	user := makeUser(42)
	user.Username = "alice"
	user.Password = hashPassword(t, "s3cret")
	as, repo := newTestAuthService(user)

	resp, err := as.Login(context.Background(), &model.LoginReq{Username: "alice", Password: "s3cret"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if resp.Token == "" || resp.RefreshToken == "" {
		t.Error("tokens must be issued")
	}
	if _, ok := repo.tokens["42"]; !ok {
		t.Error("session must be stored under the user id")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	user := makeUser(42)
	user.Username = "alice"
	user.Password = hashPassword(t, "s3cret")
	as, _ := newTestAuthService(user)

	_, err := as.Login(context.Background(), &model.LoginReq{Username: "alice", Password: "nope"})
	if !errors.Is(err, ErrIncorrectPassword) {
		t.Errorf("expected ErrIncorrectPassword, got %v", err)
	}
}

func TestLoginDisabledAccount(t *testing.T) {
	user := makeUser(42)
	user.Username = "alice"
	user.Password = hashPassword(t, "s3cret")
	user.IsEnabled = model.UserDisabled
	as, _ := newTestAuthService(user)

	_, err := as.Login(context.Background(), &model.LoginReq{Username: "alice", Password: "s3cret"})
	if !errors.Is(err, ErrAccountDisabled) {
		t.Errorf("expected ErrAccountDisabled, got %v", err)
	}
}

func TestLoginUnsupportedKind(t *testing.T) {
	as, _ := newTestAuthService()
	for _, kind := range []model.LoginKind{model.LoginKindSms, model.LoginKindOAuth, "carrier-pigeon"} {
		_, err := as.Login(context.Background(), &model.LoginReq{Kind: kind})
		if !errors.Is(err, ErrUnsupportedLoginKind) {
			t.Errorf("kind %q: expected ErrUnsupportedLoginKind, got %v", kind, err)
		}
	}
}

func TestResolveToken(t *testing.T) {
	user := makeUser(42, makeRole(10, "EDITOR", model.RoleEnabled, makeMenu(100, model.MenuTypeButton, "doc:edit")))
	as, _ := newTestAuthService(user)

	aToken, _, err := jwt.GenToken("42", []byte(testAuth.SecretKey), testAuth.AccessExpire, testAuth.RefreshExpire)
	if err != nil {
		t.Fatal(err)
	}

	resolved, err := as.ResolveToken(context.Background(), aToken)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if resolved.ID != 42 {
		t.Errorf("resolved wrong user: %d", resolved.ID)
	}
	if len(resolved.Roles) != 1 || len(resolved.Roles[0].Menus) != 1 {
		t.Error("roles and menus must be eagerly loaded")
	}
}

func TestResolveTokenMalformed(t *testing.T) {
	as, _ := newTestAuthService()
	_, err := as.ResolveToken(context.Background(), "not-a-jwt")
	if !errors.Is(err, ErrInvalidCredential) {
		t.Errorf("expected ErrInvalidCredential, got %v", err)
	}
}

func TestResolveTokenExpired(t *testing.T) {
	as, _ := newTestAuthService(makeUser(42))

	aToken, _, err := jwt.GenToken("42", []byte(testAuth.SecretKey), -1, testAuth.RefreshExpire)
	if err != nil {
		t.Fatal(err)
	}

	_, rErr := as.ResolveToken(context.Background(), aToken)
	if !errors.Is(rErr, ErrInvalidCredential) {
		t.Errorf("expected ErrInvalidCredential, got %v", rErr)
	}
	if !errors.Is(rErr, goJwt.ErrTokenExpired) {
		t.Errorf("expiry cause must stay in the chain, got %v", rErr)
	}
}

func TestResolveTokenUnknownUser(t *testing.T) {
	as, _ := newTestAuthService()

	aToken, _, err := jwt.GenToken("42", []byte(testAuth.SecretKey), testAuth.AccessExpire, testAuth.RefreshExpire)
	if err != nil {
		t.Fatal(err)
	}

	_, rErr := as.ResolveToken(context.Background(), aToken)
	if !errors.Is(rErr, ErrInvalidCredential) {
		t.Errorf("missing subject user must be an invalid credential, got %v", rErr)
	}
}

func TestResolveTokenDisabledUser(t *testing.T) {
	user := makeUser(42)
	user.IsEnabled = model.UserDisabled
	as, _ := newTestAuthService(user)

	aToken, _, err := jwt.GenToken("42", []byte(testAuth.SecretKey), testAuth.AccessExpire, testAuth.RefreshExpire)
	if err != nil {
		t.Fatal(err)
	}

	_, rErr := as.ResolveToken(context.Background(), aToken)
	if !errors.Is(rErr, ErrAccountDisabled) {
		t.Errorf("expected ErrAccountDisabled, got %v", rErr)
	}
}

func TestRegisterAndDuplicate(t *testing.T) {
	as, repo := newTestAuthService()

	req := &model.RegisterReq{Username: "bob", Password: "hunter2"}
	if err := as.Register(context.Background(), req); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	created := repo.byName["bob"]
	if created == nil || created.ID == 0 {
		t.Fatal("registered user must get a generated id")
	}
	if created.Password == "hunter2" {
		t.Error("password must be stored hashed")
	}

	if err := as.Register(context.Background(), req); !errors.Is(err, ErrUserAlreadyExist) {
		t.Errorf("expected ErrUserAlreadyExist, got %v", err)
	}
}

func TestRefreshRoundTrip(t *testing.T) {
	user := makeUser(42)
	user.Username = "alice"
	user.Password = hashPassword(t, "s3cret")
	as, _ := newTestAuthService(user)

	resp, err := as.Login(context.Background(), &model.LoginReq{Username: "alice", Password: "s3cret"})
	if err != nil {
		t.Fatal(err)
	}

	renewed, err := as.Refresh(context.Background(), resp.RefreshToken)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if renewed.Token == "" || renewed.RefreshToken == "" {
		t.Error("refresh must issue a new token pair")
	}
}

func TestRefreshRejectsGarbage(t *testing.T) {
	as, _ := newTestAuthService()
	_, err := as.Refresh(context.Background(), "garbage")
	if !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("expected ErrInvalidRefreshToken, got %v", err)
	}
}

func TestLogoutDeletesSession(t *testing.T) {
	user := makeUser(42)
	user.Username = "alice"
	user.Password = hashPassword(t, "s3cret")
	as, repo := newTestAuthService(user)

	if _, err := as.Login(context.Background(), &model.LoginReq{Username: "alice", Password: "s3cret"}); err != nil {
		t.Fatal(err)
	}
	if err := as.Logout(context.Background(), "42"); err != nil {
		t.Fatal(err)
	}
	if _, ok := repo.tokens["42"]; ok {
		t.Error("session must be removed on logout")
	}
}

func TestGetUserInfoShape(t *testing.T) {
	user := makeUser(42, makeRole(10, "EDITOR", model.RoleEnabled, makeMenu(100, model.MenuTypeButton, "doc:edit")))
	user.Username = "alice"
	as, _ := newTestAuthService(user)

	info := as.GetUserInfo(user)
	if info.UserId != "42" {
		t.Errorf("userId must be the stringified numeric id, got %q", info.UserId)
	}
	if info.UserName != "alice" {
		t.Errorf("unexpected userName %q", info.UserName)
	}
	if len(info.Buttons) != 1 || info.Buttons[0] != "doc:edit" {
		t.Errorf("buttons must carry aggregated permission codes, got %v", info.Buttons)
	}
	found := false
	for _, code := range info.Roles {
		if code == "EDITOR" {
			found = true
		}
	}
	if !found {
		t.Errorf("roles must include EDITOR, got %v", info.Roles)
	}
}
