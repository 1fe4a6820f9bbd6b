package auth_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/eldieng/Fawsayni-Tech/internal/api/middlewares"
	"github.com/eldieng/Fawsayni-Tech/internal/auth"
	"github.com/eldieng/Fawsayni-Tech/internal/models"
	jwtutil "github.com/eldieng/Fawsayni-Tech/internal/security/jwt"
	"github.com/eldieng/Fawsayni-Tech/internal/security/password"
	"github.com/eldieng/Fawsayni-Tech/internal/store"
	"github.com/eldieng/Fawsayni-Tech/internal/store/memstore"
	"golang.org/x/crypto/bcrypt"
)

const secret = "0123456789abcdef0123456789abcdef"

type fixture struct {
	h     *auth.Handler
	users *memstore.Store
}

func newFixture() fixture {
	users := memstore.New()
	hasher := password.NewHasher(password.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
	return fixture{
		h:     auth.New(users, hasher, jwtutil.NewSigner(secret, time.Hour, 0)),
		users: users,
	}
}

func (f fixture) seed(t *testing.T, email, pwd string) models.User {
	t.Helper()
	hash, err := f.h.Hasher.Hash(pwd)
	if err != nil {
		t.Fatal(err)
	}
	u := models.User{Name: "Awa", Email: email, PasswordHash: hash}
	if err := f.users.CreateUser(t.Context(), &u); err != nil {
		t.Fatal(err)
	}
	return u
}

func do(h http.HandlerFunc, method, target, body string, as *models.User) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if as != nil {
		req = req.WithContext(middlewares.WithUser(req.Context(), *as))
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Token   string `json:"token"`
	Data    struct {
		User map[string]any `json:"user"`
	} `json:"data"`
}

func decodeEnv(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var e envelope
	if err := json.NewDecoder(rec.Body).Decode(&e); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return e
}

func TestSignup(t *testing.T) {
	f := newFixture()
	rec := do(f.h.Signup, "POST", "/api/auth/signup",
		`{"name":" Awa ","email":" Awa@Example.com ","password":"secret123","passwordConfirm":"secret123"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("want 201, got %d: %s", rec.Code, rec.Body.String())
	}
	e := decodeEnv(t, rec)
	if e.Status != "success" || e.Token == "" {
		t.Fatalf("unexpected envelope %+v", e)
	}
	if e.Data.User["email"] != "awa@example.com" || e.Data.User["name"] != "Awa" || e.Data.User["role"] != "user" {
		t.Errorf("unexpected user %v", e.Data.User)
	}
	if _, ok := e.Data.User["password"]; ok {
		t.Error("password must never be serialized")
	}
	if _, ok := e.Data.User["PasswordHash"]; ok {
		t.Error("password hash must never be serialized")
	}
	claims, err := f.h.Tokens.Parse(e.Token)
	if err != nil || claims.Who() != e.Data.User["_id"] {
		t.Fatalf("token does not identify the new user: %v", err)
	}
}

func TestSignup_PasswordMismatch(t *testing.T) {
	f := newFixture()
	rec := do(f.h.Signup, "POST", "/api/auth/signup",
		`{"name":"Awa","email":"awa@example.com","password":"secret123","passwordConfirm":"secret124"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", rec.Code)
	}
	if e := decodeEnv(t, rec); e.Status != "fail" || !strings.Contains(e.Message, "correspondent pas") {
		t.Errorf("unexpected envelope %+v", e)
	}
	if _, err := f.users.UserByEmail(t.Context(), "awa@example.com"); !errors.Is(err, store.ErrNotFound) {
		t.Fatal("no user may be created on mismatch")
	}
}

func TestSignup_Invalid(t *testing.T) {
	f := newFixture()
	for name, body := range map[string]string{
		"short password": `{"name":"A","email":"a@example.com","password":"short","passwordConfirm":"short"}`,
		"bad email":      `{"name":"A","email":"nope","password":"secret123","passwordConfirm":"secret123"}`,
		"missing name":   `{"email":"a@example.com","password":"secret123","passwordConfirm":"secret123"}`,
		"bad role":       `{"name":"A","email":"a@example.com","password":"secret123","passwordConfirm":"secret123","role":"root"}`,
		"not json":       `{"name":`,
	} {
		if rec := do(f.h.Signup, "POST", "/api/auth/signup", body, nil); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: want 400, got %d", name, rec.Code)
		}
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	f := newFixture()
	f.seed(t, "awa@example.com", "secret123")
	rec := do(f.h.Signup, "POST", "/api/auth/signup",
		`{"name":"Awa","email":"AWA@example.com","password":"secret123","passwordConfirm":"secret123"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", rec.Code)
	}
	if e := decodeEnv(t, rec); e.Message != "email already exists" {
		t.Errorf("want conflict message, got %q", e.Message)
	}
}

func TestSignup_AdminRole(t *testing.T) {
	f := newFixture()
	body := `{"name":"Root","email":"root@example.com","password":"secret123","passwordConfirm":"secret123","role":"admin"}`
	if rec := do(f.h.Signup, "POST", "/api/auth/signup", body, nil); rec.Code != http.StatusForbidden {
		t.Fatalf("want 403 without AllowAdminSignup, got %d", rec.Code)
	}

	f.h.AllowAdminSignup = true
	rec := do(f.h.Signup, "POST", "/api/auth/signup", body, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("want 201, got %d", rec.Code)
	}
	if e := decodeEnv(t, rec); e.Data.User["role"] != "admin" {
		t.Errorf("want admin role, got %v", e.Data.User["role"])
	}
}

func TestLogin(t *testing.T) {
	f := newFixture()
	u := f.seed(t, "awa@example.com", "secret123")

	rec := do(f.h.Login, "POST", "/api/auth/login", `{"email":"Awa@example.com","password":"secret123"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}
	if e := decodeEnv(t, rec); e.Token == "" || e.Data.User["_id"] != u.ID {
		t.Errorf("unexpected envelope %+v", e)
	}

	cases := []struct {
		name string
		body string
		want int
	}{
		{"missing password", `{"email":"awa@example.com"}`, http.StatusBadRequest},
		{"missing email", `{"password":"secret123"}`, http.StatusBadRequest},
		{"wrong password", `{"email":"awa@example.com","password":"secret124"}`, http.StatusUnauthorized},
		{"unknown user", `{"email":"bob@example.com","password":"secret123"}`, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		if rec := do(f.h.Login, "POST", "/api/auth/login", tc.body, nil); rec.Code != tc.want {
			t.Errorf("%s: want %d, got %d", tc.name, tc.want, rec.Code)
		}
	}
}

func TestLogin_UpgradesBcryptHash(t *testing.T) {
	f := newFixture()
	legacy, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	u := models.User{Name: "Old", Email: "old@example.com", PasswordHash: string(legacy)}
	if err := f.users.CreateUser(t.Context(), &u); err != nil {
		t.Fatal(err)
	}

	if rec := do(f.h.Login, "POST", "/api/auth/login", `{"email":"old@example.com","password":"secret123"}`, nil); rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}
	got, _ := f.users.UserByID(t.Context(), u.ID)
	if !strings.HasPrefix(got.PasswordHash, "$argon2id$") {
		t.Fatalf("want upgraded argon2id hash, got %q", got.PasswordHash)
	}
}

func TestMe(t *testing.T) {
	f := newFixture()
	u := f.seed(t, "awa@example.com", "secret123")
	rec := do(f.h.Me, "GET", "/api/auth/me", "", &u)
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}
	if e := decodeEnv(t, rec); e.Data.User["email"] != "awa@example.com" || e.Data.User["id"] != u.ID {
		t.Errorf("unexpected user %v", e.Data.User)
	}
}

func TestUpdateMe(t *testing.T) {
	f := newFixture()
	u := f.seed(t, "awa@example.com", "secret123")
	f.seed(t, "taken@example.com", "secret123")

	rec := do(f.h.UpdateMe, "PATCH", "/api/auth/updateMe", `{"name":"Awa Diop","role":"admin","email":"NEW@example.com"}`, &u)
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", rec.Code, rec.Body.String())
	}
	got, _ := f.users.UserByID(t.Context(), u.ID)
	if got.Name != "Awa Diop" || got.Email != "new@example.com" || got.Role != models.RoleUser {
		t.Errorf("unexpected stored user %+v", got)
	}

	for name, tc := range map[string]struct {
		body string
		want int
	}{
		"password key":     {`{"password":"x"}`, http.StatusBadRequest},
		"confirm key":      {`{"name":"A","passwordConfirm":""}`, http.StatusBadRequest},
		"empty name":       {`{"name":"  "}`, http.StatusBadRequest},
		"bad email":        {`{"email":"nope"}`, http.StatusBadRequest},
		"duplicate email":  {`{"email":"taken@example.com"}`, http.StatusBadRequest},
		"nothing to apply": {`{"role":"admin"}`, http.StatusOK},
	} {
		if rec := do(f.h.UpdateMe, "PATCH", "/api/auth/updateMe", tc.body, &got); rec.Code != tc.want {
			t.Errorf("%s: want %d, got %d", name, tc.want, rec.Code)
		}
		after, _ := f.users.UserByID(t.Context(), u.ID)
		if after.PasswordHash != u.PasswordHash {
			t.Fatalf("%s: hash must not change through updateMe", name)
		}
		if tc.want != http.StatusOK && (after.Name != got.Name || after.Email != got.Email) {
			t.Errorf("%s: rejected update changed the profile to %+v", name, after)
		}
	}
	if ok, _, _ := f.h.Hasher.Verify("secret123", got.PasswordHash); !ok {
		t.Fatal("original password must still verify")
	}
}

func TestUpdateMyPassword(t *testing.T) {
	f := newFixture()
	u := f.seed(t, "awa@example.com", "secret123")

	rec := do(f.h.UpdateMyPassword, "PATCH", "/api/auth/updateMyPassword",
		`{"currentPassword":"wrong-one","newPassword":"newsecret1","passwordConfirm":"newsecret1"}`, &u)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", rec.Code)
	}
	if got, _ := f.users.UserByID(t.Context(), u.ID); got.PasswordHash != u.PasswordHash {
		t.Fatal("hash must not change when the current password is wrong")
	}

	rec = do(f.h.UpdateMyPassword, "PATCH", "/api/auth/updateMyPassword",
		`{"currentPassword":"secret123","newPassword":"newsecret1","passwordConfirm":"other"}`, &u)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400 on mismatch, got %d", rec.Code)
	}

	rec = do(f.h.UpdateMyPassword, "PATCH", "/api/auth/updateMyPassword",
		`{"currentPassword":"secret123","newPassword":"newsecret1","passwordConfirm":"newsecret1"}`, &u)
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if e := decodeEnv(t, rec); e.Token == "" {
		t.Error("want a fresh token")
	}
	got, _ := f.users.UserByID(t.Context(), u.ID)
	if ok, _, _ := f.h.Hasher.Verify("newsecret1", got.PasswordHash); !ok {
		t.Error("new password does not verify")
	}
}

func TestGetUser(t *testing.T) {
	f := newFixture()
	u := f.seed(t, "awa@example.com", "secret123")
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/auth/users/{id}", f.h.GetUser)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/api/auth/users/"+u.ID, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/api/auth/users/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("want 404, got %d", rec.Code)
	}
	if e := decodeEnv(t, rec); e.Message != "Utilisateur non trouvé" {
		t.Errorf("unexpected message %q", e.Message)
	}
}

func TestListUsers(t *testing.T) {
	f := newFixture()
	for _, e := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		f.seed(t, e, "secret123")
	}

	rec := do(f.h.ListUsers, "GET", "/api/auth/users?limit=2&page=2", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}
	var out auth.UserList
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.TotalUsers != 3 || out.TotalPages != 2 || out.Results != 1 || out.CurrentPage != 2 {
		t.Errorf("unexpected page %+v", out)
	}

	if rec := do(f.h.ListUsers, "GET", "/api/auth/users?role=root", "", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("want 400 for unknown role, got %d", rec.Code)
	}
}

func TestStrengthHeader(t *testing.T) {
	f := newFixture()
	rec := do(f.h.Signup, "POST", "/api/auth/signup",
		`{"name":"Awa","email":"awa@example.com","password":"awaawaawa","passwordConfirm":"awaawaawa"}`, nil)
	if rec.Header().Get("X-Password-Score") == "" {
		t.Fatal("want X-Password-Score header")
	}
	if rec.Header().Get("X-Password-Warning") == "" {
		t.Error("want a warning for a weak password")
	}
}
