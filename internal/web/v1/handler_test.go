package v1

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaustubhduse/medical-chatbot/internal/core/repository"
	"github.com/kaustubhduse/medical-chatbot/internal/core/token"
	logicv1 "github.com/kaustubhduse/medical-chatbot/internal/logic/v1"
)

// newTestRouter wires the full stack (handler, service, hasher, token
// manager, in-memory store) behind the same route layout main uses.
func newTestRouter(t *testing.T) (*gin.Engine, *token.Manager) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	tokens := token.NewManager([]byte("test-secret"), time.Hour)
	auth := logicv1.NewAuthService(
		repository.NewMemoryUserRepository(), logicv1.NewPasswordHasher(), tokens)

	r := gin.New()
	NewHandler(auth).RegisterRoutes(r.Group("/user"), tokens)
	return r, tokens
}

func doJSON(r *gin.Engine, method, path, body, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestRegister_Created(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/user/register",
		`{"name":"Alice","email":"alice@x.com","password":"secret1"}`, "")

	require.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["status"])
	assert.Equal(t, "Registration successful", body["message"])
	assert.NotContains(t, body, "token")
}

func TestRegister_MissingFields(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/user/register", `{"name":"Alice"}`, "")

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["status"])
	assert.Equal(t, "All fields are required", body["message"])
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t)

	first := doJSON(r, http.MethodPost, "/user/register",
		`{"name":"Alice","email":"alice@x.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusCreated, first.Code)

	second := doJSON(r, http.MethodPost, "/user/register",
		`{"name":"Bob","email":"alice@x.com","password":"other"}`, "")

	require.Equal(t, http.StatusBadRequest, second.Code)
	assert.Equal(t, "Email already registered", decode(t, second)["message"])
}

func TestLogin_InvalidCredentialsIdentical(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t)

	doJSON(r, http.MethodPost, "/user/register",
		`{"name":"Alice","email":"alice@x.com","password":"secret1"}`, "")

	wrongPassword := doJSON(r, http.MethodPost, "/user/login",
		`{"email":"alice@x.com","password":"wrong"}`, "")
	noSuchUser := doJSON(r, http.MethodPost, "/user/login",
		`{"email":"ghost@x.com","password":"secret1"}`, "")

	require.Equal(t, http.StatusBadRequest, wrongPassword.Code)
	require.Equal(t, http.StatusBadRequest, noSuchUser.Code)
	assert.Equal(t, wrongPassword.Body.String(), noSuchUser.Body.String())
}

func TestGetProfile_RequiresToken(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodGet, "/user/get-profile", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodGet, "/user/get-profile", "", "forged.token.value")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetProfile_ExpiredToken(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t)
	expired := token.NewManager([]byte("test-secret"), -time.Minute)

	tok, err := expired.Issue("whoever")
	require.NoError(t, err)

	w := doJSON(r, http.MethodGet, "/user/get-profile", "", tok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetProfile_StaleIdentity(t *testing.T) {
	t.Parallel()

	r, tokens := newTestRouter(t)

	// Valid signature, but the id resolves to no record.
	tok, err := tokens.Issue("deleted-user-id")
	require.NoError(t, err)

	w := doJSON(r, http.MethodGet, "/user/get-profile", "", tok)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", decode(t, w)["message"])
}

func TestUpdateProfile_EmailInUse(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t)

	doJSON(r, http.MethodPost, "/user/register",
		`{"name":"Alice","email":"alice@x.com","password":"secret1"}`, "")
	doJSON(r, http.MethodPost, "/user/register",
		`{"name":"Bob","email":"bob@x.com","password":"secret2"}`, "")

	login := doJSON(r, http.MethodPost, "/user/login",
		`{"email":"bob@x.com","password":"secret2"}`, "")
	require.Equal(t, http.StatusOK, login.Code)
	tok := decode(t, login)["token"].(string)

	w := doJSON(r, http.MethodPut, "/user/update-profile",
		`{"email":"alice@x.com"}`, tok)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email already in use", decode(t, w)["message"])
}

// TestEndToEnd walks the documented scenario: register, login, read the
// profile, change the password, then confirm the old password is dead and
// the new one works.
func TestEndToEnd(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/user/register",
		`{"name":"Alice","email":"alice@x.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusCreated, w.Code)

	login := doJSON(r, http.MethodPost, "/user/login",
		`{"email":"alice@x.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, login.Code)
	loginBody := decode(t, login)
	assert.Equal(t, true, loginBody["status"])
	tok := loginBody["token"].(string)
	require.NotEmpty(t, tok)

	profile := doJSON(r, http.MethodGet, "/user/get-profile", "", tok)
	require.Equal(t, http.StatusOK, profile.Code)
	profileBody := decode(t, profile)
	assert.Equal(t, "Alice", profileBody["name"])
	assert.Equal(t, "alice@x.com", profileBody["email"])

	change := doJSON(r, http.MethodPut, "/user/update-password",
		`{"prevPassword":"secret1","newPassword":"secret2"}`, tok)
	require.Equal(t, http.StatusOK, change.Code)

	oldLogin := doJSON(r, http.MethodPost, "/user/login",
		`{"email":"alice@x.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusBadRequest, oldLogin.Code)
	assert.Equal(t, "Invalid credentials", decode(t, oldLogin)["message"])

	newLogin := doJSON(r, http.MethodPost, "/user/login",
		`{"email":"alice@x.com","password":"secret2"}`, "")
	assert.Equal(t, http.StatusOK, newLogin.Code)
}

func TestChangePassword_WrongPrevious(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t)

	doJSON(r, http.MethodPost, "/user/register",
		`{"name":"Alice","email":"alice@x.com","password":"secret1"}`, "")
	login := doJSON(r, http.MethodPost, "/user/login",
		`{"email":"alice@x.com","password":"secret1"}`, "")
	tok := decode(t, login)["token"].(string)

	w := doJSON(r, http.MethodPut, "/user/update-password",
		`{"prevPassword":"wrong","newPassword":"secret2"}`, tok)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Previous password is incorrect", decode(t, w)["message"])

	// The old password still logs in.
	again := doJSON(r, http.MethodPost, "/user/login",
		`{"email":"alice@x.com","password":"secret1"}`, "")
	assert.Equal(t, http.StatusOK, again.Code)
}

func TestNoHashLeaksAnywhere(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t)

	doJSON(r, http.MethodPost, "/user/register",
		`{"name":"Alice","email":"alice@x.com","password":"secret1"}`, "")
	login := doJSON(r, http.MethodPost, "/user/login",
		`{"email":"alice@x.com","password":"secret1"}`, "")
	tok := decode(t, login)["token"].(string)

	profile := doJSON(r, http.MethodGet, "/user/get-profile", "", tok)
	update := doJSON(r, http.MethodPut, "/user/update-profile", `{"name":"Alicia"}`, tok)

	// bcrypt digests start with "$2"; no response may carry one, nor a
	// password-shaped field at all.
	for _, w := range []*httptest.ResponseRecorder{login, profile, update} {
		assert.NotContains(t, w.Body.String(), "$2")
		assert.NotContains(t, strings.ToLower(w.Body.String()), "password")
	}
}

func TestUpdateProfile_ResponseShape(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t)

	doJSON(r, http.MethodPost, "/user/register",
		`{"name":"Alice","email":"alice@x.com","password":"secret1"}`, "")
	login := doJSON(r, http.MethodPost, "/user/login",
		`{"email":"alice@x.com","password":"secret1"}`, "")
	tok := decode(t, login)["token"].(string)

	w := doJSON(r, http.MethodPut, "/user/update-profile",
		`{"name":"Alicia","email":"alicia@x.com"}`, tok)

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["status"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "Alicia", user["name"])
	assert.Equal(t, "alicia@x.com", user["email"])
	assert.Len(t, user, 2)
}
