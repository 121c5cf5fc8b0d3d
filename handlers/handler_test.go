package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/padraicbc/yachtclub/db/dbtest"
	"github.com/padraicbc/yachtclub/identity"
	"github.com/padraicbc/yachtclub/store"
)

const testPassword = "fair-winds"

var (
	adminUser     = identity.User{ID: 1, Username: "admin", Name: "Club Administrator", Role: identity.RoleAdmin}
	commodoreUser = identity.User{ID: 2, Username: "commodore", Name: "Commodore", Role: identity.RoleCommodore}
)

type testServer struct {
	e         *echo.Echo
	store     *store.Store
	ids       *identity.Service
	uploadDir string
	admin     string
	commodore string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	ids := identity.New(identity.NewStaticUsers(
		identity.Credential{User: adminUser, PasswordHash: string(hash)},
		identity.Credential{User: commodoreUser, PasswordHash: string(hash)},
	), []byte("test-signing-key"))

	st := store.New(dbtest.Open(t))
	dir := t.TempDir()

	e := echo.New()
	e.Validator = NewValidator()
	e.HTTPErrorHandler = ErrorHandler(zap.NewNop())
	New(st, ids, zap.NewNop(), dir).Register(e)

	admin, _, err := ids.IssueToken(adminUser)
	require.NoError(t, err)
	commodore, _, err := ids.IssueToken(commodoreUser)
	require.NoError(t, err)

	return &testServer{e: e, store: st, ids: ids, uploadDir: dir, admin: admin, commodore: commodore}
}

// envelope mirrors the wire shape of Success and Failure.
type envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Error      string          `json:"error"`
	Pagination *Pagination     `json:"pagination"`
}

func (e envelope) decode(t *testing.T, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(e.Data, dst))
}

// do sends body as JSON, or verbatim when it is a string.
func (s *testServer) do(t *testing.T, method, path string, body interface{}, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, r)
	if r != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	return s.send(t, req, token)
}

func (s *testServer) send(t *testing.T, req *http.Request, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodGet, "/api/health", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var data map[string]interface{}
	env.decode(t, &data)
	require.Equal(t, "ok", data["status"])
}

func TestUnknownAPIRoute(t *testing.T) {
	s := newTestServer(t)

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		rec, env := s.do(t, method, "/api/nowhere", nil, "")
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.False(t, env.Success)
		require.Equal(t, "Route not found", env.Error)
	}
}
