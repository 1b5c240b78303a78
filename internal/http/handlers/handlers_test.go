package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/houseofcharity/charity-be/internal/auth"
	"github.com/houseofcharity/charity-be/internal/models"
	"github.com/houseofcharity/charity-be/internal/storage/storagetest"
)

type testEnv struct {
	t      *testing.T
	store  *storagetest.Memory
	tokens *auth.TokenManager
	mux    *http.ServeMux
}

func discardLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func newTestEnv(t *testing.T, opts AuthOptions) *testEnv {
	t.Helper()
	env := &testEnv{
		t:      t,
		store:  storagetest.NewMemory(),
		tokens: auth.NewTokenManager("test-secret", "charity-test", time.Hour),
		mux:    http.NewServeMux(),
	}
	log := discardLog()
	NewHealthHandler(time.Now(), env.store, log).Register(env.mux)
	NewAuthHandler(env.store, env.tokens, opts, log).Register(env.mux)
	NewUserHandler(env.store, env.tokens, log).Register(env.mux)
	NewDonationHandler(env.store, env.tokens, log).Register(env.mux)
	NewRequirementHandler(env.store, env.tokens, log).Register(env.mux)
	return env
}

// do sends a request with an optional bearer token and JSON body (string bodies are sent raw).
func (e *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	e.t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(e.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)
	return rec
}

type account struct {
	models.User
	token string
}

// seed inserts a user directly and mints a token for it.
func (e *testEnv) seed(userType models.UserType, name string) account {
	e.t.Helper()
	id := uuid.NewString()
	user, err := e.store.CreateUser(context.Background(), models.User{
		ID:          id,
		Email:       id + "@example.com",
		UserType:    userType,
		Name:        name,
		Description: name + " description",
		City:        "Pune",
		Country:     models.DefaultCountry,
	})
	require.NoError(e.t, err)
	token, err := e.tokens.Generate(user)
	require.NoError(e.t, err)
	return account{User: user, token: token}
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[struct {
		Error string `json:"error"`
	}](t, rec).Error
}
