package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSignupAndLoginFlow(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	signupUser(t, baseURL, "alice@example.com", "correct horse battery", "Alice", "Smith")

	t.Run("duplicate signup is rejected", func(t *testing.T) {
		code, body := doJSON(t, http.MethodPost, baseURL+"/signup", "", map[string]string{
			"email":    "ALICE@example.com",
			"password": "another password!",
		})
		require.Equal(t, http.StatusBadRequest, code)
		require.Equal(t, "A user with this email already exists.", body["error"])
	})

	t.Run("login returns a token pair", func(t *testing.T) {
		code, body := doJSON(t, http.MethodPost, baseURL+"/login", "", map[string]string{
			"email":    "alice@example.com",
			"password": "correct horse battery",
		})
		require.Equal(t, http.StatusOK, code)
		require.NotEmpty(t, body["access"])
		require.NotEmpty(t, body["refresh"])
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		code, body := doJSON(t, http.MethodPost, baseURL+"/login", "", map[string]string{
			"email":    "alice@example.com",
			"password": "wrong password!",
		})
		require.Equal(t, http.StatusBadRequest, code)
		require.Equal(t, "Invalid email or password", body["error"])
	})

	t.Run("refresh rotates the pair and rejects reuse", func(t *testing.T) {
		code, body := doJSON(t, http.MethodPost, baseURL+"/login", "", map[string]string{
			"email":    "alice@example.com",
			"password": "correct horse battery",
		})
		require.Equal(t, http.StatusOK, code)
		refresh, _ := body["refresh"].(string)

		code, next := doJSON(t, http.MethodPost, baseURL+"/token/refresh", "", map[string]string{
			"refresh": refresh,
		})
		require.Equal(t, http.StatusOK, code)
		require.NotEmpty(t, next["access"])
		require.NotEqual(t, refresh, next["refresh"])

		code, _ = doJSON(t, http.MethodPost, baseURL+"/token/refresh", "", map[string]string{
			"refresh": refresh,
		})
		require.Equal(t, http.StatusUnauthorized, code)
	})

	t.Run("search requires authentication", func(t *testing.T) {
		code, _ := doJSON(t, http.MethodGet, baseURL+"/users/search?keyword=alice", "", nil)
		require.Equal(t, http.StatusUnauthorized, code)
	})

	t.Run("authenticated search finds the user", func(t *testing.T) {
		token := loginUser(t, baseURL, "alice@example.com", "correct horse battery")

		code, body := doJSON(t, http.MethodGet, baseURL+"/users/search?keyword=alice", token, nil)
		require.Equal(t, http.StatusOK, code)
		require.EqualValues(t, 1, body["count"])
	})

	t.Run("jwks and health endpoints respond", func(t *testing.T) {
		code, body := doJSON(t, http.MethodGet, baseURL+"/.well-known/jwks.json", "", nil)
		require.Equal(t, http.StatusOK, code)
		require.NotEmpty(t, body["keys"])

		code, body = doJSON(t, http.MethodGet, baseURL+"/readyz", "", nil)
		require.Equal(t, http.StatusOK, code)
		require.Equal(t, "ok", body["status"])
	})
}
