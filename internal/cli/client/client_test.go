package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinelog/cinelog-server/internal/models"
)

func TestNew(t *testing.T) {
	c := New("http://localhost:8080")

	assert.NotNil(t, c)
	assert.Equal(t, "http://localhost:8080", c.baseURL)
	assert.NotNil(t, c.client)
	assert.Equal(t, 10*time.Second, c.client.Timeout)
}

func TestRegister_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/auth/register", r.URL.Path)
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload map[string]string
		err := json.NewDecoder(r.Body).Decode(&payload)
		require.NoError(t, err)

		assert.Equal(t, "moviefan", payload["username"])
		assert.Equal(t, "fan@example.com", payload["email"])
		assert.Equal(t, "password123", payload["password"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.AuthResponse{
			Account: &models.AccountResponse{ID: "acc-1", Username: "moviefan"},
			TokenPair: models.TokenPair{
				AccessToken:  "access-token-123",
				RefreshToken: "refresh-token-456",
				ExpiresIn:    900,
				TokenType:    "Bearer",
			},
		})
	}))
	defer server.Close()

	c := New(server.URL)
	resp, err := c.Register("moviefan", "fan@example.com", "password123")

	require.NoError(t, err)
	assert.Equal(t, "acc-1", resp.Account.ID)
	assert.Equal(t, "access-token-123", resp.AccessToken)
	assert.Equal(t, "refresh-token-456", resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)
}

func TestRegister_Duplicate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"username already taken"}`))
	}))
	defer server.Close()

	c := New(server.URL)
	resp, err := c.Register("moviefan", "fan@example.com", "password123")

	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "username already taken")
}

func TestLogin_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/auth/login", r.URL.Path)
		assert.Equal(t, "POST", r.Method)

		var payload map[string]string
		err := json.NewDecoder(r.Body).Decode(&payload)
		require.NoError(t, err)

		assert.Equal(t, "fan@example.com", payload["email"])
		assert.Equal(t, "password123", payload["password"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.AuthResponse{
			Account: &models.AccountResponse{ID: "acc-1", Username: "moviefan"},
			TokenPair: models.TokenPair{
				AccessToken:  "access-token-123",
				RefreshToken: "refresh-token-456",
				ExpiresIn:    900,
				TokenType:    "Bearer",
			},
		})
	}))
	defer server.Close()

	c := New(server.URL)
	resp, err := c.Login("fan@example.com", "password123")

	require.NoError(t, err)
	assert.Equal(t, "moviefan", resp.Account.Username)
	assert.Equal(t, "access-token-123", resp.AccessToken)
}

func TestLogin_Failure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid credentials"}`))
	}))
	defer server.Close()

	c := New(server.URL)
	resp, err := c.Login("bad@example.com", "badpass")

	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "invalid credentials")
}

func TestRefresh_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/auth/refresh", r.URL.Path)

		var payload map[string]string
		err := json.NewDecoder(r.Body).Decode(&payload)
		require.NoError(t, err)
		assert.Equal(t, "refresh-token-456", payload["refresh_token"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.TokenPair{
			AccessToken:  "access-token-789",
			RefreshToken: "refresh-token-789",
			ExpiresIn:    900,
			TokenType:    "Bearer",
		})
	}))
	defer server.Close()

	c := New(server.URL)
	pair, err := c.Refresh("refresh-token-456")

	require.NoError(t, err)
	assert.Equal(t, "access-token-789", pair.AccessToken)
	assert.Equal(t, "refresh-token-789", pair.RefreshToken)
}

func TestRefresh_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":"invalid refresh token"}`))
	}))
	defer server.Close()

	c := New(server.URL)
	pair, err := c.Refresh("stale-token")

	assert.Error(t, err)
	assert.Nil(t, pair)
	assert.Contains(t, err.Error(), "invalid refresh token")
}

func TestLogout_SendsBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/auth/logout", r.URL.Path)
		assert.Equal(t, "Bearer access-token-123", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"logged out"}`))
	}))
	defer server.Close()

	c := New(server.URL)
	err := c.Logout("access-token-123", "refresh-token-456")

	require.NoError(t, err)
}

func TestMe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/users/me", r.URL.Path)
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "Bearer access-token-123", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.AccountResponse{
			ID:       "acc-1",
			Username: "moviefan",
			Email:    "fan@example.com",
			Role:     "user",
			Active:   true,
		})
	}))
	defer server.Close()

	c := New(server.URL)
	account, err := c.Me("access-token-123")

	require.NoError(t, err)
	assert.Equal(t, "acc-1", account.ID)
	assert.Equal(t, "moviefan", account.Username)
	assert.True(t, account.Active)
}

func TestListAccounts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/admin/users", r.URL.Path)
		assert.Equal(t, "Bearer admin-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"accounts":[{"id":"acc-1","username":"moviefan"},{"id":"acc-2","username":"cinephile"}],"count":2}`))
	}))
	defer server.Close()

	c := New(server.URL)
	accounts, err := c.ListAccounts("admin-token")

	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "moviefan", accounts[0].Username)
	assert.Equal(t, "cinephile", accounts[1].Username)
}

func TestSetAccountActive(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/admin/users/acc-2/active", r.URL.Path)
		assert.Equal(t, "PUT", r.Method)

		var payload map[string]bool
		err := json.NewDecoder(r.Body).Decode(&payload)
		require.NoError(t, err)
		assert.False(t, payload["active"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.AccountResponse{ID: "acc-2", Username: "cinephile", Active: false})
	}))
	defer server.Close()

	c := New(server.URL)
	account, err := c.SetAccountActive("admin-token", "acc-2", false)

	require.NoError(t, err)
	assert.False(t, account.Active)
}

func TestCreateReview(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/reviews", r.URL.Path)
		assert.Equal(t, "POST", r.Method)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.Review{ID: "rev-1", TitleID: "603", Rating: 9})
	}))
	defer server.Close()

	c := New(server.URL)
	review, err := c.CreateReview("access-token-123", &models.CreateReviewRequest{
		TitleID:   "603",
		TitleName: "The Matrix",
		Rating:    9,
		Content:   "Still holds up.",
	})

	require.NoError(t, err)
	assert.Equal(t, "rev-1", review.ID)
	assert.Equal(t, 9, review.Rating)
}

func TestAddListItem(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/lists/watchlist", r.URL.Path)
		assert.Equal(t, "POST", r.Method)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.ListItem{TitleID: "603", Kind: models.ListWatchlist})
	}))
	defer server.Close()

	c := New(server.URL)
	item, err := c.AddListItem("access-token-123", "watchlist", &models.AddListItemRequest{
		TitleID:   "603",
		TitleName: "The Matrix",
	})

	require.NoError(t, err)
	assert.Equal(t, "603", item.TitleID)
}

func TestAPIError_NonJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.Me("access-token-123")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 502")
}
