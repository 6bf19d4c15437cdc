// Package client is a thin HTTP client for the CineLog server API.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cinelog/cinelog-server/internal/models"
)

type Client struct {
	baseURL string
	client  *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Register(username, email, password string) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	err := c.do("POST", "/api/v1/auth/register", "", &models.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	}, &resp, http.StatusCreated)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Login(email, password string) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	err := c.do("POST", "/api/v1/auth/login", "", &models.LoginRequest{
		Email:    email,
		Password: password,
	}, &resp, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Refresh(refreshToken string) (*models.TokenPair, error) {
	var pair models.TokenPair
	err := c.do("POST", "/api/v1/auth/refresh", "", &models.RefreshRequest{
		RefreshToken: refreshToken,
	}, &pair, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &pair, nil
}

// Logout revokes the given refresh token, or every token of the account
// when refreshToken is empty.
func (c *Client) Logout(accessToken, refreshToken string) error {
	return c.do("POST", "/api/v1/auth/logout", accessToken, &models.LogoutRequest{
		RefreshToken: refreshToken,
	}, nil, http.StatusOK)
}

func (c *Client) Me(accessToken string) (*models.AccountResponse, error) {
	var account models.AccountResponse
	if err := c.do("GET", "/api/v1/users/me", accessToken, nil, &account, http.StatusOK); err != nil {
		return nil, err
	}
	return &account, nil
}

func (c *Client) UpdateProfile(accessToken string, req *models.UpdateProfileRequest) (*models.AccountResponse, error) {
	var account models.AccountResponse
	if err := c.do("PUT", "/api/v1/users/me", accessToken, req, &account, http.StatusOK); err != nil {
		return nil, err
	}
	return &account, nil
}

func (c *Client) ListAccounts(accessToken string) ([]*models.AccountResponse, error) {
	var resp struct {
		Accounts []*models.AccountResponse `json:"accounts"`
		Count    int                       `json:"count"`
	}
	if err := c.do("GET", "/api/v1/admin/users", accessToken, nil, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return resp.Accounts, nil
}

func (c *Client) SetAccountActive(accessToken, accountID string, active bool) (*models.AccountResponse, error) {
	var account models.AccountResponse
	err := c.do("PUT", "/api/v1/admin/users/"+accountID+"/active", accessToken, &models.SetActiveRequest{
		Active: active,
	}, &account, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (c *Client) CreateReview(accessToken string, req *models.CreateReviewRequest) (*models.Review, error) {
	var review models.Review
	if err := c.do("POST", "/api/v1/reviews", accessToken, req, &review, http.StatusCreated); err != nil {
		return nil, err
	}
	return &review, nil
}

func (c *Client) AddListItem(accessToken, kind string, req *models.AddListItemRequest) (*models.ListItem, error) {
	var item models.ListItem
	if err := c.do("POST", "/api/v1/lists/"+kind, accessToken, req, &item, http.StatusCreated); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) do(method, path, accessToken string, payload, out any, wantStatus int) error {
	var body io.Reader = http.NoBody
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return apiError(resp)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// apiError turns the server's error envelope into a readable error.
func apiError(resp *http.Response) error {
	data, _ := io.ReadAll(resp.Body)

	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Error != "" {
		return fmt.Errorf("%s (status %d)", envelope.Error, resp.StatusCode)
	}
	return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(data))
}
