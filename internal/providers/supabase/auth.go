package supabase

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"donorsetup/internal/domain"
)

const adminUsersPath = "/auth/v1/admin/users"

type createUserRequest struct {
	Email        string         `json:"email"`
	Password     string         `json:"password"`
	EmailConfirm bool           `json:"email_confirm"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
}

type userPayload struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
}

type listUsersResponse struct {
	Users []userPayload `json:"users"`
}

func (u userPayload) toDomain() domain.RemoteAccount {
	return domain.RemoteAccount{ID: u.ID, Email: u.Email, Metadata: u.UserMetadata}
}

// CreateAccount registers a confirmed user through the auth admin API.
func (c *Client) CreateAccount(ctx context.Context, req domain.CreateAccountRequest) (*domain.RemoteAccount, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return nil, errors.New("supabase: email is required")
	}
	outcome := c.do(ctx, request{
		method: http.MethodPost,
		path:   adminUsersPath,
		body: createUserRequest{
			Email:        email,
			Password:     req.Password,
			EmailConfirm: req.EmailConfirm,
			UserMetadata: req.Metadata,
		},
	})
	if err := outcome.Err(); err != nil {
		return nil, err
	}

	var user userPayload
	if err := decodeBody(outcome, &user); err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, errors.New("supabase: create user response without id")
	}
	account := user.toDomain()
	c.logger.Debug().Str("email", email).Str("account_id", account.ID).Msg("supabase: account created")
	return &account, nil
}

// FindAccountByEmail pages through the admin user list until the email is
// found. The admin API has no exact email filter, so matching happens here.
func (c *Client) FindAccountByEmail(ctx context.Context, email string) (*domain.RemoteAccount, error) {
	target := strings.ToLower(strings.TrimSpace(email))
	if target == "" {
		return nil, errors.New("supabase: email is required")
	}
	var found *domain.RemoteAccount
	err := c.eachUserPage(ctx, func(users []userPayload) bool {
		for _, u := range users {
			if strings.ToLower(u.Email) == target {
				account := u.toDomain()
				found = &account
				return false
			}
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, domain.ErrNotFound
	}
	return found, nil
}

// ListAccounts returns every user known to the auth service.
func (c *Client) ListAccounts(ctx context.Context) ([]domain.RemoteAccount, error) {
	var accounts []domain.RemoteAccount
	err := c.eachUserPage(ctx, func(users []userPayload) bool {
		for _, u := range users {
			accounts = append(accounts, u.toDomain())
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

// eachUserPage calls fn per page until fn returns false or a short page ends
// the listing.
func (c *Client) eachUserPage(ctx context.Context, fn func([]userPayload) bool) error {
	for page := 1; ; page++ {
		outcome := c.do(ctx, request{
			method: http.MethodGet,
			path:   adminUsersPath,
			query: url.Values{
				"page":     {strconv.Itoa(page)},
				"per_page": {strconv.Itoa(c.pageSize)},
			},
		})
		if err := outcome.Err(); err != nil {
			return err
		}
		users, err := decodeUsers(outcome)
		if err != nil {
			return err
		}
		if !fn(users) || len(users) < c.pageSize {
			return nil
		}
	}
}

// decodeUsers accepts the documented {"users": [...]} envelope as well as a
// bare array.
func decodeUsers(o Outcome) ([]userPayload, error) {
	trimmed := bytes.TrimSpace(o.Body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var users []userPayload
		if err := decodeBody(o, &users); err != nil {
			return nil, err
		}
		return users, nil
	}
	var resp listUsersResponse
	if err := decodeBody(o, &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

