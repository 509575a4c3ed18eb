// Package fakebackend imitates the subset of the Supabase auth admin API and
// PostgREST that the provisioner talks to, backed by memory.
package fakebackend

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Row is a single table row keyed by column name.
type Row map[string]any

// User is an auth user as returned by the admin API.
type User struct {
	ID               string         `json:"id"`
	Aud              string         `json:"aud"`
	Role             string         `json:"role"`
	Email            string         `json:"email"`
	EmailConfirmedAt *time.Time     `json:"email_confirmed_at,omitempty"`
	UserMetadata     map[string]any `json:"user_metadata"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

type table struct {
	unique string
	rows   []Row
}

// Store holds users, profiles and donors. It is safe for concurrent use.
type Store struct {
	mu                 sync.Mutex
	users              []User
	tables             map[string]*table
	failures           map[string]int
	skipProfileTrigger bool
	now                func() time.Time
}

// NewStore returns an empty store with the profiles and donors tables.
func NewStore() *Store {
	return &Store{
		tables: map[string]*table{
			"profiles": {unique: "id"},
			"donors":   {unique: "user_id"},
		},
		failures: map[string]int{},
		now:      time.Now,
	}
}

// SkipProfileTrigger disables the automatic profile row on user creation,
// simulating a project without the handle_new_user trigger.
func (s *Store) SkipProfileTrigger(skip bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skipProfileTrigger = skip
}

// FailEmail makes account creation for email answer with status.
func (s *Store) FailEmail(email string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[strings.ToLower(email)] = status
}

// SeedAccount inserts a user with a fixed id, as if created earlier.
func (s *Store) SeedAccount(id, email string) User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertUserLocked(id, email, nil)
}

// CountAccounts returns how many users share email.
func (s *Store) CountAccounts(email string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			n++
		}
	}
	return n
}

// Profiles returns copies of the profile rows for email.
func (s *Store) Profiles(email string) []Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Row
	for _, r := range s.tables["profiles"].rows {
		if strings.EqualFold(fmt.Sprint(r["email"]), email) {
			out = append(out, cloneRow(r))
		}
	}
	return out
}

// CountDonors returns how many donor rows reference userID.
func (s *Store) CountDonors(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.tables["donors"].rows {
		if fmt.Sprint(r["user_id"]) == userID {
			n++
		}
	}
	return n
}

func (s *Store) createUser(email string, metadata map[string]any) (User, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status, ok := s.failures[strings.ToLower(email)]; ok {
		return User{}, status, fmt.Errorf("injected failure for %s", email)
	}
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return User{}, 0, errEmailExists
		}
	}
	return s.insertUserLocked(uuid.NewString(), email, metadata), 0, nil
}

func (s *Store) insertUserLocked(id, email string, metadata map[string]any) User {
	now := s.now().UTC()
	if metadata == nil {
		metadata = map[string]any{}
	}
	u := User{
		ID:               id,
		Aud:              "authenticated",
		Role:             "authenticated",
		Email:            strings.ToLower(email),
		EmailConfirmedAt: &now,
		UserMetadata:     metadata,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	s.users = append(s.users, u)
	if !s.skipProfileTrigger {
		fullName, _ := metadata["full_name"].(string)
		s.tables["profiles"].rows = append(s.tables["profiles"].rows, Row{
			"id":        u.ID,
			"email":     u.Email,
			"full_name": fullName,
			"role":      "donor",
			"phone":     nil,
		})
	}
	return u
}

// listUsers returns the requested 1-based page.
func (s *Store) listUsers(page, perPage int) []User {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := (page - 1) * perPage
	if start >= len(s.users) {
		return []User{}
	}
	end := start + perPage
	if end > len(s.users) {
		end = len(s.users)
	}
	out := make([]User, end-start)
	copy(out, s.users[start:end])
	return out
}

func (s *Store) table(name string) (*table, bool) {
	t, ok := s.tables[name]
	return t, ok
}

func (s *Store) selectRows(name string, filters map[string]string) ([]Row, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.table(name)
	if !ok {
		return nil, false
	}
	out := []Row{}
	for _, r := range t.rows {
		if matches(r, filters) {
			out = append(out, cloneRow(r))
		}
	}
	return out, true
}

func (s *Store) patchRows(name string, filters map[string]string, patch Row) ([]Row, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.table(name)
	if !ok {
		return nil, false
	}
	out := []Row{}
	for _, r := range t.rows {
		if !matches(r, filters) {
			continue
		}
		for k, v := range patch {
			r[k] = v
		}
		out = append(out, cloneRow(r))
	}
	return out, true
}

// insertRow adds row, or merges it into the existing row when merge is set.
// It returns errDuplicateKey when the unique column collides without merge.
func (s *Store) insertRow(name string, row Row, merge bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.table(name)
	if !ok {
		return errUnknownTable
	}
	key := fmt.Sprint(row[t.unique])
	for _, existing := range t.rows {
		if fmt.Sprint(existing[t.unique]) != key {
			continue
		}
		if !merge {
			return errDuplicateKey
		}
		for k, v := range row {
			existing[k] = v
		}
		return nil
	}
	if _, ok := row["id"]; !ok {
		row["id"] = uuid.NewString()
	}
	t.rows = append(t.rows, cloneRow(row))
	return nil
}

func matches(r Row, filters map[string]string) bool {
	for col, want := range filters {
		v, ok := r[col]
		if !ok || v == nil {
			return false
		}
		if fmt.Sprint(v) != want {
			return false
		}
	}
	return true
}

func cloneRow(r Row) Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

func project(rows []Row, columns []string) []Row {
	if len(columns) == 0 {
		return rows
	}
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		p := Row{}
		for _, c := range columns {
			if v, ok := r[c]; ok {
				p[c] = v
			}
		}
		out = append(out, p)
	}
	return out
}
