package fakebackend

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func doJSON(t *testing.T, h http.Handler, method, target string, body any, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("apikey", "service-key")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestCreateUserAndDuplicate(t *testing.T) {
	srv := NewServer(Options{ServiceKey: "service-key"})
	payload := map[string]any{
		"email":         "donor@example.test",
		"password":      "Donor@123",
		"email_confirm": true,
		"user_metadata": map[string]any{"full_name": "Test Donor"},
	}

	rr := doJSON(t, srv, http.MethodPost, "/auth/v1/admin/users", payload, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var user User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &user))
	require.NotEmpty(t, user.ID)
	require.Equal(t, "donor@example.test", user.Email)

	profiles := srv.Store().Profiles("donor@example.test")
	require.Len(t, profiles, 1)
	require.Equal(t, user.ID, profiles[0]["id"])
	require.Equal(t, "Test Donor", profiles[0]["full_name"])

	rr = doJSON(t, srv, http.MethodPost, "/auth/v1/admin/users", payload, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	require.Contains(t, rr.Body.String(), "email_exists")
	require.Equal(t, 1, srv.Store().CountAccounts("donor@example.test"))
}

func TestUnauthorizedWithoutServiceKey(t *testing.T) {
	srv := NewServer(Options{ServiceKey: "service-key"})
	req := httptest.NewRequest(http.MethodGet, "/auth/v1/admin/users", nil)
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestListUsersPaging(t *testing.T) {
	srv := NewServer(Options{ServiceKey: "service-key"})
	for _, email := range []string{"a@x.test", "b@x.test", "c@x.test"} {
		srv.Store().SeedAccount(email+"-id", email)
	}

	rr := doJSON(t, srv, http.MethodGet, "/auth/v1/admin/users?page=2&per_page=2", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Users []User `json:"users"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Users, 1)
	require.Equal(t, "c@x.test", resp.Users[0].Email)
}

func TestPatchProfilesReturnsRepresentation(t *testing.T) {
	srv := NewServer(Options{ServiceKey: "service-key"})
	srv.Store().SeedAccount("id-1", "admin@x.test")

	rr := doJSON(t, srv, http.MethodPatch, "/rest/v1/profiles?email=eq.admin@x.test",
		map[string]any{"role": "admin", "full_name": "Admin"},
		map[string]string{"Prefer": "return=representation"})
	require.Equal(t, http.StatusOK, rr.Code)

	var rows []Row
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	require.Equal(t, "admin", rows[0]["role"])

	rr = doJSON(t, srv, http.MethodPatch, "/rest/v1/profiles?email=eq.ghost@x.test",
		map[string]any{"role": "admin"},
		map[string]string{"Prefer": "return=representation"})
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `[]`, rr.Body.String())
}

func TestInsertDonorUniqueUserID(t *testing.T) {
	srv := NewServer(Options{ServiceKey: "service-key"})
	donor := map[string]any{"user_id": "id-1", "donor_type": "individual", "total_donated": 0, "donation_count": 0}

	rr := doJSON(t, srv, http.MethodPost, "/rest/v1/donors", donor, nil)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(t, srv, http.MethodPost, "/rest/v1/donors", donor, nil)
	require.Equal(t, http.StatusConflict, rr.Code)
	require.Contains(t, rr.Body.String(), "23505")
	require.Equal(t, 1, srv.Store().CountDonors("id-1"))

	rr = doJSON(t, srv, http.MethodGet, "/rest/v1/donors?user_id=eq.id-1&select=id", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var rows []Row
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	require.Len(t, rows[0], 1)
	require.Contains(t, rows[0], "id")
}

func TestInsertProfileMergeDuplicates(t *testing.T) {
	srv := NewServer(Options{ServiceKey: "service-key"})
	srv.Store().SkipProfileTrigger(true)
	row := map[string]any{"id": "id-1", "email": "a@x.test", "full_name": "A", "role": "donor"}

	rr := doJSON(t, srv, http.MethodPost, "/rest/v1/profiles?on_conflict=id", row,
		map[string]string{"Prefer": "resolution=merge-duplicates,return=minimal"})
	require.Equal(t, http.StatusCreated, rr.Code)

	row["role"] = "admin"
	rr = doJSON(t, srv, http.MethodPost, "/rest/v1/profiles?on_conflict=id", row,
		map[string]string{"Prefer": "resolution=merge-duplicates,return=minimal"})
	require.Equal(t, http.StatusCreated, rr.Code)

	profiles := srv.Store().Profiles("a@x.test")
	require.Len(t, profiles, 1)
	require.Equal(t, "admin", profiles[0]["role"])

	rr = doJSON(t, srv, http.MethodPost, "/rest/v1/profiles", row, nil)
	require.Equal(t, http.StatusConflict, rr.Code)
}

func TestUnknownTableAndOperator(t *testing.T) {
	srv := NewServer(Options{ServiceKey: "service-key"})

	rr := doJSON(t, srv, http.MethodGet, "/rest/v1/campaigns", nil, nil)
	require.Equal(t, http.StatusNotFound, rr.Code)

	rr = doJSON(t, srv, http.MethodGet, "/rest/v1/profiles?email=like.a*", nil, nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestFailEmailInjectsStatus(t *testing.T) {
	srv := NewServer(Options{ServiceKey: "service-key"})
	srv.Store().FailEmail("broken@x.test", http.StatusServiceUnavailable)

	rr := doJSON(t, srv, http.MethodPost, "/auth/v1/admin/users",
		map[string]any{"email": "broken@x.test", "password": "secret1"}, nil)
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
	require.Equal(t, 0, srv.Store().CountAccounts("broken@x.test"))
}

func TestHealthSkipsServiceKey(t *testing.T) {
	srv := NewServer(Options{ServiceKey: "service-key"})
	req := httptest.NewRequest(http.MethodGet, "/auth/v1/health", nil)
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), `"status":"ok"`)
}
