package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"donorsetup/internal/domain"
	"donorsetup/internal/fakebackend"
)

func setEnv(t *testing.T, url, key string) {
	t.Helper()
	t.Setenv("SUPABASE_URL", url)
	t.Setenv("NEXT_PUBLIC_SUPABASE_URL", "")
	t.Setenv("SUPABASE_SERVICE_ROLE_KEY", key)
	t.Setenv("PROFILE_BACKEND", "rest")
	t.Setenv("SUPABASE_PAGE_SIZE", "")
	t.Setenv("SUPABASE_HTTP_TIMEOUT_SECONDS", "")
	t.Setenv("APP_ENV", "test")
	t.Setenv("LOG_LEVEL", "error")
}

func TestRunMissingConfigurationExitsOne(t *testing.T) {
	setEnv(t, "", "")
	var stdout, stderr bytes.Buffer

	require.Equal(t, 1, run(context.Background(), nil, &stdout, &stderr))
	require.Contains(t, stderr.String(), "configuration error")
}

func TestRunListFailureExitsOne(t *testing.T) {
	srv := fakebackend.NewServer(fakebackend.Options{ServiceKey: "service-key"})
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	setEnv(t, ts.URL, "wrong-key")
	var stdout, stderr bytes.Buffer

	require.Equal(t, 1, run(context.Background(), nil, &stdout, &stderr))
	require.Contains(t, stderr.String(), "list accounts")
}

func TestRunBackfillsKnownAccounts(t *testing.T) {
	store := fakebackend.NewStore()
	store.SkipProfileTrigger(true)
	store.SeedAccount("admin-id", "admin@starehe.ac.ke")
	ts := httptest.NewServer(fakebackend.NewServer(fakebackend.Options{ServiceKey: "service-key", Store: store}))
	t.Cleanup(ts.Close)
	setEnv(t, ts.URL, "service-key")
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"-json"}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	var report domain.Report
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &report))
	require.Equal(t, 1, report.Succeeded)
	require.Equal(t, 4, report.Failed)
	profiles := store.Profiles("admin@starehe.ac.ke")
	require.Len(t, profiles, 1)
	require.Equal(t, "admin", profiles[0]["role"])
}
