// SPDX-License-Identifier: MPL-2.0

package verify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/git-pkgs/registries"
)

func newTestRegistry(t *testing.T, packages map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := packages[r.URL.EscapedPath()]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testClient() *registries.Client {
	return registries.NewClient(registries.WithMaxRetries(0))
}

func TestVerifier_Latest(t *testing.T) {
	srv := newTestRegistry(t, map[string]string{
		"/@acme%2Fwidget": `{
			"_id": "@acme/widget",
			"name": "@acme/widget",
			"dist-tags": {"latest": "1.2.0"},
			"versions": {
				"1.1.0": {"name": "@acme/widget", "version": "1.1.0"},
				"1.2.0": {"name": "@acme/widget", "version": "1.2.0"}
			},
			"time": {
				"1.1.0": "2024-01-01T00:00:00.000Z",
				"1.2.0": "2024-02-01T00:00:00.000Z"
			}
		}`,
		"/@acme%2Fdeprecated": `{
			"_id": "@acme/deprecated",
			"name": "@acme/deprecated",
			"versions": {
				"1.0.0": {"name": "@acme/deprecated", "version": "1.0.0", "deprecated": "use widget"}
			}
		}`,
	})

	v, err := New(srv.URL, testClient())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	got, err := v.Latest(context.Background(), "@acme/widget")
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if got != "1.2.0" {
		t.Errorf("Latest() = %q, want 1.2.0", got)
	}

	if _, err := v.Latest(context.Background(), "@acme/deprecated"); !errors.Is(err, ErrNoVersion) {
		t.Errorf("Latest(deprecated) error = %v, want ErrNoVersion", err)
	}
}

func TestVerifier_Latest_NotFound(t *testing.T) {
	srv := newTestRegistry(t, nil)

	v, err := New(srv.URL, testClient())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	_, err = v.Latest(context.Background(), "@acme/missing")
	if !errors.Is(err, ErrNotPublished) {
		t.Errorf("Latest() error = %v, want ErrNotPublished", err)
	}
}
