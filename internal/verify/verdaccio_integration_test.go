// SPDX-License-Identifier: MPL-2.0

package verify

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/plutotcool/release/internal/testutil"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const verdaccioImage = "verdaccio/verdaccio:6"

// checkTestcontainersAvailable reports whether a container provider can be
// reached. Provider discovery may panic without a container engine.
func checkTestcontainersAvailable() (available bool) {
	defer func() {
		if r := recover(); r != nil {
			available = false
		}
	}()

	provider, err := testcontainers.ProviderDocker.GetProvider()
	if err != nil {
		return false
	}
	defer provider.Close()
	return true
}

// startVerdaccio runs a throwaway npm registry and returns its URL.
func startVerdaccio(t *testing.T) string {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	if !checkTestcontainersAvailable() {
		t.Skip("skipping registry integration test: no container engine available")
	}

	sem := testutil.ContainerSemaphore()
	sem <- struct{}{}
	t.Cleanup(func() { <-sem })

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        verdaccioImage,
			ExposedPorts: []string{"4873/tcp"},
			WaitingFor: wait.ForHTTP("/-/ping").
				WithPort("4873/tcp").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("skipping: could not start %s: %v", verdaccioImage, err)
	}
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	endpoint, err := container.PortEndpoint(ctx, "4873/tcp", "http")
	if err != nil {
		t.Fatalf("resolve registry endpoint: %v", err)
	}
	return endpoint
}

// publishFixture creates a registry user and publishes name@version with
// the npm registry protocol.
func publishFixture(t *testing.T, registry, name, version string) {
	t.Helper()

	token := addUser(t, registry)
	tarball := packFixture(t, name, version)
	file := fmt.Sprintf("fixture-%s.tgz", version)

	doc := map[string]any{
		"_id":       name,
		"name":      name,
		"dist-tags": map[string]string{"latest": version},
		"versions": map[string]any{
			version: map[string]any{
				"name":    name,
				"version": version,
				"dist": map[string]string{
					"tarball": registry + "/" + name + "/-/" + file,
				},
			},
		},
		"_attachments": map[string]any{
			file: map[string]any{
				"content_type": "application/octet-stream",
				"data":         base64.StdEncoding.EncodeToString(tarball),
				"length":       len(tarball),
			},
		},
	}

	putJSON(t, registry+"/"+url.PathEscape(name), token, doc, nil)
}

func addUser(t *testing.T, registry string) string {
	t.Helper()

	var resp struct {
		Token string `json:"token"`
	}
	putJSON(t, registry+"/-/user/org.couchdb.user:release", "", map[string]string{
		"name":     "release",
		"password": "release-test",
		"email":    "release@example.com",
	}, &resp)
	if resp.Token == "" {
		t.Fatal("registry returned no token for the new user")
	}
	return resp.Token
}

func putJSON(t *testing.T, target, token string, body, out any) {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPut, target, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT %s: %v", target, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		t.Fatalf("PUT %s: %s", target, resp.Status)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s response: %v", target, err)
		}
	}
}

func packFixture(t *testing.T, name, version string) []byte {
	t.Helper()

	manifest := fmt.Sprintf(`{"name": %q, "version": %q}`, name, version)
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	if err := tw.WriteHeader(&tar.Header{Name: "package/package.json", Mode: 0o644, Size: int64(len(manifest))}); err != nil {
		t.Fatalf("write tar header: %v", err)
	}
	if _, err := tw.Write([]byte(manifest)); err != nil {
		t.Fatalf("write tar entry: %v", err)
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("close tar: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("close gzip: %v", err)
	}
	return buf.Bytes()
}

func TestVerifier_Verdaccio(t *testing.T) {
	registry := startVerdaccio(t)
	publishFixture(t, registry, "@acme/widget", "1.4.2")

	v, err := New(registry, testClient())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	got, err := v.Latest(context.Background(), "@acme/widget")
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if got != "1.4.2" {
		t.Errorf("Latest() = %q, want 1.4.2", got)
	}

	if _, err := v.Latest(context.Background(), "@acme/never-published-"+fmt.Sprint(time.Now().UnixNano())); !errors.Is(err, ErrNotPublished) {
		t.Errorf("Latest(unknown) error = %v, want ErrNotPublished", err)
	}
}
