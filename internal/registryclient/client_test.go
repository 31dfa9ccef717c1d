package registryclient_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PetroDE/control/internal/registryclient"
	"gotest.tools/v3/assert"
)

// newTestClient builds a Client pointed at an httptest server through
// NewWithBaseURI, passing the server's plain-HTTP URL as the base URI in
// place of the https:// one New derives from the endpoint.
func newTestClient(t *testing.T, srv *httptest.Server) *registryclient.Client {
	t.Helper()
	host := mustHost(t, srv.URL)
	c, err := registryclient.NewWithBaseURI(host, srv.URL+"/v2", "", true)
	assert.NilError(t, err)
	return c
}

func mustHost(t *testing.T, rawurl string) string {
	t.Helper()
	u, err := url.Parse(rawurl)
	assert.NilError(t, err)
	return u.Host
}

func TestBuildDateParsesManifestHistory(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	v1, err := json.Marshal(map[string]interface{}{"created": created.Format(time.RFC3339Nano)})
	assert.NilError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/manifests/latest") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		body, _ := json.Marshal(map[string]interface{}{
			"history": []map[string]string{{"v1Compatibility": string(v1)}},
		})
		w.WriteHeader(http.StatusOK)
		w.Write(body)
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	got, err := c.BuildDate("library/busybox", "latest")
	assert.NilError(t, err)
	assert.Assert(t, got.Equal(created))
}

func TestBuildDateNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	_, err := c.BuildDate("library/busybox", "latest")
	assert.ErrorContains(t, err, "manifest not found")
}

func TestIsOfficial(t *testing.T) {
	assert.Assert(t, registryclient.IsOfficial(""))
	assert.Assert(t, registryclient.IsOfficial(registryclient.DefaultRegistryHost))
	assert.Assert(t, !registryclient.IsOfficial("registry.example.com"))
}
