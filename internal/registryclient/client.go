// Package registryclient is a small Docker Registry HTTP API V2 client for
// a freshness check: given an image reference, fetch its manifest and read
// the remote build timestamp back out of it, so a caller can compare it
// with a locally cached image. The dispatcher does not call it; builds and
// pulls never consult a registry for freshness. It does not implement
// push, blob upload, or any V1 compatibility path.
package registryclient

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// DefaultRegistryHost and IndexHostname are the well-known Docker Hub
// identities, the same values imageref declares; IsOfficial uses them to
// recognize an official image.
const (
	DefaultRegistryHost = "registry-1.docker.io"
	IndexHostname       = "index.docker.io"
)

// ErrNotFound is returned when the registry has no manifest for the
// requested image:tag.
var ErrNotFound = errors.New("registryclient: manifest not found")

// ErrUnauthorized is returned when the registry rejects the request for
// lack of (or invalid) credentials, mirroring the original's "run docker
// login" guidance.
var ErrUnauthorized = errors.New("registryclient: not authorized, run a registry login")

// Client talks to one registry endpoint (domain[:port]) over the V2 API.
type Client struct {
	Endpoint   string
	baseURI    string
	httpClient *http.Client
	auth       *basicAuth
}

// New builds a Client for endpoint (domain, optionally with ":port"). It
// discovers basic-auth credentials from ~/.docker/config.json and selects a
// trust root from certDir/<endpoint>/*, the same two discovery steps the
// original's constructor performs before issuing any request. noVerify
// disables TLS verification entirely (the original's `--no-verify` escape
// hatch for self-signed registries during development).
func New(endpoint string, certDir string, noVerify bool) (*Client, error) {
	return NewWithBaseURI(endpoint, fmt.Sprintf("https://%s/v2", endpoint), certDir, noVerify)
}

// NewWithBaseURI is New with an explicit base URI in place of the derived
// "https://<endpoint>/v2", for registries fronted by a non-standard path
// (e.g. a reverse proxy rewriting /v2 elsewhere) and for tests that stand
// up a plain-HTTP fake registry.
func NewWithBaseURI(endpoint, baseURI, certDir string, noVerify bool) (*Client, error) {
	c := &Client{
		Endpoint: endpoint,
		baseURI:  baseURI,
	}

	creds, err := lookupBasicAuth(endpoint)
	if err != nil {
		return nil, err
	}
	c.auth = creds

	transport := &http.Transport{}
	if noVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // explicit operator opt-out
	} else if pool, ok := selectCertPool(certDir, endpoint); ok {
		transport.TLSClientConfig = &tls.Config{RootCAs: pool}
	}
	c.httpClient = &http.Client{Transport: transport, Timeout: 15 * time.Second}

	return c, nil
}

// get issues an authenticated GET against the registry.
func (c *Client) get(uri string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, uri, nil)
	if err != nil {
		return nil, err
	}
	if c.auth != nil {
		req.SetBasicAuth(c.auth.username, c.auth.password)
	}
	return c.httpClient.Do(req)
}

// manifest is the subset of the V2 manifest schema this probe reads: just
// enough of the first history entry's embedded v1Compatibility blob to
// recover the image's build timestamp.
type manifest struct {
	History []struct {
		V1Compatibility string `json:"v1Compatibility"`
	} `json:"history"`
}

type v1Compatibility struct {
	Created time.Time `json:"created"`
}

// BuildDate fetches the manifest for image:tag and returns the timestamp
// embedded in its most recent history entry, the registry-side equivalent
// of `docker inspect -f {{.Created}}`.
func (c *Client) BuildDate(image, tag string) (time.Time, error) {
	uri := fmt.Sprintf("%s/%s/manifests/%s", c.baseURI, image, tag)
	resp, err := c.get(uri)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "fetching manifest for %s:%s", image, tag)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return time.Time{}, errors.Wrapf(ErrUnauthorized, "%s", c.Endpoint)
	case http.StatusNotFound:
		return time.Time{}, errors.Wrapf(ErrNotFound, "%s:%s", image, tag)
	default:
		return time.Time{}, fmt.Errorf("registryclient: unexpected status %d from %s", resp.StatusCode, uri)
	}

	var m manifest
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		return time.Time{}, errors.Wrap(err, "decoding manifest")
	}
	if len(m.History) == 0 {
		return time.Time{}, fmt.Errorf("registryclient: manifest for %s:%s has no history", image, tag)
	}

	var v1 v1Compatibility
	if err := json.Unmarshal([]byte(m.History[0].V1Compatibility), &v1); err != nil {
		return time.Time{}, errors.Wrap(err, "decoding v1Compatibility")
	}
	return v1.Created, nil
}

// NeedsPull reports whether the registry's copy of image:tag was built
// after localBuildDate, i.e. whether a cached local image is stale. A
// clock-equal comparison is treated as fresh (no pull needed).
func (c *Client) NeedsPull(image, tag string, localBuildDate time.Time) (bool, error) {
	remote, err := c.BuildDate(image, tag)
	if err != nil {
		return false, err
	}
	return remote.After(localBuildDate), nil
}

// IsOfficial reports whether endpoint names the default Docker Hub
// registry (an empty endpoint counts as Docker Hub). No caller in this
// module consults it.
func IsOfficial(endpoint string) bool {
	return endpoint == "" || endpoint == DefaultRegistryHost || endpoint == IndexHostname
}
