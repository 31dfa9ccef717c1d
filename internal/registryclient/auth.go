package registryclient

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

type basicAuth struct {
	username string
	password string
}

// dockerConfig is the handful of ~/.docker/config.json fields this package
// reads; everything else in that file (credential helpers, kubernetes
// contexts) is ignored.
type dockerConfig struct {
	Auths map[string]struct {
		Auth string `json:"auth"`
	} `json:"auths"`
}

// lookupBasicAuth mirrors the original constructor's credential discovery:
// read ~/.docker/config.json, find the "https://<endpoint>" entry, and
// base64-decode its "user:pass" auth blob. A missing config file or a
// missing entry for this endpoint is not an error — it just means
// subsequent requests go out unauthenticated.
func lookupBasicAuth(endpoint string) (*basicAuth, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, nil
	}
	path := filepath.Join(home, ".docker", "config.json")
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil
	}

	var cfg dockerConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		logrus.Warnf("registryclient: docker config file not valid JSON: %v", err)
		return nil, nil
	}

	entry, ok := cfg.Auths["https://"+endpoint]
	if !ok {
		return nil, nil
	}
	decoded, err := base64.StdEncoding.DecodeString(entry.Auth)
	if err != nil {
		logrus.Warnf("registryclient: auth entry for %s is not valid base64: %v", endpoint, err)
		return nil, nil
	}
	user, pass, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return nil, nil
	}
	logrus.Debugf("registryclient: using basic auth for %s", endpoint)
	return &basicAuth{username: user, password: pass}, nil
}
