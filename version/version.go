// Package version tracks the running build against published releases.
package version

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/metafates/gache"
	"github.com/vodhound/vodhound/filesystem"
	"github.com/vodhound/vodhound/network"
	"github.com/vodhound/vodhound/util"
	"github.com/vodhound/vodhound/where"
)

const latestReleaseURL = "https://api.github.com/repos/vodhound/vodhound/releases/latest"

// Release lookups are cached for two days to stay clear of the
// unauthenticated GitHub API rate limit.
var latestCache = gache.New[string](&gache.Options{
	Path:       filepath.Join(where.Cache(), "version.json"),
	Lifetime:   48 * time.Hour,
	FileSystem: &filesystem.GacheFs{},
})

// Latest returns the newest published version, without the leading "v".
func Latest() (string, error) {
	cached, expired, err := latestCache.Get()
	if err != nil {
		return "", err
	}

	if !expired && cached != "" {
		return cached, nil
	}

	resp, err := network.Client.Get(latestReleaseURL)
	if err != nil {
		return "", err
	}
	defer util.Ignore(resp.Body.Close)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("release lookup: %s", resp.Status)
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", err
	}

	if release.TagName == "" {
		return "", fmt.Errorf("release lookup: empty tag name")
	}

	version := strings.TrimPrefix(release.TagName, "v")
	_ = latestCache.Set(version)

	return version, nil
}
