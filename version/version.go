// Package version provides application version tracking and update discovery.
package version

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/metafates/gache"
	"github.com/vres-cli/vres/filesystem"
	"github.com/vres-cli/vres/network"
	"github.com/vres-cli/vres/where"
)

// ReleasesURL points at the latest release of the project.
var ReleasesURL = "https://api.github.com/repos/vres-cli/vres/releases/latest"

const cacheLifetime = time.Hour * 24 * 2

var versionCacher = gache.New[string](&gache.Options{
	Path:       where.VersionCache(),
	Lifetime:   cacheLifetime,
	FileSystem: &filesystem.GacheFs{},
})

// Latest retrieves the most recent stable version from the release registry.
// The result is cached on disk for two days.
func Latest(ctx context.Context) (version string, err error) {
	ver, expired, err := versionCacher.Get()
	if err != nil {
		return "", err
	}

	if !expired && ver != "" {
		return ver, nil
	}

	resp, err := network.Default().Get(ctx, ReleasesURL, "", nil)
	if err != nil {
		return "", err
	}

	var release struct {
		TagName string `json:"tag_name"`
	}

	if err = json.Unmarshal([]byte(resp.Body), &release); err != nil {
		return "", err
	}

	if release.TagName == "" {
		return "", errors.New("empty tag name")
	}

	version = strings.TrimPrefix(release.TagName, "v")
	_ = versionCacher.Set(version)
	return version, nil
}
