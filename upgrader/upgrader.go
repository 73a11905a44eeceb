package upgrader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/NethermindEth/deploy-gateway/service"
	"github.com/NethermindEth/deploy-gateway/utils"
)

var _ service.Service = (*Upgrader)(nil)

type Upgrader struct {
	client         *http.Client
	log            utils.SimpleLogger
	apiURL         string
	currentVersion *semver.Version
	releasesURL    string
	delay          time.Duration
}

func NewUpgrader(version *semver.Version, apiURL, releasesURL string, delay time.Duration, log utils.SimpleLogger) *Upgrader {
	return &Upgrader{
		currentVersion: version,
		client:         &http.Client{Timeout: 30 * time.Second},
		log:            log,
		apiURL:         apiURL,
		releasesURL:    releasesURL,
		delay:          delay,
	}
}

func (u *Upgrader) WithClient(client *http.Client) *Upgrader {
	u.client = client
	return u
}

type Release struct {
	Version    *semver.Version `json:"tag_name"`
	Draft      bool            `json:"draft"`
	PreRelease bool            `json:"prerelease"`
}

// Run polls the latest release every delay and warns once a newer version is
// published.
func (u *Upgrader) Run(ctx context.Context) error {
	timer := time.NewTimer(time.Millisecond) // Don't wait the first time.
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
			latest, err := u.latestRelease(ctx)
			switch {
			case err != nil:
				u.log.Debugw("Failed to fetch latest release", "err", err)
			case latest.Draft || latest.PreRelease:
			case needsUpdate(*u.currentVersion, *latest.Version):
				u.log.Warnw("New release is available.",
					"currentVersion", u.currentVersion.String(),
					"newVersion", latest.Version.String(),
					"link", u.releasesURL,
				)
			default:
				u.log.Debugw("Application is up-to-date.")
			}
			timer.Reset(u.delay)
		}
	}
}

func (u *Upgrader) latestRelease(ctx context.Context) (*Release, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.apiURL, http.NoBody)
	if err != nil {
		return nil, err
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	latest := new(Release)
	if err = json.NewDecoder(resp.Body).Decode(latest); err != nil {
		return nil, fmt.Errorf("decode release: %w", err)
	}
	if latest.Version == nil {
		return nil, errors.New("release without a version")
	}
	return latest, nil
}

// needsUpdate reports whether latestVersion is a newer major, minor or patch
// release than currentVersion. Pre-release and build metadata are ignored.
func needsUpdate(currentVersion, latestVersion semver.Version) bool {
	current := semver.New(currentVersion.Major(), currentVersion.Minor(), currentVersion.Patch(), "", "")
	latest := semver.New(latestVersion.Major(), latestVersion.Minor(), latestVersion.Patch(), "", "")
	return latest.GreaterThan(current)
}
