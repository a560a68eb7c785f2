// Package updater checks GitHub for a newer nlv release
package updater

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Dicklesworthstone/numberline_viewer/pkg/version"
)

// LatestReleaseURL is the GitHub API endpoint for the newest release
const LatestReleaseURL = "https://api.github.com/repos/Dicklesworthstone/numberline_viewer/releases/latest"

// Release is the subset of the GitHub release payload we read
type Release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// Checker queries a release endpoint
type Checker struct {
	Client  *http.Client
	URL     string
	Current string
}

// NewChecker returns a checker for the running build with a short timeout
func NewChecker() *Checker {
	return &Checker{
		// Short timeout so a slow network never stalls the CLI
		Client:  &http.Client{Timeout: 2 * time.Second},
		URL:     LatestReleaseURL,
		Current: version.Version,
	}
}

// CheckForUpdates returns the newer tag and its page URL, or empty strings
// when the running build is current.
func (c *Checker) CheckForUpdates(ctx context.Context) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("checking for updates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("github api returned status: %s", resp.Status)
	}

	var rel Release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return "", "", fmt.Errorf("decoding release: %w", err)
	}

	if CompareVersions(rel.TagName, c.Current) > 0 {
		return rel.TagName, rel.HTMLURL, nil
	}
	return "", "", nil
}

// CompareVersions returns 1 if v1 > v2, -1 if v1 < v2, 0 if equal.
// Versions are dotted numbers with an optional "v" prefix; a pre-release
// suffix ("-rc1") sorts before the plain version.
func CompareVersions(v1, v2 string) int {
	c1, pre1 := splitVersion(v1)
	c2, pre2 := splitVersion(v2)

	for i := 0; i < max(len(c1), len(c2)); i++ {
		var a, b int
		if i < len(c1) {
			a = c1[i]
		}
		if i < len(c2) {
			b = c2[i]
		}
		if a != b {
			if a > b {
				return 1
			}
			return -1
		}
	}

	switch {
	case pre1 == pre2:
		return 0
	case pre1 == "":
		return 1
	case pre2 == "":
		return -1
	case pre1 > pre2:
		return 1
	}
	return -1
}

// splitVersion parses "v1.10.2-rc1" into [1 10 2] and "rc1". Non-numeric
// segments count as 0.
func splitVersion(v string) ([]int, string) {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	core, pre, _ := strings.Cut(v, "-")
	parts := strings.Split(core, ".")
	nums := make([]int, len(parts))
	for i, p := range parts {
		nums[i], _ = strconv.Atoi(p)
	}
	return nums, pre
}
