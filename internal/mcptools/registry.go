package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the public proxy in front of the GitHub and npm APIs.
const DefaultBaseURL = "https://npm-trends-proxy.uidotdev.workers.dev"

// GitHubStats is the shape returned by get-github-stats. The proxy reports
// null forks and issues for some repositories.
type GitHubStats struct {
	Name            string `json:"name"`
	StarsCount      int    `json:"starsCount"`
	ForksCount      *int   `json:"forksCount"`
	IssuesCount     *int   `json:"issuesCount"`
	OpenIssuesCount int    `json:"openIssuesCount"`
}

// PackageInfo is the simplified npm package returned by
// get-npm-package-info.
type PackageInfo struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	LatestVersion string `json:"latestVersion"`
	Created       string `json:"created"`
	Modified      string `json:"modified"`
	RepositoryURL string `json:"repositoryUrl,omitempty"`
	Homepage      string `json:"homepage,omitempty"`
}

type registryPackage struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Time        map[string]string `json:"time"`
	DistTags    map[string]string `json:"dist-tags"`
	Repository  *struct {
		URL string `json:"url"`
	} `json:"repository"`
	Homepage string `json:"homepage"`
}

// Registry fetches repository and package metadata from the proxy.
type Registry struct {
	baseURL string
	http    *http.Client
}

// NewRegistry returns a Registry rooted at baseURL, or DefaultBaseURL when
// empty.
func NewRegistry(baseURL string, timeout time.Duration) *Registry {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Registry{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// GitHubStats returns star, fork and issue counts of owner/repo.
func (r *Registry) GitHubStats(ctx context.Context, owner, repo string) (GitHubStats, error) {
	var stats GitHubStats
	path := "/github/repos/" + escapeComponent(owner) + "/" + escapeComponent(repo)
	err := r.get(ctx, path, &stats, fmt.Sprintf("Repository %s/%s not found", owner, repo))
	return stats, err
}

// PackageInfo returns the latest version and dates of an npm package.
// Scoped names such as "@angular/cli" are escaped into one path segment.
func (r *Registry) PackageInfo(ctx context.Context, name string) (PackageInfo, error) {
	var pkg registryPackage
	path := "/npm/registry/" + escapeComponent(name)
	if err := r.get(ctx, path, &pkg, fmt.Sprintf("Package %q not found", name)); err != nil {
		return PackageInfo{}, err
	}

	info := PackageInfo{
		Name:          pkg.Name,
		Description:   pkg.Description,
		LatestVersion: pkg.DistTags["latest"],
		Created:       pkg.Time["created"],
		Modified:      pkg.Time["modified"],
		Homepage:      pkg.Homepage,
	}
	if pkg.Repository != nil {
		info.RepositoryURL = pkg.Repository.URL
	}
	return info, nil
}

// escapeComponent encodes s as a single path segment the way browsers'
// encodeURIComponent does, so "@angular/cli" becomes "%40angular%2Fcli".
func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func (r *Registry) get(ctx context.Context, path string, out any, notFound string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s", notFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("HTTP error! status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
