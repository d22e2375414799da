// Package deploy publishes generated project files: a GitHub publisher
// that creates a repository and pushes files through the contents API,
// and a Netlify deployer that uploads a site archive. Both are best
// effort; a failed publish never fails the workflow that produced the
// files.
package deploy

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/agentix/studio/internal/agent"
)

const defaultGitHubAPI = "https://api.github.com"

// GitHubPublisher creates a repository and uploads generated files.
type GitHubPublisher struct {
	token   string
	owner   string
	baseURL string
	client  *http.Client
}

var _ agent.RepositoryPublisher = (*GitHubPublisher)(nil)

// NewGitHubPublisher creates a publisher for the given account.
func NewGitHubPublisher(token, owner string) *GitHubPublisher {
	return &GitHubPublisher{
		token:   token,
		owner:   owner,
		baseURL: defaultGitHubAPI,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Publish creates a repository named after the project and uploads each
// file through the contents API. It returns the repository's web URL.
func (g *GitHubPublisher) Publish(ctx context.Context, name string, files map[string]string) (string, error) {
	if g.token == "" {
		return "", fmt.Errorf("no GitHub token configured")
	}

	repoURL, err := g.createRepo(ctx, name)
	if err != nil {
		return "", err
	}

	paths := make([]string, 0, len(files))
	for path := range files {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		if err := g.uploadFile(ctx, name, path, files[path]); err != nil {
			return "", fmt.Errorf("upload %s: %w", path, err)
		}
	}
	return repoURL, nil
}

func (g *GitHubPublisher) createRepo(ctx context.Context, name string) (string, error) {
	body, _ := json.Marshal(map[string]any{
		"name":        name,
		"description": "Generated by studio",
		"private":     false,
		"auto_init":   false,
	})

	resp, err := g.do(ctx, http.MethodPost, g.baseURL+"/user/repos", body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", apiError("create repository", resp)
	}

	var created struct {
		HTMLURL string `json:"html_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("decode create response: %w", err)
	}
	return created.HTMLURL, nil
}

func (g *GitHubPublisher) uploadFile(ctx context.Context, repo, path, content string) error {
	body, _ := json.Marshal(map[string]any{
		"message": "Add " + path,
		"content": base64.StdEncoding.EncodeToString([]byte(content)),
	})

	endpoint := fmt.Sprintf("%s/repos/%s/%s/contents/%s",
		g.baseURL, g.owner, repo, url.PathEscape(path))
	resp, err := g.do(ctx, http.MethodPut, endpoint, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return apiError("upload file", resp)
	}
	return nil
}

func (g *GitHubPublisher) do(ctx context.Context, method, endpoint string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+g.token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Content-Type", "application/json")
	return g.client.Do(req)
}

func apiError(op string, resp *http.Response) error {
	detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("%s: status %d: %s", op, resp.StatusCode, bytes.TrimSpace(detail))
}
