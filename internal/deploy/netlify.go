package deploy

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/agentix/studio/internal/agent"
)

const defaultNetlifyAPI = "https://api.netlify.com/api/v1"

// NetlifyDeployer creates a site and uploads generated frontend files
// as a zip deploy.
type NetlifyDeployer struct {
	token   string
	baseURL string
	client  *http.Client
}

var _ agent.SiteDeployer = (*NetlifyDeployer)(nil)

// NewNetlifyDeployer creates a deployer with the given token.
func NewNetlifyDeployer(token string) *NetlifyDeployer {
	return &NetlifyDeployer{
		token:   token,
		baseURL: defaultNetlifyAPI,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// Deploy creates a site named after the project and uploads the files.
// It returns the site URL.
func (n *NetlifyDeployer) Deploy(ctx context.Context, name string, files map[string]string) (string, error) {
	if n.token == "" {
		return "", fmt.Errorf("no Netlify token configured")
	}

	siteID, siteURL, err := n.createSite(ctx, name)
	if err != nil {
		return "", err
	}

	archive, err := zipFiles(files)
	if err != nil {
		return "", fmt.Errorf("build site archive: %w", err)
	}

	endpoint := fmt.Sprintf("%s/sites/%s/deploys", n.baseURL, siteID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(archive))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+n.token)
	req.Header.Set("Content-Type", "application/zip")

	resp, err := n.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", apiError("create deploy", resp)
	}
	return siteURL, nil
}

func (n *NetlifyDeployer) createSite(ctx context.Context, name string) (id, url string, err error) {
	body, _ := json.Marshal(map[string]any{"name": name})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+"/sites", bytes.NewReader(body))
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Authorization", "Bearer "+n.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", "", apiError("create site", resp)
	}

	var site struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&site); err != nil {
		return "", "", fmt.Errorf("decode site response: %w", err)
	}
	return site.ID, site.URL, nil
}

// zipFiles packs the file map into a zip archive with deterministic
// entry order.
func zipFiles(files map[string]string) ([]byte, error) {
	paths := make([]string, 0, len(files))
	for path := range files {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, path := range paths {
		f, err := w.Create(path)
		if err != nil {
			return nil, err
		}
		if _, err := f.Write([]byte(files[path])); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
