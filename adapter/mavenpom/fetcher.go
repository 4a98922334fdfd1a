package mavenpom

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// fetcher retrieves a file's bytes from a repository base URL plus a
// repository-relative path. The default implementation wraps net/http;
// tests substitute one backed by httptest.Server or an in-memory map, the
// same seam deps.dev/util/resolve uses its resolve.Client interface for.
type fetcher interface {
	Fetch(ctx context.Context, repoBaseURL, relativePath string) ([]byte, error)
}

// httpFetcher is the default fetcher, issuing a GET against
// strings.TrimRight(repoBaseURL, "/") + "/" + strings.TrimLeft(relativePath, "/").
type httpFetcher struct {
	Client *http.Client
}

func newHTTPFetcher(client *http.Client) httpFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return httpFetcher{Client: client}
}

func (f httpFetcher) Fetch(ctx context.Context, repoBaseURL, relativePath string) ([]byte, error) {
	url := strings.TrimRight(repoBaseURL, "/") + "/" + strings.TrimLeft(relativePath, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, errNotFoundAt(url)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: unexpected status %s", url, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

type notFoundError struct{ url string }

func (e *notFoundError) Error() string { return fmt.Sprintf("GET %s: not found", e.url) }

func errNotFoundAt(url string) error { return &notFoundError{url: url} }

func isNotFound(err error) bool {
	_, ok := err.(*notFoundError)
	return ok
}

// layoutPath returns the repository-relative path of an artifact's file
// under the standard Maven2 layout:
// groupId(with . -> /)/artifactId/version/artifactId-version[-classifier].extension
func layoutPath(groupID, artifactID, version, classifier, extension string) string {
	dir := strings.ReplaceAll(groupID, ".", "/") + "/" + artifactID + "/" + version
	name := artifactID + "-" + version
	if classifier != "" {
		name += "-" + classifier
	}
	return dir + "/" + name + "." + extension
}

// metadataPath returns the repository-relative path of an artifact's
// maven-metadata.xml: groupId(with . -> /)/artifactId/maven-metadata.xml
func metadataPath(groupID, artifactID string) string {
	return strings.ReplaceAll(groupID, ".", "/") + "/" + artifactID + "/maven-metadata.xml"
}
