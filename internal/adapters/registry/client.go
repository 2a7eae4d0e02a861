// Package registry implements the Registry port over the package registry's HTTP API.
package registry

import (
	"context"
	"crypto/ed25519"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.trai.ch/depot/internal/build"
	"go.trai.ch/depot/internal/core/domain"
	"go.trai.ch/zerr"
)

const httpClientTimeout = 30 * time.Second

// Client implements ports.Registry.
type Client struct {
	baseURL    string
	httpClient *http.Client
	publicKey  ed25519.PublicKey
}

// NewClient creates a Client for the registry at baseURL, trusting the embedded public key.
func NewClient(baseURL string) *Client {
	return newClientWithKey(baseURL, &http.Client{Timeout: httpClientTimeout}, trustedPublicKey)
}

// newClientWithKey creates a Client with a custom http client and trusted key (used for testing).
func newClientWithKey(baseURL string, client *http.Client, key ed25519.PublicKey) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
		publicKey:  key,
	}
}

// GetPackage fetches the signed metadata for name and verifies it.
func (c *Client) GetPackage(ctx context.Context, name string) (*domain.PackageMetadata, error) {
	endpoint := c.baseURL + "/packages/" + url.PathEscape(name)

	body, err := c.doRequest(ctx, endpoint)
	if err != nil {
		return nil, zerr.With(err, "package", name)
	}
	defer func() {
		_ = body.Close()
	}()

	data, err := io.ReadAll(body)
	if err != nil {
		wrapped := zerr.With(zerr.Wrap(err, domain.ErrRegistryRequestFailed.Error()), "url", endpoint)
		return nil, zerr.With(wrapped, "package", name)
	}

	meta, err := decodeEnvelope(data, c.publicKey)
	if err != nil {
		return nil, zerr.With(err, "package", name)
	}
	if meta.Name != name {
		err := zerr.With(domain.ErrRegistryResponseInvalid, "package", name)
		return nil, zerr.With(err, "received_package", meta.Name)
	}

	return meta, nil
}

// GetArchive opens the release tarball for id. The archive's own signature is
// checked by the unpacker while it is read.
func (c *Client) GetArchive(ctx context.Context, id domain.PackageID) (io.ReadCloser, error) {
	endpoint := c.baseURL + "/tarballs/" + url.PathEscape(id.Name+"-"+id.Version+".tar")

	body, err := c.doRequest(ctx, endpoint)
	if err != nil {
		err = zerr.With(err, "package", id.Name)
		return nil, zerr.With(err, "version", id.Version)
	}
	return body, nil
}

func (c *Client) doRequest(ctx context.Context, endpoint string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrRegistryRequestFailed.Error()), "url", endpoint)
	}
	req.Header.Set("User-Agent", build.UserAgent())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrRegistryRequestFailed.Error()), "url", endpoint)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return resp.Body, nil
	case resp.StatusCode == http.StatusNotFound:
		_ = resp.Body.Close()
		return nil, zerr.With(domain.ErrPackageNotFound, "url", endpoint)
	default:
		_ = resp.Body.Close()
		statusErr := zerr.With(domain.ErrRegistryRequestFailed, "url", endpoint)
		return nil, zerr.With(statusErr, "status_code", resp.StatusCode)
	}
}
