package pypi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/monorhyme/internal/domain/entities"
	"github.com/rios0rios0/monorhyme/internal/domain/repositories"
)

const (
	registryName = "pypi"
	retryWaitMin = 500 * time.Millisecond
	retryWaitMax = 5 * time.Second
)

// separatorRuns matches the runs of separators PEP 503 collapses into "-".
var separatorRuns = regexp.MustCompile(`[-_.]+`)

// projectResponse is the subset of the PyPI JSON API used here.
type projectResponse struct {
	Info struct {
		Version string `json:"version"`
	} `json:"info"`
}

// RegistryRepository resolves the latest release of a package through the
// PyPI JSON API (`GET {base}/{project}/json`).
type RegistryRepository struct {
	baseURL string
	timeout time.Duration
	client  *retryablehttp.Client
}

// NewRegistryRepository creates a PyPI client. Transport errors and 5xx
// responses are retried with exponential backoff. The configured timeout
// bounds a whole lookup, retries included.
func NewRegistryRepository(settings entities.RegistrySettings) repositories.RegistryRepository {
	client := retryablehttp.NewClient()
	client.HTTPClient.Timeout = settings.Timeout
	client.RetryMax = settings.Retries
	client.RetryWaitMin = retryWaitMin
	client.RetryWaitMax = retryWaitMax
	client.Logger = retryLogger{}

	return &RegistryRepository{
		baseURL: strings.TrimRight(settings.BaseURL, "/"),
		timeout: settings.Timeout,
		client:  client,
	}
}

func (it *RegistryRepository) Name() string { return registryName }

// LatestVersion returns `info.version` of the project. Every failure is
// reported as entities.ErrResolution.
func (it *RegistryRepository) LatestVersion(ctx context.Context, name string) (string, error) {
	endpoint := fmt.Sprintf("%s/%s/json", it.baseURL, url.PathEscape(NormalizeName(name)))
	logger.Debugf("[pypi] GET %s", endpoint)

	if it.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, it.timeout)
		defer cancel()
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %w", entities.ErrResolution, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := it.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", entities.ErrResolution, name, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", fmt.Errorf("%w: %q is not published on %s", entities.ErrResolution, name, it.baseURL)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("%w: %q: unexpected status code %d", entities.ErrResolution, name, resp.StatusCode)
	}

	var project projectResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&project); decodeErr != nil {
		return "", fmt.Errorf("%w: %q: failed to parse response: %w", entities.ErrResolution, name, decodeErr)
	}
	if project.Info.Version == "" {
		return "", fmt.Errorf("%w: %q: response has no version", entities.ErrResolution, name)
	}

	logger.Debugf("[pypi] Latest version of %s: %s", name, project.Info.Version)
	return project.Info.Version, nil
}

// NormalizeName returns the PEP 503 normalized form of a project name.
func NormalizeName(name string) string {
	return separatorRuns.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}

// retryLogger routes the retry client's messages to debug level.
type retryLogger struct{}

func (retryLogger) Error(msg string, keysAndValues ...interface{}) {
	logger.WithFields(toFields(keysAndValues)).Debugf("[pypi] %s", msg)
}

func (retryLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.WithFields(toFields(keysAndValues)).Debugf("[pypi] %s", msg)
}

func (retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	logger.WithFields(toFields(keysAndValues)).Debugf("[pypi] %s", msg)
}

func (retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	logger.WithFields(toFields(keysAndValues)).Warnf("[pypi] %s", msg)
}

func toFields(keysAndValues []interface{}) logger.Fields {
	fields := logger.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return fields
}
