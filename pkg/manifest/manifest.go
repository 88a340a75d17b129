package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"

	"github.com/sol-eng/wbi/pkg/types"
	"github.com/sol-eng/wbi/pkg/utils"
)

// DefaultURL is where Posit publishes its installer manifest.
const DefaultURL = "https://www.rstudio.com/wp-content/downloads.json"

// Manifest is the downloads document with each top-level product kept as
// raw JSON. Products are decoded only when looked up, so entries the
// resolver never reads cannot break parsing.
type Manifest map[string]json.RawMessage

// Options controls how the manifest is fetched. A zero Timeout waits
// indefinitely and zero Retries makes a single attempt.
type Options struct {
	URL     string
	Timeout time.Duration
	Retries uint64
}

// Fetcher downloads and parses the manifest.
type Fetcher struct {
	opts   Options
	client *http.Client
}

// For testing.
var newBackOff = func() backoff.BackOff {
	return backoff.NewExponentialBackOff()
}

func NewFetcher(opts Options) *Fetcher {
	if opts.URL == "" {
		opts.URL = DefaultURL
	}
	return &Fetcher{
		opts:   opts,
		client: utils.NewHTTPClient(opts.Timeout),
	}
}

// URL returns the manifest location this fetcher reads.
func (f *Fetcher) URL() string {
	return f.opts.URL
}

// Fetch issues the GET and parses the body. Network failures and 5xx/429
// responses are retried up to Options.Retries times; every other failure
// is returned immediately.
func (f *Fetcher) Fetch(ctx context.Context) (Manifest, error) {
	logger := log.WithField("url", f.opts.URL)
	if proxy, err := utils.ProxyFor(f.opts.URL); err == nil && proxy != "" {
		logger = logger.WithField("proxy", proxy)
	}
	logger.Debug("fetching manifest")

	var body []byte
	operation := func() error {
		b, err := f.get(ctx)
		if err != nil {
			return err
		}
		body = b
		return nil
	}
	notify := func(err error, next time.Duration) {
		logger.WithError(err).Warnf("fetching manifest failed, retrying in %s", next.Round(time.Millisecond))
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(newBackOff(), f.opts.Retries), ctx)
	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		if types.IsKind(err, types.KindTransport) {
			return nil, err
		}
		// RetryNotify reports the context error once the context is done.
		return nil, transportError(f.opts.URL, err)
	}

	logger.WithField("bytes", len(body)).Debug("fetched manifest")
	return Parse(body)
}

func (f *Fetcher) get(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.opts.URL, http.NoBody)
	if err != nil {
		return nil, backoff.Permanent(transportError(f.opts.URL, err))
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, transportError(f.opts.URL, err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	log.WithField("status", resp.Status).Trace("manifest response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := transportError(f.opts.URL, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status))
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return nil, err
		}
		return nil, backoff.Permanent(err)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(f.opts.URL, err)
	}
	return body, nil
}

// Parse decodes a manifest document. Anything that is not a JSON object is
// a parse error.
func Parse(data []byte) (Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, &types.Error{Kind: types.KindParse, Path: "manifest", Err: err}
	}
	return m, nil
}

// Product decodes the installer mapping of product.
func (m Manifest) Product(product types.Product) (*types.ProductEntry, error) {
	raw, ok := m[string(product)]
	if !ok {
		return nil, lookupError(string(product), ErrMissingKey)
	}

	var entry types.ProductEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, lookupError(string(product), fmt.Errorf("unexpected shape: %w", err))
	}
	if entry.Installer == nil {
		return nil, lookupError(string(product)+".installer", ErrMissingKey)
	}
	return &entry, nil
}

// Installer returns product.installer[osKey], which must carry a URL.
func (m Manifest) Installer(product types.Product, osKey string) (*types.Installer, error) {
	entry, err := m.Product(product)
	if err != nil {
		return nil, err
	}

	path := fmt.Sprintf("%s.installer.%s", product, osKey)
	raw, ok := entry.Installer[osKey]
	if !ok {
		return nil, lookupError(path, ErrMissingKey)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, lookupError(path, fmt.Errorf("unexpected shape: %w", err))
	}

	var installer types.Installer
	if rawURL, ok := fields["url"]; ok {
		if err := json.Unmarshal(rawURL, &installer.URL); err != nil {
			return nil, lookupError(path+".url", fmt.Errorf("unexpected shape: %w", err))
		}
	}
	if installer.URL == "" {
		return nil, lookupError(path+".url", ErrEmptyURL)
	}
	installer.Version = optionalString(fields["version"])
	installer.Label = optionalString(fields["label"])

	log.WithFields(log.Fields{"path": path, "url": installer.URL}).Debug("found installer")
	return &installer, nil
}

// optionalString decodes informational fields. Anything that is not a JSON
// string yields "".
func optionalString(raw json.RawMessage) string {
	if raw == nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		log.WithError(err).Trace("ignoring non-string installer field")
		return ""
	}
	return s
}

func transportError(url string, err error) error {
	return &types.Error{Kind: types.KindTransport, Path: url, Err: err}
}

func lookupError(path string, err error) error {
	return &types.Error{Kind: types.KindLookup, Path: path, Err: err}
}
