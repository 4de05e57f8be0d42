// Package dataset fetches and parses the published interaction corpora. It is
// the only part of the service that talks to the outside world.
package dataset

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/snplmntn/ainay-companion-care-sub003/interactions/entities"
	"github.com/snplmntn/ainay-companion-care-sub003/interfaces"
	"github.com/snplmntn/ainay-companion-care-sub003/logging"
)

// Client downloads corpus files over HTTP. The pair corpus URL may be empty,
// in which case the service runs without drug-drug data.
type Client struct {
	httpClient      *http.Client
	interactionsURL string
	pairsURL        string
}

func NewClient(interactionsURL, pairsURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Client{
		httpClient:      &http.Client{Timeout: timeout},
		interactionsURL: interactionsURL,
		pairsURL:        pairsURL,
	}
}

// FetchInteractions downloads and parses the drug-food interaction corpus.
func (c *Client) FetchInteractions(ctx context.Context) ([]entities.InteractionRecord, error) {
	reader, err := c.fetch(ctx, c.interactionsURL)
	if err != nil {
		return nil, err
	}
	records, err := parseInteractions(reader)
	if err != nil {
		return nil, fmt.Errorf("parsing interaction corpus: %w", err)
	}
	return records, nil
}

// FetchPairs downloads and parses the drug-drug pair corpus, or returns
// (nil, nil) when none is configured.
func (c *Client) FetchPairs(ctx context.Context) ([]entities.PairInteraction, error) {
	if c.pairsURL == "" {
		return nil, nil
	}
	reader, err := c.fetch(ctx, c.pairsURL)
	if err != nil {
		return nil, err
	}
	pairs, err := parsePairs(reader)
	if err != nil {
		return nil, fmt.Errorf("parsing pair corpus: %w", err)
	}
	return pairs, nil
}

// fetch downloads one corpus file and normalizes its encoding to UTF-8.
// Published exports are a mix of UTF-8 and ISO-8859-1, so the bytes are
// sniffed before any parsing happens.
func (c *Client) fetch(ctx context.Context, url string) (io.Reader, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", url, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", url, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.Warn("Failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("downloading %s: unexpected status %s", url, resp.Status)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}

	if utf8.Valid(bodyBytes) {
		return bytes.NewReader(bodyBytes), nil
	}
	return charmap.ISO8859_1.NewDecoder().Reader(bytes.NewReader(bodyBytes)), nil
}

var _ interfaces.DatasetFetcher = (*Client)(nil)
