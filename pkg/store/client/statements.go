// Package client talks to the backend that proxies the accounting provider.
// The backend owns authentication; this package only requests raw statements.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/de-tools/clarity/pkg/models/domain"
	"github.com/de-tools/clarity/pkg/models/raw"
	"github.com/google/uuid"
)

var (
	// ErrAuthExpired means the backend rejected the company's stored token.
	ErrAuthExpired     = errors.New("authentication expired, reconnect the company")
	ErrUnsupportedKind = errors.New("unsupported statement kind")
)

const maxErrorBody = 512

type StatementClient interface {
	GetStatement(ctx context.Context, kind domain.StatementKind, realmID string, period domain.Period) (raw.Report, error)
}

type httpStatementClient struct {
	baseURL string
	http    *http.Client
}

func NewStatementClient(baseURL string, timeout time.Duration) StatementClient {
	return &httpStatementClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// GetStatement fetches one raw statement. Balance sheets are requested as of
// the period end; the other kinds for the whole period.
func (c *httpStatementClient) GetStatement(
	ctx context.Context,
	kind domain.StatementKind,
	realmID string,
	period domain.Period,
) (raw.Report, error) {
	if !kind.Known() {
		return raw.Report{}, fmt.Errorf("%w: %s", ErrUnsupportedKind, kind)
	}

	query := url.Values{}
	if realmID != "" {
		query.Set("realm_id", realmID)
	}
	if kind == domain.StatementBalanceSheet {
		if period.End != "" {
			query.Set("as_of_date", period.End)
		}
	} else {
		if period.Start != "" {
			query.Set("start_date", period.Start)
		}
		if period.End != "" {
			query.Set("end_date", period.End)
		}
	}

	endpoint := fmt.Sprintf("%s/api/financial/statements/%s", c.baseURL, kind.Slug())
	if encoded := query.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return raw.Report{}, fmt.Errorf("failed to build statement request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return raw.Report{}, fmt.Errorf("failed to fetch %s statement: %w", kind.Slug(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return raw.Report{}, ErrAuthExpired
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return raw.Report{}, fmt.Errorf("statements backend returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return raw.Report{}, fmt.Errorf("failed to read %s statement: %w", kind.Slug(), err)
	}
	report, err := raw.Decode(body)
	if err != nil {
		return raw.Report{}, err
	}
	report.Source = body
	return report, nil
}
