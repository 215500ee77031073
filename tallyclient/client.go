package tallyclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mmdatafocus/tally-warehouse-sync/config"
	"github.com/mmdatafocus/tally-warehouse-sync/utils"
)

// MasterKind enumerates the master-data exports the source client can
// request.
type MasterKind string

const (
	MasterKindAllMasters   MasterKind = "all_masters"
	MasterKindLedgers      MasterKind = "ledgers"
	MasterKindStockGroups  MasterKind = "stock_groups"
	MasterKindStockItems   MasterKind = "stock_items"
	MasterKindUnits        MasterKind = "units"
	MasterKindOpeningBills MasterKind = "opening_bills"
)

// Client wraps an *http.Client against one Tally instance, mirroring the
// base-URL shape of pitixsync's HTTP client. The http.Client carries no
// timeout of its own; each call passes its request timeout to Post.
type Client struct {
	baseURL string
	company string
	http    *http.Client
	log     *logrus.Logger
}

func NewClient(cfg *config.TallyConfig, log *logrus.Logger) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		company: cfg.CompanyName,
		http:    &http.Client{},
		log:     log,
	}
}

const maxAttempts = 5

// Post sends a complete Tally request envelope and returns the raw response
// text, retrying both transport failures and HTTP 4xx/5xx responses with
// exponential backoff (1s, 2s, 4s, 8s between attempts, capped at 30s) up
// to maxAttempts times. Only a STATUS!=1 response is excluded from retry: the source
// understood the request and rejected it, so resending the same bytes
// cannot help.
func (c *Client) Post(ctx context.Context, envelope string, timeout time.Duration) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		reqCtx, cancel := context.WithTimeout(ctx, timeout)
		text, err := c.postOnce(reqCtx, envelope)
		cancel()
		if err == nil {
			return text, nil
		}

		if utils.IsKind(err, utils.SourceLogicalError) {
			// The source understood the request and rejected it (STATUS!=1).
			// Retrying the same bytes will not change the outcome. HTTP
			// 4xx/5xx is not excluded here: it is retried as an ordinary
			// transport failure, since it can reflect a momentarily
			// overloaded Tally instance rather than a bad request.
			return "", err
		}

		lastErr = err
		if attempt == maxAttempts {
			break
		}

		sleep := backoff(attempt)
		c.log.WithFields(logrus.Fields{"module": "tallyclient", "attempt": attempt}).
			Warnf("retrying tally request in %s: %v", sleep, err)
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(sleep):
		}
	}
	return "", utils.NewError(utils.SourceUnreachable, fmt.Sprintf("exhausted %d attempts", maxAttempts), lastErr)
}

func backoff(attempt int) time.Duration {
	d := time.Second * time.Duration(1<<uint(attempt-1))
	if d > 30*time.Second {
		d = 30 * time.Second
	}
	return d
}

func (c *Client) postOnce(ctx context.Context, envelope string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewBufferString(envelope))
	if err != nil {
		return "", utils.NewError(utils.SourceUnreachable, "build request", err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("Accept", "text/xml")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", utils.NewError(utils.SourceUnreachable, "post to tally", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", utils.NewError(utils.SourceUnreachable, "read response body", err)
	}
	text := string(body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", utils.NewError(utils.SourceProtocolError, fmt.Sprintf("http status %d", resp.StatusCode), nil)
	}

	if err := validateStatus(text); err != nil {
		return "", err
	}

	return text, nil
}

// FetchVouchers renders the voucher-register envelope for [from, to] and
// posts it. The report id is hardcoded to "Voucher Register": Tally's
// "DayBook" report ignores date parameters and must never be substituted
// here (see the source's documented date-filter regression).
func (c *Client) FetchVouchers(ctx context.Context, from, to time.Time, timeout time.Duration) (string, error) {
	envelope, err := renderVoucherEnvelope(c.company, from, to)
	if err != nil {
		return "", utils.NewError(utils.ParseError, "render voucher envelope", err)
	}
	return c.Post(ctx, envelope, timeout)
}

// FetchMasters renders the master-export envelope for kind and posts it.
func (c *Client) FetchMasters(ctx context.Context, kind MasterKind, timeout time.Duration) (string, error) {
	envelope, err := renderMasterEnvelope(c.company, kind)
	if err != nil {
		return "", utils.NewError(utils.ParseError, "render master envelope", err)
	}
	return c.Post(ctx, envelope, timeout)
}
