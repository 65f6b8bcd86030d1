package blizzard

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/soulmaestro/GoblinStockAlerts/internal/domain"
	"github.com/soulmaestro/GoblinStockAlerts/internal/ports"
)

// Provider serves auction snapshots from the Game Data API. It implements
// ports.AuctionProvider.
type Provider struct {
	client *Client
	locale string
}

// NewProvider wraps an authenticated client as an auction provider.
func NewProvider(client *Client) *Provider {
	return &Provider{client: client, locale: "en_US"}
}

// Auctions downloads one connected realm's full auction snapshot. A non-zero
// modifiedSince is sent as If-Modified-Since so unchanged snapshots come back
// as ports.ErrNotModified instead of a multi-megabyte body.
func (p *Provider) Auctions(ctx context.Context, realmID int, modifiedSince time.Time) (*domain.AuctionSnapshot, error) {
	path := fmt.Sprintf("/data/wow/connected-realm/%d/auctions", realmID)
	query := url.Values{
		"namespace": {p.client.namespace()},
		"locale":    {p.locale},
	}

	headers := http.Header{}
	if !modifiedSince.IsZero() {
		headers.Set("If-Modified-Since", modifiedSince.UTC().Format(http.TimeFormat))
	}

	resp, err := p.client.get(ctx, path, query, headers)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to the body
	case http.StatusNotModified:
		return nil, ports.ErrNotModified
	case http.StatusTooManyRequests:
		return nil, ports.ErrQuotaExceeded
	default:
		return nil, fmt.Errorf("auctions realm %d: status %d", realmID, resp.StatusCode)
	}

	// The hash covers the raw body, not the decoded structs, so two bodies
	// that differ only in field order still count as distinct snapshots.
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("auctions realm %d: read body: %w", realmID, err)
	}
	sum := sha256.Sum256(body)

	var payload auctionsPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("auctions realm %d: decode: %w", realmID, err)
	}

	auctions := make([]*domain.Auction, 0, len(payload.Auctions))
	for _, w := range payload.Auctions {
		auctions = append(auctions, w.toDomain())
	}

	return &domain.AuctionSnapshot{
		Auctions:     auctions,
		LastModified: lastModified(resp),
		ContentHash:  hex.EncodeToString(sum[:]),
		Desync:       desync(resp),
	}, nil
}

// Ping hits the cheap connected-realm index endpoint to prove the API and the
// credentials work, and returns the measured clock desync.
func (p *Provider) Ping(ctx context.Context) (float64, error) {
	query := url.Values{"namespace": {p.client.namespace()}}
	resp, err := p.client.get(ctx, "/data/wow/connected-realm/index", query, nil)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("ping: status %d", resp.StatusCode)
	}
	return desync(resp), nil
}

// lastModified parses the snapshot's publish stamp, falling back to the
// current time when the header is missing or malformed.
func lastModified(resp *http.Response) time.Time {
	if t, err := http.ParseTime(resp.Header.Get("Last-Modified")); err == nil {
		return t.UTC()
	}
	return time.Now().UTC()
}

// desync is how far the API's clock runs ahead of ours, in seconds. Admission
// timing works in server time, so this offset keeps it honest on hosts with
// drifting clocks.
func desync(resp *http.Response) float64 {
	t, err := http.ParseTime(resp.Header.Get("Date"))
	if err != nil {
		return 0
	}
	return t.Sub(time.Now().UTC()).Seconds()
}
