package bolt

import (
	"bytes"
	"context"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/stancil-services/boltsync/internal/core/domain"
	"github.com/stancil-services/boltsync/internal/core/ports/driven"
	"github.com/stancil-services/boltsync/internal/logger"
)

// Verify interface compliance.
var _ driven.Upstream = (*Upstream)(nil)

// Upstream fetches and decodes pages from the Bolt API.
type Upstream struct {
	client *Client
}

// NewUpstream creates an Upstream backed by client.
func NewUpstream(client *Client) *Upstream {
	return &Upstream{client: client}
}

// FetchBatchPage fetches one page of a snapshot table.
// next_batch is sent when held, otherwise refresh_token, otherwise nothing.
func (u *Upstream) FetchBatchPage(ctx context.Context, table domain.Table, cursor domain.BatchCursor) (*domain.BatchPage, error) {
	params := map[string]string{}
	switch {
	case cursor.NextBatch != "":
		params[ParamNextBatch] = cursor.NextBatch
	case cursor.RefreshToken != "":
		params[ParamRefreshToken] = cursor.RefreshToken
	}

	resp, err := u.client.Get(ctx, table.Path, params)
	if err != nil {
		return nil, explain(table, err)
	}
	if resp.NoData {
		return &domain.BatchPage{Outcome: domain.PageNoData, Reason: resp.Reason}, nil
	}
	return DecodeBatchPage(table, resp.Body)
}

// FetchEventPage fetches one page of an event stream.
func (u *Upstream) FetchEventPage(ctx context.Context, table domain.Table, cursor domain.EventCursor) (*domain.EventPage, error) {
	params := map[string]string{}
	if cursor.EventToken != "" {
		params[ParamEventToken] = cursor.EventToken
	}

	resp, err := u.client.Get(ctx, table.Path, params)
	if err != nil {
		return nil, explain(table, err)
	}
	if resp.NoData {
		return &domain.EventPage{Outcome: domain.PageNoData, Reason: resp.Reason}, nil
	}
	return DecodeEventPage(table, resp.Body)
}

// explain prefixes a fetch failure with what the user can do about it.
// The original error stays in the chain.
func explain(table domain.Table, err error) error {
	switch {
	case IsUnauthorized(err):
		return fmt.Errorf("%s: token rejected, check api_token: %w", table.Name, err)
	case IsNotFound(err):
		return fmt.Errorf("%s: endpoint %s not found, check base_url: %w", table.Name, table.Path, err)
	case IsNetwork(err):
		return fmt.Errorf("%s: API unreachable: %w", table.Name, err)
	default:
		return err
	}
}

// DecodeBatchPage extracts the record array and tokens of a snapshot page.
func DecodeBatchPage(table domain.Table, body []byte) (*domain.BatchPage, error) {
	page := &domain.BatchPage{Outcome: domain.PageOK}

	body = bytes.TrimSpace(body)
	if isEmptyBody(body) {
		page.Empty = true
		return page, nil
	}

	if body[0] == '[' {
		if !table.AllowBareArray {
			logger.Table(table.Name).Warn("Unexpected bare array response, treating as empty")
			page.Empty = true
			return page, nil
		}
		records, skipped, err := decodeRecords(body)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrMalformedResponse, table.Name, err)
		}
		page.Records, page.Skipped = records, skipped
		page.Empty = len(records) == 0 && skipped == 0
		return page, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrMalformedResponse, table.Name, err)
	}
	if len(envelope) == 0 {
		page.Empty = true
		return page, nil
	}

	if raw, ok := envelope[table.EnvelopeKey]; ok && !isNull(raw) {
		records, skipped, err := decodeRecords(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s.%s: %w", domain.ErrMalformedResponse, table.Name, table.EnvelopeKey, err)
		}
		page.Records, page.Skipped = records, skipped
	}
	page.Empty = len(page.Records) == 0 && page.Skipped == 0
	page.NextBatch = tokenString(envelope[ParamNextBatch])
	page.RefreshToken = tokenString(envelope[ParamRefreshToken])
	return page, nil
}

// DecodeEventPage extracts the events array and next token of an event page.
func DecodeEventPage(table domain.Table, body []byte) (*domain.EventPage, error) {
	page := &domain.EventPage{Outcome: domain.PageOK}

	body = bytes.TrimSpace(body)
	if isEmptyBody(body) {
		return page, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrMalformedResponse, table.Name, err)
	}

	if raw, ok := envelope[eventsKey]; ok && !isNull(raw) {
		records, skipped, err := decodeRecords(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s.%s: %w", domain.ErrMalformedResponse, table.Name, eventsKey, err)
		}
		page.Events, page.Skipped = records, skipped
	}
	page.EventToken = tokenString(envelope[ParamEventToken])
	return page, nil
}

// decodeRecords decodes a JSON array, keeping the object entries.
// Other entries are counted in skipped.
func decodeRecords(data []byte) ([]domain.RawRecord, int, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, 0, err
	}

	records := make([]domain.RawRecord, 0, len(items))
	skipped := 0
	for _, item := range items {
		item = bytes.TrimSpace(item)
		if len(item) == 0 || item[0] != '{' {
			skipped++
			continue
		}
		var rec domain.RawRecord
		if err := json.Unmarshal(item, &rec); err != nil {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	return records, skipped, nil
}

// tokenString renders a pagination token. Strings and numbers are
// accepted; anything else counts as absent.
func tokenString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return string(raw)
	default:
		return ""
	}
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func isEmptyBody(body []byte) bool {
	return len(body) == 0 || bytes.Equal(body, []byte("null")) ||
		bytes.Equal(body, []byte("{}")) || bytes.Equal(body, []byte("[]"))
}
