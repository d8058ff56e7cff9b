package pumpfeed

// Token listing endpoint and the wire types for its records.
// Decoding is best-effort: the feed is loose about types (numeric vs string
// ids, null contract addresses, naive timestamps), and one malformed record
// must never fail a whole page.

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// FlexID accepts a JSON string or number; the feed has returned both.
type FlexID string

func (id *FlexID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*id = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*id = FlexID(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("token _id is neither string nor number: %w", err)
	}
	*id = FlexID(num.String())
	return nil
}

func (id FlexID) String() string { return string(id) }

// Token is one record from the feed's items array.
type Token struct {
	ID              FlexID `json:"_id"`
	Name            string `json:"name"`
	Symbol          string `json:"symbol"`
	StartTime       string `json:"start_time"`
	ContractAddress string `json:"contract_address"`
}

// TokensResponse is the feed's list envelope.
type TokensResponse struct {
	Items    []Token `json:"items"`
	Total    int     `json:"total"`
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
}

// startTimeLayouts are tried in order. The feed usually emits RFC 3339, but
// naive ISO-8601 timestamps show up too and are taken as UTC.
var startTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// StartTimeUTC parses the record's start_time and normalizes it to UTC.
func (t Token) StartTimeUTC() (time.Time, error) {
	s := strings.TrimSpace(t.StartTime)
	if s == "" {
		return time.Time{}, fmt.Errorf("token %s has no start_time", t.ID)
	}
	for _, layout := range startTimeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("token %s has unparseable start_time %q", t.ID, s)
}

// DisplayName falls back to "?" when the feed omits the field.
func (t Token) DisplayName() string {
	if strings.TrimSpace(t.Name) == "" {
		return "?"
	}
	return t.Name
}

// DisplaySymbol falls back to "?" when the feed omits the field.
func (t Token) DisplaySymbol() string {
	if strings.TrimSpace(t.Symbol) == "" {
		return "?"
	}
	return t.Symbol
}

// HasContractAddress reports whether the on-chain address is present.
func (t Token) HasContractAddress() bool {
	return strings.TrimSpace(t.ContractAddress) != ""
}

// ListQuery holds the supported query parameters of the /tokens endpoint.
type ListQuery struct {
	IsUpcoming bool // only filter when true; a released token leaves the upcoming view
	Page       int
	PageSize   int
	SortOrder  string
	SortBy     string
}

// UpcomingQuery is the discovery-loop query: upcoming only, first page,
// soonest launches first.
func UpcomingQuery(pageSize int) ListQuery {
	return ListQuery{
		IsUpcoming: true,
		Page:       1,
		PageSize:   pageSize,
		SortOrder:  "asc",
		SortBy:     "start_time",
	}
}

// FullQuery is the release-monitor query: unfiltered, so tokens that left
// the upcoming view are still visible.
func FullQuery(pageSize int) ListQuery {
	return ListQuery{
		Page:      1,
		PageSize:  pageSize,
		SortOrder: "asc",
		SortBy:    "start_time",
	}
}

// ListTokens fetches one page of token records.
func (c *Client) ListTokens(ctx context.Context, q ListQuery) (*TokensResponse, error) {
	params := url.Values{}
	if q.IsUpcoming {
		params.Set("is_upcoming", "true")
	}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		params.Set("page_size", strconv.Itoa(q.PageSize))
	}
	if q.SortOrder != "" {
		params.Set("sort_order", q.SortOrder)
	}
	if q.SortBy != "" {
		params.Set("sort_by", q.SortBy)
	}

	endpoint := "/tokens"
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	respBody, err := c.MakeRequest(ctx, "GET", endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to get tokens: %w", err)
	}

	var tokensResp TokensResponse
	if err := json.Unmarshal(respBody, &tokensResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tokens response: %w", err)
	}

	return &tokensResp, nil
}
