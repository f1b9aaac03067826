package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"catalog-cli/internal/model"
)

// HTTP reads GET {BaseURL}/api/items?page=N&limit=M.
type HTTP struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTP(baseURL string, timeout time.Duration) *HTTP {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTP{
		BaseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		Client:  &http.Client{Timeout: timeout},
	}
}

func (h *HTTP) Fetch(ctx context.Context, page, limit int) (model.PaginatedResponse, error) {
	page, limit = normalizePaging(page, limit)

	u, err := url.Parse(h.BaseURL + "/api/items")
	if err != nil {
		return model.PaginatedResponse{}, fmt.Errorf("source url: %w", err)
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return model.PaginatedResponse{}, err
	}
	req.Header.Set("Accept", "application/json")

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return model.PaginatedResponse{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return model.PaginatedResponse{}, fmt.Errorf("GET %s: %s: %s", u.Path, resp.Status, strings.TrimSpace(string(body)))
	}

	var out model.PaginatedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return model.PaginatedResponse{}, fmt.Errorf("decode items response: %w", err)
	}
	return out, nil
}
