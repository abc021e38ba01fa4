package cse

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/aliwirawan/dorklens/pkg/searcher"
)

var _ searcher.Provider = &Client{}

const defaultEndpoint = "https://www.googleapis.com/customsearch/v1"

// Client calls the Google Custom Search JSON API.
type Client struct {
	key string
	cx  string

	endpoint string
	client   *http.Client
}

func New(key, cx string, options ...Option) (*Client, error) {
	c := &Client{
		key: key,
		cx:  cx,

		endpoint: defaultEndpoint,
		client:   http.DefaultClient,
	}

	for _, option := range options {
		option(c)
	}

	if c.key == "" || c.cx == "" {
		return nil, errors.New("missing env: GOOGLE_API_KEY and GOOGLE_CSE_ID are required")
	}

	return c, nil
}

func (c *Client) FetchPage(ctx context.Context, query string, start, num int) (*searcher.Page, error) {
	u, err := url.Parse(c.endpoint)

	if err != nil {
		return nil, err
	}

	values := u.Query()
	values.Set("key", c.key)
	values.Set("cx", c.cx)
	values.Set("q", query)
	values.Set("start", strconv.Itoa(start))
	values.Set("num", strconv.Itoa(num))
	u.RawQuery = values.Encode()

	req, _ := http.NewRequestWithContext(ctx, "GET", u.String(), nil)

	resp, err := c.client.Do(req)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, convertError(resp)
	}

	var data searchResponse

	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}

	page := &searcher.Page{}

	for _, item := range data.Items {
		page.Items = append(page.Items, searcher.Result{
			Title:   strings.TrimSpace(item.Title),
			URL:     strings.TrimSpace(item.Link),
			Snippet: strings.TrimSpace(item.Snippet),
		})
	}

	return page, nil
}

// convertError extracts error.message from the API body, falling back to the
// truncated raw body when it is not the documented JSON shape.
func convertError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var data errorResponse

	message := ""

	if err := json.Unmarshal(body, &data); err == nil && data.Error != nil {
		message = data.Error.Message
	}

	if message == "" {
		message = strings.TrimSpace(string(body))

		if len(message) > 500 {
			message = message[:500]
		}
	}

	return &searcher.StatusError{
		Code:    resp.StatusCode,
		Message: message,
	}
}
