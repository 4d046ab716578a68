// Package cms is the content-fetch collaborator: a client for the content
// API that resolves pattern slugs to fully dereferenced pattern summaries.
// Reference resolution (tags, audiences, theme to titles) happens entirely
// inside this boundary so the bag and the view pipeline never see bare
// references.
package cms

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator"

	"github.com/patternware/satchel/pkg/runtime"
	"github.com/patternware/satchel/pkg/types"
	v1 "github.com/patternware/satchel/pkg/types/v1"
)

const tokenFileName = "cms_token"

type Client struct {
	Endpoint string `validate:"required,url"`

	httpClient *http.Client
	token      string
	status     types.SyncStatus
}

// New builds a client for the content API at endpoint. An empty token is
// fine for public content; a token previously cached in the runtime dir is
// picked up automatically.
func New(endpoint string, token string) (*Client, error) {
	if token == "" {
		if fname, err := runtime.File(tokenFileName); err == nil {
			token, _ = tokenFromFile(fname)
		}
	}

	c := Client{
		Endpoint:   strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		token:      token,
		status:     types.StatusUninitialized,
	}

	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return nil, fmt.Errorf("client failed validation: %w", err)
	}

	return &c, nil
}

func (c *Client) Status() types.SyncStatus {
	return c.status
}

// FetchBySlugs queries the content API for the given slugs. The response
// order is whatever the API returns; callers that care about order re-sort
// client-side.
func (c *Client) FetchBySlugs(ctx context.Context, slugs []string) ([]v1.PatternSummary, error) {
	if len(slugs) == 0 {
		return nil, nil
	}

	c.status = types.StatusSynchronizing

	q := url.Values{}
	q.Set("slugs", strings.Join(slugs, ","))
	endpoint := fmt.Sprintf("%s/patterns?%s", c.Endpoint, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.status = types.StatusError
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		c.status = types.StatusError
		return nil, fmt.Errorf("unable to query content api: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		c.status = types.StatusError
		return nil, fmt.Errorf("content api returned %s", res.Status)
	}

	var body struct {
		Patterns []wirePattern `json:"patterns"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		c.status = types.StatusError
		return nil, fmt.Errorf("unable to decode content api response: %w", err)
	}

	patterns := make([]v1.PatternSummary, 0, len(body.Patterns))
	for _, wp := range body.Patterns {
		p := wp.resolve()
		if err := p.Validate(); err != nil {
			c.status = types.StatusError
			return nil, fmt.Errorf("content api returned invalid pattern %q: %w", wp.ID, err)
		}
		patterns = append(patterns, p)
	}

	c.status = types.StatusOK
	return patterns, nil
}

func tokenFromFile(fname string) (string, error) {
	f, err := os.ReadFile(fname)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(f)), nil
}
