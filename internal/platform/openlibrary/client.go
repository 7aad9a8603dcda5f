package openlibrary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"shelfapi/internal/apperr"

	"golang.org/x/time/rate"
)

// DefaultTimeout bounds every call to the external catalog. A slow upstream
// fails the call instead of hanging the request.
const DefaultTimeout = 10 * time.Second

type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	limiter    *rate.Limiter
}

func NewClient(userAgent string, rps int) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		userAgent: userAgent,
		baseURL:   "https://openlibrary.org",
		limiter:   rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1),
	}
}

// NewClientWithBaseURL points the client at a non-default host. Tests use it
// with httptest servers.
func NewClientWithBaseURL(userAgent string, rps int, baseURL string) *Client {
	c := NewClient(userAgent, rps)
	c.baseURL = baseURL
	return c
}

// AuthorRef is one hit from the author search endpoint.
type AuthorRef struct {
	SourceID string
	Name     string
}

type AuthorDetails struct {
	SourceID string
	Name     string
}

type WorkDetails struct {
	SourceID               string
	Title                  string
	FirstPublishYear       *int
	PrimaryEditionSourceID string
}

type EditionDetails struct {
	SourceID    string
	Title       string
	PublishDate string
	PublishYear *int
}

// authorSearchResponse matches search/authors.json
type authorSearchResponse struct {
	NumFound int `json:"numFound"`
	Docs     []struct {
		Key  string `json:"key"`
		Name string `json:"name"`
	} `json:"docs"`
}

// authorResponse matches authors/{key}.json
type authorResponse struct {
	Key          string `json:"key"`
	Name         string `json:"name"`
	PersonalName string `json:"personal_name"`
}

// workResponse matches works/{key}.json
type workResponse struct {
	Key              string `json:"key"`
	Title            string `json:"title"`
	FirstPublishDate string `json:"first_publish_date"`
	CoverEdition     struct {
		Key string `json:"key"`
	} `json:"cover_edition"`
}

// editionResponse matches books/{key}.json and the entries of
// works/{key}/editions.json
type editionResponse struct {
	Key         string `json:"key"`
	Title       string `json:"title"`
	PublishDate string `json:"publish_date"`
}

type editionsResponse struct {
	Entries []editionResponse `json:"entries"`
}

func (c *Client) SearchAuthors(ctx context.Context, query string, limit int) ([]AuthorRef, error) {
	u := fmt.Sprintf("%s/search/authors.json?q=%s&limit=%d", c.baseURL, url.QueryEscape(query), limit)

	var res authorSearchResponse
	if err := c.get(ctx, u, &res); err != nil {
		return nil, err
	}

	refs := make([]AuthorRef, 0, len(res.Docs))
	for _, doc := range res.Docs {
		if doc.Key == "" {
			continue
		}
		refs = append(refs, AuthorRef{
			SourceID: NormalizeKey(doc.Key),
			Name:     doc.Name,
		})
	}
	return refs, nil
}

func (c *Client) GetAuthor(ctx context.Context, sourceID string) (*AuthorDetails, error) {
	u := fmt.Sprintf("%s/authors/%s.json", c.baseURL, NormalizeKey(sourceID))

	var res authorResponse
	if err := c.get(ctx, u, &res); err != nil {
		return nil, err
	}

	name := res.Name
	if name == "" {
		name = res.PersonalName
	}
	return &AuthorDetails{
		SourceID: NormalizeKey(res.Key),
		Name:     name,
	}, nil
}

func (c *Client) GetWork(ctx context.Context, sourceID string) (*WorkDetails, error) {
	u := fmt.Sprintf("%s/works/%s.json", c.baseURL, NormalizeKey(sourceID))

	var res workResponse
	if err := c.get(ctx, u, &res); err != nil {
		return nil, err
	}

	details := &WorkDetails{
		SourceID:         NormalizeKey(res.Key),
		Title:            res.Title,
		FirstPublishYear: ParseYear(res.FirstPublishDate),
	}
	if res.CoverEdition.Key != "" {
		details.PrimaryEditionSourceID = NormalizeKey(res.CoverEdition.Key)
	}
	return details, nil
}

func (c *Client) GetEditions(ctx context.Context, workSourceID string) ([]EditionDetails, error) {
	u := fmt.Sprintf("%s/works/%s/editions.json", c.baseURL, NormalizeKey(workSourceID))

	var res editionsResponse
	if err := c.get(ctx, u, &res); err != nil {
		return nil, err
	}

	editions := make([]EditionDetails, 0, len(res.Entries))
	for _, entry := range res.Entries {
		if entry.Key == "" {
			continue
		}
		editions = append(editions, toEditionDetails(entry))
	}
	return editions, nil
}

func (c *Client) GetEdition(ctx context.Context, sourceID string) (*EditionDetails, error) {
	u := fmt.Sprintf("%s/books/%s.json", c.baseURL, NormalizeKey(sourceID))

	var res editionResponse
	if err := c.get(ctx, u, &res); err != nil {
		return nil, err
	}

	details := toEditionDetails(res)
	return &details, nil
}

func toEditionDetails(e editionResponse) EditionDetails {
	return EditionDetails{
		SourceID:    NormalizeKey(e.Key),
		Title:       e.Title,
		PublishDate: e.PublishDate,
		PublishYear: ParseYear(e.PublishDate),
	}
}

// get performs one request. Failures are classified, never retried here:
// retry policy belongs to the caller.
func (c *Client) get(ctx context.Context, url string, target any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", apperr.ErrNotFoundInSource, url)
	default:
		return fmt.Errorf("%w: unexpected status code %d", apperr.ErrSourceUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("%w: decode response: %v", apperr.ErrSourceUnavailable, err)
	}
	return nil
}
