package googlebooks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://www.googleapis.com"

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
}

type Option func(*Client)

// WithBaseURL overrides the API host, mainly for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithTimeout overrides the default 5s request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

func NewClient(apiKey string, rps int, opts ...Option) *Client {
	if rps <= 0 {
		rps = 1
	}
	c := &Client{
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		limiter: rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// VolumeList matches the volumes search response. Unknown fields are ignored.
type VolumeList struct {
	TotalItems int      `json:"totalItems"`
	Items      []Volume `json:"items"`
}

type Volume struct {
	ID         string      `json:"id"`
	VolumeInfo *VolumeInfo `json:"volumeInfo"`
	SaleInfo   *SaleInfo   `json:"saleInfo"`
	AccessInfo *AccessInfo `json:"accessInfo"`
	SearchInfo *SearchInfo `json:"searchInfo"`
}

type VolumeInfo struct {
	Title               string               `json:"title"`
	Authors             []string             `json:"authors"`
	Publisher           string               `json:"publisher"`
	PublishedDate       string               `json:"publishedDate"`
	Description         string               `json:"description"`
	IndustryIdentifiers []IndustryIdentifier `json:"industryIdentifiers"`
	PageCount           int                  `json:"pageCount"`
	Categories          []string             `json:"categories"`
	AverageRating       float64              `json:"averageRating"`
	ImageLinks          *ImageLinks          `json:"imageLinks"`
	Language            string               `json:"language"`
	PreviewLink         string               `json:"previewLink"`
	InfoLink            string               `json:"infoLink"`
}

type IndustryIdentifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

type ImageLinks struct {
	SmallThumbnail string `json:"smallThumbnail"`
	Thumbnail      string `json:"thumbnail"`
}

type SaleInfo struct {
	Country     string `json:"country"`
	Saleability string `json:"saleability"`
	IsEbook     *bool  `json:"isEbook"`
}

type AccessInfo struct {
	Country                string `json:"country"`
	Viewability            string `json:"viewability"`
	Embeddable             *bool  `json:"embeddable"`
	PublicDomain           *bool  `json:"publicDomain"`
	TextToSpeechPermission string `json:"textToSpeechPermission"`
}

type SearchInfo struct {
	TextSnippet string `json:"textSnippet"`
}

// VolumesByISBN searches the volumes endpoint for an exact ISBN match.
func (c *Client) VolumesByISBN(ctx context.Context, isbn string) (*VolumeList, error) {
	return c.volumes(ctx, "isbn:"+isbn)
}

// VolumesByTitle searches the volumes endpoint by title.
func (c *Client) VolumesByTitle(ctx context.Context, title string) (*VolumeList, error) {
	return c.volumes(ctx, "intitle:"+title)
}

func (c *Client) volumes(ctx context.Context, query string) (*VolumeList, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", query)
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}
	u := fmt.Sprintf("%s/books/v1/volumes?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("volumes request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var list VolumeList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode volumes response: %w", err)
	}
	return &list, nil
}
