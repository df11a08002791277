package googlebooks

import (
	"context"
	"encoding/json/v2"
	"net/url"
	"strconv"
	"strings"

	"github.com/darcyapp/darcy-server/internal/domain"
	apperrors "github.com/darcyapp/darcy-server/internal/errors"
)

// Search queries the volumes API and returns normalized books.
// An empty query is rejected before any network traffic.
func (c *Client) Search(ctx context.Context, query string) ([]domain.Book, error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperrors.Validation("Search query is required")
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(searchMaxResults))

	body, err := c.doRequest(ctx, "/volumes", params)
	if err != nil {
		return nil, err
	}

	var resp volumesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, apperrors.Upstream("parse google books response").WithCause(err)
	}

	c.logger.Debug("google books search results",
		"query", query,
		"count", len(resp.Items),
	)

	books := make([]domain.Book, 0, len(resp.Items))
	for i := range resp.Items {
		books = append(books, resp.Items[i].toBook(false))
	}
	return books, nil
}

// GetVolume fetches a single volume by ID, normalized with the extended
// fields (language, publisher) the detail view shows.
func (c *Client) GetVolume(ctx context.Context, volumeID string) (*domain.Book, error) {
	if strings.TrimSpace(volumeID) == "" {
		return nil, apperrors.Validation("volume id is required")
	}

	body, err := c.doRequest(ctx, "/volumes/"+url.PathEscape(volumeID), url.Values{})
	if err != nil {
		return nil, err
	}

	var item volume
	if err := json.Unmarshal(body, &item); err != nil {
		return nil, apperrors.Upstream("parse google books response").WithCause(err)
	}

	book := item.toBook(true)
	return &book, nil
}

// Upstream response shapes.

type volumesResponse struct {
	Items []volume `json:"items"`
}

type volume struct {
	ID         string     `json:"id"`
	VolumeInfo volumeInfo `json:"volumeInfo"`
}

type volumeInfo struct {
	Title               string               `json:"title"`
	Authors             []string             `json:"authors"`
	Description         string               `json:"description"`
	PublishedDate       string               `json:"publishedDate"`
	Publisher           string               `json:"publisher"`
	Language            string               `json:"language"`
	PageCount           int                  `json:"pageCount"`
	Categories          []string             `json:"categories"`
	IndustryIdentifiers []industryIdentifier `json:"industryIdentifiers"`
	ImageLinks          *imageLinks          `json:"imageLinks"`
}

type industryIdentifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

type imageLinks struct {
	SmallThumbnail string `json:"smallThumbnail"`
	Thumbnail      string `json:"thumbnail"`
	Medium         string `json:"medium"`
	Large          string `json:"large"`
}

// toBook normalizes a volume into a domain book. Detail views prefer the
// larger cover sizes and carry language and publisher.
func (v *volume) toBook(detail bool) domain.Book {
	info := v.VolumeInfo

	book := domain.Book{
		ID:            v.ID,
		Title:         info.Title,
		Author:        strings.Join(info.Authors, ", "),
		CoverURL:      info.coverURL(detail),
		Description:   info.Description,
		PublishedDate: info.PublishedDate,
		PageCount:     info.PageCount,
		Categories:    info.Categories,
	}
	if book.Title == "" {
		book.Title = domain.UnknownTitle
	}
	book.Author = book.DisplayAuthor()
	if book.Categories == nil {
		book.Categories = []string{}
	}
	if len(info.IndustryIdentifiers) > 0 {
		book.ISBN = info.IndustryIdentifiers[0].Identifier
	}
	if detail {
		book.Publisher = info.Publisher
		book.Language = info.Language
		if book.Language == "" {
			book.Language = "en"
		}
	}
	return book
}

// coverURL walks the image ladder largest-first for detail views, or
// thumbnail-first for search results. Returns nil when no image exists.
func (i *volumeInfo) coverURL(detail bool) *string {
	if i.ImageLinks == nil {
		return nil
	}
	var ladder []string
	if detail {
		ladder = []string{i.ImageLinks.Large, i.ImageLinks.Medium, i.ImageLinks.Thumbnail, i.ImageLinks.SmallThumbnail}
	} else {
		ladder = []string{i.ImageLinks.Thumbnail, i.ImageLinks.SmallThumbnail}
	}
	for _, u := range ladder {
		if u != "" {
			return &u
		}
	}
	return nil
}
