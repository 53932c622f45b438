package api

import (
	"context"
	"net/http"
	"net/url"
)

// Article represents a knowledge-base article
type Article struct {
	ID        string   `json:"_id"`
	Title     string   `json:"title"`
	Body      string   `json:"body"`
	Tags      []string `json:"tags"`
	CreatedAt string   `json:"createdAt"`
	UpdatedAt string   `json:"updatedAt"`
}

// ArticleRequest is the create/update payload for an article.
type ArticleRequest struct {
	Title string   `json:"title"`
	Body  string   `json:"body"`
	Tags  []string `json:"tags"`
}

// ListArticles returns knowledge-base articles, optionally matching a search query
func (c *Client) ListArticles(ctx context.Context, searchQuery string) ([]Article, error) {
	var query url.Values
	if searchQuery != "" {
		query = url.Values{"query": []string{searchQuery}}
	}

	var resp struct {
		Articles []Article `json:"articles"`
	}
	if err := c.do(ctx, http.MethodGet, "/kb", query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Articles, nil
}

// CreateArticle adds a new knowledge-base article
func (c *Client) CreateArticle(ctx context.Context, req ArticleRequest) error {
	return c.do(ctx, http.MethodPost, "/kb", nil, req, nil)
}

// UpdateArticle replaces an existing article
func (c *Client) UpdateArticle(ctx context.Context, id string, req ArticleRequest) error {
	return c.do(ctx, http.MethodPut, "/kb/"+id, nil, req, nil)
}

// DeleteArticle removes an article
func (c *Client) DeleteArticle(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/kb/"+id, nil, nil, nil)
}
