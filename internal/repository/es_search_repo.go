package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/andreybutenko/formalwear-server/internal/domain"
)

// ESSearchRepository implements SearchRepository using Elasticsearch.
// Documents are written at user/post write time by the services; search
// queries run a multi_match over the text fields.
type ESSearchRepository struct {
	client     *elasticsearch.Client
	indexUsers string
	indexPosts string
}

// NewESSearchRepository creates a new Elasticsearch-based search repository.
func NewESSearchRepository(client *elasticsearch.Client, indexUsers, indexPosts string) *ESSearchRepository {
	return &ESSearchRepository{
		client:     client,
		indexUsers: indexUsers,
		indexPosts: indexPosts,
	}
}

// userDoc is a user as indexed. Confidential fields are never written to
// the index, so search results cannot leak them.
type userDoc struct {
	ID          string   `json:"id"`
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	ImageURL    string   `json:"image_url"`
	Description string   `json:"description"`
	School      string   `json:"school"`
	Clubs       []string `json:"clubs"`
	Setup       bool     `json:"setup"`
}

type postDoc struct {
	ID          string   `json:"id"`
	AuthorID    string   `json:"author_id"`
	Description string   `json:"description"`
	ImageURI    string   `json:"image_uri"`
	Prompts     []string `json:"prompts"`
	Discovery   bool     `json:"discovery"`
	Published   int64    `json:"published"`
}

func (r *ESSearchRepository) SearchUsers(ctx context.Context, query string, limit int) ([]domain.User, error) {
	body := map[string]interface{}{
		"size": searchSize(limit),
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"first_name", "last_name", "description", "school", "clubs"},
			},
		},
	}

	hits, err := r.search(ctx, r.indexUsers, body)
	if err != nil {
		return nil, err
	}

	users := make([]domain.User, 0, len(hits))
	for _, hit := range hits {
		var doc userDoc
		if err := json.Unmarshal(hit, &doc); err != nil {
			continue
		}
		users = append(users, domain.User{
			ID:          doc.ID,
			FirstName:   doc.FirstName,
			LastName:    doc.LastName,
			ImageURL:    doc.ImageURL,
			Description: doc.Description,
			School:      doc.School,
			Clubs:       doc.Clubs,
			Setup:       doc.Setup,
		})
	}
	return users, nil
}

func (r *ESSearchRepository) SearchPosts(ctx context.Context, query string, limit int) ([]domain.Post, error) {
	body := map[string]interface{}{
		"size": searchSize(limit),
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": map[string]interface{}{
					"multi_match": map[string]interface{}{
						"query":  query,
						"fields": []string{"description", "prompts"},
					},
				},
				"filter": map[string]interface{}{
					"term": map[string]interface{}{"discovery": true},
				},
			},
		},
	}

	hits, err := r.search(ctx, r.indexPosts, body)
	if err != nil {
		return nil, err
	}

	posts := make([]domain.Post, 0, len(hits))
	for _, hit := range hits {
		var doc postDoc
		if err := json.Unmarshal(hit, &doc); err != nil {
			continue
		}
		posts = append(posts, domain.Post{
			ID:          doc.ID,
			AuthorID:    doc.AuthorID,
			Description: doc.Description,
			ImageURI:    doc.ImageURI,
			Prompts:     doc.Prompts,
			Discovery:   doc.Discovery,
			Published:   doc.Published,
		})
	}
	return posts, nil
}

// IndexUser writes the sanitized user document.
func (r *ESSearchRepository) IndexUser(ctx context.Context, user *domain.User) error {
	doc := userDoc{
		ID:          user.ID,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		ImageURL:    user.ImageURL,
		Description: user.Description,
		School:      user.School,
		Clubs:       user.Clubs,
		Setup:       user.Setup,
	}
	return r.index(ctx, r.indexUsers, user.ID, doc)
}

// IndexPost writes the post document.
func (r *ESSearchRepository) IndexPost(ctx context.Context, post *domain.Post) error {
	doc := postDoc{
		ID:          post.ID,
		AuthorID:    post.AuthorID,
		Description: post.Description,
		ImageURI:    post.ImageURI,
		Prompts:     post.Prompts,
		Discovery:   post.Discovery,
		Published:   post.Published,
	}
	return r.index(ctx, r.indexPosts, post.ID, doc)
}

// RemovePost deletes the post document from the index.
func (r *ESSearchRepository) RemovePost(ctx context.Context, postID string) error {
	res, err := r.client.Delete(r.indexPosts, postID,
		r.client.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	defer res.Body.Close()

	// 404 is fine: the post was never indexed.
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("elasticsearch error: %s", res.String())
	}
	return nil
}

func (r *ESSearchRepository) index(ctx context.Context, index, id string, doc interface{}) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	res, err := r.client.Index(index, bytes.NewReader(data),
		r.client.Index.WithContext(ctx),
		r.client.Index.WithDocumentID(id))
	if err != nil {
		return fmt.Errorf("failed to index document: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch error: %s", res.String())
	}
	return nil
}

func (r *ESSearchRepository) search(ctx context.Context, index string, body map[string]interface{}) ([]json.RawMessage, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	res, err := r.client.Search(
		r.client.Search.WithContext(ctx),
		r.client.Search.WithIndex(index),
		r.client.Search.WithBody(bytes.NewReader(data)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		// A missing index means nothing was written yet.
		if res.StatusCode == 404 || strings.Contains(res.String(), "index_not_found") {
			return nil, nil
		}
		return nil, fmt.Errorf("elasticsearch error: %s", res.String())
	}

	var result esResponse
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	hits := make([]json.RawMessage, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		hits = append(hits, hit.Source)
	}
	return hits, nil
}

func searchSize(limit int) int {
	if limit <= 0 {
		return 50
	}
	return limit
}

// esResponse is the generic Elasticsearch search response structure.
type esResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			Source json.RawMessage `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Ensure interface is satisfied at compile time.
var _ SearchRepository = (*ESSearchRepository)(nil)
