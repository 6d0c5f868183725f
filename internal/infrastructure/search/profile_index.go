// Package search keeps an Elasticsearch copy of user profiles for listing
// queries.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/user-directory/internal/domain/entity"
	"github.com/oksasatya/user-directory/internal/domain/repository"
)

const requestTimeout = 3 * time.Second

type ProfileIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewProfileIndex(es *elasticsearch.Client, index string) *ProfileIndex {
	return &ProfileIndex{es: es, index: index}
}

// profileDoc is the indexed form of a profile. name and email are keyword
// fields so wildcard queries behave like a substring match.
type profileDoc struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Age       *int       `json:"age,omitempty"`
	Avatar    string     `json:"avatar,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

func toDoc(p *entity.UserProfile) profileDoc {
	d := profileDoc{ID: p.ID, Name: p.Name, Email: p.Email, Age: p.Age, Avatar: p.Avatar, CreatedAt: p.CreatedAt}
	if !p.UpdatedAt.IsZero() {
		u := p.UpdatedAt
		d.UpdatedAt = &u
	}
	return d
}

func (d profileDoc) toEntity() entity.UserProfile {
	p := entity.UserProfile{ID: d.ID, Name: d.Name, Email: d.Email, Age: d.Age, Avatar: d.Avatar, CreatedAt: d.CreatedAt}
	if d.UpdatedAt != nil {
		p.UpdatedAt = *d.UpdatedAt
	}
	return p
}

var indexMapping = map[string]any{
	"mappings": map[string]any{
		"properties": map[string]any{
			"id":         map[string]any{"type": "long"},
			"name":       map[string]any{"type": "keyword"},
			"email":      map[string]any{"type": "keyword"},
			"age":        map[string]any{"type": "integer"},
			"avatar":     map[string]any{"type": "keyword", "index": false},
			"created_at": map[string]any{"type": "date"},
			"updated_at": map[string]any{"type": "date"},
		},
	},
}

// EnsureIndex creates the index with its mapping when it does not exist.
// created reports whether the index is new and therefore empty.
func (x *ProfileIndex) EnsureIndex(ctx context.Context) (created bool, err error) {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := x.es.Indices.Exists([]string{x.index}, x.es.Indices.Exists.WithContext(c))
	if err != nil {
		return false, err
	}
	_ = res.Body.Close()
	if res.StatusCode == 200 {
		return false, nil
	}
	body, _ := json.Marshal(indexMapping)
	res, err = x.es.Indices.Create(x.index, x.es.Indices.Create.WithContext(c), x.es.Indices.Create.WithBody(bytes.NewReader(body)))
	if err != nil {
		return false, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return false, fmt.Errorf("create index %s: %s", x.index, res.Status())
	}
	return true, nil
}

func (x *ProfileIndex) Index(ctx context.Context, p *entity.UserProfile) error {
	b, err := json.Marshal(toDoc(p))
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{
		Index:      x.index,
		DocumentID: strconv.FormatInt(p.ID, 10),
		Body:       bytes.NewReader(b),
		Refresh:    "wait_for",
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("index profile %d: %s", p.ID, res.Status())
	}
	return nil
}

func (x *ProfileIndex) Remove(ctx context.Context, id int64) error {
	req := esapi.DeleteRequest{Index: x.index, DocumentID: strconv.FormatInt(id, 10), Refresh: "wait_for"}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("remove profile %d: %s", id, res.Status())
	}
	return nil
}

var wildcardEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)

// buildSearchQuery renders the filter as an Elasticsearch query body.
func buildSearchQuery(f repository.ProfileFilter, offset, limit int) map[string]any {
	var must []any
	if f.Search != "" {
		pattern := "*" + wildcardEscaper.Replace(f.Search) + "*"
		must = append(must, map[string]any{
			"bool": map[string]any{
				"should": []any{
					map[string]any{"wildcard": map[string]any{"name": map[string]any{"value": pattern, "case_insensitive": true}}},
					map[string]any{"wildcard": map[string]any{"email": map[string]any{"value": pattern, "case_insensitive": true}}},
				},
				"minimum_should_match": 1,
			},
		})
	}
	if f.DateFrom != nil || f.DateTo != nil {
		r := map[string]any{}
		if f.DateFrom != nil {
			r["gte"] = f.DateFrom.Format(time.RFC3339Nano)
		}
		if f.DateTo != nil {
			r["lte"] = f.DateTo.Format(time.RFC3339Nano)
		}
		must = append(must, map[string]any{"range": map[string]any{"created_at": r}})
	}
	query := map[string]any{"match_all": map[string]any{}}
	if len(must) > 0 {
		query = map[string]any{"bool": map[string]any{"filter": must}}
	}
	return map[string]any{
		"query":            query,
		"sort":             []any{map[string]any{"created_at": "desc"}, map[string]any{"id": "desc"}},
		"from":             offset,
		"size":             limit,
		"track_total_hits": true,
	}
}

func (x *ProfileIndex) Search(ctx context.Context, f repository.ProfileFilter, offset, limit int) ([]entity.UserProfile, int, error) {
	b, err := json.Marshal(buildSearchQuery(f, offset, limit))
	if err != nil {
		return nil, 0, err
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := x.es.Search(x.es.Search.WithContext(c), x.es.Search.WithIndex(x.index), x.es.Search.WithBody(bytes.NewReader(b)))
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, 0, fmt.Errorf("search profiles: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Total struct {
				Value int `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source profileDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, 0, err
	}
	out := make([]entity.UserProfile, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source.toEntity())
	}
	return out, parsed.Hits.Total.Value, nil
}

var _ repository.ProfileIndex = (*ProfileIndex)(nil)
