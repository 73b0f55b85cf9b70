package application

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/peerpicks/peerpicks-api/internal/domain/entity"
)

// UserIndex mirrors user records into Elasticsearch for the admin search box.
// The database stays authoritative; index failures are logged and swallowed.
type UserIndex struct {
	ES     *elasticsearch.Client
	Name   string
	Logger *logrus.Logger
}

func NewUserIndex(es *elasticsearch.Client, name string, logger *logrus.Logger) *UserIndex {
	return &UserIndex{ES: es, Name: name, Logger: logger}
}

func (ix *UserIndex) enabled() bool {
	return ix != nil && ix.ES != nil && ix.Name != ""
}

func (ix *UserIndex) IndexUser(ctx context.Context, u *entity.User) error {
	if !ix.enabled() {
		return nil
	}
	doc := map[string]any{
		"id":         u.ID,
		"email":      u.Email,
		"full_name":  u.FullName,
		"role":       u.Role,
		"phone":      u.Phone,
		"created_at": u.CreatedAt.Format(time.RFC3339Nano),
		"updated_at": u.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: ix.Name, DocumentID: u.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, ix.ES)
	if err != nil {
		if ix.Logger != nil {
			ix.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && ix.Logger != nil {
		ix.Logger.WithField("status", res.Status()).WithField("user_id", u.ID).Warn("es index response error")
	}
	return nil
}

func (ix *UserIndex) RemoveUser(ctx context.Context, id string) error {
	if !ix.enabled() {
		return nil
	}
	req := esapi.DeleteRequest{Index: ix.Name, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, ix.ES)
	if err != nil {
		if ix.Logger != nil {
			ix.Logger.WithError(err).WithField("user_id", id).Warn("es delete failed")
		}
		return err
	}
	_ = res.Body.Close()
	return nil
}

// Search runs a multi_match over email and full name.
func (ix *UserIndex) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if !ix.enabled() {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"email^2", "full_name"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := ix.ES.Search(
		ix.ES.Search.WithContext(c),
		ix.ES.Search.WithIndex(ix.Name),
		ix.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
