package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
)

// Index is a single OpenSearch index holding JSON documents.
type Index struct {
	client *opensearch.Client
	name   string
}

// NewIndex binds client to the index called name.
func NewIndex(client *opensearch.Client, name string) *Index {
	return &Index{client: client, name: name}
}

// Name returns the index name.
func (i *Index) Name() string { return i.name }

// Ensure creates the index with mapping unless it already exists.
func (i *Index) Ensure(ctx context.Context, mapping any) error {
	res, err := opensearchapi.IndicesExistsRequest{Index: []string{i.name}}.Do(ctx, i.client)
	if err != nil {
		return errors.Join(ErrRequestFailed, err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	body, err := encode(mapping)
	if err != nil {
		return err
	}
	res, err = opensearchapi.IndicesCreateRequest{Index: i.name, Body: body}.Do(ctx, i.client)
	return check(res, err)
}

// Put indexes doc under id, replacing any previous version.
func (i *Index) Put(ctx context.Context, id string, doc any) error {
	body, err := encode(doc)
	if err != nil {
		return err
	}
	res, err := opensearchapi.IndexRequest{
		Index:      i.name,
		DocumentID: id,
		Body:       body,
		Refresh:    "wait_for",
	}.Do(ctx, i.client)
	return check(res, err)
}

// Delete removes the document with id. Missing documents are not an error.
func (i *Index) Delete(ctx context.Context, id string) error {
	res, err := opensearchapi.DeleteRequest{Index: i.name, DocumentID: id}.Do(ctx, i.client)
	if err == nil && res.StatusCode == http.StatusNotFound {
		res.Body.Close()
		return nil
	}
	return check(res, err)
}

// Hit is one search result.
type Hit struct {
	ID     string          `json:"_id"`
	Score  float64         `json:"_score"`
	Source json.RawMessage `json:"_source"`
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []Hit `json:"hits"`
	} `json:"hits"`
}

// Search runs query (a request body such as {"query": {...}}) and returns the
// hits with the total match count.
func (i *Index) Search(ctx context.Context, query any) ([]Hit, int64, error) {
	body, err := encode(query)
	if err != nil {
		return nil, 0, err
	}
	res, err := i.client.Search(
		i.client.Search.WithContext(ctx),
		i.client.Search.WithIndex(i.name),
		i.client.Search.WithBody(body),
	)
	if err != nil {
		return nil, 0, errors.Join(ErrRequestFailed, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, 0, errors.Join(ErrRequestFailed, fmt.Errorf("status %s", res.Status()))
	}

	var out searchResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, 0, errors.Join(ErrRequestFailed, err)
	}
	return out.Hits.Hits, out.Hits.Total.Value, nil
}

func encode(v any) (io.Reader, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return &buf, nil
}

func check(res *opensearchapi.Response, err error) error {
	if err != nil {
		return errors.Join(ErrRequestFailed, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return errors.Join(ErrRequestFailed, fmt.Errorf("status %s: %s", res.Status(), msg))
	}
	return nil
}
