package binder_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrforge/qrforge/pkg/binder"
)

type style struct {
	Size   int    `json:"size,omitempty"`
	Margin *int   `json:"margin,omitempty"`
	Level  string `json:"errorCorrectionLevel,omitempty"`
}

type fields struct {
	URL      string   `json:"url,omitempty"`
	Hidden   *bool    `json:"hidden,omitempty"`
	Latitude *float64 `json:"latitude,omitempty"`
	Secret   string   `json:"-"`
}

type kind string

type renderRequest struct {
	Type   string   `json:"type" query:"type"`
	Kind   kind     `query:"kind"`
	Fields fields   `json:"fields" query:",inline"`
	Style  style    `json:"style" query:",inline"`
	Tags   []string `query:"tag"`
	Skip   string   `query:"-"`
}

func TestQuery(t *testing.T) {
	t.Parallel()

	t.Run("flattens inline structs", func(t *testing.T) {
		t.Parallel()
		q := url.Values{
			"type":                 {"url"},
			"kind":                 {"svg"},
			"url":                  {"https://example.com"},
			"hidden":               {"on"},
			"latitude":             {"40.7128"},
			"size":                 {"512"},
			"margin":               {"0"},
			"errorCorrectionLevel": {"H"},
			"tag":                  {"a,b", "c"},
			"Skip":                 {"x"},
			"secret":               {"x"},
		}
		req := httptest.NewRequest(http.MethodGet, "/render.png?"+q.Encode(), nil)

		var got renderRequest
		require.NoError(t, binder.Query()(req, &got))

		assert.Equal(t, "url", got.Type)
		assert.Equal(t, kind("svg"), got.Kind)
		assert.Equal(t, "https://example.com", got.Fields.URL)
		require.NotNil(t, got.Fields.Hidden)
		assert.True(t, *got.Fields.Hidden)
		require.NotNil(t, got.Fields.Latitude)
		assert.InDelta(t, 40.7128, *got.Fields.Latitude, 1e-9)
		assert.Empty(t, got.Fields.Secret)
		assert.Equal(t, 512, got.Style.Size)
		require.NotNil(t, got.Style.Margin)
		assert.Equal(t, 0, *got.Style.Margin)
		assert.Equal(t, "H", got.Style.Level)
		assert.Equal(t, []string{"a", "b", "c"}, got.Tags)
		assert.Empty(t, got.Skip)
	})

	t.Run("missing parameters keep zero values", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/render.png", nil)

		var got renderRequest
		require.NoError(t, binder.Query()(req, &got))
		assert.Nil(t, got.Style.Margin)
		assert.Nil(t, got.Fields.Hidden)
	})

	t.Run("invalid number", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/render.png?size=big", nil)

		var got renderRequest
		err := binder.Query()(req, &got)
		require.ErrorIs(t, err, binder.ErrQuery)
		assert.Contains(t, err.Error(), "Size")
	})

	t.Run("non pointer target", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		var got renderRequest
		require.ErrorIs(t, binder.Query()(req, got), binder.ErrQuery)
	})
}

func TestJSON(t *testing.T) {
	t.Parallel()

	newReq := func(body, contentType string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/api/render", strings.NewReader(body))
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		return req
	}

	t.Run("valid body", func(t *testing.T) {
		t.Parallel()
		req := newReq(`{"type":"url","fields":{"url":"https://example.com"},"style":{"size":300}}`, "application/json; charset=utf-8")

		var got renderRequest
		require.NoError(t, binder.JSON()(req, &got))
		assert.Equal(t, "url", got.Type)
		assert.Equal(t, "https://example.com", got.Fields.URL)
		assert.Equal(t, 300, got.Style.Size)
	})

	t.Run("no body and no content type is not applicable", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/api/render", nil)

		var got renderRequest
		require.ErrorIs(t, binder.JSON()(req, &got), binder.ErrBinderNotApplicable)
	})

	t.Run("body without content type", func(t *testing.T) {
		t.Parallel()
		var got renderRequest
		require.ErrorIs(t, binder.JSON()(newReq(`{}`, ""), &got), binder.ErrMissingContentType)
	})

	t.Run("wrong content type", func(t *testing.T) {
		t.Parallel()
		var got renderRequest
		require.ErrorIs(t, binder.JSON()(newReq(`{}`, "text/plain"), &got), binder.ErrUnsupportedMediaType)
	})

	t.Run("unknown field", func(t *testing.T) {
		t.Parallel()
		var got renderRequest
		require.ErrorIs(t, binder.JSON()(newReq(`{"nope":1}`, "application/json"), &got), binder.ErrJSON)
	})

	t.Run("trailing data", func(t *testing.T) {
		t.Parallel()
		var got renderRequest
		err := binder.JSON()(newReq(`{"type":"url"}{"type":"text"}`, "application/json"), &got)
		require.ErrorIs(t, err, binder.ErrJSON)
		assert.Contains(t, err.Error(), "unexpected data")
	})

	t.Run("empty body", func(t *testing.T) {
		t.Parallel()
		var got renderRequest
		err := binder.JSON()(newReq(``, "application/json"), &got)
		require.ErrorIs(t, err, binder.ErrJSON)
	})

	t.Run("body over limit", func(t *testing.T) {
		t.Parallel()
		var got renderRequest
		err := binder.JSONWithLimit(8)(newReq(`{"type":"url"}`, "application/json"), &got)
		require.ErrorIs(t, err, binder.ErrJSON)
		assert.Contains(t, err.Error(), "too large")
	})
}

func TestPath(t *testing.T) {
	t.Parallel()

	type codeRequest struct {
		ID    string `path:"id"`
		Page  int    `path:"page"`
		Other string
	}

	params := map[string]string{"id": "abc", "page": "3", "other": "nope"}
	extract := func(_ *http.Request, name string) string { return params[name] }
	req := httptest.NewRequest(http.MethodGet, "/api/codes/abc", nil)

	var got codeRequest
	require.NoError(t, binder.Path(extract)(req, &got))
	assert.Equal(t, "abc", got.ID)
	assert.Equal(t, 3, got.Page)
	assert.Empty(t, got.Other)

	t.Run("invalid value", func(t *testing.T) {
		t.Parallel()
		bad := func(_ *http.Request, name string) string { return "x" }
		var got codeRequest
		require.ErrorIs(t, binder.Path(bad)(req, &got), binder.ErrPath)
	})

	t.Run("nil extractor", func(t *testing.T) {
		t.Parallel()
		var got codeRequest
		require.ErrorIs(t, binder.Path(nil)(req, &got), binder.ErrPath)
	})
}
