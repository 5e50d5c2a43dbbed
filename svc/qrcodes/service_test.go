package qrcodes_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/qrforge/qrforge/pkg/payload"
	"github.com/qrforge/qrforge/pkg/qrcode"
	"github.com/qrforge/qrforge/pkg/storage"
	"github.com/qrforge/qrforge/pkg/useragent"
	"github.com/qrforge/qrforge/pkg/validator"
	"github.com/qrforge/qrforge/svc/billing"
	"github.com/qrforge/qrforge/svc/qrcodes"
	"github.com/qrforge/qrforge/svc/render"
)

// memStore is an in-memory Store.
type memStore struct {
	mu        sync.Mutex
	codes     map[string]qrcodes.Code
	insertErr []error
}

func newMemStore() *memStore { return &memStore{codes: map[string]qrcodes.Code{}} }

func (s *memStore) Insert(_ context.Context, c *qrcodes.Code) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.insertErr) > 0 {
		err := s.insertErr[0]
		s.insertErr = s.insertErr[1:]
		if err != nil {
			return err
		}
	}
	s.codes[c.ID] = *c
	return nil
}

func (s *memStore) Get(_ context.Context, ownerID, id string) (*qrcodes.Code, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.codes[id]
	if !ok || c.OwnerID != ownerID {
		return nil, qrcodes.ErrNotFound
	}
	return &c, nil
}

func (s *memStore) List(_ context.Context, ownerID string, opts qrcodes.ListOptions) ([]qrcodes.Code, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []qrcodes.Code
	for _, c := range s.codes {
		if c.OwnerID == ownerID && (opts.Type == "" || c.Type == opts.Type) {
			all = append(all, c)
		}
	}
	slices.SortFunc(all, func(a, b qrcodes.Code) int { return b.CreatedAt.Compare(a.CreatedAt) })
	total := int64(len(all))
	start := min(opts.Offset, len(all))
	end := min(start+opts.Limit, len(all))
	return all[start:end], total, nil
}

func (s *memStore) Count(_ context.Context, ownerID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, c := range s.codes {
		if c.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

func (s *memStore) Replace(_ context.Context, c *qrcodes.Code) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.codes[c.ID]; !ok || old.OwnerID != c.OwnerID {
		return qrcodes.ErrNotFound
	}
	s.codes[c.ID] = *c
	return nil
}

func (s *memStore) Delete(_ context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.codes[id]; !ok || c.OwnerID != ownerID {
		return qrcodes.ErrNotFound
	}
	delete(s.codes, id)
	return nil
}

func (s *memStore) FindDynamic(_ context.Context, shortCode string) (*qrcodes.Code, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.codes {
		if c.Dynamic && c.ShortCode == shortCode {
			return &c, nil
		}
	}
	return nil, qrcodes.ErrNotFound
}

func (s *memStore) RecordScan(_ context.Context, shortCode string, at time.Time) (*qrcodes.Code, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, c := range s.codes {
		if c.Dynamic && c.ShortCode == shortCode {
			c.Scans++
			c.LastScannedAt = &at
			s.codes[id] = c
			return &c, nil
		}
	}
	return nil, qrcodes.ErrNotFound
}

type MockPlans struct {
	mock.Mock
}

func (m *MockPlans) CheckLimit(ctx context.Context, ownerID string, r billing.Resource, used int64) error {
	return m.Called(ctx, ownerID, r, used).Error(0)
}

func (m *MockPlans) RequireFeature(ctx context.Context, ownerID string, f billing.Feature) error {
	return m.Called(ctx, ownerID, f).Error(0)
}

func allowAll() *MockPlans {
	p := new(MockPlans)
	p.On("CheckLimit", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	p.On("RequireFeature", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	return p
}

type fixture struct {
	svc   *qrcodes.Service
	store *memStore
	dir   string
}

func newFixture(t *testing.T, plans qrcodes.Plans) fixture {
	t.Helper()
	dir := t.TempDir()
	blobs, err := storage.NewLocalStorage(dir, "/files/")
	require.NoError(t, err)

	store := newMemStore()
	var seq int
	var mu sync.Mutex
	svc := qrcodes.NewService(store, render.New(render.Config{}), blobs, plans,
		qrcodes.Config{BaseURL: "https://qr.example/", ShortCodeLength: 6},
		qrcodes.WithClock(func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			seq++
			return time.Date(2025, 1, 1, 0, 0, seq, 0, time.UTC)
		}),
		qrcodes.WithIDGenerator(func() string {
			mu.Lock()
			defer mu.Unlock()
			seq++
			return fmt.Sprintf("code-%02d", seq)
		}),
	)
	return fixture{svc: svc, store: store, dir: dir}
}

func (f fixture) imageExists(t *testing.T, c *qrcodes.Code) bool {
	t.Helper()
	_, err := os.Stat(filepath.Join(f.dir, filepath.FromSlash(c.ImageKey)))
	return err == nil
}

var urlInput = qrcodes.CreateInput{
	Name:   "Homepage",
	Type:   payload.TypeURL,
	Fields: payload.Fields{URL: "https://example.com"},
}

func TestService_Create_Static(t *testing.T) {
	t.Parallel()

	f := newFixture(t, allowAll())
	code, err := f.svc.Create(context.Background(), "owner-1", urlInput)
	require.NoError(t, err)

	assert.Equal(t, "owner-1", code.OwnerID)
	assert.Equal(t, "Homepage", code.Name)
	assert.Equal(t, "https://example.com", code.Payload)
	assert.Equal(t, qrcode.KindRaster, code.Kind)
	assert.False(t, code.Dynamic)
	assert.Empty(t, code.ShortCode)
	assert.True(t, strings.HasPrefix(code.ImageKey, "codes/owner-1/"+code.ID+"-"))
	assert.True(t, strings.HasSuffix(code.ImageKey, ".png"))
	assert.Equal(t, "/files/"+code.ImageKey, code.ImageURL)
	assert.True(t, f.imageExists(t, code))

	stored, err := f.svc.Get(context.Background(), "owner-1", code.ID)
	require.NoError(t, err)
	assert.Equal(t, code.Payload, stored.Payload)
}

func TestService_Create_DefaultName(t *testing.T) {
	t.Parallel()

	f := newFixture(t, allowAll())
	in := urlInput
	in.Name = "  "
	code, err := f.svc.Create(context.Background(), "owner-1", in)
	require.NoError(t, err)
	assert.Equal(t, "Website URL", code.Name)
}

func TestService_Create_Dynamic(t *testing.T) {
	t.Parallel()

	f := newFixture(t, allowAll())
	in := urlInput
	in.Dynamic = true
	code, err := f.svc.Create(context.Background(), "owner-1", in)
	require.NoError(t, err)

	require.Len(t, code.ShortCode, 6)
	assert.Equal(t, "https://qr.example/r/"+code.ShortCode, code.Payload)
	assert.Equal(t, "https://example.com", code.Destination)
}

func TestService_Create_DynamicRetriesShortCodeCollision(t *testing.T) {
	t.Parallel()

	f := newFixture(t, allowAll())
	f.store.insertErr = []error{qrcodes.ErrDuplicateShortCode, qrcodes.ErrDuplicateShortCode, nil}

	in := urlInput
	in.Dynamic = true
	code, err := f.svc.Create(context.Background(), "owner-1", in)
	require.NoError(t, err)
	assert.True(t, f.imageExists(t, code))

	entries, err := os.ReadDir(filepath.Join(f.dir, "codes", "owner-1"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "images of failed attempts are removed")
}

func TestService_Create_Validation(t *testing.T) {
	t.Parallel()

	f := newFixture(t, allowAll())
	ctx := context.Background()

	_, err := f.svc.Create(ctx, "", urlInput)
	assert.ErrorIs(t, err, qrcodes.ErrMissingOwner)

	_, err = f.svc.Create(ctx, "owner-1", qrcodes.CreateInput{Type: payload.TypeURL, Fields: payload.Fields{URL: "not a url"}})
	require.ErrorIs(t, err, payload.ErrInvalidContent)
	assert.True(t, validator.ExtractValidationErrors(err).Has("url"))

	_, err = f.svc.Create(ctx, "owner-1", qrcodes.CreateInput{Type: "fax"})
	assert.ErrorIs(t, err, payload.ErrInvalidContent)

	in := urlInput
	in.Style = qrcode.Style{Size: 1}
	_, err = f.svc.Create(ctx, "owner-1", in)
	assert.ErrorIs(t, err, qrcode.ErrInvalidStyle)

	in = urlInput
	in.Kind = "gif"
	_, err = f.svc.Create(ctx, "owner-1", in)
	assert.ErrorIs(t, err, qrcode.ErrUnknownKind)

	_, err = f.svc.Create(ctx, "owner-1", qrcodes.CreateInput{
		Type:    payload.TypeWiFi,
		Fields:  payload.Fields{SSID: "Home", Security: payload.SecurityNoPass},
		Dynamic: true,
	})
	assert.ErrorIs(t, err, qrcodes.ErrDynamicUnsupported)

	in = urlInput
	in.Name = strings.Repeat("n", 121)
	_, err = f.svc.Create(ctx, "owner-1", in)
	assert.ErrorIs(t, err, qrcodes.ErrNameTooLong)

	page, err := f.svc.List(ctx, "owner-1", qrcodes.ListOptions{})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}

func TestService_Create_PlanEnforcement(t *testing.T) {
	t.Parallel()

	plans := new(MockPlans)
	plans.On("RequireFeature", mock.Anything, "owner-1", billing.FeatureVector).Return(billing.ErrFeatureNotInPlan)
	plans.On("RequireFeature", mock.Anything, "owner-1", billing.FeatureDynamic).Return(billing.ErrFeatureNotInPlan)
	plans.On("CheckLimit", mock.Anything, "owner-1", billing.ResourceCodes, int64(0)).Return(nil).Once()
	plans.On("CheckLimit", mock.Anything, "owner-1", billing.ResourceCodes, int64(1)).Return(billing.ErrLimitExceeded)

	f := newFixture(t, plans)
	ctx := context.Background()

	vector := urlInput
	vector.Kind = qrcode.KindVector
	_, err := f.svc.Create(ctx, "owner-1", vector)
	assert.ErrorIs(t, err, billing.ErrFeatureNotInPlan)

	dynamic := urlInput
	dynamic.Dynamic = true
	_, err = f.svc.Create(ctx, "owner-1", dynamic)
	assert.ErrorIs(t, err, billing.ErrFeatureNotInPlan)

	_, err = f.svc.Create(ctx, "owner-1", urlInput)
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, "owner-1", urlInput)
	assert.ErrorIs(t, err, billing.ErrLimitExceeded)
	plans.AssertExpectations(t)
}

func TestService_List(t *testing.T) {
	t.Parallel()

	f := newFixture(t, allowAll())
	ctx := context.Background()

	for i := range 3 {
		in := urlInput
		in.Name = fmt.Sprintf("url %d", i)
		_, err := f.svc.Create(ctx, "owner-1", in)
		require.NoError(t, err)
	}
	_, err := f.svc.Create(ctx, "owner-1", qrcodes.CreateInput{Type: payload.TypeText, Fields: payload.Fields{Text: "hi"}})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, "owner-2", urlInput)
	require.NoError(t, err)

	page, err := f.svc.List(ctx, "owner-1", qrcodes.ListOptions{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(4), page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, payload.TypeText, page.Items[0].Type, "newest first")

	page, err = f.svc.List(ctx, "owner-1", qrcodes.ListOptions{Type: payload.TypeURL})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)

	_, err = f.svc.List(ctx, "owner-1", qrcodes.ListOptions{Type: "fax"})
	assert.ErrorIs(t, err, payload.ErrUnknownType)

	_, err = f.svc.Get(ctx, "owner-2", page.Items[0].ID)
	assert.ErrorIs(t, err, qrcodes.ErrNotFound, "codes are scoped to their owner")
}

func TestService_Update_Static(t *testing.T) {
	t.Parallel()

	f := newFixture(t, allowAll())
	ctx := context.Background()
	code, err := f.svc.Create(ctx, "owner-1", urlInput)
	require.NoError(t, err)
	oldKey := code.ImageKey

	name := "Renamed"
	updated, err := f.svc.Update(ctx, "owner-1", code.ID, qrcodes.UpdateInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, oldKey, updated.ImageKey, "rename keeps the image")

	updated, err = f.svc.Update(ctx, "owner-1", code.ID, qrcodes.UpdateInput{
		Fields: &payload.Fields{URL: "https://example.org"},
	})
	require.NoError(t, err)
	assert.Equal(t, "https://example.org", updated.Payload)
	assert.NotEqual(t, oldKey, updated.ImageKey)
	assert.True(t, f.imageExists(t, updated))
	assert.False(t, f.imageExists(t, &qrcodes.Code{ImageKey: oldKey}), "previous image is removed")

	_, err = f.svc.Update(ctx, "owner-1", code.ID, qrcodes.UpdateInput{Fields: &payload.Fields{}})
	assert.ErrorIs(t, err, payload.ErrInvalidContent)

	_, err = f.svc.Update(ctx, "owner-2", code.ID, qrcodes.UpdateInput{Name: &name})
	assert.ErrorIs(t, err, qrcodes.ErrNotFound)
}

func TestService_Update_DynamicKeepsImage(t *testing.T) {
	t.Parallel()

	f := newFixture(t, allowAll())
	ctx := context.Background()
	in := urlInput
	in.Dynamic = true
	code, err := f.svc.Create(ctx, "owner-1", in)
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, "owner-1", code.ID, qrcodes.UpdateInput{
		Fields: &payload.Fields{URL: "https://example.org/new"},
	})
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/new", updated.Destination)
	assert.Equal(t, code.Payload, updated.Payload)
	assert.Equal(t, code.ImageKey, updated.ImageKey)

	dest, err := f.svc.Resolve(ctx, code.ShortCode, useragent.DeviceMobile)
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/new", dest)

	restyled, err := f.svc.Update(ctx, "owner-1", code.ID, qrcodes.UpdateInput{
		Style: &qrcode.Style{Foreground: "#112233"},
	})
	require.NoError(t, err)
	assert.NotEqual(t, code.ImageKey, restyled.ImageKey, "style change redraws")
	assert.Equal(t, code.Payload, restyled.Payload)
}

func TestService_Dynamic_URLWithoutScheme(t *testing.T) {
	t.Parallel()

	f := newFixture(t, allowAll())
	ctx := context.Background()
	code, err := f.svc.Create(ctx, "owner-1", qrcodes.CreateInput{
		Type:    payload.TypeURL,
		Fields:  payload.Fields{URL: "example.com/page"},
		Dynamic: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/page", code.Destination)
	assert.Equal(t, "example.com/page", code.Fields.URL)

	dest, err := f.svc.Resolve(ctx, code.ShortCode, useragent.DeviceMobile)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/r/"+code.ShortCode, nil)
	rec := httptest.NewRecorder()
	http.Redirect(rec, req, dest, http.StatusFound)
	assert.Equal(t, "https://example.com/page", rec.Header().Get("Location"))

	updated, err := f.svc.Update(ctx, "owner-1", code.ID, qrcodes.UpdateInput{
		Fields: &payload.Fields{URL: "www.example.org"},
	})
	require.NoError(t, err)
	assert.Equal(t, "https://www.example.org", updated.Destination)
}

func TestService_Create_StaticURLWithoutSchemeIsVerbatim(t *testing.T) {
	t.Parallel()

	f := newFixture(t, allowAll())
	code, err := f.svc.Create(context.Background(), "owner-1", qrcodes.CreateInput{
		Type:   payload.TypeURL,
		Fields: payload.Fields{URL: "example.com/page"},
	})
	require.NoError(t, err)
	assert.Equal(t, "example.com/page", code.Payload)
	assert.Empty(t, code.Destination)
}

func TestService_Delete(t *testing.T) {
	t.Parallel()

	f := newFixture(t, allowAll())
	ctx := context.Background()
	code, err := f.svc.Create(ctx, "owner-1", urlInput)
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.Delete(ctx, "owner-2", code.ID), qrcodes.ErrNotFound)
	require.NoError(t, f.svc.Delete(ctx, "owner-1", code.ID))
	assert.False(t, f.imageExists(t, code))

	_, err = f.svc.Get(ctx, "owner-1", code.ID)
	assert.ErrorIs(t, err, qrcodes.ErrNotFound)
}

func TestService_Resolve(t *testing.T) {
	t.Parallel()

	f := newFixture(t, allowAll())
	ctx := context.Background()
	in := qrcodes.CreateInput{
		Type:    payload.TypeSMS,
		Fields:  payload.Fields{PhoneNumber: "+15550100", Message: "see you"},
		Dynamic: true,
	}
	code, err := f.svc.Create(ctx, "owner-1", in)
	require.NoError(t, err)

	for range 2 {
		dest, err := f.svc.Resolve(ctx, code.ShortCode, useragent.DeviceMobile)
		require.NoError(t, err)
		assert.Equal(t, "sms:+15550100?body=see%20you", dest)
	}

	stored, err := f.svc.Get(ctx, "owner-1", code.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stored.Scans)
	assert.NotNil(t, stored.LastScannedAt)

	dest, err := f.svc.Resolve(ctx, code.ShortCode, useragent.DeviceBot)
	require.NoError(t, err)
	assert.Equal(t, "sms:+15550100?body=see%20you", dest)
	stored, err = f.svc.Get(ctx, "owner-1", code.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stored.Scans, "bots are not counted")

	_, err = f.svc.Resolve(ctx, "nope", useragent.DeviceMobile)
	assert.ErrorIs(t, err, qrcodes.ErrNotFound)
	_, err = f.svc.Resolve(ctx, "nope", useragent.DeviceBot)
	assert.ErrorIs(t, err, qrcodes.ErrNotFound)
	_, err = f.svc.Resolve(ctx, "", useragent.DeviceMobile)
	assert.ErrorIs(t, err, qrcodes.ErrNotFound)
}

func TestSupportsDynamic(t *testing.T) {
	t.Parallel()

	assert.True(t, qrcodes.SupportsDynamic(payload.TypeURL))
	assert.True(t, qrcodes.SupportsDynamic(payload.TypeLocation))
	assert.False(t, qrcodes.SupportsDynamic(payload.TypeWiFi))
	assert.False(t, qrcodes.SupportsDynamic(payload.TypeVCard))
	assert.False(t, qrcodes.SupportsDynamic(payload.TypeText))
}
