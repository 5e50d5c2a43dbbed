package web_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/qrforge/qrforge/pkg/payload"
	"github.com/qrforge/qrforge/pkg/useragent"
	"github.com/qrforge/qrforge/svc/billing"
	"github.com/qrforge/qrforge/svc/blog"
	"github.com/qrforge/qrforge/svc/qrcodes"
)

type fakeCodes struct {
	mu    sync.Mutex
	seq   int
	codes map[string]*qrcodes.Code
}

func newFakeCodes() *fakeCodes {
	return &fakeCodes{codes: map[string]*qrcodes.Code{}}
}

func (f *fakeCodes) Create(_ context.Context, ownerID string, in qrcodes.CreateInput) (*qrcodes.Code, error) {
	if err := payload.Validate(in.Type, in.Fields).Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	c := &qrcodes.Code{
		ID:        fmt.Sprintf("code-%d", f.seq),
		OwnerID:   ownerID,
		Name:      in.Name,
		Type:      in.Type,
		Fields:    in.Fields,
		Payload:   payload.FormatFields(in.Type, in.Fields),
		Dynamic:   in.Dynamic,
		ImageURL:  fmt.Sprintf("https://cdn.example.com/code-%d.png", f.seq),
		CreatedAt: time.Now(),
	}
	if in.Dynamic {
		c.ShortCode = fmt.Sprintf("s%d", f.seq)
		c.Destination = c.Payload
	}
	f.codes[c.ID] = c
	return c, nil
}

func (f *fakeCodes) Get(_ context.Context, ownerID, id string) (*qrcodes.Code, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.codes[id]
	if !ok || c.OwnerID != ownerID {
		return nil, qrcodes.ErrNotFound
	}
	return c, nil
}

func (f *fakeCodes) List(_ context.Context, ownerID string, opts qrcodes.ListOptions) (*qrcodes.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	page := &qrcodes.Page{Items: []qrcodes.Code{}}
	for _, c := range f.codes {
		if c.OwnerID != ownerID || (opts.Type != "" && c.Type != opts.Type) {
			continue
		}
		page.Items = append(page.Items, *c)
	}
	page.Total = int64(len(page.Items))
	return page, nil
}

func (f *fakeCodes) Update(ctx context.Context, ownerID, id string, in qrcodes.UpdateInput) (*qrcodes.Code, error) {
	c, err := f.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if in.Name != nil {
		c.Name = *in.Name
	}
	return c, nil
}

func (f *fakeCodes) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := f.Get(ctx, ownerID, id); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.codes, id)
	return nil
}

func (f *fakeCodes) Resolve(_ context.Context, shortCode string, device useragent.Device) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.codes {
		if c.ShortCode == shortCode {
			if !device.IsBot() {
				c.Scans++
			}
			return c.Destination, nil
		}
	}
	return "", qrcodes.ErrNotFound
}

type fakeBlog struct {
	mu    sync.Mutex
	posts []blog.Post
}

func (f *fakeBlog) Create(_ context.Context, in blog.PostInput) (*blog.Post, error) {
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title is required", blog.ErrInvalidPost)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p := blog.Post{
		ID:        fmt.Sprintf("post-%d", len(f.posts)+1),
		Slug:      in.Slug,
		Title:     in.Title,
		Body:      in.Body,
		Tags:      in.Tags,
		Published: in.Published,
	}
	f.posts = append(f.posts, p)
	return &p, nil
}

func (f *fakeBlog) Update(_ context.Context, id string, in blog.PostInput) (*blog.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.posts {
		if f.posts[i].ID == id {
			f.posts[i].Title = in.Title
			f.posts[i].Published = in.Published
			return &f.posts[i], nil
		}
	}
	return nil, blog.ErrNotFound
}

func (f *fakeBlog) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.posts {
		if f.posts[i].ID == id {
			f.posts = append(f.posts[:i], f.posts[i+1:]...)
			return nil
		}
	}
	return blog.ErrNotFound
}

func (f *fakeBlog) GetBySlug(_ context.Context, slug string, includeDrafts bool) (*blog.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.posts {
		if p.Slug == slug && (p.Published || includeDrafts) {
			return &p, nil
		}
	}
	return nil, blog.ErrNotFound
}

func (f *fakeBlog) List(_ context.Context, opts blog.ListOptions) (*blog.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	page := &blog.Page{Items: []blog.Post{}}
	for _, p := range f.posts {
		if p.Published || opts.IncludeDrafts {
			page.Items = append(page.Items, p)
		}
	}
	page.Total = int64(len(page.Items))
	return page, nil
}

func (f *fakeBlog) Search(_ context.Context, query string, _ int) ([]blog.SearchResult, error) {
	if query == "" {
		return nil, blog.ErrEmptyQuery
	}
	return []blog.SearchResult{{ID: "post-1", Slug: "hello", Title: "Hello", Score: 1.5}}, nil
}

type fakeBilling struct {
	mu   sync.Mutex
	subs map[string]billing.Subscription
}

func newFakeBilling() *fakeBilling {
	return &fakeBilling{subs: map[string]billing.Subscription{}}
}

func (f *fakeBilling) Plans() []billing.Plan {
	return []billing.Plan{
		{ID: billing.PlanFree, Name: "Free"},
		{ID: billing.PlanPro, Name: "Pro", Price: billing.Money{Amount: 900, Currency: "USD"}},
	}
}

func (f *fakeBilling) PlanFor(_ context.Context, ownerID string) (billing.Plan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if sub, ok := f.subs[ownerID]; ok && sub.PlanID == billing.PlanPro {
		return f.Plans()[1], nil
	}
	return f.Plans()[0], nil
}

func (f *fakeBilling) Subscription(_ context.Context, ownerID string) (*billing.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sub, ok := f.subs[ownerID]
	if !ok {
		return nil, billing.ErrSubscriptionNotFound
	}
	return &sub, nil
}

func (f *fakeBilling) Checkout(_ context.Context, ownerID, planID, _ string) (*billing.CheckoutLink, error) {
	if planID != billing.PlanPro {
		return nil, billing.ErrPlanNotPurchasable
	}
	return &billing.CheckoutLink{URL: "https://pay.example.com/" + ownerID}, nil
}

func (f *fakeBilling) Portal(ctx context.Context, ownerID string) (*billing.PortalLink, error) {
	if _, err := f.Subscription(ctx, ownerID); err != nil {
		return nil, billing.ErrNoPortal
	}
	return &billing.PortalLink{URL: "https://portal.example.com/" + ownerID}, nil
}

func (f *fakeBilling) Assign(_ context.Context, sub billing.Subscription) error {
	if sub.OwnerID == "" {
		return billing.ErrMissingOwnerID
	}
	if sub.Status == "" {
		sub.Status = billing.StatusActive
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs[sub.OwnerID] = sub
	return nil
}
