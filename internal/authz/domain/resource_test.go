package domain_test

import (
	"testing"

	"github.com/ferndale/console-edge/internal/authz/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() []domain.Resource {
	return []domain.Resource{
		{ID: "id-pages", Slug: "pages", Name: "Pages", Path: "/pages"},
		{ID: "id-sections", Slug: "sections", Name: "Sections", Path: "/sections"},
		{ID: "id-users", Slug: "users", Name: "Users", Path: "/users"},
	}
}

func TestResourceIndex_Lookup(t *testing.T) {
	ix := domain.NewResourceIndex(testCatalog())

	tests := []struct {
		name     string
		ref      string
		wantSlug string
		wantOK   bool
	}{
		{name: "by slug", ref: "pages", wantSlug: "pages", wantOK: true},
		{name: "by id", ref: "id-sections", wantSlug: "sections", wantOK: true},
		{name: "by path", ref: "/users", wantSlug: "users", wantOK: true},
		{name: "unknown", ref: "comments", wantOK: false},
		{name: "empty", ref: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := ix.Lookup(tt.ref)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				require.NotNil(t, r)
				assert.Equal(t, tt.wantSlug, r.Slug)
			}
		})
	}
}

func TestResourceIndex_SameResource(t *testing.T) {
	ix := domain.NewResourceIndex(testCatalog())

	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{name: "slug vs id", a: "pages", b: "id-pages", want: true},
		{name: "slug vs path", a: "pages", b: "/pages", want: true},
		{name: "id vs path", a: "id-pages", b: "/pages", want: true},
		{name: "identical unknowns", a: "comments", b: "comments", want: true},
		{name: "different resources", a: "pages", b: "sections", want: false},
		{name: "unknown vs known", a: "comments", b: "pages", want: false},
		{name: "empty ref", a: "", b: "pages", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ix.SameResource(tt.a, tt.b))
		})
	}
}

func TestResourceIndex_DuplicateEntriesKeepFirst(t *testing.T) {
	catalog := []domain.Resource{
		{ID: "a", Slug: "pages", Path: "/pages", Name: "First"},
		{ID: "b", Slug: "pages", Path: "/pages-v2", Name: "Second"},
	}
	ix := domain.NewResourceIndex(catalog)

	r, ok := ix.Lookup("pages")
	require.True(t, ok)
	assert.Equal(t, "First", r.Name)

	// The second record is still reachable by its own unique forms.
	r, ok = ix.Lookup("b")
	require.True(t, ok)
	assert.Equal(t, "Second", r.Name)
}

func TestResource_Defaults(t *testing.T) {
	f := false
	r := domain.Resource{Slug: "pages"}

	assert.True(t, r.Active())
	assert.True(t, r.InMenu())
	assert.True(t, r.IsRoot())

	r.IsActive = &f
	r.ShowInMenu = &f
	r.ParentID = "parent"
	assert.False(t, r.Active())
	assert.False(t, r.InMenu())
	assert.False(t, r.IsRoot())
}
