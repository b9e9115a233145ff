package sidebar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree(t *testing.T) *Tree {
	t.Helper()
	tree, err := New(Sidebar{
		Name: "docs",
		Sections: []Section{
			{Label: "Intro", Docs: []string{"intro/tour", "intro/concepts"}},
			{Label: "Tutorials", Docs: []string{"tutorials/making-an-app"}},
			{Label: "...Obsolete docs", Docs: []string{"_old/urls", "_old/roadmap"}},
		},
	})
	require.NoError(t, err)
	return tree
}

func TestTree_Lookup(t *testing.T) {
	tree := sampleTree(t)

	docs, ok := tree.Lookup("docs", "Tutorials")
	require.True(t, ok)
	assert.Equal(t, []string{"tutorials/making-an-app"}, docs)

	docs, ok = tree.Lookup("docs", "...Obsolete docs")
	require.True(t, ok)
	assert.Equal(t, []string{"_old/urls", "_old/roadmap"}, docs)

	_, ok = tree.Lookup("docs", "Missing")
	assert.False(t, ok)

	_, ok = tree.Lookup("api", "Tutorials")
	assert.False(t, ok)
}

func TestTree_PreservesOrder(t *testing.T) {
	tree := sampleTree(t)

	sb, ok := tree.Sidebar("docs")
	require.True(t, ok)
	assert.Equal(t, []string{"Intro", "Tutorials", "...Obsolete docs"}, sb.Labels())
	assert.Equal(t, []string{
		"intro/tour", "intro/concepts", "tutorials/making-an-app", "_old/urls", "_old/roadmap",
	}, tree.Refs())
}

func TestTree_IsReadOnly(t *testing.T) {
	docs := []string{"a/one", "a/two"}
	tree, err := New(Sidebar{Name: "docs", Sections: []Section{{Label: "A", Docs: docs}}})
	require.NoError(t, err)

	// Mutating the input must not leak into the tree.
	docs[0] = "changed/input"

	got, _ := tree.Lookup("docs", "A")
	assert.Equal(t, "a/one", got[0])

	// Nor may mutating a lookup result.
	got[1] = "changed/output"
	again, _ := tree.Lookup("docs", "A")
	assert.Equal(t, "a/two", again[1])

	sb, _ := tree.Sidebar("docs")
	sb.Sections[0].Label = "B"
	_, ok := tree.Lookup("docs", "A")
	assert.True(t, ok)
}

func TestNew_RejectsDuplicates(t *testing.T) {
	t.Run("section labels", func(t *testing.T) {
		_, err := New(Sidebar{Name: "docs", Sections: []Section{
			{Label: "Intro", Docs: []string{"intro/a"}},
			{Label: "Intro", Docs: []string{"intro/b"}},
		}})
		assert.ErrorIs(t, err, ErrDuplicateSection)
	})

	t.Run("sidebar names", func(t *testing.T) {
		_, err := New(Sidebar{Name: "docs"}, Sidebar{Name: "docs"})
		assert.ErrorIs(t, err, ErrDuplicateSidebar)
	})

	t.Run("same label in different sidebars", func(t *testing.T) {
		_, err := New(
			Sidebar{Name: "docs", Sections: []Section{{Label: "Intro"}}},
			Sidebar{Name: "api", Sections: []Section{{Label: "Intro"}}},
		)
		assert.NoError(t, err)
	})
}

func TestTree_Validate(t *testing.T) {
	assert.NoError(t, sampleTree(t).Validate())

	empty, err := New()
	require.NoError(t, err)
	assert.ErrorIs(t, empty.Validate(), ErrEmptyTree)

	tree, err := New(
		Sidebar{Name: "docs", Sections: []Section{
			{Label: "A", Docs: []string{"a/one", "not-a-ref"}},
			{Label: "B", Docs: []string{"a/one"}},
		}},
		Sidebar{Name: "api", Sections: []Section{
			{Label: "C", Docs: []string{"a/one", "c/with space"}},
		}},
	)
	require.NoError(t, err)

	err = tree.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateRef)
	assert.ErrorIs(t, err, ErrInvalidRef)
	assert.Contains(t, err.Error(), "docs > B")
	assert.Contains(t, err.Error(), "api > C")
	assert.Contains(t, err.Error(), "not-a-ref")
}

func TestParseRef(t *testing.T) {
	tests := []struct {
		in      string
		want    Ref
		wantErr bool
	}{
		{in: "intro/guided-tour", want: Ref{Category: "intro", Slug: "guided-tour"}},
		{in: "_old/urls", want: Ref{Category: "_old", Slug: "urls"}},
		{in: "guides/deep/nested", want: Ref{Category: "guides", Slug: "deep/nested"}},
		{in: "intro", wantErr: true},
		{in: "/slug", wantErr: true},
		{in: "intro/", wantErr: true},
		{in: "intro/guided tour", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRef(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRef)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, got.String())
		})
	}
}
