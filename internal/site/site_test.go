package site

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Sections(t *testing.T) {
	tree := Default()

	assert.Equal(t, []string{DefaultSidebar}, tree.Names())

	sb, ok := tree.Sidebar(DefaultSidebar)
	require.True(t, ok)
	assert.Equal(t, []string{
		"Intro to Earthstar",
		"Tutorials",
		"How To...",
		"Reference",
		"Articles in Depth",
		"...Obsolete docs",
		"...Docusaurus Tutorial",
	}, sb.Labels())
	assert.Len(t, tree.Refs(), 22)
}

func TestDefault_Lookup(t *testing.T) {
	tree := Default()

	t.Run("Tutorials", func(t *testing.T) {
		docs, ok := tree.Lookup(DefaultSidebar, "Tutorials")
		require.True(t, ok)
		assert.Equal(t, []string{"tutorials/making-an-app"}, docs)
	})

	t.Run("Obsolete docs", func(t *testing.T) {
		docs, ok := tree.Lookup(DefaultSidebar, "...Obsolete docs")
		require.True(t, ok)
		assert.Equal(t, []string{"_old/urls", "_old/docs-outline", "_old/heading-test", "_old/roadmap"}, docs)
	})

	t.Run("Intro", func(t *testing.T) {
		docs, _ := tree.Lookup(DefaultSidebar, "Intro to Earthstar")
		assert.Equal(t, []string{
			"intro/guided-tour",
			"intro/overview-for-developers",
			"intro/concepts-and-vocabulary",
			"intro/rules-of-earthstar",
		}, docs)
	})
}

func TestDefault_Valid(t *testing.T) {
	assert.NoError(t, Default().Validate())
	assert.Same(t, Default(), Default())
}

func TestDefault_RoundTripsRaw(t *testing.T) {
	data, err := json.MarshalIndent(Default(), "", "  ")
	require.NoError(t, err)
	assert.Equal(t, string(Raw()), string(data)+"\n")
}
