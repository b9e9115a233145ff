package jsmodule

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"docnav/internal/sidebar"
	"docnav/internal/site"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFixture(t *testing.T) []byte {
	t.Helper()
	src, err := os.ReadFile(filepath.Join("testdata", "sidebars.js"))
	require.NoError(t, err)
	return src
}

func TestParse_Fixture(t *testing.T) {
	tree, err := Parse(context.Background(), readFixture(t))
	require.NoError(t, err)

	if diff := cmp.Diff(site.Default().Sidebars(), tree.Sidebars()); diff != "" {
		t.Errorf("parsed fixture differs from site default (-want +got):\n%s", diff)
	}

	docs, ok := tree.Lookup("docs", "Tutorials")
	require.True(t, ok)
	assert.Equal(t, []string{"tutorials/making-an-app"}, docs)
}

func TestWrite_ReproducesFixture(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, site.Default()))
	assert.Equal(t, string(readFixture(t)), buf.String())
}

func TestWriteParse_RoundTrip(t *testing.T) {
	tree, err := sidebar.New(
		sidebar.Sidebar{Name: "docs", Sections: []sidebar.Section{
			{Label: "It's \"quoted\"", Docs: []string{`back\slash/doc`, "tab\there/x"}},
			{Label: "Empty"},
		}},
		sidebar.Sidebar{Name: "api-reference", Sections: []sidebar.Section{
			{Label: "Ünïcode ✓", Docs: []string{"api/ünïcode"}},
		}},
		sidebar.Sidebar{Name: "blank"},
	)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, tree))
	assert.Contains(t, buf.String(), "    'api-reference': {\n")
	assert.Contains(t, buf.String(), "    blank: {},\n")
	assert.Contains(t, buf.String(), `'It\'s "quoted"'`)

	parsed, err := Parse(context.Background(), buf.Bytes())
	require.NoError(t, err)
	want := tree.Sidebars()
	want[0].Sections[1].Docs = []string{}
	if diff := cmp.Diff(want, parsed.Sidebars()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Forms(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{
			name: "const then module.exports",
			src: `// @ts-check
const sidebars = {
  docs: {
    Intro: ["intro/a", "intro/b"], // trailing comment
    "How To...": ['how-to/x'],
  },
};
module.exports = sidebars;`,
		},
		{
			name: "export default",
			src:  "export default {docs: {Intro: ['intro/a', `intro/b`], 'How To...': ['how-to/x']}};",
		},
		{
			name: "category items",
			src: `module.exports = {
  docs: [
    {type: 'category', label: 'Intro', items: ['intro/a', 'intro/b']},
    {label: 'How To...', items: ['how-to/x'], collapsed: false},
  ],
};`,
		},
		{
			name: "shared section list",
			src: `var intro = ['intro/a', 'intro/b'];
module.exports = ({docs: {Intro: intro, 'How To...': ['how\x2dto/x']}});`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := Parse(context.Background(), []byte(tt.src))
			require.NoError(t, err)

			sb, ok := tree.Sidebar("docs")
			require.True(t, ok)
			assert.Equal(t, []string{"Intro", "How To..."}, sb.Labels())
			docs, _ := tree.Lookup("docs", "Intro")
			assert.Equal(t, []string{"intro/a", "intro/b"}, docs)
			docs, _ = tree.Lookup("docs", "How To...")
			assert.Equal(t, []string{"how-to/x"}, docs)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		is   error
	}{
		{name: "no export", src: `const x = {docs: {}};`, is: ErrNoExport},
		{name: "syntax", src: "module.exports = {\n  docs: {\n    A: ['a/b',\n", is: ErrSyntax},
		{name: "doc link item", src: `module.exports = {docs: [{type: 'doc', id: 'a/b'}]};`, is: ErrUnsupported},
		{name: "bare string in array", src: `module.exports = {docs: ['a/b']};`, is: ErrUnsupported},
		{name: "template substitution", src: "module.exports = {docs: {A: [`a/${x}`]}};", is: ErrUnsupported},
		{name: "undefined identifier", src: `module.exports = sidebars;`, is: ErrUnsupported},
		{name: "spread", src: `module.exports = {...base};`, is: ErrUnsupported},
		{name: "duplicate label", src: `module.exports = {docs: {A: ['a/1'], 'A': ['a/2']}};`, is: sidebar.ErrDuplicateSection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(context.Background(), []byte(tt.src))
			assert.ErrorIs(t, err, tt.is)
		})
	}
}

func TestUnquote(t *testing.T) {
	tests := map[string]string{
		`'plain'`:       "plain",
		`"double"`:      "double",
		"`tick`":        "tick",
		`'it\'s'`:       "it's",
		`'a\nb'`:        "a\nb",
		`'\x41B\u{43}'`: "ABC",
		`'back\\slash'`: `back\slash`,

		`'Fun \uD83D\uDE00'`: "Fun \U0001F600",
		`'\u{1F600}'`:         "\U0001F600",
		"'a\\\r\nb'":          "ab",
		"'a\\\rb'":            "ab",
		"'a\\\u2028b'":        "ab",
		"'a\\\u2029b'":        "ab",
	}
	for in, want := range tests {
		got, err := unquote(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := unquote(`'bad\x4'`)
	assert.Error(t, err)
	_, err = unquote(`'mismatch"`)
	assert.Error(t, err)
}
