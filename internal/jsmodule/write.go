package jsmodule

import (
	"bufio"
	"io"
	"strings"

	"docnav/internal/sidebar"
)

const indent = "    "

// Write renders t as a CommonJS sidebars module in the layout the site
// generator's scaffold uses: four-space indent, single quotes, trailing commas.
// Section labels are always quoted; sidebar names only when they are not
// plain identifiers.
func Write(w io.Writer, t *sidebar.Tree) error {
	bw := bufio.NewWriter(w)

	bw.WriteString("module.exports = {\n")
	for _, sb := range t.Sidebars() {
		bw.WriteString(indent)
		bw.WriteString(propertyName(sb.Name))
		if len(sb.Sections) == 0 {
			bw.WriteString(": {},\n")
			continue
		}
		bw.WriteString(": {\n")
		for _, sec := range sb.Sections {
			bw.WriteString(strings.Repeat(indent, 2))
			bw.WriteString(quote(sec.Label))
			if len(sec.Docs) == 0 {
				bw.WriteString(": [],\n")
				continue
			}
			bw.WriteString(": [\n")
			for _, ref := range sec.Docs {
				bw.WriteString(strings.Repeat(indent, 3))
				bw.WriteString(quote(ref))
				bw.WriteString(",\n")
			}
			bw.WriteString(strings.Repeat(indent, 2))
			bw.WriteString("],\n")
		}
		bw.WriteString(indent)
		bw.WriteString("},\n")
	}
	bw.WriteString("};\n")

	return bw.Flush()
}

func propertyName(s string) string {
	if isIdentifier(s) {
		return s
	}
	return quote(s)
}
