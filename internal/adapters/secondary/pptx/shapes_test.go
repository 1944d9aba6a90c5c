package pptx

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanShapes(t *testing.T) {
	t.Run("records shapes with byte ranges", func(t *testing.T) {
		data := []byte(slideXML(
			`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Title 1"/><p:cNvSpPr/><p:nvPr><p:ph type="title"/></p:nvPr></p:nvSpPr>` +
				`<p:spPr/><p:txBody><a:bodyPr/><a:p><a:r><a:t>Hello</a:t></a:r></a:p></p:txBody></p:sp>`))

		shapes, err := scanShapes(data)
		require.NoError(t, err)
		require.Len(t, shapes, 1)

		sh := shapes[0]
		assert.Equal(t, "Title 1", sh.name)
		assert.Equal(t, "title", sh.phType)
		assert.Equal(t, -1, sh.phIndex)
		assert.True(t, sh.hasText)
		assert.False(t, sh.pic)

		block := string(data[sh.start:sh.end])
		assert.True(t, strings.HasPrefix(block, "<p:sp>"))
		assert.True(t, strings.HasSuffix(block, "</p:sp>"))
	})

	t.Run("captures picture embeds", func(t *testing.T) {
		data := []byte(slideXML(
			`<p:pic><p:nvPicPr><p:cNvPr id="3" name="chart"/><p:cNvPicPr/><p:nvPr><p:ph type="pic" idx="2"/></p:nvPr></p:nvPicPr>` +
				`<p:blipFill><a:blip r:embed="rId5"/></p:blipFill><p:spPr/></p:pic>`))

		shapes, err := scanShapes(data)
		require.NoError(t, err)
		require.Len(t, shapes, 1)

		assert.True(t, shapes[0].pic)
		assert.Equal(t, "rId5", shapes[0].embedID)
		assert.Equal(t, 2, shapes[0].phIndex)
	})

	t.Run("ignores the group shape envelope", func(t *testing.T) {
		shapes, err := scanShapes([]byte(slideXML("")))
		require.NoError(t, err)
		assert.Empty(t, shapes)
	})
}

func TestSetShapeText(t *testing.T) {
	t.Run("fills an empty placeholder", func(t *testing.T) {
		data := []byte(slideXML(
			`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Title 1"/><p:cNvSpPr/><p:nvPr><p:ph type="title"/></p:nvPr></p:nvSpPr>` +
				`<p:spPr/><p:txBody><a:bodyPr/><a:lstStyle/></p:txBody></p:sp>`))

		shapes, err := scanShapes(data)
		require.NoError(t, err)
		require.Len(t, shapes, 1)

		out, err := setShapeText(data, shapes[0], "fresh text")
		require.NoError(t, err)
		assert.Contains(t, string(out), "<a:bodyPr/><a:lstStyle/><a:p><a:r><a:t>fresh text</a:t></a:r></a:p>")
	})

	t.Run("drops extra paragraphs and runs", func(t *testing.T) {
		data := []byte(slideXML(
			`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Body 1"/><p:cNvSpPr/><p:nvPr><p:ph type="body"/></p:nvPr></p:nvSpPr>` +
				`<p:spPr/><p:txBody><a:bodyPr/>` +
				`<a:p><a:r><a:rPr sz="1800"/><a:t>one</a:t></a:r><a:r><a:t>two</a:t></a:r></a:p>` +
				`<a:p><a:r><a:t>three</a:t></a:r></a:p>` +
				`</p:txBody></p:sp>`))

		shapes, err := scanShapes(data)
		require.NoError(t, err)

		out, err := setShapeText(data, shapes[0], "replaced")
		require.NoError(t, err)

		text := string(out)
		assert.Contains(t, text, "<a:t>replaced</a:t>")
		assert.NotContains(t, text, "<a:t>one</a:t>")
		assert.NotContains(t, text, "<a:t>two</a:t>")
		assert.NotContains(t, text, "<a:t>three</a:t>")
		assert.Equal(t, 1, strings.Count(text, `sz="1800"`), "first run properties carried once")
	})
}

func TestFindElement(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		element  string
		expected string
	}{
		{"self-closing", `<a:p><a:pPr algn="ctr"/><a:r/></a:p>`, "a:pPr", `<a:pPr algn="ctr"/>`},
		{"paired", `<a:p><a:pPr><a:buNone/></a:pPr></a:p>`, "a:pPr", `<a:pPr><a:buNone/></a:pPr>`},
		{"absent", `<a:p><a:r/></a:p>`, "a:pPr", ""},
		{"skips longer names sharing the prefix", `<a:pPr algn="ctr"/><a:p><a:r/></a:p>`, "a:p", `<a:p><a:r/></a:p>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, findElement(tt.input, tt.element))
		})
	}
}
