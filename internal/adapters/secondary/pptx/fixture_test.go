package pptx

import (
	"archive/zip"
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// fixtureParts are the parts of a minimal three-slide template: a title
// slide, a slide with a picture frame named "chart_image", and a body slide.
// The markup mirrors what PowerPoint itself authors, trimmed to the elements
// the reader cares about.
var fixtureParts = []struct {
	name string
	data string
}{
	{"[Content_Types].xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
		`<Default Extension="xml" ContentType="application/xml"/>` +
		`<Default Extension="png" ContentType="image/png"/>` +
		`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>` +
		`<Override PartName="/ppt/slides/slide1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>` +
		`<Override PartName="/ppt/slides/slide2.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>` +
		`<Override PartName="/ppt/slides/slide3.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>` +
		`</Types>`},

	{"_rels/.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="ppt/presentation.xml"/>` +
		`</Relationships>`},

	{"ppt/presentation.xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<p:presentation xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"` +
		` xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"` +
		` xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">` +
		`<p:sldIdLst><p:sldId id="256" r:id="rId1"/><p:sldId id="257" r:id="rId2"/><p:sldId id="258" r:id="rId3"/></p:sldIdLst>` +
		`<p:sldSz cx="9144000" cy="5143500"/>` +
		`</p:presentation>`},

	{"ppt/_rels/presentation.xml.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide1.xml"/>` +
		`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide2.xml"/>` +
		`<Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide3.xml"/>` +
		`</Relationships>`},

	{"ppt/slides/slide1.xml", slideXML(
		`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Title 1"/><p:cNvSpPr/><p:nvPr><p:ph type="title"/></p:nvPr></p:nvSpPr>` +
			`<p:spPr/><p:txBody><a:bodyPr/><a:lstStyle/>` +
			`<a:p><a:pPr algn="ctr"/><a:r><a:rPr lang="en-US" sz="4400" b="1"/><a:t>Template Title</a:t></a:r></a:p>` +
			`</p:txBody></p:sp>` +
			`<p:sp><p:nvSpPr><p:cNvPr id="3" name="Subtitle 2"/><p:cNvSpPr/><p:nvPr><p:ph type="subTitle" idx="1"/></p:nvPr></p:nvSpPr>` +
			`<p:spPr/><p:txBody><a:bodyPr/><a:lstStyle/>` +
			`<a:p><a:r><a:rPr lang="en-US" sz="2000"/><a:t>Template Subtitle</a:t></a:r></a:p>` +
			`</p:txBody></p:sp>`)},

	{"ppt/slides/slide2.xml", slideXML(
		`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Title 1"/><p:cNvSpPr/><p:nvPr><p:ph type="title"/></p:nvPr></p:nvSpPr>` +
			`<p:spPr/><p:txBody><a:bodyPr/><a:lstStyle/>` +
			`<a:p><a:r><a:rPr lang="en-US" sz="3200"/><a:t>Chart</a:t></a:r></a:p>` +
			`</p:txBody></p:sp>` +
			`<p:pic><p:nvPicPr><p:cNvPr id="4" name="chart_image"/><p:cNvPicPr/><p:nvPr><p:ph type="pic" idx="1"/></p:nvPr></p:nvPicPr>` +
			`<p:blipFill><a:blip r:embed="rId2"/><a:stretch><a:fillRect/></a:stretch></p:blipFill>` +
			`<p:spPr><a:xfrm><a:off x="914400" y="1371600"/><a:ext cx="7315200" cy="3200400"/></a:xfrm></p:spPr></p:pic>`)},

	{"ppt/slides/_rels/slide2.xml.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="../media/image1.png"/>` +
		`</Relationships>`},

	{"ppt/slides/slide3.xml", slideXML(
		`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Body 1"/><p:cNvSpPr/><p:nvPr><p:ph type="body" idx="1"/></p:nvPr></p:nvSpPr>` +
			`<p:spPr/><p:txBody><a:bodyPr/><a:lstStyle/>` +
			`<a:p><a:r><a:rPr lang="en-US" sz="1800"/><a:t>Closing remarks</a:t></a:r></a:p>` +
			`</p:txBody></p:sp>`)},
}

// slideXML wraps shape markup in the standard slide envelope
func slideXML(shapes string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"` +
		` xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"` +
		` xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">` +
		`<p:cSld><p:spTree>` +
		`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>` +
		shapes +
		`</p:spTree></p:cSld></p:sld>`
}

// writeFixtureTemplate writes the fixture template (plus its embedded
// 1x1 image) to a pptx file under dir and returns its path
func writeFixtureTemplate(t *testing.T, dir string) string {
	t.Helper()
	return writeFixtureTemplateWith(t, dir, "", "")
}

// writeFixtureTemplateWith writes the fixture template with the named part's
// data replaced
func writeFixtureTemplateWith(t *testing.T, dir, partName, partData string) string {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, part := range fixtureParts {
		data := part.data
		if part.name == partName {
			data = partData
		}

		fw, err := zw.Create(part.name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(data))
		require.NoError(t, err)
	}

	fw, err := zw.Create("ppt/media/image1.png")
	require.NoError(t, err)
	_, err = fw.Write(testPNG(t, color.RGBA{R: 255, A: 255}))
	require.NoError(t, err)

	require.NoError(t, zw.Close())

	path := filepath.Join(dir, "template.pptx")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

// writeEmptyZip writes a valid zip archive with a single unrelated entry
func writeEmptyZip(t *testing.T, buf *bytes.Buffer) {
	t.Helper()

	zw := zip.NewWriter(buf)
	fw, err := zw.Create("readme.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte("not a presentation"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
}

// testPNG encodes a 1x1 PNG of the given color
func testPNG(t *testing.T, c color.Color) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, c)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
