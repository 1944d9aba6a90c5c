package pptx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// shape is one addressable region discovered on a slide: a text shape
// (p:sp with a text body) or a picture frame (p:pic).
type shape struct {
	pic     bool
	name    string // shape name from p:cNvPr
	phType  string // placeholder type attribute, "" when not a placeholder
	phIndex int    // placeholder idx attribute, -1 when absent
	embedID string // relationship id of the picture's image part
	hasText bool   // shape carries a p:txBody

	// byte range of the element within the slide part
	start, end int64
}

// scanShapes walks a slide part and records every top-level p:sp and p:pic
// element with its byte range, so substitutions can rewrite shapes in place.
func scanShapes(data []byte) ([]shape, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var shapes []shape
	var cur *shape
	var curDepth int
	depth := 0

	for {
		offset := dec.InputOffset()
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing slide XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			local := t.Name.Local
			if cur == nil && (local == "sp" || local == "pic") {
				cur = &shape{pic: local == "pic", phIndex: -1, start: offset}
				curDepth = depth
			} else if cur != nil {
				switch local {
				case "cNvPr":
					if cur.name == "" {
						cur.name = attrValue(t, "name")
					}
				case "ph":
					cur.phType = attrValue(t, "type")
					if idx := attrValue(t, "idx"); idx != "" {
						if n, err := strconv.Atoi(idx); err == nil {
							cur.phIndex = n
						}
					}
				case "blip":
					if cur.embedID == "" {
						cur.embedID = attrValue(t, "embed")
					}
				case "txBody":
					cur.hasText = true
				}
			}
			depth++

		case xml.EndElement:
			depth--
			if cur != nil && depth == curDepth && (t.Name.Local == "sp" || t.Name.Local == "pic") {
				cur.end = dec.InputOffset()
				shapes = append(shapes, *cur)
				cur = nil
			}
		}
	}

	return shapes, nil
}

// attrValue returns the first attribute with the given local name
func attrValue(el xml.StartElement, local string) string {
	for _, a := range el.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// matches reports whether the shape answers to the given identifier: its
// shape name, its placeholder type, or its numeric placeholder index.
func (s *shape) matches(ident string) bool {
	if strings.EqualFold(ident, s.name) {
		return true
	}
	if s.phType != "" && strings.EqualFold(ident, s.phType) {
		return true
	}
	if n, err := strconv.Atoi(ident); err == nil && s.phIndex >= 0 {
		return n == s.phIndex
	}
	return false
}

// setShapeText rewrites the shape's text body within the slide part,
// replacing all paragraphs with the given text. The first paragraph's
// properties and the first run's properties survive, so the template's
// formatting carries over; every newline in text starts a new paragraph.
func setShapeText(data []byte, s shape, text string) ([]byte, error) {
	block := string(data[s.start:s.end])

	bodyStart := strings.Index(block, "<p:txBody")
	if bodyStart < 0 {
		return nil, fmt.Errorf("shape %q has no text body", s.name)
	}
	innerStart := strings.Index(block[bodyStart:], ">")
	if innerStart < 0 {
		return nil, fmt.Errorf("shape %q has a malformed text body", s.name)
	}
	innerStart += bodyStart + 1

	bodyEnd := strings.Index(block[innerStart:], "</p:txBody>")
	if bodyEnd < 0 {
		return nil, fmt.Errorf("shape %q has an unterminated text body", s.name)
	}
	bodyEnd += innerStart

	inner := block[innerStart:bodyEnd]

	// Everything before the first paragraph (bodyPr, lstStyle) is preserved
	prefix := inner
	var paraProps, runProps string
	if p := findElement(inner, "a:p"); p != "" {
		prefix = inner[:strings.Index(inner, "<a:p")]
		paraProps = findElement(p, "a:pPr")
		if run := findElement(p, "a:r"); run != "" {
			runProps = findElement(run, "a:rPr")
		}
	}

	var sb strings.Builder
	sb.WriteString(prefix)
	for _, line := range strings.Split(text, "\n") {
		sb.WriteString("<a:p>")
		sb.WriteString(paraProps)
		sb.WriteString("<a:r>")
		sb.WriteString(runProps)
		sb.WriteString("<a:t>")
		sb.WriteString(escapeXML(line))
		sb.WriteString("</a:t></a:r></a:p>")
	}

	rebuilt := block[:innerStart] + sb.String() + block[bodyEnd:]

	out := make([]byte, 0, len(data)-len(block)+len(rebuilt))
	out = append(out, data[:s.start]...)
	out = append(out, rebuilt...)
	out = append(out, data[s.end:]...)
	return out, nil
}

// findElement returns the full first occurrence of the named element within
// s, self-closing or paired, or "" when absent.
func findElement(s, name string) string {
	search := s
	for {
		idx := strings.Index(search, "<"+name)
		if idx < 0 {
			return ""
		}

		// Reject longer names sharing the prefix (a:p vs a:pPr)
		rest := search[idx+len(name)+1:]
		if len(rest) == 0 {
			return ""
		}
		if c := rest[0]; c != ' ' && c != '>' && c != '/' && c != '\t' && c != '\n' {
			search = search[idx+1:]
			continue
		}

		tagEnd := strings.Index(rest, ">")
		if tagEnd < 0 {
			return ""
		}
		openEnd := idx + len(name) + 1 + tagEnd + 1

		if strings.HasSuffix(search[idx:openEnd], "/>") {
			return search[idx:openEnd]
		}

		closeIdx := strings.Index(search[openEnd:], "</"+name+">")
		if closeIdx < 0 {
			return ""
		}
		return search[idx : openEnd+closeIdx+len(name)+3]
	}
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// escapeXML escapes text for embedding in an XML text node
func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}
