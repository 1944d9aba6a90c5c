package pptx

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/gpenessot/deckgen/internal/domain/entities"
	"github.com/gpenessot/deckgen/internal/domain/ports"
)

const (
	presentationPart = "ppt/presentation.xml"
	presentationRels = "ppt/_rels/presentation.xml.rels"
	contentTypesPart = "[Content_Types].xml"

	relNamespace = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
)

// Store opens pptx templates from the filesystem
type Store struct{}

// NewStore creates a new template store
func NewStore() *Store {
	return &Store{}
}

// Load opens the template at templatePath and returns its mutable in-memory
// copy. The file on disk is never touched again after Load returns.
func (s *Store) Load(ctx context.Context, templatePath string) (ports.Document, error) {
	info, err := os.Stat(templatePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, entities.NewNotFoundError(templatePath, err)
		}
		return nil, entities.NewFormatError(templatePath, err)
	}
	if info.IsDir() {
		return nil, entities.NewFormatError(templatePath, fmt.Errorf("%s is a directory", templatePath))
	}

	data, err := os.ReadFile(templatePath) // #nosec G304 - template path is the caller's own input
	if err != nil {
		return nil, entities.NewFormatError(templatePath, err)
	}

	pkg, err := readOPCBytes(data)
	if err != nil {
		return nil, entities.NewFormatError(templatePath, err)
	}

	slides, err := resolveSlideOrder(pkg)
	if err != nil {
		return nil, entities.NewFormatError(templatePath, err)
	}

	return &Document{pkg: pkg, slides: slides, source: templatePath}, nil
}

// Document is the in-memory mutable copy of a loaded template. Methods are
// not safe for concurrent use; each build owns its document exclusively.
type Document struct {
	pkg    *opcPackage
	slides []string // slide part names in presentation order
	source string
}

// SlideCount returns the number of slides in the document
func (d *Document) SlideCount() int {
	return len(d.slides)
}

// Placeholders enumerates the addressable shapes of the given slide
func (d *Document) Placeholders(slide int) ([]ports.Placeholder, error) {
	data, err := d.slideData(slide)
	if err != nil {
		return nil, err
	}

	shapes, err := scanShapes(data)
	if err != nil {
		return nil, err
	}

	placeholders := make([]ports.Placeholder, 0, len(shapes))
	for _, sh := range shapes {
		kind := ports.PlaceholderText
		if sh.pic {
			kind = ports.PlaceholderPicture
		}
		placeholders = append(placeholders, ports.Placeholder{
			Name:  sh.name,
			Type:  sh.phType,
			Index: sh.phIndex,
			Kind:  kind,
		})
	}
	return placeholders, nil
}

// SetText overwrites the target text placeholder with the literal string
func (d *Document) SetText(slide int, placeholder string, text string) error {
	data, sh, err := d.findShape(slide, placeholder)
	if err != nil {
		return err
	}

	if sh.pic {
		return entities.NewTypeMismatchError(slide, placeholder, "text value aimed at a picture frame")
	}
	if !sh.hasText {
		return entities.NewTypeMismatchError(slide, placeholder, "shape has no text body")
	}

	rewritten, err := setShapeText(data, *sh, text)
	if err != nil {
		return entities.NewFormatError(d.source, err)
	}

	d.pkg.setPart(d.slides[slide], rewritten)
	return nil
}

// SetPicture swaps the target picture frame's image for the given bytes
func (d *Document) SetPicture(slide int, placeholder string, data []byte, format string) error {
	_, sh, err := d.findShape(slide, placeholder)
	if err != nil {
		return err
	}

	if !sh.pic {
		return entities.NewTypeMismatchError(slide, placeholder, "image value aimed at a text shape")
	}
	if sh.embedID == "" {
		return entities.NewFormatError(d.source, fmt.Errorf("picture %q has no image relationship", placeholder))
	}

	ext, contentType, err := imageContentType(format)
	if err != nil {
		return entities.NewTypeMismatchError(slide, placeholder, err.Error())
	}

	relsName := slideRelsName(d.slides[slide])
	relsData, ok := d.pkg.part(relsName)
	if !ok {
		return entities.NewFormatError(d.source, fmt.Errorf("slide %d has no relationships part", slide))
	}

	mediaName := fmt.Sprintf("ppt/media/image%d.%s", d.nextMediaIndex(), ext)
	rewritten, err := retargetRelationship(relsData, sh.embedID, "../"+strings.TrimPrefix(mediaName, "ppt/"))
	if err != nil {
		return entities.NewFormatError(d.source, err)
	}

	d.pkg.setPart(mediaName, data)
	d.pkg.setPart(relsName, rewritten)
	d.ensureContentType(ext, contentType)
	return nil
}

// WriteTo serializes the document. Identical documents produce identical bytes.
func (d *Document) WriteTo(w io.Writer) error {
	return d.pkg.writeTo(w)
}

// slideData returns the raw part of the given slide
func (d *Document) slideData(slide int) ([]byte, error) {
	if slide < 0 || slide >= len(d.slides) {
		return nil, fmt.Errorf("slide index %d out of range (0-%d)", slide, len(d.slides)-1)
	}

	data, ok := d.pkg.part(d.slides[slide])
	if !ok {
		return nil, fmt.Errorf("slide part %s missing from package", d.slides[slide])
	}
	return data, nil
}

// findShape resolves a content map target to a concrete shape. A slide index
// or placeholder identifier the template does not have reports
// PlaceholderNotFound.
func (d *Document) findShape(slide int, placeholder string) ([]byte, *shape, error) {
	if slide < 0 || slide >= len(d.slides) {
		return nil, nil, entities.NewPlaceholderNotFoundError(slide, placeholder)
	}

	data, err := d.slideData(slide)
	if err != nil {
		return nil, nil, entities.NewFormatError(d.source, err)
	}

	shapes, err := scanShapes(data)
	if err != nil {
		return nil, nil, entities.NewFormatError(d.source, err)
	}

	for i := range shapes {
		if shapes[i].matches(placeholder) {
			return data, &shapes[i], nil
		}
	}
	return nil, nil, entities.NewPlaceholderNotFoundError(slide, placeholder)
}

var mediaIndexPattern = regexp.MustCompile(`^ppt/media/image(\d+)\.`)

// nextMediaIndex returns the next unused image part number
func (d *Document) nextMediaIndex() int {
	max := 0
	for _, name := range d.pkg.partNamesWithPrefix("ppt/media/") {
		if m := mediaIndexPattern.FindStringSubmatch(name); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > max {
				max = n
			}
		}
	}
	return max + 1
}

// ensureContentType registers a Default content type for the extension when
// the template does not carry one yet
func (d *Document) ensureContentType(ext, contentType string) {
	data, ok := d.pkg.part(contentTypesPart)
	if !ok {
		return
	}

	text := string(data)
	if strings.Contains(text, fmt.Sprintf(`Extension="%s"`, ext)) {
		return
	}

	entry := fmt.Sprintf(`<Default Extension="%s" ContentType="%s"/>`, ext, contentType)
	text = strings.Replace(text, "</Types>", entry+"</Types>", 1)
	d.pkg.setPart(contentTypesPart, []byte(text))
}

// imageContentType maps a sniffed image format to its pptx extension and MIME type
func imageContentType(format string) (string, string, error) {
	switch format {
	case "png":
		return "png", "image/png", nil
	case "jpeg":
		return "jpg", "image/jpeg", nil
	case "gif":
		return "gif", "image/gif", nil
	default:
		return "", "", fmt.Errorf("unsupported image format %q", format)
	}
}

// slideRelsName returns the relationships part name for a slide part
func slideRelsName(slidePart string) string {
	return path.Join(path.Dir(slidePart), "_rels", path.Base(slidePart)+".rels")
}

// relationship is one entry of an OPC relationships part
type relationship struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

// parseRelationships decodes an OPC relationships part
func parseRelationships(data []byte) ([]relationship, error) {
	var doc struct {
		Rels []relationship `xml:"Relationship"`
	}
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing relationships: %w", err)
	}
	return doc.Rels, nil
}

// retargetRelationship rewrites the Target attribute of the relationship
// with the given id. Every other byte of the part is left as authored, so
// relationships the codec does not model, and attributes like TargetMode,
// survive untouched.
func retargetRelationship(data []byte, id, target string) ([]byte, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		offset := dec.InputOffset()
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing relationships: %w", err)
		}

		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "Relationship" || attrValue(se, "Id") != id {
			continue
		}

		// offset points at whitespace or text preceding the tag when the
		// decoder coalesced it into the previous token, so narrow to the tag
		elem := data[offset:dec.InputOffset()]
		open := bytes.LastIndexByte(elem, '<')
		if open > 0 {
			offset += int64(open)
			elem = elem[open:]
		}

		patched, err := replaceAttr(elem, "Target", target)
		if err != nil {
			return nil, err
		}

		out := make([]byte, 0, len(data)+len(patched)-len(elem))
		out = append(out, data[:offset]...)
		out = append(out, patched...)
		out = append(out, data[int(offset)+len(elem):]...)
		return out, nil
	}
	return nil, fmt.Errorf("relationship %s not found", id)
}

// replaceAttr swaps the value of one attribute inside a raw start tag
func replaceAttr(elem []byte, name, value string) ([]byte, error) {
	marker := []byte(name + `="`)
	i := bytes.Index(elem, marker)
	if i < 0 {
		return nil, fmt.Errorf("attribute %s not found", name)
	}

	start := i + len(marker)
	length := bytes.IndexByte(elem[start:], '"')
	if length < 0 {
		return nil, fmt.Errorf("attribute %s not terminated", name)
	}

	out := make([]byte, 0, len(elem))
	out = append(out, elem[:start]...)
	out = append(out, escapeXML(value)...)
	out = append(out, elem[start+length:]...)
	return out, nil
}

// resolveSlideOrder reads the presentation part and its relationships to
// produce slide part names in presentation order
func resolveSlideOrder(pkg *opcPackage) ([]string, error) {
	presData, ok := pkg.part(presentationPart)
	if !ok {
		return nil, fmt.Errorf("package has no %s part", presentationPart)
	}

	relsData, ok := pkg.part(presentationRels)
	if !ok {
		return nil, fmt.Errorf("package has no %s part", presentationRels)
	}

	rels, err := parseRelationships(relsData)
	if err != nil {
		return nil, err
	}

	targets := make(map[string]string, len(rels))
	for _, r := range rels {
		targets[r.ID] = r.Target
	}

	ids, err := slideRelationIDs(presData)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("presentation has no slides")
	}

	slides := make([]string, 0, len(ids))
	for _, id := range ids {
		target, ok := targets[id]
		if !ok {
			return nil, fmt.Errorf("slide relationship %s not found", id)
		}

		// relative targets resolve against the presentation part's directory;
		// absolute ones resolve from the package root
		var name string
		if strings.HasPrefix(target, "/") {
			name = path.Clean(strings.TrimPrefix(target, "/"))
		} else {
			name = path.Clean(path.Join("ppt", target))
		}
		if _, ok := pkg.part(name); !ok {
			return nil, fmt.Errorf("slide part %s missing from package", name)
		}
		slides = append(slides, name)
	}

	return slides, nil
}

// slideRelationIDs extracts the ordered relationship ids of p:sldIdLst
func slideRelationIDs(presData []byte) ([]string, error) {
	dec := xml.NewDecoder(bytes.NewReader(presData))

	var ids []string
	inList := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing presentation XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "sldIdLst":
				inList = true
			case "sldId":
				if !inList {
					continue
				}
				for _, a := range t.Attr {
					if a.Name.Local == "id" && a.Name.Space == relNamespace {
						ids = append(ids, a.Value)
					}
				}
			}
		case xml.EndElement:
			if t.Name.Local == "sldIdLst" {
				inList = false
			}
		}
	}

	return ids, nil
}
