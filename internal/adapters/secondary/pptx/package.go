package pptx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
)

// opcPackage is the unzipped OPC container of a presentation document: part
// payloads plus the original entry order, so a round trip preserves layout.
type opcPackage struct {
	names []string
	parts map[string][]byte
}

// readOPC reads a ZIP container into memory
func readOPC(r io.ReaderAt, size int64) (*opcPackage, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("opening container: %w", err)
	}

	pkg := &opcPackage{parts: make(map[string][]byte, len(zr.File))}
	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, "/") {
			continue // directory entries carry no payload
		}

		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening part %s: %w", f.Name, err)
		}

		data, err := io.ReadAll(rc)
		closeErr := rc.Close()
		if err != nil {
			return nil, fmt.Errorf("reading part %s: %w", f.Name, err)
		}
		if closeErr != nil {
			return nil, fmt.Errorf("closing part %s: %w", f.Name, closeErr)
		}

		pkg.names = append(pkg.names, f.Name)
		pkg.parts[f.Name] = data
	}

	return pkg, nil
}

// part returns the payload of the named part
func (p *opcPackage) part(name string) ([]byte, bool) {
	data, ok := p.parts[name]
	return data, ok
}

// setPart replaces the named part, registering it when new. New parts keep a
// stable position (sorted insertion at the end) so serialization stays
// deterministic.
func (p *opcPackage) setPart(name string, data []byte) {
	if _, exists := p.parts[name]; !exists {
		p.names = append(p.names, name)
	}
	p.parts[name] = data
}

// partNamesWithPrefix returns the sorted part names under the given prefix
func (p *opcPackage) partNamesWithPrefix(prefix string) []string {
	var names []string
	for name := range p.parts {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// writeTo serializes the package as a ZIP container. Entry order follows the
// original archive and headers carry no timestamps, so identical packages
// serialize to identical bytes.
func (p *opcPackage) writeTo(w io.Writer) error {
	zw := zip.NewWriter(w)

	for _, name := range p.names {
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:   name,
			Method: zip.Deflate,
		})
		if err != nil {
			return fmt.Errorf("creating entry %s: %w", name, err)
		}

		if _, err := fw.Write(p.parts[name]); err != nil {
			return fmt.Errorf("writing entry %s: %w", name, err)
		}
	}

	return zw.Close()
}

// bytesReaderAt adapts a byte slice for readOPC
func readOPCBytes(data []byte) (*opcPackage, error) {
	return readOPC(bytes.NewReader(data), int64(len(data)))
}
