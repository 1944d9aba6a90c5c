package parser

import (
	"context"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	gparser "github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/gpenessot/deckgen/internal/domain/entities"
	"github.com/gpenessot/deckgen/internal/domain/ports"
)

// GoldmarkNotesParser implements the NotesParser interface using Goldmark
type GoldmarkNotesParser struct {
	md goldmark.Markdown
}

// NewGoldmarkNotesParser creates a new Goldmark-based notes parser
func NewGoldmarkNotesParser() *GoldmarkNotesParser {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM, // GitHub Flavored Markdown
		),
		goldmark.WithParserOptions(
			gparser.WithAutoHeadingID(),
		),
	)

	return &GoldmarkNotesParser{md: md}
}

// Parse walks the markdown document and flattens it into outline bullets.
// Headings become bold level-0 bullets; list items take their nesting depth
// plus one as their level.
func (p *GoldmarkNotesParser) Parse(ctx context.Context, content []byte) ([]entities.Bullet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root := p.md.Parser().Parse(text.NewReader(content))

	var bullets []entities.Bullet
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			bullets = append(bullets, entities.Bullet{
				Text:  nodeText(node, content),
				Level: 0,
				Bold:  true,
			})
			return ast.WalkSkipChildren, nil

		case *ast.ListItem:
			bullets = append(bullets, entities.Bullet{
				Text:  listItemText(node, content),
				Level: listDepth(node),
				Bold:  containsEmphasis(node, 2),
			})
			// keep walking so nested lists inside this item are visited
			return ast.WalkContinue, nil
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking markdown: %w", err)
	}

	return bullets, nil
}

// nodeText collects the raw text of all text descendants of n
func nodeText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := child.(*ast.Text); ok {
			sb.Write(t.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}

// listItemText collects the item's own text, excluding any nested sublists
func listItemText(item *ast.ListItem, source []byte) string {
	var sb strings.Builder
	for child := item.FirstChild(); child != nil; child = child.NextSibling() {
		if _, isList := child.(*ast.List); isList {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(nodeText(child, source))
	}
	return strings.TrimSpace(sb.String())
}

// listDepth counts how many lists enclose the item; the outermost list
// yields level 1
func listDepth(item *ast.ListItem) int {
	depth := 0
	for n := item.Parent(); n != nil; n = n.Parent() {
		if _, ok := n.(*ast.List); ok {
			depth++
		}
	}
	return depth
}

// containsEmphasis reports whether the item's own content carries emphasis of
// the given strength (2 = strong), ignoring nested sublists
func containsEmphasis(item *ast.ListItem, level int) bool {
	found := false
	for child := item.FirstChild(); child != nil; child = child.NextSibling() {
		if _, isList := child.(*ast.List); isList {
			continue
		}
		_ = ast.Walk(child, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
			if !entering {
				return ast.WalkContinue, nil
			}
			if e, ok := n.(*ast.Emphasis); ok && e.Level == level {
				found = true
				return ast.WalkStop, nil
			}
			return ast.WalkContinue, nil
		})
		if found {
			return true
		}
	}
	return false
}

// Ensure GoldmarkNotesParser implements ports.NotesParser
var _ ports.NotesParser = (*GoldmarkNotesParser)(nil)
