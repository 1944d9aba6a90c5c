package goppt

import (
	"bytes"
	"context"
	"fmt"
	"os"

	ppt "github.com/VantageDataChat/GoPPT"

	"github.com/gpenessot/deckgen/internal/domain/entities"
	"github.com/gpenessot/deckgen/internal/domain/ports"
)

// Slide geometry constants, 16:9 widescreen
const (
	emuPerInch = 914400

	marginLeft   = int64(0.4 * emuPerInch)
	contentWidth = int64(9.2 * emuPerInch)
	slideWidth   = int64(10.0 * emuPerInch)
	slideHeight  = int64(5.625 * emuPerInch)

	fontTitle    = 36
	fontSubtitle = 20
	fontHeading  = 28
	fontBody     = 14
)

// Fallback colors when the theme config leaves them empty
const (
	defaultAccentColor = "FF3B82F6"
	defaultTitleColor  = "FF1E40AF"
	defaultBodyColor   = "FF334155"
	defaultMutedColor  = "FF94A3B8"
)

// Composer builds presentation documents from scratch with GoPPT
type Composer struct {
	theme entities.ThemeConfig
}

// NewComposer creates a composer using the given theme colors
func NewComposer(theme entities.ThemeConfig) *Composer {
	return &Composer{theme: theme}
}

// Compose renders the outline into a complete .pptx document
func (c *Composer) Compose(ctx context.Context, outline *entities.DeckOutline) ([]byte, error) {
	if err := outline.Validate(); err != nil {
		return nil, fmt.Errorf("invalid outline: %w", err)
	}

	p := ppt.New()
	p.GetDocumentProperties().Title = outline.Title
	if outline.Author != "" {
		p.GetDocumentProperties().Creator = outline.Author
	}

	for i := range outline.Slides {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		slide := outline.Slides[i]

		// GoPPT presentations start with one active slide
		var target *ppt.Slide
		if i == 0 {
			target = p.GetActiveSlide()
		} else {
			target = p.CreateSlide()
		}

		var err error
		switch slide.Kind {
		case entities.SlideKindTitle:
			c.addTitleSlide(target, slide)
		case entities.SlideKindImage:
			err = c.addImageSlide(target, slide)
		case entities.SlideKindBullets:
			c.addBulletsSlide(target, slide)
		}
		if err != nil {
			return nil, fmt.Errorf("composing slide %d: %w", i+1, err)
		}
	}

	w, err := ppt.NewWriter(p, ppt.WriterPowerPoint2007)
	if err != nil {
		return nil, fmt.Errorf("creating pptx writer: %w", err)
	}

	var buf bytes.Buffer
	if err := w.(*ppt.PPTXWriter).WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("serializing deck: %w", err)
	}

	return buf.Bytes(), nil
}

// addTitleSlide lays out the deck's opening slide: accent bars, centered
// title, optional subtitle and footer line
func (c *Composer) addTitleSlide(slide *ppt.Slide, s entities.OutlineSlide) {
	c.addAccentBar(slide, 0, int64(0.15*emuPerInch))

	titleShape := slide.CreateRichTextShape()
	titleShape.SetOffsetX(marginLeft).SetOffsetY(int64(1.6 * emuPerInch))
	titleShape.SetWidth(contentWidth).SetHeight(int64(1.0 * emuPerInch))
	tr := titleShape.CreateTextRun(s.Title)
	tr.GetFont().SetSize(fontTitle).SetBold(true).SetColor(ppt.NewColor(c.titleColor()))
	alignCenter(titleShape.GetActiveParagraph())

	if s.Subtitle != "" {
		subShape := slide.CreateRichTextShape()
		subShape.SetOffsetX(int64(1.0 * emuPerInch)).SetOffsetY(int64(2.9 * emuPerInch))
		subShape.SetWidth(int64(8.0 * emuPerInch)).SetHeight(int64(0.8 * emuPerInch))
		str := subShape.CreateTextRun(s.Subtitle)
		str.GetFont().SetSize(fontSubtitle).SetColor(ppt.NewColor(defaultMutedColor))
		alignCenter(subShape.GetActiveParagraph())
	}

	c.addAccentBar(slide, int64(5.5*emuPerInch), int64(0.125*emuPerInch))
}

// addImageSlide lays out a heading plus a full-width picture
func (c *Composer) addImageSlide(slide *ppt.Slide, s entities.OutlineSlide) error {
	c.addSlideHeader(slide, s.Title)

	data, err := os.ReadFile(s.ImagePath) // #nosec G304 - image paths come from the caller's own report
	if err != nil {
		return entities.NewAssetNotFoundError(s.ImagePath, err)
	}

	imgShape := slide.CreateDrawingShape()
	imgShape.SetImageData(data, "image/png")
	imgShape.SetOffsetX(int64(0.5 * emuPerInch)).SetOffsetY(int64(1.0 * emuPerInch))
	imgShape.SetWidth(int64(9.0 * emuPerInch)).SetHeight(int64(4.2 * emuPerInch))
	return nil
}

// addBulletsSlide lays out a heading plus a paragraph per bullet. Level 0
// bullets render as bold section lines, deeper levels as indented items.
func (c *Composer) addBulletsSlide(slide *ppt.Slide, s entities.OutlineSlide) {
	c.addSlideHeader(slide, s.Title)

	contentShape := slide.CreateRichTextShape()
	contentShape.SetOffsetX(marginLeft).SetOffsetY(int64(1.0 * emuPerInch))
	contentShape.SetWidth(contentWidth).SetHeight(int64(4.3 * emuPerInch))

	for i, b := range s.Bullets {
		if i > 0 {
			contentShape.CreateParagraph()
		}

		text := b.Text
		if b.Level > 0 {
			indent := ""
			for l := 1; l < b.Level; l++ {
				indent += "    "
			}
			text = indent + "• " + text
		}

		tr := contentShape.CreateTextRun(text)
		switch {
		case b.Level == 0:
			tr.GetFont().SetSize(18).SetBold(true).SetColor(ppt.NewColor(c.titleColor()))
		case b.Bold:
			tr.GetFont().SetSize(fontBody).SetBold(true).SetColor(ppt.NewColor(c.bodyColor()))
		default:
			tr.GetFont().SetSize(fontBody).SetColor(ppt.NewColor(c.bodyColor()))
		}
	}
}

// addSlideHeader adds the accent bar and heading shared by content slides
func (c *Composer) addSlideHeader(slide *ppt.Slide, title string) {
	c.addAccentBar(slide, 0, int64(0.08*emuPerInch))

	titleShape := slide.CreateRichTextShape()
	titleShape.SetOffsetX(marginLeft).SetOffsetY(int64(0.3 * emuPerInch))
	titleShape.SetWidth(contentWidth).SetHeight(int64(0.6 * emuPerInch))
	tr := titleShape.CreateTextRun(title)
	tr.GetFont().SetSize(fontHeading).SetBold(true).SetColor(ppt.NewColor(c.titleColor()))
}

// addAccentBar draws a full-width colored bar at the given vertical offset
func (c *Composer) addAccentBar(slide *ppt.Slide, offsetY, height int64) {
	bar := slide.CreateRichTextShape()
	bar.SetOffsetX(0).SetOffsetY(offsetY)
	bar.SetWidth(slideWidth).SetHeight(height)
	bar.SetFill(ppt.NewFill().SetSolid(ppt.NewColor(c.accentColor())))
}

func (c *Composer) accentColor() string {
	if c.theme.AccentColor != "" {
		return c.theme.AccentColor
	}
	return defaultAccentColor
}

func (c *Composer) titleColor() string {
	if c.theme.TitleColor != "" {
		return c.theme.TitleColor
	}
	return defaultTitleColor
}

func (c *Composer) bodyColor() string {
	if c.theme.BodyColor != "" {
		return c.theme.BodyColor
	}
	return defaultBodyColor
}

// alignCenter sets a paragraph's horizontal alignment to center
func alignCenter(p *ppt.Paragraph) {
	p.SetAlignment(ppt.NewAlignment().SetHorizontal(ppt.HorizontalCenter))
}

// Ensure Composer implements ports.DeckComposer
var _ ports.DeckComposer = (*Composer)(nil)
