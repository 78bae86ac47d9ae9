// Package render prints envelopes onto C5 pages, one page per envelope.
//
// Coordinates are millimetres from the top-left corner of a 229x162 mm page.
package render

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/kingrea/versand/internal/envelope"
)

const (
	pageWidth  = 229.0
	pageHeight = 162.0
	border     = 12.0

	fontFamily      = "Helvetica"
	namesFontSize   = 11.0
	addressFontSize = 18.0
	badgeFontSize   = 11.0

	namesX        = border + 20
	namesY        = 18.0
	groupsOffsetY = 5.0

	addressX = 120.0
	// addressY is the baseline of the first address line, 65 mm above the
	// bottom edge.
	addressY = pageHeight - 65.0

	logoHeight = 16.0

	badgeWidth    = 30.0
	badgeHeight   = 10.0
	badgeDent     = badgeWidth / 10
	badgeSpacingY = 15.0
)

// ErrNothingToRender is returned for an empty envelope list.
var ErrNothingToRender = errors.New("render: no envelopes")

// Options switch parts of the page layout on or off.
type Options struct {
	SideBadges bool
	Groups     bool
	Names      bool
	// Logo is an image file drawn in the top-left corner; empty disables it.
	Logo string
}

// DefaultOptions prints everything except a logo.
func DefaultOptions() Options {
	return Options{SideBadges: true, Groups: true, Names: true}
}

// page is the text content of one envelope after Options are applied.
type page struct {
	Names   string
	Groups  string
	Address []string
	Badges  []string
}

func layout(env envelope.Envelope, opts Options) page {
	var p page
	if opts.Names {
		names := make([]string, 0, len(env.Occupants))
		for _, occ := range env.Occupants {
			names = append(names, occ.Name)
		}
		p.Names = strings.Join(names, ", ")
	}
	if opts.Groups {
		groups := make([]string, 0, len(env.Occupants))
		for _, occ := range env.Occupants {
			groups = append(groups, occ.Group)
		}
		p.Groups = strings.Join(groups, ", ")
	}
	p.Address = append(p.Address, env.Address...)
	if opts.SideBadges {
		for _, rc := range env.RoleCounts() {
			if rc.Role.Kind == envelope.RoleNothing {
				continue
			}
			p.Badges = append(p.Badges, strconv.Itoa(rc.Count)+" "+rc.Role.Badge(rc.Count))
		}
	}
	return p
}

// Render writes one page per envelope to w and returns the page count.
func Render(w io.Writer, envelopes []envelope.Envelope, opts Options) (int, error) {
	if len(envelopes) == 0 {
		return 0, ErrNothingToRender
	}
	// C5 is given portrait; the orientation turns it.
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "L",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: pageHeight, Ht: pageWidth},
	})
	pdf.SetTitle("Versand", true)
	pdf.SetCreator("versand", true)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, env := range envelopes {
		drawPage(pdf, tr, layout(env, opts), opts.Logo)
		if err := pdf.Error(); err != nil {
			return 0, fmt.Errorf("render: page %d: %w", pdf.PageNo(), err)
		}
	}
	pages := pdf.PageCount()
	if err := pdf.Output(w); err != nil {
		return 0, fmt.Errorf("render: write: %w", err)
	}
	return pages, nil
}

func drawPage(pdf *fpdf.Fpdf, tr func(string) string, p page, logo string) {
	pdf.AddPage()
	// The logo goes first so that it stays in the background.
	if logo != "" {
		pdf.ImageOptions(logo, border, border, 0, logoHeight, false, fpdf.ImageOptions{ReadDpi: true}, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont(fontFamily, "", namesFontSize)
	if p.Names != "" {
		pdf.Text(namesX, namesY, tr(p.Names))
	}
	if p.Groups != "" {
		pdf.Text(namesX, namesY+groupsOffsetY, tr(p.Groups))
	}

	pdf.SetFont(fontFamily, "", addressFontSize)
	lineHeight := pdf.PointConvert(addressFontSize)
	for i, line := range p.Address {
		pdf.Text(addressX, addressY+float64(i)*lineHeight, tr(line))
	}

	pdf.SetFont(fontFamily, "B", badgeFontSize)
	for i, badge := range p.Badges {
		drawBadge(pdf, border, pageHeight-border-float64(i)*badgeSpacingY, tr(badge))
	}
}

// drawBadge draws a black arrow-tailed label whose bottom-left corner sits at
// (x, bottom).
func drawBadge(pdf *fpdf.Fpdf, x, bottom float64, text string) {
	top := bottom - badgeHeight
	pdf.SetFillColor(0, 0, 0)
	pdf.SetDrawColor(0, 0, 0)
	pdf.Polygon([]fpdf.PointType{
		{X: x, Y: top},
		{X: x + badgeWidth, Y: top},
		{X: x + badgeWidth - badgeDent, Y: top + badgeHeight/2},
		{X: x + badgeWidth, Y: bottom},
		{X: x, Y: bottom},
	}, "FD")
	pdf.SetTextColor(255, 255, 255)
	pdf.Text(x+2.5, bottom-badgeHeight/2+0.8, text)
	pdf.SetTextColor(0, 0, 0)
}
