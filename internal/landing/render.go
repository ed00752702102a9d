package landing

import (
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"example.com/storefront/internal/catalog"
	"example.com/storefront/internal/checkout"
)

// EmptyPageMessage is shown for a page without sections.
const EmptyPageMessage = "This page has no content yet."

// ImageResolver maps a stored image reference to a delivery URL.
type ImageResolver interface {
	Resolve(ref, aspect string) string
}

// State exposes the live sub-engines of a mounted page. Every lookup may
// return nil, in which case the section renders its initial state.
type State interface {
	Checkout(sectionID string) *checkout.Engine
	Countdown(sectionID string) *Countdown
	Carousel(sectionID string) *Carousel
	Accordion(sectionID string) *Accordion
}

// RenderContext carries everything besides the section and theme that a
// renderer reads.
type RenderContext struct {
	Images ImageResolver
	Now    func() time.Time
	Slug   string
	// Width is the viewport width used for paged carousels when there is
	// no live state.
	Width  int
	State  State
	Logger *slog.Logger
}

func (rc RenderContext) image(ref, aspect string) string {
	if rc.Images == nil {
		return ref
	}
	return rc.Images.Resolve(ref, aspect)
}

func (rc RenderContext) images(refs []string, aspect string) []string {
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		if ref = strings.TrimSpace(ref); ref != "" {
			out = append(out, rc.image(ref, aspect))
		}
	}
	return out
}

func (rc RenderContext) now() time.Time {
	if rc.Now == nil {
		return time.Now()
	}
	return rc.Now()
}

func (rc RenderContext) logger() *slog.Logger {
	if rc.Logger == nil {
		return slog.Default()
	}
	return rc.Logger
}

// Style is the resolved color pair of a block.
type Style struct {
	Background string `json:"backgroundColor,omitempty"`
	Text       string `json:"textColor,omitempty"`
}

// Block is one rendered section. View holds the type-specific view model.
type Block struct {
	ID     string `json:"id"`
	Type   Type   `json:"type"`
	Anchor string `json:"anchor,omitempty"`
	Style  Style  `json:"style"`
	View   any    `json:"view"`
}

// Page is a landing page with its sections and theme decoded.
type Page struct {
	Slug       string
	Title      string
	MetaTitle  string
	CustomCSS  string
	Theme      Theme
	Sections   []Section
	ProductIDs []string
}

// NewPage decodes a stored page once.
func NewPage(p catalog.Page) *Page {
	return &Page{
		Slug:       p.Slug,
		Title:      p.Title,
		MetaTitle:  p.MetaTitle,
		CustomCSS:  p.CustomCSS,
		Theme:      ParseTheme(p.ThemeSettings),
		Sections:   ParseSections(p.Sections),
		ProductIDs: p.ProductIDs,
	}
}

// DecodePage is NewPage for raw sections and theme JSON.
func DecodePage(slug string, sections, theme json.RawMessage) *Page {
	return NewPage(catalog.Page{Slug: slug, Sections: sections, ThemeSettings: theme})
}

// PageView is the render tree of a page plus its shell fields.
type PageView struct {
	Slug         string   `json:"slug"`
	Title        string   `json:"title,omitempty"`
	MetaTitle    string   `json:"metaTitle,omitempty"`
	CustomCSS    string   `json:"customCss,omitempty"`
	Theme        Theme    `json:"theme"`
	Blocks       []*Block `json:"blocks"`
	EmptyMessage string   `json:"emptyMessage,omitempty"`
}

// RenderPage renders every section in order. A section whose renderer
// panics is logged and left out; the others still render.
func RenderPage(p *Page, rc RenderContext) PageView {
	if rc.Slug == "" {
		rc.Slug = p.Slug
	}
	view := PageView{
		Slug:      p.Slug,
		Title:     p.Title,
		MetaTitle: p.MetaTitle,
		CustomCSS: p.CustomCSS,
		Theme:     p.Theme,
		Blocks:    make([]*Block, 0, len(p.Sections)),
	}
	if len(p.Sections) == 0 {
		view.EmptyMessage = EmptyPageMessage
		return view
	}
	for _, s := range p.Sections {
		if b := renderIsolated(s, p.Theme, rc); b != nil {
			view.Blocks = append(view.Blocks, b)
		}
	}
	return view
}

func renderIsolated(s Section, theme Theme, rc RenderContext) (b *Block) {
	defer func() {
		if r := recover(); r != nil {
			rc.logger().Error("section render failed", "section_id", s.ID, "type", s.Type, "panic", r)
			b = nil
		}
	}()
	return Render(s, theme, rc)
}

// Render produces the block for one section, or nil when the section has
// nothing to show or an unknown type.
func Render(s Section, theme Theme, rc RenderContext) *Block {
	var (
		view   any
		style  Style
		anchor string
	)
	switch st := s.Settings.(type) {
	case *HeroProductSettings:
		view, style = renderHero(s.ID, st, theme, rc)
	case *FeatureBadgesSettings:
		view, style = renderFeatureBadges(st, theme)
	case *TextBlockSettings:
		view, style = renderText(st, theme)
	case *CheckoutFormSettings:
		view, style = renderCheckout(s.ID, st, theme, rc)
		anchor = strings.TrimPrefix(checkoutAnchor, "#")
	case *CTABannerSettings:
		view, style = renderCTABanner(st, theme)
	case *ImageGallerySettings:
		view, style = renderGallery(st, theme, rc)
	case *ImageTextSettings:
		view, style = renderImageText(st, theme, rc)
	case *SizeChartSettings:
		view, style = renderSizeChart(st, theme)
	case *TestimonialsSettings:
		view, style = renderTestimonials(s.ID, st, theme, rc)
	case *FAQSettings:
		view, style = renderFAQ(s.ID, st, rc)
	case *VideoSettings:
		view, style = renderVideo(st)
	case *CountdownSettings:
		view, style = renderCountdown(s.ID, st, theme, rc)
	case *DividerSettings:
		view = renderDivider(st, theme)
	case *SpacerSettings:
		view = SpacerView{Height: st.Height.Int(40)}
	case *HeroGradientSettings:
		view, style = renderHeroGradient(st, rc)
	case *ProblemSectionSettings:
		view, style = renderProblems(st, theme)
	case *BenefitsGridSettings:
		view, style = renderBenefits(st, theme)
	case *TrustBadgesSettings:
		view, style = renderTrustBadges(st, theme)
	case *GuaranteeSectionSettings:
		view, style = renderGuarantees(st, theme)
	case *FinalCTASettings:
		view, style = renderFinalCTA(st, theme)
	case *NoRiskOrderSettings:
		view, style = renderNoRisk(st, theme)
	case *FamilyCTASettings:
		view, style = renderFamilyCTA(st, theme)
	default:
		return nil
	}
	if view == nil {
		return nil
	}
	return &Block{ID: s.ID, Type: s.Type, Anchor: anchor, Style: style, View: view}
}
