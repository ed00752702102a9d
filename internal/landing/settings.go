package landing

import "example.com/storefront/internal/checkout"

// Default CTA target: every marketing button scrolls to the checkout form.
const checkoutAnchor = "#checkout"

// Badge is a hero badge such as "Free delivery / all over Bangladesh".
type Badge struct {
	Text    Text `json:"text"`
	Subtext Text `json:"subtext"`
}

// IconItem is an icon + title + description tile.
type IconItem struct {
	Icon        Text `json:"icon"`
	Title       Text `json:"title"`
	Description Text `json:"description"`
}

// IconText is an icon with a single line of text.
type IconText struct {
	Icon Text `json:"icon"`
	Text Text `json:"text"`
}

type Guarantee struct {
	Icon     Text `json:"icon"`
	Title    Text `json:"title"`
	Subtitle Text `json:"subtitle"`
}

type Review struct {
	Name    Text   `json:"name"`
	Role    Text   `json:"role"`
	Content Text   `json:"content"`
	Avatar  Text   `json:"avatar"`
	Rating  Number `json:"rating"`
}

type QA struct {
	Question Text `json:"question"`
	Answer   Text `json:"answer"`
}

// Colors are the per-section overrides most sections accept.
type Colors struct {
	BackgroundColor Text `json:"backgroundColor"`
	TextColor       Text `json:"textColor"`
}

func (c *Colors) defaults(bg, text string) {
	c.BackgroundColor = Text(c.BackgroundColor.Or(bg))
	c.TextColor = Text(c.TextColor.Or(text))
}

type HeroProductSettings struct {
	Colors
	Images        []string `json:"images"`
	Title         Text     `json:"title"`
	Subtitle      Text     `json:"subtitle"`
	Price         Text     `json:"price"`
	OriginalPrice Text     `json:"originalPrice"`
	ButtonText    Text     `json:"buttonText"`
	ButtonLink    Text     `json:"buttonLink"`
	Badges        []Badge  `json:"badges"`
	Layout        Text     `json:"layout"`
	BundlePrice   Number   `json:"bundlePrice"`
	BundleQty     Number   `json:"bundleQty"`
}

func (*HeroProductSettings) sectionType() Type { return TypeHeroProduct }

func (s *HeroProductSettings) applyDefaults() {
	s.ButtonText = Text(s.ButtonText.Or("অর্ডার করুন"))
	s.ButtonLink = Text(s.ButtonLink.Or(checkoutAnchor))
	if s.Layout.String() != "right-image" {
		s.Layout = "center"
	}
	if s.BundlePrice > 0 && s.BundleQty < 1 {
		s.BundleQty = 2
	}
}

type FeatureBadgesSettings struct {
	Colors
	Title   Text       `json:"title"`
	Badges  []IconItem `json:"badges"`
	Columns Number     `json:"columns"`
}

func (*FeatureBadgesSettings) sectionType() Type { return TypeFeatureBadges }
func (s *FeatureBadgesSettings) applyDefaults() { s.Columns = Number(s.Columns.Int(3)) }

type TextBlockSettings struct {
	Colors
	Content   Text `json:"content"`
	Alignment Text `json:"alignment"`
	FontSize  Text `json:"fontSize"`
	Padding   Text `json:"padding"`
}

func (*TextBlockSettings) sectionType() Type { return TypeTextBlock }

func (s *TextBlockSettings) applyDefaults() {
	s.BackgroundColor = Text(s.BackgroundColor.Or("transparent"))
	s.Alignment = Text(s.Alignment.Or("left"))
}

// CheckoutFormSettings configures the checkout section and its engine.
type CheckoutFormSettings struct {
	Colors
	Title               Text     `json:"title"`
	ButtonText          Text     `json:"buttonText"`
	AccentColor         Text     `json:"accentColor"`
	ProductIDs          []string `json:"productIds"`
	ProductID           Text     `json:"productId"`
	FreeDelivery        Flag     `json:"freeDelivery"`
	FreeDeliveryMessage Text     `json:"freeDeliveryMessage"`
	CartMode            Flag     `json:"cartMode"`
	BundlePrice         Number   `json:"bundlePrice"`
	BundleQty           Number   `json:"bundleQty"`
}

func (*CheckoutFormSettings) sectionType() Type { return TypeCheckoutForm }

func (s *CheckoutFormSettings) applyDefaults() {
	s.ButtonText = Text(s.ButtonText.Or("অর্ডার কনফার্ম করুন"))
	if s.BundlePrice > 0 && s.BundleQty < 1 {
		s.BundleQty = 2
	}
}

// IDs returns productIds when non-empty, else the single productId.
func (s *CheckoutFormSettings) IDs() []string {
	var ids []string
	for _, id := range s.ProductIDs {
		if id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) > 0 {
		return ids
	}
	if id := s.ProductID.String(); id != "" {
		return []string{id}
	}
	return nil
}

// EngineOptions converts the section settings into checkout engine options.
func (s *CheckoutFormSettings) EngineOptions(slug string) checkout.Options {
	return checkout.Options{
		CartMode:     bool(s.CartMode),
		FreeDelivery: bool(s.FreeDelivery),
		BundlePrice:  float64(s.BundlePrice),
		BundleQty:    s.BundleQty.Int(0),
		Slug:         slug,
	}
}

type CTABannerSettings struct {
	Colors
	Title      Text `json:"title"`
	Subtitle   Text `json:"subtitle"`
	ButtonText Text `json:"buttonText"`
	ButtonLink Text `json:"buttonLink"`
}

func (*CTABannerSettings) sectionType() Type { return TypeCTABanner }
func (s *CTABannerSettings) applyDefaults() { s.ButtonLink = Text(s.ButtonLink.Or(checkoutAnchor)) }

// ImageGallerySettings serves both image-gallery and customer-screenshots.
type ImageGallerySettings struct {
	Colors
	Title       Text     `json:"title"`
	Images      []string `json:"images"`
	Columns     Number   `json:"columns"`
	Gap         Number   `json:"gap"`
	AspectRatio Text     `json:"aspectRatio"`
	typ         Type
}

func (s *ImageGallerySettings) sectionType() Type { return s.typ }

func (s *ImageGallerySettings) applyDefaults() {
	cols := 3
	if s.typ == TypeCustomerScreenshots {
		cols = 2
	}
	s.Columns = Number(s.Columns.Int(cols))
	s.Gap = Number(s.Gap.Int(16))
	switch s.AspectRatio.String() {
	case "square", "portrait", "landscape", "auto":
	default:
		if s.typ == TypeCustomerScreenshots {
			s.AspectRatio = "auto"
		} else {
			s.AspectRatio = "square"
		}
	}
}

type ImageTextSettings struct {
	Colors
	Image         Text `json:"image"`
	Title         Text `json:"title"`
	Description   Text `json:"description"`
	ButtonText    Text `json:"buttonText"`
	ButtonLink    Text `json:"buttonLink"`
	ImagePosition Text `json:"imagePosition"`
}

func (*ImageTextSettings) sectionType() Type { return TypeImageText }

func (s *ImageTextSettings) applyDefaults() {
	if s.ImagePosition.String() != "right" {
		s.ImagePosition = "left"
	}
	s.ButtonLink = Text(s.ButtonLink.Or(checkoutAnchor))
}

type SizeChartSettings struct {
	Colors
	Title   Text     `json:"title"`
	Columns []Text   `json:"columns"`
	Rows    [][]Text `json:"rows"`
	Note    Text     `json:"note"`
}

func (*SizeChartSettings) sectionType() Type { return TypeSizeChart }

func (s *SizeChartSettings) applyDefaults() {
	if len(s.Columns) == 0 && len(s.Rows) > 0 {
		s.Columns = []Text{"Size", "Chest", "Length"}
	}
}

// TestimonialsSettings renders quote cards, or a screenshot carousel when
// Images is set.
type TestimonialsSettings struct {
	Colors
	Title   Text     `json:"title"`
	Items   []Review `json:"items"`
	Images  []string `json:"images"`
	Layout  Text     `json:"layout"`
	Columns Number   `json:"columns"`
}

func (*TestimonialsSettings) sectionType() Type { return TypeTestimonials }

func (s *TestimonialsSettings) applyDefaults() {
	s.Layout = Text(s.Layout.Or("grid"))
	s.Columns = Number(s.Columns.Int(3))
}

// FAQSettings serves faq and faq-accordion; items may arrive as faqs or items.
type FAQSettings struct {
	Colors
	Title Text `json:"title"`
	FAQs  []QA `json:"faqs"`
	Items []QA `json:"items"`
	typ   Type
}

func (s *FAQSettings) sectionType() Type { return s.typ }

func (s *FAQSettings) applyDefaults() {
	if len(s.FAQs) == 0 {
		s.FAQs = s.Items
	}
	s.Items = nil
	s.defaults("#ffffff", "#1f2937")
}

// VideoSettings serves video and youtube-video.
type VideoSettings struct {
	Colors
	VideoURL   Text  `json:"videoUrl"`
	YouTubeURL Text  `json:"youtubeUrl"`
	Title      Text  `json:"title"`
	Autoplay   Flag  `json:"autoplay"`
	Controls   *Flag `json:"controls"`
	Loop       Flag  `json:"loop"`
	typ        Type
}

func (s *VideoSettings) sectionType() Type { return s.typ }

func (s *VideoSettings) applyDefaults() {
	if s.VideoURL.String() == "" {
		s.VideoURL = s.YouTubeURL
	}
	if s.Controls == nil {
		on := Flag(true)
		s.Controls = &on
	}
	s.BackgroundColor = Text(s.BackgroundColor.Or("transparent"))
}

type CountdownSettings struct {
	Colors
	Title   Text `json:"title"`
	EndDate Text `json:"endDate"`
}

func (*CountdownSettings) sectionType() Type { return TypeCountdown }
func (*CountdownSettings) applyDefaults() {}

type DividerSettings struct {
	Style     Text   `json:"style"`
	Color     Text   `json:"color"`
	Thickness Number `json:"thickness"`
	Width     Text   `json:"width"`
}

func (*DividerSettings) sectionType() Type { return TypeDivider }

func (s *DividerSettings) applyDefaults() {
	s.Style = Text(s.Style.Or("solid"))
	s.Thickness = Number(s.Thickness.Int(1))
	s.Width = Text(s.Width.Or("100%"))
}

type SpacerSettings struct {
	Height Number `json:"height"`
}

func (*SpacerSettings) sectionType() Type { return TypeSpacer }
func (s *SpacerSettings) applyDefaults() { s.Height = Number(s.Height.Int(40)) }

type HeroGradientSettings struct {
	Badge        Text       `json:"badge"`
	Title        Text       `json:"title"`
	Subtitle     Text       `json:"subtitle"`
	Description  Text       `json:"description"`
	Features     []IconText `json:"features"`
	ButtonText   Text       `json:"buttonText"`
	ButtonLink   Text       `json:"buttonLink"`
	HeroImage    Text       `json:"heroImage"`
	GradientFrom Text       `json:"gradientFrom"`
	GradientTo   Text       `json:"gradientTo"`
	TextColor    Text       `json:"textColor"`
}

func (*HeroGradientSettings) sectionType() Type { return TypeHeroGradient }

func (s *HeroGradientSettings) applyDefaults() {
	s.GradientFrom = Text(s.GradientFrom.Or("#b8860b"))
	s.GradientTo = Text(s.GradientTo.Or("#d4a017"))
	s.TextColor = Text(s.TextColor.Or("#fff"))
	s.ButtonLink = Text(s.ButtonLink.Or(checkoutAnchor))
}

type ProblemSectionSettings struct {
	Colors
	Title    Text       `json:"title"`
	Problems []IconText `json:"problems"`
	CTA      Text       `json:"cta"`
}

func (*ProblemSectionSettings) sectionType() Type { return TypeProblemSection }
func (*ProblemSectionSettings) applyDefaults() {}

type BenefitsGridSettings struct {
	Colors
	Title    Text       `json:"title"`
	Benefits []IconItem `json:"benefits"`
	Columns  Number     `json:"columns"`
}

func (*BenefitsGridSettings) sectionType() Type { return TypeBenefitsGrid }

func (s *BenefitsGridSettings) applyDefaults() {
	s.Columns = Number(s.Columns.Int(2))
	s.BackgroundColor = Text(s.BackgroundColor.Or("#fef3c7"))
}

type TrustBadgesSettings struct {
	Colors
	Title  Text       `json:"title"`
	Badges []IconItem `json:"badges"`
}

func (*TrustBadgesSettings) sectionType() Type { return TypeTrustBadges }
func (*TrustBadgesSettings) applyDefaults() {}

type GuaranteeSectionSettings struct {
	Colors
	Title      Text        `json:"title"`
	Guarantees []Guarantee `json:"guarantees"`
	CTAText    Text        `json:"ctaText"`
}

func (*GuaranteeSectionSettings) sectionType() Type { return TypeGuaranteeSection }

func (s *GuaranteeSectionSettings) applyDefaults() {
	s.BackgroundColor = Text(s.BackgroundColor.Or("#f3f4f6"))
}

type FinalCTASettings struct {
	Colors
	Icon         Text   `json:"icon"`
	Title        Text   `json:"title"`
	Subtitle     Text   `json:"subtitle"`
	BulletPoints []Text `json:"bulletPoints"`
	ButtonText   Text   `json:"buttonText"`
	FooterText   Text   `json:"footerText"`
}

func (*FinalCTASettings) sectionType() Type { return TypeFinalCTA }

func (s *FinalCTASettings) applyDefaults() {
	s.BackgroundColor = Text(s.BackgroundColor.Or("#fef3c7"))
}

type NoRiskOrderSettings struct {
	Colors
	Title        Text       `json:"title"`
	Badges       []IconItem `json:"badges"`
	TrustMessage Text       `json:"trustMessage"`
}

func (*NoRiskOrderSettings) sectionType() Type { return TypeNoRiskOrder }

func (s *NoRiskOrderSettings) applyDefaults() {
	s.BackgroundColor = Text(s.BackgroundColor.Or("#f5f5f5"))
}

type FamilyCTASettings struct {
	Colors
	Icon         Text       `json:"icon"`
	Title        Text       `json:"title"`
	Subtitle     Text       `json:"subtitle"`
	Points       []IconText `json:"points"`
	ButtonText   Text       `json:"buttonText"`
	PhoneNumbers []Text     `json:"phoneNumbers"`
}

func (*FamilyCTASettings) sectionType() Type { return TypeFamilyCTA }

func (s *FamilyCTASettings) applyDefaults() {
	s.Icon = Text(s.Icon.Or("🕌"))
	s.BackgroundColor = Text(s.BackgroundColor.Or("#fef3c7"))
}
