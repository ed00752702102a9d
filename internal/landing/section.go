package landing

import (
	"encoding/json"
	"sort"
)

// Type tags a section's rendering variant.
type Type string

const (
	TypeHeroProduct         Type = "hero-product"
	TypeFeatureBadges       Type = "feature-badges"
	TypeTextBlock           Type = "text-block"
	TypeCheckoutForm        Type = "checkout-form"
	TypeCTABanner           Type = "cta-banner"
	TypeImageGallery        Type = "image-gallery"
	TypeCustomerScreenshots Type = "customer-screenshots"
	TypeImageText           Type = "image-text"
	TypeSizeChart           Type = "size-chart"
	TypeTestimonials        Type = "testimonials"
	TypeFAQ                 Type = "faq"
	TypeFAQAccordion        Type = "faq-accordion"
	TypeVideo               Type = "video"
	TypeYouTubeVideo        Type = "youtube-video"
	TypeCountdown           Type = "countdown"
	TypeDivider             Type = "divider"
	TypeSpacer              Type = "spacer"
	TypeHeroGradient        Type = "hero-gradient"
	TypeProblemSection      Type = "problem-section"
	TypeBenefitsGrid        Type = "benefits-grid"
	TypeTrustBadges         Type = "trust-badges"
	TypeGuaranteeSection    Type = "guarantee-section"
	TypeFinalCTA            Type = "final-cta"
	TypeNoRiskOrder         Type = "no-risk-order"
	TypeFamilyCTA           Type = "family-cta"
)

// Section is one persisted block of a landing page with its settings
// already decoded into the variant struct for its type.
type Section struct {
	ID       string
	Type     Type
	Order    int
	Settings Settings
}

// Settings is implemented by exactly one struct per section type.
type Settings interface {
	sectionType() Type
}

// Unknown holds sections whose type this renderer does not know.
// They render nothing.
type Unknown struct {
	Raw json.RawMessage
	typ Type
}

func (u Unknown) sectionType() Type { return u.typ }

type envelope struct {
	ID       Text            `json:"id"`
	Type     Text            `json:"type"`
	Order    Number          `json:"order"`
	Settings json.RawMessage `json:"settings"`
}

// ParseSections decodes the stored section list. Entries that are not
// objects are dropped, unknown types become Unknown, and the result is
// sorted by order with the stored position breaking ties.
func ParseSections(raw json.RawMessage) []Section {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	sections := make([]Section, 0, len(items))
	for _, item := range items {
		var env envelope
		if err := json.Unmarshal(item, &env); err != nil {
			continue
		}
		typ := Type(env.Type.String())
		sections = append(sections, Section{
			ID:       env.ID.String(),
			Type:     typ,
			Order:    int(env.Order),
			Settings: decodeSettings(typ, env.Settings),
		})
	}
	sort.SliceStable(sections, func(i, j int) bool { return sections[i].Order < sections[j].Order })
	return sections
}

func decodeSettings(typ Type, raw json.RawMessage) Settings {
	var s interface {
		Settings
		applyDefaults()
	}
	switch typ {
	case TypeHeroProduct:
		s = &HeroProductSettings{}
	case TypeFeatureBadges:
		s = &FeatureBadgesSettings{}
	case TypeTextBlock:
		s = &TextBlockSettings{}
	case TypeCheckoutForm:
		s = &CheckoutFormSettings{}
	case TypeCTABanner:
		s = &CTABannerSettings{}
	case TypeImageGallery, TypeCustomerScreenshots:
		s = &ImageGallerySettings{typ: typ}
	case TypeImageText:
		s = &ImageTextSettings{}
	case TypeSizeChart:
		s = &SizeChartSettings{}
	case TypeTestimonials:
		s = &TestimonialsSettings{}
	case TypeFAQ, TypeFAQAccordion:
		s = &FAQSettings{typ: typ}
	case TypeVideo, TypeYouTubeVideo:
		s = &VideoSettings{typ: typ}
	case TypeCountdown:
		s = &CountdownSettings{}
	case TypeDivider:
		s = &DividerSettings{}
	case TypeSpacer:
		s = &SpacerSettings{}
	case TypeHeroGradient:
		s = &HeroGradientSettings{}
	case TypeProblemSection:
		s = &ProblemSectionSettings{}
	case TypeBenefitsGrid:
		s = &BenefitsGridSettings{}
	case TypeTrustBadges:
		s = &TrustBadgesSettings{}
	case TypeGuaranteeSection:
		s = &GuaranteeSectionSettings{}
	case TypeFinalCTA:
		s = &FinalCTASettings{}
	case TypeNoRiskOrder:
		s = &NoRiskOrderSettings{}
	case TypeFamilyCTA:
		s = &FamilyCTASettings{}
	default:
		return Unknown{Raw: raw, typ: typ}
	}
	if len(raw) > 0 {
		// Type mismatches leave the offending field zero; the rest still decodes.
		_ = json.Unmarshal(raw, s)
	}
	s.applyDefaults()
	return s
}
