package landing

import (
	"fmt"
	"strings"

	"example.com/storefront/internal/checkout"
	"example.com/storefront/internal/media"
)

// Button is a call to action. ScrollTo is set for in-page anchors.
type Button struct {
	Text     string `json:"text"`
	Link     string `json:"link"`
	ScrollTo string `json:"scrollTo,omitempty"`
}

func newButton(text, link string) *Button {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	link = strings.TrimSpace(link)
	if link == "" {
		link = checkoutAnchor
	}
	b := &Button{Text: text, Link: link}
	if strings.HasPrefix(link, "#") {
		b.ScrollTo = strings.TrimPrefix(link, "#")
	}
	return b
}

func (c Colors) style(bg, text string) Style {
	return Style{Background: c.BackgroundColor.Or(bg), Text: c.TextColor.Or(text)}
}

func (rc RenderContext) carousel(id string) *Carousel {
	if rc.State == nil {
		return nil
	}
	return rc.State.Carousel(id)
}

type BadgeView struct {
	Text    string `json:"text"`
	Subtext string `json:"subtext,omitempty"`
}

// BundleOffer is the "N pieces for X" callout.
type BundleOffer struct {
	Qty     int     `json:"qty"`
	Price   float64 `json:"price"`
	Regular float64 `json:"regular,omitempty"`
	Savings float64 `json:"savings,omitempty"`
}

type HeroView struct {
	Images          []string      `json:"images"`
	Carousel        CarouselState `json:"carousel"`
	Title           string        `json:"title,omitempty"`
	Subtitle        string        `json:"subtitle,omitempty"`
	Price           string        `json:"price,omitempty"`
	OriginalPrice   string        `json:"originalPrice,omitempty"`
	DiscountPercent int           `json:"discountPercent,omitempty"`
	Badges          []BadgeView   `json:"badges,omitempty"`
	Button          *Button       `json:"button,omitempty"`
	Layout          string        `json:"layout"`
	Bundle          *BundleOffer  `json:"bundle,omitempty"`
}

func renderHero(id string, s *HeroProductSettings, theme Theme, rc RenderContext) (any, Style) {
	images := rc.images(s.Images, media.AspectSquare)
	if s.Title.String() == "" && len(images) == 0 {
		return nil, Style{}
	}
	v := &HeroView{
		Images:        images,
		Title:         s.Title.String(),
		Subtitle:      s.Subtitle.String(),
		Price:         s.Price.String(),
		OriginalPrice: s.OriginalPrice.String(),
		Button:        newButton(s.ButtonText.String(), s.ButtonLink.String()),
		Layout:        s.Layout.String(),
	}
	if c := rc.carousel(id); c != nil {
		v.Carousel = c.State()
	} else {
		v.Carousel = NewWrapCarousel(len(images)).State()
	}
	price, hasPrice := ParseAmount(v.Price)
	if original, ok := ParseAmount(v.OriginalPrice); ok && hasPrice {
		v.DiscountPercent = checkout.DiscountPercent(price, original)
	}
	for _, b := range s.Badges {
		if t := b.Text.String(); t != "" {
			v.Badges = append(v.Badges, BadgeView{Text: t, Subtext: b.Subtext.String()})
		}
	}
	if s.BundlePrice > 0 {
		offer := &BundleOffer{Qty: s.BundleQty.Int(2), Price: float64(s.BundlePrice)}
		if hasPrice {
			offer.Regular = price * float64(offer.Qty)
			offer.Savings = max(0, offer.Regular-offer.Price)
		}
		v.Bundle = offer
	}
	return v, s.style(theme.BackgroundColor, theme.TextColor)
}

type ItemView struct {
	Icon        string `json:"icon,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

type Gradient struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// MarketingView is the shared shape of the fixed marketing blocks.
type MarketingView struct {
	Icon         string     `json:"icon,omitempty"`
	Badge        string     `json:"badge,omitempty"`
	Title        string     `json:"title,omitempty"`
	Subtitle     string     `json:"subtitle,omitempty"`
	Description  string     `json:"description,omitempty"`
	Image        string     `json:"image,omitempty"`
	Items        []ItemView `json:"items,omitempty"`
	Bullets      []string   `json:"bullets,omitempty"`
	Columns      int        `json:"columns,omitempty"`
	Button       *Button    `json:"button,omitempty"`
	Footer       string     `json:"footer,omitempty"`
	PhoneNumbers []string   `json:"phoneNumbers,omitempty"`
	Gradient     *Gradient  `json:"gradient,omitempty"`
}

func iconItems(in []IconItem, clean func(string) string) []ItemView {
	var out []ItemView
	for _, it := range in {
		item := ItemView{
			Icon:        it.Icon.String(),
			Title:       clean(it.Title.String()),
			Description: clean(it.Description.String()),
		}
		if item.Title != "" || item.Description != "" {
			out = append(out, item)
		}
	}
	return out
}

func iconTexts(in []IconText) []ItemView {
	var out []ItemView
	for _, it := range in {
		if t := it.Text.String(); t != "" {
			out = append(out, ItemView{Icon: it.Icon.String(), Title: t})
		}
	}
	return out
}

func identity(s string) string { return s }

func renderFeatureBadges(s *FeatureBadgesSettings, theme Theme) (any, Style) {
	items := iconItems(s.Badges, CleanBadgeText)
	if len(items) == 0 {
		return nil, Style{}
	}
	return &MarketingView{Title: s.Title.String(), Items: items, Columns: s.Columns.Int(3)},
		s.style(theme.BackgroundColor, theme.TextColor)
}

func renderCTABanner(s *CTABannerSettings, theme Theme) (any, Style) {
	v := &MarketingView{
		Title:    s.Title.String(),
		Subtitle: s.Subtitle.String(),
		Button:   newButton(s.ButtonText.String(), s.ButtonLink.String()),
	}
	if v.Title == "" && v.Button == nil {
		return nil, Style{}
	}
	return v, s.style(theme.PrimaryColor, "#ffffff")
}

func renderHeroGradient(s *HeroGradientSettings, rc RenderContext) (any, Style) {
	v := &MarketingView{
		Badge:       s.Badge.String(),
		Title:       s.Title.String(),
		Subtitle:    s.Subtitle.String(),
		Description: s.Description.String(),
		Items:       iconTexts(s.Features),
		Button:      newButton(s.ButtonText.String(), s.ButtonLink.String()),
		Gradient:    &Gradient{From: s.GradientFrom.String(), To: s.GradientTo.String()},
	}
	if img := s.HeroImage.String(); img != "" {
		v.Image = rc.image(img, media.AspectAuto)
	}
	if v.Title == "" && v.Image == "" {
		return nil, Style{}
	}
	bg := fmt.Sprintf("linear-gradient(135deg, %s 0%%, %s 100%%)", v.Gradient.From, v.Gradient.To)
	return v, Style{Background: bg, Text: s.TextColor.String()}
}

func renderProblems(s *ProblemSectionSettings, theme Theme) (any, Style) {
	v := &MarketingView{
		Title:  s.Title.String(),
		Items:  iconTexts(s.Problems),
		Button: newButton(s.CTA.String(), checkoutAnchor),
	}
	if v.Title == "" && len(v.Items) == 0 {
		return nil, Style{}
	}
	return v, s.style(theme.BackgroundColor, theme.TextColor)
}

func renderBenefits(s *BenefitsGridSettings, theme Theme) (any, Style) {
	items := iconItems(s.Benefits, identity)
	if len(items) == 0 {
		return nil, Style{}
	}
	return &MarketingView{Title: s.Title.String(), Items: items, Columns: s.Columns.Int(2)},
		s.style(theme.BackgroundColor, theme.TextColor)
}

func renderTrustBadges(s *TrustBadgesSettings, theme Theme) (any, Style) {
	items := iconItems(s.Badges, CleanTrustText)
	if len(items) == 0 {
		return nil, Style{}
	}
	return &MarketingView{Title: s.Title.String(), Items: items},
		s.style(theme.BackgroundColor, theme.TextColor)
}

func renderGuarantees(s *GuaranteeSectionSettings, theme Theme) (any, Style) {
	var items []ItemView
	for _, g := range s.Guarantees {
		if t := g.Title.String(); t != "" {
			items = append(items, ItemView{Icon: g.Icon.String(), Title: t, Description: g.Subtitle.String()})
		}
	}
	if len(items) == 0 {
		return nil, Style{}
	}
	return &MarketingView{Title: s.Title.String(), Items: items, Button: newButton(s.CTAText.String(), checkoutAnchor)},
		s.style(theme.BackgroundColor, theme.TextColor)
}

func renderFinalCTA(s *FinalCTASettings, theme Theme) (any, Style) {
	v := &MarketingView{
		Icon:     s.Icon.String(),
		Title:    s.Title.String(),
		Subtitle: s.Subtitle.String(),
		Bullets:  texts(s.BulletPoints),
		Button:   newButton(s.ButtonText.String(), checkoutAnchor),
		Footer:   s.FooterText.String(),
	}
	if v.Title == "" && v.Button == nil {
		return nil, Style{}
	}
	return v, s.style(theme.BackgroundColor, theme.TextColor)
}

func renderNoRisk(s *NoRiskOrderSettings, theme Theme) (any, Style) {
	v := &MarketingView{
		Title:  s.Title.String(),
		Items:  iconItems(s.Badges, identity),
		Footer: s.TrustMessage.String(),
	}
	if v.Title == "" && len(v.Items) == 0 {
		return nil, Style{}
	}
	return v, s.style(theme.BackgroundColor, theme.TextColor)
}

func renderFamilyCTA(s *FamilyCTASettings, theme Theme) (any, Style) {
	v := &MarketingView{
		Icon:         s.Icon.String(),
		Title:        s.Title.String(),
		Subtitle:     s.Subtitle.String(),
		Items:        iconTexts(s.Points),
		Button:       newButton(s.ButtonText.String(), checkoutAnchor),
		PhoneNumbers: texts(s.PhoneNumbers),
	}
	if v.Title == "" {
		return nil, Style{}
	}
	return v, s.style(theme.BackgroundColor, theme.TextColor)
}

type TextView struct {
	Content   string `json:"content"`
	Alignment string `json:"alignment"`
	FontSize  string `json:"fontSize,omitempty"`
	Padding   string `json:"padding,omitempty"`
}

func renderText(s *TextBlockSettings, theme Theme) (any, Style) {
	// whitespace inside the content is significant
	content := string(s.Content)
	if strings.TrimSpace(content) == "" {
		return nil, Style{}
	}
	return &TextView{
		Content:   content,
		Alignment: s.Alignment.String(),
		FontSize:  s.FontSize.String(),
		Padding:   s.Padding.String(),
	}, s.style("transparent", theme.TextColor)
}

type GalleryView struct {
	Title       string   `json:"title,omitempty"`
	Images      []string `json:"images"`
	Columns     int      `json:"columns"`
	Gap         int      `json:"gap"`
	AspectRatio string   `json:"aspectRatio"`
}

func renderGallery(s *ImageGallerySettings, theme Theme, rc RenderContext) (any, Style) {
	aspect := s.AspectRatio.String()
	images := rc.images(s.Images, aspect)
	if len(images) == 0 {
		return nil, Style{}
	}
	return &GalleryView{
		Title:       s.Title.String(),
		Images:      images,
		Columns:     s.Columns.Int(3),
		Gap:         s.Gap.Int(16),
		AspectRatio: aspect,
	}, s.style(theme.BackgroundColor, theme.TextColor)
}

type ImageTextView struct {
	Image         string  `json:"image,omitempty"`
	Title         string  `json:"title,omitempty"`
	Description   string  `json:"description,omitempty"`
	ImagePosition string  `json:"imagePosition"`
	Button        *Button `json:"button,omitempty"`
}

func renderImageText(s *ImageTextSettings, theme Theme, rc RenderContext) (any, Style) {
	v := &ImageTextView{
		Title:         s.Title.String(),
		Description:   s.Description.String(),
		ImagePosition: s.ImagePosition.String(),
		Button:        newButton(s.ButtonText.String(), s.ButtonLink.String()),
	}
	if img := s.Image.String(); img != "" {
		v.Image = rc.image(img, media.AspectAuto)
	}
	if v.Image == "" && v.Title == "" && v.Description == "" {
		return nil, Style{}
	}
	return v, s.style(theme.BackgroundColor, theme.TextColor)
}

type SizeChartView struct {
	Title   string     `json:"title,omitempty"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Note    string     `json:"note,omitempty"`
}

func renderSizeChart(s *SizeChartSettings, theme Theme) (any, Style) {
	if len(s.Rows) == 0 {
		return nil, Style{}
	}
	v := &SizeChartView{Title: s.Title.String(), Note: s.Note.String()}
	for _, c := range s.Columns {
		v.Columns = append(v.Columns, c.String())
	}
	for _, row := range s.Rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = c.String()
		}
		v.Rows = append(v.Rows, cells)
	}
	return v, s.style(theme.BackgroundColor, theme.TextColor)
}

type ReviewView struct {
	Name    string `json:"name"`
	Role    string `json:"role,omitempty"`
	Content string `json:"content"`
	Avatar  string `json:"avatar,omitempty"`
	Rating  int    `json:"rating"`
}

type TestimonialsView struct {
	Title       string         `json:"title,omitempty"`
	Layout      string         `json:"layout"`
	Columns     int            `json:"columns"`
	Reviews     []ReviewView   `json:"reviews,omitempty"`
	Screenshots []string       `json:"screenshots,omitempty"`
	Carousel    *CarouselState `json:"carousel,omitempty"`
}

func renderTestimonials(id string, s *TestimonialsSettings, theme Theme, rc RenderContext) (any, Style) {
	style := s.style(theme.SecondaryColor, theme.TextColor)
	if shots := rc.images(s.Images, media.AspectAuto); len(shots) > 0 {
		var state CarouselState
		if c := rc.carousel(id); c != nil {
			state = c.State()
		} else {
			state = NewPagedCarousel(len(shots), VisibleCount(rc.Width)).State()
		}
		return &TestimonialsView{
			Title:       s.Title.String(),
			Layout:      "carousel",
			Columns:     state.Visible,
			Screenshots: shots,
			Carousel:    &state,
		}, style
	}
	var reviews []ReviewView
	for _, r := range s.Items {
		content := r.Content.String()
		if content == "" {
			continue
		}
		rv := ReviewView{
			Name:    r.Name.String(),
			Role:    r.Role.String(),
			Content: content,
			Rating:  min(5, r.Rating.Int(5)),
		}
		if a := r.Avatar.String(); a != "" {
			rv.Avatar = rc.image(a, media.AspectSquare)
		}
		reviews = append(reviews, rv)
	}
	if len(reviews) == 0 {
		return nil, Style{}
	}
	return &TestimonialsView{
		Title:   s.Title.String(),
		Layout:  s.Layout.String(),
		Columns: s.Columns.Int(3),
		Reviews: reviews,
	}, style
}

type QAView struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type FAQView struct {
	Title string   `json:"title,omitempty"`
	Items []QAView `json:"items"`
	// Open is the expanded item, -1 when all are collapsed.
	Open int `json:"open"`
}

func renderFAQ(id string, s *FAQSettings, rc RenderContext) (any, Style) {
	var items []QAView
	for _, qa := range s.FAQs {
		if q := qa.Question.String(); q != "" {
			items = append(items, QAView{Question: q, Answer: qa.Answer.String()})
		}
	}
	if len(items) == 0 {
		return nil, Style{}
	}
	v := &FAQView{Title: s.Title.String(), Items: items, Open: -1}
	if rc.State != nil {
		if a := rc.State.Accordion(id); a != nil {
			v.Open = a.Open()
		}
	}
	return v, s.style("#ffffff", "#1f2937")
}

type VideoView struct {
	Title    string      `json:"title,omitempty"`
	Source   VideoSource `json:"source"`
	Autoplay bool        `json:"autoplay"`
	Controls bool        `json:"controls"`
	Loop     bool        `json:"loop"`
}

func renderVideo(s *VideoSettings) (any, Style) {
	src, ok := ClassifyVideo(s.VideoURL.String())
	if !ok {
		return nil, Style{}
	}
	controls := s.Controls == nil || bool(*s.Controls)
	return &VideoView{
		Title:    s.Title.String(),
		Source:   src,
		Autoplay: bool(s.Autoplay),
		Controls: controls,
		Loop:     bool(s.Loop),
	}, Style{Background: s.BackgroundColor.Or("transparent"), Text: s.TextColor.String()}
}

type CountdownView struct {
	Title     string    `json:"title,omitempty"`
	EndDate   string    `json:"endDate"`
	Remaining Remaining `json:"remaining"`
	Display   string    `json:"display"`
	Expired   bool      `json:"expired"`
}

func renderCountdown(id string, s *CountdownSettings, theme Theme, rc RenderContext) (any, Style) {
	target, ok := ParseEndDate(s.EndDate.String())
	if !ok {
		return nil, Style{}
	}
	var r Remaining
	if c := rc.countdown(id); c != nil {
		r = c.Current()
	} else {
		r = RemainingUntil(target, rc.now())
	}
	return &CountdownView{
		Title:     s.Title.String(),
		EndDate:   s.EndDate.String(),
		Remaining: r,
		Display:   r.String(),
		Expired:   r.Zero(),
	}, s.style(theme.PrimaryColor, "#ffffff")
}

func (rc RenderContext) countdown(id string) *Countdown {
	if rc.State == nil {
		return nil
	}
	return rc.State.Countdown(id)
}

type DividerView struct {
	Style     string `json:"style"`
	Color     string `json:"color"`
	Thickness int    `json:"thickness"`
	Width     string `json:"width"`
}

type SpacerView struct {
	Height int `json:"height"`
}

func renderDivider(s *DividerSettings, theme Theme) any {
	return DividerView{
		Style:     s.Style.Or("solid"),
		Color:     s.Color.Or(theme.SecondaryColor),
		Thickness: s.Thickness.Int(1),
		Width:     s.Width.Or("100%"),
	}
}

// CheckoutFormView is the checkout section. State is nil for a stateless
// render.
type CheckoutFormView struct {
	Title               string         `json:"title,omitempty"`
	ButtonText          string         `json:"buttonText"`
	AccentColor         string         `json:"accentColor"`
	ProductIDs          []string       `json:"productIds"`
	CartMode            bool           `json:"cartMode"`
	FreeDelivery        bool           `json:"freeDelivery"`
	FreeDeliveryMessage string         `json:"freeDeliveryMessage,omitempty"`
	State               *checkout.View `json:"state,omitempty"`
}

func renderCheckout(id string, s *CheckoutFormSettings, theme Theme, rc RenderContext) (any, Style) {
	v := &CheckoutFormView{
		Title:               s.Title.String(),
		ButtonText:          s.ButtonText.String(),
		AccentColor:         s.AccentColor.Or(theme.PrimaryColor),
		ProductIDs:          s.IDs(),
		CartMode:            bool(s.CartMode),
		FreeDelivery:        bool(s.FreeDelivery),
		FreeDeliveryMessage: s.FreeDeliveryMessage.String(),
	}
	if v.ProductIDs == nil {
		v.ProductIDs = []string{}
	}
	if rc.State != nil {
		if e := rc.State.Checkout(id); e != nil {
			state := e.View()
			v.State = &state
		}
	}
	return v, s.style(theme.BackgroundColor, theme.TextColor)
}
