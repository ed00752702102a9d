package landing

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/storefront/internal/checkout"
	"example.com/storefront/internal/logging"
)

func fixedNow() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }

func renderRaw(t *testing.T, sections string) PageView {
	t.Helper()
	page := DecodePage("offer", json.RawMessage(sections), nil)
	return RenderPage(page, RenderContext{Now: fixedNow, Logger: logging.Discard()})
}

func TestRenderPageEmpty(t *testing.T) {
	view := renderRaw(t, `[]`)
	assert.Empty(t, view.Blocks)
	assert.Equal(t, EmptyPageMessage, view.EmptyMessage)
	assert.Equal(t, DefaultTheme(), view.Theme)

	view = RenderPage(DecodePage("x", nil, nil), RenderContext{})
	assert.Equal(t, EmptyPageMessage, view.EmptyMessage)
}

func TestRenderPageSkipsUnknownTypes(t *testing.T) {
	view := renderRaw(t, `[
		{"id":"1","type":"text-block","order":0,"settings":{"content":"before"}},
		{"id":"2","type":"hologram","order":1,"settings":{}},
		{"id":"3","type":"spacer","order":2,"settings":{}}
	]`)
	require.Len(t, view.Blocks, 2)
	assert.Equal(t, "1", view.Blocks[0].ID)
	assert.Equal(t, "3", view.Blocks[1].ID)
	assert.Equal(t, SpacerView{Height: 40}, view.Blocks[1].View)
	assert.Empty(t, view.EmptyMessage)
}

type panickingState struct{}

func (panickingState) Checkout(string) *checkout.Engine { panic("engine exploded") }
func (panickingState) Countdown(string) *Countdown      { return nil }
func (panickingState) Carousel(string) *Carousel        { return nil }
func (panickingState) Accordion(string) *Accordion      { return nil }

func TestRenderPageIsolatesPanics(t *testing.T) {
	page := DecodePage("offer", json.RawMessage(`[
		{"id":"a","type":"text-block","order":0,"settings":{"content":"a"}},
		{"id":"co","type":"checkout-form","order":1,"settings":{"productIds":["p"]}},
		{"id":"b","type":"text-block","order":2,"settings":{"content":"b"}}
	]`), nil)
	view := RenderPage(page, RenderContext{State: panickingState{}, Logger: logging.Discard()})
	require.Len(t, view.Blocks, 2)
	assert.Equal(t, "a", view.Blocks[0].ID)
	assert.Equal(t, "b", view.Blocks[1].ID)
}

func TestRenderHero(t *testing.T) {
	view := renderRaw(t, `[{"id":"h","type":"hero-product","settings":{
		"title":"Slim Jeans","price":"৳1450","originalPrice":"1850",
		"images":["a.jpg","","b.jpg"],"bundlePrice":2600,
		"badges":[{"text":"ফ্রি ডেলিভারি","subtext":"সারা দেশে"},{"text":""}]
	}}]`)
	require.Len(t, view.Blocks, 1)
	hero := view.Blocks[0].View.(*HeroView)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, hero.Images)
	assert.Equal(t, 2, hero.Carousel.Count)
	assert.Equal(t, 22, hero.DiscountPercent)
	assert.Equal(t, "center", hero.Layout)
	assert.Len(t, hero.Badges, 1)
	require.NotNil(t, hero.Button)
	assert.Equal(t, "checkout", hero.Button.ScrollTo)
	require.NotNil(t, hero.Bundle)
	assert.Equal(t, BundleOffer{Qty: 2, Price: 2600, Regular: 2900, Savings: 300}, *hero.Bundle)
	assert.Equal(t, Style{Background: "#ffffff", Text: "#1f2937"}, view.Blocks[0].Style)
}

func TestRenderMarketingBlocks(t *testing.T) {
	view := renderRaw(t, `[
		{"id":"fb","type":"feature-badges","order":0,"settings":{"badges":[
			{"icon":"🧵","title":"✅ Premium cotton","description":"👉 Soft"},
			{"title":"✔️ Breathable"},
			{"title":"  "}
		]}},
		{"id":"tb","type":"trust-badges","order":1,"settings":{"badges":[{"title":"👉 ✅ Cash on delivery"}]}},
		{"id":"cta","type":"cta-banner","order":2,"settings":{"title":"Hurry","buttonText":"Buy","buttonLink":"https://shop.example.com"}},
		{"id":"empty","type":"benefits-grid","order":3,"settings":{"benefits":[]}},
		{"id":"hg","type":"hero-gradient","order":4,"settings":{"title":"Gold","buttonText":"Order"}}
	]`)
	require.Len(t, view.Blocks, 4)

	badges := view.Blocks[0].View.(*MarketingView)
	assert.Equal(t, 3, badges.Columns)
	require.Len(t, badges.Items, 2)
	assert.Equal(t, ItemView{Icon: "🧵", Title: "Premium cotton", Description: "Soft"}, badges.Items[0])
	assert.Equal(t, "Breathable", badges.Items[1].Title)

	trust := view.Blocks[1].View.(*MarketingView)
	assert.Equal(t, "👉 ✅ Cash on delivery", trust.Items[0].Title)

	cta := view.Blocks[2].View.(*MarketingView)
	assert.Equal(t, "https://shop.example.com", cta.Button.Link)
	assert.Empty(t, cta.Button.ScrollTo)
	assert.Equal(t, "#000000", view.Blocks[2].Style.Background)

	gradient := view.Blocks[3]
	assert.Equal(t, "hg", gradient.ID)
	assert.Equal(t, "linear-gradient(135deg, #b8860b 0%, #d4a017 100%)", gradient.Style.Background)
	assert.Equal(t, "#fff", gradient.Style.Text)
	assert.Equal(t, "checkout", gradient.View.(*MarketingView).Button.ScrollTo)
}

func TestRenderTextPreservesWhitespace(t *testing.T) {
	view := renderRaw(t, `[{"id":"t","type":"text-block","settings":{"content":"  line one\n    indented"}}]`)
	text := view.Blocks[0].View.(*TextView)
	assert.Equal(t, "  line one\n    indented", text.Content)
	assert.Equal(t, "left", text.Alignment)
	assert.Equal(t, "transparent", view.Blocks[0].Style.Background)
}

func TestRenderTestimonials(t *testing.T) {
	page := DecodePage("offer", json.RawMessage(`[
		{"id":"grid","type":"testimonials","order":0,"settings":{"items":[
			{"name":"Rina","content":"দারুণ কোয়ালিটি","rating":9},
			{"name":"Nobody","content":""}
		]}},
		{"id":"shots","type":"testimonials","order":1,"settings":{"images":["1.jpg","2.jpg","3.jpg","4.jpg","5.jpg"]}}
	]`), nil)

	narrow := RenderPage(page, RenderContext{Width: 375})
	grid := narrow.Blocks[0].View.(*TestimonialsView)
	require.Len(t, grid.Reviews, 1)
	assert.Equal(t, 5, grid.Reviews[0].Rating)
	assert.Equal(t, "#f5f5f5", narrow.Blocks[0].Style.Background)

	shots := narrow.Blocks[1].View.(*TestimonialsView)
	assert.Equal(t, "carousel", shots.Layout)
	require.NotNil(t, shots.Carousel)
	assert.Equal(t, 2, shots.Carousel.Visible)
	assert.Equal(t, 3, shots.Carousel.MaxIndex)

	wide := RenderPage(page, RenderContext{Width: 1440})
	assert.Equal(t, 1, wide.Blocks[1].View.(*TestimonialsView).Carousel.MaxIndex)
}

func TestRenderCountdownPastTarget(t *testing.T) {
	view := renderRaw(t, `[
		{"id":"c","type":"countdown","order":0,"settings":{"title":"Ends","endDate":"2020-01-01"}},
		{"id":"bad","type":"countdown","order":1,"settings":{"endDate":"soon"}}
	]`)
	require.Len(t, view.Blocks, 1)
	cd := view.Blocks[0].View.(*CountdownView)
	assert.Equal(t, "00:00:00:00", cd.Display)
	assert.True(t, cd.Expired)
}

func TestRenderCheckoutStateless(t *testing.T) {
	view := renderRaw(t, `[{"id":"co","type":"checkout-form","settings":{"productIds":["a","b"],"freeDelivery":true}}]`)
	block := view.Blocks[0]
	assert.Equal(t, "checkout", block.Anchor)
	form := block.View.(*CheckoutFormView)
	assert.Equal(t, []string{"a", "b"}, form.ProductIDs)
	assert.True(t, form.FreeDelivery)
	assert.Equal(t, "অর্ডার কনফার্ম করুন", form.ButtonText)
	assert.Nil(t, form.State)
}

func TestRenderFAQAndVideo(t *testing.T) {
	view := renderRaw(t, `[
		{"id":"f","type":"faq","order":0,"settings":{"faqs":[{"question":"Delivery?","answer":"2-3 days"},{"answer":"orphan"}]}},
		{"id":"v","type":"video","order":1,"settings":{"videoUrl":"https://www.youtube.com/watch?v=dQw4w9WgXcQ","controls":false}},
		{"id":"nv","type":"video","order":2,"settings":{}}
	]`)
	require.Len(t, view.Blocks, 2)
	faq := view.Blocks[0].View.(*FAQView)
	assert.Len(t, faq.Items, 1)
	assert.Equal(t, -1, faq.Open)

	video := view.Blocks[1].View.(*VideoView)
	assert.Equal(t, VideoIframe, video.Source.Kind)
	assert.Equal(t, "https://www.youtube.com/embed/dQw4w9WgXcQ", video.Source.URL)
	assert.False(t, video.Controls)
}

type prefixResolver struct{}

func (prefixResolver) Resolve(ref, aspect string) string { return "cdn/" + aspect + "/" + ref }

func TestRenderResolvesImages(t *testing.T) {
	page := DecodePage("offer", json.RawMessage(`[{"id":"g","type":"image-gallery","settings":{"images":["x"],"aspectRatio":"portrait"}}]`), nil)
	view := RenderPage(page, RenderContext{Images: prefixResolver{}})
	gallery := view.Blocks[0].View.(*GalleryView)
	assert.Equal(t, []string{"cdn/portrait/x"}, gallery.Images)
}
