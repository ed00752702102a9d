package landing

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSectionsOrdersAndSkips(t *testing.T) {
	raw := json.RawMessage(`[
		{"id":"b","type":"text-block","order":2,"settings":{"content":"two"}},
		{"id":"a","type":"hero-product","order":1,"settings":{"title":"Hero"}},
		"garbage",
		{"id":"c","type":"text-block","order":2,"settings":{"content":"three"}},
		{"id":"u","type":"mystery","order":0,"settings":{"x":1}}
	]`)
	sections := ParseSections(raw)
	require.Len(t, sections, 4)

	ids := make([]string, len(sections))
	for i, s := range sections {
		ids[i] = s.ID
	}
	assert.Equal(t, []string{"u", "a", "b", "c"}, ids)

	assert.IsType(t, Unknown{}, sections[0].Settings)
	hero, ok := sections[1].Settings.(*HeroProductSettings)
	require.True(t, ok)
	assert.Equal(t, "Hero", hero.Title.String())
	assert.Equal(t, checkoutAnchor, hero.ButtonLink.String())
}

func TestParseSectionsInvalidInput(t *testing.T) {
	assert.Empty(t, ParseSections(nil))
	assert.Empty(t, ParseSections(json.RawMessage(`{"not":"a list"}`)))
	assert.Empty(t, ParseSections(json.RawMessage(`null`)))
}

func TestMalformedSettingsDegrade(t *testing.T) {
	raw := json.RawMessage(`[
		{"id":"f","type":"faq","settings":{"faqs":"oops","title":"Questions"}},
		{"id":"g","type":"image-gallery","settings":7},
		{"id":"s","type":"spacer","settings":{"height":"60"}}
	]`)
	sections := ParseSections(raw)
	require.Len(t, sections, 3)

	faq := sections[0].Settings.(*FAQSettings)
	assert.Equal(t, "Questions", faq.Title.String())
	assert.Empty(t, faq.FAQs)
	assert.Equal(t, "#ffffff", faq.BackgroundColor.String())

	gallery := sections[1].Settings.(*ImageGallerySettings)
	assert.Equal(t, 3, gallery.Columns.Int(0))
	assert.Equal(t, "square", gallery.AspectRatio.String())

	spacer := sections[2].Settings.(*SpacerSettings)
	assert.Equal(t, 60, spacer.Height.Int(0))
}

func TestSettingsDefaults(t *testing.T) {
	raw := json.RawMessage(`[
		{"id":"shots","type":"customer-screenshots","settings":{"images":["a.jpg"]}},
		{"id":"faq","type":"faq-accordion","settings":{"items":[{"question":"Q?","answer":"A"}]}},
		{"id":"yt","type":"youtube-video","settings":{"youtubeUrl":"https://youtu.be/abcdefghijk"}},
		{"id":"co","type":"checkout-form","settings":{"productId":"p1","bundlePrice":"২৬০০","cartMode":"true"}},
		{"id":"it","type":"image-text","settings":{"imagePosition":"top"}},
		{"id":"fam","type":"family-cta","settings":{"title":"Family"}}
	]`)
	sections := ParseSections(raw)
	require.Len(t, sections, 6)

	shots := sections[0].Settings.(*ImageGallerySettings)
	assert.Equal(t, TypeCustomerScreenshots, shots.sectionType())
	assert.Equal(t, 2, shots.Columns.Int(0))
	assert.Equal(t, "auto", shots.AspectRatio.String())

	faq := sections[1].Settings.(*FAQSettings)
	require.Len(t, faq.FAQs, 1)
	assert.Equal(t, "Q?", faq.FAQs[0].Question.String())

	video := sections[2].Settings.(*VideoSettings)
	assert.Equal(t, "https://youtu.be/abcdefghijk", video.VideoURL.String())
	require.NotNil(t, video.Controls)
	assert.True(t, bool(*video.Controls))

	co := sections[3].Settings.(*CheckoutFormSettings)
	assert.Equal(t, []string{"p1"}, co.IDs())
	opts := co.EngineOptions("offer")
	assert.True(t, opts.CartMode)
	assert.Equal(t, 2600.0, opts.BundlePrice)
	assert.Equal(t, 2, opts.BundleQty)
	assert.Equal(t, "offer", opts.Slug)

	assert.Equal(t, "left", sections[4].Settings.(*ImageTextSettings).ImagePosition.String())

	fam := sections[5].Settings.(*FamilyCTASettings)
	assert.Equal(t, "🕌", fam.Icon.String())
	assert.Equal(t, "#fef3c7", fam.BackgroundColor.String())
}

func TestParseTheme(t *testing.T) {
	assert.Equal(t, DefaultTheme(), ParseTheme(nil))
	assert.Equal(t, DefaultTheme(), ParseTheme(json.RawMessage(`null`)))
	assert.Equal(t, DefaultTheme(), ParseTheme(json.RawMessage(`"blue"`)))

	theme := ParseTheme(json.RawMessage(`{"primaryColor":"#111111","fontFamily":"  "}`))
	assert.Equal(t, "#111111", theme.PrimaryColor)
	assert.Equal(t, "Inter", theme.FontFamily)
	assert.Equal(t, "#f5f5f5", theme.SecondaryColor)
	assert.Equal(t, "filled", theme.ButtonStyle)
}

func TestLenientValues(t *testing.T) {
	var v struct {
		Price Text   `json:"price"`
		Qty   Number `json:"qty"`
		On    Flag   `json:"on"`
		Off   Flag   `json:"off"`
		Bad   Number `json:"bad"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"price":1450,"qty":"৳ 1,450","on":1,"off":"false","bad":"n/a"}`), &v))
	assert.Equal(t, "1450", v.Price.String())
	assert.Equal(t, Number(1450), v.Qty)
	assert.True(t, bool(v.On))
	assert.False(t, bool(v.Off))
	assert.Zero(t, v.Bad)

	amount, ok := ParseAmount("৳১৪৫০")
	assert.True(t, ok)
	assert.Equal(t, 1450.0, amount)
	_, ok = ParseAmount("free")
	assert.False(t, ok)
}
