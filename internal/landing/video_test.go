package landing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyVideo(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want VideoSource
	}{
		{
			name: "youtube watch",
			raw:  "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=10",
			want: VideoSource{Kind: VideoIframe, URL: "https://www.youtube.com/embed/dQw4w9WgXcQ", ReferrerPolicy: referrerPolicy},
		},
		{
			name: "youtu.be",
			raw:  "youtu.be/dQw4w9WgXcQ?si=abc",
			want: VideoSource{Kind: VideoIframe, URL: "https://www.youtube.com/embed/dQw4w9WgXcQ", ReferrerPolicy: referrerPolicy},
		},
		{
			name: "youtube shorts",
			raw:  "https://m.youtube.com/shorts/abcdefGHIJK",
			want: VideoSource{Kind: VideoIframe, URL: "https://www.youtube.com/embed/abcdefGHIJK", ReferrerPolicy: referrerPolicy},
		},
		{
			name: "vimeo",
			raw:  "https://vimeo.com/123456789",
			want: VideoSource{Kind: VideoIframe, URL: "https://player.vimeo.com/video/123456789", ReferrerPolicy: referrerPolicy},
		},
		{
			name: "facebook watch",
			raw:  "https://www.facebook.com/watch/?v=123",
			want: VideoSource{Kind: VideoIframe, URL: "https://www.facebook.com/plugins/video.php?href=https%3A%2F%2Fwww.facebook.com%2Fwatch%2F%3Fv%3D123&show_text=false&lazy=true"},
		},
		{
			name: "fb.watch without scheme",
			raw:  "fb.watch/abc",
			want: VideoSource{Kind: VideoIframe, URL: "https://www.facebook.com/plugins/video.php?href=https%3A%2F%2Ffb.watch%2Fabc&show_text=false&lazy=true"},
		},
		{
			name: "facebook plugin url kept",
			raw:  "https://www.facebook.com/plugins/video.php?href=x",
			want: VideoSource{Kind: VideoIframe, URL: "https://www.facebook.com/plugins/video.php?href=x"},
		},
		{
			name: "direct file",
			raw:  "https://cdn.example.com/clip.mp4",
			want: VideoSource{Kind: VideoFile, URL: "https://cdn.example.com/clip.mp4"},
		},
		{
			name: "portrait iframe markup",
			raw:  `<iframe src="https://www.facebook.com/plugins/video.php" width="267" height="476"></iframe>`,
			want: VideoSource{Kind: VideoHTML, HTML: `<iframe src="https://www.facebook.com/plugins/video.php" width="267" height="476"></iframe>`, Portrait: true},
		},
		{
			name: "landscape iframe markup",
			raw:  `<iframe width="560" height="315" src="https://www.youtube.com/embed/x"></iframe>`,
			want: VideoSource{Kind: VideoHTML, HTML: `<iframe width="560" height="315" src="https://www.youtube.com/embed/x"></iframe>`},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ClassifyVideo(tc.raw)
			assert.True(t, ok)
			assert.Equal(t, tc.want, got)
		})
	}

	_, ok := ClassifyVideo("   ")
	assert.False(t, ok)
}

func TestEmbedURLLeavesOtherHosts(t *testing.T) {
	assert.Equal(t, "https://example.com/watch?v=abc", EmbedURL("https://example.com/watch?v=abc"))
	assert.Equal(t, "https://www.youtube.com/channel", EmbedURL("https://www.youtube.com/channel"))
}

func TestTextCleaning(t *testing.T) {
	assert.Equal(t, "Premium", CleanBadgeText("👍✅ Premium"))
	assert.Equal(t, "Point", CleanBadgeText("👉Point"))
	assert.Equal(t, "👉Point", CleanTrustText("👉Point"))
	assert.Equal(t, "Cash on delivery", CleanTrustText("• Cash on delivery"))
	assert.Equal(t, "plain", CleanBadgeText("plain"))

	lines := DescriptionLines("✅ ১০০% কটন\n\n• স্লিম ফিট\n   - ফ্যাশনেবল\n◆◆ লুক ")
	assert.Equal(t, []string{"১০০% কটন", "স্লিম ফিট", "ফ্যাশনেবল", "লুক"}, lines)
	assert.Nil(t, DescriptionLines(""))
}

func TestFacebookPluginURLEncodesLikeBrowsers(t *testing.T) {
	got := FacebookPluginURL("https://www.facebook.com/shop (eid)/videos/1!*'")
	assert.Equal(t, "https://www.facebook.com/plugins/video.php?href=https%3A%2F%2Fwww.facebook.com%2Fshop%20(eid)%2Fvideos%2F1!*'&show_text=false&lazy=true", got)
}
