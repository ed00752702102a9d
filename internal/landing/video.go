package landing

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// VideoKind is how a video source is played back.
type VideoKind string

const (
	VideoHTML   VideoKind = "html"
	VideoIframe VideoKind = "iframe"
	VideoFile   VideoKind = "file"
)

const referrerPolicy = "no-referrer-when-downgrade"

// VideoSource is a classified video setting.
type VideoSource struct {
	Kind VideoKind `json:"kind"`
	// HTML is the embed markup for VideoHTML.
	HTML string `json:"html,omitempty"`
	// URL is the iframe or media URL.
	URL            string `json:"url,omitempty"`
	ReferrerPolicy string `json:"referrerPolicy,omitempty"`
	Portrait       bool   `json:"portrait"`
}

var (
	youtubeID = regexp.MustCompile(`^[A-Za-z0-9_-]{6,}$`)
	vimeoID   = regexp.MustCompile(`vimeo\.com/(?:video/)?(\d+)`)
)

// ClassifyVideo decides how raw should be played. It returns false for
// an empty value.
func ClassifyVideo(raw string) (VideoSource, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return VideoSource{}, false
	}
	if strings.HasPrefix(raw, "<") {
		return VideoSource{Kind: VideoHTML, HTML: raw, Portrait: portraitMarkup(raw)}, true
	}

	embed := EmbedURL(raw)
	if isFacebook(raw) && !strings.Contains(raw, "facebook.com/plugins/video.php") {
		embed = FacebookPluginURL(raw)
	}
	switch {
	case strings.Contains(embed, "facebook.com/plugins/video.php"):
		return VideoSource{Kind: VideoIframe, URL: embed}, true
	case strings.Contains(embed, "youtube.com/embed"), strings.Contains(embed, "vimeo.com"):
		return VideoSource{Kind: VideoIframe, URL: embed, ReferrerPolicy: referrerPolicy}, true
	}
	return VideoSource{Kind: VideoFile, URL: raw}, true
}

// EmbedURL normalizes YouTube and Vimeo page URLs into their player
// URLs. Anything else is returned unchanged.
func EmbedURL(raw string) string {
	u, err := url.Parse(absoluteURL(raw))
	if err != nil {
		return raw
	}
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	host = strings.TrimPrefix(host, "m.")
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")

	var id string
	switch host {
	case "youtu.be":
		id = parts[0]
	case "youtube.com", "youtube-nocookie.com":
		switch {
		case parts[0] == "watch":
			id = u.Query().Get("v")
		case len(parts) > 1 && (parts[0] == "shorts" || parts[0] == "embed" || parts[0] == "live"):
			id = parts[1]
		}
	case "vimeo.com", "player.vimeo.com":
		if m := vimeoID.FindStringSubmatch(host + u.Path); m != nil {
			return "https://player.vimeo.com/video/" + m[1]
		}
		return raw
	default:
		return raw
	}
	if !youtubeID.MatchString(id) {
		return raw
	}
	return "https://www.youtube.com/embed/" + id
}

// FacebookPluginURL wraps a public Facebook video URL in the video plugin.
func FacebookPluginURL(raw string) string {
	return "https://www.facebook.com/plugins/video.php?href=" + encodeURIComponent(absoluteURL(raw)) + "&show_text=false&lazy=true"
}

// uriComponentUnescapes undoes the QueryEscape differences from the browser's
// encodeURIComponent, which writes spaces as %20 and leaves !'()* alone.
var uriComponentUnescapes = strings.NewReplacer("+", "%20", "%21", "!", "%27", "'", "%28", "(", "%29", ")", "%2A", "*")

func encodeURIComponent(s string) string {
	return uriComponentUnescapes.Replace(url.QueryEscape(s))
}

func isFacebook(raw string) bool {
	return strings.Contains(raw, "facebook.com") || strings.Contains(raw, "fb.watch")
}

func absoluteURL(raw string) string {
	lower := strings.ToLower(raw)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return raw
	case strings.HasPrefix(raw, "//"):
		return "https:" + raw
	}
	return "https://" + raw
}

// portraitMarkup reports whether the first iframe in markup is taller than
// it is wide. Missing or non-numeric dimensions mean landscape.
func portraitMarkup(markup string) bool {
	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return false
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if tok.Data != "iframe" && tok.Data != "video" {
				continue
			}
			var w, h float64
			for _, a := range tok.Attr {
				switch a.Key {
				case "width":
					w, _ = strconv.ParseFloat(strings.TrimSuffix(a.Val, "px"), 64)
				case "height":
					h, _ = strconv.ParseFloat(strings.TrimSuffix(a.Val, "px"), 64)
				}
			}
			return w > 0 && h > w
		}
	}
}
