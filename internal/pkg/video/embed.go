// Package video turns lesson video links into embeddable player URLs.
package video

import (
	"net/url"
	"regexp"
	"strings"
)

// Provider identifies a recognized video host
type Provider string

const (
	ProviderYouTube Provider = "youtube"
	ProviderVimeo   Provider = "vimeo"
)

// Embed is a playable form of a lesson video link
type Embed struct {
	Provider Provider
	ID       string
	URL      string
}

var (
	youtubeID = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	vimeoID   = regexp.MustCompile(`^[0-9]+$`)
)

// Parse returns the embed for a YouTube or Vimeo link.
// ok is false for anything else, in which case no preview is shown.
func Parse(raw string) (embed Embed, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Embed{}, false
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return Embed{}, false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")
	segments := pathSegments(u.Path)

	switch host {
	case "youtube.com", "youtube-nocookie.com":
		var id string
		switch {
		case len(segments) == 1 && segments[0] == "watch":
			id = u.Query().Get("v")
		case len(segments) == 2 && (segments[0] == "embed" || segments[0] == "shorts" || segments[0] == "live" || segments[0] == "v"):
			id = segments[1]
		}
		return youtube(id)
	case "youtu.be":
		if len(segments) == 1 {
			return youtube(segments[0])
		}
	case "vimeo.com":
		if len(segments) >= 1 {
			return vimeo(segments[len(segments)-1])
		}
	case "player.vimeo.com":
		if len(segments) == 2 && segments[0] == "video" {
			return vimeo(segments[1])
		}
	}
	return Embed{}, false
}

func youtube(id string) (Embed, bool) {
	if !youtubeID.MatchString(id) {
		return Embed{}, false
	}
	return Embed{Provider: ProviderYouTube, ID: id, URL: "https://www.youtube.com/embed/" + id}, true
}

func vimeo(id string) (Embed, bool) {
	if !vimeoID.MatchString(id) {
		return Embed{}, false
	}
	return Embed{Provider: ProviderVimeo, ID: id, URL: "https://player.vimeo.com/video/" + id}, true
}

func pathSegments(p string) []string {
	var out []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
