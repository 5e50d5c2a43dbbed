package useragent

import "strings"

// Device is a coarse client category.
type Device string

const (
	DeviceBot     Device = "bot"
	DeviceMobile  Device = "mobile"
	DeviceTablet  Device = "tablet"
	DeviceDesktop Device = "desktop"
	DeviceTV      Device = "tv"
	DeviceConsole Device = "console"
	DeviceUnknown Device = "unknown"
)

// IsBot reports whether d is an automated client.
func (d Device) IsBot() bool { return d == DeviceBot }

type keywordSet []string

func (k keywordSet) in(s string) bool {
	for _, kw := range k {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// Social and messenger keywords cover link previewers, which fetch a shared
// short link before anyone scans it.
var (
	botKeywords = keywordSet{
		"bot", "spider", "crawler", "archiver", "lighthouse", "slurp",
		"facebookexternalhit", "twitter", "slack", "linkedin", "whatsapp",
		"telegram", "discord", "skype", "curl", "wget", "python-requests",
		"go-http-client", "headless", "monitor", "preview", "fetcher", "scraper",
	}
	tvKeywords      = keywordSet{"smart-tv", "smarttv", "appletv", "googletv", "android tv", "webos", "tizen", "bravia"}
	consoleKeywords = keywordSet{"playstation", "xbox", "nintendo"}
	tabletKeywords  = keywordSet{"tablet", "kindle", "silk", "sm-t", "mediapad"}
	mobileKeywords  = keywordSet{"mobile", "windows phone", "iemobile", "blackberry", "opera mini"}
	desktopKeywords = keywordSet{"windows", "macintosh", "mac os x", "linux", "x11", "cros"}
)

// Classify maps a User-Agent header to a Device. Order matters: iOS
// identifiers are unambiguous, in-app browsers on phones still carry the
// handset token, and Android tablets omit "mobile".
func Classify(ua string) Device {
	s := strings.ToLower(strings.TrimSpace(ua))
	switch {
	case s == "":
		return DeviceUnknown
	case strings.Contains(s, "ipad"):
		return DeviceTablet
	case strings.Contains(s, "iphone"), strings.Contains(s, "ipod"):
		return DeviceMobile
	case botKeywords.in(s):
		return DeviceBot
	case tvKeywords.in(s):
		return DeviceTV
	case consoleKeywords.in(s):
		return DeviceConsole
	case strings.Contains(s, "android"):
		if strings.Contains(s, "mobile") {
			return DeviceMobile
		}
		return DeviceTablet
	case tabletKeywords.in(s):
		return DeviceTablet
	case mobileKeywords.in(s):
		return DeviceMobile
	case desktopKeywords.in(s):
		return DeviceDesktop
	default:
		return DeviceUnknown
	}
}
