package utils

import (
	"strings"

	ua "github.com/mssola/user_agent"
)

// DeviceInfo holds parsed information from a User-Agent string
type DeviceInfo struct {
	DeviceType string `json:"device_type"` // mobile, tablet, desktop
	OS         string `json:"os"`
	Browser    string `json:"browser"`
	IsBot      bool   `json:"is_bot"`
	Raw        string `json:"raw"`
}

// ParseUserAgent parses a User-Agent string and extracts device information
// for request logging.
func ParseUserAgent(userAgent string) DeviceInfo {
	if userAgent == "" {
		return DeviceInfo{DeviceType: "unknown", OS: "Unknown", Browser: "Unknown"}
	}

	parser := ua.New(userAgent)
	browser, _ := parser.Browser()
	if browser == "" {
		browser = "Unknown"
	}

	return DeviceInfo{
		DeviceType: deviceType(parser),
		OS:         osName(parser),
		Browser:    browser,
		IsBot:      parser.Bot(),
		Raw:        userAgent,
	}
}

func deviceType(parser *ua.UserAgent) string {
	if !parser.Mobile() {
		return "desktop"
	}
	lowered := strings.ToLower(parser.UA())
	for _, indicator := range []string{"ipad", "tablet", "kindle", "sm-t"} {
		if strings.Contains(lowered, indicator) {
			return "tablet"
		}
	}
	return "mobile"
}

func osName(parser *ua.UserAgent) string {
	info := parser.OSInfo()
	if info.Name == "" {
		return "Unknown"
	}
	if info.Version != "" {
		return info.Name + " " + info.Version
	}
	return info.Name
}
