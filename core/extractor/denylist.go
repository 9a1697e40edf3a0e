// ABOUTME: Hosts that never get reader mode extraction
// ABOUTME: Matches the host and any of its subdomains

package extractor

import "strings"

// deniedHosts are interactive web apps whose pages are never articles.
// Subdomains of an entry are denied too.
var deniedHosts = []string{
	"x.com",
	"twitter.com",
	"facebook.com",
	"instagram.com",
	"threads.net",
	"tiktok.com",
	"linkedin.com",
	"youtube.com",
	"mail.google.com",
	"gmail.com",
	"docs.google.com",
	"drive.google.com",
	"calendar.google.com",
	"outlook.live.com",
	"outlook.office.com",
	"mail.yahoo.com",
	"slack.com",
	"discord.com",
	"web.whatsapp.com",
	"messenger.com",
	"web.telegram.org",
	"notion.so",
	"figma.com",
}

// IsDeniedHost reports whether host belongs to an excluded interactive app.
func IsDeniedHost(host string) bool {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	for _, denied := range deniedHosts {
		if host == denied || strings.HasSuffix(host, "."+denied) {
			return true
		}
	}
	return false
}
