package policy

import (
	"fmt"
	"sort"

	"github.com/brachiGH/firedns-dashboard/internal/models"
)

// Catalog is the validated set of application identifiers that can appear as
// blockedApps keys, each mapped to the domains the application is known to
// use. Keeping the key set closed avoids silently-ignored typos in stored
// settings.
type Catalog struct {
	domains map[string][]string
}

// NewCatalog builds a catalog from an app-name-to-domains mapping.
func NewCatalog(entries map[string][]string) *Catalog {
	domains := make(map[string][]string, len(entries))
	for app, ds := range entries {
		domains[app] = append([]string(nil), ds...)
	}
	return &Catalog{domains: domains}
}

// Apps returns the catalog's application identifiers in sorted order.
func (c *Catalog) Apps() []string {
	apps := make([]string, 0, len(c.domains))
	for app := range c.domains {
		apps = append(apps, app)
	}
	sort.Strings(apps)
	return apps
}

// Known reports whether app is a valid catalog identifier.
func (c *Catalog) Known(app string) bool {
	_, ok := c.domains[app]
	return ok
}

// OwnerOf returns the application that owns the given domain, if any. A
// domain belongs to an app when it matches one of the app's domains under
// the list-matching rule.
func (c *Catalog) OwnerOf(domain string) (string, bool) {
	for app, patterns := range c.domains {
		if MatchesAny(domain, patterns) {
			return app, true
		}
	}
	return "", false
}

// DefaultBlockedApps returns a blockedApps map covering every catalog app,
// all unrestricted.
func (c *Catalog) DefaultBlockedApps() map[string]bool {
	apps := make(map[string]bool, len(c.domains))
	for app := range c.domains {
		apps[app] = false
	}
	return apps
}

// ValidateBlockedApps rejects blockedApps maps containing identifiers outside
// the catalog.
func (c *Catalog) ValidateBlockedApps(apps map[string]bool) error {
	for app := range apps {
		if !c.Known(app) {
			return fmt.Errorf("unknown application identifier: %q", app)
		}
	}
	return nil
}

// DefaultParentalSettings returns the lazily-created parental defaults: every
// catalog app unrestricted and the documented recreation schedule.
func DefaultParentalSettings(userID string, cat *Catalog) models.ParentalSettings {
	return models.ParentalSettings{
		UserID:             userID,
		BlockedApps:        cat.DefaultBlockedApps(),
		RecreationSchedule: models.DefaultSchedule(),
	}
}

// DefaultCatalog returns the built-in application catalog. The identifiers
// mirror what the dashboard offers as parental-control toggles.
func DefaultCatalog() *Catalog {
	return NewCatalog(map[string][]string{
		"TikTok":              {"tiktok.com", "tiktokcdn.com", "musical.ly"},
		"Tinder":              {"tinder.com", "gotinder.com"},
		"Snapchat":            {"snapchat.com", "sc-cdn.net"},
		"Instagram":           {"instagram.com", "cdninstagram.com"},
		"Facebook":            {"facebook.com", "fbcdn.net"},
		"Twitter":             {"twitter.com", "x.com", "twimg.com"},
		"VK":                  {"vk.com"},
		"Roblox":              {"roblox.com", "rbxcdn.com"},
		"Tumblr":              {"tumblr.com"},
		"Fortnite":            {"fortnite.com", "epicgames.com"},
		"YouTube":             {"youtube.com", "googlevideo.com", "ytimg.com"},
		"Twitch":              {"twitch.tv", "ttvnw.net"},
		"Reddit":              {"reddit.com", "redd.it"},
		"Messenger":           {"messenger.com"},
		"League of Legends":   {"leagueoflegends.com", "riotgames.com"},
		"Telegram":            {"telegram.org", "t.me"},
		"Discord":             {"discord.com", "discordapp.com", "discord.gg"},
		"Minecraft":           {"minecraft.net", "mojang.com"},
		"Pinterest":           {"pinterest.com", "pinimg.com"},
		"BeReal":              {"bereal.com"},
		"Hulu":                {"hulu.com"},
		"Steam":               {"steampowered.com", "steamcommunity.com"},
		"Netflix":             {"netflix.com", "nflxvideo.net"},
		"WhatsApp":            {"whatsapp.com", "whatsapp.net"},
		"PlayStation Network": {"playstation.com", "playstation.net"},
		"Mastodon":            {"mastodon.social"},
		"eBay":                {"ebay.com"},
		"HBO Max":             {"max.com", "hbomax.com"},
		"Signal":              {"signal.org"},
		"Spotify":             {"spotify.com", "scdn.co"},
		"Zoom":                {"zoom.us"},
		"Amazon":              {"amazon.com"},
		"ChatGPT":             {"chatgpt.com", "openai.com"},
	})
}
