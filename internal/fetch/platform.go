// Package fetch - platform.go provides hosting platform detection and platform-specific selectors.
package fetch

import (
	"net/url"
	"strings"
)

// Platform represents a known CV hosting platform.
type Platform string

const (
	// PlatformGoogleDocs is a CV published from Google Docs
	PlatformGoogleDocs Platform = "google_docs"
	// PlatformGitHubPages is a CV or portfolio hosted on GitHub Pages
	PlatformGitHubPages Platform = "github_pages"
	// PlatformNotion is a CV shared as a public Notion page
	PlatformNotion Platform = "notion"
	// PlatformUnknown is an unrecognized platform
	PlatformUnknown Platform = "unknown"
)

// DetectPlatform identifies the hosting platform from a URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Host)

	// Google Docs patterns (published documents)
	if strings.Contains(host, "docs.google.com") {
		return PlatformGoogleDocs
	}

	// GitHub Pages patterns
	if strings.HasSuffix(host, "github.io") {
		return PlatformGitHubPages
	}

	// Notion patterns
	if strings.Contains(host, "notion.so") ||
		strings.Contains(host, "notion.site") {
		return PlatformNotion
	}

	return PlatformUnknown
}

// PlatformContentSelectors returns content selectors optimized for a specific platform.
func PlatformContentSelectors(platform Platform) []string {
	switch platform {
	case PlatformGoogleDocs:
		return []string{
			".doc-content", // Published document body
			"#contents",    // Older publish layout
			".document-contents",
		}
	case PlatformGitHubPages:
		return []string{
			".markdown-body", // GitHub-flavored markdown themes
			"main",
			"article",
			".post-content",
			".page-content",
		}
	case PlatformNotion:
		return []string{
			".notion-page-content",
			".notion-page-content-inner",
			"main",
		}
	default:
		return ResumePageSelectors()
	}
}

// PlatformNoiseSelectors returns noise exclusion selectors for a specific platform.
func PlatformNoiseSelectors(platform Platform) []string {
	// Common noise selectors for all platforms
	common := []string{
		// Contact and subscription forms
		"form",
		".contact-form",
		".subscribe",
		".newsletter",

		// Social and share buttons
		".social-share",
		".share-buttons",
		".social-links",

		// Cookie and GDPR
		".cookie-banner",
		".cookie-consent",
		".gdpr-notice",

		// Generic navigation already handled in fetch.go
	}

	// Platform-specific noise selectors
	switch platform {
	case PlatformGoogleDocs:
		return append(common,
			"#docs-banner",
			".docs-ml-promotion",
			"#docs-update-msg",
		)
	case PlatformGitHubPages:
		return append(common,
			".site-header",
			".site-footer",
			".page-header",
			".repo-link",
		)
	case PlatformNotion:
		return append(common,
			".notion-topbar",
			".notion-overlay-container",
			".notion-page-controls",
		)
	default:
		return common
	}
}
