package background

// Badge is the persistent visual indicator for the current tab. Text
// and color track authentication, the icon tracks whether the page is
// a supported marketplace. Three observable states exist: supported
// and authenticated, supported and unauthenticated, unsupported.
type Badge struct {
	Text  string `json:"text"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

const (
	badgeTextAuthenticated   = "✓"
	badgeTextUnauthenticated = "!"

	badgeColorAuthenticated   = "#10B981"
	badgeColorUnauthenticated = "#F59E0B"

	iconActive = "icons/icon48.png"
	iconMuted  = "icons/icon48_gray.png"
)

// ComputeBadge derives the badge for the given auth/page combination.
func ComputeBadge(authenticated, supported bool) Badge {
	if !supported {
		return Badge{Icon: iconMuted}
	}

	if authenticated {
		return Badge{
			Text:  badgeTextAuthenticated,
			Color: badgeColorAuthenticated,
			Icon:  iconActive,
		}
	}

	return Badge{
		Text:  badgeTextUnauthenticated,
		Color: badgeColorUnauthenticated,
		Icon:  iconActive,
	}
}
