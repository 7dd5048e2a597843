package entity

import "fmt"

// Platform identifies an external source of leads.
type Platform string

const (
	PlatformLinkedIn   Platform = "LinkedIn"
	PlatformInstagram  Platform = "Instagram"
	PlatformTwitter    Platform = "Twitter"
	PlatformFacebook   Platform = "Facebook"
	PlatformGoogleMaps Platform = "GoogleMaps"
)

// AllPlatforms lists every supported platform in a stable order.
var AllPlatforms = []Platform{
	PlatformLinkedIn,
	PlatformInstagram,
	PlatformTwitter,
	PlatformFacebook,
	PlatformGoogleMaps,
}

// ParsePlatform converts a raw string to a Platform, returning an error for
// unknown values.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(s)
	switch p {
	case PlatformLinkedIn, PlatformInstagram, PlatformTwitter, PlatformFacebook, PlatformGoogleMaps:
		return p, nil
	}
	return "", fmt.Errorf("unknown platform %q", s)
}
