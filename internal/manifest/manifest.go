// Package manifest builds the static metadata JSON the embedding mini-app
// host reads from /.well-known/farcaster.json.
package manifest

import "fmt"

type AccountAssociation struct {
	Header    string `json:"header"`
	Payload   string `json:"payload"`
	Signature string `json:"signature"`
}

type MiniApp struct {
	Name                  string   `json:"name"`
	Version               string   `json:"version"`
	IconURL               string   `json:"iconUrl"`
	HomeURL               string   `json:"homeUrl"`
	ImageURL              string   `json:"imageUrl"`
	ButtonTitle           string   `json:"buttonTitle"`
	SplashImageURL        string   `json:"splashImageUrl"`
	SplashBackgroundColor string   `json:"splashBackgroundColor"`
	Subtitle              string   `json:"subtitle"`
	Description           string   `json:"description"`
	PrimaryCategory       string   `json:"primaryCategory"`
	ScreenshotURLs        []string `json:"screenshotUrls"`
	HeroImageURL          string   `json:"heroImageUrl"`
	Tags                  []string `json:"tags"`
	Tagline               string   `json:"tagline"`
	OGTitle               string   `json:"ogTitle"`
	OGDescription         string   `json:"ogDescription"`
	OGImageURL            string   `json:"ogImageUrl"`
}

type Manifest struct {
	AccountAssociation AccountAssociation `json:"accountAssociation"`
	MiniApp            MiniApp            `json:"miniapp"`
}

// Build assembles the manifest for the app hosted at baseURL.
func Build(baseURL string) Manifest {
	icon := fmt.Sprintf("%s/icon.png", baseURL)
	return Manifest{
		AccountAssociation: AccountAssociation{
			Header:    "eyJmaWQiOjEwODk4NzksInR5cGUiOiJjdXN0b2R5Iiwia2V5IjoiMHg1ZDczYzczNGQ3Yzg0OUUxNTRiNmYwNjczNjY0NDQ0MzJkOTdDZjE3In0",
			Payload:   "eyJkb21haW4iOiJjb25mZXNzMS52ZXJjZWwuYXBwIn0",
			Signature: "MHhkMmE4MGYwZmM4MTY2MThmYTc0MGE3YzI5Njg1NzQyNzQzNTkwOTQ3NWNjZWVhMjFlZjEyZGNhZDZmYTZlNGUwNmZmM2I0NGI4YTA3YTdiMjNhYmM2ZTVhZjAwODNiNDI0OTVkYTkzNTdiNWJhYWQxNzZiMWIzNjEzMWI2NWZlNTFj",
		},
		MiniApp: MiniApp{
			Name:                  "Spicy Confessions",
			Version:               "1",
			IconURL:               icon,
			HomeURL:               baseURL,
			ImageURL:              icon,
			ButtonTitle:           "Share Confession",
			SplashImageURL:        icon,
			SplashBackgroundColor: "#ff6b6b",
			Subtitle:              "Anonymous spicy confessions",
			Description:           "Share your secrets anonymously! Features spicy animations, mobile design, like system, timestamps, and modern UI with beautiful gradients.",
			PrimaryCategory:       "social",
			ScreenshotURLs:        []string{fmt.Sprintf("%s/header.png", baseURL)},
			HeroImageURL:          icon,
			Tags:                  []string{"social", "anonymous", "confessions", "fun", "community"},
			Tagline:               "Share Your Spicy Secrets",
			OGTitle:               "Spicy Confessions",
			OGDescription:         "Share your secrets anonymously with a fun, spicy design theme and modern UI.",
			OGImageURL:            icon,
		},
	}
}
