package config

import "strings"

// AppVersion is the version of the service.
var AppVersion string // Or get it from version.txt during build

// AppName is the name of the service.
const AppName = "OurBooth"

// LogWinSubDir is the sub directory for the log files on windows.
var LogWinSubDir = AppName

// LogSubDir is the sub directory for the log files.
var LogSubDir = "." + strings.ToLower(AppName)

// LogExt is the extension for the log files.
var LogExt = ".log"

// Default values used when no config file exists or a field is unset.
const (
	// DefaultServerAddr is the local address the render API listens on.
	DefaultServerAddr = "127.0.0.1:49613"

	// DefaultEmojiCDNBaseURL is the CDN root for emoji sticker rasters.
	// Assets are keyed by hyphen-joined hex code points, e.g. 1f600.png.
	DefaultEmojiCDNBaseURL = "https://cdn.jsdelivr.net/gh/jdecked/twemoji@15.1.0/assets/72x72"

	// DefaultStickerBaseURL is the root for image-type sticker assets.
	DefaultStickerBaseURL = "https://assets.ourbooth.app/stickers"

	// DefaultFetchTimeoutSec bounds a single sticker asset fetch.
	DefaultFetchTimeoutSec = 8

	// DefaultFetchPerSecond limits sticker CDN request rate.
	DefaultFetchPerSecond = 8

	// DefaultEncodingQuality is the JPEG quality for composite output.
	DefaultEncodingQuality = 92

	// DefaultRenderWidth is used when a request does not specify output sizing.
	DefaultRenderWidth = 800
)
