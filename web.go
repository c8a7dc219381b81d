// Package gamearena embeds the browser client served by cmd/server.
package gamearena

import "embed"

//go:embed web
var WebFS embed.FS
