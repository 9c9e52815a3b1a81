// Package qualityestetica embeds the dashboard's templates and static assets.
package qualityestetica

import "embed"

// In dev mode (IsDev=true) the server reads these directories from disk instead.

//go:embed all:frontend/static
var StaticFS embed.FS

//go:embed all:frontend/templates
var TemplateFS embed.FS
