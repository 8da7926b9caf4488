package main

import (
	"imagehub/internal/cli"
)

// @title ImageHub API
// @version 1.0.0
// @description REST API for preparing images for upload: fit-to-bounds resizing, cropping and progressive downscaling in server-side sessions.
// @BasePath /api
// @schemes http
// @securityDefinitions.basic BasicAuth
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and a JWT token.

func main() {
	// Delegate all execution to the CLI package
	cli.Execute()
}
