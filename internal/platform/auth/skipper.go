package auth

import (
	"github.com/labstack/echo/v4"
)

// publicPaths lists route patterns that bypass authentication: infrastructure
// endpoints plus the unauthenticated directory and account endpoints.
var publicPaths = map[string]bool{
	"/health":                      true,
	"/health/db":                   true,
	"/metrics":                     true,
	"/api/v1/register":             true,
	"/api/v1/login":                true,
	"/api/v1/hospitals":            true,
	"/api/v1/hospitals/nearby":     true,
	"/api/v1/doctors/hospital/:id": true,
	"/api/v1/doctors/:id/schedules": true,
}

// AuthSkipper returns true for requests whose route should skip
// authentication. Pass it as the skipper on JWTMiddleware.
func AuthSkipper(c echo.Context) bool {
	return publicPaths[c.Path()]
}

// IsPublicPath reports whether the given route pattern bypasses auth.
func IsPublicPath(path string) bool {
	return publicPaths[path]
}
