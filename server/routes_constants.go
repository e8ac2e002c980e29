package server

// Route path constants
const (
	// Login & Logout
	RouteLogin      = "/login"
	RouteAuthLogin  = "/auth/login"
	RouteAuthLogout = "/auth/logout"

	// Role-gated pages
	RouteHome      = "/"
	RouteDashboard = "/{$}"
	RouteSection   = "/section/{section}"

	// API Routes
	RouteAPISession   = "/api/session"
	RouteAPIDirectory = "/api/directory"
	RouteHealth       = "/healthz"

	// Static Asset Routes (patterns)
	RouteStaticCSS = "/css/{file}"
)

// SectionURL is the dashboard link for a section.
func SectionURL(section string) string {
	return "/section/" + section
}
