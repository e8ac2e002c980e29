package server

import (
	"net/http"

	"github.com/jrsteele09/go-obras-server/users"
)

func (s *Server) initRoutes() {
	// LOGIN
	s.RegisterRouteHandler("GET "+RouteLogin, ChainMiddleware(s.LoginPageUIHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteAuthLogin, ChainMiddleware(s.LoginSubmissionHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.HTMLMiddleWare()...))

	// Pages (require a session cookie)
	s.RegisterRouteHandler("GET "+RouteDashboard, ChainMiddleware(s.IndexHandler(), s.HTMLMiddleWare(s.RequireSession())...))
	s.RegisterRouteHandler("GET "+RouteSection, ChainMiddleware(s.SectionHandler(), s.HTMLMiddleWare(s.RequireSession(), s.RequireSection())...))

	// API routes
	s.RegisterRouteHandler("GET "+RouteAPISession, ChainMiddleware(s.SessionInfoHandler(), s.APIMiddleware(s.RequireAPISession())...))
	s.RegisterRouteHandler("OPTIONS "+RouteAPISession, ChainMiddleware(s.NoContentHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteAPIDirectory, ChainMiddleware(s.DirectoryHandler(), s.APIMiddleware(s.RequireAPISession(), s.RequireRole(users.RoleAdmin))...))
	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())

	s.RegisterRouteHandler("GET "+RouteStaticCSS, ChainMiddleware(s.serveFileHandler(), s.StaticMiddleware()...))
}

func (s *Server) serveFileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filePath := "css/" + r.PathValue("file")
		if err := StreamFile(w, r, filePath); err != nil {
			logError(r.Method, filePath, err.Error())
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
	}
}
