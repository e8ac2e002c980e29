package server

import (
	"html/template"
	"net/http"

	"github.com/jrsteele09/go-obras-server/sessions"
	"github.com/jrsteele09/go-obras-server/users"
)

// SectionLink is one entry of the dashboard menu.
type SectionLink struct {
	Name  string
	Title string
	URL   string
}

// PageData is shared by the dashboard, section and forbidden pages.
type PageData struct {
	AppName  string
	Session  sessions.Session
	Scope    string
	Sections []SectionLink
	Section  SectionLink
}

func (s *Server) pageData(session sessions.Session) PageData {
	data := PageData{
		AppName: s.config.GetAppName(),
		Session: session,
		Scope:   "Todas las obras",
	}
	if !session.HasGlobalScope() {
		data.Scope = session.AssignedSite
	}
	for _, section := range session.Role.Sections() {
		data.Sections = append(data.Sections, sectionLink(section))
	}
	return data
}

func sectionLink(section users.Section) SectionLink {
	return SectionLink{
		Name:  string(section),
		Title: section.Title(),
		URL:   SectionURL(string(section)),
	}
}

// IndexHandler renders the dashboard for the signed-in user
func (s *Server) IndexHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("dashboard.html")

	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessions.FromContext(r.Context())
		if !ok {
			redirectSuccess(w, r, RouteLogin)
			return
		}
		renderTemplate(w, tmpl, http.StatusOK, s.pageData(session))
	}
}

// SectionHandler renders a section the session's role may open.
func (s *Server) SectionHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("section.html")

	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessions.FromContext(r.Context())
		if !ok {
			redirectSuccess(w, r, RouteLogin)
			return
		}
		section, _ := users.ParseSection(r.PathValue("section"))
		data := s.pageData(session)
		data.Section = sectionLink(section)
		renderTemplate(w, tmpl, http.StatusOK, data)
	}
}

func (s *Server) renderForbidden(w http.ResponseWriter, tmpl *template.Template, session sessions.Session, section users.Section) {
	data := s.pageData(session)
	data.Section = sectionLink(section)
	renderTemplate(w, tmpl, http.StatusForbidden, data)
}
