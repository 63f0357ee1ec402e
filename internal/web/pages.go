package web

import (
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/marquee-app/marquee/internal/api"
	"github.com/marquee-app/marquee/internal/notify"
	"github.com/marquee-app/marquee/internal/router"
)

// pageData is what every page template receives
type pageData struct {
	Component string
	Path      string
	Params    router.Params
	LoggedIn  bool
	IsAdmin   bool
	Movies    []api.Movie
	Movie     *api.Movie
	Toasts    []notify.Notification
}

// page resolves the request through the route table and guards, redirecting
// when navigation lands somewhere else than requested
func (s *Server) page(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	accessor := accessorFrom(c)
	nav := router.NewDefault(accessor)

	loc, err := nav.Resolve(c.Request.URL.RequestURI(), router.Location{Path: refererPath(c)})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, router.ErrNoMatch) {
			status = http.StatusNotFound
		} else {
			s.logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Navigation failed")
		}
		s.commit(c)
		c.HTML(status, "page", pageData{
			Component: http.StatusText(status),
			Path:      c.Request.URL.Path,
			LoggedIn:  accessor.LoggedIn(),
			IsAdmin:   accessor.IsAdmin(),
		})
		return
	}

	if loc.RedirectedFrom != "" {
		s.logger.Debug().
			Str("from", loc.RedirectedFrom).
			Str("to", loc.FullPath).
			Msg("Navigation redirected")
		c.Redirect(http.StatusFound, loc.FullPath)
		return
	}

	data := pageData{
		Component: loc.Route.Component,
		Path:      loc.Path,
		Params:    loc.Params,
		LoggedIn:  accessor.LoggedIn(),
		IsAdmin:   accessor.IsAdmin(),
	}
	s.loadView(c, loc, &data)

	data.Toasts = s.pendingToasts(c)
	s.commit(c)
	c.HTML(http.StatusOK, "page", data)
}

// loadView fetches what the view needs from the API. Failures become error
// toasts on the same page.
func (s *Server) loadView(c *gin.Context, loc router.Location, data *pageData) {
	ctx := c.Request.Context()

	switch loc.Route.Component {
	case router.ComponentUserMovies, router.ComponentAdminDashboard:
		movies, err := s.api.ListMovies(ctx)
		if err != nil {
			s.toast(c, notify.TypeError, errorMessage(err))
			return
		}
		data.Movies = movies
	case router.ComponentSingleMovie:
		movie, err := s.api.GetMovie(ctx, loc.Params["id"])
		if err != nil {
			s.toast(c, notify.TypeError, errorMessage(err))
			return
		}
		data.Movie = movie
	}
}

func (s *Server) login(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")
	if email == "" || password == "" {
		s.redirectWithToast(c, "/login", notify.TypeError, "Email and password are required")
		return
	}

	resp, err := s.api.Login(c.Request.Context(), email, password)
	if err != nil {
		s.logger.Warn().Err(err).Str("email", email).Msg("Login failed")
		s.redirectWithToast(c, "/login", notify.TypeError, errorMessage(err))
		return
	}

	if err := accessorFrom(c).Save(resp.Token, resp.User.IsAdmin); err != nil {
		s.logger.Error().Err(err).Msg("Failed to store session")
		s.redirectWithToast(c, "/login", notify.TypeError, "Could not start your session")
		return
	}

	name := resp.User.Name
	if name == "" {
		name = resp.User.Email
	}
	s.redirectWithToast(c, router.FallbackPath, notify.TypeSuccess, "Welcome back, "+name)
}

func (s *Server) register(c *gin.Context) {
	req := api.RegisterRequest{
		Name:     strings.TrimSpace(c.PostForm("name")),
		Email:    strings.TrimSpace(c.PostForm("email")),
		Password: c.PostForm("password"),
	}
	if req.Email == "" || req.Password == "" {
		s.redirectWithToast(c, "/register", notify.TypeError, "Email and password are required")
		return
	}

	if _, err := s.api.Register(c.Request.Context(), req); err != nil {
		s.redirectWithToast(c, "/register", notify.TypeError, errorMessage(err))
		return
	}

	s.redirectWithToast(c, "/login", notify.TypeSuccess, "Account created, please log in")
}

func (s *Server) logout(c *gin.Context) {
	if err := accessorFrom(c).Clear(); err != nil {
		s.logger.Error().Err(err).Msg("Failed to clear session")
	}
	s.redirectWithToast(c, "/login", notify.TypeSuccess, "Logged out")
}

func (s *Server) redirectWithToast(c *gin.Context, to, typ, message string) {
	s.toast(c, typ, message)
	s.commit(c)
	c.Redirect(http.StatusSeeOther, to)
}

// errorMessage turns an API failure into something a user can read
func errorMessage(err error) string {
	var statusErr *api.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Message()
	}
	if errors.Is(err, api.ErrMissingToken) {
		return "Login failed, no session was issued"
	}
	return "The movies service is unavailable"
}

// refererPath is the path of the page the navigation started from, if known
func refererPath(c *gin.Context) string {
	ref := c.Request.Referer()
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil || (u.Host != "" && u.Host != c.Request.Host) {
		return ""
	}
	return u.Path
}

var pageTemplate = template.Must(template.New("page").Parse(`<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Component}} · Marquee</title></head>
<body data-component="{{.Component}}" data-path="{{.Path}}">
<nav>
  <a href="/movies">Movies</a>
  {{if .IsAdmin}}<a href="/admin">Admin</a>{{end}}
  {{if .LoggedIn}}<form method="post" action="/logout"><button>Log out</button></form>{{else}}<a href="/login">Log in</a> <a href="/register">Register</a>{{end}}
</nav>
<div class="toasts">
{{range .Toasts}}  <div class="toast toast-{{.Type}} pos-{{.Position.X}}-{{.Position.Y}}" data-id="{{.ID}}" data-duration-ms="{{.Duration.Milliseconds}}" style="background: {{.Background}}">{{.Message}}</div>
{{end}}</div>
<main>
<h1>{{.Component}}</h1>
{{if eq .Component "Login"}}<form method="post" action="/login"><input name="email" type="email"><input name="password" type="password"><button>Log in</button></form>{{end}}
{{if eq .Component "Register"}}<form method="post" action="/register"><input name="name"><input name="email" type="email"><input name="password" type="password"><button>Register</button></form>{{end}}
{{with .Movie}}<article data-movie-id="{{.ID}}"><h2>{{.Title}}</h2><p>{{.Description}}</p></article>{{end}}
{{if .Movies}}<ul>{{range .Movies}}<li><a href="/movie/{{.ID}}">{{.Title}}</a></li>{{end}}</ul>{{end}}
</main>
</body>
</html>
`))
