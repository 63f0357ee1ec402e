package router

// Component names rendered by the shells
const (
	ComponentLogin          = "Login"
	ComponentRegister       = "Register"
	ComponentUserMovies     = "UserMovies"
	ComponentSingleMovie    = "SingleMovie"
	ComponentAdminDashboard = "AdminDashboard"
)

// FallbackPath is where unauthorized navigations to admin routes land
const FallbackPath = "/movies"

// DefaultRoutes returns the application route table in match order
func DefaultRoutes() []Route {
	return []Route{
		{Path: "/", Redirect: "/login"},
		{Path: "/login", Component: ComponentLogin},
		{Path: "/register", Component: ComponentRegister},
		{Path: "/movies", Component: ComponentUserMovies},
		{Path: "/movie/:id", Component: ComponentSingleMovie},
		{
			Path:      "/admin",
			Component: ComponentAdminDashboard,
			Meta:      Meta{RequiresAdmin: true},
		},
	}
}
