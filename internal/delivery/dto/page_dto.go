package dto

// NavLink is one header action. Post links render as a form button.
type NavLink struct {
	ID    string
	Label string
	Href  string
	Post  bool
}

type HeaderView struct {
	// Bare is the logo-only header of the root page.
	Bare  bool
	Role  string
	Links []NavLink
}

// Page is what every full-page template receives.
type Page struct {
	Title  string
	Header HeaderView
	Notice *Notice
	Body   interface{}
}

// ActionResult is what a successful form submission reports back to its handler.
type ActionResult struct {
	Message  string
	Redirect string
}
