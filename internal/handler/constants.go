package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the catalog index.
	RouteRoot = "/"
	// RouteMovieDetail is the item detail page.
	RouteMovieDetail = "/movie/{id}"
	// RouteAddReview accepts review submissions for an item.
	RouteAddReview = "/add_review/{id}"
	// RouteSuggest is the suggestion form.
	RouteSuggest = "/suggest_movie"

	// RouteSignup is the registration page.
	RouteSignup = "/signup"
	// RouteLogin is the login page.
	RouteLogin = "/login"
	// RouteLogout ends the session.
	RouteLogout = "/logout"

	// RouteAdminDashboard is the admin landing page.
	RouteAdminDashboard = "/dashboard"
	// RouteAdminManage lists catalog items for admins.
	RouteAdminManage = "/manage"
	// RouteAdminAddMovie is the item creation form.
	RouteAdminAddMovie = "/add_movie"
	// RouteAdminMembers lists registered users.
	RouteAdminMembers = "/members"
	// RouteAdminSuggestions lists user suggestions.
	RouteAdminSuggestions = "/suggestions"
	// RouteAdminApprove approves a suggestion by ID.
	RouteAdminApprove = "/approve/{id}"
	// RouteAdminUpdateRole changes a member's role.
	RouteAdminUpdateRole = "/update_role/{username}"
	// RouteAdminReport is the report form.
	RouteAdminReport = "/report"
	// RouteAdminExportPDF generates the PDF report.
	RouteAdminExportPDF = "/export_pdf"
)

// Redirect targets.
const (
	redirectIndex            = "/"
	redirectLogin            = "/login"
	redirectSignup           = "/signup"
	redirectAdminManage      = "/admin/manage"
	redirectAdminAddMovie    = "/admin/add_movie"
	redirectAdminMembers     = "/admin/members"
	redirectAdminSuggestions = "/admin/suggestions"
	redirectAdminReport      = "/admin/report"
)
