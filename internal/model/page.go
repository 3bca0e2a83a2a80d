package model

// Page identifies a screen of the application.
type Page string

const (
	PageLanding        Page = "landing"
	PageAuth           Page = "auth"
	PageForgotPassword Page = "forgot-password"
	PageResetPassword  Page = "reset-password"
	PageBootstrap      Page = "bootstrap"
	PageDashboard      Page = "dashboard"
	PageLibrary        Page = "library"
	PageExamStudio     Page = "exam-studio"
	PageLoading        Page = "loading"
	PageAssessments    Page = "assessments"
	PageExamMode       Page = "exam-mode"
	PageGradingReport  Page = "grading-report"
	PageProfile        Page = "profile"
)

var allPages = []Page{
	PageLanding, PageAuth, PageForgotPassword, PageResetPassword, PageBootstrap,
	PageDashboard, PageLibrary, PageExamStudio, PageLoading, PageAssessments,
	PageExamMode, PageGradingReport, PageProfile,
}

// restorable pages can be rebuilt from container state alone after a restart.
var restorable = map[Page]bool{
	PageDashboard:   true,
	PageLibrary:     true,
	PageExamStudio:  true,
	PageAssessments: true,
	PageProfile:     true,
}

// Pages returns every known page id.
func Pages() []Page {
	out := make([]Page, len(allPages))
	copy(out, allPages)
	return out
}

// ParsePage converts a persisted page id back into a Page.
func ParsePage(s string) (Page, bool) {
	for _, p := range allPages {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

// Valid reports whether p is a known page id.
func (p Page) Valid() bool {
	_, ok := ParsePage(string(p))
	return ok
}

// Restorable reports whether p may be reopened by the session bootstrap.
func (p Page) Restorable() bool {
	return restorable[p]
}

// NavLinks are the pages shown in the navigation bar, in display order.
func NavLinks() []Page {
	return []Page{PageDashboard, PageLibrary, PageExamStudio, PageAssessments, PageProfile}
}

// Label returns a human readable name for the page.
func (p Page) Label() string {
	switch p {
	case PageLanding:
		return "Welcome"
	case PageAuth:
		return "Sign In"
	case PageForgotPassword:
		return "Forgot Password"
	case PageResetPassword:
		return "Reset Password"
	case PageBootstrap:
		return "Loading"
	case PageDashboard:
		return "Dashboard"
	case PageLibrary:
		return "Library"
	case PageExamStudio:
		return "Exam Studio"
	case PageLoading:
		return "Generating"
	case PageAssessments:
		return "Assessments"
	case PageExamMode:
		return "Exam"
	case PageGradingReport:
		return "Results"
	case PageProfile:
		return "Profile"
	}
	return string(p)
}
