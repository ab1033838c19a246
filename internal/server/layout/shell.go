package layout

import (
	"net/url"
	"strings"

	"github.com/mamadbah2/stockdesk/internal/domain/models"
)

// CollapsedParam is the query parameter that collapses the sidebar.
const CollapsedParam = "sidebar"

// NavItem is one sidebar entry.
type NavItem struct {
	Label  string
	Path   string
	Icon   string
	Active bool
}

// Shell is everything the chrome around an authenticated page needs.
type Shell struct {
	Nav       []NavItem
	UserName  string
	Initial   string
	RoleLabel string
	IsAdmin   bool
	Collapsed bool
	// ToggleURL flips the collapse state of the current page.
	ToggleURL string
}

var baseNav = []NavItem{
	{Label: "Dashboard", Path: "/dashboard", Icon: "grid"},
	{Label: "Inventory", Path: "/inventory", Icon: "box"},
	{Label: "Orders", Path: "/orders", Icon: "cart"},
}

var adminNav = []NavItem{
	{Label: "Staff", Path: "/staff", Icon: "users"},
	{Label: "Admin Tools", Path: "/admin-features", Icon: "shield"},
}

// Build assembles the shell for the current request.
func Build(identity *models.Identity, isAdmin bool, currentURL *url.URL, collapsed bool) Shell {
	items := make([]NavItem, 0, len(baseNav)+len(adminNav))
	items = append(items, baseNav...)
	if isAdmin {
		items = append(items, adminNav...)
	}

	path := ""
	if currentURL != nil {
		path = currentURL.Path
	}
	for i := range items {
		items[i].Active = items[i].Path == path
	}

	shell := Shell{
		Nav:       items,
		IsAdmin:   isAdmin,
		Collapsed: collapsed,
		ToggleURL: toggleURL(currentURL, collapsed),
		RoleLabel: string(models.RoleStaff),
	}
	if identity != nil {
		shell.UserName = identity.Name
		if identity.Role != "" {
			shell.RoleLabel = string(identity.Role)
		}
	}
	if shell.UserName == "" {
		shell.UserName = "User"
	}
	shell.Initial = strings.ToUpper(string([]rune(shell.UserName)[:1]))
	return shell
}

// IsCollapsed reads the collapse state from query values.
func IsCollapsed(query url.Values) bool {
	return query.Get(CollapsedParam) == "collapsed"
}

func toggleURL(current *url.URL, collapsed bool) string {
	if current == nil {
		return "/"
	}
	next := *current
	query := next.Query()
	if collapsed {
		query.Del(CollapsedParam)
	} else {
		query.Set(CollapsedParam, "collapsed")
	}
	next.RawQuery = query.Encode()
	return next.RequestURI()
}
