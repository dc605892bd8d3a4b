package breadcrumb

type Breadcrumb struct {
	Name string
	URL  string
}

// Trail prepends the dashboard crumb to the given pairs of name and URL.
func Trail(pairs ...string) []Breadcrumb {
	crumbs := []Breadcrumb{{Name: "Dashboard", URL: "/"}}
	for i := 0; i+1 < len(pairs); i += 2 {
		crumbs = append(crumbs, Breadcrumb{Name: pairs[i], URL: pairs[i+1]})
	}
	return crumbs
}
