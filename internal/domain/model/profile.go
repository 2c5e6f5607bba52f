package model

// Profile holds the static content of the home/about page.
type Profile struct {
	Name     string
	Headline string
	Location string
	Bio      string // Markdown.
	Email    string
	Links    []ProfileLink
	Skills   []string
}

// ProfileLink is an external contact or social link.
type ProfileLink struct {
	Label string
	URL   string
}
