package web

import (
	"fmt"
	"net/url"
	"strings"

	vm "github.com/ericfisherdev/folio/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/folio/internal/application"
	"github.com/ericfisherdev/folio/internal/domain/model"
)

const displayDateLayout = "January 2, 2006"

// toHomeViewModel converts the profile into home page data.
func toHomeViewModel(p model.Profile) vm.HomeViewModel {
	links := make([]vm.ProfileLinkViewModel, 0, len(p.Links))
	for _, l := range p.Links {
		links = append(links, vm.ProfileLinkViewModel{Label: l.Label, URL: l.URL})
	}
	skills := p.Skills
	if skills == nil {
		skills = []string{}
	}

	return vm.HomeViewModel{
		Name:     p.Name,
		Headline: p.Headline,
		Location: p.Location,
		Email:    p.Email,
		BioHTML:  RenderMarkdown(p.Bio),
		Links:    links,
		Skills:   skills,
	}
}

// toCertificationCards converts the collection into cards, marking the
// selected record.
func toCertificationCards(certs []model.Certification, selected *model.Certification) []vm.CertificationCardViewModel {
	cards := make([]vm.CertificationCardViewModel, 0, len(certs))
	for _, c := range certs {
		escaped := url.PathEscape(c.ID)
		cards = append(cards, vm.CertificationCardViewModel{
			ID:              c.ID,
			Title:           c.Title,
			Issuer:          c.Issuer,
			IssueDate:       c.IssueDate.Format(displayDateLayout),
			IssueDateISO:    c.FormattedIssueDate(),
			DocumentURL:     c.DocumentURL,
			DescriptionHTML: RenderMarkdown(c.Description),
			Selected:        selected != nil && selected.ID == c.ID,
			SelectPath:      "/certifications/" + escaped + "/select",
			DeletePath:      "/certifications/" + escaped + "/delete",
		})
	}
	return cards
}

// toFormViewModel echoes a rejected submission back with its field errors.
// A nil verr yields an empty, closed form.
func toFormViewModel(in application.CertificationFormInput, verr *application.ValidationError) vm.CertificationFormViewModel {
	if verr == nil {
		return vm.CertificationFormViewModel{Errors: map[string]string{}}
	}
	return vm.CertificationFormViewModel{
		Title:       in.Title,
		Issuer:      in.Issuer,
		IssueDate:   in.IssueDate,
		DocumentURL: in.DocumentURL,
		Description: in.Description,
		Errors:      verr.Messages(),
		Open:        true,
	}
}

// toViewerViewModel converts a viewer snapshot. title names the selected
// certification, if any.
func toViewerViewModel(s model.ViewerSession, title string) vm.ViewerViewModel {
	v := vm.ViewerViewModel{
		Active:      s.Active,
		Title:       title,
		SourceURL:   s.SourceURL,
		State:       string(s.LoadState),
		PageCount:   s.PageCount,
		CurrentPage: s.CurrentPage,
		HasPrevious: s.HasPrevious(),
		HasNext:     s.HasNext(),
		Error:       s.Err,
	}
	if s.LoadState == model.LoadStateReady {
		v.FrameURL = frameURL(s.SourceURL, s.CurrentPage)
	}
	return v
}

// frameURL points an embedded PDF viewer at page, replacing any fragment
// already present in sourceURL.
func frameURL(sourceURL string, page int) string {
	base, _, _ := strings.Cut(sourceURL, "#")
	return fmt.Sprintf("%s#page=%d", base, page)
}

// toProjectsViewModel builds the projects page from the latest listing and
// the requested filter.
func toProjectsViewModel(snap application.ProjectsSnapshot, account, query string, tags application.TagSelection) vm.ProjectsViewModel {
	filter := application.RepositoryFilter{Query: query, Tags: tags.Tags()}
	filtered := application.FilterRepositories(snap.Repositories, filter)

	page := vm.ProjectsViewModel{
		State:        string(snap.State),
		Account:      account,
		Query:        query,
		SelectedTags: tags.Tags(),
		Tags:         []vm.TagChipViewModel{},
		Repositories: make([]vm.RepositoryCardViewModel, 0, len(filtered)),
		Total:        len(snap.Repositories),
		ClearHref:    "/projects",
		Filtered:     strings.TrimSpace(query) != "" || tags.Len() > 0,
	}
	if snap.State == model.LoadStateFailed {
		page.Error = "Failed to load repositories"
	}

	for _, topic := range application.AllTopics(snap.Repositories) {
		page.Tags = append(page.Tags, vm.TagChipViewModel{
			Name:     topic,
			Selected: tags.Contains(topic),
			Href:     projectsHref(query, tags.Toggle(topic)),
		})
	}

	for _, r := range filtered {
		card := vm.RepositoryCardViewModel{
			Name:        r.Name,
			Description: r.Description,
			URL:         r.HTMLURL,
			Homepage:    r.Homepage,
			Stars:       r.Stars,
			Forks:       r.Forks,
			Topics:      make([]vm.TopicViewModel, 0, len(r.Topics)),
		}
		if !r.UpdatedAt.IsZero() {
			card.UpdatedAt = r.UpdatedAt.Format(displayDateLayout)
		}
		for _, topic := range r.Topics {
			card.Topics = append(card.Topics, vm.TopicViewModel{Name: topic, Selected: tags.Contains(topic)})
		}
		page.Repositories = append(page.Repositories, card)
	}

	return page
}

// projectsHref encodes a filter as a /projects link.
func projectsHref(query string, tags application.TagSelection) string {
	values := url.Values{}
	if q := strings.TrimSpace(query); q != "" {
		values.Set("q", q)
	}
	for _, t := range tags.Tags() {
		values.Add("tag", t)
	}
	if len(values) == 0 {
		return "/projects"
	}
	return "/projects?" + values.Encode()
}
