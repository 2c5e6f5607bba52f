package application

import (
	"embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ericfisherdev/folio/internal/domain/model"
)

//go:embed content/*.yaml
var contentFS embed.FS

type seedFile struct {
	Certifications []seedCertification `yaml:"certifications"`
}

type seedCertification struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Issuer      string `yaml:"issuer"`
	IssueDate   string `yaml:"issueDate"`
	DocumentURL string `yaml:"documentUrl"`
	Description string `yaml:"description"`
}

type profileFile struct {
	Name     string `yaml:"name"`
	Headline string `yaml:"headline"`
	Location string `yaml:"location"`
	Email    string `yaml:"email"`
	Bio      string `yaml:"bio"`
	Links    []struct {
		Label string `yaml:"label"`
		URL   string `yaml:"url"`
	} `yaml:"links"`
	Skills []string `yaml:"skills"`
}

// LoadSeed returns the fallback certification list. An empty path selects the
// built-in seed; otherwise the YAML file at path is used. Seed records must
// satisfy the same invariants as stored records.
func LoadSeed(path string) ([]model.Certification, error) {
	data, err := readContent(path, "content/seed.yaml")
	if err != nil {
		return nil, err
	}

	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}

	certs := make([]model.Certification, 0, len(file.Certifications))
	seen := make(map[string]struct{}, len(file.Certifications))
	for i, sc := range file.Certifications {
		issued, err := parseIssueDate(sc.IssueDate)
		if err != nil {
			return nil, fmt.Errorf("seed certification %d: %w", i, err)
		}
		c := model.Certification{
			ID:          strings.TrimSpace(sc.ID),
			Title:       strings.TrimSpace(sc.Title),
			Issuer:      strings.TrimSpace(sc.Issuer),
			IssueDate:   issued,
			DocumentURL: strings.TrimSpace(sc.DocumentURL),
			Description: strings.TrimSpace(sc.Description),
		}
		if err := checkAtRest(c); err != nil {
			return nil, fmt.Errorf("seed certification %d: %w", i, err)
		}
		if _, dup := seen[c.ID]; dup {
			return nil, fmt.Errorf("seed certification %d: duplicate id %q", i, c.ID)
		}
		seen[c.ID] = struct{}{}
		certs = append(certs, c)
	}

	return certs, nil
}

// LoadProfile returns the home page content. An empty path selects the
// built-in profile.
func LoadProfile(path string) (model.Profile, error) {
	data, err := readContent(path, "content/profile.yaml")
	if err != nil {
		return model.Profile{}, err
	}

	var file profileFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return model.Profile{}, fmt.Errorf("parse profile: %w", err)
	}
	if strings.TrimSpace(file.Name) == "" {
		return model.Profile{}, fmt.Errorf("parse profile: name is required")
	}

	profile := model.Profile{
		Name:     file.Name,
		Headline: file.Headline,
		Location: file.Location,
		Email:    file.Email,
		Bio:      file.Bio,
		Links:    make([]model.ProfileLink, 0, len(file.Links)),
		Skills:   file.Skills,
	}
	for _, l := range file.Links {
		profile.Links = append(profile.Links, model.ProfileLink{Label: l.Label, URL: l.URL})
	}
	if profile.Skills == nil {
		profile.Skills = []string{}
	}

	return profile, nil
}

func readContent(path, embedded string) ([]byte, error) {
	if path == "" {
		data, err := contentFS.ReadFile(embedded)
		if err != nil {
			return nil, fmt.Errorf("read embedded %s: %w", embedded, err)
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
