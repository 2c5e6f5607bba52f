package application

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSeed_Embedded(t *testing.T) {
	seed, err := LoadSeed("")
	require.NoError(t, err)

	require.Len(t, seed, 2)
	assert.Equal(t, "freeCodeCamp", seed[0].Issuer)
	assert.Equal(t, "2022-05-15", seed[0].FormattedIssueDate())
	assert.Equal(t, "Amazon Web Services", seed[1].Issuer)
	assert.Equal(t, "2023-01-20", seed[1].FormattedIssueDate())
	assert.NotEqual(t, seed[0].ID, seed[1].ID)
}

func TestLoadSeed_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
certifications:
  - id: custom-1
    title: Go Developer
    issuer: Example Org
    issueDate: "2024-06-01"
    documentUrl: https://example.org/go.pdf
`), 0o600))

	seed, err := LoadSeed(path)
	require.NoError(t, err)
	require.Len(t, seed, 1)
	assert.Equal(t, "custom-1", seed[0].ID)
	assert.Empty(t, seed[0].Description)
}

func TestLoadSeed_RejectsInvalidRecords(t *testing.T) {
	tests := map[string]string{
		"bad date": `
certifications:
  - {id: a, title: T, issuer: I, issueDate: "June 2024", documentUrl: "https://x.io"}
`,
		"relative url": `
certifications:
  - {id: a, title: T, issuer: I, issueDate: "2024-06-01", documentUrl: "/x.pdf"}
`,
		"duplicate id": `
certifications:
  - {id: a, title: T, issuer: I, issueDate: "2024-06-01", documentUrl: "https://x.io"}
  - {id: a, title: U, issuer: J, issueDate: "2024-06-02", documentUrl: "https://y.io"}
`,
		"not yaml": "certifications: [",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "seed.yaml")
			require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

			_, err := LoadSeed(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadSeed_MissingFile(t *testing.T) {
	_, err := LoadSeed(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadProfile_Embedded(t *testing.T) {
	profile, err := LoadProfile("")
	require.NoError(t, err)

	assert.NotEmpty(t, profile.Name)
	assert.NotEmpty(t, profile.Bio)
	assert.NotNil(t, profile.Skills)
	assert.NotEmpty(t, profile.Links)
}

func TestLoadProfile_RequiresName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("headline: Engineer\n"), 0o600))

	_, err := LoadProfile(path)
	assert.Error(t, err)
}
