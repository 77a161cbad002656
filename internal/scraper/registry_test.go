package scraper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSitesBuiltinsOnly(t *testing.T) {
	sites, err := LoadSites("")
	require.NoError(t, err)
	require.Len(t, sites, 1)

	google := sites[0]
	assert.Equal(t, "google_careers", google.Name)
	assert.True(t, google.Enabled)
	assert.Equal(t, "li.zE6MFb", google.Selectors.Card)
	assert.Len(t, google.SectionLabels, 4)
}

func TestLoadSitesAbsentFileFallsBack(t *testing.T) {
	sites, err := LoadSites(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Len(t, sites, 1)
}

func TestLoadSitesOverlayOverridesAndAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sites.yaml")
	overlay := `
sites:
  - name: google_careers
    enabled: false
  - name: example_jobs
    enabled: true
    url: https://jobs.example.com
    employer: Example Corp
    source: example_jobs
    max_pages: 2
    selectors:
      card: "li.job"
      card_link: "a"
      title: "h1.title"
`
	require.NoError(t, os.WriteFile(path, []byte(overlay), 0o644))

	sites, err := LoadSites(path)
	require.NoError(t, err)
	require.Len(t, sites, 2)

	assert.False(t, sites[0].Enabled)
	assert.Equal(t, "example_jobs", sites[1].Name)
	assert.Equal(t, "li.job", sites[1].Selectors.Card)
	assert.Equal(t, 2, sites[1].MaxPages)

	assert.Equal(t, []string{"example_jobs"}, EnabledSiteNames(sites))
}

func TestLoadSitesMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sites.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sites: [not, closed"), 0o644))

	_, err := LoadSites(path)
	assert.Error(t, err)
}
