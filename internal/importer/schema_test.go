package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlCatalog = `festival: Summer Fest
date: "2025-07-12"
defaults:
  duration: 60
  location: Main Stage
events:
  - id: "1"
    title: Opening Concert
    time: "10:00"
    category: music
    popularity: 95
  - id: "2"
    title: Pottery Workshop
    time: "11:30"
    duration: 90
    location: Craft Tent
    category: workshop
    price: 15
`

const jsonCatalog = `{
  "festival": "Summer Fest",
  "date": "2025-07-12",
  "events": [
    {"id": "1", "title": "Opening Concert", "time": "10:00", "duration": 60, "category": "music", "popularity": 95}
  ]
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCatalog_YAML(t *testing.T) {
	schema, err := LoadCatalog(writeFile(t, "fest.yaml", yamlCatalog))
	require.NoError(t, err)

	assert.Equal(t, "Summer Fest", schema.Festival)
	assert.Equal(t, "2025-07-12", schema.Date)
	require.NotNil(t, schema.Defaults)
	assert.Equal(t, 60, *schema.Defaults.Duration)
	require.Len(t, schema.Events, 2)
	assert.Equal(t, "Craft Tent", schema.Events[1].Location)
	assert.Equal(t, 15, *schema.Events[1].Price)
	assert.Empty(t, ValidateCatalog(schema))
}

func TestLoadCatalog_JSON(t *testing.T) {
	schema, err := LoadCatalog(writeFile(t, "fest.json", jsonCatalog))
	require.NoError(t, err)
	require.Len(t, schema.Events, 1)
	assert.Equal(t, 95, *schema.Events[0].Popularity)
}

func TestLoadCatalog_Errors(t *testing.T) {
	_, err := LoadCatalog(writeFile(t, "fest.txt", yamlCatalog))
	assert.ErrorContains(t, err, "unsupported catalog file")

	_, err = LoadCatalog(writeFile(t, "broken.json", `{"events": [`))
	assert.ErrorContains(t, err, "parsing catalog json")

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
