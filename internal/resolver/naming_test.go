package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanPhrase(t *testing.T) {
	tests := map[string]string{
		"the 'Docs' folder?": "Docs",
		"my photos":          "photos",
		`"report.pdf"`:       "report.pdf",
		"folder Projects":    "Projects",
		"folder":             "folder",
		"Taxes 2024 file.":   "Taxes 2024",
		"  plain  ":          "plain",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, CleanPhrase(in))
		})
	}
}

func TestUniqueName(t *testing.T) {
	existing := []string{"report.pdf", "report (2).pdf", "Docs", "archive.tar.gz"}

	assert.Equal(t, "new.pdf", UniqueName("new.pdf", existing))
	assert.Equal(t, "report (3).pdf", UniqueName("report.pdf", existing))
	assert.Equal(t, "docs (2)", UniqueName("docs", existing))
	assert.Equal(t, "archive.tar (2).gz", UniqueName("archive.tar.gz", existing))
}

func TestUniqueFolderName_Sequence(t *testing.T) {
	var existing []string
	for _, want := range []string{"Name", "Name(2)", "Name(3)"} {
		got := UniqueFolderName("Name", existing)
		assert.Equal(t, want, got)
		existing = append(existing, got)
	}

	assert.Equal(t, "Name(4)", UniqueFolderName("Name(2)", existing))
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Report.pdf", Capitalize("report.pdf"))
	assert.Equal(t, "Éclair", Capitalize("éclair"))
	assert.Equal(t, "", Capitalize(""))
}
