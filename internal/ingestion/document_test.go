package ingestion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectKind(t *testing.T) {
	tests := []struct {
		name string
		file string
		mime string
		want Kind
	}{
		{name: "pdf mime", file: "upload", mime: "application/pdf", want: KindPDF},
		{name: "docx mime with params", file: "upload", mime: MIMEDOCX + "; charset=binary", want: KindDOCX},
		{name: "pdf extension", file: "resume.PDF", want: KindPDF},
		{name: "docx extension", file: "resume.docx", want: KindDOCX},
		{name: "markdown", file: "resume.md", want: KindText},
		{name: "mime wins over extension", file: "resume.txt", mime: "application/pdf", want: KindPDF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectKind(tt.file, tt.mime))
		})
	}
}

func TestExtractText_PlainText(t *testing.T) {
	text, err := ExtractText([]byte("Experience\r\nBuilt   things\n\n\n\nSkills"), KindText, "resume.txt")
	require.NoError(t, err)
	assert.Equal(t, "Experience\nBuilt things\n\nSkills", text)
}

func TestExtractText_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		kind Kind
	}{
		{name: "invalid utf8", data: []byte{0xff, 0xfe, 0xfd}, kind: KindText},
		{name: "not a pdf", data: []byte("plain words"), kind: KindPDF},
		{name: "not a docx", data: []byte("plain words"), kind: KindDOCX},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractText(tt.data, tt.kind, "upload")
			var extErr *ExtractionError
			require.ErrorAs(t, err, &extErr)
			assert.Equal(t, tt.kind, extErr.Kind)
			assert.Equal(t, "upload", extErr.Source)
		})
	}
}

func TestDocxXMLText(t *testing.T) {
	xml := `<w:document><w:body>` +
		`<w:p><w:r><w:t>Experience</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Go</w:t><w:tab/><w:t>R&amp;D</w:t></w:r><w:r><w:br/><w:t>Kafka</w:t></w:r></w:p>` +
		`</w:body></w:document>`

	assert.Equal(t, "Experience\nGo\tR&D\nKafka\n", docxXMLText(xml))
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.txt")
	require.NoError(t, os.WriteFile(path, []byte("Skills:  Go\n"), 0o644))

	text, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Skills: Go", text)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
