package bizgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func words(n int) string {
	w := make([]string, n)
	for i := range w {
		w[i] = "word"
	}
	return strings.Join(w, " ")
}

func TestPaginate(t *testing.T) {
	pages := Paginate(words(1234), WordsPerPage)
	require.Len(t, pages, 3)

	assert.Len(t, pages[0].Words, 500)
	assert.Len(t, pages[1].Words, 500)
	assert.Len(t, pages[2].Words, 234)

	for i, p := range pages {
		assert.Equal(t, i+1, p.Number())
		assert.Equal(t, 3, p.Total())
	}
}

func TestPaginateReconstructs(t *testing.T) {
	content := "# Heading\n\nSome **bold** text.\n- one\n- two\n\n" + words(700) + "\n\nThe  end."
	pages := Paginate(content, WordsPerPage)
	require.Len(t, pages, 2)

	assert.Equal(t, content, Join(pages))

	all := make([]string, 0)
	for _, p := range pages {
		all = append(all, p.Words...)
	}
	assert.Equal(t, strings.Split(content, " "), all)
}

func TestPaginateSeparatePages(t *testing.T) {
	pages := Paginate("a b c d", 2)
	require.Len(t, pages, 2)

	grown := append(pages[0].Words, "X")
	assert.Equal(t, []string{"a", "b", "X"}, grown)
	assert.Equal(t, []string{"c", "d"}, pages[1].Words)
}

func TestPaginateEdgeCases(t *testing.T) {
	assert.Empty(t, Paginate("", WordsPerPage))

	pages := Paginate(words(500), WordsPerPage)
	assert.Len(t, pages, 1)

	pages = Paginate(words(501), 0)
	assert.Len(t, pages, 2, "size <= 0 uses the default page size")
}

func TestDocumentName(t *testing.T) {
	d := &Document{Kind: NDA}
	assert.Equal(t, "nda", d.Name())

	d.Header = []Field{{"Disclosing Party", " ACME/Corp "}, {"Receiving Party", "Other"}}
	assert.Equal(t, "ACME-Corp", d.Name())
	assert.Equal(t, "Non-Disclosure Agreement", d.Title())
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		parsed, err := ParseKind(k.Path())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}

	k, err := ParseKind("TOS")
	require.NoError(t, err)
	assert.Equal(t, TermsOfService, k)

	_, err = ParseKind("memo")
	assert.True(t, IsValidationError(err))

	assert.Error(t, Kind(42).Validate())
}
