package rendering

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeMarkdown_EmptyString(t *testing.T) {
	assert.Equal(t, "", EscapeMarkdown(""))
}

func TestEscapeMarkdown_NoSpecialCharacters(t *testing.T) {
	text := "File your claim within the first week."
	assert.Equal(t, text, EscapeMarkdown(text))
}

func TestEscapeMarkdown_Emphasis(t *testing.T) {
	assert.Equal(t, `\*urgent\* and \_soon\_`, EscapeMarkdown("*urgent* and _soon_"))
}

func TestEscapeMarkdown_LinksAndHeadings(t *testing.T) {
	assert.Equal(t, `\# \[DUA\] \<online\>`, EscapeMarkdown("# [DUA] <online>"))
}

func TestEscapeMarkdown_BackslashAndPipe(t *testing.T) {
	assert.Equal(t, `a\\b \| c`, EscapeMarkdown(`a\b | c`))
}

func TestEscapeMarkdown_Newlines(t *testing.T) {
	assert.Equal(t, "line one line two", EscapeMarkdown("line one\nline two"))
}

func TestEscapeMarkdown_Unicode(t *testing.T) {
	assert.Equal(t, "Café résumé", EscapeMarkdown("Café résumé"))
}
