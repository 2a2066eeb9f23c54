package questionsource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGeneratedItem_PlainJSON(t *testing.T) {
	item, err := parseGeneratedItem(`{
		"questionText": "What is 2 + 2?",
		"options": ["3", "4", "5", "6"],
		"correctOptionText": "4",
		"explanation": "Add the numbers."
	}`)

	require.NoError(t, err)
	assert.Equal(t, "What is 2 + 2?", item.QuestionText)
	assert.Len(t, item.Options, 4)
	assert.Equal(t, 1, correctChoiceIndex(item))
}

func TestParseGeneratedItem_StripsCodeFences(t *testing.T) {
	item, err := parseGeneratedItem("```json\n{\"questionText\":\"Q\",\"options\":[\"a\",\"b\",\"c\",\"d\"],\"correctOptionText\":\"c\"}\n```")

	require.NoError(t, err)
	assert.Equal(t, "Q", item.QuestionText)
	assert.Equal(t, 2, correctChoiceIndex(item))
}

func TestParseGeneratedItem_RepairsLatexEscapes(t *testing.T) {
	// \p is not a legal JSON escape; the repair pass must double it.
	raw := `{"questionText":"What is the area formula $\pi r^2$?","options":["1","2","3","4"],"correctOptionText":"2"}`

	item, err := parseGeneratedItem(raw)

	require.NoError(t, err)
	assert.Contains(t, item.QuestionText, `\pi r^2`)
}

func TestParseGeneratedItem_Invalid(t *testing.T) {
	_, err := parseGeneratedItem("not json at all")
	assert.Error(t, err)

	_, err = parseGeneratedItem(`{"questionText":"Q","options":["only","two"]}`)
	assert.Error(t, err)

	_, err = parseGeneratedItem(`{"options":["a","b","c","d"]}`)
	assert.Error(t, err)
}

func TestCorrectChoiceIndex_NormalizedMatch(t *testing.T) {
	item := &generatedItem{
		Options:           []string{"$x + 1$", "$x - 1$", "$2x$", "$x^2$"},
		CorrectOptionText: "x - 1",
	}

	assert.Equal(t, 1, correctChoiceIndex(item))
}

func TestCorrectChoiceIndex_FuzzyMatch(t *testing.T) {
	item := &generatedItem{
		Options:           []string{"about 12 meters", "about 15 meters", "about 18 meters", "about 21 meters"},
		CorrectOptionText: "15 meters",
	}

	assert.Equal(t, 1, correctChoiceIndex(item))
}

func TestCorrectChoiceIndex_FallsBackToFirst(t *testing.T) {
	item := &generatedItem{
		Options:           []string{"a", "b", "c", "d"},
		CorrectOptionText: "zzz",
	}

	assert.Equal(t, 0, correctChoiceIndex(item))
}

func TestRepairInvalidEscapes_KeepsLegalEscapes(t *testing.T) {
	in := `line\none \"quoted\" é tab\t`
	assert.Equal(t, in, repairInvalidEscapes(in))

	// \f is a legal JSON escape, so it must survive untouched.
	assert.Equal(t, `\frac \\pi \\u12`, repairInvalidEscapes(`\frac \pi \u12`))
}
