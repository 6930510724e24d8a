package validation

import (
	"math"
	"testing"

	"plant-store/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestStruct_ReportsEveryFailingPlantField(t *testing.T) {
	errs := Struct(domain.Plant{Name: "A", Price: 0, Categories: nil})

	assert.Equal(t, []FieldError{
		{Field: FieldName, Message: MsgNameTooShort},
		{Field: FieldPrice, Message: MsgPriceInvalid},
		{Field: FieldCategories, Message: MsgCategoriesRequired},
	}, errs)
}

func TestStruct_EmptyCategoryEntryReportedOnce(t *testing.T) {
	errs := Struct(domain.Plant{Name: "Fern", Price: 10, Categories: []string{"", ""}})
	assert.Equal(t, []FieldError{{Field: FieldCategories, Message: MsgCategoriesRequired}}, errs)
}

func TestStruct_ValidPlant(t *testing.T) {
	assert.Nil(t, Struct(domain.Plant{Name: "Fern", Price: 1.5, Categories: []string{"Indoor"}}))
}

func TestName(t *testing.T) {
	assert.Equal(t, MsgNameRequired, Name("   "))
	assert.Equal(t, MsgNameTooShort, Name(" a "))
	assert.Equal(t, "", Name("ab"))
}

func TestParsePrice(t *testing.T) {
	cases := map[string]string{
		"":      MsgPriceRequired,
		"abc":   MsgPriceInvalid,
		"0":     MsgPriceInvalid,
		"-4":    MsgPriceInvalid,
		"NaN":   MsgPriceInvalid,
		"+Inf":  MsgPriceInvalid,
		"12.50": "",
	}
	for input, want := range cases {
		_, msg := ParsePrice(input)
		assert.Equal(t, want, msg, "input %q", input)
	}

	price, _ := ParsePrice(" 299 ")
	assert.Equal(t, 299.0, price)
}

func TestIsValidPrice(t *testing.T) {
	assert.False(t, IsValidPrice(math.NaN()))
	assert.False(t, IsValidPrice(math.Inf(1)))
	assert.True(t, IsValidPrice(0.01))
}

// Property: normalized categories never contain duplicates or blanks
func TestProperty_NormalizeCategoriesDedupes(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("each normalized entry appears once and is non-empty", prop.ForAll(
		func(categories []string) bool {
			normalized := NormalizeCategories(append(categories, categories...))
			seen := map[string]bool{}
			for _, c := range normalized {
				if c == "" || seen[c] {
					return false
				}
				seen[c] = true
			}
			return true
		},
		gen.SliceOf(gen.OneGenOf(gen.AlphaString(), gen.Const(" Indoor "), gen.Const("Indoor"))),
	))

	properties.Property("first-seen order is preserved", prop.ForAll(
		func(a, b string) bool {
			normalized := NormalizeCategories([]string{a, b, a})
			return len(normalized) == 2 && normalized[0] == a && normalized[1] == b
		},
		gen.Identifier(),
		gen.Identifier().Map(func(s string) string { return s + "_b" }),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
