package adminform

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"plant-store/internal/client"
	"plant-store/internal/domain"
	"plant-store/internal/validation"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mock backend for testing
type mockSubmitter struct {
	uploads   []string
	created   []client.PlantRequest
	uploadErr error
	createErr error
}

func (m *mockSubmitter) Upload(ctx context.Context, fileName string, data []byte) (*domain.Upload, error) {
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	m.uploads = append(m.uploads, fileName)
	return &domain.Upload{URL: "/uploads/abc.png", FileName: "abc.png"}, nil
}

func (m *mockSubmitter) CreatePlant(ctx context.Context, plant client.PlantRequest) (string, error) {
	if m.createErr != nil {
		return "", m.createErr
	}
	m.created = append(m.created, plant)
	return "plant-1", nil
}

func filledForm() *Form {
	f := New()
	f.SetName(" Money Plant ")
	f.SetPrice("249.50")
	f.AddCategory("Indoor")
	f.SetDescription("  Trailing vine ")
	return f
}

func TestValidate_EmptyForm(t *testing.T) {
	f := New()
	assert.False(t, f.Validate())
	assert.Equal(t, map[string]string{
		validation.FieldName:       validation.MsgNameRequired,
		validation.FieldPrice:      validation.MsgPriceRequired,
		validation.FieldCategories: validation.MsgCategoriesRequired,
	}, f.Errors())
}

func TestValidate_Rules(t *testing.T) {
	f := filledForm()
	f.SetName("A")
	f.SetPrice("-3")
	assert.False(t, f.Validate())
	assert.Equal(t, validation.MsgNameTooShort, f.Errors()[validation.FieldName])
	assert.Equal(t, validation.MsgPriceInvalid, f.Errors()[validation.FieldPrice])
	assert.NotContains(t, f.Errors(), validation.FieldCategories)
}

func TestEditingClearsFieldError(t *testing.T) {
	f := New()
	f.Validate()

	f.SetName("Fern")
	assert.NotContains(t, f.Errors(), validation.FieldName)
	assert.Contains(t, f.Errors(), validation.FieldPrice)

	f.AddCategory("Indoor")
	assert.NotContains(t, f.Errors(), validation.FieldCategories)
}

func TestCategories_AddAndRemove(t *testing.T) {
	f := New()
	f.AddCategory("  Indoor ")
	f.AddCategory("Indoor")
	f.AddCategory("   ")
	f.AddCategory("indoor")
	f.AddCategory("Outdoor")
	assert.Equal(t, []string{"Indoor", "indoor", "Outdoor"}, f.Categories())

	f.RemoveCategory("indoor")
	f.RemoveCategory("Missing")
	assert.Equal(t, []string{"Indoor", "Outdoor"}, f.Categories())
}

// Property: categories hold no duplicates and no blank entries
func TestProperty_CategoriesStayUnique(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("added categories are unique and trimmed", prop.ForAll(
		func(inputs []string) bool {
			f := New()
			for _, in := range inputs {
				f.AddCategory(in)
			}
			seen := map[string]bool{}
			for _, c := range f.Categories() {
				if c == "" || seen[c] {
					return false
				}
				seen[c] = true
			}
			return true
		},
		gen.SliceOf(gen.OneGenOf(gen.AlphaString(), gen.Const(" Indoor "), gen.Const("Indoor"), gen.Const(""))),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestSubmit_InvalidNeverCallsBackend(t *testing.T) {
	backend := &mockSubmitter{}
	f := New()
	f.SetImage(&Image{FileName: "a.png", Data: []byte("x")})

	_, err := f.Submit(context.Background(), backend)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Empty(t, backend.uploads)
	assert.Empty(t, backend.created)
}

func TestSubmit_UploadsThenCreatesAndResets(t *testing.T) {
	backend := &mockSubmitter{}
	f := filledForm()
	f.SetInStock(false)
	f.SetImage(&Image{FileName: "money.png", Data: []byte("img")})

	id, err := f.Submit(context.Background(), backend)
	require.NoError(t, err)
	assert.Equal(t, "plant-1", id)
	assert.True(t, f.Submitted())

	assert.Equal(t, []string{"money.png"}, backend.uploads)
	require.Len(t, backend.created, 1)
	assert.Equal(t, client.PlantRequest{
		Name:        "Money Plant",
		Price:       249.5,
		Categories:  []string{"Indoor"},
		InStock:     false,
		Description: "Trailing vine",
		Image:       "/uploads/abc.png",
	}, backend.created[0])

	// Reset to defaults
	assert.Empty(t, f.Categories())
	assert.True(t, f.inStock)
	assert.Nil(t, f.image)
}

func TestSubmit_UploadFailureKeepsForm(t *testing.T) {
	backend := &mockSubmitter{uploadErr: &client.APIError{StatusCode: http.StatusBadRequest, Message: "Only image files are allowed"}}
	f := filledForm()
	f.SetImage(&Image{FileName: "notes.txt", Data: []byte("hello")})

	_, err := f.Submit(context.Background(), backend)
	require.Error(t, err)
	assert.Empty(t, backend.created)
	assert.False(t, f.Submitted())
	assert.Equal(t, MsgUploadFailed, f.Errors()[FieldGeneral])
	assert.Equal(t, "Only image files are allowed", f.Errors()[FieldImage])
	assert.Equal(t, []string{"Indoor"}, f.Categories())
}

func TestSubmit_CreateFailureRecordsServerErrors(t *testing.T) {
	backend := &mockSubmitter{createErr: &client.APIError{
		StatusCode: http.StatusBadRequest,
		Message:    validation.MsgPriceInvalid,
		Details: map[string]interface{}{
			"validation_errors": map[string]interface{}{validation.FieldPrice: validation.MsgPriceInvalid},
		},
	}}
	f := filledForm()

	_, err := f.Submit(context.Background(), backend)
	require.Error(t, err)
	assert.Equal(t, MsgCreateFailed, f.Errors()[FieldGeneral])
	assert.Equal(t, validation.MsgPriceInvalid, f.Errors()[validation.FieldPrice])
}

func TestSubmit_TransportFailure(t *testing.T) {
	backend := &mockSubmitter{createErr: errors.New("connection refused")}
	f := filledForm()

	_, err := f.Submit(context.Background(), backend)
	require.Error(t, err)
	assert.Equal(t, map[string]string{FieldGeneral: MsgCreateFailed}, f.Errors())
}
