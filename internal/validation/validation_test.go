package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Name  string `json:"name" validate:"min=3" msg:"Enter a valid name"`
	Email string `json:"email" validate:"email" msg:"Enter a valid email"`
	Nick  string `json:"nick" validate:"omitempty,min=2"`
}

func TestStruct_Valid(t *testing.T) {
	require.NoError(t, Struct(signup{Name: "Ada", Email: "ada@example.com"}))
}

func TestStruct_ReportsEveryField(t *testing.T) {
	err := Struct(&signup{Name: "Al", Email: "nope", Nick: "x"})
	require.Error(t, err)

	var verr *Error
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Errors, 3)

	assert.Equal(t, FieldError{Type: "field", Value: "Al", Msg: "Enter a valid name", Path: "name", Location: "body"}, verr.Errors[0])
	assert.Equal(t, "email", verr.Errors[1].Path)
	assert.Equal(t, "Enter a valid email", verr.Errors[1].Msg)
	assert.Equal(t, "nick", verr.Errors[2].Path)
	assert.Equal(t, "Invalid value", verr.Errors[2].Msg)
	assert.Equal(t, "invalid fields: name, email, nick", verr.Error())
}

func TestStruct_CountsCharactersNotBytes(t *testing.T) {
	// three runes, six bytes
	require.NoError(t, Struct(signup{Name: "日本語", Email: "a@b.co"}))

	err := Struct(signup{Name: "日本", Email: "a@b.co"})
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Errors[0].Path)
}

type secret struct {
	Password string `json:"password" validate:"min=5,maxbytes=8" msg:"Too short" msg_maxbytes:"Too long"`
}

func TestStruct_MaxBytesWithOwnMessage(t *testing.T) {
	require.NoError(t, Struct(secret{Password: "12345678"}))

	// six runes, eighteen bytes
	err := Struct(secret{Password: "日本語日本語"})
	var verr *Error
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Errors, 1)
	assert.Equal(t, "Too long", verr.Errors[0].Msg)

	err = Struct(secret{Password: "abc"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Too short", verr.Errors[0].Msg)
}

func TestField(t *testing.T) {
	err := Field("title", nil, "Invalid value")
	assert.Equal(t, []FieldError{{Type: "field", Msg: "Invalid value", Path: "title", Location: "body"}}, err.Errors)
}
