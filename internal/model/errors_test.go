package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorHelpers_Wrapped(t *testing.T) {
	ve := NewValidationError(CodeDuplicateEmail, "email %s already registered", "a@b.c")
	nf := &NotFoundError{Kind: "technique", ID: "99"}
	pe := &PersistenceError{Op: "set", Key: "users", Err: errors.New("disk full")}

	wrappedVE := fmt.Errorf("register: %w", ve)
	wrappedNF := fmt.Errorf("toggle: %w", nf)
	wrappedPE := fmt.Errorf("save: %w", pe)

	assert.True(t, IsValidation(wrappedVE))
	assert.True(t, HasCode(wrappedVE, CodeDuplicateEmail))
	assert.False(t, HasCode(wrappedVE, CodeNoSession))
	assert.False(t, IsValidation(wrappedNF))

	assert.True(t, IsNotFound(wrappedNF))
	assert.False(t, IsNotFound(wrappedPE))

	assert.True(t, IsPersistence(wrappedPE))
	assert.EqualError(t, errors.Unwrap(pe), "disk full")
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "MISSING_FIELD: emotion is required (field=emotion)",
		NewFieldError(CodeMissingField, "emotion", "emotion is required").Error())
	assert.Equal(t, `questionnaire "burnout2" not found`,
		(&NotFoundError{Kind: "questionnaire", ID: "burnout2"}).Error())
}

func TestIdentityKey(t *testing.T) {
	assert.Equal(t, "ann@example.com", IdentityKey("  Ann@Example.COM "))
	// "é" composed vs decomposed
	assert.Equal(t, IdentityKey("jos\u00e9@example.com"), IdentityKey("jose\u0301@example.com"))
	// NFC leaves compatibility forms alone: fullwidth "ａ" is not "a".
	assert.NotEqual(t, IdentityKey("a@example.com"), IdentityKey("\uff41@example.com"))
}

func TestUUIDv7Generator_Unique(t *testing.T) {
	gen := UUIDv7Generator{}
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := gen.NewID()
		assert.Len(t, id, 36)
		assert.False(t, seen[id])
		seen[id] = true
	}
}
