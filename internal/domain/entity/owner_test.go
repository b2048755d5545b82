package entity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidOwnerType(t *testing.T) {
	for _, kind := range []string{"hospital", "doctor", "treatment", "offer", "slider", "blog"} {
		assert.True(t, IsValidOwnerType(kind), kind)
	}
	for _, kind := range []string{"", "booking", "Doctor", "doctors", " doctor"} {
		assert.False(t, IsValidOwnerType(kind), kind)
	}
}

func TestParseOwnerKind(t *testing.T) {
	kind, err := ParseOwnerKind(" treatment ")
	require.NoError(t, err)
	assert.Equal(t, OwnerTreatment, kind)

	_, err = ParseOwnerKind("booking")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidOwnerKind))
}

func TestNewOwnerRef(t *testing.T) {
	ref, err := NewOwnerRef("doctor", 42)
	require.NoError(t, err)
	assert.Equal(t, OwnerRef{Kind: OwnerDoctor, ID: 42}, ref)
	assert.Equal(t, "doctor:42", ref.String())

	_, err = NewOwnerRef("patient", 1)
	assert.ErrorIs(t, err, ErrInvalidOwnerKind)
}

func TestOwnerKindsIsACopy(t *testing.T) {
	kinds := OwnerKinds()
	require.Len(t, kinds, 6)
	kinds[0] = "mutated"
	assert.Equal(t, OwnerHospital, OwnerKinds()[0])
}

func TestNewOwnerRecordCoversEveryKind(t *testing.T) {
	for _, kind := range OwnerKinds() {
		record, err := NewOwnerRecord(kind)
		require.NoError(t, err, kind)
		assert.Equal(t, kind, record.OwnerKind())
		assert.NotEmpty(t, record.TableName())
	}

	_, err := NewOwnerRecord("booking")
	assert.ErrorIs(t, err, ErrInvalidOwnerKind)
}
