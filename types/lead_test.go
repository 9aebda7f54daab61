package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMortgageType_Valid(t *testing.T) {
	assert.True(t, MortgageTypeNew.Valid())
	assert.True(t, MortgageTypeRefinance.Valid())
	assert.True(t, MortgageTypeReverse.Valid())
	assert.False(t, MortgageType("bridge").Valid())
	assert.False(t, MortgageType("").Valid())
}

func TestMortgageType_Label(t *testing.T) {
	assert.Equal(t, "משכנתא חדשה", MortgageTypeNew.Label())
	assert.Equal(t, "מחזור משכנתא", MortgageTypeRefinance.Label())
	assert.Equal(t, "משכנתא הפוכה", MortgageTypeReverse.Label())

	// Unknown values pass through so a row never gets an empty type column.
	assert.Equal(t, "bridge", MortgageType("bridge").Label())
}
