package normalize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMoney(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want float64
	}{
		{"plain float", 1234.56, 1234.56},
		{"int", 500, 500.0},
		{"brazilian currency string", "R$ 1.234,56", 1234.56},
		{"comma decimal only", "150,00", 150.00},
		{"dot decimal", "1234.56", 1234.56},
		{"dot grouping with comma decimal", "1.234.567,89", 1234567.89},
		{"us format no comma", "1234.5", 1234.5},
		{"currency symbol and spaces", "R$ 99", 99.0},
		{"negative", "-42,50", -42.50},
		{"garbage", "abc", -1},
		{"empty string", "", -1},
		{"nil", nil, -1},
		{"nan", math.NaN(), -1},
		{"inf", math.Inf(1), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Money(tt.in, -1))
		})
	}
}

func TestMoneyIdempotent(t *testing.T) {
	// Normalizing an already-canonical value is a no-op.
	inputs := []string{"R$ 1.234,56", "150,00", "0,99", "1234.56"}
	for _, in := range inputs {
		once := Money(in, 0)
		twice := Money(once, 0)
		assert.Equal(t, once, twice, "input %q", in)
	}
}

func TestBoolean(t *testing.T) {
	tests := []struct {
		name     string
		in       interface{}
		fallback bool
		want     bool
	}{
		{"native true", true, false, true},
		{"native false", false, true, false},
		{"numeric one", 1, false, true},
		{"numeric zero", 0, true, false},
		{"json number one", float64(1), false, true},
		{"sim", "sim", false, true},
		{"SIM uppercase", "SIM", false, true},
		{"yes", "yes", false, true},
		{"on", "on", false, true},
		{"nao", "nao", true, false},
		{"accented nao", "não", true, false},
		{"no", "NO", true, false},
		{"off", "off", true, false},
		{"string one", "1", false, true},
		{"string zero", "0", true, false},
		{"unrecognized falls back true", "maybe", true, true},
		{"unrecognized falls back false", "maybe", false, false},
		{"nil falls back", nil, true, true},
		{"numeric two falls back", 2, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Boolean(tt.in, tt.fallback))
		})
	}
}

func TestEnum(t *testing.T) {
	allowed := []string{"draft", "submitted", "in_review"}

	assert.Equal(t, "submitted", Enum("submitted", allowed, "draft"))
	assert.Equal(t, "in_review", Enum("IN_REVIEW", allowed, "draft"))
	assert.Equal(t, "draft", Enum("bogus", allowed, "draft"))
	assert.Equal(t, "draft", Enum("", allowed, "draft"))
	assert.Equal(t, "submitted", Enum("  Submitted ", allowed, "draft"))
}

func TestDocumentSlots(t *testing.T) {
	t.Run("absent input", func(t *testing.T) {
		assert.Nil(t, DocumentSlots(nil))
	})

	t.Run("single object", func(t *testing.T) {
		slots := DocumentSlots(map[string]interface{}{
			"name":           "rg.pdf",
			"type":           "application/pdf",
			"size":           float64(2048),
			"encodedPayload": "aGVsbG8=",
			"compressedSize": float64(1024),
		})
		assert.Len(t, slots, 1)
		assert.Equal(t, "rg.pdf", slots[0].Name)
		assert.Equal(t, int64(2048), slots[0].Size)
		assert.Equal(t, int64(1024), slots[0].CompressedSize)
	})

	t.Run("array with missing sub-fields defaulted", func(t *testing.T) {
		slots := DocumentSlots([]interface{}{
			map[string]interface{}{"name": "matricula.pdf"},
			map[string]interface{}{"encodedPayload": "eA=="},
		})
		assert.Len(t, slots, 2)
		assert.Equal(t, "matricula.pdf", slots[0].Name)
		assert.Equal(t, "", slots[0].Type)
		assert.Equal(t, int64(0), slots[0].Size)
		assert.Equal(t, "eA==", slots[1].EncodedPayload)
	})

	t.Run("non-object entries skipped", func(t *testing.T) {
		slots := DocumentSlots([]interface{}{"not-a-doc", 42})
		assert.Nil(t, slots)
	})

	t.Run("scalar input rejected", func(t *testing.T) {
		assert.Nil(t, DocumentSlots("file.pdf"))
	})
}
