package billing

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney_JSON(t *testing.T) {
	out, err := json.Marshal(struct {
		Total Money `json:"total"`
		Recip Money `json:"recip"`
	}{Total: 25000, Recip: 1250})
	require.NoError(t, err)
	assert.JSONEq(t, `{"total": 250, "recip": 12.5}`, string(out))

	var in struct {
		A Money  `json:"a"`
		B Money  `json:"b"`
		C *Money `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 19.999, "b": "3.10", "c": null}`), &in))
	assert.Equal(t, Money(2000), in.A)
	assert.Equal(t, Money(310), in.B)
	assert.Nil(t, in.C)

	assert.Error(t, json.Unmarshal([]byte(`{"a": "lots"}`), &in))
	assert.Error(t, json.Unmarshal([]byte(`{"a": true}`), &in))
}

func TestMoney_String(t *testing.T) {
	assert.Equal(t, "250.00", Money(25000).String())
	assert.Equal(t, "0.05", Money(5).String())
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		name     string
		in       any
		money    Money
		quantity int64
	}{
		{"float", 12.5, 1250, 12},
		{"int", 3, 300, 3},
		{"numeric string", "7.25", 725, 7},
		{"json number", json.Number("2"), 200, 2},
		{"garbage string", "abc", 0, 0},
		{"negative", -4.0, 0, 0},
		{"nil", nil, 0, 0},
		{"bool", true, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			money, err := CoerceMoney(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.money, money)

			quantity, err := CoerceQuantity(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.quantity, quantity)
		})
	}
}

func TestCoerce_OutOfRange(t *testing.T) {
	// 2^64 + 100 cents would wrap to 1.00 if truncated to 64 bits
	_, err := CoerceMoney("184467440737095517.16")
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = CoerceMoney(1e30)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = CoerceQuantity("18446744073709551617")
	assert.ErrorIs(t, err, ErrOutOfRange)

	quantity, err := CoerceQuantity(json.Number("9223372036854775807"))
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), quantity)

	money, err := CoerceMoney("92233720368547758.07")
	require.NoError(t, err)
	assert.Equal(t, Money(math.MaxInt64), money)
}

func TestMoney_UnmarshalOutOfRange(t *testing.T) {
	var in struct {
		Recip Money `json:"recip"`
	}
	err := json.Unmarshal([]byte(`{"recip": 1e30}`), &in)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, Money(0), in.Recip)

	err = json.Unmarshal([]byte(`{"recip": "-184467440737095517.16"}`), &in)
	assert.ErrorIs(t, err, ErrOutOfRange)
}
