package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatRupiah(t *testing.T) {
	assert.Equal(t, "0", formatRupiah(0))
	assert.Equal(t, "999", formatRupiah(999))
	assert.Equal(t, "10.000", formatRupiah(10000))
	assert.Equal(t, "1.250.000", formatRupiah(1250000))
	assert.Equal(t, "-10.000", formatRupiah(-10000))
}

func TestFormatPaidAt(t *testing.T) {
	// 22:13 UTC is 05:13 the next day in WIB.
	assert.Equal(t, "15 November 2023, 05.13", formatPaidAt("2023-11-14T22:13:20Z"))
	assert.Equal(t, "not-a-timestamp", formatPaidAt("not-a-timestamp"))
}
