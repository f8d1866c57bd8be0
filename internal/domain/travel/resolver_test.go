package travel

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	r := NewDefaultResolver()

	tests := []struct {
		code string
		ok   bool
		area string
		fee  int
	}{
		{code: "8001", ok: true, area: "City Bowl & Atlantic Seaboard", fee: 300},
		{code: " 7700 ", ok: true, area: "Southern Suburbs", fee: 350},
		{code: "7299", ok: true, area: "Overberg", fee: 900},
		{code: "9999"},
		{code: "800"},
		{code: "80011"},
		{code: "80a1"},
		{code: ""},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			area, ok := r.Resolve(tt.code)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.area, area.Name)
				assert.Equal(t, tt.fee, area.Fee)
			}
		})
	}
}

func TestResolve_Memoizes(t *testing.T) {
	r := NewResolver([]Range{{From: 1000, To: 1000, Area: Area{Name: "Test", Fee: 10}}})

	_, ok := r.Resolve("1000")
	require.True(t, ok)
	_, _ = r.Resolve("1234")

	r.mu.RLock()
	defer r.mu.RUnlock()
	assert.Len(t, r.memo, 2)
	assert.True(t, r.memo["1000"].ok)
	assert.False(t, r.memo["1234"].ok)
}

func TestResolve_MalformedCodesAreNotMemoized(t *testing.T) {
	r := NewDefaultResolver()

	for i := 0; i < 5000; i++ {
		_, ok := r.Resolve(fmt.Sprintf("junk-%d", i))
		require.False(t, ok)
	}
	_, ok := r.Resolve(" 8001 ")
	require.True(t, ok)

	r.mu.RLock()
	defer r.mu.RUnlock()
	assert.Len(t, r.memo, 1)
}

func TestFee(t *testing.T) {
	r := NewDefaultResolver()

	fee := r.Fee("7600")
	require.NotNil(t, fee)
	assert.Equal(t, 600, *fee)
	assert.Nil(t, r.Fee("0000"))
}
