package unique

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teambook/internal/domain"
)

func intList(items ...int) *List[int] {
	l := New(func(a, b int) bool { return a == b })
	for _, it := range items {
		_ = l.Add(it)
	}
	return l
}

func TestAdd_Duplikat(t *testing.T) {
	l := intList(1, 2)
	require.ErrorIs(t, l.Add(2), domain.ErrDuplicate)
	assert.Equal(t, 2, l.Len())
}

func TestSet(t *testing.T) {
	tests := []struct {
		name    string
		old     int
		repl    int
		wantErr error
		want    []int
	}{
		{"ersetzen an gleicher Position", 2, 5, nil, []int{1, 5, 3}},
		{"durch sich selbst ersetzen", 2, 2, nil, []int{1, 2, 3}},
		{"alt fehlt", 9, 5, domain.ErrNotFound, []int{1, 2, 3}},
		{"kollision mit anderem Element", 2, 3, domain.ErrDuplicate, []int{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := intList(1, 2, 3)
			err := l.Set(tt.old, tt.repl)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, l.Items())
		})
	}
}

func TestRemove(t *testing.T) {
	l := intList(1, 2, 3)
	require.NoError(t, l.Remove(2))
	assert.Equal(t, []int{1, 3}, l.Items())
	require.ErrorIs(t, l.Remove(2), domain.ErrNotFound)
}

func TestSetAll_DuplikatLaesstListeUnveraendert(t *testing.T) {
	l := intList(1)
	require.ErrorIs(t, l.SetAll([]int{4, 5, 4}), domain.ErrDuplicate)
	assert.Equal(t, []int{1}, l.Items())

	require.NoError(t, l.SetAll([]int{4, 5}))
	assert.Equal(t, []int{4, 5}, l.Items())
}

func TestView_SiehtSpaetereAenderungen(t *testing.T) {
	l := intList(1)
	v := l.View()
	require.NoError(t, l.Add(2))
	l.Restore([]int{7, 8, 9})

	assert.Equal(t, 3, v.Len())
	assert.Equal(t, 8, v.At(1))

	var seen []int
	for _, it := range v.All() {
		seen = append(seen, it)
	}
	assert.Equal(t, []int{7, 8, 9}, seen)
}

func TestItems_IstKopie(t *testing.T) {
	l := intList(1, 2)
	items := l.Items()
	items[0] = 99
	assert.Equal(t, []int{1, 2}, l.Items())
}
