// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package menu

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Category
		wantErr bool
	}{
		{name: "lower", in: "espresso", want: Espresso},
		{name: "mixed case and spaces", in: "  TeaVana ", want: Teavana},
		{name: "desert", in: "desert", want: Desert},
		{name: "unknown", in: "bagels", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCategory(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownCategory)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategoryTitleAndIndex(t *testing.T) {
	assert.Equal(t, "Frappuccino", Frappuccino.Title())
	assert.Equal(t, "bogus", Category("bogus").Title())
	assert.Equal(t, 0, Espresso.Index())
	assert.Equal(t, 4, Desert.Index())
	assert.Equal(t, -1, Category("bogus").Index())
}

func TestItemUnmarshalID(t *testing.T) {
	var items []Item
	raw := `[{"id": 7, "name": "Latte"}, {"id": "abc", "name": "Mocha", "isSoldOut": true}, {"name": "Tea"}]`
	require.NoError(t, json.Unmarshal([]byte(raw), &items))

	require.Len(t, items, 3)
	assert.Equal(t, ID("7"), items[0].ID)
	assert.False(t, items[0].IsSoldOut)
	assert.Equal(t, ID("abc"), items[1].ID)
	assert.True(t, items[1].IsSoldOut)
	assert.Equal(t, ID(""), items[2].ID)

	var bad Item
	assert.Error(t, json.Unmarshal([]byte(`{"id": {"x": 1}}`), &bad))
}

func TestValidateName(t *testing.T) {
	existing := []Item{{ID: "1", Name: "Americano"}, {ID: "2", Name: "Latte"}}

	name, err := ValidateName("  Mocha  ", existing, true, "")
	require.NoError(t, err)
	assert.Equal(t, "Mocha", name)

	_, err = ValidateName("   ", existing, true, "")
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = ValidateName("Latte", existing, true, "")
	assert.ErrorIs(t, err, ErrDuplicateName)

	_, err = ValidateName("Latte", existing, false, "")
	assert.NoError(t, err)

	// Renaming an item to its current name is not a duplicate of itself.
	_, err = ValidateName("Latte", existing, true, "2")
	assert.NoError(t, err)
	_, err = ValidateName("Latte", existing, true, "1")
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestHelpers(t *testing.T) {
	items := []Item{{ID: "a"}, {ID: "b", IsSoldOut: true}, {ID: "c"}}
	assert.Equal(t, 2, Available(items))
	assert.Equal(t, 1, Find(items, "b"))
	assert.Equal(t, -1, Find(items, "z"))

	m := CategoryMap{Espresso: items}
	c := m.Clone()
	c[Espresso][0].Name = "changed"
	assert.Empty(t, m[Espresso][0].Name)
	assert.Nil(t, CloneItems(nil))
}
