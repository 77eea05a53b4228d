package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorySerialize(t *testing.T) {
	cat := Category{ID: 7, Name: "kitchen"}

	data, err := json.Marshal(cat.Serialize())
	require.NoError(t, err)
	assert.JSONEq(t, `{"id": 7, "name": "kitchen"}`, string(data))
}

func TestItemSerialize(t *testing.T) {
	tests := []struct {
		name string
		item Item
		want string
	}{
		{
			name: "uses title and cat_id field names",
			item: Item{ID: 3, Name: "fork", Description: "four tines", CategoryID: 7, UserID: 1},
			want: `{"id": 3, "title": "fork", "description": "four tines", "cat_id": 7}`,
		},
		{
			name: "keeps empty description",
			item: Item{ID: 4, Name: "spork", CategoryID: 2},
			want: `{"id": 4, "title": "spork", "description": "", "cat_id": 2}`,
		},
		{
			name: "ignores preloaded associations",
			item: Item{ID: 5, Name: "razor", CategoryID: 9, Category: Category{ID: 9, Name: "bathroom"}, User: User{ID: 1, Email: "admin@example.com"}},
			want: `{"id": 5, "title": "razor", "description": "", "cat_id": 9}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.item.Serialize())
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}

func TestSerializeSlicesNeverNull(t *testing.T) {
	data, err := json.Marshal(SerializeItems(nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	data, err = json.Marshal(SerializeCategories(nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}
