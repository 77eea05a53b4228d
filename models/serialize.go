package models

// CategoryJSON is the wire shape of a category. API clients depend on these
// field names.
type CategoryJSON struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// ItemJSON is the wire shape of an item. The item name travels as "title" and
// its category id as "cat_id".
type ItemJSON struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	CatID       uint   `json:"cat_id"`
}

func (c Category) Serialize() CategoryJSON {
	return CategoryJSON{ID: c.ID, Name: c.Name}
}

func (i Item) Serialize() ItemJSON {
	return ItemJSON{
		ID:          i.ID,
		Title:       i.Name,
		Description: i.Description,
		CatID:       i.CategoryID,
	}
}

func SerializeCategories(categories []Category) []CategoryJSON {
	out := make([]CategoryJSON, 0, len(categories))
	for _, c := range categories {
		out = append(out, c.Serialize())
	}
	return out
}

func SerializeItems(items []Item) []ItemJSON {
	out := make([]ItemJSON, 0, len(items))
	for _, i := range items {
		out = append(out, i.Serialize())
	}
	return out
}
