package openai

// Model describes one entry in the model listing.
type Model struct {
	ID      string `json:"id"`
	Object  string `json:"object"` // Always "model"
	Created int64  `json:"created"`
	OwnedBy string `json:"owned_by"`
}

// ModelList is the response envelope for the model listing.
type ModelList struct {
	Object string  `json:"object"` // Always "list"
	Data   []Model `json:"data"`
}

// NewModelList builds the listing for the configured model ids.
func NewModelList(ids []string, created int64, ownedBy string) ModelList {
	list := ModelList{Object: "list", Data: make([]Model, 0, len(ids))}
	for _, id := range ids {
		list.Data = append(list.Data, Model{
			ID:      id,
			Object:  "model",
			Created: created,
			OwnedBy: ownedBy,
		})
	}
	return list
}
