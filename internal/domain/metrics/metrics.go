package metrics

// Click is a product view event sent to the backend.
type Click struct {
	ProductID string
}

// TopItem is an entry of the most-clicked products ranking.
type TopItem struct {
	ProductID string
	Title     string
	Clicks    int64
}

// CategoryRank is an entry of the category ranking.
type CategoryRank struct {
	CategoryID string
	Name       string
	Clicks     int64
}
