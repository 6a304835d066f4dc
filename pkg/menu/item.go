package menu

// Item is one visible navbar entry with its link resolved.
type Item struct {
	// Title is the label of the entry.
	Title string `json:"title"`

	// URL is the resolved link, or the default href for placeholders.
	URL string `json:"url"`

	// Endpoint is the endpoint the entry links to, empty for placeholders.
	Endpoint string `json:"endpoint,omitempty"`

	// Items are the visible children of the entry.
	Items []Item `json:"items,omitempty"`
}
