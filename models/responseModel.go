package models

// Message carries the same text in both supported locales.
type Message struct {
	En string `json:"en"`
	Ar string `json:"ar"`
}

// Result is the envelope every endpoint answers with.
type Result struct {
	Status  bool        `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Message Message     `json:"message"`
}

// Page is the data shape of paginated listings.
type Page struct {
	Items       interface{} `json:"items"`
	Total       int64       `json:"total"`
	Page        int         `json:"page"`
	Page_size   int         `json:"page_size"`
	Total_pages int64       `json:"total_pages"`
	Showing     Message     `json:"showing"`
}
