package domain

// SearchResult holds the two independent result sets of a free-text
// search. User results are sanitized; post results honor the discovery
// flag. No ranking merge is attempted between the two.
type SearchResult struct {
	Users []PublicUser `json:"users"`
	Posts []Post       `json:"posts"`
}
