package models

// Watchlist is a shared collection of movie IDs. Members and movies are
// append-only set-union fields.
type Watchlist struct {
	WatchlistID string   `dynamodbav:"watchlistId" json:"watchlistId"` // Partition Key (PK)
	Name        string   `dynamodbav:"name" json:"name"`
	Members     []string `dynamodbav:"members" json:"members"`
	MovieIDs    []string `dynamodbav:"movieIds" json:"movieIds"`
	CreatedAt   string   `dynamodbav:"createdAt" json:"createdAt"`
}

// TableName returns the DynamoDB table name for the Watchlist model
func (Watchlist) TableName() string {
	return "Watchlists"
}
