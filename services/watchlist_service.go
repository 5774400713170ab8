package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"reelmatch_server/models"
	"reelmatch_server/utils"
)

// WatchlistService manages shared watchlists. Member and movie fields
// are append-only set unions, so adds are idempotent and concurrent
// appends from two members do not need locking.
type WatchlistService struct {
	Dynamo *DynamoService
}

func watchlistKey(watchlistID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"watchlistId": &types.AttributeValueMemberS{Value: watchlistID},
	}
}

// ForMember returns every watchlist the user belongs to.
func (ws *WatchlistService) ForMember(ctx context.Context, username string) ([]models.Watchlist, error) {
	var watchlists []models.Watchlist
	err := ws.Dynamo.ScanWithFilter(ctx, models.Watchlist{}.TableName(), func(item map[string]types.AttributeValue) bool {
		return utils.StringListContains(item, "members", username)
	}, &watchlists)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch watchlists for %s: %w", username, err)
	}
	return watchlists, nil
}

// Create makes a new watchlist with the creator as its only member.
func (ws *WatchlistService) Create(ctx context.Context, name, creator string) (*models.Watchlist, error) {
	if name == "" || creator == "" {
		return nil, fmt.Errorf("name and creator are required")
	}

	watchlist := &models.Watchlist{
		WatchlistID: uuid.NewString(),
		Name:        name,
		Members:     []string{creator},
		MovieIDs:    []string{},
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	if err := ws.Dynamo.PutItem(ctx, models.Watchlist{}.TableName(), watchlist); err != nil {
		return nil, fmt.Errorf("failed to create watchlist: %w", err)
	}
	return watchlist, nil
}

// AddMember appends a member. Adding an existing member is a no-op.
func (ws *WatchlistService) AddMember(ctx context.Context, watchlistID, username string) (*models.Watchlist, error) {
	return ws.appendUnique(ctx, watchlistID, "members", username)
}

// AddMovie appends a movie ID. Adding an existing ID is a no-op.
func (ws *WatchlistService) AddMovie(ctx context.Context, watchlistID, movieID string) (*models.Watchlist, error) {
	return ws.appendUnique(ctx, watchlistID, "movieIds", movieID)
}

func (ws *WatchlistService) appendUnique(ctx context.Context, watchlistID, field, value string) (*models.Watchlist, error) {
	item, err := ws.Dynamo.GetItem(ctx, models.Watchlist{}.TableName(), watchlistKey(watchlistID))
	if err != nil {
		return nil, err
	}

	var watchlist models.Watchlist
	if err := attributevalue.UnmarshalMap(item, &watchlist); err != nil {
		return nil, fmt.Errorf("failed to unmarshal watchlist: %w", err)
	}

	list := watchlist.Members
	if field == "movieIds" {
		list = watchlist.MovieIDs
	}
	for _, entry := range list {
		if entry == value {
			return &watchlist, nil
		}
	}
	list = append(list, value)

	listAttr, err := attributevalue.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", field, err)
	}

	attrs, err := ws.Dynamo.UpdateItem(ctx, models.Watchlist{}.TableName(),
		fmt.Sprintf("SET %s = :list", field),
		watchlistKey(watchlistID),
		map[string]types.AttributeValue{":list": listAttr},
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update watchlist: %w", err)
	}

	var updated models.Watchlist
	if err := attributevalue.UnmarshalMap(attrs, &updated); err != nil {
		return nil, fmt.Errorf("failed to unmarshal watchlist: %w", err)
	}
	return &updated, nil
}
