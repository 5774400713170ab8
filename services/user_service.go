package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"reelmatch_server/models"
)

// ErrUsernameTaken is returned when a username claim loses to an
// earlier one.
var ErrUsernameTaken = errors.New("username already taken")

// UserService handles username registration. The username is the
// record's partition key, so a conditional put is the uniqueness check.
type UserService struct {
	Dynamo *DynamoService
}

// Exists reports whether the username has been claimed.
func (us *UserService) Exists(ctx context.Context, username string) (bool, error) {
	key := map[string]types.AttributeValue{
		"username": &types.AttributeValueMemberS{Value: username},
	}
	_, err := us.Dynamo.GetItem(ctx, models.UserRecord{}.TableName(), key)
	if errors.Is(err, ErrItemNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Save claims a username, returning ErrUsernameTaken on conflict.
func (us *UserService) Save(ctx context.Context, username string) error {
	if username == "" {
		return fmt.Errorf("username is required")
	}

	record := models.UserRecord{
		Username:  username,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	err := us.Dynamo.PutItemIfAbsent(ctx, models.UserRecord{}.TableName(), record, "username")
	if errors.Is(err, ErrItemExists) {
		return ErrUsernameTaken
	}
	return err
}
