package models

// UserRecord claims a username. The username is the partition key, so a
// conditional put is the uniqueness check.
type UserRecord struct {
	Username  string `dynamodbav:"username" json:"username"` // Partition Key (PK)
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"`
}

// TableName returns the DynamoDB table name for the UserRecord model
func (UserRecord) TableName() string {
	return "Users"
}
