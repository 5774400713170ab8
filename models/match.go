package models

// Match statuses. Transitions are monotonic: pending -> active -> finished.
const (
	MatchStatusPending  = "pending"
	MatchStatusActive   = "active"
	MatchStatusFinished = "finished"
)

// Match modes. Infinite is the canonical mode; questionnaire is the
// fixed-deck variant with per-movie answers and a fallback matcher.
const (
	MatchModeInfinite      = "infinite"
	MatchModeQuestionnaire = "questionnaire"
)

// Swipe directions. Only right swipes are ever persisted.
const (
	SwipeRight = "right"
	SwipeLeft  = "left"
)

// Questionnaire answer values, one per deck position.
const (
	AnswerLove    = "love"
	AnswerLike    = "like"
	AnswerDislike = "dislike"
	AnswerUnseen  = "unseen"
)

// MatchSchemaVersion tags stored records so later schema changes can
// migrate on read.
const MatchSchemaVersion = 1

// QuestionnaireDeckSize is the fixed number of movies each participant
// judges in questionnaire mode.
const QuestionnaireDeckSize = 12

// Match is the shared record for one two-party pairing attempt. Both
// participants read-modify-write it through DynamoDB; each mutates only
// the list fields it owns.
type Match struct {
	MatchID          string   `dynamodbav:"matchId" json:"matchId"` // Partition Key (PK)
	SchemaVersion    int      `dynamodbav:"schemaVersion" json:"schemaVersion"`
	Mode             string   `dynamodbav:"mode" json:"mode"`
	Users            []string `dynamodbav:"users" json:"users"` // [initiator, invitee]
	Status           string   `dynamodbav:"status" json:"status"`
	Initiator        string   `dynamodbav:"initiator" json:"initiator"`
	Invitee          string   `dynamodbav:"invitee" json:"invitee"`
	InitiatorSwipes  []string `dynamodbav:"initiatorSwipes" json:"initiatorSwipes"`
	InviteeSwipes    []string `dynamodbav:"inviteeSwipes" json:"inviteeSwipes"`
	InitiatorMovies  []string `dynamodbav:"initiatorMovies" json:"initiatorMovies"`
	InviteeMovies    []string `dynamodbav:"inviteeMovies" json:"inviteeMovies"`
	InitiatorAnswers []string `dynamodbav:"initiatorAnswers" json:"initiatorAnswers"`
	InviteeAnswers   []string `dynamodbav:"inviteeAnswers" json:"inviteeAnswers"`
	CurrentIndex     int      `dynamodbav:"currentIndex" json:"currentIndex"`
	ResultMovieID    string   `dynamodbav:"resultMovieId,omitempty" json:"resultMovieId,omitempty"`
	CreatedAt        string   `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt        string   `dynamodbav:"updatedAt" json:"updatedAt"`
}

// TableName returns the DynamoDB table name for the Match model
func (Match) TableName() string {
	return "Matches"
}

// IsParticipant reports whether username is one of the two participants.
func (m *Match) IsParticipant(username string) bool {
	return username == m.Initiator || username == m.Invitee
}

// ValidAnswer reports whether a questionnaire answer value is allowed.
func ValidAnswer(answer string) bool {
	switch answer {
	case AnswerLove, AnswerLike, AnswerDislike, AnswerUnseen:
		return true
	}
	return false
}
