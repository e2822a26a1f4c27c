package dynamo

// DynamoDB attribute names shared by key builders and update expressions.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldUserID             = "user_id"
	fieldEmail              = "email"
	fieldNoteID             = "note_id"
	fieldNoteDate           = "note_date"
	fieldIsDeleted          = "is_deleted"
	fieldUpdatedAt          = "updated_at"
	fieldRefreshToken       = "refresh_token"
	fieldRefreshTokenExpiry = "refresh_token_expiry"

	indexEmail = "email-index"
	indexDate  = "date-index"
)
