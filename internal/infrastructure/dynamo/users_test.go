package dynamo

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-notes-nosql/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserCreate_LowercasesEmailAndGuardsDuplicates(t *testing.T) {
	api := &fakeAPI{}
	repo := NewUserRepo(api, "users")

	u := &domain.User{UserID: "u1", Email: "Alice@Example.COM"}
	require.NoError(t, repo.Create(context.Background(), u))

	require.Len(t, api.puts, 1)
	assert.Equal(t, &types.AttributeValueMemberS{Value: "alice@example.com"}, api.puts[0].Item["email"])
	assert.Equal(t, "attribute_not_exists(#id)", aws.ToString(api.puts[0].ConditionExpression))
}

func TestUserCreate_Conflict(t *testing.T) {
	api := &fakeAPI{err: &types.ConditionalCheckFailedException{Message: aws.String("exists")}}
	repo := NewUserRepo(api, "users")

	err := repo.Create(context.Background(), &domain.User{UserID: "u1"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestGetByEmail_QueriesLowercased(t *testing.T) {
	api := &fakeAPI{}
	repo := NewUserRepo(api, "users")

	_, err := repo.GetByEmail(context.Background(), "Bob@Example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.Len(t, api.queries, 1)
	assert.Equal(t, "email-index", aws.ToString(api.queries[0].IndexName))
	assert.Equal(t, &types.AttributeValueMemberS{Value: "bob@example.com"}, api.queries[0].ExpressionAttributeValues[":v"])
}

func TestUserGet_StoreError(t *testing.T) {
	repo := NewUserRepo(&fakeAPI{err: errors.New("boom")}, "users")
	_, err := repo.Get(context.Background(), "u1")
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestUpdateRefreshToken(t *testing.T) {
	api := &fakeAPI{}
	repo := NewUserRepo(api, "users")

	require.NoError(t, repo.UpdateRefreshToken(context.Background(), "u1", "tok", 1700000000))

	require.Len(t, api.updates, 1)
	u := api.updates[0]
	assert.Equal(t, "attribute_exists(#id)", aws.ToString(u.ConditionExpression))
	assert.Equal(t, strKey("user_id", "u1"), u.Key)

	// Sorted fields: refresh_token, refresh_token_expiry, updated_at.
	assert.Equal(t, "SET #f0 = :v0, #f1 = :v1, #f2 = :v2", aws.ToString(u.UpdateExpression))
	assert.Equal(t, "refresh_token", u.ExpressionAttributeNames["#f0"])
	assert.Equal(t, &types.AttributeValueMemberS{Value: "tok"}, u.ExpressionAttributeValues[":v0"])
	assert.Equal(t, &types.AttributeValueMemberN{Value: "1700000000"}, u.ExpressionAttributeValues[":v1"])
}

func TestUpdateRefreshToken_UnknownUser(t *testing.T) {
	api := &fakeAPI{err: &types.ConditionalCheckFailedException{Message: aws.String("no")}}
	repo := NewUserRepo(api, "users")

	err := repo.UpdateRefreshToken(context.Background(), "ghost", "tok", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
