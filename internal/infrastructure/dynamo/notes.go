package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-notes-nosql/internal/domain"
)

// NoteRepo provides typed DynamoDB operations for the notes table and its date index.
type NoteRepo struct {
	client    API
	tableName string
	now       func() time.Time
}

func NewNoteRepo(client API, tableName string) *NoteRepo {
	return &NoteRepo{client: client, tableName: tableName, now: time.Now}
}

func (r *NoteRepo) Put(ctx context.Context, n *domain.Note) error {
	item, err := attributevalue.MarshalMap(n)
	if err != nil {
		return fmt.Errorf("marshal note: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.tableName),
		Item:                     item,
		ConditionExpression:      aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{"#id": fieldNoteID},
	})
	if err != nil {
		if isConditionFailed(err) {
			return fmt.Errorf("note %s: %w", n.NoteID, domain.ErrConflict)
		}
		return storeErr("put note", err)
	}
	return nil
}

// Get returns the note owned by userID. Soft-deleted notes are reported as not found.
func (r *NoteRepo) Get(ctx context.Context, userID, noteID string) (*domain.Note, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey(fieldUserID, userID, fieldNoteID, noteID),
	})
	if err != nil {
		return nil, storeErr("get note", err)
	}
	if out.Item == nil {
		return nil, fmt.Errorf("note not found: %w", domain.ErrNotFound)
	}
	var n domain.Note
	if err := attributevalue.UnmarshalMap(out.Item, &n); err != nil {
		return nil, fmt.Errorf("unmarshal note: %w", err)
	}
	if n.IsDeleted {
		return nil, fmt.Errorf("note not found: %w", domain.ErrNotFound)
	}
	return &n, nil
}

// Update applies field updates to a live note and returns the stored result.
func (r *NoteRepo) Update(ctx context.Context, userID, noteID string, updates map[string]interface{}) (*domain.Note, error) {
	updates[fieldUpdatedAt] = r.now().UTC()
	out, err := r.updateLive(ctx, userID, noteID, updates, types.ReturnValueAllNew)
	if err != nil {
		return nil, err
	}
	var n domain.Note
	if err := attributevalue.UnmarshalMap(out.Attributes, &n); err != nil {
		return nil, fmt.Errorf("unmarshal note: %w", err)
	}
	return &n, nil
}

// MarkDeleted soft-deletes a live note. The row stays and is filtered out of reads.
func (r *NoteRepo) MarkDeleted(ctx context.Context, userID, noteID string) error {
	_, err := r.updateLive(ctx, userID, noteID, map[string]interface{}{
		fieldIsDeleted: true,
		fieldUpdatedAt: r.now().UTC(),
	}, types.ReturnValueNone)
	return err
}

func (r *NoteRepo) updateLive(ctx context.Context, userID, noteID string, updates map[string]interface{}, rv types.ReturnValue) (*dynamodb.UpdateItemOutput, error) {
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return nil, err
	}
	ue.Names["#id"] = fieldNoteID
	ue.Names["#del"] = fieldIsDeleted
	ue.Values[":live"] = &types.AttributeValueMemberBOOL{Value: false}
	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       compositeKey(fieldUserID, userID, fieldNoteID, noteID),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("attribute_exists(#id) AND #del = :live"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
		ReturnValues:              rv,
	})
	if err != nil {
		if isConditionFailed(err) {
			return nil, fmt.Errorf("note not found: %w", domain.ErrNotFound)
		}
		return nil, storeErr("update note", err)
	}
	return out, nil
}

// QueryByDate reads up to limit rows of userID's notes from the date index in
// ascending note_date order, restricted to rng and resuming strictly after after.
// Deleted rows are returned; filtering is the caller's job.
func (r *NoteRepo) QueryByDate(ctx context.Context, userID string, rng domain.DateRange, after *domain.NoteKey, limit int) ([]domain.Note, error) {
	if rng.From != nil && rng.To != nil && *rng.To <= *rng.From {
		return nil, nil
	}
	cond, values := dateKeyCondition(userID, rng)
	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(indexDate),
		KeyConditionExpression:    aws.String(cond),
		ExpressionAttributeValues: values,
		ScanIndexForward:          aws.Bool(true),
	}
	if after != nil {
		input.ExclusiveStartKey = map[string]types.AttributeValue{
			fieldUserID:   &types.AttributeValueMemberS{Value: after.UserID},
			fieldNoteID:   &types.AttributeValueMemberS{Value: after.NoteID},
			fieldNoteDate: numAttr(after.NoteDate),
		}
	}
	return r.collect(ctx, input, limit)
}

// QueryByOwner reads up to limit rows of userID's notes in base-table order.
func (r *NoteRepo) QueryByOwner(ctx context.Context, userID string, after *domain.NoteKey, limit int) ([]domain.Note, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
	}
	if after != nil {
		input.ExclusiveStartKey = compositeKey(fieldUserID, after.UserID, fieldNoteID, after.NoteID)
	}
	return r.collect(ctx, input, limit)
}

// collect follows LastEvaluatedKey until limit rows are gathered or the partition ends.
func (r *NoteRepo) collect(ctx context.Context, input *dynamodb.QueryInput, limit int) ([]domain.Note, error) {
	if limit <= 0 {
		return nil, nil
	}
	input.Limit = aws.Int32(int32(limit))
	p := dynamodb.NewQueryPaginator(r.client, input)
	notes := make([]domain.Note, 0, limit)
	for p.HasMorePages() && len(notes) < limit {
		out, err := p.NextPage(ctx)
		if err != nil {
			return nil, storeErr("query notes", err)
		}
		var page []domain.Note
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("unmarshal notes: %w", err)
		}
		notes = append(notes, page...)
	}
	if len(notes) > limit {
		notes = notes[:limit]
	}
	return notes, nil
}

// dateKeyCondition translates a half-open range into a key condition on note_date.
func dateKeyCondition(userID string, rng domain.DateRange) (string, map[string]types.AttributeValue) {
	values := map[string]types.AttributeValue{
		":uid": &types.AttributeValueMemberS{Value: userID},
	}
	switch {
	case rng.From != nil && rng.To != nil:
		values[":lo"] = numAttr(*rng.From)
		values[":hi"] = numAttr(*rng.To - 1)
		return "user_id = :uid AND note_date BETWEEN :lo AND :hi", values
	case rng.From != nil:
		values[":lo"] = numAttr(*rng.From)
		return "user_id = :uid AND note_date >= :lo", values
	case rng.To != nil:
		values[":hi"] = numAttr(*rng.To)
		return "user_id = :uid AND note_date < :hi", values
	default:
		return "user_id = :uid", values
	}
}
