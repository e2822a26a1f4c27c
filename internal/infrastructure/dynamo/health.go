package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-notes-nosql/internal/config"
	"github.com/go-notes-nosql/internal/domain"
)

// TableDescriber is the part of the DynamoDB client the readiness check needs.
type TableDescriber interface {
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// HealthCheck reports whether every table and the date index are ACTIVE.
type HealthCheck struct {
	client TableDescriber
	tables config.DynamoTables
}

func NewHealthCheck(client TableDescriber, tables config.DynamoTables) *HealthCheck {
	return &HealthCheck{client: client, tables: tables}
}

func (h *HealthCheck) Check(ctx context.Context) error {
	for _, name := range []string{h.tables.Users, h.tables.Notes} {
		out, err := h.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(name)})
		if err != nil {
			return storeErr("describe "+name, err)
		}
		if out.Table == nil || out.Table.TableStatus != types.TableStatusActive {
			return fmt.Errorf("table %s not active: %w", name, domain.ErrUnavailable)
		}
		if name != h.tables.Notes {
			continue
		}
		for _, idx := range out.Table.GlobalSecondaryIndexes {
			if aws.ToString(idx.IndexName) == indexDate && idx.IndexStatus != types.IndexStatusActive {
				return fmt.Errorf("index %s is %s: %w", indexDate, idx.IndexStatus, domain.ErrUnavailable)
			}
		}
	}
	return nil
}
