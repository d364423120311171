package dynamodb

import (
	"context"
	"errors"

	"instaideas-backend/application/ports"
	"instaideas-backend/domain/idea"
	apperrors "instaideas-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// DynamoAPI is the subset of the DynamoDB client used by the repository.
// Narrowing the dependency keeps substitution with test doubles
// straightforward.
type DynamoAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// IdeaRepository implements idea record persistence on a DynamoDB table
// with partition key userId and sort key ideaId.
type IdeaRepository struct {
	client    DynamoAPI
	tableName string
	logger    *zap.Logger
}

// NewIdeaRepository creates a new IdeaRepository
func NewIdeaRepository(client DynamoAPI, tableName string, logger *zap.Logger) ports.IdeaRepository {
	return &IdeaRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// Save writes the record unconditionally. No existence check, no
// conditional write: uniqueness relies on the second-resolution timestamp
// inside the ideaId.
func (r *IdeaRepository) Save(ctx context.Context, record idea.Record) error {
	av, err := attributevalue.MarshalMap(record)
	if err != nil {
		return apperrors.NewStorageError("marshal record", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		r.logger.Error("Failed to put idea record",
			zap.String("userID", record.UserID),
			zap.String("ideaID", record.IdeaID),
			zap.Error(err),
		)
		return apperrors.NewStorageError("put item", err)
	}

	r.logger.Info("Persisted idea record",
		zap.String("userID", record.UserID),
		zap.String("ideaID", record.IdeaID),
	)

	return nil
}

// Get retrieves a record by its primary key. A point lookup, no scan.
func (r *IdeaRepository) Get(ctx context.Context, userID, ideaID string) (*idea.Record, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       recordKey(userID, ideaID),
	})
	if err != nil {
		r.logger.Error("Failed to get idea record",
			zap.String("userID", userID),
			zap.String("ideaID", ideaID),
			zap.Error(err),
		)
		return nil, apperrors.NewStorageError("get item", err)
	}

	if len(out.Item) == 0 {
		return nil, apperrors.NewNotFoundError("idea")
	}

	var record idea.Record
	if err := attributevalue.UnmarshalMap(out.Item, &record); err != nil {
		return nil, apperrors.NewStorageError("unmarshal record", err)
	}

	return &record, nil
}

// AttachFeedback sets the feedback sub-document on an existing record. The
// update is conditional on the record already existing, so the amendment
// path can never create a new, incomplete item. Ingestion fields are left
// untouched.
func (r *IdeaRepository) AttachFeedback(ctx context.Context, userID, ideaID string, feedback idea.Feedback) error {
	update := expression.Set(expression.Name("feedback"), expression.Value(feedback))
	condition := expression.AttributeExists(expression.Name("createdAt"))

	expr, err := expression.NewBuilder().
		WithUpdate(update).
		WithCondition(condition).
		Build()
	if err != nil {
		return apperrors.NewStorageError("build update expression", err)
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       recordKey(userID, ideaID),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return apperrors.NewNotFoundError("idea")
		}
		r.logger.Error("Failed to attach feedback",
			zap.String("userID", userID),
			zap.String("ideaID", ideaID),
			zap.Error(err),
		)
		return apperrors.NewStorageError("update item", err)
	}

	r.logger.Info("Attached feedback",
		zap.String("userID", userID),
		zap.String("ideaID", ideaID),
		zap.Bool("helped", feedback.Helped),
	)

	return nil
}

func recordKey(userID, ideaID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
		"ideaId": &types.AttributeValueMemberS{Value: ideaID},
	}
}
