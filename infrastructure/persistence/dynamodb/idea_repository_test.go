package dynamodb

import (
	"context"
	"testing"
	"time"

	"instaideas-backend/domain/idea"
	apperrors "instaideas-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeDynamo struct {
	putInput    *dynamodb.PutItemInput
	putErr      error
	getOutput   *dynamodb.GetItemOutput
	getErr      error
	updateInput *dynamodb.UpdateItemInput
	updateErr   error
}

func (f *fakeDynamo) PutItem(_ context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.putInput = params
	if f.putErr != nil {
		return nil, f.putErr
	}
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) GetItem(_ context.Context, params *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.getOutput != nil {
		return f.getOutput, nil
	}
	return &dynamodb.GetItemOutput{}, nil
}

func (f *fakeDynamo) UpdateItem(_ context.Context, params *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.updateInput = params
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &dynamodb.UpdateItemOutput{}, nil
}

func testRecord() idea.Record {
	return idea.NewRecord(
		"user-1",
		"audio/user-1/2024-03-09T17-41-58-idea.m4a",
		"I want an app for X",
		idea.Degraded("not json"),
		time.Date(2024, 3, 9, 17, 42, 5, 0, time.UTC),
	)
}

func TestIdeaRepository_SaveMarshalsFullRecord(t *testing.T) {
	fake := &fakeDynamo{}
	repo := NewIdeaRepository(fake, "InstaIdeas", zap.NewNop())

	require.NoError(t, repo.Save(context.Background(), testRecord()))

	require.NotNil(t, fake.putInput)
	assert.Equal(t, "InstaIdeas", *fake.putInput.TableName)

	var roundTripped idea.Record
	require.NoError(t, attributevalue.UnmarshalMap(fake.putInput.Item, &roundTripped))
	assert.Equal(t, "idea#2024-03-09T17:42:05Z", roundTripped.IdeaID)
	assert.Equal(t, idea.ExtractedFields{"error": "invalid JSON", "raw": "not json"}, roundTripped.ExtractedFields)
}

func TestIdeaRepository_GetMissingIsNotFound(t *testing.T) {
	repo := NewIdeaRepository(&fakeDynamo{}, "InstaIdeas", zap.NewNop())

	_, err := repo.Get(context.Background(), "user-1", "idea#never-written")

	assert.True(t, apperrors.IsNotFound(err))
}

func TestIdeaRepository_GetReturnsRecord(t *testing.T) {
	item, err := attributevalue.MarshalMap(testRecord())
	require.NoError(t, err)
	fake := &fakeDynamo{getOutput: &dynamodb.GetItemOutput{Item: item}}
	repo := NewIdeaRepository(fake, "InstaIdeas", zap.NewNop())

	record, err := repo.Get(context.Background(), "user-1", "idea#2024-03-09T17:42:05Z")

	require.NoError(t, err)
	assert.Equal(t, "user-1", record.UserID)
	assert.Equal(t, "I want an app for X", record.Transcript)
}

func TestIdeaRepository_AttachFeedbackIsConditional(t *testing.T) {
	fake := &fakeDynamo{}
	repo := NewIdeaRepository(fake, "InstaIdeas", zap.NewNop())

	feedback := idea.Feedback{Helped: true, Comment: "useful", FeedbackAt: "2024-03-10T09:00:00Z"}
	require.NoError(t, repo.AttachFeedback(context.Background(), "user-1", "idea#2024-03-09T17:42:05Z", feedback))

	require.NotNil(t, fake.updateInput)
	assert.NotNil(t, fake.updateInput.ConditionExpression)
	assert.Contains(t, *fake.updateInput.UpdateExpression, "SET")
}

func TestIdeaRepository_AttachFeedbackToMissingRecordIsNotFound(t *testing.T) {
	fake := &fakeDynamo{updateErr: &types.ConditionalCheckFailedException{}}
	repo := NewIdeaRepository(fake, "InstaIdeas", zap.NewNop())

	err := repo.AttachFeedback(context.Background(), "user-1", "idea#never-written", idea.Feedback{Helped: false})

	assert.True(t, apperrors.IsNotFound(err))
}
