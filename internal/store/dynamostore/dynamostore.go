// Package dynamostore implements store.TodoStore on a single DynamoDB
// table keyed by id.
package dynamostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-api/internal/config"
	"github.com/adanyl0v/go-todo-api/internal/models"
	"github.com/adanyl0v/go-todo-api/internal/store"
)

// API is the subset of *dynamodb.Client the store calls.
type API interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

type Store struct {
	logger zerolog.Logger
	client API
	table  string
}

func New(logger zerolog.Logger, client API, table string) *Store {
	return &Store{
		logger: logger,
		client: client,
		table:  table,
	}
}

// NewClient builds the DynamoDB client shared by every request of the
// process.
func NewClient(ctx context.Context, cfg config.DynamoDBConfig) (*dynamodb.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
		}
	}), nil
}

func (s *Store) PutIfAbsent(ctx context.Context, todo *models.Todo) error {
	if s.table == "" {
		return store.ErrTableNameNotSet
	}

	item, err := attributevalue.MarshalMap(todo)
	if err != nil {
		return fmt.Errorf("failed to marshal todo: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			s.logger.Error().
				Str("todo_id", todo.ID).
				Msg("todo already exists")
			return store.ErrDuplicateID
		}

		s.logger.Error().
			Err(err).
			Str("todo_id", todo.ID).
			Msg("failed to put todo")
		return err
	}
	s.logger.Debug().
		Str("todo_id", todo.ID).
		Msg("put todo")
	return nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*models.Todo, error) {
	if s.table == "" {
		return nil, store.ErrTableNameNotSet
	}

	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.table),
		Key:            idKey(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("todo_id", id).
			Msg("failed to get todo")
		return nil, err
	}
	if len(out.Item) == 0 {
		return nil, store.ErrTodoNotFound
	}

	todo := new(models.Todo)
	err = attributevalue.UnmarshalMap(out.Item, todo)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal todo: %w", err)
	}
	s.logger.Debug().
		Str("todo_id", id).
		Msg("got todo")
	return todo, nil
}

func (s *Store) ListByUserID(ctx context.Context, userID string) ([]*models.Todo, error) {
	if s.table == "" {
		return nil, store.ErrTableNameNotSet
	}

	// A single Scan call stops at 1MB; follow the pages so the
	// filter sees the whole table.
	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName:        aws.String(s.table),
		FilterExpression: aws.String("userId = :userId"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":userId": &types.AttributeValueMemberS{Value: userID},
		},
	})

	todos := make([]*models.Todo, 0)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			s.logger.Error().
				Err(err).
				Str("user_id", userID).
				Msg("failed to scan todos")
			return nil, err
		}

		var batch []*models.Todo
		err = attributevalue.UnmarshalListOfMaps(page.Items, &batch)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal todos: %w", err)
		}
		todos = append(todos, batch...)
	}
	s.logger.Debug().
		Int("count", len(todos)).
		Str("user_id", userID).
		Msg("scanned todos by user id")
	return todos, nil
}

func (s *Store) CompleteIfOwned(ctx context.Context, id, userID string, now time.Time) (*models.Todo, error) {
	if s.table == "" {
		return nil, store.ErrTableNameNotSet
	}

	out, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(s.table),
		Key:                 idKey(id),
		UpdateExpression:    aws.String("SET #status = :status, #updatedAt = :updatedAt"),
		ConditionExpression: aws.String("#userId = :userId"),
		ExpressionAttributeNames: map[string]string{
			"#status":    "status",
			"#updatedAt": "updatedAt",
			"#userId":    "userId",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status":    &types.AttributeValueMemberS{Value: models.StatusCompleted},
			":updatedAt": &types.AttributeValueMemberS{Value: models.FormatTimestamp(now)},
			":userId":    &types.AttributeValueMemberS{Value: userID},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			s.logger.Warn().
				Str("todo_id", id).
				Str("user_id", userID).
				Msg("todo ownership condition failed")
			return nil, store.ErrConditionFailed
		}

		s.logger.Error().
			Err(err).
			Str("todo_id", id).
			Msg("failed to update todo")
		return nil, err
	}

	todo := new(models.Todo)
	err = attributevalue.UnmarshalMap(out.Attributes, todo)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal todo: %w", err)
	}
	s.logger.Debug().
		Str("todo_id", id).
		Msg("completed todo")
	return todo, nil
}

// DeleteByID removes a todo. It is not reachable from any endpoint and
// exists for test cleanup.
func (s *Store) DeleteByID(ctx context.Context, id string) error {
	if s.table == "" {
		return store.ErrTableNameNotSet
	}

	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key:       idKey(id),
	})
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	return nil
}

func idKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}

func isConditionalCheckFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}
