package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"eventsapi/internal/domain"
)

// DynamoDBAPI is the subset of the DynamoDB client used by the repository.
// It exists so tests can substitute a fake client.
type DynamoDBAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

type eventRepository struct {
	client DynamoDBAPI
	table  string
}

// NewEventRepository returns an EventRepository backed by a DynamoDB table
// keyed by eventId.
func NewEventRepository(client DynamoDBAPI, table string) domain.EventRepository {
	return &eventRepository{
		client: client,
		table:  table,
	}
}

// translate maps DynamoDB failures onto the domain error taxonomy.
// A missing table surfaces as ErrStoreUnavailable; everything else is
// returned as-is and ends up as an internal error.
func (r *eventRepository) translate(err error) error {
	var rnf *types.ResourceNotFoundException
	if errors.As(err, &rnf) {
		return fmt.Errorf("table %q not found: %w", r.table, domain.ErrStoreUnavailable)
	}
	return err
}

func (r *eventRepository) key(eventID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"eventId": &types.AttributeValueMemberS{Value: eventID},
	}
}

func (r *eventRepository) Put(ctx context.Context, e *domain.Event) error {
	item, err := attributevalue.MarshalMap(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	})
	if err != nil {
		return r.translate(err)
	}
	return nil
}

func (r *eventRepository) Get(ctx context.Context, eventID string) (*domain.Event, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key:       r.key(eventID),
	})
	if err != nil {
		return nil, r.translate(err)
	}
	if len(out.Item) == 0 {
		return nil, domain.ErrNotFound
	}
	e := &domain.Event{}
	if err := attributevalue.UnmarshalMap(out.Item, e); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}
	return e, nil
}

// Scan reads the entire table. DynamoDB returns at most 1MB per page, so the
// scan follows LastEvaluatedKey until the table is exhausted; no pagination
// token is exposed to callers.
func (r *eventRepository) Scan(ctx context.Context) ([]*domain.Event, error) {
	var events []*domain.Event
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(r.table),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, r.translate(err)
		}
		var page []*domain.Event
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("unmarshal events: %w", err)
		}
		events = append(events, page...)
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	return events, nil
}

// Update applies a SET expression for each supplied attribute and returns
// the full record after the write (ReturnValues ALL_NEW). Existence is the
// caller's concern; an update on a missing key would create a partial item.
func (r *eventRepository) Update(ctx context.Context, eventID string, fields map[string]any) (*domain.Event, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("no fields to update: %w", domain.ErrInvalidInput)
	}
	var upd expression.UpdateBuilder
	for name, value := range fields {
		upd = upd.Set(expression.Name(name), expression.Value(value))
	}
	expr, err := expression.NewBuilder().WithUpdate(upd).Build()
	if err != nil {
		return nil, fmt.Errorf("build update expression: %w", err)
	}
	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.table),
		Key:                       r.key(eventID),
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		return nil, r.translate(err)
	}
	e := &domain.Event{}
	if err := attributevalue.UnmarshalMap(out.Attributes, e); err != nil {
		return nil, fmt.Errorf("unmarshal updated event: %w", err)
	}
	return e, nil
}

func (r *eventRepository) Delete(ctx context.Context, eventID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.table),
		Key:       r.key(eventID),
	})
	if err != nil {
		return r.translate(err)
	}
	return nil
}
