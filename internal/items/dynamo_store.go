package items

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"

	"github.com/imrishuroy/go-wardrobe-api/internal/aws"
)

// DynamoStore keeps items in a DynamoDB table keyed by "id".
//
// Ids are UUIDv7, which sort in creation order, so a Scan result ordered by id
// is the insertion order ApplyQuery expects.
type DynamoStore struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
	newID     func() string
}

// NewDynamoStore creates a new items DynamoStore.
func NewDynamoStore(client aws.DynamoDBAPI, tableName string) *DynamoStore {
	return &DynamoStore{
		client:    client,
		tableName: tableName,
		nowFunc:   func() time.Time { return time.Now().UTC() },
		newID:     func() string { return uuid.Must(uuid.NewV7()).String() },
	}
}

func (s *DynamoStore) Create(ctx context.Context, f Fields) (*Item, error) {
	it := newItem(s.newID(), f, s.nowFunc())
	item, err := attributevalue.MarshalMap(it)
	if err != nil {
		return nil, fmt.Errorf("marshal item: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(id)"),
	})
	if err != nil {
		return nil, fmt.Errorf("put item: %w", err)
	}
	return &it, nil
}

func (s *DynamoStore) FindAll(ctx context.Context, q Query) (Page, error) {
	input := &dyn.ScanInput{TableName: &s.tableName}

	// push the filters down; ApplyQuery re-checks them anyway
	var filter string
	values := map[string]types.AttributeValue{}
	if q.UserID != "" {
		filter = "user_id = :uid"
		values[":uid"] = &types.AttributeValueMemberS{Value: q.UserID}
	}
	if q.Category != "" {
		if filter != "" {
			filter += " AND "
		}
		filter += "category = :cat"
		values[":cat"] = &types.AttributeValueMemberS{Value: string(q.Category)}
	}
	if filter != "" {
		input.FilterExpression = &filter
		input.ExpressionAttributeValues = values
	}

	var all []Item
	for {
		out, err := s.client.Scan(ctx, input)
		if err != nil {
			return Page{}, fmt.Errorf("scan items: %w", err)
		}
		var batch []Item
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &batch); err != nil {
			return Page{}, fmt.Errorf("unmarshal items: %w", err)
		}
		all = append(all, batch...)
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}

	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return ApplyQuery(all, q), nil
}

// FindOne fetches an item by id. Returns (nil, nil) if not found.
func (s *DynamoStore) FindOne(ctx context.Context, id string) (*Item, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName:      &s.tableName,
		Key:            itemKey(id),
		ConsistentRead: awsBool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var it Item
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	return &it, nil
}

// Update reads the item, applies the patch and writes it back on the condition
// that it still exists.
func (s *DynamoStore) Update(ctx context.Context, id string, p Patch) (*Item, error) {
	current, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, &NotFoundError{ID: id}
	}

	it := p.Apply(*current)
	it.UpdatedAt = laterOf(s.nowFunc(), it.CreatedAt)
	item, err := attributevalue.MarshalMap(it)
	if err != nil {
		return nil, fmt.Errorf("marshal item: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_exists(id)"),
	})
	if err != nil {
		if isConditionFailed(err) {
			return nil, &NotFoundError{ID: id}
		}
		return nil, fmt.Errorf("put item: %w", err)
	}
	return &it, nil
}

func (s *DynamoStore) Remove(ctx context.Context, id string) error {
	_, err := s.client.DeleteItem(ctx, &dyn.DeleteItemInput{
		TableName:           &s.tableName,
		Key:                 itemKey(id),
		ConditionExpression: awsString("attribute_exists(id)"),
	})
	if err != nil {
		if isConditionFailed(err) {
			return &NotFoundError{ID: id}
		}
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

func itemKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}

func isConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return true
	}
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "ConditionalCheckFailedException"
}

func awsString(s string) *string { return &s }

func awsBool(b bool) *bool { return &b }
