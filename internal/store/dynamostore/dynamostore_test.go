package dynamostore

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-api/internal/models"
	"github.com/adanyl0v/go-todo-api/internal/store"
)

// fakeDynamo is an in-memory table understanding exactly the
// expressions the store sends.
type fakeDynamo struct {
	mu       sync.Mutex
	items    map[string]map[string]types.AttributeValue
	pageSize int
	err      error
	calls    int

	lastScan   *dynamodb.ScanInput
	lastUpdate *dynamodb.UpdateItemInput
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: make(map[string]map[string]types.AttributeValue)}
}

func stringAttr(item map[string]types.AttributeValue, name string) string {
	s, _ := item[name].(*types.AttributeValueMemberS)
	if s == nil {
		return ""
	}
	return s.Value
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}

	id := stringAttr(in.Item, "id")
	if _, exists := f.items[id]; exists && aws.ToString(in.ConditionExpression) == "attribute_not_exists(id)" {
		return nil, &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
	}
	f.items[id] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &dynamodb.GetItemOutput{Item: f.items[stringAttr(in.Key, "id")]}, nil
}

func (f *fakeDynamo) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastScan = in
	if f.err != nil {
		return nil, f.err
	}

	ids := make([]string, 0, len(f.items))
	for id := range f.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	start := 0
	if in.ExclusiveStartKey != nil {
		last := stringAttr(in.ExclusiveStartKey, "id")
		start = sort.SearchStrings(ids, last) + 1
	}
	end := len(ids)
	if f.pageSize > 0 && start+f.pageSize < end {
		end = start + f.pageSize
	}

	want := stringAttr(in.ExpressionAttributeValues, ":userId")
	out := &dynamodb.ScanOutput{}
	for _, id := range ids[start:end] {
		if stringAttr(f.items[id], "userId") == want {
			out.Items = append(out.Items, f.items[id])
		}
	}
	if end < len(ids) {
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: ids[end-1]},
		}
	}
	return out, nil
}

func (f *fakeDynamo) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastUpdate = in
	if f.err != nil {
		return nil, f.err
	}

	item, ok := f.items[stringAttr(in.Key, "id")]
	if !ok || stringAttr(item, "userId") != stringAttr(in.ExpressionAttributeValues, ":userId") {
		return nil, &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
	}

	updated := make(map[string]types.AttributeValue, len(item))
	for k, v := range item {
		updated[k] = v
	}
	updated["status"] = in.ExpressionAttributeValues[":status"]
	updated["updatedAt"] = in.ExpressionAttributeValues[":updatedAt"]
	f.items[stringAttr(in.Key, "id")] = updated
	return &dynamodb.UpdateItemOutput{Attributes: updated}, nil
}

func (f *fakeDynamo) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	delete(f.items, stringAttr(in.Key, "id"))
	return &dynamodb.DeleteItemOutput{}, nil
}

func newTodo(id, userID string) *models.Todo {
	now := models.FormatTimestamp(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	return &models.Todo{
		ID:        id,
		UserID:    userID,
		Title:     "todo " + id,
		Status:    models.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestPutIfAbsent(t *testing.T) {
	fake := newFakeDynamo()
	s := New(zerolog.Nop(), fake, "todos")
	ctx := context.Background()

	err := s.PutIfAbsent(ctx, newTodo("t1", "user-a"))
	if err != nil {
		t.Fatalf("PutIfAbsent: %v", err)
	}

	err = s.PutIfAbsent(ctx, newTodo("t1", "user-b"))
	if !errors.Is(err, store.ErrDuplicateID) {
		t.Fatalf("PutIfAbsent duplicate: got %v, want ErrDuplicateID", err)
	}

	got, err := s.GetByID(ctx, "t1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.UserID != "user-a" {
		t.Errorf("UserID: got %q, want user-a (overwritten)", got.UserID)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	s := New(zerolog.Nop(), newFakeDynamo(), "todos")

	_, err := s.GetByID(context.Background(), "missing")
	if !errors.Is(err, store.ErrTodoNotFound) {
		t.Errorf("GetByID: got %v, want ErrTodoNotFound", err)
	}
}

func TestListByUserIDFollowsPages(t *testing.T) {
	fake := newFakeDynamo()
	fake.pageSize = 2
	s := New(zerolog.Nop(), fake, "todos")
	ctx := context.Background()

	for _, todo := range []*models.Todo{
		newTodo("t1", "user-a"),
		newTodo("t2", "user-b"),
		newTodo("t3", "user-a"),
		newTodo("t4", "user-b"),
		newTodo("t5", "user-a"),
	} {
		if err := s.PutIfAbsent(ctx, todo); err != nil {
			t.Fatalf("PutIfAbsent: %v", err)
		}
	}

	todos, err := s.ListByUserID(ctx, "user-a")
	if err != nil {
		t.Fatalf("ListByUserID: %v", err)
	}
	if len(todos) != 3 {
		t.Fatalf("count: got %d, want 3", len(todos))
	}
	for _, todo := range todos {
		if todo.UserID != "user-a" {
			t.Errorf("UserID: got %q, want user-a", todo.UserID)
		}
	}
	if got := aws.ToString(fake.lastScan.FilterExpression); got != "userId = :userId" {
		t.Errorf("FilterExpression: got %q", got)
	}

	empty, err := s.ListByUserID(ctx, "user-c")
	if err != nil {
		t.Fatalf("ListByUserID: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("ListByUserID: got %v, want empty non-nil slice", empty)
	}
}

func TestCompleteIfOwned(t *testing.T) {
	fake := newFakeDynamo()
	s := New(zerolog.Nop(), fake, "todos")
	ctx := context.Background()

	if err := s.PutIfAbsent(ctx, newTodo("t1", "user-a")); err != nil {
		t.Fatalf("PutIfAbsent: %v", err)
	}

	now := time.Date(2024, 5, 1, 13, 0, 0, 0, time.UTC)
	_, err := s.CompleteIfOwned(ctx, "t1", "user-b", now)
	if !errors.Is(err, store.ErrConditionFailed) {
		t.Errorf("foreign owner: got %v, want ErrConditionFailed", err)
	}
	_, err = s.CompleteIfOwned(ctx, "missing", "user-a", now)
	if !errors.Is(err, store.ErrConditionFailed) {
		t.Errorf("missing todo: got %v, want ErrConditionFailed", err)
	}

	todo, err := s.CompleteIfOwned(ctx, "t1", "user-a", now)
	if err != nil {
		t.Fatalf("CompleteIfOwned: %v", err)
	}
	if todo.Status != models.StatusCompleted {
		t.Errorf("Status: got %q, want completed", todo.Status)
	}
	if todo.UpdatedAt != models.FormatTimestamp(now) {
		t.Errorf("UpdatedAt: got %q, want %q", todo.UpdatedAt, models.FormatTimestamp(now))
	}
	if todo.Title != "todo t1" {
		t.Errorf("Title: got %q, want %q", todo.Title, "todo t1")
	}

	in := fake.lastUpdate
	if got := aws.ToString(in.ConditionExpression); got != "#userId = :userId" {
		t.Errorf("ConditionExpression: got %q", got)
	}
	if in.ReturnValues != types.ReturnValueAllNew {
		t.Errorf("ReturnValues: got %q, want ALL_NEW", in.ReturnValues)
	}
}

func TestMissingTableName(t *testing.T) {
	fake := newFakeDynamo()
	s := New(zerolog.Nop(), fake, "")
	ctx := context.Background()

	errs := map[string]error{
		"PutIfAbsent": s.PutIfAbsent(ctx, newTodo("t1", "user-a")),
		"DeleteByID":  s.DeleteByID(ctx, "t1"),
	}
	_, errs["GetByID"] = s.GetByID(ctx, "t1")
	_, errs["ListByUserID"] = s.ListByUserID(ctx, "user-a")
	_, errs["CompleteIfOwned"] = s.CompleteIfOwned(ctx, "t1", "user-a", time.Now())

	for op, err := range errs {
		if !errors.Is(err, store.ErrTableNameNotSet) {
			t.Errorf("%s: got %v, want ErrTableNameNotSet", op, err)
		}
	}
	if fake.calls != 0 {
		t.Errorf("calls: got %d, want 0", fake.calls)
	}
}

func TestClientErrorsPassThrough(t *testing.T) {
	fake := newFakeDynamo()
	fake.err = &types.ProvisionedThroughputExceededException{Message: aws.String("slow down")}
	s := New(zerolog.Nop(), fake, "todos")
	ctx := context.Background()

	var throttled *types.ProvisionedThroughputExceededException
	if err := s.PutIfAbsent(ctx, newTodo("t1", "user-a")); !errors.As(err, &throttled) {
		t.Errorf("PutIfAbsent: got %v", err)
	}
	if _, err := s.ListByUserID(ctx, "user-a"); !errors.As(err, &throttled) {
		t.Errorf("ListByUserID: got %v", err)
	}
	if _, err := s.CompleteIfOwned(ctx, "t1", "user-a", time.Now()); !errors.As(err, &throttled) {
		t.Errorf("CompleteIfOwned: got %v", err)
	}
}

func TestDeleteByID(t *testing.T) {
	s := New(zerolog.Nop(), newFakeDynamo(), "todos")
	ctx := context.Background()

	if err := s.PutIfAbsent(ctx, newTodo("t1", "user-a")); err != nil {
		t.Fatalf("PutIfAbsent: %v", err)
	}
	if err := s.DeleteByID(ctx, "t1"); err != nil {
		t.Fatalf("DeleteByID: %v", err)
	}
	if _, err := s.GetByID(ctx, "t1"); !errors.Is(err, store.ErrTodoNotFound) {
		t.Errorf("GetByID after delete: got %v, want ErrTodoNotFound", err)
	}
}
