package dynamo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/kredopay/otp-api/internal/domain"
)

const batchWriteLimit = 25

// PasscodeRepo manages one-time passcode records.
// PK: passcode_id. GSI email-index: email (hash only; ordering by created_at
// happens client-side, and candidate sets stay tiny because each new request
// deletes the email's prior unused records).
type PasscodeRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewPasscodeRepo(client *dynamodb.Client, tableName string) *PasscodeRepo {
	return &PasscodeRepo{client: client, tableName: tableName}
}

func (r *PasscodeRepo) Put(ctx context.Context, p *domain.Passcode) error {
	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal passcode: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// DeleteUnusedByEmail removes every unused record for the email, superseding
// any code issued earlier.
func (r *PasscodeRepo) DeleteUnusedByEmail(ctx context.Context, email string) error {
	records, err := r.queryByEmail(ctx, email, "used = :u", map[string]types.AttributeValue{
		":u": boolVal(false),
	})
	if err != nil {
		return fmt.Errorf("query unused passcodes: %w", err)
	}
	keys := make([]map[string]types.AttributeValue, 0, len(records))
	for _, p := range records {
		keys = append(keys, strKey("passcode_id", p.PasscodeID))
	}
	return r.deleteKeys(ctx, keys)
}

// FindValid returns the unused, unexpired records matching email and code,
// oldest first.
func (r *PasscodeRepo) FindValid(ctx context.Context, email, code string, nowMillis int64) ([]domain.Passcode, error) {
	records, err := r.queryByEmail(ctx, email, "code = :c AND used = :u AND expires_at > :now", map[string]types.AttributeValue{
		":c":   &types.AttributeValueMemberS{Value: code},
		":u":   boolVal(false),
		":now": numVal(strconv.FormatInt(nowMillis, 10)),
	})
	if err != nil {
		return nil, fmt.Errorf("query valid passcodes: %w", err)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].CreatedAt < records[j].CreatedAt })
	return records, nil
}

// Consume flips used to true on the record, conditioned on it still being
// false at write time. Returns false with no error when a concurrent verify
// already consumed it.
func (r *PasscodeRepo) Consume(ctx context.Context, passcodeID string) (bool, error) {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey("passcode_id", passcodeID),
		UpdateExpression:    aws.String("SET used = :t"),
		ConditionExpression: aws.String("used = :f"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t": boolVal(true),
			":f": boolVal(false),
		},
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ListOlderThan returns every record created before cutoffMillis, used or not.
func (r *PasscodeRepo) ListOlderThan(ctx context.Context, cutoffMillis int64) ([]domain.Passcode, error) {
	var records []domain.Passcode
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:        aws.String(r.tableName),
			FilterExpression: aws.String("created_at < :cutoff"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":cutoff": numVal(strconv.FormatInt(cutoffMillis, 10)),
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("scan stale passcodes: %w", err)
		}
		var page []domain.Passcode
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("unmarshal stale passcodes: %w", err)
		}
		records = append(records, page...)
		if out.LastEvaluatedKey == nil {
			return records, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

// DeleteBatch removes the given records by id.
func (r *PasscodeRepo) DeleteBatch(ctx context.Context, passcodeIDs []string) error {
	keys := make([]map[string]types.AttributeValue, 0, len(passcodeIDs))
	for _, id := range passcodeIDs {
		keys = append(keys, strKey("passcode_id", id))
	}
	return r.deleteKeys(ctx, keys)
}

func (r *PasscodeRepo) queryByEmail(ctx context.Context, email, filter string, values map[string]types.AttributeValue) ([]domain.Passcode, error) {
	values[":email"] = &types.AttributeValueMemberS{Value: email}
	var records []domain.Passcode
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			IndexName:                 aws.String("email-index"),
			KeyConditionExpression:    aws.String("email = :email"),
			FilterExpression:          aws.String(filter),
			ExpressionAttributeValues: values,
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, err
		}
		var page []domain.Passcode
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		records = append(records, page...)
		if out.LastEvaluatedKey == nil {
			return records, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

func (r *PasscodeRepo) deleteKeys(ctx context.Context, keys []map[string]types.AttributeValue) error {
	for _, chunk := range chunkKeys(keys, batchWriteLimit) {
		reqs := make([]types.WriteRequest, 0, len(chunk))
		for _, k := range chunk {
			reqs = append(reqs, types.WriteRequest{
				DeleteRequest: &types.DeleteRequest{Key: k},
			})
		}
		_, err := r.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{r.tableName: reqs},
		})
		if err != nil {
			return fmt.Errorf("batch delete passcodes: %w", err)
		}
	}
	return nil
}
