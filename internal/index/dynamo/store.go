// Package dynamo implements the word-index store on DynamoDB. The table is
// keyed by "word" with a "documents" list attribute; appends use the
// server-side list_append primitive so concurrent writers to the same word
// never lose updates.
package dynamo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/femitubosun/codygo-task/internal/index"
	"github.com/femitubosun/codygo-task/pkg/config"
)

// DDBClient is the narrow slice of the DynamoDB API the store uses.
type DDBClient interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

// Store implements index.Store on a DynamoDB table.
type Store struct {
	client DDBClient
	table  string
	logger *slog.Logger
}

// NewStore creates a Store for the given table.
func NewStore(client DDBClient, table string) *Store {
	return &Store{
		client: client,
		table:  table,
		logger: slog.Default().With("component", "dynamo-index-store", "table", table),
	}
}

// NewClient builds a DynamoDB client from the default AWS credential chain.
// An endpoint override is honoured for local stacks.
func NewClient(ctx context.Context, cfg config.DynamoConfig) (*dynamodb.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

func (s *Store) GetEntry(ctx context.Context, word string) (*index.Entry, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"word": &types.AttributeValueMemberS{Value: word},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("getting entry for %q: %w", word, err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	return itemToEntry(word, out.Item)
}

func (s *Store) AppendDocument(ctx context.Context, word, document string) error {
	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"word": &types.AttributeValueMemberS{Value: word},
		},
		UpdateExpression:    aws.String("SET documents = list_append(documents, :d)"),
		ConditionExpression: aws.String("attribute_exists(word)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":d": &types.AttributeValueMemberL{
				Value: []types.AttributeValue{
					&types.AttributeValueMemberS{Value: document},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("appending %q to %q: %w", document, word, err)
	}
	return nil
}

// CreateEntries writes new entries in chunks of index.CreateBatchSize. A
// chunk that fails is logged and skipped; the remaining chunks are still
// attempted.
func (s *Store) CreateEntries(ctx context.Context, entries []index.NewEntry) error {
	for _, chunk := range index.Chunk(entries, index.CreateBatchSize) {
		requests := make([]types.WriteRequest, 0, len(chunk))
		for _, e := range chunk {
			requests = append(requests, types.WriteRequest{
				PutRequest: &types.PutRequest{
					Item: map[string]types.AttributeValue{
						"word": &types.AttributeValueMemberS{Value: e.Word},
						"documents": &types.AttributeValueMemberL{
							Value: []types.AttributeValue{
								&types.AttributeValueMemberS{Value: e.Document},
							},
						},
					},
				},
			})
		}

		out, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{
				s.table: requests,
			},
		})
		if err != nil {
			s.logger.Error("batch create failed, skipping chunk",
				"chunk_size", len(chunk),
				"error", err,
			)
			continue
		}
		if unprocessed := len(out.UnprocessedItems[s.table]); unprocessed > 0 {
			s.logger.Warn("batch create left unprocessed items",
				"unprocessed", unprocessed,
			)
		}
	}
	return nil
}

func itemToEntry(word string, item map[string]types.AttributeValue) (*index.Entry, error) {
	attr, ok := item["documents"].(*types.AttributeValueMemberL)
	if !ok {
		return nil, fmt.Errorf("entry for %q has no documents list", word)
	}
	docs := make([]string, 0, len(attr.Value))
	for _, v := range attr.Value {
		s, ok := v.(*types.AttributeValueMemberS)
		if !ok {
			return nil, fmt.Errorf("entry for %q has a non-string document id", word)
		}
		docs = append(docs, s.Value)
	}
	return &index.Entry{Word: word, Documents: docs}, nil
}
