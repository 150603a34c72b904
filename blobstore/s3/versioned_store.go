package s3

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hupe1980/shelfgo/blobstore"
)

// VersionedStore wraps a blob store with a DynamoDB version row per blob.
//
// S3 object metadata gives no monotonic change counter, and concurrent
// writers can silently overwrite each other. The version row fixes both:
//   - Stat returns the committed version as the blob's ETag, so change
//     markers advance exactly once per committed Put.
//   - Put bumps the version with a conditional write; a lost race surfaces
//     as ErrConcurrentModification instead of silent data loss.
//
// Table schema:
//   - Partition key: blob_uri (string) - "s3://bucket/prefix/name"
//   - Sort key: version (number) - monotonically increasing
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name shelfgo-versions \
//	  --attribute-definitions AttributeName=blob_uri,AttributeType=S AttributeName=version,AttributeType=N \
//	  --key-schema AttributeName=blob_uri,KeyType=HASH AttributeName=version,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
type VersionedStore struct {
	inner     blobstore.BlobStore
	ddbClient DDBClient
	tableName string
	baseURI   string // e.g. "s3://bucket/prefix", used as partition key prefix
}

// DDBClient is the interface for DynamoDB operations.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// ErrConcurrentModification is returned when a concurrent write is detected.
var ErrConcurrentModification = errors.New("concurrent modification detected")

// NewVersionedStore creates a versioned store over inner (usually a *Store,
// but any blobstore.BlobStore works). baseURI should be "s3://bucket/prefix".
func NewVersionedStore(inner blobstore.BlobStore, ddbClient DDBClient, tableName, baseURI string) *VersionedStore {
	return &VersionedStore{
		inner:     inner,
		ddbClient: ddbClient,
		tableName: tableName,
		baseURI:   baseURI,
	}
}

func (s *VersionedStore) blobURI(name string) string {
	return s.baseURI + "/" + path.Clean(name)
}

// Open opens a blob for reading.
func (s *VersionedStore) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	return s.inner.Open(ctx, name)
}

// Put writes the blob, then commits a new version with a DynamoDB
// conditional write. A concurrent committer for the same version loses the
// race and gets ErrConcurrentModification.
func (s *VersionedStore) Put(ctx context.Context, name string, data []byte) error {
	current, err := s.latestVersion(ctx, name)
	if err != nil {
		return err
	}

	if err := s.inner.Put(ctx, name, data); err != nil {
		return err
	}

	newVersion := current + 1
	_, err = s.ddbClient.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item: map[string]types.AttributeValue{
			"blob_uri": &types.AttributeValueMemberS{Value: s.blobURI(name)},
			"version":  &types.AttributeValueMemberN{Value: strconv.FormatUint(newVersion, 10)},
		},
		ConditionExpression: aws.String("attribute_not_exists(version)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return ErrConcurrentModification
		}
		return fmt.Errorf("commit version to DynamoDB: %w", err)
	}
	return nil
}

// Stat returns blob metadata with the committed version as ETag.
func (s *VersionedStore) Stat(ctx context.Context, name string) (blobstore.BlobInfo, error) {
	info, err := s.inner.Stat(ctx, name)
	if err != nil {
		return blobstore.BlobInfo{}, err
	}
	version, err := s.latestVersion(ctx, name)
	if err != nil {
		return blobstore.BlobInfo{}, err
	}
	info.ETag = strconv.FormatUint(version, 10)
	return info, nil
}

// Delete removes the blob. Version rows are retained as history.
func (s *VersionedStore) Delete(ctx context.Context, name string) error {
	return s.inner.Delete(ctx, name)
}

// List lists blobs in the underlying store.
func (s *VersionedStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

// latestVersion queries DynamoDB for the highest committed version.
// Returns 0 when the blob has never been committed.
func (s *VersionedStore) latestVersion(ctx context.Context, name string) (uint64, error) {
	resp, err := s.ddbClient.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		KeyConditionExpression: aws.String("blob_uri = :uri"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uri": &types.AttributeValueMemberS{Value: s.blobURI(name)},
		},
		ScanIndexForward: aws.Bool(false), // Descending order
		Limit:            aws.Int32(1),
	})
	if err != nil {
		return 0, fmt.Errorf("query DynamoDB: %w", err)
	}

	if len(resp.Items) == 0 {
		return 0, nil
	}

	versionAttr, ok := resp.Items[0]["version"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, errors.New("invalid version attribute in DynamoDB")
	}
	version, err := strconv.ParseUint(versionAttr.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse version: %w", err)
	}
	return version, nil
}
