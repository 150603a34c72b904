package s3

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hupe1980/shelfgo/blobstore"
	"github.com/stretchr/testify/require"
)

// fakeDDB keeps version rows in memory and honors the conditional write the
// versioned store relies on.
type fakeDDB struct {
	mu       sync.Mutex
	versions map[string]uint64 // blob_uri -> latest version
	queryErr error
	putErr   error
	onQuery  func() // runs after a Query returns, before the caller commits
}

func newFakeDDB() *fakeDDB {
	return &fakeDDB{versions: make(map[string]uint64)}
}

func (f *fakeDDB) PutItem(_ context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	uri := params.Item["blob_uri"].(*types.AttributeValueMemberS).Value
	version, err := strconv.ParseUint(params.Item["version"].(*types.AttributeValueMemberN).Value, 10, 64)
	if err != nil {
		return nil, err
	}

	// attribute_not_exists(version): the row for this exact version must not
	// already be committed.
	if version <= f.versions[uri] {
		return nil, &types.ConditionalCheckFailedException{}
	}
	f.versions[uri] = version
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDDB) Query(_ context.Context, params *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	uri := params.ExpressionAttributeValues[":uri"].(*types.AttributeValueMemberS).Value
	version, ok := f.versions[uri]

	if f.onQuery != nil {
		f.onQuery()
	}
	if !ok {
		return &dynamodb.QueryOutput{}, nil
	}
	return &dynamodb.QueryOutput{
		Items: []map[string]types.AttributeValue{
			{
				"blob_uri": &types.AttributeValueMemberS{Value: uri},
				"version":  &types.AttributeValueMemberN{Value: strconv.FormatUint(version, 10)},
			},
		},
	}, nil
}

func TestVersionedStore(t *testing.T) {
	ctx := context.Background()
	const baseURI = "s3://bucket/catalog"

	t.Run("put commits increasing versions", func(t *testing.T) {
		ddb := newFakeDDB()
		store := NewVersionedStore(blobstore.NewMemoryStore(), ddb, "versions", baseURI)

		require.NoError(t, store.Put(ctx, "items.json", []byte("v1")))
		info, err := store.Stat(ctx, "items.json")
		require.NoError(t, err)
		require.Equal(t, "1", info.ETag)

		require.NoError(t, store.Put(ctx, "items.json", []byte("v2")))
		info, err = store.Stat(ctx, "items.json")
		require.NoError(t, err)
		require.Equal(t, "2", info.ETag)
	})

	t.Run("stat marker moves exactly once per put", func(t *testing.T) {
		ddb := newFakeDDB()
		store := NewVersionedStore(blobstore.NewMemoryStore(), ddb, "versions", baseURI)

		require.NoError(t, store.Put(ctx, "items.json", []byte("content")))

		first, err := store.Stat(ctx, "items.json")
		require.NoError(t, err)
		second, err := store.Stat(ctx, "items.json")
		require.NoError(t, err)
		require.Equal(t, first.ETag, second.ETag)
	})

	t.Run("concurrent committer loses the race", func(t *testing.T) {
		ddb := newFakeDDB()
		store := NewVersionedStore(blobstore.NewMemoryStore(), ddb, "versions", baseURI)

		require.NoError(t, store.Put(ctx, "items.json", []byte("v1")))

		// Another writer commits the next version between our version query
		// and our conditional PutItem. The hook runs under the fake's lock,
		// so it mutates the row directly.
		raced := false
		ddb.onQuery = func() {
			if raced {
				return
			}
			raced = true
			ddb.versions[baseURI+"/items.json"]++
		}

		err := store.Put(ctx, "items.json", []byte("v2"))
		require.ErrorIs(t, err, ErrConcurrentModification)
	})

	t.Run("reads pass through to the inner store", func(t *testing.T) {
		inner := blobstore.NewMemoryStore()
		store := NewVersionedStore(inner, newFakeDDB(), "versions", baseURI)

		require.NoError(t, store.Put(ctx, "items.json", []byte("payload")))

		blob, err := store.Open(ctx, "items.json")
		require.NoError(t, err)
		defer blob.Close()

		data, err := blobstore.ReadAll(ctx, blob)
		require.NoError(t, err)
		require.Equal(t, []byte("payload"), data)

		names, err := store.List(ctx, "")
		require.NoError(t, err)
		require.Equal(t, []string{"items.json"}, names)
	})

	t.Run("dynamodb failure surfaces", func(t *testing.T) {
		ddb := newFakeDDB()
		store := NewVersionedStore(blobstore.NewMemoryStore(), ddb, "versions", baseURI)

		require.NoError(t, store.Put(ctx, "items.json", []byte("v1")))

		ddb.queryErr = errors.New("throttled")
		_, err := store.Stat(ctx, "items.json")
		require.ErrorContains(t, err, "throttled")

		err = store.Put(ctx, "items.json", []byte("v2"))
		require.ErrorContains(t, err, "throttled")
	})

	t.Run("never committed blob has version zero", func(t *testing.T) {
		inner := blobstore.NewMemoryStore()
		require.NoError(t, inner.Put(ctx, "items.json", []byte("out of band")))

		store := NewVersionedStore(inner, newFakeDDB(), "versions", baseURI)
		info, err := store.Stat(ctx, "items.json")
		require.NoError(t, err)
		require.Equal(t, "0", info.ETag)
	})
}
