package tests

import (
	"context"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/decense/pkg/database/query"
	"github.com/code-payments/decense/pkg/decense/data/account"
	"github.com/code-payments/decense/pkg/testutil"
)

func RunTests(t *testing.T, s account.Store, teardown func()) {
	for _, tf := range []func(t *testing.T, s account.Store){
		testRoundTrip,
		testStaleVersion,
		testAtomicBatch,
		testInvalidRecords,
		testGetAllByOwner,
	} {
		tf(t, s)
		teardown()
	}
}

func testRoundTrip(t *testing.T, s account.Store) {
	t.Run("testRoundTrip", func(t *testing.T) {
		ctx := context.Background()

		keys := testutil.GenerateSolanaKeys(t, 2)
		expected := &account.Record{
			Address:  base58.Encode(keys[0]),
			Owner:    base58.Encode(keys[1]),
			Lamports: 1_000_000,
			Data:     []byte{1, 2, 3},
		}

		_, err := s.Get(ctx, expected.Address)
		assert.Equal(t, account.ErrAccountNotFound, err)

		require.NoError(t, s.Save(ctx, expected))
		assert.True(t, expected.Id > 0)
		assert.EqualValues(t, 1, expected.Version)

		actual, err := s.Get(ctx, expected.Address)
		require.NoError(t, err)
		assertEquivalentRecords(t, expected, actual)

		expected.Lamports = 0
		expected.Data = []byte{4, 5, 6, 7}
		expected.Executable = true
		require.NoError(t, s.Save(ctx, expected))
		assert.EqualValues(t, 2, expected.Version)

		actual, err = s.Get(ctx, expected.Address)
		require.NoError(t, err)
		assertEquivalentRecords(t, expected, actual)
	})
}

func testStaleVersion(t *testing.T, s account.Store) {
	t.Run("testStaleVersion", func(t *testing.T) {
		ctx := context.Background()

		keys := testutil.GenerateSolanaKeys(t, 2)
		record := &account.Record{
			Address:  base58.Encode(keys[0]),
			Owner:    base58.Encode(keys[1]),
			Lamports: 10,
		}
		require.NoError(t, s.Save(ctx, record))

		stale := record.Clone()
		stale.Version = 0
		stale.Lamports = 20
		assert.Equal(t, account.ErrStaleVersion, s.Save(ctx, &stale))

		ahead := record.Clone()
		ahead.Version = 5
		assert.Equal(t, account.ErrStaleVersion, s.Save(ctx, &ahead))

		actual, err := s.Get(ctx, record.Address)
		require.NoError(t, err)
		assertEquivalentRecords(t, record, actual)
	})
}

func testAtomicBatch(t *testing.T, s account.Store) {
	t.Run("testAtomicBatch", func(t *testing.T) {
		ctx := context.Background()

		keys := testutil.GenerateSolanaKeys(t, 4)
		owner := base58.Encode(keys[3])

		existing := &account.Record{Address: base58.Encode(keys[0]), Owner: owner, Lamports: 1}
		require.NoError(t, s.Save(ctx, existing))

		first := &account.Record{Address: base58.Encode(keys[1]), Owner: owner, Lamports: 2}
		second := &account.Record{Address: base58.Encode(keys[2]), Owner: owner, Lamports: 3}
		stale := existing.Clone()
		stale.Version = 0
		stale.Lamports = 100

		assert.Equal(t, account.ErrStaleVersion, s.Save(ctx, first, second, &stale))

		_, err := s.Get(ctx, first.Address)
		assert.Equal(t, account.ErrAccountNotFound, err)
		_, err = s.Get(ctx, second.Address)
		assert.Equal(t, account.ErrAccountNotFound, err)

		actual, err := s.Get(ctx, existing.Address)
		require.NoError(t, err)
		assert.EqualValues(t, 1, actual.Lamports)

		first.Version = 0
		second.Version = 0
		existing.Lamports = 50
		require.NoError(t, s.Save(ctx, first, second, existing))

		for _, expected := range []*account.Record{first, second, existing} {
			actual, err := s.Get(ctx, expected.Address)
			require.NoError(t, err)
			assertEquivalentRecords(t, expected, actual)
		}
	})
}

func testInvalidRecords(t *testing.T, s account.Store) {
	t.Run("testInvalidRecords", func(t *testing.T) {
		ctx := context.Background()

		keys := testutil.GenerateSolanaKeys(t, 2)

		for _, invalid := range []*account.Record{
			{Address: "", Owner: base58.Encode(keys[1])},
			{Address: base58.Encode(keys[0]), Owner: "not-base58-0OIl"},
			{Address: base58.Encode(keys[0][:16]), Owner: base58.Encode(keys[1])},
		} {
			err := s.Save(ctx, invalid)
			assert.True(t, errors.Is(err, account.ErrInvalidAccount), "%v", err)
		}

		duplicate := &account.Record{Address: base58.Encode(keys[0]), Owner: base58.Encode(keys[1])}
		cloned := duplicate.Clone()
		err := s.Save(ctx, duplicate, &cloned)
		assert.True(t, errors.Is(err, account.ErrInvalidAccount), "%v", err)

		_, err = s.Get(ctx, duplicate.Address)
		assert.Equal(t, account.ErrAccountNotFound, err)
	})
}

func testGetAllByOwner(t *testing.T, s account.Store) {
	t.Run("testGetAllByOwner", func(t *testing.T) {
		ctx := context.Background()

		owners := testutil.GenerateSolanaKeys(t, 2)
		keys := testutil.GenerateSolanaKeys(t, 6)

		_, err := s.GetAllByOwner(ctx, base58.Encode(owners[0]), query.EmptyCursor, 10, query.Ascending)
		assert.Equal(t, account.ErrAccountNotFound, err)

		var expected []*account.Record
		for i, key := range keys {
			record := &account.Record{
				Address:  base58.Encode(key),
				Owner:    base58.Encode(owners[i%2]),
				Lamports: uint64(i),
			}
			require.NoError(t, s.Save(ctx, record))

			if i%2 == 0 {
				expected = append(expected, record)
			}
		}

		actual, err := s.GetAllByOwner(ctx, base58.Encode(owners[0]), query.EmptyCursor, 10, query.Ascending)
		require.NoError(t, err)
		require.Len(t, actual, 3)
		for i := range expected {
			assertEquivalentRecords(t, expected[i], actual[i])
		}

		actual, err = s.GetAllByOwner(ctx, base58.Encode(owners[0]), query.EmptyCursor, 2, query.Descending)
		require.NoError(t, err)
		require.Len(t, actual, 2)
		assertEquivalentRecords(t, expected[2], actual[0])
		assertEquivalentRecords(t, expected[1], actual[1])

		actual, err = s.GetAllByOwner(ctx, base58.Encode(owners[0]), query.ToCursor(expected[0].Id), 10, query.Ascending)
		require.NoError(t, err)
		require.Len(t, actual, 2)
		assertEquivalentRecords(t, expected[1], actual[0])
		assertEquivalentRecords(t, expected[2], actual[1])

		_, err = s.GetAllByOwner(ctx, base58.Encode(owners[0]), query.ToCursor(expected[2].Id), 10, query.Ascending)
		assert.Equal(t, account.ErrAccountNotFound, err)
	})
}

func assertEquivalentRecords(t *testing.T, obj1, obj2 *account.Record) {
	assert.Equal(t, obj1.Id, obj2.Id)
	assert.Equal(t, obj1.Address, obj2.Address)
	assert.Equal(t, obj1.Owner, obj2.Owner)
	assert.Equal(t, obj1.Lamports, obj2.Lamports)
	assert.Equal(t, len(obj1.Data), len(obj2.Data))
	if len(obj1.Data) > 0 {
		assert.Equal(t, obj1.Data, obj2.Data)
	}
	assert.Equal(t, obj1.Executable, obj2.Executable)
	assert.Equal(t, obj1.Version, obj2.Version)
}
