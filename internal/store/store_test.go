package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

// =============================================================================
// Test Data Builders
// =============================================================================

func buildTestAccount(address, kind string, data []byte) CreateAccountInput {
	return CreateAccountInput{
		Address: address,
		Owner:   "BCD29c55GrdmwUefJ8ndbp49TuH4h3khj62CrRaD1tx9",
		Kind:    kind,
		Data:    data,
	}
}

func buildTestInstructionLog(id, instruction, signer string, wallet, handle *string) CreateInstructionLogInput {
	return CreateInstructionLogInput{
		ID:          id,
		Instruction: instruction,
		Signer:      signer,
		Wallet:      wallet,
		Handle:      handle,
		Status:      "succeeded",
		Args:        datatypes.JSON(`{"amount":"100"}`),
	}
}

func strPtr(s string) *string {
	return &s
}

// RunStoreTests runs the store behaviour tests against the store created by initDB
func RunStoreTests(t *testing.T, initDB func(t *testing.T) Store) {
	t.Run("CreateAccount", func(t *testing.T) { testCreateAccount(t, initDB(t)) })
	t.Run("UpdateAccountData", func(t *testing.T) { testUpdateAccountData(t, initDB(t)) })
	t.Run("ListAccounts", func(t *testing.T) { testListAccounts(t, initDB(t)) })
	t.Run("DeleteAccount", func(t *testing.T) { testDeleteAccount(t, initDB(t)) })
	t.Run("WithTx", func(t *testing.T) { testWithTx(t, initDB(t)) })
	t.Run("InstructionLogs", func(t *testing.T) { testInstructionLogs(t, initDB(t)) })
	t.Run("KeyValue", func(t *testing.T) { testKeyValue(t, initDB(t)) })
	t.Run("ListKeyValues", func(t *testing.T) { testListKeyValues(t, initDB(t)) })
}

func testCreateAccount(t *testing.T, s Store) {
	ctx := context.Background()

	missing, err := s.GetAccount(ctx, "addr-missing")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, s.CreateAccount(ctx, buildTestAccount("addr-1", "config", []byte{1, 2, 3})))

	acc, err := s.GetAccount(ctx, "addr-1")
	require.NoError(t, err)
	require.NotNil(t, acc)
	assert.Equal(t, "config", acc.Kind)
	assert.Equal(t, []byte{1, 2, 3}, acc.Data)

	// A second create at the same address fails and leaves the data untouched
	err = s.CreateAccount(ctx, buildTestAccount("addr-1", "config", []byte{9}))
	assert.ErrorIs(t, err, ErrAccountExists)

	acc, err = s.GetAccount(ctx, "addr-1")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, acc.Data)
}

func testUpdateAccountData(t *testing.T, s Store) {
	ctx := context.Background()

	err := s.UpdateAccountData(ctx, "addr-missing", []byte{1})
	assert.ErrorIs(t, err, ErrAccountNotFound)

	require.NoError(t, s.CreateAccount(ctx, buildTestAccount("addr-2", "pending_claim", []byte{0})))
	require.NoError(t, s.UpdateAccountData(ctx, "addr-2", []byte{7, 7}))

	acc, err := s.GetAccountForUpdate(ctx, "addr-2")
	require.NoError(t, err)
	require.NotNil(t, acc)
	assert.Equal(t, []byte{7, 7}, acc.Data)
}

func testListAccounts(t *testing.T, s Store) {
	ctx := context.Background()

	require.NoError(t, s.CreateAccount(ctx, buildTestAccount("b-link", "social_link", []byte{1})))
	require.NoError(t, s.CreateAccount(ctx, buildTestAccount("a-link", "social_link", []byte{2})))
	require.NoError(t, s.CreateAccount(ctx, buildTestAccount("c-claim", "pending_claim", []byte{3})))

	links, err := s.ListAccountsByKind(ctx, "social_link")
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, "a-link", links[0].Address)
	assert.Equal(t, "b-link", links[1].Address)

	accounts, err := s.GetAccounts(ctx, []string{"a-link", "c-claim", "nope"})
	require.NoError(t, err)
	assert.Len(t, accounts, 2)

	empty, err := s.GetAccounts(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func testDeleteAccount(t *testing.T, s Store) {
	ctx := context.Background()

	require.NoError(t, s.CreateAccount(ctx, buildTestAccount("addr-del", "payment_record", []byte{1})))
	require.NoError(t, s.DeleteAccount(ctx, "addr-del"))

	acc, err := s.GetAccount(ctx, "addr-del")
	require.NoError(t, err)
	assert.Nil(t, acc)

	// The address can be reused once freed
	require.NoError(t, s.CreateAccount(ctx, buildTestAccount("addr-del", "payment_record", []byte{2})))
}

func testWithTx(t *testing.T, s Store) {
	ctx := context.Background()
	errAbort := errors.New("abort")

	err := s.WithTx(ctx, func(tx Store) error {
		if err := tx.CreateAccount(ctx, buildTestAccount("tx-1", "config", []byte{1})); err != nil {
			return err
		}
		return errAbort
	})
	assert.ErrorIs(t, err, errAbort)

	acc, err := s.GetAccount(ctx, "tx-1")
	require.NoError(t, err)
	assert.Nil(t, acc, "rolled back account must not exist")

	err = s.WithTx(ctx, func(tx Store) error {
		return tx.CreateAccount(ctx, buildTestAccount("tx-2", "config", []byte{2}))
	})
	require.NoError(t, err)

	acc, err = s.GetAccount(ctx, "tx-2")
	require.NoError(t, err)
	assert.NotNil(t, acc)
}

func testInstructionLogs(t *testing.T, s Store) {
	ctx := context.Background()

	require.NoError(t, s.CreateInstructionLog(ctx, buildTestInstructionLog("01HZZZZZZZZZZZZZZZZZZZZZZA", "send_token", "alice", strPtr("bob"), nil)))
	require.NoError(t, s.CreateInstructionLog(ctx, buildTestInstructionLog("01HZZZZZZZZZZZZZZZZZZZZZZB", "send_token_to_unlinked", "alice", nil, strPtr("@carol"))))
	require.NoError(t, s.CreateInstructionLog(ctx, buildTestInstructionLog("01HZZZZZZZZZZZZZZZZZZZZZZC", "claim_token", "carol", nil, strPtr("@carol"))))

	byWallet, err := s.ListInstructionLogs(ctx, InstructionLogFilter{Wallet: "bob"})
	require.NoError(t, err)
	require.Len(t, byWallet, 1)
	assert.Equal(t, "send_token", byWallet[0].Instruction)

	byHandle, err := s.ListInstructionLogs(ctx, InstructionLogFilter{Handle: "@carol"})
	require.NoError(t, err)
	require.Len(t, byHandle, 2)
	assert.Equal(t, "claim_token", byHandle[0].Instruction, "newest first")

	bySigner, err := s.ListInstructionLogs(ctx, InstructionLogFilter{Wallet: "alice", Limit: 1})
	require.NoError(t, err)
	require.Len(t, bySigner, 1)
	assert.Equal(t, "send_token_to_unlinked", bySigner[0].Instruction)
}

func testKeyValue(t *testing.T, s Store) {
	ctx := context.Background()

	v, err := s.GetKeyValue(ctx, "nonce:abc")
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, s.SetKeyValue(ctx, "nonce:abc", "1700000000"))
	require.NoError(t, s.SetKeyValue(ctx, "nonce:abc", "1700000060"))

	v, err = s.GetKeyValue(ctx, "nonce:abc")
	require.NoError(t, err)
	assert.Equal(t, "1700000060", v)

	deleted, err := s.DeleteKeyValue(ctx, "nonce:abc")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = s.DeleteKeyValue(ctx, "nonce:abc")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func testListKeyValues(t *testing.T, s Store) {
	ctx := context.Background()

	for _, key := range []string{"nonce:c", "nonce:a", "nonce:b", "nonceXd", "session:a"} {
		require.NoError(t, s.SetKeyValue(ctx, key, "v"))
	}

	page, err := s.ListKeyValues(ctx, "nonce:", "", 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "nonce:a", page[0].Key)
	assert.Equal(t, "nonce:b", page[1].Key)

	page, err = s.ListKeyValues(ctx, "nonce:", page[1].Key, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "nonce:c", page[0].Key)

	page, err = s.ListKeyValues(ctx, "nonce:", "nonce:c", 2)
	require.NoError(t, err)
	assert.Empty(t, page)

	// Wildcards in the prefix match literally
	page, err = s.ListKeyValues(ctx, "nonce_", "", 10)
	require.NoError(t, err)
	assert.Empty(t, page)
}
