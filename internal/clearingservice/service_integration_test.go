//go:build integration

package clearingservice_test

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"os"
	"testing"

	"github.com/clearops/clearanced/internal/clearingservice"
	"github.com/clearops/clearanced/internal/domain"
	"github.com/clearops/clearanced/internal/ledgerrepo"
	"github.com/clearops/clearanced/internal/middleware"
	"github.com/clearops/clearanced/internal/test"
	"github.com/clearops/clearanced/pkg/configpkg"
	"github.com/clearops/clearanced/pkg/dbpkg"
	"github.com/stretchr/testify/require"

	_ "github.com/lib/pq"
)

var (
	testDB *sql.DB
	ctx    context.Context
)

func TestMain(m *testing.M) {
	config, err := configpkg.Load("../../configs")
	if err != nil {
		log.Fatal("cannot load config:", err)
	}

	testDB, err = dbpkg.Setup(config.DBDriver, config.DBSource, config.DBMaxOpenConns)
	if err != nil {
		log.Fatal("cannot connect to database:", err)
	}

	logger := middleware.CreateLogger(config)
	ctx = logger.WithContext(context.Background())

	os.Exit(m.Run())
}

// seedCommitted seeds accounts and an outbox record outside any transaction
// and removes them when the test finishes.
func seedCommitted(t *testing.T, amount, senderBalance, senderReserved, receiverBalance string) (domain.OutboxRecord, domain.Account, domain.Account) {
	t.Helper()

	sender := test.SeedAccount(t, testDB, senderBalance, senderReserved)
	receiver := test.SeedAccount(t, testDB, receiverBalance, "0")
	outbox := test.SeedOutbox(t, testDB, amount, sender.AccountNumber, receiver.AccountNumber)

	t.Cleanup(func() {
		if _, err := testDB.Exec("DELETE FROM outbox WHERE id = $1", outbox.ID); err != nil {
			t.Fatalf("outbox cleanup failed: %v", err)
		}
		if _, err := testDB.Exec("DELETE FROM accounts WHERE account_number IN ($1, $2)",
			sender.AccountNumber, receiver.AccountNumber); err != nil {
			t.Fatalf("accounts cleanup failed: %v", err)
		}
	})

	return outbox, sender, receiver
}

func getAccount(t *testing.T, number int64) domain.Account {
	t.Helper()

	repo := ledgerrepo.NewRepoPGS(testDB)

	accounts, err := repo.GetAccounts(ctx, []int64{number})
	require.NoError(t, err)

	return accounts[0]
}

func TestClearSettlesOnce(t *testing.T) {
	outbox, sender, receiver := seedCommitted(t, "500", "2000", "500", "300")

	store := ledgerrepo.NewStorePGS(testDB)
	service := clearingservice.New(store)

	res, err := service.Clear(ctx, outbox.ID)
	require.NoError(t, err)
	require.Equal(t, "1500", res.SenderBalance)
	require.Equal(t, sender.ContactAddress, res.SenderContact)
	require.Equal(t, receiver.ContactAddress, res.ReceiverContact)

	gotSender := getAccount(t, sender.AccountNumber)
	require.Equal(t, "1500", gotSender.Balance)
	require.Equal(t, "0", gotSender.ReservedAmount)

	gotReceiver := getAccount(t, receiver.AccountNumber)
	require.Equal(t, "800", gotReceiver.Balance)

	gotOutbox, err := store.GetOutbox(ctx, outbox.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusCompleted, gotOutbox.Status)

	// A second clear of the settled record must not touch balances.
	_, err = service.Clear(ctx, outbox.ID)
	require.ErrorIs(t, err, domain.ErrAlreadyCleared)

	gotSender = getAccount(t, sender.AccountNumber)
	require.Equal(t, "1500", gotSender.Balance)
}

func TestExecTxRollsBackPartialWrites(t *testing.T) {
	outbox, sender, receiver := seedCommitted(t, "500", "2000", "500", "300")

	store := ledgerrepo.NewStorePGS(testDB)

	forced := errors.New("forced failure after debit")

	err := store.ExecTx(ctx, func(ledger clearingservice.Ledger) error {
		arg := domain.ApplyTransferParams{
			SenderAccount:   sender.AccountNumber,
			SenderBalance:   "1500",
			SenderReserved:  "0",
			ReceiverAccount: receiver.AccountNumber,
			ReceiverBalance: "800",
		}

		if err := ledger.ApplyTransfer(ctx, arg); err != nil {
			return err
		}

		return forced
	})
	require.ErrorIs(t, err, forced)

	gotSender := getAccount(t, sender.AccountNumber)
	require.Equal(t, "2000", gotSender.Balance)
	require.Equal(t, "500", gotSender.ReservedAmount)

	gotReceiver := getAccount(t, receiver.AccountNumber)
	require.Equal(t, "300", gotReceiver.Balance)

	gotOutbox, err := store.GetOutbox(ctx, outbox.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, gotOutbox.Status)
}

func TestClearRevertsStatusOnFailure(t *testing.T) {
	outbox, sender, _ := seedCommitted(t, "500", "2000", "500", "300")

	// Point the record at a receiver that does not exist.
	_, err := testDB.Exec("UPDATE outbox SET receiver_account = $1 WHERE id = $2", int64(-1), outbox.ID)
	require.NoError(t, err)

	store := ledgerrepo.NewStorePGS(testDB)
	service := clearingservice.New(store)

	_, err = service.Clear(ctx, outbox.ID)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)

	gotSender := getAccount(t, sender.AccountNumber)
	require.Equal(t, "2000", gotSender.Balance)
	require.Equal(t, "500", gotSender.ReservedAmount)

	gotOutbox, getErr := store.GetOutbox(ctx, outbox.ID)
	require.NoError(t, getErr)
	require.Equal(t, domain.StatusPending, gotOutbox.Status)
}
