//go:build integration

package ledgerrepo_test

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/clearops/clearanced/internal/domain"
	"github.com/clearops/clearanced/internal/ledgerrepo"
	"github.com/clearops/clearanced/internal/middleware"
	"github.com/clearops/clearanced/internal/test"
	"github.com/clearops/clearanced/pkg/configpkg"
	"github.com/clearops/clearanced/pkg/dbpkg"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	_ "github.com/lib/pq"
)

var (
	dbDriver string
	dbSource string
	ctx      context.Context
)

func TestMain(m *testing.M) {
	config, err := configpkg.Load("../../configs")
	if err != nil {
		log.Fatal("cannot load config:", err)
	}

	dbDriver = config.DBDriver
	dbSource = config.DBSource

	logger := middleware.CreateLogger(config)
	ctx = logger.WithContext(context.Background())

	os.Exit(m.Run())
}

func TestGetOutbox(t *testing.T) {
	tx := dbpkg.SetupTX(t, dbDriver, dbSource)
	repo := ledgerrepo.NewRepoPGS(tx)

	sender := test.SeedAccount(t, tx, "2000", "500")
	receiver := test.SeedAccount(t, tx, "300", "0")
	want := test.SeedOutbox(t, tx, "500", sender.AccountNumber, receiver.AccountNumber)

	t.Run("OK", func(t *testing.T) {
		got, err := repo.GetOutbox(ctx, want.ID)
		require.NoError(t, err)

		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("repo.GetOutbox() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := repo.GetOutbox(ctx, "missing")
		require.ErrorIs(t, err, domain.ErrOutboxNotFound)
	})
}

func TestGetAccounts(t *testing.T) {
	tx := dbpkg.SetupTX(t, dbDriver, dbSource)
	repo := ledgerrepo.NewRepoPGS(tx)

	first := test.SeedAccount(t, tx, "2000", "500")
	second := test.SeedAccount(t, tx, "300", "0")

	t.Run("RequestOrderPreserved", func(t *testing.T) {
		got, err := repo.GetAccounts(ctx, []int64{first.AccountNumber, second.AccountNumber})
		require.NoError(t, err)

		if diff := cmp.Diff([]domain.Account{first, second}, got); diff != "" {
			t.Errorf("repo.GetAccounts() mismatch (-want +got):\n%s", diff)
		}

		got, err = repo.GetAccounts(ctx, []int64{second.AccountNumber, first.AccountNumber})
		require.NoError(t, err)

		if diff := cmp.Diff([]domain.Account{second, first}, got); diff != "" {
			t.Errorf("repo.GetAccounts() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("AnyMissingFailsWholeCall", func(t *testing.T) {
		_, err := repo.GetAccounts(ctx, []int64{first.AccountNumber, -1})
		require.ErrorIs(t, err, domain.ErrAccountNotFound)
	})
}

func TestApplyTransfer(t *testing.T) {
	tx := dbpkg.SetupTX(t, dbDriver, dbSource)
	repo := ledgerrepo.NewRepoPGS(tx)

	sender := test.SeedAccount(t, tx, "2000", "500")
	receiver := test.SeedAccount(t, tx, "300", "0")

	arg := domain.ApplyTransferParams{
		SenderAccount:   sender.AccountNumber,
		SenderBalance:   "1500",
		SenderReserved:  "0",
		ReceiverAccount: receiver.AccountNumber,
		ReceiverBalance: "800",
	}

	t.Run("OK", func(t *testing.T) {
		require.NoError(t, repo.ApplyTransfer(ctx, arg))

		got, err := repo.GetAccounts(ctx, []int64{sender.AccountNumber, receiver.AccountNumber})
		require.NoError(t, err)
		require.Equal(t, "1500", got[0].Balance)
		require.Equal(t, "0", got[0].ReservedAmount)
		require.Equal(t, "800", got[1].Balance)
		require.Equal(t, "0", got[1].ReservedAmount)
	})

	t.Run("SenderNotFound", func(t *testing.T) {
		bad := arg
		bad.SenderAccount = -1

		require.ErrorIs(t, repo.ApplyTransfer(ctx, bad), domain.ErrAccountNotFound)
	})

	t.Run("ReceiverNotFound", func(t *testing.T) {
		bad := arg
		bad.ReceiverAccount = -1

		require.ErrorIs(t, repo.ApplyTransfer(ctx, bad), domain.ErrAccountNotFound)
	})
}

func TestMarkStatus(t *testing.T) {
	tx := dbpkg.SetupTX(t, dbDriver, dbSource)
	repo := ledgerrepo.NewRepoPGS(tx)

	sender := test.SeedAccount(t, tx, "2000", "500")
	receiver := test.SeedAccount(t, tx, "300", "0")
	outbox := test.SeedOutbox(t, tx, "500", sender.AccountNumber, receiver.AccountNumber)

	t.Run("OK", func(t *testing.T) {
		require.NoError(t, repo.MarkStatus(ctx, outbox.ID, domain.StatusCompleted))

		got, err := repo.GetOutbox(ctx, outbox.ID)
		require.NoError(t, err)
		require.Equal(t, domain.StatusCompleted, got.Status)
	})

	t.Run("NotFound", func(t *testing.T) {
		require.ErrorIs(t, repo.MarkStatus(ctx, "missing", domain.StatusCompleted), domain.ErrOutboxNotFound)
	})
}
