package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	postgresRepo "github.com/iho/walletledger/internal/adapter/repository/postgres"
	"github.com/iho/walletledger/internal/domain"
	"github.com/iho/walletledger/internal/infrastructure/config"
	"github.com/iho/walletledger/internal/infrastructure/logger"
	"github.com/iho/walletledger/internal/infrastructure/postgres"
	"github.com/iho/walletledger/internal/usecase"
)

// dbCmd groups commands that talk to PostgreSQL directly instead of the API.
func dbCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database maintenance (uses DATABASE_URL, not the API)",
	}

	cmd.AddCommand(migrateCmd(), seedCmd(), recordWalletTxCmd())
	return cmd
}

func cliLogger(cfg *config.Config) zerolog.Logger {
	return logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  "console",
		Service: "walletledger-cli",
		Output:  os.Stderr,
	})
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back schema migrations",
	}

	newMigrator := func() (*postgres.Migrator, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("load configuration: %w", err)
		}
		return postgres.NewMigrator(cfg.DatabaseURL, cfg.MigrationsPath, cliLogger(cfg)), nil
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newMigrator()
			if err != nil {
				return err
			}
			return m.Up()
		},
	}

	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the last migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newMigrator()
			if err != nil {
				return err
			}
			return m.Down()
		},
	}

	version := &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newMigrator()
			if err != nil {
				return err
			}
			v, dirty, err := m.Version()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version: %d dirty: %v\n", v, dirty)
			return nil
		},
	}

	cmd.AddCommand(up, down, version)
	return cmd
}

func openPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.DatabaseTimeout)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, 2, 0)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	return pool, nil
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the default chart of accounts (existing accounts are kept)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			pool, err := openPool(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			uc := usecase.NewAccountUseCase(postgresRepo.NewAccountRepository(pool), cliLogger(cfg))
			created, err := uc.SeedChart(cmd.Context(), usecase.DefaultChart())
			if err != nil {
				return err
			}

			if len(created) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Chart of accounts already present")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created accounts: %s\n", strings.Join(created, ", "))
			return nil
		},
	}
}

type walletTxFlags struct {
	id, wallet, landlord, tenant string
	txType, channel, amount      string
	reference, status, createdAt string
}

// build turns the flags into a wallet transaction, applying the same checks
// reconciliation applies before posting.
func (f walletTxFlags) build(now time.Time) (*domain.WalletTransaction, string, error) {
	amount, err := decimal.NewFromString(f.amount)
	if err != nil {
		return nil, "", fmt.Errorf("%w: amount %q is not a number", domain.ErrValidation, f.amount)
	}
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, "", err
	}

	tx := &domain.WalletTransaction{
		ID:        strings.TrimSpace(f.id),
		WalletID:  strings.TrimSpace(f.wallet),
		Type:      domain.WalletTransactionType(strings.ToUpper(f.txType)),
		Channel:   domain.Channel(strings.ToUpper(f.channel)),
		Amount:    amount,
		Reference: f.reference,
		CreatedAt: now.UTC(),
	}
	if tx.ID == "" || tx.WalletID == "" {
		return nil, "", fmt.Errorf("%w: id and wallet are required", domain.ErrValidation)
	}
	if _, err := tx.SourceType(); err != nil {
		return nil, "", err
	}
	if f.landlord != "" {
		tx.LandlordID = &f.landlord
	}
	if f.tenant != "" {
		tx.TenantID = &f.tenant
	}
	if f.createdAt != "" {
		ts, err := time.Parse(time.RFC3339, f.createdAt)
		if err != nil {
			return nil, "", fmt.Errorf("%w: created-at must be RFC3339", domain.ErrValidation)
		}
		tx.CreatedAt = ts.UTC()
	}

	return tx, strings.ToUpper(f.status), nil
}

func recordWalletTxCmd() *cobra.Command {
	var f walletTxFlags

	cmd := &cobra.Command{
		Use:   "record-wallet-tx",
		Short: "Record a gateway wallet transaction for reconciliation",
		RunE: func(cmd *cobra.Command, args []string) error {
			tx, status, err := f.build(time.Now())
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			pool, err := openPool(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := postgresRepo.NewWalletTransactionRepository(pool).Record(cmd.Context(), tx, status); err != nil {
				return fmt.Errorf("record wallet transaction: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s %s %s on wallet %s (%s)\n",
				tx.ID, tx.Type, tx.Amount.StringFixed(2), tx.WalletID, status)
			return nil
		},
	}

	cmd.Flags().StringVar(&f.id, "id", "", "Gateway transaction id")
	cmd.Flags().StringVar(&f.wallet, "wallet", "", "Wallet id")
	cmd.Flags().StringVar(&f.landlord, "landlord", "", "Landlord id")
	cmd.Flags().StringVar(&f.tenant, "tenant", "", "Tenant id")
	cmd.Flags().StringVar(&f.txType, "type", "", "DEPOSIT or WITHDRAWAL")
	cmd.Flags().StringVar(&f.channel, "channel", "", "Payment channel")
	cmd.Flags().StringVar(&f.amount, "amount", "", "Amount")
	cmd.Flags().StringVar(&f.reference, "reference", "", "Gateway reference")
	cmd.Flags().StringVar(&f.status, "status", domain.WalletStatusCompleted, "Gateway status")
	cmd.Flags().StringVar(&f.createdAt, "created-at", "", "Creation time (RFC3339, defaults to now)")
	for _, name := range []string{"id", "wallet", "type", "channel", "amount"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}
