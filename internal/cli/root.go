// Package cli implementa ledgerctl: tareas operativas sobre el mismo almacenamiento que la API.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ijair/codeEcommerce-sub001/internal/app"
	"github.com/ijair/codeEcommerce-sub001/pkg/config"
	"github.com/ijair/codeEcommerce-sub001/pkg/logger"
)

// OpenFunc abre el almacenamiento sobre el que operan los comandos.
type OpenFunc func(ctx context.Context, cfg *config.Config) (*app.Storage, error)

// RootOptions estado compartido por los subcomandos.
type RootOptions struct {
	Config  *config.Config
	Open    OpenFunc
	Verbose bool

	log zerolog.Logger
}

// NewRootCommand construye ledgerctl. cfg nil se carga del entorno en PersistentPreRunE;
// open nil usa app.OpenStorage y rechaza el driver en memoria.
func NewRootCommand(cfg *config.Config, open OpenFunc) *cobra.Command {
	opts := &RootOptions{Config: cfg, Open: open}

	cmd := &cobra.Command{
		Use:   "ledgerctl",
		Short: "Herramienta operativa del libro de comercio",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.Config == nil {
				c, err := config.Load()
				if err != nil {
					return fmt.Errorf("cargar configuración: %w", err)
				}
				opts.Config = c
			}
			if err := opts.Config.Validate(); err != nil {
				return err
			}
			level := "warn"
			if opts.Verbose {
				level = "debug"
			}
			opts.log = logger.New(logger.Config{Env: opts.Config.App.Env, Level: level, Out: os.Stderr}).Zerolog()
			if opts.Open == nil {
				opts.Open = openPersistent
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log de depuración")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewTokenCommand(opts))
	cmd.AddCommand(NewGrantCommand(opts))
	cmd.AddCommand(NewRevokeCommand(opts))
	cmd.AddCommand(NewCreditCommand(opts))
	cmd.AddCommand(NewBalanceCommand(opts))
	cmd.AddCommand(NewAuditCommand(opts))

	return cmd
}

// openPersistent los cambios hechos sobre el almacén en memoria se perderían al salir.
func openPersistent(ctx context.Context, cfg *config.Config) (*app.Storage, error) {
	if cfg.Store.Driver != config.DriverPostgres {
		return nil, fmt.Errorf("ledgerctl requiere STORE_DRIVER=%s", config.DriverPostgres)
	}
	return app.OpenStorage(ctx, cfg)
}

// services abre el almacenamiento y arma los casos de uso. El llamador cierra el Storage.
func (o *RootOptions) services(ctx context.Context) (*app.Services, *app.Storage, error) {
	st, err := o.Open(ctx, o.Config)
	if err != nil {
		return nil, nil, err
	}
	svc, err := app.Build(o.Config, st, o.log)
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	return svc, st, nil
}
