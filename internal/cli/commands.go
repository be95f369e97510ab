package cli

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ijair/codeEcommerce-sub001/internal/app"
	"github.com/ijair/codeEcommerce-sub001/internal/application/audit"
	"github.com/ijair/codeEcommerce-sub001/internal/application/dto"
	"github.com/ijair/codeEcommerce-sub001/internal/infrastructure/postgres"
	"github.com/ijair/codeEcommerce-sub001/pkg/config"
	"github.com/ijair/codeEcommerce-sub001/pkg/jwt"
)

// NewMigrateCommand aplica el esquema embebido a PostgreSQL.
func NewMigrateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica el esquema de base de datos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Config.Store.Driver != config.DriverPostgres {
				return fmt.Errorf("migrate requiere STORE_DRIVER=%s", config.DriverPostgres)
			}
			ctx := cmd.Context()
			pool, err := postgres.NewPool(ctx, opts.Config.DB, postgres.PoolOptions{MaxConns: 2, MinConns: 1})
			if err != nil {
				return err
			}
			defer pool.Close()
			if err := postgres.Migrate(ctx, pool); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "esquema aplicado")
			return nil
		},
	}
}

// NewTokenCommand emite un JWT para una identidad.
func NewTokenCommand(opts *RootOptions) *cobra.Command {
	var (
		kind    string
		minutes int
	)
	cmd := &cobra.Command{
		Use:   "token <identidad>",
		Short: "Emite un Bearer Token para la identidad indicada",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if minutes <= 0 {
				minutes = opts.Config.JWT.Expiration
			}
			tok, err := jwt.Generate(opts.Config.JWT.Secret, args[0], kind, opts.Config.JWT.Issuer, minutes)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "user", "tipo de identidad (user|service)")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "vigencia en minutos (por defecto JWT_EXPIRATION_MINUTES)")
	return cmd
}

// NewGrantCommand autoriza un llamador en un almacén actuando como su administrador.
func NewGrantCommand(opts *RootOptions) *cobra.Command {
	var as string
	cmd := &cobra.Command{
		Use:   "grant <store> <caller>",
		Short: "Autoriza un llamador en el catálogo o el libro de clientes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, st, err := opts.services(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()
			admin := as
			if admin == "" {
				admin = app.Gate(opts.Config).Admin(args[0])
			}
			g, err := svc.Authz.Grant(cmd.Context(), admin, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s autorizado en %s por %s\n", g.Caller, g.Store, g.GrantedBy)
			return nil
		},
	}
	cmd.Flags().StringVar(&as, "as", "", "identidad administradora (por defecto la configurada para el almacén)")
	return cmd
}

// NewRevokeCommand retira la autorización de un llamador.
func NewRevokeCommand(opts *RootOptions) *cobra.Command {
	var as string
	cmd := &cobra.Command{
		Use:   "revoke <store> <caller>",
		Short: "Revoca un llamador del catálogo o del libro de clientes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, st, err := opts.services(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()
			admin := as
			if admin == "" {
				admin = app.Gate(opts.Config).Admin(args[0])
			}
			if err := svc.Authz.Revoke(cmd.Context(), admin, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s revocado en %s\n", args[1], args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&as, "as", "", "identidad administradora (por defecto la configurada para el almacén)")
	return cmd
}

// NewCreditCommand acredita saldo interno como administrador de plataforma.
func NewCreditCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "credit <holder> <monto>",
		Short: "Acredita saldo interno a una identidad",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("monto inválido %q: %w", args[1], err)
			}
			svc, st, err := opts.services(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()
			b, err := svc.Funds.Credit(cmd.Context(), opts.Config.Platform.Admin, dto.CreditRequest{Holder: args[0], Amount: amount})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", b.Holder, b.Amount.StringFixed(2))
			return nil
		},
	}
}

// NewBalanceCommand muestra el saldo interno de una identidad.
func NewBalanceCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "balance <holder>",
		Short: "Muestra el saldo interno de una identidad",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, st, err := opts.services(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()
			b, err := svc.Funds.BalanceOf(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", b.Holder, b.Amount.StringFixed(2))
			return nil
		},
	}
}

// NewAuditCommand lista los eventos de auditoría recientes, uno por línea.
func NewAuditCommand(opts *RootOptions) *cobra.Command {
	var (
		as    string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Lista los eventos de auditoría recientes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, st, err := opts.services(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()
			caller := as
			if caller == "" {
				caller = opts.Config.Platform.Admin
			}
			out, err := svc.Audit.Recent(cmd.Context(), caller, limit)
			if err != nil {
				return err
			}
			for _, e := range out.Items {
				store := e.Store
				if store == "" {
					store = "-"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s %s\n", e.CreatedAt.Format(time.RFC3339), e.Type, store, e.Actor)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&as, "as", "", "identidad que consulta (por defecto el administrador de plataforma)")
	cmd.Flags().IntVar(&limit, "limit", audit.DefaultLimit, "máximo de eventos")
	return cmd
}
