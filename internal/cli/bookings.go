package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/WheelShare/WheelShare/internal/booking"
)

// NewReconciler 为指定车辆创建订车对账器（详情页 / book 命令共用）。
func (a *App) NewReconciler(vehicleID string) *booking.Reconciler {
	return booking.NewReconciler(vehicleID, a.Vehicles, a.Bookings, a.Boundary)
}

func newBookCommand(opts *RootOptions, app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "book <vehicle-id>",
		Short: "预订一辆车",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			rec := app.NewReconciler(args[0])
			if err := rec.Load(ctx); err != nil {
				return err
			}
			created, err := rec.Book(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "预订成功: %s（$%.2f/天）\n", created.VehicleName, created.PricePerDay)
			return nil
		},
	}
}

func newBookingsCommand(opts *RootOptions, app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "bookings",
		Short: "我的订车记录",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if opts.Offline {
				id, ok := app.Boundary.Current()
				if !ok {
					return fmt.Errorf("--offline bookings requires --email/--password")
				}
				list, err := app.Cache.Bookings(ctx, id.Email)
				if err != nil {
					return err
				}
				renderBookings(cmd.OutOrStdout(), list)
				return nil
			}

			list, err := app.Bookings.MyBookings(ctx)
			if err != nil {
				return err
			}
			if app.Cache != nil {
				if id, ok := app.Boundary.Current(); ok {
					if cacheErr := app.Cache.SaveBookings(ctx, id.Email, list); cacheErr != nil {
						app.Log.Warnf("failed to refresh booking cache: %v", cacheErr)
					}
				}
			}
			renderBookings(cmd.OutOrStdout(), list)
			return nil
		},
	}
}

func newWhoamiCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "当前身份",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, ok := app.Boundary.Current()
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "匿名（未登录）")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\n", id.DisplayName, id.Email)
			return nil
		},
	}
}
