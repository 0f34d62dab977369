package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/WheelShare/WheelShare/internal/vehicle"
)

func newVehiclesCommand(opts *RootOptions, app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vehicles",
		Short: "浏览与管理车辆",
	}

	cmd.AddCommand(newVehiclesListCommand(opts, app))
	cmd.AddCommand(newVehiclesLatestCommand(app))
	cmd.AddCommand(newVehiclesShowCommand(app))
	cmd.AddCommand(newVehiclesMineCommand(app))
	cmd.AddCommand(newVehiclesAddCommand(app))
	cmd.AddCommand(newVehiclesUpdateCommand(app))
	cmd.AddCommand(newVehiclesDeleteCommand(app))

	return cmd
}

func newVehiclesListCommand(opts *RootOptions, app *App) *cobra.Command {
	var (
		search   string
		category string
		location string
		sortBy   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "列出车辆（可搜索/筛选/排序）",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			view := vehicle.NewView()
			var full []vehicle.Vehicle
			var err error

			if opts.Offline {
				full, err = app.Cache.Vehicles(ctx)
			} else {
				seq := view.BeginRefresh()
				full, err = app.Vehicles.List(ctx)
				if err == nil {
					view.ApplyRefresh(seq, full)
					if app.Cache != nil {
						if cacheErr := app.Cache.SaveVehicles(ctx, full); cacheErr != nil {
							app.Log.Warnf("failed to refresh cache: %v", cacheErr)
						}
					}
				}
			}
			if err != nil {
				return err
			}
			if opts.Offline {
				view.ApplyRefresh(view.BeginRefresh(), full)
			}

			view.SetSpec(vehicle.FilterSpec{
				Search:   search,
				Category: vehicle.Category(category),
				Location: location,
				SortBy:   vehicle.SortKey(sortBy),
			})

			visible := view.Visible()
			renderVehicles(cmd.OutOrStdout(), visible)
			fmt.Fprintf(cmd.OutOrStdout(), "共 %d 辆\n", len(visible))
			return nil
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "按车名搜索（忽略大小写）")
	cmd.Flags().StringVar(&category, "category", "", "类目精确过滤（Sedan/SUV/Electric/Van/Motorcycle）")
	cmd.Flags().StringVar(&location, "location", "", "按地点过滤（忽略大小写）")
	cmd.Flags().StringVar(&sortBy, "sort", "", "排序（price-low|price-high|newest）")

	return cmd
}

func newVehiclesLatestCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "latest",
		Short: "最新上架的车辆",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := app.Vehicles.Latest(cmd.Context())
			if err != nil {
				return err
			}
			renderVehicles(cmd.OutOrStdout(), list)
			return nil
		},
	}
}

func newVehiclesShowCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <vehicle-id>",
		Short: "查看车辆详情与可订状态",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// show 走和详情页一致的对账流程，顺便给出订车入口状态
			rec := app.NewReconciler(args[0])
			if err := rec.Load(cmd.Context()); err != nil {
				return err
			}
			renderVehicleDetail(cmd.OutOrStdout(), rec)
			return nil
		},
	}
}

func newVehiclesMineCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "我上架的车辆",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := app.Vehicles.Mine(cmd.Context())
			if err != nil {
				return err
			}
			renderVehicles(cmd.OutOrStdout(), list)
			return nil
		},
	}
}

func draftFlags(cmd *cobra.Command, d *vehicle.Draft) {
	cmd.Flags().StringVar(&d.VehicleName, "vehicle-name", "", "车名")
	cmd.Flags().StringVar(&d.Owner, "owner", "", "车主展示名（默认取当前身份）")
	cmd.Flags().StringVar((*string)(&d.Category), "category", string(vehicle.CategorySedan), "类目")
	cmd.Flags().Float64Var(&d.PricePerDay, "price", 0, "日租价")
	cmd.Flags().StringVar(&d.Location, "location", "", "所在地")
	cmd.Flags().StringVar((*string)(&d.Availability), "availability", string(vehicle.Available), "Available 或 Booked")
	cmd.Flags().StringVar(&d.Description, "description", "", "描述")
	cmd.Flags().StringVar(&d.CoverImage, "image", "", "封面图 URL")
}

func newVehiclesAddCommand(app *App) *cobra.Command {
	var draft vehicle.Draft
	cmd := &cobra.Command{
		Use:   "add",
		Short: "上架一辆车",
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := app.Vehicles.Create(cmd.Context(), draft)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "已上架: %s (%s)\n", created.VehicleName, created.ID)
			return nil
		},
	}
	draftFlags(cmd, &draft)
	return cmd
}

func newVehiclesUpdateCommand(app *App) *cobra.Command {
	var draft vehicle.Draft
	cmd := &cobra.Command{
		Use:   "update <vehicle-id>",
		Short: "修改自己上架的车辆",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			updated, err := app.Vehicles.Update(cmd.Context(), args[0], draft)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "已更新: %s\n", updated.VehicleName)
			return nil
		},
	}
	draftFlags(cmd, &draft)
	return cmd
}

func newVehiclesDeleteCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <vehicle-id>",
		Short: "下架自己上架的车辆",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Vehicles.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "已删除")
			return nil
		},
	}
}
