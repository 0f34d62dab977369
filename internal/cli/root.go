// Package cli WheelShare 客户端命令行入口：把配置、日志、追踪、
// 服务发现、会话、请求客户端和各领域服务装配起来。
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/WheelShare/WheelShare/internal/api"
	"github.com/WheelShare/WheelShare/internal/booking"
	"github.com/WheelShare/WheelShare/internal/common/config"
	"github.com/WheelShare/WheelShare/internal/common/discovery"
	"github.com/WheelShare/WheelShare/internal/common/logger"
	"github.com/WheelShare/WheelShare/internal/common/tracing"
	"github.com/WheelShare/WheelShare/internal/session"
	"github.com/WheelShare/WheelShare/internal/store"
	"github.com/WheelShare/WheelShare/internal/vehicle"
)

// RootOptions 全局参数。
type RootOptions struct {
	ConfigPath string
	Offline    bool // 只读本地缓存，不触网

	// 开发身份：提供 email+password 时以该身份登录本次调用
	Email    string
	Password string
	Name     string
	Photo    string
}

// App 一次 CLI 调用的装配结果。
type App struct {
	Cfg      *config.Config
	Log      logger.Logger
	Boundary *session.Boundary
	Client   *api.Client
	Vehicles *vehicle.Service
	Bookings *booking.Service
	Cache    *store.Store

	closers []io.Closer
}

// Close 释放追踪器等资源。
func (a *App) Close() {
	for _, c := range a.closers {
		_ = c.Close()
	}
}

// NewRootCommand 创建根命令。
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	app := &App{}

	cmd := &cobra.Command{
		Use:           "wheelshare-cli",
		Short:         "WheelShare 租车市场客户端",
		Long:          "浏览车辆、管理自己上架的车辆、预订他人车辆的命令行客户端。",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd, opts, app)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.Close()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "configs/wheelshare.json", "配置文件路径")
	cmd.PersistentFlags().BoolVar(&opts.Offline, "offline", false, "只读本地缓存，不访问远端 API")
	cmd.PersistentFlags().StringVar(&opts.Email, "email", "", "开发身份邮箱")
	cmd.PersistentFlags().StringVar(&opts.Password, "password", "", "开发身份密码")
	cmd.PersistentFlags().StringVar(&opts.Name, "name", "", "展示名（配合 --email 使用）")
	cmd.PersistentFlags().StringVar(&opts.Photo, "photo", "", "头像 URL（配合 --email 使用）")

	cmd.AddCommand(newVehiclesCommand(opts, app))
	cmd.AddCommand(newBookCommand(opts, app))
	cmd.AddCommand(newBookingsCommand(opts, app))
	cmd.AddCommand(newWhoamiCommand(app))

	return cmd
}

// setup 按配置装配 App。顺序：配置 → 日志 → 追踪 → 服务发现 → 会话 → 客户端。
func setup(cmd *cobra.Command, opts *RootOptions, app *App) error {
	cfg, err := config.LoadConfig(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	var kvErr error
	if !opts.Offline && cfg.Consul.ConfigKey != "" {
		var kvCfg *config.Config
		if kvCfg, kvErr = config.LoadConfigFromConsulKV(cfg.Consul.Host, cfg.Consul.Port, cfg.Consul.ConfigKey); kvErr == nil {
			cfg = kvCfg
		}
	}
	app.Cfg = cfg

	log, err := logger.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	app.Log = log
	if kvErr != nil {
		log.Warnf("consul kv config unavailable, using local config: %v", kvErr)
	}

	if !opts.Offline {
		_, closer, err := tracing.InitTracer("wheelshare-cli", cfg.Jaeger.Endpoint, cfg.Jaeger.Sampler)
		if err != nil {
			log.Warnf("failed to init tracer: %v", err)
		} else {
			app.closers = append(app.closers, closer)
		}
	}

	provider := session.NewHS256Provider(cfg.Auth)
	app.Boundary = session.NewBoundary(provider)
	app.Client = api.NewClient(cfg.API, app.Boundary, log)
	app.Vehicles = vehicle.NewService(app.Client, app.Boundary)
	app.Bookings = booking.NewService(app.Client, app.Boundary)

	// 配置了服务名时，优先从 Consul 健康实例解析 API 根地址
	if !opts.Offline && cfg.Consul.Service != "" {
		consulClient, err := discovery.NewConsulClient(cfg.Consul.Host, cfg.Consul.Port)
		if err != nil {
			log.Warnf("failed to create consul client: %v", err)
		} else if baseURL, err := discovery.ResolveBaseURL(consulClient, cfg.Consul.Service); err != nil {
			log.Warnf("consul resolve failed, using configured base_url: %v", err)
		} else {
			app.Client.SetBaseURL(baseURL)
		}
	}

	if cfg.Cache.Path != "" {
		cache, err := store.Open(cfg.Cache.Path)
		if err != nil {
			log.Warnf("offline cache disabled: %v", err)
		} else {
			app.Cache = cache
		}
	}
	if opts.Offline && app.Cache == nil {
		return fmt.Errorf("--offline requires cache.path in config")
	}

	// 开发身份：注册（或复用）一个本进程内的账号并登录
	if opts.Email != "" && opts.Password != "" {
		ctx := cmd.Context()
		if err := app.Boundary.SignUp(ctx, opts.Email, opts.Password); err != nil {
			return err
		}
		if opts.Name != "" || opts.Photo != "" {
			if err := app.Boundary.UpdateProfile(ctx, opts.Name, opts.Photo); err != nil {
				return err
			}
		}
	}

	return nil
}
