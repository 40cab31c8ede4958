package service

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/wayfinder-ai/wayfinder/app/core"
	v1 "github.com/wayfinder-ai/wayfinder/app/logic/v1"
	"github.com/wayfinder-ai/wayfinder/app/logic/v1/process"
	"github.com/wayfinder-ai/wayfinder/pkg/utils"
)

type Options struct {
	ConfigPath string
}

func (o *Options) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVarP(&o.ConfigPath, "config", "c", "", "init api by given config")
}

func NewCommand() *cobra.Command {
	opts := &Options{}
	cmd := &cobra.Command{
		Use:   "service",
		Short: "conversation assistant service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(opts)
		},
	}
	opts.AddFlags(cmd.Flags())
	return cmd
}

func Run(opts *Options) error {
	app := core.MustSetupCore(core.MustLoadBaseConfig(opts.ConfigPath))
	utils.SetupIDWorker(1)

	if err := v1.InitDefaultUser(context.Background(), app); err != nil {
		slog.Error("failed to init default user", slog.String("error", err.Error()))
		return err
	}

	process.NewProcess(app).Start()
	serve(app)

	return nil
}
