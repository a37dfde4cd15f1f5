package coremain

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pmkol/linkseq/mlog"
	"github.com/pmkol/linkseq/pkg/script"
)

// Version is set by -ldflags at build time.
var Version = "dev"

type runFlags struct {
	c     string
	dir   string
	watch bool
}

var rootCmd = &cobra.Command{
	Use:   "linkseq",
	Short: "Run scripted operations on named linked lists.",
}

func init() {
	rf := new(runFlags)
	runCmd := &cobra.Command{
		Use:   "run [-c config_file] [-d working_dir] [--watch]",
		Short: "Run the steps of a config file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return StartRun(cmd.Context(), rf)
		},
		DisableFlagsInUseLine: true,
		SilenceUsage:          true,
	}
	fs := runCmd.Flags()
	fs.StringVarP(&rf.c, "config", "c", "", "config file")
	fs.StringVarP(&rf.dir, "dir", "d", "", "working dir")
	fs.BoolVarP(&rf.watch, "watch", "w", false, "re-run the steps when the config file changes")
	rootCmd.AddCommand(runCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version.",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(Version)
		},
	})
}

func AddSubCmd(c *cobra.Command) {
	rootCmd.AddCommand(c)
}

// Run executes the root command. SIGINT and SIGTERM cancel the command
// context.
func Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func StartRun(ctx context.Context, rf *runFlags) error {
	if len(rf.dir) > 0 {
		err := os.Chdir(rf.dir)
		if err != nil {
			return fmt.Errorf("failed to change the current working directory, %w", err)
		}
		mlog.L().Info("working directory changed", zap.String("path", rf.dir))
	}

	cfg, fileUsed, err := loadConfigWithInclude(rf.c)
	if err != nil {
		return err
	}
	if err := mlog.SetLevel(cfg.Log.Level); err != nil {
		return err
	}

	if err := RunLinkseq(ctx, cfg, fileUsed, rf.watch); err != nil {
		return fmt.Errorf("linkseq exited, %w", err)
	}
	return nil
}

func loadConfigWithInclude(filePath string) (*Config, string, error) {
	cfg, fileUsed, err := loadConfig(filePath)
	if err != nil {
		return nil, "", fmt.Errorf("fail to load config, %w", err)
	}
	if err := mergeInclude(cfg, 0, []string{fileUsed}); err != nil {
		return nil, "", fmt.Errorf("failed to load sub config file, %w", err)
	}
	return cfg, fileUsed, nil
}

// loadConfig load a config from a file. If filePath is empty, it will
// automatically search and load a file which name start with "config".
func loadConfig(filePath string) (*Config, string, error) {
	v := viper.New()

	if len(filePath) > 0 {
		v.SetConfigFile(filePath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, "", fmt.Errorf("failed to read config: %w", err)
	}

	decoderOpt := func(cfg *mapstructure.DecoderConfig) {
		cfg.ErrorUnused = true
		cfg.TagName = "yaml"
		cfg.WeaklyTypedInput = true
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg, decoderOpt); err != nil {
		return nil, "", fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, v.ConfigFileUsed(), nil
}

// mergeInclude prepends the steps of included files, depth first.
func mergeInclude(cfg *Config, depth int, paths []string) error {
	depth++
	if depth > 8 {
		return fmt.Errorf("maximum include depth reached, include path is %s", strings.Join(paths, " -> "))
	}

	var included []script.Step
	for _, subCfgFile := range cfg.Include {
		subPaths := append(paths[:len(paths):len(paths)], subCfgFile)
		mlog.L().Info("reading sub config", zap.String("file", subCfgFile))
		subCfg, _, err := loadConfig(subCfgFile)
		if err != nil {
			return fmt.Errorf("failed to load sub config, %w", err)
		}
		if err := mergeInclude(subCfg, depth, subPaths); err != nil {
			return err
		}
		included = append(included, subCfg.Steps...)
	}
	cfg.Steps = append(included, cfg.Steps...)
	return nil
}
