// Package cmd 命令行入口模块
// 提供 dumptodir 的所有命令行功能：平铺、扫描预览、历史、配置
//
// Copyright (c) 2024-2026 lynx-lee
// License: MIT

package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"dumptodir/internal/config"
	"dumptodir/internal/flattener"
	"dumptodir/internal/storage"
	"dumptodir/internal/ui"
)

// usageMessage 参数错误或无参数启动时显示
var usageMessage = heredoc.Doc(`
	用法:
	    dumptodir <目标目录> <源目录>
	    dumptodir                       # 交互模式

	把源目录中每个子目录里的文件移动到目标目录根部。
	只处理一层子目录，更深的目录保持不变。
`)

// 可在测试中替换的环境依赖
var (
	osFs afero.Fs = afero.NewOsFs()

	// stdinIsTerminal 标准输入是否为交互终端
	stdinIsTerminal = func() bool {
		fd := os.Stdin.Fd()
		return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}

	// scriptDir 交互模式下“原地平铺”使用的目录
	scriptDir = flattener.ExecutableDir
)

// flattenOptions 根命令参数
type flattenOptions struct {
	force     bool     // 跳过终端检查
	yes       bool     // 跳过确认
	dryRun    bool     // 预览模式，不实际移动文件
	verbose   bool     // 详细输出模式
	conflict  string   // 同名冲突策略，空值使用配置
	noPrune   bool     // 保留变空的子目录
	noHistory bool     // 不记录历史
	excludes  []string // 追加的排除模式
}

// NewRootCmd 创建根命令及所有子命令
func NewRootCmd() *cobra.Command {
	opts := &flattenOptions{}

	rootCmd := &cobra.Command{
		Use:   "dumptodir [目标目录 源目录]",
		Short: "dumptodir - 把子目录中的文件平铺到一个目录",
		Long: ui.Cyan("dumptodir") + "  v" + config.Version + "\n\n" + usageMessage + heredoc.Doc(`

			示例:
			  dumptodir ~/Photos ~/Import        # 把 ~/Import/*/ 中的文件移到 ~/Photos
			  dumptodir . . -n                   # 预览原地平铺
			  dumptodir out in -c skip           # 同名文件跳过
			  dumptodir out in -e '*.tmp'        # 排除临时文件
			  dumptodir scan ~/Import            # 扫描统计
			  dumptodir history                  # 查看历史
		`),
		Args:          cobra.ArbitraryArgs, // 参数数量在 runFlatten 中检查，以便打印用法
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// 测试或嵌入时使用命令自带的输入输出
			if w := cmd.OutOrStdout(); w != os.Stdout {
				ui.SetOutput(w)
			}
			if r := cmd.InOrStdin(); r != os.Stdin {
				ui.SetInput(r)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFlatten(args, opts)
		},
	}

	rootCmd.Flags().BoolVar(&opts.force, "force", false, "跳过终端环境检查")
	rootCmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "跳过确认提示")
	rootCmd.Flags().BoolVarP(&opts.dryRun, "dry-run", "n", false, "预览模式")
	rootCmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "详细输出")
	rootCmd.Flags().StringVarP(&opts.conflict, "conflict", "c", "", "同名冲突策略: rename / skip / fail（默认使用配置）")
	rootCmd.Flags().BoolVar(&opts.noPrune, "no-prune", false, "保留移动后变空的子目录")
	rootCmd.Flags().BoolVar(&opts.noHistory, "no-history", false, "不记录本次操作")
	rootCmd.Flags().StringArrayVarP(&opts.excludes, "exclude", "e", nil, "排除匹配的文件名（可重复）")

	rootCmd.AddCommand(
		newScanCmd(),
		newHistoryCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute 执行根命令
// 这是程序的主入口，由 main.go 调用；任何错误都以退出码 1 结束
func Execute() {
	if err := run(NewRootCmd(), os.Args[1:]); err != nil {
		ui.Error("%v", err)
		os.Exit(1)
	}
}

// run 解析参数并执行
// 恰好两个位置参数且第一个是已存在的目录时，按平铺形式处理，
// 即使目录名与子命令同名（例如 dumptodir history ./src）
func run(root *cobra.Command, args []string) error {
	if positionals := positionalArgs(root, args); len(positionals) == 2 && isDir(positionals[0]) {
		root.RemoveCommand(root.Commands()...)
	}
	root.SetArgs(args)
	return root.Execute()
}

// positionalArgs 返回根命令参数中的位置参数，跳过标志及其取值
func positionalArgs(root *cobra.Command, args []string) []string {
	flags := root.Flags()
	takesValue := func(f *pflag.Flag) bool {
		return f != nil && f.NoOptDefVal == ""
	}

	var positionals []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			return append(positionals, args[i+1:]...)
		case strings.HasPrefix(arg, "--"):
			name := strings.TrimPrefix(arg, "--")
			if strings.Contains(name, "=") {
				continue
			}
			if takesValue(flags.Lookup(name)) {
				i++
			}
		case strings.HasPrefix(arg, "-") && arg != "-":
			// 短标志组合，如 -yn、-c skip、-cskip
			shorts := arg[1:]
			for j := 0; j < len(shorts); j++ {
				if shorts[j] == '=' {
					break
				}
				if takesValue(flags.ShorthandLookup(shorts[j : j+1])) {
					if j == len(shorts)-1 {
						i++
					}
					break
				}
			}
		default:
			positionals = append(positionals, arg)
		}
	}
	return positionals
}

func isDir(path string) bool {
	info, err := osFs.Stat(path)
	return err == nil && info.IsDir()
}

// runFlatten 执行平铺的核心流程
// 整体流程：检查参数 -> 环境检查 -> 解析路径 -> 校验 -> 生成计划 -> 确认 -> 执行
// 用户取消时返回 nil（退出码 0）
func runFlatten(args []string, opts *flattenOptions) error {
	ui.SetVerbose(opts.verbose)
	ui.Banner()

	// ========== 步骤1: 检查参数数量 ==========
	if len(args) != 0 && len(args) != 2 {
		ui.Info("%s", usageMessage)
		return fmt.Errorf("%w: 需要 0 个或 2 个参数，实际 %d 个", flattener.ErrUsage, len(args))
	}

	// ========== 步骤2: 环境检查 ==========
	needsPrompt := len(args) == 0 || (!opts.yes && !opts.dryRun)
	if opts.force {
		ui.Warning("已使用 --force，跳过终端环境检查")
	} else if needsPrompt {
		if err := flattener.CheckReadiness(false, stdinIsTerminal); err != nil {
			printReadinessHint()
			return err
		}
	}

	// ========== 步骤3: 解析路径 ==========
	if len(args) == 0 {
		ui.Info("%s", usageMessage)
	}
	cfg, err := flattener.ResolvePaths(args, flattener.ResolveOptions{
		Choose:    ui.Select,
		ScriptDir: scriptDir,
	})
	if errors.Is(err, flattener.ErrCancelled) {
		ui.Warning("已取消")
		return nil
	}
	if err != nil {
		return err
	}

	settings := config.Get()
	applySettings(cfg, settings, opts)

	// ========== 步骤4: 校验目录 ==========
	if err := flattener.Validate(osFs, cfg); err != nil {
		return err
	}

	// ========== 步骤5: 生成计划 ==========
	ui.Title("📂", fmt.Sprintf("扫描: %s", cfg.SourceDir))
	plan, err := flattener.BuildPlan(osFs, cfg)
	if err != nil {
		return err
	}
	flattener.PrintPlan(plan)

	if plan.Pending() == 0 {
		ui.Warning("没有需要移动的文件")
		return nil
	}

	if cfg.DryRun {
		ui.Warning("预览模式 - 未执行实际操作")
		ui.Dim("去掉 -n 参数执行实际平铺")
		return nil
	}

	// ========== 步骤6: 确认 ==========
	if !opts.yes && !ui.Confirm("\n确认执行平铺?", false) {
		ui.Warning("已取消")
		return nil
	}

	// ========== 步骤7: 执行 ==========
	ui.Title("🚀", "执行平铺")

	batchID := time.Now().Format("20060102_150405.000")
	var recorder flattener.Recorder
	var db *storage.Database
	if settings.RecordHistory && !opts.noHistory {
		db, err = storage.Open(settings.DBPath)
		if err != nil {
			// 历史记录失败不影响平铺
			ui.Warning("无法记录操作历史: %v", err)
		} else {
			defer db.Close()
			recorder = db
		}
	}

	result := flattener.Execute(osFs, plan, flattener.ExecuteOptions{
		BatchID:  batchID,
		Recorder: recorder,
		Prune:    cfg.Prune,
		Progress: ui.Output(),
	})

	if db != nil {
		if err := db.AddRun(storage.Run{
			BatchID:   batchID,
			TargetDir: cfg.TargetDir,
			SourceDir: cfg.SourceDir,
			Moved:     result.Moved,
			Skipped:   result.Skipped,
			Failed:    result.Failed,
		}); err != nil {
			ui.Warning("无法记录操作历史: %v", err)
		}
	} else {
		batchID = ""
	}

	flattener.PrintResult(result, batchID)
	if result.Failed > 0 {
		return fmt.Errorf("%d 个文件移动失败", result.Failed)
	}
	return nil
}

// applySettings 合并持久化配置与命令行参数
// 命令行参数优先
func applySettings(cfg *flattener.Config, settings *config.Config, opts *flattenOptions) {
	cfg.Force = opts.force
	cfg.DryRun = opts.dryRun

	cfg.Conflict = settings.ConflictPolicy
	if opts.conflict != "" {
		cfg.Conflict = opts.conflict
	}

	cfg.Prune = settings.PruneEmptyDirs && !opts.noPrune

	cfg.Excludes = append([]string{}, settings.Excludes...)
	cfg.Excludes = append(cfg.Excludes, opts.excludes...)
}

// printReadinessHint 说明如何在非终端环境中运行
func printReadinessHint() {
	ui.Error("标准输入不是终端，无法显示交互提示")
	ui.Info("请在终端中直接运行，或者:")
	ui.Info("  %s", ui.Yellow("dumptodir <目标目录> <源目录> --yes"))
	ui.Info("  %s", ui.Yellow("dumptodir <目标目录> <源目录> --dry-run"))
	ui.Dim("确定输入来自管道或脚本时，可用 --force 跳过此检查")
}
