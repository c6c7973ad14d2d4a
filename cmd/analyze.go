package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/riddim-exe/riddim/bootstrap"
	"github.com/riddim-exe/riddim/domain"
	"github.com/riddim-exe/riddim/domain/domain_file_entity/scene_audio/scene_audio_analysis/scene_audio_analysis_models"
	"github.com/riddim-exe/riddim/domain/domain_util"
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/sync/errgroup"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [files...]",
	Short: "分析本地音频文件，未指定文件时使用默认文件",
	RunE: func(cmd *cobra.Command, args []string) error {
		driver := driverFlag
		if driver == "" {
			driver = bootstrap.DriverMemory
		}
		app, err := bootstrap.App(configFile, driver)
		if err != nil {
			return err
		}
		defer app.Close()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		if len(args) == 0 {
			return analyzeDefault(ctx, app)
		}
		return analyzeFiles(ctx, app, args)
	},
}

func analyzeDefault(ctx context.Context, app *bootstrap.Application) error {
	analysis, err := app.Analysis.AnalyzeDefault(ctx)
	if errors.Is(err, domain.ErrDefaultFileNotFound) {
		color.New(color.FgRed).Printf("Default file '%s' not found.\n", app.Env.DefaultAudioPath)
		return err
	}
	if err != nil {
		return err
	}
	color.New(color.FgYellow).Printf("Using default file: %s\n", analysis.Name)
	printAnalysis(analysis)
	return nil
}

func analyzeFiles(ctx context.Context, app *bootstrap.Application, files []string) error {
	progress := domain_util.NewTaskProgress("cli", len(files))
	results := make([]*scene_audio_analysis_models.AudioAnalysis, len(files))
	failures := make([]error, len(files))

	p := mpb.New(mpb.WithWidth(64))
	bar := p.AddBar(int64(len(files)),
		mpb.PrependDecorators(
			decor.Name("Analyzing: "),
			decor.CountersNoUnit("%d / %d"),
		),
		mpb.AppendDecorators(
			decor.Percentage(),
			decor.EwmaETA(decor.ET_STYLE_GO, 60),
		),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, path := range files {
		g.Go(func() error {
			analysis, err := app.Analysis.AnalyzePath(gctx, path, filepath.Base(path), scene_audio_analysis_models.SourceCLI)
			results[i] = analysis
			failures[i] = err
			progress.MarkProcessed(err != nil)
			bar.Increment()
			// 单个文件失败不终止其他任务
			return nil
		})
	}
	_ = g.Wait()
	p.Wait()
	progress.Finish()

	for i, path := range files {
		if failures[i] != nil {
			color.New(color.FgRed).Printf("\n%s: %v\n", path, failures[i])
			continue
		}
		fmt.Println()
		color.New(color.FgYellow).Printf("Analysis for: %s\n", results[i].Name)
		printAnalysis(results[i])
	}

	log.Printf("分析完成: %d/%d 成功, 状态 %s",
		progress.Processed()-progress.Failed(), len(files), progress.CurrentStatus())
	if progress.Failed() > 0 {
		return fmt.Errorf("%d 个文件分析失败", progress.Failed())
	}
	return nil
}

func printAnalysis(analysis *scene_audio_analysis_models.AudioAnalysis) {
	rows := analysis.Rows()
	width := len("Feature")
	for _, row := range rows {
		if len(row.Feature) > width {
			width = len(row.Feature)
		}
	}

	header := color.New(color.Bold)
	header.Printf("%-*s  %10s  %s\n", width, "Feature", "Value", "Description")
	fmt.Println(strings.Repeat("-", width+2+10+2+len("Description")))
	value := color.New(color.FgCyan)
	for _, row := range rows {
		fmt.Printf("%-*s  ", width, row.Feature)
		value.Printf("%10s", row.Value)
		fmt.Printf("  %s\n", row.Description)
	}
}
