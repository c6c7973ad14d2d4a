package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/riddim-exe/riddim/api/route"
	"github.com/riddim-exe/riddim/bootstrap"
	"github.com/spf13/cobra"
)

var (
	configFile string
	driverFlag string
)

var rootCmd = &cobra.Command{
	Use:   "riddim",
	Short: "音频特征分析服务",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动 HTTP 服务",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := bootstrap.App(configFile, driverFlag)
		if err != nil {
			return err
		}
		defer app.Close()

		engine := gin.Default()
		route.Setup(app, engine)

		server := &http.Server{
			Addr:    app.Env.ServerAddress,
			Handler: engine,
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			log.Printf("服务启动: %s (存储: %s)", app.Env.ServerAddress, app.Store.Driver)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("服务异常退出: %v", err)
				stop()
			}
		}()

		<-ctx.Done()
		log.Printf("正在关闭服务...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", ".env", "配置文件路径")
	rootCmd.PersistentFlags().StringVar(&driverFlag, "driver", "", "存储驱动 (mongo/sqlite/memory)，覆盖 DB_DRIVER")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(tokenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
