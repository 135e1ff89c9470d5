package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"mlbacktest/api"
	"mlbacktest/backtest"
	"mlbacktest/config"
)

var (
	configPath     string
	backtestMode   bool
	backtestConfig string
	backtestOut    string
	chartOut       string
)

func main() {
	flag.StringVar(&configPath, "config", "", "配置文件路径(YAML格式)")
	flag.BoolVar(&backtestMode, "backtest", false, "运行一次回测并退出")
	flag.StringVar(&backtestConfig, "bt-config", "backtest.yaml", "回测配置文件路径(YAML格式)")
	flag.StringVar(&backtestOut, "bt-out", "", "回测输出JSON文件路径(默认stdout)")
	flag.StringVar(&chartOut, "chart", "", "回测K线图输出路径(SVG，配合 -backtest)")
	flag.Parse()

	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if backtestMode {
		if err := runBacktest(backtestConfig, backtestOut, chartOut); err != nil {
			log.Printf("[ERROR] 回测失败: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// 服务模式：启动HTTP服务
	log.Println("=== ML信号回测服务 ===")

	cfg := config.GetConfig(configPath)
	runner := backtest.NewRunner()

	server := api.NewServer(cfg, runner)
	go func() {
		if err := server.Start(); err != nil {
			log.Printf("[ERROR] HTTP服务启动失败: %v\n", err)
		}
	}()

	// 等待退出信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("\n正在关闭服务...")
	if err := server.Shutdown(); err != nil {
		log.Printf("[ERROR] 关闭服务失败: %v\n", err)
	}
	log.Println("服务已关闭")
}
