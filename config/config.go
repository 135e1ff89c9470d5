package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

// YAMLConfig YAML配置文件结构
type YAMLConfig struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Data struct {
		Dir string `yaml:"dir"`
	} `yaml:"data"`
}

// Config 配置
type Config struct {
	// HTTP 服务端口
	Port int

	// 信号CSV数据目录（<TICKER>_signals.csv）
	DataDir string
}

// DefaultConfig 默认配置
var DefaultConfig = Config{
	Port:    8000,
	DataDir: "data",
}

// GetConfig 获取配置（YAML文件覆盖默认值，环境变量覆盖YAML）
func GetConfig(path string) *Config {
	cfg := DefaultConfig

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			log.Printf("[配置] 无法读取配置文件 %s: %v，使用默认配置\n", path, err)
		} else {
			var yc YAMLConfig
			if err := yaml.Unmarshal(raw, &yc); err != nil {
				log.Printf("[配置] 解析配置文件失败 %s: %v，使用默认配置\n", path, err)
			} else {
				if yc.Server.Port > 0 {
					cfg.Port = yc.Server.Port
				}
				if yc.Data.Dir != "" {
					cfg.DataDir = yc.Data.Dir
				}
			}
		}
	}

	if v := os.Getenv("MLBT_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}

	return &cfg
}
