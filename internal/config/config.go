package config

import (
	"flag"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type ServerCfg struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type MysqlCfg struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Database     string `mapstructure:"database"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	Charset      string `mapstructure:"charset"`
	MaxIdleConns int    `mapstructure:"maxIdleConns"`
	MaxOpenConns int    `mapstructure:"maxOpenConns"`
}

type RabbitCfg struct {
	URL string `mapstructure:"url"`
}

type RedisCfg struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type SecurityCfg struct {
	HMACSecret   string `mapstructure:"hmacSecret"`
	NotifySecret string `mapstructure:"notifySecret"`
}

type ProviderCfg struct {
	InitializeTimeout  time.Duration `mapstructure:"initializeTimeout"`
	VerifyTimeout      time.Duration `mapstructure:"verifyTimeout"`
	PaystackBaseURL    string        `mapstructure:"paystackBaseUrl"`
	FlutterwaveBaseURL string        `mapstructure:"flutterwaveBaseUrl"`
}

type GatewayCfg struct {
	VerifyLockTTL time.Duration `mapstructure:"verifyLockTtl"`
	RefMaxRetries int           `mapstructure:"refMaxRetries"`
}

type Root struct {
	Server   ServerCfg   `mapstructure:"server"`
	Mysql    MysqlCfg    `mapstructure:"mysql"`
	RabbitMQ RabbitCfg   `mapstructure:"rabbitmq"`
	Redis    RedisCfg    `mapstructure:"redis"`
	Security SecurityCfg `mapstructure:"security"`
	Provider ProviderCfg `mapstructure:"provider"`
	Gateway  GatewayCfg  `mapstructure:"gateway"`
}

var C Root

func Init() {
	env := flag.String("env", "dev", "config env: dev|prod")
	flag.Parse()

	v := viper.New()
	v.SetConfigFile("config/config." + *env + ".yaml")
	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("read config file failed: %v", err)
	}
	if err := v.Unmarshal(&C); err != nil {
		log.Fatalf("unmarshal config failed: %v", err)
	}

	// sane defaults
	if strings.TrimSpace(C.Server.Port) == "" {
		C.Server.Port = "8080"
	}
	if C.Provider.InitializeTimeout <= 0 {
		C.Provider.InitializeTimeout = 15 * time.Second
	}
	if C.Provider.VerifyTimeout <= 0 {
		C.Provider.VerifyTimeout = 10 * time.Second
	}
	if C.Gateway.VerifyLockTTL <= 0 {
		C.Gateway.VerifyLockTTL = 30 * time.Second
	}
	if C.Gateway.RefMaxRetries <= 0 {
		C.Gateway.RefMaxRetries = 5
	}
}
