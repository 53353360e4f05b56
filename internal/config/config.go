package config

import (
	"fmt"
	"log"
	"sync"

	"github.com/ilyakaznacheev/cleanenv"
)

type Listen struct {
	BindIp string `yaml:"bind_ip" env:"LISTEN_BIND_IP" env-default:"0.0.0.0"`
	Port   string `yaml:"port" env:"LISTEN_PORT" env-default:"8080"`
}

type TelegramConfig struct {
	ApiKey   string  `yaml:"api_key" env:"TELEGRAM_API_KEY" env-default:""`
	Username string  `yaml:"username" env:"TELEGRAM_BOT_USERNAME" env-default:""`
	AdminIds []int64 `yaml:"admin_ids" env:"TELEGRAM_ADMIN_IDS"`
}

type MongoConfig struct {
	Enabled  bool   `yaml:"enabled" env:"MONGO_ENABLED" env-default:"true"`
	Host     string `yaml:"host" env:"MONGO_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"MONGO_PORT" env-default:"27017"`
	User     string `yaml:"user" env:"MONGO_USER" env-default:""`
	Password string `yaml:"password" env:"MONGO_PASSWORD" env-default:""`
	Database string `yaml:"database" env:"MONGO_DATABASE" env-default:"tutorbot"`
}

type RedisConfig struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD" env-default:""`
}

// PayoutAccount is a destination account shown to students during the
// payment step. One per payment method.
type PayoutAccount struct {
	Method string `yaml:"method"`
	Number string `yaml:"number"`
	Name   string `yaml:"name"`
}

type OpsConfig struct {
	Token string `yaml:"token" env:"OPS_TOKEN" env-default:""`
	Actor string `yaml:"actor" env:"OPS_ACTOR" env-default:"ops"`
}

type Config struct {
	Telegram TelegramConfig  `yaml:"telegram"`
	Mongo    MongoConfig     `yaml:"mongo"`
	Redis    RedisConfig     `yaml:"redis"`
	Listen   Listen          `yaml:"listen"`
	Ops      OpsConfig       `yaml:"ops"`
	Accounts []PayoutAccount `yaml:"accounts"`
	Env      string          `yaml:"env" env:"ENV" env-default:"local"`
}

// Account returns the payout account configured for a payment method, with
// a compiled-in fallback so the payment step never renders empty details.
func (c *Config) Account(method string) PayoutAccount {
	for _, a := range c.Accounts {
		if a.Method == method {
			return a
		}
	}
	if method == "cbe" {
		return PayoutAccount{Method: "cbe", Number: "100023456789", Name: "TUTORIAL ETHIOPIA"}
	}
	return PayoutAccount{Method: "telebirr", Number: "+251911234567", Name: "TUTORIAL ETHIOPIA"}
}

func (c *Config) IsAdmin(id int64) bool {
	for _, a := range c.Telegram.AdminIds {
		if a == id {
			return true
		}
	}
	return false
}

var instance *Config
var once sync.Once

func MustLoad(path string) *Config {
	var err error
	once.Do(func() {
		instance = &Config{}
		if err = cleanenv.ReadConfig(path, instance); err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			err = fmt.Errorf("config: %s; %s", err, desc)
			instance = nil
			log.Fatal(err)
		}
	})
	return instance
}
