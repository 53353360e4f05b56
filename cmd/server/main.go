package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"
	"tutorbot/bot"
	"tutorbot/entity"
	"tutorbot/impl/auth"
	"tutorbot/impl/core"
	"tutorbot/internal/config"
	"tutorbot/internal/database"
	"tutorbot/internal/http-server/api"
	"tutorbot/internal/session"
	"tutorbot/internal/settings"
	"tutorbot/lib/logger"
	"tutorbot/lib/sl"
)

const logFileName = "tutorbot.log"

func main() {
	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "/var/log/", "path to log file directory")
	flag.Parse()

	conf := config.MustLoad(*configPath)

	base := logger.SetupLogger(conf.Env, filepath.Join(*logPath, logFileName))
	tgHandler := logger.NewTelegramHandler(base.Handler(), slog.LevelError)
	log := slog.New(tgHandler)
	log.Info("starting tutorbot", slog.String("config", *configPath), slog.String("env", conf.Env))

	mongo := database.NewMongoClient(conf)
	if mongo == nil {
		log.Error("mongo is disabled in config; cannot start without a database")
		os.Exit(1)
	}
	if err := mongo.EnsureIndexes(); err != nil {
		log.Error("build mongo indexes", sl.Err(err))
		os.Exit(1)
	}

	sessions := session.NewStore(conf)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := sessions.Ping(ctx); err != nil {
		log.Error("redis unreachable", sl.Err(err))
		cancel()
		os.Exit(1)
	}
	cancel()

	store := settings.NewStore(mongo, log)
	if err := store.Refresh(); err != nil {
		log.Error("load bot settings", sl.Err(err))
		os.Exit(1)
	}

	handler := core.New(mongo, store, log)
	handler.SetAuthService(auth.New(conf, log))

	telebirr := conf.Account("telebirr")
	cbe := conf.Account("cbe")
	botConf := bot.BotConfig{
		Username: conf.Telegram.Username,
		AdminIds: conf.Telegram.AdminIds,
		Accounts: map[entity.PaymentMethod]bot.PayAccount{
			entity.MethodTeleBirr: {Number: telebirr.Number, Name: telebirr.Name},
			entity.MethodCBE:      {Number: cbe.Number, Name: cbe.Name},
		},
	}
	tgBot, err := bot.NewTgBot(conf.Telegram.ApiKey, handler, sessions, log, botConf)
	if err != nil {
		log.Error("create telegram bot", sl.Err(err))
		os.Exit(1)
	}
	tgHandler.SetNotifier(tgBot)

	go func() {
		if err := tgBot.Start(); err != nil {
			log.Error("telegram bot stopped", sl.Err(err))
			os.Exit(1)
		}
	}()

	go func() {
		if err := api.New(conf, log, handler, store); err != nil {
			log.Error("ops api stopped", sl.Err(err))
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("shutting down", slog.String("signal", sig.String()))
	tgBot.Stop()
	if err := sessions.Close(); err != nil {
		log.Error("close redis", sl.Err(err))
	}
}
