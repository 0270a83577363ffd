package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/viper"

	"github.com/okuraya/tanka-hammer/src/tankahammer"
	"github.com/okuraya/tanka-hammer/src/tankahammer/db"
)

func main() {
	conf := readConfig()
	th := tankahammer.NewTankaHammer(conf)

	err := th.Open()
	if err != nil {
		log.Fatalf("fail error opening bot: %v", err)
	}

	log.Println("Bot is now running.  Press CTRL-C to exit.")
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt, os.Kill)
	<-sc

	// Cleanly close down the Discord session.
	err = th.Close()
	if err != nil {
		log.Println("error closing session,", err)
	}
}

func readConfig() tankahammer.Config {
	viper.SetDefault("reactTanka", true)
	viper.SetDefault("reactNonTanka", false)
	viper.SetDefault("deleteNonTanka", false)
	viper.SetDefault("explainNonTanka", true)
	viper.SetDefault("serveRandomTanka", true)
	viper.SetDefault("positiveReacts", []string{"🌸", "🍵", "🎋", "📜", "🌙"})
	viper.SetDefault("negativeReacts", []string{"🚫", "⛔"})
	viper.SetDefault("dbPath", "./tankaDB.sqlite3")
	viper.SetDefault("debug", false)

	viper.SetEnvPrefix("TANKA_HAMMER")
	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.AddConfigPath("/etc/tankahammer")
	viper.AddConfigPath(".")
	err := viper.ReadInConfig()
	if err != nil {
		log.Println("no config file found, using defaults,", err)
	}
	flags := db.ConfigFlag(0)
	if viper.GetBool("reactTanka") {
		flags |= db.ConfigReactToTanka
	}
	if viper.GetBool("reactNonTanka") {
		flags |= db.ConfigReactToNonTanka
	}
	if viper.GetBool("deleteNonTanka") {
		flags |= db.ConfigDeleteNonTanka
	}
	if viper.GetBool("explainNonTanka") {
		flags |= db.ConfigExplainNonTanka
	}
	if viper.GetBool("serveRandomTanka") {
		flags |= db.ConfigServeRandomTanka
	}
	return tankahammer.Config{
		Token:          viper.GetString("token"),
		ActionFlags:    flags,
		PositiveReacts: viper.GetStringSlice("positiveReacts"),
		NegativeReacts: viper.GetStringSlice("negativeReacts"),
		DBPath:         viper.GetString("dbPath"),
		Debug:          viper.GetBool("debug"),
	}
}
