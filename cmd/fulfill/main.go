// Команда fulfill выполняет один проход отгрузки: переводит в shipped все заказы
// с наступившей датой отправки и печатает их число. Предназначена для запуска по расписанию.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/backoffice/internal/app"
)

const defaultTimeout = 5 * time.Minute

func main() {
	configPath := flag.String("config", "", "path to YAML config (fallback: BACKOFFICE_CONFIG)")
	timeout := flag.Duration("timeout", defaultTimeout, "overall run timeout")
	flag.Parse()

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	cfg, err := app.LoadConfig(*configPath)
	if err != nil {
		fail("invalid configuration: %v", err)
	}
	log.SetLevel(cfg.Level())

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	shipped, err := app.RunFulfillment(ctx, cfg)
	fmt.Printf("shipped=%d\n", shipped)
	if err != nil {
		fail("fulfillment run failed: %v", err)
	}
}

func fail(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
