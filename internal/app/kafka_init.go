package app

import (
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/backoffice/internal/domain"
	"github.com/vladislavdragonenkov/backoffice/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/backoffice/internal/version"
)

// initPublisher возвращает Kafka-паблишер событий жизненного цикла.
// Без брокеров или при ошибке подключения события не публикуются, сервис продолжает работу.
func initPublisher(cfg Config, logger *log.Entry) (domain.EventPublisher, *kafka.Producer) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("kafka is not configured, lifecycle events are disabled")
		return kafka.NoopPublisher{}, nil
	}

	producer, err := kafka.NewProducer(cfg.KafkaBrokers, kafka.WithClientID(version.ClientID("producer")))
	if err != nil {
		logger.WithError(err).Warn("failed to create kafka producer, continuing without kafka")
		return kafka.NoopPublisher{}, nil
	}

	logger.WithFields(log.Fields{
		"brokers": cfg.KafkaBrokers,
		"topic":   cfg.KafkaTopic,
	}).Info("kafka producer initialized")
	return kafka.NewPublisher(producer, cfg.KafkaTopic), producer
}

// closeKafka закрывает producer, если он был создан.
func closeKafka(producer *kafka.Producer, logger *log.Entry) {
	if producer == nil {
		return
	}
	if err := producer.Close(); err != nil {
		logger.WithError(err).Warn("failed to close kafka producer")
		return
	}
	logger.Info("kafka producer closed")
}
