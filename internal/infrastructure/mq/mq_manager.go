package mq

import (
	"context"
	"encoding/json"
	"time"

	myconfig "tribe_card_server/internal/config"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// TribeEvent 部落变更事件
// 写入 Kafka 供其他分片的消费者在后台刷新对应卡片
type TribeEvent struct {
	TribeUuid string `json:"tribe_uuid"`
	GuildId   string `json:"guild_id"`
	Action    string `json:"action"`
	ActorId   string `json:"actor_id"`
}

type kafkaService struct {
	EventWriter *kafka.Writer
	EventReader *kafka.Reader
	KafkaConn   *kafka.Conn
	enabled     bool
}

var KafkaService = new(kafkaService)

// KafkaInit 初始化kafka
// EventMode 为 "off" 时整体禁用，发布与消费都退化为空操作
func (k *kafkaService) KafkaInit() {
	kafkaConfig := myconfig.GetConfig().KafkaConfig
	if kafkaConfig.EventMode != "kafka" {
		k.enabled = false
		zap.L().Info("Kafka 事件总线未启用")
		return
	}
	k.enabled = true

	k.EventWriter = &kafka.Writer{
		Addr:                   kafka.TCP(kafkaConfig.HostPort),
		Topic:                  kafkaConfig.EventTopic,
		Balancer:               &kafka.Hash{},
		WriteTimeout:           kafkaConfig.Timeout * time.Second,
		RequiredAcks:           kafka.RequireNone,
		AllowAutoTopicCreation: false,
	}
	k.EventReader = kafka.NewReader(kafka.ReaderConfig{
		Brokers:        []string{kafkaConfig.HostPort},
		Topic:          kafkaConfig.EventTopic,
		CommitInterval: kafkaConfig.Timeout * time.Second,
		GroupID:        "tribe_card",
		StartOffset:    kafka.LastOffset,
	})
}

func (k *kafkaService) KafkaClose() {
	if !k.enabled {
		return
	}
	if err := k.EventWriter.Close(); err != nil {
		zap.L().Error(err.Error())
	}
	if err := k.EventReader.Close(); err != nil {
		zap.L().Error(err.Error())
	}
}

// CreateTopic 创建topic
func (k *kafkaService) CreateTopic() {
	kafkaConfig := myconfig.GetConfig().KafkaConfig

	var err error
	k.KafkaConn, err = kafka.Dial("tcp", kafkaConfig.HostPort)
	if err != nil {
		zap.L().Error(err.Error())
		return
	}

	topicConfigs := []kafka.TopicConfig{
		{
			Topic:             kafkaConfig.EventTopic,
			NumPartitions:     kafkaConfig.Partition,
			ReplicationFactor: 1,
		},
	}

	if err = k.KafkaConn.CreateTopics(topicConfigs...); err != nil {
		zap.L().Error(err.Error())
	}
}

// PublishEvent 发布部落变更事件
// 事件总线未启用或写入失败都不阻塞主流程
func (k *kafkaService) PublishEvent(ctx context.Context, event *TribeEvent) {
	if !k.enabled {
		return
	}

	value, err := json.Marshal(event)
	if err != nil {
		zap.L().Error("事件序列化失败", zap.Error(err))
		return
	}

	err = k.EventWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.TribeUuid),
		Value: value,
	})
	if err != nil {
		zap.L().Warn("事件写入 Kafka 失败",
			zap.String("tribe", event.TribeUuid),
			zap.String("action", event.Action),
			zap.Error(err))
	}
}

// ConsumeEvents 消费部落变更事件直到 ctx 取消
// 每条事件交给 handle 处理，处理失败只记日志不重试
func (k *kafkaService) ConsumeEvents(ctx context.Context, handle func(ctx context.Context, event *TribeEvent) error) {
	if !k.enabled {
		return
	}

	for {
		message, err := k.EventReader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			zap.L().Warn("读取 Kafka 事件失败", zap.Error(err))
			continue
		}

		var event TribeEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			zap.L().Warn("事件反序列化失败", zap.Error(err))
			continue
		}

		if err := handle(ctx, &event); err != nil {
			zap.L().Warn("事件处理失败",
				zap.String("tribe", event.TribeUuid),
				zap.String("action", event.Action),
				zap.Error(err))
		}
	}
}
