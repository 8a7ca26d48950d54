package iot

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/KeshavDaBoss/smartparkv5/internal/domain"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// SQSAPI là phần của sqs.Client mà consumer dùng.
type SQSAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

type BatchIngester interface {
	IngestRemoteBatch(ctx context.Context, batch domain.SensorBatch) (*domain.SensorBatchResult, error)
}

// SQSConsumer nhận batch cảm biến từ queue và đưa vào cùng producer remote như HTTP.
type SQSConsumer struct {
	sqsClient SQSAPI
	queueURL  string
	ingester  BatchIngester
	retryWait time.Duration
}

func NewSQSConsumer(client SQSAPI, queueURL string, ingester BatchIngester) *SQSConsumer {
	return &SQSConsumer{
		sqsClient: client,
		queueURL:  queueURL,
		ingester:  ingester,
		retryWait: 5 * time.Second,
	}
}

func (c *SQSConsumer) Start(ctx context.Context) {
	log.Printf("SQS Consumer đang bắt đầu lắng nghe queue: %s", c.queueURL)
	for {
		select {
		case <-ctx.Done():
			log.Println("SQS Consumer: context cancelled, stopping.")
			return
		default:
			if !c.poll(ctx) {
				return
			}
		}
	}
}

// poll nhận một lượt message. Trả về false nếu ctx bị hủy trong lúc chờ retry.
func (c *SQSConsumer) poll(ctx context.Context) bool {
	receiveInput := &sqs.ReceiveMessageInput{
		QueueUrl:            &c.queueURL,
		MaxNumberOfMessages: 10,
		WaitTimeSeconds:     20,
		VisibilityTimeout:   60,
	}

	result, err := c.sqsClient.ReceiveMessage(ctx, receiveInput)
	if err != nil {
		log.Printf("SQS Consumer: Lỗi khi nhận message: %v", err)
		select {
		case <-time.After(c.retryWait):
			return true
		case <-ctx.Done():
			log.Println("SQS Consumer: context cancelled while waiting for retry.")
			return false
		}
	}

	if len(result.Messages) == 0 {
		return true
	}

	log.Printf("SQS Consumer: Đã nhận %d message(s)", len(result.Messages))

	for _, message := range result.Messages {
		if message.Body == nil {
			log.Println("SQS Consumer: Nhận được message với body rỗng. Đang xóa...")
			c.deleteMessage(ctx, message.ReceiptHandle)
			continue
		}

		if err := c.handle(ctx, *message.Body); err != nil {
			log.Printf("SQS Consumer: Lỗi khi xử lý message: %v. Message sẽ được xử lý lại sau visibility timeout.", err)
			continue
		}
		c.deleteMessage(ctx, message.ReceiptHandle)
	}
	return true
}

func (c *SQSConsumer) handle(ctx context.Context, body string) error {
	var batch domain.SensorBatch
	if err := json.Unmarshal([]byte(body), &batch); err != nil {
		// Payload hỏng thì retry cũng vô ích: log lại và coi như đã xử lý.
		log.Printf("SQS Consumer: bỏ message không parse được: %v", err)
		return nil
	}
	if _, err := c.ingester.IngestRemoteBatch(ctx, batch); err != nil {
		return fmt.Errorf("lỗi ingest batch từ '%s': %w", batch.Source, err)
	}
	return nil
}

func (c *SQSConsumer) deleteMessage(ctx context.Context, receiptHandle *string) {
	if receiptHandle == nil {
		log.Println("SQS Consumer: Receipt handle rỗng, không thể xóa message.")
		return
	}
	_, delErr := c.sqsClient.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      &c.queueURL,
		ReceiptHandle: receiptHandle,
	})
	if delErr != nil {
		log.Printf("SQS Consumer: Lỗi khi xóa message: %v", delErr)
	}
}
