package iot

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/KeshavDaBoss/smartparkv5/internal/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

type fakeSQS struct {
	mu       sync.Mutex
	batches  [][]types.Message
	deleted  []string
	failRecv bool
}

func (f *fakeSQS) ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failRecv {
		return nil, errors.New("connection reset")
	}
	if len(f.batches) == 0 {
		return &sqs.ReceiveMessageOutput{}, nil
	}
	msgs := f.batches[0]
	f.batches = f.batches[1:]
	return &sqs.ReceiveMessageOutput{Messages: msgs}, nil
}

func (f *fakeSQS) DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, aws.ToString(params.ReceiptHandle))
	return &sqs.DeleteMessageOutput{}, nil
}

type fakeIngester struct {
	fail    bool
	batches []domain.SensorBatch
}

func (f *fakeIngester) IngestRemoteBatch(ctx context.Context, batch domain.SensorBatch) (*domain.SensorBatchResult, error) {
	if f.fail {
		return nil, errors.New("registry unavailable")
	}
	f.batches = append(f.batches, batch)
	return &domain.SensorBatchResult{Status: "ok", Applied: len(batch.Distances)}, nil
}

func msg(handle, body string) types.Message {
	return types.Message{ReceiptHandle: aws.String(handle), Body: aws.String(body)}
}

func TestPollIngestsAndDeletes(t *testing.T) {
	client := &fakeSQS{batches: [][]types.Message{{
		msg("r1", `{"distances":[5,50,3,999],"source":"esp32_mall2"}`),
		msg("r2", `not json`),
		{ReceiptHandle: aws.String("r3")},
	}}}
	ing := &fakeIngester{}
	c := NewSQSConsumer(client, "https://sqs.local/queue", ing)

	if !c.poll(context.Background()) {
		t.Fatal("poll returned false")
	}
	if len(ing.batches) != 1 || ing.batches[0].Source != "esp32_mall2" || len(ing.batches[0].Distances) != 4 {
		t.Fatalf("ingested = %+v", ing.batches)
	}
	if len(client.deleted) != 3 {
		t.Fatalf("deleted = %v, want r1 r2 r3", client.deleted)
	}
}

func TestPollKeepsMessageWhenIngestFails(t *testing.T) {
	client := &fakeSQS{batches: [][]types.Message{{msg("r1", `{"distances":[1]}`)}}}
	c := NewSQSConsumer(client, "q", &fakeIngester{fail: true})

	c.poll(context.Background())
	if len(client.deleted) != 0 {
		t.Fatalf("message should stay in queue, deleted = %v", client.deleted)
	}
}

func TestStartStopsOnCancelDuringRetry(t *testing.T) {
	client := &fakeSQS{failRecv: true}
	c := NewSQSConsumer(client, "q", &fakeIngester{})
	c.retryWait = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Start(ctx)
		close(done)
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop")
	}
}
