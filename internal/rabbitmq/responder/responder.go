package responder

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mini-maxit/tester/internal/logger"
	"github.com/mini-maxit/tester/internal/rabbitmq/channel"
	"github.com/mini-maxit/tester/pkg/constants"
	"github.com/mini-maxit/tester/pkg/messages"
	"github.com/mini-maxit/tester/pkg/solution"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Responder publishes the outcome of a test run to the result queue.
type Responder interface {
	PublishTestRunResult(ctx context.Context, result solution.Result, command, compareMode string) error
	PublishErrorToResponseQueue(ctx context.Context, runID string, err error) error
	Close() error
}

type responder struct {
	logger            *zap.SugaredLogger
	channel           channel.Channel
	responseQueueName string
}

// NewResponder declares the durable result queue and returns a responder
// publishing to it.
func NewResponder(ch channel.Channel, responseQueueName string) (Responder, error) {
	if _, err := ch.QueueDeclare(responseQueueName, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("failed to declare queue %s: %w", responseQueueName, err)
	}

	return &responder{
		logger:            logger.NewNamedLogger("responder"),
		channel:           ch,
		responseQueueName: responseQueueName,
	}, nil
}

func (r *responder) PublishTestRunResult(
	ctx context.Context,
	result solution.Result,
	command, compareMode string,
) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(messages.TestRunPayload{
		Command:     command,
		CompareMode: compareMode,
		Result:      resultJSON,
	})
	if err != nil {
		return err
	}

	return r.publish(ctx, result.RunID, true, payload)
}

func (r *responder) PublishErrorToResponseQueue(ctx context.Context, runID string, err error) error {
	payload, jsonErr := json.Marshal(map[string]string{"error": err.Error()})
	if jsonErr != nil {
		return jsonErr
	}

	return r.publish(ctx, runID, false, payload)
}

func (r *responder) publish(ctx context.Context, messageID string, ok bool, payload []byte) error {
	queueMessage := messages.ResponseQueueMessage{
		Type:      constants.QueueMessageTypeTestRun,
		MessageID: messageID,
		Ok:        ok,
		Payload:   payload,
	}

	body, err := json.Marshal(queueMessage)
	if err != nil {
		return err
	}

	r.logger.Infof("Publishing test run %s to queue %s", messageID, r.responseQueueName)
	err = r.channel.PublishWithContext(ctx, "", r.responseQueueName, false, false, amqp.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp.Persistent,
		CorrelationId: messageID,
		Body:          body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish test run %s: %w", messageID, err)
	}

	return nil
}

func (r *responder) Close() error {
	return r.channel.Close()
}
