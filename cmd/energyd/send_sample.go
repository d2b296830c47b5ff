package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/septivank/energy-harmony/internal/config"
	"github.com/septivank/energy-harmony/internal/mq"
	"github.com/septivank/energy-harmony/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	sendUserID   string
	sendDeviceID string
	sendUsage    float64
	sendCount    int
	sendInterval time.Duration
)

var sendSampleCmd = &cobra.Command{
	Use:   "send-sample",
	Short: "Publish test readings to the ingest queue",
	Long: `Publishes usage readings for a user to the ingest exchange, the way a meter
gateway would. Useful for exercising the consumer against a local broker.`,
	RunE: runSendSample,
}

func init() {
	sendSampleCmd.Flags().StringVar(&sendUserID, "user", "", "User id the readings belong to (required)")
	sendSampleCmd.Flags().StringVar(&sendDeviceID, "device", "", "Optional device id owned by the user")
	sendSampleCmd.Flags().Float64Var(&sendUsage, "usage", 0.5, "kWh per reading")
	sendSampleCmd.Flags().IntVar(&sendCount, "count", 1, "Number of readings to send")
	sendSampleCmd.Flags().DurationVar(&sendInterval, "interval", 100*time.Millisecond, "Pause between readings")
	_ = sendSampleCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(sendSampleCmd)
}

func runSendSample(cmd *cobra.Command, _ []string) error {
	if _, err := uuid.Parse(sendUserID); err != nil {
		return fmt.Errorf("invalid --user: %w", err)
	}

	rmq := config.LoadRabbitMQ()
	if !rmq.Enabled() {
		return fmt.Errorf("RABBITMQ_URL is required but not set in environment variables")
	}

	conn, err := mq.Dial(rmq.URL)
	if err != nil {
		return err
	}
	defer conn.Close()

	publisher, err := mq.NewPublisher(conn, rmq.IngestExchange, rmq.IngestRoutingKey, zap.NewNop())
	if err != nil {
		return err
	}
	defer publisher.Close()

	out := cmd.OutOrStdout()
	for i := 0; i < sendCount; i++ {
		usage := sendUsage
		msg := service.IngestMessage{
			RequestID: uuid.New().String(),
			UserID:    sendUserID,
			DeviceID:  sendDeviceID,
			Usage:     &usage,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}
		if err := publisher.PublishJSON(cmd.Context(), msg.RequestID, msg); err != nil {
			return fmt.Errorf("failed to publish reading %d: %w", i+1, err)
		}
		fmt.Fprintf(out, "Sent reading %d: request_id=%s\n", i+1, msg.RequestID)

		if i < sendCount-1 {
			time.Sleep(sendInterval)
		}
	}

	fmt.Fprintf(out, "Successfully sent %d readings\n", sendCount)
	return nil
}
