package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/qsolog/internal/adapter/kafka"
	"github.com/couchcryptid/qsolog/internal/config"
)

func newPublishCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish [flags] FILE...",
		Short: "Send the merged log to a Kafka topic",
		Long: `publish writes one message per merged QSO. The message key is the
callsign, band and start time, so republishing the same log produces the
same keys.`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.runPublish,
	}

	f := cmd.Flags()
	f.StringSlice("brokers", []string{"localhost:9092"}, "Kafka broker addresses")
	f.String("topic", "qso-log", "Kafka topic")
	return cmd
}

func (a *app) runPublish(cmd *cobra.Command, args []string) error {
	cfg := &config.Config{
		KafkaBrokers: a.v.GetStringSlice("brokers"),
		KafkaTopic:   a.v.GetString("topic"),
	}
	if len(cfg.KafkaBrokers) == 0 || cfg.KafkaTopic == "" {
		return errors.New("publish needs --brokers and --topic")
	}

	res, err := a.load(cmd, args)
	if err != nil {
		return err
	}

	w := kafka.NewWriter(cfg, a.logger, a.metrics)
	defer w.Close()

	if err := w.Publish(cmd.Context(), res.QSOs); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "published %d QSOs to %s\n", len(res.QSOs), cfg.KafkaTopic)
	return nil
}
