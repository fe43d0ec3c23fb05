// cmd/dump.go
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/kohldev/asterix-engine/decode"
	"github.com/kohldev/asterix-engine/idefix/internal/asxreader"
	"github.com/kohldev/asterix-engine/idefix/internal/capture"
	"github.com/kohldev/asterix-engine/idefix/internal/decoder"
	"github.com/kohldev/asterix-engine/idefix/internal/stats"
	"github.com/spf13/cobra"
)

var (
	portFlag   string
	outputFile string
	captureOut string
	timeout    int
	statsEvery int
)

func init() {
	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "Dump ASTERIX blocks from network traffic",
		Long: `Listen on a specified port and dump decoded ASTERIX blocks to stdout or a file.
Example: idefix dump -p 2000/udp

This command listens for ASTERIX traffic on the specified port and protocol,
decodes it against the loaded catalogue, and outputs the decoded information
in a human-readable format.`,
		Example: `  # Dump from UDP port 2000 using the built-in CAT048 catalogue
  idefix dump -p 2000/udp

  # Dump from TCP port 8600 using an XML catalogue, saving to file
  idefix dump -p 8600/tcp --catalogue cat048.xml -o asterix_data.txt`,
		RunE: runDump,
	}

	dumpCmd.Flags().StringVarP(&portFlag, "port", "p", "", "Port to listen on with protocol (e.g., 2000/udp)")
	dumpCmd.MarkFlagRequired("port")
	dumpCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	dumpCmd.Flags().StringVar(&captureOut, "capture-out", "", "Record raw datagrams to a zstd-compressed capture file")
	dumpCmd.Flags().IntVar(&timeout, "timeout", 0, "Timeout in seconds (0 = no timeout)")
	dumpCmd.Flags().IntVar(&statsEvery, "stats", 0, "Print stats every N seconds (0 = no stats)")
	addCatalogueFlags(dumpCmd)

	rootCmd.AddCommand(dumpCmd)
}

func runDump(cmd *cobra.Command, args []string) error {
	logger := ConfigureLogger(Verbose, JsonLogs)

	parts := strings.Split(portFlag, "/")
	if len(parts) != 2 {
		return fmt.Errorf("invalid port format, use PORT/PROTOCOL, e.g., 2000/udp")
	}

	port, err := strconv.Atoi(parts[0])
	if err != nil {
		return fmt.Errorf("invalid port number: %w", err)
	}

	protocol := strings.ToLower(parts[1])
	if protocol != "udp" && protocol != "tcp" {
		return fmt.Errorf("protocol must be either 'udp' or 'tcp'")
	}

	var out *os.File
	if outputFile == "" {
		out = os.Stdout
	} else {
		out, err = os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer out.Close()
	}

	logger.Info("Loading catalogue")
	cat, err := decoder.CreateCatalogue(catalogueConfig())
	if err != nil {
		return fmt.Errorf("failed to load catalogue: %w", err)
	}

	logger.Info("Creating ASTERIX reader", "protocol", protocol, "port", port)
	reader, err := asxreader.NewAsterixReader(protocol, port, cat)
	if err != nil {
		return fmt.Errorf("failed to create ASTERIX reader: %w", err)
	}
	defer reader.Close()

	logger.Info("Listening for ASTERIX traffic", "protocol", reader.Protocol(), "port", port)

	var capWriter *capture.Writer
	if captureOut != "" {
		capWriter, err = capture.Create(captureOut)
		if err != nil {
			return fmt.Errorf("failed to open capture file: %w", err)
		}
		defer capWriter.Close()
		logger.Info("Recording capture", "file", captureOut)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	if timeout > 0 {
		go func() {
			select {
			case <-time.After(time.Duration(timeout) * time.Second):
				logger.Info("Timeout reached, initiating shutdown", "timeout_seconds", timeout)
				cancel()
			case <-ctx.Done():
				return
			}
		}()
	}

	messageStats := stats.NewMessageStats()

	if statsEvery > 0 {
		go func() {
			ticker := time.NewTicker(time.Duration(statsEvery) * time.Second)
			defer ticker.Stop()

			for {
				select {
				case <-ticker.C:
					messageStats.LogStats(logger, false)
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	processDone := make(chan error, 1)
	go func() {
		processDone <- processMessages(ctx, reader, out, logger, messageStats, capWriter)
	}()

	var result error
	select {
	case <-sigCh:
		logger.Info("Received shutdown signal, terminating")
		cancel()
		select {
		case err := <-processDone:
			result = err
		case <-time.After(2 * time.Second):
			logger.Info("Forced shutdown after timeout")
		}
	case err := <-processDone:
		logger.Info("Message processing completed")
		result = err
	}

	messageStats.LogStats(logger, true)
	return result
}

func processMessages(
	ctx context.Context,
	reader asxreader.AsterixReader,
	out *os.File,
	logger *slog.Logger,
	msgStats *stats.MessageStats,
	capWriter *capture.Writer,
) error {
	logger.Debug("Starting block processing loop")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Block processing canceled")
			return nil
		default:
		}

		if setDeadliner, ok := reader.(asxreader.DeadlineSetter); ok {
			setDeadliner.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
		}

		blk, err := reader.Next()
		if err != nil {
			if err == io.EOF {
				logger.Info("Connection closed")
				return nil
			}
			if isTimeoutError(err) {
				continue
			}
			if shouldSuppressError(err, Verbose) {
				continue
			}
			logger.Error("Error reading block", "error", err)
			continue
		}
		if blk == nil {
			continue
		}

		msgStats.IncrementCategory(blk.Category)
		fmt.Fprintln(out, formatBlock(blk))

		if capWriter != nil && len(blk.Raw) > 0 {
			if err := capWriter.WriteBlock(blk.Raw); err != nil {
				logger.Error("Error recording capture", "error", err)
			}
		}

		logger.Debug("Processed block", "category", blk.Category, "records", len(blk.Records))
	}
}

func formatBlock(blk *decode.DataBlock) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Category %d block (%d bytes, %d records, ok=%v)\n",
		blk.Category, blk.Length, len(blk.Records), blk.Ok)
	for i, rec := range blk.Records {
		fmt.Fprintf(&sb, "  Record #%d:\n", i+1)
		for _, item := range rec.Items {
			name := item.Description.Name
			fmt.Fprintf(&sb, "    %s (%s): ok=%v\n", item.Description.ID, name, item.Ok)
		}
	}
	return sb.String()
}

// shouldSuppressError determines if an error should be suppressed based on context
func shouldSuppressError(err error, verbose bool) bool {
	if err == nil {
		return false
	}
	if verbose {
		return false
	}
	var decErr *decode.DecodeError
	return errors.As(err, &decErr) && decErr.Kind == decode.KindItem
}

// isTimeoutError checks if an error is a timeout error
func isTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	if netErr, ok := err.(interface{ Timeout() bool }); ok && netErr.Timeout() {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "i/o timeout") ||
		strings.Contains(errStr, "deadline exceeded")
}
