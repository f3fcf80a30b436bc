package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/netmatch/internal/backend"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <Connections.csv>",
	Short: "Upload a LinkedIn connections export and start a new session",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		runView("upload", func(ctx context.Context, e *env) error {
			return upload(ctx, e, args[0])
		})
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

// upload sends the export and stores the new token. Any failure leaves no token behind.
func upload(ctx context.Context, e *env, path string) error {
	result, err := uploadFile(ctx, e, path)
	if err == nil {
		err = e.session.Set(ctx, result.SessionID)
	}

	if err != nil {
		if clearErr := e.session.Clear(ctx); clearErr != nil {
			e.logger.Warn("clearing the session", zap.Error(clearErr))
		}
		pterm.Error.Printfln("Upload failed: %s", backend.Message(err))
		return fmt.Errorf("uploading connections from %s: %w", path, err)
	}

	e.logger.Info("connections uploaded",
		zap.Int("connections", result.Connections),
		zap.String("message", result.Message),
	)

	if result.Connections > 0 {
		pterm.Success.Printfln("Uploaded %s connections.", humanize.Comma(int64(result.Connections)))
	} else {
		pterm.Success.Println("Connections uploaded.")
	}
	if result.Message != "" {
		pterm.Info.Println(result.Message)
	}

	return nil
}

func uploadFile(ctx context.Context, e *env, path string) (*backend.UploadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	bar := pb.New64(info.Size()).SetTemplate(pb.Full).SetWriter(os.Stderr).Set(pb.Bytes, true).Start()
	defer bar.Finish()

	return e.client.UploadConnections(ctx, path, bar.NewProxyReader(f))
}
