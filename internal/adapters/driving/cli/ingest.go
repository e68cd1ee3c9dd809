package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var ingestWait bool

var ingestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Ingest documents into the vault",
	Long: `Extracts text from each file, chunks it, embeds the chunks, and
stores everything locally. A summary is generated in the background;
use "medvault document status" to check on it, or pass --wait.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestWait, "wait", false, "wait for background summarisation to finish")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	owner := currentOwner()
	ctx := context.Background()

	var failed int
	for _, path := range args {
		result, err := ingestService.IngestFile(ctx, owner, path)
		if err != nil {
			cmd.PrintErrf("Failed to ingest %s: %v\n", path, err)
			failed++
			continue
		}

		switch {
		case result.AlreadyExists:
			cmd.Printf("Skipped %s: already in the vault as %s\n", path, result.Document.ID)
		case result.UsedPlaceholder:
			cmd.Printf("Ingested %s as %s (no readable text; stored a placeholder)\n", path, result.Document.ID)
		default:
			cmd.Printf("Ingested %s as %s (%d chunks)\n", path, result.Document.ID, result.ChunkCount)
		}
	}

	if ingestWait {
		cmd.Println("Waiting for summarisation...")
		ingestService.Wait()
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to ingest", failed, len(args))
	}
	return nil
}
