package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/medvault-labs/medvault-cli/internal/core/domain"
)

var askJSON bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about your documents",
	Long: `Answers a question grounded in your ingested documents.
Relevant passages are retrieved from the vault, the answer is generated
from them, and the result is screened by the medical safety checks.
Safety flags are advisory: they are shown alongside the answer, never
instead of it.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the full result as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if assistantService == nil {
		return errors.New("assistant service not configured")
	}

	question := args[0]
	ctx := context.Background()

	result, err := assistantService.Ask(ctx, currentOwner(), question)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		return outputAnswerJSON(cmd, result)
	}

	return outputAnswerText(cmd, result)
}

func outputAnswerJSON(cmd *cobra.Command, result *domain.AnswerResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputAnswerText(cmd *cobra.Command, result *domain.AnswerResult) error {
	cmd.Println(result.Response.VoiceSummary)

	if entries := result.Response.StructuredData.MedicationEntries(); len(entries) > 0 {
		cmd.Println("\nMedications:")
		for _, e := range entries {
			line := "  - " + e.DrugName
			if e.Dosage != "" {
				line += ", " + e.Dosage
			}
			if e.Frequency != "" {
				line += ", " + e.Frequency
			}
			cmd.Println(line)
		}
	}

	if !result.Validation.IsValid {
		cmd.Println("\nSafety flags:")
		for _, flag := range result.Validation.Flags {
			cmd.Printf("  ! %s\n", flag)
		}
	}

	if len(result.Sources) > 0 {
		cmd.Println("\nSources:")
		for i := range result.Sources {
			cmd.Printf("  [%d] %s, part %d (%.2f)\n",
				i+1, result.Sources[i].FileName, result.Sources[i].ChunkIndex+1, result.Sources[i].Score)
		}
	}

	return nil
}
