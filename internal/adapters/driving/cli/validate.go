package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/medvault-labs/medvault-cli/internal/core/domain"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Run safety checks over a response",
	Long: `Runs the medical safety checks over an assistant response read
from a JSON file (or stdin when the argument is "-"). Useful for
checking responses produced elsewhere against the drug directory,
dosage format, and risky-language rules.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	if assistantService == nil {
		return errors.New("assistant service not configured")
	}

	data, err := readValidateInput(args[0])
	if err != nil {
		return err
	}

	var response domain.AssistantResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return fmt.Errorf("failed to parse response JSON: %w", err)
	}

	result := assistantService.Validate(&response)

	if result.IsValid {
		cmd.Println("No safety flags raised.")
		return nil
	}

	cmd.Printf("%d safety flags:\n", len(result.Flags))
	for _, flag := range result.Flags {
		cmd.Printf("  ! %s\n", flag)
	}
	return nil
}

func readValidateInput(arg string) ([]byte, error) {
	if arg == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(arg)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", arg, err)
	}
	return data, nil
}
