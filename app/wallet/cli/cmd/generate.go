package cmd

import (
	"fmt"
	"os"

	"github.com/ardanlabs/radcoin/foundation/blockchain/signature"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate new key pair",
	RunE:  generateRun,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func generateRun(cmd *cobra.Command, args []string) error {
	path := getPrivateKeyPath()

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("key file %q already exists", path)
	}

	kp, err := signature.GenerateKeyPair()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(accountPath, 0755); err != nil {
		return err
	}

	if err := kp.Save(path); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), kp.PublicKey())
	return nil
}
