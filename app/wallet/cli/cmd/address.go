package cmd

import (
	"fmt"

	"github.com/ardanlabs/radcoin/foundation/blockchain/signature"
	"github.com/spf13/cobra"
)

var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "Print the public key for the specific wallet",
	RunE:  addressRun,
}

func init() {
	rootCmd.AddCommand(addressCmd)
}

func addressRun(cmd *cobra.Command, args []string) error {
	kp, err := signature.LoadKeyPair(getPrivateKeyPath())
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), kp.PublicKey())
	return nil
}
