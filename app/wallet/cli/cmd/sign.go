package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ardanlabs/radcoin/foundation/blockchain/database"
	"github.com/ardanlabs/radcoin/foundation/blockchain/signature"
	"github.com/spf13/cobra"
)

var (
	to     string
	amount string
	coin   string
)

// signCmd represents the sign command
var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "Sign a transfer and print it as JSON",
	RunE:  signRun,
}

func init() {
	rootCmd.AddCommand(signCmd)
	signCmd.Flags().StringVarP(&to, "to", "t", "", "Public key of the receiver.")
	signCmd.Flags().StringVarP(&amount, "amount", "v", "0", "Amount to send, up to 9 decimals.")
	signCmd.Flags().StringVarP(&coin, "coin", "c", "radcoin", "Coin to send: radcoin or bwtoken.")
}

func signRun(cmd *cobra.Command, args []string) error {
	kp, err := signature.LoadKeyPair(getPrivateKeyPath())
	if err != nil {
		return err
	}

	toKey, err := signature.ParsePublicKey(to)
	if err != nil {
		return fmt.Errorf("to: %w", err)
	}

	value, err := database.ParseAmount(amount)
	if err != nil {
		return fmt.Errorf("amount: %w", err)
	}

	c, err := database.ParseCoin(coin)
	if err != nil {
		return fmt.Errorf("coin: %w", err)
	}

	tx, err := database.NewTx(value, c, kp.PublicKey(), toKey, time.Now().UTC().UnixMilli())
	if err != nil {
		return err
	}

	signedTx, err := tx.Sign(kp)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(signedTx, "", "  ")
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
