package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/ardanlabs/radcoin/foundation/blockchain/database"
	"github.com/spf13/cobra"
)

var (
	url  string
	file string
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify the signature of a signed transfer",
	RunE:  verifyRun,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().StringVarP(&url, "url", "u", "", "Url of the node, verifies locally when empty.")
	verifyCmd.Flags().StringVarP(&file, "file", "f", "-", "File with the signed transfer, - for stdin.")
}

func verifyRun(cmd *cobra.Command, args []string) error {
	var r io.Reader = cmd.InOrStdin()
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	var valid bool
	switch url {
	case "":
		valid, err = verifyLocal(data)
	default:
		valid, err = verifyRemote(url, data)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), valid)
	return nil
}

func verifyLocal(data []byte) (bool, error) {
	var signedTx database.SignedTx
	if err := json.Unmarshal(data, &signedTx); err != nil {
		return false, fmt.Errorf("decoding signed tx: %w", err)
	}

	err := signedTx.Validate()
	if err != nil && !errors.Is(err, database.ErrInvalidSignature) {
		return false, err
	}

	return err == nil, nil
}

func verifyRemote(url string, data []byte) (bool, error) {
	resp, err := http.Post(fmt.Sprintf("%s/v1/tx/verify", url), "application/json", bytes.NewBuffer(data))
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return false, fmt.Errorf("node returned %s: %s", resp.Status, msg)
	}

	var result struct {
		Valid bool `json:"valid"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, err
	}

	return result.Valid, nil
}
